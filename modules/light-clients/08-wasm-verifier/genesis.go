package verifier

import (
	sdk "github.com/cosmos/cosmos-sdk/types"

	clienttypes "github.com/cosmos/ibc-verifier/modules/core/02-client/types"
)

// ExportMetadata exports all the consensus metadata in the client store so they
// can be included in clients genesis and imported by a ClientKeeper. The record
// of the misbehaviour that froze the client is exported as well.
func (cs ClientState) ExportMetadata(store sdk.KVStore) []clienttypes.GenesisMetadata {
	gm := make([]clienttypes.GenesisMetadata, 0)
	IterateConsensusMetadata(store, func(key, val []byte) bool {
		gm = append(gm, clienttypes.NewGenesisMetadata(key, val))
		return false
	})

	if bz := store.Get([]byte(KeyMisbehaviour)); len(bz) != 0 {
		gm = append(gm, clienttypes.NewGenesisMetadata([]byte(KeyMisbehaviour), bz))
	}

	if len(gm) == 0 {
		return nil
	}
	return gm
}
