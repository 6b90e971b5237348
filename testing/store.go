package ibctesting

import (
	"github.com/cosmos/cosmos-sdk/store/dbadapter"
	"github.com/cosmos/cosmos-sdk/store/prefix"
	sdk "github.com/cosmos/cosmos-sdk/types"
	dbm "github.com/tendermint/tm-db"

	host "github.com/cosmos/ibc-verifier/modules/core/24-host"
)

// NewMemKVStore returns a KVStore backed by an in-memory database.
func NewMemKVStore() sdk.KVStore {
	return dbadapter.Store{DB: dbm.NewMemDB()}
}

// NewClientStore returns the client prefixed store of the client with the given identifier.
func NewClientStore(parent sdk.KVStore, clientID string) sdk.KVStore {
	return prefix.NewStore(parent, host.FullClientKey(clientID, nil))
}
