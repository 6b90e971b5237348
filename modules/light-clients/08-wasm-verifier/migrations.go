package verifier

import (
	"sort"

	sdk "github.com/cosmos/cosmos-sdk/types"

	clienttypes "github.com/cosmos/ibc-verifier/modules/core/02-client/types"
)

// MigrateStore performs in-place store migrations from schema version 1 to
// version 2. The migration:
//
//   - adds the iteration key and processed time/height metadata to every stored
//     consensus state that lacks them, using the host environment as processed values
//   - prunes all expired consensus states except the one at the latest height
//   - records the store version
//
// Running it on a store already at version 2 only prunes.
func MigrateStore(env Env, clientStore sdk.KVStore, clientState *ClientState) []clienttypes.Height {
	var heights []clienttypes.Height
	IterateConsensusStateHeights(clientStore, func(height clienttypes.Height) bool {
		heights = append(heights, height)
		return false
	})

	// store keys order heights lexically, metadata is added in height order
	sort.Slice(heights, func(i, j int) bool { return heights[i].LT(heights[j]) })

	for _, height := range heights {
		addConsensusMetadata(env, clientStore, height)
	}

	pruned := PruneAllExpiredConsensusStates(env, clientStore, clientState)
	setStoreVersion(clientStore, CurrentStoreVersion)

	return pruned
}

// addConsensusMetadata writes the metadata values missing for the consensus
// state at the given height. Existing values are kept.
func addConsensusMetadata(env Env, clientStore sdk.KVStore, height clienttypes.Height) {
	if _, ok := GetProcessedTime(clientStore, height); !ok {
		SetProcessedTime(clientStore, height, env.Now())
	}
	if _, ok := GetProcessedHeight(clientStore, height); !ok {
		SetProcessedHeight(clientStore, height, env.SelfHeight())
	}
	if len(GetIterationKey(clientStore, height)) == 0 {
		SetIterationKey(clientStore, height)
	}
}
