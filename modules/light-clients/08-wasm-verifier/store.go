package verifier

import (
	"bytes"
	"encoding/binary"
	"strings"

	"github.com/cosmos/cosmos-sdk/store/prefix"
	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

	clienttypes "github.com/cosmos/ibc-verifier/modules/core/02-client/types"
	host "github.com/cosmos/ibc-verifier/modules/core/24-host"
	"github.com/cosmos/ibc-verifier/modules/core/exported"
)

const KeyIterateConsensusStatePrefix = "iterateConsensusStates"

var (
	// KeyProcessedTime is appended to consensus state key to store the processed time
	KeyProcessedTime = []byte("/processedTime")
	// KeyProcessedHeight is appended to consensus state key to store the processed height
	KeyProcessedHeight = []byte("/processedHeight")
	// KeyIteration stores the key mapping to consensus state key for efficient iteration
	KeyIteration = []byte("/iterationKey")
)

func bigEndianHeightBytes(height exported.Height) []byte {
	heightBytes := make([]byte, 16)
	binary.BigEndian.PutUint64(heightBytes, height.GetRevisionNumber())
	binary.BigEndian.PutUint64(heightBytes[8:], height.GetRevisionHeight())
	return heightBytes
}

// getClientState retrieves the client state from the client prefixed store.
// It returns false if the client has not been instantiated.
func getClientState(clientStore sdk.KVStore) (*ClientState, bool) {
	bz := clientStore.Get(host.ClientStateKey())
	if len(bz) == 0 {
		return nil, false
	}

	clientState, err := UnmarshalClientState(bz)
	if err != nil {
		return nil, false
	}
	return clientState, true
}

// setClientState stores the client state
func setClientState(clientStore sdk.KVStore, clientState *ClientState) {
	key := host.ClientStateKey()
	val := MustMarshalClientState(clientState)
	clientStore.Set(key, val)
}

// GetConsensusState retrieves the consensus state from the client prefixed store.
// If the ConsensusState does not exist in state for the provided height a nil value and false boolean flag is returned
func GetConsensusState(store sdk.KVStore, height exported.Height) (*ConsensusState, bool) {
	bz := store.Get(host.ConsensusStateKey(height))
	if len(bz) == 0 {
		return nil, false
	}

	consensusState, err := UnmarshalConsensusState(bz)
	if err != nil {
		return nil, false
	}
	return consensusState, true
}

// setConsensusState stores the consensus state at the given height. Writing the
// value already stored at the height is a no-op; writing a different value
// fails, consensus states are never overwritten.
func setConsensusState(clientStore sdk.KVStore, consensusState *ConsensusState, height exported.Height) error {
	key := host.ConsensusStateKey(height)
	val := MustMarshalConsensusState(consensusState)

	if existing := clientStore.Get(key); len(existing) != 0 {
		if bytes.Equal(existing, val) {
			return nil
		}
		return sdkerrors.Wrapf(clienttypes.ErrConsensusStateExists, "a different consensus state is already stored at height %s", height)
	}

	clientStore.Set(key, val)
	return nil
}

// deleteConsensusState deletes the consensus state at the given height
func deleteConsensusState(clientStore sdk.KVStore, height exported.Height) {
	key := host.ConsensusStateKey(height)
	clientStore.Delete(key)
}

// IterateConsensusMetadata iterates through the prefix store and applies the callback.
// If the cb returns true, then iterator will close and stop.
func IterateConsensusMetadata(store sdk.KVStore, cb func(key, val []byte) bool) {
	iterator := sdk.KVStorePrefixIterator(store, []byte(host.KeyConsensusStatePrefix))

	// iterate over processed time and processed height
	defer iterator.Close()
	for ; iterator.Valid(); iterator.Next() {
		keySplit := strings.Split(string(iterator.Key()), "/")
		// processed time key in prefix store has format: "consensusState/<height>/processedTime"
		if len(keySplit) != 3 {
			// ignore all consensus state keys
			continue
		}

		if keySplit[2] != "processedTime" && keySplit[2] != "processedHeight" {
			// only perform callback on consensus metadata
			continue
		}

		if cb(iterator.Key(), iterator.Value()) {
			break
		}
	}

	// iterate over iteration keys
	iterKeys := sdk.KVStorePrefixIterator(store, []byte(KeyIterateConsensusStatePrefix))
	defer iterKeys.Close()
	for ; iterKeys.Valid(); iterKeys.Next() {
		if cb(iterKeys.Key(), iterKeys.Value()) {
			break
		}
	}
}

// IterateConsensusStateHeights iterates the heights of every consensus state key in the
// store, whether or not it has been indexed. It does not rely on iteration keys.
func IterateConsensusStateHeights(store sdk.KVStore, cb func(height clienttypes.Height) bool) {
	iterator := sdk.KVStorePrefixIterator(store, []byte(host.KeyConsensusStatePrefix+"/"))
	defer iterator.Close()

	for ; iterator.Valid(); iterator.Next() {
		keySplit := strings.Split(string(iterator.Key()), "/")
		// consensus state key in prefix store has format: "consensusStates/<height>"
		if len(keySplit) != 2 {
			continue
		}

		height, err := clienttypes.ParseHeight(keySplit[1])
		if err != nil {
			continue
		}

		if cb(height) {
			break
		}
	}
}

// SetProcessedTime stores the time at which a header was processed and the corresponding consensus state was created.
// This is useful when validating whether a packet has reached the time specified delay period in the verifier client's
// verification functions
func SetProcessedTime(clientStore sdk.KVStore, height exported.Height, timeNs uint64) {
	key := ProcessedTimeKey(height)
	val := sdk.Uint64ToBigEndian(timeNs)
	clientStore.Set(key, val)
}

// GetProcessedTime gets the time (in nanoseconds) at which this chain received and processed a header.
// This is used to validate that a received packet has passed the time delay period.
func GetProcessedTime(clientStore sdk.KVStore, height exported.Height) (uint64, bool) {
	key := ProcessedTimeKey(height)
	bz := clientStore.Get(key)
	if len(bz) == 0 {
		return 0, false
	}
	return sdk.BigEndianToUint64(bz), true
}

// deleteProcessedTime deletes the processedTime for a given height
func deleteProcessedTime(clientStore sdk.KVStore, height exported.Height) {
	key := ProcessedTimeKey(height)
	clientStore.Delete(key)
}

// ProcessedTimeKey returns the key under which the processed time will be stored in the client store.
func ProcessedTimeKey(height exported.Height) []byte {
	return append(host.ConsensusStateKey(height), KeyProcessedTime...)
}

// SetProcessedHeight stores the height at which a header was processed and the corresponding consensus state was created.
// This is useful when validating whether a packet has reached the specified block delay period in the verifier client's
// verification functions
func SetProcessedHeight(clientStore sdk.KVStore, consHeight, processedHeight exported.Height) {
	key := ProcessedHeightKey(consHeight)
	val := []byte(processedHeight.String())
	clientStore.Set(key, val)
}

// GetProcessedHeight gets the height at which this chain received and processed a header.
// This is used to validate that a received packet has passed the block delay period.
func GetProcessedHeight(clientStore sdk.KVStore, height exported.Height) (clienttypes.Height, bool) {
	key := ProcessedHeightKey(height)
	bz := clientStore.Get(key)
	if len(bz) == 0 {
		return clienttypes.Height{}, false
	}
	processedHeight, err := clienttypes.ParseHeight(string(bz))
	if err != nil {
		return clienttypes.Height{}, false
	}
	return processedHeight, true
}

// deleteProcessedHeight deletes the processedHeight for a given height
func deleteProcessedHeight(clientStore sdk.KVStore, height exported.Height) {
	key := ProcessedHeightKey(height)
	clientStore.Delete(key)
}

// ProcessedHeightKey returns the key under which the processed height will be stored in the client store.
func ProcessedHeightKey(height exported.Height) []byte {
	return append(host.ConsensusStateKey(height), KeyProcessedHeight...)
}

// IterationKey returns the key under which the consensus state key will be stored.
// The iteration key is a BigEndian representation of the consensus state key to support efficient iteration.
func IterationKey(height exported.Height) []byte {
	heightBytes := bigEndianHeightBytes(height)
	return append([]byte(KeyIterateConsensusStatePrefix), heightBytes...)
}

// SetIterationKey stores the consensus state key under a key that is more efficient for ordered iteration
func SetIterationKey(clientStore sdk.KVStore, height exported.Height) {
	key := IterationKey(height)
	val := host.ConsensusStateKey(height)
	clientStore.Set(key, val)
}

// GetIterationKey returns the consensus state key stored under the efficient iteration key.
// NOTE: This function is currently only used for testing purposes
func GetIterationKey(clientStore sdk.KVStore, height exported.Height) []byte {
	key := IterationKey(height)
	return clientStore.Get(key)
}

// deleteIterationKey deletes the iteration key for a given height
func deleteIterationKey(clientStore sdk.KVStore, height exported.Height) {
	key := IterationKey(height)
	clientStore.Delete(key)
}

// GetHeightFromIterationKey takes an iteration key and returns the height that it references
func GetHeightFromIterationKey(iterKey []byte) clienttypes.Height {
	bigEndianBytes := iterKey[len([]byte(KeyIterateConsensusStatePrefix)):]
	revisionBytes := bigEndianBytes[0:8]
	heightBytes := bigEndianBytes[8:]
	revision := binary.BigEndian.Uint64(revisionBytes)
	height := binary.BigEndian.Uint64(heightBytes)
	return clienttypes.NewHeight(revision, height)
}

// IterateConsensusStateAscending iterates through the consensus states in ascending order. It calls the provided
// callback on each height, until stop=true is returned.
func IterateConsensusStateAscending(clientStore sdk.KVStore, cb func(height clienttypes.Height) (stop bool)) {
	iterator := sdk.KVStorePrefixIterator(clientStore, []byte(KeyIterateConsensusStatePrefix))
	defer iterator.Close()

	for ; iterator.Valid(); iterator.Next() {
		iterKey := iterator.Key()
		height := GetHeightFromIterationKey(iterKey)
		if cb(height) {
			break
		}
	}
}

// GetNextConsensusState returns the lowest consensus state that is larger than the given height.
// The Iterator returns a storetypes.Iterator which iterates from start (inclusive) to end (exclusive).
// If the starting height exists in store, we need to call iterator.Next() to get the next consenus state.
// Otherwise, the iterator is already at the next consensus state so we can call iterator.Value() immediately.
func GetNextConsensusState(clientStore sdk.KVStore, height exported.Height) (clienttypes.Height, *ConsensusState, bool) {
	iterateStore := prefix.NewStore(clientStore, []byte(KeyIterateConsensusStatePrefix))
	iterator := iterateStore.Iterator(bigEndianHeightBytes(height), nil)
	defer iterator.Close()
	if !iterator.Valid() {
		return clienttypes.Height{}, nil, false
	}

	// if iterator is at current height, ignore the consensus state at current height and get next height
	// if iterator value is not at current height, it is already at next height.
	if bytes.Equal(iterator.Value(), host.ConsensusStateKey(height)) {
		iterator.Next()
		if !iterator.Valid() {
			return clienttypes.Height{}, nil, false
		}
	}

	return getConsensusStateAtIterator(clientStore, iterator.Key(), iterator.Value())
}

// GetPreviousConsensusState returns the highest consensus state that is lower than the given height.
// The Iterator returns a storetypes.Iterator which iterates from the end (exclusive) to start (inclusive).
// Thus to get previous consensus state we call iterator.Value() immediately.
func GetPreviousConsensusState(clientStore sdk.KVStore, height exported.Height) (clienttypes.Height, *ConsensusState, bool) {
	iterateStore := prefix.NewStore(clientStore, []byte(KeyIterateConsensusStatePrefix))
	iterator := iterateStore.ReverseIterator(nil, bigEndianHeightBytes(height))
	defer iterator.Close()

	if !iterator.Valid() {
		return clienttypes.Height{}, nil, false
	}

	return getConsensusStateAtIterator(clientStore, iterator.Key(), iterator.Value())
}

// Helper function for GetNextConsensusState and GetPreviousConsensusState. The key is
// an iteration key with the iteration prefix stripped.
func getConsensusStateAtIterator(clientStore sdk.KVStore, iterKey, csKey []byte) (clienttypes.Height, *ConsensusState, bool) {
	bz := clientStore.Get(csKey)
	if len(bz) == 0 {
		return clienttypes.Height{}, nil, false
	}

	consensusState, err := UnmarshalConsensusState(bz)
	if err != nil {
		return clienttypes.Height{}, nil, false
	}

	height := GetHeightFromIterationKey(append([]byte(KeyIterateConsensusStatePrefix), iterKey...))
	return height, consensusState, true
}

// setConsensusMetadata sets the host block time as processed time and the host height as processed height
// and sets the iteration key to provide ability for efficient ordered iteration of consensus states.
func setConsensusMetadata(env Env, clientStore sdk.KVStore, height exported.Height) {
	setConsensusMetadataWithValues(clientStore, height, env.SelfHeight(), env.Now())
}

// setConsensusMetadataWithValues sets the consensus metadata with the provided values
func setConsensusMetadataWithValues(
	clientStore sdk.KVStore, height,
	processedHeight exported.Height,
	processedTime uint64,
) {
	SetProcessedTime(clientStore, height, processedTime)
	SetProcessedHeight(clientStore, height, processedHeight)
	SetIterationKey(clientStore, height)
}

// deleteConsensusMetadata deletes the metadata stored for a particular consensus state.
func deleteConsensusMetadata(clientStore sdk.KVStore, height exported.Height) {
	deleteProcessedTime(clientStore, height)
	deleteProcessedHeight(clientStore, height)
	deleteIterationKey(clientStore, height)
}

// getMisbehaviourRecord returns the record written when the client was frozen.
func getMisbehaviourRecord(clientStore sdk.KVStore) (*MisbehaviourRecord, bool) {
	bz := clientStore.Get([]byte(KeyMisbehaviour))
	if len(bz) == 0 {
		return nil, false
	}

	record, err := UnmarshalMisbehaviourRecord(bz)
	if err != nil {
		return nil, false
	}
	return record, true
}

// setMisbehaviourRecord stores the record of the misbehaviour that froze the client.
func setMisbehaviourRecord(clientStore sdk.KVStore, record *MisbehaviourRecord) {
	bz, err := MarshalMisbehaviourRecord(record)
	if err != nil {
		panic(err)
	}
	clientStore.Set([]byte(KeyMisbehaviour), bz)
}

// getStoreVersion returns the schema version of the client store. Stores written
// before versioning was introduced report StoreVersion1.
func getStoreVersion(clientStore sdk.KVStore) uint64 {
	bz := clientStore.Get([]byte(KeyStoreVersion))
	if len(bz) == 0 {
		return StoreVersion1
	}
	return sdk.BigEndianToUint64(bz)
}

// setStoreVersion stores the schema version of the client store.
func setStoreVersion(clientStore sdk.KVStore, version uint64) {
	clientStore.Set([]byte(KeyStoreVersion), sdk.Uint64ToBigEndian(version))
}

// clearClientStore deletes every key of the client store, so that no consensus
// state or metadata of a previous client survives re-instantiation.
func clearClientStore(clientStore sdk.KVStore) {
	iterator := clientStore.Iterator(nil, nil)
	var keys [][]byte
	for ; iterator.Valid(); iterator.Next() {
		keys = append(keys, iterator.Key())
	}
	iterator.Close()

	for _, key := range keys {
		clientStore.Delete(key)
	}
}
