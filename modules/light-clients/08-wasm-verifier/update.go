package verifier

import (
	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

	clienttypes "github.com/cosmos/ibc-verifier/modules/core/02-client/types"
	"github.com/cosmos/ibc-verifier/modules/core/exported"
)

// VerifyClientMessage checks if the clientMessage is of type Header or Misbehaviour and verifies the message
func (cs *ClientState) VerifyClientMessage(
	env Env, clientStore sdk.KVStore, rule ConsensusRule,
	clientMsg exported.ClientMessage,
) error {
	if cs.IsFrozen() {
		return sdkerrors.Wrapf(clienttypes.ErrClientFrozen, "client is frozen at height %s", cs.FrozenHeight)
	}

	switch msg := clientMsg.(type) {
	case *Header:
		_, err := cs.verifyHeader(env, clientStore, rule, msg)
		return err
	case *Misbehaviour:
		return cs.verifyMisbehaviour(env, clientStore, rule, msg)
	default:
		return sdkerrors.Wrapf(clienttypes.ErrInvalidClientMessage, "unexpected client message type %T", clientMsg)
	}
}

// verifyHeader returns the consensus state the header commits to, or an error if:
// - the header is invalid or is for another chain
// - no trusted consensus state exists at or below the header height
// - header revision is not equal to trusted revision
// - the trusted consensus state has passed the trusting period
// - header timestamp is past the max clock drift in relation to the host time
// - header timestamp is less than or equal to the trusted timestamp
// - header height is further than the max height gap from the trusted height
// - the consensus rule rejects the header
//
// The trusted consensus state is the nearest one strictly below the header height.
// A header for the genesis height is checked against the genesis consensus state.
func (cs *ClientState) verifyHeader(
	env Env, clientStore sdk.KVStore, rule ConsensusRule,
	header *Header,
) (*ConsensusState, error) {
	if err := header.ValidateBasic(); err != nil {
		return nil, sdkerrors.Wrap(clienttypes.ErrInvalidHeader, err.Error())
	}
	if header.ChainId != cs.ChainId {
		return nil, sdkerrors.Wrapf(clienttypes.ErrInvalidHeader, "header chain id %s does not match client chain id %s", header.ChainId, cs.ChainId)
	}

	height := header.GetHeight()
	trustedHeight, trustedConsState, found := GetPreviousConsensusState(clientStore, height)
	if !found {
		trustedConsState, found = GetConsensusState(clientStore, height)
		if !found {
			return nil, sdkerrors.Wrapf(clienttypes.ErrInvalidHeader, "no trusted consensus state at or below height %s", height)
		}
		trustedHeight = height
	}

	if height.GetRevisionNumber() != trustedHeight.GetRevisionNumber() {
		return nil, sdkerrors.Wrapf(clienttypes.ErrInvalidHeader,
			"header height revision %d does not match trusted header revision %d",
			height.GetRevisionNumber(), trustedHeight.GetRevisionNumber())
	}

	now := env.Now()
	if cs.IsExpired(trustedConsState.Timestamp, now) {
		return nil, sdkerrors.Wrapf(clienttypes.ErrExpired,
			"trusted consensus state at height %s has expired (timestamp %d, trusting period %s, now %d)",
			trustedHeight, trustedConsState.Timestamp, cs.GetTrustingPeriod(), now)
	}

	if header.Timestamp >= now+cs.MaxClockDrift {
		return nil, sdkerrors.Wrapf(clienttypes.ErrInvalidHeader,
			"header timestamp %d is too far in the future (now %d, max clock drift %s)",
			header.Timestamp, now, cs.GetMaxClockDrift())
	}

	if height.GT(trustedHeight) {
		if header.Timestamp <= trustedConsState.Timestamp {
			return nil, sdkerrors.Wrapf(clienttypes.ErrInvalidHeader,
				"header timestamp %d must be greater than trusted timestamp %d", header.Timestamp, trustedConsState.Timestamp)
		}

		if cs.MaxHeightGap != 0 && height.GetRevisionHeight()-trustedHeight.GetRevisionHeight() > cs.MaxHeightGap {
			return nil, sdkerrors.Wrapf(clienttypes.ErrInvalidHeader,
				"header height %s is more than %d blocks ahead of trusted height %s", height, cs.MaxHeightGap, trustedHeight)
		}
	}

	consState, err := rule.Validate(cs, trustedHeight, trustedConsState, header)
	if err != nil {
		return nil, sdkerrors.Wrapf(clienttypes.ErrInvalidHeader, "failed to verify header against trusted height %s: %v", trustedHeight, err)
	}
	if err := consState.ValidateBasic(); err != nil {
		return nil, sdkerrors.Wrap(clienttypes.ErrInvalidHeader, err.Error())
	}

	return consState, nil
}

// UpdateState may be used to either create a consensus state for:
// - a future height greater than the latest client state height
// - a past height that was skipped during bisection
// If we are updating to a past height, a consensus state is created for that height to be persisted in client store
// If we are updating to a future height, the consensus state is created and the client state is updated to reflect
// the new latest height
// A list containing the updated consensus height is returned.
// Resubmitting a header that is already stored is a no-op and returns an empty list.
// A verified header that conflicts with stored state freezes the client and
// returns ErrMisbehaviourDetected; the caller must persist that transition.
func (cs *ClientState) UpdateState(
	env Env, clientStore sdk.KVStore, rule ConsensusRule,
	clientMsg exported.ClientMessage,
) ([]clienttypes.Height, error) {
	header, ok := clientMsg.(*Header)
	if !ok {
		return nil, sdkerrors.Wrapf(clienttypes.ErrInvalidClientMessage, "expected type %T, got %T", &Header{}, clientMsg)
	}

	if cs.IsFrozen() {
		return nil, sdkerrors.Wrapf(clienttypes.ErrClientFrozen, "client is frozen at height %s", cs.FrozenHeight)
	}

	height := header.GetHeight()
	existingConsState, found := GetConsensusState(clientStore, height)
	if found && existingConsState.Equal(header.ConsensusState()) {
		// header has already been submitted in a previous update
		return []clienttypes.Height{}, nil
	}

	consensusState, err := cs.verifyHeader(env, clientStore, rule, header)
	if err != nil {
		return nil, err
	}

	if found && !existingConsState.Equal(consensusState) {
		cs.freeze(env, clientStore, height, header)
		return nil, sdkerrors.Wrapf(clienttypes.ErrMisbehaviourDetected,
			"conflicting consensus state already stored at height %s", height)
	}

	if _, nextConsState, ok := GetNextConsensusState(clientStore, height); ok && nextConsState.Timestamp <= consensusState.Timestamp {
		cs.freeze(env, clientStore, height, header)
		return nil, sdkerrors.Wrapf(clienttypes.ErrMisbehaviourDetected,
			"header timestamp %d is not before the timestamp %d of the next consensus state", consensusState.Timestamp, nextConsState.Timestamp)
	}

	cs.pruneOldestConsensusState(env, clientStore)

	if err := setConsensusState(clientStore, consensusState, height); err != nil {
		return nil, err
	}
	setConsensusMetadata(env, clientStore, height)

	if height.GT(cs.LatestHeight) {
		cs.LatestHeight = height
	}
	setClientState(clientStore, cs)

	return []clienttypes.Height{height}, nil
}

// pruneOldestConsensusState will retrieve the earliest consensus state for this clientID and check if it is expired. If it is,
// that consensus state will be pruned from store along with all associated metadata. This will prevent the client store from
// becoming bloated with expired consensus states that can no longer be used for updates and packet verification.
// The consensus state at the latest height is never pruned.
func (cs ClientState) pruneOldestConsensusState(env Env, clientStore sdk.KVStore) (clienttypes.Height, bool) {
	var (
		pruneHeight clienttypes.Height
		found       bool
	)

	pruneCb := func(height clienttypes.Height) bool {
		consState, ok := GetConsensusState(clientStore, height)
		// this error should never occur
		if !ok {
			panic(sdkerrors.Wrapf(clienttypes.ErrConsensusStateNotFound, "failed to retrieve consensus state at height: %s", height))
		}

		if !height.EQ(cs.LatestHeight) && cs.IsExpired(consState.Timestamp, env.Now()) {
			pruneHeight = height
			found = true
		}

		return true
	}

	IterateConsensusStateAscending(clientStore, pruneCb)

	if found {
		deleteConsensusState(clientStore, pruneHeight)
		deleteConsensusMetadata(clientStore, pruneHeight)
	}

	return pruneHeight, found
}

// PruneAllExpiredConsensusStates iterates over all consensus states for a given
// client store. If a consensus state is expired, it is deleted and its metadata
// is deleted. The consensus state at the latest height is kept. The pruned
// heights are returned in ascending order.
func PruneAllExpiredConsensusStates(env Env, clientStore sdk.KVStore, clientState *ClientState) []clienttypes.Height {
	var heights []clienttypes.Height

	pruneCb := func(height clienttypes.Height) bool {
		consState, found := GetConsensusState(clientStore, height)
		// this error should never occur
		if !found {
			panic(sdkerrors.Wrapf(clienttypes.ErrConsensusStateNotFound, "failed to retrieve consensus state at height: %s", height))
		}

		if !height.EQ(clientState.LatestHeight) && clientState.IsExpired(consState.Timestamp, env.Now()) {
			heights = append(heights, height)
		}

		return false
	}

	IterateConsensusStateAscending(clientStore, pruneCb)

	for _, height := range heights {
		deleteConsensusState(clientStore, height)
		deleteConsensusMetadata(clientStore, height)
	}

	return heights
}
