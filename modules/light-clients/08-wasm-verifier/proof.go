package verifier

import (
	"errors"

	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

	clienttypes "github.com/cosmos/ibc-verifier/modules/core/02-client/types"
	commitmenttypes "github.com/cosmos/ibc-verifier/modules/core/23-commitment/types"
)

// VerifyMembership is a generic proof verification method which verifies a proof of the existence of a value at a given CommitmentPath at the specified height.
// The caller is expected to construct the full CommitmentPath from a CommitmentPrefix and a standardized path (as defined in ICS 24).
// If a zero proof height is passed in, it will fail to retrieve the associated consensus state.
func (cs ClientState) VerifyMembership(
	env Env, clientStore sdk.KVStore, schemes *commitmenttypes.SchemeRouter,
	height clienttypes.Height, delayTimePeriod, delayBlockPeriod uint64,
	proof []byte, path commitmenttypes.MerklePath, value []byte,
) error {
	consensusState, scheme, err := cs.proofContext(env, clientStore, schemes, height, delayTimePeriod, delayBlockPeriod)
	if err != nil {
		return err
	}

	if err := scheme.VerifyMembership(consensusState.GetRoot(), proof, path, value); err != nil {
		return toInvalidProof(err)
	}

	return nil
}

// VerifyNonMembership is a generic proof verification method which verifies the absence of a given CommitmentPath at a specified height.
// The caller is expected to construct the full CommitmentPath from a CommitmentPrefix and a standardized path (as defined in ICS 24).
// If a zero proof height is passed in, it will fail to retrieve the associated consensus state.
func (cs ClientState) VerifyNonMembership(
	env Env, clientStore sdk.KVStore, schemes *commitmenttypes.SchemeRouter,
	height clienttypes.Height, delayTimePeriod, delayBlockPeriod uint64,
	proof []byte, path commitmenttypes.MerklePath,
) error {
	consensusState, scheme, err := cs.proofContext(env, clientStore, schemes, height, delayTimePeriod, delayBlockPeriod)
	if err != nil {
		return err
	}

	if err := scheme.VerifyNonMembership(consensusState.GetRoot(), proof, path); err != nil {
		return toInvalidProof(err)
	}

	return nil
}

// proofContext checks the preconditions shared by membership and non-membership
// verification and returns the consensus state and proof scheme to verify with.
// The frozen check comes before any proof is inspected.
func (cs ClientState) proofContext(
	env Env, clientStore sdk.KVStore, schemes *commitmenttypes.SchemeRouter,
	height clienttypes.Height, delayTimePeriod, delayBlockPeriod uint64,
) (*ConsensusState, commitmenttypes.ProofScheme, error) {
	if cs.IsFrozen() {
		return nil, nil, sdkerrors.Wrapf(clienttypes.ErrClientFrozen, "client is frozen at height %s", cs.FrozenHeight)
	}

	consensusState, found := GetConsensusState(clientStore, height)
	if !found {
		return nil, nil, sdkerrors.Wrapf(clienttypes.ErrConsensusStateNotFound, "please ensure the proof was constructed against a height that exists on the client (height %s)", height)
	}

	if err := verifyDelayPeriodPassed(env, clientStore, height, delayTimePeriod, delayBlockPeriod); err != nil {
		return nil, nil, err
	}

	scheme, err := schemes.GetRoute(cs.ProofScheme)
	if err != nil {
		return nil, nil, err
	}

	return consensusState, scheme, nil
}

// toInvalidProof maps every verification failure onto ErrInvalidProof.
func toInvalidProof(err error) error {
	if errors.Is(err, commitmenttypes.ErrInvalidProof) {
		return err
	}
	return sdkerrors.Wrap(commitmenttypes.ErrInvalidProof, err.Error())
}

// verifyDelayPeriodPassed will ensure that at least delayTimePeriod amount of time and delayBlockPeriod number of blocks have passed
// since consensus state was submitted before allowing verification to continue.
func verifyDelayPeriodPassed(env Env, store sdk.KVStore, proofHeight clienttypes.Height, delayTimePeriod, delayBlockPeriod uint64) error {
	if delayTimePeriod != 0 {
		// check that executing chain's timestamp has passed consensusState's processed time + delay time period
		processedTime, ok := GetProcessedTime(store, proofHeight)
		if !ok {
			return sdkerrors.Wrapf(ErrProcessedTimeNotFound, "processed time not found for height: %s", proofHeight)
		}

		currentTimestamp := env.Now()
		validTime := processedTime + delayTimePeriod
		if validTime < processedTime {
			return sdkerrors.Wrapf(ErrDelayPeriodNotPassed, "delay time period %d overflows processed time %d", delayTimePeriod, processedTime)
		}

		// NOTE: delay time period is inclusive, so if currentTimestamp is validTime, then we return no error
		if currentTimestamp < validTime {
			return sdkerrors.Wrapf(ErrDelayPeriodNotPassed, "cannot verify packet until time: %d, current time: %d",
				validTime, currentTimestamp)
		}
	}

	if delayBlockPeriod != 0 {
		// check that executing chain's height has passed consensusState's processed height + delay block period
		processedHeight, ok := GetProcessedHeight(store, proofHeight)
		if !ok {
			return sdkerrors.Wrapf(ErrProcessedHeightNotFound, "processed height not found for height: %s", proofHeight)
		}

		currentHeight := env.SelfHeight()
		validRevisionHeight := processedHeight.GetRevisionHeight() + delayBlockPeriod
		if validRevisionHeight < processedHeight.GetRevisionHeight() {
			return sdkerrors.Wrapf(ErrDelayPeriodNotPassed, "delay block period %d overflows processed height %s", delayBlockPeriod, processedHeight)
		}
		validHeight := clienttypes.NewHeight(processedHeight.GetRevisionNumber(), validRevisionHeight)

		// NOTE: delay block period is inclusive, so if currentHeight is validHeight, then we return no error
		if currentHeight.LT(validHeight) {
			return sdkerrors.Wrapf(ErrDelayPeriodNotPassed, "cannot verify packet until height: %s, current height: %s",
				validHeight, currentHeight)
		}
	}

	return nil
}
