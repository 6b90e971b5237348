package verifier

import (
	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
	"github.com/ethereum/go-ethereum/crypto"

	clienttypes "github.com/cosmos/ibc-verifier/modules/core/02-client/types"
	"github.com/cosmos/ibc-verifier/modules/core/exported"
)

// CheckForMisbehaviour detects duplicate height misbehaviour and BFT time violation misbehaviour
// in a submitted Header message and verifies the correctness of a submitted Misbehaviour ClientMessage.
// Evidence is only counted when every header it carries would have been accepted by the client,
// so a header failing verification is reported as no misbehaviour rather than as an error.
// An error is returned for messages that are not well formed.
func (cs *ClientState) CheckForMisbehaviour(
	env Env, clientStore sdk.KVStore, rule ConsensusRule,
	msg exported.ClientMessage,
) (bool, error) {
	switch msg := msg.(type) {
	case *Header:
		if err := msg.ValidateBasic(); err != nil {
			return false, sdkerrors.Wrap(clienttypes.ErrInvalidClientMessage, err.Error())
		}

		consState, err := cs.verifyHeader(env, clientStore, rule, msg)
		if err != nil {
			return false, nil
		}

		height := msg.GetHeight()

		// Check if the Client store already has a consensus state for the header's height
		// If the consensus state exists, and it matches the header then there is no misbehaviour
		// since header has already been submitted in a previous update.
		if existingConsState, found := GetConsensusState(clientStore, height); found {
			return !existingConsState.Equal(consState), nil
		}

		// the previous consensus state is the trusted one, verifyHeader already enforces
		// a strictly increasing timestamp against it
		if _, nextConsState, ok := GetNextConsensusState(clientStore, height); ok && nextConsState.Timestamp <= consState.Timestamp {
			return true, nil
		}

		return false, nil
	case *Misbehaviour:
		if err := msg.ValidateBasic(); err != nil {
			return false, err
		}

		consState1, err := cs.verifyHeader(env, clientStore, rule, msg.Header1)
		if err != nil {
			return false, nil
		}
		consState2, err := cs.verifyHeader(env, clientStore, rule, msg.Header2)
		if err != nil {
			return false, nil
		}

		// if heights are equal check that this is valid misbehaviour of a fork
		// otherwise if heights are unequal check that this is valid misbehavior of BFT time violation
		if msg.Header1.GetHeight().EQ(msg.Header2.GetHeight()) {
			return !consState1.Equal(consState2), nil
		}

		// Header1 is at greater height than Header2, therefore Header1 time must be less than or equal to
		// Header2 time in order to be valid misbehaviour (violation of monotonic time).
		return msg.Header1.Timestamp <= msg.Header2.Timestamp, nil
	default:
		return false, sdkerrors.Wrapf(clienttypes.ErrInvalidClientMessage, "unexpected client message type %T", msg)
	}
}

// verifyMisbehaviour determines whether or not both headers of a Misbehaviour
// would have been accepted by the client.
func (cs *ClientState) verifyMisbehaviour(
	env Env, clientStore sdk.KVStore, rule ConsensusRule,
	misbehaviour *Misbehaviour,
) error {
	if err := misbehaviour.ValidateBasic(); err != nil {
		return err
	}

	if _, err := cs.verifyHeader(env, clientStore, rule, misbehaviour.Header1); err != nil {
		return sdkerrors.Wrap(err, "verifying Header1 in Misbehaviour failed")
	}
	if _, err := cs.verifyHeader(env, clientStore, rule, misbehaviour.Header2); err != nil {
		return sdkerrors.Wrap(err, "verifying Header2 in Misbehaviour failed")
	}

	return nil
}

// UpdateStateOnMisbehaviour updates state upon misbehaviour, freezing the ClientState.
// The evidence is checked again before freezing. Calling it on a frozen client is a no-op.
func (cs *ClientState) UpdateStateOnMisbehaviour(
	env Env, clientStore sdk.KVStore, rule ConsensusRule,
	clientMsg exported.ClientMessage,
) error {
	if cs.IsFrozen() {
		return nil
	}

	found, err := cs.CheckForMisbehaviour(env, clientStore, rule, clientMsg)
	if err != nil {
		return err
	}
	if !found {
		return sdkerrors.Wrap(clienttypes.ErrInvalidMisbehaviour, "no misbehaviour found in client message")
	}

	cs.freeze(env, clientStore, misbehaviourHeight(clientMsg), clientMsg)
	return nil
}

// freeze sets the frozen height and records the evidence that froze the client.
func (cs *ClientState) freeze(env Env, clientStore sdk.KVStore, height clienttypes.Height, evidence exported.ClientMessage) {
	cs.FrozenHeight = height
	setClientState(clientStore, cs)

	setMisbehaviourRecord(clientStore, &MisbehaviourRecord{
		Height:       height,
		DetectedAt:   env.Now(),
		EvidenceHash: crypto.Keccak256(MustMarshalClientMessage(evidence)),
	})
}

// misbehaviourHeight returns the height recorded as frozen height for the client message.
func misbehaviourHeight(clientMsg exported.ClientMessage) clienttypes.Height {
	switch msg := clientMsg.(type) {
	case *Header:
		return msg.GetHeight()
	case *Misbehaviour:
		return msg.GetHeight()
	default:
		return clienttypes.ZeroHeight()
	}
}
