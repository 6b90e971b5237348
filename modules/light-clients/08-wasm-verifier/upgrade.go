package verifier

import (
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

	clienttypes "github.com/cosmos/ibc-verifier/modules/core/02-client/types"
	commitmenttypes "github.com/cosmos/ibc-verifier/modules/core/23-commitment/types"
	"github.com/cosmos/ibc-verifier/modules/core/exported"
)

// VerifyUpgradeAndUpdateState checks if the upgraded client has been committed by the current client
// It will zero out all client-specific fields and verify all data in client state that must
// be the same across all valid verifier clients for the new chain.
// VerifyUpgrade will return an error if:
//   - the client has no upgrade path or is frozen
//   - the height of upgraded client is not greater than that of current client
//   - the upgraded client or consensus state are not valid
//   - the proofs of the upgraded client and consensus state do not verify against
//     the root of the consensus state at the latest height
//
// On success the upgraded client state is stored and returned.
func (cs ClientState) VerifyUpgradeAndUpdateState(
	env Env, clientStore sdk.KVStore, schemes *commitmenttypes.SchemeRouter,
	upgradedClient *ClientState, upgradedConsState *ConsensusState,
	upgradeClientProof, upgradeConsStateProof []byte,
) (*ClientState, error) {
	if len(cs.UpgradePath) == 0 {
		return nil, sdkerrors.Wrap(clienttypes.ErrInvalidUpgradeClient, "cannot upgrade client, no upgrade path set")
	}

	if cs.IsFrozen() {
		return nil, sdkerrors.Wrapf(clienttypes.ErrClientFrozen, "cannot upgrade client frozen at height %s", cs.FrozenHeight)
	}

	if upgradedClient == nil || upgradedConsState == nil {
		return nil, sdkerrors.Wrap(clienttypes.ErrInvalidUpgradeClient, "upgraded client and consensus state must be provided")
	}

	// last height of current counterparty chain must be client's latest height
	lastHeight := cs.LatestHeight

	if !upgradedClient.LatestHeight.GT(lastHeight) {
		return nil, sdkerrors.Wrapf(clienttypes.ErrInvalidHeight, "upgraded client height %s must be greater than current client height %s",
			upgradedClient.LatestHeight, lastHeight)
	}

	if err := upgradedConsState.ValidateBasic(); err != nil {
		return nil, sdkerrors.Wrap(clienttypes.ErrInvalidConsensus, err.Error())
	}

	scheme, err := schemes.GetRoute(cs.ProofScheme)
	if err != nil {
		return nil, err
	}

	// Must prove against latest consensus state to ensure we are verifying against latest upgrade plan
	// This verifies that upgrade is intended for the provided revision, since committed client must exist
	// at this consensus state
	consState, found := GetConsensusState(clientStore, lastHeight)
	if !found {
		return nil, sdkerrors.Wrap(clienttypes.ErrConsensusStateNotFound, "could not retrieve consensus state for lastHeight")
	}

	// Verify client proof
	bz, err := MarshalClientState(upgradedClient.ZeroCustomFields())
	if err != nil {
		return nil, sdkerrors.Wrapf(clienttypes.ErrInvalidClient, "could not marshal client state: %v", err)
	}
	// construct clientState Merkle path
	upgradeClientPath := constructUpgradeClientMerklePath(cs.UpgradePath, lastHeight)
	if err := scheme.VerifyMembership(consState.GetRoot(), upgradeClientProof, upgradeClientPath, bz); err != nil {
		return nil, sdkerrors.Wrapf(err, "client state proof failed. Path: %s", upgradeClientPath)
	}

	// Verify consensus state proof
	bz, err = MarshalConsensusState(upgradedConsState)
	if err != nil {
		return nil, sdkerrors.Wrapf(clienttypes.ErrInvalidConsensus, "could not marshal consensus state: %v", err)
	}
	// construct consensus state Merkle path
	upgradeConsStatePath := constructUpgradeConsStateMerklePath(cs.UpgradePath, lastHeight)
	if err := scheme.VerifyMembership(consState.GetRoot(), upgradeConsStateProof, upgradeConsStatePath, bz); err != nil {
		return nil, sdkerrors.Wrapf(err, "consensus state proof failed. Path: %s", upgradeConsStatePath)
	}

	// Construct new client state and consensus state
	// Relayer chosen client parameters are ignored.
	// All chain-chosen parameters come from committed client, all client-chosen parameters
	// come from current client.
	newClientState := &ClientState{
		ChainId:        upgradedClient.ChainId,
		TrustLevel:     cs.TrustLevel,
		TrustingPeriod: cs.TrustingPeriod,
		MaxClockDrift:  cs.MaxClockDrift,
		MaxHeightGap:   cs.MaxHeightGap,
		LatestHeight:   upgradedClient.LatestHeight,
		FrozenHeight:   clienttypes.ZeroHeight(),
		ProofScheme:    upgradedClient.ProofScheme,
		UpgradePath:    upgradedClient.UpgradePath,
		Checksum:       cs.Checksum,
	}

	if err := newClientState.Validate(); err != nil {
		return nil, sdkerrors.Wrap(err, "updated client state failed basic validation")
	}
	// an upgrade moves the client onto the revision committed to by the new chain id
	if revision := clienttypes.ParseChainID(newClientState.ChainId); newClientState.LatestHeight.RevisionNumber != revision {
		return nil, sdkerrors.Wrapf(ErrInvalidHeaderHeight,
			"upgraded latest height revision number must match chain id revision number (%d != %d)", newClientState.LatestHeight.RevisionNumber, revision)
	}
	if !schemes.HasRoute(newClientState.ProofScheme) {
		return nil, sdkerrors.Wrapf(clienttypes.ErrInvalidUpgradeClient, "upgraded proof scheme %s is not registered", newClientState.ProofScheme)
	}

	// The new consensus state is merely used as a trusted kernel against which headers on the new
	// chain can be verified. The root is just a stand-in sentinel value as it cannot be known in advance, thus no proof verification will pass.
	// The timestamp and the NextValidatorsHash of the consensus state is the blocktime and NextValidatorsHash
	// of the last block committed by the old chain. This will allow the first block of the new chain to be verified against
	// the last validators of the old chain so long as it is submitted within the TrustingPeriod of this client.
	newConsState := NewConsensusState(
		upgradedConsState.Timestamp, commitmenttypes.NewMerkleRoot([]byte(SentinelRoot)), upgradedConsState.NextValidatorsHash,
	)

	if err := setConsensusState(clientStore, newConsState, newClientState.LatestHeight); err != nil {
		return nil, err
	}
	setClientState(clientStore, newClientState)
	setConsensusMetadata(env, clientStore, newClientState.LatestHeight)

	return newClientState, nil
}

// construct MerklePath for the committed client from upgradePath
func constructUpgradeClientMerklePath(upgradePath []string, lastHeight exported.Height) commitmenttypes.MerklePath {
	return constructUpgradeMerklePath(upgradePath, lastHeight, KeyUpgradedClient)
}

// construct MerklePath for the committed consensus state from upgradePath
func constructUpgradeConsStateMerklePath(upgradePath []string, lastHeight exported.Height) commitmenttypes.MerklePath {
	return constructUpgradeMerklePath(upgradePath, lastHeight, KeyUpgradedConsState)
}

// constructUpgradeMerklePath copies all elements from upgradePath except the final element
// and appends lastHeight and the given suffix to the last key of upgradePath.
// This creates the key under which the upgrade is stored in the counterparty upgrade store.
func constructUpgradeMerklePath(upgradePath []string, lastHeight exported.Height, suffix string) commitmenttypes.MerklePath {
	path := make([]string, len(upgradePath)-1)
	copy(path, upgradePath)

	lastKey := upgradePath[len(upgradePath)-1]
	appendedKey := fmt.Sprintf("%s/%d/%s", lastKey, lastHeight.GetRevisionHeight(), suffix)

	path = append(path, appendedKey)

	var key [][]byte
	for _, part := range path {
		key = append(key, []byte(part))
	}

	return commitmenttypes.NewMerklePath(key...)
}
