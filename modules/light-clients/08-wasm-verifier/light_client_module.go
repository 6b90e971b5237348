package verifier

import (
	"errors"

	metrics "github.com/armon/go-metrics"
	"github.com/cosmos/cosmos-sdk/telemetry"
	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
	"github.com/tendermint/tendermint/libs/log"

	clienttypes "github.com/cosmos/ibc-verifier/modules/core/02-client/types"
	commitmenttypes "github.com/cosmos/ibc-verifier/modules/core/23-commitment/types"
	host "github.com/cosmos/ibc-verifier/modules/core/24-host"
	"github.com/cosmos/ibc-verifier/modules/core/exported"
	ibcmetrics "github.com/cosmos/ibc-verifier/modules/core/metrics"
)

// LightClientModule implements the client lifecycle for a single client store. It holds
// the consensus rule headers are checked with and the proof schemes commitments are
// verified with.
type LightClientModule struct {
	rule    ConsensusRule
	schemes *commitmenttypes.SchemeRouter
	logger  log.Logger
}

// NewLightClientModule creates and returns a new verifier LightClientModule.
func NewLightClientModule(rule ConsensusRule, schemes *commitmenttypes.SchemeRouter, logger log.Logger) LightClientModule {
	if rule == nil {
		panic("consensus rule cannot be nil")
	}
	if schemes == nil {
		schemes = commitmenttypes.DefaultSchemeRouter()
	}
	if logger == nil {
		logger = log.NewNopLogger()
	}

	return LightClientModule{
		rule:    rule,
		schemes: schemes,
		logger:  logger.With("module", ModuleName),
	}
}

// Logger returns the module logger.
func (lcm LightClientModule) Logger() log.Logger {
	return lcm.logger
}

// Initialize checks the initial client and consensus state and writes them to the
// client store together with the consensus metadata and the store version. The
// latest height is set to the genesis height. Any existing client is removed together
// with all of its consensus states and metadata before the genesis state is written.
func (lcm LightClientModule) Initialize(
	env Env, clientStore sdk.KVStore,
	clientState *ClientState, consensusState *ConsensusState, checksum []byte,
) (*ClientState, error) {
	if clientState == nil || consensusState == nil {
		return nil, sdkerrors.Wrap(clienttypes.ErrInvalidClient, "client state and consensus state must be provided")
	}

	clientState.LatestHeight = clienttypes.NewHeight(0, 1)
	clientState.FrozenHeight = clienttypes.ZeroHeight()
	clientState.Checksum = checksum

	if err := clientState.Validate(); err != nil {
		return nil, err
	}
	if err := consensusState.ValidateBasic(); err != nil {
		return nil, err
	}
	if !lcm.schemes.HasRoute(clientState.ProofScheme) {
		return nil, sdkerrors.Wrapf(ErrInvalidProofScheme, "proof scheme %s is not registered, registered schemes: %v", clientState.ProofScheme, lcm.schemes.Routes())
	}

	if _, found := getClientState(clientStore); found {
		lcm.logger.Info("replacing existing client", "chain-id", clientState.ChainId)
	}
	clearClientStore(clientStore)

	height := clientState.LatestHeight
	setClientState(clientStore, clientState)
	clientStore.Set(host.ConsensusStateKey(height), MustMarshalConsensusState(consensusState))
	setConsensusMetadata(env, clientStore, height)
	setStoreVersion(clientStore, CurrentStoreVersion)

	lcm.logger.Info("client created at height", "chain-id", clientState.ChainId, "height", height.String())

	defer telemetry.IncrCounterWithLabels(
		[]string{"ibc", "client", "create"},
		1,
		[]metrics.Label{telemetry.NewLabel(ibcmetrics.LabelClientType, ModuleName)},
	)

	return clientState, nil
}

// VerifyClientMessage must verify a ClientMessage. A ClientMessage could be a Header or Misbehaviour.
// Calls to CheckForMisbehaviour, UpdateState, and UpdateStateOnMisbehaviour
// will assume that the content of the ClientMessage has been verified and can be trusted. An error should be returned
// if the ClientMessage fails to verify.
func (lcm LightClientModule) VerifyClientMessage(env Env, clientStore sdk.KVStore, clientMsg exported.ClientMessage) error {
	clientState, found := getClientState(clientStore)
	if !found {
		return sdkerrors.Wrap(clienttypes.ErrClientNotFound, "client state not found in client store")
	}

	return clientState.VerifyClientMessage(env, clientStore, lcm.rule, clientMsg)
}

// CheckForMisbehaviour checks for evidence of a misbehaviour in Header or Misbehaviour type.
func (lcm LightClientModule) CheckForMisbehaviour(env Env, clientStore sdk.KVStore, clientMsg exported.ClientMessage) (bool, error) {
	clientState, found := getClientState(clientStore)
	if !found {
		return false, sdkerrors.Wrap(clienttypes.ErrClientNotFound, "client state not found in client store")
	}

	return clientState.CheckForMisbehaviour(env, clientStore, lcm.rule, clientMsg)
}

// UpdateStateOnMisbehaviour freezes the client given that misbehaviour has been detected and verified.
// It returns the frozen height.
func (lcm LightClientModule) UpdateStateOnMisbehaviour(env Env, clientStore sdk.KVStore, clientMsg exported.ClientMessage) (clienttypes.Height, error) {
	clientState, found := getClientState(clientStore)
	if !found {
		return clienttypes.Height{}, sdkerrors.Wrap(clienttypes.ErrClientNotFound, "client state not found in client store")
	}

	wasFrozen := clientState.IsFrozen()
	if err := clientState.UpdateStateOnMisbehaviour(env, clientStore, lcm.rule, clientMsg); err != nil {
		return clienttypes.Height{}, err
	}

	if !wasFrozen {
		lcm.logger.Info("client frozen due to misbehaviour", "frozen-height", clientState.FrozenHeight.String())

		defer telemetry.IncrCounterWithLabels(
			[]string{"ibc", "client", "misbehaviour"},
			1,
			[]metrics.Label{
				telemetry.NewLabel(ibcmetrics.LabelClientType, ModuleName),
				telemetry.NewLabel(ibcmetrics.LabelMsgType, "misbehaviour"),
			},
		)
	}

	return clientState.FrozenHeight, nil
}

// UpdateState updates and stores as necessary any associated information for an IBC client, such as the ClientState and corresponding ConsensusState.
// Upon successful update, a list of consensus heights is returned. The client message is verified before any state is written.
// When the header conflicts with stored state the client is frozen and ErrMisbehaviourDetected is returned.
func (lcm LightClientModule) UpdateState(env Env, clientStore sdk.KVStore, clientMsg exported.ClientMessage) ([]clienttypes.Height, error) {
	clientState, found := getClientState(clientStore)
	if !found {
		return nil, sdkerrors.Wrap(clienttypes.ErrClientNotFound, "client state not found in client store")
	}

	heights, err := clientState.UpdateState(env, clientStore, lcm.rule, clientMsg)
	if err != nil {
		if errors.Is(err, clienttypes.ErrMisbehaviourDetected) {
			lcm.logger.Info("client frozen due to misbehaviour", "frozen-height", clientState.FrozenHeight.String())

			defer telemetry.IncrCounterWithLabels(
				[]string{"ibc", "client", "misbehaviour"},
				1,
				[]metrics.Label{
					telemetry.NewLabel(ibcmetrics.LabelClientType, ModuleName),
					telemetry.NewLabel(ibcmetrics.LabelMsgType, "update"),
				},
			)
		}
		return nil, err
	}

	lcm.logger.Info("client state updated", "heights", heights)

	defer telemetry.IncrCounterWithLabels(
		[]string{"ibc", "client", "update"},
		1,
		[]metrics.Label{
			telemetry.NewLabel(ibcmetrics.LabelClientType, ModuleName),
			telemetry.NewLabel(ibcmetrics.LabelUpdateType, "msg"),
		},
	)

	return heights, nil
}

// VerifyMembership is a generic proof verification method which verifies a proof of the existence of a value at a given CommitmentPath at the specified height.
// The caller is expected to construct the full CommitmentPath from a CommitmentPrefix and a standardized path (as defined in ICS 24).
func (lcm LightClientModule) VerifyMembership(
	env Env,
	clientStore sdk.KVStore,
	height clienttypes.Height,
	delayTimePeriod uint64,
	delayBlockPeriod uint64,
	proof []byte,
	path commitmenttypes.MerklePath,
	value []byte,
) error {
	clientState, found := getClientState(clientStore)
	if !found {
		return sdkerrors.Wrap(clienttypes.ErrClientNotFound, "client state not found in client store")
	}

	err := clientState.VerifyMembership(env, clientStore, lcm.schemes, height, delayTimePeriod, delayBlockPeriod, proof, path, value)
	lcm.recordVerification("membership", err)
	return err
}

// VerifyNonMembership is a generic proof verification method which verifies the absence of a given CommitmentPath at a specified height.
// The caller is expected to construct the full CommitmentPath from a CommitmentPrefix and a standardized path (as defined in ICS 24).
func (lcm LightClientModule) VerifyNonMembership(
	env Env,
	clientStore sdk.KVStore,
	height clienttypes.Height,
	delayTimePeriod uint64,
	delayBlockPeriod uint64,
	proof []byte,
	path commitmenttypes.MerklePath,
) error {
	clientState, found := getClientState(clientStore)
	if !found {
		return sdkerrors.Wrap(clienttypes.ErrClientNotFound, "client state not found in client store")
	}

	err := clientState.VerifyNonMembership(env, clientStore, lcm.schemes, height, delayTimePeriod, delayBlockPeriod, proof, path)
	lcm.recordVerification("non_membership", err)
	return err
}

func (lcm LightClientModule) recordVerification(verifyType string, err error) {
	result := "success"
	if err != nil {
		result = "failure"
		lcm.logger.Debug("proof verification failed", "type", verifyType, "err", err)
	}

	telemetry.IncrCounterWithLabels(
		[]string{"ibc", "client", "verify"},
		1,
		[]metrics.Label{
			telemetry.NewLabel(ibcmetrics.LabelClientType, ModuleName),
			telemetry.NewLabel(ibcmetrics.LabelVerifyType, verifyType),
			telemetry.NewLabel(ibcmetrics.LabelResult, result),
		},
	)
}

// Status must return the status of the client. Only Active clients are allowed to process packets.
func (LightClientModule) Status(clientStore sdk.KVStore) exported.Status {
	clientState, found := getClientState(clientStore)
	if !found {
		return exported.Unknown
	}

	if clientState.IsFrozen() {
		return exported.Frozen
	}

	return exported.Active
}

// LatestHeight returns the latest height for the client state. A zero
// height is returned if the client does not exist.
func (LightClientModule) LatestHeight(clientStore sdk.KVStore) clienttypes.Height {
	clientState, found := getClientState(clientStore)
	if !found {
		return clienttypes.ZeroHeight()
	}

	return clientState.LatestHeight
}

// TimestampAtHeight must return the timestamp for the consensus state associated with the provided height.
func (LightClientModule) TimestampAtHeight(clientStore sdk.KVStore, height clienttypes.Height) (uint64, error) {
	if _, found := getClientState(clientStore); !found {
		return 0, sdkerrors.Wrap(clienttypes.ErrClientNotFound, "client state not found in client store")
	}

	consensusState, found := GetConsensusState(clientStore, height)
	if !found {
		return 0, sdkerrors.Wrapf(clienttypes.ErrConsensusStateNotFound, "height (%s)", height)
	}

	return consensusState.GetTimestamp(), nil
}

// ExportMetadata returns the consensus metadata stored in the client store.
func (LightClientModule) ExportMetadata(clientStore sdk.KVStore) ([]clienttypes.GenesisMetadata, error) {
	clientState, found := getClientState(clientStore)
	if !found {
		return nil, sdkerrors.Wrap(clienttypes.ErrClientNotFound, "client state not found in client store")
	}

	return clientState.ExportMetadata(clientStore), nil
}

// VerifyUpgradeAndUpdateState checks the upgraded client and consensus state against the
// commitments under the upgrade path and replaces the client state on success.
func (lcm LightClientModule) VerifyUpgradeAndUpdateState(
	env Env,
	clientStore sdk.KVStore,
	upgradedClient *ClientState,
	upgradedConsState *ConsensusState,
	upgradeClientProof,
	upgradeConsensusStateProof []byte,
) (*ClientState, error) {
	clientState, found := getClientState(clientStore)
	if !found {
		return nil, sdkerrors.Wrap(clienttypes.ErrClientNotFound, "client state not found in client store")
	}

	newClientState, err := clientState.VerifyUpgradeAndUpdateState(env, clientStore, lcm.schemes, upgradedClient, upgradedConsState, upgradeClientProof, upgradeConsensusStateProof)
	if err != nil {
		return nil, err
	}

	lcm.logger.Info("client state upgraded", "height", newClientState.LatestHeight.String())

	defer telemetry.IncrCounterWithLabels(
		[]string{"ibc", "client", "upgrade"},
		1,
		[]metrics.Label{telemetry.NewLabel(ibcmetrics.LabelClientType, ModuleName)},
	)

	return newClientState, nil
}

// MigrateClientStore migrates the client store to the current schema version and
// returns the heights of the pruned consensus states.
func (lcm LightClientModule) MigrateClientStore(env Env, clientStore sdk.KVStore) ([]clienttypes.Height, error) {
	clientState, found := getClientState(clientStore)
	if !found {
		return nil, sdkerrors.Wrap(clienttypes.ErrClientNotFound, "client state not found in client store")
	}

	fromVersion := getStoreVersion(clientStore)
	pruned := MigrateStore(env, clientStore, clientState)

	lcm.logger.Info("migrated client store", "from-version", fromVersion, "to-version", CurrentStoreVersion, "pruned", len(pruned))

	return pruned, nil
}
