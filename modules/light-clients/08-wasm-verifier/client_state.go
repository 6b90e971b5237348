package verifier

import (
	"strings"
	"time"

	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
	"github.com/tendermint/tendermint/light"
	tmtypes "github.com/tendermint/tendermint/types"

	clienttypes "github.com/cosmos/ibc-verifier/modules/core/02-client/types"
)

// ClientState tracks the configuration of a light client for a remote chain and
// the latest height it has verified.
type ClientState struct {
	ChainId string `json:"chain_id" yaml:"chain_id"`
	// fraction of the trusted attestor set that must sign a header
	TrustLevel Fraction `json:"trust_level" yaml:"trust_level"`
	// duration in nanoseconds for which a consensus state can anchor new headers
	TrustingPeriod uint64 `json:"trusting_period" yaml:"trusting_period"`
	// tolerated drift in nanoseconds of a header timestamp ahead of the host time
	MaxClockDrift uint64 `json:"max_clock_drift" yaml:"max_clock_drift"`
	// maximum revision height distance between a header and its trusted height, zero for no bound
	MaxHeightGap uint64 `json:"max_height_gap" yaml:"max_height_gap"`
	// latest height the client was updated to
	LatestHeight clienttypes.Height `json:"latest_height" yaml:"latest_height"`
	// height at which misbehaviour was detected, zero while the client is not frozen
	FrozenHeight clienttypes.Height `json:"frozen_height" yaml:"frozen_height"`
	// name of the proof scheme the counterparty commits its state with
	ProofScheme string `json:"proof_scheme" yaml:"proof_scheme"`
	// path at which the counterparty commits to an upgraded client and consensus state
	UpgradePath []string `json:"upgrade_path" yaml:"upgrade_path"`
	// checksum of the code the client was instantiated with
	Checksum []byte `json:"checksum" yaml:"checksum"`
}

// NewClientState creates a new ClientState instance
func NewClientState(
	chainID string, trustLevel Fraction,
	trustingPeriod, maxClockDrift time.Duration, maxHeightGap uint64,
	latestHeight clienttypes.Height, proofScheme string, upgradePath []string,
) *ClientState {
	return &ClientState{
		ChainId:        chainID,
		TrustLevel:     trustLevel,
		TrustingPeriod: uint64(trustingPeriod.Nanoseconds()),
		MaxClockDrift:  uint64(maxClockDrift.Nanoseconds()),
		MaxHeightGap:   maxHeightGap,
		LatestHeight:   latestHeight,
		FrozenHeight:   clienttypes.ZeroHeight(),
		ProofScheme:    proofScheme,
		UpgradePath:    upgradePath,
	}
}

// GetChainID returns the chain-id
func (cs ClientState) GetChainID() string {
	return cs.ChainId
}

// ClientType is 08-wasm-verifier.
func (ClientState) ClientType() string {
	return ModuleName
}

// GetLatestHeight returns latest block height.
func (cs ClientState) GetLatestHeight() clienttypes.Height {
	return cs.LatestHeight
}

// IsFrozen returns true if the frozen height has been set.
func (cs ClientState) IsFrozen() bool {
	return !cs.FrozenHeight.IsZero()
}

// GetTrustingPeriod returns the trusting period as a duration.
func (cs ClientState) GetTrustingPeriod() time.Duration {
	return time.Duration(cs.TrustingPeriod)
}

// GetMaxClockDrift returns the max clock drift as a duration.
func (cs ClientState) GetMaxClockDrift() time.Duration {
	return time.Duration(cs.MaxClockDrift)
}

// IsExpired returns whether or not a consensus state with the given timestamp has passed
// the trusting period at the given time (in which case it can no longer anchor headers).
func (cs ClientState) IsExpired(timestamp, now uint64) bool {
	expirationTime := timestamp + cs.TrustingPeriod
	return expirationTime <= now
}

// Validate performs a basic validation of the client state fields.
func (cs ClientState) Validate() error {
	if strings.TrimSpace(cs.ChainId) == "" {
		return sdkerrors.Wrap(ErrInvalidChainID, "chain id cannot be empty string")
	}

	if len(cs.ChainId) > tmtypes.MaxChainIDLen {
		return sdkerrors.Wrapf(ErrInvalidChainID, "chainID is too long; got: %d, max: %d", len(cs.ChainId), tmtypes.MaxChainIDLen)
	}

	if err := light.ValidateTrustLevel(cs.TrustLevel.ToTendermint()); err != nil {
		return sdkerrors.Wrap(ErrInvalidTrustLevel, err.Error())
	}
	if cs.TrustingPeriod == 0 {
		return sdkerrors.Wrap(ErrInvalidTrustingPeriod, "trusting period must be greater than zero")
	}
	if cs.TrustingPeriod > uint64(1<<62) {
		return sdkerrors.Wrap(ErrInvalidTrustingPeriod, "trusting period overflows")
	}
	if cs.MaxClockDrift == 0 {
		return sdkerrors.Wrap(ErrInvalidMaxClockDrift, "max clock drift must be greater than zero")
	}
	if cs.MaxClockDrift > uint64(1<<62) {
		return sdkerrors.Wrap(ErrInvalidMaxClockDrift, "max clock drift overflows")
	}

	if cs.LatestHeight.RevisionHeight == 0 {
		return sdkerrors.Wrap(ErrInvalidHeaderHeight, "client's latest height revision height cannot be zero")
	}
	if strings.TrimSpace(cs.ProofScheme) == "" {
		return sdkerrors.Wrap(ErrInvalidProofScheme, "proof scheme cannot be empty")
	}

	if cs.UpgradePath != nil {
		for i, k := range cs.UpgradePath {
			if strings.TrimSpace(k) == "" {
				return sdkerrors.Wrapf(clienttypes.ErrInvalidClient, "key in upgrade path at index %d cannot be empty", i)
			}
		}
	}

	return nil
}

// ZeroCustomFields returns a ClientState that is a copy of the current ClientState
// with all client customizable fields zeroed out
func (cs ClientState) ZeroCustomFields() *ClientState {
	// copy over all chain-specified fields
	// and leave custom fields empty
	return &ClientState{
		ChainId:      cs.ChainId,
		LatestHeight: cs.LatestHeight,
		ProofScheme:  cs.ProofScheme,
		UpgradePath:  cs.UpgradePath,
	}
}
