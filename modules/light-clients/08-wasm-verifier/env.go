package verifier

import (
	"strings"
	"time"

	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

	clienttypes "github.com/cosmos/ibc-verifier/modules/core/02-client/types"
)

// Env is the host environment a call executes in.
type Env struct {
	ChainID     string    `json:"chain_id" yaml:"chain_id"`
	BlockHeight uint64    `json:"block_height" yaml:"block_height"`
	BlockTime   time.Time `json:"block_time" yaml:"block_time"`
}

// NewEnv creates a new Env instance
func NewEnv(chainID string, blockHeight uint64, blockTime time.Time) Env {
	return Env{
		ChainID:     chainID,
		BlockHeight: blockHeight,
		BlockTime:   blockTime,
	}
}

// Now returns the host block time in unix nanoseconds.
func (e Env) Now() uint64 {
	return uint64(e.BlockTime.UnixNano())
}

// SelfHeight returns the height of the host chain.
func (e Env) SelfHeight() clienttypes.Height {
	return clienttypes.GetSelfHeight(e.ChainID, e.BlockHeight)
}

// Validate checks that the environment carries a chain-id and a block time.
func (e Env) Validate() error {
	if strings.TrimSpace(e.ChainID) == "" {
		return sdkerrors.Wrap(ErrInvalidEnv, "chain id cannot be empty")
	}
	if e.BlockTime.IsZero() || e.BlockTime.UnixNano() <= 0 {
		return sdkerrors.Wrap(ErrInvalidEnv, "block time must be set")
	}
	return nil
}
