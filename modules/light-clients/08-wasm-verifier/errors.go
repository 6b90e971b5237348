package verifier

import (
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
)

// IBC verifier client sentinel errors
var (
	ErrInvalidChainID          = sdkerrors.Register(ModuleName, 2, "invalid chain-id")
	ErrInvalidTrustingPeriod   = sdkerrors.Register(ModuleName, 3, "invalid trusting period")
	ErrInvalidMaxClockDrift    = sdkerrors.Register(ModuleName, 4, "invalid max clock drift")
	ErrInvalidTrustLevel       = sdkerrors.Register(ModuleName, 5, "invalid trust level")
	ErrInvalidProofScheme      = sdkerrors.Register(ModuleName, 6, "invalid proof scheme")
	ErrInvalidHeaderHeight     = sdkerrors.Register(ModuleName, 7, "invalid header height")
	ErrProcessedTimeNotFound   = sdkerrors.Register(ModuleName, 8, "processed time not found")
	ErrProcessedHeightNotFound = sdkerrors.Register(ModuleName, 9, "processed height not found")
	ErrDelayPeriodNotPassed    = sdkerrors.Register(ModuleName, 10, "packet-specified delay period has not been reached")
	ErrInvalidChecksum         = sdkerrors.Register(ModuleName, 11, "invalid checksum")
	ErrInvalidEnv              = sdkerrors.Register(ModuleName, 12, "invalid host environment")
	ErrUnknownMessage          = sdkerrors.Register(ModuleName, 13, "unknown contract message")
)
