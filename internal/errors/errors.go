package errors

import (
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

	"github.com/cosmos/ibc-verifier/modules/core/exported"
)

const codespace = exported.ModuleName

var (
	// ErrUnknownRequest is used when the request body cannot be routed to a handler.
	ErrUnknownRequest = sdkerrors.Register(codespace, 6, "unknown request")

	// ErrInvalidRequest defines an error when the request contains invalid data.
	ErrInvalidRequest = sdkerrors.Register(codespace, 18, "invalid request")

	// ErrInvalidHeight defines an error for an invalid height
	ErrInvalidHeight = sdkerrors.Register(codespace, 26, "invalid height")

	// ErrInvalidChainID defines an error when the chain-id is invalid.
	ErrInvalidChainID = sdkerrors.Register(codespace, 28, "invalid chain-id")

	// ErrInvalidType defines an error an invalid type.
	ErrInvalidType = sdkerrors.Register(codespace, 29, "invalid type")

	// ErrLogic defines an internal logic error, e.g. an invariant or assertion
	// that is violated. It is a programmer error, not a user-facing error.
	ErrLogic = sdkerrors.Register(codespace, 35, "internal logic error")

	// ErrNotFound defines an error when requested entity doesn't exist in the state.
	ErrNotFound = sdkerrors.Register(codespace, 38, "not found")
)
