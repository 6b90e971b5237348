package attestor

import (
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
)

const codespace = "attestor"

var (
	ErrInvalidCommit       = sdkerrors.Register(codespace, 2, "invalid attestor commit")
	ErrInvalidAttestorSet  = sdkerrors.Register(codespace, 3, "invalid attestor set")
	ErrInvalidSignature    = sdkerrors.Register(codespace, 4, "invalid signature")
	ErrDuplicateSigner     = sdkerrors.Register(codespace, 5, "duplicate signer")
	ErrUnknownSigner       = sdkerrors.Register(codespace, 6, "unknown signer")
	ErrInsufficientSigners = sdkerrors.Register(codespace, 7, "insufficient voting power")
)
