package attestor

import (
	"bytes"

	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	clienttypes "github.com/cosmos/ibc-verifier/modules/core/02-client/types"
	verifier "github.com/cosmos/ibc-verifier/modules/light-clients/08-wasm-verifier"
)

var _ verifier.ConsensusRule = Rule{}

// Rule accepts a header when more than the client trust level of the attestor
// set committed to by the trusted consensus state has signed it.
type Rule struct{}

// NewRule returns the attestor consensus rule.
func NewRule() Rule {
	return Rule{}
}

// Validate implements verifier.ConsensusRule.
func (Rule) Validate(
	clientState *verifier.ClientState, trustedHeight clienttypes.Height,
	trusted *verifier.ConsensusState, header *verifier.Header,
) (*verifier.ConsensusState, error) {
	commit, err := DecodeCommit(header.Commit)
	if err != nil {
		return nil, err
	}

	if err := verifyAttestorSet(commit.Attestors, trusted, header); err != nil {
		return nil, err
	}

	signers, err := verifySignatures(commit, header)
	if err != nil {
		return nil, err
	}

	// signers must hold more than the trust level of the attestor set
	trustLevel := clientState.TrustLevel
	if uint64(signers)*trustLevel.Denominator <= uint64(len(commit.Attestors))*trustLevel.Numerator {
		return nil, sdkerrors.Wrapf(ErrInsufficientSigners,
			"%d of %d attestors signed, more than %d/%d required (trusted height %s)",
			signers, len(commit.Attestors), trustLevel.Numerator, trustLevel.Denominator, trustedHeight)
	}

	return header.ConsensusState(), nil
}

// verifyAttestorSet checks the attestor set is the one committed to by both the
// header and the trusted consensus state.
func verifyAttestorSet(attestors []common.Address, trusted *verifier.ConsensusState, header *verifier.Header) error {
	if len(attestors) == 0 {
		return sdkerrors.Wrap(ErrInvalidAttestorSet, "attestor set cannot be empty")
	}

	seen := make(map[common.Address]bool, len(attestors))
	for _, addr := range attestors {
		if seen[addr] {
			return sdkerrors.Wrapf(ErrInvalidAttestorSet, "duplicate attestor %s", addr.Hex())
		}
		seen[addr] = true
	}

	setHash := AttestorSetHash(attestors)
	if !bytes.Equal(setHash, header.ValidatorsHash) {
		return sdkerrors.Wrapf(ErrInvalidAttestorSet, "attestor set hash %X does not match header validators hash %X", setHash, header.ValidatorsHash)
	}
	if !bytes.Equal(setHash, trusted.NextValidatorsHash) {
		return sdkerrors.Wrapf(ErrInvalidAttestorSet, "attestor set hash %X does not match trusted next validators hash %X", setHash, trusted.NextValidatorsHash)
	}

	return nil
}

// verifySignatures verifies that the commit has valid signatures from unique attestors
// and returns the number of signers. Signatures cover SignBytes(header).
func verifySignatures(commit *Commit, header *verifier.Header) (int, error) {
	if len(commit.Signatures) == 0 {
		return 0, sdkerrors.Wrap(ErrInvalidSignature, "signatures cannot be empty")
	}

	attestorSet := make(map[common.Address]bool, len(commit.Attestors))
	for _, addr := range commit.Attestors {
		attestorSet[addr] = true
	}

	hash, err := SignBytes(header)
	if err != nil {
		return 0, sdkerrors.Wrap(ErrInvalidCommit, err.Error())
	}

	seenSigners := make(map[common.Address]bool)
	for i, sig := range commit.Signatures {
		if len(sig) != SignatureLength {
			return 0, sdkerrors.Wrapf(ErrInvalidSignature, "signature %d has invalid length: expected %d, got %d", i, SignatureLength, len(sig))
		}

		recoveredPubKey, err := crypto.SigToPub(hash, sig)
		if err != nil {
			return 0, sdkerrors.Wrapf(ErrInvalidSignature, "failed to recover public key from signature %d: %v", i, err)
		}

		recoveredAddr := crypto.PubkeyToAddress(*recoveredPubKey)
		if seenSigners[recoveredAddr] {
			return 0, sdkerrors.Wrapf(ErrDuplicateSigner, "duplicate signer: %s", recoveredAddr.Hex())
		}
		seenSigners[recoveredAddr] = true

		if !attestorSet[recoveredAddr] {
			return 0, sdkerrors.Wrapf(ErrUnknownSigner, "signer %s is not in attestor set", recoveredAddr.Hex())
		}
	}

	return len(seenSigners), nil
}
