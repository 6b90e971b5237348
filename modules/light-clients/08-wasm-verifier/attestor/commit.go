package attestor

import (
	"crypto/ecdsa"

	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/tendermint/tendermint/crypto/merkle"

	clienttypes "github.com/cosmos/ibc-verifier/modules/core/02-client/types"
	verifier "github.com/cosmos/ibc-verifier/modules/light-clients/08-wasm-verifier"
)

// SignatureLength is the expected length of an ECDSA signature (r||s||v)
const SignatureLength = crypto.SignatureLength

// Commit is the proof material carried in a header: the full attestor set the
// header claims and the signatures of a subset of it over the header sign bytes.
type Commit struct {
	Attestors  []common.Address
	Signatures [][]byte
}

// signedHeader is the part of a header covered by attestor signatures.
type signedHeader struct {
	ChainId            string
	Height             clienttypes.Height
	Timestamp          uint64
	Root               []byte
	NextValidatorsHash []byte
	ValidatorsHash     []byte
}

// EncodeCommit returns the RLP encoding of the commit.
func EncodeCommit(commit *Commit) ([]byte, error) {
	return rlp.EncodeToBytes(commit)
}

// DecodeCommit decodes an RLP encoded commit.
func DecodeCommit(bz []byte) (*Commit, error) {
	var commit Commit
	if err := rlp.DecodeBytes(bz, &commit); err != nil {
		return nil, sdkerrors.Wrapf(ErrInvalidCommit, "failed to decode commit: %v", err)
	}
	return &commit, nil
}

// SignBytes returns the keccak256 hash signed by attestors for the header.
func SignBytes(header *verifier.Header) ([]byte, error) {
	bz, err := rlp.EncodeToBytes(&signedHeader{
		ChainId:            header.ChainId,
		Height:             header.Height,
		Timestamp:          header.Timestamp,
		Root:               header.Root,
		NextValidatorsHash: header.NextValidatorsHash,
		ValidatorsHash:     header.ValidatorsHash,
	})
	if err != nil {
		return nil, err
	}
	return crypto.Keccak256(bz), nil
}

// AttestorSetHash returns the merkle root of the attestor addresses, in order.
func AttestorSetHash(attestors []common.Address) []byte {
	items := make([][]byte, len(attestors))
	for i, addr := range attestors {
		items[i] = addr.Bytes()
	}
	return merkle.HashFromByteSlices(items)
}

// SignHeader signs the header sign bytes with the given key.
func SignHeader(header *verifier.Header, key *ecdsa.PrivateKey) ([]byte, error) {
	hash, err := SignBytes(header)
	if err != nil {
		return nil, err
	}
	return crypto.Sign(hash, key)
}
