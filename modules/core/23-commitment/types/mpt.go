package types

import (
	"bytes"

	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethdb/memorydb"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/ethereum/go-ethereum/trie"

	"github.com/cosmos/ibc-verifier/modules/core/exported"
)

var _ ProofScheme = (*MPTScheme)(nil)

// MPTScheme verifies ethereum merkle-patricia trie proofs. The proof is the RLP
// encoded list of trie nodes on the path from the root to the key, as returned by
// eth_getProof. Keys are hashed with keccak256 before lookup, as in the secure
// state and storage tries. Only the last element of the merkle path addresses
// the trie.
type MPTScheme struct{}

// NewMPTScheme returns the ethereum merkle-patricia proof scheme.
func NewMPTScheme() *MPTScheme {
	return &MPTScheme{}
}

// Name implements ProofScheme.
func (MPTScheme) Name() string {
	return SchemeEthereumMPT
}

// VerifyMembership implements ProofScheme.
func (s MPTScheme) VerifyMembership(root exported.Root, proof []byte, path MerklePath, value []byte) error {
	if len(value) == 0 {
		return sdkerrors.Wrap(ErrInvalidProof, "empty value in membership proof")
	}

	stored, err := s.resolve(root, proof, path)
	if err != nil {
		return err
	}
	if stored == nil {
		return sdkerrors.Wrapf(ErrInvalidProof, "proof shows key %s is absent", path)
	}
	if !bytes.Equal(stored, value) {
		return sdkerrors.Wrapf(ErrInvalidProof, "value mismatch at %s: expected %X, got %X", path, value, stored)
	}
	return nil
}

// VerifyNonMembership implements ProofScheme.
func (s MPTScheme) VerifyNonMembership(root exported.Root, proof []byte, path MerklePath) error {
	stored, err := s.resolve(root, proof, path)
	if err != nil {
		return err
	}
	if stored != nil {
		return sdkerrors.Wrapf(ErrInvalidProof, "key %s is present in trie", path)
	}
	return nil
}

// resolve walks the proof nodes from root to the hashed key and returns the value
// stored under it, or nil if the proof demonstrates the key is absent.
func (MPTScheme) resolve(root exported.Root, proof []byte, path MerklePath) ([]byte, error) {
	if root == nil || len(root.GetHash()) != common.HashLength {
		return nil, sdkerrors.Wrapf(ErrInvalidProof, "root must be %d bytes", common.HashLength)
	}
	if err := path.ValidateAsPath(); err != nil {
		return nil, sdkerrors.Wrap(ErrInvalidProof, err.Error())
	}

	var nodes [][]byte
	if err := rlp.DecodeBytes(proof, &nodes); err != nil {
		return nil, sdkerrors.Wrapf(ErrInvalidProof, "failed to decode trie proof nodes: %v", err)
	}

	proofDB := memorydb.New()
	for _, node := range nodes {
		if err := proofDB.Put(crypto.Keccak256(node), node); err != nil {
			return nil, sdkerrors.Wrap(ErrInvalidProof, err.Error())
		}
	}

	key := crypto.Keccak256(path.KeyPath[len(path.KeyPath)-1])
	value, err := trie.VerifyProof(common.BytesToHash(root.GetHash()), key, proofDB)
	if err != nil {
		return nil, sdkerrors.Wrapf(ErrInvalidProof, "trie proof verification failed: %v", err)
	}
	return value, nil
}
