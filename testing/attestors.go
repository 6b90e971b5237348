package ibctesting

import (
	"crypto/ecdsa"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"

	clienttypes "github.com/cosmos/ibc-verifier/modules/core/02-client/types"
	verifier "github.com/cosmos/ibc-verifier/modules/light-clients/08-wasm-verifier"
	"github.com/cosmos/ibc-verifier/modules/light-clients/08-wasm-verifier/attestor"
)

// AttestorSet is a set of secp256k1 keys signing headers of the counterparty chain.
type AttestorSet struct {
	Keys      []*ecdsa.PrivateKey
	Addresses []common.Address
}

// NewAttestorSet generates n attestor keys.
func NewAttestorSet(tb testing.TB, n int) *AttestorSet {
	tb.Helper()

	set := &AttestorSet{}
	for i := 0; i < n; i++ {
		key, err := crypto.GenerateKey()
		require.NoError(tb, err)

		set.Keys = append(set.Keys, key)
		set.Addresses = append(set.Addresses, crypto.PubkeyToAddress(key.PublicKey))
	}
	return set
}

// Hash returns the attestor set hash committed to in headers and consensus states.
func (s *AttestorSet) Hash() []byte {
	return attestor.AttestorSetHash(s.Addresses)
}

// CreateHeader creates a header signed by the first numSigners attestors. The header
// commits to next as the attestor set of the following header.
func (s *AttestorSet) CreateHeader(
	tb testing.TB, chainID string, height clienttypes.Height, timestamp time.Time,
	root []byte, next *AttestorSet, numSigners int,
) *verifier.Header {
	tb.Helper()

	if next == nil {
		next = s
	}

	header := &verifier.Header{
		ChainId:            chainID,
		Height:             height,
		Timestamp:          uint64(timestamp.UnixNano()),
		Root:               root,
		NextValidatorsHash: next.Hash(),
		ValidatorsHash:     s.Hash(),
	}
	s.Sign(tb, header, numSigners)

	return header
}

// Sign replaces the header commit with signatures of the first numSigners attestors.
func (s *AttestorSet) Sign(tb testing.TB, header *verifier.Header, numSigners int) {
	tb.Helper()
	require.LessOrEqual(tb, numSigners, len(s.Keys))

	commit := &attestor.Commit{Attestors: s.Addresses}
	for _, key := range s.Keys[:numSigners] {
		sig, err := attestor.SignHeader(header, key)
		require.NoError(tb, err)

		commit.Signatures = append(commit.Signatures, sig)
	}

	bz, err := attestor.EncodeCommit(commit)
	require.NoError(tb, err)
	header.Commit = bz
}
