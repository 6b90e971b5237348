package ibctesting

import (
	"bytes"
	"sort"
	"testing"

	ics23 "github.com/confio/ics23/go"
	"github.com/stretchr/testify/require"
	"github.com/tendermint/tendermint/crypto/tmhash"

	commitmenttypes "github.com/cosmos/ibc-verifier/modules/core/23-commitment/types"
)

// SimpleTree is a binary merkle tree over sorted key/value pairs which produces
// ICS-23 proofs for the tendermint proof spec.
type SimpleTree struct {
	keys   [][]byte
	values [][]byte
}

// NewSimpleTree builds a tree over the given key/value pairs.
func NewSimpleTree(kvs map[string][]byte) *SimpleTree {
	keys := make([]string, 0, len(kvs))
	for k := range kvs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	tree := &SimpleTree{}
	for _, k := range keys {
		tree.keys = append(tree.keys, []byte(k))
		tree.values = append(tree.values, kvs[k])
	}
	return tree
}

// Root returns the root hash of the tree.
func (t *SimpleTree) Root(tb testing.TB) []byte {
	tb.Helper()
	require.NotEmpty(tb, t.keys, "tree must not be empty")

	return t.subtreeHash(tb, 0, len(t.keys))
}

// ProveMembership returns the encoded MerkleProof that key is in the tree.
func (t *SimpleTree) ProveMembership(tb testing.TB, key []byte) []byte {
	tb.Helper()

	idx := t.index(key)
	require.True(tb, idx < len(t.keys) && bytes.Equal(t.keys[idx], key), "key %s not in tree", key)

	proof := &ics23.CommitmentProof{
		Proof: &ics23.CommitmentProof_Exist{Exist: t.existenceProof(tb, idx)},
	}
	return t.encode(tb, proof)
}

// ProveNonMembership returns the encoded MerkleProof that key is not in the tree.
func (t *SimpleTree) ProveNonMembership(tb testing.TB, key []byte) []byte {
	tb.Helper()

	idx := t.index(key)
	require.False(tb, idx < len(t.keys) && bytes.Equal(t.keys[idx], key), "key %s is in tree", key)

	nonexist := &ics23.NonExistenceProof{Key: key}
	if idx > 0 {
		nonexist.Left = t.existenceProof(tb, idx-1)
	}
	if idx < len(t.keys) {
		nonexist.Right = t.existenceProof(tb, idx)
	}

	proof := &ics23.CommitmentProof{
		Proof: &ics23.CommitmentProof_Nonexist{Nonexist: nonexist},
	}
	return t.encode(tb, proof)
}

// Path returns the merkle path of the key for a single level tree.
func (t *SimpleTree) Path(key []byte) commitmenttypes.MerklePath {
	return commitmenttypes.NewMerklePath(key)
}

func (t *SimpleTree) encode(tb testing.TB, proof *ics23.CommitmentProof) []byte {
	bz, err := commitmenttypes.MerkleProof{Proofs: []*ics23.CommitmentProof{proof}}.Marshal()
	require.NoError(tb, err)
	return bz
}

// index returns the position of the first key not less than key.
func (t *SimpleTree) index(key []byte) int {
	return sort.Search(len(t.keys), func(i int) bool {
		return bytes.Compare(t.keys[i], key) >= 0
	})
}

func (t *SimpleTree) existenceProof(tb testing.TB, idx int) *ics23.ExistenceProof {
	return &ics23.ExistenceProof{
		Key:   t.keys[idx],
		Value: t.values[idx],
		Leaf:  ics23.TendermintSpec.LeafSpec,
		Path:  t.path(tb, 0, len(t.keys), idx),
	}
}

// path returns the inner ops from the leaf at idx up to the root of the subtree [lo, hi).
func (t *SimpleTree) path(tb testing.TB, lo, hi, idx int) []*ics23.InnerOp {
	if hi-lo == 1 {
		return nil
	}

	mid := lo + splitPoint(hi-lo)
	if idx < mid {
		op := &ics23.InnerOp{
			Hash:   ics23.HashOp_SHA256,
			Prefix: []byte{1},
			Suffix: t.subtreeHash(tb, mid, hi),
		}
		return append(t.path(tb, lo, mid, idx), op)
	}

	op := &ics23.InnerOp{
		Hash:   ics23.HashOp_SHA256,
		Prefix: append([]byte{1}, t.subtreeHash(tb, lo, mid)...),
	}
	return append(t.path(tb, mid, hi, idx), op)
}

func (t *SimpleTree) subtreeHash(tb testing.TB, lo, hi int) []byte {
	if hi-lo == 1 {
		leaf, err := ics23.TendermintSpec.LeafSpec.Apply(t.keys[lo], t.values[lo])
		require.NoError(tb, err)
		return leaf
	}

	mid := lo + splitPoint(hi-lo)
	left := t.subtreeHash(tb, lo, mid)
	right := t.subtreeHash(tb, mid, hi)
	return tmhash.Sum(append(append([]byte{1}, left...), right...))
}

// splitPoint returns the largest power of 2 less than n.
func splitPoint(n int) int {
	k := 1
	for k*2 < n {
		k *= 2
	}
	return k
}
