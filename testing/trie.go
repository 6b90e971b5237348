package ibctesting

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethdb/memorydb"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/ethereum/go-ethereum/trie"
	"github.com/stretchr/testify/require"

	commitmenttypes "github.com/cosmos/ibc-verifier/modules/core/23-commitment/types"
)

// EthTrie is an Ethereum Merkle-Patricia trie keyed by keccak256 of the path key,
// producing proofs for the ethereum-mpt proof scheme.
type EthTrie struct {
	tb   testing.TB
	trie *trie.Trie
}

// NewEthTrie returns an empty trie backed by an in-memory database.
func NewEthTrie(tb testing.TB) *EthTrie {
	tb.Helper()

	t, err := trie.New(common.Hash{}, trie.NewDatabase(memorydb.New()))
	require.NoError(tb, err)

	return &EthTrie{tb: tb, trie: t}
}

// Set stores the value under keccak256(key).
func (t *EthTrie) Set(key, value []byte) {
	t.tb.Helper()
	require.NoError(t.tb, t.trie.TryUpdate(crypto.Keccak256(key), value))
}

// Root returns the trie root hash.
func (t *EthTrie) Root() []byte {
	return t.trie.Hash().Bytes()
}

// Path returns the merkle path of the key.
func (t *EthTrie) Path(key []byte) commitmenttypes.MerklePath {
	return commitmenttypes.NewMerklePath(key)
}

// Prove returns the RLP encoded list of trie nodes proving the value, or absence, of key.
func (t *EthTrie) Prove(key []byte) []byte {
	t.tb.Helper()

	var nodes proofList
	require.NoError(t.tb, t.trie.Prove(crypto.Keccak256(key), 0, &nodes))

	bz, err := rlp.EncodeToBytes([][]byte(nodes))
	require.NoError(t.tb, err)
	return bz
}

// proofList collects the trie nodes written by Prove.
type proofList [][]byte

func (n *proofList) Put(key []byte, value []byte) error {
	*n = append(*n, value)
	return nil
}

func (n *proofList) Delete(key []byte) error {
	panic("not supported")
}
