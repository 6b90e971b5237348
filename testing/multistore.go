package ibctesting

import (
	"fmt"
	"testing"

	"github.com/cosmos/cosmos-sdk/store/rootmulti"
	storetypes "github.com/cosmos/cosmos-sdk/store/types"
	"github.com/stretchr/testify/require"
	abci "github.com/tendermint/tendermint/abci/types"
	dbm "github.com/tendermint/tm-db"

	commitmenttypes "github.com/cosmos/ibc-verifier/modules/core/23-commitment/types"
)

// CommitmentStore is a cosmos-sdk multistore with a single IAVL store. It plays the
// counterparty chain state: values are written, committed and proven with
// [IAVL, multistore] proofs matching the ics23-sdk proof scheme.
type CommitmentStore struct {
	tb       testing.TB
	store    *rootmulti.Store
	storeKey *storetypes.KVStoreKey
	lastID   storetypes.CommitID
}

// NewCommitmentStore returns a new CommitmentStore with an IAVL store mounted under StoreName.
func NewCommitmentStore(tb testing.TB) *CommitmentStore {
	tb.Helper()

	db := dbm.NewMemDB()
	store := rootmulti.NewStore(db)
	storeKey := storetypes.NewKVStoreKey(StoreName)

	store.MountStoreWithDB(storeKey, storetypes.StoreTypeIAVL, nil)
	require.NoError(tb, store.LoadVersion(0))

	return &CommitmentStore{
		tb:       tb,
		store:    store,
		storeKey: storeKey,
	}
}

// Set writes a value to the IAVL store. It is committed on the next call to Commit.
func (cs *CommitmentStore) Set(key, value []byte) {
	cs.store.GetCommitKVStore(cs.storeKey).Set(key, value)
}

// Delete removes a key from the IAVL store.
func (cs *CommitmentStore) Delete(key []byte) {
	cs.store.GetCommitKVStore(cs.storeKey).Delete(key)
}

// Commit commits the multistore and returns its root hash.
func (cs *CommitmentStore) Commit() []byte {
	cs.lastID = cs.store.Commit()
	return cs.lastID.Hash
}

// Path returns the merkle path of the key in the multistore.
func (cs *CommitmentStore) Path(key []byte) commitmenttypes.MerklePath {
	return commitmenttypes.NewMerklePath([]byte(cs.storeKey.Name()), key)
}

// Prove returns the encoded MerkleProof for the key at the last committed version.
// The proof shows membership if the key is set and non-membership otherwise.
func (cs *CommitmentStore) Prove(key []byte) []byte {
	cs.tb.Helper()

	res := cs.store.Query(abci.RequestQuery{
		Path:   fmt.Sprintf("/%s/key", cs.storeKey.Name()),
		Data:   key,
		Height: cs.lastID.Version,
		Prove:  true,
	})
	require.Zero(cs.tb, res.Code, res.Log)

	proof, err := commitmenttypes.ConvertProofs(res.ProofOps)
	require.NoError(cs.tb, err)

	bz, err := proof.Marshal()
	require.NoError(cs.tb, err)
	return bz
}
