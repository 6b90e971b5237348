package ibctesting

import (
	"testing"
	"time"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	clienttypes "github.com/cosmos/ibc-verifier/modules/core/02-client/types"
	commitmenttypes "github.com/cosmos/ibc-verifier/modules/core/23-commitment/types"
	host "github.com/cosmos/ibc-verifier/modules/core/24-host"
	verifier "github.com/cosmos/ibc-verifier/modules/light-clients/08-wasm-verifier"
	"github.com/cosmos/ibc-verifier/modules/light-clients/08-wasm-verifier/attestor"
	"github.com/cosmos/ibc-verifier/testing/mock"
)

// TestClient is a verifier client over an in-memory client store, tracking a
// counterparty chain signed by an attestor set.
type TestClient struct {
	TB testing.TB

	ClientID  string
	Store     sdk.KVStore
	Logger    *mock.MockLogger
	Module    verifier.LightClientModule
	Contract  verifier.Contract
	Attestors *AttestorSet
	Env       verifier.Env

	ChainID     string
	ProofScheme string
}

// NewTestClient creates a TestClient for a counterparty committing with the given proof scheme.
// The client is not instantiated.
func NewTestClient(tb testing.TB, proofScheme string) *TestClient {
	tb.Helper()

	logger := mock.NewMockLogger()
	module := verifier.NewLightClientModule(attestor.NewRule(), commitmenttypes.DefaultSchemeRouter(), logger)
	clientID := clienttypes.FormatClientIdentifier(verifier.ModuleName, 0)

	return &TestClient{
		TB:          tb,
		ClientID:    clientID,
		Store:       NewClientStore(NewMemKVStore(), clientID),
		Logger:      logger,
		Module:      module,
		Contract:    verifier.NewContract(module),
		Attestors:   NewAttestorSet(tb, NumAttestors),
		Env:         verifier.NewEnv(HostChainID, 100, GenesisTime.Add(time.Hour)),
		ChainID:     ChainID,
		ProofScheme: proofScheme,
	}
}

// NewClientState returns the default client state of the TestClient.
func (c *TestClient) NewClientState() *verifier.ClientState {
	return verifier.NewClientState(
		c.ChainID, DefaultTrustLevel, TrustingPeriod, MaxClockDrift, MaxHeightGap,
		GenesisHeight, c.ProofScheme, UpgradePath,
	)
}

// NewGenesisConsensusState returns the consensus state trusted at instantiation.
func (c *TestClient) NewGenesisConsensusState(root []byte) *verifier.ConsensusState {
	return verifier.NewConsensusState(uint64(GenesisTime.UnixNano()), commitmenttypes.NewMerkleRoot(root), c.Attestors.Hash())
}

// Instantiate instantiates the client with a genesis consensus state committing to root.
func (c *TestClient) Instantiate(root []byte) {
	c.TB.Helper()

	_, err := c.Module.Initialize(c.Env, c.Store, c.NewClientState(), c.NewGenesisConsensusState(root), Checksum)
	require.NoError(c.TB, err)
}

// HeaderTime returns the counterparty block time at the given revision height.
func (c *TestClient) HeaderTime(revisionHeight uint64) time.Time {
	return GenesisTime.Add(time.Duration(revisionHeight) * time.Second)
}

// CreateHeader returns a header at the given revision height signed by all attestors.
func (c *TestClient) CreateHeader(revisionHeight uint64, root []byte) *verifier.Header {
	c.TB.Helper()

	height := clienttypes.NewHeight(clienttypes.ParseChainID(c.ChainID), revisionHeight)
	return c.Attestors.CreateHeader(c.TB, c.ChainID, height, c.HeaderTime(revisionHeight), root, nil, len(c.Attestors.Keys))
}

// UpdateClient admits a header at the given revision height committing to root.
func (c *TestClient) UpdateClient(revisionHeight uint64, root []byte) clienttypes.Height {
	c.TB.Helper()

	header := c.CreateHeader(revisionHeight, root)
	heights, err := c.Module.UpdateState(c.Env, c.Store, header)
	require.NoError(c.TB, err)
	require.Len(c.TB, heights, 1)

	return heights[0]
}

// AdvanceTime moves the host block time forward and increments the host block height.
func (c *TestClient) AdvanceTime(d time.Duration) {
	c.Env.BlockTime = c.Env.BlockTime.Add(d)
	c.Env.BlockHeight++
}

// AdvanceBlocks increments the host block height without moving the block time.
func (c *TestClient) AdvanceBlocks(n uint64) {
	c.Env.BlockHeight += n
}

// GetClientState returns the stored client state.
func (c *TestClient) GetClientState() *verifier.ClientState {
	c.TB.Helper()

	bz := c.Store.Get(host.ClientStateKey())
	require.NotEmpty(c.TB, bz, "client state not found")

	clientState, err := verifier.UnmarshalClientState(bz)
	require.NoError(c.TB, err)
	return clientState
}
