/*
This file contains the variables, constants, and default values
used in the testing package and commonly defined in tests.
*/
package ibctesting

import (
	"time"

	clienttypes "github.com/cosmos/ibc-verifier/modules/core/02-client/types"
	verifier "github.com/cosmos/ibc-verifier/modules/light-clients/08-wasm-verifier"
)

const (
	// ChainID is the default counterparty chain-id, it has revision 0.
	ChainID = "testchain-0"
	// HostChainID is the chain-id of the chain running the client.
	HostChainID = "hostchain-1"

	// TrustingPeriod is the default trusting period of a client created in tests.
	TrustingPeriod time.Duration = time.Hour * 24 * 7 * 2
	// MaxClockDrift is the default max clock drift of a client created in tests.
	MaxClockDrift time.Duration = time.Second * 10
	// MaxHeightGap bounds headers to this many blocks past their trusted height.
	MaxHeightGap uint64 = 1000

	// NumAttestors is the size of the attestor set signing counterparty headers.
	NumAttestors = 4

	// StoreName is the name of the store committed to by the counterparty multistore.
	StoreName = "ibc"
)

var (
	// DefaultTrustLevel is the trust level of a client created in tests.
	DefaultTrustLevel = verifier.DefaultTrustLevel

	// GenesisHeight is the height of the consensus state written at instantiation.
	GenesisHeight = clienttypes.NewHeight(0, 1)

	// UpgradePath is the path the counterparty commits upgrades under.
	UpgradePath = []string{"upgrade", "upgradedIBCState"}

	// Checksum is the code checksum clients are instantiated with.
	Checksum = []byte("0123456789abcdef0123456789abcdef")

	// GenesisTime is the host block time at which clients are created.
	GenesisTime = time.Date(2022, time.January, 1, 0, 0, 0, 0, time.UTC)

	// MockRoot is a commitment root used where no proof is checked against it.
	MockRoot = []byte("mock root")

	charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)
