package verifier

import (
	"github.com/cosmos/ibc-verifier/modules/core/exported"
)

const (
	// ModuleName for the verifier light client
	ModuleName = exported.Verifier

	// SentinelRoot is used as a stand-in root value for the consensus state set at the upgrade height
	SentinelRoot = "sentinel_root"

	// KeyMisbehaviour is the store key of the record written when the client freezes
	KeyMisbehaviour = "misbehaviour"

	// KeyStoreVersion is the store key of the client store schema version
	KeyStoreVersion = "version"

	// KeyUpgradedClient and KeyUpgradedConsState are appended to the upgrade path
	// under which the counterparty commits to an upgrade.
	KeyUpgradedClient    = "upgradedClient"
	KeyUpgradedConsState = "upgradedConsState"
)

// Client store schema versions. Version 1 stores only client and consensus states,
// version 2 adds the ordered iteration index and processed time/height metadata.
const (
	StoreVersion1 uint64 = 1
	StoreVersion2 uint64 = 2

	CurrentStoreVersion = StoreVersion2
)
