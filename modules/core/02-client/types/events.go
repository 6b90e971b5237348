package types

import (
	"fmt"

	"github.com/cosmos/ibc-verifier/modules/core/exported"
)

// IBC client events
const (
	AttributeKeyClientType       = "client_type"
	AttributeKeyConsensusHeight  = "consensus_height"
	AttributeKeyConsensusHeights = "consensus_heights"
	AttributeKeyFrozenHeight     = "frozen_height"
	AttributeKeyStoreVersion     = "store_version"
)

// IBC client events vars
var (
	EventTypeCreateClient       = "create_client"
	EventTypeUpdateClient       = "update_client"
	EventTypeUpgradeClient      = "upgrade_client"
	EventTypeSubmitMisbehaviour = "client_misbehaviour"
	EventTypeMigrateClientStore = "migrate_client_store"

	AttributeValueCategory = fmt.Sprintf("%s_%s", exported.ModuleName, SubModuleName)
)
