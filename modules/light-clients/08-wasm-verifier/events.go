package verifier

import (
	"strconv"
	"strings"

	sdk "github.com/cosmos/cosmos-sdk/types"

	clienttypes "github.com/cosmos/ibc-verifier/modules/core/02-client/types"
)

// emitCreateClientEvent emits a create client event
func emitCreateClientEvent(em *sdk.EventManager, clientState *ClientState) {
	em.EmitEvents(sdk.Events{
		sdk.NewEvent(
			clienttypes.EventTypeCreateClient,
			sdk.NewAttribute(clienttypes.AttributeKeyClientType, clientState.ClientType()),
			sdk.NewAttribute(clienttypes.AttributeKeyConsensusHeight, clientState.LatestHeight.String()),
		),
		sdk.NewEvent(
			sdk.EventTypeMessage,
			sdk.NewAttribute(sdk.AttributeKeyModule, clienttypes.AttributeValueCategory),
		),
	})
}

// emitUpdateClientEvent emits an update client event
func emitUpdateClientEvent(em *sdk.EventManager, consensusHeights []clienttypes.Height) {
	var consensusHeightAttr string
	if len(consensusHeights) != 0 {
		consensusHeightAttr = consensusHeights[0].String()
	}

	consensusHeightsAttr := make([]string, len(consensusHeights))
	for i, height := range consensusHeights {
		consensusHeightsAttr[i] = height.String()
	}

	em.EmitEvents(sdk.Events{
		sdk.NewEvent(
			clienttypes.EventTypeUpdateClient,
			sdk.NewAttribute(clienttypes.AttributeKeyClientType, ModuleName),
			// Deprecated: AttributeKeyConsensusHeight is deprecated and will be removed in a future release.
			// Please use AttributeKeyConsensusHeights instead.
			sdk.NewAttribute(clienttypes.AttributeKeyConsensusHeight, consensusHeightAttr),
			sdk.NewAttribute(clienttypes.AttributeKeyConsensusHeights, strings.Join(consensusHeightsAttr, ",")),
		),
		sdk.NewEvent(
			sdk.EventTypeMessage,
			sdk.NewAttribute(sdk.AttributeKeyModule, clienttypes.AttributeValueCategory),
		),
	})
}

// emitUpgradeClientEvent emits an upgrade client event
func emitUpgradeClientEvent(em *sdk.EventManager, clientState *ClientState) {
	em.EmitEvents(sdk.Events{
		sdk.NewEvent(
			clienttypes.EventTypeUpgradeClient,
			sdk.NewAttribute(clienttypes.AttributeKeyClientType, clientState.ClientType()),
			sdk.NewAttribute(clienttypes.AttributeKeyConsensusHeight, clientState.LatestHeight.String()),
		),
		sdk.NewEvent(
			sdk.EventTypeMessage,
			sdk.NewAttribute(sdk.AttributeKeyModule, clienttypes.AttributeValueCategory),
		),
	})
}

// emitSubmitMisbehaviourEvent emits a client misbehaviour event
func emitSubmitMisbehaviourEvent(em *sdk.EventManager, frozenHeight clienttypes.Height) {
	em.EmitEvents(sdk.Events{
		sdk.NewEvent(
			clienttypes.EventTypeSubmitMisbehaviour,
			sdk.NewAttribute(clienttypes.AttributeKeyClientType, ModuleName),
			sdk.NewAttribute(clienttypes.AttributeKeyFrozenHeight, frozenHeight.String()),
		),
		sdk.NewEvent(
			sdk.EventTypeMessage,
			sdk.NewAttribute(sdk.AttributeKeyModule, clienttypes.AttributeValueCategory),
		),
	})
}

// emitMigrateClientStoreEvent emits a migrate client store event
func emitMigrateClientStoreEvent(em *sdk.EventManager, version uint64, prunedHeights []clienttypes.Height) {
	pruned := make([]string, len(prunedHeights))
	for i, height := range prunedHeights {
		pruned[i] = height.String()
	}

	em.EmitEvents(sdk.Events{
		sdk.NewEvent(
			clienttypes.EventTypeMigrateClientStore,
			sdk.NewAttribute(clienttypes.AttributeKeyClientType, ModuleName),
			sdk.NewAttribute(clienttypes.AttributeKeyStoreVersion, strconv.FormatUint(version, 10)),
			sdk.NewAttribute(clienttypes.AttributeKeyConsensusHeights, strings.Join(pruned, ",")),
		),
		sdk.NewEvent(
			sdk.EventTypeMessage,
			sdk.NewAttribute(sdk.AttributeKeyModule, clienttypes.AttributeValueCategory),
		),
	})
}
