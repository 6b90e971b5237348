package verifier

import (
	"bytes"
	"encoding/json"
	"errors"

	"github.com/cosmos/cosmos-sdk/store/cachekv"
	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

	clienttypes "github.com/cosmos/ibc-verifier/modules/core/02-client/types"
	"github.com/cosmos/ibc-verifier/modules/core/exported"
)

// Response is returned by the state changing entry points.
type Response struct {
	// Data is the JSON encoded result of the call.
	Data   []byte     `json:"data"`
	Events sdk.Events `json:"events"`
}

// Contract exposes a LightClientModule through JSON encoded instantiate, sudo and
// query entry points. Every call runs against a cache of the client store. Sudo
// and instantiate calls write the cache back only on success, or when an update
// freezes the client; queries never write.
type Contract struct {
	module LightClientModule
}

// NewContract returns a Contract dispatching to the given module.
func NewContract(module LightClientModule) Contract {
	return Contract{module: module}
}

// Module returns the underlying light client module.
func (c Contract) Module() LightClientModule {
	return c.module
}

// Instantiate creates the client from an InstantiateMessage.
func (c Contract) Instantiate(clientStore sdk.KVStore, env Env, msg []byte) (*Response, error) {
	if err := env.Validate(); err != nil {
		return nil, err
	}

	var payload InstantiateMessage
	if err := decodeMsg(msg, &payload); err != nil {
		return nil, err
	}

	clientState, err := UnmarshalClientState(payload.ClientState)
	if err != nil {
		return nil, err
	}
	consensusState, err := UnmarshalConsensusState(payload.ConsensusState)
	if err != nil {
		return nil, err
	}
	if len(payload.Checksum) == 0 {
		return nil, sdkerrors.Wrap(ErrInvalidChecksum, "checksum cannot be empty")
	}

	cache := cachekv.NewStore(clientStore)
	em := sdk.NewEventManager()

	clientState, err = c.module.Initialize(env, cache, clientState, consensusState, payload.Checksum)
	if err != nil {
		return nil, err
	}
	emitCreateClientEvent(em, clientState)

	cache.Write()
	return newResponse(EmptyResult{}, em)
}

// Sudo executes a state changing SudoMsg. When an update_state call detects
// misbehaviour the freeze is written and both the response and the
// ErrMisbehaviourDetected error are returned.
func (c Contract) Sudo(clientStore sdk.KVStore, env Env, msg []byte) (*Response, error) {
	if err := env.Validate(); err != nil {
		return nil, err
	}

	var payload SudoMsg
	if err := decodeMsg(msg, &payload); err != nil {
		return nil, err
	}
	if n := countSet(payload.UpdateState != nil, payload.UpdateStateOnMisbehaviour != nil, payload.VerifyUpgradeAndUpdateState != nil,
		payload.VerifyMembership != nil, payload.VerifyNonMembership != nil, payload.MigrateClientStore != nil); n != 1 {
		return nil, sdkerrors.Wrapf(ErrUnknownMessage, "expected exactly one sudo message, got %d", n)
	}

	cache := cachekv.NewStore(clientStore)
	em := sdk.NewEventManager()

	result, err := c.sudo(cache, env, em, payload)
	switch {
	case err == nil:
		cache.Write()
		return newResponse(result, em)
	case errors.Is(err, clienttypes.ErrMisbehaviourDetected):
		cache.Write()
		resp, respErr := newResponse(EmptyResult{}, em)
		if respErr != nil {
			return nil, respErr
		}
		return resp, err
	default:
		return nil, err
	}
}

func (c Contract) sudo(clientStore sdk.KVStore, env Env, em *sdk.EventManager, payload SudoMsg) (interface{}, error) {
	switch {
	case payload.UpdateState != nil:
		clientMsg, err := UnmarshalClientMessage(payload.UpdateState.ClientMessage)
		if err != nil {
			return nil, err
		}

		heights, err := c.module.UpdateState(env, clientStore, clientMsg)
		if err != nil {
			if errors.Is(err, clienttypes.ErrMisbehaviourDetected) {
				emitSubmitMisbehaviourEvent(em, misbehaviourHeight(clientMsg))
			}
			return nil, err
		}
		if len(heights) != 0 {
			emitUpdateClientEvent(em, heights)
		}
		return UpdateStateResult{Heights: heights}, nil

	case payload.UpdateStateOnMisbehaviour != nil:
		clientMsg, err := UnmarshalClientMessage(payload.UpdateStateOnMisbehaviour.ClientMessage)
		if err != nil {
			return nil, err
		}

		wasFrozen := c.module.Status(clientStore) == exported.Frozen
		frozenHeight, err := c.module.UpdateStateOnMisbehaviour(env, clientStore, clientMsg)
		if err != nil {
			return nil, err
		}
		if !wasFrozen {
			emitSubmitMisbehaviourEvent(em, frozenHeight)
		}
		return EmptyResult{}, nil

	case payload.VerifyUpgradeAndUpdateState != nil:
		msg := payload.VerifyUpgradeAndUpdateState
		upgradedClient, err := UnmarshalClientState(msg.UpgradeClientState)
		if err != nil {
			return nil, sdkerrors.Wrap(clienttypes.ErrInvalidUpgradeClient, err.Error())
		}
		upgradedConsState, err := UnmarshalConsensusState(msg.UpgradeConsensusState)
		if err != nil {
			return nil, sdkerrors.Wrap(clienttypes.ErrInvalidUpgradeClient, err.Error())
		}

		newClientState, err := c.module.VerifyUpgradeAndUpdateState(env, clientStore, upgradedClient, upgradedConsState, msg.ProofUpgradeClient, msg.ProofUpgradeConsensusState)
		if err != nil {
			return nil, err
		}
		emitUpgradeClientEvent(em, newClientState)
		return UpdateStateResult{Heights: []clienttypes.Height{newClientState.LatestHeight}}, nil

	case payload.VerifyMembership != nil:
		msg := payload.VerifyMembership
		if err := c.module.VerifyMembership(env, clientStore, msg.Height, msg.DelayTimePeriod, msg.DelayBlockPeriod, msg.Proof, msg.MerklePath, msg.Value); err != nil {
			return nil, err
		}
		return EmptyResult{}, nil

	case payload.VerifyNonMembership != nil:
		msg := payload.VerifyNonMembership
		if err := c.module.VerifyNonMembership(env, clientStore, msg.Height, msg.DelayTimePeriod, msg.DelayBlockPeriod, msg.Proof, msg.MerklePath); err != nil {
			return nil, err
		}
		return EmptyResult{}, nil

	case payload.MigrateClientStore != nil:
		pruned, err := c.module.MigrateClientStore(env, clientStore)
		if err != nil {
			return nil, err
		}
		emitMigrateClientStoreEvent(em, CurrentStoreVersion, pruned)
		if pruned == nil {
			pruned = []clienttypes.Height{}
		}
		return MigrateClientStoreResult{PrunedHeights: pruned}, nil

	default:
		return nil, sdkerrors.Wrap(ErrUnknownMessage, "unknown sudo message")
	}
}

// Query executes a read-only QueryMsg and returns the JSON encoded result.
func (c Contract) Query(clientStore sdk.KVStore, env Env, msg []byte) ([]byte, error) {
	if err := env.Validate(); err != nil {
		return nil, err
	}

	var payload QueryMsg
	if err := decodeMsg(msg, &payload); err != nil {
		return nil, err
	}
	if n := countSet(payload.Status != nil, payload.ExportMetadata != nil, payload.TimestampAtHeight != nil,
		payload.VerifyClientMessage != nil, payload.CheckForMisbehaviour != nil); n != 1 {
		return nil, sdkerrors.Wrapf(ErrUnknownMessage, "expected exactly one query message, got %d", n)
	}

	// queries run against a cache that is discarded
	cache := cachekv.NewStore(clientStore)

	result, err := c.query(cache, env, payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(result)
}

func (c Contract) query(clientStore sdk.KVStore, env Env, payload QueryMsg) (interface{}, error) {
	switch {
	case payload.Status != nil:
		return StatusResult{Status: c.module.Status(clientStore).String()}, nil

	case payload.ExportMetadata != nil:
		metadata, err := c.module.ExportMetadata(clientStore)
		if err != nil {
			return nil, err
		}
		return ExportMetadataResult{GenesisMetadata: metadata}, nil

	case payload.TimestampAtHeight != nil:
		timestamp, err := c.module.TimestampAtHeight(clientStore, payload.TimestampAtHeight.Height)
		if err != nil {
			return nil, err
		}
		return TimestampAtHeightResult{Timestamp: timestamp}, nil

	case payload.VerifyClientMessage != nil:
		clientMsg, err := UnmarshalClientMessage(payload.VerifyClientMessage.ClientMessage)
		if err != nil {
			return nil, err
		}
		if err := c.module.VerifyClientMessage(env, clientStore, clientMsg); err != nil {
			return nil, err
		}
		return EmptyResult{}, nil

	case payload.CheckForMisbehaviour != nil:
		clientMsg, err := UnmarshalClientMessage(payload.CheckForMisbehaviour.ClientMessage)
		if err != nil {
			return nil, err
		}
		found, err := c.module.CheckForMisbehaviour(env, clientStore, clientMsg)
		if err != nil {
			return nil, err
		}
		return CheckForMisbehaviourResult{FoundMisbehaviour: found}, nil

	default:
		return nil, sdkerrors.Wrap(ErrUnknownMessage, "unknown query message")
	}
}

// decodeMsg decodes a JSON message, rejecting fields that are not part of the message type.
func decodeMsg(bz []byte, msg interface{}) error {
	dec := json.NewDecoder(bytes.NewReader(bz))
	dec.DisallowUnknownFields()
	if err := dec.Decode(msg); err != nil {
		return sdkerrors.Wrapf(ErrUnknownMessage, "failed to decode message: %v", err)
	}
	return nil
}

// countSet returns the number of message variants that are set.
func countSet(variants ...bool) int {
	var n int
	for _, set := range variants {
		if set {
			n++
		}
	}
	return n
}

func newResponse(result interface{}, em *sdk.EventManager) (*Response, error) {
	bz, err := json.Marshal(result)
	if err != nil {
		return nil, sdkerrors.Wrapf(sdkerrors.ErrJSONMarshal, "failed to marshal result: %v", err)
	}
	return &Response{Data: bz, Events: em.Events()}, nil
}
