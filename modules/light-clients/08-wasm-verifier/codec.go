package verifier

import (
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
	"github.com/ethereum/go-ethereum/rlp"

	clienttypes "github.com/cosmos/ibc-verifier/modules/core/02-client/types"
	"github.com/cosmos/ibc-verifier/modules/core/exported"
)

// Client messages are encoded as a single type byte followed by the RLP
// encoding of the message.
const (
	HeaderType       byte = 0x01
	MisbehaviourType byte = 0x02
)

// MarshalClientState returns the canonical encoding of the client state.
func MarshalClientState(clientState *ClientState) ([]byte, error) {
	return rlp.EncodeToBytes(clientState)
}

// MustMarshalClientState attempts to encode a ClientState and panics on error.
func MustMarshalClientState(clientState *ClientState) []byte {
	bz, err := MarshalClientState(clientState)
	if err != nil {
		panic(err)
	}
	return bz
}

// UnmarshalClientState decodes a ClientState from its canonical encoding.
func UnmarshalClientState(bz []byte) (*ClientState, error) {
	var clientState ClientState
	if err := rlp.DecodeBytes(bz, &clientState); err != nil {
		return nil, sdkerrors.Wrapf(clienttypes.ErrInvalidClient, "unmarshal error: %v", err)
	}
	return &clientState, nil
}

// MarshalConsensusState returns the canonical encoding of the consensus state.
func MarshalConsensusState(consensusState *ConsensusState) ([]byte, error) {
	return rlp.EncodeToBytes(consensusState)
}

// MustMarshalConsensusState attempts to encode a ConsensusState and panics on error.
func MustMarshalConsensusState(consensusState *ConsensusState) []byte {
	bz, err := MarshalConsensusState(consensusState)
	if err != nil {
		panic(err)
	}
	return bz
}

// UnmarshalConsensusState decodes a ConsensusState from its canonical encoding.
func UnmarshalConsensusState(bz []byte) (*ConsensusState, error) {
	var consensusState ConsensusState
	if err := rlp.DecodeBytes(bz, &consensusState); err != nil {
		return nil, sdkerrors.Wrapf(clienttypes.ErrInvalidConsensus, "unmarshal error: %v", err)
	}
	return &consensusState, nil
}

// MarshalClientMessage encodes a Header or Misbehaviour prefixed with its type byte.
func MarshalClientMessage(clientMsg exported.ClientMessage) ([]byte, error) {
	var msgType byte
	switch clientMsg.(type) {
	case *Header:
		msgType = HeaderType
	case *Misbehaviour:
		msgType = MisbehaviourType
	default:
		return nil, sdkerrors.Wrapf(clienttypes.ErrInvalidClientMessage, "cannot encode client message of type %T", clientMsg)
	}

	payload, err := rlp.EncodeToBytes(clientMsg)
	if err != nil {
		return nil, sdkerrors.Wrapf(clienttypes.ErrInvalidClientMessage, "marshal error: %v", err)
	}
	return append([]byte{msgType}, payload...), nil
}

// MustMarshalClientMessage attempts to encode a client message and panics on error.
func MustMarshalClientMessage(clientMsg exported.ClientMessage) []byte {
	bz, err := MarshalClientMessage(clientMsg)
	if err != nil {
		panic(err)
	}
	return bz
}

// UnmarshalClientMessage decodes bytes produced by MarshalClientMessage.
func UnmarshalClientMessage(bz []byte) (exported.ClientMessage, error) {
	if len(bz) < 2 {
		return nil, sdkerrors.Wrap(clienttypes.ErrInvalidClientMessage, "client message too short")
	}

	switch bz[0] {
	case HeaderType:
		var header Header
		if err := rlp.DecodeBytes(bz[1:], &header); err != nil {
			return nil, sdkerrors.Wrapf(clienttypes.ErrInvalidClientMessage, "unmarshal header: %v", err)
		}
		return &header, nil
	case MisbehaviourType:
		var misbehaviour Misbehaviour
		if err := rlp.DecodeBytes(bz[1:], &misbehaviour); err != nil {
			return nil, sdkerrors.Wrapf(clienttypes.ErrInvalidClientMessage, "unmarshal misbehaviour: %v", err)
		}
		return &misbehaviour, nil
	default:
		return nil, sdkerrors.Wrapf(clienttypes.ErrInvalidClientMessage, "unknown client message type %#x", bz[0])
	}
}

// MarshalMisbehaviourRecord returns the canonical encoding of the record.
func MarshalMisbehaviourRecord(record *MisbehaviourRecord) ([]byte, error) {
	return rlp.EncodeToBytes(record)
}

// UnmarshalMisbehaviourRecord decodes a MisbehaviourRecord.
func UnmarshalMisbehaviourRecord(bz []byte) (*MisbehaviourRecord, error) {
	var record MisbehaviourRecord
	if err := rlp.DecodeBytes(bz, &record); err != nil {
		return nil, sdkerrors.Wrapf(clienttypes.ErrInvalidMisbehaviour, "unmarshal error: %v", err)
	}
	return &record, nil
}
