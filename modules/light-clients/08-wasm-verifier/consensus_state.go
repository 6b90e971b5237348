package verifier

import (
	"bytes"
	"math"
	"time"

	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

	clienttypes "github.com/cosmos/ibc-verifier/modules/core/02-client/types"
	commitmenttypes "github.com/cosmos/ibc-verifier/modules/core/23-commitment/types"
	"github.com/cosmos/ibc-verifier/modules/core/exported"
)

// ConsensusState is the verified state of the remote chain at a single height.
type ConsensusState struct {
	// timestamp of the header in unix nanoseconds
	Timestamp uint64 `json:"timestamp" yaml:"timestamp"`
	// commitment root used for key-value pair verification
	Root commitmenttypes.MerkleRoot `json:"root" yaml:"root"`
	// hash of the attestor set allowed to sign the next header
	NextValidatorsHash []byte `json:"next_validators_hash" yaml:"next_validators_hash"`
}

// NewConsensusState creates a new ConsensusState instance.
func NewConsensusState(
	timestamp uint64, root commitmenttypes.MerkleRoot, nextValsHash []byte,
) *ConsensusState {
	return &ConsensusState{
		Timestamp:          timestamp,
		Root:               root,
		NextValidatorsHash: nextValsHash,
	}
}

// ClientType returns 08-wasm-verifier
func (ConsensusState) ClientType() string {
	return ModuleName
}

// GetRoot returns the commitment Root of the consensus state
func (cs ConsensusState) GetRoot() exported.Root {
	return cs.Root
}

// GetTimestamp returns block time in nanoseconds of the header that created consensus state
func (cs ConsensusState) GetTimestamp() uint64 {
	return cs.Timestamp
}

// GetTime returns the timestamp as a time.Time.
func (cs ConsensusState) GetTime() time.Time {
	return time.Unix(0, int64(cs.Timestamp)).UTC()
}

// ValidateBasic defines a basic validation for the verifier consensus state.
func (cs ConsensusState) ValidateBasic() error {
	if cs.Root.Empty() {
		return sdkerrors.Wrap(clienttypes.ErrInvalidConsensus, "root cannot be empty")
	}
	if len(cs.NextValidatorsHash) == 0 {
		return sdkerrors.Wrap(clienttypes.ErrInvalidConsensus, "next validators hash cannot be empty")
	}
	if cs.Timestamp == 0 {
		return sdkerrors.Wrap(clienttypes.ErrInvalidConsensus, "timestamp must be a positive Unix time")
	}
	if cs.Timestamp > math.MaxInt64 {
		return sdkerrors.Wrapf(clienttypes.ErrInvalidConsensus, "timestamp %d exceeds the maximum Unix time in nanoseconds", cs.Timestamp)
	}
	return nil
}

// Equal reports whether both consensus states commit to the same timestamp, root
// and next validators hash.
func (cs ConsensusState) Equal(other *ConsensusState) bool {
	if other == nil {
		return false
	}
	return cs.Timestamp == other.Timestamp &&
		bytes.Equal(cs.Root.GetHash(), other.Root.GetHash()) &&
		bytes.Equal(cs.NextValidatorsHash, other.NextValidatorsHash)
}
