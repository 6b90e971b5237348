package verifier

import (
	"strings"
	"time"

	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

	clienttypes "github.com/cosmos/ibc-verifier/modules/core/02-client/types"
	commitmenttypes "github.com/cosmos/ibc-verifier/modules/core/23-commitment/types"
	"github.com/cosmos/ibc-verifier/modules/core/exported"
)

var _ exported.ClientMessage = (*Header)(nil)

// Header is a signed claim about the state of the remote chain at a height.
// The Commit carries the proof material checked by the ConsensusRule.
type Header struct {
	ChainId            string             `json:"chain_id" yaml:"chain_id"`
	Height             clienttypes.Height `json:"height" yaml:"height"`
	Timestamp          uint64             `json:"timestamp" yaml:"timestamp"`
	Root               []byte             `json:"root" yaml:"root"`
	NextValidatorsHash []byte             `json:"next_validators_hash" yaml:"next_validators_hash"`
	ValidatorsHash     []byte             `json:"validators_hash" yaml:"validators_hash"`
	Commit             []byte             `json:"commit" yaml:"commit"`
}

// ConsensusState returns the corresponding consensus state from the header.
func (h Header) ConsensusState() *ConsensusState {
	return &ConsensusState{
		Timestamp:          h.Timestamp,
		Root:               commitmenttypes.NewMerkleRoot(h.Root),
		NextValidatorsHash: h.NextValidatorsHash,
	}
}

// ClientType defines that the Header is a verifier header.
func (Header) ClientType() string {
	return ModuleName
}

// GetHeight returns the current height.
func (h Header) GetHeight() clienttypes.Height {
	return h.Height
}

// GetTime returns the current block timestamp.
func (h Header) GetTime() time.Time {
	return time.Unix(0, int64(h.Timestamp)).UTC()
}

// ValidateBasic calls the header ValidateBasic function and checks
// that the consensus material is present. The Commit is left to the
// consensus rule.
func (h Header) ValidateBasic() error {
	if strings.TrimSpace(h.ChainId) == "" {
		return sdkerrors.Wrap(ErrInvalidChainID, "header chain id cannot be empty")
	}
	if h.Height.RevisionHeight == 0 {
		return sdkerrors.Wrap(ErrInvalidHeaderHeight, "header revision height cannot be zero")
	}
	if h.Timestamp == 0 {
		return sdkerrors.Wrap(clienttypes.ErrInvalidHeader, "header timestamp cannot be zero")
	}
	if len(h.Root) == 0 {
		return sdkerrors.Wrap(clienttypes.ErrInvalidHeader, "header root cannot be empty")
	}
	if len(h.NextValidatorsHash) == 0 {
		return sdkerrors.Wrap(clienttypes.ErrInvalidHeader, "next validators hash cannot be empty")
	}
	if len(h.ValidatorsHash) == 0 {
		return sdkerrors.Wrap(clienttypes.ErrInvalidHeader, "validators hash cannot be empty")
	}
	return nil
}
