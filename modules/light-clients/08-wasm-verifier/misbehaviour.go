package verifier

import (
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

	clienttypes "github.com/cosmos/ibc-verifier/modules/core/02-client/types"
	"github.com/cosmos/ibc-verifier/modules/core/exported"
)

var _ exported.ClientMessage = (*Misbehaviour)(nil)

// Misbehaviour is a wrapper over two conflicting Headers
// that implements Misbehaviour interface expected by ICS-02
type Misbehaviour struct {
	Header1 *Header `json:"header_1" yaml:"header_1"`
	Header2 *Header `json:"header_2" yaml:"header_2"`
}

// NewMisbehaviour creates a new Misbehaviour instance.
func NewMisbehaviour(header1, header2 *Header) *Misbehaviour {
	return &Misbehaviour{
		Header1: header1,
		Header2: header2,
	}
}

// ClientType is 08-wasm-verifier light client
func (Misbehaviour) ClientType() string {
	return ModuleName
}

// GetHeight returns the height at which misbehaviour occurred, the height of
// Header1, which is never lower than that of Header2.
func (misbehaviour Misbehaviour) GetHeight() clienttypes.Height {
	return misbehaviour.Header1.GetHeight()
}

// ValidateBasic implements Misbehaviour interface
func (misbehaviour Misbehaviour) ValidateBasic() error {
	if misbehaviour.Header1 == nil {
		return sdkerrors.Wrap(clienttypes.ErrInvalidMisbehaviour, "misbehaviour Header1 cannot be nil")
	}
	if misbehaviour.Header2 == nil {
		return sdkerrors.Wrap(clienttypes.ErrInvalidMisbehaviour, "misbehaviour Header2 cannot be nil")
	}

	if err := misbehaviour.Header1.ValidateBasic(); err != nil {
		return sdkerrors.Wrap(
			clienttypes.ErrInvalidMisbehaviour,
			sdkerrors.Wrap(err, "header 1 failed validation").Error(),
		)
	}
	if err := misbehaviour.Header2.ValidateBasic(); err != nil {
		return sdkerrors.Wrap(
			clienttypes.ErrInvalidMisbehaviour,
			sdkerrors.Wrap(err, "header 2 failed validation").Error(),
		)
	}

	if misbehaviour.Header1.ChainId != misbehaviour.Header2.ChainId {
		return sdkerrors.Wrap(clienttypes.ErrInvalidMisbehaviour, "headers must have identical chainIDs")
	}

	// Ensure that Height1 is greater than or equal to Height2
	if misbehaviour.Header1.GetHeight().LT(misbehaviour.Header2.GetHeight()) {
		return sdkerrors.Wrapf(clienttypes.ErrInvalidMisbehaviour, "Header1 height is less than Header2 height (%s < %s)", misbehaviour.Header1.GetHeight(), misbehaviour.Header2.GetHeight())
	}

	return nil
}

// MisbehaviourRecord is persisted when the client is frozen and describes the
// evidence that froze it.
type MisbehaviourRecord struct {
	// height of the conflicting header
	Height clienttypes.Height `json:"height" yaml:"height"`
	// host block time in nanoseconds at which the client was frozen
	DetectedAt uint64 `json:"detected_at" yaml:"detected_at"`
	// keccak256 hash of the encoded client message
	EvidenceHash []byte `json:"evidence_hash" yaml:"evidence_hash"`
}
