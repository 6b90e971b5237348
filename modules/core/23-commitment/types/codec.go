package types

import (
	ics23 "github.com/confio/ics23/go"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/gogo/protobuf/proto"
)

// Marshal encodes the MerkleProof as an RLP list of protobuf encoded
// CommitmentProofs, ordered from leaf-to-root.
func (proof MerkleProof) Marshal() ([]byte, error) {
	encoded := make([][]byte, len(proof.Proofs))
	for i, p := range proof.Proofs {
		bz, err := proto.Marshal(p)
		if err != nil {
			return nil, sdkerrors.Wrapf(ErrInvalidMerkleProof, "failed to marshal commitment proof at index %d: %v", i, err)
		}
		encoded[i] = bz
	}
	return rlp.EncodeToBytes(encoded)
}

// UnmarshalMerkleProof decodes bytes produced by MerkleProof.Marshal.
func UnmarshalMerkleProof(bz []byte) (MerkleProof, error) {
	var encoded [][]byte
	if err := rlp.DecodeBytes(bz, &encoded); err != nil {
		return MerkleProof{}, sdkerrors.Wrapf(ErrInvalidMerkleProof, "failed to decode merkle proof: %v", err)
	}

	proofs := make([]*ics23.CommitmentProof, len(encoded))
	for i, pbz := range encoded {
		var p ics23.CommitmentProof
		if err := proto.Unmarshal(pbz, &p); err != nil || p.Proof == nil {
			return MerkleProof{}, sdkerrors.Wrapf(ErrInvalidMerkleProof, "could not unmarshal commitment proof at index %d: %v", i, err)
		}
		proofs[i] = &p
	}

	proof := MerkleProof{Proofs: proofs}
	if err := proof.ValidateBasic(); err != nil {
		return MerkleProof{}, err
	}
	return proof, nil
}
