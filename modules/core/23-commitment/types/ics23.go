package types

import (
	ics23 "github.com/confio/ics23/go"

	"github.com/cosmos/ibc-verifier/modules/core/exported"
)

var _ ProofScheme = (*ICS23Scheme)(nil)

// GetSDKSpecs is a getter function for the proof specs of an sdk chain
func GetSDKSpecs() []*ics23.ProofSpec {
	return []*ics23.ProofSpec{ics23.IavlSpec, ics23.TendermintSpec}
}

// GetTendermintSpecs returns the proof specs of a single simple merkle tree.
func GetTendermintSpecs() []*ics23.ProofSpec {
	return []*ics23.ProofSpec{ics23.TendermintSpec}
}

// ICS23Scheme verifies chained ICS-23 commitment proofs. The specs are ordered
// from the lowest subtree to the root, and the merkle path must contain one key
// per spec.
type ICS23Scheme struct {
	name  string
	specs []*ics23.ProofSpec
}

// NewICS23Scheme returns an ICS-23 proof scheme using the given proof specs.
func NewICS23Scheme(name string, specs []*ics23.ProofSpec) *ICS23Scheme {
	return &ICS23Scheme{
		name:  name,
		specs: specs,
	}
}

// Name implements ProofScheme.
func (s ICS23Scheme) Name() string {
	return s.name
}

// Specs returns the proof specs of the scheme.
func (s ICS23Scheme) Specs() []*ics23.ProofSpec {
	return s.specs
}

// VerifyMembership implements ProofScheme.
func (s ICS23Scheme) VerifyMembership(root exported.Root, proof []byte, path MerklePath, value []byte) error {
	merkleProof, err := UnmarshalMerkleProof(proof)
	if err != nil {
		return err
	}

	return merkleProof.VerifyMembership(s.specs, root, path, value)
}

// VerifyNonMembership implements ProofScheme.
func (s ICS23Scheme) VerifyNonMembership(root exported.Root, proof []byte, path MerklePath) error {
	merkleProof, err := UnmarshalMerkleProof(proof)
	if err != nil {
		return err
	}

	return merkleProof.VerifyNonMembership(s.specs, root, path)
}
