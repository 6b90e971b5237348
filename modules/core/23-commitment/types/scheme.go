package types

import (
	"fmt"
	"sort"

	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

	"github.com/cosmos/ibc-verifier/modules/core/exported"
)

// Names of the proof schemes registered by DefaultSchemeRouter.
const (
	SchemeICS23Tendermint = "ics23-tendermint"
	SchemeICS23SDK        = "ics23-sdk"
	SchemeEthereumMPT     = "ethereum-mpt"
)

// ProofScheme decodes and verifies an opaque proof against a commitment root.
// Implementations must be pure: no state is read or written.
type ProofScheme interface {
	// Name returns the identifier under which the scheme is registered.
	Name() string

	// VerifyMembership verifies that the path resolves to value under root.
	VerifyMembership(root exported.Root, proof []byte, path MerklePath, value []byte) error

	// VerifyNonMembership verifies that nothing is committed under path in root.
	VerifyNonMembership(root exported.Root, proof []byte, path MerklePath) error
}

// SchemeRouter is a map from proof scheme name to the ProofScheme that
// verifies it.
type SchemeRouter struct {
	routes map[string]ProofScheme
}

// NewSchemeRouter returns an empty SchemeRouter.
func NewSchemeRouter() *SchemeRouter {
	return &SchemeRouter{
		routes: make(map[string]ProofScheme),
	}
}

// DefaultSchemeRouter returns a router holding the ICS-23 tendermint, ICS-23 cosmos-sdk
// multistore and ethereum merkle-patricia proof schemes.
func DefaultSchemeRouter() *SchemeRouter {
	return NewSchemeRouter().
		AddRoute(NewICS23Scheme(SchemeICS23Tendermint, GetTendermintSpecs())).
		AddRoute(NewICS23Scheme(SchemeICS23SDK, GetSDKSpecs())).
		AddRoute(NewMPTScheme())
}

// AddRoute adds a ProofScheme under its name. It returns the SchemeRouter
// so AddRoute calls can be linked. It will panic if the name is already registered.
func (rtr *SchemeRouter) AddRoute(scheme ProofScheme) *SchemeRouter {
	if rtr.HasRoute(scheme.Name()) {
		panic(fmt.Errorf("proof scheme %s has already been registered", scheme.Name()))
	}

	rtr.routes[scheme.Name()] = scheme
	return rtr
}

// HasRoute returns true if the SchemeRouter has a scheme registered under the name.
func (rtr *SchemeRouter) HasRoute(name string) bool {
	_, ok := rtr.routes[name]
	return ok
}

// GetRoute returns the ProofScheme registered under the name.
func (rtr *SchemeRouter) GetRoute(name string) (ProofScheme, error) {
	scheme, ok := rtr.routes[name]
	if !ok {
		return nil, sdkerrors.Wrapf(ErrUnknownProofScheme, "no proof scheme registered for %s", name)
	}
	return scheme, nil
}

// Routes returns the sorted names of all registered schemes.
func (rtr *SchemeRouter) Routes() []string {
	names := make([]string, 0, len(rtr.routes))
	for name := range rtr.routes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
