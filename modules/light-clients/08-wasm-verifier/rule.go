package verifier

import (
	clienttypes "github.com/cosmos/ibc-verifier/modules/core/02-client/types"
)

// ConsensusRule checks a header against the consensus rule of the remote chain.
// Validate is called with the trusted consensus state the header extends and
// returns the consensus state to store for the header height. It must not
// touch the store.
type ConsensusRule interface {
	Validate(clientState *ClientState, trustedHeight clienttypes.Height, trusted *ConsensusState, header *Header) (*ConsensusState, error)
}
