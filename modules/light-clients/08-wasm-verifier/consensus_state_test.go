package verifier_test

import (
	"math"
	"time"

	clienttypes "github.com/cosmos/ibc-verifier/modules/core/02-client/types"
	commitmenttypes "github.com/cosmos/ibc-verifier/modules/core/23-commitment/types"
	verifier "github.com/cosmos/ibc-verifier/modules/light-clients/08-wasm-verifier"
	ibctesting "github.com/cosmos/ibc-verifier/testing"
)

func (suite *VerifierTestSuite) TestConsensusStateValidateBasic() {
	testCases := []struct {
		msg            string
		consensusState *verifier.ConsensusState
		expectPass     bool
	}{
		{
			"success",
			verifier.NewConsensusState(uint64(ibctesting.GenesisTime.UnixNano()), commitmenttypes.NewMerkleRoot(genesisRoot), suite.client.Attestors.Hash()),
			true,
		},
		{
			"root is nil",
			verifier.NewConsensusState(uint64(ibctesting.GenesisTime.UnixNano()), commitmenttypes.MerkleRoot{}, suite.client.Attestors.Hash()),
			false,
		},
		{
			"root is empty",
			verifier.NewConsensusState(uint64(ibctesting.GenesisTime.UnixNano()), commitmenttypes.NewMerkleRoot([]byte{}), suite.client.Attestors.Hash()),
			false,
		},
		{
			"next validators hash is empty",
			verifier.NewConsensusState(uint64(ibctesting.GenesisTime.UnixNano()), commitmenttypes.NewMerkleRoot(genesisRoot), []byte{}),
			false,
		},
		{
			"timestamp is zero",
			verifier.NewConsensusState(0, commitmenttypes.NewMerkleRoot(genesisRoot), suite.client.Attestors.Hash()),
			false,
		},
		{
			"timestamp at maximum Unix time",
			verifier.NewConsensusState(math.MaxInt64, commitmenttypes.NewMerkleRoot(genesisRoot), suite.client.Attestors.Hash()),
			true,
		},
		{
			"timestamp exceeds maximum Unix time",
			verifier.NewConsensusState(math.MaxUint64, commitmenttypes.NewMerkleRoot(genesisRoot), suite.client.Attestors.Hash()),
			false,
		},
	}

	for i, tc := range testCases {
		tc := tc

		// check just to increase coverage
		suite.Require().Equal(verifier.ModuleName, tc.consensusState.ClientType())
		suite.Require().Equal(tc.consensusState.GetRoot(), tc.consensusState.Root)

		err := tc.consensusState.ValidateBasic()
		if tc.expectPass {
			suite.Require().NoError(err, "valid test case %d failed: %s", i, tc.msg)
		} else {
			suite.Require().ErrorIs(err, clienttypes.ErrInvalidConsensus, "invalid test case %d passed: %s", i, tc.msg)
		}
	}
}

func (suite *VerifierTestSuite) TestConsensusStateTime() {
	consensusState := suite.consensusState(ibctesting.GenesisHeight)

	suite.Require().Equal(uint64(ibctesting.GenesisTime.UnixNano()), consensusState.GetTimestamp())
	suite.Require().True(ibctesting.GenesisTime.Equal(consensusState.GetTime()))
	suite.Require().Equal(time.UTC, consensusState.GetTime().Location())
}

func (suite *VerifierTestSuite) TestConsensusStateEqual() {
	consensusState := suite.consensusState(ibctesting.GenesisHeight)

	other := *consensusState
	suite.Require().True(consensusState.Equal(&other))
	suite.Require().False(consensusState.Equal(nil))

	other.Timestamp++
	suite.Require().False(consensusState.Equal(&other))

	other = *consensusState
	other.Root = commitmenttypes.NewMerkleRoot(updatedRoot)
	suite.Require().False(consensusState.Equal(&other))

	other = *consensusState
	other.NextValidatorsHash = []byte("other validators")
	suite.Require().False(consensusState.Equal(&other))
}
