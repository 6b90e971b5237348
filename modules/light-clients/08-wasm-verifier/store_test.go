package verifier_test

import (
	clienttypes "github.com/cosmos/ibc-verifier/modules/core/02-client/types"
	commitmenttypes "github.com/cosmos/ibc-verifier/modules/core/23-commitment/types"
	host "github.com/cosmos/ibc-verifier/modules/core/24-host"
	verifier "github.com/cosmos/ibc-verifier/modules/light-clients/08-wasm-verifier"
	ibctesting "github.com/cosmos/ibc-verifier/testing"
)

func (suite *VerifierTestSuite) TestGetConsensusState() {
	var h clienttypes.Height

	testCases := []struct {
		name     string
		malleate func()
		expPass  bool
	}{
		{
			"success", func() {}, true,
		},
		{
			"consensus state not found", func() {
				// use height with no consensus state set
				h = h.Increment()
			}, false,
		},
		{
			"consensus state is not decodable", func() {
				suite.client.Store.Set(host.ConsensusStateKey(h), []byte("invalid consensus state"))
			}, false,
		},
	}

	for _, tc := range testCases {
		tc := tc

		suite.Run(tc.name, func() {
			suite.SetupTest()
			h = suite.client.UpdateClient(height.RevisionHeight, updatedRoot)

			tc.malleate()

			consensusState, found := verifier.GetConsensusState(suite.client.Store, h)
			if tc.expPass {
				suite.Require().True(found)
				suite.Require().Equal(updatedRoot, consensusState.GetRoot().GetHash())
			} else {
				suite.Require().False(found)
				suite.Require().Nil(consensusState)
			}
		})
	}
}

func (suite *VerifierTestSuite) TestSetConsensusState() {
	consensusState := suite.consensusState(ibctesting.GenesisHeight)

	// writing the stored value again is a no-op
	err := verifier.SetConsensusState(suite.client.Store, consensusState, ibctesting.GenesisHeight)
	suite.Require().NoError(err)

	conflicting := *consensusState
	conflicting.Root = commitmenttypes.NewMerkleRoot(conflictRoot)
	err = verifier.SetConsensusState(suite.client.Store, &conflicting, ibctesting.GenesisHeight)
	suite.Require().ErrorIs(err, clienttypes.ErrConsensusStateExists)
	suite.Require().Equal(consensusState, suite.consensusState(ibctesting.GenesisHeight))

	err = verifier.SetConsensusState(suite.client.Store, &conflicting, height)
	suite.Require().NoError(err)
	suite.Require().Equal(&conflicting, suite.consensusState(height))
}

func (suite *VerifierTestSuite) TestGetProcessedTimeAndHeight() {
	_, found := verifier.GetProcessedTime(suite.client.Store, height)
	suite.Require().False(found)
	_, found = verifier.GetProcessedHeight(suite.client.Store, height)
	suite.Require().False(found)

	suite.client.AdvanceTime(ibctesting.MaxClockDrift)
	suite.client.UpdateClient(height.RevisionHeight, updatedRoot)

	processedTime, found := verifier.GetProcessedTime(suite.client.Store, height)
	suite.Require().True(found)
	suite.Require().Equal(suite.client.Env.Now(), processedTime)

	processedHeight, found := verifier.GetProcessedHeight(suite.client.Store, height)
	suite.Require().True(found)
	suite.Require().Equal(clienttypes.NewHeight(1, 101), processedHeight)

	suite.client.Store.Set(verifier.ProcessedHeightKey(height), []byte("not a height"))
	_, found = verifier.GetProcessedHeight(suite.client.Store, height)
	suite.Require().False(found)
}

func (suite *VerifierTestSuite) TestIterationKey() {
	testHeights := []clienttypes.Height{
		clienttypes.NewHeight(0, 1),
		clienttypes.NewHeight(0, 1234),
		clienttypes.NewHeight(7890, 4321),
		clienttypes.NewHeight(1<<63, 1<<62),
	}
	for _, h := range testHeights {
		key := verifier.IterationKey(h)
		suite.Require().Equal(h, verifier.GetHeightFromIterationKey(key), "height not equal")
	}

	suite.Require().Equal(host.ConsensusStateKey(ibctesting.GenesisHeight), verifier.GetIterationKey(suite.client.Store, ibctesting.GenesisHeight))
	suite.Require().Empty(verifier.GetIterationKey(suite.client.Store, height))
}

func (suite *VerifierTestSuite) TestIterateConsensusStateAscending() {
	// heights are admitted out of order and straddle a change in decimal width
	for _, revisionHeight := range []uint64{10, 9, 100, 2} {
		suite.client.UpdateClient(revisionHeight, updatedRoot)
	}

	var heights []clienttypes.Height
	verifier.IterateConsensusStateAscending(suite.client.Store, func(h clienttypes.Height) bool {
		heights = append(heights, h)
		return false
	})

	suite.Require().Equal([]clienttypes.Height{
		ibctesting.GenesisHeight,
		clienttypes.NewHeight(0, 2),
		clienttypes.NewHeight(0, 9),
		clienttypes.NewHeight(0, 10),
		clienttypes.NewHeight(0, 100),
	}, heights)

	var first []clienttypes.Height
	verifier.IterateConsensusStateAscending(suite.client.Store, func(h clienttypes.Height) bool {
		first = append(first, h)
		return len(first) == 2
	})
	suite.Require().Len(first, 2)
}

func (suite *VerifierTestSuite) TestIterateConsensusStateHeights() {
	suite.client.UpdateClient(height.RevisionHeight, updatedRoot)

	// consensus states without metadata are visited as well
	unindexed := clienttypes.NewHeight(0, 20)
	err := verifier.SetConsensusState(suite.client.Store, suite.consensusState(height), unindexed)
	suite.Require().NoError(err)

	var heights []clienttypes.Height
	verifier.IterateConsensusStateHeights(suite.client.Store, func(h clienttypes.Height) bool {
		heights = append(heights, h)
		return false
	})

	suite.Require().ElementsMatch([]clienttypes.Height{ibctesting.GenesisHeight, height, unindexed}, heights)
}

func (suite *VerifierTestSuite) TestGetNextAndPreviousConsensusState() {
	for _, revisionHeight := range []uint64{4, 6, 8} {
		suite.client.UpdateClient(revisionHeight, updatedRoot)
	}

	testCases := []struct {
		name       string
		height     clienttypes.Height
		expNext    clienttypes.Height
		expPrev    clienttypes.Height
		expNextErr bool
		expPrevErr bool
	}{
		{"genesis height", ibctesting.GenesisHeight, clienttypes.NewHeight(0, 4), clienttypes.Height{}, false, true},
		{"below genesis height", clienttypes.NewHeight(0, 0), ibctesting.GenesisHeight, clienttypes.Height{}, false, true},
		{"stored height", clienttypes.NewHeight(0, 6), clienttypes.NewHeight(0, 8), clienttypes.NewHeight(0, 4), false, false},
		{"height between stored heights", clienttypes.NewHeight(0, 5), clienttypes.NewHeight(0, 6), clienttypes.NewHeight(0, 4), false, false},
		{"latest height", clienttypes.NewHeight(0, 8), clienttypes.Height{}, clienttypes.NewHeight(0, 6), true, false},
		{"above latest height", clienttypes.NewHeight(0, 9), clienttypes.Height{}, clienttypes.NewHeight(0, 8), true, false},
		{"later revision", clienttypes.NewHeight(1, 1), clienttypes.Height{}, clienttypes.NewHeight(0, 8), true, false},
	}

	for _, tc := range testCases {
		tc := tc

		suite.Run(tc.name, func() {
			nextHeight, next, found := verifier.GetNextConsensusState(suite.client.Store, tc.height)
			if tc.expNextErr {
				suite.Require().False(found)
				suite.Require().Nil(next)
			} else {
				suite.Require().True(found)
				suite.Require().Equal(tc.expNext, nextHeight)
				suite.Require().Equal(suite.consensusState(tc.expNext), next)
			}

			prevHeight, prev, found := verifier.GetPreviousConsensusState(suite.client.Store, tc.height)
			if tc.expPrevErr {
				suite.Require().False(found)
				suite.Require().Nil(prev)
			} else {
				suite.Require().True(found)
				suite.Require().Equal(tc.expPrev, prevHeight)
				suite.Require().Equal(suite.consensusState(tc.expPrev), prev)
			}
		})
	}
}
