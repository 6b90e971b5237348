package verifier_test

import (
	"time"

	clienttypes "github.com/cosmos/ibc-verifier/modules/core/02-client/types"
	verifier "github.com/cosmos/ibc-verifier/modules/light-clients/08-wasm-verifier"
)

func (suite *VerifierTestSuite) TestGetHeightAndTime() {
	header := suite.client.CreateHeader(height.RevisionHeight, updatedRoot)

	suite.Require().Equal(height, header.GetHeight())
	suite.Require().Equal(suite.client.HeaderTime(height.RevisionHeight), header.GetTime())
	suite.Require().Equal(time.UTC, header.GetTime().Location())
}

func (suite *VerifierTestSuite) TestHeaderConsensusState() {
	header := suite.client.CreateHeader(height.RevisionHeight, updatedRoot)

	consensusState := header.ConsensusState()
	suite.Require().Equal(header.Timestamp, consensusState.Timestamp)
	suite.Require().Equal(updatedRoot, consensusState.Root.GetHash())
	suite.Require().Equal(header.NextValidatorsHash, consensusState.NextValidatorsHash)
	suite.Require().NoError(consensusState.ValidateBasic())
}

func (suite *VerifierTestSuite) TestHeaderValidateBasic() {
	var header *verifier.Header

	testCases := []struct {
		name     string
		malleate func()
		expErr   error
	}{
		{"valid header", func() {}, nil},
		{"valid header without commit", func() {
			header.Commit = nil
		}, nil},
		{"chain id is empty", func() {
			header.ChainId = " "
		}, verifier.ErrInvalidChainID},
		{"revision height is zero", func() {
			header.Height = clienttypes.NewHeight(0, 0)
		}, verifier.ErrInvalidHeaderHeight},
		{"timestamp is zero", func() {
			header.Timestamp = 0
		}, clienttypes.ErrInvalidHeader},
		{"root is empty", func() {
			header.Root = nil
		}, clienttypes.ErrInvalidHeader},
		{"next validators hash is empty", func() {
			header.NextValidatorsHash = []byte{}
		}, clienttypes.ErrInvalidHeader},
		{"validators hash is empty", func() {
			header.ValidatorsHash = nil
		}, clienttypes.ErrInvalidHeader},
	}

	suite.Require().Equal(verifier.ModuleName, suite.client.CreateHeader(height.RevisionHeight, updatedRoot).ClientType())

	for _, tc := range testCases {
		tc := tc

		suite.Run(tc.name, func() {
			suite.SetupTest()
			header = suite.client.CreateHeader(height.RevisionHeight, updatedRoot)

			tc.malleate()

			err := header.ValidateBasic()

			if tc.expErr == nil {
				suite.Require().NoError(err)
			} else {
				suite.Require().ErrorIs(err, tc.expErr)
			}
		})
	}
}
