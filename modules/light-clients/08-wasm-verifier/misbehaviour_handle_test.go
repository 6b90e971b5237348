package verifier_test

import (
	"time"

	clienttypes "github.com/cosmos/ibc-verifier/modules/core/02-client/types"
	"github.com/cosmos/ibc-verifier/modules/core/exported"
	verifier "github.com/cosmos/ibc-verifier/modules/light-clients/08-wasm-verifier"
	ibctesting "github.com/cosmos/ibc-verifier/testing"
)

// unknownClientMessage is a client message no verifier entry point accepts.
type unknownClientMessage struct{}

func (unknownClientMessage) ClientType() string   { return "unknown" }
func (unknownClientMessage) ValidateBasic() error { return nil }

func (suite *VerifierTestSuite) createHeaderAt(revisionHeight uint64, timestamp time.Time, root []byte) *verifier.Header {
	return suite.client.Attestors.CreateHeader(
		suite.T(), ibctesting.ChainID, clienttypes.NewHeight(0, revisionHeight), timestamp,
		root, nil, ibctesting.NumAttestors,
	)
}

func (suite *VerifierTestSuite) TestCheckForMisbehaviour() {
	var clientMsg exported.ClientMessage

	testCases := []struct {
		name     string
		malleate func()
		expFound bool
		expErr   error
	}{
		{
			"valid fork misbehaviour",
			func() {},
			true, nil,
		},
		{
			"valid time misbehaviour",
			func() {
				clientMsg = verifier.NewMisbehaviour(
					suite.createHeaderAt(5, suite.client.HeaderTime(3), updatedRoot),
					suite.createHeaderAt(4, suite.client.HeaderTime(4), updatedRoot),
				)
			},
			true, nil,
		},
		{
			"valid time misbehaviour with equal timestamps",
			func() {
				clientMsg = verifier.NewMisbehaviour(
					suite.createHeaderAt(5, suite.client.HeaderTime(4), updatedRoot),
					suite.createHeaderAt(4, suite.client.HeaderTime(4), updatedRoot),
				)
			},
			true, nil,
		},
		{
			"identical headers are not misbehaviour",
			func() {
				header := suite.client.CreateHeader(height.RevisionHeight, updatedRoot)
				clientMsg = verifier.NewMisbehaviour(header, header)
			},
			false, nil,
		},
		{
			"headers at different heights with increasing time are not misbehaviour",
			func() {
				clientMsg = verifier.NewMisbehaviour(
					suite.client.CreateHeader(5, updatedRoot),
					suite.client.CreateHeader(4, updatedRoot),
				)
			},
			false, nil,
		},
		{
			"header of misbehaviour fails verification",
			func() {
				misbehaviour := clientMsg.(*verifier.Misbehaviour)
				suite.client.Attestors.Sign(suite.T(), misbehaviour.Header2, 1)
			},
			false, nil,
		},
		{
			"header of misbehaviour trusts an expired consensus state",
			func() {
				suite.client.AdvanceTime(ibctesting.TrustingPeriod)
			},
			false, nil,
		},
		{
			"header matching stored consensus state",
			func() {
				suite.client.UpdateClient(height.RevisionHeight, updatedRoot)
				clientMsg = suite.client.CreateHeader(height.RevisionHeight, updatedRoot)
			},
			false, nil,
		},
		{
			"header conflicting with stored consensus state",
			func() {
				suite.client.UpdateClient(height.RevisionHeight, updatedRoot)
				clientMsg = suite.client.CreateHeader(height.RevisionHeight, conflictRoot)
			},
			true, nil,
		},
		{
			"header with timestamp after the next consensus state",
			func() {
				suite.client.UpdateClient(10, updatedRoot)
				clientMsg = suite.createHeaderAt(5, suite.client.HeaderTime(11), updatedRoot)
			},
			true, nil,
		},
		{
			"header before the next consensus state",
			func() {
				suite.client.UpdateClient(10, updatedRoot)
				clientMsg = suite.client.CreateHeader(5, updatedRoot)
			},
			false, nil,
		},
		{
			"header failing verification",
			func() {
				header := suite.client.CreateHeader(height.RevisionHeight, conflictRoot)
				suite.client.Attestors.Sign(suite.T(), header, 1)
				clientMsg = header
			},
			false, nil,
		},
		{
			"header failing basic validation",
			func() {
				header := suite.client.CreateHeader(height.RevisionHeight, conflictRoot)
				header.ValidatorsHash = nil
				clientMsg = header
			},
			false, clienttypes.ErrInvalidClientMessage,
		},
		{
			"misbehaviour Header1 lower than Header2",
			func() {
				clientMsg = verifier.NewMisbehaviour(
					suite.client.CreateHeader(4, updatedRoot),
					suite.client.CreateHeader(5, updatedRoot),
				)
			},
			false, clienttypes.ErrInvalidMisbehaviour,
		},
		{
			"misbehaviour headers with different chain ids",
			func() {
				misbehaviour := clientMsg.(*verifier.Misbehaviour)
				misbehaviour.Header2 = suite.client.Attestors.CreateHeader(
					suite.T(), "otherchain-0", height, suite.client.HeaderTime(height.RevisionHeight),
					conflictRoot, nil, ibctesting.NumAttestors,
				)
			},
			false, clienttypes.ErrInvalidMisbehaviour,
		},
		{
			"misbehaviour with nil header",
			func() {
				clientMsg = verifier.NewMisbehaviour(suite.client.CreateHeader(4, updatedRoot), nil)
			},
			false, clienttypes.ErrInvalidMisbehaviour,
		},
		{
			"unknown client message",
			func() {
				clientMsg = unknownClientMessage{}
			},
			false, clienttypes.ErrInvalidClientMessage,
		},
	}

	for _, tc := range testCases {
		tc := tc

		suite.Run(tc.name, func() {
			suite.SetupTest()

			clientMsg = verifier.NewMisbehaviour(
				suite.client.CreateHeader(height.RevisionHeight, updatedRoot),
				suite.client.CreateHeader(height.RevisionHeight, conflictRoot),
			)

			tc.malleate()

			found, err := suite.client.Module.CheckForMisbehaviour(suite.client.Env, suite.client.Store, clientMsg)

			if tc.expErr == nil {
				suite.Require().NoError(err)
				suite.Require().Equal(tc.expFound, found)
			} else {
				suite.Require().ErrorIs(err, tc.expErr)
				suite.Require().False(found)
			}
		})
	}
}

func (suite *VerifierTestSuite) TestVerifyMisbehaviour() {
	misbehaviour := verifier.NewMisbehaviour(
		suite.client.CreateHeader(height.RevisionHeight, updatedRoot),
		suite.client.CreateHeader(height.RevisionHeight, conflictRoot),
	)
	suite.Require().NoError(suite.client.Module.VerifyClientMessage(suite.client.Env, suite.client.Store, misbehaviour))

	suite.client.Attestors.Sign(suite.T(), misbehaviour.Header1, 1)
	err := suite.client.Module.VerifyClientMessage(suite.client.Env, suite.client.Store, misbehaviour)
	suite.Require().ErrorIs(err, clienttypes.ErrInvalidHeader)

	err = suite.client.Module.VerifyClientMessage(suite.client.Env, suite.client.Store, unknownClientMessage{})
	suite.Require().ErrorIs(err, clienttypes.ErrInvalidClientMessage)

	err = suite.client.Module.VerifyClientMessage(suite.client.Env, ibctesting.NewMemKVStore(), misbehaviour)
	suite.Require().ErrorIs(err, clienttypes.ErrClientNotFound)
}

func (suite *VerifierTestSuite) TestUpdateStateOnMisbehaviour() {
	var (
		clientMsg       exported.ClientMessage
		expFrozenHeight clienttypes.Height
	)

	testCases := []struct {
		name     string
		malleate func()
		expErr   error
	}{
		{
			"success: fork misbehaviour",
			func() {},
			nil,
		},
		{
			"success: time misbehaviour freezes at Header1 height",
			func() {
				clientMsg = verifier.NewMisbehaviour(
					suite.createHeaderAt(5, suite.client.HeaderTime(3), updatedRoot),
					suite.createHeaderAt(4, suite.client.HeaderTime(4), updatedRoot),
				)
				expFrozenHeight = clienttypes.NewHeight(0, 5)
			},
			nil,
		},
		{
			"success: conflicting header",
			func() {
				suite.client.UpdateClient(height.RevisionHeight, updatedRoot)
				clientMsg = suite.client.CreateHeader(height.RevisionHeight, conflictRoot)
			},
			nil,
		},
		{
			"failure: no misbehaviour",
			func() {
				clientMsg = verifier.NewMisbehaviour(
					suite.client.CreateHeader(5, updatedRoot),
					suite.client.CreateHeader(4, updatedRoot),
				)
			},
			clienttypes.ErrInvalidMisbehaviour,
		},
		{
			"failure: misbehaviour header fails verification",
			func() {
				suite.client.Attestors.Sign(suite.T(), clientMsg.(*verifier.Misbehaviour).Header1, 1)
			},
			clienttypes.ErrInvalidMisbehaviour,
		},
		{
			"failure: malformed misbehaviour",
			func() {
				clientMsg = verifier.NewMisbehaviour(nil, nil)
			},
			clienttypes.ErrInvalidMisbehaviour,
		},
	}

	for _, tc := range testCases {
		tc := tc

		suite.Run(tc.name, func() {
			suite.SetupTest()

			clientMsg = verifier.NewMisbehaviour(
				suite.client.CreateHeader(height.RevisionHeight, updatedRoot),
				suite.client.CreateHeader(height.RevisionHeight, conflictRoot),
			)
			expFrozenHeight = height

			tc.malleate()

			frozenHeight, err := suite.client.Module.UpdateStateOnMisbehaviour(suite.client.Env, suite.client.Store, clientMsg)

			if tc.expErr == nil {
				suite.Require().NoError(err)
				suite.Require().Equal(expFrozenHeight, frozenHeight)

				clientState := suite.clientState()
				suite.Require().Equal(expFrozenHeight, clientState.FrozenHeight)
				suite.Require().Equal(exported.Frozen, suite.client.Module.Status(suite.client.Store))

				record, found := verifier.GetMisbehaviourRecord(suite.client.Store)
				suite.Require().True(found)
				suite.Require().Equal(expFrozenHeight, record.Height)
				suite.Require().Equal(suite.client.Env.Now(), record.DetectedAt)
			} else {
				suite.Require().ErrorIs(err, tc.expErr)
				suite.Require().Equal(exported.Active, suite.client.Module.Status(suite.client.Store))

				_, found := verifier.GetMisbehaviourRecord(suite.client.Store)
				suite.Require().False(found)
			}
		})
	}
}

func (suite *VerifierTestSuite) TestUpdateStateOnMisbehaviourFrozenClient() {
	misbehaviour := verifier.NewMisbehaviour(
		suite.client.CreateHeader(height.RevisionHeight, updatedRoot),
		suite.client.CreateHeader(height.RevisionHeight, conflictRoot),
	)

	frozenHeight, err := suite.client.Module.UpdateStateOnMisbehaviour(suite.client.Env, suite.client.Store, misbehaviour)
	suite.Require().NoError(err)

	record, found := verifier.GetMisbehaviourRecord(suite.client.Store)
	suite.Require().True(found)

	// evidence submitted to a frozen client is not checked and changes nothing
	suite.client.AdvanceTime(time.Minute)
	other := verifier.NewMisbehaviour(
		suite.client.CreateHeader(8, updatedRoot),
		suite.client.CreateHeader(8, conflictRoot),
	)

	refrozenHeight, err := suite.client.Module.UpdateStateOnMisbehaviour(suite.client.Env, suite.client.Store, other)
	suite.Require().NoError(err)
	suite.Require().Equal(frozenHeight, refrozenHeight)

	unchanged, found := verifier.GetMisbehaviourRecord(suite.client.Store)
	suite.Require().True(found)
	suite.Require().Equal(record, unchanged)

	// frozen clients reject client message verification
	err = suite.client.Module.VerifyClientMessage(suite.client.Env, suite.client.Store, other)
	suite.Require().ErrorIs(err, clienttypes.ErrClientFrozen)
}
