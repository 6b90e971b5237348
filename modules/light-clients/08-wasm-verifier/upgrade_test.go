package verifier_test

import (
	"fmt"

	clienttypes "github.com/cosmos/ibc-verifier/modules/core/02-client/types"
	commitmenttypes "github.com/cosmos/ibc-verifier/modules/core/23-commitment/types"
	host "github.com/cosmos/ibc-verifier/modules/core/24-host"
	verifier "github.com/cosmos/ibc-verifier/modules/light-clients/08-wasm-verifier"
	ibctesting "github.com/cosmos/ibc-verifier/testing"
)

const upgradedChainID = "testchain-1"

// upgradePath commits upgrades to the store proven by the ics23-sdk scheme.
var upgradePath = []string{ibctesting.StoreName, "upgradedIBCState"}

func (suite *VerifierTestSuite) TestVerifyUpgradeAndUpdateState() {
	var (
		counterparty              *ibctesting.CommitmentStore
		upgradedClient            *verifier.ClientState
		upgradedConsState         *verifier.ConsensusState
		upgradedClientProof       []byte
		upgradedConsensusProof    []byte
		submittedClient           *verifier.ClientState
		submittedConsensusState   *verifier.ConsensusState
		lastHeight                clienttypes.Height
		expTrustingPeriod         uint64
		upgradedClientKey         []byte
		upgradedConsensusStateKey []byte
	)

	testCases := []struct {
		name     string
		malleate func() // runs before the upgrade is committed by the counterparty
		tamper   func() // runs after the upgrade is committed
		expErr   error
	}{
		{
			"success",
			func() {},
			nil,
			nil,
		},
		{
			"success: client chosen parameters of the upgraded client are ignored",
			func() {},
			func() {
				submittedClient.TrustingPeriod = 1
				submittedClient.MaxClockDrift = 1
				submittedClient.Checksum = []byte("other checksum")
			},
			nil,
		},
		{
			"failure: client has no upgrade path",
			func() {},
			func() {
				clientState := suite.clientState()
				clientState.UpgradePath = nil
				verifier.SetClientState(suite.client.Store, clientState)
			},
			clienttypes.ErrInvalidUpgradeClient,
		},
		{
			"failure: client is frozen",
			func() {},
			func() {
				clientState := suite.clientState()
				clientState.FrozenHeight = clienttypes.NewHeight(0, 1)
				verifier.SetClientState(suite.client.Store, clientState)
			},
			clienttypes.ErrClientFrozen,
		},
		{
			"failure: upgraded client height is not greater than latest height",
			func() {
				upgradedClient.LatestHeight = clienttypes.NewHeight(0, height.RevisionHeight)
				upgradedClient.ChainId = ibctesting.ChainID
			},
			nil,
			clienttypes.ErrInvalidHeight,
		},
		{
			"failure: upgraded consensus state fails basic validation",
			func() {
				upgradedConsState.NextValidatorsHash = nil
			},
			nil,
			clienttypes.ErrInvalidConsensus,
		},
		{
			"failure: consensus state at latest height not found",
			func() {},
			func() {
				suite.client.Store.Delete(host.ConsensusStateKey(lastHeight))
			},
			clienttypes.ErrConsensusStateNotFound,
		},
		{
			"failure: upgraded client does not match committed client",
			func() {},
			func() {
				submittedClient.ChainId = "testchain-2"
				submittedClient.LatestHeight = clienttypes.NewHeight(2, 1)
			},
			commitmenttypes.ErrInvalidProof,
		},
		{
			"failure: upgraded consensus state does not match committed consensus state",
			func() {},
			func() {
				submittedConsensusState.Timestamp++
			},
			commitmenttypes.ErrInvalidProof,
		},
		{
			"failure: client proof is a consensus state proof",
			func() {},
			func() {
				upgradedClientProof = upgradedConsensusProof
			},
			commitmenttypes.ErrInvalidProof,
		},
		{
			"failure: upgrade committed under another height",
			func() {
				upgradedClientKey = []byte(fmt.Sprintf("upgradedIBCState/%d/%s", height.RevisionHeight-1, verifier.KeyUpgradedClient))
			},
			nil,
			commitmenttypes.ErrInvalidProof,
		},
		{
			"failure: upgraded client fails validation",
			func() {
				upgradedClient.ProofScheme = " "
			},
			nil,
			verifier.ErrInvalidProofScheme,
		},
		{
			"failure: upgraded latest height revision does not match upgraded chain id",
			func() {
				upgradedClient.LatestHeight = clienttypes.NewHeight(2, 1)
			},
			nil,
			verifier.ErrInvalidHeaderHeight,
		},
		{
			"failure: upgraded proof scheme is not registered",
			func() {
				upgradedClient.ProofScheme = "ics23-unknown"
			},
			nil,
			clienttypes.ErrInvalidUpgradeClient,
		},
	}

	for _, tc := range testCases {
		tc := tc

		suite.Run(tc.name, func() {
			suite.SetupTest()

			clientState := suite.client.NewClientState()
			clientState.UpgradePath = upgradePath
			_, err := suite.client.Module.Initialize(
				suite.client.Env, suite.client.Store, clientState,
				suite.client.NewGenesisConsensusState(genesisRoot), ibctesting.Checksum,
			)
			suite.Require().NoError(err)
			expTrustingPeriod = clientState.TrustingPeriod

			upgradedClient = verifier.NewClientState(
				upgradedChainID, ibctesting.DefaultTrustLevel, ibctesting.TrustingPeriod, ibctesting.MaxClockDrift,
				ibctesting.MaxHeightGap, clienttypes.NewHeight(1, 1), commitmenttypes.SchemeICS23SDK, upgradePath,
			)
			upgradedConsState = verifier.NewConsensusState(
				uint64(suite.client.HeaderTime(height.RevisionHeight+1).UnixNano()),
				commitmenttypes.NewMerkleRoot([]byte("upgraded root")),
				suite.client.Attestors.Hash(),
			)

			lastHeight = height
			upgradedClientKey = []byte(fmt.Sprintf("upgradedIBCState/%d/%s", lastHeight.RevisionHeight, verifier.KeyUpgradedClient))
			upgradedConsensusStateKey = []byte(fmt.Sprintf("upgradedIBCState/%d/%s", lastHeight.RevisionHeight, verifier.KeyUpgradedConsState))

			tc.malleate()

			counterparty = ibctesting.NewCommitmentStore(suite.T())
			counterparty.Set(upgradedClientKey, verifier.MustMarshalClientState(upgradedClient.ZeroCustomFields()))
			counterparty.Set(upgradedConsensusStateKey, verifier.MustMarshalConsensusState(upgradedConsState))
			root := counterparty.Commit()

			suite.client.UpdateClient(lastHeight.RevisionHeight, root)

			upgradedClientProof = counterparty.Prove(upgradedClientKey)
			upgradedConsensusProof = counterparty.Prove(upgradedConsensusStateKey)

			copiedClient := *upgradedClient
			copiedConsState := *upgradedConsState
			submittedClient, submittedConsensusState = &copiedClient, &copiedConsState

			if tc.tamper != nil {
				tc.tamper()
			}

			newClientState, err := suite.client.Module.VerifyUpgradeAndUpdateState(
				suite.client.Env, suite.client.Store, submittedClient, submittedConsensusState,
				upgradedClientProof, upgradedConsensusProof,
			)

			if tc.expErr == nil {
				suite.Require().NoError(err)

				stored := suite.clientState()
				suite.Require().Equal(newClientState, stored)
				suite.Require().Equal(upgradedChainID, stored.ChainId)
				suite.Require().Equal(upgradedClient.LatestHeight, stored.LatestHeight)
				suite.Require().Equal(expTrustingPeriod, stored.TrustingPeriod)
				suite.Require().Equal(ibctesting.Checksum, stored.Checksum)
				suite.Require().False(stored.IsFrozen())

				consState := suite.consensusState(stored.LatestHeight)
				suite.Require().Equal([]byte(verifier.SentinelRoot), consState.Root.GetHash())
				suite.Require().Equal(upgradedConsState.Timestamp, consState.Timestamp)
				suite.Require().Equal(upgradedConsState.NextValidatorsHash, consState.NextValidatorsHash)

				_, ok := verifier.GetProcessedTime(suite.client.Store, stored.LatestHeight)
				suite.Require().True(ok)
				suite.Require().True(suite.client.Logger.HasInfo("client state upgraded"))
			} else {
				suite.Require().ErrorIs(err, tc.expErr)
				suite.Require().Nil(newClientState)

				_, found := verifier.GetConsensusState(suite.client.Store, upgradedClient.LatestHeight)
				if !upgradedClient.LatestHeight.EQ(lastHeight) {
					suite.Require().False(found)
				}
			}
		})
	}
}

func (suite *VerifierTestSuite) TestVerifyUpgradeNilStates() {
	clientState := suite.client.NewClientState()
	clientState.UpgradePath = upgradePath
	verifier.SetClientState(suite.client.Store, clientState)

	_, err := suite.client.Module.VerifyUpgradeAndUpdateState(suite.client.Env, suite.client.Store, nil, nil, nil, nil)
	suite.Require().ErrorIs(err, clienttypes.ErrInvalidUpgradeClient)
}

func (suite *VerifierTestSuite) TestConstructUpgradeMerklePath() {
	lastHeight := clienttypes.NewHeight(0, 42)

	clientPath := verifier.ConstructUpgradeClientMerklePath(ibctesting.UpgradePath, lastHeight)
	suite.Require().Equal(
		commitmenttypes.NewMerklePath([]byte("upgrade"), []byte("upgradedIBCState/42/upgradedClient")),
		clientPath,
	)

	consStatePath := verifier.ConstructUpgradeConsStateMerklePath(ibctesting.UpgradePath, lastHeight)
	suite.Require().Equal(
		commitmenttypes.NewMerklePath([]byte("upgrade"), []byte("upgradedIBCState/42/upgradedConsState")),
		consStatePath,
	)

	// the upgrade path is not modified
	suite.Require().Equal([]string{"upgrade", "upgradedIBCState"}, ibctesting.UpgradePath)
}
