package verifier_test

import (
	"time"

	clienttypes "github.com/cosmos/ibc-verifier/modules/core/02-client/types"
	host "github.com/cosmos/ibc-verifier/modules/core/24-host"
	verifier "github.com/cosmos/ibc-verifier/modules/light-clients/08-wasm-verifier"
	ibctesting "github.com/cosmos/ibc-verifier/testing"
)

// downgradeStore rewrites the client store to the version 1 layout, which holds
// only client and consensus states.
func (suite *VerifierTestSuite) downgradeStore(heights ...clienttypes.Height) {
	for _, h := range heights {
		verifier.DeleteConsensusMetadata(suite.client.Store, h)
	}
	suite.client.Store.Delete([]byte(verifier.KeyStoreVersion))
	suite.Require().Equal(verifier.StoreVersion1, verifier.GetStoreVersion(suite.client.Store))
}

func (suite *VerifierTestSuite) TestMigrateStore() {
	heights := []clienttypes.Height{ibctesting.GenesisHeight}
	for _, revisionHeight := range []uint64{2, 3, 10} {
		heights = append(heights, suite.client.UpdateClient(revisionHeight, updatedRoot))
	}
	suite.downgradeStore(heights...)

	// the consensus states at heights 1 and 2 expire, 3 and 10 remain trusted
	suite.client.AdvanceTime(ibctesting.TrustingPeriod + 2*time.Second - time.Hour)

	pruned, err := suite.client.Module.MigrateClientStore(suite.client.Env, suite.client.Store)
	suite.Require().NoError(err)
	suite.Require().Equal([]clienttypes.Height{ibctesting.GenesisHeight, clienttypes.NewHeight(0, 2)}, pruned)
	suite.Require().Equal(verifier.CurrentStoreVersion, verifier.GetStoreVersion(suite.client.Store))

	for _, h := range pruned {
		_, found := verifier.GetConsensusState(suite.client.Store, h)
		suite.Require().False(found)
		_, found = verifier.GetProcessedTime(suite.client.Store, h)
		suite.Require().False(found)
		suite.Require().Empty(verifier.GetIterationKey(suite.client.Store, h))
	}

	for _, h := range []clienttypes.Height{clienttypes.NewHeight(0, 3), clienttypes.NewHeight(0, 10)} {
		suite.consensusState(h)

		processedTime, found := verifier.GetProcessedTime(suite.client.Store, h)
		suite.Require().True(found)
		suite.Require().Equal(suite.client.Env.Now(), processedTime)

		processedHeight, found := verifier.GetProcessedHeight(suite.client.Store, h)
		suite.Require().True(found)
		suite.Require().Equal(suite.client.Env.SelfHeight(), processedHeight)

		suite.Require().Equal(host.ConsensusStateKey(h), verifier.GetIterationKey(suite.client.Store, h))
	}

	suite.Require().True(suite.client.Logger.HasInfo("migrated client store"))
}

func (suite *VerifierTestSuite) TestMigrateStoreKeepsLatestConsensusState() {
	latest := suite.client.UpdateClient(height.RevisionHeight, updatedRoot)
	suite.downgradeStore(ibctesting.GenesisHeight, latest)

	suite.client.AdvanceTime(2 * ibctesting.TrustingPeriod)

	pruned, err := suite.client.Module.MigrateClientStore(suite.client.Env, suite.client.Store)
	suite.Require().NoError(err)
	suite.Require().Equal([]clienttypes.Height{ibctesting.GenesisHeight}, pruned)

	suite.consensusState(latest)
	suite.Require().Equal(verifier.CurrentStoreVersion, verifier.GetStoreVersion(suite.client.Store))
}

func (suite *VerifierTestSuite) TestMigrateStoreKeepsExistingMetadata() {
	h := suite.client.UpdateClient(height.RevisionHeight, updatedRoot)
	processedTime, found := verifier.GetProcessedTime(suite.client.Store, h)
	suite.Require().True(found)

	// only the genesis consensus state loses its metadata
	suite.downgradeStore(ibctesting.GenesisHeight)
	suite.client.AdvanceTime(time.Minute)

	pruned, err := suite.client.Module.MigrateClientStore(suite.client.Env, suite.client.Store)
	suite.Require().NoError(err)
	suite.Require().Empty(pruned)

	migratedTime, found := verifier.GetProcessedTime(suite.client.Store, h)
	suite.Require().True(found)
	suite.Require().Equal(processedTime, migratedTime)

	genesisTime, found := verifier.GetProcessedTime(suite.client.Store, ibctesting.GenesisHeight)
	suite.Require().True(found)
	suite.Require().Equal(suite.client.Env.Now(), genesisTime)
}

func (suite *VerifierTestSuite) TestMigrateStoreCurrentVersion() {
	suite.client.UpdateClient(height.RevisionHeight, updatedRoot)
	before, err := suite.client.Module.ExportMetadata(suite.client.Store)
	suite.Require().NoError(err)

	pruned, err := suite.client.Module.MigrateClientStore(suite.client.Env, suite.client.Store)
	suite.Require().NoError(err)
	suite.Require().Empty(pruned)

	after, err := suite.client.Module.ExportMetadata(suite.client.Store)
	suite.Require().NoError(err)
	suite.Require().Equal(before, after)
}

func (suite *VerifierTestSuite) TestMigrateStoreClientNotFound() {
	_, err := suite.client.Module.MigrateClientStore(suite.client.Env, ibctesting.NewMemKVStore())
	suite.Require().ErrorIs(err, clienttypes.ErrClientNotFound)
}
