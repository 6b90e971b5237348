package verifier_test

import (
	"math"
	"time"

	clienttypes "github.com/cosmos/ibc-verifier/modules/core/02-client/types"
	commitmenttypes "github.com/cosmos/ibc-verifier/modules/core/23-commitment/types"
	verifier "github.com/cosmos/ibc-verifier/modules/light-clients/08-wasm-verifier"
	ibctesting "github.com/cosmos/ibc-verifier/testing"
)

var (
	commitmentKey   = []byte("commitments/ports/transfer/channels/channel-0/sequences/1")
	commitmentValue = []byte("packet commitment")
	absentKey       = []byte("commitments/ports/transfer/channels/channel-0/sequences/2")
)

// counterpartyState commits a single key/value pair with a given proof scheme and
// produces proofs against the resulting root.
type counterpartyState struct {
	root               []byte
	path               func(key []byte) commitmenttypes.MerklePath
	proveMembership    func(key []byte) []byte
	proveNonMembership func(key []byte) []byte
}

func (suite *VerifierTestSuite) newCounterpartyState(scheme string) counterpartyState {
	switch scheme {
	case commitmenttypes.SchemeICS23SDK:
		store := ibctesting.NewCommitmentStore(suite.T())
		store.Set(commitmentKey, commitmentValue)
		root := store.Commit()
		return counterpartyState{
			root:               root,
			path:               store.Path,
			proveMembership:    store.Prove,
			proveNonMembership: store.Prove,
		}
	case commitmenttypes.SchemeICS23Tendermint:
		tree := ibctesting.NewSimpleTree(map[string][]byte{
			string(commitmentKey):                 commitmentValue,
			"clients/07-tendermint-0/clientState": []byte("client state"),
			"connections/connection-0":            []byte("connection end"),
		})
		return counterpartyState{
			root: tree.Root(suite.T()),
			path: tree.Path,
			proveMembership: func(key []byte) []byte {
				return tree.ProveMembership(suite.T(), key)
			},
			proveNonMembership: func(key []byte) []byte {
				return tree.ProveNonMembership(suite.T(), key)
			},
		}
	case commitmenttypes.SchemeEthereumMPT:
		trie := ibctesting.NewEthTrie(suite.T())
		trie.Set(commitmentKey, commitmentValue)
		trie.Set([]byte("connections/connection-0"), []byte("connection end"))
		return counterpartyState{
			root:               trie.Root(),
			path:               trie.Path,
			proveMembership:    trie.Prove,
			proveNonMembership: trie.Prove,
		}
	default:
		suite.FailNow("unknown proof scheme", scheme)
		return counterpartyState{}
	}
}

var proofSchemes = []string{
	commitmenttypes.SchemeICS23SDK,
	commitmenttypes.SchemeICS23Tendermint,
	commitmenttypes.SchemeEthereumMPT,
}

func (suite *VerifierTestSuite) TestVerifyMembership() {
	var (
		counterparty     counterpartyState
		proofHeight      clienttypes.Height
		delayTimePeriod  uint64
		delayBlockPeriod uint64
		proof            []byte
		path             commitmenttypes.MerklePath
		value            []byte
	)

	testCases := []struct {
		name     string
		malleate func()
		expErr   error
	}{
		{
			"success",
			func() {},
			nil,
		},
		{
			"success: delay time period has passed",
			func() {
				delayTimePeriod = uint64(time.Minute.Nanoseconds())
				suite.client.AdvanceTime(time.Minute)
			},
			nil,
		},
		{
			"success: delay block period has passed",
			func() {
				delayBlockPeriod = 5
				suite.client.AdvanceBlocks(5)
			},
			nil,
		},
		{
			"failure: delay time period has not passed",
			func() {
				delayTimePeriod = uint64(time.Minute.Nanoseconds())
				suite.client.AdvanceTime(time.Minute - time.Nanosecond)
			},
			verifier.ErrDelayPeriodNotPassed,
		},
		{
			"failure: delay block period has not passed",
			func() {
				delayBlockPeriod = 5
				suite.client.AdvanceBlocks(4)
			},
			verifier.ErrDelayPeriodNotPassed,
		},
		{
			"failure: delay time period overflows processed time",
			func() {
				delayTimePeriod = math.MaxUint64
			},
			verifier.ErrDelayPeriodNotPassed,
		},
		{
			"failure: delay block period overflows processed height",
			func() {
				delayBlockPeriod = math.MaxUint64
			},
			verifier.ErrDelayPeriodNotPassed,
		},
		{
			"failure: processed time not found",
			func() {
				delayTimePeriod = 1
				verifier.DeleteConsensusMetadata(suite.client.Store, proofHeight)
			},
			verifier.ErrProcessedTimeNotFound,
		},
		{
			"failure: processed height not found",
			func() {
				delayBlockPeriod = 1
				verifier.DeleteConsensusMetadata(suite.client.Store, proofHeight)
			},
			verifier.ErrProcessedHeightNotFound,
		},
		{
			"failure: consensus state not found",
			func() {
				proofHeight = proofHeight.Increment()
			},
			clienttypes.ErrConsensusStateNotFound,
		},
		{
			"failure: client is frozen",
			func() {
				clientState := suite.clientState()
				clientState.FrozenHeight = clienttypes.NewHeight(0, 1)
				verifier.SetClientState(suite.client.Store, clientState)
			},
			clienttypes.ErrClientFrozen,
		},
		{
			"failure: proof scheme is not registered",
			func() {
				clientState := suite.clientState()
				clientState.ProofScheme = "ics23-unknown"
				verifier.SetClientState(suite.client.Store, clientState)
			},
			commitmenttypes.ErrUnknownProofScheme,
		},
		{
			"failure: wrong value",
			func() {
				value = []byte("other commitment")
			},
			commitmenttypes.ErrInvalidProof,
		},
		{
			"failure: empty value",
			func() {
				value = nil
			},
			commitmenttypes.ErrInvalidProof,
		},
		{
			"failure: proof for another key",
			func() {
				path = counterparty.path(absentKey)
			},
			commitmenttypes.ErrInvalidProof,
		},
		{
			"failure: proof of absence",
			func() {
				proof = counterparty.proveNonMembership(absentKey)
				path = counterparty.path(absentKey)
			},
			commitmenttypes.ErrInvalidProof,
		},
		{
			"failure: proof against another root",
			func() {
				proofHeight = ibctesting.GenesisHeight
			},
			commitmenttypes.ErrInvalidProof,
		},
		{
			"failure: proof cannot be decoded",
			func() {
				proof = []byte("proof")
			},
			commitmenttypes.ErrInvalidProof,
		},
		{
			"failure: empty proof",
			func() {
				proof = nil
			},
			commitmenttypes.ErrInvalidProof,
		},
	}

	for _, scheme := range proofSchemes {
		for _, tc := range testCases {
			tc := tc
			scheme := scheme

			suite.Run(scheme+": "+tc.name, func() {
				suite.client = ibctesting.NewTestClient(suite.T(), scheme)
				suite.client.Instantiate(genesisRoot)

				counterparty = suite.newCounterpartyState(scheme)
				proofHeight = suite.client.UpdateClient(height.RevisionHeight, counterparty.root)

				delayTimePeriod, delayBlockPeriod = 0, 0
				proof = counterparty.proveMembership(commitmentKey)
				path = counterparty.path(commitmentKey)
				value = commitmentValue

				tc.malleate()

				err := suite.client.Module.VerifyMembership(
					suite.client.Env, suite.client.Store, proofHeight,
					delayTimePeriod, delayBlockPeriod, proof, path, value,
				)

				if tc.expErr == nil {
					suite.Require().NoError(err)
				} else {
					suite.Require().ErrorIs(err, tc.expErr)
				}
			})
		}
	}
}

func (suite *VerifierTestSuite) TestVerifyNonMembership() {
	var (
		counterparty counterpartyState
		proofHeight  clienttypes.Height
		proof        []byte
		path         commitmenttypes.MerklePath

		delayTimePeriod  uint64
		delayBlockPeriod uint64
	)

	testCases := []struct {
		name     string
		malleate func()
		expErr   error
	}{
		{
			"success",
			func() {},
			nil,
		},
		{
			"success: delay periods have passed",
			func() {
				delayTimePeriod = uint64(time.Minute.Nanoseconds())
				delayBlockPeriod = 1
				suite.client.AdvanceTime(time.Minute)
			},
			nil,
		},
		{
			"failure: delay time period overflows processed time",
			func() {
				delayTimePeriod = math.MaxUint64
			},
			verifier.ErrDelayPeriodNotPassed,
		},
		{
			"failure: delay block period overflows processed height",
			func() {
				delayBlockPeriod = math.MaxUint64
			},
			verifier.ErrDelayPeriodNotPassed,
		},
		{
			"failure: key is present",
			func() {
				proof = counterparty.proveMembership(commitmentKey)
				path = counterparty.path(commitmentKey)
			},
			commitmenttypes.ErrInvalidProof,
		},
		{
			"failure: proof of absence for another key",
			func() {
				path = counterparty.path(commitmentKey)
			},
			commitmenttypes.ErrInvalidProof,
		},
		{
			"failure: proof against another root",
			func() {
				proofHeight = ibctesting.GenesisHeight
			},
			commitmenttypes.ErrInvalidProof,
		},
		{
			"failure: consensus state not found",
			func() {
				proofHeight = clienttypes.NewHeight(0, 100)
			},
			clienttypes.ErrConsensusStateNotFound,
		},
		{
			"failure: client is frozen",
			func() {
				clientState := suite.clientState()
				clientState.FrozenHeight = clienttypes.NewHeight(0, 1)
				verifier.SetClientState(suite.client.Store, clientState)
			},
			clienttypes.ErrClientFrozen,
		},
		{
			"failure: proof cannot be decoded",
			func() {
				proof = []byte("proof")
			},
			commitmenttypes.ErrInvalidProof,
		},
	}

	for _, scheme := range proofSchemes {
		for _, tc := range testCases {
			tc := tc
			scheme := scheme

			suite.Run(scheme+": "+tc.name, func() {
				suite.client = ibctesting.NewTestClient(suite.T(), scheme)
				suite.client.Instantiate(genesisRoot)

				counterparty = suite.newCounterpartyState(scheme)
				proofHeight = suite.client.UpdateClient(height.RevisionHeight, counterparty.root)

				proof = counterparty.proveNonMembership(absentKey)
				path = counterparty.path(absentKey)
				delayTimePeriod, delayBlockPeriod = 0, 0

				tc.malleate()

				err := suite.client.Module.VerifyNonMembership(
					suite.client.Env, suite.client.Store, proofHeight, delayTimePeriod, delayBlockPeriod, proof, path,
				)

				if tc.expErr == nil {
					suite.Require().NoError(err)
				} else {
					suite.Require().ErrorIs(err, tc.expErr)
				}
			})
		}
	}
}

func (suite *VerifierTestSuite) TestVerifyMembershipClientNotFound() {
	err := suite.client.Module.VerifyMembership(
		suite.client.Env, ibctesting.NewMemKVStore(), height, 0, 0, []byte("proof"),
		commitmenttypes.NewMerklePath(commitmentKey), commitmentValue,
	)
	suite.Require().ErrorIs(err, clienttypes.ErrClientNotFound)

	err = suite.client.Module.VerifyNonMembership(
		suite.client.Env, ibctesting.NewMemKVStore(), height, 0, 0, []byte("proof"),
		commitmenttypes.NewMerklePath(commitmentKey),
	)
	suite.Require().ErrorIs(err, clienttypes.ErrClientNotFound)
}
