package verifier_test

import (
	"time"

	tmmath "github.com/tendermint/tendermint/libs/math"

	clienttypes "github.com/cosmos/ibc-verifier/modules/core/02-client/types"
	verifier "github.com/cosmos/ibc-verifier/modules/light-clients/08-wasm-verifier"
	ibctesting "github.com/cosmos/ibc-verifier/testing"
)

func (suite *VerifierTestSuite) TestEnvValidate() {
	testCases := []struct {
		name    string
		env     verifier.Env
		expPass bool
	}{
		{"valid env", verifier.NewEnv(ibctesting.HostChainID, 100, ibctesting.GenesisTime), true},
		{"valid env at block zero", verifier.NewEnv(ibctesting.HostChainID, 0, ibctesting.GenesisTime), true},
		{"empty chain id", verifier.NewEnv("", 100, ibctesting.GenesisTime), false},
		{"blank chain id", verifier.NewEnv("   ", 100, ibctesting.GenesisTime), false},
		{"zero block time", verifier.NewEnv(ibctesting.HostChainID, 100, time.Time{}), false},
		{"block time at unix epoch", verifier.NewEnv(ibctesting.HostChainID, 100, time.Unix(0, 0)), false},
	}

	for _, tc := range testCases {
		tc := tc

		suite.Run(tc.name, func() {
			err := tc.env.Validate()
			if tc.expPass {
				suite.Require().NoError(err)
			} else {
				suite.Require().ErrorIs(err, verifier.ErrInvalidEnv)
			}
		})
	}
}

func (suite *VerifierTestSuite) TestEnvSelfHeight() {
	env := verifier.NewEnv(ibctesting.HostChainID, 100, ibctesting.GenesisTime)
	suite.Require().Equal(clienttypes.NewHeight(1, 100), env.SelfHeight())
	suite.Require().Equal(uint64(ibctesting.GenesisTime.UnixNano()), env.Now())

	env = verifier.NewEnv("hostchain", 7, ibctesting.GenesisTime)
	suite.Require().Equal(clienttypes.NewHeight(0, 7), env.SelfHeight())
}

func (suite *VerifierTestSuite) TestFraction() {
	fraction := verifier.NewFractionFromTm(tmmath.Fraction{Numerator: 2, Denominator: 3})
	suite.Require().Equal(verifier.Fraction{Numerator: 2, Denominator: 3}, fraction)
	suite.Require().Equal(tmmath.Fraction{Numerator: 2, Denominator: 3}, fraction.ToTendermint())

	suite.Require().Equal(verifier.Fraction{Numerator: 1, Denominator: 3}, verifier.DefaultTrustLevel)
}
