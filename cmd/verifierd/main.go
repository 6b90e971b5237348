package main

import (
	"os"

	"github.com/tendermint/tendermint/libs/log"

	"github.com/cosmos/ibc-verifier/cmd/verifierd/cmd"
)

func main() {
	rootCmd := cmd.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		log.NewTMLogger(log.NewSyncWriter(os.Stderr)).Error("verifierd failed", "err", err)
		os.Exit(1)
	}
}
