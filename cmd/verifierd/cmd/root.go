package cmd

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	dbm "github.com/tendermint/tm-db"
)

// NewRootCmd creates the verifierd root command. Every command resolves its
// configuration through a viper instance owned by the returned root.
func NewRootCmd() *cobra.Command {
	return newRootCmd(viper.New())
}

func newRootCmd(v *viper.Viper) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "verifierd",
		Short: "Operate attestor-verified light clients over a local client store",
		Long: `verifierd drives the verifier light client through its instantiate, sudo and query
entry points. Messages are the JSON documents accepted by the contract surface, read
from a file, from stdin when the argument is "-", or inline when the argument is a
JSON object.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return initConfig(v, cmd)
		},
	}

	defaults := DefaultConfig(DefaultHome())
	flags := rootCmd.PersistentFlags()
	flags.String(FlagHome, defaults.Home, "directory holding config.yaml and the database")
	flags.String(FlagDBBackend, defaults.DBBackend, "database backend: goleveldb or memdb")
	flags.String(FlagDBDir, defaults.DBDir, "database directory, relative to home unless absolute")
	flags.String(FlagLogLevel, defaults.LogLevel, "log level: debug, info, error or none")
	flags.String(FlagChainID, defaults.ChainID, "chain-id of the host chain")
	flags.String(FlagProofScheme, defaults.ProofScheme, "only instantiate clients using this proof scheme")
	flags.StringP(FlagOutput, "o", defaults.Output, "output format: json or yaml")

	rootCmd.AddCommand(
		InitConfigCmd(v),
		InstantiateCmd(v),
		SudoCmd(v),
		QueryCmd(v),
		ServeCmd(v),
	)

	return rootCmd
}

// initConfig binds flags and environment to v and reads config.yaml from the
// home directory. A missing config file is not an error.
func initConfig(v *viper.Viper, cmd *cobra.Command) error {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return errors.Wrap(err, "failed to bind flags")
	}

	home := cast.ToString(v.Get(FlagHome))
	v.SetConfigName(configName)
	v.SetConfigType(configType)
	v.AddConfigPath(home)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return errors.Wrapf(err, "failed to read config from %s", home)
		}
	}

	return nil
}

// InitConfigCmd writes the default configuration to the home directory.
func InitConfigCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init-config",
		Short: "Write a default config.yaml to the home directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			home := cast.ToString(v.Get(FlagHome))
			path := ConfigFile(home)

			force, err := cmd.Flags().GetBool("force")
			if err != nil {
				return err
			}
			if exists, err := fileExists(path); err != nil {
				return err
			} else if exists && !force {
				return errors.Errorf("config file %s already exists, use --force to overwrite", path)
			}

			cfg := DefaultConfig(home)
			cfg.ChainID = cast.ToString(v.Get(FlagChainID))
			cfg.ProofScheme = cast.ToString(v.Get(FlagProofScheme))
			if backend := cast.ToString(v.Get(FlagDBBackend)); backend != "" {
				cfg.DBBackend = backend
			}
			if cfg.DBBackend == string(dbm.MemDBBackend) {
				cfg.DBDir = ""
			}

			if err := WriteConfig(path, cfg); err != nil {
				return err
			}
			cmd.Printf("wrote %s\n", path)
			return nil
		},
	}
	cmd.Flags().Bool("force", false, "overwrite an existing config file")
	return cmd
}
