package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/cast"
	"github.com/spf13/viper"
	dbm "github.com/tendermint/tm-db"
	"gopkg.in/yaml.v2"
)

// Config keys. They double as flag names and, upper cased with the
// VERIFIERD_ prefix, as environment variables.
const (
	FlagHome        = "home"
	FlagDBBackend   = "db_backend"
	FlagDBDir       = "db_dir"
	FlagLogLevel    = "log_level"
	FlagListenAddr  = "listen_addr"
	FlagChainID     = "chain_id"
	FlagProofScheme = "proof_scheme"
	FlagOutput      = "output"
)

const (
	// EnvPrefix is the prefix of environment variables overriding config keys.
	EnvPrefix = "VERIFIERD"

	configName = "config"
	configType = "yaml"

	OutputJSON = "json"
	OutputYAML = "yaml"
)

// Config is the verifierd configuration read from $HOME/.verifierd/config.yaml.
type Config struct {
	Home       string `yaml:"home"`
	DBBackend  string `yaml:"db_backend"`
	DBDir      string `yaml:"db_dir"`
	LogLevel   string `yaml:"log_level"`
	ListenAddr string `yaml:"listen_addr"`
	// ChainID is the chain-id of the host the client runs on.
	ChainID string `yaml:"chain_id"`
	// ProofScheme restricts instantiation to clients using this scheme when set.
	ProofScheme string `yaml:"proof_scheme"`
	Output      string `yaml:"output"`
}

// DefaultHome returns $HOME/.verifierd.
func DefaultHome() string {
	userHome, err := os.UserHomeDir()
	if err != nil {
		return ".verifierd"
	}
	return filepath.Join(userHome, ".verifierd")
}

// DefaultConfig returns the configuration written by init-config.
func DefaultConfig(home string) Config {
	return Config{
		Home:       home,
		DBBackend:  string(dbm.GoLevelDBBackend),
		DBDir:      "data",
		LogLevel:   "info",
		ListenAddr: "127.0.0.1:26680",
		ChainID:    "verifierd-1",
		Output:     OutputJSON,
	}
}

// ConfigFile returns the path of the config file under home.
func ConfigFile(home string) string {
	return filepath.Join(home, configName+"."+configType)
}

// ReadConfig resolves the configuration from flags, environment and config file.
func ReadConfig(v *viper.Viper) (Config, error) {
	var (
		cfg Config
		err error
	)

	fields := []struct {
		key string
		dst *string
	}{
		{FlagHome, &cfg.Home},
		{FlagDBBackend, &cfg.DBBackend},
		{FlagDBDir, &cfg.DBDir},
		{FlagLogLevel, &cfg.LogLevel},
		{FlagListenAddr, &cfg.ListenAddr},
		{FlagChainID, &cfg.ChainID},
		{FlagProofScheme, &cfg.ProofScheme},
		{FlagOutput, &cfg.Output},
	}
	for _, f := range fields {
		if *f.dst, err = cast.ToStringE(v.Get(f.key)); err != nil {
			return Config{}, errors.Wrapf(err, "invalid value for %s", f.key)
		}
	}

	if cfg.DBDir != "" && !filepath.IsAbs(cfg.DBDir) {
		cfg.DBDir = filepath.Join(cfg.Home, cfg.DBDir)
	}

	return cfg, cfg.Validate()
}

// Validate checks the configuration values.
func (cfg Config) Validate() error {
	if cfg.Home == "" {
		return errors.New("home directory cannot be empty")
	}
	switch dbm.BackendType(cfg.DBBackend) {
	case dbm.GoLevelDBBackend:
		if cfg.DBDir == "" {
			return errors.New("db_dir cannot be empty for the goleveldb backend")
		}
	case dbm.MemDBBackend:
	default:
		return fmt.Errorf("unsupported db_backend %q, expected %s or %s", cfg.DBBackend, dbm.GoLevelDBBackend, dbm.MemDBBackend)
	}
	switch cfg.Output {
	case OutputJSON, OutputYAML:
	default:
		return fmt.Errorf("unsupported output %q, expected %s or %s", cfg.Output, OutputJSON, OutputYAML)
	}
	if cfg.ChainID == "" {
		return errors.New("chain_id cannot be empty")
	}
	return nil
}

// WriteConfig writes cfg as YAML to path, creating parent directories.
func WriteConfig(path string, cfg Config) error {
	bz, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, "failed to marshal config")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return errors.Wrapf(err, "failed to create %s", filepath.Dir(path))
	}
	return errors.Wrapf(os.WriteFile(path, bz, 0o600), "failed to write %s", path)
}
