package cmd

import (
	"io"
	"io/ioutil"
	"os"
	"strings"
	"time"

	"github.com/cosmos/cosmos-sdk/store/dbadapter"
	"github.com/cosmos/cosmos-sdk/store/prefix"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tendermint/tendermint/libs/log"
	dbm "github.com/tendermint/tm-db"

	clienttypes "github.com/cosmos/ibc-verifier/modules/core/02-client/types"
	commitmenttypes "github.com/cosmos/ibc-verifier/modules/core/23-commitment/types"
	host "github.com/cosmos/ibc-verifier/modules/core/24-host"
	verifier "github.com/cosmos/ibc-verifier/modules/light-clients/08-wasm-verifier"
	"github.com/cosmos/ibc-verifier/modules/light-clients/08-wasm-verifier/attestor"
)

const (
	dbName = "verifier"

	flagHeight = "height"
	flagTime   = "time"
)

// App holds the open database and the contract serving commands.
type App struct {
	cfg      Config
	logger   log.Logger
	db       dbm.DB
	contract verifier.Contract
}

// NewApp opens the configured database and wires a contract over the default
// attestor rule and proof schemes.
func NewApp(cfg Config, out io.Writer) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger, err := newLogger(cfg.LogLevel, out)
	if err != nil {
		return nil, err
	}

	db, err := dbm.NewDB(dbName, dbm.BackendType(cfg.DBBackend), cfg.DBDir)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open %s database in %s", cfg.DBBackend, cfg.DBDir)
	}

	module := verifier.NewLightClientModule(attestor.NewRule(), commitmenttypes.DefaultSchemeRouter(), logger)

	return &App{
		cfg:      cfg,
		logger:   logger,
		db:       db,
		contract: verifier.NewContract(module),
	}, nil
}

func newLogger(level string, out io.Writer) (log.Logger, error) {
	logger := log.NewTMLogger(log.NewSyncWriter(out))
	option, err := log.AllowLevel(level)
	if err != nil {
		return nil, errors.Wrap(err, "invalid log_level")
	}
	return log.NewFilter(logger, option).With("module", "verifierd"), nil
}

// Close closes the database.
func (a *App) Close() error {
	return a.db.Close()
}

// Contract returns the contract commands dispatch to.
func (a *App) Contract() verifier.Contract {
	return a.contract
}

// ClientStore returns the store of clientID, prefixed the same way the host
// keeps client stores.
func (a *App) ClientStore(clientID string) (sdk.KVStore, error) {
	if !clienttypes.IsValidClientID(clientID) {
		return nil, errors.Errorf("invalid client identifier %s", clientID)
	}
	return prefix.NewStore(dbadapter.Store{DB: a.db}, host.FullClientKey(clientID, nil)), nil
}

// WithClientBatch runs fn against the store of clientID with every write buffered
// in a single database batch, and commits the batch once fn returns. The contract
// writes its cache back only when a call succeeds or freezes the client, so the
// batch is committed whatever fn returns.
func (a *App) WithClientBatch(clientID string, fn func(clientStore sdk.KVStore) error) error {
	if !clienttypes.IsValidClientID(clientID) {
		return errors.Errorf("invalid client identifier %s", clientID)
	}

	batch := a.db.NewBatch()
	defer batch.Close()

	parent := dbadapter.Store{DB: batchDB{DB: a.db, batch: batch}}
	err := fn(prefix.NewStore(parent, host.FullClientKey(clientID, nil)))

	if werr := batch.WriteSync(); werr != nil {
		return errors.Wrapf(werr, "failed to commit client store of %s", clientID)
	}
	return err
}

// batchDB reads from the database and buffers writes in a batch.
type batchDB struct {
	dbm.DB
	batch dbm.Batch
}

func (b batchDB) Set(key, value []byte) error {
	return b.batch.Set(key, value)
}

func (b batchDB) SetSync(key, value []byte) error {
	return b.batch.Set(key, value)
}

func (b batchDB) Delete(key []byte) error {
	return b.batch.Delete(key)
}

func (b batchDB) DeleteSync(key []byte) error {
	return b.batch.Delete(key)
}

// Env returns the host environment at the given block height and time.
func (a *App) Env(height uint64, blockTime time.Time) verifier.Env {
	return verifier.NewEnv(a.cfg.ChainID, height, blockTime.UTC())
}

// newAppFromViper resolves the config and opens the App. Logs go to stderr.
func newAppFromViper(v *viper.Viper, cmd *cobra.Command) (*App, error) {
	cfg, err := ReadConfig(v)
	if err != nil {
		return nil, err
	}
	return NewApp(cfg, cmd.ErrOrStderr())
}

// addEnvFlags registers the flags setting the host block of a call.
func addEnvFlags(cmd *cobra.Command) {
	cmd.Flags().Uint64(flagHeight, 1, "host block height of the call")
	cmd.Flags().String(flagTime, "", "host block time of the call in RFC3339, defaults to now")
}

// envFromFlags builds the Env of a call from the height and time flags.
func envFromFlags(a *App, cmd *cobra.Command) (verifier.Env, error) {
	height, err := cmd.Flags().GetUint64(flagHeight)
	if err != nil {
		return verifier.Env{}, err
	}
	timeStr, err := cmd.Flags().GetString(flagTime)
	if err != nil {
		return verifier.Env{}, err
	}

	blockTime := time.Now()
	if timeStr != "" {
		if blockTime, err = time.Parse(time.RFC3339Nano, timeStr); err != nil {
			return verifier.Env{}, errors.Wrapf(err, "invalid --%s", flagTime)
		}
	}

	return a.Env(height, blockTime), nil
}

// readMsg returns the message given as argument: inline JSON, "-" for stdin, or a file path.
func readMsg(cmd *cobra.Command, arg string) ([]byte, error) {
	trimmed := strings.TrimSpace(arg)
	switch {
	case trimmed == "-":
		bz, err := ioutil.ReadAll(cmd.InOrStdin())
		return bz, errors.Wrap(err, "failed to read message from stdin")
	case strings.HasPrefix(trimmed, "{"):
		return []byte(trimmed), nil
	default:
		bz, err := os.ReadFile(arg)
		return bz, errors.Wrapf(err, "failed to read message file %s", arg)
	}
}

func fileExists(path string) (bool, error) {
	_, err := os.Stat(path)
	switch {
	case err == nil:
		return true, nil
	case os.IsNotExist(err):
		return false, nil
	default:
		return false, errors.Wrapf(err, "failed to stat %s", path)
	}
}
