package cmd

import (
	"encoding/json"
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	verifier "github.com/cosmos/ibc-verifier/modules/light-clients/08-wasm-verifier"
)

// InstantiateCmd creates a client from an instantiate message.
func InstantiateCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "instantiate [client-id] [msg]",
		Short: "Create a client from an instantiate message",
		Example: `verifierd instantiate 08-wasm-verifier-0 instantiate.json
verifierd instantiate 08-wasm-verifier-0 - < instantiate.json`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			msg, err := readMsg(cmd, args[1])
			if err != nil {
				return err
			}

			app, err := newAppFromViper(v, cmd)
			if err != nil {
				return err
			}
			defer app.Close()

			if err := checkProofScheme(app.cfg.ProofScheme, msg); err != nil {
				return err
			}

			env, err := envFromFlags(app, cmd)
			if err != nil {
				return err
			}

			var resp *verifier.Response
			if err := app.WithClientBatch(args[0], func(store sdk.KVStore) (err error) {
				resp, err = app.Contract().Instantiate(store, env, msg)
				return err
			}); err != nil {
				return errors.Wrapf(err, "failed to instantiate %s", args[0])
			}
			return printResponse(cmd, app.cfg.Output, resp)
		},
	}
	addEnvFlags(cmd)
	return cmd
}

// SudoCmd executes a state changing message against a client.
func SudoCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sudo [client-id] [msg]",
		Short: "Execute a sudo message against a client",
		Long: `Execute a sudo message against a client. State changes are committed only when the
call succeeds, except for an update carrying misbehaviour: the client is frozen, the
response is printed and the command exits with an error.`,
		Example: `verifierd sudo 08-wasm-verifier-0 '{"migrate_client_store":{}}'`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			msg, err := readMsg(cmd, args[1])
			if err != nil {
				return err
			}

			app, err := newAppFromViper(v, cmd)
			if err != nil {
				return err
			}
			defer app.Close()

			env, err := envFromFlags(app, cmd)
			if err != nil {
				return err
			}

			var resp *verifier.Response
			sudoErr := app.WithClientBatch(args[0], func(store sdk.KVStore) (err error) {
				resp, err = app.Contract().Sudo(store, env, msg)
				return err
			})
			if resp != nil {
				if err := printResponse(cmd, app.cfg.Output, resp); err != nil {
					return err
				}
			}
			return errors.Wrapf(sudoErr, "sudo on %s failed", args[0])
		},
	}
	addEnvFlags(cmd)
	return cmd
}

// QueryCmd runs a read-only query against a client.
func QueryCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "query [client-id] [msg]",
		Short:   "Run a read-only query against a client",
		Example: `verifierd query 08-wasm-verifier-0 '{"status":{}}'`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			msg, err := readMsg(cmd, args[1])
			if err != nil {
				return err
			}

			app, err := newAppFromViper(v, cmd)
			if err != nil {
				return err
			}
			defer app.Close()

			store, err := app.ClientStore(args[0])
			if err != nil {
				return err
			}
			env, err := envFromFlags(app, cmd)
			if err != nil {
				return err
			}

			data, err := app.Contract().Query(store, env, msg)
			if err != nil {
				return errors.Wrapf(err, "query on %s failed", args[0])
			}
			return printData(cmd, app.cfg.Output, data)
		},
	}
	addEnvFlags(cmd)
	return cmd
}

// checkProofScheme rejects instantiate messages whose client state does not use
// the configured proof scheme. An empty scheme accepts any.
func checkProofScheme(scheme string, msg []byte) error {
	if scheme == "" {
		return nil
	}

	var payload verifier.InstantiateMessage
	if err := json.Unmarshal(msg, &payload); err != nil {
		return errors.Wrap(verifier.ErrUnknownMessage, err.Error())
	}
	clientState, err := verifier.UnmarshalClientState(payload.ClientState)
	if err != nil {
		return err
	}
	if clientState.ProofScheme != scheme {
		return fmt.Errorf("client uses proof scheme %s, only %s is allowed", clientState.ProofScheme, scheme)
	}
	return nil
}
