package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"io/ioutil"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	pkgerrors "github.com/pkg/errors"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	clienttypes "github.com/cosmos/ibc-verifier/modules/core/02-client/types"
	verifier "github.com/cosmos/ibc-verifier/modules/light-clients/08-wasm-verifier"
)

const (
	defaultReadTimeout     = 15 * time.Second
	defaultWriteTimeout    = 30 * time.Second
	defaultIdleTimeout     = 60 * time.Second
	defaultShutdownTimeout = 10 * time.Second

	// maxQueryBodySize bounds the body of POST queries.
	maxQueryBodySize = 1 << 20
)

// ServeCmd serves read-only client queries over HTTP.
func ServeCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve read-only client queries over HTTP",
		Long: `Serve read-only client queries over HTTP. Routes:

  GET  /clients/{client-id}/status
  GET  /clients/{client-id}/metadata
  GET  /clients/{client-id}/timestamp/{revision-number}/{revision-height}
  POST /clients/{client-id}/query    (body: query message)`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := newAppFromViper(v, cmd)
			if err != nil {
				return err
			}
			defer app.Close()

			server := &http.Server{
				Addr:         cast.ToString(v.Get(FlagListenAddr)),
				Handler:      NewRouter(app),
				ReadTimeout:  defaultReadTimeout,
				WriteTimeout: defaultWriteTimeout,
				IdleTimeout:  defaultIdleTimeout,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				app.logger.Info("starting query server", "addr", server.Addr)
				errCh <- server.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				return pkgerrors.Wrap(err, "query server stopped")
			case <-ctx.Done():
			}

			app.logger.Info("shutting down query server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), defaultShutdownTimeout)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	}
	cmd.Flags().String(FlagListenAddr, DefaultConfig(DefaultHome()).ListenAddr, "address the query server listens on")
	return cmd
}

// NewRouter returns the query routes served for app. Every route dispatches a
// query message at the current time.
func NewRouter(app *App) *mux.Router {
	h := queryHandler{app: app}

	router := mux.NewRouter().StrictSlash(true)
	router.Methods(http.MethodGet).Path("/clients/{client-id}/status").Name("status").HandlerFunc(h.status)
	router.Methods(http.MethodGet).Path("/clients/{client-id}/metadata").Name("metadata").HandlerFunc(h.metadata)
	router.Methods(http.MethodGet).
		Path("/clients/{client-id}/timestamp/{revision-number:[0-9]+}/{revision-height:[0-9]+}").
		Name("timestamp").
		HandlerFunc(h.timestamp)
	router.Methods(http.MethodPost).Path("/clients/{client-id}/query").Name("query").HandlerFunc(h.query)

	return router
}

type queryHandler struct {
	app *App
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h queryHandler) status(w http.ResponseWriter, r *http.Request) {
	h.dispatch(w, r, verifier.QueryMsg{Status: &verifier.StatusMsg{}})
}

func (h queryHandler) metadata(w http.ResponseWriter, r *http.Request) {
	h.dispatch(w, r, verifier.QueryMsg{ExportMetadata: &verifier.ExportMetadataMsg{}})
}

func (h queryHandler) timestamp(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	revisionNumber, err := strconv.ParseUint(vars["revision-number"], 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	revisionHeight, err := strconv.ParseUint(vars["revision-height"], 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	h.dispatch(w, r, verifier.QueryMsg{
		TimestampAtHeight: &verifier.TimestampAtHeightMsg{Height: clienttypes.NewHeight(revisionNumber, revisionHeight)},
	})
}

func (h queryHandler) query(w http.ResponseWriter, r *http.Request) {
	msg, err := ioutil.ReadAll(http.MaxBytesReader(w, r.Body, maxQueryBodySize))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	h.serve(w, r, msg)
}

func (h queryHandler) dispatch(w http.ResponseWriter, r *http.Request, payload verifier.QueryMsg) {
	msg, err := json.Marshal(payload)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	h.serve(w, r, msg)
}

func (h queryHandler) serve(w http.ResponseWriter, r *http.Request, msg []byte) {
	store, err := h.app.ClientStore(mux.Vars(r)["client-id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	data, err := h.app.Contract().Query(store, h.app.Env(0, time.Now()), msg)
	if err != nil {
		h.app.logger.Debug("query failed", "route", mux.CurrentRoute(r).GetName(), "err", err)
		writeError(w, statusCode(err), err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func statusCode(err error) int {
	switch {
	case errors.Is(err, clienttypes.ErrClientNotFound), errors.Is(err, clienttypes.ErrConsensusStateNotFound):
		return http.StatusNotFound
	case errors.Is(err, verifier.ErrUnknownMessage), errors.Is(err, verifier.ErrInvalidEnv):
		return http.StatusBadRequest
	default:
		return http.StatusUnprocessableEntity
	}
}

func writeError(w http.ResponseWriter, code int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(errorResponse{Error: err.Error()})
}
