package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/tmsalab/pathmodelfit/engines/rest"
	"github.com/tmsalab/pathmodelfit/internal/api"
)

func newServeCommand(o *options) *cobra.Command {
	var (
		addr          string
		engineURL     string
		engineTimeout time.Duration
		tokenEnv      string
	)
	cmd := &cobra.Command{
		Use:   "serve --engine-url URL",
		Short: "Serve the index computation over HTTP",
		Long: `Starts an HTTP service bridging to the estimation engine:
POST /v1/analyses accepts {model, covariance, sample_size} and answers with
the eight supplemental indices; GET /healthz reports liveness. Intended for
R or Python pipelines that want the computation without a Go toolchain.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			token := ""
			if tokenEnv != "" {
				token = os.Getenv(tokenEnv)
			}
			engine, err := rest.New(rest.Config{
				BaseURL: engineURL,
				Token:   token,
				Timeout: engineTimeout,
			})
			if err != nil {
				return usageError(err)
			}
			logger := o.logger()
			server, err := api.NewServer(engine, logger)
			if err != nil {
				return err
			}

			httpServer := &http.Server{
				Addr:              addr,
				Handler:           server,
				ReadHeaderTimeout: 10 * time.Second,
			}
			errCh := make(chan error, 1)
			go func() {
				logger.Info("HTTP service starting", "addr", addr)
				errCh <- httpServer.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-cmd.Context().Done():
				logger.Info("Shutting down")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				return httpServer.Shutdown(shutdownCtx)
			}
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8080", "Listen address.")
	cmd.Flags().StringVar(&engineURL, "engine-url", "", "Base URL of the estimation engine bridge (required).")
	cmd.Flags().DurationVar(&engineTimeout, "engine-timeout", 0, "Per-estimation timeout; 0 uses the bridge default.")
	cmd.Flags().StringVar(&tokenEnv, "token-env", "", "Environment variable holding the engine bearer token.")
	_ = cmd.MarkFlagRequired("engine-url")
	return cmd
}
