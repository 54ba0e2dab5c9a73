package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"options-simulator/internal/server"
)

func newServeCmd(app *App) *cobra.Command {
	var (
		host string
		port int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP simulation API",
		Long: `Serve starts an HTTP server exposing the simulation engine as a JSON
API, including persistence of saved simulation setups.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := app.OpenStore()
			if err != nil {
				return err
			}

			serverCfg := app.Config.Server
			if cmd.Flags().Changed("host") {
				serverCfg.Host = host
			}
			if cmd.Flags().Changed("port") {
				serverCfg.Port = port
			}

			srv := server.New(serverCfg, app.Calculator(), st, app.Logger)

			errCh := make(chan error, 1)
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- err
				}
			}()

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

			select {
			case err := <-errCh:
				return err
			case sig := <-sigCh:
				app.Logger.Info().Str("signal", sig.String()).Msg("shutting down")
			}

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(ctx)
		},
	}

	cmd.Flags().StringVar(&host, "host", "127.0.0.1", "listen host")
	cmd.Flags().IntVar(&port, "port", 8087, "listen port")
	return cmd
}
