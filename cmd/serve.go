package cmd

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/luma/vlcrc/api"
	"github.com/luma/vlcrc/client"
)

var (
	// The host to listen for http requests on
	httpHost string

	// The port to listen for http requests on
	httpPort string
)

func init() {
	flags := ServeCmd.Flags()

	flags.StringVar(&httpHost, "http-host", "127.0.0.1", "The host to listen to HTTP requests on")
	flags.StringVar(&httpPort, "http-port", "7362", "The port to listen to HTTP requests on")
}

var ServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Expose the player over HTTP",
	Long: `Expose the player over HTTP

Every request runs one rc command on a single connection to the player.

Usage
	vlcrc serve --http-port 7362
	curl -X PUT localhost:7362/volume/200
`,
	Args: cobra.NoArgs,

	RunE: func(cmd *cobra.Command, args []string) (err error) {
		ctx, signalStop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer signalStop()

		options := clientOptions()
		options.Redial = true

		player, err := client.Dial(ctx, options)
		if err != nil {
			return err
		}
		defer player.Close()

		router := api.NewRouter(player, log.Named("http"), config.DebugHTTP)

		s := &http.Server{
			Addr:    net.JoinHostPort(httpHost, httpPort),
			Handler: router,
		}

		// Initializing the server in a goroutine so that
		// it won't block the graceful shutdown handling below
		go func() {
			if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("Http server errored", zap.Error(err))
				signalStop()
			}
		}()

		log.Info("Listening",
			zap.String("player", player.Conn().Addr()),
			zap.String("http", s.Addr))

		// Listen for the interrupt signal.
		<-ctx.Done()

		// Restore default behavior on the interrupt signal and notify user of shutdown.
		signalStop()
		log.Info("Shutting down gracefully, press Ctrl+C again to force")

		// The context is used to inform the server it has 5 seconds to finish
		// the request it is currently handling
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.SetKeepAlivesEnabled(false)

		if err := s.Shutdown(shutdownCtx); err != nil {
			log.Error("Http server forced to shutdown", zap.Error(err))
		}

		log.Info("Exiting")
		return nil
	},
}
