package cmd

import (
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/luma/vlcrc/storage"
	"github.com/luma/vlcrc/transport"
)

var (
	// Number of accept loops sharing the port
	numListeners int

	// JSON file the player state is loaded from and saved to
	stateFile string

	trace bool
)

func init() {
	flags := StubCmd.Flags()

	flags.IntVar(&numListeners, "listeners", 1, "The number of accept loops, more than one uses SO_REUSEPORT")
	flags.StringVar(&stateFile, "state", "", "A JSON file to load the player state from and save it to on exit")
	flags.BoolVar(&trace, "trace", false, "Log every line read and written")
}

var StubCmd = &cobra.Command{
	Use:   "stub",
	Short: "Run a fake player that speaks the rc protocol",
	Long: `Run a fake player that speaks the rc protocol

The stub listens on --address and --port and answers like VLC does. It is
meant for development and tests when no player is around.

Usage
	vlcrc stub --port 50000 --state player.json
`,
	Args: cobra.NoArgs,

	RunE: func(cmd *cobra.Command, args []string) (err error) {
		ctx, signalStop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer signalStop()

		fileLimit, err := setFileLimit()
		if err != nil {
			return err
		}

		log.Info("Set file limit", zap.Uint64("fileLimit", fileLimit))

		store := storage.NewPlayerStore()
		defer store.Close()

		if err := loadState(store); err != nil {
			return err
		}

		tcp := transport.NewTCP(transport.Options{
			Host:         address,
			Port:         port,
			Reuseport:    numListeners > 1,
			NumListeners: numListeners,
			Trace:        trace,
			Greeting:     transport.DefaultGreeting,
			Prompt:       transport.DefaultPrompt,
			Store:        store,
			Log:          log.Named("transport"),
		})

		if err := tcp.Start(ctx); err != nil {
			return err
		}

		log.Info("Listening", zap.String("addr", tcp.Addr()))

		// Listen for the interrupt signal.
		<-ctx.Done()

		signalStop()
		log.Info("Shutting down")

		if err := tcp.Close(); err != nil {
			log.Error("TCP server forced to shutdown", zap.Error(err))
		}

		return saveState(store)
	},
}

func loadState(store storage.Store) error {
	if stateFile == "" {
		return nil
	}

	data, err := os.ReadFile(stateFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}

	return store.Restore(data)
}

func saveState(store storage.Store) error {
	if stateFile == "" {
		return nil
	}

	data, err := store.Backup()
	if err != nil {
		return err
	}

	log.Info("Saving player state", zap.String("file", stateFile))

	return os.WriteFile(stateFile, data, 0o644)
}

func setFileLimit() (uint64, error) {
	var rLimit syscall.Rlimit

	if err := syscall.Getrlimit(syscall.RLIMIT_NOFILE, &rLimit); err != nil {
		return 0, err
	}

	rLimit.Cur = rLimit.Max
	if err := syscall.Setrlimit(syscall.RLIMIT_NOFILE, &rLimit); err != nil {
		return 0, err
	}

	return rLimit.Cur, nil
}
