package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/luma/vlcrc/client"
	"github.com/luma/vlcrc/cmd/gen"
	"github.com/luma/vlcrc/internal/env"
	"github.com/luma/vlcrc/protocol"
)

var (
	// The player's rc address
	address string
	port    int

	// Quiescence window for each response
	timeout        time.Duration
	connectTimeout time.Duration

	logLevel string

	// Print results as JSON
	jsonOutput bool

	// One command line to run, see RootCmd
	command string
)

// Filled in by setup before any command runs.
var (
	config *env.Config
	log    = zap.NewNop()
)

var RootCmd = &cobra.Command{
	Use:   "vlcrc",
	Short: "Control a VLC media player through its rc interface",
	Long: `Control a VLC media player through its rc interface

Start VLC with the rc interface listening on a port:

	vlc --extraintf rc --rc-host 127.0.0.1:50000

Usage
	vlcrc -c "volume 200"
	vlcrc exec playlist
	vlcrc shell
`,
	SilenceUsage:  true,
	SilenceErrors: true,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup(cmd)
	},

	RunE: func(cmd *cobra.Command, args []string) error {
		if command == "" {
			return cmd.Help()
		}

		return runCommand(cmd.Context(), cmd, protocol.ParseCommandLine(command))
	},
}

func init() {
	flags := RootCmd.PersistentFlags()

	flags.StringVarP(&address, "address", "a", client.DefaultHost, "The address of the player's rc interface")
	flags.IntVarP(&port, "port", "p", client.DefaultPort, "The port of the player's rc interface")
	flags.VarP(newSecondsValue(&timeout, client.DefaultTimeout), "timeout", "t", "How long the player has to stay quiet to end a response, e.g. 0.1 or 100ms")
	flags.Var(newSecondsValue(&connectTimeout, client.DefaultConnectTimeout), "connect-timeout", "How long to wait for the connection, in seconds or as a duration")
	flags.StringVar(&logLevel, "log-level", "warn", "debug, info, warn or error")
	flags.BoolVar(&jsonOutput, "json", false, "Print results as JSON")

	RootCmd.Flags().StringVarP(&command, "command", "c", "", "A command to run, e.g. \"volume 200\"")

	RootCmd.AddCommand(ExecCmd)
	RootCmd.AddCommand(ShellCmd)
	RootCmd.AddCommand(ServeCmd)
	RootCmd.AddCommand(StubCmd)
	RootCmd.AddCommand(VersionCmd)
	RootCmd.AddCommand(gen.RootCmd)
}

// Execute runs the command line and exits with 2 for invalid arguments and 1
// for any other failure.
func Execute() {
	err := RootCmd.ExecuteContext(context.Background())

	_ = log.Sync()

	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(exitCode(err))
	}
}

func exitCode(err error) int {
	if errors.Is(err, protocol.ErrInvalidArgument) {
		return 2
	}

	return 1
}

// setup loads the configuration. Flags given on the command line win over
// the environment.
func setup(cmd *cobra.Command) error {
	conf, err := env.LoadConfig(cmd.Context())
	if err != nil {
		return err
	}

	flags := cmd.Flags()

	if !flags.Changed("address") {
		address = conf.Address
	}

	if !flags.Changed("port") {
		port = conf.Port
	}

	if !flags.Changed("timeout") {
		timeout = conf.Timeout
	}

	if !flags.Changed("connect-timeout") {
		connectTimeout = conf.ConnectTimeout
	}

	if flags.Changed("log-level") {
		conf.LogLevel = logLevel
	}

	logger, err := env.MakeLogger(conf.LogLevel, conf.LogFormat)
	if err != nil {
		return err
	}

	config = conf
	log = logger

	return nil
}

func clientOptions() client.Options {
	return client.Options{
		Host:           address,
		Port:           port,
		Timeout:        timeout,
		ConnectTimeout: connectTimeout,
		Prompt:         config.Prompt,
		Log:            log.Named("client"),
	}
}
