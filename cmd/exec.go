package cmd

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/luma/vlcrc/client"
	"github.com/luma/vlcrc/protocol"
)

var ExecCmd = &cobra.Command{
	Use:   "exec <command> [args...]",
	Short: "Run one rc command and print the result",
	Long: `Run one rc command and print the result

Known commands are checked before connecting. Anything else is sent to the
player as is and its reply printed unchanged.

Usage
	vlcrc exec status
	vlcrc exec add /music/song.mp3
	vlcrc --json exec playlist
`,
	Args: cobra.MinimumNArgs(1),

	RunE: func(cmd *cobra.Command, args []string) error {
		return runCommand(cmd.Context(), cmd, protocol.NewCommand(args[0], args[1:]...))
	},
}

func runCommand(ctx context.Context, cmd *cobra.Command, rc protocol.Command) error {
	// Bad arguments fail without a connection.
	if _, _, err := protocol.Prepare(rc); err != nil {
		return err
	}

	player, err := client.Dial(ctx, clientOptions())
	if err != nil {
		return err
	}
	defer player.Close()

	result, err := player.Do(ctx, rc)
	if err != nil {
		if rc.Name == "quit" && errors.Is(err, client.ErrConnectionClosed) {
			return nil
		}

		return err
	}

	return render(cmd.OutOrStdout(), result, jsonOutput)
}
