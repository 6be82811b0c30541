package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/luma/vlcrc/client"
	"github.com/luma/vlcrc/internal/lineeditor"
	"github.com/luma/vlcrc/protocol"
)

const (
	shellPrompt     = "vlc> "
	historyFileName = ".vlcrc_history"
)

var ShellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Run rc commands interactively over one connection",
	Long: `Run rc commands interactively over one connection

Type "exit" or press Ctrl-D to leave. "quit" stops the player.

Usage
	vlcrc shell
`,
	Args: cobra.NoArgs,

	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		out := cmd.OutOrStdout()

		player, err := client.Dial(ctx, clientOptions())
		if err != nil {
			return err
		}
		defer player.Close()

		for _, line := range player.Conn().Greeting() {
			fmt.Fprintln(out, line)
		}

		editor := lineeditor.New(os.Stdin, out, historyPath())
		defer editor.Close()

		for {
			line, err := editor.ReadLine(shellPrompt)
			if errors.Is(err, io.EOF) {
				return nil
			}
			if err != nil {
				return err
			}

			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}

			if line == "exit" {
				return nil
			}

			rc := protocol.ParseCommandLine(line)

			result, err := player.Do(ctx, rc)
			if err != nil {
				if errors.Is(err, protocol.ErrInvalidArgument) {
					fmt.Fprintln(cmd.ErrOrStderr(), "Error:", err)
					continue
				}

				if rc.Name == "quit" && errors.Is(err, client.ErrConnectionClosed) {
					return nil
				}

				return err
			}

			if err := render(out, result, jsonOutput); err != nil {
				return err
			}

			if !player.Conn().IsOpen() {
				log.Info("Player closed the connection", zap.String("command", rc.Name))
				return nil
			}
		}
	},
}

func historyPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	return filepath.Join(home, historyFileName)
}
