package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/luma/vlcrc/internal/meta"
)

var VersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version of vlcrc",
	Args:  cobra.NoArgs,

	RunE: func(cmd *cobra.Command, args []string) error {
		info := meta.GetInfo()

		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), info)
		}

		_, err := fmt.Fprintln(cmd.OutOrStdout(), info)
		return err
	},
}
