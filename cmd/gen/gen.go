package gen

import (
	"github.com/spf13/cobra"
)

var RootCmd = &cobra.Command{
	Use:   "gen",
	Short: "Generate documentation for vlcrc",
	Long:  `Generate documentation for vlcrc`,
}

func init() {
	RootCmd.AddCommand(ManPagesCmd)
}
