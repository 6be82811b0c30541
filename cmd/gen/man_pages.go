package gen

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"

	"github.com/luma/vlcrc/internal/meta"
)

// Where man pages are written, relative to the working directory.
var manDir string

var ManPagesCmd = &cobra.Command{
	Use:   "man",
	Short: "Generate man pages for vlcrc",
	Long: `Writes a man page, section 1, for vlcrc and for each of its
	subcommands. The pages go to ./man unless --dir says otherwise.`,
	Args: cobra.NoArgs,

	RunE: func(cmd *cobra.Command, args []string) error {
		return generateManPages(cmd.Root(), manDir, cmd.OutOrStdout())
	},
}

// generateManPages writes one page per available command of root into dir,
// creating dir if needed.
func generateManPages(root *cobra.Command, dir string, out io.Writer) error {
	dir = filepath.Clean(dir)

	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}

	info := meta.GetInfo()
	header := &doc.GenManHeader{
		Title:   "VLCRC",
		Section: "1",
		Manual:  "vlcrc Manual",
		Source:  info.String(),
	}

	root.DisableAutoGenTag = true

	if err := doc.GenManTree(root, header, dir); err != nil {
		return err
	}

	fmt.Fprintf(out, "Wrote man pages for %s to %s\n", root.Name(), dir)

	return nil
}

func init() {
	flags := ManPagesCmd.PersistentFlags()

	flags.StringVar(&manDir, "dir", "man", "the directory to write the man pages to")

	// Complete directories only
	if err := flags.SetAnnotation("dir", cobra.BashCompSubdirsInDir, []string{}); err != nil {
		panic(err)
	}
}
