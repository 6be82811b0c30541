package gen

import (
	"bytes"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"github.com/spf13/cobra"
)

var _ = Describe("generateManPages()", func() {
	var dir string

	BeforeEach(func() {
		var err error
		dir, err = os.MkdirTemp("", "vlcrc-man")
		Expect(err).To(Succeed())
	})

	AfterEach(func() {
		Expect(os.RemoveAll(dir)).To(Succeed())
	})

	It("writes a page per command into a new directory", func() {
		root := &cobra.Command{Use: "vlcrc", Short: "Control VLC"}
		root.AddCommand(&cobra.Command{
			Use:   "exec",
			Short: "Run one command",
			Run:   func(cmd *cobra.Command, args []string) {},
		})

		var out bytes.Buffer
		target := filepath.Join(dir, "man", "man1")

		Expect(generateManPages(root, target, &out)).To(Succeed())
		Expect(out.String()).To(ContainSubstring(target))

		Expect(filepath.Join(target, "vlcrc.1")).To(BeAnExistingFile())

		page, err := os.ReadFile(filepath.Join(target, "vlcrc-exec.1"))
		Expect(err).To(Succeed())
		Expect(string(page)).To(ContainSubstring("Run one command"))
		Expect(string(page)).To(ContainSubstring("vlcrc Manual"))
	})
})
