package lineeditor_test

import (
	"bytes"
	"io"
	"os"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/luma/vlcrc/internal/lineeditor"
)

var _ = Describe("Editor", func() {
	It("reads plain lines from a pipe", func() {
		r, w, err := os.Pipe()
		Expect(err).To(Succeed())
		defer r.Close()

		_, err = w.WriteString("status\nvolume 200\n")
		Expect(err).To(Succeed())
		Expect(w.Close()).To(Succeed())

		var out bytes.Buffer
		editor := lineeditor.New(r, &out, "")
		defer editor.Close()

		Expect(editor.Interactive()).To(BeFalse())

		line, err := editor.ReadLine("vlc> ")
		Expect(err).To(Succeed())
		Expect(line).To(Equal("status"))

		line, err = editor.ReadLine("vlc> ")
		Expect(err).To(Succeed())
		Expect(line).To(Equal("volume 200"))

		_, err = editor.ReadLine("vlc> ")
		Expect(err).To(Equal(io.EOF))

		Expect(out.String()).To(Equal("vlc> vlc> vlc> "))
	})
})
