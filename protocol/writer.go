package protocol

import (
	"io"
)

var (
	// CommandTerminal ends every command a client writes.
	CommandTerminal = []byte("\n")

	// Terminal ends every response line a server writes.
	Terminal = []byte("\r\n")
)

// WriteCommand writes the command line followed by a single newline.
func WriteCommand(w io.Writer, cmd Command) error {
	b := append([]byte(cmd.Line()), CommandTerminal...)
	return writeFull(w, b)
}

// WriteLine writes a response line terminated by "\r\n".
func WriteLine(w io.Writer, line string) error {
	b := append([]byte(line), Terminal...)
	return writeFull(w, b)
}

// WriteRaw writes s with no terminator, e.g. a prompt.
func WriteRaw(w io.Writer, s string) error {
	return writeFull(w, []byte(s))
}

// writeFull keeps writing until all of b is flushed, a short write without an
// error is retried rather than reported.
func writeFull(w io.Writer, b []byte) error {
	for len(b) > 0 {
		n, err := w.Write(b)
		if err != nil {
			return err
		}

		if n == 0 {
			return io.ErrShortWrite
		}

		b = b[n:]
	}

	return nil
}
