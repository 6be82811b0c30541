// Package lineeditor reads commands for the interactive shell. On a terminal
// it offers line editing and history, otherwise it reads plain lines.
package lineeditor

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ergochat/readline"
	"golang.org/x/term"
)

const historyLimit = 500

type Editor struct {
	rl *readline.Instance

	scanner *bufio.Scanner
	out     io.Writer
}

// New returns an Editor reading from in. historyFile may be empty to keep
// history in memory only.
func New(in *os.File, out io.Writer, historyFile string) *Editor {
	if !term.IsTerminal(int(in.Fd())) || os.Getenv("INSIDE_EMACS") != "" {
		return newPlain(in, out)
	}

	rl, err := readline.NewFromConfig(&readline.Config{
		Stdin:                  in,
		Stdout:                 out,
		HistoryFile:            historyFile,
		HistoryLimit:           historyLimit,
		DisableAutoSaveHistory: true,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: line editing unavailable (%v)\n", err)
		return newPlain(in, out)
	}

	return &Editor{rl: rl, out: out}
}

func newPlain(in io.Reader, out io.Writer) *Editor {
	return &Editor{scanner: bufio.NewScanner(in), out: out}
}

// Interactive reports whether line editing is on.
func (e *Editor) Interactive() bool {
	return e.rl != nil
}

// ReadLine prints prompt and returns the next line. It returns io.EOF at the
// end of input, or on Ctrl-C and Ctrl-D.
func (e *Editor) ReadLine(prompt string) (string, error) {
	if e.rl == nil {
		return e.readPlain(prompt)
	}

	e.rl.SetPrompt(prompt)

	line, err := e.rl.Readline()
	if err != nil {
		if errors.Is(err, readline.ErrInterrupt) {
			return "", io.EOF
		}
		return "", err
	}

	if trimmed := strings.TrimSpace(line); trimmed != "" {
		e.rl.SaveToHistory(trimmed)
	}

	return line, nil
}

func (e *Editor) readPlain(prompt string) (string, error) {
	fmt.Fprint(e.out, prompt)

	if !e.scanner.Scan() {
		if err := e.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}

	return e.scanner.Text(), nil
}

func (e *Editor) Close() error {
	if e.rl == nil {
		return nil
	}

	return e.rl.Close()
}
