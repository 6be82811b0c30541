package protocol

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument is returned when a command's arguments fail local
	// validation. No I/O is attempted for such commands.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrUnknownCommand is returned by Lookup for names outside the vocabulary.
	ErrUnknownCommand = errors.New("unknown command")
)

// ParseWarning reports that a response was parsed but some of its lines did
// not have the expected shape. It never aborts a call, results carry it.
type ParseWarning struct {
	Command  string
	Unparsed int
}

func (w *ParseWarning) Error() string {
	return fmt.Sprintf("%s: %d response line(s) could not be parsed", w.Command, w.Unparsed)
}

// WarningFor returns a *ParseWarning if result has unparsed lines, otherwise nil.
func WarningFor(command string, result Result) error {
	if result == nil || result.UnparsedLines() == 0 {
		return nil
	}

	return &ParseWarning{Command: command, Unparsed: result.UnparsedLines()}
}

func invalidArgument(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}
