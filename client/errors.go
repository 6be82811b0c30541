package client

import (
	"errors"
	"fmt"
)

var (
	// ErrConnectionClosed is returned when the connection closed before any
	// line of a response was received, either by the peer or by Close.
	ErrConnectionClosed = errors.New("connection closed")

	// ErrNotConnected is wrapped in a ConnectionError when a command is sent
	// on a connection that is not open.
	ErrNotConnected = errors.New("not connected")

	// ErrPaused is returned for a command whose reply carried the player's
	// pause notice. pause and status are exempt, they report the pause.
	ErrPaused = errors.New("player is paused")
)

// ConnectionError reports a failure to connect to or write to the server.
type ConnectionError struct {
	Op   string
	Addr string
	Err  error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Addr, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}
