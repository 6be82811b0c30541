package transport

import (
	"github.com/luma/vlcrc/storage"
	"go.uber.org/zap"
)

// DefaultPrompt is printed by VLC after every response.
const DefaultPrompt = "> "

// DefaultGreeting is the banner VLC writes when a client connects.
var DefaultGreeting = []string{
	"VLC media player 3.0.20 Vetinari",
	"Command Line Interface initialized. Type `help' for help.",
}

type Options struct {
	// Host to listen on
	Host string

	// Port to listen on, 0 picks a free port. See TCP.Addr.
	Port int

	// Reuseport controls setting SO_REUSEPORT. It is required for more than
	// one listener.
	Reuseport bool

	// Trace will log every line read and written. This is only useful in
	// local debugging
	Trace bool

	NumListeners int

	// Greeting lines are written to every new connection, followed by Prompt.
	Greeting []string

	// Prompt is written after the greeting and after every response. Empty
	// means no prompt.
	Prompt string

	// Handler answers commands. When nil a PlayerHandler over Store is used.
	Handler Handler

	// Store backs the default PlayerHandler. When nil a fresh
	// storage.NewPlayerStore() is used.
	Store storage.Store

	Log *zap.Logger
}
