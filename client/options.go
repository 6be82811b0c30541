package client

import (
	"time"

	"go.uber.org/zap"
)

const (
	DefaultHost = "127.0.0.1"
	DefaultPort = 50000

	// DefaultTimeout is how long the connection has to stay quiet before a
	// response is considered complete.
	DefaultTimeout = 100 * time.Millisecond

	DefaultConnectTimeout = time.Second

	// DefaultPrompt is stripped from received lines.
	DefaultPrompt = "> "
)

// NoPrompt disables prompt stripping when used as Options.Prompt.
const NoPrompt = "\x00"

type Options struct {
	Host string
	Port int

	// Timeout is the quiescence window: a read that sees no bytes for this
	// long ends the response. Slow links and very long playlists need more.
	Timeout time.Duration

	// ConnectTimeout bounds the TCP dial.
	ConnectTimeout time.Duration

	// Prompt the server prints after each response. Empty means
	// DefaultPrompt, NoPrompt turns stripping off.
	Prompt string

	// Redial makes a Client reopen a closed connection before the next
	// command. A command that failed is never sent again.
	Redial bool

	Log *zap.Logger
}

func (o Options) withDefaults() Options {
	if o.Host == "" {
		o.Host = DefaultHost
	}

	if o.Port == 0 {
		o.Port = DefaultPort
	}

	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}

	if o.ConnectTimeout <= 0 {
		o.ConnectTimeout = DefaultConnectTimeout
	}

	switch o.Prompt {
	case "":
		o.Prompt = DefaultPrompt
	case NoPrompt:
		o.Prompt = ""
	}

	if o.Log == nil {
		o.Log = zap.NewNop()
	}

	return o
}
