package transport

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/luma/vlcrc/protocol"
)

// Handler answers a single command received by the stub server.
type Handler interface {
	ServeRC(ctx context.Context, w *ResponseWriter, cmd protocol.Command)
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(ctx context.Context, w *ResponseWriter, cmd protocol.Command)

func (f HandlerFunc) ServeRC(ctx context.Context, w *ResponseWriter, cmd protocol.Command) {
	f(ctx, w, cmd)
}

// ResponseWriter writes response lines straight to the client connection.
type ResponseWriter struct {
	ctx context.Context
	w   io.Writer

	mu     sync.Mutex
	hungUp bool

	trace func(line string)
}

func newResponseWriter(ctx context.Context, w io.Writer, trace func(line string)) *ResponseWriter {
	return &ResponseWriter{ctx: ctx, w: w, trace: trace}
}

// WriteLine writes one "\r\n" terminated line.
func (w *ResponseWriter) WriteLine(line string) error {
	if w.trace != nil {
		w.trace(line)
	}

	return protocol.WriteLine(w.w, line)
}

// WriteLines writes each line in turn, stopping at the first error.
func (w *ResponseWriter) WriteLines(lines ...string) error {
	for _, line := range lines {
		if err := w.WriteLine(line); err != nil {
			return err
		}
	}

	return nil
}

// WriteRaw writes s without a terminator.
func (w *ResponseWriter) WriteRaw(s string) error {
	return protocol.WriteRaw(w.w, s)
}

// Sleep pauses the response for d, or until the connection is closed.
func (w *ResponseWriter) Sleep(d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
	case <-w.ctx.Done():
	}
}

// Hangup closes the connection once the handler returns. No prompt is
// written.
func (w *ResponseWriter) Hangup() {
	w.mu.Lock()
	w.hungUp = true
	w.mu.Unlock()
}

func (w *ResponseWriter) isHungUp() bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.hungUp
}
