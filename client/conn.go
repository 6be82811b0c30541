package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/luma/vlcrc/protocol"
)

const readBufferSize = 4096

// Conn is a single rc session. The protocol is strictly request/response so
// Conn runs one command at a time, concurrent callers queue up.
type Conn struct {
	addr           string
	timeout        time.Duration
	connectTimeout time.Duration
	prompt         []byte

	// mu is held for the whole of a command, send and receive.
	mu sync.Mutex

	// stateMu guards conn on its own so Close can interrupt a command that
	// is waiting on a read.
	stateMu  sync.Mutex
	conn     net.Conn
	greeting []string

	log *zap.Logger
}

func NewConn(options Options) *Conn {
	options = options.withDefaults()

	addr := net.JoinHostPort(options.Host, strconv.Itoa(options.Port))

	return &Conn{
		addr:           addr,
		timeout:        options.Timeout,
		connectTimeout: options.ConnectTimeout,
		prompt:         []byte(options.Prompt),
		log:            options.Log.Named("conn").With(zap.String("addr", addr)),
	}
}

func (c *Conn) Addr() string {
	return c.addr
}

// Open dials the server and drains the greeting it prints on connect. Open on
// an open Conn does nothing.
func (c *Conn) Open(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.current() != nil {
		return nil
	}

	dialer := net.Dialer{Timeout: c.connectTimeout}

	conn, err := dialer.DialContext(ctx, "tcp", c.addr)
	if err != nil {
		return &ConnectionError{Op: "dial", Addr: c.addr, Err: err}
	}

	c.stateMu.Lock()
	c.conn = conn
	c.greeting = nil
	c.stateMu.Unlock()

	greeting, err := c.receive(ctx, conn)
	if err != nil {
		c.Close()
		return err
	}

	c.stateMu.Lock()
	c.greeting = greeting.Lines
	c.stateMu.Unlock()

	c.log.Info("Connected", zap.Int("greetingLines", len(greeting.Lines)))

	return nil
}

// Greeting returns the lines the server printed on connect.
func (c *Conn) Greeting() []string {
	c.stateMu.Lock()
	defer c.stateMu.Unlock()

	return c.greeting
}

// Close releases the socket. A command waiting on the server fails with
// ErrConnectionClosed. Closing a closed Conn is a no-op.
func (c *Conn) Close() error {
	c.stateMu.Lock()
	conn := c.conn
	c.conn = nil
	c.stateMu.Unlock()

	if conn == nil {
		return nil
	}

	c.log.Info("Closing connection")

	if err := conn.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
		return err
	}

	return nil
}

// IsOpen reports whether the socket is open.
func (c *Conn) IsOpen() bool {
	return c.current() != nil
}

// SendCommand writes cmd and collects the response. The response ends when
// nothing was received for the configured timeout. When the server closes the
// connection part way the lines received so far are returned with Truncated
// set, or ErrConnectionClosed if there were none.
//
// ctx is checked before sending and between reads. A command abandoned
// part way leaves the rest of its response on the wire, so the Conn is
// closed in that case.
func (c *Conn) SendCommand(ctx context.Context, cmd protocol.Command) (protocol.RawResponse, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return protocol.RawResponse{}, err
	}

	conn := c.current()
	if conn == nil {
		return protocol.RawResponse{}, &ConnectionError{Op: "write", Addr: c.addr, Err: ErrNotConnected}
	}

	line := cmd.Line()
	if err := c.send(conn, line); err != nil {
		return protocol.RawResponse{}, err
	}

	c.log.Debug("Sent", zap.String("command", line))

	response, err := c.receive(ctx, conn)
	if err != nil {
		return protocol.RawResponse{}, err
	}

	c.log.Debug("Received",
		zap.String("command", cmd.Name),
		zap.Int("lines", len(response.Lines)),
		zap.Bool("truncated", response.Truncated))

	return response, nil
}

func (c *Conn) current() net.Conn {
	c.stateMu.Lock()
	defer c.stateMu.Unlock()

	return c.conn
}

func (c *Conn) send(conn net.Conn, line string) error {
	if strings.ContainsAny(line, "\r\n") {
		return fmt.Errorf("%w: command line contains a newline", protocol.ErrInvalidArgument)
	}

	if err := protocol.WriteRaw(conn, line+string(protocol.CommandTerminal)); err != nil {
		if errors.Is(err, net.ErrClosed) {
			err = ErrNotConnected
		}

		return &ConnectionError{Op: "write", Addr: c.addr, Err: err}
	}

	return nil
}

// receive reads until the connection stays quiet for the timeout.
func (c *Conn) receive(ctx context.Context, conn net.Conn) (protocol.RawResponse, error) {
	var (
		response protocol.RawResponse
		pending  []byte
		buf      = make([]byte, readBufferSize)
	)

	for {
		if err := ctx.Err(); err != nil {
			c.drop(conn)
			return protocol.RawResponse{}, err
		}

		if err := conn.SetReadDeadline(time.Now().Add(c.timeout)); err != nil {
			return c.closed(conn, response, err)
		}

		n, err := conn.Read(buf)
		if n > 0 {
			pending = append(pending, buf[:n]...)

			for {
				i := bytes.IndexByte(pending, '\n')
				if i < 0 {
					break
				}

				c.appendLine(&response, pending[:i])
				pending = pending[i+1:]
			}
		}

		if err == nil {
			continue
		}

		// Whatever is left is a line without a terminator, most of the time
		// the prompt.
		if len(pending) > 0 {
			c.appendLine(&response, pending)
		}

		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return response, nil
		}

		return c.closed(conn, response, err)
	}
}

// closed handles a read that failed for any other reason than the timeout.
func (c *Conn) closed(conn net.Conn, response protocol.RawResponse, err error) (protocol.RawResponse, error) {
	local := errors.Is(err, net.ErrClosed)

	c.drop(conn)

	if !local && !errors.Is(err, io.EOF) && !errors.Is(err, syscall.ECONNRESET) {
		return protocol.RawResponse{}, &ConnectionError{Op: "read", Addr: c.addr, Err: err}
	}

	if local || len(response.Lines) == 0 {
		return protocol.RawResponse{}, ErrConnectionClosed
	}

	c.log.Warn("Connection closed mid-response", zap.Int("lines", len(response.Lines)))

	response.Truncated = true

	return response, nil
}

// drop closes conn if it is still the current connection.
func (c *Conn) drop(conn net.Conn) {
	c.stateMu.Lock()
	if c.conn == conn {
		c.conn = nil
	}
	c.stateMu.Unlock()

	conn.Close()
}

// appendLine strips the terminator and any leading prompts. A line that only
// held prompts is dropped.
func (c *Conn) appendLine(response *protocol.RawResponse, line []byte) {
	line = protocol.RemoveTrailingCR(line)

	if len(c.prompt) > 0 && bytes.HasPrefix(line, c.prompt) {
		for bytes.HasPrefix(line, c.prompt) {
			line = line[len(c.prompt):]
		}

		if len(line) == 0 {
			return
		}
	}

	response.Lines = append(response.Lines, string(line))
}
