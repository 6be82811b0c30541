package transport

import (
	"bufio"
	"context"
	"errors"
	"net"
	"strconv"
	"sync"

	reuseport "github.com/kavu/go_reuseport"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/luma/vlcrc/protocol"
	"github.com/luma/vlcrc/storage"
)

// MaxCommandLength bounds a single command line read from a client.
const MaxCommandLength = 64 * 1024

// TCP is a stand-in for a media player's rc interface. It speaks the same
// line protocol and answers through a Handler, which makes it useful to test
// clients and to develop without a player.
type TCP struct {
	cancel     context.CancelFunc
	stopWaiter sync.WaitGroup

	addr string

	numListeners int
	reuseport    bool
	listeners    []*TCPListener

	session sessionConfig

	store      storage.Store
	ownsStore  bool
	watchStore bool

	mu      sync.Mutex
	started bool

	log *zap.Logger
}

// sessionConfig is what every connection needs to run a session.
type sessionConfig struct {
	greeting []string
	prompt   string
	handler  Handler
	trace    bool
}

func NewTCP(options Options) *TCP {
	numListeners := options.NumListeners

	if numListeners < 1 {
		numListeners = 1
	}

	if !options.Reuseport {
		// Without SO_REUSEPORT only one socket can bind the address.
		numListeners = 1
	}

	log := options.Log
	if log == nil {
		log = zap.NewNop()
	}

	store := options.Store
	ownsStore := false
	if store == nil && options.Handler == nil {
		store = storage.NewPlayerStore()
		ownsStore = true
	}

	handler := options.Handler
	if handler == nil {
		handler = NewPlayerHandler(store)
	}

	return &TCP{
		addr:         net.JoinHostPort(options.Host, strconv.Itoa(options.Port)),
		numListeners: numListeners,
		reuseport:    options.Reuseport,
		listeners:    make([]*TCPListener, 0, numListeners),
		session: sessionConfig{
			greeting: options.Greeting,
			prompt:   options.Prompt,
			handler:  handler,
			trace:    options.Trace,
		},
		store:      store,
		ownsStore:  ownsStore,
		watchStore: store != nil,
		log:        log,
	}
}

// Start binds every listener before returning, so Addr is usable as soon as
// Start succeeds. Connections are accepted in the background until Close is
// called or parentCtx is done.
func (t *TCP) Start(parentCtx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.started {
		return errors.New("TCP server already started")
	}

	ctx, cancel := context.WithCancel(parentCtx)
	t.cancel = cancel

	t.log.Info("Starting tcp listeners", zap.Int("count", t.numListeners))

	for i := 0; i < t.numListeners; i++ {
		listener, err := t.listen(ctx, i)
		if err != nil {
			cancel()
			for _, l := range t.listeners {
				l.Close()
			}
			t.listeners = t.listeners[:0]
			return err
		}

		if i == 0 {
			// With port 0 the kernel picked a port, every other listener
			// has to share it.
			t.addr = listener.Addr()
		}

		t.startListener(listener)
	}

	if t.watchStore {
		t.stopWaiter.Add(1)
		go func() {
			defer t.stopWaiter.Done()
			t.logUpdates(ctx)
		}()
	}

	t.started = true
	t.log.Info("Listening", zap.String("addr", t.addr))

	return nil
}

// Addr returns the host:port the server is bound to.
func (t *TCP) Addr() string {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.addr
}

func (t *TCP) Store() storage.Store {
	return t.store
}

func (t *TCP) listen(ctx context.Context, index int) (*TCPListener, error) {
	var (
		l   net.Listener
		err error
	)

	if t.reuseport {
		l, err = reuseport.Listen("tcp", t.addr)
	} else {
		l, err = net.Listen("tcp", t.addr)
	}

	if err != nil {
		return nil, err
	}

	return NewTCPListener(
		ctx,
		l,
		t.session,
		t.log.Named("listener").With(zap.Int("listener", index)),
	), nil
}

func (t *TCP) startListener(listener *TCPListener) {
	t.listeners = append(t.listeners, listener)

	t.stopWaiter.Add(1)
	go func() {
		defer t.stopWaiter.Done()

		if err := listener.Serve(); err != nil {
			t.log.Error("Failed to accept", zap.Error(err))
		}
	}()
}

func (t *TCP) logUpdates(ctx context.Context) {
	updates := t.store.ListenToUpdates()

	for {
		select {
		case <-ctx.Done():
			return

		case update, ok := <-updates:
			if !ok {
				return
			}

			t.log.Debug("Player state updated",
				zap.String("key", update.Key),
				zap.ByteString("value", update.Value))
		}
	}
}

// Close immediately closes all listeners and connections and waits for their
// goroutines to exit.
func (t *TCP) Close() (err error) {
	t.mu.Lock()
	if !t.started {
		t.mu.Unlock()
		return nil
	}
	t.started = false
	listeners := t.listeners
	t.listeners = nil
	t.mu.Unlock()

	t.log.Info("Stopping TCP server")
	t.cancel()

	for _, listener := range listeners {
		err = multierr.Append(err, listener.Close())
	}

	t.stopWaiter.Wait()

	if t.ownsStore {
		err = multierr.Append(err, t.store.Close())
	}

	t.log.Info("TCP server stopped")

	return err
}

type TCPListener struct {
	ctx context.Context

	listener net.Listener
	session  sessionConfig
	log      *zap.Logger

	mu          sync.Mutex
	activeConns map[*TCPConn]struct{}
	connWaiter  sync.WaitGroup

	closeOnce sync.Once
	closeErr  error
}

func NewTCPListener(
	ctx context.Context,
	listener net.Listener,
	session sessionConfig,
	log *zap.Logger,
) *TCPListener {
	return &TCPListener{
		ctx:         ctx,
		listener:    listener,
		session:     session,
		activeConns: make(map[*TCPConn]struct{}),
		log:         log,
	}
}

func (t *TCPListener) Addr() string {
	return t.listener.Addr().String()
}

// Close stops accepting and closes every active connection.
func (t *TCPListener) Close() error {
	t.closeOnce.Do(func() {
		if err := t.listener.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
			t.closeErr = multierr.Append(t.closeErr, err)
		}

		t.mu.Lock()
		conns := make([]*TCPConn, 0, len(t.activeConns))
		for conn := range t.activeConns {
			conns = append(conns, conn)
		}
		t.mu.Unlock()

		for _, conn := range conns {
			t.closeErr = multierr.Append(t.closeErr, conn.Close())
		}
	})

	return t.closeErr
}

// Serve accepts connections until the listener is closed.
func (t *TCPListener) Serve() error {
	go func() {
		<-t.ctx.Done()
		t.Close()
	}()

	defer func() {
		t.log.Info("Waiting for sessions to end")
		t.connWaiter.Wait()
		t.log.Info("Listener stopped")
	}()

	for {
		conn, err := t.listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				// The listener was closed while we were waiting for new
				// connections, that's fine.
				return nil
			}

			return err
		}

		tcpConn := NewTCPConn(t.ctx, conn, t.session, t.log.Named("conn"))
		t.addConn(tcpConn)

		t.connWaiter.Add(1)
		go func() {
			defer t.connWaiter.Done()
			defer t.removeConn(tcpConn)

			tcpConn.Start()
		}()
	}
}

func (t *TCPListener) addConn(conn *TCPConn) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.activeConns[conn] = struct{}{}
}

func (t *TCPListener) removeConn(conn *TCPConn) {
	t.mu.Lock()
	defer t.mu.Unlock()

	delete(t.activeConns, conn)
}

// TCPConn runs one client session.
type TCPConn struct {
	ctx    context.Context
	cancel context.CancelFunc

	conn    net.Conn
	session sessionConfig

	closeOnce sync.Once

	log *zap.Logger
}

func NewTCPConn(
	parentCtx context.Context,
	conn net.Conn,
	session sessionConfig,
	log *zap.Logger,
) *TCPConn {
	ctx, cancel := context.WithCancel(parentCtx)

	return &TCPConn{
		ctx:     ctx,
		cancel:  cancel,
		conn:    conn,
		session: session,
		log:     log.With(zap.String("remote", conn.RemoteAddr().String())),
	}
}

func (t *TCPConn) Close() (err error) {
	t.closeOnce.Do(func() {
		t.cancel()
		if cerr := t.conn.Close(); cerr != nil && !errors.Is(cerr, net.ErrClosed) {
			err = cerr
		}
	})

	return err
}

// Start greets the client then answers commands until the client leaves, a
// handler hangs up or the server closes.
func (t *TCPConn) Start() {
	log := t.log.Named("session")

	defer func() {
		t.Close()
		log.Info("Session ended")
	}()

	log.Info("Session started")

	go func() {
		// Unblocks the scanner below when the server shuts down.
		<-t.ctx.Done()
		t.Close()
	}()

	greeter := newResponseWriter(t.ctx, t.conn, t.traceWrite)
	if err := greeter.WriteLines(t.session.greeting...); err != nil {
		log.Warn("Failed to greet client", zap.Error(err))
		return
	}

	if err := t.writePrompt(greeter); err != nil {
		log.Warn("Failed to write prompt", zap.Error(err))
		return
	}

	scanner := bufio.NewScanner(t.conn)
	scanner.Buffer(make([]byte, 0, 4096), MaxCommandLength)

	for scanner.Scan() {
		line := string(protocol.RemoveTrailingCR(scanner.Bytes()))
		if t.session.trace {
			log.Debug("Read", zap.String("line", line))
		}

		cmd := protocol.ParseCommandLine(line)

		w := newResponseWriter(t.ctx, t.conn, t.traceWrite)
		if cmd.Name != "" {
			t.session.handler.ServeRC(t.ctx, w, cmd)
		}

		if w.isHungUp() {
			log.Info("Handler hung up", zap.String("command", cmd.Name))
			return
		}

		if err := t.writePrompt(w); err != nil {
			log.Warn("Failed to write prompt", zap.Error(err))
			return
		}
	}

	if err := scanner.Err(); err != nil && !errors.Is(err, net.ErrClosed) {
		log.Warn("Failed to read client command", zap.Error(err))
	}
}

func (t *TCPConn) writePrompt(w *ResponseWriter) error {
	if t.session.prompt == "" {
		return nil
	}

	return w.WriteRaw(t.session.prompt)
}

func (t *TCPConn) traceWrite(line string) {
	if t.session.trace {
		t.log.Debug("Write", zap.String("line", line))
	}
}
