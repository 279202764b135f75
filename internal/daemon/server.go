package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/thenoetrevino/plura/internal/events"
)

// ErrBroadcastFull is returned by Broadcast when the fan-out queue is full
var ErrBroadcastFull = errors.New("broadcast channel full")

// client represents a connected board session
type client struct {
	conn         net.Conn
	send         chan events.Message
	subscription events.SubscribeMessage
	lastPong     time.Time
	mu           sync.Mutex // Protects subscription and lastPong
	closeOnce    sync.Once  // Ensures send channel is closed only once
}

// Options tunes queue sizes and health checking
type Options struct {
	BroadcastBuffer int
	ClientBuffer    int
	PingInterval    time.Duration
	StaleAfter      time.Duration
}

// DefaultOptions returns the production settings. Buffer sizes can be
// overridden with PLURA_DAEMON_BROADCAST_BUFFER and PLURA_DAEMON_CLIENT_BUFFER.
func DefaultOptions() Options {
	return Options{
		BroadcastBuffer: getEnvInt("PLURA_DAEMON_BROADCAST_BUFFER", 100),
		ClientBuffer:    getEnvInt("PLURA_DAEMON_CLIENT_BUFFER", 10),
		PingInterval:    30 * time.Second,
		StaleAfter:      90 * time.Second,
	}
}

// Server fans board_changed events out to every session watching the
// affected pipeline.
type Server struct {
	socketPath      string
	listener        net.Listener
	clients         map[*client]bool
	mu              sync.RWMutex
	ctx             context.Context
	cancel          context.CancelFunc
	broadcast       chan events.Event
	metrics         *Metrics
	sequenceCounter atomic.Int64
	opts            Options
	shutdownOnce    sync.Once
}

// getEnvInt reads an integer from an environment variable, returning defaultVal if not set or invalid
func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil && parsed > 0 {
			return parsed
		}
	}
	return defaultVal
}

// NewServer creates the socket directory, removes a stale socket and starts
// listening. Zero option fields fall back to DefaultOptions.
func NewServer(socketPath string, opts Options) (*Server, error) {
	defaults := DefaultOptions()
	if opts.BroadcastBuffer <= 0 {
		opts.BroadcastBuffer = defaults.BroadcastBuffer
	}
	if opts.ClientBuffer <= 0 {
		opts.ClientBuffer = defaults.ClientBuffer
	}
	if opts.PingInterval <= 0 {
		opts.PingInterval = defaults.PingInterval
	}
	if opts.StaleAfter <= 0 {
		opts.StaleAfter = defaults.StaleAfter
	}

	if dir := filepath.Dir(socketPath); dir != "" {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, fmt.Errorf("failed to create socket directory: %w", err)
		}
	}

	if _, err := os.Stat(socketPath); err == nil {
		if err := os.Remove(socketPath); err != nil {
			return nil, fmt.Errorf("failed to remove stale socket: %w", err)
		}
	}

	listener, err := (&net.ListenConfig{}).Listen(context.Background(), "unix", socketPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create socket listener: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Server{
		socketPath: socketPath,
		listener:   listener,
		clients:    make(map[*client]bool),
		ctx:        ctx,
		cancel:     cancel,
		broadcast:  make(chan events.Event, opts.BroadcastBuffer),
		metrics:    NewMetrics(),
		opts:       opts,
	}, nil
}

// Metrics exposes the live counters
func (s *Server) Metrics() *Metrics {
	return s.metrics
}

// Start runs the accept, broadcast and health loops until ctx is cancelled,
// Shutdown is called or accepting fails. It always shuts the server down
// before returning.
func (s *Server) Start(ctx context.Context) error {
	slog.Info("daemon starting", "socket_path", s.socketPath)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(s.ctx, cancel)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.acceptLoop(gctx) })
	g.Go(func() error {
		s.broadcastLoop(gctx)
		return nil
	})
	g.Go(func() error {
		s.monitorHealth(gctx)
		return nil
	})

	err := g.Wait()
	if err != nil {
		slog.Error("accept loop failed", "error", err)
	}

	if shutdownErr := s.Shutdown(); shutdownErr != nil && err == nil {
		err = shutdownErr
	}
	return err
}

// acceptLoop returns nil once ctx is done and an error if the listener fails
// for any other reason.
func (s *Server) acceptLoop(ctx context.Context) error {
	unixListener, _ := s.listener.(*net.UnixListener)

	for {
		if ctx.Err() != nil {
			return nil
		}

		// A deadline lets the loop notice cancellation
		if unixListener != nil {
			if err := unixListener.SetDeadline(time.Now().Add(1 * time.Second)); err != nil {
				slog.Warn("error setting listener deadline", "error", err)
			}
		}

		conn, err := s.listener.Accept()
		if err != nil {
			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				continue
			}
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			return fmt.Errorf("accept error: %w", err)
		}

		c := &client{
			conn:     conn,
			send:     make(chan events.Message, s.opts.ClientBuffer),
			lastPong: time.Now(),
		}

		s.mu.Lock()
		s.clients[c] = true
		s.mu.Unlock()
		s.updateClientCount()

		slog.Debug("client connected", "clients", s.getClientCount())

		go s.handleClient(c)
		go s.clientWriter(c)
	}
}

// broadcastLoop stamps each event with the next sequence number and queues
// it for every client subscribed to its pipeline.
func (s *Server) broadcastLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return

		case event := <-s.broadcast:
			event.SequenceID = s.sequenceCounter.Add(1)
			s.metrics.IncBroadcastsTotal()

			s.mu.RLock()
			for c := range s.clients {
				c.mu.Lock()
				subscribed := c.subscription.PipelineID
				c.mu.Unlock()

				if !matches(subscribed, event.PipelineID) {
					continue
				}
				msg := events.Message{
					Version: events.ProtocolVersion,
					Type:    "event",
					Event:   &event,
				}
				if !s.sendToClient(c, msg) {
					s.metrics.IncEventsDropped()
					slog.Warn("client send queue full, event dropped", "pipeline_id", event.PipelineID)
				}
			}
			s.mu.RUnlock()
		}
	}
}

// matches reports whether a client subscribed to subscribed should receive
// an event for pipelineID. Zero on either side means all pipelines.
func matches(subscribed, pipelineID int) bool {
	return pipelineID == 0 || subscribed == 0 || subscribed == pipelineID
}

// handleClient reads messages from a connected client
func (s *Server) handleClient(c *client) {
	defer func() {
		s.removeClient(c)
		slog.Debug("client disconnected", "clients", s.getClientCount())
	}()

	decoder := json.NewDecoder(c.conn)

	for {
		var msg events.Message
		if err := decoder.Decode(&msg); err != nil {
			return
		}

		if msg.Version != 0 && msg.Version != events.ProtocolVersion {
			slog.Warn("protocol version mismatch", "got", msg.Version, "expected", events.ProtocolVersion)
		}

		switch msg.Type {
		case "event":
			if msg.Event == nil {
				continue
			}
			s.metrics.IncEventsReceived()
			if err := s.Broadcast(*msg.Event); err != nil {
				s.metrics.IncEventsDropped()
				slog.Warn("dropping event", "pipeline_id", msg.Event.PipelineID, "error", err)
			}

		case "subscribe":
			if msg.Subscribe != nil {
				c.mu.Lock()
				c.subscription = *msg.Subscribe
				c.mu.Unlock()
				slog.Debug("client subscribed", "pipeline_id", msg.Subscribe.PipelineID)
			}

		case "pong":
			c.mu.Lock()
			c.lastPong = time.Now()
			c.mu.Unlock()
		}
	}
}

// clientWriter drains the client's send queue onto its connection
func (s *Server) clientWriter(c *client) {
	encoder := json.NewEncoder(c.conn)

	for msg := range c.send {
		if err := encoder.Encode(msg); err != nil {
			return
		}
	}
}

// monitorHealth pings every client and drops the ones that stopped answering
func (s *Server) monitorHealth(ctx context.Context) {
	pingTicker := time.NewTicker(s.opts.PingInterval)
	defer pingTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case <-pingTicker.C:
			now := time.Now()
			pingMsg := events.Message{
				Version: events.ProtocolVersion,
				Type:    "ping",
				Event:   &events.Event{Type: events.EventPing, Timestamp: now},
			}

			// Collect first, then remove outside the server lock
			var stale []*client
			s.mu.RLock()
			for c := range s.clients {
				c.mu.Lock()
				lastPong := c.lastPong
				c.mu.Unlock()

				if now.Sub(lastPong) > s.opts.StaleAfter {
					stale = append(stale, c)
					continue
				}
				if !s.sendToClient(c, pingMsg) {
					slog.Warn("failed to send ping to client (queue full)")
				}
			}
			s.mu.RUnlock()

			for _, c := range stale {
				slog.Info("removing stale client")
				s.removeClient(c)
			}
		}
	}
}

// Broadcast queues an event for fan-out without blocking
func (s *Server) Broadcast(event events.Event) error {
	if s.ctx.Err() != nil {
		return net.ErrClosed
	}
	select {
	case s.broadcast <- event:
		return nil
	default:
		return ErrBroadcastFull
	}
}

// Shutdown closes the listener and every client connection and removes the
// socket file. It is safe to call more than once.
func (s *Server) Shutdown() error {
	var err error
	s.shutdownOnce.Do(func() {
		slog.Info("shutting down daemon", "metrics", s.metrics.GetSnapshot())

		s.cancel()

		if s.listener != nil {
			if closeErr := s.listener.Close(); closeErr != nil && !errors.Is(closeErr, net.ErrClosed) {
				err = fmt.Errorf("failed to close listener: %w", closeErr)
			}
		}

		s.mu.Lock()
		for c := range s.clients {
			if closeErr := c.conn.Close(); closeErr != nil && !errors.Is(closeErr, net.ErrClosed) {
				slog.Warn("error closing client connection", "error", closeErr)
			}
			c.closeOnce.Do(func() {
				close(c.send)
			})
		}
		s.clients = make(map[*client]bool)
		s.mu.Unlock()
		s.updateClientCount()

		if removeErr := os.Remove(s.socketPath); removeErr != nil && !os.IsNotExist(removeErr) {
			slog.Warn("failed to remove socket file", "error", removeErr)
		}
	})

	return err
}

func (s *Server) getClientCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

func (s *Server) updateClientCount() {
	s.metrics.SetConnectedClients(int32(s.getClientCount()))
}

// removeClient safely removes a client from the server
func (s *Server) removeClient(c *client) {
	s.mu.Lock()
	delete(s.clients, c)
	s.mu.Unlock()

	if err := c.conn.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
		slog.Warn("error closing client connection", "error", err)
	}
	// The send channel may only be closed under the write lock so that
	// broadcastLoop never sends on a closed channel.
	s.mu.Lock()
	c.closeOnce.Do(func() {
		close(c.send)
	})
	s.mu.Unlock()

	s.updateClientCount()
}

// sendToClient attempts a non-blocking send. It returns false if the queue is
// full.
func (s *Server) sendToClient(c *client, msg events.Message) bool {
	select {
	case c.send <- msg:
		s.metrics.IncEventsSent()
		return true
	default:
		return false
	}
}
