package overlay

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	ws "github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

//go:embed host.html
var hostPage []byte

const (
	clientSendSize = 16
	writeWait      = 10 * time.Second
	shutdownWait   = 5 * time.Second
)

// client is one connected host page with a single write goroutine.
type client struct {
	conn   *ws.Conn
	sendCh chan []byte
	done   chan struct{}
	once   sync.Once
}

func (c *client) close() {
	c.once.Do(func() {
		close(c.done)
		c.conn.Close()
	})
}

// Hub is a Sink that streams frames as JSON to every connected host page over a
// websocket. It serves the host page on "/" and the stream on "/ws". A frame
// identical to the previous one is not re-sent; a newly connected page receives
// the latest frame immediately.
type Hub struct {
	mu      sync.Mutex
	clients map[*client]struct{}
	last    []byte
	closed  bool

	upgrader ws.Upgrader
	mux      *http.ServeMux
	log      zerolog.Logger
}

var _ Sink = (*Hub)(nil)

// NewHub creates a Hub.
//
// Parameters:
//   - options: functional options to configure the hub
//
// Returns:
//   - *Hub: the hub
func NewHub(options ...HubOption) *Hub {
	h := &Hub{
		clients:  make(map[*client]struct{}),
		upgrader: ws.Upgrader{CheckOrigin: func(*http.Request) bool { return true }},
		mux:      http.NewServeMux(),
		log:      zerolog.Nop(),
	}
	for _, option := range options {
		option(h)
	}
	h.mux.HandleFunc("/", h.handleIndex)
	h.mux.HandleFunc("/ws", h.handleStream)
	return h
}

func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

// Publish broadcasts f to every connected page. Pages that cannot keep up are dropped.
func (h *Hub) Publish(f Frame) error {
	data, err := json.Marshal(f)
	if err != nil {
		return fmt.Errorf("marshaling overlay frame: %w", err)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return errors.New("overlay hub closed")
	}
	if bytes.Equal(data, h.last) {
		return nil
	}
	h.last = data
	for c := range h.clients {
		select {
		case c.sendCh <- data:
		default:
			h.log.Warn().Str("remote", c.conn.RemoteAddr().String()).Msg("overlay client too slow, dropping")
			delete(h.clients, c)
			c.close()
		}
	}
	return nil
}

// Clients returns the number of connected pages.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close disconnects every page and rejects further frames.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for c := range h.clients {
		c.close()
	}
	clear(h.clients)
}

// ListenAndServe serves the hub on addr until ctx is done.
//
// Parameters:
//   - ctx: cancelling it shuts the server down
//   - addr: the listen address, e.g. "127.0.0.1:8090"
//
// Returns:
//   - error: the server error, or nil after a clean shutdown
func (h *Hub) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	h.log.Info().Str("addr", addr).Msg("overlay host listening")

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("overlay server: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownWait)
		defer cancel()
		h.Close()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("overlay server shutdown: %w", err)
		}
		return nil
	}
}

func (h *Hub) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(hostPage)
}

func (h *Hub) handleStream(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("overlay upgrade failed")
		return
	}
	c := &client{
		conn:   conn,
		sendCh: make(chan []byte, clientSendSize),
		done:   make(chan struct{}),
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		c.close()
		return
	}
	h.clients[c] = struct{}{}
	if h.last != nil {
		c.sendCh <- h.last
	}
	n := len(h.clients)
	h.mu.Unlock()
	h.log.Info().Str("remote", conn.RemoteAddr().String()).Int("clients", n).Msg("overlay client connected")

	go h.writeLoop(c)
	h.readLoop(c)
}

// writeLoop drains the client's queue. Only one goroutine writes to a connection.
func (h *Hub) writeLoop(c *client) {
	for {
		select {
		case <-c.done:
			return
		case data := <-c.sendCh:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				h.remove(c)
				return
			}
			if err := c.conn.WriteMessage(ws.TextMessage, data); err != nil {
				h.log.Debug().Err(err).Msg("overlay write failed")
				h.remove(c)
				return
			}
		}
	}
}

// readLoop discards inbound messages and detects disconnects.
func (h *Hub) readLoop(c *client) {
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			h.remove(c)
			return
		}
	}
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	_, ok := h.clients[c]
	delete(h.clients, c)
	n := len(h.clients)
	h.mu.Unlock()
	c.close()
	if ok {
		h.log.Info().Int("clients", n).Msg("overlay client disconnected")
	}
}

// HubOption is a functional option for configuring a Hub.
type HubOption func(*Hub)

// WithHubLogger sets the logger.
func WithHubLogger(log zerolog.Logger) HubOption {
	return func(h *Hub) {
		h.log = log
	}
}
