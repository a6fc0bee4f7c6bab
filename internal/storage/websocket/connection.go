package websocket

import (
	"fmt"
	"log/slog"
	"net/url"
	"sync"
	"time"

	"github.com/goccy/go-json"
	ws "github.com/gorilla/websocket"

	"github.com/zhstats/genrep/pkg/streaming"
)

const (
	outboxSize        = 1_000
	ackBufferSize     = 16
	maxRedials        = 10
	minBackoff        = time.Second
	maxBackoff        = 30 * time.Second
	writeWait         = 10 * time.Second
	defaultAckTimeout = 10 * time.Second
)

// connection keeps one socket open to the collector. Each socket gets its own
// reader and writer; whichever fails first triggers a single redial.
type connection struct {
	logger *slog.Logger
	target string // URL including the secret

	outbox chan []byte
	acks   chan streaming.AckMessage
	done   chan struct{}

	mu     sync.Mutex
	conn   *ws.Conn
	hello  []byte // sent first on every redialed socket
	closed bool

	// one request waits for its ack at a time
	callMu sync.Mutex
}

func newConnection(logger *slog.Logger) *connection {
	return &connection{
		logger: logger,
		outbox: make(chan []byte, outboxSize),
		acks:   make(chan streaming.AckMessage, ackBufferSize),
		done:   make(chan struct{}),
	}
}

// withSecret adds the secret query parameter to rawURL.
func withSecret(rawURL, secret string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid websocket URL: %w", err)
	}
	q := u.Query()
	q.Set("secret", secret)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// open dials the collector and starts serving the socket.
func (c *connection) open(rawURL, secret string) error {
	target, err := withSecret(rawURL, secret)
	if err != nil {
		return err
	}
	c.target = target

	conn, err := c.dial()
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()

	c.serve(conn)
	return nil
}

func (c *connection) dial() (*ws.Conn, error) {
	conn, _, err := ws.DefaultDialer.Dial(c.target, nil)
	if err != nil {
		return nil, fmt.Errorf("websocket dial failed: %w", err)
	}
	return conn, nil
}

// setHello sets the message replayed after a redial. Nil disables it.
func (c *connection) setHello(data []byte) {
	c.mu.Lock()
	c.hello = data
	c.mu.Unlock()
}

// serve runs the reader and writer of conn.
func (c *connection) serve(conn *ws.Conn) {
	stop := make(chan struct{})
	var once sync.Once
	lost := func(err error) {
		once.Do(func() {
			close(stop)
			select {
			case <-c.done:
				return
			default:
			}
			c.logger.Warn("WebSocket connection lost", "error", err)
			go c.redial(conn)
		})
	}
	go c.write(conn, stop, lost)
	go c.read(conn, lost)
}

func (c *connection) write(conn *ws.Conn, stop <-chan struct{}, lost func(error)) {
	for {
		select {
		case <-c.done:
			return
		case <-stop:
			return
		case data := <-c.outbox:
			if err := writeText(conn, data); err != nil {
				lost(err)
				return
			}
		}
	}
}

func writeText(conn *ws.Conn, data []byte) error {
	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return conn.WriteMessage(ws.TextMessage, data)
}

// read routes acks from the collector. Other messages are ignored.
func (c *connection) read(conn *ws.Conn, lost func(error)) {
	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			lost(err)
			return
		}

		var ack streaming.AckMessage
		if err := json.Unmarshal(message, &ack); err != nil || ack.Type != streaming.TypeAck {
			c.logger.Debug("Ignoring collector message", "raw", string(message))
			continue
		}
		select {
		case c.acks <- ack:
		default:
			c.logger.Debug("Ack buffer full, dropping", "for", ack.For)
		}
	}
}

func nextBackoff(d time.Duration) time.Duration {
	return min(d*2, maxBackoff)
}

// redial replaces the lost socket, retrying with exponential backoff.
func (c *connection) redial(lostConn *ws.Conn) {
	c.mu.Lock()
	if c.conn == lostConn {
		c.conn = nil
	}
	c.mu.Unlock()
	_ = lostConn.Close()

	backoff := minBackoff
	for attempt := 1; attempt <= maxRedials; attempt++ {
		select {
		case <-c.done:
			return
		case <-time.After(backoff):
		}

		conn, err := c.dial()
		if err != nil {
			c.logger.Warn("Redial failed", "attempt", attempt, "backoff", backoff, "error", err)
			backoff = nextBackoff(backoff)
			continue
		}

		c.mu.Lock()
		if c.closed {
			c.mu.Unlock()
			_ = conn.Close()
			return
		}
		hello := c.hello
		c.conn = conn
		c.mu.Unlock()

		if hello != nil {
			if err := writeText(conn, hello); err != nil {
				c.logger.Warn("Failed to resend batch start", "error", err)
				_ = conn.Close()
				backoff = nextBackoff(backoff)
				continue
			}
		}

		c.logger.Info("WebSocket reconnected", "attempt", attempt)
		c.serve(conn)
		return
	}

	c.logger.Error("Giving up on WebSocket collector", "attempts", maxRedials)
}

// send queues data for the writer. It reports false when the outbox is
// full and data was dropped.
func (c *connection) send(data []byte) bool {
	select {
	case c.outbox <- data:
		return true
	default:
		c.logger.Warn("WebSocket outbox full, dropping message")
		return false
	}
}

// request sends data and waits for the collector's ack of type ackFor.
// Acks for other types are discarded.
func (c *connection) request(data []byte, ackFor string, timeout time.Duration) error {
	c.callMu.Lock()
	defer c.callMu.Unlock()

	if !c.send(data) {
		return fmt.Errorf("send queue full, %q dropped", ackFor)
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	for {
		select {
		case ack := <-c.acks:
			if ack.For != ackFor {
				continue
			}
			if ack.Error != "" {
				return fmt.Errorf("server rejected %q: %s", ackFor, ack.Error)
			}
			return nil
		case <-timer.C:
			return fmt.Errorf("timeout waiting for ack of %q", ackFor)
		case <-c.done:
			return fmt.Errorf("connection closed while waiting for ack of %q", ackFor)
		}
	}
}

// close says goodbye to the collector and stops all goroutines.
func (c *connection) close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	close(c.done)
	conn := c.conn
	c.conn = nil
	c.mu.Unlock()

	if conn == nil {
		return nil
	}
	_ = conn.WriteControl(ws.CloseMessage,
		ws.FormatCloseMessage(ws.CloseNormalClosure, ""),
		time.Now().Add(writeWait))
	return conn.Close()
}
