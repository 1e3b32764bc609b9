package transport

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/phuslu/log"

	"github.com/five82/tdulog/internal/logging"
	"github.com/five82/tdulog/internal/stream"
)

const (
	// DefaultPort is the port log emitters listen on.
	DefaultPort      = 5804
	defaultUserAgent = "tdulog/0.1"
	closeGrace       = time.Second
	readBufferSize   = 4096
)

// Ensure Dialer implements stream.Dialer at compile time.
var _ stream.Dialer = (*Dialer)(nil)

// Options configure a Dialer.
type Options struct {
	DefaultPort int
	// HandshakeTimeout bounds the opening handshake. Zero waits until the
	// network itself gives up.
	HandshakeTimeout time.Duration
	UserAgent        string
	Logger           *log.Logger
}

// Dialer opens websocket connections to log emitters.
type Dialer struct {
	ws          *websocket.Dialer
	defaultPort int
	userAgent   string
	logger      *log.Logger
}

// NewDialer builds a Dialer from opts.
func NewDialer(opts Options) *Dialer {
	port := opts.DefaultPort
	if port <= 0 {
		port = DefaultPort
	}
	ua := strings.TrimSpace(opts.UserAgent)
	if ua == "" {
		ua = defaultUserAgent
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	return &Dialer{
		ws: &websocket.Dialer{
			Proxy:            http.ProxyFromEnvironment,
			HandshakeTimeout: opts.HandshakeTimeout,
			ReadBufferSize:   readBufferSize,
		},
		defaultPort: port,
		userAgent:   ua,
		logger:      logger,
	}
}

// Dial starts connecting to address and returns immediately. Progress is
// reported through emit: opened, one message per frame, then closed. Any
// failure other than a normal close is reported as an error before closed.
func (d *Dialer) Dial(ctx context.Context, address string, emit func(stream.Event)) (stream.Transport, error) {
	target, err := ParseAddress(address, d.defaultPort)
	if err != nil {
		return nil, err
	}

	dialCtx, cancel := context.WithCancel(ctx)
	conn := &Conn{
		url:    target.String(),
		emit:   emit,
		cancel: cancel,
		logger: d.logger,
	}
	header := http.Header{}
	header.Set("User-Agent", d.userAgent)

	go conn.run(dialCtx, d.ws, header)
	return conn, nil
}

// Conn is one websocket transport.
type Conn struct {
	url    string
	emit   func(stream.Event)
	cancel context.CancelFunc
	logger *log.Logger

	mu      sync.Mutex
	ws      *websocket.Conn
	closing bool
}

// URL returns the websocket URL being dialed.
func (c *Conn) URL() string {
	return c.url
}

// Close requests teardown. Safe to call more than once and before the
// handshake has finished.
func (c *Conn) Close() error {
	c.mu.Lock()
	if c.closing {
		c.mu.Unlock()
		return nil
	}
	c.closing = true
	ws := c.ws
	c.mu.Unlock()

	c.cancel()
	if ws == nil {
		return nil
	}
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	if err := ws.WriteControl(websocket.CloseMessage, msg, time.Now().Add(closeGrace)); err != nil {
		c.logger.Debug().Str("url", c.url).Err(err).Msg("write close frame")
	}
	return ws.Close()
}

func (c *Conn) isClosing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closing
}

func (c *Conn) run(ctx context.Context, dialer *websocket.Dialer, header http.Header) {
	defer c.cancel()

	ws, _, err := dialer.DialContext(ctx, c.url, header)
	if err != nil {
		if !c.isClosing() {
			c.emit(stream.Event{Kind: stream.EventError, Err: fmt.Errorf("dial %s: %w", c.url, err)})
		}
		c.emit(stream.Event{Kind: stream.EventClosed})
		return
	}

	c.mu.Lock()
	if c.closing {
		c.mu.Unlock()
		_ = ws.Close()
		c.emit(stream.Event{Kind: stream.EventClosed})
		return
	}
	c.ws = ws
	c.mu.Unlock()

	c.logger.Debug().Str("url", c.url).Msg("websocket open")
	c.emit(stream.Event{Kind: stream.EventOpened})

	for {
		kind, data, err := ws.ReadMessage()
		if err != nil {
			if !c.isClosing() && !isNormalClose(err) {
				c.emit(stream.Event{Kind: stream.EventError, Err: fmt.Errorf("read %s: %w", c.url, err)})
			}
			_ = ws.Close()
			c.emit(stream.Event{Kind: stream.EventClosed})
			return
		}
		if kind != websocket.TextMessage && kind != websocket.BinaryMessage {
			continue
		}
		c.emit(stream.Event{Kind: stream.EventMessage, Data: strings.TrimRight(string(data), "\r\n")})
	}
}

func isNormalClose(err error) bool {
	return websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway)
}

// ParseAddress turns host, host:port or a ws/wss/http/https URL into a
// websocket URL, adding defaultPort when none is given.
func ParseAddress(address string, defaultPort int) (*url.URL, error) {
	trimmed := strings.TrimSpace(address)
	if trimmed == "" {
		return nil, fmt.Errorf("%w: empty", stream.ErrInvalidAddress)
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "ws://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("%w: parse %q: %v", stream.ErrInvalidAddress, address, err)
	}

	switch strings.ToLower(u.Scheme) {
	case "ws", "http":
		u.Scheme = "ws"
	case "wss", "https":
		u.Scheme = "wss"
	default:
		return nil, fmt.Errorf("%w: unsupported scheme %q", stream.ErrInvalidAddress, u.Scheme)
	}

	host := u.Hostname()
	if host == "" {
		return nil, fmt.Errorf("%w: missing host in %q", stream.ErrInvalidAddress, address)
	}
	if u.Port() == "" {
		if defaultPort <= 0 {
			defaultPort = DefaultPort
		}
		u.Host = net.JoinHostPort(host, strconv.Itoa(defaultPort))
	}
	u.Fragment = ""
	u.RawFragment = ""
	return u, nil
}
