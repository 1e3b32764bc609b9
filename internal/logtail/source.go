package logtail

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/phuslu/log"

	"github.com/five82/tdulog/internal/logging"
	"github.com/five82/tdulog/internal/stream"
)

// Scheme prefixes addresses served from a local file.
const Scheme = "file://"

// Ensure Dialer implements stream.Dialer at compile time.
var _ stream.Dialer = (*Dialer)(nil)

// IsFileAddress reports whether address names a local file.
func IsFileAddress(address string) bool {
	return strings.HasPrefix(strings.TrimSpace(address), Scheme)
}

// PathFromAddress strips the file:// prefix.
func PathFromAddress(address string) (string, error) {
	trimmed := strings.TrimSpace(address)
	if !strings.HasPrefix(trimmed, Scheme) {
		return "", fmt.Errorf("%w: %q is not a file address", stream.ErrInvalidAddress, address)
	}
	path := strings.TrimPrefix(trimmed, Scheme)
	if path == "" {
		return "", fmt.Errorf("%w: empty file path", stream.ErrInvalidAddress)
	}
	return path, nil
}

// Dialer replays a log file as if it were a live stream: opened, the last
// Lines lines, then either closed or, with Follow, every appended line until
// the file goes away or the transport is closed.
type Dialer struct {
	Lines  int
	Follow bool
	Logger *log.Logger
}

// Dial validates the file and starts the replay goroutine.
func (d *Dialer) Dial(ctx context.Context, address string, emit func(stream.Event)) (stream.Transport, error) {
	path, err := PathFromAddress(address)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", stream.ErrInvalidAddress, path)
	}

	logger := d.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	runCtx, cancel := context.WithCancel(ctx)
	src := &fileSource{path: path, cancel: cancel}
	go src.run(runCtx, d.Lines, d.Follow, emit, logger)
	return src, nil
}

type fileSource struct {
	path   string
	cancel context.CancelFunc

	mu     sync.Mutex
	closed bool
}

func (s *fileSource) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.cancel()
	return nil
}

func (s *fileSource) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *fileSource) run(ctx context.Context, lines int, follow bool, emit func(stream.Event), logger *log.Logger) {
	defer s.cancel()
	defer emit(stream.Event{Kind: stream.EventClosed})

	fail := func(err error) {
		if !s.isClosed() {
			emit(stream.Event{Kind: stream.EventError, Err: err})
		}
	}

	initial, partial, offset, err := readTail(s.path, lines)
	if err != nil {
		fail(err)
		return
	}
	if !follow {
		initial = withPartial(initial, partial, lines)
	}
	emit(stream.Event{Kind: stream.EventOpened})
	for _, line := range initial {
		if ctx.Err() != nil {
			return
		}
		emit(stream.Event{Kind: stream.EventMessage, Data: line})
	}
	logger.Debug().Str("path", s.path).Int("lines", len(initial)).Msg("replayed file")

	if !follow {
		return
	}
	err = Follow(ctx, s.path, offset, func(line string) {
		emit(stream.Event{Kind: stream.EventMessage, Data: line})
	})
	if err != nil {
		fail(err)
	}
}
