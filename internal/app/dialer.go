package app

import (
	"context"

	"github.com/phuslu/log"

	"github.com/five82/tdulog/internal/config"
	"github.com/five82/tdulog/internal/logtail"
	"github.com/five82/tdulog/internal/stream"
	"github.com/five82/tdulog/internal/transport"
)

// NewDialer routes file:// addresses to the log file source and everything
// else to the websocket transport.
func NewDialer(cfg config.Config, logger *log.Logger) stream.Dialer {
	ws := transport.NewDialer(transport.Options{
		DefaultPort:      cfg.Port,
		HandshakeTimeout: cfg.HandshakeTimeout,
		Logger:           logger,
	})
	file := &logtail.Dialer{
		Lines:  cfg.Replay.Lines,
		Follow: cfg.Replay.Follow,
		Logger: logger,
	}
	return stream.DialerFunc(func(ctx context.Context, address string, emit func(stream.Event)) (stream.Transport, error) {
		if logtail.IsFileAddress(address) {
			return file.Dial(ctx, address, emit)
		}
		return ws.Dial(ctx, address, emit)
	})
}
