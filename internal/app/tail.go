package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/phuslu/log"

	"github.com/five82/tdulog/internal/config"
	"github.com/five82/tdulog/internal/logging"
	"github.com/five82/tdulog/internal/logline"
	"github.com/five82/tdulog/internal/state"
	"github.com/five82/tdulog/internal/stream"
)

// ErrTransport is returned by Tail when the connection ended with an error.
var ErrTransport = errors.New("transport error")

// Headless mode keeps no history; the store is emptied this often.
const tailFlushEvery = 1024

// TailOptions configure a headless run.
type TailOptions struct {
	Config  config.Config
	Address string
	NoColor bool
	Stdout  io.Writer // nil means os.Stdout
	Stderr  io.Writer // nil means os.Stderr
	Logger  *log.Logger
}

// Tail connects to opts.Address and prints every record that passes the
// configured filter until the connection closes or ctx is cancelled. It
// returns nil on a clean close and an error wrapping ErrTransport when the
// transport failed.
func Tail(ctx context.Context, opts TailOptions) error {
	stdout := opts.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}
	stderr := opts.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	cfg := opts.Config
	store := state.NewStore(false)
	session := stream.NewSession(NewDialer(cfg, logger), store, stream.WithLogger(logger))

	if out := session.Connect(ctx, opts.Address); out.Notice != nil {
		return out.Notice
	}

	p := newPrinter(stdout, opts.NoColor)
	var failure error
	for {
		select {
		case <-ctx.Done():
			session.Disconnect()
			return nil
		case ev := <-session.Events():
			out := session.Handle(ev)
			if out.Stale {
				continue
			}
			if out.Notice != nil {
				failure = out.Notice
				fmt.Fprintf(stderr, "tdulog: %v\n", out.Notice)
			}
			if out.Record != nil && cfg.Filter.Match(*out.Record) {
				if err := p.print(*out.Record); err != nil {
					session.Disconnect()
					return fmt.Errorf("write output: %w", err)
				}
			}
			if store.Len() >= tailFlushEvery {
				store.Clear()
			}
			if ev.Kind == stream.EventClosed {
				if failure != nil {
					return fmt.Errorf("%w: %v", ErrTransport, failure)
				}
				return nil
			}
		}
	}
}

// printer writes records one per line, colouring the level label when the
// output supports it.
type printer struct {
	w         io.Writer
	plain     bool
	faint     lipgloss.Style
	subsystem lipgloss.Style
	levels    map[logline.Level]lipgloss.Style
}

func newPrinter(w io.Writer, noColor bool) *printer {
	r := lipgloss.NewRenderer(w)
	return &printer{
		w:         w,
		plain:     noColor,
		faint:     r.NewStyle().Faint(true),
		subsystem: r.NewStyle().Foreground(lipgloss.Color("6")),
		levels: map[logline.Level]lipgloss.Style{
			logline.LevelDebug:   r.NewStyle().Foreground(lipgloss.Color("2")),
			logline.LevelInfo:    r.NewStyle().Foreground(lipgloss.Color("4")),
			logline.LevelWarning: r.NewStyle().Foreground(lipgloss.Color("3")),
			logline.LevelError:   r.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		},
	}
}

func (p *printer) print(rec logline.Record) error {
	_, err := io.WriteString(p.w, p.format(rec)+"\n")
	return err
}

func (p *printer) format(rec logline.Record) string {
	if p.plain || !rec.Parsed {
		return rec.String()
	}
	label := "(" + rec.Label + ")"
	if style, ok := p.levels[rec.Level]; ok {
		label = style.Render(label)
	}
	return p.faint.Render(rec.Timestamp) + " " + label + " " +
		p.subsystem.Render("["+rec.Subsystem+"]") + " " + rec.Body
}
