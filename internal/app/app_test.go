package app

import (
	"bytes"
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/tdulog/internal/config"
	"github.com/five82/tdulog/internal/filter"
	"github.com/five82/tdulog/internal/logline"
	"github.com/five82/tdulog/internal/prefs"
	"github.com/five82/tdulog/internal/stream"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestResolve_LayersFlagsAndQuery(t *testing.T) {
	path := writeFile(t, "config.toml", `
autoscroll = true

[filter]
level = "info"
subsystems = ["Drive"]
search = "motor"

[replay]
lines = 50
`)
	lines := 10
	cfg, err := Resolve(path, Overrides{
		Level:        "warning",
		Subsystems:   "Net, Vision",
		NoAutoscroll: true,
		Passthrough:  "always",
		Lines:        &lines,
		Query:        "?loglevel=error&searchFilter=stall",
	})
	require.NoError(t, err)

	assert.Equal(t, logline.LevelError, cfg.Filter.Level)
	assert.Equal(t, []string{"Net", "Vision"}, cfg.Filter.Subsystems)
	assert.Equal(t, "stall", cfg.Filter.Search)
	assert.Equal(t, filter.PassthroughAlways, cfg.Filter.Passthrough)
	assert.False(t, cfg.Autoscroll)
	assert.Equal(t, 10, cfg.Replay.Lines)
}

func TestResolve_EmptyOverridesKeepConfig(t *testing.T) {
	path := writeFile(t, "config.yaml", "filter:\n  level: warning\nreplay:\n  lines: 7\n")
	cfg, err := Resolve(path, Overrides{})
	require.NoError(t, err)

	assert.Equal(t, logline.LevelWarning, cfg.Filter.Level)
	assert.Equal(t, 7, cfg.Replay.Lines)
	assert.True(t, cfg.Autoscroll)
}

func TestResolve_RejectsBadValues(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "none.toml")
	negative := -1
	tests := []struct {
		name string
		o    Overrides
		want string
	}{
		{"level", Overrides{Level: "loud"}, "--level"},
		{"passthrough", Overrides{Passthrough: "sometimes"}, "--passthrough"},
		{"query level", Overrides{Query: "loglevel=loud"}, "--query"},
		{"lines", Overrides{Lines: &negative}, "--lines"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Resolve(missing, tt.o)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestPickAddress(t *testing.T) {
	cfg := config.Default()

	addr, explicit := pickAddress(" robot:5805 ", prefs.Prefs{Address: "old"}, cfg)
	assert.Equal(t, "robot:5805", addr)
	assert.True(t, explicit)

	addr, explicit = pickAddress("", prefs.Prefs{Address: "old"}, cfg)
	assert.Equal(t, "old", addr)
	assert.False(t, explicit)

	addr, explicit = pickAddress("", prefs.Prefs{}, cfg)
	assert.Equal(t, cfg.Address, addr)
	assert.False(t, explicit)
}

func TestTail_ReplaysFileThroughFilter(t *testing.T) {
	path := writeFile(t, "robot.log", strings.Join([]string{
		"1.0 (Debug) [Net] ping",
		"2.0 (Info) [Drive] moving",
		"not structured",
		"3.0 (Error) [Drive] stalled",
	}, "\n")+"\n")

	cfg := config.Default()
	cfg.Filter.Level = logline.LevelInfo

	var stdout, stderr bytes.Buffer
	err := Tail(context.Background(), TailOptions{
		Config:  cfg,
		Address: "file://" + path,
		NoColor: true,
		Stdout:  &stdout,
		Stderr:  &stderr,
	})
	require.NoError(t, err)

	assert.Equal(t, "2.0 (Info) [Drive] moving\n3.0 (Error) [Drive] stalled\n", stdout.String())
	assert.Empty(t, stderr.String())
}

func TestTail_ReplayHonoursLineLimit(t *testing.T) {
	path := writeFile(t, "robot.log", "1 (Info) [A] one\n2 (Info) [A] two\n3 (Info) [A] three\n")

	cfg := config.Default()
	cfg.Replay.Lines = 1

	var stdout bytes.Buffer
	err := Tail(context.Background(), TailOptions{Config: cfg, Address: "file://" + path, NoColor: true, Stdout: &stdout})
	require.NoError(t, err)
	assert.Equal(t, "3 (Info) [A] three\n", stdout.String())
}

func TestTail_Websocket(t *testing.T) {
	upgrader := websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		_ = conn.WriteMessage(websocket.TextMessage, []byte("1 (Warning) [Drive] hot"))
		_ = conn.WriteMessage(websocket.TextMessage, []byte("2 (Info) [Net] ok"))
		_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		_, _, _ = conn.ReadMessage()
	}))
	defer server.Close()

	cfg := config.Default()
	cfg.Filter.Subsystems = []string{"Drive"}

	var stdout bytes.Buffer
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := Tail(ctx, TailOptions{
		Config:  cfg,
		Address: "ws" + strings.TrimPrefix(server.URL, "http"),
		Stdout:  &stdout,
	})
	require.NoError(t, err)
	assert.Equal(t, "1 (Warning) [Drive] hot\n", stdout.String())
}

func TestTail_TransportErrorIsReported(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	var stderr bytes.Buffer
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err = Tail(ctx, TailOptions{Config: config.Default(), Address: addr, Stdout: &bytes.Buffer{}, Stderr: &stderr})

	require.ErrorIs(t, err, ErrTransport)
	assert.True(t, strings.HasPrefix(stderr.String(), "tdulog: "), stderr.String())
}

func TestTail_BadAddress(t *testing.T) {
	err := Tail(context.Background(), TailOptions{Config: config.Default(), Address: "ws://[::1"})
	require.ErrorIs(t, err, stream.ErrInvalidAddress)

	err = Tail(context.Background(), TailOptions{Config: config.Default(), Address: "file://" + filepath.Join(t.TempDir(), "missing.log")})
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestTail_StopsOnCancel(t *testing.T) {
	path := writeFile(t, "robot.log", "1 (Info) [A] one\n")
	cfg := config.Default()
	cfg.Replay.Follow = true

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	var stdout bytes.Buffer
	go func() {
		done <- Tail(ctx, TailOptions{Config: cfg, Address: "file://" + path, NoColor: true, Stdout: &stdout})
	}()

	time.Sleep(100 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Tail did not return after cancel")
	}
}

func TestPrinter_PlainAndPassthrough(t *testing.T) {
	var buf bytes.Buffer
	p := newPrinter(&buf, false)

	require.NoError(t, p.print(logline.Parse("raw line")))
	require.NoError(t, p.print(logline.Parse("1.5 (Info) [Net] up")))

	// A bytes.Buffer is not a terminal, so the renderer emits no colour.
	assert.Equal(t, "raw line\n1.5 (Info) [Net] up\n", buf.String())
}
