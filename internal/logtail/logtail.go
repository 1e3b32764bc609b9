package logtail

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fsnotify/fsnotify"
)

const (
	maxLineBytes  = 1024 * 1024
	readChunkSize = 32 * 1024
)

// Read returns at most maxLines from the end of the file at path. A
// maxLines of zero or less returns every line. A trailing line without a
// newline counts as a line. A missing file yields no lines and no error.
func Read(path string, maxLines int) ([]string, error) {
	lines, partial, _, err := readTail(path, maxLines)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return withPartial(lines, partial, maxLines), nil
}

// readTail reads the complete lines of the file, keeping at most maxLines
// of them. A trailing segment without a newline comes back as partial and
// offset points at its first byte, so a follower re-reads it and sees the
// whole line once it is finished. Lines longer than maxLineBytes are passed
// through the same way Follow passes them.
func readTail(path string, maxLines int) ([]string, string, int64, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, "", 0, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	ring := &lineRing{max: maxLines}
	f := &follower{file: file, emit: ring.add}
	if err := f.drain(); err != nil {
		return nil, "", 0, err
	}
	return ring.lines, string(f.pending), f.offset - int64(len(f.pending)), nil
}

// withPartial appends a non-empty trailing segment to lines, keeping at
// most maxLines when maxLines is positive.
func withPartial(lines []string, partial string, maxLines int) []string {
	if partial == "" {
		return lines
	}
	lines = append(lines, trimCR(partial))
	if maxLines > 0 && len(lines) > maxLines {
		lines = lines[len(lines)-maxLines:]
	}
	return lines
}

// lineRing keeps the last max lines added; max <= 0 keeps all of them.
type lineRing struct {
	max   int
	lines []string
}

func (r *lineRing) add(line string) {
	r.lines = append(r.lines, line)
	if r.max > 0 && len(r.lines) > r.max {
		r.lines = r.lines[1:]
	}
}

func trimCR(s string) string {
	return strings.TrimSuffix(s, "\r")
}

// Follow watches path and calls emit for every complete line appended after
// offset. It returns nil when ctx is done or the file is removed or renamed.
// A file that shrinks below the current offset is read again from the start.
func Follow(ctx context.Context, path string, offset int64, emit func(string)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(path); err != nil {
		return fmt.Errorf("watch %s: %w", path, err)
	}

	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	f := &follower{file: file, offset: offset, emit: emit}
	// Lines written between the initial read and Add.
	if err := f.drain(); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			switch {
			case ev.Has(fsnotify.Remove), ev.Has(fsnotify.Rename):
				f.flush()
				return nil
			case ev.Has(fsnotify.Write):
				if err := f.drain(); err != nil {
					return err
				}
			case ev.Has(fsnotify.Chmod):
				// Unlinking a file we hold open only reports an attribute
				// change on Linux.
				if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
					f.flush()
					return nil
				}
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watch %s: %w", path, err)
		}
	}
}

// follower tracks the read position in a followed file. pending holds a
// trailing partial line until its newline arrives.
type follower struct {
	file    *os.File
	offset  int64
	pending []byte
	emit    func(string)
}

func (f *follower) drain() error {
	info, err := f.file.Stat()
	if err != nil {
		return fmt.Errorf("stat log: %w", err)
	}
	if info.Size() < f.offset {
		f.offset = 0
		f.pending = f.pending[:0]
	}
	if _, err := f.file.Seek(f.offset, io.SeekStart); err != nil {
		return fmt.Errorf("seek log: %w", err)
	}

	buf := make([]byte, readChunkSize)
	for {
		n, err := f.file.Read(buf)
		if n > 0 {
			f.offset += int64(n)
			f.consume(buf[:n])
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read log: %w", err)
		}
	}
}

func (f *follower) consume(chunk []byte) {
	f.pending = append(f.pending, chunk...)
	start := 0
	for {
		i := bytes.IndexByte(f.pending[start:], '\n')
		if i < 0 {
			break
		}
		f.emit(trimCR(string(f.pending[start : start+i])))
		start += i + 1
	}
	if len(f.pending)-start > maxLineBytes {
		// Oversized partial line; hand it over rather than grow forever.
		f.emit(string(f.pending[start:]))
		start = len(f.pending)
	}
	f.pending = append(f.pending[:0], f.pending[start:]...)
}

func (f *follower) flush() {
	if len(f.pending) > 0 {
		f.emit(trimCR(string(f.pending)))
		f.pending = f.pending[:0]
	}
}
