// Copyright 2025
// SPDX-License-Identifier: Apache-2.0

// Package copier drives sequential file copies and feeds the progress
// tracker and renderer on a fixed cadence.
package copier

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"vcopy/pkg/progress"
)

// Stdin is the source name that reads from standard input.
const Stdin = "-"

const (
	// DefaultChunkSize is the read/write buffer size.
	DefaultChunkSize = 128 * 1024

	// DefaultInterval is the sampling and redraw cadence.
	DefaultInterval = 500 * time.Millisecond
)

// Options configures a copy run.
//
// All fields have defaults; the zero value copies silently.
type Options struct {
	// ChunkSize is the read/write buffer size in bytes.
	// If <= 0, defaults to DefaultChunkSize.
	ChunkSize int64

	// Interval is how often samples are recorded and the display redrawn.
	// If <= 0, defaults to DefaultInterval.
	Interval time.Duration

	// Display is where the progress display is written, normally stderr.
	// A nil Display disables progress output entirely.
	Display io.Writer

	// Width reports the usable terminal width for the display.
	// If nil, progress.DefaultTermWidth is used.
	Width func() int

	// Input is the reader backing the "-" source.
	// If nil, defaults to os.Stdin.
	Input io.Reader
}

// Copy copies each source to dest sequentially. With more than one source,
// dest must be an existing directory; a single source may also target a
// plain file path. Sizes are probed up front so the display can show an
// ETA; pipes and other unsizable streams leave the totals unknown.
func Copy(ctx context.Context, sources []string, dest string, opts Options) error {
	if len(sources) == 0 {
		return fmt.Errorf("no sources given")
	}
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = DefaultChunkSize
	}
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.Input == nil {
		opts.Input = os.Stdin
	}
	width := opts.Width
	if width == nil {
		width = func() int { return progress.DefaultTermWidth }
	}

	destInfo, err := os.Stat(dest)
	destIsDir := err == nil && destInfo.IsDir()
	if len(sources) > 1 && !destIsDir {
		return fmt.Errorf("destination %q must be an existing directory when copying multiple sources", dest)
	}

	tr := progress.NewTracker()
	for _, src := range sources {
		name, size, err := probe(src)
		if err != nil {
			return err
		}
		tr.RegisterFile(name, size)
	}

	var r *progress.Renderer
	var ticker *time.Ticker
	if opts.Display != nil {
		r = progress.NewRenderer(opts.Display)
		ticker = time.NewTicker(opts.Interval)
		defer ticker.Stop()
	}

	buf := make([]byte, opts.ChunkSize)
	for _, src := range sources {
		if err := tr.Advance(time.Now()); err != nil {
			// Registration and iteration walk the same list; ending up
			// here means the bookkeeping above is broken.
			return fmt.Errorf("progress tracking out of sync: %w", err)
		}
		if err := copyOne(ctx, src, dest, destIsDir, buf, tr, r, ticker, width, opts); err != nil {
			return err
		}
	}
	return nil
}

// copyOne transfers a single source, sampling accumulated bytes on the
// ticker cadence and once more with the final partial count at end of
// stream.
func copyOne(ctx context.Context, src, dest string, destIsDir bool, buf []byte,
	tr *progress.Tracker, r *progress.Renderer, ticker *time.Ticker,
	width func() int, opts Options) error {

	rd, mode, err := openSource(src, opts.Input)
	if err != nil {
		return err
	}
	defer closeSource(rd)

	dst := dest
	if destIsDir {
		dst = filepath.Join(dest, sourceName(src))
	}
	w, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("create %s: %w", dst, err)
	}

	var pending int64
	for {
		if err := ctx.Err(); err != nil {
			w.Close()
			return err
		}
		n, rerr := rd.Read(buf)
		if n > 0 {
			if _, werr := w.Write(buf[:n]); werr != nil {
				w.Close()
				return fmt.Errorf("write %s: %w", dst, werr)
			}
			pending += int64(n)
		}
		if ticker != nil {
			select {
			case now := <-ticker.C:
				if err := tr.RecordSample(pending, now); err != nil {
					w.Close()
					return fmt.Errorf("progress tracking out of sync: %w", err)
				}
				pending = 0
				if err := r.RenderTick(tr, width()); err != nil {
					w.Close()
					return err
				}
			default:
			}
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			w.Close()
			return fmt.Errorf("read %s: %w", src, rerr)
		}
	}

	// Final partial sample and redraw, so the display always lands on the
	// true end state.
	if err := tr.RecordSample(pending, time.Now()); err != nil {
		w.Close()
		return fmt.Errorf("progress tracking out of sync: %w", err)
	}
	if r != nil {
		if err := r.RenderTick(tr, width()); err != nil {
			w.Close()
			return err
		}
	}

	if err := w.Close(); err != nil {
		return fmt.Errorf("close %s: %w", dst, err)
	}
	if mode != 0 {
		if err := os.Chmod(dst, mode); err != nil {
			return fmt.Errorf("chmod %s: %w", dst, err)
		}
	}
	return nil
}

// probe resolves the display name and, where possible, the size of a
// source. Stdin and non-regular files report progress.SizeUnknown.
func probe(src string) (name string, size int64, err error) {
	if src == Stdin {
		return "stdin", progress.SizeUnknown, nil
	}
	fi, err := os.Stat(src)
	if err != nil {
		return "", 0, err
	}
	if fi.IsDir() {
		return "", 0, fmt.Errorf("%s is a directory", src)
	}
	size = progress.SizeUnknown
	if fi.Mode().IsRegular() {
		size = fi.Size()
	}
	return filepath.Base(src), size, nil
}

func sourceName(src string) string {
	if src == Stdin {
		return "stdin"
	}
	return filepath.Base(src)
}

// openSource returns the reader for a source plus the file mode to carry
// over to the destination (0 when not applicable).
func openSource(src string, stdin io.Reader) (io.Reader, os.FileMode, error) {
	if src == Stdin {
		return stdin, 0, nil
	}
	f, err := os.Open(src)
	if err != nil {
		return nil, 0, err
	}
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, 0, err
	}
	var mode os.FileMode
	if fi.Mode().IsRegular() {
		mode = fi.Mode().Perm()
	}
	return f, mode, nil
}

func closeSource(r io.Reader) {
	if c, ok := r.(io.Closer); ok {
		c.Close()
	}
}

// ParseSize parses a human-readable size string such as "128KiB", "1MB" or
// a bare byte count.
func ParseSize(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty size")
	}
	var n float64
	var unit string
	if _, err := fmt.Sscanf(strings.ToUpper(s), "%f%s", &n, &unit); err != nil {
		var nn int64
		if _, e2 := fmt.Sscanf(s, "%d", &nn); e2 == nil && nn >= 0 {
			return nn, nil
		}
		return 0, fmt.Errorf("invalid size %q", s)
	}
	if n < 0 {
		return 0, fmt.Errorf("negative size %q", s)
	}
	switch unit {
	case "B", "":
		return int64(n), nil
	case "KB":
		return int64(n * 1000), nil
	case "MB":
		return int64(n * 1000 * 1000), nil
	case "GB":
		return int64(n * 1000 * 1000 * 1000), nil
	case "KIB", "K":
		return int64(n * 1024), nil
	case "MIB", "M":
		return int64(n * 1024 * 1024), nil
	case "GIB", "G":
		return int64(n * 1024 * 1024 * 1024), nil
	default:
		return 0, fmt.Errorf("unknown unit %q", unit)
	}
}
