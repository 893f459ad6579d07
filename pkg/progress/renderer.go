// Copyright 2025
// SPDX-License-Identifier: Apache-2.0

package progress

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// DefaultTermWidth is used when the terminal width cannot be determined.
const DefaultTermWidth = 80

// spinnerFrames cycle one frame per render while the stream length is
// unknown and no ETA can be shown.
var spinnerFrames = [...]string{"|", "/", "-", "\\"}

// Renderer writes a live progress display for a Tracker: one line for a
// single-file batch, a per-file line plus an aggregate line when copying
// several files. Each redraw moves the cursor back over the previous one,
// so the display updates in place.
//
// Like Tracker, a Renderer is NOT safe for concurrent use.
type Renderer struct {
	out       io.Writer
	prevLines int
	spin      int
}

// NewRenderer returns a renderer writing to out, or to stderr when out is
// nil. Progress belongs on the error stream so it never interleaves with
// piped data.
func NewRenderer(out io.Writer) *Renderer {
	if out == nil {
		out = os.Stderr
	}
	return &Renderer{out: out}
}

// RenderTick rebuilds the display from the tracker's current state and
// writes it, overdrawing the previous render. termWidth is the usable
// terminal width; non-positive values fall back to DefaultTermWidth.
func (r *Renderer) RenderTick(t *Tracker, termWidth int) error {
	if termWidth <= 0 {
		termWidth = DefaultTermWidth
	}
	frame := spinnerFrames[r.spin%len(spinnerFrames)]
	r.spin++

	multi := t.FileCount() > 1
	var lines []string
	if t.Active() {
		lines = append(lines, r.fileLine(t, multi, frame).Render(termWidth))
	}
	if multi {
		lines = append(lines, r.totalLine(t, frame).Render(termWidth))
	}

	var b strings.Builder
	b.WriteString(cursorUp(r.prevLines))
	for _, ln := range lines {
		b.WriteString(ln)
		b.WriteString(clearEOL)
		b.WriteByte('\n')
	}
	r.prevLines = len(lines)
	_, err := io.WriteString(r.out, b.String())
	return err
}

// fileLine builds the per-file display line. Single-file batches lead with
// the lifetime average and append the instantaneous rate as an optional
// extra; per-file lines in a batch lead with the instantaneous rate.
func (r *Renderer) fileLine(t *Tracker, multi bool, frame string) *Line {
	bytes := t.CurrentBytes()
	var rate float64
	var ok bool
	if multi {
		rate, ok = t.InstantRate()
	} else {
		rate, ok = t.AverageRate()
	}

	l := &Line{}
	l.Text(0, fmt.Sprintf("%s: %s %s [%s/s]",
		t.CurrentName(),
		FormatBytes(bytes, DefaultByteWidth),
		FormatDuration(t.CurrentElapsed()),
		rateString(rate, ok)))
	if !multi {
		inst, instOK := t.InstantRate()
		l.Text(1, fmt.Sprintf(" (%s/s)", rateString(inst, instOK)))
	}
	size, known := t.CurrentSize()
	r.tail(l, t, bytes, size, known, frame)
	return l
}

// totalLine builds the aggregate display line for multi-file batches.
func (r *Renderer) totalLine(t *Tracker, frame string) *Line {
	bytes := t.TotalBytes()
	rate, ok := t.AverageRate()

	l := &Line{}
	l.Text(0, fmt.Sprintf("total: %s %s [%s/s]",
		FormatBytes(bytes, DefaultByteWidth),
		FormatDuration(t.TotalElapsed()),
		rateString(rate, ok)))
	size, known := t.TotalSize()
	r.tail(l, t, bytes, size, known, frame)
	return l
}

// tail appends the optional segments shared by both lines: ETA or spinner,
// percentage, and the width-deferred bar.
func (r *Renderer) tail(l *Line, t *Tracker, bytes, size int64, known bool, frame string) {
	if !known {
		l.Text(2, " "+frame)
		return
	}
	smoothed, _ := t.SmoothedRate()
	if eta := ETA(size, bytes, smoothed); eta != "" {
		l.Text(2, " ETA "+eta)
	}
	l.Text(3, " "+formatPercent(bytes, size))
	frac := 0.0
	if size > 0 {
		frac = float64(bytes) / float64(size)
	}
	l.Text(4, " [")
	l.Deferred(4, 10, func(w int) string { return Bar(w, frac) })
	l.Text(4, "]")
}

// rateString renders a throughput figure, or a placeholder before the first
// valid sample.
func rateString(rate float64, ok bool) string {
	if !ok {
		return fmt.Sprintf("%*s", DefaultByteWidth, "???")
	}
	return FormatBytes(int64(rate), DefaultByteWidth)
}
