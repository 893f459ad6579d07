// Copyright 2025
// SPDX-License-Identifier: Apache-2.0

package progress

import (
	"sort"
	"strings"

	"github.com/mattn/go-runewidth"
)

// MaxLineWidth caps the layout budget. Wider terminals would only stretch
// the progress bar to absurd lengths.
const MaxLineWidth = 80

// segment is one piece of a display line: either literal text or a
// width-deferred callback resolved after the fixed-width pieces are placed.
type segment struct {
	priority int
	text     string
	deferred func(width int) string
	minWidth int
}

func (s *segment) width() int {
	if s.deferred != nil {
		return s.minWidth
	}
	return runewidth.StringWidth(s.text)
}

// Line accumulates segments in addition order. Priority 0 segments always
// render; higher priorities are dropped first when the terminal is narrow.
type Line struct {
	segs []segment
}

// Text appends a literal segment at the given priority.
func (l *Line) Text(priority int, text string) {
	l.segs = append(l.segs, segment{priority: priority, text: text})
}

// Deferred appends a segment whose text depends on the width left over
// after all literal segments are placed. minWidth is what the segment
// claims during layout.
func (l *Line) Deferred(priority int, minWidth int, fn func(width int) string) {
	if minWidth < 1 {
		minWidth = 1
	}
	l.segs = append(l.segs, segment{priority: priority, deferred: fn, minWidth: minWidth})
}

// Render lays the line out against width and returns the text. Priority
// tiers are admitted in ascending order while the running total stays under
// the budget; the first tier that would overflow is excluded along with
// everything above it. The lowest tier always renders, so the result may
// exceed a pathologically small width but never fails.
func (l *Line) Render(width int) string {
	if width > MaxLineWidth {
		width = MaxLineWidth
	}

	tiers := make(map[int]int)
	for i := range l.segs {
		tiers[l.segs[i].priority] += l.segs[i].width()
	}
	pris := make([]int, 0, len(tiers))
	for p := range tiers {
		pris = append(pris, p)
	}
	sort.Ints(pris)

	watermark := 0
	running := 0
	for i, p := range pris {
		running += tiers[p]
		if i > 0 && running >= width {
			break
		}
		watermark = p
	}

	// Width left for deferred segments once every included literal is
	// accounted for.
	literal, deferredCount := 0, 0
	for i := range l.segs {
		s := &l.segs[i]
		if s.priority > watermark {
			continue
		}
		if s.deferred != nil {
			deferredCount++
		} else {
			literal += runewidth.StringWidth(s.text)
		}
	}

	var b strings.Builder
	for i := range l.segs {
		s := &l.segs[i]
		if s.priority > watermark {
			continue
		}
		if s.deferred != nil {
			w := (width - literal) / deferredCount
			if w < 1 {
				w = 1
			}
			b.WriteString(s.deferred(w))
			continue
		}
		b.WriteString(s.text)
	}
	return b.String()
}
