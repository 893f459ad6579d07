// Copyright 2025
// SPDX-License-Identifier: Apache-2.0

package progress

import (
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"
)

func TestLine_PriorityDropping(t *testing.T) {
	build := func() *Line {
		l := &Line{}
		l.Text(0, strings.Repeat("a", 20))
		l.Text(2, strings.Repeat("b", 15))
		l.Text(4, strings.Repeat("c", 30))
		return l
	}

	tests := []struct {
		name  string
		width int
		want  string
	}{
		// 20+15 = 35 does not stay under 30, so tier 2 and everything
		// above it are dropped.
		{"tight", 30, strings.Repeat("a", 20)},
		// 35 < 36 admits tier 2; 65 >= 36 still drops tier 4.
		{"middle", 36, strings.Repeat("a", 20) + strings.Repeat("b", 15)},
		// Everything fits.
		{"wide", 70, strings.Repeat("a", 20) + strings.Repeat("b", 15) + strings.Repeat("c", 30)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := build().Render(tt.width); got != tt.want {
				t.Errorf("Render(%d) = %q, want %q", tt.width, got, tt.want)
			}
		})
	}
}

func TestLine_MandatoryTierAlwaysRenders(t *testing.T) {
	l := &Line{}
	l.Text(0, strings.Repeat("x", 20))
	l.Text(1, "extra")

	// Narrower than even the mandatory content: must not panic and must
	// still emit the priority-0 text.
	got := l.Render(5)
	if got != strings.Repeat("x", 20) {
		t.Errorf("Render(5) = %q, want the priority-0 text", got)
	}
}

func TestLine_InsertionOrder(t *testing.T) {
	l := &Line{}
	l.Text(2, "late")
	l.Text(0, "first")
	l.Text(2, "later")

	// Segments concatenate in addition order, not priority order.
	if got := l.Render(80); got != "latefirstlater" {
		t.Errorf("Render = %q, want %q", got, "latefirstlater")
	}
}

func TestLine_DeferredFillsLeftover(t *testing.T) {
	l := &Line{}
	l.Text(0, strings.Repeat("h", 10))
	var gotWidth int
	l.Deferred(4, 10, func(w int) string {
		gotWidth = w
		return strings.Repeat("#", w)
	})
	l.Text(4, "]")

	out := l.Render(40)
	if gotWidth != 40-10-1 {
		t.Errorf("deferred width = %d, want %d", gotWidth, 40-10-1)
	}
	if w := runewidth.StringWidth(out); w != 40 {
		t.Errorf("rendered width = %d, want exactly 40", w)
	}
}

func TestLine_WidthCappedAt80(t *testing.T) {
	l := &Line{}
	l.Text(0, strings.Repeat("h", 10))
	var gotWidth int
	l.Deferred(4, 10, func(w int) string {
		gotWidth = w
		return strings.Repeat("#", w)
	})

	l.Render(500)
	if gotWidth != MaxLineWidth-10 {
		t.Errorf("deferred width = %d, want %d (budget capped at %d)",
			gotWidth, MaxLineWidth-10, MaxLineWidth)
	}
}

func TestLine_DeferredCountsMinWidthDuringLayout(t *testing.T) {
	l := &Line{}
	l.Text(0, strings.Repeat("a", 20))
	l.Deferred(4, 30, func(w int) string { return strings.Repeat("#", w) })

	// 20 + 30 = 50 does not stay under 40, so the bar tier is dropped.
	if got := l.Render(40); got != strings.Repeat("a", 20) {
		t.Errorf("Render(40) = %q, want bar dropped", got)
	}
}
