// Copyright 2025
// SPDX-License-Identifier: Apache-2.0

package progress

import (
	"fmt"
	"strconv"
	"time"
)

// byteUnits are the binary-prefixed unit symbols, divisor 1024 per step.
const byteUnits = "BKMGTPEZY"

// DefaultByteWidth is the character budget byte figures are fit into.
const DefaultByteWidth = 5

// FormatBytes renders n with a binary prefix, right-aligned to width. The
// largest unit keeping the scaled value under 1024 is chosen, then the
// first of {2, 1, 0} decimal-place forms that stays under the budget.
// Plain bytes are always integral, and a value sitting exactly on its unit
// boundary renders with zero decimals.
func FormatBytes(n int64, width int) string {
	if n < 0 {
		n = 0
	}
	scale := int64(1)
	exp := 0
	for exp < len(byteUnits)-1 && n/scale >= 1024 {
		scale *= 1024
		exp++
	}
	if exp == 0 {
		return fmt.Sprintf("%*d%c", width-1, n, byteUnits[0])
	}
	unit := byteUnits[exp]
	if n == scale {
		return fmt.Sprintf("%*s", width, "1"+string(unit))
	}
	v := float64(n) / float64(scale)
	s := strconv.FormatFloat(v, 'f', 0, 64) + string(unit)
	for _, prec := range []int{2, 1, 0} {
		c := strconv.FormatFloat(v, 'f', prec, 64) + string(unit)
		if len(c) < width {
			s = c
			break
		}
	}
	return fmt.Sprintf("%*s", width, s)
}

// FormatDuration renders d as HH:MM:SS, prefixed with a day count when the
// duration spans at least one day.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int64(d / time.Second)
	days := secs / 86400
	h := secs % 86400 / 3600
	m := secs % 3600 / 60
	s := secs % 60
	if days > 0 {
		return fmt.Sprintf("%d days, %02d:%02d:%02d", days, h, m, s)
	}
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// ETA estimates the remaining transfer time. A non-positive total means the
// stream length is unknown and yields an empty string. Zero remaining bytes
// yield "00:00:00" regardless of rate; a zero or unknown rate yields
// "??:??:??".
func ETA(total, done int64, rate float64) string {
	if total <= 0 {
		return ""
	}
	remaining := total - done
	if remaining <= 0 {
		return "00:00:00"
	}
	if rate <= 0 {
		return "??:??:??"
	}
	return FormatDuration(time.Duration(float64(remaining) / rate * float64(time.Second)))
}

// formatPercent renders done/total as a fixed-width percentage, clamped to
// [0,100].
func formatPercent(done, total int64) string {
	var p float64
	if total > 0 {
		p = float64(done) / float64(total) * 100
	}
	if p < 0 {
		p = 0
	}
	if p > 100 {
		p = 100
	}
	return fmt.Sprintf("%3.0f%%", p)
}
