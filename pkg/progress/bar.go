// Copyright 2025
// SPDX-License-Identifier: Apache-2.0

package progress

import "strings"

// barRamp runs from the background glyph through intermediate shades to the
// full-fill glyph. The intermediates give the bar sub-character resolution.
const barRamp = "░▒▓█"

// Bar renders a progress bar of exactly width glyphs for a fraction in
// [0,1]. Values outside the range are clamped.
func Bar(width int, frac float64) string {
	return barWithRamp(width, []rune(barRamp), frac)
}

func barWithRamp(width int, ramp []rune, frac float64) string {
	if width <= 0 || len(ramp) == 0 {
		return ""
	}
	if frac < 0 {
		frac = 0
	}
	if frac > 1 {
		frac = 1
	}

	n := len(ramp)
	fill := int(float64(width) * frac)
	if fill > width {
		fill = width
	}

	var b strings.Builder
	for i := 0; i < fill; i++ {
		b.WriteRune(ramp[n-1])
	}
	if fill < width {
		// One interpolated glyph represents the fractional remainder at
		// sub-character resolution.
		steps := (n - 2) * width
		if steps <= 0 {
			steps = width
		}
		idx := int(float64(steps)*frac) % n
		b.WriteRune(ramp[idx])
		for i := fill + 1; i < width; i++ {
			b.WriteRune(ramp[0])
		}
	}
	return b.String()
}
