// Copyright 2025
// SPDX-License-Identifier: Apache-2.0

package progress

import "time"

// SizeUnknown marks a stream whose length cannot be determined up front.
const SizeUnknown int64 = -1

// smoothingAlpha weights the previous smoothed estimate against the newest
// instantaneous sample. Close to 1 favors stability over responsiveness;
// tuned for ~0.5s sampling intervals.
const smoothingAlpha = 0.8

// fileRecord is the per-transfer bookkeeping unit. Records are owned
// exclusively by the Tracker and move pending -> current -> done.
type fileRecord struct {
	name      string
	size      int64 // SizeUnknown when the source cannot be sized
	timeStart time.Time
	bytesDone int64
}

// Tracker accumulates byte and time counters for a batch of sequential
// transfers and derives throughput estimates from periodic samples.
//
// A Tracker is NOT safe for concurrent use. The driving loop owns it and
// must serialize all calls; there is no internal locking.
type Tracker struct {
	pending []*fileRecord
	current *fileRecord
	done    []*fileRecord

	batchStart time.Time
	lastSample time.Time

	totalSize  int64 // SizeUnknown once any registered size is unknown
	totalBytes int64

	instant   float64
	average   float64
	smoothed  float64
	haveRates bool
}

// NewTracker returns an empty tracker with no files registered.
func NewTracker() *Tracker {
	return &Tracker{}
}

// RegisterFile appends a pending transfer. A negative size means the stream
// length is unknown; one unknown size makes the batch total unknown for the
// rest of the run. Must be called before the first Advance.
func (t *Tracker) RegisterFile(name string, size int64) {
	if size < 0 {
		size = SizeUnknown
		t.totalSize = SizeUnknown
	} else if t.totalSize != SizeUnknown {
		t.totalSize += size
	}
	t.pending = append(t.pending, &fileRecord{name: name, size: size})
}

// Advance retires the current file, if any, and activates the next pending
// one, stamping its start time with now. The first call also fixes the
// batch start time. Returns ErrNoMoreFiles when nothing is pending; the
// caller must treat that as a fatal synchronization bug.
func (t *Tracker) Advance(now time.Time) error {
	if len(t.pending) == 0 {
		return ErrNoMoreFiles
	}
	if t.current != nil {
		t.done = append(t.done, t.current)
	}
	t.current = t.pending[0]
	t.pending = t.pending[1:]
	t.current.timeStart = now
	if t.batchStart.IsZero() {
		t.batchStart = now
		t.lastSample = now
	}
	return nil
}

// RecordSample adds bytesNew to the active file's and the batch's counters
// and refreshes the rate estimates. Samples carrying zero new bytes or zero
// elapsed time update the byte totals and the sample clock but leave all
// three rates untouched, so an idle tick never corrupts the running
// estimate. Returns ErrNoActiveFile when called before Advance.
func (t *Tracker) RecordSample(bytesNew int64, now time.Time) error {
	if t.current == nil {
		return ErrNoActiveFile
	}
	t.current.bytesDone += bytesNew
	t.totalBytes += bytesNew

	elapsed := now.Sub(t.lastSample)
	totalElapsed := now.Sub(t.batchStart)
	t.lastSample = now

	if bytesNew <= 0 || elapsed <= 0 {
		return nil
	}
	t.instant = float64(bytesNew) / elapsed.Seconds()
	t.average = float64(t.totalBytes) / totalElapsed.Seconds()
	if !t.haveRates {
		// First valid sample: seed the smoothed estimate with the average.
		t.smoothed = t.average
		t.haveRates = true
	} else {
		t.smoothed = smoothingAlpha*t.smoothed + (1-smoothingAlpha)*t.instant
	}
	return nil
}

// Active reports whether a file is currently being transferred.
func (t *Tracker) Active() bool { return t.current != nil }

// FileCount returns the total number of registered files.
func (t *Tracker) FileCount() int {
	n := len(t.pending) + len(t.done)
	if t.current != nil {
		n++
	}
	return n
}

// FilesDone returns the number of completed files.
func (t *Tracker) FilesDone() int { return len(t.done) }

// FilesPending returns the number of files not yet started.
func (t *Tracker) FilesPending() int { return len(t.pending) }

// CurrentName returns the active file's name, or "" when none is active.
func (t *Tracker) CurrentName() string {
	if t.current == nil {
		return ""
	}
	return t.current.name
}

// CurrentBytes returns the bytes transferred for the active file.
func (t *Tracker) CurrentBytes() int64 {
	if t.current == nil {
		return 0
	}
	return t.current.bytesDone
}

// CurrentSize returns the active file's registered size. ok is false when
// no file is active or its size is unknown.
func (t *Tracker) CurrentSize() (size int64, ok bool) {
	if t.current == nil || t.current.size == SizeUnknown {
		return 0, false
	}
	return t.current.size, true
}

// CurrentElapsed returns the time between the active file's start and the
// most recent sample.
func (t *Tracker) CurrentElapsed() time.Duration {
	if t.current == nil {
		return 0
	}
	return t.lastSample.Sub(t.current.timeStart)
}

// TotalBytes returns the bytes transferred across the whole batch.
func (t *Tracker) TotalBytes() int64 { return t.totalBytes }

// TotalSize returns the sum of all registered sizes. ok is false when any
// registered size was unknown; once unknown, the total stays unknown.
func (t *Tracker) TotalSize() (size int64, ok bool) {
	if t.totalSize == SizeUnknown {
		return 0, false
	}
	return t.totalSize, true
}

// TotalElapsed returns the time between the batch start and the most recent
// sample.
func (t *Tracker) TotalElapsed() time.Duration {
	if t.batchStart.IsZero() {
		return 0
	}
	return t.lastSample.Sub(t.batchStart)
}

// InstantRate returns the throughput over the most recent sampling
// interval, in bytes per second. ok is false before the first sample that
// carried both new bytes and elapsed time.
func (t *Tracker) InstantRate() (rate float64, ok bool) {
	return t.instant, t.haveRates
}

// AverageRate returns the lifetime throughput of the batch.
func (t *Tracker) AverageRate() (rate float64, ok bool) {
	return t.average, t.haveRates
}

// SmoothedRate returns the exponentially smoothed throughput used for ETA
// estimates. Once set it never reverts to unknown.
func (t *Tracker) SmoothedRate() (rate float64, ok bool) {
	return t.smoothed, t.haveRates
}
