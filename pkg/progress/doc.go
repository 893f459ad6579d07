// Copyright 2025
// SPDX-License-Identifier: Apache-2.0

/*
Package progress tracks throughput of sequential byte-stream copies and
renders a live, width-adaptive progress display on a terminal.

The package has two halves:

  - Tracker owns all byte and time counters for a batch of transfers and
    derives instantaneous, lifetime-average, and exponentially smoothed
    throughput from periodic samples.
  - Renderer turns a Tracker snapshot into one or two terminal lines built
    from priority-ranked segments, dropping optional segments when the
    terminal is too narrow and redrawing in place with cursor movement.

# Quick Start

The driving copy loop registers every file up front, then advances through
them, feeding byte counts as chunks are written:

	tr := progress.NewTracker()
	tr.RegisterFile("archive.tar", 1<<30)
	tr.RegisterFile("notes.txt", 4096)

	r := progress.NewRenderer(os.Stderr)

	if err := tr.Advance(time.Now()); err != nil {
		log.Fatal(err) // driver bug: more advances than registered files
	}
	for eachChunk {
		// ... copy a chunk ...
		if err := tr.RecordSample(n, time.Now()); err != nil {
			log.Fatal(err)
		}
		r.RenderTick(tr, termWidth)
	}

# Clocks

The tracker never reads the wall clock. Every mutating call takes the
caller's notion of "now", which must be non-decreasing across calls. This
keeps the whole package deterministic and testable without real delays.

# Concurrency

Neither Tracker nor Renderer is safe for concurrent use. The driving loop
must serialize all calls; the package deliberately performs no locking so
that misuse shows up instead of being masked.

# Unknown sizes

Sources that cannot be sized up front (pipes, character devices) are
registered with SizeUnknown. A single unknown size makes the batch total
unknown for the rest of the run; the renderer then shows a spinner instead
of an ETA, percentage, and bar.
*/
package progress
