// Copyright 2025
// SPDX-License-Identifier: Apache-2.0

package progress

import "errors"

// Precondition errors returned by Tracker. Both indicate a bug in the
// driving loop rather than a recoverable runtime condition: the driver must
// surface them and abort, never swallow them.
var (
	// ErrNoMoreFiles is returned by Advance when every registered file has
	// already been started. The driver requested more transfers than it
	// registered.
	ErrNoMoreFiles = errors.New("advance past the last registered file")

	// ErrNoActiveFile is returned by RecordSample when no file is active,
	// i.e. the driver recorded bytes before the first Advance.
	ErrNoActiveFile = errors.New("sample recorded with no active file")
)
