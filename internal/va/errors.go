// SPDX-License-Identifier: MIT

package va

import "errors"

var (
	// ErrUnavailable is returned when the accelerator backend is not
	// compiled in (built without -tags=vaapi) or the driver connection
	// could not be opened.
	ErrUnavailable = errors.New("video-processing accelerator unavailable")

	// ErrNoDisplay is returned when the driver refuses to hand out a
	// display for the given device descriptor.
	ErrNoDisplay = errors.New("no accelerator display for device")
)
