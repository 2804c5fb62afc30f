//go:build !vaapi || !linux

// SPDX-License-Identifier: MIT

package va

// OpenDisplay is a stub when built without accelerator support.
func OpenDisplay(_ int) (Display, error) {
	return nil, ErrUnavailable
}
