//go:build !vaapi || !linux

// SPDX-License-Identifier: MIT

package gbm

// OpenDevice is a stub when built without allocator support.
func OpenDevice(_ int) (Device, error) {
	return nil, ErrUnavailable
}
