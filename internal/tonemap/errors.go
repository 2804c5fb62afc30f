// SPDX-License-Identifier: MIT

package tonemap

import "errors"

var (
	// ErrNoHDRMetadata is returned when the view's surface carries no
	// static HDR metadata. There is nothing to tone-map; the caller
	// should present the view untouched.
	ErrNoHDRMetadata = errors.New("surface has no HDR metadata")

	// ErrNoBuffer is returned when the view has no attached buffer
	// resource to import.
	ErrNoBuffer = errors.New("view has no attached buffer")

	// ErrUnsupportedBuffer is returned for dma-bufs with orientation or
	// ordering flags set. Importing them would misrender; the caller
	// must fall back to another presentation path.
	ErrUnsupportedBuffer = errors.New("buffer has unsupported orientation flags")

	// ErrUnsupportedFormat is returned when the pixel format has no
	// accelerator mapping.
	ErrUnsupportedFormat = errors.New("pixel format not supported by accelerator")

	// ErrToneMapUnsupported is returned when the accelerator does not
	// advertise HDR10 tone-mapping on the current context.
	ErrToneMapUnsupported = errors.New("accelerator does not support HDR10 tone-mapping")
)
