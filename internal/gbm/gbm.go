// SPDX-License-Identifier: MIT

// Package gbm models the GPU buffer-management allocator boundary. The
// pipeline imports compositor buffers through it and reads their plane
// layout back; it never allocates scanout memory of its own. The libgbm
// backend lives behind the vaapi build tag, mirroring the accelerator
// backend split.
package gbm

import (
	"errors"

	"github.com/tkristof/hdrtone/internal/drm"
)

var (
	// ErrUnavailable is returned when the allocator backend is not
	// compiled in.
	ErrUnavailable = errors.New("buffer allocator unavailable")

	// ErrPlaneRange is returned for plane indexes outside the buffer's
	// plane count.
	ErrPlaneRange = errors.New("plane index out of range")
)

// ImportData is the legacy single-descriptor import: one plane, no
// modifier, zero offset.
type ImportData struct {
	Width  uint32
	Height uint32
	Format drm.Format
	Stride uint32
	FD     int
}

// ImportModifierData is the full import path: per-plane descriptors,
// strides and offsets plus an explicit layout modifier.
type ImportModifierData struct {
	Width    uint32
	Height   uint32
	Format   drm.Format
	Modifier drm.Modifier

	FDs     []int
	Strides []uint32
	Offsets []uint32
}

// BufferObject is an imported GPU buffer. It is exclusively owned by the
// importing call and must be destroyed before that call returns.
type BufferObject interface {
	Width() uint32
	Height() uint32
	PlaneCount() int
	Stride(plane int) (uint32, error)
	Offset(plane int) (uint32, error)

	// PlaneFDs returns one backing descriptor per plane. The
	// descriptors are owned by the buffer object and stay valid until
	// Destroy; callers must not close them. Buffers whose memory is a
	// single descriptor report it replicated across all planes.
	PlaneFDs() ([]int, error)

	Destroy()
}

// Device is an open allocator on a GPU render node.
type Device interface {
	ImportDmabuf(data ImportData) (BufferObject, error)
	ImportDmabufModifier(data ImportModifierData) (BufferObject, error)

	// ImportNative imports an opaque native buffer handle through the
	// allocator's generic graphics-buffer path.
	ImportNative(handle uintptr) (BufferObject, error)
}
