// SPDX-License-Identifier: MIT

// Package scene carries the read-only slice of the compositor's scene
// graph this module consumes: a view, its surface, the surface's
// attached buffer and optional static HDR metadata. The compositor owns
// all of it; nothing here is mutated.
package scene

import "github.com/tkristof/hdrtone/internal/drm"

// MaxDmabufPlanes matches the cross-process buffer protocol's plane
// limit.
const MaxDmabufPlanes = 4

// Dmabuf orientation/ordering flags. A buffer with any of these set
// cannot be imported as-is and must be rejected rather than misrendered.
const (
	DmabufFlagYInvert     uint32 = 1 << 0
	DmabufFlagInterlaced  uint32 = 1 << 1
	DmabufFlagBottomFirst uint32 = 1 << 2
)

// DmabufAttributes is a zero-copy buffer descriptor set: cross-process
// GPU memory described by file descriptors, strides, offsets and an
// explicit layout modifier.
type DmabufAttributes struct {
	Width      uint32
	Height     uint32
	Format     drm.Format
	Flags      uint32
	PlaneCount int

	FDs       [MaxDmabufPlanes]int
	Strides   [MaxDmabufPlanes]uint32
	Offsets   [MaxDmabufPlanes]uint32
	Modifiers [MaxDmabufPlanes]drm.Modifier
}

// HDRStaticMetadata describes the mastering display and content light
// levels of an HDR10 surface. Chromaticity coordinates are in 0.00002
// units, luminance in candela per square metre.
type HDRStaticMetadata struct {
	PrimaryRedX   uint16
	PrimaryRedY   uint16
	PrimaryGreenX uint16
	PrimaryGreenY uint16
	PrimaryBlueX  uint16
	PrimaryBlueY  uint16

	WhitePointX uint16
	WhitePointY uint16

	MaxLuminance uint32
	MinLuminance uint32

	MaxCLL  uint16
	MaxFALL uint16
}

// Buffer is a surface's attached buffer resource. Dmabuf is set when the
// resource is backed by a zero-copy descriptor set; otherwise Native
// holds the opaque handle for the generic import path.
type Buffer struct {
	Dmabuf *DmabufAttributes
	Native uintptr
}

// Surface is the part of a compositor surface this module reads.
type Surface struct {
	Buffer      *Buffer
	HDRMetadata *HDRStaticMetadata
}

// View is a positioned instance of a surface in the scene graph.
type View struct {
	Surface *Surface
}
