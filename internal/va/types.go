// SPDX-License-Identifier: MIT

// Package va models the boundary to the hardware video-processing
// accelerator. It mirrors the accelerator ABI (object IDs, render-target
// formats, pixel fourccs, color standards, HDR metadata layouts) in pure
// Go so that everything above the boundary is testable without a GPU.
// The real driver connection lives behind the vaapi build tag; see
// display_vaapi.go and display_stub.go.
package va

import "fmt"

// Status is a raw accelerator status code. Zero is success; everything
// else is driver-defined and only useful for diagnostics.
type Status uint32

// StatusSuccess is the accelerator's all-clear status.
const StatusSuccess Status = 0

// StatusError wraps a non-success accelerator status with the call that
// produced it. The numeric code is preserved for log correlation with
// driver traces.
type StatusError struct {
	Call   string
	Status Status
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s failed with status %#x", e.Call, uint32(e.Status))
}

// RTFormat is a render-target family: the chroma-subsampling class the
// accelerator uses to size internal surfaces.
type RTFormat uint32

const (
	// RTFormatNone is the invalid sentinel. Callers must check for it
	// before creating surfaces.
	RTFormatNone   RTFormat = 0
	RTFormatYUV420 RTFormat = 0x00000001
	RTFormatYUV422 RTFormat = 0x00000002
	RTFormatYUV444 RTFormat = 0x00000004
)

// FourCC is the accelerator's native four-character pixel code.
type FourCC uint32

// MakeFourCC packs four characters little-endian, matching the
// accelerator header's VA_FOURCC macro.
func MakeFourCC(a, b, c, d byte) FourCC {
	return FourCC(uint32(a) | uint32(b)<<8 | uint32(c)<<16 | uint32(d)<<24)
}

var (
	// FourCCNone is the invalid sentinel.
	FourCCNone = FourCC(0)
	FourCCNV12 = MakeFourCC('N', 'V', '1', '2')
	FourCCYV12 = MakeFourCC('Y', 'V', '1', '2')
	FourCCI420 = MakeFourCC('I', '4', '2', '0')
	FourCCYUY2 = MakeFourCC('Y', 'U', 'Y', '2')
	FourCCUYVY = MakeFourCC('U', 'Y', 'V', 'Y')
	FourCCP010 = MakeFourCC('P', '0', '1', '0')
)

// Object IDs handed out by the accelerator. They are only meaningful to
// the Display that created them.
type (
	ConfigID  uint32
	ContextID uint32
	SurfaceID uint32
	BufferID  uint32
)

// InvalidID marks an absent accelerator object.
const InvalidID = 0xffffffff

// ColorStandard tags a surface's color space in pipeline parameters.
type ColorStandard uint32

// ColorStandardBT2020 is the wide-gamut standard HDR10 content is
// mastered in. Both pipeline passes run entirely in BT.2020.
const ColorStandardBT2020 ColorStandard = 12

// HDRMetadataType identifies an HDR metadata layout in capability
// queries and filter parameters.
type HDRMetadataType uint32

const (
	HDRMetadataNone  HDRMetadataType = 0
	HDRMetadataHDR10 HDRMetadataType = 1
)

// HDRCap is one entry of the accelerator's advertised tone-mapping
// capability set.
type HDRCap struct {
	MetadataType HDRMetadataType
	Flags        uint32
}

// Plane describes one plane of an imported external buffer: its backing
// dma-buf descriptor and its layout within that memory.
type Plane struct {
	FD     int
	Pitch  uint32
	Offset uint32
}

// ExternalBuffer describes GPU memory to be wrapped as a surface without
// a copy. Every plane carries its own descriptor; producers with a
// single dma-buf for all planes replicate it per plane.
type ExternalBuffer struct {
	PixelFormat FourCC
	Width       uint32
	Height      uint32
	Planes      []Plane
}

// HDR10Metadata is the accelerator-native static metadata layout. The
// primaries arrays are ordered green, blue, red.
type HDR10Metadata struct {
	DisplayPrimariesX [3]uint16
	DisplayPrimariesY [3]uint16
	WhitePointX       uint16
	WhitePointY       uint16

	MaxDisplayMasteringLuminance uint32
	MinDisplayMasteringLuminance uint32

	MaxContentLightLevel    uint16
	MaxPicAverageLightLevel uint16
}

// ToneMapFilter parameterizes the HDR-to-SDR tone-mapping filter.
type ToneMapFilter struct {
	Metadata HDR10Metadata
}

// Rectangle is a region of a surface in pixels.
type Rectangle struct {
	X      int16
	Y      int16
	Width  uint16
	Height uint16
}

// PipelineParams describes one processing pass: read SurfaceRegion of
// Surface, run Filters over it, write OutputRegion of the pass target
// (the surface given to BeginPicture). An empty Filters slice is a
// straight copy.
type PipelineParams struct {
	Surface              SurfaceID
	SurfaceRegion        Rectangle
	SurfaceColorStandard ColorStandard
	OutputRegion         Rectangle
	OutputColorStandard  ColorStandard
	Filters              []BufferID
}

// Display is an open connection to the accelerator. All calls are
// blocking round-trips to the driver; a Display is not safe for
// concurrent use.
type Display interface {
	// CreateConfig creates a video-processing configuration whose only
	// attribute is the render-target format.
	CreateConfig(rt RTFormat) (ConfigID, error)
	DestroyConfig(cfg ConfigID) error

	// CreateContext creates a processing context scoped to cfg. The
	// context is format-scoped, not size-scoped.
	CreateContext(cfg ConfigID) (ContextID, error)
	DestroyContext(ctx ContextID) error

	// CreateSurface allocates fresh GPU-resident storage.
	CreateSurface(rt RTFormat, width, height uint32, pixelFormat FourCC) (SurfaceID, error)
	// ImportSurface wraps existing GPU memory as a surface, no copy.
	ImportSurface(rt RTFormat, buf ExternalBuffer) (SurfaceID, error)
	DestroySurface(s SurfaceID) error

	// QueryToneMapCaps reports the metadata types the tone-mapping
	// filter supports on this context.
	QueryToneMapCaps(ctx ContextID) ([]HDRCap, error)

	CreateFilterBuffer(ctx ContextID, filter ToneMapFilter) (BufferID, error)
	CreatePipelineBuffer(ctx ContextID, params PipelineParams) (BufferID, error)
	DestroyBuffer(buf BufferID) error

	BeginPicture(ctx ContextID, target SurfaceID) error
	RenderPicture(ctx ContextID, bufs ...BufferID) error
	EndPicture(ctx ContextID) error

	// Terminate closes the driver connection. The Display is unusable
	// afterwards.
	Terminate() error
}
