// SPDX-License-Identifier: MIT

package tonemap

import (
	"fmt"

	"github.com/tkristof/hdrtone/internal/drm"
	"github.com/tkristof/hdrtone/internal/gbm"
	"github.com/tkristof/hdrtone/internal/log"
	"github.com/tkristof/hdrtone/internal/va"
)

// pipelineFormat is the fixed intermediate pixel format of the
// tone-mapping pipeline: 10-bit planar, matching HDR10 content.
// Deriving it from the accelerator's supported-format list instead is a
// known design choice left open.
var pipelineFormat = drm.FormatP010

// surfaceFromBuffer wraps an imported buffer object as an accelerator
// surface bound to the buffer's memory without a copy. Plane
// descriptors are carried individually; buffers backed by one shared
// descriptor report it replicated per plane.
func (r *Renderer) surfaceFromBuffer(bo gbm.BufferObject) (va.SurfaceID, error) {
	rt := drm.RTFormat(pipelineFormat)
	fourcc := drm.VAFourCC(pipelineFormat)
	if rt == va.RTFormatNone || fourcc == va.FourCCNone {
		return va.InvalidID, ErrUnsupportedFormat
	}

	planes := bo.PlaneCount()
	fds, err := bo.PlaneFDs()
	if err != nil {
		return va.InvalidID, fmt.Errorf("buffer plane descriptors: %w", err)
	}
	if len(fds) < planes {
		return va.InvalidID, fmt.Errorf("buffer reports %d planes but %d descriptors", planes, len(fds))
	}

	ext := va.ExternalBuffer{
		PixelFormat: fourcc,
		Width:       bo.Width(),
		Height:      bo.Height(),
		Planes:      make([]va.Plane, planes),
	}
	for i := 0; i < planes; i++ {
		pitch, err := bo.Stride(i)
		if err != nil {
			return va.InvalidID, fmt.Errorf("plane %d stride: %w", i, err)
		}
		offset, err := bo.Offset(i)
		if err != nil {
			return va.InvalidID, fmt.Errorf("plane %d offset: %w", i, err)
		}
		ext.Planes[i] = va.Plane{FD: fds[i], Pitch: pitch, Offset: offset}
	}

	surface, err := r.display.ImportSurface(rt, ext)
	if err != nil {
		r.log.Warn().Err(err).
			Uint32(log.FieldWidth, ext.Width).
			Uint32(log.FieldHeight, ext.Height).
			Int(log.FieldPlanes, planes).
			Msg("wrap buffer as accelerator surface")
		return va.InvalidID, fmt.Errorf("import surface: %w", err)
	}
	return surface, nil
}
