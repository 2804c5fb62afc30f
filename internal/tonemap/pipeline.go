// SPDX-License-Identifier: MIT

package tonemap

import (
	"errors"
	"fmt"
	"time"

	"github.com/tkristof/hdrtone/internal/drm"
	"github.com/tkristof/hdrtone/internal/log"
	"github.com/tkristof/hdrtone/internal/metrics"
	"github.com/tkristof/hdrtone/internal/scene"
	"github.com/tkristof/hdrtone/internal/va"
)

// ToneMap converts the view's HDR10 content to a display-ready surface
// in place: pass 1 tone-maps the source into a freshly allocated
// destination surface, pass 2 copies the result back into the source
// surface. The view's buffer and all accelerator-side surfaces and
// parameter buffers are released before returning, on every path.
func (r *Renderer) ToneMap(view *scene.View) error {
	start := time.Now()
	err := r.toneMap(view)
	metrics.ToneMapDuration.Observe(time.Since(start).Seconds())
	metrics.ToneMapOps.WithLabelValues(outcome(err)).Inc()
	return err
}

func outcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeOK
	case errors.Is(err, ErrNoHDRMetadata),
		errors.Is(err, ErrNoBuffer),
		errors.Is(err, ErrUnsupportedBuffer),
		errors.Is(err, ErrUnsupportedFormat),
		errors.Is(err, ErrToneMapUnsupported):
		return metrics.OutcomeUnsupported
	default:
		var statusErr *va.StatusError
		if errors.As(err, &statusErr) {
			return metrics.OutcomeAccelError
		}
		return metrics.OutcomeImportError
	}
}

func (r *Renderer) toneMap(view *scene.View) error {
	if view == nil || view.Surface == nil {
		return ErrNoBuffer
	}
	surface := view.Surface
	if surface.HDRMetadata == nil {
		return ErrNoHDRMetadata
	}

	rt := drm.RTFormat(pipelineFormat)
	fourcc := drm.VAFourCC(pipelineFormat)
	if rt == va.RTFormatNone || fourcc == va.FourCCNone {
		return ErrUnsupportedFormat
	}

	if err := r.ensureContext(rt); err != nil {
		return err
	}

	caps, err := r.display.QueryToneMapCaps(r.context)
	if err != nil {
		return fmt.Errorf("query tone-mapping capabilities: %w", err)
	}
	if !supportsHDR10(caps) {
		r.log.Debug().Int("caps", len(caps)).Msg("no HDR10 tone-mapping capability advertised")
		return ErrToneMapUnsupported
	}

	bo, err := r.importBuffer(view)
	if err != nil {
		return err
	}
	defer bo.Destroy()

	width, height := bo.Width(), bo.Height()

	src, err := r.surfaceFromBuffer(bo)
	if err != nil {
		return err
	}
	metrics.SurfacesInFlight.Inc()
	defer r.releaseSurface(src)

	dst, err := r.display.CreateSurface(rt, width, height, fourcc)
	if err != nil {
		return fmt.Errorf("create intermediate surface: %w", err)
	}
	metrics.SurfacesInFlight.Inc()
	defer r.releaseSurface(dst)

	filter, err := r.display.CreateFilterBuffer(r.context, va.ToneMapFilter{
		Metadata: translateMetadata(surface.HDRMetadata),
	})
	if err != nil {
		return fmt.Errorf("create tone-mapping filter: %w", err)
	}
	defer r.releaseBuffer(filter)

	region := va.Rectangle{Width: uint16(width), Height: uint16(height)}

	// Pass 1: tone-map the source into the destination surface.
	pass1, err := r.display.CreatePipelineBuffer(r.context, va.PipelineParams{
		Surface:              src,
		SurfaceRegion:        region,
		SurfaceColorStandard: va.ColorStandardBT2020,
		OutputRegion:         region,
		OutputColorStandard:  va.ColorStandardBT2020,
		Filters:              []va.BufferID{filter},
	})
	if err != nil {
		return fmt.Errorf("create tone-map pipeline parameters: %w", err)
	}
	err = r.renderPass(dst, pass1)
	r.releaseBuffer(pass1)
	if err != nil {
		return fmt.Errorf("tone-map pass: %w", err)
	}

	// Pass 2: copy the tone-mapped result back into the source-shaped
	// surface, no filters.
	pass2, err := r.display.CreatePipelineBuffer(r.context, va.PipelineParams{
		Surface:              dst,
		SurfaceRegion:        region,
		SurfaceColorStandard: va.ColorStandardBT2020,
		OutputRegion:         region,
		OutputColorStandard:  va.ColorStandardBT2020,
	})
	if err != nil {
		return fmt.Errorf("create copy-back pipeline parameters: %w", err)
	}
	err = r.renderPass(src, pass2)
	r.releaseBuffer(pass2)
	if err != nil {
		return fmt.Errorf("copy-back pass: %w", err)
	}

	r.log.Debug().
		Uint32(log.FieldWidth, width).
		Uint32(log.FieldHeight, height).
		Msg("tone-mapped view")
	return nil
}

// renderPass issues one begin/render/end sequence against target. A
// successful begin is always paired with an end, even when the render
// call fails in between.
func (r *Renderer) renderPass(target va.SurfaceID, params va.BufferID) error {
	if err := r.display.BeginPicture(r.context, target); err != nil {
		return err
	}
	renderErr := r.display.RenderPicture(r.context, params)
	endErr := r.display.EndPicture(r.context)
	if renderErr != nil {
		return renderErr
	}
	return endErr
}

func (r *Renderer) releaseSurface(s va.SurfaceID) {
	if err := r.display.DestroySurface(s); err != nil {
		r.log.Warn().Err(err).Uint32(log.FieldSurface, uint32(s)).Msg("destroy surface")
	}
	metrics.SurfacesInFlight.Dec()
}

func (r *Renderer) releaseBuffer(b va.BufferID) {
	if err := r.display.DestroyBuffer(b); err != nil {
		r.log.Warn().Err(err).Msg("destroy parameter buffer")
	}
}

func supportsHDR10(caps []va.HDRCap) bool {
	for _, c := range caps {
		if c.MetadataType == va.HDRMetadataHDR10 {
			return true
		}
	}
	return false
}

// translateMetadata converts compositor-native static HDR metadata into
// the accelerator layout field for field. The accelerator orders display
// primaries green, blue, red.
func translateMetadata(m *scene.HDRStaticMetadata) va.HDR10Metadata {
	return va.HDR10Metadata{
		DisplayPrimariesX: [3]uint16{m.PrimaryGreenX, m.PrimaryBlueX, m.PrimaryRedX},
		DisplayPrimariesY: [3]uint16{m.PrimaryGreenY, m.PrimaryBlueY, m.PrimaryRedY},
		WhitePointX:       m.WhitePointX,
		WhitePointY:       m.WhitePointY,

		MaxDisplayMasteringLuminance: m.MaxLuminance,
		MinDisplayMasteringLuminance: m.MinLuminance,

		MaxContentLightLevel:    m.MaxCLL,
		MaxPicAverageLightLevel: m.MaxFALL,
	}
}
