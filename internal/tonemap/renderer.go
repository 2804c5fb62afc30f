// SPDX-License-Identifier: MIT

// Package tonemap drives the hardware HDR-to-SDR tone-mapping pipeline:
// it imports a view's buffer through the allocator, wraps it as an
// accelerator surface without a copy, and runs the two-pass
// tone-map-and-copy-back sequence against a lazily maintained
// processing context.
//
// A Renderer is single-threaded. Every accelerator call is a blocking
// round-trip to the driver and the context/config pair is unsynchronized
// session state; callers must serialize all operations on one Renderer.
package tonemap

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tkristof/hdrtone/internal/drm"
	"github.com/tkristof/hdrtone/internal/gbm"
	"github.com/tkristof/hdrtone/internal/log"
	"github.com/tkristof/hdrtone/internal/va"
)

// Renderer owns the accelerator session: the display connection, the
// processing context/config pair and the render-target format they were
// created for. The allocator is borrowed from the compositor and never
// closed here.
type Renderer struct {
	display va.Display
	alloc   gbm.Device
	log     zerolog.Logger

	config   va.ConfigID
	context  va.ContextID
	rtFormat va.RTFormat
}

// New wraps an already-open display and allocator. Used directly by
// tests; production callers go through Open.
func New(display va.Display, alloc gbm.Device, logger zerolog.Logger) (*Renderer, error) {
	if display == nil {
		return nil, errors.New("nil accelerator display")
	}
	if alloc == nil {
		return nil, errors.New("nil buffer allocator")
	}
	return &Renderer{
		display:  display,
		alloc:    alloc,
		log:      logger,
		config:   va.InvalidID,
		context:  va.InvalidID,
		rtFormat: va.RTFormatNone,
	}, nil
}

// Open opens a hardware video-processing connection on the given GPU
// render-node descriptor and associates it with an existing allocator.
// The descriptor stays owned by the caller.
func Open(gpuFD int, alloc gbm.Device) (*Renderer, error) {
	display, err := va.OpenDisplay(gpuFD)
	if err != nil {
		return nil, fmt.Errorf("open accelerator display: %w", err)
	}
	return New(display, alloc, log.WithComponent("tonemap"))
}

// Probe ensures a processing context for the pipeline's fixed format
// and reports the accelerator's advertised tone-mapping capabilities.
func (r *Renderer) Probe() ([]va.HDRCap, error) {
	rt := drm.RTFormat(pipelineFormat)
	if rt == va.RTFormatNone {
		return nil, ErrUnsupportedFormat
	}
	if err := r.ensureContext(rt); err != nil {
		return nil, err
	}
	caps, err := r.display.QueryToneMapCaps(r.context)
	if err != nil {
		return nil, fmt.Errorf("query tone-mapping capabilities: %w", err)
	}
	return caps, nil
}

// Close releases all session-owned accelerator resources and terminates
// the display connection. Safe to call on a session that never created
// a processing context.
func (r *Renderer) Close() {
	r.destroyContext()
	if err := r.display.Terminate(); err != nil {
		r.log.Warn().Err(err).Msg("terminate accelerator display")
	}
}
