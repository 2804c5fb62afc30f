// SPDX-License-Identifier: MIT

package tonemap

import (
	"fmt"

	"github.com/tkristof/hdrtone/internal/log"
	"github.com/tkristof/hdrtone/internal/metrics"
	"github.com/tkristof/hdrtone/internal/va"
)

// ensureContext makes the session ready for the given render-target
// format. An existing context for the same format is reused; a format
// change destroys and recreates config and context. On failure the
// session is left uninitialized and the operation must fail.
func (r *Renderer) ensureContext(rt va.RTFormat) error {
	if r.context != va.InvalidID && r.rtFormat == rt {
		return nil
	}

	r.destroyContext()

	cfg, err := r.display.CreateConfig(rt)
	if err != nil {
		return fmt.Errorf("create processing config: %w", err)
	}

	ctx, err := r.display.CreateContext(cfg)
	if err != nil {
		if derr := r.display.DestroyConfig(cfg); derr != nil {
			r.log.Warn().Err(derr).Msg("destroy orphaned config")
		}
		return fmt.Errorf("create processing context: %w", err)
	}

	r.config = cfg
	r.context = ctx
	r.rtFormat = rt
	metrics.ContextRebuilds.Inc()
	r.log.Debug().
		Uint32(log.FieldRTFormat, uint32(rt)).
		Msg("processing context ready")
	return nil
}

// destroyContext tears down the context/config pair. Idempotent: absent
// handles are skipped.
func (r *Renderer) destroyContext() {
	if r.context != va.InvalidID {
		if err := r.display.DestroyContext(r.context); err != nil {
			r.log.Warn().Err(err).Msg("destroy processing context")
		}
		r.context = va.InvalidID
	}
	if r.config != va.InvalidID {
		if err := r.display.DestroyConfig(r.config); err != nil {
			r.log.Warn().Err(err).Msg("destroy processing config")
		}
		r.config = va.InvalidID
	}
	r.rtFormat = va.RTFormatNone
}
