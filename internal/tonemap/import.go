// SPDX-License-Identifier: MIT

package tonemap

import (
	"fmt"

	"github.com/tkristof/hdrtone/internal/drm"
	"github.com/tkristof/hdrtone/internal/gbm"
	"github.com/tkristof/hdrtone/internal/log"
	"github.com/tkristof/hdrtone/internal/scene"
)

// importBuffer resolves the view's backing buffer resource and imports
// it through the allocator. The returned buffer object is exclusively
// owned by the caller and must be destroyed before the tone-map call
// returns.
func (r *Renderer) importBuffer(view *scene.View) (gbm.BufferObject, error) {
	if view == nil || view.Surface == nil || view.Surface.Buffer == nil {
		return nil, ErrNoBuffer
	}
	buffer := view.Surface.Buffer

	if d := buffer.Dmabuf; d != nil {
		return r.importDmabuf(d)
	}

	if buffer.Native == 0 {
		return nil, ErrNoBuffer
	}
	bo, err := r.alloc.ImportNative(buffer.Native)
	if err != nil {
		return nil, fmt.Errorf("import native buffer: %w", err)
	}
	return bo, nil
}

func (r *Renderer) importDmabuf(d *scene.DmabufAttributes) (gbm.BufferObject, error) {
	// Flagged buffers (inverted, interlaced, bottom-first) would need a
	// buffer transform this pipeline does not apply. Reject rather than
	// misrender.
	if d.Flags != 0 {
		r.log.Debug().
			Uint32("flags", d.Flags).
			Msg("rejecting dma-buf with orientation flags")
		return nil, ErrUnsupportedBuffer
	}
	if d.PlaneCount < 1 || d.PlaneCount > scene.MaxDmabufPlanes {
		return nil, fmt.Errorf("dma-buf has %d planes: %w", d.PlaneCount, ErrUnsupportedBuffer)
	}

	// The legacy descriptor import cannot express modifiers, extra
	// planes or offsets.
	if d.Modifiers[0] != drm.ModifierInvalid || d.PlaneCount > 1 || d.Offsets[0] > 0 {
		bo, err := r.alloc.ImportDmabufModifier(gbm.ImportModifierData{
			Width:    d.Width,
			Height:   d.Height,
			Format:   d.Format,
			Modifier: d.Modifiers[0],
			FDs:      append([]int(nil), d.FDs[:d.PlaneCount]...),
			Strides:  append([]uint32(nil), d.Strides[:d.PlaneCount]...),
			Offsets:  append([]uint32(nil), d.Offsets[:d.PlaneCount]...),
		})
		if err != nil {
			return nil, fmt.Errorf("import dma-buf with modifier: %w", err)
		}
		return bo, nil
	}

	bo, err := r.alloc.ImportDmabuf(gbm.ImportData{
		Width:  d.Width,
		Height: d.Height,
		Format: d.Format,
		Stride: d.Strides[0],
		FD:     d.FDs[0],
	})
	if err != nil {
		return nil, fmt.Errorf("import dma-buf: %w", err)
	}
	r.log.Debug().
		Uint32(log.FieldWidth, d.Width).
		Uint32(log.FieldHeight, d.Height).
		Uint32(log.FieldFormat, uint32(d.Format)).
		Msg("imported single-descriptor dma-buf")
	return bo, nil
}
