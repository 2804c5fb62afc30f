// SPDX-License-Identifier: MIT

package drm

import (
	"github.com/tkristof/hdrtone/internal/log"
	"github.com/tkristof/hdrtone/internal/va"
)

// RTFormat maps a packed pixel-format code to the accelerator
// render-target family used to size surfaces backed by it. All
// chroma-subsampled and packed-YUV formats land in the 4:2:0 family;
// P010 is treated as a 4:2:0 family member despite its higher bit depth.
//
// Unknown formats return va.RTFormatNone. Callers must check the
// sentinel before creating a surface.
func RTFormat(f Format) va.RTFormat {
	switch f {
	case FormatNV12, FormatYVU420, FormatYUV420, FormatUYVY, FormatYUYV,
		FormatYVYU, FormatVYUY:
		return va.RTFormatYUV420
	case FormatYUV422:
		return va.RTFormatYUV422
	case FormatYUV444:
		return va.RTFormatYUV444
	case FormatP010:
		return va.RTFormatYUV420
	default:
		l := log.WithComponent("format")
		l.Warn().
			Uint32(log.FieldFormat, uint32(f)).
			Msg("no render-target family for format")
		return va.RTFormatNone
	}
}

// VAFourCC maps a packed pixel-format code to the accelerator's native
// pixel code. Formats the accelerator has no code for (including YVYU,
// VYUY, YUV444 and AYUV) return va.FourCCNone.
func VAFourCC(f Format) va.FourCC {
	switch f {
	case FormatNV12:
		return va.FourCCNV12
	case FormatYVU420:
		return va.FourCCYV12
	case FormatYUV420:
		return va.FourCCI420
	case FormatYUV422, FormatYUYV:
		return va.FourCCYUY2
	case FormatUYVY:
		return va.FourCCUYVY
	case FormatP010:
		return va.FourCCP010
	default:
		l := log.WithComponent("format")
		l.Warn().
			Uint32(log.FieldFormat, uint32(f)).
			Msg("no accelerator pixel code for format")
		return va.FourCCNone
	}
}
