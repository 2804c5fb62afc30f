// SPDX-License-Identifier: MIT

// Package drm carries the packed pixel-format identifiers shared with
// the kernel display ABI, and the mappings from those identifiers to the
// accelerator's render-target families and native pixel codes.
//
// Only the constants this pipeline can actually meet are transcribed
// from the kernel header; the format space is open-ended and everything
// else maps to the invalid sentinels.
package drm

// Format is a packed little-endian fourcc pixel-format code as defined
// by the kernel display ABI.
type Format uint32

func fourcc(a, b, c, d byte) Format {
	return Format(uint32(a) | uint32(b)<<8 | uint32(c)<<16 | uint32(d)<<24)
}

var (
	FormatNV12   = fourcc('N', 'V', '1', '2') // 2x2 subsampled Cr:Cb plane
	FormatYVU420 = fourcc('Y', 'V', '1', '2') // 3 planes, Y/Cr/Cb
	FormatYUV420 = fourcc('Y', 'U', '1', '2') // 3 planes, Y/Cb/Cr
	FormatYUV422 = fourcc('Y', 'U', '1', '6') // 3 planes, 4:2:2
	FormatYUV444 = fourcc('Y', 'U', '2', '4') // 3 planes, 4:4:4
	FormatUYVY   = fourcc('U', 'Y', 'V', 'Y') // packed 4:2:2
	FormatYUYV   = fourcc('Y', 'U', 'Y', 'V') // packed 4:2:2
	FormatYVYU   = fourcc('Y', 'V', 'Y', 'U') // packed 4:2:2
	FormatVYUY   = fourcc('V', 'Y', 'U', 'Y') // packed 4:2:2
	FormatAYUV   = fourcc('A', 'Y', 'U', 'V') // packed 4:4:4 with alpha
	FormatP010   = fourcc('P', '0', '1', '0') // 2x2 subsampled Cb:Cr, 10 bits per channel
)

// Modifier describes a vendor-specific memory layout of a buffer.
type Modifier uint64

// ModifierInvalid means the buffer carries no explicit layout modifier
// and the legacy implicit layout applies.
const ModifierInvalid Modifier = 0x00ffffffffffffff
