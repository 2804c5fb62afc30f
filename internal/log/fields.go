// SPDX-License-Identifier: MIT

package log

// Canonical field name constants for structured logging.
const (
	// Process / pipeline fields
	FieldComponent = "component"
	FieldEvent     = "event"
	FieldPass      = "pass"

	// Device / accelerator fields
	FieldDevice   = "device"
	FieldStatus   = "status"
	FieldContext  = "context"
	FieldSurface  = "surface"
	FieldRTFormat = "rt_format"

	// Buffer fields
	FieldFormat   = "format"
	FieldWidth    = "width"
	FieldHeight   = "height"
	FieldPlanes   = "planes"
	FieldModifier = "modifier"
)
