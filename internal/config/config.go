// SPDX-License-Identifier: MIT

package config

import (
	"time"

	"github.com/tkristof/hdrtone/internal/device"
)

// Config holds the pipeline's runtime settings.
type Config struct {
	// Device is the GPU render-node path the accelerator connection is
	// opened on.
	Device string

	// DeviceWait bounds how long startup waits for the render node to
	// appear before giving up.
	DeviceWait time.Duration

	// LogLevel is the zerolog level name ("debug", "info", ...).
	LogLevel string
}

// FromEnv builds a Config from environment variables with defaults.
func FromEnv() Config {
	return Config{
		Device:     ParseString("HDRTONE_DEVICE", device.DefaultRenderNode),
		DeviceWait: ParseDuration("HDRTONE_DEVICE_WAIT", 5*time.Second),
		LogLevel:   ParseString("HDRTONE_LOG_LEVEL", "info"),
	}
}
