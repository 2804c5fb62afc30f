// SPDX-License-Identifier: MIT

// hdrtone-probe opens the GPU render node, brings up an accelerator
// session and reports the advertised HDR tone-mapping capabilities.
// Build with -tags=vaapi; without the tag it only reports that the
// backend is unavailable.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/tkristof/hdrtone/internal/config"
	"github.com/tkristof/hdrtone/internal/device"
	"github.com/tkristof/hdrtone/internal/gbm"
	"github.com/tkristof/hdrtone/internal/log"
	"github.com/tkristof/hdrtone/internal/tonemap"
)

var deviceFlag = flag.String("device", "", "render node path (overrides HDRTONE_DEVICE)")

func main() {
	flag.Parse()

	cfg := config.FromEnv()
	if *deviceFlag != "" {
		cfg.Device = *deviceFlag
	}
	log.Configure(log.Config{Level: cfg.LogLevel, Service: "hdrtone-probe"})

	if err := run(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Probe failed: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg config.Config) error {
	logger := log.WithComponent("probe")

	ctx := context.Background()
	if err := device.WaitForRenderNode(ctx, logger, cfg.Device, cfg.DeviceWait); err != nil {
		return err
	}

	fd, err := device.Open(cfg.Device)
	if err != nil {
		return err
	}
	defer func() { _ = device.Close(fd) }()

	alloc, err := gbm.OpenDevice(fd)
	if err != nil {
		return fmt.Errorf("open buffer allocator: %w", err)
	}

	renderer, err := tonemap.Open(fd, alloc)
	if err != nil {
		return err
	}
	defer renderer.Close()

	caps, err := renderer.Probe()
	if err != nil {
		return err
	}

	logger.Info().
		Str(log.FieldDevice, cfg.Device).
		Int("caps", len(caps)).
		Msg("tone-mapping capabilities")
	for i, c := range caps {
		logger.Info().
			Int("index", i).
			Uint32("metadata_type", uint32(c.MetadataType)).
			Uint32("flags", c.Flags).
			Msg("capability")
	}
	return nil
}
