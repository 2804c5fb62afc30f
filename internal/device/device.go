// SPDX-License-Identifier: MIT

// Package device locates the GPU render node the pipeline runs on. At
// boot a compositor can race the driver module load, so besides a plain
// existence check there is a watcher that waits for the node to appear.
package device

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"golang.org/x/sys/unix"
)

// DefaultRenderNode is the first render node on most single-GPU systems.
const DefaultRenderNode = "/dev/dri/renderD128"

// HasRenderNode checks if the render device node exists.
func HasRenderNode(path string) bool {
	if _, err := os.Stat(path); err == nil {
		return true
	}
	return false
}

// Open opens the render node read-write. The returned descriptor is
// owned by the caller.
func Open(path string) (int, error) {
	fd, err := unix.Open(path, unix.O_RDWR|unix.O_CLOEXEC, 0)
	if err != nil {
		return -1, fmt.Errorf("open render node %s: %w", path, err)
	}
	return fd, nil
}

// Close releases a descriptor obtained from Open.
func Close(fd int) error {
	return unix.Close(fd)
}

// WaitForRenderNode waits for the render node to appear using fsnotify.
// It replaces inefficient sleep-based polling.
func WaitForRenderNode(ctx context.Context, logger zerolog.Logger, path string, timeout time.Duration) error {
	// 1. Fast path: node already present
	if HasRenderNode(path) {
		return nil
	}

	// 2. Setup watcher on the parent directory
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("fsnotify.NewWatcher: %w", err)
	}
	defer func() {
		_ = watcher.Close()
	}()

	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch directory %s: %w", dir, err)
	}

	// 3. Wait for events
	targetName := filepath.Base(path)
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	// Double check after adding watcher (race condition safety)
	if HasRenderNode(path) {
		return nil
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
			return fmt.Errorf("timeout waiting for render node %s", targetName)
		case event, ok := <-watcher.Events:
			if !ok {
				return fmt.Errorf("watcher channel closed")
			}
			if filepath.Base(event.Name) == targetName && event.Op&fsnotify.Create == fsnotify.Create {
				if HasRenderNode(path) {
					return nil
				}
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher error channel closed")
			}
			logger.Warn().Err(err).Msg("fsnotify watcher error")
		}
	}
}
