// SPDX-License-Identifier: MIT

package device_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/tkristof/hdrtone/internal/device"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestHasRenderNode(t *testing.T) {
	dir := t.TempDir()
	node := filepath.Join(dir, "renderD128")

	assert.False(t, device.HasRenderNode(node))
	require.NoError(t, os.WriteFile(node, nil, 0o600))
	assert.True(t, device.HasRenderNode(node))
}

func TestWaitForRenderNode_AlreadyPresent(t *testing.T) {
	dir := t.TempDir()
	node := filepath.Join(dir, "renderD128")
	require.NoError(t, os.WriteFile(node, nil, 0o600))

	err := device.WaitForRenderNode(context.Background(), zerolog.Nop(), node, time.Second)
	assert.NoError(t, err)
}

func TestWaitForRenderNode_Appears(t *testing.T) {
	dir := t.TempDir()
	node := filepath.Join(dir, "renderD128")

	go func() {
		time.Sleep(50 * time.Millisecond)
		_ = os.WriteFile(node, nil, 0o600)
	}()

	err := device.WaitForRenderNode(context.Background(), zerolog.Nop(), node, 5*time.Second)
	assert.NoError(t, err)
}

func TestWaitForRenderNode_Timeout(t *testing.T) {
	dir := t.TempDir()
	node := filepath.Join(dir, "renderD128")

	err := device.WaitForRenderNode(context.Background(), zerolog.Nop(), node, 100*time.Millisecond)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timeout")
}

func TestWaitForRenderNode_ContextCancel(t *testing.T) {
	dir := t.TempDir()
	node := filepath.Join(dir, "renderD128")

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	err := device.WaitForRenderNode(ctx, zerolog.Nop(), node, 5*time.Second)
	require.ErrorIs(t, err, context.Canceled)
}

func TestOpenClose(t *testing.T) {
	dir := t.TempDir()
	node := filepath.Join(dir, "renderD128")
	require.NoError(t, os.WriteFile(node, nil, 0o600))

	fd, err := device.Open(node)
	require.NoError(t, err)
	require.GreaterOrEqual(t, fd, 0)
	assert.NoError(t, device.Close(fd))
}

func TestOpen_Missing(t *testing.T) {
	fd, err := device.Open(filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
	assert.Equal(t, -1, fd)
}
