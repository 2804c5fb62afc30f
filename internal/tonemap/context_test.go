// SPDX-License-Identifier: MIT

package tonemap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tkristof/hdrtone/internal/va"
)

func TestEnsureContext_ReusesSameFormat(t *testing.T) {
	display := newFakeDisplay()
	r := newTestRenderer(t, display, &fakeAllocator{})

	require.NoError(t, r.ensureContext(va.RTFormatYUV420))
	require.NoError(t, r.ensureContext(va.RTFormatYUV420))

	assert.Equal(t, 1, display.countCalls("CreateConfig"))
	assert.Equal(t, 1, display.countCalls("CreateContext"))
	assert.Zero(t, display.countCalls("DestroyContext"))
}

func TestEnsureContext_RecreatesOnFormatChange(t *testing.T) {
	display := newFakeDisplay()
	r := newTestRenderer(t, display, &fakeAllocator{})

	require.NoError(t, r.ensureContext(va.RTFormatYUV420))
	require.NoError(t, r.ensureContext(va.RTFormatYUV422))

	assert.Equal(t, 2, display.countCalls("CreateConfig"))
	assert.Equal(t, 2, display.countCalls("CreateContext"))
	assert.Equal(t, 1, display.countCalls("DestroyContext"))
	assert.Equal(t, 1, display.countCalls("DestroyConfig"))
	assert.Len(t, display.liveContexts, 1)
	assert.Len(t, display.liveConfigs, 1)
}

func TestEnsureContext_ConfigFailureLeavesUninitialized(t *testing.T) {
	display := newFakeDisplay()
	display.failCall["CreateConfig"] = &va.StatusError{Call: "vaCreateConfig", Status: 1}
	r := newTestRenderer(t, display, &fakeAllocator{})

	err := r.ensureContext(va.RTFormatYUV420)
	require.Error(t, err)
	assert.Equal(t, va.ConfigID(va.InvalidID), r.config)
	assert.Equal(t, va.ContextID(va.InvalidID), r.context)
	assert.Equal(t, va.RTFormatNone, r.rtFormat)
}

func TestEnsureContext_ContextFailureDestroysConfig(t *testing.T) {
	display := newFakeDisplay()
	display.failCall["CreateContext"] = &va.StatusError{Call: "vaCreateContext", Status: 1}
	r := newTestRenderer(t, display, &fakeAllocator{})

	err := r.ensureContext(va.RTFormatYUV420)
	require.Error(t, err)

	// No half-initialized session: the orphaned config is gone too.
	assert.Empty(t, display.liveConfigs)
	assert.Equal(t, va.ContextID(va.InvalidID), r.context)
}

func TestClose_NeverInitialized(t *testing.T) {
	display := newFakeDisplay()
	r := newTestRenderer(t, display, &fakeAllocator{})

	r.Close()

	// No context was ever created, so nothing to destroy, but the
	// display connection is still terminated.
	assert.Zero(t, display.countCalls("DestroyContext"))
	assert.Zero(t, display.countCalls("DestroyConfig"))
	assert.True(t, display.terminated)
}

func TestClose_AfterUse(t *testing.T) {
	display := newFakeDisplay()
	alloc := &fakeAllocator{buffer: newFakeBuffer(1920, 1080, 1)}
	r := newTestRenderer(t, display, alloc)

	require.NoError(t, r.ToneMap(hdrView(singleFDDmabuf(1920, 1080))))
	r.Close()

	assert.Equal(t, 1, display.countCalls("DestroyContext"))
	assert.Equal(t, 1, display.countCalls("DestroyConfig"))
	assert.Empty(t, display.liveContexts)
	assert.Empty(t, display.liveConfigs)
	assert.True(t, display.terminated)
}

func TestToneMap_ReusesContextAcrossCalls(t *testing.T) {
	display := newFakeDisplay()
	alloc := &fakeAllocator{buffer: newFakeBuffer(1920, 1080, 1)}
	r := newTestRenderer(t, display, alloc)

	require.NoError(t, r.ToneMap(hdrView(singleFDDmabuf(1920, 1080))))
	require.NoError(t, r.ToneMap(hdrView(singleFDDmabuf(1920, 1080))))

	// Fixed pipeline format: the second call reuses the context.
	assert.Equal(t, 1, display.countCalls("CreateConfig"))
	assert.Equal(t, 1, display.countCalls("CreateContext"))
}
