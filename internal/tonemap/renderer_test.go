// SPDX-License-Identifier: MIT

package tonemap

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tkristof/hdrtone/internal/va"
)

func TestNew_RejectsNilCollaborators(t *testing.T) {
	_, err := New(nil, &fakeAllocator{}, zerolog.Nop())
	require.Error(t, err)

	_, err = New(newFakeDisplay(), nil, zerolog.Nop())
	require.Error(t, err)
}

func TestOpen_BackendUnavailable(t *testing.T) {
	// Without the vaapi build tag the display backend is a stub, so
	// Open must report a null session rather than a half-open one.
	r, err := Open(-1, &fakeAllocator{})
	require.Error(t, err)
	assert.Nil(t, r)
}

func TestProbe(t *testing.T) {
	display := newFakeDisplay()
	display.caps = []va.HDRCap{
		{MetadataType: va.HDRMetadataHDR10, Flags: 3},
	}
	r := newTestRenderer(t, display, &fakeAllocator{})

	caps, err := r.Probe()
	require.NoError(t, err)
	require.Len(t, caps, 1)
	assert.Equal(t, va.HDRMetadataHDR10, caps[0].MetadataType)

	// Probe brought up the context; a following ToneMap reuses it.
	assert.Equal(t, 1, display.countCalls("CreateConfig"))
}
