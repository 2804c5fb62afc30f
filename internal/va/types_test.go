// SPDX-License-Identifier: MIT

package va_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tkristof/hdrtone/internal/va"
)

func TestMakeFourCC(t *testing.T) {
	assert.Equal(t, va.FourCC(0x3231564e), va.MakeFourCC('N', 'V', '1', '2'))
	assert.Equal(t, va.FourCC(0x30313050), va.MakeFourCC('P', '0', '1', '0'))
}

func TestStatusError(t *testing.T) {
	err := &va.StatusError{Call: "vaCreateSurfaces", Status: 0x0e}
	assert.Equal(t, "vaCreateSurfaces failed with status 0xe", err.Error())
}
