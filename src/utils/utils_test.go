package utils

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrDefault(t *testing.T) {
	assert.Equal(t, 5, OrDefault(0, 5))
	assert.Equal(t, 3, OrDefault(3, 5))
	assert.Equal(t, "default", OrDefault("", "default"))
	assert.Equal(t, "value", OrDefault("value", "default"))
}

func TestRecoverPanicAsError(t *testing.T) {
	boom := errors.New("boom")
	panicky := func() (err error) {
		defer RecoverPanicAsError(&err)
		panic(boom)
	}

	err := panicky()
	assert.Error(t, err)
	assert.ErrorIs(t, err, boom)
}
