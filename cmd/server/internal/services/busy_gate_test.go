package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBusyGate(t *testing.T) {
	g := NewBusyGate()
	assert.False(t, g.Busy())

	release, err := g.TryEnter()
	require.NoError(t, err)
	assert.True(t, g.Busy())

	_, err = g.TryEnter()
	assert.ErrorIs(t, err, ErrBusy)

	release()
	assert.False(t, g.Busy())

	release, err = g.TryEnter()
	require.NoError(t, err)
	release()
}
