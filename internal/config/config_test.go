package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBitMask(t *testing.T) {
	b := NewBitMask(Parallel, Verbose)
	assert.True(t, b.Enabled(Parallel))
	assert.True(t, b.Enabled(Verbose))
	assert.False(t, b.Enabled(Annotate))

	b.Set(Annotate, true)
	b.Set(Parallel, false)
	assert.True(t, b.Enabled(Annotate))
	assert.False(t, b.Enabled(Parallel))

	b.Disable(Verbose)
	assert.False(t, b.Enabled(Verbose))
}

func TestDefault(t *testing.T) {
	opts := Default()
	assert.True(t, opts.Enabled(Parallel))
	assert.False(t, opts.Enabled(AllErrors))
	assert.Equal(t, ".ka", opts.Extension)
	assert.Equal(t, 0, opts.Verbosity())

	opts.Flags.Enable(Verbose)
	assert.Equal(t, 2, opts.Verbosity())
}
