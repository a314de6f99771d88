package build

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestString(t *testing.T) {
	assert.Equal(t, "geohdbscan dev", String())

	old := Version
	t.Cleanup(func() { Version = old })
	Version = "v0.3.0"
	assert.Equal(t, "geohdbscan v0.3.0", String())
}
