package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashBytes(t *testing.T) {
	assert.Equal(t, "d41d8cd98f00b204e9800998ecf8427e", HashBytes(nil))
	assert.Equal(t, HashBytes([]byte("abc")), HashString("abc"))
	assert.NotEqual(t, HashString("abc"), HashString("abd"))
}
