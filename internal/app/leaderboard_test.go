package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNextID(t *testing.T) {
	ids := []int64{4, 9}
	assert.Equal(t, int64(4), nextID(ids, 0))
	assert.Equal(t, int64(9), nextID(ids, 4))
	assert.Equal(t, int64(0), nextID(ids, 9))
	assert.Equal(t, int64(0), nextID(nil, 0))
	assert.Equal(t, int64(0), nextID(ids, 77))
}
