package interp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStoreIsCaseInsensitive(t *testing.T) {
	s := NewStore()
	s.Set("counter", IntValue(1))
	s.Set("COUNTER", IntValue(2))

	v, ok := s.Get("Counter")
	assert.True(t, ok)
	assert.Equal(t, IntValue(2), v)
	assert.Equal(t, 1, s.Len())
}

func TestValueConversions(t *testing.T) {
	assert.Equal(t, 3.0, IntValue(3).Float())
	assert.Equal(t, int64(3), IntValue(3).Native())
	assert.Equal(t, 0.5, RealValue(0.5).Native())
	assert.False(t, RealValue(1).IsInteger())
}
