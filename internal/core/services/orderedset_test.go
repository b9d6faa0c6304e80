package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderedSet(t *testing.T) {
	s := newOrderedSet()
	assert.NotNil(t, s.Items())
	assert.Empty(t, s.Items())

	assert.True(t, s.Add("b"))
	assert.True(t, s.Add("a"))
	assert.False(t, s.Add("b"))

	assert.Equal(t, []string{"b", "a"}, s.Items())

	items := s.Items()
	items[0] = "changed"
	assert.Equal(t, []string{"b", "a"}, s.Items())
}
