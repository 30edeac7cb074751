package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_Remember(t *testing.T) {
	c := NewCache[struct{}](100, time.Minute)

	assert.True(t, c.Remember("e1", struct{}{}), "первая запись")
	assert.False(t, c.Remember("e1", struct{}{}), "повтор должен быть отклонён")
	assert.True(t, c.Remember("e2", struct{}{}))

	c.ClearKey("e1")
	assert.True(t, c.Remember("e1", struct{}{}), "после удаления ключ снова свободен")
}

func TestCache_Expires(t *testing.T) {
	c := NewCache[int](100, 20*time.Millisecond)
	c.Set("k", 7)

	v, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, 7, v)

	require.Eventually(t, func() bool {
		_, ok := c.Get("k")
		return !ok
	}, time.Second, 5*time.Millisecond, "запись должна истечь")
}

func TestCache_ClearAll(t *testing.T) {
	c := NewCache[string](10, time.Minute)
	c.Set("a", "1")
	c.Set("b", "2")

	c.ClearAll()
	_, ok := c.Get("a")
	assert.False(t, ok)
}
