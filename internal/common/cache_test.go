package common

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCacheSetGet(t *testing.T) {
	c := NewCache(time.Minute, time.Minute)

	_, ok := c.Get(CacheKeyAboutPage)
	assert.False(t, ok)

	c.Set(CacheKeyAboutPage, "<h1>about</h1>")

	v, ok := c.Get(CacheKeyAboutPage)
	assert.True(t, ok)
	assert.Equal(t, "<h1>about</h1>", v)
}

func TestCacheExpiration(t *testing.T) {
	c := NewCache(time.Minute, time.Minute)

	c.Set("k", "v", 10*time.Millisecond)
	time.Sleep(20 * time.Millisecond)

	_, ok := c.Get("k")
	assert.False(t, ok)
}
