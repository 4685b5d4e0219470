package main

import (
	"testing"
	"time"

	"scenery/internal/config"

	"github.com/stretchr/testify/assert"
)

func TestFPSLimiterUnlimited(t *testing.T) {
	prev := config.GetFPSLimit()
	defer config.SetFPSLimit(prev)
	config.SetFPSLimit(0)

	f := NewFPSLimiter()
	start := time.Now()
	for i := 0; i < 100; i++ {
		f.Wait()
	}
	assert.Less(t, time.Since(start), 50*time.Millisecond)
	assert.True(t, f.next.IsZero())
}

func TestFPSLimiterPaces(t *testing.T) {
	prev := config.GetFPSLimit()
	defer config.SetFPSLimit(prev)
	config.SetFPSLimit(100)

	f := NewFPSLimiter()
	start := time.Now()
	for i := 0; i < 5; i++ {
		f.Wait()
	}
	assert.GreaterOrEqual(t, time.Since(start), 45*time.Millisecond)
}

func TestChannel(t *testing.T) {
	assert.Equal(t, uint8(0), channel(-1))
	assert.Equal(t, uint8(255), channel(2))
	assert.Equal(t, uint8(25), channel(0.1))
}
