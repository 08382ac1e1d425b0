package session

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDebouncerOnlyLatestFires(t *testing.T) {
	d := NewDebouncer(20 * time.Millisecond)

	var fired atomic.Int32
	var lastToken atomic.Uint64
	for i := 0; i < 5; i++ {
		d.Schedule(func(token uint64) {
			fired.Add(1)
			lastToken.Store(token)
		})
	}

	assert.Eventually(t, func() bool { return fired.Load() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(1), fired.Load())
	assert.True(t, d.Current(lastToken.Load()))
}

func TestDebouncerStopInvalidatesToken(t *testing.T) {
	d := NewDebouncer(time.Hour)

	var token uint64
	d.Schedule(func(uint64) {})
	token = d.generation
	assert.True(t, d.Current(token))

	d.Stop()
	assert.False(t, d.Current(token))
}
