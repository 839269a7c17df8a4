package executor_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jasonlai/aurora/executor"
)

func TestSchedule_FiresAfterDelay(t *testing.T) {
	e := executor.New()
	var fired int32

	e.Schedule(5*time.Millisecond, func() { atomic.StoreInt32(&fired, 1) })

	assert.Equal(t, int32(0), atomic.LoadInt32(&fired))
	assert.Eventually(t, func() bool { return atomic.LoadInt32(&fired) == 1 }, time.Second, time.Millisecond)
}

func TestSchedule_CancelPreventsFiring(t *testing.T) {
	e := executor.New()
	var fired int32

	h := e.Schedule(20*time.Millisecond, func() { atomic.StoreInt32(&fired, 1) })
	ok := h.Cancel()
	assert.True(t, ok)

	time.Sleep(40 * time.Millisecond)
	assert.Equal(t, int32(0), atomic.LoadInt32(&fired))
}

func TestSchedule_CancelAfterFireReturnsFalse(t *testing.T) {
	e := executor.New()
	done := make(chan struct{})

	h := e.Schedule(time.Millisecond, func() { close(done) })
	<-done

	time.Sleep(5 * time.Millisecond)
	assert.False(t, h.Cancel())
}

func TestNow_DefaultsToWallClock(t *testing.T) {
	e := executor.New()
	before := time.Now()
	got := e.Now()
	after := time.Now()
	assert.False(t, got.Before(before))
	assert.False(t, got.After(after))
}
