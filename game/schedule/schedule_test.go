package schedule

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManual_RunsInDueOrder(t *testing.T) {
	m := NewManual()
	var order []string

	m.AfterFunc(time.Second, func() { order = append(order, "late") })
	m.AfterFunc(500*time.Millisecond, func() { order = append(order, "early") })
	m.AfterFunc(time.Second, func() { order = append(order, "late-2") })

	m.Advance(499 * time.Millisecond)
	assert.Empty(t, order)
	assert.Equal(t, 3, m.Pending())

	m.Advance(time.Second)
	assert.Equal(t, []string{"early", "late", "late-2"}, order)
	assert.Equal(t, 0, m.Pending())
	assert.Equal(t, 1499*time.Millisecond, m.Now())
}

func TestManual_Cancel(t *testing.T) {
	m := NewManual()
	fired := false

	h := m.AfterFunc(time.Second, func() { fired = true })
	assert.True(t, h.Cancel())
	assert.False(t, h.Cancel(), "second cancel reports false")

	m.Advance(2 * time.Second)
	assert.False(t, fired)
}

func TestManual_CancelAfterRun(t *testing.T) {
	m := NewManual()
	h := m.AfterFunc(time.Second, func() {})
	m.Advance(time.Second)
	assert.False(t, h.Cancel())
}

func TestManual_RescheduleFromAction(t *testing.T) {
	m := NewManual()
	ticks := 0

	var tick func()
	tick = func() {
		ticks++
		m.AfterFunc(time.Second, tick)
	}
	m.AfterFunc(time.Second, tick)

	m.Advance(5 * time.Second)
	assert.Equal(t, 5, ticks)
	assert.Equal(t, 1, m.Pending())
}

func TestTimers(t *testing.T) {
	var wg sync.WaitGroup
	wg.Add(1)

	Timers{}.AfterFunc(time.Millisecond, wg.Done)

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timer action did not run")
	}
}

func TestTimers_Cancel(t *testing.T) {
	h := Timers{}.AfterFunc(time.Hour, func() {})
	require.True(t, h.Cancel())
	assert.False(t, h.Cancel())
}
