package configwatcher

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDebounceCoalescesBursts(t *testing.T) {
	var fired int32
	trigger := debounce(20*time.Millisecond, func() { atomic.AddInt32(&fired, 1) })

	for i := 0; i < 5; i++ {
		trigger()
	}

	require.Eventually(t, func() bool {
		return atomic.LoadInt32(&fired) == 1
	}, time.Second, 5*time.Millisecond)

	// No late second fire from the burst.
	time.Sleep(50 * time.Millisecond)
	assert.EqualValues(t, 1, atomic.LoadInt32(&fired))
}

func TestDebounceFiresAgainAfterQuietWindow(t *testing.T) {
	var fired int32
	trigger := debounce(10*time.Millisecond, func() { atomic.AddInt32(&fired, 1) })

	trigger()
	require.Eventually(t, func() bool {
		return atomic.LoadInt32(&fired) == 1
	}, time.Second, 5*time.Millisecond)

	// A write arriving after the timer already fired must schedule another
	// run, not wedge the trigger.
	trigger()
	require.Eventually(t, func() bool {
		return atomic.LoadInt32(&fired) == 2
	}, time.Second, 5*time.Millisecond)
}
