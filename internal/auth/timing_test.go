package auth_test

import (
	"testing"
	"time"

	"github.com/BradenHooton/quill/internal/auth"
	"github.com/stretchr/testify/assert"
)

func TestTimingDelay_WaitFrom_OnFailure(t *testing.T) {
	timing := auth.NewTimingDelay(auth.TimingConfig{BaseDelayMs: 40, RandomDelayMs: 10})
	start := time.Now()

	timing.WaitFrom(start, false)

	assert.GreaterOrEqual(t, time.Since(start), 40*time.Millisecond)
}

func TestTimingDelay_WaitFrom_OnSuccess_NoDelay(t *testing.T) {
	timing := auth.NewTimingDelay(auth.TimingConfig{BaseDelayMs: 200})
	start := time.Now()

	timing.WaitFrom(start, true)

	assert.Less(t, time.Since(start), 100*time.Millisecond)
}

func TestTimingDelay_WaitFrom_OnSuccess_WithDelay(t *testing.T) {
	timing := auth.NewTimingDelay(auth.TimingConfig{BaseDelayMs: 40, DelayOnSuccess: true})
	start := time.Now()

	timing.WaitFrom(start, true)

	assert.GreaterOrEqual(t, time.Since(start), 40*time.Millisecond)
}

func TestTimingDelay_WaitFrom_AlreadyElapsed(t *testing.T) {
	timing := auth.NewTimingDelay(auth.TimingConfig{BaseDelayMs: 20})
	start := time.Now().Add(-time.Second)
	before := time.Now()

	timing.WaitFrom(start, false)

	assert.Less(t, time.Since(before), 15*time.Millisecond)
}

func TestTimingDelay_NilIsNoop(t *testing.T) {
	var timing *auth.TimingDelay
	assert.NotPanics(t, func() { timing.WaitFrom(time.Now(), false) })
}
