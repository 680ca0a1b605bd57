package auth

import (
	"crypto/rand"
	"math/big"
	"time"
)

// TimingConfig holds configuration for timing attack prevention
type TimingConfig struct {
	BaseDelayMs    int
	RandomDelayMs  int
	DelayOnSuccess bool
}

// TimingDelay pads authentication responses so that an unknown username and
// a wrong password take about the same time.
type TimingDelay struct {
	config TimingConfig
	sleep  func(time.Duration)
}

func NewTimingDelay(config TimingConfig) *TimingDelay {
	return &TimingDelay{
		config: config,
		sleep:  time.Sleep,
	}
}

// WaitFrom sleeps until at least base+jitter has elapsed since start.
// Successful attempts return immediately unless DelayOnSuccess is set.
func (td *TimingDelay) WaitFrom(start time.Time, success bool) {
	if td == nil || (success && !td.config.DelayOnSuccess) {
		return
	}

	target := time.Duration(td.config.BaseDelayMs)*time.Millisecond + td.jitter()
	if elapsed := time.Since(start); elapsed < target {
		td.sleep(target - elapsed)
	}
}

func (td *TimingDelay) jitter() time.Duration {
	if td.config.RandomDelayMs <= 0 {
		return 0
	}
	n, err := rand.Int(rand.Reader, big.NewInt(int64(td.config.RandomDelayMs)))
	if err != nil {
		return 0
	}
	return time.Duration(n.Int64()) * time.Millisecond
}
