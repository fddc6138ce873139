package auth

import "time"

// Metrics receives operation outcomes and hashing latency.
// kind is 0 for success.
type Metrics interface {
	Outcome(op string, kind Kind)
	HashDuration(op string, d time.Duration)
}

type nopMetrics struct{}

func (nopMetrics) Outcome(string, Kind) {}
func (nopMetrics) HashDuration(string, time.Duration) {}
