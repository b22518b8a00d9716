package dispatch

import "time"

// RetryDelay returns how long a job waits before attempt n+1.
// Doubles with every attempt, capped at max.
func RetryDelay(base, max time.Duration, attempts int) (delay time.Duration) {
	delay = base
	for i := 0; i < attempts; i++ {
		delay *= 2
		if delay >= max {
			return max
		}
	}
	if delay > max {
		delay = max
	}
	return
}
