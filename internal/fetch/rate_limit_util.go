package fetch

import "time"

// timePerRequest converts a requests-per-minute budget into the interval
// between admitted requests that golang.org/x/time/rate expects.
func timePerRequest(perMinute int) time.Duration {
	return time.Minute / time.Duration(perMinute)
}
