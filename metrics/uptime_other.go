//go:build !linux

package metrics

import "time"

// Uptime is only implemented on Linux; other platforms report 0.
func Uptime() time.Duration {
	return 0
}
