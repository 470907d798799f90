//go:build linux

package metrics

import (
	"time"

	"golang.org/x/sys/unix"
)

// Uptime returns the system uptime via sysinfo(2), or 0 if the call fails.
func Uptime() time.Duration {
	var info unix.Sysinfo_t
	if err := unix.Sysinfo(&info); err != nil {
		return 0
	}
	return time.Duration(info.Uptime) * time.Second
}
