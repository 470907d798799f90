// Package metrics samples the host values shown on the display: the
// primary IP address and CPU/RAM usage percentages. It reads from /proc
// on Linux; every value degrades to a safe default rather than an error.
package metrics

import (
	"bufio"
	"context"
	"io"
	"log/slog"
	"net"
	"os"
	"strconv"
	"strings"
)

// ipUnavailable is reported when no non-loopback IPv4 address exists.
const ipUnavailable = "unavailable"

// Snapshot holds one cycle's worth of host status. It is recreated every
// iteration; CPU and RAM are already clamped to [0,100] at parse time, so
// downstream consumers render the stored values untouched.
type Snapshot struct {
	IP  string
	CPU int
	RAM int
}

// Sampler reads host metrics. The file openers and the address lister are
// overridable for testing.
type Sampler struct {
	logger *slog.Logger

	// prevIdle and prevTotal track the last CPU sample for delta computation.
	prevIdle  uint64
	prevTotal uint64

	openProcStat    func() (io.ReadCloser, error)
	openProcMeminfo func() (io.ReadCloser, error)
	interfaceAddrs  func() ([]net.Addr, error)
}

// NewSampler creates a Sampler. If logger is nil, a no-op logger is used.
func NewSampler(logger *slog.Logger) *Sampler {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Sampler{
		logger: logger,
		openProcStat: func() (io.ReadCloser, error) {
			return os.Open("/proc/stat")
		},
		openProcMeminfo: func() (io.ReadCloser, error) {
			return os.Open("/proc/meminfo")
		},
		interfaceAddrs: net.InterfaceAddrs,
	}
}

// Sample gathers the current IP address and CPU/RAM percentages. It never
// fails: unreadable or unparseable sources coerce to 0 (or "unavailable"
// for the IP) and are logged as warnings.
func (s *Sampler) Sample(ctx context.Context) Snapshot {
	select {
	case <-ctx.Done():
		return Snapshot{IP: ipUnavailable}
	default:
	}

	snap := Snapshot{}

	cpu, warn := s.readCPU()
	if warn != "" {
		s.logger.Warn("cpu sample degraded", "reason", warn)
	}
	snap.CPU = cpu

	ram, warn := s.readRAM()
	if warn != "" {
		s.logger.Warn("ram sample degraded", "reason", warn)
	}
	snap.RAM = ram

	snap.IP = s.readIP()

	s.logger.Debug("sampled host metrics",
		"ip", snap.IP,
		"cpu", snap.CPU,
		"ram", snap.RAM,
	)

	return snap
}

// readCPU computes CPU usage from the delta between consecutive /proc/stat
// readings. The first call seeds the counters and reports 0.
func (s *Sampler) readCPU() (int, string) {
	f, err := s.openProcStat()
	if err != nil {
		return 0, "open /proc/stat: " + err.Error()
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "cpu ") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 5 {
			return 0, "/proc/stat cpu line too short"
		}

		// Fields: cpu user nice system idle iowait irq softirq steal ...
		var total, idle uint64
		for i := 1; i < len(fields); i++ {
			val, err := strconv.ParseUint(fields[i], 10, 64)
			if err != nil {
				return 0, "parse /proc/stat field: " + err.Error()
			}
			total += val
			if i == 4 { // idle field
				idle = val
			}
		}

		if s.prevTotal == 0 {
			s.prevIdle = idle
			s.prevTotal = total
			return 0, ""
		}

		deltaTotal := total - s.prevTotal
		deltaIdle := idle - s.prevIdle
		s.prevIdle = idle
		s.prevTotal = total

		if deltaTotal == 0 {
			return 0, ""
		}

		pct := int((1.0 - float64(deltaIdle)/float64(deltaTotal)) * 100.0)
		return clampPercent(pct), ""
	}

	return 0, "cpu line not found in /proc/stat"
}

// readRAM computes RAM usage as (MemTotal-MemAvailable)/MemTotal from
// /proc/meminfo.
func (s *Sampler) readRAM() (int, string) {
	f, err := s.openProcMeminfo()
	if err != nil {
		return 0, "open /proc/meminfo: " + err.Error()
	}
	defer f.Close()

	var memTotal, memAvailable uint64
	var foundTotal, foundAvailable bool

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()

		switch {
		case strings.HasPrefix(line, "MemTotal:"):
			val, err := parseMemInfoLine(line)
			if err != nil {
				return 0, "parse MemTotal: " + err.Error()
			}
			memTotal = val
			foundTotal = true
		case strings.HasPrefix(line, "MemAvailable:"):
			val, err := parseMemInfoLine(line)
			if err != nil {
				return 0, "parse MemAvailable: " + err.Error()
			}
			memAvailable = val
			foundAvailable = true
		}

		if foundTotal && foundAvailable {
			break
		}
	}

	if !foundTotal || !foundAvailable {
		return 0, "MemTotal or MemAvailable not found in /proc/meminfo"
	}
	if memTotal == 0 {
		return 0, "MemTotal is zero"
	}

	used := memTotal - memAvailable
	pct := int(float64(used) / float64(memTotal) * 100.0)
	return clampPercent(pct), ""
}

// readIP returns the first non-loopback IPv4 address, or "unavailable".
func (s *Sampler) readIP() string {
	addrs, err := s.interfaceAddrs()
	if err != nil {
		s.logger.Warn("list interface addresses", "error", err)
		return ipUnavailable
	}

	for _, addr := range addrs {
		ipNet, ok := addr.(*net.IPNet)
		if !ok {
			continue
		}
		ip4 := ipNet.IP.To4()
		if ip4 == nil || ip4.IsLoopback() {
			continue
		}
		return ip4.String()
	}

	return ipUnavailable
}

// parseMemInfoLine extracts the numeric kB value from a /proc/meminfo line.
// Format: "MemTotal:       16384000 kB"
func parseMemInfoLine(line string) (uint64, error) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return 0, strconv.ErrSyntax
	}
	return strconv.ParseUint(fields[1], 10, 64)
}

// clampPercent bounds a percentage to [0,100]. Clamping happens here, at
// parse time, exactly once; the renderer trusts stored values.
func clampPercent(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
