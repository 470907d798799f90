package metrics

import (
	"context"
	"io"
	"net"
	"strings"
	"testing"
)

// stringReadCloser wraps a strings.Reader to implement io.ReadCloser.
type stringReadCloser struct {
	*strings.Reader
}

func (s *stringReadCloser) Close() error { return nil }

func newReadCloser(content string) io.ReadCloser {
	return &stringReadCloser{strings.NewReader(content)}
}

func TestReadCPU_SeedsThenComputesDelta(t *testing.T) {
	s := NewSampler(nil)
	s.openProcStat = func() (io.ReadCloser, error) {
		return newReadCloser("cpu  100 0 50 800 10 5 3 0 0 0\n"), nil
	}

	cpu, warn := s.readCPU()
	if warn != "" {
		t.Errorf("first read warning: %s", warn)
	}
	if cpu != 0 {
		t.Errorf("first read CPU = %d, want 0 (seeding)", cpu)
	}

	// Delta total = 1111 - 968 = 143, delta idle = 50.
	// CPU% = (1 - 50/143) * 100 = 65.03 -> 65
	s.openProcStat = func() (io.ReadCloser, error) {
		return newReadCloser("cpu  150 0 75 850 20 10 6 0 0 0\n"), nil
	}

	cpu, warn = s.readCPU()
	if warn != "" {
		t.Errorf("second read warning: %s", warn)
	}
	if cpu != 65 {
		t.Errorf("second read CPU = %d, want 65", cpu)
	}
}

func TestReadCPU_UnparseableCoercesToZero(t *testing.T) {
	s := NewSampler(nil)
	s.openProcStat = func() (io.ReadCloser, error) {
		return newReadCloser("cpu  garbage 0 50 800\n"), nil
	}

	cpu, warn := s.readCPU()
	if cpu != 0 {
		t.Errorf("CPU = %d, want 0 on parse failure", cpu)
	}
	if warn == "" {
		t.Error("expected a warning for unparseable input")
	}
}

func TestReadRAM(t *testing.T) {
	tests := []struct {
		name     string
		meminfo  string
		want     int
		wantWarn bool
	}{
		{
			name: "normal usage",
			meminfo: "MemTotal:       16000000 kB\n" +
				"MemFree:         2000000 kB\n" +
				"MemAvailable:    4000000 kB\n",
			want: 75,
		},
		{
			name:     "missing MemAvailable",
			meminfo:  "MemTotal:       16000000 kB\n",
			want:     0,
			wantWarn: true,
		},
		{
			name: "zero total",
			meminfo: "MemTotal:       0 kB\n" +
				"MemAvailable:   0 kB\n",
			want:     0,
			wantWarn: true,
		},
		{
			name: "unparseable value",
			meminfo: "MemTotal:       abc kB\n" +
				"MemAvailable:   4000000 kB\n",
			want:     0,
			wantWarn: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSampler(nil)
			s.openProcMeminfo = func() (io.ReadCloser, error) {
				return newReadCloser(tt.meminfo), nil
			}

			ram, warn := s.readRAM()
			if ram != tt.want {
				t.Errorf("RAM = %d, want %d", ram, tt.want)
			}
			if (warn != "") != tt.wantWarn {
				t.Errorf("warning = %q, wantWarn = %v", warn, tt.wantWarn)
			}
		})
	}
}

func TestReadIP(t *testing.T) {
	mustCIDR := func(s string) *net.IPNet {
		ip, ipNet, err := net.ParseCIDR(s)
		if err != nil {
			t.Fatalf("parse CIDR %q: %v", s, err)
		}
		ipNet.IP = ip
		return ipNet
	}

	tests := []struct {
		name  string
		addrs []net.Addr
		want  string
	}{
		{
			name: "skips loopback, picks first IPv4",
			addrs: []net.Addr{
				mustCIDR("127.0.0.1/8"),
				mustCIDR("192.168.1.5/24"),
			},
			want: "192.168.1.5",
		},
		{
			name: "skips IPv6",
			addrs: []net.Addr{
				mustCIDR("::1/128"),
				mustCIDR("fe80::1/64"),
				mustCIDR("10.0.0.7/8"),
			},
			want: "10.0.0.7",
		},
		{
			name:  "no usable address",
			addrs: []net.Addr{mustCIDR("127.0.0.1/8")},
			want:  "unavailable",
		},
		{
			name:  "empty list",
			addrs: nil,
			want:  "unavailable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSampler(nil)
			s.interfaceAddrs = func() ([]net.Addr, error) {
				return tt.addrs, nil
			}
			if got := s.readIP(); got != tt.want {
				t.Errorf("readIP() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestClampPercent(t *testing.T) {
	tests := []struct {
		in   int
		want int
	}{
		{-5, 0},
		{0, 0},
		{42, 42},
		{100, 100},
		{250, 100},
	}

	for _, tt := range tests {
		if got := clampPercent(tt.in); got != tt.want {
			t.Errorf("clampPercent(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestSample_NeverFails(t *testing.T) {
	s := NewSampler(nil)
	s.openProcStat = func() (io.ReadCloser, error) {
		return nil, io.ErrUnexpectedEOF
	}
	s.openProcMeminfo = func() (io.ReadCloser, error) {
		return nil, io.ErrUnexpectedEOF
	}
	s.interfaceAddrs = func() ([]net.Addr, error) {
		return nil, io.ErrUnexpectedEOF
	}

	snap := s.Sample(context.Background())
	if snap.CPU != 0 || snap.RAM != 0 {
		t.Errorf("degraded sample = %+v, want zero percentages", snap)
	}
	if snap.IP != "unavailable" {
		t.Errorf("degraded IP = %q, want unavailable", snap.IP)
	}
}
