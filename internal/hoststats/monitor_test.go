package hoststats

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"
)

type scriptedSampler struct {
	mu      sync.Mutex
	calls   int
	results []Stats
	errs    []error
	onCall  func(n int)
	windows []time.Duration
}

func (s *scriptedSampler) Sample(ctx context.Context, window time.Duration) (Stats, error) {
	s.mu.Lock()
	n := s.calls
	s.calls++
	s.windows = append(s.windows, window)
	s.mu.Unlock()

	if s.onCall != nil {
		s.onCall(n)
	}
	if n < len(s.errs) && s.errs[n] != nil {
		return Stats{}, s.errs[n]
	}
	if n < len(s.results) {
		return s.results[n], nil
	}
	return Stats{}, nil
}

func TestMonitor_PrintsReadings(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sampler := &scriptedSampler{
		results: []Stats{{CPUPercent: 12.5, MemPercent: 40}, {CPUPercent: 80, MemPercent: 41.25}},
		onCall: func(n int) {
			if n == 1 {
				cancel()
			}
		},
	}
	var out bytes.Buffer
	m := &Monitor{Sampler: sampler, Out: &out, Window: time.Second, Interval: time.Millisecond}

	err := m.Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Expected context.Canceled, got %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("Expected 2 lines, got %q", out.String())
	}
	if lines[0] != "CPU: 12.5%, Memory: 40.0%" {
		t.Errorf("Unexpected first line %q", lines[0])
	}
	if sampler.windows[0] != time.Second {
		t.Errorf("Expected 1s sampling window, got %v", sampler.windows[0])
	}
}

func TestMonitor_ContinuesAfterSampleError(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sampler := &scriptedSampler{
		errs:    []error{errors.New("procfs unavailable")},
		results: []Stats{{}, {CPUPercent: 1, MemPercent: 2}},
		onCall: func(n int) {
			if n == 1 {
				cancel()
			}
		},
	}
	var out bytes.Buffer
	m := &Monitor{Sampler: sampler, Out: &out, Interval: time.Millisecond}

	_ = m.Run(ctx)

	if !strings.Contains(out.String(), "CPU: 1.0%, Memory: 2.0%") {
		t.Errorf("Expected reading after a failed sample, got %q", out.String())
	}
}

func TestGopsutilSampler_Sample(t *testing.T) {
	stats, err := NewSampler().Sample(context.Background(), 0)
	if err != nil {
		t.Skipf("host stats unavailable: %v", err)
	}
	if stats.MemPercent <= 0 || stats.MemPercent > 100 {
		t.Errorf("Memory percent out of range: %v", stats.MemPercent)
	}
	if stats.CPUPercent < 0 || stats.CPUPercent > 100 {
		t.Errorf("CPU percent out of range: %v", stats.CPUPercent)
	}
}
