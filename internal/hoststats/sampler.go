package hoststats

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// Stats is one host resource reading, in percent.
type Stats struct {
	CPUPercent float64
	MemPercent float64
}

// Sampler reads host CPU and memory utilisation. A zero window returns the
// CPU usage since the previous call without blocking.
type Sampler interface {
	Sample(ctx context.Context, window time.Duration) (Stats, error)
}

// GopsutilSampler implements Sampler with gopsutil.
type GopsutilSampler struct{}

// NewSampler creates a host sampler backed by gopsutil.
func NewSampler() Sampler {
	return GopsutilSampler{}
}

// Sample blocks for window while measuring CPU, then reads virtual memory.
func (GopsutilSampler) Sample(ctx context.Context, window time.Duration) (Stats, error) {
	percents, err := cpu.PercentWithContext(ctx, window, false)
	if err != nil {
		return Stats{}, fmt.Errorf("cpu percent: %w", err)
	}
	if len(percents) == 0 {
		return Stats{}, errors.New("cpu percent: no samples")
	}

	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("virtual memory: %w", err)
	}

	return Stats{CPUPercent: percents[0], MemPercent: vm.UsedPercent}, nil
}
