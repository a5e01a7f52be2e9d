package hoststats

import (
	"context"
	"fmt"
	"io"
	"time"

	"go-pose-estimator/internal/logger"
)

// Monitor prints a host reading every Interval until its context ends.
type Monitor struct {
	Sampler  Sampler
	Out      io.Writer
	Window   time.Duration
	Interval time.Duration
}

// Run samples, prints "CPU: x%, Memory: y%", sleeps and repeats.
// Sampling errors are logged and the loop carries on.
func (m *Monitor) Run(ctx context.Context) error {
	for {
		stats, err := m.Sampler.Sample(ctx, m.Window)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			logger.WithError(err).Warn("Host sample failed")
		} else {
			fmt.Fprintf(m.Out, "CPU: %.1f%%, Memory: %.1f%%\n", stats.CPUPercent, stats.MemPercent)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(m.Interval):
		}
	}
}
