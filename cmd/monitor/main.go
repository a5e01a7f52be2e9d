package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-pose-estimator/internal/hoststats"
	"go-pose-estimator/internal/logger"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		window   time.Duration
		interval time.Duration
		logLevel string
	)

	cmd := &cobra.Command{
		Use:   "monitor",
		Short: "Print host CPU and memory utilisation until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if window < 0 || interval < 0 {
				return fmt.Errorf("window and interval must not be negative")
			}
			logger.Configure(logLevel, os.Stderr)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			m := &hoststats.Monitor{
				Sampler:  hoststats.NewSampler(),
				Out:      cmd.OutOrStdout(),
				Window:   window,
				Interval: interval,
			}
			if err := m.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}

	cmd.Flags().DurationVar(&window, "window", time.Second, "CPU measurement window per sample")
	cmd.Flags().DurationVar(&interval, "interval", 5*time.Second, "pause between samples")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "log level for sampling errors")
	return cmd
}
