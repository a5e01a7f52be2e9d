package main

import (
	"testing"
	"time"
)

func TestRootCmd_Defaults(t *testing.T) {
	cmd := newRootCmd()

	window, err := cmd.Flags().GetDuration("window")
	if err != nil || window != time.Second {
		t.Errorf("Expected 1s window, got %v (%v)", window, err)
	}
	interval, err := cmd.Flags().GetDuration("interval")
	if err != nil || interval != 5*time.Second {
		t.Errorf("Expected 5s interval, got %v (%v)", interval, err)
	}
}

func TestRootCmd_RejectsNegativeDurations(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetArgs([]string{"--interval=-1s"})
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	if err := cmd.Execute(); err == nil {
		t.Fatal("Expected negative interval to be rejected")
	}
}

func TestRootCmd_RejectsArgs(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetArgs([]string{"extra"})
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	if err := cmd.Execute(); err == nil {
		t.Fatal("Expected positional arguments to be rejected")
	}
}
