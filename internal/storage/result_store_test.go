package storage

import (
	"testing"
	"time"
)

func TestNewPartition(t *testing.T) {
	now := time.Date(2024, 3, 7, 9, 5, 2, 123456789, time.FixedZone("X", 2*3600))
	p := newPartition(now)

	if p.Date != "2024-03-07" {
		t.Errorf("Expected UTC date 2024-03-07, got %s", p.Date)
	}
	if p.Hour != "07" {
		t.Errorf("Expected UTC hour 07, got %s", p.Hour)
	}
	if p.Stamp != "20240307T070502123456Z" {
		t.Errorf("Expected microsecond stamp, got %s", p.Stamp)
	}
}

func TestObjectKey(t *testing.T) {
	p := newPartition(time.Date(2024, 12, 31, 23, 0, 0, 1000, time.UTC))
	want := "results/date=2024-12-31/hour=23/20241231T230000000001Z.json"
	if got := p.objectKey("results/"); got != want {
		t.Errorf("Expected %s, got %s", want, got)
	}
}
