package storage

import (
	"context"
	"fmt"
	"time"
)

// ResultStore persists serialised prediction results. Objects are written once and never updated.
type ResultStore interface {
	// Put writes payload as-is and returns its location.
	Put(ctx context.Context, payload []byte) (string, error)
	// Backend names the storage backend.
	Backend() string
}

// partition is the date/hour bucket and file stem for one write.
type partition struct {
	Date  string // YYYY-MM-DD
	Hour  string // HH
	Stamp string // YYYYMMDDTHHMMSSffffffZ
}

func newPartition(now time.Time) partition {
	t := now.UTC()
	return partition{
		Date:  t.Format("2006-01-02"),
		Hour:  t.Format("15"),
		Stamp: fmt.Sprintf("%s%06dZ", t.Format("20060102T150405"), t.Nanosecond()/1000),
	}
}

// objectKey is the key layout shared by the object-storage backends.
func (p partition) objectKey(prefix string) string {
	return fmt.Sprintf("%sdate=%s/hour=%s/%s.json", prefix, p.Date, p.Hour, p.Stamp)
}
