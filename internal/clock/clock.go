// Package clock abstracts time and identifier generation so business logic
// is deterministic in tests.
package clock

import (
	"time"

	"github.com/google/uuid"

	"docstore/internal/model"
)

// Clock abstracts time retrieval.
type Clock interface {
	Now() time.Time
}

// RealClock returns the actual current time in Location (UTC when nil).
type RealClock struct {
	Location *time.Location
}

func (c RealClock) Now() time.Time {
	if c.Location == nil {
		return time.Now().UTC()
	}
	return time.Now().In(c.Location)
}

// Today formats the clock's current calendar date as YYYY-MM-DD.
func Today(c Clock) string {
	return c.Now().Format(model.DateLayout)
}

// IDGenerator abstracts unique ID generation.
type IDGenerator interface {
	New() string
}

// UUIDGenerator produces random UUIDs.
type UUIDGenerator struct{}

func (UUIDGenerator) New() string { return uuid.New().String() }
