package reservation

import "time"

// Query is a reservation search predicate. UserID and ResourceID empty
// means "any"; Start/End bound the window of interest and are required.
type Query struct {
	UserID     string
	ResourceID string
	Start      time.Time
	End        time.Time
	Status     Status
	Page       int
	PageSize   int
	Desc       bool
}

// Validate checks the query's required timespan.
func (q Query) Validate() error {
	_, err := NewRange(q.Start, q.End)
	return err
}

// Timespan returns the query's half-open [Start, End) window.
func (q Query) Timespan() Range {
	return Range{Start: q.Start, End: q.End}
}
