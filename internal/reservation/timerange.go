package reservation

import (
	"time"

	"google.golang.org/protobuf/types/known/timestamppb"
)

// Range is a half-open interval [Start, End) in UTC.
type Range struct {
	Start time.Time
	End   time.Time
}

// NewRange builds a half-open [start, end) range, failing with
// InvalidTimespanError unless start is strictly before end.
func NewRange(start, end time.Time) (Range, error) {
	if err := validateBounds(start, end); err != nil {
		return Range{}, err
	}
	return Range{Start: start.UTC(), End: end.UTC()}, nil
}

func validateBounds(start, end time.Time) error {
	if start.IsZero() || end.IsZero() {
		return NewInvalidTimespanError()
	}
	// Whole-second granularity, per spec.
	if start.Unix() >= end.Unix() {
		return NewInvalidTimespanError()
	}
	return nil
}

// ToUTC converts a protobuf wire timestamp into a UTC instant.
func ToUTC(ts *timestamppb.Timestamp) time.Time {
	if ts == nil {
		return time.Time{}
	}
	return ts.AsTime().UTC()
}

// ToTimestamp converts a UTC instant into the (seconds, nanos) wire shape.
func ToTimestamp(t time.Time) *timestamppb.Timestamp {
	return timestamppb.New(t.UTC())
}

// ValidateRange validates a pair of optional wire timestamps, failing
// with InvalidTimespanError when either is absent or start >= end at
// whole-second granularity.
func ValidateRange(start, end *timestamppb.Timestamp) error {
	if start == nil || end == nil {
		return NewInvalidTimespanError()
	}
	return validateBounds(ToUTC(start), ToUTC(end))
}
