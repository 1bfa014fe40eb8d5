package reservation

import (
	"errors"
	"testing"
	"time"
)

func TestNewPendingReservationNormalizesToUTC(t *testing.T) {
	loc := time.FixedZone("PDT", -7*3600)
	start := time.Date(2025, 6, 1, 12, 0, 0, 0, loc)
	end := time.Date(2025, 6, 1, 14, 0, 0, 0, loc)

	r := NewPendingReservation("kobe", "room-114514", start, end, "")

	if r.Start.Location() != time.UTC || r.End.Location() != time.UTC {
		t.Errorf("expected UTC-normalized bounds, got start loc=%v end loc=%v", r.Start.Location(), r.End.Location())
	}
	if r.Status != StatusPending {
		t.Errorf("Status = %v, want StatusPending", r.Status)
	}
	if r.ID != "" {
		t.Errorf("ID = %q, want empty before Reserve assigns one", r.ID)
	}
}

func TestReservationValidateRequiresUserID(t *testing.T) {
	r := NewPendingReservation("", "room-1", time.Now(), time.Now().Add(time.Hour), "")

	var invalid *InvalidUserIDError
	if !errors.As(r.Validate(), &invalid) {
		t.Errorf("Validate() = %v, want *InvalidUserIDError", r.Validate())
	}
}

func TestReservationValidateRequiresResourceID(t *testing.T) {
	r := NewPendingReservation("kobe", "", time.Now(), time.Now().Add(time.Hour), "")

	var invalid *InvalidResourceIDError
	if !errors.As(r.Validate(), &invalid) {
		t.Errorf("Validate() = %v, want *InvalidResourceIDError", r.Validate())
	}
}

func TestReservationValidateRequiresTimespan(t *testing.T) {
	now := time.Now()
	r := NewPendingReservation("kobe", "room-1", now, now, "")

	var invalid *InvalidTimespanError
	if !errors.As(r.Validate(), &invalid) {
		t.Errorf("Validate() = %v, want *InvalidTimespanError", r.Validate())
	}
}

func TestReservationTimespan(t *testing.T) {
	start := time.Now()
	end := start.Add(time.Hour)
	r := NewPendingReservation("kobe", "room-1", start, end, "")

	span := r.Timespan()
	if !span.Start.Equal(start.UTC()) || !span.End.Equal(end.UTC()) {
		t.Errorf("Timespan() = %+v", span)
	}
}
