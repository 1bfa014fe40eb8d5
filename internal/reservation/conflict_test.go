package reservation

import (
	"testing"
	"time"
)

func TestParseConflictInfoParsesTwoWindows(t *testing.T) {
	raw := `Key (resource_id, timespan)=(room-114514, ["2025-06-02 19:00:00+00", "2025-06-05 19:00:00+00")) ` +
		`conflicts with existing key (resource_id, timespan)=(room-114514, ["2025-06-01 19:00:00+00", "2025-06-03 19:00:00+00"))`

	info := ParseConflictInfo(raw)
	if !info.IsParsed() {
		t.Fatalf("expected parsed conflict, got unparsed: %q", info.Unparsed)
	}

	wantNew := ReservationWindow{
		ResourceID: "room-114514",
		Start:      time.Date(2025, 6, 2, 19, 0, 0, 0, time.UTC),
		End:        time.Date(2025, 6, 5, 19, 0, 0, 0, time.UTC),
	}
	wantOld := ReservationWindow{
		ResourceID: "room-114514",
		Start:      time.Date(2025, 6, 1, 19, 0, 0, 0, time.UTC),
		End:        time.Date(2025, 6, 3, 19, 0, 0, 0, time.UTC),
	}

	if !info.Parsed.New.Equal(wantNew) {
		t.Errorf("New = %s, want %s", info.Parsed.New, wantNew)
	}
	if !info.Parsed.Old.Equal(wantOld) {
		t.Errorf("Old = %s, want %s", info.Parsed.Old, wantOld)
	}
}

func TestParseConflictInfoFallsBackToUnparsed(t *testing.T) {
	raw := "some backend-specific detail string that doesn't match the expected shape"

	info := ParseConflictInfo(raw)
	if info.IsParsed() {
		t.Fatalf("expected unparsed, got parsed: %+v", info.Parsed)
	}
	if info.Unparsed != raw {
		t.Errorf("Unparsed = %q, want %q", info.Unparsed, raw)
	}
}

func TestParseConflictInfoIsTotal(t *testing.T) {
	inputs := []string{"", "()", "garbage", "Key (a, b)=(c, [d)", "\x00\x01malformed"}
	for _, raw := range inputs {
		func() {
			defer func() {
				if r := recover(); r != nil {
					t.Errorf("ParseConflictInfo(%q) panicked: %v", raw, r)
				}
			}()
			_ = ParseConflictInfo(raw)
		}()
	}
}

func TestConflictInfoEqual(t *testing.T) {
	a := ConflictInfo{Unparsed: "same"}
	b := ConflictInfo{Unparsed: "same"}
	c := ConflictInfo{Unparsed: "different"}

	if !a.Equal(b) {
		t.Error("identical unparsed infos should be equal")
	}
	if a.Equal(c) {
		t.Error("different unparsed infos should not be equal")
	}

	parsed := ConflictInfo{Parsed: &ReservationConflict{
		New: ReservationWindow{ResourceID: "r1"},
		Old: ReservationWindow{ResourceID: "r2"},
	}}
	if parsed.Equal(a) {
		t.Error("parsed and unparsed infos should never be equal")
	}
}
