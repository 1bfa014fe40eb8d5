package reservation

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// keyValueRE captures one `(k1, k2)=(v1, [v2...)` fragment of a Postgres
// exclusion-constraint detail string, e.g.
//
//	Key (resource_id, timespan)=(room-114514, ["2025-06-02 19:00:00+00", "2025-06-05 19:00:00+00"])
//
// It is deliberately narrow: only the fragment shape matters, so
// surrounding prose (which varies across Postgres versions and locales)
// never breaks the match.
var keyValueRE = regexp.MustCompile(`\((?P<k1>[a-zA-Z0-9_-]+)\s*,\s*(?P<k2>[a-zA-Z0-9_-]+)\)=\((?P<v1>[a-zA-Z0-9_-]+)\s*,\s*\[(?P<v2>[^)\]]+)`)

// pgTimestampLayout matches Postgres's default tstzrange text rendering,
// e.g. "2025-06-02 19:00:00+00".
const pgTimestampLayout = "2006-01-02 15:04:05-07"

// ReservationWindow is a (resource_id, start, end) triple surfaced in
// conflict information.
type ReservationWindow struct {
	ResourceID string
	Start      time.Time
	End        time.Time
}

func (w ReservationWindow) Equal(o ReservationWindow) bool {
	return w.ResourceID == o.ResourceID && w.Start.Equal(o.Start) && w.End.Equal(o.End)
}

func (w ReservationWindow) String() string {
	return fmt.Sprintf("%s[%s, %s)", w.ResourceID, w.Start.Format(time.RFC3339), w.End.Format(time.RFC3339))
}

// ReservationConflict holds both windows of a parsed conflict: the one
// the caller attempted to insert, and the one already occupying the
// resource.
type ReservationConflict struct {
	New ReservationWindow
	Old ReservationWindow
}

// ConflictInfo is either a successfully Parsed conflict or the raw
// detail string retained verbatim (Unparsed) when the backend's wording
// didn't match the expected shape. Exactly one of the two is populated.
type ConflictInfo struct {
	Parsed   *ReservationConflict
	Unparsed string
}

func (i ConflictInfo) IsParsed() bool { return i.Parsed != nil }

func (i ConflictInfo) Equal(o ConflictInfo) bool {
	switch {
	case i.Parsed != nil && o.Parsed != nil:
		return i.Parsed.New.Equal(o.Parsed.New) && i.Parsed.Old.Equal(o.Parsed.Old)
	case i.Parsed == nil && o.Parsed == nil:
		return i.Unparsed == o.Unparsed
	default:
		return false
	}
}

func (i ConflictInfo) String() string {
	if i.Parsed != nil {
		return fmt.Sprintf("new=%s old=%s", i.Parsed.New, i.Parsed.Old)
	}
	return i.Unparsed
}

// ParseConflictInfo turns an opaque backend conflict-detail string into
// structured form. It is infallible at the top level: on any input it
// returns a ConflictInfo, falling back to Unparsed(raw) when the detail
// doesn't match the expected two-key shape.
func ParseConflictInfo(raw string) ConflictInfo {
	conflict, ok := parseReservationConflict(raw)
	if !ok {
		return ConflictInfo{Unparsed: raw}
	}
	return ConflictInfo{Parsed: &conflict}
}

func parseReservationConflict(raw string) (ReservationConflict, bool) {
	matches := keyValueRE.FindAllStringSubmatch(raw, -1)
	if len(matches) != 2 {
		return ReservationConflict{}, false
	}

	names := keyValueRE.SubexpNames()
	newWindow, ok := windowFromMatch(matches[0], names)
	if !ok {
		return ReservationConflict{}, false
	}
	oldWindow, ok := windowFromMatch(matches[1], names)
	if !ok {
		return ReservationConflict{}, false
	}

	return ReservationConflict{New: newWindow, Old: oldWindow}, true
}

func windowFromMatch(match []string, names []string) (ReservationWindow, bool) {
	fields := make(map[string]string, len(names))
	for i, name := range names {
		if name == "" {
			continue
		}
		fields[name] = match[i]
	}

	pairs := map[string]string{
		fields["k1"]: fields["v1"],
		fields["k2"]: fields["v2"],
	}

	resourceID, ok := pairs["resource_id"]
	if !ok {
		return ReservationWindow{}, false
	}

	timespan, ok := pairs["timespan"]
	if !ok {
		return ReservationWindow{}, false
	}

	timespan = strings.ReplaceAll(timespan, `"`, "")
	parts := strings.SplitN(timespan, ",", 2)
	if len(parts) != 2 {
		return ReservationWindow{}, false
	}

	start, err := parsePgTimestamp(strings.TrimSpace(parts[0]))
	if err != nil {
		return ReservationWindow{}, false
	}
	end, err := parsePgTimestamp(strings.TrimSpace(parts[1]))
	if err != nil {
		return ReservationWindow{}, false
	}

	return ReservationWindow{ResourceID: resourceID, Start: start, End: end}, true
}

func parsePgTimestamp(s string) (time.Time, error) {
	t, err := time.Parse(pgTimestampLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}
