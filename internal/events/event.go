// Package events broadcasts reservation lifecycle notifications to
// connected websocket subscribers.
package events

import (
	"time"

	"google.golang.org/protobuf/types/known/timestamppb"

	"rsvp/internal/reservation"
)

// Kind identifies what happened to a reservation.
type Kind string

const (
	KindCreated     Kind = "created"
	KindConfirmed   Kind = "confirmed"
	KindNoteUpdated Kind = "note_updated"
	KindDeleted     Kind = "deleted"
	KindBlocked     Kind = "blocked"
	KindConflict    Kind = "conflict"
)

// Event is the wire shape pushed to subscribers. Start/End use the
// (seconds, nanos) timestamp pair rather than an RFC3339 string, mirroring
// the reservation manager's own wire format instead of reinventing one
// for the event feed.
type Event struct {
	Kind       Kind                   `json:"kind"`
	ID         string                 `json:"id,omitempty"`
	UserID     string                 `json:"user_id,omitempty"`
	ResourceID string                 `json:"resource_id,omitempty"`
	Start      *timestamppb.Timestamp `json:"start,omitempty"`
	End        *timestamppb.Timestamp `json:"end,omitempty"`
	Status     string                 `json:"status,omitempty"`
	Detail     string                 `json:"detail,omitempty"`
	At         *timestamppb.Timestamp `json:"at"`
}

func newEvent(kind Kind, r reservation.Reservation) Event {
	return Event{
		Kind:       kind,
		ID:         r.ID,
		UserID:     r.UserID,
		ResourceID: r.ResourceID,
		Start:      reservation.ToTimestamp(r.Start),
		End:        reservation.ToTimestamp(r.End),
		Status:     r.Status.String(),
		At:         reservation.ToTimestamp(time.Now()),
	}
}

// Created builds the event emitted after a successful Reserve.
func Created(r reservation.Reservation) Event { return newEvent(KindCreated, r) }

// Confirmed builds the event emitted after a successful ChangeStatus.
func Confirmed(r reservation.Reservation) Event { return newEvent(KindConfirmed, r) }

// NoteUpdated builds the event emitted after a successful UpdateNote.
func NoteUpdated(r reservation.Reservation) Event { return newEvent(KindNoteUpdated, r) }

// Blocked builds the event emitted after a successful Block.
func Blocked(r reservation.Reservation) Event { return newEvent(KindBlocked, r) }

// Deleted builds the event emitted after a successful Delete, which
// only has an id to report.
func Deleted(id string) Event {
	return Event{Kind: KindDeleted, ID: id, At: reservation.ToTimestamp(time.Now())}
}

// Conflict builds the event emitted when a Reserve is rejected by the
// exclusion constraint, so subscribers can see contention without
// polling.
func Conflict(resourceID string, info reservation.ConflictInfo) Event {
	return Event{
		Kind:       KindConflict,
		ResourceID: resourceID,
		Detail:     info.String(),
		At:         reservation.ToTimestamp(time.Now()),
	}
}
