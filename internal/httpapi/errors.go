package httpapi

import (
	"errors"
	"net/http"

	"rsvp/internal/reservation"
)

// statusFor maps the reservation error taxonomy onto HTTP status codes.
// Anything unrecognized (including a nil-safe default) is a 500.
func statusFor(err error) int {
	var (
		conflict  *reservation.ConflictReservationError
		timespan  *reservation.InvalidTimespanError
		badRsvID  *reservation.InvalidReservationIDError
		badUserID *reservation.InvalidUserIDError
		badResID  *reservation.InvalidResourceIDError
		notFound  *reservation.NotFoundError
	)

	switch {
	case errors.As(err, &conflict):
		return http.StatusConflict
	case errors.As(err, &timespan), errors.As(err, &badRsvID), errors.As(err, &badUserID), errors.As(err, &badResID):
		return http.StatusBadRequest
	case errors.As(err, &notFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// errorPayload renders err into the envelope's Error field. Conflict
// details are surfaced structurally so callers can resolve them without
// re-parsing prose; everything else degrades to its message.
func errorPayload(err error) interface{} {
	var conflict *reservation.ConflictReservationError
	if errors.As(err, &conflict) {
		payload := map[string]any{"reason": "conflict"}
		if conflict.Info.IsParsed() {
			payload["new"] = conflict.Info.Parsed.New
			payload["existing"] = conflict.Info.Parsed.Old
		} else {
			payload["detail"] = conflict.Info.Unparsed
		}
		return payload
	}
	return err.Error()
}
