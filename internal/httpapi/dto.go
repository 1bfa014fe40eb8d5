package httpapi

import "time"

// ReserveRequest is the body of POST /reservations.
type ReserveRequest struct {
	UserID     string    `json:"user_id" binding:"required"`
	ResourceID string    `json:"resource_id" binding:"required"`
	Start      time.Time `json:"start" binding:"required"`
	End        time.Time `json:"end" binding:"required"`
	Note       string    `json:"note" binding:"omitempty,max=2000"`
}

// UpdateNoteRequest is the body of PATCH /reservations/:id/note.
type UpdateNoteRequest struct {
	Note string `json:"note" binding:"max=2000"`
}

// BlockRequest is the body of POST /reservations/:id/block.
type BlockRequest struct {
	Reason string `json:"reason" binding:"required,max=500"`
}

// QueryParams binds GET /reservations filters.
type QueryParams struct {
	UserID     string    `form:"user_id"`
	ResourceID string    `form:"resource_id"`
	Status     string    `form:"status" binding:"omitempty,oneof=PENDING CONFIRMED BLOCKED"`
	Start      time.Time `form:"start" binding:"required" time_format:"2006-01-02T15:04:05Z07:00"`
	End        time.Time `form:"end" binding:"required" time_format:"2006-01-02T15:04:05Z07:00"`
	Page       int       `form:"page,default=1" binding:"min=1"`
	PageSize   int       `form:"page_size" binding:"min=1,max=200"`
	Desc       bool      `form:"desc"`
}

// ReservationView is the wire shape of a reservation.
type ReservationView struct {
	ID         string         `json:"id"`
	UserID     string         `json:"user_id"`
	ResourceID string         `json:"resource_id"`
	Start      time.Time      `json:"start"`
	End        time.Time      `json:"end"`
	Note       string         `json:"note"`
	Status     string         `json:"status"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}
