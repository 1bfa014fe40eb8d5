package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"rsvp/internal/events"
	"rsvp/internal/reservation"
)

// Handler holds the dependencies every route needs: the manager that
// owns all storage access, and the hub that mirrors lifecycle changes
// to websocket subscribers.
type Handler struct {
	mgr  *reservation.Manager
	hub  *events.Hub
	page int
}

// NewHandler builds a Handler. defaultPageSize backs Query when the
// caller doesn't specify one.
func NewHandler(mgr *reservation.Manager, hub *events.Hub, defaultPageSize int) *Handler {
	return &Handler{mgr: mgr, hub: hub, page: defaultPageSize}
}

func toView(r reservation.Reservation) ReservationView {
	return ReservationView{
		ID:         r.ID,
		UserID:     r.UserID,
		ResourceID: r.ResourceID,
		Start:      r.Start,
		End:        r.End,
		Note:       r.Note,
		Status:     r.Status.String(),
		Metadata:   r.Metadata,
	}
}

func respondError(c *gin.Context, err error) {
	c.JSON(statusFor(err), failure(err.Error(), errorPayload(err)))
}

// Reserve handles POST /reservations.
func (h *Handler) Reserve(c *gin.Context) {
	var req ReserveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, failure("invalid request body", err.Error()))
		return
	}

	r := reservation.NewPendingReservation(req.UserID, req.ResourceID, req.Start, req.End, req.Note)
	created, err := h.mgr.Reserve(c.Request.Context(), r)
	if err != nil {
		var conflict *reservation.ConflictReservationError
		if errors.As(err, &conflict) {
			h.hub.Broadcast(events.Conflict(req.ResourceID, conflict.Info))
		}
		respondError(c, err)
		return
	}

	h.hub.Broadcast(events.Created(created))
	c.JSON(http.StatusCreated, success("reservation created", toView(created)))
}

// ChangeStatus handles POST /reservations/:id/confirm.
func (h *Handler) ChangeStatus(c *gin.Context) {
	id := c.Param("id")
	updated, err := h.mgr.ChangeStatus(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	h.hub.Broadcast(events.Confirmed(updated))
	c.JSON(http.StatusOK, success("reservation confirmed", toView(updated)))
}

// Block handles POST /reservations/:id/block. Admin-only, enforced by
// the RequireAdmin middleware on the route group.
func (h *Handler) Block(c *gin.Context) {
	id := c.Param("id")

	var req BlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, failure("invalid request body", err.Error()))
		return
	}

	blocked, err := h.mgr.Block(c.Request.Context(), id, req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}

	h.hub.Broadcast(events.Blocked(blocked))
	c.JSON(http.StatusOK, success("reservation blocked", toView(blocked)))
}

// UpdateNote handles PATCH /reservations/:id/note.
func (h *Handler) UpdateNote(c *gin.Context) {
	id := c.Param("id")

	var req UpdateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, failure("invalid request body", err.Error()))
		return
	}

	updated, err := h.mgr.UpdateNote(c.Request.Context(), id, req.Note)
	if err != nil {
		respondError(c, err)
		return
	}

	h.hub.Broadcast(events.NoteUpdated(updated))
	c.JSON(http.StatusOK, success("note updated", toView(updated)))
}

// Delete handles DELETE /reservations/:id. Admin-only.
func (h *Handler) Delete(c *gin.Context) {
	id := c.Param("id")
	if err := h.mgr.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	h.hub.Broadcast(events.Deleted(id))
	c.JSON(http.StatusOK, success("reservation deleted", nil))
}

// Get handles GET /reservations/:id.
func (h *Handler) Get(c *gin.Context) {
	id := c.Param("id")
	r, err := h.mgr.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, success("reservation found", toView(r)))
}

// Query handles GET /reservations.
func (h *Handler) Query(c *gin.Context) {
	var params QueryParams
	params.PageSize = h.page
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, failure("invalid query parameters", err.Error()))
		return
	}

	q := reservation.Query{
		UserID:     params.UserID,
		ResourceID: params.ResourceID,
		Status:     reservation.ParseStatus(params.Status),
		Start:      params.Start,
		End:        params.End,
		Page:       params.Page,
		PageSize:   params.PageSize,
		Desc:       params.Desc,
	}

	rows, err := h.mgr.Query(c.Request.Context(), q)
	if err != nil {
		respondError(c, err)
		return
	}

	views := make([]ReservationView, 0, len(rows))
	for _, r := range rows {
		views = append(views, toView(r))
	}

	c.JSON(http.StatusOK, successPage("reservations found", views, pageMeta{
		Page:     params.Page,
		PageSize: params.PageSize,
		Count:    len(views),
	}))
}
