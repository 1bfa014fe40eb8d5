package reservation

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const reservationsTable = "rsvp.reservations"

// Manager is the reservation manager: the six CRUD + query operations
// plus the administrative Block path, each executing a single statement
// against pool in its own implicit transaction. It holds no mutable
// state beyond the pool handle, and is safe for concurrent use.
type Manager struct {
	pool *gorm.DB
}

// NewManager builds a Manager over an already-configured connection
// pool. The manager never establishes or configures the pool itself.
func NewManager(pool *gorm.DB) *Manager {
	return &Manager{pool: pool}
}

// pgRange binds a Range as a Postgres tstzrange literal and parses one
// back out of a query result.
type pgRange Range

func (r pgRange) Value() (driver.Value, error) {
	return fmt.Sprintf("[%s,%s)", r.Start.UTC().Format(time.RFC3339Nano), r.End.UTC().Format(time.RFC3339Nano)), nil
}

func (r *pgRange) Scan(src any) error {
	var s string
	switch v := src.(type) {
	case string:
		s = v
	case []byte:
		s = string(v)
	default:
		return fmt.Errorf("reservation: cannot scan %T into tstzrange", src)
	}

	s = strings.Trim(s, "[)")
	parts := strings.SplitN(s, ",", 2)
	if len(parts) != 2 {
		return fmt.Errorf("reservation: malformed tstzrange %q", s)
	}

	// Accept both the RFC3339 form Value writes and Postgres's own
	// "2025-06-02 19:00:00+00" rendering.
	parseBound := func(b string) (time.Time, error) {
		b = strings.Trim(strings.TrimSpace(b), `"`)
		if t, err := time.Parse(time.RFC3339Nano, b); err == nil {
			return t, nil
		}
		return time.Parse(pgTimestampLayout, b)
	}

	start, err := parseBound(parts[0])
	if err != nil {
		return err
	}
	end, err := parseBound(parts[1])
	if err != nil {
		return err
	}

	r.Start, r.End = start.UTC(), end.UTC()
	return nil
}

// dbReservation is the row shape of rsvp.reservations.
type dbReservation struct {
	ID         uuid.UUID
	UserID     string
	ResourceID string
	Timespan   pgRange
	Note       string
	Status     Status
	Metadata   datatypes.JSONMap
}

func (row dbReservation) toDomain() Reservation {
	var metadata map[string]any
	if len(row.Metadata) > 0 {
		metadata = map[string]any(row.Metadata)
	}

	return Reservation{
		ID:         row.ID.String(),
		UserID:     row.UserID,
		ResourceID: row.ResourceID,
		Start:      row.Timespan.Start,
		End:        row.Timespan.End,
		Note:       row.Note,
		Status:     row.Status,
		Metadata:   metadata,
	}
}

func parseReservationID(id string) (uuid.UUID, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, NewInvalidReservationIDError(id)
	}
	return parsed, nil
}

// Reserve validates r, assigns it a fresh id, and inserts it under the
// resource's interval-exclusion constraint. On success r.ID is stamped
// and the full record returned.
func (m *Manager) Reserve(ctx context.Context, r Reservation) (Reservation, error) {
	if err := r.Validate(); err != nil {
		return Reservation{}, err
	}

	status := r.Status
	if status != StatusPending && status != StatusConfirmed && status != StatusBlocked {
		status = StatusPending
	}

	var id string
	err := m.pool.WithContext(ctx).
		Raw(
			`INSERT INTO `+reservationsTable+` (user_id, resource_id, timespan, note, status)
			 VALUES (?, ?, ?::tstzrange, ?, ?::rsvp.reservation_status)
			 RETURNING id`,
			r.UserID, r.ResourceID, pgRange(r.Timespan()), r.Note, status.String(),
		).
		Scan(&id).Error
	if err != nil {
		return Reservation{}, ClassifyStoreError(err)
	}

	r.ID = id
	r.Status = status
	return r, nil
}

// ChangeStatus confirms a PENDING reservation. Applied to any other
// status it is a no-op at the row level, surfaced as NotFoundError.
func (m *Manager) ChangeStatus(ctx context.Context, id string) (Reservation, error) {
	uid, err := parseReservationID(id)
	if err != nil {
		return Reservation{}, err
	}

	var row dbReservation
	err = m.pool.WithContext(ctx).
		Raw(
			`UPDATE `+reservationsTable+`
			 SET status = 'CONFIRMED'
			 WHERE id = ? AND status = 'PENDING'
			 RETURNING id, user_id, resource_id, timespan, note, status, metadata`,
			uid,
		).
		Scan(&row).Error
	if err != nil {
		return Reservation{}, ClassifyStoreError(err)
	}
	if row.ID == uuid.Nil {
		return Reservation{}, NewNotFoundError()
	}

	return row.toDomain(), nil
}

// Block administratively transitions a reservation into BLOCKED,
// recording reason as JSON metadata. Unlike ChangeStatus this applies
// regardless of the row's current status.
func (m *Manager) Block(ctx context.Context, id string, reason string) (Reservation, error) {
	uid, err := parseReservationID(id)
	if err != nil {
		return Reservation{}, err
	}

	metadata, err := json.Marshal(map[string]string{"reason": reason})
	if err != nil {
		return Reservation{}, NewDatabaseError(err)
	}

	var row dbReservation
	err = m.pool.WithContext(ctx).
		Raw(
			`UPDATE `+reservationsTable+`
			 SET status = 'BLOCKED', metadata = ?::jsonb
			 WHERE id = ?
			 RETURNING id, user_id, resource_id, timespan, note, status, metadata`,
			metadata, uid,
		).
		Scan(&row).Error
	if err != nil {
		return Reservation{}, ClassifyStoreError(err)
	}
	if row.ID == uuid.Nil {
		return Reservation{}, NewNotFoundError()
	}

	return row.toDomain(), nil
}

// UpdateNote rewrites a reservation's note field, leaving everything
// else unchanged.
func (m *Manager) UpdateNote(ctx context.Context, id string, note string) (Reservation, error) {
	uid, err := parseReservationID(id)
	if err != nil {
		return Reservation{}, err
	}

	var row dbReservation
	err = m.pool.WithContext(ctx).
		Raw(
			`UPDATE `+reservationsTable+`
			 SET note = ?
			 WHERE id = ?
			 RETURNING id, user_id, resource_id, timespan, note, status, metadata`,
			note, uid,
		).
		Scan(&row).Error
	if err != nil {
		return Reservation{}, ClassifyStoreError(err)
	}
	if row.ID == uuid.Nil {
		return Reservation{}, NewNotFoundError()
	}

	return row.toDomain(), nil
}

// Delete hard-removes a reservation. Deleting an id that doesn't exist
// is not an error, matching spec.md's framing of delete as idempotent
// hard removal.
func (m *Manager) Delete(ctx context.Context, id string) error {
	uid, err := parseReservationID(id)
	if err != nil {
		return err
	}

	err = m.pool.WithContext(ctx).
		Exec(`DELETE FROM `+reservationsTable+` WHERE id = ?`, uid).Error
	if err != nil {
		return ClassifyStoreError(err)
	}
	return nil
}

// Get fetches a single reservation by id.
func (m *Manager) Get(ctx context.Context, id string) (Reservation, error) {
	uid, err := parseReservationID(id)
	if err != nil {
		return Reservation{}, err
	}

	var row dbReservation
	err = m.pool.WithContext(ctx).
		Raw(
			`SELECT id, user_id, resource_id, timespan, note, status, metadata
			 FROM `+reservationsTable+`
			 WHERE id = ?`,
			uid,
		).
		Scan(&row).Error
	if err != nil {
		return Reservation{}, ClassifyStoreError(err)
	}
	if row.ID == uuid.Nil {
		return Reservation{}, NewNotFoundError()
	}

	return row.toDomain(), nil
}

// Query filters reservations by user, resource, status and timespan,
// ordered by start time (descending when Desc is set) with 1-based
// pagination. Rows with equal start times come back in no defined order.
func (m *Manager) Query(ctx context.Context, q Query) ([]Reservation, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	page := q.Page
	if page < 1 {
		page = 1
	}
	pageSize := q.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}

	order := "lower(timespan) ASC"
	if q.Desc {
		order = "lower(timespan) DESC"
	}

	tx := m.pool.WithContext(ctx).
		Table(reservationsTable).
		Where("timespan && ?::tstzrange", pgRange(q.Timespan()))

	if q.UserID != "" {
		tx = tx.Where("user_id = ?", q.UserID)
	}
	if q.ResourceID != "" {
		tx = tx.Where("resource_id = ?", q.ResourceID)
	}
	if q.Status != StatusUnknown {
		tx = tx.Where("status = ?::rsvp.reservation_status", q.Status.String())
	}

	var rows []dbReservation
	err := tx.
		Select("id, user_id, resource_id, timespan, note, status, metadata").
		Order(order).
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Scan(&rows).Error
	if err != nil {
		return nil, ClassifyStoreError(err)
	}

	out := make([]Reservation, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}
