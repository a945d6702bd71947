package repository

import (
	"context"
	"database/sql"
	"time"
)

// Complaint is a traveler's free-text report against a vehicle. It is
// independent of any booking; it matters to the core only because it
// participates in the owner deletion cascade. ImageRef optionally
// points at an uploaded attachment handled outside this service.
type Complaint struct {
	ID        uint64         `json:"id"`
	UserID    uint64         `json:"user_id"`
	VehicleID uint64         `json:"vehicle_id"`
	Text      string         `json:"text"`
	ImageRef  sql.NullString `json:"-"`
	CreatedAt time.Time      `json:"created_at"`
}

// ComplaintRepo provides create and list operations for complaints.
type ComplaintRepo struct {
	db *sql.DB
}

// NewComplaintRepo constructs a ComplaintRepo with the given DB handle.
func NewComplaintRepo(db *sql.DB) *ComplaintRepo {
	return &ComplaintRepo{db: db}
}

// Create inserts a complaint and populates its ID and timestamp.
func (r *ComplaintRepo) Create(ctx context.Context, c *Complaint) error {
	const q = `INSERT INTO complaints (user_id, vehicle_id, complaint_text, image_ref) VALUES (?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, c.UserID, c.VehicleID, c.Text, c.ImageRef)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = uint64(id)

	const sel = `SELECT created_at FROM complaints WHERE id = ?`
	return r.db.QueryRowContext(ctx, sel, c.ID).Scan(&c.CreatedAt)
}

// ListByOwner returns complaints filed against any of an operator's
// vehicles, newest first.
func (r *ComplaintRepo) ListByOwner(ctx context.Context, ownerID uint64) ([]Complaint, error) {
	const q = `SELECT c.id, c.user_id, c.vehicle_id, c.complaint_text, c.image_ref, c.created_at
	           FROM complaints c
	           JOIN vehicles v ON v.id = c.vehicle_id
	           WHERE v.owner_id = ?
	           ORDER BY c.created_at DESC, c.id DESC`
	rows, err := r.db.QueryContext(ctx, q, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Complaint, 0)
	for rows.Next() {
		var c Complaint
		if err := rows.Scan(&c.ID, &c.UserID, &c.VehicleID, &c.Text, &c.ImageRef, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
