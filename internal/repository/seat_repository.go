package repository // repository defines data access for seats

import (
	"context"
	"database/sql"
)

// Seat is one seat of a vehicle's fixed layout. The label is unique
// per vehicle and is the key travelers book against; occupancy is not
// stored here but derived per schedule from CONFIRMED bookings.
type Seat struct {
	ID        uint64 `json:"id"`
	VehicleID uint64 `json:"vehicle_id"`
	Label     string `json:"label"` // e.g. 1A, L7, S42
	Kind      string `json:"kind"`  // SEATER | SLEEPER | SEMI_SLEEPER
}

// SeatRepo provides read access to seat layouts. Seats are written
// only once, inside VehicleRepo.CreateWithSeats.
type SeatRepo struct {
	db *sql.DB
}

// NewSeatRepo constructs a SeatRepo with the given DB handle.
func NewSeatRepo(db *sql.DB) *SeatRepo {
	return &SeatRepo{db: db}
}

// createSeatsBulkTx inserts all seats of a layout in a single statement
// within the provided transaction. Passing an empty slice is a no-op.
func createSeatsBulkTx(ctx context.Context, tx *sql.Tx, seats []Seat) error {
	if len(seats) == 0 {
		return nil
	}
	query := `INSERT INTO seats (vehicle_id, label, kind) VALUES `
	args := make([]interface{}, 0, len(seats)*3)
	for i, s := range seats {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?)"
		args = append(args, s.VehicleID, s.Label, s.Kind)
	}
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}

// GetByVehicle retrieves a vehicle's seats in layout order (insertion
// order, which the generator guarantees is deterministic).
func (r *SeatRepo) GetByVehicle(ctx context.Context, vehicleID uint64) ([]Seat, error) {
	const q = `SELECT id, vehicle_id, label, kind
	           FROM seats
	           WHERE vehicle_id = ?
	           ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q, vehicleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Seat
	for rows.Next() {
		var s Seat
		if err := rows.Scan(&s.ID, &s.VehicleID, &s.Label, &s.Kind); err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// CountByVehicle returns the number of seat rows for a vehicle. Useful
// for verifying the layout invariant against vehicles.total_seats.
func (r *SeatRepo) CountByVehicle(ctx context.Context, vehicleID uint64) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM seats WHERE vehicle_id = ?`, vehicleID).Scan(&n)
	return n, err
}
