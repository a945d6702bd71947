package repository // repository holds data access logic for domain entities

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/transit-ticket-booking/internal/layout"
)

// Vehicle represents a bus or train registered by an operator. For
// buses the subclass fixes the seat plan and TotalSeats; for trains
// TotalSeats is whatever the operator asked for at registration.
type Vehicle struct {
	ID          uint64         // vehicles.id
	OwnerID     uint64         // vehicles.owner_id -> users.id
	Class       string         // BUS | TRAIN
	BusSubclass sql.NullString // SUPER_LUXURY | DELUXE | SLEEPER | SEATER, NULL for trains
	Number      string         // registration number, unique across vehicles
	Name        string         // display name
	TotalSeats  int            // equals the number of seat rows generated at creation
	CreatedAt   time.Time
}

// ErrVehicleNotFound is returned when a vehicle lookup fails.
var ErrVehicleNotFound = errors.New("vehicle not found")

// VehicleRepo provides methods to create and retrieve vehicles.
type VehicleRepo struct {
	db *sql.DB
}

// NewVehicleRepo constructs a VehicleRepo with the given DB handle.
func NewVehicleRepo(db *sql.DB) *VehicleRepo {
	return &VehicleRepo{db: db}
}

// DB exposes the underlying handle for callers that need to open a
// transaction spanning several repositories.
func (r *VehicleRepo) DB() *sql.DB { return r.db }

// CreateWithSeats inserts a vehicle together with its generated seat
// plan in one transaction, so a vehicle can never exist with a partial
// layout. The vehicle's ID is populated on success. A duplicate
// registration number yields ErrVehicleNumberExists.
func (r *VehicleRepo) CreateWithSeats(ctx context.Context, v *Vehicle, plan []layout.PlannedSeat) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	const qInsert = `INSERT INTO vehicles (owner_id, class, bus_subclass, vehicle_number, name, total_seats)
	                 VALUES (?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, qInsert, v.OwnerID, v.Class, v.BusSubclass, v.Number, v.Name, v.TotalSeats)
	if err != nil {
		if isDuplicateKey(err) {
			err = ErrVehicleNumberExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	v.ID = uint64(id)

	seats := make([]Seat, 0, len(plan))
	for _, p := range plan {
		seats = append(seats, Seat{VehicleID: v.ID, Label: p.Label, Kind: p.Kind})
	}
	if err = createSeatsBulkTx(ctx, tx, seats); err != nil {
		return err
	}

	const qSelect = `SELECT created_at FROM vehicles WHERE id = ?`
	err = tx.QueryRowContext(ctx, qSelect, v.ID).Scan(&v.CreatedAt)
	return err
}

// GetByID retrieves a vehicle regardless of owner. Returns
// ErrVehicleNotFound when no row exists.
func (r *VehicleRepo) GetByID(ctx context.Context, id uint64) (*Vehicle, error) {
	const q = `SELECT id, owner_id, class, bus_subclass, vehicle_number, name, total_seats, created_at
	           FROM vehicles WHERE id = ?`
	var v Vehicle
	err := r.db.QueryRowContext(ctx, q, id).
		Scan(&v.ID, &v.OwnerID, &v.Class, &v.BusSubclass, &v.Number, &v.Name, &v.TotalSeats, &v.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrVehicleNotFound
		}
		return nil, err
	}
	return &v, nil
}

// ListByOwner returns all vehicles registered by an operator, oldest first.
func (r *VehicleRepo) ListByOwner(ctx context.Context, ownerID uint64) ([]*Vehicle, error) {
	const q = `SELECT id, owner_id, class, bus_subclass, vehicle_number, name, total_seats, created_at
	           FROM vehicles WHERE owner_id = ? ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Vehicle
	for rows.Next() {
		v := new(Vehicle)
		if err := rows.Scan(&v.ID, &v.OwnerID, &v.Class, &v.BusSubclass, &v.Number, &v.Name, &v.TotalSeats, &v.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// OwnerOf returns the owner ID of a vehicle, or ErrVehicleNotFound.
// Used by handlers to enforce ownership before mutations.
func (r *VehicleRepo) OwnerOf(ctx context.Context, vehicleID uint64) (uint64, error) {
	var ownerID uint64
	err := r.db.QueryRowContext(ctx, `SELECT owner_id FROM vehicles WHERE id = ?`, vehicleID).Scan(&ownerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrVehicleNotFound
		}
		return 0, err
	}
	return ownerID, nil
}

// Exists reports whether a vehicle with the given ID exists.
func (r *VehicleRepo) Exists(ctx context.Context, id uint64) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx, `SELECT 1 FROM vehicles WHERE id = ? LIMIT 1`, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
