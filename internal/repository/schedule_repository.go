package repository

import (
	"context"
	"database/sql"
	"errors"
)

// Schedule is one departure of a vehicle along a route on a date.
// AvailableSeats is the mutable inventory counter: it starts at the
// vehicle's capacity when the schedule is created and is decremented
// inside the same transaction as each booking insert. Later changes to
// the vehicle do not touch existing schedules.
type Schedule struct {
	ID             uint64 // schedules.id
	VehicleID      uint64 // schedules.vehicle_id
	RouteID        uint64 // schedules.route_id
	TravelDate     string // DATE as YYYY-MM-DD
	DepartureTime  string // TIME as HH:MM:SS
	ArrivalTime    string // TIME as HH:MM:SS
	PriceCents     uint32 // fare in cents
	AvailableSeats int    // capacity minus CONFIRMED bookings
}

// ScheduleView joins a schedule with its vehicle, route and operator
// for search results and listings.
type ScheduleView struct {
	ID             uint64 `json:"id"`
	VehicleID      uint64 `json:"vehicle_id"`
	VehicleName    string `json:"vehicle_name"`
	VehicleNumber  string `json:"vehicle_number"`
	VehicleClass   string `json:"vehicle_class"`
	BusSubclass    string `json:"bus_subclass,omitempty"`
	Origin         string `json:"origin"`
	Destination    string `json:"destination"`
	TravelDate     string `json:"travel_date"`
	DepartureTime  string `json:"departure_time"`
	ArrivalTime    string `json:"arrival_time"`
	PriceCents     uint32 `json:"price_cents"`
	AvailableSeats int    `json:"available_seats"`
	OwnerID        uint64 `json:"owner_id"`
	AgencyName     string `json:"agency_name,omitempty"`
}

// ErrScheduleNotFound is returned when a schedule lookup fails.
var ErrScheduleNotFound = errors.New("schedule not found")

// ScheduleRepo encapsulates database operations for schedules: CRUD,
// search, the ownership-checked cascade delete and the retirement
// purge used by the daily sweep.
type ScheduleRepo struct {
	db *sql.DB
}

// NewScheduleRepo constructs a ScheduleRepo given a DB handle.
func NewScheduleRepo(db *sql.DB) *ScheduleRepo {
	return &ScheduleRepo{db: db}
}

// Create inserts a schedule. The caller must have initialised
// AvailableSeats from the vehicle's capacity; the repo stores what it
// is given. The ID field is populated on success.
func (r *ScheduleRepo) Create(ctx context.Context, s *Schedule) error {
	const q = `INSERT INTO schedules (vehicle_id, route_id, travel_date, departure_time, arrival_time, price_cents, available_seats)
	           VALUES (?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q,
		s.VehicleID, s.RouteID, s.TravelDate, s.DepartureTime, s.ArrivalTime, s.PriceCents, s.AvailableSeats)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)
	return nil
}

// GetByID fetches a schedule by ID, returning ErrScheduleNotFound when
// no row exists.
func (r *ScheduleRepo) GetByID(ctx context.Context, id uint64) (*Schedule, error) {
	const q = `SELECT id, vehicle_id, route_id, travel_date, departure_time, arrival_time, price_cents, available_seats
	           FROM schedules WHERE id = ?`
	var s Schedule
	err := r.db.QueryRowContext(ctx, q, id).
		Scan(&s.ID, &s.VehicleID, &s.RouteID, &s.TravelDate, &s.DepartureTime, &s.ArrivalTime, &s.PriceCents, &s.AvailableSeats)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrScheduleNotFound
		}
		return nil, err
	}
	return &s, nil
}

const scheduleViewSelect = `SELECT sc.id, v.id, v.name, v.vehicle_number, v.class, v.bus_subclass,
       rt.origin, rt.destination,
       sc.travel_date, sc.departure_time, sc.arrival_time, sc.price_cents, sc.available_seats,
       u.id, u.agency_name
FROM schedules sc
JOIN vehicles v ON v.id = sc.vehicle_id
JOIN routes rt ON rt.id = sc.route_id
JOIN users u ON u.id = v.owner_id`

func scanScheduleViews(rows *sql.Rows) ([]ScheduleView, error) {
	out := make([]ScheduleView, 0)
	for rows.Next() {
		var sv ScheduleView
		var subclass, agency sql.NullString
		if err := rows.Scan(
			&sv.ID, &sv.VehicleID, &sv.VehicleName, &sv.VehicleNumber, &sv.VehicleClass, &subclass,
			&sv.Origin, &sv.Destination,
			&sv.TravelDate, &sv.DepartureTime, &sv.ArrivalTime, &sv.PriceCents, &sv.AvailableSeats,
			&sv.OwnerID, &agency,
		); err != nil {
			return nil, err
		}
		if subclass.Valid {
			sv.BusSubclass = subclass.String
		}
		if agency.Valid {
			sv.AgencyName = agency.String
		}
		out = append(out, sv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Search returns schedule views for an origin/destination/date triple,
// departures first. Matching is exact on all three fields.
func (r *ScheduleRepo) Search(ctx context.Context, origin, destination, travelDate string) ([]ScheduleView, error) {
	const q = scheduleViewSelect + `
WHERE rt.origin = ? AND rt.destination = ? AND sc.travel_date = ?
ORDER BY sc.departure_time, sc.id`
	rows, err := r.db.QueryContext(ctx, q, origin, destination, travelDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanScheduleViews(rows)
}

// ListUpcoming returns schedule views dated today or later, soonest
// first. fromDate is the caller's "today" in YYYY-MM-DD.
func (r *ScheduleRepo) ListUpcoming(ctx context.Context, fromDate string) ([]ScheduleView, error) {
	const q = scheduleViewSelect + `
WHERE sc.travel_date >= ?
ORDER BY sc.travel_date, sc.departure_time, sc.id`
	rows, err := r.db.QueryContext(ctx, q, fromDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanScheduleViews(rows)
}

// ListByOwner returns all schedules of an operator's vehicles.
func (r *ScheduleRepo) ListByOwner(ctx context.Context, ownerID uint64) ([]ScheduleView, error) {
	const q = scheduleViewSelect + `
WHERE v.owner_id = ?
ORDER BY sc.travel_date, sc.departure_time, sc.id`
	rows, err := r.db.QueryContext(ctx, q, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanScheduleViews(rows)
}

// OwnerOf returns the ID of the operator whose vehicle runs the
// schedule, or ErrScheduleNotFound.
func (r *ScheduleRepo) OwnerOf(ctx context.Context, scheduleID uint64) (uint64, error) {
	var ownerID uint64
	err := r.db.QueryRowContext(ctx,
		`SELECT v.owner_id FROM schedules sc JOIN vehicles v ON v.id = sc.vehicle_id WHERE sc.id = ?`,
		scheduleID).Scan(&ownerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrScheduleNotFound
		}
		return 0, err
	}
	return ownerID, nil
}

// DeleteByIDAndOwner removes a schedule and its bookings if the
// schedule's vehicle belongs to the given owner. Returns sql.ErrNoRows
// when the schedule does not exist and ErrForbidden when it belongs to
// another operator. Bookings are removed before the schedule inside
// one transaction.
func (r *ScheduleRepo) DeleteByIDAndOwner(ctx context.Context, id, ownerID uint64) error {
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

	var dbOwnerID uint64
	if err = tx.QueryRowContext(ctx,
		`SELECT v.owner_id FROM schedules sc JOIN vehicles v ON v.id = sc.vehicle_id WHERE sc.id = ?`,
		id).Scan(&dbOwnerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return sql.ErrNoRows
		}
		return err
	}
	if dbOwnerID != ownerID {
		err = ErrForbidden
		return err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM bookings WHERE schedule_id = ?`, id); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM schedules WHERE id = ?`, id); err != nil {
		return err
	}
	return nil
}

// PurgeBefore removes every schedule dated strictly before the given
// date, together with its bookings, inside one transaction. It returns
// the number of schedules removed; zero means the sweep was a no-op.
func (r *ScheduleRepo) PurgeBefore(ctx context.Context, date string) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if _, err := tx.ExecContext(ctx,
		`DELETE b FROM bookings b
		 JOIN schedules sc ON sc.id = b.schedule_id
		 WHERE sc.travel_date < ?`, date); err != nil {
		return 0, err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM schedules WHERE travel_date < ?`, date)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	committed = true
	return n, nil
}
