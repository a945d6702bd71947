package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// Booking is one traveler's claim on a seat of a schedule. At most one
// CONFIRMED booking may exist per (schedule_id, seat_label); the
// bookings table enforces this with a unique index over
// (schedule_id, seat_label, active) where active is a generated column
// that is 1 for CONFIRMED rows and NULL otherwise. NULLs never collide,
// so cancelled rows do not block the seat.
type Booking struct {
	ID              uint64    // bookings.id
	UserID          uint64    // bookings.user_id -> users.id
	ScheduleID      uint64    // bookings.schedule_id
	SeatLabel       string    // bookings.seat_label
	PassengerName   string    // bookings.passenger_name
	PassengerAge    int       // bookings.passenger_age
	PassengerGender string    // bookings.passenger_gender
	Status          string    // CONFIRMED | CANCELLED
	CreatedAt       time.Time // bookings.created_at
}

// BookingView joins a booking with its schedule, route and vehicle for
// API responses.
type BookingView struct {
	ID              uint64 `json:"id"`
	ScheduleID      uint64 `json:"schedule_id"`
	SeatLabel       string `json:"seat_label"`
	PassengerName   string `json:"passenger_name"`
	PassengerAge    int    `json:"passenger_age"`
	PassengerGender string `json:"passenger_gender"`
	VehicleName     string `json:"vehicle_name"`
	VehicleNumber   string `json:"vehicle_number"`
	Origin          string `json:"origin"`
	Destination     string `json:"destination"`
	TravelDate      string `json:"travel_date"`
	DepartureTime   string `json:"departure_time"`
	ArrivalTime     string `json:"arrival_time"`
	PriceCents      uint32 `json:"price_cents"`
	BookedAt        string `json:"booked_at"`
	Status          string `json:"status"`
}

// BookingRepo runs the booking transaction and the booking read paths.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo {
	return &BookingRepo{db: db}
}

// Book reserves a seat on a schedule for a traveler. The whole
// operation is one transaction: schedule lookup, counter guard,
// booking insert and counter decrement commit or roll back together.
//
// Failure modes, checked in order:
//   - ErrScheduleNotFound: the schedule does not exist.
//   - ErrSoldOut: the available-seat counter is zero.
//   - ErrSeatTaken: a CONFIRMED booking already holds the seat. The
//     SELECT is only a fast path; two transactions can both pass it, so
//     the unique index on the insert is the source of truth, and a
//     duplicate-key rejection is mapped to the same error after the
//     counter decrement has been rolled back.
func (r *BookingRepo) Book(ctx context.Context, b *Booking) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var available int
	err = tx.QueryRowContext(ctx, `SELECT available_seats FROM schedules WHERE id = ?`, b.ScheduleID).Scan(&available)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrScheduleNotFound
		}
		return err
	}
	if available <= 0 {
		return ErrSoldOut
	}

	// Fast path only; the unique index below is what actually wins races.
	var one int
	err = tx.QueryRowContext(ctx,
		`SELECT 1 FROM bookings WHERE schedule_id = ? AND seat_label = ? AND status = 'CONFIRMED' LIMIT 1`,
		b.ScheduleID, b.SeatLabel).Scan(&one)
	if err == nil {
		return ErrSeatTaken
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return err
	}

	// Guarded decrement: loses against concurrent bookings that drain
	// the counter between our read and this write.
	res, err := tx.ExecContext(ctx,
		`UPDATE schedules SET available_seats = available_seats - 1 WHERE id = ? AND available_seats > 0`,
		b.ScheduleID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrSoldOut
	}

	ins, err := tx.ExecContext(ctx,
		`INSERT INTO bookings (user_id, schedule_id, seat_label, passenger_name, passenger_age, passenger_gender, status)
		 VALUES (?, ?, ?, ?, ?, ?, 'CONFIRMED')`,
		b.UserID, b.ScheduleID, b.SeatLabel, b.PassengerName, b.PassengerAge, b.PassengerGender)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrSeatTaken
		}
		return err
	}
	id, err := ins.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	b.Status = "CONFIRMED"

	if err = tx.QueryRowContext(ctx, `SELECT created_at FROM bookings WHERE id = ?`, b.ID).Scan(&b.CreatedAt); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

const bookingViewSelect = `SELECT b.id, b.schedule_id, b.seat_label, b.passenger_name, b.passenger_age, b.passenger_gender,
       v.name, v.vehicle_number,
       rt.origin, rt.destination,
       sc.travel_date, sc.departure_time, sc.arrival_time, sc.price_cents,
       b.created_at, b.status
FROM bookings b
JOIN schedules sc ON sc.id = b.schedule_id
JOIN vehicles v ON v.id = sc.vehicle_id
JOIN routes rt ON rt.id = sc.route_id`

func scanBookingViews(rows *sql.Rows) ([]BookingView, error) {
	out := make([]BookingView, 0)
	for rows.Next() {
		var bv BookingView
		var createdAt time.Time
		if err := rows.Scan(
			&bv.ID, &bv.ScheduleID, &bv.SeatLabel, &bv.PassengerName, &bv.PassengerAge, &bv.PassengerGender,
			&bv.VehicleName, &bv.VehicleNumber,
			&bv.Origin, &bv.Destination,
			&bv.TravelDate, &bv.DepartureTime, &bv.ArrivalTime, &bv.PriceCents,
			&createdAt, &bv.Status,
		); err != nil {
			return nil, err
		}
		bv.BookedAt = createdAt.UTC().Format(time.RFC3339)
		out = append(out, bv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetViewByID fetches one booking joined with its schedule, route and
// vehicle. Used to build the confirmation response and event payload.
func (r *BookingRepo) GetViewByID(ctx context.Context, id uint64) (*BookingView, error) {
	const q = bookingViewSelect + `
WHERE b.id = ?`
	rows, err := r.db.QueryContext(ctx, q, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	views, err := scanBookingViews(rows)
	if err != nil {
		return nil, err
	}
	if len(views) == 0 {
		return nil, sql.ErrNoRows
	}
	return &views[0], nil
}

// ListByUser returns a traveler's bookings, newest first.
func (r *BookingRepo) ListByUser(ctx context.Context, userID uint64) ([]BookingView, error) {
	const q = bookingViewSelect + `
WHERE b.user_id = ?
ORDER BY b.created_at DESC, b.id DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanBookingViews(rows)
}

// ListByOwner returns every booking across an operator's vehicles,
// newest first.
func (r *BookingRepo) ListByOwner(ctx context.Context, ownerID uint64) ([]BookingView, error) {
	const q = bookingViewSelect + `
WHERE v.owner_id = ?
ORDER BY b.created_at DESC, b.id DESC`
	rows, err := r.db.QueryContext(ctx, q, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanBookingViews(rows)
}

// ListBySchedule returns every booking on one schedule, seat order.
func (r *BookingRepo) ListBySchedule(ctx context.Context, scheduleID uint64) ([]BookingView, error) {
	const q = bookingViewSelect + `
WHERE b.schedule_id = ?
ORDER BY b.seat_label, b.id`
	rows, err := r.db.QueryContext(ctx, q, scheduleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanBookingViews(rows)
}

// ListAll returns every booking in the system, newest first. Admin
// reporting only.
func (r *BookingRepo) ListAll(ctx context.Context) ([]BookingView, error) {
	const q = bookingViewSelect + `
ORDER BY b.created_at DESC, b.id DESC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanBookingViews(rows)
}

// BookedSeatLabels returns the seat labels of a schedule's CONFIRMED
// bookings in label order. Occupancy is projected from bookings, not
// from seat rows.
func (r *BookingRepo) BookedSeatLabels(ctx context.Context, scheduleID uint64) ([]string, error) {
	const q = `SELECT seat_label FROM bookings
	           WHERE schedule_id = ? AND status = 'CONFIRMED'
	           ORDER BY seat_label`
	rows, err := r.db.QueryContext(ctx, q, scheduleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	labels := make([]string, 0)
	for rows.Next() {
		var l string
		if err := rows.Scan(&l); err != nil {
			return nil, err
		}
		labels = append(labels, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return labels, nil
}

// CountActiveBySchedule returns the number of CONFIRMED bookings for a
// schedule. Together with the vehicle capacity this verifies the
// counter invariant.
func (r *BookingRepo) CountActiveBySchedule(ctx context.Context, scheduleID uint64) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM bookings WHERE schedule_id = ? AND status = 'CONFIRMED'`,
		scheduleID).Scan(&n)
	return n, err
}
