package repository

import (
	"context"
	"database/sql"
	"errors"
)

// Route is a named origin/destination pair that schedules run along.
// Routes do not own vehicles; deleting one cascades only to schedules
// and their bookings.
type Route struct {
	ID          uint64  // routes.id
	Origin      string  // routes.origin
	Destination string  // routes.destination
	DistanceKm  float64 // routes.distance_km
}

// ErrRouteNotFound is returned when a route lookup fails.
var ErrRouteNotFound = errors.New("route not found")

// RouteRepo encapsulates database queries for routes, including the
// transactional cascade that removes a route and its dependents.
type RouteRepo struct {
	db *sql.DB
}

// NewRouteRepo constructs a RouteRepo with the provided DB handle.
func NewRouteRepo(db *sql.DB) *RouteRepo {
	return &RouteRepo{db: db}
}

// Create inserts a new route and populates its ID.
func (r *RouteRepo) Create(ctx context.Context, rt *Route) error {
	const q = `INSERT INTO routes (origin, destination, distance_km) VALUES (?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, rt.Origin, rt.Destination, rt.DistanceKm)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	rt.ID = uint64(id)
	return nil
}

// GetByID fetches a route by ID, returning ErrRouteNotFound when no
// row exists.
func (r *RouteRepo) GetByID(ctx context.Context, id uint64) (*Route, error) {
	const q = `SELECT id, origin, destination, distance_km FROM routes WHERE id = ?`
	var rt Route
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&rt.ID, &rt.Origin, &rt.Destination, &rt.DistanceKm); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRouteNotFound
		}
		return nil, err
	}
	return &rt, nil
}

// ListAll returns every route ordered by id.
func (r *RouteRepo) ListAll(ctx context.Context) ([]*Route, error) {
	const q = `SELECT id, origin, destination, distance_km FROM routes ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Route
	for rows.Next() {
		rt := new(Route)
		if err := rows.Scan(&rt.ID, &rt.Origin, &rt.Destination, &rt.DistanceKm); err != nil {
			return nil, err
		}
		out = append(out, rt)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update replaces origin, destination and distance. Returns
// sql.ErrNoRows when the route does not exist.
func (r *RouteRepo) Update(ctx context.Context, rt *Route) error {
	const q = `UPDATE routes SET origin = ?, destination = ?, distance_km = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, rt.Origin, rt.Destination, rt.DistanceKm, rt.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DeleteCascade removes a route together with its schedules and their
// bookings, children first, inside one transaction. If the route does
// not exist, sql.ErrNoRows is returned before any side effect.
func (r *RouteRepo) DeleteCascade(ctx context.Context, id uint64) error {
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

	// Verify the root exists before touching anything.
	var one int
	if err = tx.QueryRowContext(ctx, `SELECT 1 FROM routes WHERE id = ?`, id).Scan(&one); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return sql.ErrNoRows
		}
		return err
	}
	// Bookings hang off schedules, so they go first.
	if _, err = tx.ExecContext(ctx,
		`DELETE b FROM bookings b
		 JOIN schedules sc ON sc.id = b.schedule_id
		 WHERE sc.route_id = ?`, id); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM schedules WHERE route_id = ?`, id); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM routes WHERE id = ?`, id); err != nil {
		return err
	}
	return nil
}
