package repository

import (
	"context"
	"database/sql"
	"errors"
)

// ErrOwnerNotFound is returned when an operator lookup fails.
var ErrOwnerNotFound = errors.New("owner not found")

// OwnerRepo covers operator-specific queries over the users table
// (role OWNER), most importantly the full cascade that removes an
// operator and everything reachable from their vehicles.
type OwnerRepo struct {
	db *sql.DB
}

// NewOwnerRepo constructs an OwnerRepo with the given DB handle.
func NewOwnerRepo(db *sql.DB) *OwnerRepo {
	return &OwnerRepo{db: db}
}

// ListAll returns id, name, email and agency of every operator.
func (r *OwnerRepo) ListAll(ctx context.Context) ([]User, error) {
	const q = `SELECT id, name, email, role, agency_name, created_at
	           FROM users WHERE role = 'OWNER' ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.AgencyName, &u.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteCascade removes an operator and all dependent records in one
// transaction, children before parents: bookings of schedules of the
// operator's vehicles, then those schedules, complaints against the
// vehicles, the vehicles' seats, the vehicles themselves, the
// operator's refresh tokens, and finally the operator's user row.
// Returns ErrOwnerNotFound before any side effect when no operator
// with the given ID exists. An operator with no vehicles simply falls
// through the JOIN deletes untouched and loses only the user row.
func (r *OwnerRepo) DeleteCascade(ctx context.Context, ownerID uint64) error {
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

	var one int
	if err = tx.QueryRowContext(ctx,
		`SELECT 1 FROM users WHERE id = ? AND role = 'OWNER'`, ownerID).Scan(&one); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = ErrOwnerNotFound
		}
		return err
	}
	if _, err = tx.ExecContext(ctx,
		`DELETE b FROM bookings b
		 JOIN schedules sc ON sc.id = b.schedule_id
		 JOIN vehicles v ON v.id = sc.vehicle_id
		 WHERE v.owner_id = ?`, ownerID); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx,
		`DELETE sc FROM schedules sc
		 JOIN vehicles v ON v.id = sc.vehicle_id
		 WHERE v.owner_id = ?`, ownerID); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx,
		`DELETE c FROM complaints c
		 JOIN vehicles v ON v.id = c.vehicle_id
		 WHERE v.owner_id = ?`, ownerID); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx,
		`DELETE s FROM seats s
		 JOIN vehicles v ON v.id = s.vehicle_id
		 WHERE v.owner_id = ?`, ownerID); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM vehicles WHERE owner_id = ?`, ownerID); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM refresh_tokens WHERE user_id = ?`, ownerID); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, ownerID); err != nil {
		return err
	}
	return nil
}
