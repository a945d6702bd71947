package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/iliyamo/transit-ticket-booking/internal/utils"
)

// User mirrors the 'users' table. Travelers, operators and admins all
// live here, distinguished by Role; AgencyName is set only for
// operators.
type User struct {
	ID           uint64
	Name         string
	Email        string
	PasswordHash string
	Role         string // TRAVELER | OWNER | ADMIN
	AgencyName   sql.NullString
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

var ErrEmailExists = errors.New("email already exists")

// Create inserts a user and returns its ID. agencyName may be empty
// for travelers.
func (r *UserRepo) Create(ctx context.Context, name, email, password, role, agencyName string, cost int) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	agency := sql.NullString{String: strings.TrimSpace(agencyName), Valid: strings.TrimSpace(agencyName) != ""}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (name, email, password_hash, role, agency_name) VALUES (?,?,?,?,?)",
		name, email, hash, role, agency)
	if err != nil {
		if isDuplicateKey(err) {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var u User
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,name,email,password_hash,role,agency_name,is_active,created_at,updated_at FROM users WHERE email=? LIMIT 1",
		email).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.AgencyName, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (User, error) {
	var u User
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,name,email,password_hash,role,agency_name,is_active,created_at,updated_at FROM users WHERE id=? LIMIT 1",
		id).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.AgencyName, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// ListByRole returns users of one role ordered by id. Used by admin
// listings.
func (r *UserRepo) ListByRole(ctx context.Context, role string) ([]User, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id,name,email,role,agency_name,created_at FROM users WHERE role=? ORDER BY id", role)
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

// DeleteTraveler removes a traveler account along with their bookings,
// complaints and refresh tokens in one transaction. Operators must go
// through OwnerRepo.DeleteCascade instead. Returns sql.ErrNoRows when
// no traveler with the given ID exists.
func (r *UserRepo) DeleteTraveler(ctx context.Context, userID uint64) error {
	tx, err := r.DB.BeginTx(ctx, nil)
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
		`SELECT 1 FROM users WHERE id = ? AND role = 'TRAVELER'`, userID).Scan(&one); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return sql.ErrNoRows
		}
		return err
	}
	// A traveler's CONFIRMED bookings still count against schedule
	// inventory, so give those seats back before the rows go away.
	if _, err = tx.ExecContext(ctx,
		`UPDATE schedules sc
		 JOIN bookings b ON b.schedule_id = sc.id
		 SET sc.available_seats = sc.available_seats + 1
		 WHERE b.user_id = ? AND b.status = 'CONFIRMED'`, userID); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM bookings WHERE user_id = ?`, userID); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM complaints WHERE user_id = ?`, userID); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM refresh_tokens WHERE user_id = ?`, userID); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, userID); err != nil {
		return err
	}
	return nil
}
