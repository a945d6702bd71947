// Package repository defines error types shared across repositories.
// These sentinel values let handlers distinguish failure scenarios:
// ErrForbidden means the caller does not own the resource it is
// mutating, ErrSeatTaken means another traveler already holds the
// (schedule, seat) pair, and ErrSoldOut means a schedule has no seats
// left. Lookups that find nothing return the per-entity not-found
// sentinels; zero-row updates and deletes return sql.ErrNoRows.
package repository

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

// ErrForbidden is returned when the caller attempts an operation on a
// resource owned by someone else. Handlers translate this into 403.
var ErrForbidden = errors.New("forbidden")

// ErrSeatTaken is returned when a CONFIRMED booking already exists for
// the requested (schedule, seat label) pair. This is a conflict, not a
// validation error; handlers translate it into 409.
var ErrSeatTaken = errors.New("seat already booked")

// ErrSoldOut is returned when a schedule's available-seat counter has
// reached zero. Handlers translate it into 409.
var ErrSoldOut = errors.New("no seats available")

// ErrVehicleNumberExists is returned when registering a vehicle whose
// registration number is already taken.
var ErrVehicleNumberExists = errors.New("vehicle number already exists")

// isDuplicateKey reports whether err is a MySQL duplicate-entry error
// (code 1062). The booking engine relies on this to turn a violated
// uniqueness constraint into ErrSeatTaken.
func isDuplicateKey(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == 1062
}
