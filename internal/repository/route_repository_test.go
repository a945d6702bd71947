package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

// The cascade must remove children before parents: bookings, then
// schedules, then the route itself.
func TestRouteDeleteCascadeOrder(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT 1 FROM routes").WithArgs(uint64(4)).
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
	mock.ExpectExec("DELETE b FROM bookings b").WithArgs(uint64(4)).
		WillReturnResult(sqlmock.NewResult(0, 6))
	mock.ExpectExec("DELETE FROM schedules WHERE route_id").WithArgs(uint64(4)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("DELETE FROM routes WHERE id").WithArgs(uint64(4)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	repo := NewRouteRepo(db)
	if err := repo.DeleteCascade(context.Background(), 4); err != nil {
		t.Fatalf("DeleteCascade returned error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

// A missing route must be reported before any row is touched.
func TestRouteDeleteCascadeMissing(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT 1 FROM routes").WithArgs(uint64(4)).
		WillReturnRows(sqlmock.NewRows([]string{"1"}))
	mock.ExpectRollback()

	repo := NewRouteRepo(db)
	err = repo.DeleteCascade(context.Background(), 4)
	if !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("DeleteCascade error = %v, want sql.ErrNoRows", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRouteUpdateNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("UPDATE routes SET").
		WithArgs("Pune", "Mumbai", 150.0, uint64(9)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := NewRouteRepo(db)
	err = repo.Update(context.Background(), &Route{ID: 9, Origin: "Pune", Destination: "Mumbai", DistanceKm: 150})
	if !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("Update error = %v, want sql.ErrNoRows", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
