package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

// The operator cascade walks the tree children-first: bookings,
// schedules, complaints, seats, vehicles, refresh tokens, user.
func TestOwnerDeleteCascadeOrder(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	ownerID := uint64(12)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT 1 FROM users").WithArgs(ownerID).
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
	mock.ExpectExec("DELETE b FROM bookings b").WithArgs(ownerID).
		WillReturnResult(sqlmock.NewResult(0, 8))
	mock.ExpectExec("DELETE sc FROM schedules sc").WithArgs(ownerID).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec("DELETE c FROM complaints c").WithArgs(ownerID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE s FROM seats s").WithArgs(ownerID).
		WillReturnResult(sqlmock.NewResult(0, 80))
	mock.ExpectExec("DELETE FROM vehicles WHERE owner_id").WithArgs(ownerID).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("DELETE FROM refresh_tokens WHERE user_id").WithArgs(ownerID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM users WHERE id").WithArgs(ownerID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	repo := NewOwnerRepo(db)
	if err := repo.DeleteCascade(context.Background(), ownerID); err != nil {
		t.Fatalf("DeleteCascade returned error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

// A missing or non-operator account must fail before any delete runs.
func TestOwnerDeleteCascadeMissing(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT 1 FROM users").WithArgs(uint64(12)).
		WillReturnRows(sqlmock.NewRows([]string{"1"}))
	mock.ExpectRollback()

	repo := NewOwnerRepo(db)
	err = repo.DeleteCascade(context.Background(), 12)
	if !errors.Is(err, ErrOwnerNotFound) {
		t.Fatalf("DeleteCascade error = %v, want ErrOwnerNotFound", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

// A failure partway through the cascade rolls the whole thing back.
func TestOwnerDeleteCascadeRollsBackOnFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	ownerID := uint64(12)
	boom := errors.New("connection lost")

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT 1 FROM users").WithArgs(ownerID).
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
	mock.ExpectExec("DELETE b FROM bookings b").WithArgs(ownerID).
		WillReturnResult(sqlmock.NewResult(0, 8))
	mock.ExpectExec("DELETE sc FROM schedules sc").WithArgs(ownerID).
		WillReturnError(boom)
	mock.ExpectRollback()

	repo := NewOwnerRepo(db)
	err = repo.DeleteCascade(context.Background(), ownerID)
	if !errors.Is(err, boom) {
		t.Fatalf("DeleteCascade error = %v, want %v", err, boom)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
