package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPurgeBeforeRemovesBookingsFirst(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("DELETE b FROM bookings b").WithArgs("2026-09-01").
		WillReturnResult(sqlmock.NewResult(0, 4))
	mock.ExpectExec("DELETE FROM schedules WHERE travel_date").WithArgs("2026-09-01").
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectCommit()

	repo := NewScheduleRepo(db)
	n, err := repo.PurgeBefore(context.Background(), "2026-09-01")
	if err != nil {
		t.Fatalf("PurgeBefore returned error: %v", err)
	}
	if n != 3 {
		t.Fatalf("purged = %d, want 3", n)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPurgeBeforeNothingToDo(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("DELETE b FROM bookings b").WithArgs("2026-09-01").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DELETE FROM schedules WHERE travel_date").WithArgs("2026-09-01").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	repo := NewScheduleRepo(db)
	n, err := repo.PurgeBefore(context.Background(), "2026-09-01")
	if err != nil {
		t.Fatalf("PurgeBefore returned error: %v", err)
	}
	if n != 0 {
		t.Fatalf("purged = %d, want 0", n)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestDeleteByIDAndOwnerSuccess(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT v.owner_id FROM schedules").WithArgs(uint64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"owner_id"}).AddRow(uint64(10)))
	mock.ExpectExec("DELETE FROM bookings WHERE schedule_id").WithArgs(uint64(5)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("DELETE FROM schedules WHERE id").WithArgs(uint64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	repo := NewScheduleRepo(db)
	if err := repo.DeleteByIDAndOwner(context.Background(), 5, 10); err != nil {
		t.Fatalf("DeleteByIDAndOwner returned error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestDeleteByIDAndOwnerForbidden(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT v.owner_id FROM schedules").WithArgs(uint64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"owner_id"}).AddRow(uint64(77)))
	mock.ExpectRollback()

	repo := NewScheduleRepo(db)
	err = repo.DeleteByIDAndOwner(context.Background(), 5, 10)
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("DeleteByIDAndOwner error = %v, want ErrForbidden", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestDeleteByIDAndOwnerNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT v.owner_id FROM schedules").WithArgs(uint64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"owner_id"}))
	mock.ExpectRollback()

	repo := NewScheduleRepo(db)
	err = repo.DeleteByIDAndOwner(context.Background(), 5, 10)
	if !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("DeleteByIDAndOwner error = %v, want sql.ErrNoRows", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
