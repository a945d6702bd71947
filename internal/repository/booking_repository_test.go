package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
)

func TestBookSuccess(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	created := time.Date(2026, 9, 1, 10, 30, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT available_seats FROM schedules").WithArgs(uint64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"available_seats"}).AddRow(5))
	mock.ExpectQuery("SELECT 1 FROM bookings").WithArgs(uint64(3), "2B").
		WillReturnRows(sqlmock.NewRows([]string{"1"}))
	mock.ExpectExec("UPDATE schedules SET available_seats").WithArgs(uint64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO bookings").
		WillReturnResult(sqlmock.NewResult(42, 1))
	mock.ExpectQuery("SELECT created_at FROM bookings").WithArgs(uint64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(created))
	mock.ExpectCommit()

	repo := NewBookingRepo(db)
	b := &Booking{
		UserID:          7,
		ScheduleID:      3,
		SeatLabel:       "2B",
		PassengerName:   "Asha Rao",
		PassengerAge:    29,
		PassengerGender: "FEMALE",
	}
	if err := repo.Book(context.Background(), b); err != nil {
		t.Fatalf("Book returned error: %v", err)
	}
	if b.ID != 42 {
		t.Fatalf("booking ID = %d, want 42", b.ID)
	}
	if b.Status != "CONFIRMED" {
		t.Fatalf("booking status = %q, want CONFIRMED", b.Status)
	}
	if !b.CreatedAt.Equal(created) {
		t.Fatalf("booking CreatedAt = %v, want %v", b.CreatedAt, created)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestBookScheduleMissing(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT available_seats FROM schedules").WithArgs(uint64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"available_seats"}))
	mock.ExpectRollback()

	repo := NewBookingRepo(db)
	err = repo.Book(context.Background(), &Booking{UserID: 1, ScheduleID: 99, SeatLabel: "1A"})
	if !errors.Is(err, ErrScheduleNotFound) {
		t.Fatalf("Book error = %v, want ErrScheduleNotFound", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestBookSoldOutCounter(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT available_seats FROM schedules").WithArgs(uint64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"available_seats"}).AddRow(0))
	mock.ExpectRollback()

	repo := NewBookingRepo(db)
	err = repo.Book(context.Background(), &Booking{UserID: 1, ScheduleID: 3, SeatLabel: "1A"})
	if !errors.Is(err, ErrSoldOut) {
		t.Fatalf("Book error = %v, want ErrSoldOut", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestBookSeatTakenFastPath(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT available_seats FROM schedules").WithArgs(uint64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"available_seats"}).AddRow(5))
	mock.ExpectQuery("SELECT 1 FROM bookings").WithArgs(uint64(3), "2B").
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
	mock.ExpectRollback()

	repo := NewBookingRepo(db)
	err = repo.Book(context.Background(), &Booking{UserID: 1, ScheduleID: 3, SeatLabel: "2B"})
	if !errors.Is(err, ErrSeatTaken) {
		t.Fatalf("Book error = %v, want ErrSeatTaken", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

// Two transactions can both pass the fast-path SELECT; the loser hits
// the unique index on insert and the whole transaction, decrement
// included, must roll back.
func TestBookSeatTakenOnInsert(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT available_seats FROM schedules").WithArgs(uint64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"available_seats"}).AddRow(5))
	mock.ExpectQuery("SELECT 1 FROM bookings").WithArgs(uint64(3), "2B").
		WillReturnRows(sqlmock.NewRows([]string{"1"}))
	mock.ExpectExec("UPDATE schedules SET available_seats").WithArgs(uint64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO bookings").
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"})
	mock.ExpectRollback()

	repo := NewBookingRepo(db)
	err = repo.Book(context.Background(), &Booking{UserID: 1, ScheduleID: 3, SeatLabel: "2B"})
	if !errors.Is(err, ErrSeatTaken) {
		t.Fatalf("Book error = %v, want ErrSeatTaken", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestBookDecrementLosesRace(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT available_seats FROM schedules").WithArgs(uint64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"available_seats"}).AddRow(1))
	mock.ExpectQuery("SELECT 1 FROM bookings").WithArgs(uint64(3), "1A").
		WillReturnRows(sqlmock.NewRows([]string{"1"}))
	mock.ExpectExec("UPDATE schedules SET available_seats").WithArgs(uint64(3)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	repo := NewBookingRepo(db)
	err = repo.Book(context.Background(), &Booking{UserID: 1, ScheduleID: 3, SeatLabel: "1A"})
	if !errors.Is(err, ErrSoldOut) {
		t.Fatalf("Book error = %v, want ErrSoldOut", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestBookedSeatLabels(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT seat_label FROM bookings").WithArgs(uint64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"seat_label"}).AddRow("1A").AddRow("2B"))

	repo := NewBookingRepo(db)
	labels, err := repo.BookedSeatLabels(context.Background(), 3)
	if err != nil {
		t.Fatalf("BookedSeatLabels returned error: %v", err)
	}
	if len(labels) != 2 || labels[0] != "1A" || labels[1] != "2B" {
		t.Fatalf("labels = %v, want [1A 2B]", labels)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
