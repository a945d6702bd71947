package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/transit-ticket-booking/internal/repository"
)

func bookingContext(t *testing.T, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/bookings", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", uint64(7))
	return c, rec
}

func TestBookMapsMissingScheduleTo404(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT id, vehicle_id, route_id").WithArgs(uint64(9)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	h := NewBookingHandler(
		repository.NewBookingRepo(db),
		repository.NewScheduleRepo(db),
		repository.NewSeatRepo(db),
	)
	c, rec := bookingContext(t, `{"schedule_id":9,"seat_label":"1A","passenger_name":"Asha","passenger_age":30}`)

	if err := h.Book(c); err != nil {
		t.Fatalf("Book returned error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestBookMapsSeatTakenTo409(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT id, vehicle_id, route_id").WithArgs(uint64(9)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "vehicle_id", "route_id", "travel_date", "departure_time", "arrival_time", "price_cents", "available_seats",
		}).AddRow(9, 2, 1, "2026-09-05", "08:00:00", "12:00:00", 45000, 10))
	mock.ExpectQuery("SELECT id, vehicle_id, label, kind").WithArgs(uint64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "vehicle_id", "label", "kind"}).
			AddRow(1, 2, "1A", "SEATER"))
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT available_seats FROM schedules").WithArgs(uint64(9)).
		WillReturnRows(sqlmock.NewRows([]string{"available_seats"}).AddRow(10))
	mock.ExpectQuery("SELECT 1 FROM bookings").WithArgs(uint64(9), "1A").
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
	mock.ExpectRollback()

	h := NewBookingHandler(
		repository.NewBookingRepo(db),
		repository.NewScheduleRepo(db),
		repository.NewSeatRepo(db),
	)
	c, rec := bookingContext(t, `{"schedule_id":9,"seat_label":"1A","passenger_name":"Asha","passenger_age":30}`)

	if err := h.Book(c); err != nil {
		t.Fatalf("Book returned error: %v", err)
	}
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
}

func TestBookRejectsUnknownSeatLabel(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT id, vehicle_id, route_id").WithArgs(uint64(9)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "vehicle_id", "route_id", "travel_date", "departure_time", "arrival_time", "price_cents", "available_seats",
		}).AddRow(9, 2, 1, "2026-09-05", "08:00:00", "12:00:00", 45000, 10))
	mock.ExpectQuery("SELECT id, vehicle_id, label, kind").WithArgs(uint64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "vehicle_id", "label", "kind"}).
			AddRow(1, 2, "1A", "SEATER"))

	h := NewBookingHandler(
		repository.NewBookingRepo(db),
		repository.NewScheduleRepo(db),
		repository.NewSeatRepo(db),
	)
	c, rec := bookingContext(t, `{"schedule_id":9,"seat_label":"Z9","passenger_name":"Asha","passenger_age":30}`)

	if err := h.Book(c); err != nil {
		t.Fatalf("Book returned error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}
