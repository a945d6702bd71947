package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/transit-ticket-booking/internal/repository"
)

// SearchHandler serves the traveler-facing read endpoints: trip search,
// upcoming departures and per-schedule seat occupancy. These are
// available to any authenticated user.
type SearchHandler struct {
	Schedules *repository.ScheduleRepo
	Bookings  *repository.BookingRepo
	Seats     *repository.SeatRepo
}

func NewSearchHandler(s *repository.ScheduleRepo, b *repository.BookingRepo, seats *repository.SeatRepo) *SearchHandler {
	return &SearchHandler{Schedules: s, Bookings: b, Seats: seats}
}

// Search finds departures for an origin/destination/date triple, all
// passed as query parameters.
func (h *SearchHandler) Search(c echo.Context) error {
	origin := strings.TrimSpace(c.QueryParam("origin"))
	destination := strings.TrimSpace(c.QueryParam("destination"))
	date := strings.TrimSpace(c.QueryParam("date"))
	if origin == "" || destination == "" || date == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "origin, destination and date required"})
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date, want YYYY-MM-DD"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	views, err := h.Schedules.Search(ctx, origin, destination, date)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"schedules": views})
}

// Upcoming lists departures dated today or later.
func (h *SearchHandler) Upcoming(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	today := time.Now().UTC().Format("2006-01-02")
	views, err := h.Schedules.ListUpcoming(ctx, today)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"schedules": views})
}

// ScheduleSeats returns the schedule's full seat plan with the labels
// currently held by CONFIRMED bookings. Occupancy is projected from
// bookings; seat rows themselves carry no availability state.
func (h *SearchHandler) ScheduleSeats(c echo.Context) error {
	scheduleID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid schedule id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	sched, err := h.Schedules.GetByID(ctx, scheduleID)
	if err != nil {
		if errors.Is(err, repository.ErrScheduleNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "schedule not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	seats, err := h.Seats.GetByVehicle(ctx, sched.VehicleID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	booked, err := h.Bookings.BookedSeatLabels(ctx, scheduleID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"schedule_id":     scheduleID,
		"available_seats": sched.AvailableSeats,
		"seats":           seats,
		"booked_labels":   booked,
	})
}
