package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/transit-ticket-booking/internal/queue"
	"github.com/iliyamo/transit-ticket-booking/internal/repository"
	queue_publisher "github.com/iliyamo/transit-ticket-booking/internal/service"
)

// BookingHandler serves the traveler's booking endpoints.
type BookingHandler struct {
	Bookings  *repository.BookingRepo
	Schedules *repository.ScheduleRepo
	Seats     *repository.SeatRepo
}

func NewBookingHandler(b *repository.BookingRepo, s *repository.ScheduleRepo, seats *repository.SeatRepo) *BookingHandler {
	return &BookingHandler{Bookings: b, Schedules: s, Seats: seats}
}

type bookReq struct {
	ScheduleID      uint64 `json:"schedule_id"`
	SeatLabel       string `json:"seat_label"`
	PassengerName   string `json:"passenger_name"`
	PassengerAge    int    `json:"passenger_age"`
	PassengerGender string `json:"passenger_gender"`
}

// Book reserves one seat on a schedule. The seat label must belong to
// the schedule's vehicle; the store-level transaction then decides
// winners among concurrent attempts on the same seat.
func (h *BookingHandler) Book(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req bookReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.SeatLabel = strings.ToUpper(strings.TrimSpace(req.SeatLabel))
	req.PassengerName = strings.TrimSpace(req.PassengerName)
	if req.ScheduleID == 0 || req.SeatLabel == "" || req.PassengerName == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "schedule_id, seat_label and passenger_name required"})
	}
	if req.PassengerAge <= 0 || req.PassengerAge > 120 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid passenger_age"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	sched, err := h.Schedules.GetByID(ctx, req.ScheduleID)
	if err != nil {
		if errors.Is(err, repository.ErrScheduleNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "schedule not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	// The requested label must be part of the vehicle's seat plan.
	seats, err := h.Seats.GetByVehicle(ctx, sched.VehicleID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	known := false
	for _, s := range seats {
		if s.Label == req.SeatLabel {
			known = true
			break
		}
	}
	if !known {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown seat label for this vehicle"})
	}

	b := &repository.Booking{
		UserID:          userID,
		ScheduleID:      req.ScheduleID,
		SeatLabel:       req.SeatLabel,
		PassengerName:   req.PassengerName,
		PassengerAge:    req.PassengerAge,
		PassengerGender: strings.ToUpper(strings.TrimSpace(req.PassengerGender)),
	}
	switch err := h.Bookings.Book(ctx, b); {
	case err == nil:
	case errors.Is(err, repository.ErrScheduleNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "schedule not found"})
	case errors.Is(err, repository.ErrSoldOut):
		return c.JSON(http.StatusConflict, echo.Map{"error": "schedule sold out"})
	case errors.Is(err, repository.ErrSeatTaken):
		return c.JSON(http.StatusConflict, echo.Map{"error": "seat already booked"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "booking failed"})
	}

	ev := queue.TicketConfirmedEvent{
		BookingID:     b.ID,
		UserID:        b.UserID,
		ScheduleID:    b.ScheduleID,
		SeatLabel:     b.SeatLabel,
		PassengerName: b.PassengerName,
		TravelDate:    sched.TravelDate,
		DepartureTime: sched.DepartureTime,
		PriceCents:    sched.PriceCents,
		ConfirmedAt:   b.CreatedAt.UTC().Format(time.RFC3339),
	}
	view, err := h.Bookings.GetViewByID(ctx, b.ID)
	if err != nil {
		log.Printf("booking: load confirmation view failed: %v", err)
		view = nil
	} else {
		ev.VehicleName = view.VehicleName
		ev.VehicleNumber = view.VehicleNumber
		ev.Origin = view.Origin
		ev.Destination = view.Destination
	}

	// Publish after commit. A broker outage must not undo the booking.
	go func(ev queue.TicketConfirmedEvent) {
		pubCtx, pubCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer pubCancel()
		if err := queue_publisher.PublishTicketConfirmed(pubCtx, ev); err != nil {
			log.Printf("booking: publish ticket.confirmed failed: %v", err)
		}
	}(ev)

	if view != nil {
		return c.JSON(http.StatusCreated, view)
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"id":             b.ID,
		"schedule_id":    b.ScheduleID,
		"seat_label":     b.SeatLabel,
		"passenger_name": b.PassengerName,
		"status":         b.Status,
		"booked_at":      b.CreatedAt.UTC().Format(time.RFC3339),
	})
}

// MyBookings lists the traveler's bookings, newest first.
func (h *BookingHandler) MyBookings(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	views, err := h.Bookings.ListByUser(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"bookings": views})
}
