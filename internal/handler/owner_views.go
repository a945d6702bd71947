package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/transit-ticket-booking/internal/repository"
)

// OwnerViewHandler serves the operator's read-only listings: bookings
// taken across their fleet and complaints filed against it.
type OwnerViewHandler struct {
	Bookings   *repository.BookingRepo
	Complaints *repository.ComplaintRepo
	Schedules  *repository.ScheduleRepo
}

func NewOwnerViewHandler(b *repository.BookingRepo, c *repository.ComplaintRepo, s *repository.ScheduleRepo) *OwnerViewHandler {
	return &OwnerViewHandler{Bookings: b, Complaints: c, Schedules: s}
}

// Bookings lists every booking across the operator's vehicles.
func (h *OwnerViewHandler) ListBookings(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	views, err := h.Bookings.ListByOwner(ctx, ownerID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"bookings": views})
}

// ScheduleBookings lists the bookings of one of the operator's
// schedules, seat order.
func (h *OwnerViewHandler) ScheduleBookings(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	scheduleID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid schedule id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	dbOwner, err := h.Schedules.OwnerOf(ctx, scheduleID)
	if err != nil {
		if errors.Is(err, repository.ErrScheduleNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "schedule not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if dbOwner != ownerID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not your schedule"})
	}

	views, err := h.Bookings.ListBySchedule(ctx, scheduleID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"bookings": views})
}

// ListComplaints lists complaints filed against the operator's vehicles.
func (h *OwnerViewHandler) ListComplaints(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	complaints, err := h.Complaints.ListByOwner(ctx, ownerID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"complaints": complaints})
}
