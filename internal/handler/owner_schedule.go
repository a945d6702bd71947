package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/transit-ticket-booking/internal/repository"
)

// ScheduleHandler serves the operator's schedule endpoints.
type ScheduleHandler struct {
	Schedules *repository.ScheduleRepo
	Vehicles  *repository.VehicleRepo
	Routes    *repository.RouteRepo
}

func NewScheduleHandler(s *repository.ScheduleRepo, v *repository.VehicleRepo, r *repository.RouteRepo) *ScheduleHandler {
	return &ScheduleHandler{Schedules: s, Vehicles: v, Routes: r}
}

type createScheduleReq struct {
	VehicleID     uint64 `json:"vehicle_id"`
	RouteID       uint64 `json:"route_id"`
	TravelDate    string `json:"travel_date"`    // YYYY-MM-DD
	DepartureTime string `json:"departure_time"` // HH:MM or HH:MM:SS
	ArrivalTime   string `json:"arrival_time"`
	PriceCents    uint32 `json:"price_cents"`
}

// normalizeClock accepts HH:MM or HH:MM:SS and returns HH:MM:SS.
func normalizeClock(s string) (string, error) {
	s = strings.TrimSpace(s)
	if _, err := time.Parse("15:04:05", s); err == nil {
		return s, nil
	}
	if t, err := time.Parse("15:04", s); err == nil {
		return t.Format("15:04:05"), nil
	}
	return "", errors.New("invalid time, want HH:MM or HH:MM:SS")
}

// Create adds a departure. The available-seat counter is seeded from
// the vehicle's capacity at this moment; later edits to the vehicle do
// not touch it.
func (h *ScheduleHandler) Create(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createScheduleReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.TravelDate = strings.TrimSpace(req.TravelDate)
	if _, err := time.Parse("2006-01-02", req.TravelDate); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid travel_date, want YYYY-MM-DD"})
	}
	dep, err := normalizeClock(req.DepartureTime)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "departure_time: " + err.Error()})
	}
	arr, err := normalizeClock(req.ArrivalTime)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "arrival_time: " + err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	v, err := h.Vehicles.GetByID(ctx, req.VehicleID)
	if err != nil {
		if errors.Is(err, repository.ErrVehicleNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "vehicle not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if v.OwnerID != ownerID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not your vehicle"})
	}
	if _, err := h.Routes.GetByID(ctx, req.RouteID); err != nil {
		if errors.Is(err, repository.ErrRouteNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "route not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	s := &repository.Schedule{
		VehicleID:      req.VehicleID,
		RouteID:        req.RouteID,
		TravelDate:     req.TravelDate,
		DepartureTime:  dep,
		ArrivalTime:    arr,
		PriceCents:     req.PriceCents,
		AvailableSeats: v.TotalSeats,
	}
	if err := h.Schedules.Create(ctx, s); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create schedule failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"id":              s.ID,
		"vehicle_id":      s.VehicleID,
		"route_id":        s.RouteID,
		"travel_date":     s.TravelDate,
		"departure_time":  s.DepartureTime,
		"arrival_time":    s.ArrivalTime,
		"price_cents":     s.PriceCents,
		"available_seats": s.AvailableSeats,
	})
}

// ListMine returns every schedule across the operator's vehicles.
func (h *ScheduleHandler) ListMine(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	views, err := h.Schedules.ListByOwner(ctx, ownerID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"schedules": views})
}

// Delete removes one of the operator's schedules along with its
// bookings.
func (h *ScheduleHandler) Delete(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid schedule id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	switch err := h.Schedules.DeleteByIDAndOwner(ctx, id, ownerID); {
	case err == nil:
		return c.NoContent(http.StatusNoContent)
	case errors.Is(err, sql.ErrNoRows):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "schedule not found"})
	case errors.Is(err, repository.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not your schedule"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete schedule failed"})
	}
}
