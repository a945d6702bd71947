package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/transit-ticket-booking/internal/layout"
	"github.com/iliyamo/transit-ticket-booking/internal/repository"
)

// VehicleHandler serves the operator's fleet endpoints.
type VehicleHandler struct {
	Vehicles *repository.VehicleRepo
	SeatRepo *repository.SeatRepo
}

func NewVehicleHandler(v *repository.VehicleRepo, s *repository.SeatRepo) *VehicleHandler {
	return &VehicleHandler{Vehicles: v, SeatRepo: s}
}

type createVehicleReq struct {
	Class       string `json:"class"`        // BUS | TRAIN
	BusSubclass string `json:"bus_subclass"` // required for buses
	Number      string `json:"vehicle_number"`
	Name        string `json:"name"`
	TotalSeats  int    `json:"total_seats"` // trains only, optional
}

type vehicleResp struct {
	ID          uint64 `json:"id"`
	Class       string `json:"class"`
	BusSubclass string `json:"bus_subclass,omitempty"`
	Number      string `json:"vehicle_number"`
	Name        string `json:"name"`
	TotalSeats  int    `json:"total_seats"`
	CreatedAt   string `json:"created_at"`
}

func toVehicleResp(v *repository.Vehicle) vehicleResp {
	resp := vehicleResp{
		ID:         v.ID,
		Class:      v.Class,
		Number:     v.Number,
		Name:       v.Name,
		TotalSeats: v.TotalSeats,
		CreatedAt:  v.CreatedAt.UTC().Format(time.RFC3339),
	}
	if v.BusSubclass.Valid {
		resp.BusSubclass = v.BusSubclass.String
	}
	return resp
}

// Create registers a vehicle and materialises its seat plan in one
// shot. The seat labels are derived entirely from class and subclass;
// clients never send seat lists.
func (h *VehicleHandler) Create(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createVehicleReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Number = strings.TrimSpace(req.Number)
	req.Name = strings.TrimSpace(req.Name)
	if req.Number == "" || req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "vehicle_number and name required"})
	}
	class := strings.ToUpper(strings.TrimSpace(req.Class))
	subclass := strings.ToUpper(strings.TrimSpace(req.BusSubclass))

	plan, err := layout.Generate(class, subclass, req.TotalSeats)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	v := &repository.Vehicle{
		OwnerID:    ownerID,
		Class:      class,
		Number:     req.Number,
		Name:       req.Name,
		TotalSeats: len(plan),
	}
	if class == layout.ClassBus {
		v.BusSubclass = sql.NullString{String: subclass, Valid: true}
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Vehicles.CreateWithSeats(ctx, v, plan); err != nil {
		if errors.Is(err, repository.ErrVehicleNumberExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "vehicle number already registered"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create vehicle failed"})
	}
	return c.JSON(http.StatusCreated, toVehicleResp(v))
}

// ListMine returns the operator's fleet.
func (h *VehicleHandler) ListMine(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	vehicles, err := h.Vehicles.ListByOwner(ctx, ownerID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]vehicleResp, 0, len(vehicles))
	for _, v := range vehicles {
		out = append(out, toVehicleResp(v))
	}
	return c.JSON(http.StatusOK, echo.Map{"vehicles": out})
}

// Seats returns the stored seat plan of one of the operator's vehicles.
func (h *VehicleHandler) Seats(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	vehicleID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid vehicle id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	dbOwner, err := h.Vehicles.OwnerOf(ctx, vehicleID)
	if err != nil {
		if errors.Is(err, repository.ErrVehicleNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "vehicle not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if dbOwner != ownerID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not your vehicle"})
	}

	seats, err := h.SeatRepo.GetByVehicle(ctx, vehicleID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"vehicle_id": vehicleID, "seats": seats})
}
