package handler

import (
	"context"
	"database/sql"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/transit-ticket-booking/internal/repository"
)

// ComplaintHandler serves the traveler's complaint endpoint.
type ComplaintHandler struct {
	Complaints *repository.ComplaintRepo
	Vehicles   *repository.VehicleRepo
}

func NewComplaintHandler(c *repository.ComplaintRepo, v *repository.VehicleRepo) *ComplaintHandler {
	return &ComplaintHandler{Complaints: c, Vehicles: v}
}

type complaintReq struct {
	VehicleID uint64 `json:"vehicle_id"`
	Text      string `json:"text"`
	ImageRef  string `json:"image_ref"` // opaque attachment reference, optional
}

// Create files a complaint against a vehicle.
func (h *ComplaintHandler) Create(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req complaintReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Text = strings.TrimSpace(req.Text)
	if req.VehicleID == 0 || req.Text == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "vehicle_id and text required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	ok, err := h.Vehicles.Exists(ctx, req.VehicleID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "vehicle not found"})
	}

	cmp := &repository.Complaint{
		UserID:    userID,
		VehicleID: req.VehicleID,
		Text:      req.Text,
	}
	if ref := strings.TrimSpace(req.ImageRef); ref != "" {
		cmp.ImageRef = sql.NullString{String: ref, Valid: true}
	}
	if err := h.Complaints.Create(ctx, cmp); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create complaint failed"})
	}
	return c.JSON(http.StatusCreated, cmp)
}
