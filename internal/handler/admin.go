package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/transit-ticket-booking/internal/repository"
)

// AdminHandler serves account administration: listing users by role and
// the destructive account removals that cascade through the data model.
type AdminHandler struct {
	Users    *repository.UserRepo
	Owners   *repository.OwnerRepo
	Bookings *repository.BookingRepo
}

func NewAdminHandler(u *repository.UserRepo, o *repository.OwnerRepo, b *repository.BookingRepo) *AdminHandler {
	return &AdminHandler{Users: u, Owners: o, Bookings: b}
}

type adminUserResp struct {
	ID         uint64 `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	AgencyName string `json:"agency_name,omitempty"`
	CreatedAt  string `json:"created_at"`
}

func toAdminUserResps(users []repository.User) []adminUserResp {
	out := make([]adminUserResp, 0, len(users))
	for _, u := range users {
		r := adminUserResp{
			ID:        u.ID,
			Name:      u.Name,
			Email:     u.Email,
			Role:      u.Role,
			CreatedAt: u.CreatedAt.UTC().Format(time.RFC3339),
		}
		if u.AgencyName.Valid {
			r.AgencyName = u.AgencyName.String
		}
		out = append(out, r)
	}
	return out
}

// ListOwners returns every operator account.
func (h *AdminHandler) ListOwners(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	owners, err := h.Owners.ListAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"owners": toAdminUserResps(owners)})
}

// ListTravelers returns every traveler account.
func (h *AdminHandler) ListTravelers(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	travelers, err := h.Users.ListByRole(ctx, "TRAVELER")
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"travelers": toAdminUserResps(travelers)})
}

// ListBookings returns every booking in the system.
func (h *AdminHandler) ListBookings(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	views, err := h.Bookings.ListAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"bookings": views})
}

// DeleteOwner removes an operator account together with everything
// hanging off it: vehicles, seats, schedules, bookings and complaints.
// Either the whole subtree goes or none of it does.
func (h *AdminHandler) DeleteOwner(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid owner id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	if err := h.Owners.DeleteCascade(ctx, id); err != nil {
		if errors.Is(err, repository.ErrOwnerNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "owner not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete owner failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// DeleteTraveler removes a traveler account, their bookings and
// complaints. Seats held by their CONFIRMED bookings return to the
// schedule inventory.
func (h *AdminHandler) DeleteTraveler(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid traveler id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	if err := h.Users.DeleteTraveler(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "traveler not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete traveler failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
