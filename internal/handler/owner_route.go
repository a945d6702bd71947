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

// RouteHandler serves route management. Routes are shared across
// operators, so creation and updates are open to any operator while
// deletion cascades through every schedule on the route.
type RouteHandler struct {
	Routes *repository.RouteRepo
}

func NewRouteHandler(r *repository.RouteRepo) *RouteHandler {
	return &RouteHandler{Routes: r}
}

type routeReq struct {
	Origin      string  `json:"origin"`
	Destination string  `json:"destination"`
	DistanceKm  float64 `json:"distance_km"`
}

type routeResp struct {
	ID          uint64  `json:"id"`
	Origin      string  `json:"origin"`
	Destination string  `json:"destination"`
	DistanceKm  float64 `json:"distance_km"`
}

func (req *routeReq) normalize() error {
	req.Origin = strings.TrimSpace(req.Origin)
	req.Destination = strings.TrimSpace(req.Destination)
	if req.Origin == "" || req.Destination == "" {
		return errors.New("origin and destination required")
	}
	if strings.EqualFold(req.Origin, req.Destination) {
		return errors.New("origin and destination must differ")
	}
	if req.DistanceKm <= 0 {
		return errors.New("distance_km must be positive")
	}
	return nil
}

// Create adds a route.
func (h *RouteHandler) Create(c echo.Context) error {
	var req routeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := req.normalize(); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	rt := &repository.Route{Origin: req.Origin, Destination: req.Destination, DistanceKm: req.DistanceKm}
	if err := h.Routes.Create(ctx, rt); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create route failed"})
	}
	return c.JSON(http.StatusCreated, routeResp{ID: rt.ID, Origin: rt.Origin, Destination: rt.Destination, DistanceKm: rt.DistanceKm})
}

// List returns all routes.
func (h *RouteHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	routes, err := h.Routes.ListAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]routeResp, 0, len(routes))
	for _, rt := range routes {
		out = append(out, routeResp{ID: rt.ID, Origin: rt.Origin, Destination: rt.Destination, DistanceKm: rt.DistanceKm})
	}
	return c.JSON(http.StatusOK, echo.Map{"routes": out})
}

// Update replaces a route's fields.
func (h *RouteHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid route id"})
	}
	var req routeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := req.normalize(); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	rt := &repository.Route{ID: id, Origin: req.Origin, Destination: req.Destination, DistanceKm: req.DistanceKm}
	if err := h.Routes.Update(ctx, rt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "route not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update route failed"})
	}
	return c.JSON(http.StatusOK, routeResp{ID: rt.ID, Origin: rt.Origin, Destination: rt.Destination, DistanceKm: rt.DistanceKm})
}

// Delete removes a route and everything scheduled on it.
func (h *RouteHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid route id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Routes.DeleteCascade(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "route not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete route failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
