// Package router wires HTTP routes to their handlers and middleware.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/transit-ticket-booking/internal/handler"
	"github.com/iliyamo/transit-ticket-booking/internal/middleware"
)

// Handlers bundles every handler the API exposes so registration takes
// a single argument.
type Handlers struct {
	Auth       *handler.AuthHandler
	Vehicles   *handler.VehicleHandler
	Routes     *handler.RouteHandler
	Schedules  *handler.ScheduleHandler
	OwnerViews *handler.OwnerViewHandler
	Bookings   *handler.BookingHandler
	Complaints *handler.ComplaintHandler
	Search     *handler.SearchHandler
	Admin      *handler.AdminHandler
}

// Register sets up every route on the Echo instance. Unauthenticated
// endpoints live under /v1/auth and /healthz; everything else requires
// a valid access token, with role middleware narrowing the operator
// and admin surfaces.
func Register(e *echo.Echo, h Handlers, jwtSecret string) {
	e.GET("/healthz", handler.Health)

	// Session endpoints, no token required.
	authGroup := e.Group("/v1/auth")
	authGroup.POST("/register", h.Auth.Register)
	authGroup.POST("/login", h.Auth.Login)
	authGroup.POST("/refresh", h.Auth.Refresh)
	authGroup.POST("/logout", h.Auth.Logout)

	// Everything below needs a valid access token.
	api := e.Group("/v1")
	api.Use(middleware.JWTAuth(jwtSecret))
	api.Use(middleware.RequireRole("TRAVELER", "OWNER", "ADMIN"))

	api.GET("/me", h.Auth.Me)

	// Trip discovery, open to every authenticated role.
	api.GET("/search/schedules", h.Search.Search)
	api.GET("/schedules/upcoming", h.Search.Upcoming)
	api.GET("/schedules/:id/seats", h.Search.ScheduleSeats)

	// Traveler surface.
	traveler := api.Group("", middleware.RequireRole("TRAVELER"))
	traveler.POST("/bookings", h.Bookings.Book)
	traveler.GET("/bookings", h.Bookings.MyBookings)
	traveler.POST("/complaints", h.Complaints.Create)

	// Operator surface.
	owner := api.Group("/owner", middleware.RequireRole("OWNER"))
	owner.POST("/vehicles", h.Vehicles.Create)
	owner.GET("/vehicles", h.Vehicles.ListMine)
	owner.GET("/vehicles/:id/seats", h.Vehicles.Seats)
	owner.POST("/routes", h.Routes.Create)
	owner.GET("/routes", h.Routes.List)
	owner.PUT("/routes/:id", h.Routes.Update)
	owner.POST("/schedules", h.Schedules.Create)
	owner.GET("/schedules", h.Schedules.ListMine)
	owner.DELETE("/schedules/:id", h.Schedules.Delete)
	owner.GET("/schedules/:id/bookings", h.OwnerViews.ScheduleBookings)
	owner.GET("/bookings", h.OwnerViews.ListBookings)
	owner.GET("/complaints", h.OwnerViews.ListComplaints)

	// Admin surface.
	admin := api.Group("/admin", middleware.RequireRole("ADMIN"))
	admin.GET("/owners", h.Admin.ListOwners)
	admin.GET("/travelers", h.Admin.ListTravelers)
	admin.GET("/bookings", h.Admin.ListBookings)
	admin.DELETE("/owners/:id", h.Admin.DeleteOwner)
	admin.DELETE("/travelers/:id", h.Admin.DeleteTraveler)
	admin.DELETE("/routes/:id", h.Routes.Delete)
}
