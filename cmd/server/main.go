package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/transit-ticket-booking/internal/cleanup"
	"github.com/iliyamo/transit-ticket-booking/internal/config"
	"github.com/iliyamo/transit-ticket-booking/internal/database"
	"github.com/iliyamo/transit-ticket-booking/internal/handler"
	"github.com/iliyamo/transit-ticket-booking/internal/middleware"
	"github.com/iliyamo/transit-ticket-booking/internal/queue"
	"github.com/iliyamo/transit-ticket-booking/internal/repository"
	"github.com/iliyamo/transit-ticket-booking/internal/router"
)

func main() {
	// .env is optional; real deployments set env vars directly.
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	vehicles := repository.NewVehicleRepo(db)
	seats := repository.NewSeatRepo(db)
	routes := repository.NewRouteRepo(db)
	schedules := repository.NewScheduleRepo(db)
	bookings := repository.NewBookingRepo(db)
	complaints := repository.NewComplaintRepo(db)
	owners := repository.NewOwnerRepo(db)

	e := echo.New()

	// Redis backs the response cache and the token-bucket rate limiter.
	rdb := config.NewRedisClient()
	if rdb != nil {
		e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
		e.Use(middleware.NewRedisCache(config.LoadCacheConfig(), rdb))
	}

	h := router.Handlers{
		Auth:       handler.NewAuthHandler(cfg, users, tokens),
		Vehicles:   handler.NewVehicleHandler(vehicles, seats),
		Routes:     handler.NewRouteHandler(routes),
		Schedules:  handler.NewScheduleHandler(schedules, vehicles, routes),
		OwnerViews: handler.NewOwnerViewHandler(bookings, complaints, schedules),
		Bookings:   handler.NewBookingHandler(bookings, schedules, seats),
		Complaints: handler.NewComplaintHandler(complaints, vehicles),
		Search:     handler.NewSearchHandler(schedules, bookings, seats),
		Admin:      handler.NewAdminHandler(users, owners, bookings),
	}
	router.Register(e, h, cfg.JWTSecret)

	// Background consumer writes confirmed tickets to logs/ticket.log.
	go func() {
		if err := queue.StartTicketConsumer(); err != nil {
			log.Printf("ticket consumer stopped: %v", err)
		}
	}()

	// Daily retirement sweep for past schedules.
	sweeper := cleanup.New(schedules, cfg.SweepHour)
	go sweeper.Run(context.Background())

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
