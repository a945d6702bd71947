// Package queue defines message payloads exchanged over the message broker.
package queue

// TicketConfirmedEvent is published when a seat booking is successfully
// confirmed. It carries enough context for downstream consumers to log,
// notify, or feed analytics without querying the primary database.
type TicketConfirmedEvent struct {
	BookingID     uint64 `json:"booking_id"`
	UserID        uint64 `json:"user_id"`
	ScheduleID    uint64 `json:"schedule_id"`
	SeatLabel     string `json:"seat_label"`
	PassengerName string `json:"passenger_name"`
	VehicleName   string `json:"vehicle_name"`
	VehicleNumber string `json:"vehicle_number"`
	Origin        string `json:"origin"`
	Destination   string `json:"destination"`
	TravelDate    string `json:"travel_date"`
	DepartureTime string `json:"departure_time"`
	PriceCents    uint32 `json:"price_cents"`
	ConfirmedAt   string `json:"confirmed_at"`
}
