package entity

import (
	"github.com/google/uuid"
)

// Car is a listable rental unit. OwnerID is nil once the owner delists the
// car; a delisted car never appears in listings and can never be booked,
// whatever IsAvailable says.
type Car struct {
	Base
	OwnerID         *uuid.UUID `db:"owner_id"`
	Brand           string     `db:"brand"`
	Model           string     `db:"model"`
	Year            int        `db:"year"`
	Category        string     `db:"category"`
	SeatingCapacity int        `db:"seating_capacity"`
	FuelType        string     `db:"fuel_type"`
	Transmission    string     `db:"transmission"`
	PricePerDay     float64    `db:"price_per_day"`
	Location        string     `db:"location"`
	Description     string     `db:"description"`
	Image           string     `db:"image"`
	IsAvailable     bool       `db:"is_available"`
}

// Bookable reports whether the car can accept new bookings at all.
func (c *Car) Bookable() bool {
	return c.OwnerID != nil
}
