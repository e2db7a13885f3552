package entity

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// Terminal reports whether no further status change is allowed.
func (s BookingStatus) Terminal() bool {
	return s == BookingStatusConfirmed || s == BookingStatusCancelled
}

// Booking is an append-only ledger entry. OwnerID is a snapshot of the car's
// owner at creation time and is the authorization anchor for status changes;
// it is never re-derived from the car. Price is likewise a snapshot. Bookings
// are never deleted: cancellation is a status value.
type Booking struct {
	Base
	CarID      uuid.UUID     `db:"car_id"`
	OwnerID    uuid.UUID     `db:"owner_id"`
	RenterID   uuid.UUID     `db:"renter_id"`
	PickupDate time.Time     `db:"pickup_date"`
	ReturnDate time.Time     `db:"return_date"`
	Price      float64       `db:"price"`
	Status     BookingStatus `db:"status"`
}

// Overlaps applies the closed-interval test against another date range:
// [p1,r1] and [p2,r2] conflict iff p1 <= r2 and r1 >= p2.
func (b *Booking) Overlaps(pickup, ret time.Time) bool {
	return !b.PickupDate.After(ret) && !b.ReturnDate.Before(pickup)
}
