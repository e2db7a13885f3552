package request

// Dates travel as calendar days; time-of-day is out of scope for a per-day
// rental.
const DateLayout = "2006-01-02"

type CheckAvailabilityRequest struct {
	Location   string `json:"location" validate:"required"`
	PickupDate string `json:"pickup_date" validate:"required,datetime=2006-01-02"`
	ReturnDate string `json:"return_date" validate:"required,datetime=2006-01-02"`
}

type CreateBookingRequest struct {
	CarID      string `json:"car_id" validate:"required,uuid4"`
	PickupDate string `json:"pickup_date" validate:"required,datetime=2006-01-02"`
	ReturnDate string `json:"return_date" validate:"required,datetime=2006-01-02"`
}

type ChangeBookingStatusRequest struct {
	BookingID string `json:"booking_id" validate:"required,uuid4"`
	Status    string `json:"status" validate:"required,oneof=confirmed cancelled"`
}
