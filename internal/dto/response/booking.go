package response

import (
	"car-rental/internal/data/entity"
	"car-rental/internal/dto/request"
	"time"
)

type BookingResponse struct {
	ID         string               `json:"id"`
	CarID      string               `json:"car_id"`
	OwnerID    string               `json:"owner_id"`
	RenterID   string               `json:"renter_id"`
	PickupDate string               `json:"pickup_date"`
	ReturnDate string               `json:"return_date"`
	Price      float64              `json:"price"`
	Status     entity.BookingStatus `json:"status"`
	Car        *CarResponse         `json:"car,omitempty"`
	CreatedAt  time.Time            `json:"created_at"`
}

func BookingToResponse(booking *entity.Booking, car *entity.Car) BookingResponse {
	resp := BookingResponse{
		ID:         booking.ID.String(),
		CarID:      booking.CarID.String(),
		OwnerID:    booking.OwnerID.String(),
		RenterID:   booking.RenterID.String(),
		PickupDate: booking.PickupDate.Format(request.DateLayout),
		ReturnDate: booking.ReturnDate.Format(request.DateLayout),
		Price:      booking.Price,
		Status:     booking.Status,
		CreatedAt:  booking.CreatedAt,
	}

	if car != nil {
		carResp := CarToResponse(car)
		resp.Car = &carResp
	}

	return resp
}
