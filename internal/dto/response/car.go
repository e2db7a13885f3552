package response

import (
	"car-rental/internal/data/entity"
	"time"
)

type CarResponse struct {
	ID              string    `json:"id"`
	OwnerID         string    `json:"owner_id,omitempty"`
	Brand           string    `json:"brand"`
	Model           string    `json:"model"`
	Year            int       `json:"year"`
	Category        string    `json:"category"`
	SeatingCapacity int       `json:"seating_capacity"`
	FuelType        string    `json:"fuel_type"`
	Transmission    string    `json:"transmission"`
	PricePerDay     float64   `json:"price_per_day"`
	Location        string    `json:"location"`
	Description     string    `json:"description,omitempty"`
	Image           string    `json:"image,omitempty"`
	IsAvailable     bool      `json:"is_available"`
	CreatedAt       time.Time `json:"created_at"`
}

func CarToResponse(car *entity.Car) CarResponse {
	resp := CarResponse{
		ID:              car.ID.String(),
		Brand:           car.Brand,
		Model:           car.Model,
		Year:            car.Year,
		Category:        car.Category,
		SeatingCapacity: car.SeatingCapacity,
		FuelType:        car.FuelType,
		Transmission:    car.Transmission,
		PricePerDay:     car.PricePerDay,
		Location:        car.Location,
		Description:     car.Description,
		Image:           car.Image,
		IsAvailable:     car.IsAvailable,
		CreatedAt:       car.CreatedAt,
	}

	if car.OwnerID != nil {
		resp.OwnerID = car.OwnerID.String()
	}

	return resp
}

func CarsToResponse(cars []*entity.Car) []CarResponse {
	responses := make([]CarResponse, len(cars))
	for i, car := range cars {
		responses[i] = CarToResponse(car)
	}
	return responses
}
