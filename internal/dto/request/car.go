package request

type AddCarRequest struct {
	Brand           string  `json:"brand" validate:"required,min=1,max=100"`
	Model           string  `json:"model" validate:"required,min=1,max=100"`
	Year            int     `json:"year" validate:"required,min=1950,max=2100"`
	Category        string  `json:"category" validate:"required"`
	SeatingCapacity int     `json:"seating_capacity" validate:"required,min=1,max=20"`
	FuelType        string  `json:"fuel_type" validate:"required"`
	Transmission    string  `json:"transmission" validate:"required,oneof=Manual Automatic Semi-Automatic"`
	PricePerDay     float64 `json:"price_per_day" validate:"required,gt=0"`
	Location        string  `json:"location" validate:"required"`
	Description     string  `json:"description" validate:"max=2000"`
	Image           string  `json:"image" validate:"omitempty,url"`
}
