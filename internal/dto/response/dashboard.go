package response

type DashboardResponse struct {
	TotalCars         int64             `json:"total_cars"`
	TotalBookings     int64             `json:"total_bookings"`
	PendingBookings   int64             `json:"pending_bookings"`
	ConfirmedBookings int64             `json:"confirmed_bookings"`
	RecentBookings    []BookingResponse `json:"recent_bookings"`
	MonthlyRevenue    float64           `json:"monthly_revenue"`
}
