package adaptor

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"car-rental/internal/dto/request"
	"car-rental/internal/usecase"
	"car-rental/pkg/utils"

	"go.uber.org/zap"
)

type BookingHandler struct {
	service usecase.BookingService
	log     *zap.Logger
}

func NewBookingHandler(service usecase.BookingService, log *zap.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		log:     log.With(zap.String("handler", "booking")),
	}
}

// CheckAvailability handles POST /api/bookings/check-availability (public)
func (h *BookingHandler) CheckAvailability(w http.ResponseWriter, r *http.Request) {
	var req request.CheckAvailabilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	// Validate request
	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	cars, err := h.service.CheckAvailability(r.Context(), &req)
	if err != nil {
		h.handleServiceError(w, err, "check availability")
		return
	}

	utils.ResponseSuccess(w, "success", cars)
}

// CreateBooking handles POST /api/bookings (protected)
func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.CreateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	// Validate request
	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	booking, err := h.service.CreateBooking(r.Context(), userID.String(), &req)
	if err != nil {
		h.handleServiceError(w, err, "create booking")
		return
	}

	utils.ResponseCreated(w, "Booking created", booking)
}

// GetRenterBookings handles GET /api/user/bookings (protected)
func (h *BookingHandler) GetRenterBookings(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	req := &request.PaginatedRequest{
		Page:    1,
		PerPage: 10,
	}

	// Parse query parameters
	query := r.URL.Query()
	req.Page = utils.ParseInt(query.Get("page"), 1)
	req.PerPage = utils.ParseInt(query.Get("per_page"), 10)

	bookings, err := h.service.GetRenterBookings(r.Context(), userID.String(), req)
	if err != nil {
		h.handleServiceError(w, err, "get renter bookings")
		return
	}

	utils.ResponseSuccess(w, "success", bookings)
}

// ==================== OWNER METHODS ====================

// GetOwnerBookings handles GET /api/owner/bookings (owner only)
func (h *BookingHandler) GetOwnerBookings(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	req := &request.PaginatedRequest{
		Page:    1,
		PerPage: 10,
	}

	// Parse query parameters
	query := r.URL.Query()
	req.Page = utils.ParseInt(query.Get("page"), 1)
	req.PerPage = utils.ParseInt(query.Get("per_page"), 10)

	bookings, err := h.service.GetOwnerBookings(r.Context(), userID.String(), req)
	if err != nil {
		h.handleServiceError(w, err, "get owner bookings")
		return
	}

	utils.ResponseSuccess(w, "success", bookings)
}

// ChangeBookingStatus handles POST /api/owner/bookings/change-status (owner only)
func (h *BookingHandler) ChangeBookingStatus(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.ChangeBookingStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	// Validate request
	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	booking, err := h.service.ChangeBookingStatus(r.Context(), userID.String(), &req)
	if err != nil {
		h.handleServiceError(w, err, "change booking status")
		return
	}

	utils.ResponseSuccess(w, "success", booking)
}

// handleServiceError handles errors untuk booking operations
func (h *BookingHandler) handleServiceError(w http.ResponseWriter, err error, operation string) {
	errMsg := err.Error()

	switch {
	// An already-taken date range is an expected outcome, not a server
	// failure: 200 with status=false so clients branch on the flag.
	case errors.Is(err, usecase.ErrCarUnavailable):
		h.log.Info(operation+" - car not available",
			zap.String("operation", operation))
		utils.ResponseConflict(w, "Car is not available")

	case errors.Is(err, usecase.ErrStorageTimeout):
		h.log.Warn(operation+" failed - storage timeout",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseServiceUnavailable(w, "Temporary problem, please retry")

	case errors.Is(err, usecase.ErrCarNotFound),
		errors.Is(err, usecase.ErrBookingNotFound):
		h.log.Warn(operation+" failed - not found",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseNotFound(w, errMsg)

	case errors.Is(err, usecase.ErrUnauthorized):
		h.log.Warn(operation+" failed - unauthorized",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseUnauthorized(w, errMsg)

	case errors.Is(err, usecase.ErrInvalidDates),
		errors.Is(err, usecase.ErrInvalidStatusChange):
		h.log.Warn(operation+" failed - invalid input",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseBadRequest(w, errMsg, nil)

	case strings.Contains(errMsg, "validation failed"):
		h.log.Warn(operation+" validation failed",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseBadRequest(w, errMsg, nil)

	case strings.Contains(errMsg, "invalid"):
		h.log.Warn("Invalid input for "+operation,
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseBadRequest(w, errMsg, nil)

	default:
		h.log.Error("Failed to "+operation,
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseInternalError(w, "Internal server error")
	}
}
