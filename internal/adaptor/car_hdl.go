package adaptor

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"car-rental/internal/dto/request"
	"car-rental/internal/usecase"
	"car-rental/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type CarHandler struct {
	service usecase.CarService
	log     *zap.Logger
}

func NewCarHandler(service usecase.CarService, log *zap.Logger) *CarHandler {
	return &CarHandler{
		service: service,
		log:     log.With(zap.String("handler", "car")),
	}
}

// GetCars handles GET /api/cars (public)
func (h *CarHandler) GetCars(w http.ResponseWriter, r *http.Request) {
	cars, err := h.service.GetCars(r.Context())
	if err != nil {
		h.handleServiceError(w, err, "get cars")
		return
	}

	utils.ResponseSuccess(w, "success", cars)
}

// GetCarByID handles GET /api/cars/{id} (public)
func (h *CarHandler) GetCarByID(w http.ResponseWriter, r *http.Request) {
	carID := chi.URLParam(r, "id")
	if carID == "" {
		utils.ResponseBadRequest(w, "Car ID is required", nil)
		return
	}

	car, err := h.service.GetCarByID(r.Context(), carID)
	if err != nil {
		h.handleServiceError(w, err, "get car by ID")
		return
	}

	utils.ResponseSuccess(w, "success", car)
}

// ==================== OWNER METHODS ====================

// AddCar handles POST /api/owner/cars (owner only)
func (h *CarHandler) AddCar(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.AddCarRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	// Validate request
	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	car, err := h.service.AddCar(r.Context(), userID.String(), &req)
	if err != nil {
		h.handleServiceError(w, err, "add car")
		return
	}

	utils.ResponseCreated(w, "success", car)
}

// GetOwnerCars handles GET /api/owner/cars (owner only)
func (h *CarHandler) GetOwnerCars(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	cars, err := h.service.GetOwnerCars(r.Context(), userID.String())
	if err != nil {
		h.handleServiceError(w, err, "get owner cars")
		return
	}

	utils.ResponseSuccess(w, "success", cars)
}

// ToggleAvailability handles POST /api/owner/cars/{id}/toggle (owner only)
func (h *CarHandler) ToggleAvailability(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	carID := chi.URLParam(r, "id")
	if carID == "" {
		utils.ResponseBadRequest(w, "Car ID is required", nil)
		return
	}

	car, err := h.service.ToggleAvailability(r.Context(), userID.String(), carID)
	if err != nil {
		h.handleServiceError(w, err, "toggle availability")
		return
	}

	utils.ResponseSuccess(w, "success", car)
}

// DeleteCar handles DELETE /api/owner/cars/{id} (owner only)
func (h *CarHandler) DeleteCar(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	carID := chi.URLParam(r, "id")
	if carID == "" {
		utils.ResponseBadRequest(w, "Car ID is required", nil)
		return
	}

	if err := h.service.DeleteCar(r.Context(), userID.String(), carID); err != nil {
		h.handleServiceError(w, err, "delete car")
		return
	}

	utils.ResponseSuccess(w, "success", nil)
}

// GetDashboard handles GET /api/owner/dashboard (owner only)
func (h *CarHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	dashboard, err := h.service.GetDashboard(r.Context(), userID.String())
	if err != nil {
		h.handleServiceError(w, err, "get dashboard")
		return
	}

	utils.ResponseSuccess(w, "success", dashboard)
}

// handleServiceError handles errors untuk car operations
func (h *CarHandler) handleServiceError(w http.ResponseWriter, err error, operation string) {
	errMsg := err.Error()

	switch {
	case errors.Is(err, usecase.ErrCarNotFound):
		h.log.Warn(operation+" failed - not found",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseNotFound(w, errMsg)

	case errors.Is(err, usecase.ErrUnauthorized):
		h.log.Warn(operation+" failed - unauthorized",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseUnauthorized(w, errMsg)

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
