package handlers

import (
	"errors"
	"net/http"

	"mindnest/middleware"
	"mindnest/models"
	"mindnest/services/booking"
	"mindnest/services/payment"
	"mindnest/utils"

	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	Bookings booking.BookingService
}

func NewBookingHandler(bookings booking.BookingService) *BookingHandler {
	return &BookingHandler{Bookings: bookings}
}

// ConfirmHandler records a booking for a paid order and schedules the session.
// A scheduling failure still answers 200 with the booking in scheduling_failed.
func (h *BookingHandler) ConfirmHandler(c *gin.Context) {
	logger := getLogger(c)

	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		utils.RespondError(c, logger, utils.NewAppError(utils.CodeUnauthorized, "Authentication required", http.StatusUnauthorized, nil))
		return
	}

	var req booking.ConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, logger, utils.NewAppError(utils.CodeValidation, "Invalid request: "+err.Error(), http.StatusBadRequest, err))
		return
	}
	req.PatientID = principal.UserID
	req.PatientEmail = principal.Email

	b, err := h.Bookings.Confirm(c.Request.Context(), req)
	if err != nil {
		utils.RespondError(c, logger, bookingError(err))
		return
	}
	c.JSON(http.StatusOK, b)
}

// DashboardHandler returns the signed-in user's own sessions.
func (h *BookingHandler) DashboardHandler(c *gin.Context) {
	logger := getLogger(c)

	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		utils.RespondError(c, logger, utils.NewAppError(utils.CodeUnauthorized, "Authentication required", http.StatusUnauthorized, nil))
		return
	}
	bookings, err := h.Bookings.ListForPatient(c.Request.Context(), principal.UserID)
	if err != nil {
		utils.RespondError(c, logger, bookingError(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"userId":   principal.UserID,
		"email":    principal.Email,
		"role":     principal.Role.String(),
		"bookings": bookings,
	})
}

// PsychologistBookingsHandler lists the signed-in psychologist's sessions.
// Admins may pass ?psychologistId= to view another practitioner.
func (h *BookingHandler) PsychologistBookingsHandler(c *gin.Context) {
	logger := getLogger(c)

	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		utils.RespondError(c, logger, utils.NewAppError(utils.CodeUnauthorized, "Authentication required", http.StatusUnauthorized, nil))
		return
	}
	psychologistID := principal.UserID
	if id := c.Query("psychologistId"); id != "" && principal.Role == models.RoleAdmin {
		psychologistID = id
	}

	bookings, err := h.Bookings.ListForPsychologist(c.Request.Context(), psychologistID)
	if err != nil {
		utils.RespondError(c, logger, bookingError(err))
		return
	}
	c.JSON(http.StatusOK, bookings)
}

func (h *BookingHandler) ListHandler(c *gin.Context) {
	logger := getLogger(c)

	state := models.BookingState(c.Query("state"))
	if state != "" && !isKnownState(state) {
		utils.RespondError(c, logger, utils.ValidationError("Unknown booking state"))
		return
	}
	bookings, err := h.Bookings.List(c.Request.Context(), state)
	if err != nil {
		utils.RespondError(c, logger, bookingError(err))
		return
	}
	c.JSON(http.StatusOK, bookings)
}

// RecoverHandler queues another scheduling attempt for a failed or stale booking.
func (h *BookingHandler) RecoverHandler(c *gin.Context) {
	logger := getLogger(c)

	b, err := h.Bookings.Recover(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.RespondError(c, logger, bookingError(err))
		return
	}
	c.JSON(http.StatusAccepted, b)
}

func isKnownState(s models.BookingState) bool {
	for _, known := range models.PaidStates {
		if s == known {
			return true
		}
	}
	return false
}

func bookingError(err error) error {
	switch {
	case errors.Is(err, booking.ErrInvalidRequest):
		return utils.NewAppError(utils.CodeValidation, err.Error(), http.StatusBadRequest, err)
	case errors.Is(err, booking.ErrPaymentNotConfirmed):
		return utils.NewAppError(utils.CodeValidation, "Payment has not been confirmed", http.StatusPaymentRequired, err)
	case errors.Is(err, booking.ErrPaymentMismatch):
		return utils.NewAppError(utils.CodeValidation, "Paid order does not match this booking", http.StatusPaymentRequired, err)
	case errors.Is(err, booking.ErrNotFound):
		return utils.NewAppError(utils.CodeNotFound, "Booking not found", http.StatusNotFound, err)
	case errors.Is(err, booking.ErrInvalidState):
		return utils.NewAppError(utils.CodeConflict, "Booking cannot be changed in its current state", http.StatusConflict, err)
	case errors.Is(err, payment.ErrNotConfigured):
		return utils.NewAppError(utils.CodeConfiguration, "Configuration error", http.StatusInternalServerError, err)
	case errors.Is(err, payment.ErrGateway):
		return utils.NewAppError(utils.CodeUpstream, "Failed to verify payment", http.StatusBadGateway, err)
	default:
		return utils.NewAppError(utils.CodeInternal, "Booking request failed", http.StatusInternalServerError, err)
	}
}
