package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"mindnest/middleware"
	"mindnest/models"
	"mindnest/services/payment"
	"mindnest/utils"

	"github.com/gin-gonic/gin"
)

// PaymentHandler exposes order creation to the checkout page.
type PaymentHandler struct {
	Orders payment.OrderService
}

func NewPaymentHandler(orders payment.OrderService) *PaymentHandler {
	return &PaymentHandler{Orders: orders}
}

type createOrderRequest struct {
	Amount         json.RawMessage `json:"amount"`
	Currency       string          `json:"currency"`
	PsychologistID string          `json:"psychologistId"`
}

// CreateOrderHandler mints a gateway order and returns it unchanged. A
// signed-in caller is recorded on the order so only they can confirm it.
func (h *PaymentHandler) CreateOrderHandler(c *gin.Context) {
	logger := getLogger(c)

	if !h.Orders.Configured() {
		utils.RespondError(c, logger, paymentError(payment.ErrNotConfigured))
		return
	}

	var req createOrderRequest
	// An empty body is a request without an amount.
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		utils.RespondError(c, logger, utils.NewAppError(utils.CodeValidation, "Invalid request body", http.StatusBadRequest, err))
		return
	}

	amount, err := payment.ParseAmount(req.Amount)
	if err != nil {
		utils.RespondError(c, logger, paymentError(err))
		return
	}

	intent := models.OrderIntent{Amount: amount, Currency: req.Currency, PsychologistID: req.PsychologistID}
	if principal, ok := middleware.GetPrincipal(c); ok {
		intent.PatientID = principal.UserID
	}

	order, err := h.Orders.CreateOrder(c.Request.Context(), intent)
	if err != nil {
		utils.RespondError(c, logger, paymentError(err))
		return
	}
	c.JSON(http.StatusOK, order)
}

func paymentError(err error) error {
	switch {
	case errors.Is(err, payment.ErrNotConfigured):
		return utils.NewAppError(utils.CodeConfiguration, "Configuration error", http.StatusInternalServerError, err)
	case errors.Is(err, payment.ErrAmountRequired):
		return utils.ValidationError("Amount is required")
	case errors.Is(err, payment.ErrInvalidAmount):
		return utils.ValidationError("Amount must be a positive number")
	case errors.Is(err, payment.ErrGateway):
		return utils.NewAppError(utils.CodeUpstream, "Failed to create order", http.StatusInternalServerError, err)
	default:
		return err
	}
}
