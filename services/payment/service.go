package payment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"mindnest/models"

	"go.uber.org/zap"
)

const receiptPrefix = "receipt_"

// DefaultOrderService mints gateway orders. It keeps no state between calls.
type DefaultOrderService struct {
	gateway         Gateway
	defaultCurrency string
	logger          *zap.Logger
	now             func() time.Time
}

// NewOrderService builds the service. A nil gateway means credentials were
// not configured; every call then fails with ErrNotConfigured.
func NewOrderService(gateway Gateway, defaultCurrency string, logger *zap.Logger) *DefaultOrderService {
	if defaultCurrency == "" {
		defaultCurrency = "INR"
	}
	return &DefaultOrderService{
		gateway:         gateway,
		defaultCurrency: strings.ToUpper(defaultCurrency),
		logger:          logger,
		now:             time.Now,
	}
}

// WithClock replaces the clock used for receipt ids.
func (s *DefaultOrderService) WithClock(now func() time.Time) *DefaultOrderService {
	s.now = now
	return s
}

func (s *DefaultOrderService) Configured() bool {
	return s.gateway != nil
}

// CreateOrder converts the amount to minor units and asks the gateway for an
// order. The receipt is informational only and may repeat between orders.
func (s *DefaultOrderService) CreateOrder(ctx context.Context, intent models.OrderIntent) (*models.Order, error) {
	if s.gateway == nil {
		return nil, ErrNotConfigured
	}
	if intent.Amount == 0 {
		return nil, ErrAmountRequired
	}
	if intent.Amount < 0 {
		return nil, ErrInvalidAmount
	}

	currency := strings.ToUpper(strings.TrimSpace(intent.Currency))
	if currency == "" {
		currency = s.defaultCurrency
	}

	req := models.OrderRequest{
		Amount:         ToMinorUnits(intent.Amount),
		Currency:       currency,
		Receipt:        fmt.Sprintf("%s%d", receiptPrefix, s.now().UnixMilli()),
		PatientID:      intent.PatientID,
		PsychologistID: intent.PsychologistID,
	}

	order, err := s.gateway.CreateOrder(ctx, req)
	if err != nil {
		s.logger.Error("Gateway order creation failed",
			zap.Int64("amount", req.Amount),
			zap.String("currency", req.Currency),
			zap.String("receipt", req.Receipt),
			zap.Error(err),
		)
		return nil, errors.Join(ErrGateway, err)
	}

	s.logger.Info("Gateway order created",
		zap.String("orderId", order.ID),
		zap.String("receipt", req.Receipt),
	)
	return order, nil
}

func (s *DefaultOrderService) FetchOrder(ctx context.Context, orderID string) (*models.Order, error) {
	if s.gateway == nil {
		return nil, ErrNotConfigured
	}
	order, err := s.gateway.FetchOrder(ctx, orderID)
	if err != nil {
		s.logger.Error("Gateway order lookup failed", zap.String("orderId", orderID), zap.Error(err))
		return nil, errors.Join(ErrGateway, err)
	}
	return order, nil
}
