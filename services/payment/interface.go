package payment

import (
	"context"
	"errors"

	"mindnest/models"
)

var (
	ErrAmountRequired = errors.New("amount is required")
	ErrInvalidAmount  = errors.New("amount must be a positive number")
	ErrNotConfigured  = errors.New("payment gateway is not configured")
	ErrGateway        = errors.New("payment gateway request failed")
)

// Gateway is the external payment processor.
type Gateway interface {
	CreateOrder(ctx context.Context, req models.OrderRequest) (*models.Order, error)
	FetchOrder(ctx context.Context, orderID string) (*models.Order, error)
}

// OrderService creates and looks up gateway orders.
type OrderService interface {
	// Configured reports whether gateway credentials are present.
	Configured() bool
	CreateOrder(ctx context.Context, intent models.OrderIntent) (*models.Order, error)
	FetchOrder(ctx context.Context, orderID string) (*models.Order, error)
}
