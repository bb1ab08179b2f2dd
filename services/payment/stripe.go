package payment

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"mindnest/models"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"go.uber.org/zap"
)

// Metadata keys stored on each PaymentIntent.
const (
	metaReceipt        = "receipt"
	metaPatientID      = "patient_id"
	metaPsychologistID = "psychologist_id"
)

// StripeGateway implements Gateway with Stripe PaymentIntents. A PaymentIntent
// plays the role of an order; the receipt and the booking parties are kept in
// its metadata.
type StripeGateway struct {
	api    *client.API
	logger *zap.Logger
}

// NewStripeGateway returns a nil Gateway when no secret key is configured.
func NewStripeGateway(secretKey string, logger *zap.Logger) Gateway {
	if secretKey == "" {
		return nil
	}
	return newStripeGateway(secretKey, nil, logger)
}

// newStripeGateway uses the given backends, or Stripe's defaults when nil.
func newStripeGateway(secretKey string, backends *stripe.Backends, logger *zap.Logger) *StripeGateway {
	return &StripeGateway{api: client.New(secretKey, backends), logger: logger}
}

func (g *StripeGateway) CreateOrder(ctx context.Context, req models.OrderRequest) (*models.Order, error) {
	params := &stripe.PaymentIntentParams{
		Amount:      stripe.Int64(req.Amount),
		Currency:    stripe.String(strings.ToLower(req.Currency)),
		Description: stripe.String(req.Receipt),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx
	params.AddMetadata(metaReceipt, req.Receipt)
	if req.PatientID != "" {
		params.AddMetadata(metaPatientID, req.PatientID)
	}
	if req.PsychologistID != "" {
		params.AddMetadata(metaPsychologistID, req.PsychologistID)
	}

	pi, err := g.api.PaymentIntents.New(params)
	if err != nil {
		g.logStripeError("create", err)
		return nil, fmt.Errorf("stripe: create payment intent: %w", err)
	}
	return orderFromIntent(pi), nil
}

func (g *StripeGateway) FetchOrder(ctx context.Context, orderID string) (*models.Order, error) {
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx

	pi, err := g.api.PaymentIntents.Get(orderID, params)
	if err != nil {
		g.logStripeError("get", err)
		return nil, fmt.Errorf("stripe: get payment intent %s: %w", orderID, err)
	}
	return orderFromIntent(pi), nil
}

func (g *StripeGateway) logStripeError(op string, err error) {
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) {
		g.logger.Error("Stripe request failed",
			zap.String("op", op),
			zap.String("type", string(stripeErr.Type)),
			zap.String("code", string(stripeErr.Code)),
			zap.Int("httpStatus", stripeErr.HTTPStatusCode),
			zap.String("requestId", stripeErr.RequestID),
			zap.String("message", stripeErr.Msg),
		)
	}
}

func orderFromIntent(pi *stripe.PaymentIntent) *models.Order {
	status := models.OrderCreated
	switch pi.Status {
	case stripe.PaymentIntentStatusSucceeded:
		status = models.OrderPaid
	case stripe.PaymentIntentStatusCanceled:
		status = models.OrderCancelled
	}
	return &models.Order{
		ID:             pi.ID,
		Entity:         "order",
		Amount:         pi.Amount,
		AmountPaid:     pi.AmountReceived,
		Currency:       strings.ToUpper(string(pi.Currency)),
		Receipt:        pi.Metadata[metaReceipt],
		Status:         status,
		ClientSecret:   pi.ClientSecret,
		CreatedAt:      pi.Created,
		PatientID:      pi.Metadata[metaPatientID],
		PsychologistID: pi.Metadata[metaPsychologistID],
	}
}
