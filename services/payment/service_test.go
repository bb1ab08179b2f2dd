package payment

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"mindnest/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeGateway struct {
	calls []models.OrderRequest
	err   error
}

func (f *fakeGateway) CreateOrder(_ context.Context, req models.OrderRequest) (*models.Order, error) {
	f.calls = append(f.calls, req)
	if f.err != nil {
		return nil, f.err
	}
	return &models.Order{ID: "order_1", Entity: "order", Amount: req.Amount, Currency: req.Currency, Receipt: req.Receipt, Status: models.OrderCreated}, nil
}

func (f *fakeGateway) FetchOrder(_ context.Context, id string) (*models.Order, error) {
	return &models.Order{ID: id, Status: models.OrderPaid}, f.err
}

func TestCreateOrderConvertsAmount(t *testing.T) {
	gw := &fakeGateway{}
	now := time.UnixMilli(1767225600123)
	svc := NewOrderService(gw, "INR", zap.NewNop()).WithClock(func() time.Time { return now })

	order, err := svc.CreateOrder(context.Background(), models.OrderIntent{Amount: 500})
	require.NoError(t, err)
	require.Len(t, gw.calls, 1)

	assert.Equal(t, int64(50000), gw.calls[0].Amount)
	assert.Equal(t, "INR", gw.calls[0].Currency)
	assert.Equal(t, "receipt_1767225600123", gw.calls[0].Receipt)
	assert.Regexp(t, `^receipt_\d+$`, gw.calls[0].Receipt)
	assert.Equal(t, "order_1", order.ID)
}

func TestCreateOrderCarriesParties(t *testing.T) {
	gw := &fakeGateway{}
	svc := NewOrderService(gw, "INR", zap.NewNop())

	_, err := svc.CreateOrder(context.Background(), models.OrderIntent{Amount: 800, PatientID: "user-1", PsychologistID: "psy-kabir"})
	require.NoError(t, err)
	assert.Equal(t, "user-1", gw.calls[0].PatientID)
	assert.Equal(t, "psy-kabir", gw.calls[0].PsychologistID)
}

func TestCreateOrderRoundsMinorUnits(t *testing.T) {
	gw := &fakeGateway{}
	svc := NewOrderService(gw, "INR", zap.NewNop())

	_, err := svc.CreateOrder(context.Background(), models.OrderIntent{Amount: 19.99, Currency: "usd"})
	require.NoError(t, err)
	assert.Equal(t, int64(1999), gw.calls[0].Amount)
	assert.Equal(t, "USD", gw.calls[0].Currency)
}

func TestCreateOrderNotConfigured(t *testing.T) {
	svc := NewOrderService(nil, "INR", zap.NewNop())
	_, err := svc.CreateOrder(context.Background(), models.OrderIntent{Amount: 500})
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestCreateOrderGatewayFailure(t *testing.T) {
	upstream := errors.New("boom")
	gw := &fakeGateway{err: upstream}
	svc := NewOrderService(gw, "INR", zap.NewNop())

	_, err := svc.CreateOrder(context.Background(), models.OrderIntent{Amount: 500})
	assert.ErrorIs(t, err, ErrGateway)
	assert.ErrorIs(t, err, upstream)
	assert.Len(t, gw.calls, 1)
}

func TestParseAmount(t *testing.T) {
	cases := []struct {
		raw  string
		want float64
		err  error
	}{
		{raw: `500`, want: 500},
		{raw: `"250.5"`, want: 250.5},
		{raw: ``, err: ErrAmountRequired},
		{raw: `null`, err: ErrAmountRequired},
		{raw: `""`, err: ErrAmountRequired},
		{raw: `0`, err: ErrAmountRequired},
		{raw: `-10`, err: ErrInvalidAmount},
		{raw: `"ten"`, err: ErrInvalidAmount},
		{raw: `true`, err: ErrInvalidAmount},
	}
	for _, tc := range cases {
		got, err := ParseAmount(json.RawMessage(tc.raw))
		if tc.err != nil {
			assert.ErrorIs(t, err, tc.err, tc.raw)
			continue
		}
		require.NoError(t, err, tc.raw)
		assert.Equal(t, tc.want, got, tc.raw)
	}
}
