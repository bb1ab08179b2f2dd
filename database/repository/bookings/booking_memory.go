package bookingRepo

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"mindnest/models"
)

// MemoryBookingRepo keeps bookings in process with the same state rules as
// the MongoDB repository.
type MemoryBookingRepo struct {
	mu       sync.RWMutex
	bookings map[string]*models.Booking
	now      func() time.Time
}

func NewMemoryBookingRepo() *MemoryBookingRepo {
	return &MemoryBookingRepo{bookings: map[string]*models.Booking{}, now: time.Now}
}

// WithClock replaces the clock used for CreatedAt and UpdatedAt.
func (r *MemoryBookingRepo) WithClock(now func() time.Time) *MemoryBookingRepo {
	r.now = now
	return r
}

func (r *MemoryBookingRepo) Create(_ context.Context, booking *models.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.bookings[booking.ID]; ok {
		return ErrDuplicate
	}
	for _, b := range r.bookings {
		if b.OrderID == booking.OrderID {
			return ErrDuplicate
		}
	}
	now := r.now().UTC()
	booking.CreatedAt = now
	booking.UpdatedAt = now
	cp := *booking
	r.bookings[booking.ID] = &cp
	return nil
}

func (r *MemoryBookingRepo) GetByID(_ context.Context, id string) (*models.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.bookings[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (r *MemoryBookingRepo) GetByOrderID(_ context.Context, orderID string) (*models.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, b := range r.bookings {
		if b.OrderID == orderID {
			cp := *b
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (r *MemoryBookingRepo) Transition(_ context.Context, id string, from, to models.BookingState, patch BookingPatch) error {
	if !from.CanTransition(to) {
		return fmt.Errorf("%w: %s -> %s not allowed", ErrStateConflict, from, to)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.bookings[id]
	if !ok || b.State != from {
		return fmt.Errorf("%w: booking %s is not %s", ErrStateConflict, id, from)
	}
	b.State = to
	b.UpdatedAt = r.now().UTC()
	b.LastError = patch.LastError
	if patch.EventID != "" {
		b.EventID = patch.EventID
	}
	if patch.MeetLink != "" {
		b.MeetLink = patch.MeetLink
	}
	if patch.IncAttempts {
		b.Attempts++
	}
	return nil
}

func (r *MemoryBookingRepo) List(_ context.Context, q BookingQuery) ([]models.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []models.Booking{}
	for _, b := range r.bookings {
		if q.State != "" && b.State != q.State {
			continue
		}
		if q.PsychologistID != "" && b.PsychologistID != q.PsychologistID {
			continue
		}
		if q.PatientID != "" && b.PatientID != q.PatientID {
			continue
		}
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.After(out[j].StartTime) })
	return out, nil
}

func (r *MemoryBookingRepo) RevenueByState(_ context.Context) ([]models.RevenueBucket, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	type key struct{ currency, state string }
	groups := map[key]*models.RevenueBucket{}
	for _, b := range r.bookings {
		if !isPaid(b.State) {
			continue
		}
		k := key{b.Currency, string(b.State)}
		g, ok := groups[k]
		if !ok {
			g = &models.RevenueBucket{Currency: b.Currency, State: string(b.State)}
			groups[k] = g
		}
		g.Total += b.Amount
		g.Count++
	}

	out := make([]models.RevenueBucket, 0, len(groups))
	for _, g := range groups {
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Currency != out[j].Currency {
			return out[i].Currency < out[j].Currency
		}
		return out[i].State < out[j].State
	})
	return out, nil
}

func isPaid(s models.BookingState) bool {
	for _, p := range models.PaidStates {
		if p == s {
			return true
		}
	}
	return false
}

var (
	_ BookingRepository = (*MemoryBookingRepo)(nil)
	_ BookingRepository = (*MongoBookingRepo)(nil)
)
