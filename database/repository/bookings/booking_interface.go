package bookingRepo

import (
	"context"
	"errors"

	"mindnest/models"
)

var (
	ErrNotFound = errors.New("booking not found")
	// ErrStateConflict means the booking was not in the expected state.
	ErrStateConflict = errors.New("booking state conflict")
	ErrDuplicate     = errors.New("booking already exists for order")
)

// BookingQuery filters List. Empty fields are ignored.
type BookingQuery struct {
	State          models.BookingState
	PsychologistID string
	PatientID      string
}

// BookingPatch holds the fields written alongside a state transition.
type BookingPatch struct {
	EventID     string
	MeetLink    string
	LastError   string
	IncAttempts bool
}

// BookingRepository defines methods for booking data access.
type BookingRepository interface {
	Create(ctx context.Context, booking *models.Booking) error
	GetByID(ctx context.Context, id string) (*models.Booking, error)
	GetByOrderID(ctx context.Context, orderID string) (*models.Booking, error)
	// Transition moves a booking from one state to another only if it is
	// currently in from.
	Transition(ctx context.Context, id string, from, to models.BookingState, patch BookingPatch) error
	List(ctx context.Context, q BookingQuery) ([]models.Booking, error)
	// RevenueByState sums paid bookings per currency and state.
	RevenueByState(ctx context.Context) ([]models.RevenueBucket, error)
}
