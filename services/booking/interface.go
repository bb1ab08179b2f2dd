package booking

import (
	"context"
	"errors"
	"time"

	"mindnest/models"
)

var (
	ErrNotFound            = errors.New("booking not found")
	ErrInvalidState        = errors.New("booking is not in a state that allows this action")
	ErrPaymentNotConfirmed = errors.New("payment has not been confirmed")
	ErrInvalidRequest      = errors.New("invalid booking request")
	// ErrPaymentMismatch means the paid order does not cover this booking.
	ErrPaymentMismatch = errors.New("paid order does not match the booking")
)

const (
	// DefaultSessionLength is used when a confirmation carries no end time.
	DefaultSessionLength = 50 * time.Minute
	// StaleAfter is how long a booking may sit in payment_confirmed or
	// event_pending before it is treated as abandoned and may be resumed.
	StaleAfter = 10 * time.Minute
)

// ConfirmRequest is what the client sends after the payment step succeeded.
type ConfirmRequest struct {
	OrderID        string    `json:"orderId" binding:"required"`
	PsychologistID string    `json:"psychologistId" binding:"required"`
	StartTime      time.Time `json:"startTime" binding:"required"`
	EndTime        time.Time `json:"endTime"`
	PatientID      string    `json:"-"`
	PatientEmail   string    `json:"-"`
}

// Enqueuer hands a booking to the background scheduling worker.
type Enqueuer interface {
	EnqueueSchedule(ctx context.Context, bookingID string) error
}

// BookingService drives a paid booking to a scheduled session.
type BookingService interface {
	Confirm(ctx context.Context, req ConfirmRequest) (*models.Booking, error)
	// Recover queues another scheduling attempt for a failed booking, or for
	// one left unfinished for longer than StaleAfter.
	Recover(ctx context.Context, bookingID string) (*models.Booking, error)
	RunScheduling(ctx context.Context, bookingID string) (*models.Booking, error)
	ListForPsychologist(ctx context.Context, psychologistID string) ([]models.Booking, error)
	ListForPatient(ctx context.Context, patientID string) ([]models.Booking, error)
	List(ctx context.Context, state models.BookingState) ([]models.Booking, error)
}
