package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	bookingRepo "mindnest/database/repository/bookings"
	directoryRepo "mindnest/database/repository/directory"
	"mindnest/models"
	"mindnest/services/calendar"
	"mindnest/services/payment"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultBookingService records each step of the booking before moving on, so
// a failure after payment leaves a booking in scheduling_failed instead of
// losing it. Payments are never refunded from here.
type DefaultBookingService struct {
	repo      bookingRepo.BookingRepository
	orders    payment.OrderService
	directory directoryRepo.DirectoryRepository
	scheduler calendar.MeetingScheduler
	queue     Enqueuer
	currency  string
	logger    *zap.Logger
	now       func() time.Time
}

// NewBookingService wires the booking flow. scheduler may be nil when no
// calendar credentials are configured; bookings then end in scheduling_failed.
func NewBookingService(
	repo bookingRepo.BookingRepository,
	orders payment.OrderService,
	directory directoryRepo.DirectoryRepository,
	scheduler calendar.MeetingScheduler,
	queue Enqueuer,
	logger *zap.Logger,
) *DefaultBookingService {
	return &DefaultBookingService{
		repo:      repo,
		orders:    orders,
		directory: directory,
		scheduler: scheduler,
		queue:     queue,
		currency:  "INR",
		logger:    logger,
		now:       time.Now,
	}
}

// WithCurrency sets the currency session prices are charged in.
func (s *DefaultBookingService) WithCurrency(currency string) *DefaultBookingService {
	if currency != "" {
		s.currency = strings.ToUpper(currency)
	}
	return s
}

// WithClock replaces the clock used to judge stale bookings.
func (s *DefaultBookingService) WithClock(now func() time.Time) *DefaultBookingService {
	s.now = now
	return s
}

func (s *DefaultBookingService) Confirm(ctx context.Context, req ConfirmRequest) (*models.Booking, error) {
	if req.OrderID == "" || req.PsychologistID == "" || req.StartTime.IsZero() || req.PatientID == "" {
		return nil, fmt.Errorf("%w: order, psychologist and start time are required", ErrInvalidRequest)
	}
	if req.EndTime.IsZero() {
		req.EndTime = req.StartTime.Add(DefaultSessionLength)
	}
	if !req.EndTime.After(req.StartTime) {
		return nil, fmt.Errorf("%w: end time must be after start time", ErrInvalidRequest)
	}

	if existing, err := s.repo.GetByOrderID(ctx, req.OrderID); err == nil {
		if existing.PatientID != req.PatientID {
			s.logger.Warn("Booking confirmation for another patient's order",
				zap.String("orderId", req.OrderID),
				zap.String("patientId", req.PatientID),
			)
			return nil, ErrNotFound
		}
		return s.resume(ctx, existing)
	} else if !errors.Is(err, bookingRepo.ErrNotFound) {
		return nil, err
	}

	order, err := s.orders.FetchOrder(ctx, req.OrderID)
	if err != nil {
		return nil, err
	}
	if order.Status != models.OrderPaid {
		s.logger.Warn("Booking confirmation for unpaid order",
			zap.String("orderId", req.OrderID),
			zap.String("status", order.Status),
		)
		return nil, ErrPaymentNotConfirmed
	}

	psy, err := s.directory.GetByID(ctx, req.PsychologistID)
	if err != nil {
		if errors.Is(err, directoryRepo.ErrNotFound) {
			return nil, fmt.Errorf("%w: unknown psychologist", ErrInvalidRequest)
		}
		return nil, err
	}
	if err := s.checkOrder(order, psy, req); err != nil {
		s.logger.Warn("Paid order rejected",
			zap.String("orderId", order.ID),
			zap.String("patientId", req.PatientID),
			zap.Error(err),
		)
		return nil, err
	}

	// The payment is taken; from here every step is recorded even if the
	// caller goes away.
	store := context.WithoutCancel(ctx)

	now := s.now().UTC()
	b := &models.Booking{
		ID:                uuid.NewString(),
		OrderID:           order.ID,
		PatientID:         req.PatientID,
		PatientEmail:      req.PatientEmail,
		PsychologistID:    psy.ID,
		PsychologistEmail: psy.Email,
		PsychologistName:  psy.Name,
		Amount:            float64(order.AmountPaid) / 100,
		Currency:          order.Currency,
		StartTime:         req.StartTime.UTC(),
		EndTime:           req.EndTime.UTC(),
		State:             models.BookingPaymentConfirmed,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := s.repo.Create(store, b); err != nil {
		if errors.Is(err, bookingRepo.ErrDuplicate) {
			existing, gerr := s.repo.GetByOrderID(store, req.OrderID)
			if gerr != nil {
				return nil, gerr
			}
			if existing.PatientID != req.PatientID {
				return nil, ErrNotFound
			}
			return existing, nil
		}
		return nil, err
	}
	s.logger.Info("Booking recorded", zap.String("bookingId", b.ID), zap.String("orderId", b.OrderID))

	if err := s.repo.Transition(store, b.ID, models.BookingPaymentConfirmed, models.BookingEventPending, bookingRepo.BookingPatch{}); err != nil {
		return nil, s.mapRepoErr(err)
	}
	return s.RunScheduling(ctx, b.ID)
}

// checkOrder verifies that a paid order covers this session for this patient.
func (s *DefaultBookingService) checkOrder(order *models.Order, psy *models.Psychologist, req ConfirmRequest) error {
	if order.PatientID != "" && order.PatientID != req.PatientID {
		return fmt.Errorf("%w: order was placed by another patient", ErrPaymentMismatch)
	}
	if order.PsychologistID != "" && order.PsychologistID != psy.ID {
		return fmt.Errorf("%w: order was placed for another psychologist", ErrPaymentMismatch)
	}
	if !strings.EqualFold(order.Currency, s.currency) {
		return fmt.Errorf("%w: paid in %s, sessions are charged in %s", ErrPaymentMismatch, order.Currency, s.currency)
	}
	if price := payment.ToMinorUnits(psy.Price); order.AmountPaid < price {
		return fmt.Errorf("%w: paid %d, session costs %d", ErrPaymentMismatch, order.AmountPaid, price)
	}
	return nil
}

// resume continues a booking an earlier confirmation left unfinished. Fresh
// in-flight bookings are returned as they are.
func (s *DefaultBookingService) resume(ctx context.Context, b *models.Booking) (*models.Booking, error) {
	if !s.isStale(b) {
		return b, nil
	}
	s.logger.Info("Resuming stale booking", zap.String("bookingId", b.ID), zap.String("state", string(b.State)))

	if b.State == models.BookingPaymentConfirmed {
		err := s.repo.Transition(context.WithoutCancel(ctx), b.ID, models.BookingPaymentConfirmed, models.BookingEventPending, bookingRepo.BookingPatch{})
		if err != nil {
			if errors.Is(err, bookingRepo.ErrStateConflict) {
				return s.get(ctx, b.ID)
			}
			return nil, err
		}
	}
	out, err := s.RunScheduling(ctx, b.ID)
	if errors.Is(err, ErrInvalidState) {
		return s.get(ctx, b.ID)
	}
	return out, err
}

// isStale reports whether b stopped short of a final state long enough ago
// that nothing is still working on it.
func (s *DefaultBookingService) isStale(b *models.Booking) bool {
	if b.State != models.BookingPaymentConfirmed && b.State != models.BookingEventPending {
		return false
	}
	return s.now().Sub(b.UpdatedAt) >= StaleAfter
}

// RunScheduling creates the calendar event for a booking in event_pending and
// records the outcome. A calendar failure is recorded on the booking, not
// returned. The outcome is written even when ctx is cancelled mid-call.
func (s *DefaultBookingService) RunScheduling(ctx context.Context, bookingID string) (*models.Booking, error) {
	store := context.WithoutCancel(ctx)

	b, err := s.get(store, bookingID)
	if err != nil {
		return nil, err
	}
	if b.State != models.BookingEventPending {
		return nil, ErrInvalidState
	}

	event, schedErr := s.createEvent(ctx, b)
	if schedErr != nil {
		s.logger.Error("Scheduling failed",
			zap.String("bookingId", b.ID),
			zap.Error(schedErr),
		)
		patch := bookingRepo.BookingPatch{LastError: schedErr.Error(), IncAttempts: true}
		if err := s.repo.Transition(store, b.ID, models.BookingEventPending, models.BookingSchedulingFailed, patch); err != nil {
			return nil, s.mapRepoErr(err)
		}
		return s.get(store, b.ID)
	}

	patch := bookingRepo.BookingPatch{EventID: event.EventID, MeetLink: event.MeetLink, IncAttempts: true}
	if err := s.repo.Transition(store, b.ID, models.BookingEventPending, models.BookingScheduled, patch); err != nil {
		return nil, s.mapRepoErr(err)
	}
	if event.MeetLink == "" {
		s.logger.Warn("Session scheduled without a meeting link", zap.String("bookingId", b.ID))
	}
	return s.get(store, b.ID)
}

// Recover puts a failed or stale booking into event_pending and queues a
// single scheduling attempt.
func (s *DefaultBookingService) Recover(ctx context.Context, bookingID string) (*models.Booking, error) {
	b, err := s.get(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.State != models.BookingSchedulingFailed && !s.isStale(b) {
		return nil, ErrInvalidState
	}
	if s.queue == nil {
		return nil, errors.New("scheduling queue is not configured")
	}

	store := context.WithoutCancel(ctx)
	if b.State != models.BookingEventPending {
		if err := s.repo.Transition(store, b.ID, b.State, models.BookingEventPending, bookingRepo.BookingPatch{}); err != nil {
			return nil, s.mapRepoErr(err)
		}
	}
	if err := s.queue.EnqueueSchedule(ctx, b.ID); err != nil {
		patch := bookingRepo.BookingPatch{LastError: "enqueue failed: " + err.Error()}
		if terr := s.repo.Transition(store, b.ID, models.BookingEventPending, models.BookingSchedulingFailed, patch); terr != nil {
			s.logger.Error("Failed to restore booking state", zap.String("bookingId", b.ID), zap.Error(terr))
		}
		return nil, fmt.Errorf("failed to enqueue scheduling: %w", err)
	}
	s.logger.Info("Booking queued for rescheduling", zap.String("bookingId", b.ID), zap.String("from", string(b.State)))
	return s.get(store, b.ID)
}

func (s *DefaultBookingService) ListForPsychologist(ctx context.Context, psychologistID string) ([]models.Booking, error) {
	return s.repo.List(ctx, bookingRepo.BookingQuery{PsychologistID: psychologistID})
}

func (s *DefaultBookingService) ListForPatient(ctx context.Context, patientID string) ([]models.Booking, error) {
	return s.repo.List(ctx, bookingRepo.BookingQuery{PatientID: patientID})
}

func (s *DefaultBookingService) List(ctx context.Context, state models.BookingState) ([]models.Booking, error) {
	return s.repo.List(ctx, bookingRepo.BookingQuery{State: state})
}

func (s *DefaultBookingService) createEvent(ctx context.Context, b *models.Booking) (*models.CalendarEvent, error) {
	if s.scheduler == nil {
		return nil, errors.New("calendar is not configured")
	}
	req := models.EventRequest{
		Summary:     fmt.Sprintf("Therapy session with %s", b.PsychologistName),
		Description: fmt.Sprintf("Booking %s", b.ID),
		StartTime:   b.StartTime.Format(time.RFC3339),
		EndTime:     b.EndTime.Format(time.RFC3339),
	}
	for _, email := range []string{b.PatientEmail, b.PsychologistEmail} {
		if email != "" {
			req.Attendees = append(req.Attendees, email)
		}
	}
	return s.scheduler.CreateMeeting(ctx, req)
}

func (s *DefaultBookingService) get(ctx context.Context, id string) (*models.Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, bookingRepo.ErrNotFound) {
		return nil, ErrNotFound
	}
	return b, err
}

func (s *DefaultBookingService) mapRepoErr(err error) error {
	if errors.Is(err, bookingRepo.ErrStateConflict) {
		return ErrInvalidState
	}
	if errors.Is(err, bookingRepo.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

var _ BookingService = (*DefaultBookingService)(nil)
