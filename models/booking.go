package models

import "time"

// BookingState is the recorded step of the booking flow.
type BookingState string

const (
	BookingPaymentConfirmed BookingState = "payment_confirmed"
	BookingEventPending     BookingState = "event_pending"
	BookingScheduled        BookingState = "scheduled"
	BookingSchedulingFailed BookingState = "scheduling_failed"
)

// bookingTransitions lists the allowed next states for each state.
var bookingTransitions = map[BookingState][]BookingState{
	BookingPaymentConfirmed: {BookingEventPending},
	BookingEventPending:     {BookingScheduled, BookingSchedulingFailed},
	BookingSchedulingFailed: {BookingEventPending},
}

// CanTransition reports whether a booking may move from s to next.
func (s BookingState) CanTransition(next BookingState) bool {
	for _, allowed := range bookingTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// PaidStates are the states in which the payment has been taken.
var PaidStates = []BookingState{
	BookingPaymentConfirmed,
	BookingEventPending,
	BookingScheduled,
	BookingSchedulingFailed,
}

// Booking is a paid session between a patient and a psychologist.
type Booking struct {
	ID                string       `bson:"id" json:"id"`
	OrderID           string       `bson:"order_id" json:"orderId"`
	PatientID         string       `bson:"patient_id" json:"patientId"`
	PatientEmail      string       `bson:"patient_email" json:"patientEmail"`
	PsychologistID    string       `bson:"psychologist_id" json:"psychologistId"`
	PsychologistEmail string       `bson:"psychologist_email" json:"-"`
	PsychologistName  string       `bson:"psychologist_name" json:"psychologistName"`
	Amount            float64      `bson:"amount" json:"amount"`
	Currency          string       `bson:"currency" json:"currency"`
	StartTime         time.Time    `bson:"start_time" json:"startTime"`
	EndTime           time.Time    `bson:"end_time" json:"endTime"`
	State             BookingState `bson:"state" json:"state"`
	EventID           string       `bson:"event_id,omitempty" json:"eventId,omitempty"`
	MeetLink          string       `bson:"meet_link,omitempty" json:"meetLink,omitempty"`
	LastError         string       `bson:"last_error,omitempty" json:"lastError,omitempty"`
	Attempts          int          `bson:"attempts" json:"attempts"`
	CreatedAt         time.Time    `bson:"created_at" json:"createdAt"`
	UpdatedAt         time.Time    `bson:"updated_at" json:"updatedAt"`
}

// ScheduleTaskPayload is the queued request to (re)run the scheduling step.
type ScheduleTaskPayload struct {
	BookingID string `json:"bookingId"`
}
