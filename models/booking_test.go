package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBookingTransitions(t *testing.T) {
	assert.True(t, BookingPaymentConfirmed.CanTransition(BookingEventPending))
	assert.True(t, BookingEventPending.CanTransition(BookingScheduled))
	assert.True(t, BookingEventPending.CanTransition(BookingSchedulingFailed))
	assert.True(t, BookingSchedulingFailed.CanTransition(BookingEventPending))

	assert.False(t, BookingScheduled.CanTransition(BookingEventPending))
	assert.False(t, BookingPaymentConfirmed.CanTransition(BookingScheduled))
}
