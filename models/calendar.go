package models

// EventRequest describes a session to put on the calendar.
type EventRequest struct {
	Summary     string   `json:"summary" validate:"required"`
	Description string   `json:"description"`
	StartTime   string   `json:"startTime" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	EndTime     string   `json:"endTime" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	Attendees   []string `json:"attendees" validate:"dive,email"`
}

// CalendarEvent is what the calendar provider created. MeetLink is empty
// when the provider attached no conference.
type CalendarEvent struct {
	EventID  string `json:"eventId"`
	MeetLink string `json:"meetLink"`
	HTMLLink string `json:"htmlLink"`
}
