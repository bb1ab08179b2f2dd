package calendar

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"mindnest/models"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
)

const (
	conferenceRequestPrefix = "meet_"
	conferenceSolutionType  = "hangoutsMeet"
)

// ErrInvalidRequest wraps validation failures of an EventRequest.
var ErrInvalidRequest = errors.New("invalid calendar event request")

// MeetingScheduler creates calendar events with a video-conference link.
type MeetingScheduler interface {
	CreateMeeting(ctx context.Context, req models.EventRequest) (*models.CalendarEvent, error)
}

// Scheduler implements MeetingScheduler on Google Calendar.
type Scheduler struct {
	events     *gcal.Service
	calendarID string
	timezone   string
	validate   *validator.Validate
	logger     *zap.Logger
	now        func() time.Time
}

func NewScheduler(events *gcal.Service, calendarID, timezone string, logger *zap.Logger) *Scheduler {
	if calendarID == "" {
		calendarID = "primary"
	}
	if timezone == "" {
		timezone = "Asia/Kolkata"
	}
	return &Scheduler{
		events:     events,
		calendarID: calendarID,
		timezone:   timezone,
		validate:   validator.New(),
		logger:     logger,
		now:        time.Now,
	}
}

// WithClock replaces the clock used for conference request ids.
func (s *Scheduler) WithClock(now func() time.Time) *Scheduler {
	s.now = now
	return s
}

// CreateMeeting inserts the event and returns the provider-issued join link.
// A missing link is not an error: the returned MeetLink is then empty.
// Provider errors are returned as-is (wrapped) and never retried.
func (s *Scheduler) CreateMeeting(ctx context.Context, req models.EventRequest) (*models.CalendarEvent, error) {
	if err := s.check(req); err != nil {
		return nil, err
	}

	attendees := make([]*gcal.EventAttendee, 0, len(req.Attendees))
	for _, email := range req.Attendees {
		attendees = append(attendees, &gcal.EventAttendee{Email: email})
	}

	requestID := conferenceRequestPrefix + strconv.FormatInt(s.now().UnixMilli(), 10)
	event := &gcal.Event{
		Summary:     req.Summary,
		Description: req.Description,
		Start:       &gcal.EventDateTime{DateTime: req.StartTime, TimeZone: s.timezone},
		End:         &gcal.EventDateTime{DateTime: req.EndTime, TimeZone: s.timezone},
		Attendees:   attendees,
		ConferenceData: &gcal.ConferenceData{
			CreateRequest: &gcal.CreateConferenceRequest{
				RequestId:             requestID,
				ConferenceSolutionKey: &gcal.ConferenceSolutionKey{Type: conferenceSolutionType},
			},
		},
	}

	created, err := s.events.Events.Insert(s.calendarID, event).
		ConferenceDataVersion(1).
		Context(ctx).
		Do()
	if err != nil {
		fields := []zap.Field{zap.String("requestId", requestID), zap.Error(err)}
		var apiErr *googleapi.Error
		if errors.As(err, &apiErr) {
			fields = append(fields,
				zap.Int("status", apiErr.Code),
				zap.String("body", apiErr.Body),
				zap.Any("details", apiErr.Errors),
			)
		}
		s.logger.Error("Calendar event creation failed", fields...)
		return nil, fmt.Errorf("calendar: insert event: %w", err)
	}

	result := &models.CalendarEvent{
		EventID:  created.Id,
		MeetLink: meetLink(created),
		HTMLLink: created.HtmlLink,
	}
	if result.MeetLink == "" {
		s.logger.Warn("Calendar event created without a conference link",
			zap.String("eventId", created.Id),
			zap.Int("attendees", len(attendees)),
		)
	}
	return result, nil
}

func (s *Scheduler) check(req models.EventRequest) error {
	if err := s.validate.Struct(req); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	start, _ := time.Parse(time.RFC3339, req.StartTime)
	end, _ := time.Parse(time.RFC3339, req.EndTime)
	if !end.After(start) {
		return fmt.Errorf("%w: end time must be after start time", ErrInvalidRequest)
	}
	return nil
}

// meetLink prefers hangoutLink and falls back to the first video entry point.
func meetLink(ev *gcal.Event) string {
	if ev.HangoutLink != "" {
		return ev.HangoutLink
	}
	if ev.ConferenceData == nil {
		return ""
	}
	for _, ep := range ev.ConferenceData.EntryPoints {
		if strings.EqualFold(ep.EntryPointType, "video") && ep.Uri != "" {
			return ep.Uri
		}
	}
	return ""
}
