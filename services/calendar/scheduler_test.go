package calendar

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"mindnest/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// newTestScheduler points a Calendar client at handler.
func newTestScheduler(t *testing.T, handler http.HandlerFunc) *Scheduler {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	svc, err := gcal.NewService(context.Background(),
		option.WithEndpoint(srv.URL+"/"),
		option.WithHTTPClient(srv.Client()),
	)
	require.NoError(t, err)

	now := time.UnixMilli(1767225600000)
	return NewScheduler(svc, "primary", "Asia/Kolkata", zap.NewNop()).
		WithClock(func() time.Time { return now })
}

func validRequest() models.EventRequest {
	return models.EventRequest{
		Summary:     "Therapy session",
		Description: "Session with Dr. Rao",
		StartTime:   "2026-03-02T10:00:00+05:30",
		EndTime:     "2026-03-02T11:00:00+05:30",
		Attendees:   []string{"patient@example.com", "doctor@example.com"},
	}
}

func TestCreateMeetingReturnsHangoutLink(t *testing.T) {
	var got gcal.Event
	var query string
	s := newTestScheduler(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		query = r.URL.Query().Get("conferenceDataVersion")
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":          "evt_1",
			"htmlLink":    "https://calendar.example/evt_1",
			"hangoutLink": "https://meet.google.com/abc-defg-hij",
		})
	})

	ev, err := s.CreateMeeting(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, "https://meet.google.com/abc-defg-hij", ev.MeetLink)
	assert.Equal(t, "evt_1", ev.EventID)
	assert.Equal(t, "1", query)
	assert.Equal(t, "Asia/Kolkata", got.Start.TimeZone)
	assert.Equal(t, "Asia/Kolkata", got.End.TimeZone)
	assert.Equal(t, "meet_1767225600000", got.ConferenceData.CreateRequest.RequestId)
	assert.Equal(t, "hangoutsMeet", got.ConferenceData.CreateRequest.ConferenceSolutionKey.Type)
	require.Len(t, got.Attendees, 2)
	assert.Equal(t, "patient@example.com", got.Attendees[0].Email)
}

func TestCreateMeetingWithoutLink(t *testing.T) {
	s := newTestScheduler(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"id": "evt_2"})
	})

	ev, err := s.CreateMeeting(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Empty(t, ev.MeetLink)
	assert.Equal(t, "evt_2", ev.EventID)
}

func TestCreateMeetingFallsBackToVideoEntryPoint(t *testing.T) {
	s := newTestScheduler(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id": "evt_3",
			"conferenceData": map[string]any{
				"entryPoints": []map[string]any{
					{"entryPointType": "phone", "uri": "tel:+1-555"},
					{"entryPointType": "video", "uri": "https://meet.google.com/xyz"},
				},
			},
		})
	})

	ev, err := s.CreateMeeting(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Equal(t, "https://meet.google.com/xyz", ev.MeetLink)
}

func TestCreateMeetingSurfacesProviderError(t *testing.T) {
	s := newTestScheduler(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":{"code":403,"message":"Service accounts cannot invite attendees"}}`))
	})

	_, err := s.CreateMeeting(context.Background(), validRequest())
	require.Error(t, err)

	var apiErr *googleapi.Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusForbidden, apiErr.Code)
	assert.Contains(t, apiErr.Message, "Service accounts")
}

func TestCreateMeetingValidatesRequest(t *testing.T) {
	called := false
	s := newTestScheduler(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	bad := validRequest()
	bad.Attendees = []string{"not-an-email"}
	_, err := s.CreateMeeting(context.Background(), bad)
	assert.ErrorIs(t, err, ErrInvalidRequest)

	bad = validRequest()
	bad.EndTime = bad.StartTime
	_, err = s.CreateMeeting(context.Background(), bad)
	assert.ErrorIs(t, err, ErrInvalidRequest)

	bad = validRequest()
	bad.StartTime = "tomorrow"
	_, err = s.CreateMeeting(context.Background(), bad)
	assert.ErrorIs(t, err, ErrInvalidRequest)

	assert.False(t, called)
}
