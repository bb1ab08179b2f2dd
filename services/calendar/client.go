package calendar

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/oauth2/google"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// ClientOptions configures the Google Calendar client.
type ClientOptions struct {
	// CredentialsFile is a service-account JSON key.
	CredentialsFile string
	// ImpersonateEmail, when set, makes the service account act as this
	// Workspace user (domain-wide delegation). Meet links are only issued
	// for calendars owned by a real user.
	ImpersonateEmail string
}

// NewClient builds the Calendar API client once per process.
func NewClient(ctx context.Context, opts ClientOptions) (*gcal.Service, error) {
	if opts.CredentialsFile == "" {
		return nil, fmt.Errorf("calendar: credentials file not configured")
	}

	if opts.ImpersonateEmail == "" {
		return gcal.NewService(ctx,
			option.WithCredentialsFile(opts.CredentialsFile),
			option.WithScopes(gcal.CalendarEventsScope),
		)
	}

	key, err := os.ReadFile(opts.CredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("calendar: read credentials: %w", err)
	}
	jwtCfg, err := google.JWTConfigFromJSON(key, gcal.CalendarEventsScope)
	if err != nil {
		return nil, fmt.Errorf("calendar: parse credentials: %w", err)
	}
	jwtCfg.Subject = opts.ImpersonateEmail
	return gcal.NewService(ctx, option.WithTokenSource(jwtCfg.TokenSource(ctx)))
}
