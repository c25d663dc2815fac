// Package calendar pulls upcoming events from a user's Google Calendar.
package calendar

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/okian/crewmatch/internal/domain/model"
	"github.com/okian/crewmatch/pkg/metrics"
	"golang.org/x/oauth2"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// Default sync window.
const (
	DefaultMaxResults = 25
	DefaultLookahead  = 60 * 24 * time.Hour

	primaryCalendar = "primary"
	untitledEvent   = "Untitled Event"
	allDayLayout    = "2006-01-02"
)

// Fetcher lists upcoming events for the holder of an access token.
type Fetcher interface {
	Upcoming(ctx context.Context, accessToken string) ([]model.Event, error)
}

// Client reads the primary calendar through the Calendar v3 API.
type Client struct {
	maxResults int64
	lookahead  time.Duration
	endpoint   string
	httpClient *http.Client
	now        func() time.Time
}

// NewClient creates a calendar client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		maxResults: DefaultMaxResults,
		lookahead:  DefaultLookahead,
		httpClient: http.DefaultClient,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Upcoming returns single events from now until the lookahead window ends,
// ordered by start time.
func (c *Client) Upcoming(ctx context.Context, accessToken string) ([]model.Event, error) {
	accessToken = strings.TrimSpace(accessToken)
	if accessToken == "" {
		return nil, ErrMissingToken
	}

	svc, err := c.service(ctx, accessToken)
	if err != nil {
		metrics.RecordCalendarError()
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}

	now := c.now()
	resp, err := svc.Events.List(primaryCalendar).
		TimeMin(now.Format(time.RFC3339)).
		TimeMax(now.Add(c.lookahead).Format(time.RFC3339)).
		ShowDeleted(false).
		SingleEvents(true).
		MaxResults(c.maxResults).
		OrderBy("startTime").
		Context(ctx).
		Do()
	if err != nil {
		metrics.RecordCalendarError()
		var gerr *googleapi.Error
		if errors.As(err, &gerr) && (gerr.Code == http.StatusUnauthorized || gerr.Code == http.StatusForbidden) {
			return nil, fmt.Errorf("%w: %w", ErrUnauthorized, err)
		}
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}

	out := make([]model.Event, 0, len(resp.Items))
	for _, item := range resp.Items {
		e, ok := convert(item)
		if !ok {
			continue
		}
		out = append(out, e)
	}
	metrics.RecordEventsSynced(len(out))
	return out, nil
}

func (c *Client) service(ctx context.Context, accessToken string) (*gcal.Service, error) {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"})
	base := context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)

	opts := []option.ClientOption{option.WithHTTPClient(oauth2.NewClient(base, ts))}
	if c.endpoint != "" {
		opts = append(opts, option.WithEndpoint(c.endpoint))
	}
	return gcal.NewService(ctx, opts...)
}

// convert maps an API event to the domain shape. Events without an id or a
// parseable start are skipped.
func convert(item *gcal.Event) (model.Event, bool) {
	if item == nil || item.Id == "" || item.Start == nil {
		return model.Event{}, false
	}
	start, allDay, ok := parseWhen(item.Start)
	if !ok {
		return model.Event{}, false
	}
	end, _, ok := parseWhen(item.End)
	if !ok {
		end = start
	}

	title := strings.TrimSpace(item.Summary)
	if title == "" {
		title = untitledEvent
	}
	return model.Event{
		ID:          item.Id,
		Title:       title,
		Description: item.Description,
		Location:    item.Location,
		Start:       start,
		End:         end,
		AllDay:      allDay,
		Link:        item.HtmlLink,
	}, true
}

func parseWhen(dt *gcal.EventDateTime) (time.Time, bool, bool) {
	if dt == nil {
		return time.Time{}, false, false
	}
	if dt.DateTime != "" {
		t, err := time.Parse(time.RFC3339, dt.DateTime)
		return t.UTC(), false, err == nil
	}
	if dt.Date != "" {
		t, err := time.Parse(allDayLayout, dt.Date)
		return t, true, err == nil
	}
	return time.Time{}, false, false
}
