// Package fetcher retrieves tvlistings grid data for one time bucket at a
// time. The zap2it site answers "400 Bad Request" for certain time windows
// of certain days, even for its own web grid; that one status is treated
// as "no programme data for this window" instead of a failure.
package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/scipunch/zap2xml/config"
)

// DefaultBaseURL is the grid endpoint of the zap2it listings site.
const DefaultBaseURL = "https://tvlistings.zap2it.com/api/grid"

const defaultHTTPTimeout = 60 * time.Second

// Placeholder stands in for a tolerated 400 response. It decodes to a grid
// with no channels, and is cached verbatim so the window is not re-fetched.
var Placeholder = []byte(`{"note": "Got a 400 error at this time, skipping.","channels": []}`)

// StatusError reports a grid response with a status that is neither
// success nor the tolerated 400.
type StatusError struct {
	URL    string
	Status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("grid request to %s returned status %d", e.URL, e.Status)
}

// Client fetches grid payloads for a fixed lineup configuration.
type Client struct {
	baseURL string
	conf    config.Config
	client  *http.Client
	log     *zap.SugaredLogger
}

// New creates a grid client for conf against the default endpoint.
func New(conf config.Config, log *zap.SugaredLogger) *Client {
	return NewWithBaseURL(conf, DefaultBaseURL, log)
}

// NewWithBaseURL creates a grid client against an explicit endpoint.
func NewWithBaseURL(conf config.Config, baseURL string, log *zap.SugaredLogger) *Client {
	return &Client{
		baseURL: baseURL,
		conf:    conf,
		client:  &http.Client{Timeout: defaultHTTPTimeout},
		log:     log,
	}
}

// GridURL builds the request URL for the window starting at bucket.
func (c *Client) GridURL(bucket int64) string {
	params := url.Values{
		"aid":          {c.conf.AID},
		"country":      {c.conf.Country},
		"device":       {c.conf.Device},
		"headendId":    {c.conf.HeadendID},
		"isOverride":   {strconv.FormatBool(c.conf.IsOverride)},
		"languagecode": {c.conf.Language},
		"pref":         {c.conf.Pref},
		"timespan":     {strconv.Itoa(c.conf.Timespan)},
		"timezone":     {c.conf.Timezone},
		"userId":       {c.conf.UserID},
		"postalCode":   {c.conf.PostalCode},
		"lineupId":     {c.conf.LineupID()},
		"time":         {strconv.FormatInt(bucket, 10)},
		"Activity_ID":  {"1"},
		"FromPage":     {"TV Guide"},
	}
	return c.baseURL + "?" + params.Encode()
}

// FetchGrid retrieves the raw grid payload for the window starting at
// bucket. A 400 yields Placeholder; any other non-success status or
// connection failure is returned as an error.
func (c *Client) FetchGrid(ctx context.Context, bucket int64) ([]byte, error) {
	gridURL := c.GridURL(bucket)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, gridURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build grid request with %w", err)
	}

	c.log.Debugw("fetching grid", "bucket", bucket)
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("grid request for bucket %d failed with %w", bucket, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to read grid response for bucket %d with %w", bucket, err)
		}
		return body, nil
	case resp.StatusCode == http.StatusBadRequest:
		c.log.Infow("got a 400 for this window, substituting empty data", "bucket", bucket)
		return Placeholder, nil
	default:
		return nil, &StatusError{URL: gridURL, Status: resp.StatusCode}
	}
}
