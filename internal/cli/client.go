package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/charliek/syslogdash/internal/api"
	"github.com/charliek/syslogdash/internal/constants"
	"github.com/charliek/syslogdash/internal/domain"
)

// Client is an HTTP client for the collector API
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new API client
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = constants.DefaultRequestTimeout
	}
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// BaseURL returns the collector base URL
func (c *Client) BaseURL() string {
	return c.baseURL
}

// LogQuery holds the optional server-side filters for FetchLogs
type LogQuery struct {
	Limit    int
	Offset   int
	Facility *domain.Facility
	Severity *domain.Severity
	Search   string
}

// FetchLogs gets the newest limit entries, newest first. The limit is clamped to 1..1000.
func (c *Client) FetchLogs(ctx context.Context, limit int) ([]domain.LogEntry, error) {
	return c.QueryLogs(ctx, LogQuery{Limit: limit})
}

// QueryLogs gets entries with server-side filtering
func (c *Client) QueryLogs(ctx context.Context, q LogQuery) ([]domain.LogEntry, error) {
	query := url.Values{}
	query.Set("limit", strconv.Itoa(ClampLimit(q.Limit)))
	if q.Offset > 0 {
		query.Set("offset", strconv.Itoa(q.Offset))
	}
	if q.Facility != nil {
		query.Set("facility", strconv.Itoa(int(*q.Facility)))
	}
	if q.Severity != nil {
		query.Set("severity", strconv.Itoa(int(*q.Severity)))
	}
	if q.Search != "" {
		query.Set("search", q.Search)
	}

	var resp []api.LogEntryResponse
	if err := c.do(ctx, http.MethodGet, "/api/logs?"+query.Encode(), &resp); err != nil {
		return nil, err
	}

	entries, _ := api.ToLogEntries(resp)
	return entries, nil
}

// FetchLog gets a single entry; a 404 yields domain.ErrEntryNotFound
func (c *Client) FetchLog(ctx context.Context, id string) (domain.LogEntry, error) {
	var resp api.LogEntryResponse
	if err := c.do(ctx, http.MethodGet, "/api/logs/"+url.PathEscape(id), &resp); err != nil {
		var se *StatusError
		if errors.As(err, &se) && se.StatusCode == http.StatusNotFound {
			return domain.LogEntry{}, fmt.Errorf("%w: %s", domain.ErrEntryNotFound, id)
		}
		return domain.LogEntry{}, err
	}
	return resp.ToDomain()
}

// ClearLogs clears the server-side store
func (c *Client) ClearLogs(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/api/logs", nil)
}

// FetchStats gets the aggregate statistics snapshot
func (c *Client) FetchStats(ctx context.Context) (domain.StatsSnapshot, error) {
	var resp api.StatsResponse
	if err := c.do(ctx, http.MethodGet, "/api/stats", &resp); err != nil {
		return domain.StatsSnapshot{}, err
	}
	return resp.ToDomain(), nil
}

// ClampLimit bounds a fetch limit to 1..MaxFetchLimit
func ClampLimit(limit int) int {
	if limit < 1 {
		return 1
	}
	if limit > constants.MaxFetchLimit {
		return constants.MaxFetchLimit
	}
	return limit
}

// do issues a request and decodes a JSON body into v when v is non-nil
func (c *Client) do(ctx context.Context, method, path string, v any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return statusError(resp)
	}

	if v == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// StatusError is returned for non-2xx responses
type StatusError struct {
	StatusCode int
	Code       string // error code from a JSON error body, if any
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %d %s: %s", domain.ErrUnexpectedStatus, e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %d %s", domain.ErrUnexpectedStatus, e.StatusCode, http.StatusText(e.StatusCode))
}

func (e *StatusError) Unwrap() error {
	return domain.ErrUnexpectedStatus
}

// statusError converts a non-2xx response into an error, surfacing a JSON error
// body when present
func statusError(resp *http.Response) error {
	se := &StatusError{StatusCode: resp.StatusCode}
	var errResp api.ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil && errResp.Error != "" {
		se.Code = errResp.Code
		se.Message = errResp.Error
	}
	return se
}
