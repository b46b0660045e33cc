// Package remote extracts map keys from remote references and downloads the
// archive a key names.
package remote

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/simonhull/beatmap/internal/types"
)

// Defaults used by NewClient.
const (
	DefaultTimeout           = 2 * time.Minute
	DefaultRequestsPerMinute = 60
	DefaultMaxBytes          = int64(64 * 1024 * 1024)
)

var keyPattern = regexp.MustCompile(`^[0-9A-Za-z]+$`)

// ParseKey extracts the map key from ref. Accepted forms:
//
//	570
//	https://<host>/api/download/key/570
//	https://<host>/beatmap/570
//	<scheme>://570
//
// Empty path segments are skipped, so repeated or trailing slashes are
// tolerated. Anything else yields an *types.InvalidReferenceError.
func ParseKey(ref string) (string, error) {
	if keyPattern.MatchString(ref) {
		return ref, nil
	}

	invalid := func(reason string) (string, error) {
		return "", &types.InvalidReferenceError{Ref: ref, Reason: reason}
	}

	u, err := url.Parse(ref)
	if err != nil {
		return invalid(err.Error())
	}
	if u.Scheme == "" || u.Host == "" || u.User != nil {
		return invalid("not a key or absolute URL")
	}

	segments := strings.FieldsFunc(u.Path, func(r rune) bool { return r == '/' })
	if len(segments) == 0 {
		if u.Port() != "" || !keyPattern.MatchString(u.Host) {
			return invalid("authority is not a key")
		}
		return u.Host, nil
	}

	if u.Scheme != "https" {
		return invalid(fmt.Sprintf("scheme %q does not support path references", u.Scheme))
	}

	var key string
	switch {
	case len(segments) == 4 && segments[0] == "api" && segments[1] == "download" && segments[2] == "key":
		key = segments[3]
	case len(segments) == 2 && segments[0] == "beatmap":
		key = segments[1]
	default:
		return invalid("unrecognized path " + u.Path)
	}
	if !keyPattern.MatchString(key) {
		return invalid(fmt.Sprintf("malformed key %q", key))
	}
	return key, nil
}

// Fetcher downloads the archive for a key.
type Fetcher interface {
	Fetch(ctx context.Context, key string) ([]byte, error)
}

// Client fetches map archives over HTTP. Requests are paced by Limiter and
// never retried.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Limiter    *rate.Limiter
	UserAgent  string

	// MaxBytes bounds the archive size. Zero means DefaultMaxBytes.
	MaxBytes int64
}

// NewClient returns a Client for baseURL with default timeout and pacing.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL:    strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: DefaultTimeout},
		Limiter:    NewLimiter(DefaultRequestsPerMinute),
		UserAgent:  "beatmap",
		MaxBytes:   DefaultMaxBytes,
	}
}

// NewLimiter paces requests to perMinute with a burst of one. A value of
// zero or less disables pacing.
func NewLimiter(perMinute int) *rate.Limiter {
	if perMinute <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), 1)
}

// Fetch downloads the archive for key from <BaseURL>/api/download/key/<key>.
func (c *Client) Fetch(ctx context.Context, key string) ([]byte, error) {
	if !keyPattern.MatchString(key) {
		return nil, &types.InvalidReferenceError{Ref: key, Reason: "malformed key"}
	}

	if c.Limiter != nil {
		if err := c.Limiter.Wait(ctx); err != nil {
			return nil, &types.IOError{Op: "fetch", Name: key, Err: err}
		}
	}

	endpoint := strings.TrimSuffix(c.BaseURL, "/") + "/api/download/key/" + url.PathEscape(key)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &types.IOError{Op: "fetch", Name: key, Err: fmt.Errorf("create request: %w", err)}
	}
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}

	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, &types.IOError{Op: "fetch", Name: key, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &types.IOError{Op: "fetch", Name: key, Err: &StatusError{Code: resp.StatusCode, Status: resp.Status}}
	}

	limit := c.MaxBytes
	if limit <= 0 {
		limit = DefaultMaxBytes
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, &types.IOError{Op: "read", Name: key, Err: err}
	}
	if int64(len(body)) > limit {
		return nil, &types.IOError{Op: "read", Name: key, Err: fmt.Errorf("archive exceeds %d bytes", limit)}
	}
	return body, nil
}

// StatusError reports a non-2xx response.
type StatusError struct {
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return "unexpected response " + e.Status
}

// IsNotFound reports whether err is a 404 from the remote.
func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == http.StatusNotFound
}
