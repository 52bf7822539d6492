package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/seladb/holochain-rust/internal/logger"
)

const (
	// userAgent mimics a browser so the release host serves assets the same
	// way it serves interactive downloads.
	userAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"

	// maxRedirects bounds manual redirect following for a single Get call.
	maxRedirects = 5
)

var (
	// ErrRedirectLimit is returned when a redirect chain exceeds maxRedirects hops.
	ErrRedirectLimit = errors.New("redirect limit exceeded")
	// errMissingLocation is returned when a redirect response carries no Location header.
	errMissingLocation = errors.New("redirect response without Location header")
)

// StatusError reports a terminal response with a non-OK status.
// It carries the status code and the response body text for diagnosis.
type StatusError struct {
	// URL is the final URL that produced the response.
	URL string
	// StatusCode is the terminal HTTP status code.
	StatusCode int
	// Body is the response body text.
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: unexpected status %d: %s", e.URL, e.StatusCode, e.Body)
}

// Client issues GET requests with manual, bounded redirect following.
type Client struct {
	httpClient *http.Client
}

// NewClient returns a Client whose requests are bounded by the given timeout.
// A zero timeout disables the bound entirely.
func NewClient(timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
			// Redirects are followed manually so the hop bound is authoritative.
			CheckRedirect: func(_ *http.Request, _ []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

// Get fetches the URL and returns the response body of the final 200 response.
// Redirect responses are followed by re-requesting the Location header, up to
// maxRedirects hops; relative Location values resolve against the request URL.
func (c *Client) Get(ctx context.Context, rawURL string) ([]byte, error) {
	current := rawURL

	for hop := 0; hop <= maxRedirects; hop++ {
		parsed, err := url.Parse(current)
		if err != nil {
			return nil, fmt.Errorf("parse url %s: %w", current, err)
		}

		logger.InfoKV(ctx, "Fetching",
			"method", http.MethodGet, "host", parsed.Host, "path", parsed.Path)

		body, redirect, err := c.fetchOnce(ctx, current)
		if err != nil {
			return nil, err
		}

		if redirect == "" {
			return body, nil
		}

		next, err := parsed.Parse(redirect)
		if err != nil {
			return nil, fmt.Errorf("resolve redirect %s: %w", redirect, err)
		}

		current = next.String()
	}

	return nil, fmt.Errorf("%s: %w", rawURL, ErrRedirectLimit)
}

// fetchOnce performs a single request. It returns either the body of a 200
// response or the Location of a redirect response.
func (c *Client) fetchOnce(ctx context.Context, rawURL string) (body []byte, redirect string, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return nil, "", fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", userAgent)

	response, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("fetch %s: %w", rawURL, err)
	}

	defer func() {
		_ = response.Body.Close()
	}()

	if isRedirect(response.StatusCode) {
		location := response.Header.Get("Location")
		if location == "" {
			return nil, "", fmt.Errorf("%s: %w", rawURL, errMissingLocation)
		}

		return nil, location, nil
	}

	body, err = io.ReadAll(response.Body)
	if err != nil {
		return nil, "", fmt.Errorf("read response body: %w", err)
	}

	if response.StatusCode != http.StatusOK {
		return nil, "", &StatusError{
			URL:        rawURL,
			StatusCode: response.StatusCode,
			Body:       string(body),
		}
	}

	return body, "", nil
}

// isRedirect reports whether the status code names a Location-bearing redirect.
func isRedirect(statusCode int) bool {
	switch statusCode {
	case http.StatusMovedPermanently,
		http.StatusFound,
		http.StatusSeeOther,
		http.StatusTemporaryRedirect,
		http.StatusPermanentRedirect:
		return true
	default:
		return false
	}
}
