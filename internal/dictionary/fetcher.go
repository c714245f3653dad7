package dictionary

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/avast/retry-go"
	"github.com/go-resty/resty/v2"
	"github.com/spf13/afero"
)

// DefaultTimeout bounds a single remote fetch.
const DefaultTimeout = 60 * time.Second

// FetchError reports that a page could not be retrieved.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: status code %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// FetcherConfig configures HTTPFetcher.
type FetcherConfig struct {
	Timeout       time.Duration
	RetryAttempts uint
	RetryDelay    time.Duration
	UserAgent     string
}

// HTTPFetcher retrieves pages over HTTP(S) and reads file:// URLs from a filesystem.
type HTTPFetcher struct {
	client *resty.Client
	fs     afero.Fs
	config FetcherConfig
}

func NewHTTPFetcher(fs afero.Fs, config FetcherConfig) *HTTPFetcher {
	if config.Timeout <= 0 {
		config.Timeout = DefaultTimeout
	}
	if config.RetryDelay <= 0 {
		config.RetryDelay = 500 * time.Millisecond
	}

	client := resty.New().
		SetTimeout(config.Timeout)
	if config.UserAgent != "" {
		client.SetHeader("User-Agent", config.UserAgent)
	}
	return &HTTPFetcher{
		client: client,
		fs:     fs,
		config: config,
	}
}

// FetchHTML returns the body of the page at rawURL.
func (f *HTTPFetcher) FetchHTML(ctx context.Context, rawURL string) ([]byte, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, &FetchError{URL: rawURL, Err: fmt.Errorf("url.Parse > %w", err)}
	}

	switch u.Scheme {
	case "file":
		body, err := afero.ReadFile(f.fs, u.Path)
		if err != nil {
			return nil, &FetchError{URL: rawURL, Err: fmt.Errorf("afero.ReadFile > %w", err)}
		}
		return body, nil
	case "http", "https":
		return f.fetchWithRetry(ctx, rawURL)
	default:
		return nil, &FetchError{URL: rawURL, Err: fmt.Errorf("unsupported scheme %q", u.Scheme)}
	}
}

func (f *HTTPFetcher) fetchWithRetry(ctx context.Context, rawURL string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, f.config.Timeout)
	defer cancel()

	var body []byte
	err := retry.Do(
		func() error {
			b, err := f.get(ctx, rawURL)
			if err != nil {
				return err
			}
			body = b
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(f.config.RetryAttempts+1),
		retry.Delay(f.config.RetryDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(isRetryableError),
		retry.OnRetry(func(n uint, err error) {
			slog.Default().Debug("retrying fetch", "attempt", n+1, "url", rawURL, "error", err)
		}),
	)
	if err != nil {
		var fetchErr *FetchError
		if errors.As(err, &fetchErr) {
			return nil, fetchErr
		}
		return nil, &FetchError{URL: rawURL, Err: err}
	}
	return body, nil
}

func (f *HTTPFetcher) get(ctx context.Context, rawURL string) ([]byte, error) {
	slog.Default().Debug("fetching page", "url", rawURL)
	res, err := f.client.R().
		SetContext(ctx).
		Get(rawURL)
	if err != nil {
		return nil, &FetchError{URL: rawURL, Err: fmt.Errorf("client.R.Get > %w", err)}
	}
	if res.StatusCode() != http.StatusOK {
		return nil, &FetchError{URL: rawURL, StatusCode: res.StatusCode()}
	}
	return res.Body(), nil
}

// isRetryableError retries transport failures, rate limiting and server errors.
func isRetryableError(err error) bool {
	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if fetchErr.StatusCode == 0 {
		return true
	}
	return fetchErr.StatusCode == http.StatusTooManyRequests || fetchErr.StatusCode >= http.StatusInternalServerError
}

// SearchURL builds the lookup URL for term.
//
// For http(s) URLs the term is set as the queryParam query parameter, form
// encoded so spaces become '+'. For file URLs a "%s" in the path is replaced
// by the encoded term; without it the file is used as is.
func SearchURL(baseURL, queryParam, term string) (string, error) {
	if strings.HasPrefix(baseURL, "file://") {
		return strings.ReplaceAll(baseURL, "%s", url.QueryEscape(term)), nil
	}

	u, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("url.Parse > %w", err)
	}
	query := u.Query()
	query.Set(queryParam, term)
	u.RawQuery = query.Encode()
	return u.String(), nil
}
