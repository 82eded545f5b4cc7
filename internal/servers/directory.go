package servers

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// ErrStatus is returned when the directory answers with a non 2xx status.
var ErrStatus = errors.New("unexpected directory status")

const defaultFetchTimeout = 10 * time.Second

// Directory retrieves the server listing from a directory service over HTTP.
type Directory struct {
	url     string
	timeout time.Duration
	client  *http.Client
	logger  *zap.Logger
}

// NewDirectory returns a client for the listing at url.
func NewDirectory(url string, timeout time.Duration, logger *zap.Logger) *Directory {
	if timeout <= 0 {
		timeout = defaultFetchTimeout
	}
	return &Directory{
		url:     url,
		timeout: timeout,
		client:  &http.Client{},
		logger:  logger.Named("directory"),
	}
}

// URL returns the endpoint this client reads from.
func (d *Directory) URL() string {
	return d.url
}

// Fetch downloads and decodes the listing once.
func (d *Directory) Fetch(ctx context.Context) (*Response, error) {
	start := time.Now()
	body, errFetch := d.fetchURL(ctx)
	if errFetch != nil {
		return nil, errFetch
	}
	resp, errDecode := Decode(body)
	if errDecode != nil {
		return nil, errors.Wrapf(errDecode, "Failed to decode listing: %s", d.url)
	}
	d.logger.Debug("Fetched listing",
		zap.Duration("duration", time.Since(start)),
		zap.Int("servers", len(resp.List)),
		zap.Int("skipped", resp.Skipped))
	if resp.Skipped > 0 {
		d.logger.Warn("Skipped malformed entries", zap.Int("count", resp.Skipped))
	}
	return resp, nil
}

func (d *Directory) fetchURL(ctx context.Context) ([]byte, error) {
	timeout, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	req, errReq := http.NewRequestWithContext(timeout, http.MethodGet, d.url, nil)
	if errReq != nil {
		return nil, errors.Wrap(errReq, "Failed to create request")
	}
	req.Header.Set("Accept", "application/json")

	resp, errResp := d.client.Do(req)
	if errResp != nil {
		return nil, errors.Wrapf(errResp, "Failed to download listing: %s", d.url)
	}
	defer func() {
		if errClose := resp.Body.Close(); errClose != nil {
			d.logger.Error("Error trying to close", zap.Error(errClose))
		}
	}()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, errors.Wrapf(ErrStatus, "%s: %d", d.url, resp.StatusCode)
	}

	body, errBody := io.ReadAll(resp.Body)
	if errBody != nil {
		return nil, errors.Wrapf(errBody, "Failed to read body: %s", d.url)
	}
	return body, nil
}
