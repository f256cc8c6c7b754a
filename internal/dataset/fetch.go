package dataset

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// ErrUnreachable marks connectivity failures against the dataset host, as
// opposed to a reachable host serving something we cannot use.
var ErrUnreachable = errors.New("dataset host unreachable")

// maxDatasetSize caps the download; the cities CSV is a few hundred KB, so
// anything near this limit means we are reading the wrong resource.
const maxDatasetSize = 64 << 20

// Fetch downloads the raw CSV bytes from url. Transport-level failures are
// wrapped in ErrUnreachable so callers can distinguish "host down" from
// "host served garbage". The download is unbounded unless ctx carries a
// deadline; pass one to bound it.
func Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build dataset request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer func() { _ = resp.Body.Close() }() // safe to ignore

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: unexpected status %s", url, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxDatasetSize))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	return body, nil
}
