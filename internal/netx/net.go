// Package netx holds small networking helpers shared by the seeder.
package netx

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// DownloadFile fetches url and returns the body bytes together with the
// Content-Type reported by the server. Non-2xx responses are errors.
func DownloadFile(ctx context.Context, client *http.Client, url string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", err
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, "", fmt.Errorf("download %s: unexpected status %s", url, resp.Status)
	}

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", err
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(b)
	}
	return b, contentType, nil
}
