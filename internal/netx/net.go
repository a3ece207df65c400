// Package netx fetches shared files over the public HTTP endpoint.
package netx

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
)

var ErrLinkNotFound = errors.New("invalid or expired link")

// SharedFile is the body and metadata of a successful public download.
type SharedFile struct {
	Name     string
	MimeType string
	Content  []byte
}

// FetchShared downloads url with client and reads at most limit bytes of the
// body. A 404 maps to ErrLinkNotFound; other non-200 statuses are errors
// that carry the status and a prefix of the body.
func FetchShared(ctx context.Context, client *http.Client, url string, limit int64) (*SharedFile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, ErrLinkNotFound
	default:
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("download failed: %s; body: %s", resp.Status, string(b))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(body)) > limit {
		return nil, fmt.Errorf("download exceeds %d bytes", limit)
	}

	f := &SharedFile{Content: body, MimeType: resp.Header.Get("Content-Type")}
	if _, params, err := mime.ParseMediaType(resp.Header.Get("Content-Disposition")); err == nil {
		f.Name = params["filename"]
	}
	return f, nil
}
