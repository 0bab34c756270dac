package calibration

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
)

// Source opens calibration files by location.
type Source interface {
	Open(ctx context.Context, location string) (io.ReadCloser, error)
}

// FileSource reads calibration files from the local filesystem.
type FileSource struct{}

// Open implements Source.
func (FileSource) Open(_ context.Context, location string) (io.ReadCloser, error) {
	return os.Open(location)
}

// HTTPSource fetches calibration files over HTTP(S).
type HTTPSource struct {
	Client *http.Client
}

// Open implements Source. Any status other than 200 is an error.
func (s HTTPSource) Open(ctx context.Context, location string) (io.ReadCloser, error) {
	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("fetch %s: unexpected status %s", location, resp.Status)
	}
	return resp.Body, nil
}

// AutoSource dispatches http:// and https:// locations to HTTP and
// everything else to the filesystem.
type AutoSource struct {
	HTTP HTTPSource
	File FileSource
}

// Open implements Source.
func (s AutoSource) Open(ctx context.Context, location string) (io.ReadCloser, error) {
	lower := strings.ToLower(location)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return s.HTTP.Open(ctx, location)
	}
	return s.File.Open(ctx, location)
}
