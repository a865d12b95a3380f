package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/danhtrinhdevelopermay/BSA6/internal/models"
)

// CloudOptimizer may rehost stored media with a smaller optimized copy.
// Optimization is best-effort: the pipeline falls back to the local reference
// on any error, so implementations never need to retry.
type CloudOptimizer interface {
	Optimize(ctx context.Context, ref models.MediaReference) (models.MediaReference, error)
}

// NoopOptimizer passes references through unchanged. Used when no cloud media
// endpoint is configured, and in tests to exercise the fallback path
// deterministically.
type NoopOptimizer struct{}

func (NoopOptimizer) Optimize(_ context.Context, ref models.MediaReference) (models.MediaReference, error) {
	return ref, nil
}

// HTTPOptimizer delegates optimization to an external media service.
type HTTPOptimizer struct {
	endpoint string
	client   *http.Client
}

// NewHTTPOptimizer creates a new HTTPOptimizer
func NewHTTPOptimizer(endpoint string) *HTTPOptimizer {
	return &HTTPOptimizer{
		endpoint: endpoint,
		client:   &http.Client{Timeout: 15 * time.Second},
	}
}

// Optimize posts the local reference to the optimization endpoint and returns
// the rehosted reference it responds with.
func (o *HTTPOptimizer) Optimize(ctx context.Context, ref models.MediaReference) (models.MediaReference, error) {
	payload, err := json.Marshal(ref)
	if err != nil {
		return ref, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.endpoint, bytes.NewReader(payload))
	if err != nil {
		return ref, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.client.Do(req)
	if err != nil {
		return ref, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ref, fmt.Errorf("optimizer returned status %d", resp.StatusCode)
	}

	var out models.MediaReference
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return ref, err
	}
	if out.URL == "" {
		return ref, fmt.Errorf("optimizer returned empty URL")
	}

	optimized := ref
	optimized.URL = out.URL
	if out.ThumbnailURL != "" {
		optimized.ThumbnailURL = out.ThumbnailURL
	}
	return optimized, nil
}

// SelectOptimizer picks the configured optimizer implementation.
func SelectOptimizer(endpoint string) CloudOptimizer {
	if endpoint == "" {
		return NoopOptimizer{}
	}
	return NewHTTPOptimizer(endpoint)
}
