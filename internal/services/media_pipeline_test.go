package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/png"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danhtrinhdevelopermay/BSA6/internal/models"
)

// memMediaStore is an in-memory MediaRepository.
type memMediaStore struct {
	mu    sync.Mutex
	next  int
	blobs map[string][]byte
	kinds map[string]string
}

func newMemMediaStore() *memMediaStore {
	return &memMediaStore{blobs: make(map[string][]byte), kinds: make(map[string]string)}
}

func (s *memMediaStore) PutMedia(_ context.Context, data []byte, kind string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	id := fmt.Sprintf("blob-%d", s.next)
	s.blobs[id] = data
	s.kinds[id] = kind
	return id, nil
}

func (s *memMediaStore) GetMedia(_ context.Context, id string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.blobs[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return data, nil
}

func (s *memMediaStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.blobs)
}

type failingOptimizer struct{}

func (failingOptimizer) Optimize(_ context.Context, _ models.MediaReference) (models.MediaReference, error) {
	return models.MediaReference{}, errors.New("optimizer unavailable")
}

type rewritingOptimizer struct{}

func (rewritingOptimizer) Optimize(_ context.Context, ref models.MediaReference) (models.MediaReference, error) {
	ref.URL = "https://cdn.example.com" + ref.URL
	return ref, nil
}

func dataURI(mimeType string, raw []byte) string {
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(raw)
}

func TestIngestHostedURLPassesThrough(t *testing.T) {
	store := newMemMediaStore()
	pipeline := NewMediaPipeline(store, nil)

	ref, err := pipeline.Ingest(context.Background(), models.MediaUpload{
		Kind: models.MediaKindImage,
		URL:  "https://example.com/photo.jpg",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/photo.jpg", ref.URL)
	assert.Equal(t, models.MediaKindImage, ref.Kind)
	assert.Zero(t, store.count(), "hosted URLs must not be re-stored")
}

func TestIngestStoresSmallImage(t *testing.T) {
	store := newMemMediaStore()
	pipeline := NewMediaPipeline(store, nil)
	payload := []byte("tiny image bytes")

	ref, err := pipeline.Ingest(context.Background(), models.MediaUpload{
		URL: dataURI("image/png", payload),
	})
	require.NoError(t, err)
	assert.Equal(t, models.MediaKindImage, ref.Kind)
	assert.True(t, strings.HasPrefix(ref.URL, "/media/"), "URL %q should be locally served", ref.URL)
	assert.True(t, strings.HasSuffix(ref.URL, ".png"))
	assert.Empty(t, ref.ThumbnailURL)

	// Below the compression threshold the bytes are stored untouched.
	id := strings.TrimSuffix(strings.TrimPrefix(ref.URL, "/media/"), ".png")
	stored, err := store.GetMedia(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, payload, stored)
}

func TestIngestVideoGetsPlaceholderThumbnail(t *testing.T) {
	store := newMemMediaStore()
	pipeline := NewMediaPipeline(store, nil)

	ref, err := pipeline.Ingest(context.Background(), models.MediaUpload{
		URL: dataURI("video/mp4", []byte("short clip")),
	})
	require.NoError(t, err)
	assert.Equal(t, models.MediaKindVideo, ref.Kind)
	assert.True(t, strings.HasSuffix(ref.URL, ".mp4"))
	assert.Equal(t, videoThumbnailPlaceholder, ref.ThumbnailURL)
}

func TestIngestRejectsOversizedVideo(t *testing.T) {
	store := newMemMediaStore()
	pipeline := NewMediaPipeline(store, nil)
	payload := make([]byte, maxVideoBytes+1)

	_, err := pipeline.Ingest(context.Background(), models.MediaUpload{
		URL: dataURI("video/mp4", payload),
	})
	require.ErrorIs(t, err, ErrOversizedMedia)
	assert.Zero(t, store.count(), "rejected videos must not be stored")
}

func TestIngestRejectsUnsupportedType(t *testing.T) {
	pipeline := NewMediaPipeline(newMemMediaStore(), nil)

	_, err := pipeline.Ingest(context.Background(), models.MediaUpload{
		URL: dataURI("application/pdf", []byte("%PDF-1.4")),
	})
	assert.ErrorIs(t, err, ErrUnsupportedMedia)
}

func TestIngestRejectsMalformedDataURI(t *testing.T) {
	pipeline := NewMediaPipeline(newMemMediaStore(), nil)

	for _, uri := range []string{
		"data:image/png;base64",          // no payload separator
		"data:image/png,not-base64",      // payload not base64 encoded
		"data:image/png;base64,!!!not**", // undecodable payload
	} {
		_, err := pipeline.Ingest(context.Background(), models.MediaUpload{URL: uri})
		assert.ErrorIs(t, err, ErrInvalidInput, "uri %q", uri)
	}
}

func TestClassifyKindFallbacks(t *testing.T) {
	tests := []struct {
		name     string
		mimeType string
		filename string
		declared string
		want     string
	}{
		{"mime wins", "image/webp", "clip.mp4", models.MediaKindVideo, models.MediaKindImage},
		{"filename extension", "application/octet-stream", "holiday.MOV", "", models.MediaKindVideo},
		{"declared kind last", "application/octet-stream", "", models.MediaKindImage, models.MediaKindImage},
		{"nothing matches", "application/octet-stream", "notes.txt", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classifyKind(tt.mimeType, tt.filename, tt.declared))
		})
	}
}

func TestIngestAllEnforcesItemLimit(t *testing.T) {
	pipeline := NewMediaPipeline(newMemMediaStore(), nil)

	uploads := make([]models.MediaUpload, 8)
	for i := range uploads {
		uploads[i] = models.MediaUpload{
			Kind: models.MediaKindImage,
			URL:  fmt.Sprintf("https://example.com/%d.jpg", i),
		}
	}

	refs := pipeline.IngestAll(context.Background(), uploads)
	require.Len(t, refs, defaultMaxItems)
	// The accepted items are the first ones in submission order.
	assert.Equal(t, "https://example.com/0.jpg", refs[0].URL)
	assert.Equal(t, "https://example.com/4.jpg", refs[4].URL)
}

func TestIngestAllSkipsFailingItems(t *testing.T) {
	pipeline := NewMediaPipeline(newMemMediaStore(), nil)

	refs := pipeline.IngestAll(context.Background(), []models.MediaUpload{
		{URL: dataURI("application/pdf", []byte("nope"))},
		{Kind: models.MediaKindImage, URL: "https://example.com/ok.jpg"},
	})
	require.Len(t, refs, 1)
	assert.Equal(t, "https://example.com/ok.jpg", refs[0].URL)
}

func TestIngestSurvivesOptimizerFailure(t *testing.T) {
	pipeline := NewMediaPipeline(newMemMediaStore(), failingOptimizer{})

	ref, err := pipeline.Ingest(context.Background(), models.MediaUpload{
		URL: dataURI("image/png", []byte("bytes")),
	})
	require.NoError(t, err, "optimizer failure must fall back to the local reference")
	assert.True(t, strings.HasPrefix(ref.URL, "/media/"))
}

func TestIngestUsesOptimizerResult(t *testing.T) {
	pipeline := NewMediaPipeline(newMemMediaStore(), rewritingOptimizer{})

	ref, err := pipeline.Ingest(context.Background(), models.MediaUpload{
		URL: dataURI("image/png", []byte("bytes")),
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(ref.URL, "https://cdn.example.com/media/"))
}

func TestIngestStoresOriginalWhenImageUndecodable(t *testing.T) {
	store := newMemMediaStore()
	pipeline := NewMediaPipeline(store, nil)

	// Above the compression threshold but not a decodable image; the
	// original bytes pass through rather than failing the upload.
	payload := bytes.Repeat([]byte{0xAB}, compressThreshold+1)
	ref, err := pipeline.Ingest(context.Background(), models.MediaUpload{
		URL: dataURI("image/jpeg", payload),
	})
	require.NoError(t, err)

	id := strings.TrimSuffix(strings.TrimPrefix(ref.URL, "/media/"), ".jpg")
	stored, err := store.GetMedia(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, payload, stored)
}

func TestShrinkImageBoundsAndFormat(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 1600, 900))
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, src))

	shrunk, err := shrinkImage(buf.Bytes())
	require.NoError(t, err)

	decoded, format, err := image.Decode(bytes.NewReader(shrunk))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)

	bounds := decoded.Bounds()
	assert.Equal(t, maxImageDimension, bounds.Dx())
	assert.Equal(t, 450, bounds.Dy(), "aspect ratio should be preserved")
}

func TestShrinkImageKeepsSmallDimensions(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 400, 300))
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, src))

	shrunk, err := shrinkImage(buf.Bytes())
	require.NoError(t, err)

	decoded, _, err := image.Decode(bytes.NewReader(shrunk))
	require.NoError(t, err)
	assert.Equal(t, 400, decoded.Bounds().Dx())
	assert.Equal(t, 300, decoded.Bounds().Dy())
}
