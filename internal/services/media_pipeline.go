package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"
	"log"
	"strings"
	"time"

	// Decoders for the image formats clients are allowed to submit. SVG has
	// no decoder; oversized SVGs fall back to pass-through like the rest of
	// the undecodable cases.
	_ "image/gif"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"golang.org/x/image/draw"

	"github.com/danhtrinhdevelopermay/BSA6/internal/models"
	"github.com/danhtrinhdevelopermay/BSA6/internal/repositories"
)

const (
	defaultIngestTimeout = 10 * time.Second
	defaultMaxItems      = 5

	compressThreshold = 500 * 1024 // images above this get resized and re-encoded
	maxImageDimension = 800
	jpegQuality       = 70
	maxVideoBytes     = 50 << 20 // videos above this are rejected, never truncated

	videoThumbnailPlaceholder = "/assets/video-placeholder.svg"
)

var imageExtensions = map[string]bool{
	"jpg": true, "jpeg": true, "png": true, "gif": true,
	"bmp": true, "webp": true, "svg": true,
}

var videoExtensions = map[string]bool{
	"mp4": true, "avi": true, "mov": true, "wmv": true,
	"mkv": true, "flv": true, "webm": true, "3gp": true,
}

var mimeExtensions = map[string]string{
	"image/jpeg":    "jpg",
	"image/png":     "png",
	"image/gif":     "gif",
	"image/webp":    "webp",
	"image/bmp":     "bmp",
	"image/svg+xml": "svg",
	"video/mp4":     "mp4",
	"video/webm":    "webm",
	"video/quicktime": "mov",
}

// MediaPipeline turns client-submitted media (embedded data URIs) into stored
// MediaReferences. Images above the compression threshold are resized and
// re-encoded; videos are size-capped; every item is bounded by a processing
// timeout so the pipeline never blocks its caller indefinitely.
type MediaPipeline struct {
	store     repositories.MediaRepository
	optimizer CloudOptimizer
	timeout   time.Duration
	maxItems  int
}

// NewMediaPipeline creates a new MediaPipeline
func NewMediaPipeline(store repositories.MediaRepository, optimizer CloudOptimizer) *MediaPipeline {
	if optimizer == nil {
		optimizer = NoopOptimizer{}
	}
	return &MediaPipeline{
		store:     store,
		optimizer: optimizer,
		timeout:   defaultIngestTimeout,
		maxItems:  defaultMaxItems,
	}
}

// Ingest processes a single media item and returns its stored reference.
// Already-hosted URLs pass through untouched.
func (p *MediaPipeline) Ingest(ctx context.Context, upload models.MediaUpload) (models.MediaReference, error) {
	if !strings.HasPrefix(upload.URL, "data:") {
		return models.MediaReference{Kind: upload.Kind, URL: upload.URL}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	type outcome struct {
		ref models.MediaReference
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		ref, err := p.process(ctx, upload)
		done <- outcome{ref, err}
	}()

	select {
	case o := <-done:
		return o.ref, o.err
	case <-ctx.Done():
		return models.MediaReference{}, fmt.Errorf("ingesting media: %w", ErrProcessingTimeout)
	}
}

// IngestAll processes items independently up to the per-request limit.
// A failing item is skipped without cancelling its siblings; items beyond the
// limit are rejected without touching the already-accepted ones.
func (p *MediaPipeline) IngestAll(ctx context.Context, uploads []models.MediaUpload) []models.MediaReference {
	refs := make([]models.MediaReference, 0, len(uploads))
	for i, upload := range uploads {
		if len(refs) >= p.maxItems {
			log.Printf("media: item limit of %d reached, skipping %d remaining item(s)", p.maxItems, len(uploads)-i)
			break
		}
		ref, err := p.Ingest(ctx, upload)
		if err != nil {
			log.Printf("media: skipping item %d: %v", i, err)
			continue
		}
		refs = append(refs, ref)
	}
	return refs
}

func (p *MediaPipeline) process(ctx context.Context, upload models.MediaUpload) (models.MediaReference, error) {
	mimeType, raw, err := decodeDataURI(upload.URL)
	if err != nil {
		return models.MediaReference{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	kind := classifyKind(mimeType, upload.Filename, upload.Kind)
	if kind == "" {
		return models.MediaReference{}, fmt.Errorf("%w: %q", ErrUnsupportedMedia, mimeType)
	}

	ext := extensionFor(mimeType, upload.Filename)

	switch kind {
	case models.MediaKindImage:
		if len(raw) > compressThreshold {
			shrunk, err := shrinkImage(raw)
			if err != nil {
				// Undecodable payloads keep their original bytes, matching
				// the upload flow's pass-through fallback.
				log.Printf("media: image compression failed, storing original: %v", err)
			} else {
				raw = shrunk
				ext = "jpg"
			}
		}
	case models.MediaKindVideo:
		if len(raw) > maxVideoBytes {
			return models.MediaReference{}, fmt.Errorf("%w: video is %d bytes", ErrOversizedMedia, len(raw))
		}
	}

	id, err := p.store.PutMedia(ctx, raw, kind)
	if err != nil {
		return models.MediaReference{}, fmt.Errorf("storing media: %w", err)
	}

	ref := models.MediaReference{
		Kind: kind,
		URL:  "/media/" + id + "." + ext,
	}
	if kind == models.MediaKindVideo {
		ref.ThumbnailURL = videoThumbnailPlaceholder
	}

	optimized, err := p.optimizer.Optimize(ctx, ref)
	if err != nil {
		log.Printf("media: cloud optimization failed, proceeding with original URL: %v", err)
		return ref, nil
	}
	return optimized, nil
}

// classifyKind resolves the media kind from the declared MIME type, falling
// back to filename-extension sniffing and finally the client's declared kind.
func classifyKind(mimeType, filename, declared string) string {
	switch {
	case strings.HasPrefix(mimeType, "image/"):
		return models.MediaKindImage
	case strings.HasPrefix(mimeType, "video/"):
		return models.MediaKindVideo
	}

	if i := strings.LastIndex(filename, "."); i >= 0 {
		ext := strings.ToLower(filename[i+1:])
		if imageExtensions[ext] {
			return models.MediaKindImage
		}
		if videoExtensions[ext] {
			return models.MediaKindVideo
		}
	}

	if declared == models.MediaKindImage || declared == models.MediaKindVideo {
		return declared
	}
	return ""
}

func extensionFor(mimeType, filename string) string {
	if ext, ok := mimeExtensions[mimeType]; ok {
		return ext
	}
	if i := strings.LastIndex(filename, "."); i >= 0 {
		return strings.ToLower(filename[i+1:])
	}
	return "bin"
}

// decodeDataURI splits a data:<mime>;base64,<payload> URI into its MIME type
// and raw bytes.
func decodeDataURI(uri string) (string, []byte, error) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return "", nil, fmt.Errorf("not a data URI")
	}

	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, fmt.Errorf("malformed data URI")
	}

	mimeType := meta
	if i := strings.Index(meta, ";"); i >= 0 {
		mimeType = meta[:i]
	}
	if !strings.Contains(meta, "base64") {
		return "", nil, fmt.Errorf("data URI payload is not base64")
	}

	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("decoding base64 payload: %w", err)
	}
	return mimeType, raw, nil
}

// shrinkImage decodes an image, scales it to fit maxImageDimension on its
// longest side preserving aspect ratio, and re-encodes it as JPEG at the
// fixed quality factor.
func shrinkImage(raw []byte) ([]byte, error) {
	src, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}

	bounds := src.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	if width > maxImageDimension || height > maxImageDimension {
		if width > height {
			height = height * maxImageDimension / width
			width = maxImageDimension
		} else {
			width = width * maxImageDimension / height
			height = maxImageDimension
		}
		dst := image.NewRGBA(image.Rect(0, 0, width, height))
		draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)
		src = dst
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, src, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
