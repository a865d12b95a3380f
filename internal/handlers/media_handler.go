package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/danhtrinhdevelopermay/BSA6/internal/repositories"
)

// Content at a media id never changes, so clients may cache for a year.
const mediaCacheControl = "public, max-age=31536000, immutable"

var mediaContentTypes = map[string]string{
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"gif":  "image/gif",
	"webp": "image/webp",
	"mp4":  "video/mp4",
	"webm": "video/webm",
	"mov":  "video/quicktime",
}

// MediaHandler serves stored media blobs by their opaque id
type MediaHandler struct {
	mediaRepository repositories.MediaRepository
}

// NewMediaHandler creates a new MediaHandler
func NewMediaHandler(mediaRepo repositories.MediaRepository) *MediaHandler {
	return &MediaHandler{mediaRepository: mediaRepo}
}

// RegisterMediaRoutes registers the public media retrieval route
func (h *MediaHandler) RegisterMediaRoutes(e *echo.Echo) {
	e.GET("/media/:id", h.GetMedia)
}

// GetMedia serves a media blob. The content type comes from the requested
// id's extension suffix, unknown extensions fall back to a generic binary.
func (h *MediaHandler) GetMedia(c echo.Context) error {
	filename := c.Param("id")

	mediaID := filename
	ext := ""
	if i := strings.LastIndex(filename, "."); i >= 0 {
		mediaID = filename[:i]
		ext = strings.ToLower(filename[i+1:])
	}

	data, err := h.mediaRepository.GetMedia(c.Request().Context(), mediaID)
	if err != nil {
		if errors.Is(err, repositories.ErrMediaNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Media not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to serve media")
	}

	c.Response().Header().Set("Cache-Control", mediaCacheControl)
	return c.Blob(http.StatusOK, contentTypeForExtension(ext), data)
}

func contentTypeForExtension(ext string) string {
	if contentType, ok := mediaContentTypes[ext]; ok {
		return contentType
	}
	return "application/octet-stream"
}
