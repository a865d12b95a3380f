package models

// Media kinds accepted by the ingestion pipeline.
const (
	MediaKindImage = "image"
	MediaKindVideo = "video"
)

// MediaReference is the storage-independent descriptor of a piece of media,
// immutable once created and owned by the post or message that embeds it.
type MediaReference struct {
	Kind         string `json:"type" bson:"type"`
	URL          string `json:"url" bson:"url"`
	ThumbnailURL string `json:"thumbnailUrl,omitempty" bson:"thumbnail_url,omitempty"`
}

// MediaUpload is a client-submitted media item. URL is either an embedded
// data URI (base64 payload plus declared MIME type) that still needs
// ingestion, or an already-hosted URL that passes through untouched.
type MediaUpload struct {
	Kind     string `json:"type"`
	URL      string `json:"url" validate:"required"`
	Filename string `json:"filename,omitempty"`
}
