package repositories

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrMediaNotFound is returned when a media id does not resolve to a blob.
var ErrMediaNotFound = errors.New("media not found")

// MediaRepository stores binary media behind opaque identifiers. Content at a
// given id never changes.
type MediaRepository interface {
	PutMedia(ctx context.Context, data []byte, kind string) (string, error)
	GetMedia(ctx context.Context, id string) ([]byte, error)
}

// GridFSMediaRepository implements MediaRepository on a MongoDB GridFS bucket
type GridFSMediaRepository struct {
	bucket *gridfs.Bucket
}

// NewGridFSMediaRepository creates a new GridFSMediaRepository
func NewGridFSMediaRepository(db *mongo.Database) (*GridFSMediaRepository, error) {
	bucket, err := gridfs.NewBucket(db, options.GridFSBucket().SetName("media"))
	if err != nil {
		return nil, fmt.Errorf("creating media bucket: %w", err)
	}
	return &GridFSMediaRepository{bucket: bucket}, nil
}

// PutMedia stores the blob and returns its newly minted opaque id
func (r *GridFSMediaRepository) PutMedia(ctx context.Context, data []byte, kind string) (string, error) {
	id := uuid.NewString()
	opts := options.GridFSUpload().SetMetadata(map[string]interface{}{"kind": kind})
	if err := r.bucket.UploadFromStreamWithID(id, id, bytes.NewReader(data), opts); err != nil {
		return "", fmt.Errorf("uploading media: %w", err)
	}
	return id, nil
}

// GetMedia retrieves a blob by its opaque id
func (r *GridFSMediaRepository) GetMedia(ctx context.Context, id string) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := r.bucket.DownloadToStream(id, &buf); err != nil {
		if errors.Is(err, gridfs.ErrFileNotFound) {
			return nil, ErrMediaNotFound
		}
		return nil, err
	}
	return buf.Bytes(), nil
}
