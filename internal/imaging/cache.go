package imaging

import (
	"bytes"
	"context"
	"io"

	"github.com/ASEODA/narashop-estimate/internal/adapters/storage"
)

// ObjectCache keeps resized images in an object storage bucket.
type ObjectCache struct {
	store  storage.StorageService
	bucket string
}

// NewObjectCache creates a cache on bucket.
func NewObjectCache(store storage.StorageService, bucket string) *ObjectCache {
	return &ObjectCache{store: store, bucket: bucket}
}

func (c *ObjectCache) Get(ctx context.Context, key string) ([]byte, error) {
	rc, err := c.store.DownloadFile(ctx, c.bucket, key)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

func (c *ObjectCache) Put(ctx context.Context, key string, data []byte) error {
	return c.store.PutObject(ctx, c.bucket, key, "image/png", bytes.NewReader(data), int64(len(data)))
}
