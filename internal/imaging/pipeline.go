// Package imaging fetches product photos and turns them into small PNGs
// suitable for embedding in a quotation sheet.
package imaging

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"net/http"
	"time"

	"github.com/ASEODA/narashop-estimate/platform/config"
	"github.com/ASEODA/narashop-estimate/platform/logger"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

const (
	// DefaultBox is the square every product image is fitted into.
	DefaultBox = 150

	defaultTimeout  = 10 * time.Second
	defaultMaxBytes = 10 << 20
)

// ErrTooLarge is returned when the source image exceeds the byte cap.
var ErrTooLarge = errors.New("image exceeds size limit")

// Cache stores resized images by key. Misses are reported as errors.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, data []byte) error
}

// Pipeline downloads, orients, resizes and re-encodes images.
type Pipeline struct {
	httpClient *http.Client
	maxBytes   int64
	box        int
	cache      Cache
	log        *logger.Logger
}

// New creates a pipeline from configuration. cache may be nil.
func New(cfg config.ImageConfig, cache Cache, log *logger.Logger) *Pipeline {
	timeout := cfg.GetImageTimeout()
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	maxBytes := cfg.GetImageMaxBytes()
	if maxBytes <= 0 {
		maxBytes = defaultMaxBytes
	}
	return &Pipeline{
		httpClient: &http.Client{Timeout: timeout},
		maxBytes:   maxBytes,
		box:        DefaultBox,
		cache:      cache,
		log:        log,
	}
}

// Fetch returns PNG bytes of the image at url fitted inside the pipeline's
// box. Cache failures are logged and never fail the fetch.
func (p *Pipeline) Fetch(ctx context.Context, url string) ([]byte, error) {
	key := CacheKey(url)
	if p.cache != nil {
		if cached, err := p.cache.Get(ctx, key); err == nil && len(cached) > 0 {
			return cached, nil
		}
	}

	raw, err := p.download(ctx, url)
	if err != nil {
		return nil, err
	}
	out, err := Process(raw, p.box)
	if err != nil {
		return nil, err
	}

	if p.cache != nil {
		if err := p.cache.Put(ctx, key, out); err != nil {
			p.log.WithContext(ctx).BestEffortFailure("image_cache_put", err, "url", url)
		}
	}
	return out, nil
}

func (p *Pipeline) download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("image download status %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, p.maxBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(raw)) > p.maxBytes {
		return nil, ErrTooLarge
	}
	return raw, nil
}

// Process decodes raw, applies EXIF orientation, fits it inside box×box
// without enlarging and encodes the result as PNG.
func Process(raw []byte, box int) ([]byte, error) {
	img, format, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	if format == "jpeg" {
		img = applyOrientation(img, readOrientation(raw))
	}
	img = FitInside(img, box)

	var buf bytes.Buffer
	enc := png.Encoder{CompressionLevel: png.BestCompression}
	if err := enc.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// CacheKey derives a stable object key for url.
func CacheKey(url string) string {
	sum := sha256.Sum256([]byte(url))
	return "resized/" + hex.EncodeToString(sum[:]) + ".png"
}
