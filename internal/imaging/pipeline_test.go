package imaging

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ASEODA/narashop-estimate/platform/logger"
)

type imageConfigStub struct {
	maxBytes int64
}

func (s imageConfigStub) GetImageTimeout() time.Duration { return time.Second }
func (s imageConfigStub) GetImageMaxBytes() int64        { return s.maxBytes }

type memoryCache struct {
	data map[string][]byte
}

func (m *memoryCache) Get(_ context.Context, key string) ([]byte, error) {
	v, ok := m.data[key]
	if !ok {
		return nil, errors.New("miss")
	}
	return v, nil
}

func (m *memoryCache) Put(_ context.Context, key string, data []byte) error {
	m.data[key] = data
	return nil
}

func solidImage(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: 200, G: 30, B: 30, A: 255})
		}
	}
	return img
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return buf.Bytes()
}

func decodedSize(t *testing.T, data []byte) (int, int) {
	t.Helper()
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode config: %v", err)
	}
	if format != "png" {
		t.Fatalf("expected png output, got %s", format)
	}
	return cfg.Width, cfg.Height
}

func TestProcessFitsInsideBox(t *testing.T) {
	cases := []struct {
		name         string
		w, h         int
		wantW, wantH int
	}{
		{"landscape", 300, 150, 150, 75},
		{"portrait", 120, 600, 30, 150},
		{"small is not enlarged", 100, 50, 100, 50},
		{"exact box", 150, 150, 150, 150},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := Process(encodePNG(t, solidImage(tc.w, tc.h)), DefaultBox)
			if err != nil {
				t.Fatalf("process: %v", err)
			}
			w, h := decodedSize(t, out)
			if w != tc.wantW || h != tc.wantH {
				t.Fatalf("expected %dx%d, got %dx%d", tc.wantW, tc.wantH, w, h)
			}
		})
	}
}

func TestProcessAcceptsJPEG(t *testing.T) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, solidImage(400, 200), nil); err != nil {
		t.Fatalf("encode jpeg: %v", err)
	}
	out, err := Process(buf.Bytes(), DefaultBox)
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if w, h := decodedSize(t, out); w != 150 || h != 75 {
		t.Fatalf("expected 150x75, got %dx%d", w, h)
	}
}

func TestProcessRejectsGarbage(t *testing.T) {
	if _, err := Process([]byte("not an image"), DefaultBox); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestApplyOrientation(t *testing.T) {
	red := color.NRGBA{R: 255, A: 255}
	blue := color.NRGBA{B: 255, A: 255}
	src := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	src.SetNRGBA(0, 0, red)
	src.SetNRGBA(1, 0, blue)

	// want lists the pixels in reading order of the upright result.
	cases := []struct {
		orientation int
		w, h        int
		want        []color.NRGBA
	}{
		{2, 2, 1, []color.NRGBA{blue, red}},
		{3, 2, 1, []color.NRGBA{blue, red}},
		{4, 2, 1, []color.NRGBA{red, blue}},
		{5, 1, 2, []color.NRGBA{red, blue}},
		{6, 1, 2, []color.NRGBA{red, blue}},
		{7, 1, 2, []color.NRGBA{blue, red}},
		{8, 1, 2, []color.NRGBA{blue, red}},
	}
	for _, tc := range cases {
		out, ok := applyOrientation(src, tc.orientation).(*image.NRGBA)
		if !ok {
			t.Fatalf("orientation %d: expected NRGBA output", tc.orientation)
		}
		if out.Bounds().Dx() != tc.w || out.Bounds().Dy() != tc.h {
			t.Fatalf("orientation %d: expected %dx%d, got %v", tc.orientation, tc.w, tc.h, out.Bounds())
		}
		var got []color.NRGBA
		for y := 0; y < tc.h; y++ {
			for x := 0; x < tc.w; x++ {
				got = append(got, out.NRGBAAt(x, y))
			}
		}
		if got[0] != tc.want[0] || got[1] != tc.want[1] {
			t.Fatalf("orientation %d: unexpected pixels %v", tc.orientation, got)
		}
	}

	for _, o := range []int{0, 1, 9} {
		if got := applyOrientation(src, o); got != image.Image(src) {
			t.Fatalf("orientation %d must return the input", o)
		}
	}
}

func TestFetchUsesCache(t *testing.T) {
	var hits atomic.Int32
	pngBytes := encodePNG(t, solidImage(300, 300))
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write(pngBytes)
	}))
	defer srv.Close()

	cache := &memoryCache{data: map[string][]byte{}}
	p := New(imageConfigStub{}, cache, logger.Nop())

	first, err := p.Fetch(context.Background(), srv.URL+"/a.png")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	second, err := p.Fetch(context.Background(), srv.URL+"/a.png")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if hits.Load() != 1 {
		t.Fatalf("expected one download, got %d", hits.Load())
	}
	if !bytes.Equal(first, second) {
		t.Fatal("cached bytes differ")
	}
	if _, ok := cache.data[CacheKey(srv.URL+"/a.png")]; !ok {
		t.Fatal("expected cache entry")
	}
}

func TestFetchFailures(t *testing.T) {
	big := encodePNG(t, solidImage(300, 300))
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write(big)
	}))
	defer srv.Close()

	p := New(imageConfigStub{maxBytes: 64}, nil, logger.Nop())
	if _, err := p.Fetch(context.Background(), srv.URL+"/big.png"); !errors.Is(err, ErrTooLarge) {
		t.Fatalf("expected ErrTooLarge, got %v", err)
	}
	if _, err := p.Fetch(context.Background(), srv.URL+"/missing"); err == nil {
		t.Fatal("expected error for 404")
	}
}
