package image

import (
	"bytes"
	"errors"
	stdimage "image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"recipe-catalog/internal/core/recipe"
	"recipe-catalog/internal/infrastructure/config"
	"recipe-catalog/internal/pkg/common"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := stdimage.NewNRGBA(stdimage.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.NRGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return buf.Bytes()
}

func newService(t *testing.T, maxSize int64) *Service {
	t.Helper()
	return NewService(config.MediaConfig{Dir: t.TempDir(), MaxSizeBytes: maxSize, ThumbnailWidth: 100})
}

func TestSaveThumbnails(t *testing.T) {
	s := newService(t, 1<<20)

	ref, err := s.Save(bytes.NewReader(pngBytes(t, 400, 200)))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if !strings.HasPrefix(ref, "recipes/") || !strings.HasSuffix(ref, ".jpg") {
		t.Fatalf("unexpected ref %q", ref)
	}

	f, err := os.Open(filepath.Join(s.dir, ref))
	if err != nil {
		t.Fatalf("open saved file: %v", err)
	}
	defer f.Close()
	cfg, format, err := stdimage.DecodeConfig(f)
	if err != nil {
		t.Fatalf("decode saved file: %v", err)
	}
	if format != "jpeg" || cfg.Width != 100 || cfg.Height != 50 {
		t.Fatalf("unexpected output %s %dx%d", format, cfg.Width, cfg.Height)
	}

	if err := s.Remove(ref); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, err := os.Stat(filepath.Join(s.dir, ref)); !os.IsNotExist(err) {
		t.Fatal("expected file to be removed")
	}
}

func TestSmallImageKeepsSize(t *testing.T) {
	s := newService(t, 1<<20)
	img, _, err := s.Decode(bytes.NewReader(pngBytes(t, 50, 40)))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got := s.Thumbnail(img).Bounds().Dx(); got != 50 {
		t.Fatalf("expected width 50, got %d", got)
	}
}

func TestDecodeRejects(t *testing.T) {
	s := newService(t, 32)

	_, _, err := s.Decode(bytes.NewReader(pngBytes(t, 300, 300)))
	if !errors.Is(err, common.ErrInvalidImageSize) {
		t.Fatalf("expected size error, got %v", err)
	}

	s = newService(t, 1<<20)
	_, _, err = s.Decode(strings.NewReader("definitely not an image"))
	if !errors.Is(err, common.ErrInvalidImageFormat) {
		t.Fatalf("expected format error, got %v", err)
	}
}

func TestRemoveIgnoresDefault(t *testing.T) {
	s := newService(t, 1<<20)
	if err := s.Remove(recipe.DefaultImage); err != nil {
		t.Fatalf("remove default: %v", err)
	}
	if err := s.Remove("https://example.com/a.jpg"); err != nil {
		t.Fatalf("remove url: %v", err)
	}
}

func TestRemoveStaysInsideMediaDir(t *testing.T) {
	root := t.TempDir()
	media := filepath.Join(root, "media")
	s := NewService(config.MediaConfig{Dir: media, MaxSizeBytes: 1 << 20, ThumbnailWidth: 100})

	outside := filepath.Join(root, "victim.txt")
	if err := os.WriteFile(outside, []byte("keep"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	for _, ref := range []string{"recipes/../../victim.txt", "recipes/..", "recipes/../recipes/../../victim.txt"} {
		if err := s.Remove(ref); !errors.Is(err, ErrOutsideMediaDir) {
			t.Errorf("Remove(%q) = %v, want ErrOutsideMediaDir", ref, err)
		}
	}
	if _, err := os.Stat(outside); err != nil {
		t.Fatalf("file outside media dir was touched: %v", err)
	}

	ref, err := s.Save(bytes.NewReader(pngBytes(t, 20, 20)))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := s.Remove(ref); err != nil {
		t.Fatalf("remove uploaded: %v", err)
	}
	if _, err := os.Stat(filepath.Join(media, filepath.FromSlash(ref))); !os.IsNotExist(err) {
		t.Fatalf("uploaded image still present: %v", err)
	}
}

func TestEnsureDefault(t *testing.T) {
	s := newService(t, 1<<20)
	if err := s.EnsureDefault(); err != nil {
		t.Fatalf("ensure default: %v", err)
	}
	if _, err := os.Stat(filepath.Join(s.dir, recipe.DefaultImage)); err != nil {
		t.Fatalf("placeholder missing: %v", err)
	}
}

func TestURL(t *testing.T) {
	tests := []struct {
		ref, prefix, want string
	}{
		{"recipes/a.jpg", "/media", "/media/recipes/a.jpg"},
		{"", "/media/", "/media/recipes/no_picture.png"},
		{"https://cdn.example.com/x.png", "/media", "https://cdn.example.com/x.png"},
		{"/static/images/x.png", "/media", "/static/images/x.png"},
	}
	for _, tt := range tests {
		if got := URL(tt.ref, tt.prefix); got != tt.want {
			t.Errorf("URL(%q, %q) = %q, want %q", tt.ref, tt.prefix, got, tt.want)
		}
	}
}
