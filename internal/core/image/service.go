package image

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"

	_ "image/gif"  // 支援 GIF
	_ "image/jpeg" // 支援 JPEG
	_ "image/png"  // 支援 PNG

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"go.uber.org/zap"
	_ "golang.org/x/image/webp" // 支援 WebP

	"recipe-catalog/internal/core/recipe"
	"recipe-catalog/internal/infrastructure/config"
	"recipe-catalog/internal/pkg/common"
)

const uploadSubdir = recipe.UploadDir

// ErrOutsideMediaDir 圖片參照解析後不在上傳目錄內
var ErrOutsideMediaDir = errors.New("image reference outside media directory")

// Service 食譜圖片上傳處理
type Service struct {
	dir          string
	maxSizeBytes int64
	thumbWidth   int
}

// NewService 創建新的圖片處理服務
func NewService(cfg config.MediaConfig) *Service {
	return &Service{
		dir:          cfg.Dir,
		maxSizeBytes: cfg.MaxSizeBytes,
		thumbWidth:   cfg.ThumbnailWidth,
	}
}

// isSupportedFormat 檢查圖片格式是否支援
func isSupportedFormat(format string) bool {
	supportedFormats := map[string]bool{
		"jpeg": true,
		"png":  true,
		"gif":  true,
		"webp": true,
	}
	return supportedFormats[format]
}

// Decode 讀取並解碼上傳內容，超過大小限制或格式不支援時回傳錯誤
func (s *Service) Decode(r io.Reader) (image.Image, string, error) {
	data, err := io.ReadAll(io.LimitReader(r, s.maxSizeBytes+1))
	if err != nil {
		return nil, "", fmt.Errorf("failed to read image data: %w", err)
	}
	if int64(len(data)) > s.maxSizeBytes {
		return nil, "", common.ErrInvalidImageSize.Wrap(
			fmt.Errorf("image size exceeds maximum limit of %d bytes", s.maxSizeBytes))
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", common.ErrInvalidImageFormat.Wrap(fmt.Errorf("failed to decode image: %w", err))
	}
	if !isSupportedFormat(format) {
		return nil, "", common.ErrInvalidImageFormat.Wrap(fmt.Errorf("unsupported image format: %s", format))
	}
	return img, format, nil
}

// Thumbnail 寬度超過設定時等比例縮小
func (s *Service) Thumbnail(img image.Image) image.Image {
	if s.thumbWidth <= 0 || img.Bounds().Dx() <= s.thumbWidth {
		return img
	}
	return imaging.Resize(img, s.thumbWidth, 0, imaging.Lanczos)
}

// Save 解碼、縮圖並以 JPEG 寫入，回傳 "recipes/<uuid>.jpg" 形式的參照
func (s *Service) Save(r io.Reader) (string, error) {
	img, format, err := s.Decode(r)
	if err != nil {
		common.LogImageProcessing("warn", zap.Error(err))
		return "", err
	}

	dir := filepath.Join(s.dir, uploadSubdir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create media directory: %w", err)
	}

	name := uuid.New().String() + ".jpg"
	thumb := s.Thumbnail(img)
	if err := imaging.Save(thumb, filepath.Join(dir, name), imaging.JPEGQuality(85)); err != nil {
		return "", fmt.Errorf("failed to encode image as JPEG: %w", err)
	}

	ref := uploadSubdir + "/" + name
	common.LogImageProcessing("info",
		zap.String("format", format),
		zap.String("ref", ref),
		zap.Int("width", thumb.Bounds().Dx()),
	)
	return ref, nil
}

// Remove 刪除先前上傳的圖片；預設圖與外部網址不處理
func (s *Service) Remove(ref string) error {
	if ref == "" || ref == recipe.DefaultImage || !strings.HasPrefix(ref, uploadSubdir+"/") {
		return nil
	}
	path, err := s.uploadPath(ref)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// uploadPath 將參照轉為上傳目錄下的檔案路徑，跳出目錄時回傳錯誤
func (s *Service) uploadPath(ref string) (string, error) {
	base := filepath.Join(s.dir, uploadSubdir)
	path := filepath.Join(s.dir, filepath.FromSlash(ref))
	rel, err := filepath.Rel(base, path)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %q", ErrOutsideMediaDir, ref)
	}
	return path, nil
}

// EnsureDefault 預設圖片不存在時產生灰色佔位圖
func (s *Service) EnsureDefault() error {
	path := filepath.Join(s.dir, filepath.FromSlash(recipe.DefaultImage))
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	placeholder := imaging.New(400, 300, color.NRGBA{R: 0xdd, G: 0xdd, B: 0xdd, A: 0xff})
	return imaging.Save(placeholder, path)
}

// URL 組出圖片顯示網址；外部網址與 /static 路徑原樣回傳
func URL(ref, prefix string) string {
	if ref == "" {
		ref = recipe.DefaultImage
	}
	if strings.HasPrefix(ref, "http") || strings.HasPrefix(ref, "/static") {
		return ref
	}
	return strings.TrimRight(prefix, "/") + "/" + strings.TrimLeft(ref, "/")
}
