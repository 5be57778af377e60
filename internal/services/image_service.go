package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/bbrks/go-blurhash"
	"github.com/booknest/booknest-server/internal/dto"
	"github.com/booknest/booknest-server/internal/storage"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// blurHashSize keeps BlurHash encoding fast; the placeholder is low resolution anyway.
const blurHashSize = 64

var (
	ErrImageTooLarge = errors.New("image is too large")
	ErrInvalidImage  = errors.New("file is not a supported image")
)

// ImageService normalises uploads to a square JPEG and hosts them.
type ImageService struct {
	store     storage.ObjectStore
	publicURL string
	maxBytes  int64
	maxPixels int64
	size      int
}

func NewImageService(store storage.ObjectStore, publicURL string, maxBytes, maxPixels int64, size int) *ImageService {
	return &ImageService{
		store:     store,
		publicURL: strings.TrimRight(publicURL, "/"),
		maxBytes:  maxBytes,
		maxPixels: maxPixels,
		size:      size,
	}
}

// Upload decodes r, center-crops and resizes it, and stores the result.
func (s *ImageService) Upload(ctx context.Context, accountID uint, r io.Reader) (*dto.UploadResponse, error) {
	data, err := io.ReadAll(io.LimitReader(r, s.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > s.maxBytes {
		return nil, ErrImageTooLarge
	}

	// Check the header first: a small compressed file can claim a huge canvas.
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil || cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, ErrInvalidImage
	}
	if s.maxPixels > 0 && int64(cfg.Width)*int64(cfg.Height) > s.maxPixels {
		return nil, ErrImageTooLarge
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, ErrInvalidImage
	}

	square := CropSquare(src, s.size)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, square, &jpeg.Options{Quality: 85}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}

	hash, err := blurhash.Encode(4, 3, thumbnail(square))
	if err != nil {
		slog.Warn("blurhash failed", "error", err)
		hash = ""
	}

	id, err := gonanoid.New()
	if err != nil {
		return nil, fmt.Errorf("generate key: %w", err)
	}
	key := storage.ImagePrefix + id + ".jpg"

	if err := s.store.Put(ctx, key, bytes.NewReader(buf.Bytes()), int64(buf.Len()), "image/jpeg"); err != nil {
		return nil, fmt.Errorf("store image: %w", err)
	}

	slog.Info("image uploaded",
		"user_id", strconv.FormatUint(uint64(accountID), 10),
		"action", "image_upload",
		"key", key,
		"bytes", buf.Len(),
	)
	return &dto.UploadResponse{
		URL:      s.publicURL + "/" + key,
		Key:      key,
		BlurHash: hash,
		Width:    s.size,
		Height:   s.size,
	}, nil
}

// RemoveImages deletes the hosted objects behind urls and returns how many
// were removed. URLs this service did not issue are skipped. Failures are
// logged and do not stop the rest.
func (s *ImageService) RemoveImages(ctx context.Context, urls []string) int {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	removed := 0
	for _, u := range urls {
		key, ok := storage.KeyFromURL(s.publicURL, u)
		if !ok {
			continue
		}
		if err := s.store.Delete(ctx, key); err != nil {
			slog.Warn("image delete failed", "key", key, "error", err)
			continue
		}
		removed++
	}
	return removed
}

// CropSquare takes the centered largest square of src and scales it to size×size.
func CropSquare(src image.Image, size int) image.Image {
	b := src.Bounds()
	side := min(b.Dx(), b.Dy())
	x0 := b.Min.X + (b.Dx()-side)/2
	y0 := b.Min.Y + (b.Dy()-side)/2
	crop := image.Rect(x0, y0, x0+side, y0+side)

	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, crop, draw.Src, nil)
	return dst
}

func thumbnail(img image.Image) image.Image {
	b := img.Bounds()
	if b.Dx() <= blurHashSize && b.Dy() <= blurHashSize {
		return img
	}
	dst := image.NewRGBA(image.Rect(0, 0, blurHashSize, blurHashSize))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}
