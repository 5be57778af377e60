package services

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryStore struct {
	objects map[string][]byte
	types   map[string]string
	err     error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{objects: map[string][]byte{}, types: map[string]string{}}
}

func (m *memoryStore) Put(_ context.Context, key string, r io.Reader, _ int64, contentType string) error {
	if m.err != nil {
		return m.err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.objects[key] = data
	m.types[key] = contentType
	return nil
}

func (m *memoryStore) Delete(_ context.Context, key string) error {
	delete(m.objects, key)
	return nil
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestUploadResizesToSquareJPEG(t *testing.T) {
	store := newMemoryStore()
	svc := NewImageService(store, "http://cdn.example.com/booknest/", 1<<20, 4_000_000, 517)

	resp, err := svc.Upload(context.Background(), 1, bytes.NewReader(pngBytes(t, 800, 400)))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(resp.Key, "images/"))
	assert.True(t, strings.HasSuffix(resp.Key, ".jpg"))
	assert.Equal(t, "http://cdn.example.com/booknest/"+resp.Key, resp.URL)
	assert.NotEmpty(t, resp.BlurHash)

	stored, ok := store.objects[resp.Key]
	require.True(t, ok)
	assert.Equal(t, "image/jpeg", store.types[resp.Key])

	cfg, err := jpeg.DecodeConfig(bytes.NewReader(stored))
	require.NoError(t, err)
	assert.Equal(t, 517, cfg.Width)
	assert.Equal(t, 517, cfg.Height)
}

func TestUploadRejects(t *testing.T) {
	store := newMemoryStore()
	svc := NewImageService(store, "http://cdn", 1024, 4_000_000, 517)

	_, err := svc.Upload(context.Background(), 1, bytes.NewReader(make([]byte, 2048)))
	assert.ErrorIs(t, err, ErrImageTooLarge)

	_, err = svc.Upload(context.Background(), 1, strings.NewReader("not an image"))
	assert.ErrorIs(t, err, ErrInvalidImage)

	assert.Empty(t, store.objects)
}

func TestUploadRejectsOversizedCanvas(t *testing.T) {
	store := newMemoryStore()
	svc := NewImageService(store, "http://cdn", 1<<20, 1_000_000, 64)

	// A blank canvas compresses to a few KB, well under the byte limit.
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewGray(image.Rect(0, 0, 2000, 1000))))
	require.Less(t, buf.Len(), 1<<20)

	_, err := svc.Upload(context.Background(), 1, bytes.NewReader(buf.Bytes()))
	assert.ErrorIs(t, err, ErrImageTooLarge)
	assert.Empty(t, store.objects)

	buf.Reset()
	require.NoError(t, png.Encode(&buf, image.NewGray(image.Rect(0, 0, 1000, 1000))))
	_, err = svc.Upload(context.Background(), 1, bytes.NewReader(buf.Bytes()))
	assert.NoError(t, err)
}

func TestRemoveImagesOnlyTouchesOwnKeys(t *testing.T) {
	store := newMemoryStore()
	svc := NewImageService(store, "http://cdn.example.com/booknest", 1<<20, 4_000_000, 64)

	resp, err := svc.Upload(context.Background(), 1, bytes.NewReader(pngBytes(t, 80, 80)))
	require.NoError(t, err)
	store.objects["logs/keep.txt"] = []byte("x")

	removed := svc.RemoveImages(context.Background(), []string{
		resp.URL,
		"https://elsewhere.example.com/images/a.jpg",
		"http://cdn.example.com/booknest/logs/keep.txt",
	})
	assert.Equal(t, 1, removed)
	assert.NotContains(t, store.objects, resp.Key)
	assert.Contains(t, store.objects, "logs/keep.txt")
}

func TestUploadStoreFailure(t *testing.T) {
	store := newMemoryStore()
	store.err = errors.New("bucket gone")
	svc := NewImageService(store, "http://cdn", 1<<20, 4_000_000, 64)

	_, err := svc.Upload(context.Background(), 1, bytes.NewReader(pngBytes(t, 100, 100)))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bucket gone")
}

func TestCropSquareTakesCenter(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 300, 100))
	for x := 100; x < 200; x++ {
		for y := 0; y < 100; y++ {
			src.Set(x, y, color.RGBA{R: 255, A: 255})
		}
	}
	out := CropSquare(src, 50)
	assert.Equal(t, image.Rect(0, 0, 50, 50), out.Bounds())
	r, g, _, _ := out.At(25, 25).RGBA()
	assert.Greater(t, r, uint32(0xf000))
	assert.Zero(t, g)
}
