package storage

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SitNav/Market-1.0-sub000/internal/apperr"
	"github.com/SitNav/Market-1.0-sub000/internal/config"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// fileHeaders builds multipart file headers the way the HTTP layer receives them.
func fileHeaders(t *testing.T, files map[string][]byte) []*multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for name, data := range files {
		part, err := w.CreateFormFile("images", name)
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&body, w.Boundary()).ReadForm(32 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form.File["images"]
}

func TestReadImages_AcceptsPNG(t *testing.T) {
	images, err := ReadImages(fileHeaders(t, map[string][]byte{"a.png": pngBytes(t)}))
	require.NoError(t, err)
	require.Len(t, images, 1)
	assert.Equal(t, "image/png", images[0].ContentType)
	assert.Equal(t, ".png", images[0].Ext())
}

func TestReadImages_RejectsTextDisguisedAsImage(t *testing.T) {
	_, err := ReadImages(fileHeaders(t, map[string][]byte{"evil.jpg": []byte("#!/bin/sh\necho hi\n")}))
	var ve *apperr.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields["images[0]"], "only jpeg")
}

func TestReadImages_TooMany(t *testing.T) {
	data := pngBytes(t)
	files := map[string][]byte{}
	for _, n := range []string{"1", "2", "3", "4", "5", "6"} {
		files[n+".png"] = data
	}
	_, err := ReadImages(fileHeaders(t, files))
	var ve *apperr.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "images")
}

func TestReadImages_TooLarge(t *testing.T) {
	big := append(pngBytes(t), bytes.Repeat([]byte{0}, MaxImageBytes)...)
	_, err := ReadImages(fileHeaders(t, map[string][]byte{"big.png": big}))
	var ve *apperr.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields["images[0]"], "5MB")
}

func TestLocalStore_Save(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads")
	store, err := NewLocalStore(dir, "/uploads/")
	require.NoError(t, err)

	data := pngBytes(t)
	urls, err := SaveAll(context.Background(), store, []Image{
		{Filename: "a.png", ContentType: "image/png", Data: data},
		{Filename: "b.png", ContentType: "image/png", Data: data},
	})
	require.NoError(t, err)
	require.Len(t, urls, 2)
	assert.NotEqual(t, urls[0], urls[1])

	for _, u := range urls {
		require.True(t, strings.HasPrefix(u, "/uploads/"))
		assert.True(t, strings.HasSuffix(u, ".png"))
		stored, err := os.ReadFile(filepath.Join(dir, strings.TrimPrefix(u, "/uploads/")))
		require.NoError(t, err)
		assert.Equal(t, data, stored)
	}
}

func TestCloudinaryStore_UploadParams(t *testing.T) {
	store, err := NewCloudinaryStore(config.CloudinaryConfig{
		CloudName:    "demo",
		APIKey:       "key",
		APISecret:    "secret",
		UploadFolder: "terranav/listings",
	})
	require.NoError(t, err)
	store.now = func() time.Time { return time.Unix(1700000000, 0) }

	params, err := store.UploadParams("listing-1")
	require.NoError(t, err)
	assert.Equal(t, "1700000000", params["timestamp"])
	assert.Equal(t, "demo", params["cloud_name"])
	assert.Equal(t, "key", params["api_key"])
	assert.Equal(t, "listing-1", params["listing_id"])
	assert.NotEmpty(t, params["signature"])
	assert.NotContains(t, params, "upload_preset")

	again, err := store.UploadParams("listing-1")
	require.NoError(t, err)
	assert.Equal(t, params["signature"], again["signature"])
}

func TestFromConfig(t *testing.T) {
	cfg := &config.Config{StorageConfig: config.StorageConfig{
		Driver: "local", UploadDir: filepath.Join(t.TempDir(), "up"), URLPrefix: "/uploads",
	}}
	store, err := FromConfig(cfg)
	require.NoError(t, err)
	assert.IsType(t, &LocalStore{}, store)

	cfg.StorageConfig.Driver = "cloudinary"
	cfg.CloudinaryConfig = config.CloudinaryConfig{CloudName: "demo", APIKey: "k", APISecret: "s"}
	store, err = FromConfig(cfg)
	require.NoError(t, err)
	assert.IsType(t, &CloudinaryStore{}, store)

	cfg.StorageConfig.Driver = "s3"
	_, err = FromConfig(cfg)
	assert.Error(t, err)
}
