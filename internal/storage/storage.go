package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/SitNav/Market-1.0-sub000/internal/apperr"
	"github.com/SitNav/Market-1.0-sub000/internal/config"
)

// Upload limits for listing images.
const (
	MaxImages     = 5
	MaxImageBytes = 5 << 20
)

var allowedTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// ImageStore persists listing images and returns the URL to reference them by.
type ImageStore interface {
	Save(ctx context.Context, img Image) (string, error)
}

// Image is a validated upload held in memory.
type Image struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Ext is the file extension matching the content type.
func (i Image) Ext() string {
	return allowedTypes[i.ContentType]
}

// ReadImages validates the uploaded files and loads them. The content type is
// sniffed from the bytes, the client-declared type is not trusted.
func ReadImages(files []*multipart.FileHeader) ([]Image, error) {
	if len(files) > MaxImages {
		return nil, apperr.Invalid("images", fmt.Sprintf("at most %d images are allowed", MaxImages))
	}
	images := make([]Image, 0, len(files))
	for i, fh := range files {
		field := fmt.Sprintf("images[%d]", i)
		if fh.Size > MaxImageBytes {
			return nil, apperr.Invalid(field, "image must be 5MB or smaller")
		}
		img, err := readImage(fh)
		if err != nil {
			return nil, err
		}
		if len(img.Data) > MaxImageBytes {
			return nil, apperr.Invalid(field, "image must be 5MB or smaller")
		}
		if img.Ext() == "" {
			return nil, apperr.Invalid(field, "only jpeg, png, gif and webp images are allowed")
		}
		images = append(images, img)
	}
	return images, nil
}

func readImage(fh *multipart.FileHeader) (Image, error) {
	f, err := fh.Open()
	if err != nil {
		return Image{}, fmt.Errorf("open upload %s: %w", fh.Filename, err)
	}
	defer f.Close()

	// One byte over the limit is enough to reject.
	data, err := io.ReadAll(io.LimitReader(f, MaxImageBytes+1))
	if err != nil {
		return Image{}, fmt.Errorf("read upload %s: %w", fh.Filename, err)
	}
	return Image{
		Filename:    fh.Filename,
		ContentType: http.DetectContentType(data),
		Data:        data,
	}, nil
}

// SaveAll stores every image in order and returns their URLs. Images stored
// before a failure are left in place.
func SaveAll(ctx context.Context, store ImageStore, images []Image) ([]string, error) {
	urls := make([]string, 0, len(images))
	for _, img := range images {
		url, err := store.Save(ctx, img)
		if err != nil {
			return nil, err
		}
		urls = append(urls, url)
	}
	return urls, nil
}

func (i Image) reader() io.Reader {
	return bytes.NewReader(i.Data)
}

// FromConfig opens the image store selected by STORAGE_DRIVER.
func FromConfig(cfg *config.Config) (ImageStore, error) {
	switch cfg.StorageConfig.Driver {
	case "cloudinary":
		return NewCloudinaryStore(cfg.CloudinaryConfig)
	case "local", "":
		return NewLocalStore(cfg.StorageConfig.UploadDir, cfg.StorageConfig.URLPrefix)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageConfig.Driver)
	}
}
