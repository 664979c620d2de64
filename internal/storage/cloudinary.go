package storage

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"

	"github.com/SitNav/Market-1.0-sub000/internal/config"
)

// CloudinaryStore uploads images to Cloudinary and signs direct uploads.
type CloudinaryStore struct {
	cld *cloudinary.Cloudinary
	cfg config.CloudinaryConfig
	now func() time.Time
}

// NewCloudinaryStore builds the Cloudinary client from credentials.
func NewCloudinaryStore(cfg config.CloudinaryConfig) (*CloudinaryStore, error) {
	cld, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("cloudinary client: %w", err)
	}
	return &CloudinaryStore{cld: cld, cfg: cfg, now: time.Now}, nil
}

// Save uploads the image into the configured folder and returns its secure URL.
func (s *CloudinaryStore) Save(ctx context.Context, img Image) (string, error) {
	resp, err := s.cld.Upload.Upload(ctx, img.reader(), uploader.UploadParams{
		Folder:   s.cfg.UploadFolder,
		PublicID: uuid.NewString(),
	})
	if err != nil {
		return "", fmt.Errorf("cloudinary upload: %w", err)
	}
	if resp.Error.Message != "" {
		return "", errors.New("cloudinary upload: " + resp.Error.Message)
	}
	return resp.SecureURL, nil
}

// UploadParams returns signed parameters that let a client upload straight to Cloudinary.
func (s *CloudinaryStore) UploadParams(listingID string) (map[string]string, error) {
	timestamp := strconv.FormatInt(s.now().Unix(), 10)

	params := url.Values{}
	params.Set("timestamp", timestamp)
	params.Set("folder", s.cfg.UploadFolder)
	if s.cfg.UploadPreset != "" {
		params.Set("upload_preset", s.cfg.UploadPreset)
	}

	signature, err := api.SignParameters(params, s.cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("sign upload params: %w", err)
	}

	out := map[string]string{
		"timestamp":  timestamp,
		"signature":  signature,
		"api_key":    s.cfg.APIKey,
		"cloud_name": s.cfg.CloudName,
		"folder":     s.cfg.UploadFolder,
		"listing_id": listingID,
	}
	if s.cfg.UploadPreset != "" {
		out["upload_preset"] = s.cfg.UploadPreset
	}
	return out, nil
}
