package media

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cloudinary/cloudinary-go"
	"github.com/cloudinary/cloudinary-go/api/uploader"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type cloudinaryAPI interface {
	Upload(ctx context.Context, file interface{}, uploadParams uploader.UploadParams) (*uploader.UploadResult, error)
}

// cloudinaryUploader stores images in Cloudinary.
type cloudinaryUploader struct {
	api    cloudinaryAPI
	folder string
	logger zerolog.Logger
}

// NewCloudinaryUploader creates an uploader from Cloudinary credentials.
func NewCloudinaryUploader(cloudName, apiKey, apiSecret, folder string, logger zerolog.Logger) (Uploader, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to create cloudinary client: %w", err)
	}
	return newCloudinaryUploader(&cld.Upload, folder, logger), nil
}

func newCloudinaryUploader(api cloudinaryAPI, folder string, logger zerolog.Logger) *cloudinaryUploader {
	return &cloudinaryUploader{
		api:    api,
		folder: folder,
		logger: logger.With().Str("component", "cloudinary_uploader").Logger(),
	}
}

// Upload sends the image to Cloudinary and returns its secure URL.
func (u *cloudinaryUploader) Upload(ctx context.Context, upload Upload) (string, error) {
	folder := u.folder
	if upload.Folder != "" {
		folder = strings.Trim(folder+"/"+upload.Folder, "/")
	}
	publicID := uuid.NewString()

	result, err := u.api.Upload(ctx, upload.Body, uploader.UploadParams{
		Folder:   folder,
		PublicID: publicID,
	})
	if err != nil {
		u.logger.Error().Err(err).Str("filename", upload.Filename).Msg("failed to upload image to cloudinary")
		return "", fmt.Errorf("failed to upload image to cloudinary: %w", err)
	}
	if result == nil {
		return "", errors.New("cloudinary returned no upload result")
	}
	if result.Error.Message != "" {
		u.logger.Error().Str("filename", upload.Filename).Str("cloudinary_error", result.Error.Message).Msg("cloudinary rejected upload")
		return "", fmt.Errorf("cloudinary rejected upload: %s", result.Error.Message)
	}

	u.logger.Debug().Str("public_id", result.PublicID).Msg("image uploaded to cloudinary")

	return result.SecureURL, nil
}
