package media

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ErrUploadsDisabled is returned by the no-op uploader.
var ErrUploadsDisabled = errors.New("media uploads are disabled")

// Upload is an image to store.
type Upload struct {
	Filename    string
	ContentType string
	Folder      string
	Body        io.Reader
}

// Uploader stores an image and returns a stable URL for it.
type Uploader interface {
	Upload(ctx context.Context, upload Upload) (string, error)
}

type nopUploader struct{}

// NewNopUploader returns an uploader that always fails with ErrUploadsDisabled.
func NewNopUploader() Uploader {
	return nopUploader{}
}

func (nopUploader) Upload(context.Context, Upload) (string, error) {
	return "", ErrUploadsDisabled
}

// Resolver turns uploads into image URLs, substituting a fallback path when
// the upload fails.
type Resolver struct {
	uploader Uploader
	fallback string
	logger   zerolog.Logger
}

// NewResolver creates a resolver. A nil uploader disables uploads.
func NewResolver(uploader Uploader, fallback string, logger zerolog.Logger) *Resolver {
	if uploader == nil {
		uploader = NewNopUploader()
	}
	return &Resolver{
		uploader: uploader,
		fallback: fallback,
		logger:   logger.With().Str("component", "media_resolver").Logger(),
	}
}

// Resolve uploads the image and returns its URL. The second result is false
// when the fallback path was substituted.
func (r *Resolver) Resolve(ctx context.Context, upload Upload) (string, bool) {
	url, err := r.uploader.Upload(ctx, upload)
	if err != nil || url == "" {
		r.logger.Warn().
			Err(err).
			Str("filename", upload.Filename).
			Str("fallback", r.fallback).
			Msg("image upload failed, using fallback")
		return r.fallback, false
	}
	return url, true
}

// Fallback returns the path used when uploads fail.
func (r *Resolver) Fallback() string {
	return r.fallback
}

// objectName builds a unique, extension-preserving object name.
func objectName(filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	return uuid.NewString() + ext
}
