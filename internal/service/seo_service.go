package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"storefront/internal/model"
	"storefront/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// seoService implements SeoService.
type seoService struct {
	entries repository.SeoRepository
	logger  zerolog.Logger
}

// NewSeoService creates a new SEO entry service.
func NewSeoService(entries repository.SeoRepository, logger zerolog.Logger) SeoService {
	return &seoService{
		entries: entries,
		logger:  logger.With().Str("service", "seo").Logger(),
	}
}

func (s *seoService) Create(ctx context.Context, req *model.SeoRequest) (*model.SeoEntry, error) {
	entry := newSeoEntry(req)
	entry.ID = uuid.New().String()

	if err := s.entries.Create(ctx, entry); err != nil {
		if errors.Is(err, model.ErrSeoEntryExists) {
			return nil, err
		}
		s.logger.Error().Err(err).Str("entity_id", entry.EntityID).Msg("failed to create seo entry")
		return nil, fmt.Errorf("failed to create seo entry: %w", err)
	}

	s.logger.Info().
		Str("seo_id", entry.ID).
		Str("entity_type", string(entry.EntityType)).
		Str("entity_id", entry.EntityID).
		Msg("seo entry created")
	return entry, nil
}

func (s *seoService) Get(ctx context.Context, id string) (*model.SeoEntry, error) {
	entry, err := s.entries.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("seo_id", id).Msg("failed to get seo entry")
		return nil, fmt.Errorf("failed to get seo entry: %w", err)
	}
	return entry, nil
}

func (s *seoService) GetByEntity(ctx context.Context, entityType model.SeoEntityType, entityID string) (*model.SeoEntry, error) {
	entry, err := s.entries.GetByEntity(ctx, entityType, strings.TrimSpace(entityID))
	if err != nil {
		s.logger.Error().Err(err).Str("entity_id", entityID).Msg("failed to get seo entry by entity")
		return nil, fmt.Errorf("failed to get seo entry: %w", err)
	}
	return entry, nil
}

func (s *seoService) List(ctx context.Context, search string) ([]model.SeoEntry, error) {
	entries, err := s.entries.List(ctx, strings.TrimSpace(search))
	if err != nil {
		s.logger.Error().Err(err).Str("search", search).Msg("failed to list seo entries")
		return nil, fmt.Errorf("failed to list seo entries: %w", err)
	}
	return entries, nil
}

func (s *seoService) Delete(ctx context.Context, id string) error {
	deleted, err := s.entries.Delete(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("seo_id", id).Msg("failed to delete seo entry")
		return fmt.Errorf("failed to delete seo entry: %w", err)
	}
	if !deleted {
		return model.ErrSeoEntryNotFound
	}
	return nil
}

// newSeoEntry maps a validated request onto an entry. Keywords are trimmed
// and de-duplicated; localization falls back to DefaultSeoLanguage.
func newSeoEntry(req *model.SeoRequest) *model.SeoEntry {
	entry := &model.SeoEntry{
		EntityID:        strings.TrimSpace(req.EntityID),
		EntityType:      req.EntityType,
		IndustryType:    req.IndustryType,
		MetaTitle:       strings.TrimSpace(req.MetaTitle),
		MetaDescription: strings.TrimSpace(req.MetaDescription),
		Robots:          strings.TrimSpace(req.Robots),
		Keywords:        cleanList(req.Keywords),
		SocialMedia: model.SeoSocialMedia{
			OpenGraphTitle:  strings.TrimSpace(req.OpenGraphTitle),
			OpenGraphImages: cleanList(req.OpenGraphImages),
			TwitterCardType: req.TwitterCardType,
			TwitterImages:   cleanList(req.TwitterImages),
		},
		TechnicalSEO: model.SeoTechnical{
			SecurityHeaders: cleanList(req.SecurityHeaders),
			PreloadAssets:   cleanList(req.PreloadAssets),
			HTTPEquiv:       cleanList(req.HTTPEquiv),
		},
		Localization: model.SeoLocalization{
			DefaultLanguage:    strings.TrimSpace(req.DefaultLanguage),
			SupportedLanguages: cleanList(req.SupportedLanguages),
			Hreflang:           strings.TrimSpace(req.Hreflang),
		},
		SchemaOrg:    jsonOrNil(req.SchemaOrg),
		IndustryData: jsonOrNil(req.IndustryData),
	}

	if url := strings.TrimSpace(req.CanonicalURL); url != "" {
		entry.CanonicalURL = &url
	}
	if entry.Localization.DefaultLanguage == "" {
		entry.Localization.DefaultLanguage = model.DefaultSeoLanguage
	}
	if len(entry.Localization.SupportedLanguages) == 0 {
		entry.Localization.SupportedLanguages = []string{entry.Localization.DefaultLanguage}
	}
	return entry
}

// cleanList trims values, drops blanks and keeps the first of any
// case-insensitive duplicates. The result is never nil.
func cleanList(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		key := strings.ToLower(v)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, v)
	}
	return out
}

// jsonOrNil treats an absent or null document as no document.
func jsonOrNil(raw []byte) []byte {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return nil
	}
	return raw
}
