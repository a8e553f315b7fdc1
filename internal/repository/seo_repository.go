package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"storefront/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

const seoColumns = `id, entity_id, entity_type, industry_type, meta_title, meta_description, canonical_url,
	robots, keywords, social_media, technical_seo, localization, schema_org, industry_data, created_at, updated_at`

// seoRepository implements the SeoRepository interface using PostgreSQL.
type seoRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewSeoRepository creates a new PostgreSQL-backed SEO entry repository.
func NewSeoRepository(pool *pgxpool.Pool, logger zerolog.Logger) SeoRepository {
	return &seoRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "seo").Logger(),
	}
}

// Create inserts an SEO entry. A second entry for the same entity returns
// model.ErrSeoEntryExists.
func (r *seoRepository) Create(ctx context.Context, e *model.SeoEntry) error {
	query := `
		INSERT INTO seo_entries (id, entity_id, entity_type, industry_type, meta_title, meta_description,
			canonical_url, robots, keywords, social_media, technical_seo, localization, schema_org, industry_data)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING created_at, updated_at
	`

	err := r.pool.QueryRow(ctx, query,
		e.ID, e.EntityID, string(e.EntityType), string(e.IndustryType), e.MetaTitle, e.MetaDescription,
		e.CanonicalURL, e.Robots, nonNilStrings(e.Keywords), e.SocialMedia, e.TechnicalSEO, e.Localization,
		rawJSON(e.SchemaOrg), rawJSON(e.IndustryData),
	).Scan(&e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			r.logger.Debug().Str("entity_id", e.EntityID).Str("entity_type", string(e.EntityType)).Msg("seo entry already exists")
			return model.ErrSeoEntryExists
		}
		r.logger.Error().Err(err).Str("seo_id", e.ID).Msg("failed to create seo entry")
		return fmt.Errorf("failed to create seo entry: %w", err)
	}

	return nil
}

// GetByID retrieves an SEO entry by ID.
func (r *seoRepository) GetByID(ctx context.Context, id string) (*model.SeoEntry, error) {
	return r.getOne(ctx, `SELECT `+seoColumns+` FROM seo_entries WHERE id = $1`, id)
}

// GetByEntity retrieves the SEO entry of one storefront entity.
func (r *seoRepository) GetByEntity(ctx context.Context, entityType model.SeoEntityType, entityID string) (*model.SeoEntry, error) {
	return r.getOne(ctx, `SELECT `+seoColumns+` FROM seo_entries WHERE entity_type = $1 AND entity_id = $2`,
		string(entityType), entityID)
}

// List returns entries most recently updated first. A non-empty search
// matches title, entity id or description, ignoring case.
func (r *seoRepository) List(ctx context.Context, search string) ([]model.SeoEntry, error) {
	query := `SELECT ` + seoColumns + `
		FROM seo_entries
		WHERE $1 = ''
		   OR strpos(lower(meta_title), lower($1)) > 0
		   OR strpos(lower(entity_id), lower($1)) > 0
		   OR strpos(lower(meta_description), lower($1)) > 0
		ORDER BY updated_at DESC, id`

	rows, err := r.pool.Query(ctx, query, search)
	if err != nil {
		r.logger.Error().Err(err).Str("search", search).Msg("failed to query seo entries")
		return nil, fmt.Errorf("failed to query seo entries: %w", err)
	}
	defer rows.Close()

	entries := []model.SeoEntry{}
	for rows.Next() {
		e, err := scanSeoEntry(rows)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan seo entry row")
			return nil, fmt.Errorf("failed to scan seo entry: %w", err)
		}
		entries = append(entries, *e)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating seo entry rows")
		return nil, fmt.Errorf("error iterating seo entries: %w", err)
	}

	return entries, nil
}

// Delete removes an SEO entry and reports whether it existed.
func (r *seoRepository) Delete(ctx context.Context, id string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM seo_entries WHERE id = $1`, id)
	if err != nil {
		r.logger.Error().Err(err).Str("seo_id", id).Msg("failed to delete seo entry")
		return false, fmt.Errorf("failed to delete seo entry: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *seoRepository) getOne(ctx context.Context, query string, args ...any) (*model.SeoEntry, error) {
	e, err := scanSeoEntry(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error().Err(err).Msg("failed to query seo entry")
		return nil, fmt.Errorf("failed to query seo entry: %w", err)
	}
	return e, nil
}

func scanSeoEntry(row pgx.Row) (*model.SeoEntry, error) {
	var e model.SeoEntry
	var entityType, industryType string
	var schemaOrg, industryData []byte
	err := row.Scan(
		&e.ID, &e.EntityID, &entityType, &industryType, &e.MetaTitle, &e.MetaDescription, &e.CanonicalURL,
		&e.Robots, &e.Keywords, &e.SocialMedia, &e.TechnicalSEO, &e.Localization, &schemaOrg, &industryData,
		&e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	e.EntityType = model.SeoEntityType(entityType)
	e.IndustryType = model.SeoIndustryType(industryType)
	if len(schemaOrg) > 0 {
		e.SchemaOrg = json.RawMessage(schemaOrg)
	}
	if len(industryData) > 0 {
		e.IndustryData = json.RawMessage(industryData)
	}
	return &e, nil
}

// rawJSON maps an empty document to SQL NULL.
func rawJSON(raw json.RawMessage) any {
	if len(raw) == 0 {
		return nil
	}
	return []byte(raw)
}
