package model

import (
	"encoding/json"
	"time"
)

// SeoEntityType names the kind of page an SEO entry describes.
type SeoEntityType string

const (
	SeoEntityProduct   SeoEntityType = "PRODUCT"
	SeoEntitySupplier  SeoEntityType = "SUPPLIER"
	SeoEntityPromotion SeoEntityType = "PROMOTION"
	SeoEntityPage      SeoEntityType = "PAGE"
)

// SeoIndustryType groups entries by the storefront's line of business.
type SeoIndustryType string

const (
	SeoIndustryRetail      SeoIndustryType = "RETAIL"
	SeoIndustryWholesale   SeoIndustryType = "WHOLESALE"
	SeoIndustryGrocery     SeoIndustryType = "GROCERY"
	SeoIndustryFashion     SeoIndustryType = "FASHION"
	SeoIndustryElectronics SeoIndustryType = "ELECTRONICS"
)

// DefaultSeoLanguage is used when an entry names no default language.
const DefaultSeoLanguage = "ar-SA"

// SeoSocialMedia holds Open Graph and Twitter card metadata.
type SeoSocialMedia struct {
	OpenGraphTitle  string   `json:"openGraphTitle"`
	OpenGraphImages []string `json:"openGraphImages"`
	TwitterCardType string   `json:"twitterCardType"`
	TwitterImages   []string `json:"twitterImages"`
}

// SeoTechnical holds response-level hints rendered into the page head.
type SeoTechnical struct {
	SecurityHeaders []string `json:"securityHeaders"`
	PreloadAssets   []string `json:"preloadAssets"`
	HTTPEquiv       []string `json:"httpEquiv"`
}

// SeoLocalization lists the languages a page is served in.
type SeoLocalization struct {
	DefaultLanguage    string   `json:"defaultLanguage"`
	SupportedLanguages []string `json:"supportedLanguages"`
	Hreflang           string   `json:"hreflang"`
}

// SeoEntry is the search metadata of one storefront entity.
type SeoEntry struct {
	ID              string          `json:"id" db:"id"`
	EntityID        string          `json:"entityId" db:"entity_id"`
	EntityType      SeoEntityType   `json:"entityType" db:"entity_type"`
	IndustryType    SeoIndustryType `json:"industryType" db:"industry_type"`
	MetaTitle       string          `json:"metaTitle" db:"meta_title"`
	MetaDescription string          `json:"metaDescription" db:"meta_description"`
	CanonicalURL    *string         `json:"canonicalUrl" db:"canonical_url"`
	Robots          string          `json:"robots" db:"robots"`
	Keywords        []string        `json:"keywords" db:"keywords"`
	SocialMedia     SeoSocialMedia  `json:"socialMedia" db:"social_media"`
	TechnicalSEO    SeoTechnical    `json:"technicalSeo" db:"technical_seo"`
	Localization    SeoLocalization `json:"localization" db:"localization"`
	SchemaOrg       json.RawMessage `json:"schemaOrg,omitempty" db:"schema_org"`
	IndustryData    json.RawMessage `json:"industryData,omitempty" db:"industry_data"`
	CreatedAt       time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time       `json:"updatedAt" db:"updated_at"`
}

// SeoRequest is the payload for creating an SEO entry.
type SeoRequest struct {
	EntityID           string          `json:"entityId" validate:"required,max=200"`
	EntityType         SeoEntityType   `json:"entityType" validate:"required,oneof=PRODUCT SUPPLIER PROMOTION PAGE"`
	IndustryType       SeoIndustryType `json:"industryType" validate:"required,oneof=RETAIL WHOLESALE GROCERY FASHION ELECTRONICS"`
	MetaTitle          string          `json:"metaTitle" validate:"required,max=120"`
	MetaDescription    string          `json:"metaDescription" validate:"max=320"`
	CanonicalURL       string          `json:"canonicalUrl" validate:"omitempty,url"`
	Robots             string          `json:"robots" validate:"max=100"`
	Keywords           []string        `json:"keywords" validate:"max=50,dive,max=100"`
	OpenGraphTitle     string          `json:"openGraphTitle" validate:"max=200"`
	OpenGraphImages    []string        `json:"openGraphImages" validate:"dive,url"`
	TwitterCardType    string          `json:"twitterCardType" validate:"omitempty,oneof=summary summary_large_image app player"`
	TwitterImages      []string        `json:"twitterImages" validate:"dive,url"`
	SecurityHeaders    []string        `json:"securityHeaders"`
	PreloadAssets      []string        `json:"preloadAssets"`
	HTTPEquiv          []string        `json:"httpEquiv"`
	DefaultLanguage    string          `json:"defaultLanguage" validate:"omitempty,bcp47_language_tag"`
	SupportedLanguages []string        `json:"supportedLanguages" validate:"dive,bcp47_language_tag"`
	Hreflang           string          `json:"hreflang"`
	SchemaOrg          json.RawMessage `json:"schemaOrg"`
	IndustryData       json.RawMessage `json:"industryData"`
}

// Valid reports whether t is a known entity type.
func (t SeoEntityType) Valid() bool {
	switch t {
	case SeoEntityProduct, SeoEntitySupplier, SeoEntityPromotion, SeoEntityPage:
		return true
	}
	return false
}
