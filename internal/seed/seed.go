// Package seed loads catalog fixtures and writes them to the database.
package seed

import (
	"bufio"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"storefront/internal/model"

	"github.com/shopspring/decimal"
)

// Record kinds.
const (
	KindSupplier = "supplier"
	KindProduct  = "product"
)

// Record is one line of a catalog file. Kind selects which fields apply.
type Record struct {
	Kind string `json:"kind"`

	// Shared
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`

	// Supplier
	Logo    string `json:"logo"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Type    string `json:"type"`

	// Product
	SupplierSlug string          `json:"supplierSlug"`
	Price        decimal.Decimal `json:"price"`
	Details      string          `json:"details"`
	Size         string          `json:"size"`
	Published    *bool           `json:"published"`
	OutOfStock   bool            `json:"outOfStock"`
	ImageURL     string          `json:"imageUrl"`
	Images       []string        `json:"images"`
	Rating       *float64        `json:"rating"`
	ReviewCount  int             `json:"reviewCount"`
}

// ProductRecord is a product waiting for its supplier slug to be resolved.
type ProductRecord struct {
	SupplierSlug string
	Product      model.Product
}

// Catalog is the decoded content of one or more catalog files.
type Catalog struct {
	Suppliers []model.Supplier
	Products  []ProductRecord
}

// Append adds other's records after c's.
func (c *Catalog) Append(other *Catalog) {
	if other == nil {
		return
	}
	c.Suppliers = append(c.Suppliers, other.Suppliers...)
	c.Products = append(c.Products, other.Products...)
}

// Loader reads a catalog file.
type Loader interface {
	Load(ctx context.Context, path string) (*Catalog, error)
}

// Decode reads a gzipped JSON lines catalog. Blank lines are skipped.
func Decode(ctx context.Context, r io.Reader) (*Catalog, error) {
	gzipReader, err := gzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer gzipReader.Close()

	catalog := &Catalog{}

	scanner := bufio.NewScanner(gzipReader)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		if lineNo%10_000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var rec Record
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			return nil, fmt.Errorf("line %d: invalid record: %w", lineNo, err)
		}
		if err := catalog.add(rec); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}

	return catalog, nil
}

func (c *Catalog) add(rec Record) error {
	switch rec.Kind {
	case KindSupplier:
		if rec.Name == "" || rec.Slug == "" {
			return fmt.Errorf("supplier requires name and slug")
		}
		c.Suppliers = append(c.Suppliers, model.Supplier{
			ID:      rec.ID,
			Name:    rec.Name,
			Slug:    rec.Slug,
			Logo:    rec.Logo,
			Email:   rec.Email,
			Phone:   rec.Phone,
			Address: rec.Address,
			Type:    rec.Type,
		})
	case KindProduct:
		if rec.Name == "" || rec.SupplierSlug == "" {
			return fmt.Errorf("product requires name and supplierSlug")
		}
		published := true
		if rec.Published != nil {
			published = *rec.Published
		}
		c.Products = append(c.Products, ProductRecord{
			SupplierSlug: rec.SupplierSlug,
			Product: model.Product{
				ID:          rec.ID,
				Name:        rec.Name,
				Slug:        rec.Slug,
				Price:       rec.Price,
				Details:     rec.Details,
				Size:        rec.Size,
				Published:   published,
				OutOfStock:  rec.OutOfStock,
				ImageURL:    rec.ImageURL,
				Images:      rec.Images,
				Rating:      rec.Rating,
				ReviewCount: rec.ReviewCount,
			},
		})
	default:
		return fmt.Errorf("unknown record kind %q", rec.Kind)
	}
	return nil
}
