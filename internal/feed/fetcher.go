package feed

import (
	"context"

	"storefront/internal/model"
)

// PageSource is the in-process pagination action.
type PageSource interface {
	FetchPage(ctx context.Context, slug string, page, pageSize int) model.ProductPage
}

// ServiceFetcher adapts a PageSource to Fetcher. The source reports
// failures as empty pages, so it never returns an error.
type ServiceFetcher struct {
	Source PageSource
}

// FetchPage implements Fetcher.
func (f ServiceFetcher) FetchPage(ctx context.Context, slug string, page, pageSize int) (model.ProductPage, error) {
	if err := ctx.Err(); err != nil {
		return model.ProductPage{}, err
	}
	return f.Source.FetchPage(ctx, slug, page, pageSize), nil
}
