package seed

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/rs/zerolog"
)

// fileLoader implements Loader for gzipped catalog files on local disk.
type fileLoader struct {
	logger zerolog.Logger
}

// NewFileLoader creates a new file-based catalog loader.
func NewFileLoader(logger zerolog.Logger) Loader {
	return &fileLoader{
		logger: logger.With().Str("component", "catalog-loader").Logger(),
	}
}

// Load reads a gzipped catalog file.
func (l *fileLoader) Load(ctx context.Context, filePath string) (*Catalog, error) {
	l.logger.Info().Str("file", filePath).Msg("loading catalog file")

	file, err := os.Open(filePath)
	if err != nil {
		l.logger.Error().Err(err).Str("file", filePath).Msg("failed to open catalog file")
		return nil, fmt.Errorf("failed to open catalog file %s: %w", filePath, err)
	}
	defer file.Close()

	catalog, err := Decode(ctx, file)
	if err != nil {
		l.logger.Error().Err(err).Str("file", filePath).Msg("failed to decode catalog file")
		return nil, fmt.Errorf("failed to decode catalog file %s: %w", filePath, err)
	}

	l.logger.Info().
		Str("file", filePath).
		Int("suppliers", len(catalog.Suppliers)).
		Int("products", len(catalog.Products)).
		Msg("catalog file loaded successfully")

	return catalog, nil
}

// LoadAll reads every path concurrently and merges the results in path
// order. The first failure aborts the load.
func LoadAll(ctx context.Context, loader Loader, paths []string, logger zerolog.Logger) (*Catalog, error) {
	type loadResult struct {
		index   int
		catalog *Catalog
		err     error
	}

	resultChan := make(chan loadResult, len(paths))
	var wg sync.WaitGroup

	for i, path := range paths {
		wg.Add(1)
		go func(index int, path string) {
			defer wg.Done()

			catalog, err := loader.Load(ctx, path)
			resultChan <- loadResult{index: index, catalog: catalog, err: err}
		}(i, path)
	}

	wg.Wait()
	close(resultChan)

	results := make([]loadResult, len(paths))
	for result := range resultChan {
		results[result.index] = result
	}

	merged := &Catalog{}
	for i, result := range results {
		if result.err != nil {
			logger.Error().Err(result.err).Str("file", paths[i]).Msg("failed to load catalog file")
			return nil, fmt.Errorf("failed to load catalog file %s: %w", paths[i], result.err)
		}
		merged.Append(result.catalog)
	}

	return merged, nil
}
