// Command browse walks the product feed of a running API the way an
// infinitely scrolling list does, printing each page as it arrives.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront/internal/config"
	"storefront/internal/feed"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	slug := flag.String("slug", "", "supplier slug to filter by")
	pages := flag.Int("pages", 0, "stop after this many pages (0 = until the end)")
	pageSize := flag.Int("page-size", 0, "items per page (defaults to FEED_PAGE_SIZE)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	logger := config.NewLogger(cfg.Logger)

	size := cfg.Feed.PageSize
	if *pageSize > 0 {
		size = *pageSize
	}

	client, err := feed.NewClient(cfg.Feed.BaseURL, feed.WithAPIKey(cfg.Auth.APIKey))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	acc := feed.New(client, feed.Options{PageSize: size}, logger)
	if err := acc.Start(ctx, *slug); err != nil {
		return err
	}

	printed := 0
	for loaded := 1; ; loaded++ {
		view := acc.View()
		for _, item := range view.Items[printed:] {
			fmt.Printf("%4d  %-36s  %-40s  %s\n", printed+1, item.Key, item.Product.Name, item.Product.Price.StringFixed(2))
			printed++
		}

		if view.EndReached {
			fmt.Println(view.EndMessage)
			return nil
		}
		if *pages > 0 && loaded >= *pages {
			return nil
		}

		if err := acc.LoadMore(ctx); err != nil {
			logger.Warn().Err(err).Int("cursor", acc.Cursor()).Msg("page load failed, retrying")
			fmt.Println(feed.RetryMessage)

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(2 * time.Second):
			}
			if err := acc.Retry(ctx); err != nil {
				return err
			}
		}
	}
}
