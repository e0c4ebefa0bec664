package cmd

import (
	"context"
	"log"
	"net/http"
	"os"

	"beerchek/config"
	"beerchek/webapp-svc/internal/catalog"
	"beerchek/webapp-svc/internal/ratingclient"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "beerchek",
	Short: "Beer catalog mini app: search beers, see and submit ratings",
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadCatalog falls back to an empty catalog so the page still renders; every
// search then reports not found.
func loadCatalog(ctx context.Context, cfg config.Config) *catalog.Catalog {
	cat, err := catalog.Load(ctx, cfg.CatalogPath, &http.Client{Timeout: cfg.RatingTimeout})
	if err != nil {
		log.Printf("Warning: failed to load catalog, starting empty: %v", err)
		return catalog.Empty()
	}
	log.Printf("[WEBAPP] loaded %d beers from %s", cat.Len(), cfg.CatalogPath)
	return cat
}

func newRatingClient(cfg config.Config) *ratingclient.Client {
	return ratingclient.New(ratingclient.Config{
		BaseURL:    cfg.RatingSvcURL,
		Timeout:    cfg.RatingTimeout,
		Retries:    cfg.RatingRetries,
		RetryDelay: cfg.RatingRetryDelay,
	}, &http.Client{})
}
