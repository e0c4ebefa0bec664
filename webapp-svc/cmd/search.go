package cmd

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"beerchek/config"
	"beerchek/webapp-svc/internal/service"
	"beerchek/webapp-svc/internal/storage"

	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the catalog and show the beer card",
	Long: `Finds the first beer whose name contains the query and prints it with its
average rating from the rating service.
Examples:
  beerchek search guinness
  beerchek search "baltika 7"`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.Load()
		if err != nil {
			log.Fatalf("Config error: %v", err)
		}
		if err := runSearch(context.Background(), cfg, strings.Join(args, " "), os.Stdout); err != nil {
			log.Fatalf("Search failed: %v", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)
}

func runSearch(ctx context.Context, cfg config.Config, query string, out io.Writer) error {
	views := service.NewViewService(loadCatalog(ctx, cfg), newRatingClient(cfg), storage.NewMemorySessionStore(0), nil, nil)

	state, err := views.Search(ctx, "cli", query)
	if err != nil {
		return err
	}
	printCard(out, service.NewView(state, false))
	return nil
}

func printCard(out io.Writer, view service.View) {
	if view.State.Result == nil {
		fmt.Fprintln(out, service.MsgNotFound)
		return
	}
	fmt.Fprintf(out, "%s\n", view.State.Result.Name)
	fmt.Fprintln(out, strings.Repeat("-", len(view.State.Result.Name)))
	for _, field := range view.Fields {
		fmt.Fprintf(out, "%-12s %s\n", field.Label+":", field.Value)
	}
	fmt.Fprintf(out, "%-12s %s\n", "Rating:", view.Rating)
}
