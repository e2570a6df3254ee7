package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ajoubert/newsdesk/internal/category"
	"github.com/ajoubert/newsdesk/internal/render"
	"github.com/ajoubert/newsdesk/internal/search"
)

var (
	flagTopic string
	flagJSON  bool
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Run one search and print the matching articles",
	Long: `Run the full query pipeline without the TUI: classify the query,
fetch the matching articles, and print them as cards.

With --topic the classification step is skipped and the given category is
used directly.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, client, err := setup()
		if err != nil {
			return err
		}

		query := strings.Join(args, " ")

		ctx, cancel := context.WithTimeout(cmd.Context(), 2*cfg.Timeout())
		defer cancel()

		var out search.Outcome
		if flagTopic != "" {
			cat, err := category.Parse(flagTopic)
			if err != nil {
				return err
			}
			articles, err := client.FetchNews(ctx, string(cat))
			if err != nil {
				return fmt.Errorf("fetching news: %w", err)
			}
			out = search.Outcome{Topic: string(cat), Deck: render.Build(string(cat), articles)}
			if len(articles) == 0 {
				out.Status = search.StatusNoResults
			}
		} else {
			ctrl := search.NewController(client, client)
			out = ctrl.Run(ctx, ctrl.Begin(), query)
		}

		switch out.Status {
		case search.StatusError:
			return fmt.Errorf("fetching news: %w", out.Err)
		case search.StatusNoResults:
			fmt.Printf("No articles found for %q.\n", out.Topic)
			return nil
		}

		if out.Category.Confident() {
			slog.Info("query classified", "query", query, "category", out.Category)
		}

		if flagJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(out.Deck)
		}

		for _, c := range out.Deck.Cards {
			fmt.Printf("%s  [%s]\n", c.Title, c.Source)
			if c.Date != "" {
				fmt.Printf("  %s\n", c.Date)
			}
			fmt.Printf("  %s\n", c.Summary)
			fmt.Printf("  %s\n\n", c.Link)
		}
		fmt.Printf("%d article(s), %d source(s), topic %q\n",
			out.Deck.Stats.Articles, out.Deck.Stats.Sources, out.Topic)
		return nil
	},
}

func init() {
	searchCmd.Flags().StringVar(&flagTopic, "topic", "", "skip classification and search this category directly")
	searchCmd.Flags().BoolVar(&flagJSON, "json", false, "print the deck as JSON")
}
