package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check that the backend is reachable",
	Long: `Probe the backend endpoints the client depends on and report their
status. Useful when the TUI shows errors and you want to know whether the
problem is the network, the backend, or a single endpoint.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, client, err := setup()
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Timeout())
		defer cancel()

		fmt.Printf("Backend: %s\n\n", cfg.BaseURL)

		failures := 0
		report := func(endpoint string, err error) {
			if err != nil {
				failures++
				fmt.Printf("  %-12s FAIL  %v\n", endpoint, err)
				return
			}
			fmt.Printf("  %-12s ok\n", endpoint)
		}

		report("/health", client.Health(ctx))

		_, newsErr := client.FetchNews(ctx, "")
		report("/news", newsErr)

		sources, srcErr := client.Sources(ctx)
		report("/sources", srcErr)
		if srcErr == nil && len(sources) > 0 {
			fmt.Printf("               %s\n", strings.Join(sources, ", "))
		}

		_, tokenErr := client.BotToken(ctx)
		report("/bot-token", tokenErr)

		if failures > 0 {
			return fmt.Errorf("%d endpoint(s) failing", failures)
		}
		fmt.Println("\nAll good.")
		return nil
	},
}
