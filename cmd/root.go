package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ajoubert/newsdesk/internal/config"
	"github.com/ajoubert/newsdesk/internal/newsapi"
	"github.com/ajoubert/newsdesk/internal/store"
	"github.com/ajoubert/newsdesk/internal/tui"
	"github.com/ajoubert/newsdesk/internal/voice"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	flagConfig  string
	flagBaseURL string
)

var rootCmd = &cobra.Command{
	Use:   "newsdesk",
	Short: "Terminal client for the news assistant",
	Long:  "newsdesk searches a news assistant backend by typed or spoken query, shows the matching articles, and lets you discuss any of them with the assistant.",
	RunE:  runTUI,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&flagBaseURL, "base-url", "", "override the backend base URL")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(doctorCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("newsdesk %s (commit: %s, built: %s)\n", version, commit, date)
	},
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, client, err := setup()
	if err != nil {
		return err
	}

	db, err := store.Open()
	if err != nil {
		return fmt.Errorf("opening result store: %w", err)
	}
	defer db.Close()

	var mic voice.Transcriber = voice.None{}
	if command, cmdArgs := cfg.VoiceCommand(); command != "" {
		mic = voice.NewCommand(command, cmdArgs...)
	}

	return tui.Run(tui.RunOpts{Cfg: cfg, Client: client, DB: db, Mic: mic})
}

// setup loads config and builds the backend client, applying flag
// overrides.
func setup() (*config.Config, *newsapi.Client, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}
	if flagBaseURL != "" {
		cfg.BaseURL = flagBaseURL
	}
	return cfg, newsapi.New(cfg.BaseURL, cfg.Timeout()), nil
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
}
