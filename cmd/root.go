package cmd

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"crisp/internal/config"
	"crisp/internal/interview"
	"crisp/internal/llm"
	"crisp/internal/store"
	"crisp/internal/tui"
)

var (
	flagData    string
	flagModel   string
	flagBaseURL string
)

var rootCmd = &cobra.Command{
	Use:   "crisp",
	Short: "AI interview assistant in your terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		// The oracle credential is required before anything runs, so a
		// missing key fails here with a clear message instead of on the
		// first question-generation call.
		if err := cfg.RequireAPIKey(); err != nil {
			return err
		}

		st, err := store.Open(cfg.DataDir)
		if err != nil {
			return err
		}

		// The TUI owns the terminal; diagnostics go to a log file in the
		// data dir instead of stderr.
		if f, err := os.OpenFile(filepath.Join(cfg.DataDir, "crisp.log"),
			os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644); err == nil {
			log.SetOutput(f)
			defer f.Close()
		}

		oracle := llm.NewOracle(llm.NewClient(cfg.BaseURL, cfg.APIKey, cfg.Model))
		machine := interview.New(st, oracle)

		return tui.Run(tui.Config{Store: st, Machine: machine})
	},
}

// loadConfig reads the environment and applies flag overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if flagData != "" {
		cfg.DataDir = flagData
	}
	if flagModel != "" {
		cfg.Model = flagModel
	}
	if flagBaseURL != "" {
		cfg.BaseURL = flagBaseURL
	}
	return cfg, nil
}

// openStore is the shared store setup for the headless subcommands, which
// read and mutate the store without needing the oracle credential.
func openStore() (*store.Store, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return store.Open(cfg.DataDir)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagData, "data", "", "data directory (default ~/.crisp)")
	rootCmd.PersistentFlags().StringVar(&flagModel, "model", "", "generative model (default gemini-2.0-flash)")
	rootCmd.PersistentFlags().StringVar(&flagBaseURL, "base-url", "", "generative-language API base URL")
}
