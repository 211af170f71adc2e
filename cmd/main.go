package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/satriahrh/scanspeak/server/internal/config"
	"github.com/satriahrh/scanspeak/server/internal/logger"
)

var version = "0.1.0"

var rootCmd = &cobra.Command{
	Use:   "scanspeak",
	Short: "Scan an image, summarize its text, translate it to Tamil and read it aloud",
	Long: `scanspeak extracts text from an image with an OCR service, summarizes it with a
language model, translates the summary from English to Tamil and synthesizes
MP3 speech for both languages.

Configuration is read from the environment, optionally from a .env file.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	// A missing .env file is fine; the environment may already be populated
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// setup loads configuration and builds the logger shared by every command
func setup() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	log, err := logger.New(cfg.IsDevelopment(), cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}

	return cfg, log, nil
}
