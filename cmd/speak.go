package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/satriahrh/scanspeak/server/domain/entities"
)

var speakCmd = &cobra.Command{
	Use:   "speak [text]",
	Short: "Synthesize MP3 speech for a text",
	Example: `  # Write summary_english.mp3
  scanspeak speak "Hello there"

  # Tamil speech to a custom file
  scanspeak speak --lang ta --out greeting.mp3 "வணக்கம்"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSpeak,
}

func init() {
	rootCmd.AddCommand(speakCmd)

	speakCmd.Flags().String("lang", entities.LanguageEnglish, "Speech language (en or ta)")
	speakCmd.Flags().StringP("out", "o", "", "Output file (default: summary_english.mp3 or summary_tamil.mp3)")
}

func runSpeak(cmd *cobra.Command, args []string) error {
	lang, _ := cmd.Flags().GetString("lang")
	outPath, _ := cmd.Flags().GetString("out")

	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	defer logger.Sync()

	svc, err := newServices(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	defer svc.Close()

	clip, err := svc.speech.Synthesize(cmd.Context(), strings.Join(args, " "), lang)
	if err != nil {
		return err
	}

	if outPath == "" {
		outPath = clip.Filename
	}
	if err := os.WriteFile(outPath, clip.Data, 0o644); err != nil {
		return fmt.Errorf("failed to write audio: %w", err)
	}

	logger.Info("Audio written", zap.String("path", outPath), zap.Int("bytes", clip.Size()))
	fmt.Fprintln(cmd.OutOrStdout(), outPath)
	return nil
}
