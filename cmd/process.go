package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/satriahrh/scanspeak/server/domain"
	"github.com/satriahrh/scanspeak/server/domain/entities"
	"github.com/satriahrh/scanspeak/server/internal/api"
)

var processCmd = &cobra.Command{
	Use:   "process [image-file]",
	Short: "Extract, summarize and translate the text of an image",
	Long: `Run the extraction, summarization and English to Tamil translation stages
for a single image file and print the three texts.`,
	Example: `  # Print the extracted text, summary and translation
  scanspeak process receipt.jpg

  # Print the JSON document served by /api/v1/process
  scanspeak process receipt.jpg --json`,
	Args: cobra.ExactArgs(1),
	RunE: runProcess,
}

func init() {
	rootCmd.AddCommand(processCmd)

	processCmd.Flags().Bool("json", false, "Output as JSON")
}

func runProcess(cmd *cobra.Command, args []string) error {
	jsonOutput, _ := cmd.Flags().GetBool("json")

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read image: %w", err)
	}
	if len(data) == 0 {
		return domain.ErrNoImage
	}

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

	result := svc.pipeline.Process(cmd.Context(), uuid.NewString(), entities.ImagePayload{
		Data:     data,
		Source:   entities.SourceFile,
		Filename: filepath.Base(args[0]),
	})

	out := cmd.OutOrStdout()
	if jsonOutput {
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		encoder.SetEscapeHTML(false)
		if err := encoder.Encode(api.NewProcessResponse(result)); err != nil {
			return err
		}
	} else {
		fmt.Fprintf(out, "Extracted text:\n%s\n\n", result.Extraction.Display())
		fmt.Fprintf(out, "Summary:\n%s\n\n", result.Summary.Display())
		fmt.Fprintf(out, "Tamil:\n%s\n", result.Translation.Display())
	}

	return result.FirstError()
}
