package repositories

import "context"

// LargeLanguageModel abstracts any text-generation provider
type LargeLanguageModel interface {
	// Generate takes a prompt and returns the model's reply
	Generate(ctx context.Context, prompt string, options GenerateOptions) (string, error)
	// Name returns the short provider name used in logs and error messages
	Name() string
}

// GenerateOptions tunes a single generation call
type GenerateOptions struct {
	Temperature float32 `json:"temperature"`
	// Model overrides the provider's configured model when set
	Model string `json:"model,omitempty"`
}
