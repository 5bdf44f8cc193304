// Package providers picks the generation backend for the configured environment.
package providers

import (
	"github.com/rs/zerolog"

	"fittingroom/internal/fitting"
	"fittingroom/internal/infra"
	"fittingroom/internal/providers/genai"
	"fittingroom/internal/providers/synthetic"
)

// Backend names reported by NewGenerator.
const (
	BackendGemini    = "gemini"
	BackendSynthetic = "synthetic"
)

// NewGenerator returns the Gemini client when an API key is configured and the
// offline collage generator otherwise.
func NewGenerator(cfg *infra.Config, logger zerolog.Logger) (fitting.Generator, string) {
	if cfg.UsesSynthetic() {
		return synthetic.NewCollage(cfg.SyntheticDelay, logger), BackendSynthetic
	}
	return genai.NewClient(genai.Options{
		APIKey:  cfg.GeminiAPIKey,
		BaseURL: cfg.GeminiBaseURL,
		Model:   cfg.GeminiModel,
		Timeout: cfg.GeminiTimeout,
		Logger:  logger,
	}), BackendGemini
}
