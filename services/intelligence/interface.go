// File: services/intelligence/interface.go
package ai

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	ProviderXAI    = "xai"
	ProviderGemini = "gemini"
	ProviderLocal  = "local"
)

// Pacing of the local streamer so canned replies still look typed.
const (
	localThinkDelay = time.Second
	localCharDelay  = 20 * time.Millisecond
)

type ProviderConfig struct {
	Provider     string
	XAIAPIKey    string
	XAIBaseURL   string
	XAIModel     string
	GeminiAPIKey string
	GeminiModel  string
}

// NewLocal returns the keyword streamer with its production pacing.
func NewLocal() Streamer {
	return Instrument(NewLocalStreamer(localThinkDelay, localCharDelay))
}

// NewStreamer builds the configured provider. A provider without a credential
// falls back to the local streamer without surfacing an error.
func NewStreamer(ctx context.Context, cfg ProviderConfig, logger *zap.Logger) Streamer {
	var (
		s   Streamer
		err error
	)
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case ProviderLocal:
		logger.Info("ai: using local streamer")
		return NewLocal()
	case ProviderGemini:
		s, err = NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	default:
		s, err = NewXAIClient(cfg.XAIAPIKey, cfg.XAIModel, WithBaseURL(cfg.XAIBaseURL))
	}

	if err != nil {
		if errors.Is(err, ErrMissingCredential) {
			logger.Info("ai: no credential configured, using local streamer", zap.String("provider", cfg.Provider))
		} else {
			logger.Warn("ai: provider unavailable, using local streamer", zap.String("provider", cfg.Provider), zap.Error(err))
		}
		return NewLocal()
	}

	logger.Info("ai: streamer ready", zap.String("provider", s.Name()))
	return Instrument(s)
}
