package app

import (
	"context"
	"strings"

	"load-planning-service/internal/adapters/oracle"
	"load-planning-service/internal/config"
	"load-planning-service/internal/ports"

	"go.uber.org/zap"
)

// NewOracle returns the Gemini oracle, or an unavailable stand-in when no
// API key is configured so that planning fails with OracleUnavailable
// instead of the process refusing to start.
func NewOracle(ctx context.Context, cfg config.Oracle) ports.PlanOracle {
	if strings.TrimSpace(cfg.APIKey) == "" {
		zap.L().Warn("no GEMINI_API_KEY configured, planning is disabled")
		return oracle.Unavailable{}
	}

	o, err := oracle.NewGeminiOracle(ctx, cfg.APIKey, cfg.Model, cfg.Timeout)
	if err != nil {
		zap.L().Error("gemini oracle init failed, planning is disabled", zap.Error(err))
		return oracle.Unavailable{}
	}
	return o
}
