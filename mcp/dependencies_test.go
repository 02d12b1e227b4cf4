package mcp

import (
	"github.com/ludo-technologies/pysmell/domain"
	"github.com/ludo-technologies/pysmell/internal/config"
	"go.uber.org/zap"
)

func NewTestDependencies(cfg *config.Config, explainer domain.Explainer) *Dependencies {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &Dependencies{config: cfg, logger: zap.NewNop(), explainer: explainer}
}
