package mcp

import (
	"github.com/ludo-technologies/pysmell/app"
	"github.com/ludo-technologies/pysmell/domain"
	"github.com/ludo-technologies/pysmell/internal/config"
	"go.uber.org/zap"
)

// Dependencies aggregates the shared services required by MCP handlers.
type Dependencies struct {
	config    *config.Config
	logger    *zap.Logger
	explainer domain.Explainer
}

// NewDependencies constructs the dependency set with sane defaults.
func NewDependencies(cfg *config.Config, logger *zap.Logger) (*Dependencies, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	explainer, err := app.NewExplainer(cfg, logger.Named("explain"))
	if err != nil {
		return nil, err
	}
	return &Dependencies{config: cfg, logger: logger, explainer: explainer}, nil
}

// Config exposes the loaded configuration snapshot.
func (d *Dependencies) Config() *config.Config {
	return d.config
}

// components wires a fresh detector set. cfg is a per-call copy of the snapshot.
func (d *Dependencies) components(cfg *config.Config, save bool) *app.Components {
	return app.NewComponents(cfg, d.logger, save)
}
