// Package di assembles the application graph. Construction is explicit:
// each provider is an ordinary function and the container wires them in
// dependency order.
package di

import (
	"context"
	"fmt"

	"cardmind-backend/application/ports"
	"cardmind-backend/application/services"
	"cardmind-backend/application/workflow"
	"cardmind-backend/infrastructure/cardservice"
	"cardmind-backend/infrastructure/config"

	"go.uber.org/zap"
)

// Container holds the fully constructed application graph.
type Container struct {
	Config     *config.Config
	Logger     *zap.Logger
	Capability ports.CapabilityService
	Cards      ports.CardRepository
	Sessions   *services.SessionManager
	Workflow   *workflow.Workflow

	closers []func() error
}

// NewContainer builds the whole graph from configuration. A state
// backend that cannot be reached downgrades to disabled persistence
// rather than failing startup.
func NewContainer(ctx context.Context) (*Container, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger, err := ProvideLogger(cfg)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}

	c := &Container{Config: cfg, Logger: logger}

	capability, err := ProvideCapabilityService(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("create capability service: %w", err)
	}
	c.Capability = capability

	c.Cards = cardservice.NewClient(cfg.CardServiceURL, cfg.RequestTimeout, capability, logger)

	store, closer := ProvideStateStore(ctx, cfg, logger)
	if closer != nil {
		c.closers = append(c.closers, closer)
	}
	if store != nil {
		c.Sessions = services.NewSessionManager(store, cfg.SessionTTL, cfg.HistoryTTL, logger)
	} else {
		c.Sessions = services.NewDisabledSessionManager(logger)
	}

	c.Workflow = workflow.New(capability, c.Cards, c.Sessions, logger)

	logger.Info("Container initialized",
		zap.String("environment", cfg.Environment),
		zap.String("stateBackend", cfg.StateBackend),
		zap.Bool("persistenceEnabled", c.Sessions.Enabled()),
	)
	return c, nil
}

// Close releases held resources in reverse construction order.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			c.Logger.Warn("Cleanup failed", zap.Error(err))
		}
	}
	_ = c.Logger.Sync()
}
