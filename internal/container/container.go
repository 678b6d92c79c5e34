package container

import (
	"fmt"

	config "github.com/inference-gateway/pasteboard/config"
	backend "github.com/inference-gateway/pasteboard/internal/infra/backend"
	logger "github.com/inference-gateway/pasteboard/internal/logger"
	pasteboard "github.com/inference-gateway/pasteboard/internal/pasteboard"
)

// ServiceContainer manages all application dependencies
type ServiceContainer struct {
	config *config.Config

	store   backend.Store
	general *pasteboard.Pasteboard
}

// NewServiceContainer opens the configured backend and the general pasteboard
func NewServiceContainer(cfg *config.Config) (*ServiceContainer, error) {
	store, err := backend.NewStore(cfg.Backend)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s backend: %w", cfg.Backend.Type, err)
	}

	general, err := pasteboard.CreateForCopyAndPaste(store.Backend)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	logger.Debug("Service container ready", "backend", cfg.Backend.Type)

	return &ServiceContainer{
		config:  cfg,
		store:   store,
		general: general,
	}, nil
}

// Config returns the loaded configuration
func (c *ServiceContainer) Config() *config.Config {
	return c.config
}

// Store returns the backend store
func (c *ServiceContainer) Store() backend.Store {
	return c.store
}

// GeneralPasteboard returns the copy and paste pasteboard
func (c *ServiceContainer) GeneralPasteboard() *pasteboard.Pasteboard {
	return c.general
}

// Pasteboard opens a pasteboard by name
func (c *ServiceContainer) Pasteboard(name string) (*pasteboard.Pasteboard, error) {
	if name == "" || name == pasteboard.GeneralName {
		return c.general, nil
	}
	b, err := c.store.Backend(name)
	if err != nil {
		return nil, fmt.Errorf("failed to open pasteboard %s: %w", name, err)
	}
	return pasteboard.New(b), nil
}

// NewDragPasteboard opens a fresh pasteboard for a drag session
func (c *ServiceContainer) NewDragPasteboard() (*pasteboard.Pasteboard, error) {
	return pasteboard.CreateForDragAndDrop(c.store.Backend)
}

// Close releases the backend store
func (c *ServiceContainer) Close() error {
	return c.store.Close()
}
