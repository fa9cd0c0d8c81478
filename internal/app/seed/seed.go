package seed

import (
	"context"
	"fmt"

	"github.com/slok/taskmon/internal/log"
	"github.com/slok/taskmon/internal/storage"
)

// ServiceConfig is the configuration for the seed service.
type ServiceConfig struct {
	Seeder storage.Seeder
	Logger log.Logger
}

func (c *ServiceConfig) defaults() error {
	if c.Seeder == nil {
		return fmt.Errorf("seeder is required")
	}

	if c.Logger == nil {
		c.Logger = log.Noop
	}

	return nil
}

// Service generates the workspace sample data explicitly, so reads don't need to.
type Service struct {
	seeder storage.Seeder
	logger log.Logger
}

// NewService creates a new seed service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Service{
		seeder: cfg.Seeder,
		logger: cfg.Logger,
	}, nil
}

// Run seeds the missing sample data. Existing data is never overwritten.
func (s *Service) Run(ctx context.Context) error {
	s.logger.Debugf("seeding sample data")

	if err := s.seeder.Seed(ctx); err != nil {
		return fmt.Errorf("could not seed sample data: %w", err)
	}

	s.logger.Infof("Sample data seeded")
	return nil
}
