package tasklog

import (
	"context"
	"errors"
	"fmt"

	"github.com/slok/taskmon/internal/log"
	"github.com/slok/taskmon/internal/model"
	"github.com/slok/taskmon/internal/storage"
)

// DefaultLines is the number of trailing lines returned when not specified.
const DefaultLines = 100

// ServiceConfig is the configuration for the task log service.
type ServiceConfig struct {
	Repository storage.LogRepository
	Logger     log.Logger
}

func (c *ServiceConfig) defaults() error {
	if c.Repository == nil {
		return fmt.Errorf("repository is required")
	}

	if c.Logger == nil {
		c.Logger = log.Noop
	}

	return nil
}

// Service tails task logs.
type Service struct {
	repo   storage.LogRepository
	logger log.Logger
}

// NewService creates a new task log service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Service{
		repo:   cfg.Repository,
		logger: cfg.Logger,
	}, nil
}

// Request represents the task log request parameters.
type Request struct {
	TaskID string
	// Lines is the number of trailing lines to return, zero or negative returns all of them.
	Lines int
}

// Run returns the last lines of a task log in their original order.
func (s *Service) Run(ctx context.Context, req Request) (*model.TaskLog, error) {
	if req.TaskID == "" {
		return nil, fmt.Errorf("task id is required: %w", model.ErrNotValid)
	}

	s.logger.Debugf("reading last %d log lines of task: %s", req.Lines, req.TaskID)

	tlog, err := s.repo.GetTaskLog(ctx, req.TaskID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, fmt.Errorf("log not found for task: %s: %w", req.TaskID, model.ErrNotFound)
		}
		return nil, fmt.Errorf("could not read task log: %w", err)
	}

	lines := tlog.Lines
	if req.Lines > 0 && req.Lines < len(lines) {
		lines = lines[len(lines)-req.Lines:]
	}

	return &model.TaskLog{
		TaskID: tlog.TaskID,
		Lines:  lines,
	}, nil
}
