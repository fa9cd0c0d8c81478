package tasklist

import (
	"context"
	"fmt"

	"github.com/slok/taskmon/internal/log"
	"github.com/slok/taskmon/internal/model"
	"github.com/slok/taskmon/internal/storage"
)

// ServiceConfig is the configuration for the task list service.
type ServiceConfig struct {
	Repository storage.TaskRepository
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

// Service lists tasks with optional filtering.
type Service struct {
	repo   storage.TaskRepository
	logger log.Logger
}

// NewService creates a new task list service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Service{
		repo:   cfg.Repository,
		logger: cfg.Logger,
	}, nil
}

// Request represents the task list request parameters.
type Request struct {
	// StatusFilter is an optional filter to only return tasks with this exact status.
	// Statuses that no task has return an empty list.
	StatusFilter *model.TaskStatus
}

// Run lists all tasks in store order, optionally filtered by status, with the per status
// summary of the returned tasks.
func (s *Service) Run(ctx context.Context, req Request) (*model.TaskList, error) {
	s.logger.Debugf("listing tasks with filter: %v", req.StatusFilter)

	tasks, err := s.repo.ListTasks(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not list tasks: %w", err)
	}

	if req.StatusFilter != nil {
		filtered := make([]model.Task, 0, len(tasks))
		for _, t := range tasks {
			if t.Status == *req.StatusFilter {
				filtered = append(filtered, t)
			}
		}
		tasks = filtered
	}

	s.logger.Debugf("found %d tasks", len(tasks))

	return &model.TaskList{
		Tasks:   tasks,
		Summary: model.NewTaskSummary(tasks),
	}, nil
}
