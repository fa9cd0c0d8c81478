package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/slok/taskmon/internal/log"
	"github.com/slok/taskmon/internal/model"
	storageio "github.com/slok/taskmon/internal/storage/io"
)

// RepositoryConfig is the configuration for the memory repository.
type RepositoryConfig struct {
	// Fixtures are the initial data, by default the embedded sample fixtures.
	Fixtures *model.Fixtures
	Logger   log.Logger
}

func (c *RepositoryConfig) defaults() error {
	if c.Fixtures == nil {
		f := storageio.DefaultFixtures()
		c.Fixtures = &f
	}

	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "storage.Memory"})
	return nil
}

// Repository is an in-memory implementation of storage.TaskRepository,
// storage.LogRepository and storage.Seeder.
type Repository struct {
	tasks  []model.Task
	logs   map[string]string
	mu     sync.RWMutex
	logger log.Logger
}

// NewRepository creates a new memory repository.
func NewRepository(cfg RepositoryConfig) (*Repository, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	logs := make(map[string]string, len(cfg.Fixtures.Logs))
	for k, v := range cfg.Fixtures.Logs {
		logs[k] = v
	}

	return &Repository{
		tasks:  append([]model.Task{}, cfg.Fixtures.Tasks...),
		logs:   logs,
		logger: cfg.Logger,
	}, nil
}

// ListTasks returns all tasks in insertion order.
func (r *Repository) ListTasks(ctx context.Context) ([]model.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]model.Task{}, r.tasks...), nil
}

// GetTask retrieves a task by ID.
func (r *Repository) GetTask(ctx context.Context, id string) (*model.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, t := range r.tasks {
		if t.ID == id {
			// Return a copy
			taskCopy := t
			return &taskCopy, nil
		}
	}

	return nil, fmt.Errorf("task %s: %w", id, model.ErrNotFound)
}

// GetTaskLog returns the log lines of a task.
func (r *Repository) GetTaskLog(ctx context.Context, taskID string) (*model.TaskLog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	content, ok := r.logs[taskID]
	if !ok {
		return nil, fmt.Errorf("log of task %s: %w", taskID, model.ErrNotFound)
	}

	tlog := model.NewTaskLog(taskID, content)
	return &tlog, nil
}

// Seed is a no-op, the repository is seeded on creation.
func (r *Repository) Seed(ctx context.Context) error {
	r.logger.Debugf("Memory repository already seeded")
	return nil
}

// AddTask appends a task, replacing an existing one with the same ID.
func (r *Repository) AddTask(t model.Task) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, existing := range r.tasks {
		if existing.ID == t.ID {
			r.tasks[i] = t
			return
		}
	}
	r.tasks = append(r.tasks, t)
}

// SetTaskLog sets the raw log content of a task.
func (r *Repository) SetTaskLog(taskID, content string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.logs[taskID] = content
}
