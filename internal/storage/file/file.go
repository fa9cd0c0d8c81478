package file

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/slok/taskmon/internal/conventions"
	"github.com/slok/taskmon/internal/log"
	"github.com/slok/taskmon/internal/model"
	storageio "github.com/slok/taskmon/internal/storage/io"
)

// RepositoryConfig is the configuration for the flat file repository.
type RepositoryConfig struct {
	WorkspaceDir string
	// Fixtures are used to bootstrap missing files, by default the embedded sample fixtures.
	Fixtures *model.Fixtures
	// DisableSeedOnRead makes reads fail with not found instead of bootstrapping missing files.
	DisableSeedOnRead bool
	Logger            log.Logger
}

func (c *RepositoryConfig) defaults() error {
	if c.WorkspaceDir == "" {
		return fmt.Errorf("workspace dir is required")
	}

	if c.Fixtures == nil {
		f := storageio.DefaultFixtures()
		c.Fixtures = &f
	}

	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "storage.File"})

	return nil
}

// Repository is a flat file implementation of storage.TaskRepository, storage.LogRepository
// and storage.Seeder.
//
// Nothing is cached, every call reads the files again.
type Repository struct {
	workspaceDir string
	fixtures     model.Fixtures
	seedOnRead   bool
	logger       log.Logger
}

// NewRepository creates a new flat file repository.
func NewRepository(cfg RepositoryConfig) (*Repository, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Repository{
		workspaceDir: cfg.WorkspaceDir,
		fixtures:     *cfg.Fixtures,
		seedOnRead:   !cfg.DisableSeedOnRead,
		logger:       cfg.Logger,
	}, nil
}

// ListTasks returns all the stored tasks in file order.
func (r *Repository) ListTasks(ctx context.Context) ([]model.Task, error) {
	path := conventions.TaskDataPath(r.workspaceDir)

	if r.seedOnRead {
		if err := r.seedTaskData(ctx); err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("task store %s missing: %w", path, model.ErrNotFound)
		}
		return nil, fmt.Errorf("could not read task store: %w", err)
	}

	tasks, err := storageio.DecodeTaskStore(data)
	if err != nil {
		return nil, fmt.Errorf("malformed task store %s: %w", path, err)
	}

	r.logger.Debugf("Loaded %d tasks from %s", len(tasks), path)
	return tasks, nil
}

// GetTask returns a stored task by ID.
func (r *Repository) GetTask(ctx context.Context, id string) (*model.Task, error) {
	tasks, err := r.ListTasks(ctx)
	if err != nil {
		return nil, err
	}

	for _, t := range tasks {
		if t.ID == id {
			return &t, nil
		}
	}

	return nil, fmt.Errorf("task %s: %w", id, model.ErrNotFound)
}

// GetTaskLog returns all the log lines of a task.
func (r *Repository) GetTaskLog(ctx context.Context, taskID string) (*model.TaskLog, error) {
	if err := conventions.ValidateTaskID(taskID); err != nil {
		return nil, err
	}

	path := conventions.TaskLogPath(r.workspaceDir, taskID)

	if r.seedOnRead {
		if err := os.MkdirAll(conventions.LogsPath(r.workspaceDir), 0755); err != nil {
			return nil, fmt.Errorf("could not create logs directory: %w", err)
		}
		if err := r.seedTaskLog(ctx, taskID); err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("log of task %s: %w", taskID, model.ErrNotFound)
		}
		return nil, fmt.Errorf("could not read log of task %s: %w", taskID, err)
	}

	tlog := model.NewTaskLog(taskID, string(data))
	return &tlog, nil
}

// Seed writes the task store and every sample log that is missing. Existing files are left untouched.
func (r *Repository) Seed(ctx context.Context) error {
	if err := r.seedTaskData(ctx); err != nil {
		return err
	}

	for id := range r.fixtures.Logs {
		if err := r.seedTaskLog(ctx, id); err != nil {
			return err
		}
	}

	return nil
}

func (r *Repository) seedTaskData(ctx context.Context) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	path := conventions.TaskDataPath(r.workspaceDir)
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	data, err := encodeTaskData(storageio.NewTaskData(r.fixtures.Tasks))
	if err != nil {
		return fmt.Errorf("could not encode sample tasks: %w", err)
	}

	created, err := createIfAbsent(path, data)
	if err != nil {
		return fmt.Errorf("could not bootstrap task store: %w", err)
	}
	if created {
		r.logger.Infof("Bootstrapped task store with %d sample tasks at %s", len(r.fixtures.Tasks), path)
	}

	return nil
}

func (r *Repository) seedTaskLog(ctx context.Context, taskID string) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	if err := conventions.ValidateTaskID(taskID); err != nil {
		return err
	}

	path := conventions.TaskLogPath(r.workspaceDir, taskID)
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	content, ok := r.fixtures.Logs[taskID]
	if !ok {
		return nil
	}

	created, err := createIfAbsent(path, []byte(content))
	if err != nil {
		return fmt.Errorf("could not bootstrap log of task %s: %w", taskID, err)
	}
	if created {
		r.logger.Infof("Bootstrapped sample log at %s", path)
	}

	return nil
}

func encodeTaskData(td storageio.TaskData) ([]byte, error) {
	var b bytes.Buffer
	enc := json.NewEncoder(&b)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(td); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(b.Bytes(), []byte("\n")), nil
}

// createIfAbsent writes the file only if it doesn't exist. The content is written to a
// temporary file that is hard linked into place, so readers never see partial content
// and concurrent creators don't overwrite each other. Returns false if the file already
// existed.
func createIfAbsent(path string, data []byte) (bool, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return false, fmt.Errorf("could not create directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return false, fmt.Errorf("could not create temporary file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return false, fmt.Errorf("could not write temporary file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return false, fmt.Errorf("could not close temporary file: %w", err)
	}

	if err := os.Link(tmp.Name(), path); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return false, nil
		}
		return false, fmt.Errorf("could not link file into place: %w", err)
	}

	return true, nil
}
