package lib

import (
	"context"
	"fmt"

	"github.com/slok/taskmon/internal/conventions"
	"github.com/slok/taskmon/internal/log"
	"github.com/slok/taskmon/internal/storage"
	"github.com/slok/taskmon/internal/storage/file"
	"github.com/slok/taskmon/internal/storage/memory"
	"github.com/slok/taskmon/internal/tool"
)

const (
	// ToolTaskMonitor is the name of the task status tool.
	ToolTaskMonitor = tool.TaskMonitorName
	// ToolTaskLogReader is the name of the task log tool.
	ToolTaskLogReader = tool.TaskLogReaderName
)

// Config configures the SDK client.
//
// All fields are optional. An empty Config{} uses the workspace from the
// COZE_WORKSPACE_PATH env var or /workspace/projects.
type Config struct {
	// WorkspaceDir is the workspace root holding assets/task_data.json and logs/.
	WorkspaceDir string

	// DisableSeedOnRead makes reads fail instead of bootstrapping the missing sample data.
	DisableSeedOnRead bool

	// InMemory serves the sample data from memory, the workspace is never touched.
	InMemory bool

	// Logger receives structured log output from the SDK.
	// Default: noop (silent). See the log sub-package for the interface.
	Logger log.Logger
}

func (c *Config) defaults() error {
	if c.WorkspaceDir == "" {
		c.WorkspaceDir = lookupWorkspaceDir()
	}
	c.WorkspaceDir = conventions.ExpandHome(c.WorkspaceDir)

	if c.Logger == nil {
		c.Logger = log.Noop
	}

	return nil
}

type repository interface {
	storage.TaskRepository
	storage.LogRepository
	storage.Seeder
}

// Client is the SDK entry point. A Client is safe for concurrent use.
type Client struct {
	repo     repository
	registry *tool.Registry
	logger   log.Logger
}

// ToolSchema is the metadata of a tool for agent frameworks.
type ToolSchema struct {
	Name        string
	Description string
	// Parameters is a JSON schema object of the tool arguments.
	Parameters map[string]any
}

// TaskMonitorOpts are the optional task_monitor filters. TaskID takes precedence over Status.
type TaskMonitorOpts struct {
	TaskID string
	Status string
}

// New creates a new SDK client.
func New(cfg Config) (*Client, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	var repo repository
	if cfg.InMemory {
		r, err := memory.NewRepository(memory.RepositoryConfig{Logger: cfg.Logger})
		if err != nil {
			return nil, fmt.Errorf("could not create repository: %w", err)
		}
		repo = r
	} else {
		r, err := file.NewRepository(file.RepositoryConfig{
			WorkspaceDir:      cfg.WorkspaceDir,
			DisableSeedOnRead: cfg.DisableSeedOnRead,
			Logger:            cfg.Logger,
		})
		if err != nil {
			return nil, fmt.Errorf("could not create repository: %w", err)
		}
		repo = r
	}

	registry := tool.NewRegistry(cfg.Logger)
	err := tool.RegisterTaskTools(registry, tool.TaskToolsConfig{
		TaskRepository: repo,
		LogRepository:  repo,
		Logger:         cfg.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not register tools: %w", err)
	}

	return &Client{
		repo:     repo,
		registry: registry,
		logger:   cfg.Logger,
	}, nil
}

// TaskMonitor runs the task_monitor tool.
//
// Unknown task IDs are reported in the result with success false. Errors are
// only returned when the task store can't be read or is malformed.
func (c *Client) TaskMonitor(ctx context.Context, opts TaskMonitorOpts) (string, error) {
	args := map[string]any{}
	if opts.TaskID != "" {
		args["task_id"] = opts.TaskID
	}
	if opts.Status != "" {
		args["status"] = opts.Status
	}

	return c.CallTool(ctx, ToolTaskMonitor, args)
}

// TaskLogReader runs the task_log_reader tool. A nil lines reads the default 100 lines.
//
// Missing logs and read failures are reported in the result with success false.
func (c *Client) TaskLogReader(ctx context.Context, taskID string, lines *int) (string, error) {
	args := map[string]any{"task_id": taskID}
	if lines != nil {
		args["lines"] = *lines
	}

	return c.CallTool(ctx, ToolTaskLogReader, args)
}

// CallTool executes a tool by name, args are usually the decoded JSON arguments of the agent tool call.
func (c *Client) CallTool(ctx context.Context, name string, args map[string]any) (string, error) {
	res := c.registry.Execute(ctx, name, args)
	if !res.Success {
		return "", fmt.Errorf("tool %s: %s", name, res.Error)
	}

	return res.Output, nil
}

// Tools returns the schemas of the available tools sorted by name.
func (c *Client) Tools() []ToolSchema {
	schemas := c.registry.Schemas()

	out := make([]ToolSchema, 0, len(schemas))
	for _, s := range schemas {
		out = append(out, ToolSchema{
			Name:        s.Name,
			Description: s.Description,
			Parameters:  s.Parameters,
		})
	}

	return out
}

// Seed writes the sample data that is missing. Existing data is never overwritten.
func (c *Client) Seed(ctx context.Context) error {
	if err := c.repo.Seed(ctx); err != nil {
		return fmt.Errorf("could not seed: %w", err)
	}
	return nil
}
