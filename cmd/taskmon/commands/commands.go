package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/taskmon/internal/conventions"
	"github.com/slok/taskmon/internal/log"
	"github.com/slok/taskmon/internal/model"
	"github.com/slok/taskmon/internal/storage"
	"github.com/slok/taskmon/internal/storage/file"
	"github.com/slok/taskmon/internal/storage/memory"
)

const (
	// LoggerTypeDefault is the logger default type.
	LoggerTypeDefault = "default"
	// LoggerTypeJSON is the logger json type.
	LoggerTypeJSON = "json"

	formatTable = "table"
	formatJSON  = "json"
)

// Command represents an application command, all commands that want to be executed
// should implement and setup on main.
type Command interface {
	Name() string
	Run(ctx context.Context) error
}

// RootCommand represents the root command configuration and global configuration
// for all the commands.
type RootCommand struct {
	// Global flags.
	Debug        bool
	NoLog        bool
	NoColor      bool
	LoggerType   string
	WorkspaceDir string
	NoSeed       bool
	InMemory     bool

	// Global instances.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Logger log.Logger
}

// NewRootCommand initializes the main root configuration.
func NewRootCommand(app *kingpin.Application) *RootCommand {
	c := &RootCommand{}

	app.Flag("debug", "Enable debug mode.").BoolVar(&c.Debug)
	app.Flag("no-log", "Disable logger.").BoolVar(&c.NoLog)
	app.Flag("no-color", "Disable logger color.").BoolVar(&c.NoColor)
	app.Flag("logger", "Selects the logger type.").Default(LoggerTypeDefault).EnumVar(&c.LoggerType, LoggerTypeDefault, LoggerTypeJSON)
	app.Flag("workspace", "Workspace root holding the task store and logs.").Envar(conventions.WorkspaceEnvVar).Default(conventions.DefaultWorkspaceDir).StringVar(&c.WorkspaceDir)
	app.Flag("no-seed", "Don't bootstrap sample data when the task store or a sample log is missing.").Envar("TASKMON_NO_SEED").BoolVar(&c.NoSeed)
	app.Flag("in-memory", "Serve the sample data from memory without touching the workspace.").BoolVar(&c.InMemory)

	return c
}

// repository is the storage used by the commands.
type repository interface {
	storage.TaskRepository
	storage.LogRepository
	storage.Seeder
}

// newRepository returns the storage selected by the global flags, fixtures are optional.
func (c RootCommand) newRepository(fixtures *model.Fixtures) (repository, error) {
	if c.InMemory {
		repo, err := memory.NewRepository(memory.RepositoryConfig{
			Fixtures: fixtures,
			Logger:   c.Logger,
		})
		if err != nil {
			return nil, fmt.Errorf("could not create memory repository: %w", err)
		}
		return repo, nil
	}

	repo, err := file.NewRepository(file.RepositoryConfig{
		WorkspaceDir:      conventions.ExpandHome(c.WorkspaceDir),
		Fixtures:          fixtures,
		DisableSeedOnRead: c.NoSeed,
		Logger:            c.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create file repository: %w", err)
	}
	return repo, nil
}
