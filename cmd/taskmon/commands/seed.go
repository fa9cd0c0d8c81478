package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/taskmon/internal/app/seed"
	"github.com/slok/taskmon/internal/model"
	"github.com/slok/taskmon/internal/printer"
	storageio "github.com/slok/taskmon/internal/storage/io"
)

type SeedCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	fixturesPath string
	format       string
}

// NewSeedCommand returns the seed command.
func NewSeedCommand(rootCmd *RootCommand, app *kingpin.Application) *SeedCommand {
	c := &SeedCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("seed", "Write the sample task store and logs that are missing in the workspace.")
	c.Cmd.Flag("fixtures", "YAML file with the fixtures to use instead of the embedded samples.").StringVar(&c.fixturesPath)
	c.Cmd.Flag("format", "Output format (table, json).").Default(formatTable).EnumVar(&c.format, formatTable, formatJSON)

	return c
}

func (c SeedCommand) Name() string { return c.Cmd.FullCommand() }

func (c SeedCommand) Run(ctx context.Context) error {
	logger := c.rootCmd.Logger

	var fixtures *model.Fixtures
	if c.fixturesPath != "" {
		absPath, err := filepath.Abs(c.fixturesPath)
		if err != nil {
			return fmt.Errorf("could not resolve fixtures path: %w", err)
		}

		repo := storageio.NewFixturesYAMLRepository(os.DirFS(filepath.Dir(absPath)))
		f, err := repo.GetFixtures(ctx, filepath.Base(absPath))
		if err != nil {
			return fmt.Errorf("could not load fixtures: %w", err)
		}
		fixtures = &f
		logger.Infof("Loaded %d fixture tasks from %s", len(f.Tasks), absPath)
	}

	repo, err := c.rootCmd.newRepository(fixtures)
	if err != nil {
		return err
	}

	svc, err := seed.NewService(seed.ServiceConfig{
		Seeder: repo,
		Logger: logger,
	})
	if err != nil {
		return fmt.Errorf("could not create service: %w", err)
	}

	if err := svc.Run(ctx); err != nil {
		return err
	}

	var p printer.Printer
	switch c.format {
	case formatJSON:
		p = printer.NewJSONPrinter(c.rootCmd.Stdout)
	default:
		p = printer.NewTablePrinter(c.rootCmd.Stdout)
	}

	msg := fmt.Sprintf("Seeded workspace %s", c.rootCmd.WorkspaceDir)
	if c.rootCmd.InMemory {
		msg = "In-memory data is always seeded"
	}
	if err := p.PrintMessage(msg); err != nil {
		return fmt.Errorf("could not print result: %w", err)
	}

	return nil
}
