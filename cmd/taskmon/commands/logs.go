package commands

import (
	"context"
	"fmt"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/taskmon/internal/app/tasklog"
	"github.com/slok/taskmon/internal/printer"
)

type LogsCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	taskID string
	lines  int
	format string
}

// NewLogsCommand returns the logs command.
func NewLogsCommand(rootCmd *RootCommand, app *kingpin.Application) *LogsCommand {
	c := &LogsCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("logs", "Show the last lines of a task log.")
	c.Cmd.Arg("task-id", "Task ID.").Required().StringVar(&c.taskID)
	c.Cmd.Flag("lines", "Number of trailing lines to show, 0 shows all.").Short('n').Default(fmt.Sprint(tasklog.DefaultLines)).IntVar(&c.lines)
	c.Cmd.Flag("format", "Output format (table, json).").Default(formatTable).EnumVar(&c.format, formatTable, formatJSON)

	return c
}

func (c LogsCommand) Name() string { return c.Cmd.FullCommand() }

func (c LogsCommand) Run(ctx context.Context) error {
	repo, err := c.rootCmd.newRepository(nil)
	if err != nil {
		return err
	}

	svc, err := tasklog.NewService(tasklog.ServiceConfig{
		Repository: repo,
		Logger:     c.rootCmd.Logger,
	})
	if err != nil {
		return fmt.Errorf("could not create service: %w", err)
	}

	tlog, err := svc.Run(ctx, tasklog.Request{TaskID: c.taskID, Lines: c.lines})
	if err != nil {
		return fmt.Errorf("could not read task log: %w", err)
	}

	var p printer.Printer
	switch c.format {
	case formatJSON:
		p = printer.NewJSONPrinter(c.rootCmd.Stdout)
	default: // table
		p = printer.NewTablePrinter(c.rootCmd.Stdout)
	}

	if err := p.PrintTaskLog(*tlog); err != nil {
		return fmt.Errorf("could not print task log: %w", err)
	}

	return nil
}
