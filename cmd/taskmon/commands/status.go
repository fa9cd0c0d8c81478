package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/taskmon/internal/app/tasklist"
	"github.com/slok/taskmon/internal/app/taskstatus"
	"github.com/slok/taskmon/internal/model"
	"github.com/slok/taskmon/internal/printer"
)

type StatusCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	taskID       string
	statusFilter string
	format       string
}

// NewStatusCommand returns the status command.
func NewStatusCommand(rootCmd *RootCommand, app *kingpin.Application) *StatusCommand {
	c := &StatusCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("status", "Get the status of a batch task, or list tasks.")
	c.Cmd.Flag("task-id", "Task ID to get.").StringVar(&c.taskID)
	c.Cmd.Flag("status", "Filter by status (success, failed, running, pending).").StringVar(&c.statusFilter)
	c.Cmd.Flag("format", "Output format (table, json).").Default(formatTable).EnumVar(&c.format, formatTable, formatJSON)

	return c
}

func (c StatusCommand) Name() string { return c.Cmd.FullCommand() }

func (c StatusCommand) Run(ctx context.Context) error {
	logger := c.rootCmd.Logger

	repo, err := c.rootCmd.newRepository(nil)
	if err != nil {
		return err
	}

	var p printer.Printer
	switch c.format {
	case formatJSON:
		p = printer.NewJSONPrinter(c.rootCmd.Stdout)
	default: // table
		p = printer.NewTablePrinter(c.rootCmd.Stdout)
	}

	// Single task.
	if c.taskID != "" {
		svc, err := taskstatus.NewService(taskstatus.ServiceConfig{
			Repository: repo,
			Logger:     logger,
		})
		if err != nil {
			return fmt.Errorf("could not create service: %w", err)
		}

		task, err := svc.Run(ctx, taskstatus.Request{TaskID: c.taskID})
		if err != nil {
			if errors.Is(err, model.ErrNotFound) {
				return p.PrintTaskNotFound(c.taskID)
			}
			return fmt.Errorf("could not get task status: %w", err)
		}

		if err := p.PrintTask(*task); err != nil {
			return fmt.Errorf("could not print task: %w", err)
		}
		return nil
	}

	// Task list. Unknown statuses are not rejected, they just don't match any task.
	var statusFilter *model.TaskStatus
	if c.statusFilter != "" {
		status := model.TaskStatus(c.statusFilter)
		if !status.IsKnown() {
			logger.Warningf("Unknown status %q, no task will match", c.statusFilter)
		}
		statusFilter = &status
	}

	svc, err := tasklist.NewService(tasklist.ServiceConfig{
		Repository: repo,
		Logger:     logger,
	})
	if err != nil {
		return fmt.Errorf("could not create service: %w", err)
	}

	list, err := svc.Run(ctx, tasklist.Request{StatusFilter: statusFilter})
	if err != nil {
		return fmt.Errorf("could not list tasks: %w", err)
	}

	if err := p.PrintTaskList(*list, statusFilter); err != nil {
		return fmt.Errorf("could not print task list: %w", err)
	}

	return nil
}
