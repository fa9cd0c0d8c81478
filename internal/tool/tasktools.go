package tool

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/slok/taskmon/internal/app/tasklist"
	"github.com/slok/taskmon/internal/app/tasklog"
	"github.com/slok/taskmon/internal/app/taskstatus"
	"github.com/slok/taskmon/internal/log"
	"github.com/slok/taskmon/internal/model"
	"github.com/slok/taskmon/internal/printer"
	"github.com/slok/taskmon/internal/storage"
)

const (
	// TaskMonitorName is the name of the task status tool.
	TaskMonitorName = "task_monitor"
	// TaskLogReaderName is the name of the task log tool.
	TaskLogReaderName = "task_log_reader"
)

// TaskToolsConfig is the configuration of the task tools.
type TaskToolsConfig struct {
	TaskRepository storage.TaskRepository
	LogRepository  storage.LogRepository
	Logger         log.Logger
}

func (c *TaskToolsConfig) defaults() error {
	if c.TaskRepository == nil {
		return fmt.Errorf("task repository is required")
	}

	if c.LogRepository == nil {
		return fmt.Errorf("log repository is required")
	}

	if c.Logger == nil {
		c.Logger = log.Noop
	}

	return nil
}

type taskTools struct {
	status *taskstatus.Service
	list   *tasklist.Service
	log    *tasklog.Service
	logger log.Logger
}

// RegisterTaskTools registers the task monitor and task log reader tools.
func RegisterTaskTools(r *Registry, cfg TaskToolsConfig) error {
	if err := cfg.defaults(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	statusSvc, err := taskstatus.NewService(taskstatus.ServiceConfig{Repository: cfg.TaskRepository, Logger: cfg.Logger})
	if err != nil {
		return fmt.Errorf("could not create task status service: %w", err)
	}

	listSvc, err := tasklist.NewService(tasklist.ServiceConfig{Repository: cfg.TaskRepository, Logger: cfg.Logger})
	if err != nil {
		return fmt.Errorf("could not create task list service: %w", err)
	}

	logSvc, err := tasklog.NewService(tasklog.ServiceConfig{Repository: cfg.LogRepository, Logger: cfg.Logger})
	if err != nil {
		return fmt.Errorf("could not create task log service: %w", err)
	}

	t := taskTools{status: statusSvc, list: listSvc, log: logSvc, logger: cfg.Logger}

	if err := r.Register(taskMonitorSchema, t.taskMonitor); err != nil {
		return err
	}
	if err := r.Register(taskLogReaderSchema, t.taskLogReader); err != nil {
		return err
	}

	return nil
}

var taskMonitorSchema = Schema{
	Name: TaskMonitorName,
	Description: "Query the running status and information of batch tasks. " +
		"Returns a single task by ID, the tasks with a status, or all tasks with a per status summary.",
	Parameters: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"task_id": map[string]any{
				"type":        "string",
				"description": "Optional task ID to query a single task.",
			},
			"status": map[string]any{
				"type":        "string",
				"description": "Optional status to filter tasks by.",
				"enum":        []string{"success", "failed", "running", "pending"},
			},
		},
	},
}

var taskLogReaderSchema = Schema{
	Name:        TaskLogReaderName,
	Description: "Read the last lines of the execution log of a task.",
	Parameters: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"task_id": map[string]any{
				"type":        "string",
				"description": "Task ID.",
			},
			"lines": map[string]any{
				"type":        "integer",
				"description": "Number of trailing log lines to read.",
				"default":     tasklog.DefaultLines,
			},
		},
		"required": []string{"task_id"},
	},
}

func (t taskTools) taskMonitor(ctx context.Context, args map[string]any) (string, error) {
	taskID, err := stringArg(args, "task_id")
	if err != nil {
		return "", err
	}
	status, err := stringArg(args, "status")
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	p := printer.NewJSONPrinter(&buf)

	switch {
	case taskID != "":
		task, err := t.status.Run(ctx, taskstatus.Request{TaskID: taskID})
		if err != nil {
			if !errors.Is(err, model.ErrNotFound) {
				return "", err
			}
			err = p.PrintTaskNotFound(taskID)
		} else {
			err = p.PrintTask(*task)
		}
		if err != nil {
			return "", err
		}

	default:
		var filter *model.TaskStatus
		if status != "" {
			s := model.TaskStatus(status)
			filter = &s
		}

		list, err := t.list.Run(ctx, tasklist.Request{StatusFilter: filter})
		if err != nil {
			return "", err
		}
		if err := p.PrintTaskList(*list, filter); err != nil {
			return "", err
		}
	}

	return strings.TrimSuffix(buf.String(), "\n"), nil
}

func (t taskTools) taskLogReader(ctx context.Context, args map[string]any) (string, error) {
	var buf bytes.Buffer
	p := printer.NewJSONPrinter(&buf)

	err := t.readLog(ctx, args, p)
	if err != nil {
		t.logger.Warningf("Could not read task log: %s", err)
		if err := p.PrintFailure(failureMessage(err)); err != nil {
			return "", err
		}
	}

	return strings.TrimSuffix(buf.String(), "\n"), nil
}

func (t taskTools) readLog(ctx context.Context, args map[string]any, p printer.Printer) error {
	taskID, err := stringArg(args, "task_id")
	if err != nil {
		return err
	}
	lines, err := intArg(args, "lines", tasklog.DefaultLines)
	if err != nil {
		return err
	}

	tlog, err := t.log.Run(ctx, tasklog.Request{TaskID: taskID, Lines: lines})
	if err != nil {
		return err
	}

	return p.PrintTaskLog(*tlog)
}

func failureMessage(err error) string {
	switch {
	case errors.Is(err, model.ErrNotFound):
		return fmt.Sprintf("Log file not found: %s", err)
	default:
		return fmt.Sprintf("Failed to read log: %s", err)
	}
}
