package model

import (
	"fmt"
	"strings"
	"time"
)

// TaskStatus represents the lifecycle stage of a batch task.
type TaskStatus string

const (
	TaskStatusPending TaskStatus = "pending"
	TaskStatusRunning TaskStatus = "running"
	TaskStatusSuccess TaskStatus = "success"
	TaskStatusFailed  TaskStatus = "failed"
)

// TaskStatuses are all the known statuses in summary order.
var TaskStatuses = []TaskStatus{
	TaskStatusSuccess,
	TaskStatusFailed,
	TaskStatusRunning,
	TaskStatusPending,
}

// IsKnown returns true if the status is one of the known task statuses.
func (s TaskStatus) IsKnown() bool {
	switch s {
	case TaskStatusPending, TaskStatusRunning, TaskStatusSuccess, TaskStatusFailed:
		return true
	}
	return false
}

// IsTerminal returns true for statuses that have finished.
func (s TaskStatus) IsTerminal() bool {
	return s == TaskStatusSuccess || s == TaskStatusFailed
}

// Task describes a single batch execution attempt and its outcome metadata.
type Task struct {
	ID        string
	Name      string
	Status    TaskStatus
	StartedAt *time.Time
	EndedAt   *time.Time
	Duration  *time.Duration
	DataCount *int64
	// LogPath is relative to the workspace.
	LogPath  string
	ErrorMsg *string
	// Raw is the JSON object of the task as stored, unknown keys included.
	// Empty when the task doesn't come from a task store.
	Raw []byte
}

// Validate checks the task fields are coherent with its status.
func (t Task) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("task id is required: %w", ErrNotValid)
	}

	if !t.Status.IsKnown() {
		return fmt.Errorf("task %s: unknown status %q: %w", t.ID, t.Status, ErrNotValid)
	}

	switch {
	case t.Status == TaskStatusPending:
		if t.StartedAt != nil || t.EndedAt != nil || t.Duration != nil || t.DataCount != nil {
			return fmt.Errorf("task %s: pending task can't have time, duration or count fields: %w", t.ID, ErrNotValid)
		}
	case t.Status == TaskStatusRunning:
		if t.StartedAt == nil {
			return fmt.Errorf("task %s: running task requires start time: %w", t.ID, ErrNotValid)
		}
		if t.EndedAt != nil || t.Duration != nil {
			return fmt.Errorf("task %s: running task can't have end time or duration: %w", t.ID, ErrNotValid)
		}
	case t.Status.IsTerminal():
		if t.StartedAt == nil || t.EndedAt == nil || t.Duration == nil || t.DataCount == nil {
			return fmt.Errorf("task %s: finished task requires time, duration and count fields: %w", t.ID, ErrNotValid)
		}
		if t.EndedAt.Before(*t.StartedAt) {
			return fmt.Errorf("task %s: end time before start time: %w", t.ID, ErrNotValid)
		}
	}

	if t.ErrorMsg != nil && t.Status != TaskStatusFailed {
		return fmt.Errorf("task %s: only failed tasks can have an error message: %w", t.ID, ErrNotValid)
	}

	return nil
}

// TaskSummary counts tasks per status.
type TaskSummary struct {
	Total   int
	Success int
	Failed  int
	Running int
	Pending int
}

// NewTaskSummary returns the per status counts of the tasks.
func NewTaskSummary(tasks []Task) TaskSummary {
	s := TaskSummary{Total: len(tasks)}
	for _, t := range tasks {
		switch t.Status {
		case TaskStatusSuccess:
			s.Success++
		case TaskStatusFailed:
			s.Failed++
		case TaskStatusRunning:
			s.Running++
		case TaskStatusPending:
			s.Pending++
		}
	}
	return s
}

// TaskList is an ordered list of tasks with its summary.
type TaskList struct {
	Tasks   []Task
	Summary TaskSummary
}

// TaskLog holds log lines of a task, every line keeps its line terminator.
type TaskLog struct {
	TaskID string
	Lines  []string
}

// NewTaskLog splits the log content in lines keeping the terminators,
// a trailing line without terminator is kept.
func NewTaskLog(taskID, content string) TaskLog {
	lines := []string{}
	if content != "" {
		lines = strings.SplitAfter(content, "\n")
		if lines[len(lines)-1] == "" {
			lines = lines[:len(lines)-1]
		}
	}

	return TaskLog{TaskID: taskID, Lines: lines}
}

// Fixtures is the sample data used to bootstrap an empty workspace.
type Fixtures struct {
	Tasks []Task
	// Logs are the sample log transcripts indexed by task ID.
	Logs map[string]string
}

// Validate checks the fixture tasks and that every log belongs to a task.
func (f Fixtures) Validate() error {
	ids := make(map[string]struct{}, len(f.Tasks))
	for _, t := range f.Tasks {
		if err := t.Validate(); err != nil {
			return err
		}
		if _, ok := ids[t.ID]; ok {
			return fmt.Errorf("task %s: duplicated: %w", t.ID, ErrNotValid)
		}
		ids[t.ID] = struct{}{}
	}

	for id := range f.Logs {
		if _, ok := ids[id]; !ok {
			return fmt.Errorf("log %s: task missing: %w", id, ErrNotValid)
		}
	}

	return nil
}
