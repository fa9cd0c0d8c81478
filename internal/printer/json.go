package printer

import (
	"encoding/json"
	"io"
	"strings"

	"github.com/slok/taskmon/internal/model"
	storageio "github.com/slok/taskmon/internal/storage/io"
)

// JSONPrinter prints task information as JSON result envelopes, the same ones
// returned by the agent tools.
type JSONPrinter struct {
	writer io.Writer
}

// NewJSONPrinter creates a new JSON printer.
func NewJSONPrinter(w io.Writer) *JSONPrinter {
	return &JSONPrinter{writer: w}
}

// taskOutput represents a single task result.
type taskOutput struct {
	Success bool   `json:"success"`
	Task    any    `json:"task"`
	Message string `json:"message"`
}

// taskListOutput represents a task list result, summary is only set on unfiltered lists.
type taskListOutput struct {
	Success bool           `json:"success"`
	Tasks   []any          `json:"tasks"`
	Count   int            `json:"count"`
	Summary *summaryOutput `json:"summary,omitempty"`
	Message string         `json:"message"`
}

type summaryOutput struct {
	Total   int `json:"total"`
	Success int `json:"success"`
	Failed  int `json:"failed"`
	Running int `json:"running"`
	Pending int `json:"pending"`
}

// taskLogOutput represents a task log result.
type taskLogOutput struct {
	Success    bool   `json:"success"`
	TaskID     string `json:"task_id"`
	LogLines   int    `json:"log_lines"`
	LogContent string `json:"log_content"`
	Message    string `json:"message"`
}

// resultOutput represents a result without payload.
type resultOutput struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// PrintTask prints a found task.
func (j *JSONPrinter) PrintTask(task model.Task) error {
	return j.encode(taskOutput{
		Success: true,
		Task:    taskJSON(task),
		Message: taskFoundMessage(task.ID),
	})
}

// PrintTaskNotFound prints the not found result of a task lookup.
func (j *JSONPrinter) PrintTaskNotFound(taskID string) error {
	return j.encode(resultOutput{
		Success: false,
		Message: taskNotFoundMessage(taskID),
	})
}

// PrintTaskList prints tasks in store order.
func (j *JSONPrinter) PrintTaskList(list model.TaskList, filter *model.TaskStatus) error {
	output := taskListOutput{
		Success: true,
		Tasks:   tasksJSON(list.Tasks),
		Count:   len(list.Tasks),
		Message: taskListMessage(len(list.Tasks), filter),
	}

	if filter == nil {
		output.Summary = &summaryOutput{
			Total:   list.Summary.Total,
			Success: list.Summary.Success,
			Failed:  list.Summary.Failed,
			Running: list.Summary.Running,
			Pending: list.Summary.Pending,
		}
	}

	return j.encode(output)
}

// PrintTaskLog prints the log lines joined as a single text.
func (j *JSONPrinter) PrintTaskLog(tlog model.TaskLog) error {
	return j.encode(taskLogOutput{
		Success:    true,
		TaskID:     tlog.TaskID,
		LogLines:   len(tlog.Lines),
		LogContent: strings.Join(tlog.Lines, ""),
		Message:    taskLogMessage(tlog.TaskID, len(tlog.Lines)),
	})
}

// PrintFailure prints a failed result.
func (j *JSONPrinter) PrintFailure(msg string) error {
	return j.encode(resultOutput{Success: false, Message: msg})
}

// PrintMessage prints a successful result with a message.
func (j *JSONPrinter) PrintMessage(msg string) error {
	return j.encode(resultOutput{Success: true, Message: msg})
}

// taskJSON returns the task as stored when it comes from a task store.
func taskJSON(t model.Task) any {
	if len(t.Raw) > 0 {
		return json.RawMessage(t.Raw)
	}
	return storageio.NewTaskRecord(t)
}

func tasksJSON(tasks []model.Task) []any {
	out := make([]any, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, taskJSON(t))
	}
	return out
}

func (j *JSONPrinter) encode(v any) error {
	enc := json.NewEncoder(j.writer)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
