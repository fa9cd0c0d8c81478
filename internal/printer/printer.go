package printer

import "github.com/slok/taskmon/internal/model"

// Printer knows how to print task information in different formats.
type Printer interface {
	PrintTask(task model.Task) error
	PrintTaskNotFound(taskID string) error
	// PrintTaskList prints the tasks, the filter is nil when the list is not filtered.
	PrintTaskList(list model.TaskList, filter *model.TaskStatus) error
	PrintTaskLog(tlog model.TaskLog) error
	PrintFailure(msg string) error
	PrintMessage(msg string) error
}
