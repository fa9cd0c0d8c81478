package printer

import (
	"fmt"

	"github.com/slok/taskmon/internal/model"
)

func taskFoundMessage(taskID string) string {
	return fmt.Sprintf("Retrieved information of task %s", taskID)
}

func taskNotFoundMessage(taskID string) string {
	return fmt.Sprintf("No task found with ID %s", taskID)
}

func taskListMessage(count int, filter *model.TaskStatus) string {
	if filter != nil {
		return fmt.Sprintf("Found %d tasks with status %s", count, *filter)
	}
	return fmt.Sprintf("There are %d batch tasks in total", count)
}

func taskLogMessage(taskID string, lines int) string {
	return fmt.Sprintf("Read log of task %s, %d lines", taskID, lines)
}
