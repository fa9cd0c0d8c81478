package printer

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/slok/taskmon/internal/model"
)

// TablePrinter prints task information in a human readable format.
type TablePrinter struct {
	writer io.Writer
}

// NewTablePrinter creates a new table printer.
func NewTablePrinter(w io.Writer) *TablePrinter {
	return &TablePrinter{writer: w}
}

// PrintTask prints detailed task status.
func (t *TablePrinter) PrintTask(task model.Task) error {
	fmt.Fprintf(t.writer, "ID:         %s\n", task.ID)
	fmt.Fprintf(t.writer, "Name:       %s\n", task.Name)
	fmt.Fprintf(t.writer, "Status:     %s\n", task.Status)

	if task.StartedAt != nil {
		fmt.Fprintf(t.writer, "Started:    %s\n", FormatTimestamp(task.StartedAt))
	}
	if task.EndedAt != nil {
		fmt.Fprintf(t.writer, "Ended:      %s\n", FormatTimestamp(task.EndedAt))
	}
	if task.Duration != nil {
		fmt.Fprintf(t.writer, "Duration:   %s\n", FormatDuration(task.Duration))
	}
	if task.DataCount != nil {
		fmt.Fprintf(t.writer, "Records:    %s\n", FormatCount(task.DataCount))
	}

	fmt.Fprintf(t.writer, "Log:        %s\n", task.LogPath)

	if task.ErrorMsg != nil {
		fmt.Fprintf(t.writer, "Error:      %s\n", *task.ErrorMsg)
	}

	return nil
}

// PrintTaskNotFound prints the not found result of a task lookup.
func (t *TablePrinter) PrintTaskNotFound(taskID string) error {
	_, err := fmt.Fprintln(t.writer, taskNotFoundMessage(taskID))
	return err
}

// PrintTaskList prints tasks in a table format.
func (t *TablePrinter) PrintTaskList(list model.TaskList, filter *model.TaskStatus) error {
	if len(list.Tasks) > 0 {
		tw := tabwriter.NewWriter(t.writer, 0, 0, 2, ' ', 0)

		// Print header
		fmt.Fprintln(tw, "ID\tNAME\tSTATUS\tSTARTED\tDURATION\tRECORDS")

		// Print rows
		for _, task := range list.Tasks {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
				task.ID,
				task.Name,
				task.Status,
				FormatTimestamp(task.StartedAt),
				FormatDuration(task.Duration),
				FormatCount(task.DataCount),
			)
		}

		if err := tw.Flush(); err != nil {
			return err
		}
	}

	if filter != nil {
		_, err := fmt.Fprintln(t.writer, taskListMessage(len(list.Tasks), filter))
		return err
	}

	s := list.Summary
	_, err := fmt.Fprintf(t.writer, "Total: %d (success: %d, failed: %d, running: %d, pending: %d)\n",
		s.Total, s.Success, s.Failed, s.Running, s.Pending)
	return err
}

// PrintTaskLog prints the raw log lines.
func (t *TablePrinter) PrintTaskLog(tlog model.TaskLog) error {
	for _, l := range tlog.Lines {
		if _, err := io.WriteString(t.writer, l); err != nil {
			return err
		}
	}
	return nil
}

// PrintFailure prints a failure message.
func (t *TablePrinter) PrintFailure(msg string) error {
	_, err := fmt.Fprintf(t.writer, "Failed: %s\n", msg)
	return err
}

// PrintMessage prints a simple message.
func (t *TablePrinter) PrintMessage(msg string) error {
	_, err := fmt.Fprintln(t.writer, msg)
	return err
}
