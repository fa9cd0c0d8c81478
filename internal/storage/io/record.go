package io

import (
	"fmt"
	"time"

	"github.com/slok/taskmon/internal/model"
)

// TimestampLayout is the format of task timestamps on disk.
const TimestampLayout = "2006-01-02 15:04:05"

// TaskData represents the task store file structure.
type TaskData struct {
	Tasks []TaskRecord `json:"tasks" yaml:"tasks"`
}

// TaskRecord represents a task as stored on disk.
type TaskRecord struct {
	TaskID    string  `json:"task_id" yaml:"task_id"`
	TaskName  string  `json:"task_name" yaml:"task_name"`
	Status    string  `json:"status" yaml:"status"`
	StartTime *string `json:"start_time" yaml:"start_time"`
	EndTime   *string `json:"end_time" yaml:"end_time"`
	Duration  *int64  `json:"duration" yaml:"duration"` // Seconds.
	DataCount *int64  `json:"data_count" yaml:"data_count"`
	LogPath   string  `json:"log_path" yaml:"log_path"`
	ErrorMsg  *string `json:"error_msg" yaml:"error_msg"`
}

// NewTaskRecord maps a domain task into its stored representation.
func NewTaskRecord(t model.Task) TaskRecord {
	r := TaskRecord{
		TaskID:    t.ID,
		TaskName:  t.Name,
		Status:    string(t.Status),
		StartTime: formatTime(t.StartedAt),
		EndTime:   formatTime(t.EndedAt),
		DataCount: t.DataCount,
		LogPath:   t.LogPath,
		ErrorMsg:  t.ErrorMsg,
	}

	if t.Duration != nil {
		secs := int64(t.Duration.Seconds())
		r.Duration = &secs
	}

	return r
}

// ToModel maps the task into a domain task, malformed timestamps are an error.
func (r TaskRecord) ToModel() (model.Task, error) {
	startedAt, err := parseTime(r.StartTime)
	if err != nil {
		return model.Task{}, fmt.Errorf("task %s: start_time: %w", r.TaskID, err)
	}
	endedAt, err := parseTime(r.EndTime)
	if err != nil {
		return model.Task{}, fmt.Errorf("task %s: end_time: %w", r.TaskID, err)
	}

	t := model.Task{
		ID:        r.TaskID,
		Name:      r.TaskName,
		Status:    model.TaskStatus(r.Status),
		StartedAt: startedAt,
		EndedAt:   endedAt,
		DataCount: r.DataCount,
		LogPath:   r.LogPath,
		ErrorMsg:  r.ErrorMsg,
	}

	if r.Duration != nil {
		d := time.Duration(*r.Duration) * time.Second
		t.Duration = &d
	}

	return t, nil
}

// ToModel maps all the stored tasks into domain tasks keeping the order.
func (d TaskData) ToModel() ([]model.Task, error) {
	tasks := make([]model.Task, 0, len(d.Tasks))
	for _, r := range d.Tasks {
		t, err := r.ToModel()
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}

// NewTaskData maps domain tasks into the store file structure.
func NewTaskData(tasks []model.Task) TaskData {
	records := make([]TaskRecord, 0, len(tasks))
	for _, t := range tasks {
		records = append(records, NewTaskRecord(t))
	}
	return TaskData{Tasks: records}
}

func formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(TimestampLayout)
	return &s
}

func parseTime(s *string) (*time.Time, error) {
	if s == nil {
		return nil, nil
	}

	t, err := time.ParseInLocation(TimestampLayout, *s, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("invalid timestamp %q: %w", *s, model.ErrNotValid)
	}
	return &t, nil
}
