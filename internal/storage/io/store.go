package io

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/slok/taskmon/internal/model"
)

// DecodeTaskStore decodes the task store file content.
//
// Only content that is not JSON, a non list `tasks` or a task that is not an
// object make the store invalid. Task fields are read as leniently as
// possible: unparseable timestamps and numbers are left unset, and every task
// keeps its stored JSON object in Raw.
func DecodeTaskStore(data []byte) ([]model.Task, error) {
	var store struct {
		Tasks []json.RawMessage `json:"tasks"`
	}
	if err := json.Unmarshal(data, &store); err != nil {
		return nil, fmt.Errorf("%w: %w", model.ErrNotValid, err)
	}

	tasks := make([]model.Task, 0, len(store.Tasks))
	for i, raw := range store.Tasks {
		t, err := decodeTask(raw)
		if err != nil {
			return nil, fmt.Errorf("task %d: %w", i, err)
		}
		tasks = append(tasks, t)
	}

	return tasks, nil
}

func decodeTask(raw json.RawMessage) (model.Task, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return model.Task{}, fmt.Errorf("task is not an object: %w", model.ErrNotValid)
	}
	if fields == nil {
		return model.Task{}, fmt.Errorf("task is null: %w", model.ErrNotValid)
	}

	return model.Task{
		ID:        rawString(fields["task_id"]),
		Name:      rawString(fields["task_name"]),
		Status:    model.TaskStatus(rawString(fields["status"])),
		StartedAt: rawTime(fields["start_time"]),
		EndedAt:   rawTime(fields["end_time"]),
		Duration:  rawDuration(fields["duration"]),
		DataCount: rawInt(fields["data_count"]),
		LogPath:   rawString(fields["log_path"]),
		ErrorMsg:  rawStringPtr(fields["error_msg"]),
		Raw:       bytes.Clone(raw),
	}, nil
}

func rawStringPtr(b json.RawMessage) *string {
	if b == nil {
		return nil
	}

	var s *string
	if err := json.Unmarshal(b, &s); err != nil {
		return nil
	}
	return s
}

func rawString(b json.RawMessage) string {
	if s := rawStringPtr(b); s != nil {
		return *s
	}
	return ""
}

func rawTime(b json.RawMessage) *time.Time {
	s := rawStringPtr(b)
	if s == nil {
		return nil
	}

	t, err := time.ParseInLocation(TimestampLayout, *s, time.UTC)
	if err != nil {
		return nil
	}
	return &t
}

func rawNumber(b json.RawMessage) (float64, bool) {
	if b == nil {
		return 0, false
	}

	var f *float64
	if err := json.Unmarshal(b, &f); err != nil || f == nil {
		return 0, false
	}
	return *f, true
}

// rawDuration reads a duration in seconds, fractions included.
func rawDuration(b json.RawMessage) *time.Duration {
	f, ok := rawNumber(b)
	if !ok {
		return nil
	}

	d := time.Duration(f * float64(time.Second))
	return &d
}

func rawInt(b json.RawMessage) *int64 {
	if b == nil {
		return nil
	}

	var n *int64
	if err := json.Unmarshal(b, &n); err == nil {
		return n
	}

	f, ok := rawNumber(b)
	if !ok || f > math.MaxInt64 || f < math.MinInt64 {
		return nil
	}
	i := int64(f)
	return &i
}
