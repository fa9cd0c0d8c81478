package storage

import (
	"context"

	"github.com/slok/taskmon/internal/model"
)

// TaskRepository is the interface for task store reads.
type TaskRepository interface {
	ListTasks(ctx context.Context) ([]model.Task, error)
	GetTask(ctx context.Context, id string) (*model.Task, error)
}

// LogRepository is the interface for task log reads.
type LogRepository interface {
	GetTaskLog(ctx context.Context, taskID string) (*model.TaskLog, error)
}

// Seeder knows how to generate the fixture data of a storage.
type Seeder interface {
	Seed(ctx context.Context) error
}
