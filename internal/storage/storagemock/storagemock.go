// Package storagemock has testify mocks of the storage interfaces.
package storagemock

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/slok/taskmon/internal/model"
	"github.com/slok/taskmon/internal/storage"
)

var (
	_ storage.TaskRepository = &MockTaskRepository{}
	_ storage.LogRepository  = &MockLogRepository{}
	_ storage.Seeder         = &MockSeeder{}
)

// MockTaskRepository is a mock of storage.TaskRepository.
type MockTaskRepository struct {
	mock.Mock
}

// ListTasks provides a mock function.
func (m *MockTaskRepository) ListTasks(ctx context.Context) ([]model.Task, error) {
	args := m.Called(ctx)

	var tasks []model.Task
	if v := args.Get(0); v != nil {
		tasks = v.([]model.Task)
	}
	return tasks, args.Error(1)
}

// GetTask provides a mock function.
func (m *MockTaskRepository) GetTask(ctx context.Context, id string) (*model.Task, error) {
	args := m.Called(ctx, id)

	var task *model.Task
	if v := args.Get(0); v != nil {
		task = v.(*model.Task)
	}
	return task, args.Error(1)
}

// MockLogRepository is a mock of storage.LogRepository.
type MockLogRepository struct {
	mock.Mock
}

// GetTaskLog provides a mock function.
func (m *MockLogRepository) GetTaskLog(ctx context.Context, taskID string) (*model.TaskLog, error) {
	args := m.Called(ctx, taskID)

	var tlog *model.TaskLog
	if v := args.Get(0); v != nil {
		tlog = v.(*model.TaskLog)
	}
	return tlog, args.Error(1)
}

// MockSeeder is a mock of storage.Seeder.
type MockSeeder struct {
	mock.Mock
}

// Seed provides a mock function.
func (m *MockSeeder) Seed(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
