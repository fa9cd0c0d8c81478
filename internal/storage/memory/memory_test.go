package memory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slok/taskmon/internal/log"
	"github.com/slok/taskmon/internal/model"
	"github.com/slok/taskmon/internal/storage/memory"
)

func TestRepository(t *testing.T) {
	tests := map[string]struct {
		actions func(ctx context.Context, t *testing.T, repo *memory.Repository)
	}{
		"Listing should return the sample tasks in order": {
			actions: func(ctx context.Context, t *testing.T, repo *memory.Repository) {
				tasks, err := repo.ListTasks(ctx)
				require.NoError(t, err)
				require.Len(t, tasks, 4)
				assert.Equal(t, "task_001", tasks[0].ID)
				assert.Equal(t, "task_004", tasks[3].ID)
			},
		},

		"Getting a missing task should fail with not found": {
			actions: func(ctx context.Context, t *testing.T, repo *memory.Repository) {
				_, err := repo.GetTask(ctx, "missing")
				assert.True(t, errors.Is(err, model.ErrNotFound))
			},
		},

		"Adding a task with an existing ID should replace it": {
			actions: func(ctx context.Context, t *testing.T, repo *memory.Repository) {
				repo.AddTask(model.Task{ID: "task_004", Name: "replaced", Status: model.TaskStatusPending})

				task, err := repo.GetTask(ctx, "task_004")
				require.NoError(t, err)
				assert.Equal(t, "replaced", task.Name)

				tasks, err := repo.ListTasks(ctx)
				require.NoError(t, err)
				assert.Len(t, tasks, 4)
			},
		},

		"Getting a sample log should split it in lines": {
			actions: func(ctx context.Context, t *testing.T, repo *memory.Repository) {
				tlog, err := repo.GetTaskLog(ctx, "task_003")
				require.NoError(t, err)
				assert.Len(t, tlog.Lines, 5)
			},
		},

		"Getting a log without trailing newline should keep the last line": {
			actions: func(ctx context.Context, t *testing.T, repo *memory.Repository) {
				repo.SetTaskLog("x", "a\nb")
				tlog, err := repo.GetTaskLog(ctx, "x")
				require.NoError(t, err)
				assert.Equal(t, []string{"a\n", "b"}, tlog.Lines)
			},
		},

		"Getting a missing log should fail with not found": {
			actions: func(ctx context.Context, t *testing.T, repo *memory.Repository) {
				_, err := repo.GetTaskLog(ctx, "task_004")
				assert.True(t, errors.Is(err, model.ErrNotFound))
			},
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			repo, err := memory.NewRepository(memory.RepositoryConfig{Logger: log.Noop})
			require.NoError(t, err)

			test.actions(context.Background(), t, repo)
		})
	}
}
