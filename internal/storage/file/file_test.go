package file_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slok/taskmon/internal/log"
	"github.com/slok/taskmon/internal/model"
	"github.com/slok/taskmon/internal/storage/file"
)

func ptr[T any](v T) *T { return &v }

func newRepo(t *testing.T, dir string, noSeed bool) *file.Repository {
	t.Helper()

	repo, err := file.NewRepository(file.RepositoryConfig{
		WorkspaceDir:      dir,
		DisableSeedOnRead: noSeed,
		Logger:            log.Noop,
	})
	require.NoError(t, err)
	return repo
}

func TestNewRepository(t *testing.T) {
	_, err := file.NewRepository(file.RepositoryConfig{})
	assert.Error(t, err)

	_, err = file.NewRepository(file.RepositoryConfig{WorkspaceDir: t.TempDir()})
	assert.NoError(t, err)
}

func TestRepositoryListTasksBootstrap(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	dir := t.TempDir()
	repo := newRepo(t, dir, false)

	tasks, err := repo.ListTasks(context.Background())
	require.NoError(err)
	require.Len(tasks, 4)

	ids := []string{}
	for _, tk := range tasks {
		ids = append(ids, tk.ID)
	}
	assert.Equal([]string{"task_001", "task_002", "task_003", "task_004"}, ids)

	// The store is pretty printed and keeps non ASCII text as is.
	data, err := os.ReadFile(filepath.Join(dir, "assets", "task_data.json"))
	require.NoError(err)
	assert.Contains(string(data), "\n  \"tasks\": [\n")
	assert.Contains(string(data), `"task_name": "用户数据同步"`)
	assert.Contains(string(data), `"end_time": null`)
	assert.Contains(string(data), `"error_msg": "NullPointerException at DataProcessor.clean()"`)
	assert.True(strings.HasSuffix(string(data), "}"))

	// Bootstrapping again is idempotent.
	tasks2, err := repo.ListTasks(context.Background())
	require.NoError(err)
	assert.Equal(tasks, tasks2)

	data2, err := os.ReadFile(filepath.Join(dir, "assets", "task_data.json"))
	require.NoError(err)
	assert.Equal(data, data2)
}

func TestRepositoryListTasksExistingStore(t *testing.T) {
	tests := map[string]struct {
		content  string
		expTasks []model.Task
		expErr   error
	}{
		"An existing store should not be overwritten": {
			content: `{"tasks": [{"task_id": "x1", "task_name": "custom", "status": "pending", "log_path": "logs/x1.log"}]}`,
			expTasks: []model.Task{
				{
					ID:      "x1",
					Name:    "custom",
					Status:  model.TaskStatusPending,
					LogPath: "logs/x1.log",
					Raw:     []byte(`{"task_id": "x1", "task_name": "custom", "status": "pending", "log_path": "logs/x1.log"}`),
				},
			},
		},

		"A timestamp in another format should be left unparsed": {
			content: `{"tasks": [{"task_id": "a", "status": "running", "start_time": "2025-06-17T09:00:00"}, {"task_id": "b", "status": "running", "start_time": "2025-06-17 09:00:00"}]}`,
			expTasks: []model.Task{
				{
					ID:     "a",
					Status: model.TaskStatusRunning,
					Raw:    []byte(`{"task_id": "a", "status": "running", "start_time": "2025-06-17T09:00:00"}`),
				},
				{
					ID:        "b",
					Status:    model.TaskStatusRunning,
					StartedAt: ptr(time.Date(2025, 6, 17, 9, 0, 0, 0, time.UTC)),
					Raw:       []byte(`{"task_id": "b", "status": "running", "start_time": "2025-06-17 09:00:00"}`),
				},
			},
		},

		"A fractional duration should be read": {
			content: `{"tasks": [{"task_id": "a", "status": "success", "duration": 1.5, "data_count": 10}]}`,
			expTasks: []model.Task{
				{
					ID:        "a",
					Status:    model.TaskStatusSuccess,
					Duration:  ptr(1500 * time.Millisecond),
					DataCount: ptr(int64(10)),
					Raw:       []byte(`{"task_id": "a", "status": "success", "duration": 1.5, "data_count": 10}`),
				},
			},
		},

		"Unknown keys should be kept in the stored task": {
			content: `{"tasks": [{"task_id": "a", "status": "pending", "owner": "etl-team", "retries": 2}]}`,
			expTasks: []model.Task{
				{
					ID:     "a",
					Status: model.TaskStatusPending,
					Raw:    []byte(`{"task_id": "a", "status": "pending", "owner": "etl-team", "retries": 2}`),
				},
			},
		},

		"Fields with unexpected types should be left unset": {
			content: `{"tasks": [{"task_id": "a", "status": 3, "data_count": "many", "error_msg": null}]}`,
			expTasks: []model.Task{
				{
					ID:  "a",
					Raw: []byte(`{"task_id": "a", "status": 3, "data_count": "many", "error_msg": null}`),
				},
			},
		},

		"A store without tasks key should return no tasks": {
			content:  `{}`,
			expTasks: []model.Task{},
		},

		"A malformed store should fail": {
			content: `{"tasks": [`,
			expErr:  model.ErrNotValid,
		},

		"A store with non list tasks should fail": {
			content: `{"tasks": {"task_id": "x1"}}`,
			expErr:  model.ErrNotValid,
		},

		"A store with a non object task should fail": {
			content: `{"tasks": ["x1"]}`,
			expErr:  model.ErrNotValid,
		},

		"A store with a null task should fail": {
			content: `{"tasks": [null]}`,
			expErr:  model.ErrNotValid,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)
			require := require.New(t)

			dir := t.TempDir()
			require.NoError(os.MkdirAll(filepath.Join(dir, "assets"), 0755))
			require.NoError(os.WriteFile(filepath.Join(dir, "assets", "task_data.json"), []byte(test.content), 0644))

			repo := newRepo(t, dir, false)
			tasks, err := repo.ListTasks(context.Background())

			if test.expErr != nil {
				assert.True(errors.Is(err, test.expErr))
			} else {
				require.NoError(err)
				assert.Equal(test.expTasks, tasks)
			}
		})
	}
}

func TestRepositoryListTasksWithoutSeed(t *testing.T) {
	dir := t.TempDir()
	repo := newRepo(t, dir, true)

	_, err := repo.ListTasks(context.Background())
	assert.True(t, errors.Is(err, model.ErrNotFound))

	_, err = os.Stat(filepath.Join(dir, "assets"))
	assert.True(t, os.IsNotExist(err))
}

func TestRepositoryGetTask(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	repo := newRepo(t, t.TempDir(), false)

	task, err := repo.GetTask(context.Background(), "task_003")
	require.NoError(err)
	assert.Equal("task_003", task.ID)
	assert.Equal(model.TaskStatusRunning, task.Status)
	assert.Equal(time.Date(2025, 6, 17, 9, 0, 0, 0, time.UTC), *task.StartedAt)
	assert.Nil(task.EndedAt)

	_, err = repo.GetTask(context.Background(), "task_999")
	assert.True(errors.Is(err, model.ErrNotFound))
}

func TestRepositoryGetTaskLog(t *testing.T) {
	tests := map[string]struct {
		prepare  func(t *testing.T, dir string)
		noSeed   bool
		taskID   string
		expLines int
		expFirst string
		expLast  string
		expErr   error
	}{
		"A sample log should be bootstrapped": {
			taskID:   "task_001",
			expLines: 10,
			expFirst: "[2025-06-17 08:00:00] INFO  Task started: task_001 (用户数据同步)\n",
			expLast:  "[2025-06-17 08:15:30] INFO  Task completed successfully. Total records: 1500000\n",
		},

		"The failed sample log should be bootstrapped": {
			taskID:   "task_002",
			expLines: 11,
			expLast:  "[2025-06-17 08:45:20] INFO  Task terminated\n",
		},

		"An existing log should be read as is": {
			prepare: func(t *testing.T, dir string) {
				require.NoError(t, os.MkdirAll(filepath.Join(dir, "logs"), 0755))
				require.NoError(t, os.WriteFile(filepath.Join(dir, "logs", "task_001.log"), []byte("a\nb\nc"), 0644))
			},
			taskID:   "task_001",
			expLines: 3,
			expFirst: "a\n",
			expLast:  "c",
		},

		"An empty log should return no lines": {
			prepare: func(t *testing.T, dir string) {
				require.NoError(t, os.MkdirAll(filepath.Join(dir, "logs"), 0755))
				require.NoError(t, os.WriteFile(filepath.Join(dir, "logs", "custom.log"), nil, 0644))
			},
			taskID:   "custom",
			expLines: 0,
		},

		"A task without sample log should fail with not found": {
			taskID: "task_004",
			expErr: model.ErrNotFound,
		},

		"An unknown task should fail with not found": {
			taskID: "unknown",
			expErr: model.ErrNotFound,
		},

		"A sample log without seeding should fail with not found": {
			noSeed: true,
			taskID: "task_001",
			expErr: model.ErrNotFound,
		},

		"A path traversal ID should fail": {
			taskID: "../assets/task_data",
			expErr: model.ErrNotValid,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)
			require := require.New(t)

			dir := t.TempDir()
			if test.prepare != nil {
				test.prepare(t, dir)
			}

			repo := newRepo(t, dir, test.noSeed)
			tlog, err := repo.GetTaskLog(context.Background(), test.taskID)

			if test.expErr != nil {
				assert.True(errors.Is(err, test.expErr))
				return
			}

			require.NoError(err)
			assert.Equal(test.taskID, tlog.TaskID)
			require.Len(tlog.Lines, test.expLines)
			if test.expLines > 0 {
				if test.expFirst != "" {
					assert.Equal(test.expFirst, tlog.Lines[0])
				}
				assert.Equal(test.expLast, tlog.Lines[len(tlog.Lines)-1])
			}
		})
	}
}

func TestRepositorySeed(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	dir := t.TempDir()
	repo := newRepo(t, dir, true)

	require.NoError(repo.Seed(context.Background()))
	require.NoError(repo.Seed(context.Background()))

	for _, f := range []string{"assets/task_data.json", "logs/task_001.log", "logs/task_002.log", "logs/task_003.log"} {
		_, err := os.Stat(filepath.Join(dir, f))
		assert.NoError(err, f)
	}
	_, err := os.Stat(filepath.Join(dir, "logs", "task_004.log"))
	assert.True(os.IsNotExist(err))

	// No temporary files are left behind.
	entries, err := os.ReadDir(filepath.Join(dir, "logs"))
	require.NoError(err)
	for _, e := range entries {
		assert.False(strings.HasPrefix(e.Name(), "."), e.Name())
	}

	// Once seeded, reads work without bootstrapping.
	tlog, err := repo.GetTaskLog(context.Background(), "task_003")
	require.NoError(err)
	assert.Len(tlog.Lines, 5)
}

func TestRepositoryConcurrentBootstrap(t *testing.T) {
	repo := newRepo(t, t.TempDir(), false)

	var wg sync.WaitGroup
	errs := make(chan error, 10)
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tasks, err := repo.ListTasks(context.Background())
			if err == nil && len(tasks) != 4 {
				err = errors.New("partial task store read")
			}
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
}
