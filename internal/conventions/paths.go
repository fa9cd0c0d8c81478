package conventions

import (
	"fmt"
	"path/filepath"
	"strings"

	"k8s.io/client-go/util/homedir"

	"github.com/slok/taskmon/internal/model"
)

const (
	// DefaultWorkspaceDir is the workspace used when none is configured.
	DefaultWorkspaceDir = "/workspace/projects"
	// WorkspaceEnvVar is the environment variable holding the workspace root.
	WorkspaceEnvVar = "COZE_WORKSPACE_PATH"

	// AssetsDir is the workspace subdirectory for data assets.
	AssetsDir = "assets"
	// TaskDataFile is the task store filename inside the assets directory.
	TaskDataFile = "task_data.json"
	// LogsDir is the workspace subdirectory for task logs.
	LogsDir = "logs"
	// LogFileExt is the extension of task log files.
	LogFileExt = ".log"
)

// TaskDataPath returns the path of the task store.
func TaskDataPath(workspaceDir string) string {
	return filepath.Join(workspaceDir, AssetsDir, TaskDataFile)
}

// LogsPath returns the directory that holds task logs.
func LogsPath(workspaceDir string) string {
	return filepath.Join(workspaceDir, LogsDir)
}

// TaskLogPath returns the path of a task log file.
func TaskLogPath(workspaceDir, taskID string) string {
	return filepath.Join(LogsPath(workspaceDir), taskID+LogFileExt)
}

// TaskLogRelPath returns the task log path relative to the workspace, as stored on task records.
func TaskLogRelPath(taskID string) string {
	return LogsDir + "/" + taskID + LogFileExt
}

// ValidateTaskID checks a task ID can be used as a single file name.
func ValidateTaskID(taskID string) error {
	if taskID == "" || taskID == "." || taskID == ".." {
		return fmt.Errorf("invalid task id %q: %w", taskID, model.ErrNotValid)
	}
	if strings.ContainsAny(taskID, `/\`) || strings.ContainsRune(taskID, 0) {
		return fmt.Errorf("invalid task id %q: %w", taskID, model.ErrNotValid)
	}
	return nil
}

// ExpandHome replaces a leading "~" with the user home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}

	home := homedir.HomeDir()
	if home == "" {
		return path
	}

	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
