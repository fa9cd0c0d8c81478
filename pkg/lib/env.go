package lib

import (
	"os"

	"github.com/slok/taskmon/internal/conventions"
)

func lookupWorkspaceDir() string {
	if dir := os.Getenv(conventions.WorkspaceEnvVar); dir != "" {
		return dir
	}
	return conventions.DefaultWorkspaceDir
}
