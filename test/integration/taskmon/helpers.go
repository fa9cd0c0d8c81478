package taskmon

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/slok/taskmon/test/integration/testutils"
)

// Config holds integration test configuration loaded from environment variables.
type Config struct {
	Binary string
}

func (c *Config) defaults() error {
	if c.Binary == "" {
		return fmt.Errorf("taskmon binary path is required (TASKMON_INTEGRATION_BINARY)")
	}

	// go test changes the CWD to the test package directory.
	if !filepath.IsAbs(c.Binary) {
		return fmt.Errorf("TASKMON_INTEGRATION_BINARY must be an absolute path, got %q", c.Binary)
	}
	if _, err := os.Stat(c.Binary); err != nil {
		return fmt.Errorf("taskmon binary not found at %q: %w", c.Binary, err)
	}

	return nil
}

// NewConfig loads integration test configuration from environment variables.
// If the config is invalid or the activation env var is not set, the test is skipped.
func NewConfig(t *testing.T) Config {
	t.Helper()

	const (
		envActivation = "TASKMON_INTEGRATION"
		envBinary     = "TASKMON_INTEGRATION_BINARY"
	)

	if os.Getenv(envActivation) != "true" {
		t.Skipf("Skipping integration test: %s is not set to 'true'", envActivation)
	}

	c := Config{Binary: os.Getenv(envBinary)}
	if err := c.defaults(); err != nil {
		t.Skipf("Skipping due to invalid config: %s", err)
	}

	return c
}

// Run executes taskmon on a workspace.
func Run(ctx context.Context, config Config, workspace string, args ...string) (stdout, stderr []byte, err error) {
	env := []string{"COZE_WORKSPACE_PATH=" + workspace}
	return testutils.RunTaskmon(ctx, env, config.Binary, args, true)
}

// RunToolCall executes a tool through the CLI and returns its raw output.
func RunToolCall(ctx context.Context, config Config, workspace, toolName, argsJSON string) (stdout, stderr []byte, err error) {
	return Run(ctx, config, workspace, "tool", "call", toolName, "--args-json", argsJSON)
}
