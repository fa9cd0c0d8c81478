package io

import (
	"context"
	"embed"
	"fmt"
	"io/fs"

	"gopkg.in/yaml.v3"

	"github.com/slok/taskmon/internal/model"
)

var (
	//go:embed fixtures
	embeddedFixtures embed.FS

	// DefaultFixturesPath is the path of the sample fixtures inside DefaultFixturesFS.
	DefaultFixturesPath = "fixtures/sample.yaml"
	// DefaultFixturesFS holds the sample fixtures shipped with the binary.
	DefaultFixturesFS fs.FS = embeddedFixtures
)

// FixturesYAMLRepository loads bootstrap fixtures from YAML files.
type FixturesYAMLRepository struct {
	fs fs.FS
}

// NewFixturesYAMLRepository creates a new YAML fixtures repository.
func NewFixturesYAMLRepository(filesystem fs.FS) *FixturesYAMLRepository {
	return &FixturesYAMLRepository{fs: filesystem}
}

// GetFixtures loads fixtures from a YAML file and returns a validated domain model.
func (r *FixturesYAMLRepository) GetFixtures(ctx context.Context, path string) (model.Fixtures, error) {
	data, err := fs.ReadFile(r.fs, path)
	if err != nil {
		return model.Fixtures{}, fmt.Errorf("reading fixtures file: %w", err)
	}

	if ctx.Err() != nil {
		return model.Fixtures{}, ctx.Err()
	}

	var f FixturesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return model.Fixtures{}, fmt.Errorf("parsing YAML: %w", err)
	}

	fixtures, err := f.toModel()
	if err != nil {
		return model.Fixtures{}, fmt.Errorf("invalid fixtures: %w", err)
	}

	if err := fixtures.Validate(); err != nil {
		return model.Fixtures{}, fmt.Errorf("invalid fixtures: %w", err)
	}

	return fixtures, nil
}

// DefaultFixtures returns the sample fixtures shipped with the binary.
func DefaultFixtures() model.Fixtures {
	f, err := NewFixturesYAMLRepository(DefaultFixturesFS).GetFixtures(context.Background(), DefaultFixturesPath)
	if err != nil {
		panic(fmt.Errorf("embedded fixtures are broken: %w", err))
	}
	return f
}

// FixturesFile represents the YAML structure of the fixtures.
type FixturesFile struct {
	Tasks []TaskRecord `yaml:"tasks"`
	Logs  []LogFixture `yaml:"logs"`
}

// LogFixture represents the YAML structure of a sample task log.
type LogFixture struct {
	TaskID  string `yaml:"task_id"`
	Content string `yaml:"content"`
}

func (f FixturesFile) toModel() (model.Fixtures, error) {
	tasks, err := TaskData{Tasks: f.Tasks}.ToModel()
	if err != nil {
		return model.Fixtures{}, err
	}

	logs := make(map[string]string, len(f.Logs))
	for _, l := range f.Logs {
		if l.TaskID == "" {
			return model.Fixtures{}, fmt.Errorf("log task_id is required: %w", model.ErrNotValid)
		}
		if _, ok := logs[l.TaskID]; ok {
			return model.Fixtures{}, fmt.Errorf("log %s: duplicated: %w", l.TaskID, model.ErrNotValid)
		}
		logs[l.TaskID] = l.Content
	}

	return model.Fixtures{Tasks: tasks, Logs: logs}, nil
}
