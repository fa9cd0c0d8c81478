package commands

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseToolArgs(t *testing.T) {
	tests := map[string]struct {
		argsJSON string
		kv       map[string]string
		expArgs  map[string]any
		expErr   bool
	}{
		"No arguments should return an empty map": {
			expArgs: map[string]any{},
		},
		"KEY=VALUE arguments should be strings": {
			kv:      map[string]string{"task_id": "task_001", "lines": "3"},
			expArgs: map[string]any{"task_id": "task_001", "lines": "3"},
		},
		"JSON arguments should keep numbers": {
			argsJSON: `{"task_id": "task_001", "lines": 3}`,
			expArgs:  map[string]any{"task_id": "task_001", "lines": json.Number("3")},
		},
		"KEY=VALUE arguments should override JSON ones": {
			argsJSON: `{"task_id": "task_001"}`,
			kv:       map[string]string{"task_id": "task_002"},
			expArgs:  map[string]any{"task_id": "task_002"},
		},
		"Invalid JSON should fail": {
			argsJSON: `{"task_id":`,
			expErr:   true,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			args, err := parseToolArgs(test.argsJSON, test.kv)
			if test.expErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, test.expArgs, args)
		})
	}
}
