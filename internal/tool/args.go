package tool

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// stringArg returns an optional string argument, missing or null arguments are empty.
func stringArg(args map[string]any, name string) (string, error) {
	v, ok := args[name]
	if !ok || v == nil {
		return "", nil
	}

	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("argument %s must be a string, got %T", name, v)
	}
	return s, nil
}

// intArg returns an optional integer argument. Arguments decoded from JSON arrive as
// float64, from the CLI as strings.
func intArg(args map[string]any, name string, def int) (int, error) {
	v, ok := args[name]
	if !ok || v == nil {
		return def, nil
	}

	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case float64:
		if n != math.Trunc(n) || math.IsInf(n, 0) {
			return 0, fmt.Errorf("argument %s must be an integer, got %v", name, n)
		}
		return int(n), nil
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, fmt.Errorf("argument %s must be an integer: %w", name, err)
		}
		return int(i), nil
	case string:
		i, err := strconv.Atoi(n)
		if err != nil {
			return 0, fmt.Errorf("argument %s must be an integer: %w", name, err)
		}
		return i, nil
	}

	return 0, fmt.Errorf("argument %s must be an integer, got %T", name, v)
}
