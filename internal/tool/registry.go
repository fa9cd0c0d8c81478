package tool

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/slok/taskmon/internal/log"
)

// Schema is the tool metadata exposed to the agent framework.
type Schema struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

// Handler executes a tool with the given arguments and returns the tool text output.
type Handler func(ctx context.Context, args map[string]any) (string, error)

// Result is the outcome of a tool execution.
type Result struct {
	InvocationID string
	Success      bool
	Output       string
	Error        string
}

type entry struct {
	schema  Schema
	handler Handler
}

// Registry manages tool registration and execution.
type Registry struct {
	mu     sync.RWMutex
	tools  map[string]entry
	logger log.Logger
}

// NewRegistry creates a new empty registry.
func NewRegistry(logger log.Logger) *Registry {
	if logger == nil {
		logger = log.Noop
	}

	return &Registry{
		tools:  map[string]entry{},
		logger: logger.WithValues(log.Kv{"svc": "tool.Registry"}),
	}
}

// Register adds a new tool to the registry.
func (r *Registry) Register(schema Schema, handler Handler) error {
	if schema.Name == "" {
		return fmt.Errorf("tool name is required")
	}
	if handler == nil {
		return fmt.Errorf("tool %s handler is required", schema.Name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tools[schema.Name]; ok {
		return fmt.Errorf("tool %s already registered", schema.Name)
	}
	r.tools[schema.Name] = entry{schema: schema, handler: handler}

	return nil
}

// Execute runs a tool by name with args. Handler errors are returned as failed results.
func (r *Registry) Execute(ctx context.Context, name string, args map[string]any) Result {
	id := ulid.Make().String()
	logger := r.logger.WithValues(log.Kv{"tool": name, "invocation": id})

	r.mu.RLock()
	e, ok := r.tools[name]
	r.mu.RUnlock()
	if !ok {
		logger.Warningf("Unknown tool")
		return Result{InvocationID: id, Success: false, Error: fmt.Sprintf("tool %s not found", name)}
	}

	if args == nil {
		args = map[string]any{}
	}

	start := time.Now()
	out, err := e.handler(ctx, args)
	if err != nil {
		logger.Errorf("Tool failed after %s: %s", time.Since(start), err)
		return Result{InvocationID: id, Success: false, Error: err.Error()}
	}

	logger.Debugf("Tool executed in %s", time.Since(start))
	return Result{InvocationID: id, Success: true, Output: out}
}

// Schemas returns the registered tool schemas sorted by name.
func (r *Registry) Schemas() []Schema {
	r.mu.RLock()
	defer r.mu.RUnlock()

	schemas := make([]Schema, 0, len(r.tools))
	for _, e := range r.tools {
		schemas = append(schemas, e.schema)
	}
	sort.Slice(schemas, func(i, j int) bool { return schemas[i].Name < schemas[j].Name })

	return schemas
}

// Has returns true if a tool is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.tools[name]
	return ok
}
