package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/taskmon/internal/tool"
)

// ToolCommand is the parent command for the agent tool subcommands.
type ToolCommand struct {
	Cmd *kingpin.CmdClause
}

// NewToolCommand returns the tool parent command.
func NewToolCommand(app *kingpin.Application) *ToolCommand {
	c := &ToolCommand{}
	c.Cmd = app.Command("tool", "Use the agent tools.")
	return c
}

// newToolRegistry returns a registry with the task tools registered.
func newToolRegistry(rootCmd *RootCommand) (*tool.Registry, error) {
	repo, err := rootCmd.newRepository(nil)
	if err != nil {
		return nil, err
	}

	r := tool.NewRegistry(rootCmd.Logger)
	err = tool.RegisterTaskTools(r, tool.TaskToolsConfig{
		TaskRepository: repo,
		LogRepository:  repo,
		Logger:         rootCmd.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not register task tools: %w", err)
	}

	return r, nil
}

// ToolListCommand prints the tool schemas.
type ToolListCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand
}

// NewToolListCommand returns the tool list command.
func NewToolListCommand(rootCmd *RootCommand, toolCmd *ToolCommand) *ToolListCommand {
	c := &ToolListCommand{rootCmd: rootCmd}
	c.Cmd = toolCmd.Cmd.Command("list", "Print the schemas of the available tools as JSON.")
	return c
}

func (c ToolListCommand) Name() string { return c.Cmd.FullCommand() }

func (c ToolListCommand) Run(ctx context.Context) error {
	r, err := newToolRegistry(c.rootCmd)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(c.rootCmd.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(r.Schemas())
}

// ToolCallCommand executes a tool and prints its raw output.
type ToolCallCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	name     string
	args     map[string]string
	argsJSON string
}

// NewToolCallCommand returns the tool call command.
func NewToolCallCommand(rootCmd *RootCommand, toolCmd *ToolCommand) *ToolCallCommand {
	c := &ToolCallCommand{rootCmd: rootCmd}

	c.Cmd = toolCmd.Cmd.Command("call", "Execute a tool and print its output.")
	c.Cmd.Arg("name", "Tool name.").Required().StringVar(&c.name)
	c.Cmd.Flag("arg", "Tool argument in KEY=VALUE form (repeatable).").Short('a').StringMapVar(&c.args)
	c.Cmd.Flag("args-json", "Tool arguments as a JSON object, --arg values take precedence.").StringVar(&c.argsJSON)

	return c
}

func (c ToolCallCommand) Name() string { return c.Cmd.FullCommand() }

func (c ToolCallCommand) Run(ctx context.Context) error {
	args, err := parseToolArgs(c.argsJSON, c.args)
	if err != nil {
		return err
	}

	r, err := newToolRegistry(c.rootCmd)
	if err != nil {
		return err
	}

	res := r.Execute(ctx, c.name, args)
	if !res.Success {
		return fmt.Errorf("tool %s failed (invocation %s): %s", c.name, res.InvocationID, res.Error)
	}

	_, err = io.WriteString(c.rootCmd.Stdout, res.Output+"\n")
	return err
}

// parseToolArgs merges the JSON arguments with the KEY=VALUE ones.
func parseToolArgs(argsJSON string, kv map[string]string) (map[string]any, error) {
	args := map[string]any{}

	if strings.TrimSpace(argsJSON) != "" {
		dec := json.NewDecoder(strings.NewReader(argsJSON))
		dec.UseNumber()
		if err := dec.Decode(&args); err != nil {
			return nil, fmt.Errorf("invalid JSON arguments: %w", err)
		}
	}

	for k, v := range kv {
		args[k] = v
	}

	return args, nil
}
