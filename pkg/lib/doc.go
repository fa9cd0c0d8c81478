// Package lib provides a Go SDK to embed the taskmon agent tools in-process.
//
// The client exposes the two tools agent frameworks call, both return the
// JSON encoded result as their whole output:
//
//   - task_monitor: status of a batch task, tasks with a status, or all the
//     tasks with a per status summary.
//   - task_log_reader: the last lines of the log of a task.
//
// # Quick Start
//
//	client, err := lib.New(lib.Config{WorkspaceDir: "/workspace/projects"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	out, err := client.TaskMonitor(ctx, lib.TaskMonitorOpts{Status: "failed"})
//	out, err = client.TaskLogReader(ctx, "task_002", nil)
//
// # Sample data
//
// When the task store or the log of a sample task is missing, it is
// bootstrapped with sample data on read. Set [Config].DisableSeedOnRead and
// call [Client.Seed] once at setup to keep reads free of writes.
//
// # Tool registration
//
// [Client.Tools] returns the tool schemas and [Client.CallTool] executes a
// tool by name with decoded JSON arguments, ready to be wired into any agent
// tool-calling loop.
package lib
