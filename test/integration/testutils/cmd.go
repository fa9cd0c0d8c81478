package testutils

import (
	"bytes"
	"context"
	"os"
	"os/exec"
)

// RunTaskmon executes the taskmon binary with the arguments and returns its outputs.
// The env is added on top of the inherited one, nolog disables the logger.
func RunTaskmon(ctx context.Context, env []string, binary string, args []string, nolog bool) (stdout, stderr []byte, err error) {
	var outData, errData bytes.Buffer
	cmd := exec.CommandContext(ctx, binary, args...)
	cmd.Stdout = &outData
	cmd.Stderr = &errData

	// Last duplicated key wins.
	cmd.Env = append(os.Environ(), env...)
	if nolog {
		cmd.Env = append(cmd.Env, "TASKMON_NO_LOG=true")
	}

	err = cmd.Run()

	return outData.Bytes(), errData.Bytes(), err
}
