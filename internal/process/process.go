// Package process runs short-lived external commands whose whole process
// tree is killed when the context ends.
package process

import (
	"context"
	"os/exec"
	"time"
)

// waitDelay bounds how long Wait blocks on output pipes after a kill.
const waitDelay = time.Second

// Command returns a command bound to ctx, started in its own process group
// and run in dir. Cancelling ctx kills the group, not only the direct child.
func Command(ctx context.Context, dir, name string, args ...string) *exec.Cmd {
	cmd := exec.CommandContext(ctx, name, args...) // #nosec G204 -- callers pass fixed binaries
	cmd.Dir = dir
	setProcessGroup(cmd)
	cmd.Cancel = func() error {
		if cmd.Process == nil {
			return nil
		}
		if err := KillProcessGroup(cmd.Process.Pid); err != nil {
			return cmd.Process.Kill()
		}
		return nil
	}
	cmd.WaitDelay = waitDelay
	return cmd
}
