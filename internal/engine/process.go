package engine

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/feltlabs/weft/internal/constants"
	"github.com/feltlabs/weft/internal/model"
)

// spawned describes a step's child process once it has been started.
type spawned struct {
	pid, pgid int
	wait      func() constants.StepStatus
}

// stepLogPaths returns the stable stdout/stderr log paths for a step,
// invariant under reordering of tasks in the workflow file because taskID
// is derived from the task's name and info alone, not its position.
func stepLogPaths(logsRoot, taskID string, stepIdx int) (stdout, stderr string) {
	dir := filepath.Join(logsRoot, taskID)
	base := fmt.Sprintf("step-%02d", stepIdx)
	return filepath.Join(dir, base+"."+constants.StepLogStdoutSuffix),
		filepath.Join(dir, base+"."+constants.StepLogStderrSuffix)
}

// spawn launches command as "sh -c <command>" in a fresh process group,
// with stdout/stderr written to per-step log files and, simultaneously, to
// the Model's output ring buffer via io.MultiWriter. It returns immediately
// after the process starts; wait() blocks until it exits.
//
// cmd.Stdout/cmd.Stderr are set directly rather than read via
// cmd.StdoutPipe()/cmd.StderrPipe(): os/exec's pipe docs warn it is
// "incorrect to call Wait before all reads from the pipe have completed",
// and a manually-managed reader goroutine racing cmd.Wait() risks
// truncating a step's final output. Assigning plain io.Writers instead
// lets cmd.Wait() itself own that synchronization — it does not return
// until its own internal copy to those writers has finished.
func spawn(m *model.Model, taskIdx, stepIdx int, taskID, command, logsRoot string, gen uint64, logger zerolog.Logger) (*spawned, error) {
	stdoutPath, stderrPath := stepLogPaths(logsRoot, taskID, stepIdx)
	if err := os.MkdirAll(filepath.Dir(stdoutPath), 0o750); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}

	stdoutFile, err := os.Create(stdoutPath) //nolint:gosec // path is derived from sanitized task id + step index
	if err != nil {
		return nil, fmt.Errorf("create stdout log: %w", err)
	}
	stderrFile, err := os.Create(stderrPath) //nolint:gosec // path is derived from sanitized task id + step index
	if err != nil {
		_ = stdoutFile.Close()
		return nil, fmt.Errorf("create stderr log: %w", err)
	}

	cmd := exec.Command("sh", "-c", command) //nolint:gosec // command is user-configured workflow content, run intentionally
	setProcessGroup(cmd)

	stdoutTail := &lineTailer{m: m, taskIdx: taskIdx, stepIdx: stepIdx, gen: gen}
	stderrTail := &lineTailer{m: m, taskIdx: taskIdx, stepIdx: stepIdx, gen: gen}
	cmd.Stdout = io.MultiWriter(stdoutFile, stdoutTail)
	cmd.Stderr = io.MultiWriter(stderrFile, stderrTail)

	if err := cmd.Start(); err != nil {
		_ = stdoutFile.Close()
		_ = stderrFile.Close()
		return nil, fmt.Errorf("start: %w", err)
	}

	pid := cmd.Process.Pid
	pgid := pid // Setpgid makes the child its own group leader: pgid == pid.
	logger.Debug().Int("task", taskIdx).Int("step", stepIdx).Int("pid", pid).Str("command", command).Msg("step spawned")

	wait := func() constants.StepStatus {
		err := cmd.Wait()

		stdoutTail.Flush()
		stderrTail.Flush()
		_ = stdoutFile.Close()
		_ = stderrFile.Close()

		if err == nil {
			return constants.StepSuccess
		}
		if exitErr, ok := err.(*exec.ExitError); ok {
			if exitErr.ProcessState != nil && wasSignaled(exitErr.ProcessState) {
				return constants.StepKilled
			}
			return constants.StepFailed
		}
		return constants.StepFailed
	}

	return &spawned{pid: pid, pgid: pgid, wait: wait}, nil
}
