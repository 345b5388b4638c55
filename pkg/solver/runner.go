package solver

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/timetable-api/pkg/storage"
)

// RawOutput is everything observed from one solver invocation.
type RawOutput struct {
	Stdout   string
	Stderr   string
	ExitCode int
	// StartErr is set when the process could not be started or was killed
	// before it reported an exit status.
	StartErr error
	Duration time.Duration
}

// waitDelay bounds how long output pipes are drained after the solver is killed.
const waitDelay = 2 * time.Second

// Runner submits a dataset to a solver and returns its raw output. Errors
// are reserved for failures preparing the input; anything that happens to
// the solver itself is reported through RawOutput.
type Runner interface {
	Submit(ctx context.Context, ds Dataset) (RawOutput, error)
}

// ProcessConfig describes the solver executable.
type ProcessConfig struct {
	Command string
	// Args may contain the placeholders {data_dir} and {workspace}.
	Args          []string
	Timeout       time.Duration
	KeepWorkspace bool
}

// ProcessRunner runs the solver as a subprocess inside a fresh workspace per
// invocation.
type ProcessRunner struct {
	cfg    ProcessConfig
	root   *storage.WorkspaceRoot
	logger *zap.Logger
}

// NewProcessRunner wires a subprocess runner.
func NewProcessRunner(cfg ProcessConfig, root *storage.WorkspaceRoot, logger *zap.Logger) *ProcessRunner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProcessRunner{cfg: cfg, root: root, logger: logger.With(zap.String("component", "solver-process"))}
}

// Submit stages ds, runs the solver to completion and captures its output.
func (p *ProcessRunner) Submit(ctx context.Context, ds Dataset) (RawOutput, error) {
	if p.cfg.Command == "" {
		return RawOutput{}, errors.New("solver command is not configured")
	}
	if err := ds.Validate(); err != nil {
		return RawOutput{}, err
	}

	ws, err := p.root.Acquire()
	if err != nil {
		return RawOutput{}, err
	}
	if p.cfg.KeepWorkspace {
		p.logger.Debug("keeping solver workspace", zap.String("workspace", ws.Dir()))
		defer p.root.Release(ws)
	} else {
		defer func() {
			if err := ws.Cleanup(); err != nil {
				p.logger.Warn("solver workspace cleanup failed", zap.String("workspace", ws.Dir()), zap.Error(err))
			}
		}()
	}

	dataDir, err := Stage(ws, ds)
	if err != nil {
		return RawOutput{}, fmt.Errorf("stage solver input: %w", err)
	}

	if p.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.cfg.Timeout)
		defer cancel()
	}

	args := expandArgs(p.cfg.Args, ws.Dir(), dataDir)
	cmd := exec.CommandContext(ctx, p.cfg.Command, args...)
	cmd.Dir = ws.Dir()
	cmd.WaitDelay = waitDelay
	cmd.Env = append(os.Environ(),
		"TIMETABLE_DATA_DIR="+dataDir,
		"TIMETABLE_WORKSPACE="+ws.Dir(),
	)

	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = &stdoutBuf
	cmd.Stderr = &stderrBuf

	p.logger.Info("solver started",
		zap.String("command", p.cfg.Command),
		zap.Strings("args", args),
		zap.Int("teachers", len(ds.Teachers)),
		zap.Int("courses", len(ds.Courses)),
		zap.Int("slots", len(ds.Slots)),
	)

	start := time.Now()
	runErr := cmd.Run()
	out := RawOutput{
		Stdout:   stdoutBuf.String(),
		Stderr:   stderrBuf.String(),
		Duration: time.Since(start),
	}

	var exitErr *exec.ExitError
	switch {
	case runErr == nil:
		out.ExitCode = 0
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		out.ExitCode = -1
		out.StartErr = fmt.Errorf("solver timed out after %s", p.cfg.Timeout)
	case errors.As(runErr, &exitErr):
		out.ExitCode = exitErr.ExitCode()
		if out.ExitCode < 0 {
			out.StartErr = runErr
		}
	default:
		out.ExitCode = -1
		out.StartErr = runErr
	}

	p.logger.Info("solver finished",
		zap.Int("exit_code", out.ExitCode),
		zap.Duration("duration", out.Duration),
		zap.Int("stdout_bytes", len(out.Stdout)),
		zap.Int("stderr_bytes", len(out.Stderr)),
	)
	return out, nil
}

// expandArgs substitutes placeholders and pins relative paths that exist in
// the server's working directory, since the solver runs inside the workspace.
func expandArgs(args []string, workspace, dataDir string) []string {
	result := make([]string, 0, len(args))
	for _, arg := range args {
		arg = strings.ReplaceAll(arg, "{data_dir}", dataDir)
		arg = strings.ReplaceAll(arg, "{workspace}", workspace)
		if !strings.HasPrefix(arg, "-") && !filepath.IsAbs(arg) {
			if _, err := os.Stat(arg); err == nil {
				if abs, err := filepath.Abs(arg); err == nil {
					arg = abs
				}
			}
		}
		result = append(result, arg)
	}
	return result
}
