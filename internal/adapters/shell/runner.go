// Package shell runs the build tool as a subprocess, streaming its output
// line by line to a consumer.
package shell

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"

	"go.trai.ch/mason/internal/core/ports"
	"go.trai.ch/zerr"
)

// Runner implements ports.Runner using os/exec with separate stdout and
// stderr pipes so diagnostics can be told apart from regular output.
type Runner struct {
	logger ports.Logger

	mu      sync.Mutex
	current *exec.Cmd
}

// NewRunner creates a subprocess runner.
func NewRunner(logger ports.Logger) *Runner {
	return &Runner{logger: logger}
}

// Run executes the request and streams each line to the consumer. A non-zero
// exit from the child is not an error here; the code is returned as-is.
func (r *Runner) Run(ctx context.Context, req ports.RunRequest, consumer ports.OutputConsumer) (int, error) {
	cmd := r.command(ctx, req)

	stdout := &lineWriter{sink: consumer.Output}
	stderr := &lineWriter{sink: consumer.Error}
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	r.logger.Debug("running " + strings.Join(cmd.Args, " "))
	if err := cmd.Start(); err != nil {
		return -1, zerr.With(zerr.Wrap(err, "failed to start command"), "program", req.Program)
	}
	r.setCurrent(cmd)
	err := cmd.Wait()
	r.setCurrent(nil)

	// Flush any trailing partial line.
	_ = stdout.Close()
	_ = stderr.Close()

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return exitErr.ExitCode(), nil
		}
		return -1, zerr.Wrap(err, "command failed")
	}
	return 0, nil
}

// Capture executes the request and returns its combined output. Some tools
// print version banners to stderr, so both streams are captured. A non-zero
// exit still yields the output.
func (r *Runner) Capture(ctx context.Context, req ports.RunRequest) (string, error) {
	cmd := r.command(ctx, req)

	var buf bytes.Buffer
	cmd.Stdout = &buf
	cmd.Stderr = &buf

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return "", zerr.With(zerr.Wrap(err, "failed to run command"), "program", req.Program)
		}
	}
	return buf.String(), nil
}

// Kill terminates the currently running subprocess, if any.
func (r *Runner) Kill() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.current == nil || r.current.Process == nil {
		return nil
	}
	return r.current.Process.Kill()
}

func (r *Runner) command(ctx context.Context, req ports.RunRequest) *exec.Cmd {
	env := req.Env
	if env == nil {
		env = os.Environ()
	}

	// Resolve the program against the request environment's PATH so kit
	// environments can point at toolchains outside the parent PATH.
	program := req.Program
	if !filepath.IsAbs(program) {
		if resolved, err := lookPath(program, env); err == nil {
			program = resolved
		}
	}

	cmd := exec.CommandContext(ctx, program, req.Args...) //nolint:gosec // user provided command
	if len(cmd.Args) > 0 {
		cmd.Args[0] = req.Program
	}
	cmd.Dir = req.Dir
	cmd.Env = env
	return cmd
}

func (r *Runner) setCurrent(cmd *exec.Cmd) {
	r.mu.Lock()
	r.current = cmd
	r.mu.Unlock()
}

// lineWriter buffers writes and emits complete lines to sink.
type lineWriter struct {
	sink func(line string)
	buf  []byte
}

func (w *lineWriter) Write(p []byte) (int, error) {
	w.buf = append(w.buf, p...)
	for {
		i := bytes.IndexByte(w.buf, '\n')
		if i < 0 {
			break
		}
		w.emit(w.buf[:i])
		w.buf = w.buf[i+1:]
	}
	return len(p), nil
}

func (w *lineWriter) Close() error {
	if len(w.buf) > 0 {
		w.emit(w.buf)
		w.buf = nil
	}
	return nil
}

func (w *lineWriter) emit(line []byte) {
	w.sink(strings.TrimSuffix(string(line), "\r"))
}

// lookPath searches for an executable in the directories named by the PATH
// entry of env.
func lookPath(file string, env []string) (string, error) {
	var path string
	for _, e := range env {
		if strings.HasPrefix(e, "PATH=") {
			path = strings.TrimPrefix(e, "PATH=")
			break
		}
	}
	if path == "" {
		return "", exec.ErrNotFound
	}

	for _, dir := range filepath.SplitList(path) {
		if dir == "" {
			// Unix shell semantics: path element "" means "."
			dir = "."
		}
		candidate := filepath.Join(dir, file)
		if err := findExecutable(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", exec.ErrNotFound
}

func findExecutable(file string) error {
	info, err := os.Stat(file)
	if err != nil {
		return err
	}
	if info.Mode().IsRegular() && info.Mode().Perm()&0o111 != 0 {
		return nil
	}
	return fs.ErrPermission
}
