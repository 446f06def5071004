package proto

import (
	"context"
	"io"
	"os/exec"

	"go.trai.ch/zerr"
)

// Transport is the byte stream to one server process. Tests substitute
// in-memory pipes; production uses the subprocess's stdio.
type Transport interface {
	io.Writer

	// Reader returns the server-to-client stream.
	Reader() io.Reader

	// CloseWrite closes the client-to-server stream, the graceful half of a
	// shutdown.
	CloseWrite() error

	// Kill forcefully terminates the server process.
	Kill() error

	// Wait blocks until the server process has exited.
	Wait() error
}

// Spawner starts a server process and returns its transport.
type Spawner func(ctx context.Context) (Transport, error)

type cmdTransport struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout io.Reader
}

func (t *cmdTransport) Write(p []byte) (int, error) { return t.stdin.Write(p) }
func (t *cmdTransport) Reader() io.Reader           { return t.stdout }
func (t *cmdTransport) CloseWrite() error           { return t.stdin.Close() }
func (t *cmdTransport) Wait() error                 { return t.cmd.Wait() }

func (t *cmdTransport) Kill() error {
	if t.cmd.Process == nil {
		return nil
	}
	return t.cmd.Process.Kill()
}

// NewServerSpawner spawns `cmake -E server` with the given environment and
// working directory.
func NewServerSpawner(cmakePath string, env []string, dir string) Spawner {
	return func(ctx context.Context) (Transport, error) {
		//nolint:gosec // cmakePath comes from driver resolution, not user text
		cmd := exec.CommandContext(ctx, cmakePath, "-E", "server", "--experimental")
		cmd.Dir = dir
		cmd.Env = env

		stdin, err := cmd.StdinPipe()
		if err != nil {
			return nil, zerr.Wrap(err, "failed to open server stdin")
		}
		stdout, err := cmd.StdoutPipe()
		if err != nil {
			return nil, zerr.Wrap(err, "failed to open server stdout")
		}
		if err := cmd.Start(); err != nil {
			return nil, zerr.Wrap(err, "failed to start server process")
		}
		return &cmdTransport{cmd: cmd, stdin: stdin, stdout: stdout}, nil
	}
}
