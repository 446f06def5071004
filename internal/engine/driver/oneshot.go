package driver

import (
	"context"

	"go.trai.ch/zerr"

	"go.trai.ch/mason/internal/adapters/fileapi"
	"go.trai.ch/mason/internal/core/domain"
	"go.trai.ch/mason/internal/core/ports"
)

// oneshotBackend runs one cmake subprocess per configure and reads the code
// model and input list back through the file api.
type oneshotBackend struct {
	runner    ports.Runner
	fileAPI   *fileapi.Reader
	cmakePath string
}

func newOneshotBackend(runner ports.Runner, fileAPI *fileapi.Reader, cmakePath string) *oneshotBackend {
	return &oneshotBackend{runner: runner, fileAPI: fileAPI, cmakePath: cmakePath}
}

func (b *oneshotBackend) Configure(ctx context.Context, s *session, args []string, consumer ports.OutputConsumer) (int, error) {
	// The query must exist before the tool runs or no reply is written.
	if err := b.fileAPI.WriteQuery(s.binaryDir); err != nil {
		return domain.RetGeneralError, err
	}

	argv := append(generatorArguments(s), args...)
	code, err := b.runner.Run(ctx, ports.RunRequest{
		Program: b.cmakePath,
		Args:    argv,
		Dir:     s.sourceDir,
		Env:     s.env,
	}, consumer)
	if err != nil {
		return code, zerr.Wrap(err, domain.ErrConfigureFailed.Error())
	}
	return code, nil
}

func (b *oneshotBackend) CodeModel(_ context.Context, s *session) (*domain.CodeModel, error) {
	return b.fileAPI.ReadCodeModel(s.binaryDir)
}

func (b *oneshotBackend) InputFiles(_ context.Context, s *session) ([]string, error) {
	return b.fileAPI.ReadInputs(s.binaryDir)
}

func (b *oneshotBackend) Dispose(context.Context) error { return nil }
