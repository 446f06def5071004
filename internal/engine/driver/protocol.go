package driver

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/cespare/xxhash/v2"

	"go.trai.ch/mason/internal/adapters/proto"
	"go.trai.ch/mason/internal/core/domain"
	"go.trai.ch/mason/internal/core/ports"
)

// protocolBackend drives the persistent server. The client is started
// lazily and restarted whenever the directories, generator or environment of
// the session no longer match what the server was handshaken with.
type protocolBackend struct {
	logger    ports.Logger
	cmakePath string
	onDirty   func()

	mu       sync.Mutex
	client   *proto.Client
	envSum   uint64
	consumer ports.OutputConsumer
}

func newProtocolBackend(logger ports.Logger, cmakePath string, onDirty func()) *protocolBackend {
	return &protocolBackend{logger: logger, cmakePath: cmakePath, onDirty: onDirty}
}

// Progress implements proto.Subscriber.
func (b *protocolBackend) Progress(message string, minimum, current, maximum int) {
	span := maximum - minimum
	if span <= 0 {
		return
	}
	b.logger.Debug(fmt.Sprintf("%s (%d%%)", message, (current-minimum)*100/span))
}

// Message implements proto.Subscriber. Server messages carry the tool's
// display output and are forwarded to the active consumer line by line.
func (b *protocolBackend) Message(title, text string) {
	b.mu.Lock()
	consumer := b.consumer
	b.mu.Unlock()
	if consumer == nil {
		return
	}
	if title != "" {
		consumer.Output(title)
	}
	for line := range strings.Lines(text) {
		consumer.Output(strings.TrimRight(line, "\n"))
	}
}

// Signal implements proto.Subscriber. The server raises dirty when an input
// of the current configuration changed on disk.
func (b *protocolBackend) Signal(name string) {
	if name == "dirty" && b.onDirty != nil {
		b.onDirty()
	}
}

// ensure returns a client handshaken with the session's parameters,
// restarting the server when they changed since the last start.
func (b *protocolBackend) ensure(ctx context.Context, s *session) (*proto.Client, error) {
	params := proto.StartParams{
		SourceDir: s.sourceDir,
		BinaryDir: s.binaryDir,
		Generator: s.generator,
	}
	envSum := xxhash.Sum64String(strings.Join(s.env, "\x00"))

	b.mu.Lock()
	client := b.client
	sameEnv := envSum == b.envSum
	b.mu.Unlock()

	if client != nil {
		if started, running := client.StartedWith(); running && started == params && sameEnv {
			return client, nil
		}
		_ = client.Shutdown(ctx, true)
	}

	client = proto.NewClient(b.logger, proto.NewServerSpawner(b.cmakePath, s.env, s.binaryDir), b)
	if err := client.Start(ctx, params); err != nil {
		return nil, err
	}

	b.mu.Lock()
	b.client = client
	b.envSum = envSum
	b.mu.Unlock()
	return client, nil
}

func (b *protocolBackend) Configure(ctx context.Context, s *session, args []string, consumer ports.OutputConsumer) (int, error) {
	b.mu.Lock()
	b.consumer = consumer
	b.mu.Unlock()
	defer func() {
		b.mu.Lock()
		b.consumer = nil
		b.mu.Unlock()
	}()

	client, err := b.ensure(ctx, s)
	if err != nil {
		return domain.RetProtocolError, err
	}

	if err := client.Configure(ctx, args); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return domain.RetGeneralError, err
		}
		if errors.Is(err, domain.ErrProtocolError) {
			// The server reported the configure itself failed; the client
			// stays usable for the next attempt.
			b.logger.Error(err)
			return domain.RetProtocolError, nil
		}
		// Transport-level trouble; restart lazily on next use.
		b.logger.Error(err)
		b.Interrupt(ctx)
		return domain.RetProtocolError, nil
	}
	return domain.RetOK, nil
}

func (b *protocolBackend) CodeModel(ctx context.Context, s *session) (*domain.CodeModel, error) {
	client, err := b.ensure(ctx, s)
	if err != nil {
		return nil, err
	}
	return client.CodeModel(ctx)
}

func (b *protocolBackend) InputFiles(ctx context.Context, s *session) ([]string, error) {
	client, err := b.ensure(ctx, s)
	if err != nil {
		return nil, err
	}
	return client.Inputs(ctx)
}

// Interrupt kills the server so the next use restarts it.
func (b *protocolBackend) Interrupt(ctx context.Context) {
	b.mu.Lock()
	client := b.client
	b.client = nil
	b.mu.Unlock()
	if client != nil {
		_ = client.Shutdown(ctx, false)
	}
}

func (b *protocolBackend) Dispose(ctx context.Context) error {
	b.mu.Lock()
	client := b.client
	b.client = nil
	b.mu.Unlock()
	if client == nil {
		return nil
	}
	return client.Shutdown(ctx, true)
}
