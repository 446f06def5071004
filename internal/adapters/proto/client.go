package proto

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"sync"
	"sync/atomic"

	"go.trai.ch/mason/internal/core/domain"
	"go.trai.ch/mason/internal/core/ports"
	"go.trai.ch/zerr"
)

// State is the client lifecycle state.
type State int32

const (
	// StateNotStarted is the state before Start.
	StateNotStarted State = iota
	// StateStarting covers spawn, hello and handshake; requests issued now
	// are queued until Ready.
	StateStarting
	// StateReady accepts requests.
	StateReady
	// StateConfiguring is Ready with a configure in flight.
	StateConfiguring
	// StateComputing is Ready with a compute in flight.
	StateComputing
	// StateShuttingDown rejects new requests while draining.
	StateShuttingDown
	// StateStopped is terminal until the next Start.
	StateStopped
)

// Subscriber receives asynchronous notifications. Notifications are
// dispatched immediately and are never matched against a pending request.
type Subscriber interface {
	// Progress reports configure/compute progress.
	Progress(message string, minimum, current, maximum int)

	// Message relays a free-text log line from the server.
	Message(title, text string)

	// Signal reports a named server signal such as a dirty file watch.
	Signal(name string)
}

// StartParams bind one server lifetime to a directory pair and generator.
type StartParams struct {
	SourceDir string
	BinaryDir string
	Generator domain.Generator
}

type pendingRequest struct {
	kind   string
	cookie string
	done   chan requestResult
}

type requestResult struct {
	raw json.RawMessage
	err error
}

// queuedSend is a request accepted while Starting, flushed once Ready.
type queuedSend struct {
	req  *pendingRequest
	body any
}

// Client owns one persistent server subprocess and multiplexes logical
// requests over it. Replies carry no correlation IDs in the legacy protocol:
// each is matched to the oldest pending request of the same kind, with the
// cookie verified when the server echoes one.
type Client struct {
	logger ports.Logger
	spawn  Spawner
	sub    Subscriber

	mu        sync.Mutex
	state     State
	transport Transport
	pending   map[string][]*pendingRequest
	queued    []queuedSend
	started   StartParams
	hello     *helloBody

	readerDone chan struct{}
	cookieSeq  atomic.Uint64
}

// NewClient creates a client; the server is spawned on Start.
func NewClient(logger ports.Logger, spawn Spawner, sub Subscriber) *Client {
	return &Client{
		logger:  logger,
		spawn:   spawn,
		sub:     sub,
		state:   StateNotStarted,
		pending: make(map[string][]*pendingRequest),
	}
}

// State returns the current lifecycle state.
func (c *Client) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// StartedWith returns the parameters of the running server, used by the
// driver to detect directory or generator changes that force a restart.
func (c *Client) StartedWith() (StartParams, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	running := c.state != StateNotStarted && c.state != StateStopped
	return c.started, running
}

// Start spawns the server, waits for its hello and completes the handshake.
func (c *Client) Start(ctx context.Context, params StartParams) error {
	c.mu.Lock()
	if c.state != StateNotStarted && c.state != StateStopped {
		c.mu.Unlock()
		return domain.Detail(domain.ErrProtocolHandshake, "state", int(c.state))
	}
	c.state = StateStarting
	c.started = params
	c.pending = make(map[string][]*pendingRequest)
	c.queued = nil
	c.mu.Unlock()

	transport, err := c.spawn(ctx)
	if err != nil {
		c.setState(StateStopped)
		return zerr.Wrap(err, domain.ErrProtocolHandshake.Error())
	}

	helloCh := make(chan helloBody, 1)
	c.mu.Lock()
	c.transport = transport
	c.readerDone = make(chan struct{})
	c.mu.Unlock()
	go c.readLoop(transport, helloCh)

	select {
	case <-ctx.Done():
		_ = transport.Kill()
		c.setState(StateStopped)
		return ctx.Err()
	case hello, ok := <-helloCh:
		if !ok {
			c.setState(StateStopped)
			return domain.Detail(domain.ErrProtocolHandshake, "reason", "server exited before hello")
		}
		c.mu.Lock()
		c.hello = &hello
		c.mu.Unlock()
	}

	version := pickProtocolVersion(c.hello.SupportedProtocolVersions)
	handshake := handshakeRequest{
		Type:            kindHandshake,
		Cookie:          c.nextCookie(),
		ProtocolVersion: version,
		SourceDirectory: params.SourceDir,
		BuildDirectory:  params.BinaryDir,
		Generator:       params.Generator.Name,
		Platform:        params.Generator.Platform,
		Toolset:         params.Generator.Toolset,
	}
	if _, err := c.roundTrip(ctx, kindHandshake, handshake.Cookie, handshake); err != nil {
		_ = transport.Kill()
		c.setState(StateStopped)
		return zerr.Wrap(err, domain.ErrProtocolHandshake.Error())
	}

	c.mu.Lock()
	c.state = StateReady
	queued := c.queued
	c.queued = nil
	c.mu.Unlock()
	for _, q := range queued {
		if err := writeFrame(transport, q.body); err != nil {
			c.removePending(q.req)
			q.req.done <- requestResult{err: err}
		}
	}
	return nil
}

// Configure runs a configure with the given cache arguments followed by a
// compute, returning only when the configuration is generated.
func (c *Client) Configure(ctx context.Context, cacheArguments []string) error {
	cookie := c.nextCookie()
	req := configureRequest{Type: kindConfigure, Cookie: cookie, CacheArguments: cacheArguments}
	c.setBusy(StateConfiguring)
	_, err := c.roundTrip(ctx, kindConfigure, cookie, req)
	c.setBusy(StateReady)
	if err != nil {
		return err
	}

	cookie = c.nextCookie()
	c.setBusy(StateComputing)
	_, err = c.roundTrip(ctx, kindCompute, cookie, plainRequest{Type: kindCompute, Cookie: cookie})
	c.setBusy(StateReady)
	return err
}

// CodeModel fetches the configured projects and targets.
func (c *Client) CodeModel(ctx context.Context) (*domain.CodeModel, error) {
	cookie := c.nextCookie()
	raw, err := c.roundTrip(ctx, kindCodeModel, cookie, plainRequest{Type: kindCodeModel, Cookie: cookie})
	if err != nil {
		return nil, err
	}
	var reply codeModelReply
	if err := json.Unmarshal(raw, &reply); err != nil {
		return nil, zerr.Wrap(err, domain.ErrProtocolMalformed.Error())
	}
	return convertCodeModel(reply), nil
}

// Cache fetches the server's view of the persisted cache.
func (c *Client) Cache(ctx context.Context) ([]CacheEntryMsg, error) {
	cookie := c.nextCookie()
	raw, err := c.roundTrip(ctx, kindCache, cookie, plainRequest{Type: kindCache, Cookie: cookie})
	if err != nil {
		return nil, err
	}
	var reply cacheReply
	if err := json.Unmarshal(raw, &reply); err != nil {
		return nil, zerr.Wrap(err, domain.ErrProtocolMalformed.Error())
	}
	return reply.Cache, nil
}

// Inputs fetches the list of files that fed the last configure, excluding
// the tool's own temporary and installed files.
func (c *Client) Inputs(ctx context.Context) ([]string, error) {
	cookie := c.nextCookie()
	raw, err := c.roundTrip(ctx, kindCMakeInputs, cookie, plainRequest{Type: kindCMakeInputs, Cookie: cookie})
	if err != nil {
		return nil, err
	}
	var reply cmakeInputsReply
	if err := json.Unmarshal(raw, &reply); err != nil {
		return nil, zerr.Wrap(err, domain.ErrProtocolMalformed.Error())
	}
	var files []string
	for _, group := range reply.BuildFiles {
		if group.IsCMake || group.IsTemporary {
			continue
		}
		for _, src := range group.Sources {
			if !filepath.IsAbs(src) {
				src = filepath.Join(reply.SourceDirectory, src)
			}
			files = append(files, src)
		}
	}
	return files, nil
}

// Shutdown stops the server. Graceful shutdown closes the write side and
// waits for exit; forced shutdown kills the process. Safe to call in any
// state.
func (c *Client) Shutdown(_ context.Context, graceful bool) error {
	c.mu.Lock()
	if c.state == StateStopped || c.state == StateNotStarted {
		c.mu.Unlock()
		return nil
	}
	c.state = StateShuttingDown
	transport := c.transport
	done := c.readerDone
	c.mu.Unlock()

	if transport != nil {
		if graceful {
			_ = transport.CloseWrite()
		} else {
			_ = transport.Kill()
		}
		_ = transport.Wait()
	}
	if done != nil {
		<-done
	}

	c.mu.Lock()
	c.state = StateStopped
	c.transport = nil
	c.failAllPendingLocked(domain.ErrProtocolStopped)
	c.mu.Unlock()
	return nil
}

func (c *Client) setState(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

// setBusy moves between Ready and the busy states without clobbering a
// shutdown that raced in.
func (c *Client) setBusy(s State) {
	c.mu.Lock()
	if c.state == StateReady || c.state == StateConfiguring || c.state == StateComputing {
		c.state = s
	}
	c.mu.Unlock()
}

func (c *Client) nextCookie() string {
	return fmt.Sprintf("mason-%d", c.cookieSeq.Add(1))
}

// roundTrip registers a pending request, writes the frame and waits for the
// matching reply or error.
func (c *Client) roundTrip(ctx context.Context, kind, cookie string, body any) (json.RawMessage, error) {
	c.mu.Lock()
	switch c.state {
	case StateStopped, StateNotStarted, StateShuttingDown:
		c.mu.Unlock()
		return nil, domain.Detail(domain.ErrProtocolStopped, "kind", kind)
	default:
	}
	transport := c.transport
	req := &pendingRequest{kind: kind, cookie: cookie, done: make(chan requestResult, 1)}
	c.pending[kind] = append(c.pending[kind], req)
	deferred := c.state == StateStarting && kind != kindHandshake
	if deferred {
		c.queued = append(c.queued, queuedSend{req: req, body: body})
	}
	c.mu.Unlock()

	if !deferred {
		if err := writeFrame(transport, body); err != nil {
			c.removePending(req)
			return nil, err
		}
	}

	select {
	case <-ctx.Done():
		c.removePending(req)
		return nil, ctx.Err()
	case res := <-req.done:
		return res.raw, res.err
	}
}

func (c *Client) removePending(req *pendingRequest) {
	c.mu.Lock()
	defer c.mu.Unlock()
	queue := c.pending[req.kind]
	for i, p := range queue {
		if p == req {
			c.pending[req.kind] = append(queue[:i], queue[i+1:]...)
			return
		}
	}
}

// popPendingLocked takes the oldest pending request of the given kind.
func (c *Client) popPendingLocked(kind string) *pendingRequest {
	queue := c.pending[kind]
	if len(queue) == 0 {
		return nil
	}
	req := queue[0]
	c.pending[kind] = queue[1:]
	return req
}

func (c *Client) failAllPendingLocked(err error) {
	for kind, queue := range c.pending {
		for _, req := range queue {
			req.done <- requestResult{err: zerr.With(err, "kind", kind)}
		}
	}
	c.pending = make(map[string][]*pendingRequest)
	c.queued = nil
}

// readLoop pumps frames off the server stream until it closes. Notifications
// go straight to the subscriber; replies and errors resolve pending requests.
func (c *Client) readLoop(transport Transport, helloCh chan<- helloBody) {
	reader := bufio.NewReader(transport.Reader())
	defer func() {
		c.mu.Lock()
		c.failAllPendingLocked(domain.ErrProtocolStopped)
		if c.state != StateShuttingDown {
			c.state = StateStopped
		}
		done := c.readerDone
		c.mu.Unlock()
		close(helloCh)
		if done != nil {
			close(done)
		}
	}()

	for {
		payload, err := readFrame(reader)
		if err != nil {
			if err != io.EOF {
				c.logger.Error(err)
			}
			return
		}

		var env envelope
		if err := json.Unmarshal(payload, &env); err != nil {
			c.logger.Error(zerr.Wrap(err, domain.ErrProtocolMalformed.Error()))
			continue
		}
		env.Raw = payload

		switch env.Type {
		case typeHello:
			var hello helloBody
			if err := json.Unmarshal(payload, &hello); err != nil {
				c.logger.Error(zerr.Wrap(err, domain.ErrProtocolHandshake.Error()))
				return
			}
			helloCh <- hello
		case typeProgress:
			if c.sub != nil {
				c.sub.Progress(env.ProgressMessage, env.ProgressMinimum, env.ProgressCurrent, env.ProgressMaximum)
			}
		case typeMessage:
			if c.sub != nil {
				c.sub.Message(env.Title, env.Message)
			}
		case typeSignal:
			if c.sub != nil {
				c.sub.Signal(env.Name)
			}
		case typeReply:
			c.resolve(env, nil)
		case typeError:
			c.resolve(env, domain.Detail(domain.ErrProtocolError, "message", env.ErrorMessage))
		default:
			c.logger.Error(domain.Detail(domain.ErrProtocolMalformed, "type", env.Type))
		}
	}
}

// resolve matches a reply or error to the oldest pending request of its
// inReplyTo kind.
func (c *Client) resolve(env envelope, failure error) {
	c.mu.Lock()
	req := c.popPendingLocked(env.InReplyTo)
	c.mu.Unlock()

	if req == nil {
		c.logger.Error(domain.Detail(domain.ErrProtocolMalformed, "unmatched_reply", env.InReplyTo))
		return
	}
	if failure == nil && env.Cookie != "" && env.Cookie != req.cookie {
		failure = zerr.With(domain.Detail(domain.ErrProtocolMalformed, "cookie", env.Cookie), "expected", req.cookie)
	}
	req.done <- requestResult{raw: env.Raw, err: failure}
}

// pickProtocolVersion chooses the highest major version the server offers.
func pickProtocolVersion(versions []ProtocolVersion) ProtocolVersion {
	best := ProtocolVersion{Major: 1}
	for _, v := range versions {
		if v.Major > best.Major || (v.Major == best.Major && v.Minor > best.Minor) {
			best = v
		}
	}
	return best
}

func convertCodeModel(reply codeModelReply) *domain.CodeModel {
	model := &domain.CodeModel{}
	for _, cfg := range reply.Configurations {
		model.Configurations = append(model.Configurations, cfg.Name)
		for _, proj := range cfg.Projects {
			project := domain.Project{Name: proj.Name, SourceDir: proj.SourceDirectory}
			for _, target := range proj.Targets {
				project.Targets = append(project.Targets, domain.Target{
					Name:      target.Name,
					Type:      domain.TargetType(target.Type),
					SourceDir: target.SourceDirectory,
					Artifacts: target.Artifacts,
				})
			}
			model.Projects = append(model.Projects, project)
		}
	}
	return model
}
