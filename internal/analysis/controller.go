package analysis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"lingocast/internal/config"
	"lingocast/internal/logging"
	"lingocast/internal/services"
	"lingocast/internal/services/llm"
	"lingocast/internal/transcript"
)

// Analyzer produces the analysis of one line.
type Analyzer interface {
	Analyze(ctx context.Context, req Request) (*Result, error)
}

// Pauser stops playback; playback.Clock satisfies it.
type Pauser interface {
	Pause() error
}

// State is the controller lifecycle state.
type State int

const (
	Idle State = iota
	Pending
	Ready
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Pending:
		return "pending"
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Snapshot is a copy of the controller state.
type Snapshot struct {
	State  State
	Token  string
	Line   int
	Text   string
	Result *Result
	Err    error
}

var errNoAnalyzer = errors.New("no analyzer configured")

// Controller serializes analysis requests.
type Controller struct {
	analyzer Analyzer
	pauser   Pauser
	timeout  time.Duration
	logger   *slog.Logger
	onChange func(Snapshot)

	mu          sync.Mutex
	current     Snapshot
	translation string
	version     uint64

	notifyMu sync.Mutex
	notified uint64

	wg sync.WaitGroup
}

// Option customizes a Controller.
type Option func(*Controller)

// WithTimeout bounds each request.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Controller) { c.timeout = timeout }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) { c.logger = logger }
}

// WithOnChange registers a callback for state changes. Notifications are
// delivered in order; a stale notification is never delivered after a
// newer one.
func WithOnChange(fn func(Snapshot)) Option {
	return func(c *Controller) { c.onChange = fn }
}

// NewController returns an Idle controller. analyzer may be nil, in which
// case every Open fails.
func NewController(analyzer Analyzer, pauser Pauser, opts ...Option) *Controller {
	c := &Controller{
		analyzer: analyzer,
		pauser:   pauser,
		timeout:  time.Minute,
		current:  Snapshot{Line: -1},
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = logging.NewComponentLogger(c.logger, "analysis")
	return c
}

// NewAnalyzer builds the analyzer selected by cfg.Analysis.Provider. It
// returns nil without error when the backend provider has no API base URL.
func NewAnalyzer(cfg *config.Config) (Analyzer, error) {
	switch cfg.Analysis.Provider {
	case "llm":
		settings := cfg.GetLLM()
		if settings.APIKey == "" {
			return nil, services.Wrap(services.ErrConfiguration, "analysis", "configure llm", "llm.api_key or OPENROUTER_API_KEY is required", nil)
		}
		client := llm.NewClient(llm.Config{
			APIKey:         settings.APIKey,
			BaseURL:        settings.BaseURL,
			Model:          settings.Model,
			Referer:        settings.Referer,
			Title:          settings.Title,
			TimeoutSeconds: settings.TimeoutSeconds,
		})
		return NewLLM(client), nil
	default:
		if cfg.Transcripts.APIBaseURL == "" {
			return nil, nil
		}
		backend, err := NewBackend(cfg.Transcripts.APIBaseURL, nil)
		if err != nil {
			return nil, err
		}
		return backend, nil
	}
}

// Snapshot returns the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Open pauses playback and requests analysis of line. It returns the
// request token. A pending request for another line is superseded.
func (c *Controller) Open(ctx context.Context, index int, line transcript.Line) string {
	if c.pauser != nil {
		if err := c.pauser.Pause(); err != nil {
			logging.WarnWithContext(c.logger, "failed to pause playback for analysis", "analysis_pause_failed",
				logging.Error(err),
				logging.String(logging.FieldImpact, "audio keeps playing while the analysis loads"),
			)
		}
	}

	token := uuid.NewString()
	text := strings.TrimSpace(line.Text)

	c.mu.Lock()
	c.version++
	c.translation = line.Translation
	c.current = Snapshot{State: Pending, Token: token, Line: index, Text: text}
	snap, version := c.current, c.version
	c.mu.Unlock()
	c.notify(snap, version)

	switch {
	case text == "":
		c.finish(token, nil, services.Wrap(services.ErrValidation, "analysis", "open", "line has no text", nil))
		return token
	case c.analyzer == nil:
		c.finish(token, nil, services.Wrap(services.ErrConfiguration, "analysis", "open", "", errNoAnalyzer))
		return token
	}

	logger := c.logger.With(logging.String(logging.FieldCorrelationID, token), logging.Int("line", index))
	logger.Info("analysis requested", logging.Int("chars", len(text)))

	req := Request{Text: text, Translation: line.Translation, RequestID: token}
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		reqCtx := ctx
		if c.timeout > 0 {
			var cancel context.CancelFunc
			reqCtx, cancel = context.WithTimeout(ctx, c.timeout)
			defer cancel()
		}
		started := time.Now()
		result, err := c.analyzer.Analyze(reqCtx, req)
		if err != nil && !errors.Is(err, services.ErrAnalysis) {
			err = services.Wrap(services.ErrAnalysis, "analysis", "analyze", "", err)
		}
		if !c.finish(token, result, err) {
			logger.Debug("stale analysis response dropped")
			return
		}
		if err != nil {
			logging.WarnWithContext(logger, "analysis failed", "analysis_failed",
				logging.Error(err),
				logging.String(logging.FieldImpact, "the analysis panel shows an error"),
				logging.String(logging.FieldErrorHint, "retry the analysis or check the analysis provider settings"),
			)
			return
		}
		logger.Info("analysis ready",
			logging.Int("vocabulary", len(result.Vocabulary)),
			logging.Int("grammar_points", len(result.GrammarPoints)),
			logging.Duration("elapsed", time.Since(started).Round(time.Millisecond)),
		)
	}()
	return token
}

// finish applies a response when token is still current.
func (c *Controller) finish(token string, result *Result, err error) bool {
	c.mu.Lock()
	if c.current.State != Pending || c.current.Token != token {
		c.mu.Unlock()
		return false
	}
	c.version++
	if err != nil {
		c.current.State = Failed
		c.current.Err = err
	} else {
		c.current.State = Ready
		c.current.Result = result
	}
	snap, version := c.current, c.version
	c.mu.Unlock()
	c.notify(snap, version)
	return true
}

// Retry re-opens the failed line.
func (c *Controller) Retry(ctx context.Context) (string, error) {
	c.mu.Lock()
	snap, translation := c.current, c.translation
	c.mu.Unlock()
	if snap.State != Failed {
		return "", services.Wrap(services.ErrValidation, "analysis", "retry", fmt.Sprintf("nothing to retry in state %s", snap.State), nil)
	}
	return c.Open(ctx, snap.Line, transcript.Line{Text: snap.Text, Translation: translation}), nil
}

// Close returns to Idle. A pending response is ignored when it arrives.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.current.State == Idle {
		c.mu.Unlock()
		return
	}
	c.version++
	c.current = Snapshot{Line: -1}
	c.translation = ""
	snap, version := c.current, c.version
	c.mu.Unlock()
	c.notify(snap, version)
}

// Wait blocks until every in-flight request has returned.
func (c *Controller) Wait() {
	c.wg.Wait()
}

func (c *Controller) notify(snap Snapshot, version uint64) {
	if c.onChange == nil {
		return
	}
	c.notifyMu.Lock()
	defer c.notifyMu.Unlock()
	if version <= c.notified {
		return
	}
	c.notified = version
	c.onChange(snap)
}
