package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"lingocast/internal/analysis"
	"lingocast/internal/config"
	"lingocast/internal/episode"
	"lingocast/internal/logging"
	"lingocast/internal/loop"
	"lingocast/internal/playback"
	"lingocast/internal/services"
	"lingocast/internal/syncengine"
	"lingocast/internal/transcript"
	"lingocast/internal/transcriptcache"
)

// DegradedBanner is shown while the fallback transcript is displayed.
const DegradedBanner = "Transcript generation failed. Showing a sample transcript instead of this episode's own."

// Loader resolves transcripts; transcriptcache.Cache satisfies it.
type Loader interface {
	Load(ctx context.Context, ep episode.Episode, onStatus transcriptcache.StatusFunc) transcriptcache.Result
}

// Session is one episode view.
type Session struct {
	loader   Loader
	clock    *playback.Clock
	loop     *loop.Controller
	engine   *syncengine.Engine
	analysis *analysis.Controller
	logger   *slog.Logger

	observer        syncengine.Observer
	autoScroll      bool
	analyzer        analysis.Analyzer
	analysisTimeout time.Duration
	onAnalysis      func(analysis.Snapshot)
	onStatus        func(episode.Episode, transcriptcache.Status)

	mu         sync.Mutex
	token      string
	cancel     context.CancelFunc
	episode    episode.Episode
	hasEpisode bool
	status     transcriptcache.Status
	result     transcriptcache.Result
	detach     func()
}

// Option customizes a Session.
type Option func(*Session)

// WithObserver receives highlight, scroll and loop events.
func WithObserver(observer syncengine.Observer) Option {
	return func(s *Session) { s.observer = observer }
}

// WithAutoScroll sets the initial auto-scroll preference.
func WithAutoScroll(enabled bool) Option {
	return func(s *Session) { s.autoScroll = enabled }
}

// WithAnalyzer sets the line analyzer.
func WithAnalyzer(analyzer analysis.Analyzer) Option {
	return func(s *Session) { s.analyzer = analyzer }
}

// WithAnalysisTimeout bounds each analysis request.
func WithAnalysisTimeout(timeout time.Duration) Option {
	return func(s *Session) { s.analysisTimeout = timeout }
}

// WithAnalysisObserver receives analysis state changes.
func WithAnalysisObserver(fn func(analysis.Snapshot)) Option {
	return func(s *Session) { s.onAnalysis = fn }
}

// WithStatusObserver receives load progress for the current episode.
// Progress from superseded loads is not delivered.
func WithStatusObserver(fn func(episode.Episode, transcriptcache.Status)) Option {
	return func(s *Session) { s.onStatus = fn }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) { s.logger = logger }
}

// New assembles a session around clock.
func New(loader Loader, clock *playback.Clock, opts ...Option) *Session {
	s := &Session{
		loader:          loader,
		clock:           clock,
		loop:            loop.NewController(),
		autoScroll:      true,
		analysisTimeout: time.Minute,
	}
	for _, opt := range opts {
		opt(s)
	}
	base := s.logger
	s.logger = logging.NewComponentLogger(base, "session")
	s.engine = syncengine.New(clock, s.loop,
		syncengine.WithObserver(s.observer),
		syncengine.WithAutoScroll(s.autoScroll),
		syncengine.WithLogger(base),
	)
	analysisOpts := []analysis.Option{
		analysis.WithTimeout(s.analysisTimeout),
		analysis.WithLogger(base),
	}
	if s.onAnalysis != nil {
		analysisOpts = append(analysisOpts, analysis.WithOnChange(s.onAnalysis))
	}
	s.analysis = analysis.NewController(s.analyzer, clock, analysisOpts...)
	return s
}

// NewFromConfig builds a session with the analyzer and playback settings
// from cfg. Options in extra are applied last.
func NewFromConfig(cfg *config.Config, loader Loader, clock *playback.Clock, logger *slog.Logger, extra ...Option) (*Session, error) {
	analyzer, err := analysis.NewAnalyzer(cfg)
	if err != nil {
		return nil, err
	}
	opts := []Option{
		WithAutoScroll(cfg.Playback.AutoScroll),
		WithAnalysisTimeout(cfg.AnalysisTimeout()),
		WithLogger(logger),
	}
	if analyzer != nil {
		opts = append(opts, WithAnalyzer(analyzer))
	}
	return New(loader, clock, append(opts, extra...)...), nil
}

// Load resolves the transcript for ep and makes it current. It blocks until
// the load finishes. applied is false when a newer Load superseded this one,
// in which case the session state was left alone.
func (s *Session) Load(ctx context.Context, ep episode.Episode) (result transcriptcache.Result, applied bool) {
	token := uuid.NewString()
	loadCtx, cancel := context.WithCancel(services.WithRequestID(ctx, token))

	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.token = token
	s.cancel = cancel
	s.episode = ep
	s.hasEpisode = true
	s.status = transcriptcache.StatusLoading
	s.result = transcriptcache.Result{}
	s.engine.SetTranscript(nil)
	s.loop.Clear()
	s.mu.Unlock()
	s.analysis.Close()

	logger := logging.WithContext(loadCtx, s.logger).With(logging.String("episode", ep.Label()))
	logger.Info("loading episode")

	result = s.loader.Load(loadCtx, ep, func(status transcriptcache.Status) {
		s.setStatus(token, ep, status)
	})

	s.mu.Lock()
	if s.token != token {
		s.mu.Unlock()
		cancel()
		logger.Info("episode load superseded",
			logging.Args(logging.DecisionAttrs("episode_load", "dropped", "superseded")...)...)
		return result, false
	}
	s.result = result
	s.cancel = nil
	s.engine.SetTranscript(result.Transcript)
	s.mu.Unlock()
	cancel()

	logger.Info("episode loaded",
		logging.String("source", string(result.Source)),
		logging.Bool("degraded", result.Degraded),
		logging.Int("lines", result.Transcript.Len()),
	)
	return result, true
}

func (s *Session) setStatus(token string, ep episode.Episode, status transcriptcache.Status) {
	s.mu.Lock()
	if s.token != token {
		s.mu.Unlock()
		return
	}
	s.status = status
	s.mu.Unlock()
	if s.onStatus != nil {
		s.onStatus(ep, status)
	}
}

// Attach drives the engine from the clock's time updates. The returned
// function detaches it. Attaching again replaces the earlier subscription.
// Hosts that use a FrameLoop call Tick instead.
func (s *Session) Attach() func() {
	unsubscribe := s.clock.Subscribe(func(pos float64) { s.engine.Tick(pos) })
	s.mu.Lock()
	previous := s.detach
	s.detach = unsubscribe
	s.mu.Unlock()
	if previous != nil {
		previous()
	}
	return unsubscribe
}

// Tick runs one engine step at pos.
func (s *Session) Tick(pos float64) syncengine.Frame {
	return s.engine.Tick(pos)
}

// Episode returns the episode most recently passed to Load.
func (s *Session) Episode() (episode.Episode, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.episode, s.hasEpisode
}

// Status returns the load status of the current episode.
func (s *Session) Status() transcriptcache.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Result returns the applied load result. Its Transcript is nil while a
// load is in flight.
func (s *Session) Result() transcriptcache.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result
}

// Transcript returns the current transcript, nil while loading.
func (s *Session) Transcript() *transcript.Transcript {
	return s.engine.Transcript()
}

// Banner returns the warning to show for a degraded transcript, or "".
func (s *Session) Banner() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.result.Degraded {
		return DegradedBanner
	}
	return ""
}

// SeekToLine moves playback to the start of line i.
func (s *Session) SeekToLine(i int) error {
	line, ok := s.Transcript().Line(i)
	if !ok {
		return services.Wrap(services.ErrValidation, "session", "seek to line", fmt.Sprintf("line %d out of range", i), nil)
	}
	return s.clock.Seek(line.Start)
}

// MarkLoop marks a loop point at the current position.
func (s *Session) MarkLoop() loop.Region {
	region := s.loop.Mark(s.clock.Position())
	s.logger.Debug("loop marked",
		logging.String("state", region.State.String()),
		logging.Seconds("a", region.A),
		logging.Seconds("b", region.B),
	)
	return region
}

// ClearLoop removes the loop.
func (s *Session) ClearLoop() {
	s.loop.Clear()
}

// SetLoop installs a loop between a and b.
func (s *Session) SetLoop(a, b float64) loop.Region {
	return s.loop.Set(a, b)
}

// Loop returns the current loop region.
func (s *Session) Loop() loop.Region {
	return s.loop.Region()
}

// CycleRate advances the playback rate.
func (s *Session) CycleRate() (float64, error) {
	return s.clock.CycleRate()
}

// TogglePlay flips between playing and paused.
func (s *Session) TogglePlay() error {
	return s.clock.Toggle()
}

// SetAutoScroll toggles scrolling to the active line.
func (s *Session) SetAutoScroll(enabled bool) {
	s.engine.SetAutoScroll(enabled)
}

// Analyze opens the analysis of line i and pauses playback.
func (s *Session) Analyze(ctx context.Context, i int) (string, error) {
	line, ok := s.Transcript().Line(i)
	if !ok {
		return "", services.Wrap(services.ErrValidation, "session", "analyze", fmt.Sprintf("line %d out of range", i), nil)
	}
	return s.analysis.Open(ctx, i, line), nil
}

// RetryAnalysis re-opens a failed analysis.
func (s *Session) RetryAnalysis(ctx context.Context) (string, error) {
	return s.analysis.Retry(ctx)
}

// CloseAnalysis dismisses the analysis panel.
func (s *Session) CloseAnalysis() {
	s.analysis.Close()
}

// Analysis returns the analysis state.
func (s *Session) Analysis() analysis.Snapshot {
	return s.analysis.Snapshot()
}

// WaitAnalysis blocks until in-flight analysis requests return.
func (s *Session) WaitAnalysis() {
	s.analysis.Wait()
}

// Close cancels any in-flight load and detaches from the clock.
func (s *Session) Close() {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.token = ""
	detach := s.detach
	s.detach = nil
	s.mu.Unlock()
	if detach != nil {
		detach()
	}
	s.analysis.Close()
}
