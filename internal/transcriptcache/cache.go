package transcriptcache

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"lingocast/internal/config"
	"lingocast/internal/episode"
	"lingocast/internal/logging"
	"lingocast/internal/notifications"
	"lingocast/internal/services"
	"lingocast/internal/transcript"
)

// LocalStore is the persistent tier; cachestore.Store satisfies it.
type LocalStore interface {
	Get(ctx context.Context, key episode.Key) (*transcript.Transcript, error)
	Put(ctx context.Context, key episode.Key, ep episode.Episode, source string, tr *transcript.Transcript) error
}

// RemoteFetcher reads pre-built transcripts from the content-addressed store.
type RemoteFetcher interface {
	Fetch(ctx context.Context, key episode.Key) (*transcript.Transcript, error)
}

// Generator produces a transcript on demand.
type Generator interface {
	Generate(ctx context.Context, req GenerationRequest) (*transcript.Transcript, error)
}

// StatusFunc receives load progress. It is called on the Load goroutine.
type StatusFunc func(Status)

// Cache resolves transcripts through the configured tiers.
type Cache struct {
	local             LocalStore
	remote            RemoteFetcher
	generator         Generator
	targetLanguage    string
	generationTimeout time.Duration
	locks             *fileLocks
	notifier          notifications.Service
	logger            *slog.Logger
}

// Option customizes the cache.
type Option func(*Cache)

// WithLocalStore enables the local persistent tier.
func WithLocalStore(store LocalStore) Option {
	return func(c *Cache) { c.local = store }
}

// WithRemote enables the content-addressed remote tier.
func WithRemote(remote RemoteFetcher) Option {
	return func(c *Cache) { c.remote = remote }
}

// WithGenerator enables on-demand generation.
func WithGenerator(generator Generator) Option {
	return func(c *Cache) { c.generator = generator }
}

// WithTargetLanguage sets the translation language requested from generation.
func WithTargetLanguage(lang string) Option {
	return func(c *Cache) { c.targetLanguage = lang }
}

// WithGenerationTimeout bounds a single generation request.
func WithGenerationTimeout(timeout time.Duration) Option {
	return func(c *Cache) { c.generationTimeout = timeout }
}

// WithGenerationLocks makes generation take a per-episode file lock under
// dir so concurrent processes do not generate the same transcript twice.
func WithGenerationLocks(dir string) Option {
	return func(c *Cache) {
		if dir != "" {
			c.locks = &fileLocks{dir: dir}
		}
	}
}

// WithNotifier announces generated and degraded transcripts.
func WithNotifier(svc notifications.Service) Option {
	return func(c *Cache) { c.notifier = svc }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Cache) { c.logger = logger }
}

// New constructs a Cache. Tiers that are not supplied are skipped.
func New(opts ...Option) *Cache {
	c := &Cache{
		targetLanguage:    "en",
		generationTimeout: 3 * time.Minute,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = logging.NewComponentLogger(c.logger, "transcriptcache")
	return c
}

// NewFromConfig wires the remote and generation tiers from cfg. local may be
// nil to disable the persistent tier.
func NewFromConfig(cfg *config.Config, local LocalStore, logger *slog.Logger) (*Cache, error) {
	opts := []Option{
		WithTargetLanguage(cfg.Transcripts.TargetLanguage),
		WithGenerationTimeout(cfg.GenerationTimeout()),
		WithNotifier(notifications.NewService(cfg)),
		WithLogger(logger),
	}
	if local != nil {
		opts = append(opts, WithLocalStore(local), WithGenerationLocks(cfg.LockDir()))
	}
	if cfg.Transcripts.CDNBaseURL != "" {
		opts = append(opts, WithRemote(NewRemoteStore(cfg.Transcripts.CDNBaseURL, cfg.RequestTimeout(), nil)))
	}
	if cfg.Transcripts.APIBaseURL != "" {
		generator, err := NewGenerationService(cfg.Transcripts.APIBaseURL, nil)
		if err != nil {
			return nil, err
		}
		opts = append(opts, WithGenerator(generator))
	}
	return New(opts...), nil
}

// Load resolves the transcript for ep. It blocks until a tier succeeds or the
// fallback is chosen and never returns a nil Transcript.
func (c *Cache) Load(ctx context.Context, ep episode.Episode, onStatus StatusFunc) Result {
	notify := func(status Status) {
		if onStatus != nil {
			onStatus(status)
		}
	}
	key := episode.ComputeKey(ep)
	ctx = services.WithEpisodeKey(ctx, key.String())
	logger := logging.WithContext(ctx, c.logger)

	notify(StatusLoading)

	if tr, ok := c.fromLocal(ctx, logger, key); ok {
		notify(StatusReady)
		return Result{Key: key, Transcript: tr, Source: SourceLocal}
	}

	if tr, ok := c.fromRemote(ctx, logger, key); ok {
		c.persist(ctx, logger, key, ep, SourceRemote, tr)
		notify(StatusReady)
		return Result{Key: key, Transcript: tr, Source: SourceRemote}
	}
	if err := ctx.Err(); err != nil {
		return abandoned(logger, key, err)
	}

	notify(StatusGenerating)
	release, err := c.lockGeneration(ctx, logger, key)
	if ctxErr := ctx.Err(); ctxErr != nil {
		if err == nil {
			release()
		}
		return abandoned(logger, key, ctxErr)
	}
	if err == nil {
		defer release()
		if tr, ok := c.fromLocal(ctx, logger, key); ok {
			notify(StatusReady)
			return Result{Key: key, Transcript: tr, Source: SourceLocal}
		}
	}
	started := time.Now()
	tr, err := c.generate(ctx, logger, key, ep)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return abandoned(logger, key, ctxErr)
	}
	if err != nil {
		if !errors.Is(err, errNotConfigured) {
			c.announce(ctx, logger, func(ctx context.Context, svc notifications.Service) error {
				return svc.NotifyTranscriptDegraded(ctx, ep.Label(), err)
			})
		}
		logging.WarnWithContext(logger, "transcript generation failed; using fallback transcript", "transcript_degraded",
			logging.Error(err),
			logging.String("error_kind", services.Kind(err)),
			logging.String(logging.FieldImpact, "a placeholder transcript is shown instead of the episode's own"),
			logging.String(logging.FieldErrorHint, "check transcripts.api_base_url and the generation service logs"),
		)
		notify(StatusDegraded)
		return Result{
			Key:        key,
			Transcript: transcript.Fallback(),
			Source:     SourceFallback,
			Degraded:   true,
			Err:        err,
		}
	}
	c.persist(ctx, logger, key, ep, SourceGenerated, tr)
	c.announce(ctx, logger, func(ctx context.Context, svc notifications.Service) error {
		return svc.NotifyTranscriptReady(ctx, ep.Label(), tr.Len(), time.Since(started))
	})
	notify(StatusReady)
	return Result{Key: key, Transcript: tr, Source: SourceGenerated}
}

func (c *Cache) fromLocal(ctx context.Context, logger *slog.Logger, key episode.Key) (*transcript.Transcript, bool) {
	if c.local == nil {
		return nil, false
	}
	tr, err := c.local.Get(ctx, key)
	if err == nil {
		err = tr.Validate()
	}
	if err != nil {
		reason := "not_cached"
		if !errors.Is(err, services.ErrCacheMiss) {
			reason = "unreadable"
		}
		logger.Debug("local transcript cache miss",
			logging.Args(append(logging.DecisionAttrs("transcript_cache_local", "miss", reason), logging.Error(err))...)...)
		return nil, false
	}
	logger.Info("local transcript cache hit",
		logging.Args(append(logging.DecisionAttrs("transcript_cache_local", "hit", "cached"), logging.Int("lines", tr.Len()))...)...)
	return tr, true
}

func (c *Cache) fromRemote(ctx context.Context, logger *slog.Logger, key episode.Key) (*transcript.Transcript, bool) {
	if c.remote == nil {
		logger.Debug("remote transcript cache skipped",
			logging.Args(logging.DecisionAttrs("transcript_cache_remote", "skip", "cdn_not_configured")...)...)
		return nil, false
	}
	tr, err := c.remote.Fetch(ctx, key)
	if err != nil {
		logger.Info("remote transcript cache miss",
			logging.Args(append(logging.DecisionAttrs("transcript_cache_remote", "miss", "fetch_failed"), logging.Error(err))...)...)
		return nil, false
	}
	logger.Info("remote transcript cache hit",
		logging.Args(append(logging.DecisionAttrs("transcript_cache_remote", "hit", "cdn"), logging.Int("lines", tr.Len()))...)...)
	return tr, true
}

// lockGeneration takes the episode's generation lock. Without locks
// configured it succeeds with a no-op release. A lock failure is logged and
// generation proceeds unlocked unless ctx ended while waiting.
func (c *Cache) lockGeneration(ctx context.Context, logger *slog.Logger, key episode.Key) (func(), error) {
	if c.locks == nil {
		return func() {}, nil
	}
	release, err := c.locks.acquire(ctx, key)
	if err != nil && ctx.Err() != nil {
		return nil, err
	}
	if err != nil {
		logging.WarnWithContext(logger, "generation lock unavailable; generating without it", "transcript_lock_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "another process may generate the same transcript"),
			logging.String(logging.FieldErrorHint, "check paths.data_dir permissions"),
		)
		return nil, err
	}
	return release, nil
}

func (c *Cache) generate(ctx context.Context, logger *slog.Logger, key episode.Key, ep episode.Episode) (*transcript.Transcript, error) {
	if c.generator == nil {
		return nil, services.Wrap(services.ErrGeneration, "transcriptcache", "generate", "", errNotConfigured)
	}
	if c.generationTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.generationTimeout)
		defer cancel()
	}
	requestID := uuid.NewString()
	logger = logger.With(logging.String(logging.FieldCorrelationID, requestID))
	logger.Info("generating transcript",
		logging.String("target_language", c.targetLanguage),
		logging.Duration("timeout", c.generationTimeout),
	)
	started := time.Now()
	tr, err := c.generator.Generate(ctx, GenerationRequest{
		Key:            key,
		Episode:        ep,
		TargetLanguage: c.targetLanguage,
		RequestID:      requestID,
	})
	if err != nil {
		if !errors.Is(err, services.ErrGeneration) {
			err = services.Wrap(services.ErrGeneration, "transcriptcache", "generate", "", err)
		}
		return nil, err
	}
	if tr == nil || tr.Len() == 0 {
		return nil, services.Wrap(services.ErrGeneration, "transcriptcache", "generate", "empty transcript", transcript.ErrEmptyPayload)
	}
	logger.Info("transcript generated",
		logging.Int("lines", tr.Len()),
		logging.Duration("elapsed", time.Since(started).Round(time.Millisecond)),
	)
	return tr, nil
}

// abandoned is the result of a load whose context ended first. The caller has
// moved on, so nothing is announced and no status is reported.
func abandoned(logger *slog.Logger, key episode.Key, err error) Result {
	logger.Debug("transcript load abandoned", logging.Error(err))
	return Result{
		Key:        key,
		Transcript: transcript.Fallback(),
		Source:     SourceFallback,
		Degraded:   true,
		Err:        err,
	}
}

// announce sends a notification. The send outlives cancellation of ctx so a
// generation that finished is still reported.
func (c *Cache) announce(ctx context.Context, logger *slog.Logger, send func(context.Context, notifications.Service) error) {
	if c.notifier == nil {
		return
	}
	if err := send(context.WithoutCancel(ctx), c.notifier); err != nil {
		logger.Debug("transcript notification failed", logging.Error(err))
	}
}

// persist writes tr to the local tier. Failures are logged and ignored.
func (c *Cache) persist(ctx context.Context, logger *slog.Logger, key episode.Key, ep episode.Episode, source Source, tr *transcript.Transcript) {
	if c.local == nil {
		return
	}
	if err := c.local.Put(ctx, key, ep, string(source), tr); err != nil {
		logging.WarnWithContext(logger, "failed to store transcript in local cache", "transcript_cache_store_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "the transcript will be fetched again next time"),
			logging.String(logging.FieldErrorHint, "check paths.data_dir permissions"),
		)
	}
}
