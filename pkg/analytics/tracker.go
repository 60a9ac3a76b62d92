// Package analytics records page views and UI events as best-effort visits. Nothing here ever
// returns an error to the caller.
package analytics

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/nikogura/portfolio-client/pkg/logging"
	"github.com/nikogura/portfolio-client/pkg/portfolio"
)

// EventPagePrefix prefixes the page name of custom events.
const EventPagePrefix = "event_"

var (
	// ErrDisabled marks a visit dropped because analytics is turned off.
	ErrDisabled = errors.New("analytics disabled")
	// ErrThrottled marks a visit dropped by the rate limiter.
	ErrThrottled = errors.New("analytics rate limit exceeded")
)

// VisitRecorder sends a visit to the backend. *portfolio.Service satisfies it.
type VisitRecorder interface {
	TrackVisit(ctx context.Context, visit portfolio.Visit) (result portfolio.TrackResult)
}

// Config controls visitor identity and throttling.
type Config struct {
	UserAgent       string
	Referrer        string
	Enabled         bool
	EventsPerSecond float64
	Burst           int
}

// Tracker synthesizes visit records and forwards them.
type Tracker struct {
	recorder VisitRecorder
	cfg      Config
	limiter  *rate.Limiter
	logger   *zap.Logger
	inflight sync.WaitGroup
}

// NewTracker creates a new Tracker. EventsPerSecond <= 0 disables throttling.
func NewTracker(recorder VisitRecorder, cfg Config, logger *zap.Logger) (tracker *Tracker) {
	limit := rate.Inf
	if cfg.EventsPerSecond > 0 {
		limit = rate.Limit(cfg.EventsPerSecond)
	}

	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}

	tracker = &Tracker{
		recorder: recorder,
		cfg:      cfg,
		limiter:  rate.NewLimiter(limit, burst),
		logger:   logging.OrNop(logger).With(zap.String("component", "analytics")),
	}
	return tracker
}

// TrackPageView records a view of pageName.
func (t *Tracker) TrackPageView(ctx context.Context, pageName string) (result portfolio.TrackResult) {
	result = t.Track(ctx, portfolio.Visit{Page: pageName})
	return result
}

// TrackEvent records a named UI event with optional extra fields.
func (t *Tracker) TrackEvent(ctx context.Context, name string, extra map[string]interface{}) (result portfolio.TrackResult) {
	result = t.Track(ctx, portfolio.Visit{Page: EventPagePrefix + name, Extra: extra})
	return result
}

// Track fills in the visitor identity and forwards visit, unless analytics is disabled or
// the rate limit is exhausted.
func (t *Tracker) Track(ctx context.Context, visit portfolio.Visit) (result portfolio.TrackResult) {
	if !t.cfg.Enabled {
		result = portfolio.TrackResult{Ignored: true, Err: ErrDisabled}
		return result
	}

	if !t.limiter.Allow() {
		t.logger.Warn("dropping visit", zap.String("page", visit.Page), zap.Error(ErrThrottled))
		result = portfolio.TrackResult{Ignored: true, Err: ErrThrottled}
		return result
	}

	if visit.UserAgent == "" {
		visit.UserAgent = t.cfg.UserAgent
	}
	if visit.Referrer == "" {
		visit.Referrer = t.cfg.Referrer
	}

	result = t.recorder.TrackVisit(ctx, visit)
	if result.Ignored {
		t.logger.Debug("visit ignored", zap.String("page", visit.Page), zap.Error(result.Err))
	}

	return result
}

// Go tracks visit in the background, detached from ctx cancellation.
func (t *Tracker) Go(ctx context.Context, visit portfolio.Visit) {
	detached := context.WithoutCancel(ctx)
	t.inflight.Add(1)
	go func() {
		defer t.inflight.Done()
		_ = t.Track(detached, visit)
	}()
}

// Wait blocks until every visit started with Go has finished.
func (t *Tracker) Wait() {
	t.inflight.Wait()
}
