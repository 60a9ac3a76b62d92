// Package loader assembles the portfolio page data: it issues the six resource reads
// concurrently, joins them all-or-nothing, and exposes a loading/error/ready state.
package loader

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/nikogura/portfolio-client/pkg/logging"
	"github.com/nikogura/portfolio-client/pkg/portfolio"
)

const (
	// DefaultErrorMessage is shown when a failed load produced no usable message.
	DefaultErrorMessage = "Failed to load portfolio data"
	// LoadedPage is the analytics page recorded after a successful load.
	LoadedPage = "portfolio_loaded"
)

// Source is the set of reads the page needs. *portfolio.Service satisfies it.
type Source interface {
	GetPersonalInfo(ctx context.Context) (env portfolio.Envelope[portfolio.PersonalInfo], err error)
	GetSkills(ctx context.Context) (env portfolio.Envelope[portfolio.Skills], err error)
	GetExperience(ctx context.Context) (env portfolio.Envelope[[]portfolio.WorkExperience], err error)
	GetProjects(ctx context.Context) (env portfolio.Envelope[[]portfolio.Project], err error)
	GetAbout(ctx context.Context) (env portfolio.Envelope[portfolio.AboutInfo], err error)
	GetCredentials(ctx context.Context) (env portfolio.Envelope[portfolio.Credentials], err error)
}

// PageTracker records page views without ever failing. *analytics.Tracker satisfies it.
type PageTracker interface {
	TrackPageView(ctx context.Context, page string) (result portfolio.TrackResult)
}

// Status is the lifecycle position of a load.
type Status int

// Load lifecycle: Loading moves exactly once to Error or Ready.
const (
	StatusLoading Status = iota
	StatusError
	StatusReady
)

func (s Status) String() (name string) {
	switch s {
	case StatusLoading:
		name = "loading"
	case StatusError:
		name = "error"
	case StatusReady:
		name = "ready"
	default:
		name = "unknown"
	}
	return name
}

// LoadState is a snapshot of the loader. Data is set only when Status is Ready; Err only when
// Status is Error.
type LoadState struct {
	Status Status
	Data   *portfolio.PortfolioData
	Err    string
}

// Loader owns the page's PortfolioData and LoadState.
type Loader struct {
	source  Source
	tracker PageTracker
	logger  *zap.Logger

	once    sync.Once
	mu      sync.RWMutex
	state   LoadState
	loadErr error

	analytics sync.WaitGroup
}

// New creates a Loader in the loading state. tracker may be nil to skip analytics.
func New(source Source, tracker PageTracker, logger *zap.Logger) (l *Loader) {
	l = &Loader{
		source:  source,
		tracker: tracker,
		logger:  logging.OrNop(logger).With(zap.String("component", "loader")),
		state:   LoadState{Status: StatusLoading},
	}
	return l
}

// Load runs the page load once. Later and concurrent calls wait for and return the same
// settled outcome; there is no automatic retry.
func (l *Loader) Load(ctx context.Context) (data portfolio.PortfolioData, err error) {
	l.once.Do(func() {
		l.run(ctx)
	})

	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.state.Data != nil {
		data = *l.state.Data
	}
	err = l.loadErr

	return data, err
}

// State returns a snapshot of the current state.
func (l *Loader) State() (state LoadState) {
	l.mu.RLock()
	state = l.state
	l.mu.RUnlock()
	return state
}

// Wait blocks until any analytics call started by Load has finished. It only matters for
// logging and tests; the load outcome never depends on it.
func (l *Loader) Wait() {
	l.analytics.Wait()
}

func (l *Loader) run(ctx context.Context) {
	var (
		personal    portfolio.PersonalInfo
		skills      portfolio.Skills
		experience  []portfolio.WorkExperience
		projects    []portfolio.Project
		about       portfolio.AboutInfo
		credentials portfolio.Credentials
	)

	err := JoinAll(ctx,
		fetchInto(&personal, l.source.GetPersonalInfo),
		fetchInto(&skills, l.source.GetSkills),
		fetchInto(&experience, l.source.GetExperience),
		fetchInto(&projects, l.source.GetProjects),
		fetchInto(&about, l.source.GetAbout),
		fetchInto(&credentials, l.source.GetCredentials),
	)
	if err != nil {
		msg := portfolio.ErrorMessage(err, DefaultErrorMessage)
		l.logger.Error("portfolio data loading error", zap.Error(err))

		l.mu.Lock()
		l.state = LoadState{Status: StatusError, Err: msg}
		l.loadErr = err
		l.mu.Unlock()
		return
	}

	data := portfolio.Assemble(personal, skills, experience, projects, about, credentials)

	l.mu.Lock()
	l.state = LoadState{Status: StatusReady, Data: &data}
	l.mu.Unlock()

	l.logger.Info("portfolio data loaded",
		zap.Int("experience", len(experience)),
		zap.Int("projects", len(projects)),
	)

	l.trackLoaded(ctx)
}

// trackLoaded fires the page-view event detached from the load.
func (l *Loader) trackLoaded(ctx context.Context) {
	if l.tracker == nil {
		return
	}

	detached := context.WithoutCancel(ctx)
	l.analytics.Add(1)
	go func() {
		defer l.analytics.Done()
		result := l.tracker.TrackPageView(detached, LoadedPage)
		if result.Ignored {
			l.logger.Debug("page view not recorded", zap.Error(result.Err))
		}
	}()
}

// fetchInto turns one service read into a Task that unwraps the envelope into dst.
func fetchInto[T any](dst *T, get func(ctx context.Context) (portfolio.Envelope[T], error)) (task Task) {
	task = func(ctx context.Context) (err error) {
		var env portfolio.Envelope[T]
		env, err = get(ctx)
		if err != nil {
			return err
		}

		*dst, err = portfolio.Unwrap(&env)
		return err
	}
	return task
}
