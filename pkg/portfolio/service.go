// Package portfolio is the domain layer over the portfolio backend: the data model, the
// response envelope, the error taxonomy, and one named operation per backend resource.
package portfolio

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/nikogura/portfolio-client/pkg/api"
	"github.com/nikogura/portfolio-client/pkg/logging"
)

// Backend paths, relative to the API base URL.
const (
	PathPersonal       = "/portfolio/personal"
	PathSkills         = "/portfolio/skills"
	PathExperience     = "/portfolio/experience"
	PathProjects       = "/portfolio/projects"
	PathAbout          = "/portfolio/about"
	PathCredentials    = "/portfolio/credentials"
	PathContactMessage = "/contact/message"
	PathAnalyticsVisit = "/analytics/visit"
	PathHealth         = "/health"
)

// Doer performs one HTTP exchange. *api.Client satisfies it.
type Doer interface {
	Do(ctx context.Context, method, path string, body interface{}) (resp *api.Response, err error)
}

// Service exposes the backend's operations.
type Service struct {
	client Doer
	logger *zap.Logger
}

// NewService creates a new Service.
func NewService(client Doer, logger *zap.Logger) (service *Service) {
	service = &Service{
		client: client,
		logger: logging.OrNop(logger).With(zap.String("component", "portfolio")),
	}
	return service
}

// GetPersonalInfo fetches the hero section data.
func (s *Service) GetPersonalInfo(ctx context.Context) (env Envelope[PersonalInfo], err error) {
	env, err = fetch[PersonalInfo](ctx, s, PathPersonal, "Failed to fetch personal info")
	return env, err
}

// GetSkills fetches skills by category.
func (s *Service) GetSkills(ctx context.Context) (env Envelope[Skills], err error) {
	env, err = fetch[Skills](ctx, s, PathSkills, "Failed to fetch skills")
	return env, err
}

// GetExperience fetches the work timeline.
func (s *Service) GetExperience(ctx context.Context) (env Envelope[[]WorkExperience], err error) {
	env, err = fetch[[]WorkExperience](ctx, s, PathExperience, "Failed to fetch experience")
	return env, err
}

// GetProjects fetches the case studies.
func (s *Service) GetProjects(ctx context.Context) (env Envelope[[]Project], err error) {
	env, err = fetch[[]Project](ctx, s, PathProjects, "Failed to fetch projects")
	return env, err
}

// GetAbout fetches the about section.
func (s *Service) GetAbout(ctx context.Context) (env Envelope[AboutInfo], err error) {
	env, err = fetch[AboutInfo](ctx, s, PathAbout, "Failed to fetch about info")
	return env, err
}

// GetCredentials fetches education and certifications.
func (s *Service) GetCredentials(ctx context.Context) (env Envelope[Credentials], err error) {
	env, err = fetch[Credentials](ctx, s, PathCredentials, "Failed to fetch credentials")
	return env, err
}

// SubmitContact posts a contact message. A backend that answers 2xx with success false is not
// an error at this layer; callers inspect result.Success.
func (s *Service) SubmitContact(ctx context.Context, submission ContactSubmission) (result ContactResult, err error) {
	err = s.call(ctx, http.MethodPost, PathContactMessage, submission.Normalize(), &result)
	if err != nil {
		err = errors.Wrap(err, "Failed to submit contact form")
		return result, err
	}
	return result, err
}

// TrackVisit records an analytics visit. It never returns an error: failures are logged and
// reported as an ignored result so analytics cannot break the primary flow.
func (s *Service) TrackVisit(ctx context.Context, visit Visit) (result TrackResult) {
	var env Envelope[json.RawMessage]
	err := s.call(ctx, http.MethodPost, PathAnalyticsVisit, visit, &env)
	if err == nil && !env.Success {
		msg := env.Error
		if msg == "" {
			msg = DefaultAPIErrorMessage
		}
		err = &ServerError{Message: msg}
	}

	if err != nil {
		s.logger.Warn("failed to track visit", zap.String("page", visit.Page), zap.Error(err))
		result = TrackResult{Ignored: true, Err: err}
		return result
	}

	result = TrackResult{Recorded: true}
	return result
}

// HealthCheck asks the backend whether it is up.
func (s *Service) HealthCheck(ctx context.Context) (health Health, err error) {
	err = s.call(ctx, http.MethodGet, PathHealth, nil, &health)
	if err != nil {
		err = errors.Wrap(err, "Health check failed")
		return health, err
	}
	return health, err
}

func fetch[T any](ctx context.Context, s *Service, path, failure string) (env Envelope[T], err error) {
	err = s.call(ctx, http.MethodGet, path, nil, &env)
	if err != nil {
		err = errors.Wrap(err, failure)
		return env, err
	}
	return env, err
}

// call performs the exchange and decodes a 2xx body into out. Non-2xx becomes *ServerError.
func (s *Service) call(ctx context.Context, method, path string, body, out interface{}) (err error) {
	var resp *api.Response
	resp, err = s.client.Do(ctx, method, path, body)
	if err != nil {
		return err
	}

	if !resp.OK() {
		err = newServerError(resp)
		return err
	}

	err = json.Unmarshal(resp.Body, out)
	if err != nil {
		err = errors.Wrapf(err, "failed to parse response from %s", path)
		return err
	}

	return err
}
