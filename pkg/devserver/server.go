// Package devserver is a local fixture backend for the portfolio client. It serves a seed
// document over the same REST surface the production backend exposes and keeps contact
// messages and visits in sqlite.
package devserver

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/nikogura/portfolio-client/pkg/logging"
	"github.com/nikogura/portfolio-client/pkg/portfolio"
	"github.com/nikogura/portfolio-client/pkg/seed"
)

// Defaults for the list and stats queries.
const (
	DefaultMessageLimit = 50
	DefaultStatsDays    = 30
	maxBodyBytes        = 64 << 10
)

type server struct {
	data   seed.Data
	store  *Store
	logger *zap.Logger
	now    func() time.Time
}

// New builds the router. Every portfolio route answers with the {success, data, error}
// envelope; a section missing from the seed answers success false.
func New(data seed.Data, store *Store, logger *zap.Logger) (engine *gin.Engine) {
	s := &server{
		data:   data,
		store:  store,
		logger: logging.OrNop(logger).With(zap.String("component", "devserver")),
		now:    time.Now,
	}

	engine = gin.New()
	engine.Use(gin.Recovery(), s.observe())

	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := engine.Group("/api")
	api.GET("/", s.root)
	api.GET("/health", s.health)

	api.GET(portfolio.PathPersonal, s.section("Personal information", func() (interface{}, bool) {
		return s.data.Personal, s.data.Personal.Name != ""
	}))
	api.GET(portfolio.PathSkills, s.section("Skills data", func() (interface{}, bool) {
		return s.data.Skills, len(s.data.Skills) > 0
	}))
	api.GET(portfolio.PathExperience, s.section("Experience data", func() (interface{}, bool) {
		return s.data.Experience, len(s.data.Experience) > 0
	}))
	api.GET(portfolio.PathProjects, s.section("Projects data", func() (interface{}, bool) {
		return s.data.Projects, len(s.data.Projects) > 0
	}))
	api.GET(portfolio.PathAbout, s.section("About data", func() (interface{}, bool) {
		return s.data.About, s.data.About.Mission != "" || len(s.data.About.Highlights) > 0
	}))
	api.GET(portfolio.PathCredentials, s.section("Credentials data", func() (interface{}, bool) {
		creds := s.data.Credentials
		return creds, len(creds.Education) > 0 || len(creds.Certifications) > 0
	}))

	api.POST(portfolio.PathContactMessage, s.submitContact)
	api.GET("/contact/messages", s.listMessages)
	api.POST(portfolio.PathAnalyticsVisit, s.trackVisit)
	api.GET("/analytics/stats", s.stats)

	return engine
}

// observe logs and counts every request.
func (s *server) observe() (handler gin.HandlerFunc) {
	handler = func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		requestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(status)).Inc()

		s.logger.Debug("http request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", status),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", c.GetHeader("X-Request-ID")),
		)
	}
	return handler
}

func (s *server) root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Portfolio API is running", "status": "healthy"})
}

func (s *server) health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	err := s.store.Ping(ctx)
	if err != nil {
		s.logger.Error("health check failed", zap.Error(err))
		c.JSON(http.StatusOK, portfolio.Health{Status: "unhealthy", Database: "error", Error: err.Error()})
		return
	}

	database := "connected"
	if s.data.Personal.Name == "" {
		database = "no_data"
	}

	c.JSON(http.StatusOK, portfolio.Health{Status: "healthy", Database: database, Message: "Portfolio API is operational"})
}

func (s *server) section(label string, get func() (interface{}, bool)) (handler gin.HandlerFunc) {
	handler = func(c *gin.Context) {
		data, ok := get()
		if !ok {
			c.JSON(http.StatusOK, gin.H{"success": false, "error": label + " not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
	}
	return handler
}

// submitContact validates and stores a contact message. Invalid input answers 422 with a
// detail, the way the production backend's request validation does.
func (s *server) submitContact(c *gin.Context) {
	var sub portfolio.ContactSubmission
	err := c.ShouldBindJSON(&sub)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "invalid request body: " + err.Error()})
		return
	}

	detail := validateSubmission(sub)
	if detail != "" {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": detail})
		return
	}

	sub = sub.Normalize()
	now := s.now()
	msg := &Message{
		ReferenceID: ReferenceID(now),
		Name:        strings.TrimSpace(sub.Name),
		Email:       strings.TrimSpace(sub.Email),
		Company:     strings.TrimSpace(sub.Company),
		Message:     sub.Message,
		InquiryType: string(sub.InquiryType),
		Timestamp:   now,
	}

	err = s.store.SaveMessage(c.Request.Context(), msg)
	if err != nil {
		s.logger.Error("failed to store contact message", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to send message"})
		return
	}

	s.logger.Info("contact message stored",
		zap.String("reference_id", msg.ReferenceID),
		zap.String("inquiry_type", msg.InquiryType),
	)

	c.JSON(http.StatusOK, portfolio.ContactResult{
		Success:     true,
		Message:     "Message sent successfully",
		ReferenceID: msg.ReferenceID,
	})
}

func validateSubmission(sub portfolio.ContactSubmission) (detail string) {
	switch {
	case strings.TrimSpace(sub.Name) == "":
		detail = "name is required"
	case strings.TrimSpace(sub.Email) == "":
		detail = "email is required"
	case !strings.Contains(sub.Email, "@"):
		detail = "email is not a valid email address"
	case strings.TrimSpace(sub.Message) == "":
		detail = "message is required"
	}
	return detail
}

// ReferenceID formats a contact reference as MSG_<date>_<six uppercase hex chars>.
func ReferenceID(now time.Time) (id string) {
	id = "MSG_" + now.Format("20060102") + "_" + strings.ToUpper(uuid.NewString()[:6])
	return id
}

func (s *server) listMessages(c *gin.Context) {
	limit, ok := queryInt(c, "limit", DefaultMessageLimit)
	if !ok {
		return
	}
	skip, ok := queryInt(c, "skip", 0)
	if !ok {
		return
	}

	messages, err := s.store.ListMessages(c.Request.Context(), limit, skip)
	if err != nil {
		s.logger.Error("failed to list contact messages", zap.Error(err))
		c.JSON(http.StatusOK, gin.H{"success": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": messages})
}

// trackVisit stores a visit. The body is kept verbatim so extra event fields survive.
func (s *server) trackVisit(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxBodyBytes))
	if err != nil || !gjson.ValidBytes(body) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "invalid request body"})
		return
	}

	page := gjson.GetBytes(body, "page")
	if page.Type != gjson.String || page.String() == "" {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "page is required"})
		return
	}

	visit := &VisitRecord{
		Page:      page.String(),
		UserAgent: gjson.GetBytes(body, "user_agent").String(),
		Referrer:  gjson.GetBytes(body, "referrer").String(),
		IPAddress: c.ClientIP(),
		Payload:   string(body),
		Timestamp: s.now(),
	}

	err = s.store.SaveVisit(c.Request.Context(), visit)
	if err != nil {
		s.logger.Error("failed to store visit", zap.Error(err))
		c.JSON(http.StatusOK, gin.H{"success": false, "error": "Failed to track visit"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Visit tracked successfully"})
}

func (s *server) stats(c *gin.Context) {
	days, ok := queryInt(c, "days", DefaultStatsDays)
	if !ok {
		return
	}

	stats, err := s.store.Stats(c.Request.Context(), days, s.now())
	if err != nil {
		s.logger.Error("failed to compute visit stats", zap.Error(err))
		c.JSON(http.StatusOK, gin.H{"success": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": stats})
}

// queryInt reads a non-negative integer query parameter, answering 422 itself when it is bad.
func queryInt(c *gin.Context, name string, def int) (value int, ok bool) {
	raw := c.Query(name)
	if raw == "" {
		value = def
		ok = true
		return value, ok
	}

	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": name + " must be a non-negative integer"})
		return value, ok
	}

	ok = true
	return value, ok
}
