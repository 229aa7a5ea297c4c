package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/rjcompany/nfmailer/internal/dispatch"
	"github.com/rjcompany/nfmailer/middlewares"
	"github.com/rjcompany/nfmailer/pkg/folder"
	"github.com/rjcompany/nfmailer/pkg/health"
	"github.com/rjcompany/nfmailer/pkg/logger"
	"github.com/rjcompany/nfmailer/pkg/mailer"
	"github.com/rjcompany/nfmailer/pkg/mailer/httpapi"
	"github.com/rjcompany/nfmailer/pkg/recipient"
	"github.com/rjcompany/nfmailer/pkg/stats"
)

const (
	defaultMaxUploadSize = 100 << 20
	maxJSONBody          = 1 << 20
)

// Server is the HTTP control surface over one Engine.
type Server struct {
	engine      *dispatch.Engine
	mailer      *mailer.Mailer
	probeTo     string
	checks      health.Checks
	corsOrigins []string
	maxUpload   int64
	lang        string
	logger      *slog.Logger
	now         func() time.Time
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithProbeAddress sets the recipient of /api/test-email, normally the
// sender account itself.
func WithProbeAddress(addr string) Option {
	return func(s *Server) {
		s.probeTo = addr
	}
}

// WithReadinessCheck adds a named readiness check.
func WithReadinessCheck(name string, fn health.CheckFunc) Option {
	return func(s *Server) {
		if fn != nil {
			s.checks[name] = fn
		}
	}
}

// WithCORSOrigins enables CORS for the given origins.
func WithCORSOrigins(origins ...string) Option {
	return func(s *Server) {
		s.corsOrigins = origins
	}
}

// WithMaxUploadSize caps the multipart folder upload.
func WithMaxUploadSize(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxUpload = n
		}
	}
}

// WithReportLanguage sets the language of formatted statistics when the
// request names none.
func WithReportLanguage(lang string) Option {
	return func(s *Server) {
		s.lang = lang
	}
}

// New creates a Server. m is used for the send-email and test-email routes.
func New(engine *dispatch.Engine, m *mailer.Mailer, opts ...Option) *Server {
	s := &Server{
		engine:    engine,
		mailer:    m,
		checks:    health.Checks{},
		maxUpload: defaultMaxUploadSize,
		logger:    logger.NewNope(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the routed handler with middlewares applied.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middlewares.RequestID())
	r.Use(middlewares.AccessLog(s.logger))
	r.Use(middlewares.Recover(s.logger))
	if len(s.corsOrigins) > 0 {
		r.Use(middlewares.CORS(middlewares.WithAllowOrigins(s.corsOrigins...)))
	}

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, apiError{Error: "not found", Code: "not_found"})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, apiError{Error: "method not allowed", Code: "method_not_allowed"})
	})

	live := health.LivenessHandler()
	ready := health.ReadinessHandler(s.checks, health.WithLogger(s.logger))
	r.Get("/health/live", live)
	r.Head("/health/live", live)
	r.Get("/health/ready", ready)
	r.Head("/health/ready", ready)

	r.Route("/api", func(r chi.Router) {
		r.Get("/state", s.state)
		r.Post("/folders", s.uploadFolders)
		r.Put("/draft", s.putDraft)
		r.Get("/overrides", s.listOverrides)
		r.Put("/overrides/{folder}", s.putOverride)
		r.Post("/start", s.command(s.engine.Start))
		r.Post("/pause", s.command(s.engine.Pause))
		r.Post("/resume", s.command(s.engine.Resume))
		r.Post("/reset", s.reset)
		r.Method(http.MethodPost, "/send-email", httpapi.NewHandler(s.mailer, httpapi.WithLogger(s.logger)))
		r.Post("/test-email", s.testEmail)
	})

	return r
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, body := classify(err)
	if status >= http.StatusInternalServerError {
		s.logger.ErrorContext(r.Context(), "request failed", slog.String("error", err.Error()))
	}
	writeJSON(w, status, body)
}

func decodeJSON(r *http.Request, w http.ResponseWriter, v any) error {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody)).Decode(v); err != nil {
		return fmt.Errorf("%w: %v", ErrBadRequest, err)
	}
	return nil
}

type folderView struct {
	Name     string              `json:"name"`
	Files    []string            `json:"files"`
	Override *recipient.Override `json:"override,omitempty"`
}

type reportView struct {
	stats.Report
	Duration string `json:"duration"`
	Rate     string `json:"successRateText"`
	Summary  string `json:"summary"`
}

type stateView struct {
	Run        dispatch.RunState `json:"run"`
	Progress   int               `json:"progress"`
	Draft      dispatch.Draft    `json:"draft"`
	Folders    []folderView      `json:"folders"`
	Statistics *reportView       `json:"statistics,omitempty"`
	Estimated  string            `json:"estimated"`
}

func (s *Server) state(w http.ResponseWriter, r *http.Request) {
	overrides, err := s.engine.Overrides(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}

	run := s.engine.Snapshot()
	folders := s.engine.Folders()
	view := stateView{
		Run:       run,
		Progress:  run.Progress(),
		Draft:     s.engine.Draft(),
		Folders:   make([]folderView, len(folders)),
		Estimated: stats.FormatSeconds(int64(stats.Estimate(len(folders)).Seconds())),
	}
	for i, f := range folders {
		fv := folderView{Name: f.Name, Files: f.Filenames()}
		if o, ok := overrides[f.Name]; ok {
			fv.Override = &o
		}
		view.Folders[i] = fv
	}
	if report, ok := s.engine.Statistics(); ok {
		printer := s.printer(r)
		view.Statistics = &reportView{
			Report:   report,
			Duration: report.Duration(),
			Rate:     printer.Rate(report.SuccessRatePercent),
			Summary:  printer.Format(report),
		}
	}
	writeJSON(w, http.StatusOK, view)
}

// printer honors ?lang= first, then Accept-Language.
func (s *Server) printer(r *http.Request) *stats.Printer {
	if lang := r.URL.Query().Get("lang"); lang != "" {
		return stats.NewPrinter(lang)
	}
	return stats.Negotiate(r.Header.Get("Accept-Language"), s.lang)
}

func (s *Server) uploadFolders(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		s.fail(w, r, fmt.Errorf("%w: %v", ErrBadRequest, err))
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	folders, err := folder.FromMultipart(r.MultipartForm)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.engine.Ingest(folders); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{
		"folders": len(folders),
		"files":   folder.TotalFiles(folders),
	})
}

func (s *Server) putDraft(w http.ResponseWriter, r *http.Request) {
	var d dispatch.Draft
	if err := decodeJSON(r, w, &d); err != nil {
		s.fail(w, r, err)
		return
	}
	s.engine.SetDraft(d)
	writeJSON(w, http.StatusOK, s.engine.Draft())
}

func (s *Server) listOverrides(w http.ResponseWriter, r *http.Request) {
	all, err := s.engine.Overrides(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, all)
}

func (s *Server) putOverride(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "folder")
	var o recipient.Override
	if err := decodeJSON(r, w, &o); err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.engine.SetOverride(r.Context(), name, o); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (s *Server) command(fn func() error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := fn(); err != nil {
			s.fail(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, s.engine.Snapshot())
	}
}

func (s *Server) reset(w http.ResponseWriter, r *http.Request) {
	if err := s.engine.Reset(r.Context()); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.engine.Snapshot())
}

func (s *Server) testEmail(w http.ResponseWriter, r *http.Request) {
	if s.probeTo == "" {
		writeJSON(w, http.StatusInternalServerError, httpapi.Response{Error: mailer.ErrNotConfigured.Error()})
		return
	}

	id, err := s.mailer.SendProbe(r.Context(), s.probeTo, s.now())
	if err != nil {
		s.logger.ErrorContext(r.Context(), "test email failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, httpapi.Response{Error: httpapi.Reason(err)})
		return
	}
	writeJSON(w, http.StatusOK, httpapi.Response{Success: true, MessageID: id})
}

// Shutdown returns a hook that pauses an active run so the driver exits.
func Shutdown(engine *dispatch.Engine) func(context.Context) error {
	return func(context.Context) error {
		if err := engine.Pause(); err != nil && !errors.Is(err, dispatch.ErrNotRunning) {
			return err
		}
		return nil
	}
}
