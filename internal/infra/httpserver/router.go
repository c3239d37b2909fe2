package httpserver

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/forgespace/idea-analyzer/internal/application/analyzer"
	"github.com/forgespace/idea-analyzer/internal/application/history"
	"github.com/forgespace/idea-analyzer/internal/domain/ideas"
	"github.com/forgespace/idea-analyzer/internal/metrics"
	"github.com/forgespace/idea-analyzer/internal/middleware"
)

const maxBodyBytes = 1 << 20

// sampleIdea is analysed by the diagnostic test route
var sampleIdea = ideas.Input{
	Title:       "Neighbourhood tool library",
	Description: "A platform where neighbours lend and borrow rarely used tools. Members book items, meet locally and rate each other.",
	Phase:       ideas.PhaseInception,
	Tags:        []string{"community", "marketplace", "sustainability"},
}

// Options carries everything the router serves. Metrics, Health and
// RateLimiter are optional.
type Options struct {
	Analyzer    *analyzer.Service
	History     *history.Service
	Metrics     *metrics.Collector
	Health      map[string]middleware.HealthChecker
	APIKeys     map[string]string
	RateLimiter *middleware.RateLimiter
	Log         *zap.Logger
}

type Router struct {
	analyzer  *analyzer.Service
	history   *history.Service
	validator *middleware.Validator
	log       *zap.Logger
}

func NewRouter(opts Options) http.Handler {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	r := &Router{
		analyzer:  opts.Analyzer,
		history:   opts.History,
		validator: middleware.NewValidator(),
		log:       log,
	}

	mux := chi.NewRouter()
	mux.Use(chimw.RequestID)
	mux.Use(middleware.RequestLogger(log))
	if opts.Metrics != nil {
		mux.Use(opts.Metrics.Middleware)
	}
	// inside metrics and logging so recovered panics are counted as 500s
	mux.Use(chimw.Recoverer)
	if opts.Metrics != nil {
		mux.Method(http.MethodGet, "/metrics", opts.Metrics.Handler())
	}

	mux.Get("/health", middleware.LivenessHandler)
	mux.Get("/healthz", middleware.HealthHandler(opts.Health))
	mux.Get("/readyz", middleware.ReadinessHandler)

	mux.Route("/v1/{workspace}", func(rt chi.Router) {
		rt.Use(middleware.APIKeyAuth(opts.APIKeys))
		if opts.RateLimiter != nil {
			rt.Use(middleware.RateLimit(opts.RateLimiter))
		}
		rt.Post("/ideas/analyze", r.wrap(r.handleAnalyze))
		rt.Get("/ideas/analyze/test", r.wrap(r.handleAnalyzeTest))
		rt.Post("/ideas/suggest", r.wrap(r.handleSuggest))
		if r.history != nil {
			rt.Get("/analyses", r.wrap(r.handleList))
			rt.Get("/analyses/{id}", r.wrap(r.handleGet))
		}
	})

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

// badRequest carries a message safe to show the caller
type badRequest struct{ msg string }

func (e badRequest) Error() string { return e.msg }

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		err := h(w, req)
		if err == nil {
			return
		}
		var br badRequest
		switch {
		case errors.As(err, &br):
			middleware.WriteError(w, http.StatusBadRequest, br.msg)
		case errors.Is(err, ideas.ErrNotFound):
			middleware.WriteError(w, http.StatusNotFound, "not found")
		default:
			r.log.Error("request failed",
				zap.String("path", req.URL.Path),
				zap.String("request_id", chimw.GetReqID(req.Context())),
				zap.Error(err))
			middleware.WriteError(w, http.StatusInternalServerError, "internal server error")
		}
	}
}

type ideaRequest struct {
	Title       string   `json:"title" validate:"required,max=200"`
	Description string   `json:"description" validate:"required,max=10000"`
	Phase       string   `json:"phase" validate:"max=64"`
	Tags        []string `json:"tags" validate:"max=20,dive,max=50"`
}

// decodeIdea reads, sanitises and validates the request body. An empty body
// is treated as an empty idea so it fails validation like any missing field.
func (r *Router) decodeIdea(w http.ResponseWriter, req *http.Request) (ideas.Input, error) {
	var body ideaRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, req.Body, maxBodyBytes))
	if err := dec.Decode(&body); err != nil && !errors.Is(err, io.EOF) {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return ideas.Input{}, badRequest{"request body too large"}
		}
		return ideas.Input{}, badRequest{"invalid JSON body"}
	}

	body.Title = middleware.SanitizeString(body.Title)
	body.Description = middleware.SanitizeString(body.Description)
	body.Phase = middleware.SanitizeString(body.Phase)
	tags := make([]string, 0, len(body.Tags))
	for _, t := range body.Tags {
		if t = middleware.SanitizeString(t); t != "" {
			tags = append(tags, t)
		}
	}
	body.Tags = tags

	if err := r.validator.Validate(body); err != nil {
		return ideas.Input{}, badRequest{err.Error()}
	}
	return ideas.Input{
		Title:       body.Title,
		Description: body.Description,
		Phase:       ideas.Phase(body.Phase),
		Tags:        body.Tags,
	}, nil
}

// POST /v1/{workspace}/ideas/analyze
func (r *Router) handleAnalyze(w http.ResponseWriter, req *http.Request) error {
	workspace := chi.URLParam(req, "workspace")
	in, err := r.decodeIdea(w, req)
	if err != nil {
		return err
	}

	out, err := r.analyzer.Analyze(req.Context(), in)
	if err != nil {
		return err
	}

	// a history outage must not cost the caller their analysis
	if r.history != nil {
		a, err := r.history.Record(req.Context(), workspace, in, out)
		if err != nil {
			r.log.Error("record analysis failed", zap.String("workspace", workspace), zap.Error(err))
		} else {
			w.Header().Set("X-Analysis-Id", string(a.ID))
		}
	}

	w.Header().Set("X-Analysis-Strategy", string(out.Strategy))
	return writeJSON(w, out.Result)
}

// GET /v1/{workspace}/ideas/analyze/test
func (r *Router) handleAnalyzeTest(w http.ResponseWriter, req *http.Request) error {
	out, err := r.analyzer.Analyze(req.Context(), sampleIdea)
	if err != nil {
		return err
	}
	return writeJSON(w, map[string]any{
		"strategy":       out.Strategy,
		"aiConfigured":   r.analyzer.AIConfigured(),
		"fallbackReason": out.FallbackReason,
		"result":         out.Result,
	})
}

// POST /v1/{workspace}/ideas/suggest
func (r *Router) handleSuggest(w http.ResponseWriter, req *http.Request) error {
	in, err := r.decodeIdea(w, req)
	if err != nil {
		return err
	}
	out := r.analyzer.SuggestPhases(req.Context(), in, in.Phase)

	w.Header().Set("X-Analysis-Strategy", string(out.Strategy))
	return writeJSON(w, map[string][]string{"suggestions": out.Suggestions})
}

// GET /v1/{workspace}/analyses?page=&page_size=
func (r *Router) handleList(w http.ResponseWriter, req *http.Request) error {
	workspace := chi.URLParam(req, "workspace")
	page, _ := strconv.Atoi(req.URL.Query().Get("page"))
	size, _ := strconv.Atoi(req.URL.Query().Get("page_size"))

	list, err := r.history.List(req.Context(), workspace,
		middleware.ValidatePage(page), middleware.ValidateLimit(size))
	if err != nil {
		return err
	}
	return writeJSON(w, list)
}

// GET /v1/{workspace}/analyses/{id}
func (r *Router) handleGet(w http.ResponseWriter, req *http.Request) error {
	workspace := chi.URLParam(req, "workspace")
	id := chi.URLParam(req, "id")

	a, err := r.history.Get(req.Context(), workspace, ideas.AnalysisID(id))
	if err != nil {
		return err
	}
	return writeJSON(w, a)
}

func writeJSON(w http.ResponseWriter, v any) error {
	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(v)
}
