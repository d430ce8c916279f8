// Package httpapi is the HTTP surface of the theme catalog: hosted-URL
// signing, the preview and resource proxies, theme and customer management,
// and the DMN endpoints.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/bloodyjonesy/NuveiCashierCatalog/internal/config"
	"github.com/bloodyjonesy/NuveiCashierCatalog/internal/dmn"
	"github.com/bloodyjonesy/NuveiCashierCatalog/internal/proxy"
	"github.com/bloodyjonesy/NuveiCashierCatalog/internal/screenshot"
	"github.com/bloodyjonesy/NuveiCashierCatalog/internal/store"
)

// Capturer renders hosted pages to PNGs. Split out so handler tests do not
// need a browser.
type Capturer interface {
	Capture(ctx context.Context, url, deviceType string) (*screenshot.Result, error)
}

type Server struct {
	cfg        *config.Config
	store      store.Store
	preview    *proxy.Preview
	resource   *proxy.Resource
	capturer   Capturer
	dmnLog     *dmn.Log
	preDeposit *dmn.PreDepositConfig
	log        *zap.Logger

	// static handlers, nil when not serving a UI
	staticRoot   http.Handler
	themesStatic http.Handler
}

type Options struct {
	Config     *config.Config
	Store      store.Store
	Preview    *proxy.Preview
	Resource   *proxy.Resource
	Capturer   Capturer
	DMNLog     *dmn.Log
	PreDeposit *dmn.PreDepositConfig
	Logger     *zap.Logger

	// StaticRoot serves the admin UI at /. ThemesDir serves persisted
	// screenshots at /themes/. Either may be nil/empty.
	StaticRoot http.Handler
	ThemesDir  string
}

func NewServer(opts Options) *Server {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	dmnLog := opts.DMNLog
	if dmnLog == nil {
		dmnLog = dmn.NewLog()
	}
	preDeposit := opts.PreDeposit
	if preDeposit == nil {
		preDeposit = dmn.NewPreDepositConfig()
	}
	s := &Server{
		cfg:        opts.Config,
		store:      opts.Store,
		preview:    opts.Preview,
		resource:   opts.Resource,
		capturer:   opts.Capturer,
		dmnLog:     dmnLog,
		preDeposit: preDeposit,
		log:        log,
		staticRoot: opts.StaticRoot,
	}
	if opts.ThemesDir != "" {
		s.themesStatic = http.StripPrefix("/themes/", http.FileServer(http.Dir(opts.ThemesDir)))
	}
	return s
}

// Router assembles the full route table with the standard middleware stack.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.cfg.RequestTimeout))
	r.Use(middleware.Compress(5))

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Post("/hosted-url", s.handleHostedURL)

		r.Get("/theme-preview", s.handleThemePreview)
		r.Post("/theme-preview", s.handleThemePreview)
		r.HandleFunc("/nuvei-proxy/*", s.handleResourceProxy)

		r.Route("/themes", func(r chi.Router) {
			r.Get("/", s.handleListThemes)
			r.Post("/", s.handleCreateTheme)
			r.Get("/{id}", s.handleGetTheme)
			r.Patch("/{id}", s.handleUpdateTheme)
			r.Delete("/{id}", s.handleDeleteTheme)
			r.Post("/{id}/retake-screenshot", s.handleRetakeScreenshot)
		})

		r.Route("/customers", func(r chi.Router) {
			r.Get("/", s.handleListCustomers)
			r.Post("/", s.handleCreateCustomer)
			r.Delete("/{id}", s.handleDeleteCustomer)
		})

		r.Post("/screenshot", s.handleScreenshot)

		r.Get("/settings", s.handleGetSettings)
		r.Patch("/settings", s.handlePatchSettings)
		r.Get("/storage-mode", s.handleStorageMode)

		r.Get("/dmn", s.handleListDMNs)
		r.Post("/dmn", s.handleReceiveDMN)
		r.Post("/pre-deposit-dmn", s.handlePreDepositDMN)
		r.Get("/pre-deposit-config", s.handleGetPreDepositConfig)
		r.Post("/pre-deposit-config", s.handleSetPreDepositConfig)

		r.Get("/notify", s.handleNotifyInfo)
		r.Post("/notify", s.handleNotify)
	})

	if s.themesStatic != nil {
		r.Handle("/themes/*", s.themesStatic)
	}
	if s.staticRoot != nil {
		r.Handle("/*", s.staticRoot)
	}

	return r
}

// Handler wraps the router with request tracing.
func (s *Server) Handler() http.Handler {
	return otelhttp.NewHandler(s.Router(), "theme-catalog")
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"storage": s.store.Mode(),
	})
}

// requestLogger is structured access logging in place of chi's text logger.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.log.Info("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}
