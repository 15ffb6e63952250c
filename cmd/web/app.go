package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/nexo-digital/site/internal/cms"
	"github.com/nexo-digital/site/internal/handlers"
	"github.com/nexo-digital/site/internal/metrics"
	mw "github.com/nexo-digital/site/internal/middleware"
	"github.com/nexo-digital/site/internal/platform/config"
	"github.com/nexo-digital/site/internal/platform/observability"
	"github.com/nexo-digital/site/internal/platform/requestctx"
	"github.com/nexo-digital/site/internal/programmatic"
	"github.com/nexo-digital/site/internal/redirects"
	"github.com/nexo-digital/site/internal/resolver"
	"github.com/nexo-digital/site/internal/seodata"
	"github.com/nexo-digital/site/internal/sitemap"
	"github.com/nexo-digital/site/internal/tools"
)

// app holds the dependencies shared by the page and API handlers.
type app struct {
	site      handlers.Site
	analytics handlers.Analytics
	logger    *zap.Logger

	store        *cms.Store
	content      *resolver.Resolver
	seoData      *seodata.Store
	programmatic *programmatic.Generator
	redirects    *redirects.Table
	metrics      *metrics.PrometheusRecorder
	views        *renderer

	publicDir      string
	keepDuplicates bool
	now            func() time.Time
}

func newApp(cfg config.Config, logger *zap.Logger, rec *metrics.PrometheusRecorder) (*app, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	views, err := newRenderer(cfg.Content.TemplatesDir, cfg.Site.Dev)
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	storeOpts := []cms.StoreOption{
		cms.WithCache(cfg.Content.Cache),
		cms.WithLogger(logger.Named("cms")),
	}
	if rec != nil {
		storeOpts = append(storeOpts, cms.WithRecorder(rec))
	}
	store := cms.NewStore(cfg.Content.Dir, storeOpts...)
	data := seodata.NewStore(cfg.Content.DataDir)

	return &app{
		site:           handlers.Site{Name: cfg.Site.Name, BaseURL: cfg.Site.BaseURL},
		analytics:      handlers.AnalyticsFromConfig(cfg.Analytics),
		logger:         logger,
		store:          store,
		content:        resolver.New(store),
		seoData:        data,
		programmatic:   programmatic.NewGenerator(data),
		redirects:      redirects.DefaultTable(),
		metrics:        rec,
		views:          views,
		publicDir:      cfg.Content.PublicDir,
		keepDuplicates: cfg.Sitemap.KeepDuplicates,
		now:            time.Now,
	}, nil
}

func (a *app) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	// If deployed behind a trusted reverse proxy/load balancer, RealIP will use
	// X-Forwarded-For to determine the client IP.
	r.Use(middleware.RealIP)
	r.Use(observability.InjectLoggerMiddleware(a.logger.Named("http")))
	r.Use(observability.RecoveryMiddleware(a.logger.Named("http")))
	r.Use(observability.RequestLoggerMiddleware())
	if a.metrics != nil {
		r.Use(a.metrics.Middleware)
	}
	r.Use(redirects.Middleware(a.redirects))
	r.Use(middleware.Compress(5))
	r.Use(middleware.Timeout(30 * time.Second))

	r.NotFound(a.notFound)

	// Health check
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, "ok")
	})
	if a.metrics != nil {
		r.Handle("/metrics", a.metrics.Handler())
	}
	r.Get("/sitemap.xml", a.sitemapXML)
	r.Get("/robots.txt", a.robotsTxt)

	// Static assets under /assets/
	assets := os.DirFS(filepath.Join(a.publicDir, "assets"))
	r.Handle("/assets/*", http.StripPrefix("/assets", mw.AssetsWithCache(assets)))

	r.Get("/", a.home)
	r.Get("/sobre", a.static("about", "/sobre", "Sobre nós", "Conheça a equipa e a forma como trabalhamos."))
	r.Get("/contacto", a.static("contact", "/contacto", "Contacto", "Fale connosco sobre o seu próximo projeto."))
	r.Get("/privacidade", a.static("privacy", "/privacidade", "Política de Privacidade", "Como tratamos os seus dados pessoais."))

	r.Get("/artigos", a.postIndex)
	r.Get("/artigos/{slug}", a.postDetail)
	r.Get("/casos-de-estudo", a.caseIndex)
	r.Get("/casos-de-estudo/{slug}", a.caseDetail)
	r.Get("/servicos", a.serviceIndex)
	r.Get("/servicos/{slug}", a.serviceDetail)
	r.Get("/setores", a.industryIndex)
	r.Get("/setores/{slug}", a.industryDetail)
	r.Get("/ferramentas", a.toolIndex)
	r.Get("/ferramentas/{slug}", a.toolDetail)

	r.Route("/api", func(r chi.Router) {
		r.Get("/content/{kind}", a.apiContentList)
		r.Get("/content/{kind}/{slug}", a.apiContentItem)
		r.Get("/ferramentas/whatsapp", a.apiWhatsApp)
		r.Get("/ferramentas/utm", a.apiUTM)
		r.Get("/ferramentas/email", a.apiEmail)
	})

	// Service × location and industry × solution pages.
	r.Get("/{first}/{second}", a.programmaticPage)
	return r
}

func (a *app) sitemapBuilder() sitemap.Builder {
	return sitemap.Builder{
		BaseURL:        a.site.BaseURL,
		Content:        a.store,
		Programmatic:   a.programmatic,
		Tools:          tools.Slugs(),
		Now:            a.now,
		KeepDuplicates: a.keepDuplicates,
	}
}

func (a *app) sitemapXML(w http.ResponseWriter, r *http.Request) {
	entries, err := a.sitemapBuilder().Build(r.Context())
	if err != nil {
		a.serverError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	if err := sitemap.WriteXML(w, entries); err != nil {
		requestctx.Logger(r.Context()).Warn("write sitemap failed", zap.Error(err))
	}
}

func (a *app) robotsTxt(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, sitemap.RobotsTxt(a.site.BaseURL))
}

// page starts a view model with the shared layout fields.
func (a *app) page(path, title, description string) handlers.PageData {
	return handlers.NewPage(a.site, a.analytics, path, title, description)
}

func (a *app) static(name, path, title, description string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a.views.render(w, r, http.StatusOK, name, a.page(path, title, description))
	}
}

func (a *app) notFound(w http.ResponseWriter, r *http.Request) {
	page := a.page(r.URL.Path, "Página não encontrada", "")
	page.SEO.Robots = "noindex, follow"
	page.Status = &handlers.StatusView{
		Code:    http.StatusNotFound,
		Title:   "Página não encontrada",
		Message: "O endereço que procura não existe ou foi movido.",
	}
	a.views.render(w, r, http.StatusNotFound, "error", page)
}

// serverError renders the error page. A malformed content file only breaks
// the pages that read it.
func (a *app) serverError(w http.ResponseWriter, r *http.Request, err error) {
	logger := requestctx.Logger(r.Context())
	var perr *cms.ParseError
	if errors.As(err, &perr) {
		logger.Error("content parse failed", zap.String("path", perr.Path), zap.Error(err))
	} else {
		logger.Error("request failed", zap.Error(err))
	}
	page := a.page(r.URL.Path, "Erro interno", "")
	page.SEO.Robots = "noindex, nofollow"
	page.Status = &handlers.StatusView{
		Code:    http.StatusInternalServerError,
		Title:   "Erro interno",
		Message: "Ocorreu um erro ao carregar esta página. Tente novamente mais tarde.",
	}
	a.views.render(w, r, http.StatusInternalServerError, "error", page)
}

// degrade logs a failed optional section; the page renders without it.
func (a *app) degrade(ctx context.Context, section string, err error) {
	requestctx.Logger(ctx).Warn("section unavailable", zap.String("section", section), zap.Error(err))
}
