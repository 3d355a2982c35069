package server

import (
	"embed"
	"fmt"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/mohammad-safakhou/cardwise/config"
	"github.com/mohammad-safakhou/cardwise/internal/recommend"
	"github.com/mohammad-safakhou/cardwise/internal/telemetry"
	"github.com/mohammad-safakhou/cardwise/provider"
	"github.com/mohammad-safakhou/cardwise/tools/web_search"
)

//go:embed static
var staticFS embed.FS

// Run wires the pipeline and serves it until the listener fails.
func Run(cfg *config.Config) error {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())

	// Unified HTTP error handler with structured JSON and logging
	baseLogger := log.New(log.Writer(), "[HTTP] ", log.LstdFlags)
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		code := http.StatusInternalServerError
		msg := err.Error()
		if he, ok := err.(*echo.HTTPError); ok {
			code = he.Code
			if he.Message != nil {
				msg = fmt.Sprint(he.Message)
			}
		}
		req := c.Request()
		baseLogger.Printf("%d %s %s from %s: %v", code, req.Method, req.URL.Path, c.RealIP(), err)
		if !c.Response().Committed {
			_ = c.JSON(code, map[string]interface{}{"error": msg})
		}
	}
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Content-Type"},
	}))

	tele := telemetry.NewTelemetry(cfg.Telemetry)

	searcher, err := web_search.NewWebSearcher(
		web_search.Provider(cfg.Search.Provider),
		cfg.Search.APIKeyFor(),
		cfg.Search.Timeout,
	)
	if err != nil {
		return err
	}
	search := recommend.NewOfferSearch(
		searcher,
		cfg.Search.Provider,
		cfg.Search.MaxResults,
		cfg.Search.Retries,
		cfg.Search.RetryDelay,
		cfg.Search.Timeout,
		tele,
	)

	llm, err := provider.NewProvider(cfg.LLM)
	if err != nil {
		return err
	}
	orch, err := provider.NewOrchestrator(llm, cfg.LLM.Models, tele)
	if err != nil {
		return err
	}

	advisor, err := recommend.NewAdvisor(search, orch, tele)
	if err != nil {
		return err
	}

	e.GET("/healthz", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	e.GET("/metrics", echo.WrapHandler(tele.MetricsHandler()))
	e.StaticFS("/", echo.MustSubFS(staticFS, "static"))

	h := &RecommendationsHandler{Advisor: advisor, ReportDir: cfg.Report.OutputDir}
	h.Register(e.Group("/api"))

	baseLogger.Printf("listening on %s", cfg.General.Listen)
	return e.Start(cfg.General.Listen)
}
