package server

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/mohammad-safakhou/cardwise/internal/recommend"
	"github.com/mohammad-safakhou/cardwise/internal/report"
	"github.com/mohammad-safakhou/cardwise/models"
	"github.com/mohammad-safakhou/cardwise/provider"
)

// RecommendationsHandler exposes the recommendation pipeline over HTTP.
// ReportDir, when set, receives an archived copy of every generated report.
type RecommendationsHandler struct {
	Advisor   *recommend.Advisor
	ReportDir string
}

// Register mounts the handler under the given group.
func (h *RecommendationsHandler) Register(g *echo.Group) {
	g.POST("/recommendations", h.create)
	g.POST("/reports", h.createReport)
}

// reportRequest is a profile plus the recommendation to render.
type reportRequest struct {
	Profile        models.Profile        `json:"profile"`
	Recommendation models.Recommendation `json:"recommendation"`
}

func (h *RecommendationsHandler) create(c echo.Context) error {
	var profile models.Profile
	if err := c.Bind(&profile); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	res, err := h.Advisor.Recommend(c.Request().Context(), profile)
	if err != nil {
		return mapPipelineError(err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *RecommendationsHandler) createReport(c echo.Context) error {
	var req reportRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := req.Profile.Validate(); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Recommendation.RawText == "" && req.Recommendation.PrimaryCard == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "recommendation is empty")
	}

	now := time.Now().UTC()
	data, err := report.Render(req.Profile, req.Recommendation, now)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "report rendering failed")
	}

	if h.ReportDir != "" {
		if archiveErr := archiveReport(h.ReportDir, report.Filename(now), data); archiveErr != nil {
			c.Logger().Warnf("archiving report: %v", archiveErr)
		}
	}

	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf("attachment; filename=%q", report.Filename(now)))
	return c.Blob(http.StatusOK, "application/pdf", data)
}

func archiveReport(dir, name string, data []byte) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, name), data, 0o644)
}

// mapPipelineError translates pipeline failures into HTTP responses. The
// status distinguishes what the caller should do: fix the request (400), fix
// the credential (502) or try again later (503).
func mapPipelineError(err error) error {
	switch {
	case errors.Is(err, recommend.ErrInvalidProfile):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, recommend.ErrSearchUnavailable):
		return echo.NewHTTPError(http.StatusServiceUnavailable,
			"current card offers are unavailable right now, please try again later")
	case errors.Is(err, provider.ErrAuthenticationFailed):
		return echo.NewHTTPError(http.StatusBadGateway,
			"the completion provider rejected our credentials")
	}
	var amf *provider.AllModelsFailedError
	if errors.As(err, &amf) {
		return echo.NewHTTPError(http.StatusServiceUnavailable,
			fmt.Sprintf("all %d models are unavailable right now, please try again later", len(amf.Attempts)))
	}
	return err
}
