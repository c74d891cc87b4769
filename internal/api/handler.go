package api

import (
	"context"
	"database/sql"
	"net/http"
	"strconv"

	apperrors "github.com/hallyusync/concert-sync/internal/apperrors"
	syncsvc "github.com/hallyusync/concert-sync/internal/sync"
	"github.com/labstack/echo/v4"
)

// Handler implements the spec §6 HTTP surface against a *sync.Service.
type Handler struct {
	sync          *syncsvc.Service
	sourceDB      *sql.DB
	targetDB      *sql.DB
	llmConfigured bool
}

// NewHandler builds a Handler. sourceDB/targetDB back the health check's
// dependency pings; llmConfigured reports whether GOOGLE_API_KEY was set.
func NewHandler(sync *syncsvc.Service, sourceDB, targetDB *sql.DB, llmConfigured bool) *Handler {
	return &Handler{sync: sync, sourceDB: sourceDB, targetDB: targetDB, llmConfigured: llmConfigured}
}

// RunSyncAll handles POST /sync/run.
func (h *Handler) RunSyncAll(c echo.Context) error {
	force := c.QueryParam("force") == "true"

	result, err := h.sync.SyncAll(c.Request().Context(), force)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

// RunSyncArtist handles POST /sync/run/:artist_name.
func (h *Handler) RunSyncArtist(c echo.Context) error {
	artistName := c.Param("artist_name")
	force := c.QueryParam("force") == "true"

	result, ok, err := h.sync.SyncByArtistName(c.Request().Context(), artistName, force)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.Newf(apperrors.ErrNotFound, "아티스트 %q를 찾을 수 없습니다", artistName)
	}
	return c.JSON(http.StatusOK, result)
}

// ListResults handles GET /sync/results.
func (h *Handler) ListResults(c echo.Context) error {
	results, err := h.sync.Results(c.Request().Context(), c.QueryParam("artist_name"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, results)
}

// GetResult handles GET /sync/results/:id.
func (h *Handler) GetResult(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return apperrors.New(apperrors.ErrInvalidInput, "id는 정수여야 합니다")
	}

	result, ok, err := h.sync.ResultByID(c.Request().Context(), id)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.Newf(apperrors.ErrNotFound, "결과 id=%d를 찾을 수 없습니다", id)
	}
	return c.JSON(http.StatusOK, result)
}

// ListCrawledData handles GET /sync/crawled.
func (h *Handler) ListCrawledData(c echo.Context) error {
	data, err := h.sync.CrawledData(c.Request().Context(), c.QueryParam("artist_name"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, data)
}

// DependencyStatus is one dependency's health-check result, per the
// teacher's internal/service/api/model/system/dependency_status.go shape.
type DependencyStatus struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// HealthResponse is the /health response body, per spec §6/§12 and the
// teacher's internal/service/api/model/system/health_response.go shape.
type HealthResponse struct {
	Status       string                      `json:"status"`
	Dependencies map[string]DependencyStatus `json:"dependencies"`
}

const (
	depStatusHealthy   = "healthy"
	depStatusUnhealthy = "unhealthy"
	depStatusUnknown   = "unknown"
)

// Health handles GET /health/ and GET /health. It pings both databases and
// reports whether the LLM analyzer has credentials configured, per
// original_source/src/api/routes/health.py's ai_enabled/source_db_configured/
// target_db_configured fields.
func (h *Handler) Health(c echo.Context) error {
	ctx := c.Request().Context()
	deps := map[string]DependencyStatus{
		"source_db": pingDB(ctx, h.sourceDB),
		"target_db": pingDB(ctx, h.targetDB),
		"llm":       llmStatus(h.llmConfigured),
	}

	status := depStatusHealthy
	for _, dep := range deps {
		if dep.Status == depStatusUnhealthy {
			status = depStatusUnhealthy
			break
		}
	}

	return c.JSON(http.StatusOK, HealthResponse{Status: status, Dependencies: deps})
}

func pingDB(ctx context.Context, db *sql.DB) DependencyStatus {
	if db == nil {
		return DependencyStatus{Status: depStatusUnknown, Message: "구성되지 않았습니다"}
	}
	if err := db.PingContext(ctx); err != nil {
		return DependencyStatus{Status: depStatusUnhealthy, Message: err.Error()}
	}
	return DependencyStatus{Status: depStatusHealthy}
}

func llmStatus(configured bool) DependencyStatus {
	if !configured {
		return DependencyStatus{Status: depStatusUnknown, Message: "GOOGLE_API_KEY가 설정되지 않았습니다"}
	}
	return DependencyStatus{Status: depStatusHealthy}
}
