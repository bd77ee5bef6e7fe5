package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/Freeeeeet/jadwal_sync/internal/apperrors"
	"github.com/Freeeeeet/jadwal_sync/internal/model"
)

const (
	defaultRunsLimit = 20
	maxRunsLimit     = 100

	statusSuccess = "sukses"
	statusFailed  = "gagal"
)

// SyncRunner performs one portal-to-Notion sync.
type SyncRunner interface {
	Sync(ctx context.Context, identity, password string) (*model.SyncResult, error)
}

// HistoryLister reads recorded sync runs.
type HistoryLister interface {
	ListRecent(ctx context.Context, limit int) ([]*model.SyncRun, error)
}

type Handler struct {
	sync    SyncRunner
	history HistoryLister
	logger  *zap.Logger
}

// NewHandler creates the HTTP handlers. history may be nil when persistence is off.
func NewHandler(sync SyncRunner, history HistoryLister, logger *zap.Logger) *Handler {
	return &Handler{
		sync:    sync,
		history: history,
		logger:  logger,
	}
}

func (h *Handler) Register(e *echo.Echo) {
	e.GET("/", h.HandleRoot)
	e.POST("/api/sync-jadwal", h.HandleSync)
	e.GET("/api/sync-runs", h.HandleSyncRuns)
}

type syncRequest struct {
	Identity string `json:"identity"`
	Password string `json:"password"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type successItem struct {
	Status       string `json:"status"`
	MataKuliah   string `json:"mata_kuliah"`
	NotionPageID string `json:"notion_page_id"`
}

type failureItem struct {
	Status     string `json:"status"`
	MataKuliah string `json:"mata_kuliah"`
	Error      string `json:"error"`
}

type syncResponse struct {
	Message string        `json:"message"`
	RunID   string        `json:"run_id"`
	Sukses  []successItem `json:"sukses"`
	Gagal   []failureItem `json:"gagal"`
}

// HandleRoot is a liveness probe.
func (h *Handler) HandleRoot(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "API Jadwal ke Notion sedang berjalan."})
}

// HandleSync logs into the portal with the posted credentials and syncs the schedule.
// POST /api/sync-jadwal
func (h *Handler) HandleSync(c echo.Context) error {
	var req syncRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.InvalidArgument("Body harus berupa JSON {identity, password}")
	}

	result, err := h.sync.Sync(c.Request().Context(), req.Identity, req.Password)
	if err != nil {
		return err
	}

	if result.Total() == 0 {
		return c.JSON(http.StatusOK, messageResponse{Message: "Tidak ada jadwal yang ditemukan untuk disinkronkan."})
	}

	return c.JSON(http.StatusOK, newSyncResponse(result))
}

func newSyncResponse(result *model.SyncResult) syncResponse {
	resp := syncResponse{
		Message: fmt.Sprintf("Proses sinkronisasi selesai. Sukses: %d, Gagal: %d", len(result.Succeeded), len(result.Failed)),
		RunID:   result.RunID,
		Sukses:  make([]successItem, 0, len(result.Succeeded)),
		Gagal:   make([]failureItem, 0, len(result.Failed)),
	}

	for _, s := range result.Succeeded {
		resp.Sukses = append(resp.Sukses, successItem{Status: statusSuccess, MataKuliah: s.CourseName, NotionPageID: s.ExternalID})
	}
	for _, f := range result.Failed {
		resp.Gagal = append(resp.Gagal, failureItem{Status: statusFailed, MataKuliah: f.CourseName, Error: f.ErrorMessage})
	}

	return resp
}

// HandleSyncRuns lists recent runs.
// GET /api/sync-runs?limit=20
func (h *Handler) HandleSyncRuns(c echo.Context) error {
	if h.history == nil {
		return echo.NewHTTPError(http.StatusNotFound, "Riwayat sinkronisasi tidak diaktifkan.")
	}

	limit := defaultRunsLimit
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return apperrors.InvalidArgument(fmt.Sprintf("limit tidak valid: %s", raw))
		}
		limit = min(n, maxRunsLimit)
	}

	runs, err := h.history.ListRecent(c.Request().Context(), limit)
	if err != nil {
		return err
	}
	if runs == nil {
		runs = []*model.SyncRun{}
	}

	return c.JSON(http.StatusOK, runs)
}
