package http

import (
	"Pulse-Backend/internal/scheduler"
	"Pulse-Backend/internal/service"
	"net/http"
	"strconv"

	"go.uber.org/zap"
)

// Окна агрегации, доступные дашборду (в днях)
var allowedWindows = map[int]bool{7: true, 30: true, 90: true}

// AnalyticsHandler обработчик аналитики для дашборда
type AnalyticsHandler struct {
	views     *service.AnalyticsView
	refresher *scheduler.Scheduler
	log       *zap.Logger
}

// NewAnalyticsHandler создает новый обработчик аналитики
func NewAnalyticsHandler(views *service.AnalyticsView, refresher *scheduler.Scheduler, log *zap.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		views:     views,
		refresher: refresher,
		log:       log,
	}
}

// GetAnalytics возвращает агрегированную аналитику за выбранное окно
//
//	@Summary		Get aggregated analytics
//	@Description	Computes trends, geo distribution, device/browser stats, peak hours and recent activity from the visit log
//	@Tags			Analytics
//	@Produce		json
//	@Param			window	query		int	false	"Aggregation window in days (7, 30 or 90)"	default(7)
//	@Success		200		{object}	domain.AggregateView	"Aggregated view"
//	@Failure		400		{object}	map[string]string		"Invalid window"
//	@Failure		500		{object}	map[string]string		"Internal server error"
//	@Router			/api/analytics [get]
func (h *AnalyticsHandler) GetAnalytics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	windowDays := 7
	if raw := r.URL.Query().Get("window"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || !allowedWindows[parsed] {
			writeError(w, "Invalid window: use 7, 30 or 90", http.StatusBadRequest)
			return
		}
		windowDays = parsed
	}

	// Окно запоминается и для фоновых обновлений планировщика
	h.refresher.SetWindow(windowDays)

	view, err := h.views.Build(r.Context(), windowDays)
	if err != nil {
		h.log.Error("failed to build aggregate view", zap.Int("window_days", windowDays), zap.Error(err))
		writeError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, view)
}

// RefreshStateResponse структура ответа состояния планировщика
type RefreshStateResponse struct {
	State     string `json:"state"`
	Countdown int    `json:"countdown"`
}

// GetRefreshState возвращает текущее состояние планировщика обновлений
//
//	@Summary		Get refresh scheduler state
//	@Tags			Analytics
//	@Produce		json
//	@Success		200	{object}	RefreshStateResponse	"Scheduler state"
//	@Router			/api/analytics/refresh [get]
func (h *AnalyticsHandler) GetRefreshState(w http.ResponseWriter, r *http.Request) {
	state, countdown := h.refresher.State()
	writeJSON(w, http.StatusOK, RefreshStateResponse{
		State:     string(state),
		Countdown: countdown,
	})
}

// TriggerRefresh запускает немедленное обновление аналитики
//
//	@Summary		Trigger a manual refresh
//	@Tags			Analytics
//	@Produce		json
//	@Success		202	{object}	RefreshStateResponse	"Refresh started"
//	@Router			/api/analytics/refresh [post]
func (h *AnalyticsHandler) TriggerRefresh(w http.ResponseWriter, r *http.Request) {
	h.refresher.RefreshNow()
	state, countdown := h.refresher.State()
	writeJSON(w, http.StatusAccepted, RefreshStateResponse{
		State:     string(state),
		Countdown: countdown,
	})
}

// ToggleRefresh переключает режим обновления между auto и manual
//
//	@Summary		Toggle auto/manual refresh mode
//	@Tags			Analytics
//	@Produce		json
//	@Success		200	{object}	RefreshStateResponse	"New scheduler state"
//	@Router			/api/analytics/refresh/toggle [post]
func (h *AnalyticsHandler) ToggleRefresh(w http.ResponseWriter, r *http.Request) {
	h.refresher.Toggle()
	state, countdown := h.refresher.State()
	writeJSON(w, http.StatusOK, RefreshStateResponse{
		State:     string(state),
		Countdown: countdown,
	})
}

// HandleRefreshAPI маршрутизирует /api/analytics/refresh по HTTP методам
func (h *AnalyticsHandler) HandleRefreshAPI(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.GetRefreshState(w, r)
	case http.MethodPost:
		h.TriggerRefresh(w, r)
	default:
		writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}
