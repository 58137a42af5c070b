package http

import (
	"Pulse-Backend/internal/service"
	"encoding/json"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SessionCookieName имя cookie, идентифицирующей браузерную сессию
const SessionCookieName = "pulse_session"

// VisitsHandler обработчик учета посещений
type VisitsHandler struct {
	tracker *service.VisitTracker
	log     *zap.Logger
}

// NewVisitsHandler создает новый обработчик посещений
func NewVisitsHandler(tracker *service.VisitTracker, log *zap.Logger) *VisitsHandler {
	return &VisitsHandler{
		tracker: tracker,
		log:     log,
	}
}

// TrackVisitResponse структура ответа учета посещения
type TrackVisitResponse struct {
	Counted bool  `json:"counted"`
	Count   int64 `json:"count"`
}

// TrackVisit учитывает посещение текущей сессии
//
//	@Summary		Track a visit
//	@Description	Counts the current browsing session once and enriches the visit log asynchronously
//	@Tags			Visits
//	@Produce		json
//	@Success		200	{object}	TrackVisitResponse	"Visit processed"
//	@Failure		503	{object}	map[string]string	"Counter temporarily unavailable"
//	@Router			/api/visits [post]
func (h *VisitsHandler) TrackVisit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	sessionID := h.sessionID(w, r)
	ipAddress := extractIPAddress(r)
	userAgent := r.UserAgent()

	result, err := h.tracker.Track(r.Context(), sessionID, ipAddress, userAgent)
	if err != nil {
		// Сессия не помечена: следующая загрузка страницы повторит попытку
		h.log.Error("failed to track visit", zap.String("session_id", sessionID), zap.Error(err))
		writeError(w, "Visit counting temporarily unavailable", http.StatusServiceUnavailable)
		return
	}

	writeJSON(w, http.StatusOK, TrackVisitResponse{
		Counted: result.Counted,
		Count:   result.Count,
	})
}

// GetCountResponse структура ответа текущего значения счетчика
type GetCountResponse struct {
	Count int64 `json:"count"`
}

// GetCount возвращает текущее значение счетчика посетителей
//
//	@Summary		Get visitor count
//	@Description	Returns the current value of the global visitor counter
//	@Tags			Visits
//	@Produce		json
//	@Success		200	{object}	GetCountResponse	"Current count"
//	@Failure		500	{object}	map[string]string	"Internal server error"
//	@Router			/api/visitors/count [get]
func (h *VisitsHandler) GetCount(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	count, err := h.tracker.Count(r.Context())
	if err != nil {
		h.log.Error("failed to read visitor count", zap.Error(err))
		writeError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, GetCountResponse{Count: count})
}

// sessionID возвращает идентификатор сессии из cookie либо выдает новый
func (h *VisitsHandler) sessionID(w http.ResponseWriter, r *http.Request) string {
	if cookie, err := r.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	sessionID := uuid.New().String()
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    sessionID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(24 * time.Hour),
	})
	return sessionID
}

// extractIPAddress извлекает IP клиента с учетом реверс-прокси
func extractIPAddress(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		parts := strings.Split(forwarded, ",")
		return strings.TrimSpace(parts[0])
	}

	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return strings.TrimSpace(realIP)
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// --- Общие JSON helpers ---

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, message string, status int) {
	writeJSON(w, status, map[string]string{"error": message})
}
