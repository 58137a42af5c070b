package http

import (
	"Pulse-Backend/internal/counter"
	"Pulse-Backend/internal/realtime"
	"net/http"

	"go.uber.org/zap"
)

// WebSocketHandler обработчик live-подписки на счетчик посетителей
type WebSocketHandler struct {
	hub     *realtime.Hub
	counter *counter.Service
	log     *zap.Logger
}

// NewWebSocketHandler создает новый websocket обработчик
func NewWebSocketHandler(hub *realtime.Hub, counterSvc *counter.Service, log *zap.Logger) *WebSocketHandler {
	return &WebSocketHandler{
		hub:     hub,
		counter: counterSvc,
		log:     log,
	}
}

// LiveCount подключает виджет к live-потоку значения счетчика.
// Первым сообщением клиент получает текущее значение, далее каждое
// изменение; при отключении подписка полностью освобождается.
func (h *WebSocketHandler) LiveCount(w http.ResponseWriter, r *http.Request) {
	count, err := h.counter.Get(r.Context())
	if err != nil {
		// Виджет скрывает себя при недоступном счетчике
		h.log.Error("failed to read count for websocket client", zap.Error(err))
		writeError(w, "Counter temporarily unavailable", http.StatusServiceUnavailable)
		return
	}

	h.hub.ServeWS(w, r, count)
}
