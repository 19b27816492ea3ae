package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"copytrade/internal/engine"
	"copytrade/internal/service"
)

// TradeHandler обрабатывает HTTP запросы для торговых намерений лидеров
// и очереди диспетчеризации.
//
// Endpoints:
// - POST /api/v1/trades - принять торговое намерение лидера
// - GET /api/v1/orders/pending - снимок очереди ожидающих ордеров
type TradeHandler struct {
	copyService service.CopyServiceInterface
}

// NewTradeHandler создает новый TradeHandler с внедрением зависимостей.
func NewTradeHandler(copyService service.CopyServiceInterface) *TradeHandler {
	return &TradeHandler{
		copyService: copyService,
	}
}

// PlaceTrade принимает торговое намерение лидера.
//
// POST /api/v1/trades
//
// Request:
//
//	{"leader_id": "l", "type": "BUY", "symbol": "BTC/USDT", "quantity": 0.5, "price": 42000}
//
// Ордер ставится в очередь; исполнение по фолловерам произойдёт в
// ближайшем drain-цикле, поэтому ответ 202, а не 200.
//
// Response 202 Accepted: объект ордера с id и временной меткой
// Response 400 Bad Request: {"error": "validation failed", "details": "..."}
// Response 404 Not Found: {"error": "leader not found"}
func (h *TradeHandler) PlaceTrade(w http.ResponseWriter, r *http.Request) {
	var req service.PlaceTradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	order, err := h.copyService.PlaceTrade(&req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			writeError(w, http.StatusBadRequest, "validation failed", err.Error())
		case errors.Is(err, engine.ErrLeaderNotFound):
			writeError(w, http.StatusNotFound, "leader not found", req.LeaderID)
		default:
			writeError(w, http.StatusInternalServerError, "failed to place trade", err.Error())
		}
		return
	}

	writeJSON(w, http.StatusAccepted, order)
}

// GetPendingOrders возвращает снимок очереди ожидающих ордеров.
//
// GET /api/v1/orders/pending
//
// Ордера от старых к новым (порядок обработки drain-циклом).
//
// Response 200 OK: {"orders": [...], "count": 2}
func (h *TradeHandler) GetPendingOrders(w http.ResponseWriter, r *http.Request) {
	orders := h.copyService.PendingOrders()

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"orders": orders,
		"count":  len(orders),
	})
}
