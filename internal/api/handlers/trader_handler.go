package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"copytrade/internal/engine"
	"copytrade/internal/models"
	"copytrade/internal/service"

	"github.com/gorilla/mux"
)

// TraderHandler обрабатывает HTTP запросы для трейдеров и подписок.
//
// Endpoints:
// - POST /api/v1/traders - зарегистрировать или обновить трейдера
// - GET /api/v1/traders/top?limit=N - топ-N трейдеров по ROI
// - GET /api/v1/traders/{id} - получить трейдера
// - POST /api/v1/traders/{id}/follow - подписать фолловера на лидера
// - GET /api/v1/traders/{id}/followers - список фолловеров лидера
type TraderHandler struct {
	copyService service.CopyServiceInterface
}

// NewTraderHandler создает новый TraderHandler с внедрением зависимостей.
func NewTraderHandler(copyService service.CopyServiceInterface) *TraderHandler {
	return &TraderHandler{
		copyService: copyService,
	}
}

// RegisterTrader регистрирует нового трейдера или обновляет существующего.
//
// POST /api/v1/traders
//
// Request:
//
//	{"trader_id": "t-1", "name": "alice", "roi": 12.5, "portfolio_value": 1000}
//
// trader_id опционален: без него id генерируется. Повторная регистрация
// существующего id обновляет трейдера и перестраивает лидерборд.
//
// Response 201 Created: новый трейдер
// Response 200 OK: обновление существующего trader_id
// Response 400 Bad Request: {"error": "validation failed", "details": "..."}
func (h *TraderHandler) RegisterTrader(w http.ResponseWriter, r *http.Request) {
	var req service.RegisterTraderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	status := http.StatusCreated
	if req.TraderID != "" {
		if _, err := h.copyService.GetTrader(req.TraderID); err == nil {
			status = http.StatusOK
		}
	}

	trader, err := h.copyService.RegisterTrader(&req)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			writeError(w, http.StatusBadRequest, "validation failed", err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to register trader", err.Error())
		return
	}

	writeJSON(w, status, trader)
}

// GetTrader возвращает трейдера по id.
//
// GET /api/v1/traders/{id}
//
// Response 200 OK: объект трейдера
// Response 404 Not Found: {"error": "trader not found"}
func (h *TraderHandler) GetTrader(w http.ResponseWriter, r *http.Request) {
	traderID := mux.Vars(r)["id"]

	trader, err := h.copyService.GetTrader(traderID)
	if err != nil {
		if errors.Is(err, engine.ErrTraderNotFound) {
			writeError(w, http.StatusNotFound, "trader not found", traderID)
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to get trader", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, trader)
}

// GetTopTraders возвращает топ-N трейдеров по ROI (по убыванию).
//
// GET /api/v1/traders/top?limit=5
//
// Query Parameters:
// - limit (optional): количество трейдеров; limit может превышать
//   население, вернутся все доступные
//
// Response 200 OK:
//
//	[
//	  {"trader_id": "b", "name": "B", "roi": 25.0, "portfolio_value": 1000},
//	  {"trader_id": "a", "name": "A", "roi": 10.0, "portfolio_value": 1000}
//	]
func (h *TraderHandler) GetTopTraders(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed < 1 {
			writeError(w, http.StatusBadRequest, "invalid limit", limitStr)
			return
		}
		limit = parsed
	}

	top := h.copyService.GetTopTraders(limit)
	if top == nil {
		top = []models.Trader{}
	}

	writeJSON(w, http.StatusOK, top)
}

// Follow подписывает фолловера на лидера.
//
// POST /api/v1/traders/{id}/follow
//
// Request:
//
//	{"follower_id": "f-1"}
//
// Подписка идемпотентна: повторный запрос не создаёт дубликата.
//
// Response 204 No Content
// Response 400 Bad Request: пустой follower_id или подписка на себя
// Response 404 Not Found: неизвестный лидер или фолловер
func (h *TraderHandler) Follow(w http.ResponseWriter, r *http.Request) {
	leaderID := mux.Vars(r)["id"]

	var req service.FollowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := h.copyService.Follow(leaderID, &req); err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			writeError(w, http.StatusBadRequest, "validation failed", err.Error())
		case errors.Is(err, engine.ErrLeaderNotFound):
			writeError(w, http.StatusNotFound, "leader not found", leaderID)
		case errors.Is(err, engine.ErrFollowerNotFound):
			writeError(w, http.StatusNotFound, "follower not found", req.FollowerID)
		default:
			writeError(w, http.StatusInternalServerError, "failed to follow", err.Error())
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetFollowers возвращает список фолловеров лидера.
//
// GET /api/v1/traders/{id}/followers
//
// Response 200 OK: {"leader_id": "l", "followers": ["f1", "f2"], "count": 2}
// Response 404 Not Found: неизвестный лидер
func (h *TraderHandler) GetFollowers(w http.ResponseWriter, r *http.Request) {
	leaderID := mux.Vars(r)["id"]

	followers, err := h.copyService.FollowersOf(leaderID)
	if err != nil {
		if errors.Is(err, engine.ErrTraderNotFound) {
			writeError(w, http.StatusNotFound, "trader not found", leaderID)
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to get followers", err.Error())
		return
	}

	if followers == nil {
		followers = []string{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"leader_id": leaderID,
		"followers": followers,
		"count":     len(followers),
	})
}
