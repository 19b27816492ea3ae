package handlers

import (
	"errors"
	"net/http"

	"copytrade/internal/marketdata"
	"copytrade/internal/service"

	"github.com/gorilla/mux"
)

// PriceHandler обрабатывает HTTP запросы для котировок и истории цен.
//
// Endpoints:
// - GET /api/v1/price/{base}/{quote} - текущая котировка
// - GET /api/v1/price/{base}/{quote}/history - rolling-история цен
//
// Символ в пути разбит на base и quote, т.к. разделитель пары -
// слэш: /api/v1/price/BTC/USDT соответствует символу BTC/USDT.
type PriceHandler struct {
	marketService service.MarketServiceInterface
}

// NewPriceHandler создает новый PriceHandler с внедрением зависимостей.
func NewPriceHandler(marketService service.MarketServiceInterface) *PriceHandler {
	return &PriceHandler{
		marketService: marketService,
	}
}

// symbolFromVars собирает символ из переменных маршрута
func symbolFromVars(r *http.Request) string {
	vars := mux.Vars(r)
	return vars["base"] + "/" + vars["quote"]
}

// GetPrice возвращает текущую котировку символа.
//
// GET /api/v1/price/BTC/USDT
//
// Запрос уходит к провайдеру; последняя цена попадает в rolling-историю
// символа.
//
// Response 200 OK:
//
//	{"symbol": "BTC/USDT", "price": 42100.5, "bid": 42100.0, "ask": 42101.0,
//	 "high": 43000, "low": 41000, "volume": 1234.5, "timestamp": 1717000000000}
//
// Response 400 Bad Request: некорректный формат символа
// Response 404 Not Found: провайдер не знает такой символ
// Response 502 Bad Gateway: сбой провайдера (после retry)
func (h *PriceHandler) GetPrice(w http.ResponseWriter, r *http.Request) {
	symbol := symbolFromVars(r)

	snapshot, err := h.marketService.GetPrice(r.Context(), symbol)
	if err != nil {
		var provErr *marketdata.ProviderError
		switch {
		case errors.Is(err, service.ErrValidation):
			writeError(w, http.StatusBadRequest, "validation failed", err.Error())
		case errors.Is(err, marketdata.ErrSymbolNotFound):
			writeError(w, http.StatusNotFound, "symbol not found", symbol)
		case errors.As(err, &provErr):
			writeError(w, http.StatusBadGateway, "price provider unavailable", provErr.Error())
		default:
			writeError(w, http.StatusInternalServerError, "failed to get price", err.Error())
		}
		return
	}

	writeJSON(w, http.StatusOK, snapshot)
}

// GetHistory возвращает rolling-историю цен символа.
//
// GET /api/v1/price/BTC/USDT/history
//
// Цены от старых к новым, не больше ёмкости буфера. Пустая история
// для символа без запросов - не ошибка.
//
// Response 200 OK: {"symbol": "BTC/USDT", "prices": [41999.0, 42100.5], "count": 2}
// Response 400 Bad Request: некорректный формат символа
func (h *PriceHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	symbol := symbolFromVars(r)

	history, err := h.marketService.GetHistory(symbol)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			writeError(w, http.StatusBadRequest, "validation failed", err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to get history", err.Error())
		return
	}

	if history.Prices == nil {
		history.Prices = []float64{}
	}

	writeJSON(w, http.StatusOK, history)
}
