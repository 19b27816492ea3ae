package api

import (
	"encoding/json"
	"net/http"

	"copytrade/internal/api/handlers"
	"copytrade/internal/api/middleware"
	"copytrade/internal/service"
	ws "copytrade/internal/websocket"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Dependencies содержит все зависимости для API handlers
type Dependencies struct {
	CopyService   service.CopyServiceInterface
	MarketService service.MarketServiceInterface
	Hub           *ws.Hub
	Logger        *zap.SugaredLogger
}

// SetupRoutes настраивает все HTTP маршруты приложения
//
// Назначение:
// Центральное место для определения всех API endpoints.
// Регистрирует handlers для каждого маршрута, применяет middleware,
// организует версионирование API (v1).
//
// Структура маршрутов:
//
// /api/v1/
//
//	├── /traders/
//	│   ├── POST / - зарегистрировать или обновить трейдера
//	│   ├── GET /top?limit=N - топ-N трейдеров по ROI
//	│   ├── GET /{id} - получить трейдера
//	│   ├── POST /{id}/follow - подписать фолловера на лидера
//	│   └── GET /{id}/followers - список фолловеров лидера
//	├── /trades/
//	│   └── POST / - принять торговое намерение лидера
//	├── /orders/
//	│   └── GET /pending - снимок очереди ожидающих ордеров
//	└── /price/
//	    ├── GET /{base}/{quote} - текущая котировка
//	    └── GET /{base}/{quote}/history - rolling-история цен
//
// /ws/
//
//	└── /stream - WebSocket для real-time обновлений
//
// /health  - проверка живости
// /metrics - Prometheus метрики
//
// Middleware применяется в следующем порядке:
// 1. Recovery (для всех маршрутов)
// 2. Logging (для всех маршрутов)
// 3. CORS (для всех маршрутов)
func SetupRoutes(deps *Dependencies) *mux.Router {
	router := mux.NewRouter()

	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	// Глобальные middleware (применяются ко всем маршрутам)
	router.Use(middleware.Recovery(logger))
	router.Use(middleware.Logging(logger))
	router.Use(middleware.CORS)

	// Создание handlers с внедрением зависимостей
	var traderHandler *handlers.TraderHandler
	var tradeHandler *handlers.TradeHandler
	if deps.CopyService != nil {
		traderHandler = handlers.NewTraderHandler(deps.CopyService)
		tradeHandler = handlers.NewTradeHandler(deps.CopyService)
	}

	var priceHandler *handlers.PriceHandler
	if deps.MarketService != nil {
		priceHandler = handlers.NewPriceHandler(deps.MarketService)
	}

	// API v1 routes
	api := router.PathPrefix("/api/v1").Subrouter()

	// Trader routes
	if traderHandler != nil {
		api.HandleFunc("/traders", traderHandler.RegisterTrader).Methods("POST")
		// /traders/top до /traders/{id}: иначе "top" матчится как id
		api.HandleFunc("/traders/top", traderHandler.GetTopTraders).Methods("GET")
		api.HandleFunc("/traders/{id}", traderHandler.GetTrader).Methods("GET")
		api.HandleFunc("/traders/{id}/follow", traderHandler.Follow).Methods("POST")
		api.HandleFunc("/traders/{id}/followers", traderHandler.GetFollowers).Methods("GET")
	}

	// Trade routes
	if tradeHandler != nil {
		api.HandleFunc("/trades", tradeHandler.PlaceTrade).Methods("POST")
		api.HandleFunc("/orders/pending", tradeHandler.GetPendingOrders).Methods("GET")
	}

	// Price routes
	if priceHandler != nil {
		api.HandleFunc("/price/{base}/{quote}", priceHandler.GetPrice).Methods("GET")
		api.HandleFunc("/price/{base}/{quote}/history", priceHandler.GetHistory).Methods("GET")
	}

	// WebSocket route
	if deps.Hub != nil {
		router.HandleFunc("/ws/stream", func(w http.ResponseWriter, r *http.Request) {
			ws.ServeWS(deps.Hub, w, r)
		})
	}

	// Prometheus метрики
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	// Health check endpoint
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}).Methods("GET")

	return router
}
