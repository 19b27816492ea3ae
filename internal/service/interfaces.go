package service

import (
	"context"

	"copytrade/internal/models"
)

// ============ Интерфейсы сервисов для Dependency Injection ============

// CopyServiceInterface определяет интерфейс сервиса копи-трейдинга
type CopyServiceInterface interface {
	RegisterTrader(req *RegisterTraderRequest) (models.Trader, error)
	GetTrader(traderID string) (models.Trader, error)
	GetTopTraders(limit int) []models.Trader
	Follow(leaderID string, req *FollowRequest) error
	FollowersOf(leaderID string) ([]string, error)
	PlaceTrade(req *PlaceTradeRequest) (models.Order, error)
	PendingOrders() []models.Order
	QueueSize() int
	TraderCount() int
}

// MarketServiceInterface определяет интерфейс сервиса котировок
type MarketServiceInterface interface {
	GetPrice(ctx context.Context, symbol string) (models.PriceSnapshot, error)
	GetHistory(symbol string) (models.PriceHistory, error)
}

// Проверяем, что реальные сервисы реализуют интерфейсы
var _ CopyServiceInterface = (*CopyService)(nil)
var _ MarketServiceInterface = (*MarketService)(nil)
