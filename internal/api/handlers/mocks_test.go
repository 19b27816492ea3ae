package handlers

import (
	"context"
	"fmt"
	"sync"

	"copytrade/internal/engine"
	"copytrade/internal/marketdata"
	"copytrade/internal/models"
	"copytrade/internal/service"
)

// ============ Mock Copy Service ============

// MockCopyService мок для CopyServiceInterface
type MockCopyService struct {
	traders   map[string]models.Trader
	followers map[string][]string
	orders    []models.Order
	nextID    int
	mu        sync.RWMutex
}

// NewMockCopyService создает новый мок сервиса копи-трейдинга
func NewMockCopyService() *MockCopyService {
	return &MockCopyService{
		traders:   make(map[string]models.Trader),
		followers: make(map[string][]string),
		nextID:    1,
	}
}

func (m *MockCopyService) RegisterTrader(req *service.RegisterTraderRequest) (models.Trader, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if req.Name == "" {
		return models.Trader{}, fmt.Errorf("%w: trader name cannot be empty", service.ErrValidation)
	}

	traderID := req.TraderID
	if traderID == "" {
		traderID = fmt.Sprintf("trader-%d", m.nextID)
		m.nextID++
	}

	trader := models.Trader{
		TraderID:       traderID,
		Name:           req.Name,
		ROI:            req.ROI,
		PortfolioValue: req.PortfolioValue,
	}
	m.traders[traderID] = trader
	return trader, nil
}

func (m *MockCopyService) GetTrader(traderID string) (models.Trader, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	trader, ok := m.traders[traderID]
	if !ok {
		return models.Trader{}, engine.ErrTraderNotFound
	}
	return trader, nil
}

func (m *MockCopyService) GetTopTraders(limit int) []models.Trader {
	m.mu.RLock()
	defer m.mu.RUnlock()

	top := make([]models.Trader, 0, len(m.traders))
	for _, trader := range m.traders {
		top = append(top, trader)
	}
	if limit > 0 && limit < len(top) {
		top = top[:limit]
	}
	return top
}

func (m *MockCopyService) Follow(leaderID string, req *service.FollowRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if req.FollowerID == "" {
		return fmt.Errorf("%w: follower_id cannot be empty", service.ErrValidation)
	}
	if _, ok := m.traders[leaderID]; !ok {
		return engine.ErrLeaderNotFound
	}
	if _, ok := m.traders[req.FollowerID]; !ok {
		return engine.ErrFollowerNotFound
	}

	m.followers[leaderID] = append(m.followers[leaderID], req.FollowerID)
	return nil
}

func (m *MockCopyService) FollowersOf(leaderID string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if _, ok := m.traders[leaderID]; !ok {
		return nil, engine.ErrTraderNotFound
	}
	return m.followers[leaderID], nil
}

func (m *MockCopyService) PlaceTrade(req *service.PlaceTradeRequest) (models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	orderType := models.OrderType(req.Type)
	if !orderType.IsValid() {
		return models.Order{}, fmt.Errorf("%w: type must be BUY or SELL", service.ErrValidation)
	}
	if _, ok := m.traders[req.LeaderID]; !ok {
		return models.Order{}, engine.ErrLeaderNotFound
	}

	order := models.Order{
		OrderID:   fmt.Sprintf("order-%d", len(m.orders)+1),
		Type:      orderType,
		Symbol:    req.Symbol,
		Quantity:  req.Quantity,
		Price:     req.Price,
		Timestamp: 1717000000000,
		LeaderID:  req.LeaderID,
	}
	m.orders = append(m.orders, order)
	return order, nil
}

func (m *MockCopyService) PendingOrders() []models.Order {
	m.mu.RLock()
	defer m.mu.RUnlock()

	orders := make([]models.Order, len(m.orders))
	copy(orders, m.orders)
	return orders
}

func (m *MockCopyService) QueueSize() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.orders)
}

func (m *MockCopyService) TraderCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.traders)
}

// ============ Mock Market Service ============

// MockMarketService мок для MarketServiceInterface
type MockMarketService struct {
	snapshots map[string]models.PriceSnapshot
	histories map[string]models.PriceHistory
	priceErr  error
}

// NewMockMarketService создает новый мок сервиса котировок
func NewMockMarketService() *MockMarketService {
	return &MockMarketService{
		snapshots: make(map[string]models.PriceSnapshot),
		histories: make(map[string]models.PriceHistory),
	}
}

func (m *MockMarketService) GetPrice(ctx context.Context, symbol string) (models.PriceSnapshot, error) {
	if m.priceErr != nil {
		return models.PriceSnapshot{}, m.priceErr
	}
	snapshot, ok := m.snapshots[symbol]
	if !ok {
		return models.PriceSnapshot{}, marketdata.ErrSymbolNotFound
	}
	return snapshot, nil
}

func (m *MockMarketService) GetHistory(symbol string) (models.PriceHistory, error) {
	history, ok := m.histories[symbol]
	if !ok {
		return models.PriceHistory{Symbol: symbol, Prices: []float64{}}, nil
	}
	return history, nil
}
