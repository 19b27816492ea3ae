package service

import (
	"errors"
	"fmt"
	"strings"

	"copytrade/internal/engine"
	"copytrade/internal/models"
	"copytrade/pkg/utils"
)

// Ошибки сервисного слоя
var (
	// ErrValidation - запрос не прошёл валидацию входных данных.
	// Конкретная причина в обёрнутом сообщении
	ErrValidation = errors.New("validation failed")
)

// RegisterTraderRequest - запрос на регистрацию трейдера
type RegisterTraderRequest struct {
	TraderID       string  `json:"trader_id,omitempty"` // опционально, иначе генерируется
	Name           string  `json:"name"`
	ROI            float64 `json:"roi"`
	PortfolioValue float64 `json:"portfolio_value"`
}

// FollowRequest - запрос на подписку фолловера на лидера
type FollowRequest struct {
	FollowerID string `json:"follower_id"`
}

// PlaceTradeRequest - торговое намерение лидера
type PlaceTradeRequest struct {
	LeaderID string  `json:"leader_id"`
	Type     string  `json:"type"` // BUY или SELL
	Symbol   string  `json:"symbol"`
	Quantity float64 `json:"quantity"`
	Price    float64 `json:"price"`
}

// CopyService предоставляет бизнес-логику копи-трейдинга поверх ядра.
//
// Отвечает за:
// - Валидацию входных данных до любой мутации состояния
// - Регистрацию трейдеров и подписки фолловеров
// - Приём торговых намерений лидеров (постановка в очередь)
// - Запросы к лидерборду и очереди
//
// Валидация atomic: запрос либо проходит целиком, либо отклоняется
// без частичного применения. Всё состояние живёт в ядре, сервис
// состояния не имеет.
type CopyService struct {
	engine            *engine.Engine
	topTradersDefault int
}

// NewCopyService создает новый экземпляр CopyService
func NewCopyService(eng *engine.Engine, topTradersDefault int) *CopyService {
	if topTradersDefault < 1 {
		topTradersDefault = 5
	}
	return &CopyService{
		engine:            eng,
		topTradersDefault: topTradersDefault,
	}
}

// RegisterTrader регистрирует нового трейдера или обновляет существующего.
//
// Возвращает ErrValidation при пустом имени или отрицательном портфеле.
func (s *CopyService) RegisterTrader(req *RegisterTraderRequest) (models.Trader, error) {
	if err := utils.ValidateTraderName(req.Name); err != nil {
		return models.Trader{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if req.PortfolioValue < 0 {
		return models.Trader{}, fmt.Errorf("%w: portfolio_value cannot be negative", ErrValidation)
	}

	return s.engine.RegisterTrader(models.TraderCreate{
		TraderID:       strings.TrimSpace(req.TraderID),
		Name:           strings.TrimSpace(req.Name),
		ROI:            req.ROI,
		PortfolioValue: req.PortfolioValue,
	}), nil
}

// GetTrader возвращает трейдера по id.
// Возвращает engine.ErrTraderNotFound для неизвестного id.
func (s *CopyService) GetTrader(traderID string) (models.Trader, error) {
	trader, ok := s.engine.GetTrader(traderID)
	if !ok {
		return models.Trader{}, engine.ErrTraderNotFound
	}
	return trader, nil
}

// GetTopTraders возвращает топ-N трейдеров по ROI.
// limit <= 0 подставляет дефолт конфигурации.
func (s *CopyService) GetTopTraders(limit int) []models.Trader {
	if limit <= 0 {
		limit = s.topTradersDefault
	}
	return s.engine.GetTopTraders(limit)
}

// Follow подписывает фолловера на лидера.
//
// Возвращает ErrValidation при пустом follower_id, иначе ошибки ядра
// (engine.ErrLeaderNotFound, engine.ErrFollowerNotFound).
func (s *CopyService) Follow(leaderID string, req *FollowRequest) error {
	followerID := strings.TrimSpace(req.FollowerID)
	if followerID == "" {
		return fmt.Errorf("%w: follower_id cannot be empty", ErrValidation)
	}
	if followerID == leaderID {
		return fmt.Errorf("%w: trader cannot follow itself", ErrValidation)
	}

	return s.engine.Follow(leaderID, followerID)
}

// FollowersOf возвращает список фолловеров лидера.
// Возвращает engine.ErrTraderNotFound для неизвестного лидера.
func (s *CopyService) FollowersOf(leaderID string) ([]string, error) {
	if _, ok := s.engine.GetTrader(leaderID); !ok {
		return nil, engine.ErrTraderNotFound
	}
	return s.engine.FollowersOf(leaderID), nil
}

// PlaceTrade принимает торговое намерение лидера и ставит его в очередь.
//
// Исполнение по фолловерам произойдёт в ближайшем drain-цикле, ответ
// не ждёт его. Возвращает ErrValidation для некорректных величин и
// engine.ErrLeaderNotFound для неизвестного лидера.
func (s *CopyService) PlaceTrade(req *PlaceTradeRequest) (models.Order, error) {
	orderType := models.OrderType(strings.ToUpper(strings.TrimSpace(req.Type)))
	if !orderType.IsValid() {
		return models.Order{}, fmt.Errorf("%w: type must be BUY or SELL, got %q", ErrValidation, req.Type)
	}
	if err := utils.ValidateSymbol(req.Symbol); err != nil {
		return models.Order{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if err := utils.ValidateQuantity(req.Quantity); err != nil {
		return models.Order{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if err := utils.ValidatePrice(req.Price); err != nil {
		return models.Order{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	return s.engine.ExecuteLeaderTrade(req.LeaderID, orderType, req.Symbol, req.Quantity, req.Price)
}

// PendingOrders возвращает снимок очереди от старых к новым
func (s *CopyService) PendingOrders() []models.Order {
	orders := s.engine.PendingOrders()
	if orders == nil {
		orders = []models.Order{}
	}
	return orders
}

// QueueSize возвращает текущую глубину очереди
func (s *CopyService) QueueSize() int {
	return s.engine.QueueSize()
}

// TraderCount возвращает количество зарегистрированных трейдеров
func (s *CopyService) TraderCount() int {
	return s.engine.TraderCount()
}
