package marketdata

import (
	"context"
	"sync"

	"copytrade/internal/engine"
	"copytrade/internal/models"
	"copytrade/pkg/utils"

	"go.uber.org/zap"
)

// Service управляет котировками и rolling-историей цен по символам.
//
// Собственный RWMutex: история цен не делит блокировку с ядром движка.
// Сетевой запрос к провайдеру выполняется ВНЕ блокировки, залочена
// только запись результата в буфер.
// PriceBroadcaster рассылает свежие котировки подписчикам live-потока.
// Реализуется websocket hub'ом; сервис не знает о транспортном слое.
type PriceBroadcaster interface {
	BroadcastPrice(snapshot models.PriceSnapshot)
}

type Service struct {
	mu        sync.RWMutex
	histories map[string]*engine.RollingHistory // ключ: символ в формате BTC/USDT

	source      PriceSource
	capacity    int
	broadcaster PriceBroadcaster
	log         *zap.SugaredLogger
}

// NewService создаёт сервис котировок.
// capacity - ёмкость rolling-буфера на символ (HISTORY_CAPACITY).
func NewService(source PriceSource, capacity int, logger *zap.SugaredLogger) *Service {
	if capacity < 1 {
		capacity = engine.DefaultHistoryCapacity
	}
	return &Service{
		histories: make(map[string]*engine.RollingHistory),
		source:    source,
		capacity:  capacity,
		log:       logger,
	}
}

// SetBroadcaster подключает рассылку priceUpdate сообщений.
// Успешный GetPrice после этого уходит и в live-поток.
func (s *Service) SetBroadcaster(b PriceBroadcaster) {
	s.broadcaster = b
}

// GetPrice получает текущую котировку символа и записывает последнюю
// цену в rolling-историю.
//
// symbol в формате BTC/USDT; для провайдера нормализуется в BTCUSDT.
// Буфер для нового символа создаётся лениво при первом запросе.
func (s *Service) GetPrice(ctx context.Context, symbol string) (models.PriceSnapshot, error) {
	ticker, err := s.source.FetchTicker(ctx, utils.NormalizeSymbol(symbol))
	if err != nil {
		PriceFetches.WithLabelValues("error").Inc()
		s.log.Warnw("price fetch failed", "symbol", symbol, "error", err)
		return models.PriceSnapshot{}, err
	}
	PriceFetches.WithLabelValues("ok").Inc()

	s.recordPrice(symbol, ticker.LastPrice)

	snapshot := models.PriceSnapshot{
		Symbol:    symbol,
		Price:     ticker.LastPrice,
		Bid:       ticker.BidPrice,
		Ask:       ticker.AskPrice,
		High:      ticker.HighPrice,
		Low:       ticker.LowPrice,
		Volume:    ticker.Volume,
		Timestamp: utils.ToMillis(ticker.Timestamp),
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastPrice(snapshot)
	}

	return snapshot, nil
}

// recordPrice добавляет цену в буфер символа, создавая буфер при
// первом обращении
func (s *Service) recordPrice(symbol string, price float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	history, ok := s.histories[symbol]
	if !ok {
		history = engine.NewRollingHistory(s.capacity)
		s.histories[symbol] = history
		TrackedSymbols.Set(float64(len(s.histories)))
	}
	history.Add(price)
}

// GetHistory возвращает накопленную историю цен символа от старых к
// новым. Для незнакомого символа история пуста, это не ошибка.
func (s *Service) GetHistory(symbol string) models.PriceHistory {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history, ok := s.histories[symbol]
	if !ok {
		return models.PriceHistory{Symbol: symbol, Prices: []float64{}}
	}

	prices := history.ReadAll()
	return models.PriceHistory{
		Symbol: symbol,
		Prices: prices,
		Count:  len(prices),
	}
}

// Symbols возвращает список символов с накопленной историей
func (s *Service) Symbols() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	symbols := make([]string, 0, len(s.histories))
	for symbol := range s.histories {
		symbols = append(symbols, symbol)
	}
	return symbols
}

// Close закрывает соединения с провайдером
func (s *Service) Close() {
	s.source.Close()
}
