package engine

import (
	"context"
	"errors"
	"sync"
	"time"

	"copytrade/internal/config"
	"copytrade/internal/models"
	"copytrade/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Ошибки ядра. Все восстановимы для вызывающей стороны и никогда
// не фатальны для движка.
var (
	ErrTraderNotFound   = errors.New("trader not found")
	ErrLeaderNotFound   = errors.New("leader not found")
	ErrFollowerNotFound = errors.New("follower not found")
)

// Комиссии симулированного исполнения.
//
// Асимметрия намеренная и зафиксирована как бизнес-правило:
// BUY уменьшает портфель на quantity*price*0.001,
// SELL увеличивает его на quantity*price*0.999.
const (
	buyFeeRate       = 0.001
	sellProceedsRate = 0.999
)

// ExecutionBroadcaster - интерфейс для отправки результатов drain-цикла
// подключенным клиентам.
//
// Реализуется пакетом internal/websocket/Hub. Движку известен только
// интерфейс: транспортный слой подставляется при старте процесса.
type ExecutionBroadcaster interface {
	// BroadcastExecutions отправляет записи результата одного drain-цикла
	BroadcastExecutions(results []models.ExecutionResult)

	// BroadcastLeaderboard отправляет актуальный срез лидерборда
	BroadcastLeaderboard(traders []models.Trader)
}

// Engine - ядро копи-трейдинга
//
// Композиция: реестр трейдеров, лидерборд (max-heap по ROI), граф
// лидер→фолловеры и FIFO очередь диспетчеризации. Транспортный слой
// вызывает операции Engine синхронно; исполнение ордеров по фолловерам
// отложено до периодического drain-цикла (Run).
//
// Дисциплина блокировок: один RWMutex на весь агрегат. Вложенные
// структуры сами не потокобезопасны; любая операция, затрагивающая
// несколько структур (например, перестройка лидерборда при обновлении
// трейдера), атомарна для читателей. Читатели не могут наблюдать
// частично просеянный heap или очередь в середине мутации.
//
// Путь цен (marketdata) намеренно изолирован от этого мьютекса:
// медленный провайдер котировок не задерживает диспетчеризацию сделок
// и запросы к лидерборду.
type Engine struct {
	mu sync.RWMutex

	// Реестр трейдеров: владеет каноническими значениями
	traders map[string]*models.Trader

	// Лидерборд держит указатели на значения реестра; изменение ROI
	// требует полной перестройки (rebuild-on-update)
	leaderboard *Leaderboard

	// Граф подписок лидер → фолловеры
	followers *FollowGraph

	// Очередь ожидающих ордеров (строго FIFO)
	queue *DispatchQueue

	// Broadcaster для real-time обновлений (может быть nil)
	broadcaster ExecutionBroadcaster

	drainInterval time.Duration
	log           *zap.SugaredLogger
}

// NewEngine создаёт новое ядро копи-трейдинга
func NewEngine(cfg *config.Config, logger *zap.SugaredLogger) *Engine {
	return &Engine{
		traders:       make(map[string]*models.Trader),
		leaderboard:   NewLeaderboard(),
		followers:     NewFollowGraph(),
		queue:         NewDispatchQueue(),
		drainInterval: cfg.Engine.DrainInterval,
		log:           logger,
	}
}

// SetBroadcaster подключает broadcaster для real-time обновлений.
// Вызывается один раз при старте, до запуска drain-цикла.
func (e *Engine) SetBroadcaster(b ExecutionBroadcaster) {
	e.broadcaster = b
}

// ============ Реестр и лидерборд ============

// RegisterTrader регистрирует нового трейдера или обновляет существующего.
//
// Если TraderID не задан, генерируется новый uuid. Если трейдер с таким
// id уже отслеживается, лидерборд перестраивается целиком из реестра без
// старого значения, после чего обновлённый трейдер вставляется и в
// реестр, и в лидерборд. Перестройка обязательна: heap не умеет менять
// ключ на месте, а пропуск перестройки оставил бы stale-ранжирование.
func (e *Engine) RegisterTrader(data models.TraderCreate) models.Trader {
	e.mu.Lock()
	defer e.mu.Unlock()

	traderID := data.TraderID
	if traderID == "" {
		traderID = uuid.NewString()
	}

	trader := &models.Trader{
		TraderID:       traderID,
		Name:           data.Name,
		ROI:            data.ROI,
		PortfolioValue: data.PortfolioValue,
	}

	if _, exists := e.traders[traderID]; exists {
		// Rebuild-on-update: выбрасываем старое значение и перестраиваем
		delete(e.traders, traderID)
		e.rebuildLeaderboard()
		LeaderboardRebuilds.Inc()
	}

	e.traders[traderID] = trader
	e.leaderboard.Insert(trader)
	TrackedTraders.Set(float64(len(e.traders)))

	return *trader
}

// rebuildLeaderboard перестраивает лидерборд из текущего реестра.
// Вызывается только под write-lock.
func (e *Engine) rebuildLeaderboard() {
	e.leaderboard = NewLeaderboard()
	for _, trader := range e.traders {
		e.leaderboard.Insert(trader)
	}
}

// GetTrader возвращает копию трейдера по id
func (e *Engine) GetTrader(traderID string) (models.Trader, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	trader, ok := e.traders[traderID]
	if !ok {
		return models.Trader{}, false
	}
	return *trader, true
}

// TraderCount возвращает количество зарегистрированных трейдеров
func (e *Engine) TraderCount() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.traders)
}

// GetTopTraders возвращает топ-N трейдеров по ROI (по убыванию).
// limit может превышать население - вернутся все доступные.
func (e *Engine) GetTopTraders(limit int) []models.Trader {
	e.mu.RLock()
	defer e.mu.RUnlock()

	sorted := e.leaderboard.AllSorted()
	if limit > 0 && limit < len(sorted) {
		sorted = sorted[:limit]
	}

	// Копии: вызывающая сторона не должна видеть мутации после разлока
	top := make([]models.Trader, len(sorted))
	for i, trader := range sorted {
		top[i] = *trader
	}
	return top
}

// ============ Граф подписок ============

// Follow идемпотентно подписывает фолловера на лидера.
// Возвращает ErrLeaderNotFound / ErrFollowerNotFound для неизвестных id.
func (e *Engine) Follow(leaderID, followerID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.traders[leaderID]; !ok {
		return ErrLeaderNotFound
	}
	if _, ok := e.traders[followerID]; !ok {
		return ErrFollowerNotFound
	}

	e.followers.Add(leaderID, followerID)
	return nil
}

// FollowersOf возвращает копию списка фолловеров лидера (может быть пустым)
func (e *Engine) FollowersOf(leaderID string) []string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	ids := e.followers.FollowersOf(leaderID)
	out := make([]string, len(ids))
	copy(out, ids)
	return out
}

// ============ Диспетчеризация ордеров ============

// ExecuteLeaderTrade принимает торговое намерение лидера и ставит его
// в очередь диспетчеризации.
//
// Исполнения по фолловерам здесь НЕ происходит - это намеренная
// асинхронность: запись в очередь дешёвая, а фан-аут по фолловерам
// выполняет отдельный drain-цикл. Возвращает ErrLeaderNotFound для
// неизвестного лидера; валидация величин - обязанность сервисного слоя,
// сюда попадают уже проверенные значения.
func (e *Engine) ExecuteLeaderTrade(leaderID string, orderType models.OrderType, symbol string, quantity, price float64) (models.Order, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.traders[leaderID]; !ok {
		return models.Order{}, ErrLeaderNotFound
	}

	order := &models.Order{
		OrderID:   uuid.NewString(),
		Type:      orderType,
		Symbol:    symbol,
		Quantity:  quantity,
		Price:     price,
		Timestamp: utils.NowMillis(),
		LeaderID:  leaderID,
	}

	e.queue.Enqueue(order)
	OrdersEnqueued.WithLabelValues(string(orderType)).Inc()
	QueueDepth.Set(float64(e.queue.Size()))

	return *order, nil
}

// PendingOrders возвращает снимок очереди (от старых к новым)
func (e *Engine) PendingOrders() []models.Order {
	e.mu.RLock()
	defer e.mu.RUnlock()

	pending := e.queue.All()
	out := make([]models.Order, len(pending))
	for i, order := range pending {
		out[i] = *order
	}
	return out
}

// QueueSize возвращает текущую глубину очереди
func (e *Engine) QueueSize() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.queue.Size()
}

// ============ Drain-цикл ============

// DrainOnce опустошает очередь и исполняет каждый ордер по текущему
// множеству фолловеров его лидера.
//
// Блокировка берётся на каждый ордер, а не на весь цикл: продюсеры не
// голодают, а ордера, поставленные в очередь посреди drain, будут
// обработаны, если успеют до опустошения. Паника при обработке одного
// ордера не останавливает обработку остальных (изоляция сбоев на
// гранулярности ордера).
//
// Возвращает упорядоченную последовательность всех записей:
// по одной follower_fill на исполненного фолловера плюс одна
// order_summary на каждый ордер.
func (e *Engine) DrainOnce() []models.ExecutionResult {
	start := time.Now()
	var results []models.ExecutionResult

	for {
		processed, ok := e.drainNext()
		if !ok {
			break
		}
		results = append(results, processed...)
	}

	DrainDuration.Observe(float64(time.Since(start).Microseconds()) / 1000.0)
	if len(results) == 0 {
		DrainCycles.WithLabelValues("empty").Inc()
	} else {
		DrainCycles.WithLabelValues("processed").Inc()
	}

	return results
}

// drainNext обрабатывает ровно один ордер из очереди.
// Возвращает ok=false, когда очередь пуста.
func (e *Engine) drainNext() (results []models.ExecutionResult, ok bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	// Изоляция сбоев: один некорректный ордер не валит процесс
	// и не блокирует исполнение остальных
	defer func() {
		if r := recover(); r != nil {
			e.log.Errorw("panic while processing order, skipping", "panic", r)
			results, ok = nil, true
		}
	}()

	order := e.queue.Dequeue()
	if order == nil {
		QueueDepth.Set(0)
		return nil, false
	}

	followerCount := 0
	for _, followerID := range e.followers.FollowersOf(order.LeaderID) {
		follower, tracked := e.traders[followerID]
		if !tracked {
			// Stale-ссылка: фолловер исчез из реестра. Пропускаем молча -
			// терпимый дрейф, пути удаления фолловеров пока нет
			SkippedFollowers.Inc()
			continue
		}

		results = append(results, e.executeFollowerFill(follower, order))
		followerCount++
	}

	results = append(results, models.ExecutionResult{
		Kind:           models.ExecutionKindSummary,
		OrderID:        order.OrderID,
		Status:         models.OrderStatusProcessed,
		Symbol:         order.Symbol,
		Type:           string(order.Type),
		LeaderID:       order.LeaderID,
		FollowersCount: followerCount,
	})

	OrdersProcessed.Inc()
	QueueDepth.Set(float64(e.queue.Size()))
	return results, true
}

// executeFollowerFill выполняет симулированное исполнение сделки для
// одного фолловера. Вызывается только под write-lock.
func (e *Engine) executeFollowerFill(follower *models.Trader, order *models.Order) models.ExecutionResult {
	tradeValue := order.Quantity * order.Price

	if order.Type == models.OrderTypeBuy {
		follower.PortfolioValue -= tradeValue * buyFeeRate
	} else {
		follower.PortfolioValue += tradeValue * sellProceedsRate
	}

	FollowerFills.WithLabelValues(string(order.Type)).Inc()

	return models.ExecutionResult{
		Kind:         models.ExecutionKindFill,
		OrderID:      order.OrderID,
		Status:       models.OrderStatusExecuted,
		Symbol:       order.Symbol,
		Type:         string(order.Type),
		FollowerID:   follower.TraderID,
		FollowerName: follower.Name,
		Quantity:     order.Quantity,
		Price:        order.Price,
	}
}

// Run запускает периодический drain-цикл.
//
// Каждый тик: если очередь пуста - пропускаем, иначе опустошаем её и
// рассылаем результаты через broadcaster. Отменяется через контекст,
// это единственная точка приостановки движка.
func (e *Engine) Run(ctx context.Context) error {
	ticker := time.NewTicker(e.drainInterval)
	defer ticker.Stop()

	e.log.Infow("drain loop started", "interval", e.drainInterval)

	for {
		select {
		case <-ctx.Done():
			e.log.Info("drain loop stopped")
			return ctx.Err()
		case <-ticker.C:
			if e.QueueSize() == 0 {
				DrainCycles.WithLabelValues("empty").Inc()
				continue
			}

			results := e.DrainOnce()
			if len(results) == 0 {
				continue
			}

			e.log.Infow("drain cycle complete", "records", len(results))

			if e.broadcaster != nil {
				e.broadcaster.BroadcastExecutions(results)
				e.broadcaster.BroadcastLeaderboard(e.GetTopTraders(0))
			}
		}
	}
}

// ============ Снапшоты (для durable-storage коллаборатора) ============

// Snapshot возвращает копии реестра и графа подписок
func (e *Engine) Snapshot() ([]models.Trader, map[string][]string) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	traders := make([]models.Trader, 0, len(e.traders))
	for _, trader := range e.traders {
		traders = append(traders, *trader)
	}
	return traders, e.followers.Export()
}

// Restore загружает реестр и граф подписок из снапшота.
// Вызывается один раз при старте, до запуска drain-цикла.
func (e *Engine) Restore(traders []models.Trader, follows map[string][]string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for i := range traders {
		trader := traders[i]
		e.traders[trader.TraderID] = &trader
	}
	e.rebuildLeaderboard()

	for leaderID, followerIDs := range follows {
		for _, followerID := range followerIDs {
			e.followers.Add(leaderID, followerID)
		}
	}

	TrackedTraders.Set(float64(len(e.traders)))
}
