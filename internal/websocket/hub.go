// Package websocket реализует real-time рассылку результатов drain-цикла,
// лидерборда и котировок подключенным клиентам.
package websocket

import (
	"bytes"
	"sync"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"copytrade/internal/engine"
	"copytrade/internal/marketdata"
	"copytrade/internal/models"
)

// ============ ОПТИМИЗАЦИЯ: jsoniter + sync.Pool для JSON буферов ============
// Broadcast - горячий путь: сериализация через jsoniter, буферы из пула

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var jsonBufferPool = sync.Pool{
	New: func() interface{} {
		return bytes.NewBuffer(make([]byte, 0, 512))
	},
}

// Hub управляет всеми активными WebSocket соединениями
//
// Назначение:
// Центральный менеджер для broadcast сообщений всем подключенным клиентам.
// Обеспечивает real-time обновления данных на frontend без необходимости polling.
//
// Функции:
// - Регистрация новых WebSocket клиентов
// - Отмена регистрации отключенных клиентов
// - Broadcast сообщений всем активным клиентам
// - Очистка отключенных и медленных соединений
// - Потокобезопасная работа с клиентами (sync.RWMutex)
//
// Типы сообщений:
// - executionUpdate: результаты drain-цикла (fills + итоги)
// - leaderboardUpdate: срез лидерборда после исполнений
// - priceUpdate: свежая котировка символа
//
// Hub реализует engine.ExecutionBroadcaster: ядро рассылает результаты
// drain-цикла не зная о транспортном слое.
//
// Использование:
// 1. Создать hub: hub := NewHub(logger)
// 2. Запустить в горутине: go hub.Run()
// 3. Отправлять сообщения: hub.Broadcast(message)
type Hub struct {
	// Зарегистрированные клиенты
	clients map[*Client]bool

	// Broadcast канал для отправки сообщений всем клиентам
	broadcast chan []byte

	// Регистрация нового клиента
	register chan *Client

	// Отмена регистрации клиента
	unregister chan *Client

	// Mutex для потокобезопасного доступа к clients
	mu sync.RWMutex

	log *zap.SugaredLogger
}

var (
	_ engine.ExecutionBroadcaster = (*Hub)(nil)
	_ marketdata.PriceBroadcaster = (*Hub)(nil)
)

// NewHub создает новый Hub
func NewHub(logger *zap.SugaredLogger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		log:        logger,
	}
}

// Run запускает главный цикл Hub
//
// Должен запускаться в отдельной горутине: go hub.Run()
// Обрабатывает регистрацию, отмену регистрации и broadcast.
//
// Отправка идёт без блокировки: список клиентов копируется под коротким
// RLock, медленные клиенты удаляются под Write Lock после рассылки.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			total := len(h.clients)
			h.mu.Unlock()
			h.log.Infow("websocket client connected", "total", total)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			total := len(h.clients)
			h.mu.Unlock()
			h.log.Infow("websocket client disconnected", "total", total)

		case message := <-h.broadcast:
			h.mu.RLock()
			clients := make([]*Client, 0, len(h.clients))
			for client := range h.clients {
				clients = append(clients, client)
			}
			h.mu.RUnlock()

			var toRemove []*Client
			for _, client := range clients {
				select {
				case client.send <- message:
				default:
					// Клиент не успевает обрабатывать сообщения
					toRemove = append(toRemove, client)
				}
			}

			if len(toRemove) > 0 {
				h.mu.Lock()
				for _, client := range toRemove {
					if _, ok := h.clients[client]; ok {
						delete(h.clients, client)
						close(client.send)
					}
				}
				total := len(h.clients)
				h.mu.Unlock()
				h.log.Warnw("removed slow websocket clients", "removed", len(toRemove), "total", total)
			}
		}
	}
}

// Broadcast отправляет сообщение всем подключенным клиентам
// ОПТИМИЗАЦИЯ: использует sync.Pool для буферов (убирает аллокации)
func (h *Hub) Broadcast(message interface{}) {
	buf := jsonBufferPool.Get().(*bytes.Buffer)
	buf.Reset()

	if err := json.NewEncoder(buf).Encode(message); err != nil {
		h.log.Errorw("broadcast marshal failed", "error", err)
		jsonBufferPool.Put(buf)
		return
	}

	// Убираем trailing newline от Encode
	data := buf.Bytes()
	if len(data) > 0 && data[len(data)-1] == '\n' {
		data = data[:len(data)-1]
	}

	// Копируем данные (буфер вернётся в пул)
	msgCopy := make([]byte, len(data))
	copy(msgCopy, data)

	jsonBufferPool.Put(buf)

	h.broadcast <- msgCopy
}

// BroadcastExecutions отправляет результаты drain-цикла
func (h *Hub) BroadcastExecutions(results []models.ExecutionResult) {
	h.Broadcast(NewExecutionUpdateMessage(results))
}

// BroadcastLeaderboard отправляет актуальный срез лидерборда
func (h *Hub) BroadcastLeaderboard(traders []models.Trader) {
	h.Broadcast(NewLeaderboardUpdateMessage(traders))
}

// BroadcastPrice отправляет свежую котировку
func (h *Hub) BroadcastPrice(snapshot models.PriceSnapshot) {
	h.Broadcast(NewPriceUpdateMessage(snapshot))
}

// ClientCount возвращает количество подключенных клиентов
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
