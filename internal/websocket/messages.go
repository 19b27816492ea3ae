package websocket

import (
	"time"

	"copytrade/internal/models"
)

// MessageType определяет тип WebSocket сообщения
type MessageType string

// Типы WebSocket сообщений
const (
	// MessageTypeExecutionUpdate - результаты одного drain-цикла.
	// Отправляется после каждого непустого цикла
	MessageTypeExecutionUpdate MessageType = "executionUpdate"

	// MessageTypeLeaderboardUpdate - актуальный срез лидерборда.
	// Отправляется вместе с executionUpdate: исполнения меняют портфели
	MessageTypeLeaderboardUpdate MessageType = "leaderboardUpdate"

	// MessageTypePriceUpdate - свежая котировка символа
	MessageTypePriceUpdate MessageType = "priceUpdate"
)

// BaseMessage - базовая структура для всех WebSocket сообщений
type BaseMessage struct {
	Type      MessageType `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
}

// ExecutionUpdateMessage - сообщение с результатами drain-цикла
//
// Data содержит упорядоченную последовательность записей цикла:
// follower_fill исполнения и order_summary итоги в порядке обработки
type ExecutionUpdateMessage struct {
	BaseMessage
	Data []models.ExecutionResult `json:"data"`
}

// LeaderboardUpdateMessage - сообщение со срезом лидерборда
// Трейдеры отсортированы по ROI по убыванию
type LeaderboardUpdateMessage struct {
	BaseMessage
	Data []models.Trader `json:"data"`
}

// PriceUpdateMessage - сообщение с котировкой символа
type PriceUpdateMessage struct {
	BaseMessage
	Data models.PriceSnapshot `json:"data"`
}

// ============ Фабричные функции для создания сообщений ============

// NewExecutionUpdateMessage создает сообщение с результатами drain-цикла
func NewExecutionUpdateMessage(results []models.ExecutionResult) *ExecutionUpdateMessage {
	return &ExecutionUpdateMessage{
		BaseMessage: BaseMessage{
			Type:      MessageTypeExecutionUpdate,
			Timestamp: time.Now(),
		},
		Data: results,
	}
}

// NewLeaderboardUpdateMessage создает сообщение со срезом лидерборда
func NewLeaderboardUpdateMessage(traders []models.Trader) *LeaderboardUpdateMessage {
	return &LeaderboardUpdateMessage{
		BaseMessage: BaseMessage{
			Type:      MessageTypeLeaderboardUpdate,
			Timestamp: time.Now(),
		},
		Data: traders,
	}
}

// NewPriceUpdateMessage создает сообщение с котировкой
func NewPriceUpdateMessage(snapshot models.PriceSnapshot) *PriceUpdateMessage {
	return &PriceUpdateMessage{
		BaseMessage: BaseMessage{
			Type:      MessageTypePriceUpdate,
			Timestamp: time.Now(),
		},
		Data: snapshot,
	}
}
