package models

// OrderType - тип ордера
type OrderType string

const (
	OrderTypeBuy  OrderType = "BUY"
	OrderTypeSell OrderType = "SELL"
)

// IsValid проверяет, что тип ордера допустим
func (t OrderType) IsValid() bool {
	return t == OrderTypeBuy || t == OrderTypeSell
}

// Order представляет торговое намерение лидера
//
// Все поля неизменяемы после создания. Ордер создаётся при вызове
// ExecuteLeaderTrade, один раз попадает в очередь диспетчеризации,
// один раз извлекается drain-циклом и после обработки не хранится.
type Order struct {
	OrderID   string    `json:"order_id"`
	Type      OrderType `json:"order_type"`
	Symbol    string    `json:"symbol"`   // BTC/USDT
	Quantity  float64   `json:"quantity"` // > 0
	Price     float64   `json:"price"`    // > 0
	Timestamp int64     `json:"timestamp"` // миллисекунды с эпохи
	LeaderID  string    `json:"leader_id,omitempty"`
}

// Статусы обработки ордера (только во время drain-цикла)
const (
	OrderStatusProcessed = "processed"
	OrderStatusExecuted  = "executed"
)
