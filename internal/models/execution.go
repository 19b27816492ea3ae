package models

// Виды записей результата drain-цикла
const (
	// ExecutionKindFill - исполнение сделки для одного фолловера
	ExecutionKindFill = "follower_fill"
	// ExecutionKindSummary - итоговая запись по ордеру
	ExecutionKindSummary = "order_summary"
)

// ExecutionResult - одна запись результата обработки ордера drain-циклом
//
// Для каждого ордера drain-цикл порождает по одной записи
// follower_fill на каждого исполненного фолловера и ровно одну
// запись order_summary с количеством обработанных фолловеров.
// Записи возвращаются в порядке исполнения.
type ExecutionResult struct {
	Kind    string `json:"kind"`
	OrderID string `json:"order_id"`
	Status  string `json:"status"` // executed | processed
	Symbol  string `json:"symbol"`
	Type    string `json:"type"` // BUY | SELL

	// Поля follower_fill
	FollowerID   string  `json:"follower_id,omitempty"`
	FollowerName string  `json:"follower_name,omitempty"`
	Quantity     float64 `json:"quantity,omitempty"`
	Price        float64 `json:"price,omitempty"`

	// Поля order_summary
	LeaderID       string `json:"leader_id,omitempty"`
	FollowersCount int    `json:"followers_count"`
}
