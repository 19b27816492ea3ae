// Package marketdata предоставляет котировки и rolling-историю цен
// по символам. Путь цен изолирован от ядра движка: медленный провайдер
// не задерживает диспетчеризацию сделок.
package marketdata

import (
	"context"
	"errors"
	"time"
)

// PriceSource определяет интерфейс провайдера котировок
type PriceSource interface {
	// FetchTicker получает текущую котировку символа.
	// Символ в формате провайдера (BTCUSDT, без разделителя).
	FetchTicker(ctx context.Context, symbol string) (*Ticker, error)

	// Close закрывает соединения с провайдером
	Close()
}

// Ticker содержит котировку одного символа
type Ticker struct {
	Symbol    string    `json:"symbol"`
	LastPrice float64   `json:"last_price"`
	BidPrice  float64   `json:"bid_price"`
	AskPrice  float64   `json:"ask_price"`
	HighPrice float64   `json:"high_price"` // максимум за 24h
	LowPrice  float64   `json:"low_price"`  // минимум за 24h
	Volume    float64   `json:"volume"`     // объём за 24h
	Timestamp time.Time `json:"timestamp"`
}

// ErrSymbolNotFound - провайдер не знает такой символ
var ErrSymbolNotFound = errors.New("symbol not found")

// ProviderError представляет ошибку провайдера котировок
type ProviderError struct {
	Provider string
	Code     string
	Message  string
	Original error
}

func (e *ProviderError) Error() string {
	return e.Provider + ": " + e.Message
}

// Unwrap возвращает оригинальную ошибку для поддержки errors.Is() и errors.As()
func (e *ProviderError) Unwrap() error {
	return e.Original
}
