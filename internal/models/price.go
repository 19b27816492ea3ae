package models

// PriceSnapshot - снимок текущей цены символа от провайдера котировок
//
// Поля повторяют ticker провайдера; Timestamp в миллисекундах с эпохи.
type PriceSnapshot struct {
	Symbol    string  `json:"symbol"` // BTC/USDT
	Price     float64 `json:"price"`  // последняя сделка
	Bid       float64 `json:"bid"`
	Ask       float64 `json:"ask"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Volume    float64 `json:"volume"` // объём в базовой валюте
	Timestamp int64   `json:"timestamp"`
}

// PriceHistory - история цен символа из rolling-буфера (от старых к новым)
type PriceHistory struct {
	Symbol string    `json:"symbol"`
	Prices []float64 `json:"prices"`
	Count  int       `json:"count"`
}
