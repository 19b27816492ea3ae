package utils

import (
	"time"
)

// time.go - утилиты для работы со временем
//
// Назначение:
// Временные метки ордеров и ценовых снимков хранятся в миллисекундах
// с эпохи (формат провайдера котировок и API). Здесь собраны
// преобразования в обе стороны.

// NowMillis возвращает текущее время в миллисекундах с эпохи
func NowMillis() int64 {
	return time.Now().UnixMilli()
}

// FromMillis преобразует миллисекунды с эпохи в time.Time (UTC)
func FromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

// ToMillis преобразует time.Time в миллисекунды с эпохи
func ToMillis(t time.Time) int64 {
	return t.UnixMilli()
}
