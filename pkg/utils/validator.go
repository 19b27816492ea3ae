package utils

import (
	"fmt"
	"regexp"
	"strings"
)

// validator.go - валидация входных данных
//
// Назначение:
// Проверка корректности данных до любой мутации состояния.
// Операция либо проходит валидацию целиком, либо отклоняется -
// частичного применения не бывает.
//
// Функции:
// - ValidateSymbol: формат торговой пары (BTC/USDT)
// - ValidateQuantity: количество (> 0)
// - ValidatePrice: цена (> 0)
// - ValidateTraderName: непустое имя трейдера
//
// Возвращают error с описанием проблемы или nil

// symbolPattern - торговая пара вида BASE/QUOTE: BTC/USDT, ETH/USDT.
// Буквы и цифры в верхнем регистре, 2-10 символов на сторону.
var symbolPattern = regexp.MustCompile(`^[A-Z0-9]{2,10}/[A-Z0-9]{2,10}$`)

// ValidateSymbol проверяет формат символа торговой пары
func ValidateSymbol(symbol string) error {
	if symbol == "" {
		return fmt.Errorf("symbol cannot be empty")
	}
	if !symbolPattern.MatchString(symbol) {
		return fmt.Errorf("symbol %q must match BASE/QUOTE format (e.g. BTC/USDT)", symbol)
	}
	return nil
}

// ValidateQuantity проверяет, что количество положительное
func ValidateQuantity(quantity float64) error {
	if quantity <= 0 {
		return fmt.Errorf("quantity must be greater than 0, got %v", quantity)
	}
	return nil
}

// ValidatePrice проверяет, что цена положительная
func ValidatePrice(price float64) error {
	if price <= 0 {
		return fmt.Errorf("price must be greater than 0, got %v", price)
	}
	return nil
}

// ValidateTraderName проверяет, что имя трейдера непустое
func ValidateTraderName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("trader name cannot be empty")
	}
	return nil
}

// NormalizeSymbol приводит символ к виду провайдера (BTC/USDT → BTCUSDT)
func NormalizeSymbol(symbol string) string {
	return strings.ReplaceAll(strings.ToUpper(symbol), "/", "")
}
