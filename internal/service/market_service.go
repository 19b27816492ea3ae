package service

import (
	"context"
	"fmt"

	"copytrade/internal/marketdata"
	"copytrade/internal/models"
	"copytrade/pkg/utils"
)

// MarketService предоставляет бизнес-логику запросов котировок.
//
// Тонкая обёртка над marketdata.Service: валидирует формат символа
// до обращения к провайдеру и нормализует ответы для API.
type MarketService struct {
	market *marketdata.Service
}

// NewMarketService создает новый экземпляр MarketService
func NewMarketService(market *marketdata.Service) *MarketService {
	return &MarketService{market: market}
}

// GetPrice возвращает текущую котировку символа.
//
// Возвращает ErrValidation для некорректного формата символа,
// marketdata.ErrSymbolNotFound для неизвестного провайдеру символа
// и *marketdata.ProviderError при сбоях провайдера.
func (s *MarketService) GetPrice(ctx context.Context, symbol string) (models.PriceSnapshot, error) {
	if err := utils.ValidateSymbol(symbol); err != nil {
		return models.PriceSnapshot{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return s.market.GetPrice(ctx, symbol)
}

// GetHistory возвращает rolling-историю цен символа.
// Пустая история для незнакомого символа - не ошибка.
func (s *MarketService) GetHistory(symbol string) (models.PriceHistory, error) {
	if err := utils.ValidateSymbol(symbol); err != nil {
		return models.PriceHistory{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return s.market.GetHistory(symbol), nil
}
