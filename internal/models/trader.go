package models

// Trader представляет трейдера платформы (лидера или фолловера)
//
// Идентичность задаётся TraderID и не меняется за время жизни.
// ROI и PortfolioValue изменяемы: ROI обновляется при перерегистрации,
// PortfolioValue - при исполнении скопированных сделок.
type Trader struct {
	TraderID       string  `json:"trader_id" db:"trader_id"`
	Name           string  `json:"name" db:"name"`
	ROI            float64 `json:"roi" db:"roi"`                         // return on investment, %
	PortfolioValue float64 `json:"portfolio_value" db:"portfolio_value"` // в USDT
}

// TraderCreate - данные для создания или обновления трейдера
//
// TraderID опционален: если указан и трейдер уже зарегистрирован,
// происходит обновление с перестройкой лидерборда.
type TraderCreate struct {
	TraderID       string  `json:"trader_id,omitempty"`
	Name           string  `json:"name"`
	ROI            float64 `json:"roi"`
	PortfolioValue float64 `json:"portfolio_value"`
}
