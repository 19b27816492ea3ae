package marketdata

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"copytrade/internal/config"
	"copytrade/pkg/ratelimit"
	"copytrade/pkg/retry"
)

const binancePublicBaseURL = "https://api.binance.com"

// Binance реализует PriceSource поверх публичного REST API Binance.
// Используются только публичные market-data эндпоинты, ключ не нужен.
type Binance struct {
	baseURL    string
	httpClient *http.Client
	limiter    *ratelimit.Limiter
	retryCfg   retry.Config
}

// NewBinance создаёт источник котировок Binance
func NewBinance(cfg config.PriceConfig) *Binance {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = binancePublicBaseURL
	}

	httpCfg := DefaultHTTPClientConfig()
	if cfg.Timeout > 0 {
		httpCfg.TotalTimeout = cfg.Timeout
	}

	retryCfg := retry.DefaultConfig()
	if cfg.MaxRetries > 0 {
		retryCfg.MaxRetries = cfg.MaxRetries
	}
	retryCfg.RetryIf = retry.IsRetryable

	return &Binance{
		baseURL:    baseURL,
		httpClient: NewHTTPClient(httpCfg),
		limiter:    ratelimit.New(cfg.RateLimit, cfg.RateBurst),
		retryCfg:   retryCfg,
	}
}

// doRequest выполняет GET запрос к Binance API с rate limiting и retry
func (b *Binance) doRequest(ctx context.Context, endpoint string, params map[string]string) ([]byte, error) {
	query := url.Values{}
	for k, v := range params {
		query.Set(k, v)
	}

	reqURL := b.baseURL + endpoint
	if encoded := query.Encode(); encoded != "" {
		reqURL += "?" + encoded
	}

	return retry.DoWithResult(ctx, func() ([]byte, error) {
		if err := b.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return nil, retry.Permanent(err)
		}

		resp, err := b.httpClient.Do(req)
		if err != nil {
			return nil, &ProviderError{
				Provider: "binance",
				Message:  "request failed",
				Original: err,
			}
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, &ProviderError{
				Provider: "binance",
				Message:  "read body failed",
				Original: err,
			}
		}

		switch {
		case resp.StatusCode == http.StatusOK:
			return body, nil
		case resp.StatusCode == http.StatusBadRequest:
			// Binance отвечает 400 с кодом -1121 на неизвестный символ.
			// Повтор не поможет
			var apiErr struct {
				Code int    `json:"code"`
				Msg  string `json:"msg"`
			}
			_ = json.Unmarshal(body, &apiErr)
			if apiErr.Code == -1121 {
				return nil, retry.Permanent(ErrSymbolNotFound)
			}
			return nil, retry.Permanent(&ProviderError{
				Provider: "binance",
				Code:     strconv.Itoa(apiErr.Code),
				Message:  apiErr.Msg,
			})
		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			// Transient: rate limit провайдера или его внутренняя ошибка
			return nil, &ProviderError{
				Provider: "binance",
				Code:     strconv.Itoa(resp.StatusCode),
				Message:  "transient upstream error",
			}
		default:
			return nil, retry.Permanent(&ProviderError{
				Provider: "binance",
				Code:     strconv.Itoa(resp.StatusCode),
				Message:  "unexpected status",
			})
		}
	}, b.retryCfg)
}

// FetchTicker получает 24h статистику символа через /api/v3/ticker/24hr
func (b *Binance) FetchTicker(ctx context.Context, symbol string) (*Ticker, error) {
	body, err := b.doRequest(ctx, "/api/v3/ticker/24hr", map[string]string{
		"symbol": symbol,
	})
	if err != nil {
		return nil, err
	}

	// Binance сериализует числа строками
	var resp struct {
		Symbol    string `json:"symbol"`
		LastPrice string `json:"lastPrice"`
		BidPrice  string `json:"bidPrice"`
		AskPrice  string `json:"askPrice"`
		HighPrice string `json:"highPrice"`
		LowPrice  string `json:"lowPrice"`
		Volume    string `json:"volume"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &ProviderError{
			Provider: "binance",
			Message:  "malformed ticker payload",
			Original: err,
		}
	}

	lastPrice, err := strconv.ParseFloat(resp.LastPrice, 64)
	if err != nil {
		return nil, &ProviderError{
			Provider: "binance",
			Message:  "malformed lastPrice: " + resp.LastPrice,
			Original: err,
		}
	}

	bidPrice, _ := strconv.ParseFloat(resp.BidPrice, 64)
	askPrice, _ := strconv.ParseFloat(resp.AskPrice, 64)
	highPrice, _ := strconv.ParseFloat(resp.HighPrice, 64)
	lowPrice, _ := strconv.ParseFloat(resp.LowPrice, 64)
	volume, _ := strconv.ParseFloat(resp.Volume, 64)

	return &Ticker{
		Symbol:    resp.Symbol,
		LastPrice: lastPrice,
		BidPrice:  bidPrice,
		AskPrice:  askPrice,
		HighPrice: highPrice,
		LowPrice:  lowPrice,
		Volume:    volume,
		Timestamp: time.Now(),
	}, nil
}

// Close закрывает idle соединения с провайдером
func (b *Binance) Close() {
	if transport, ok := b.httpClient.Transport.(*http.Transport); ok {
		transport.CloseIdleConnections()
	}
}
