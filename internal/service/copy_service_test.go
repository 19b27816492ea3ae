package service

import (
	"errors"
	"testing"
	"time"

	"copytrade/internal/config"
	"copytrade/internal/engine"

	"go.uber.org/zap"
)

func newTestCopyService() *CopyService {
	cfg := &config.Config{
		Engine: config.EngineConfig{
			DrainInterval:     time.Second,
			HistoryCapacity:   50,
			TopTradersDefault: 5,
		},
	}
	eng := engine.NewEngine(cfg, zap.NewNop().Sugar())
	return NewCopyService(eng, cfg.Engine.TopTradersDefault)
}

func TestCopyService_RegisterTrader(t *testing.T) {
	svc := newTestCopyService()

	trader, err := svc.RegisterTrader(&RegisterTraderRequest{
		Name:           "alice",
		ROI:            12.5,
		PortfolioValue: 1000,
	})
	if err != nil {
		t.Fatalf("RegisterTrader() = %v", err)
	}
	if trader.TraderID == "" {
		t.Error("id должен генерироваться")
	}
	if trader.Name != "alice" || trader.ROI != 12.5 {
		t.Errorf("trader = %+v", trader)
	}
}

func TestCopyService_RegisterTraderValidation(t *testing.T) {
	svc := newTestCopyService()

	tests := []struct {
		name string
		req  *RegisterTraderRequest
	}{
		{"пустое имя", &RegisterTraderRequest{Name: "", PortfolioValue: 100}},
		{"имя из пробелов", &RegisterTraderRequest{Name: "   ", PortfolioValue: 100}},
		{"отрицательный портфель", &RegisterTraderRequest{Name: "bob", PortfolioValue: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.RegisterTrader(tt.req)
			if !errors.Is(err, ErrValidation) {
				t.Errorf("err = %v, want ErrValidation", err)
			}
		})
	}
}

func TestCopyService_GetTraderNotFound(t *testing.T) {
	svc := newTestCopyService()

	_, err := svc.GetTrader("ghost")
	if !errors.Is(err, engine.ErrTraderNotFound) {
		t.Errorf("err = %v, want ErrTraderNotFound", err)
	}
}

func TestCopyService_GetTopTradersDefaultLimit(t *testing.T) {
	svc := newTestCopyService()

	for i := 0; i < 8; i++ {
		_, err := svc.RegisterTrader(&RegisterTraderRequest{
			Name:           "trader",
			ROI:            float64(i),
			PortfolioValue: 1000,
		})
		if err != nil {
			t.Fatalf("RegisterTrader() = %v", err)
		}
	}

	// limit <= 0 подставляет дефолт (5)
	top := svc.GetTopTraders(0)
	if len(top) != 5 {
		t.Errorf("len(top) = %d, want 5 (дефолт)", len(top))
	}
	if top[0].ROI != 7 {
		t.Errorf("top[0].ROI = %v, want 7", top[0].ROI)
	}
}

func TestCopyService_Follow(t *testing.T) {
	svc := newTestCopyService()

	leader, _ := svc.RegisterTrader(&RegisterTraderRequest{TraderID: "l", Name: "L", PortfolioValue: 100})
	_, _ = svc.RegisterTrader(&RegisterTraderRequest{TraderID: "f", Name: "F", PortfolioValue: 100})

	if err := svc.Follow(leader.TraderID, &FollowRequest{FollowerID: "f"}); err != nil {
		t.Fatalf("Follow() = %v", err)
	}

	followers, err := svc.FollowersOf(leader.TraderID)
	if err != nil {
		t.Fatalf("FollowersOf() = %v", err)
	}
	if len(followers) != 1 || followers[0] != "f" {
		t.Errorf("followers = %v, want [f]", followers)
	}
}

func TestCopyService_FollowValidation(t *testing.T) {
	svc := newTestCopyService()
	_, _ = svc.RegisterTrader(&RegisterTraderRequest{TraderID: "l", Name: "L", PortfolioValue: 100})

	t.Run("пустой follower_id", func(t *testing.T) {
		err := svc.Follow("l", &FollowRequest{FollowerID: ""})
		if !errors.Is(err, ErrValidation) {
			t.Errorf("err = %v, want ErrValidation", err)
		}
	})

	t.Run("подписка на себя", func(t *testing.T) {
		err := svc.Follow("l", &FollowRequest{FollowerID: "l"})
		if !errors.Is(err, ErrValidation) {
			t.Errorf("err = %v, want ErrValidation", err)
		}
	})

	t.Run("неизвестный лидер", func(t *testing.T) {
		err := svc.Follow("ghost", &FollowRequest{FollowerID: "l"})
		if !errors.Is(err, engine.ErrLeaderNotFound) {
			t.Errorf("err = %v, want ErrLeaderNotFound", err)
		}
	})
}

func TestCopyService_PlaceTrade(t *testing.T) {
	svc := newTestCopyService()
	_, _ = svc.RegisterTrader(&RegisterTraderRequest{TraderID: "l", Name: "L", PortfolioValue: 100})

	order, err := svc.PlaceTrade(&PlaceTradeRequest{
		LeaderID: "l",
		Type:     "buy", // регистронезависимо
		Symbol:   "BTC/USDT",
		Quantity: 0.5,
		Price:    42000,
	})
	if err != nil {
		t.Fatalf("PlaceTrade() = %v", err)
	}
	if order.Type != "BUY" {
		t.Errorf("Type = %s, want BUY", order.Type)
	}
	if svc.QueueSize() != 1 {
		t.Errorf("QueueSize() = %d, want 1", svc.QueueSize())
	}
}

func TestCopyService_PlaceTradeValidation(t *testing.T) {
	svc := newTestCopyService()
	_, _ = svc.RegisterTrader(&RegisterTraderRequest{TraderID: "l", Name: "L", PortfolioValue: 100})

	tests := []struct {
		name string
		req  *PlaceTradeRequest
	}{
		{"неизвестный тип", &PlaceTradeRequest{LeaderID: "l", Type: "HOLD", Symbol: "BTC/USDT", Quantity: 1, Price: 1}},
		{"плохой символ", &PlaceTradeRequest{LeaderID: "l", Type: "BUY", Symbol: "btcusdt", Quantity: 1, Price: 1}},
		{"нулевое количество", &PlaceTradeRequest{LeaderID: "l", Type: "BUY", Symbol: "BTC/USDT", Quantity: 0, Price: 1}},
		{"отрицательная цена", &PlaceTradeRequest{LeaderID: "l", Type: "BUY", Symbol: "BTC/USDT", Quantity: 1, Price: -5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.PlaceTrade(tt.req)
			if !errors.Is(err, ErrValidation) {
				t.Errorf("err = %v, want ErrValidation", err)
			}
			if svc.QueueSize() != 0 {
				t.Error("невалидный запрос не должен попасть в очередь")
			}
		})
	}
}

func TestCopyService_PlaceTradeUnknownLeader(t *testing.T) {
	svc := newTestCopyService()

	_, err := svc.PlaceTrade(&PlaceTradeRequest{
		LeaderID: "ghost",
		Type:     "SELL",
		Symbol:   "BTC/USDT",
		Quantity: 1,
		Price:    100,
	})
	if !errors.Is(err, engine.ErrLeaderNotFound) {
		t.Errorf("err = %v, want ErrLeaderNotFound", err)
	}
}

func TestCopyService_PendingOrdersNeverNil(t *testing.T) {
	svc := newTestCopyService()

	orders := svc.PendingOrders()
	if orders == nil {
		t.Error("PendingOrders() должен возвращать пустой массив, не nil")
	}
}
