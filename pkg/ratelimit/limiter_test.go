package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name      string
		rate      float64
		burst     float64
		wantRate  float64
		wantBurst float64
	}{
		{"обычные значения", 10, 20, 10, 20},
		{"нулевой rate подставляет дефолт", 0, 0, 10, 20},
		{"burst меньше rate сохраняется", 10, 5, 10, 5},
		{"отрицательный rate подставляет дефолт", -1, 0, 10, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := New(tt.rate, tt.burst)
			if l.Rate() != tt.wantRate {
				t.Errorf("Rate() = %v, want %v", l.Rate(), tt.wantRate)
			}
			if l.Burst() != tt.wantBurst {
				t.Errorf("Burst() = %v, want %v", l.Burst(), tt.wantBurst)
			}
		})
	}
}

func TestLimiter_AllowBurst(t *testing.T) {
	l := New(10, 5)

	// Полное ведро: ровно burst запросов проходят без ожидания
	for i := 0; i < 5; i++ {
		if !l.Allow() {
			t.Fatalf("запрос %d должен пройти (burst=5)", i)
		}
	}

	if l.Allow() {
		t.Error("шестой запрос не должен пройти с пустым ведром")
	}
}

func TestLimiter_Refill(t *testing.T) {
	l := New(100, 1) // быстрое пополнение для теста

	if !l.Allow() {
		t.Fatal("первый запрос должен пройти")
	}
	if l.Allow() {
		t.Fatal("ведро пустое")
	}

	// 100 токенов/сек: через 20ms должно появиться ~2 токена (cap 1)
	time.Sleep(20 * time.Millisecond)

	if !l.Allow() {
		t.Error("токен должен восстановиться после ожидания")
	}
}

func TestLimiter_WaitBlocksUntilToken(t *testing.T) {
	l := New(50, 1)
	ctx := context.Background()

	if err := l.Wait(ctx); err != nil {
		t.Fatalf("Wait() с полным ведром = %v", err)
	}

	// Ведро пустое: Wait должен дождаться пополнения (~20ms при 50/сек)
	start := time.Now()
	if err := l.Wait(ctx); err != nil {
		t.Fatalf("Wait() = %v", err)
	}
	if elapsed := time.Since(start); elapsed < 5*time.Millisecond {
		t.Errorf("Wait() вернулся слишком быстро: %v", elapsed)
	}
}

func TestLimiter_WaitRespectsContext(t *testing.T) {
	l := New(0.001, 1) // практически без пополнения
	if !l.Allow() {
		t.Fatal("первый запрос должен пройти")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := l.Wait(ctx)
	if err != context.DeadlineExceeded {
		t.Errorf("Wait() = %v, want context.DeadlineExceeded", err)
	}
}

func TestLimiter_Tokens(t *testing.T) {
	l := New(10, 20)

	if got := l.Tokens(); got != 20 {
		t.Errorf("Tokens() нового лимитера = %v, want 20", got)
	}

	l.Allow()
	if got := l.Tokens(); got >= 20 {
		t.Errorf("Tokens() после потребления = %v, want < 20", got)
	}
}
