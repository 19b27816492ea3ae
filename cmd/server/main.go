package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"copytrade/internal/api"
	"copytrade/internal/config"
	"copytrade/internal/engine"
	"copytrade/internal/marketdata"
	"copytrade/internal/repository"
	"copytrade/internal/service"
	"copytrade/internal/websocket"
	"copytrade/pkg/utils"

	_ "github.com/lib/pq"
)

func main() {
	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Инициализация логирования
	logger, err := utils.InitLogger(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logger.Sync()

	// Контекст приложения: отменяется по SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Ядро копи-трейдинга
	eng := engine.NewEngine(cfg, logger)

	// Снапшоты в PostgreSQL (опционально)
	var snapshotRepo *repository.SnapshotRepository
	if cfg.Database.SnapshotEnabled {
		db, err := initDatabase(cfg)
		if err != nil {
			logger.Fatalw("Failed to connect to database", "error", err)
		}
		defer db.Close()

		snapshotRepo = repository.NewSnapshotRepository(db)
		if err := snapshotRepo.EnsureSchema(ctx); err != nil {
			logger.Fatalw("Failed to ensure snapshot schema", "error", err)
		}

		traders, follows, err := snapshotRepo.Load(ctx)
		if err != nil {
			logger.Fatalw("Failed to load snapshot", "error", err)
		}
		eng.Restore(traders, follows)
		logger.Infow("Engine state restored from snapshot",
			"traders", len(traders),
			"leaders", len(follows),
		)

		go runSnapshotLoop(ctx, eng, snapshotRepo, cfg.Database.SnapshotInterval, logger)
	}

	// WebSocket hub для live-обновлений
	hub := websocket.NewHub(logger)
	go hub.Run()
	eng.SetBroadcaster(hub)

	// Провайдер котировок
	binance := marketdata.NewBinance(cfg.Price)
	defer binance.Close()
	market := marketdata.NewService(binance, cfg.Engine.HistoryCapacity, logger)
	market.SetBroadcaster(hub)

	// Сервисы
	copyService := service.NewCopyService(eng, cfg.Engine.TopTradersDefault)
	marketService := service.NewMarketService(market)

	// Настройка зависимостей для API
	deps := &api.Dependencies{
		CopyService:   copyService,
		MarketService: marketService,
		Hub:           hub,
		Logger:        logger,
	}

	router := api.SetupRoutes(deps)

	// Drain-цикл очереди ордеров
	go func() {
		if err := eng.Run(ctx); err != nil && err != context.Canceled {
			logger.Errorw("Engine stopped", "error", err)
		}
	}()

	// HTTP сервер
	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Infow("Starting server", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalw("Server failed", "error", err)
		}
	}()

	<-ctx.Done()

	logger.Infow("Shutting down server")

	// Финальный снапшот перед остановкой
	if snapshotRepo != nil {
		saveSnapshot(context.Background(), eng, snapshotRepo, logger)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatalw("Server forced to shutdown", "error", err)
	}

	logger.Infow("Server exited")
}

// runSnapshotLoop периодически сохраняет состояние движка
func runSnapshotLoop(ctx context.Context, eng *engine.Engine, repo *repository.SnapshotRepository, interval time.Duration, logger *zap.SugaredLogger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			saveSnapshot(ctx, eng, repo, logger)
		}
	}
}

// saveSnapshot сохраняет текущий снапшот движка
func saveSnapshot(ctx context.Context, eng *engine.Engine, repo *repository.SnapshotRepository, logger *zap.SugaredLogger) {
	traders, follows := eng.Snapshot()

	saveCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := repo.Save(saveCtx, traders, follows); err != nil {
		logger.Errorw("Failed to save snapshot", "error", err)
		return
	}
	logger.Debugw("Snapshot saved", "traders", len(traders))
}

// initDatabase создает подключение к базе данных
func initDatabase(cfg *config.Config) (*sql.DB, error) {
	db, err := sql.Open(cfg.Database.Driver, cfg.Database.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Настройка пула соединений
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	// Проверка подключения
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}
