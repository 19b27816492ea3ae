package repository

import (
	"context"
	"database/sql"
	"fmt"

	"copytrade/internal/models"
)

// SnapshotRepository - персистентность снапшотов движка
//
// Назначение:
// Сохраняет и загружает состояние движка (реестр трейдеров и граф
// подписок) в PostgreSQL. Снапшот атомарен: обе таблицы перезаписываются
// в одной транзакции, загрузка видит либо старое состояние целиком,
// либо новое.
//
// Функции:
// - EnsureSchema() - создание таблиц при старте
// - Save() - полная перезапись снапшота в транзакции
// - Load() - восстановление реестра и графа подписок
type SnapshotRepository struct {
	db *sql.DB
}

// NewSnapshotRepository создает новый экземпляр репозитория
func NewSnapshotRepository(db *sql.DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

// EnsureSchema создает таблицы снапшота, если их еще нет
func (r *SnapshotRepository) EnsureSchema(ctx context.Context) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS traders (
			trader_id       TEXT PRIMARY KEY,
			name            TEXT NOT NULL,
			roi             DOUBLE PRECISION NOT NULL DEFAULT 0,
			portfolio_value DOUBLE PRECISION NOT NULL DEFAULT 0,
			updated_at      TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS follows (
			leader_id   TEXT NOT NULL REFERENCES traders(trader_id) ON DELETE CASCADE,
			follower_id TEXT NOT NULL REFERENCES traders(trader_id) ON DELETE CASCADE,
			PRIMARY KEY (leader_id, follower_id)
		)`,
	}

	for _, query := range queries {
		if _, err := r.db.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

// Save перезаписывает снапшот состояния движка
//
// Старое содержимое обеих таблиц удаляется; порядок удаления важен
// из-за внешних ключей follows -> traders.
func (r *SnapshotRepository) Save(ctx context.Context, traders []models.Trader, follows map[string][]string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin snapshot tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM follows`); err != nil {
		return fmt.Errorf("clear follows: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM traders`); err != nil {
		return fmt.Errorf("clear traders: %w", err)
	}

	insertTrader := `
		INSERT INTO traders (trader_id, name, roi, portfolio_value, updated_at)
		VALUES ($1, $2, $3, $4, now())`

	for _, trader := range traders {
		if _, err := tx.ExecContext(
			ctx,
			insertTrader,
			trader.TraderID,
			trader.Name,
			trader.ROI,
			trader.PortfolioValue,
		); err != nil {
			return fmt.Errorf("insert trader %s: %w", trader.TraderID, err)
		}
	}

	insertFollow := `
		INSERT INTO follows (leader_id, follower_id)
		VALUES ($1, $2)`

	for leaderID, followerIDs := range follows {
		for _, followerID := range followerIDs {
			if _, err := tx.ExecContext(ctx, insertFollow, leaderID, followerID); err != nil {
				return fmt.Errorf("insert follow %s -> %s: %w", leaderID, followerID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit snapshot tx: %w", err)
	}
	return nil
}

// Load восстанавливает реестр трейдеров и граф подписок
//
// Пустая база - не ошибка: возвращаются пустой срез и пустая карта.
func (r *SnapshotRepository) Load(ctx context.Context) ([]models.Trader, map[string][]string, error) {
	traders, err := r.loadTraders(ctx)
	if err != nil {
		return nil, nil, err
	}

	follows, err := r.loadFollows(ctx)
	if err != nil {
		return nil, nil, err
	}

	return traders, follows, nil
}

func (r *SnapshotRepository) loadTraders(ctx context.Context) ([]models.Trader, error) {
	query := `
		SELECT trader_id, name, roi, portfolio_value
		FROM traders
		ORDER BY trader_id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("load traders: %w", err)
	}
	defer rows.Close()

	traders := []models.Trader{}
	for rows.Next() {
		var trader models.Trader
		if err := rows.Scan(
			&trader.TraderID,
			&trader.Name,
			&trader.ROI,
			&trader.PortfolioValue,
		); err != nil {
			return nil, fmt.Errorf("scan trader: %w", err)
		}
		traders = append(traders, trader)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate traders: %w", err)
	}

	return traders, nil
}

func (r *SnapshotRepository) loadFollows(ctx context.Context) (map[string][]string, error) {
	query := `
		SELECT leader_id, follower_id
		FROM follows
		ORDER BY leader_id, follower_id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("load follows: %w", err)
	}
	defer rows.Close()

	follows := make(map[string][]string)
	for rows.Next() {
		var leaderID, followerID string
		if err := rows.Scan(&leaderID, &followerID); err != nil {
			return nil, fmt.Errorf("scan follow: %w", err)
		}
		follows[leaderID] = append(follows[leaderID], followerID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate follows: %w", err)
	}

	return follows, nil
}
