package engine

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ============================================================
// Prometheus метрики копи-трейдингового ядра
// ============================================================
//
// Использование:
// - Grafana дашборды для визуализации
// - Alertmanager для уведомлений о проблемах
// - Анализ производительности drain-цикла в production

// ============ Метрики drain-цикла ============

// DrainDuration - длительность одного drain-цикла
var DrainDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: "copytrade",
		Subsystem: "engine",
		Name:      "drain_duration_ms",
		Help:      "Duration of a single drain cycle in milliseconds",
		Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 25, 100},
	},
)

// DrainCycles - количество выполненных drain-циклов
var DrainCycles = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "copytrade",
		Subsystem: "engine",
		Name:      "drain_cycles_total",
		Help:      "Total number of drain cycles",
	},
	[]string{"result"}, // empty, processed
)

// ============ Счётчики ордеров ============

// OrdersEnqueued - количество ордеров, поставленных в очередь лидерами
var OrdersEnqueued = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "copytrade",
		Subsystem: "engine",
		Name:      "orders_enqueued_total",
		Help:      "Total number of leader orders enqueued for dispatch",
	},
	[]string{"type"}, // BUY, SELL
)

// OrdersProcessed - количество ордеров, обработанных drain-циклом
var OrdersProcessed = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: "copytrade",
		Subsystem: "engine",
		Name:      "orders_processed_total",
		Help:      "Total number of orders drained from the dispatch queue",
	},
)

// FollowerFills - количество симулированных исполнений по фолловерам
var FollowerFills = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "copytrade",
		Subsystem: "engine",
		Name:      "follower_fills_total",
		Help:      "Total number of simulated follower fills",
	},
	[]string{"type"}, // BUY, SELL
)

// SkippedFollowers - stale-ссылки на фолловеров, пропущенные при drain
var SkippedFollowers = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: "copytrade",
		Subsystem: "engine",
		Name:      "skipped_followers_total",
		Help:      "Total number of untracked followers skipped during drain",
	},
)

// ============ Метрики состояния ============

// QueueDepth - текущая глубина очереди диспетчеризации
var QueueDepth = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: "copytrade",
		Subsystem: "engine",
		Name:      "queue_depth",
		Help:      "Current number of pending orders in the dispatch queue",
	},
)

// TrackedTraders - количество трейдеров в реестре
var TrackedTraders = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: "copytrade",
		Subsystem: "engine",
		Name:      "tracked_traders",
		Help:      "Current number of registered traders",
	},
)

// LeaderboardRebuilds - количество перестроек лидерборда
var LeaderboardRebuilds = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: "copytrade",
		Subsystem: "engine",
		Name:      "leaderboard_rebuilds_total",
		Help:      "Total number of full leaderboard rebuilds caused by trader updates",
	},
)
