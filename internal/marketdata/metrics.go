package marketdata

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PriceFetches - запросы котировок к провайдеру
var PriceFetches = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "copytrade",
		Subsystem: "marketdata",
		Name:      "price_fetches_total",
		Help:      "Total number of ticker fetches from the price provider",
	},
	[]string{"result"}, // ok, error
)

// TrackedSymbols - количество символов с rolling-историей
var TrackedSymbols = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: "copytrade",
		Subsystem: "marketdata",
		Name:      "tracked_symbols",
		Help:      "Current number of symbols with a price history buffer",
	},
)
