package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the ledger's Prometheus metrics and implements usecase.Metrics.
type Metrics struct {
	// Asset metrics
	AssetsCreated prometheus.Counter
	AssetsDeleted prometheus.Counter

	// Yield metrics
	YieldCalculations *prometheus.CounterVec

	// Portfolio metrics
	PortfolioTotalValue prometheus.Gauge

	// Persistence metrics
	PersistenceFailures *prometheus.CounterVec

	// Import metrics
	ImportedRows *prometheus.CounterVec

	// Scheduler metrics
	ScheduledRuns *prometheus.CounterVec
}

// New creates the metrics and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		AssetsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "wealthledger_assets_created_total",
			Help: "Total number of assets created",
		}),
		AssetsDeleted: factory.NewCounter(prometheus.CounterOpts{
			Name: "wealthledger_assets_deleted_total",
			Help: "Total number of assets deleted",
		}),
		YieldCalculations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wealthledger_yield_calculations_total",
				Help: "Total yield calculations by outcome",
			},
			[]string{"outcome"},
		),
		PortfolioTotalValue: factory.NewGauge(prometheus.GaugeOpts{
			Name: "wealthledger_portfolio_value",
			Help: "Sum of the current values of all assets",
		}),
		PersistenceFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wealthledger_persistence_failures_total",
				Help: "Failed state store operations by operation",
			},
			[]string{"op"},
		),
		ImportedRows: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wealthledger_import_rows_total",
				Help: "Import rows by result",
			},
			[]string{"result"},
		),
		ScheduledRuns: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wealthledger_scheduled_runs_total",
				Help: "Scheduled bulk yield calculations by status",
			},
			[]string{"status"},
		),
	}
}

// AssetCreated counts a new asset.
func (m *Metrics) AssetCreated() {
	m.AssetsCreated.Inc()
}

// AssetDeleted counts a removed asset.
func (m *Metrics) AssetDeleted() {
	m.AssetsDeleted.Inc()
}

// YieldCalculated counts a calculation; appended reports whether a record was written.
func (m *Metrics) YieldCalculated(appended bool) {
	outcome := "no_gain"
	if appended {
		outcome = "record"
	}
	m.YieldCalculations.WithLabelValues(outcome).Inc()
}

// PersistenceFailed counts a failed state store operation.
func (m *Metrics) PersistenceFailed(op string) {
	m.PersistenceFailures.WithLabelValues(op).Inc()
}

// ImportRows counts the rows of one import.
func (m *Metrics) ImportRows(imported, skipped int) {
	m.ImportedRows.WithLabelValues("imported").Add(float64(imported))
	m.ImportedRows.WithLabelValues("skipped").Add(float64(skipped))
}

// PortfolioValue sets the portfolio value gauge.
func (m *Metrics) PortfolioValue(value float64) {
	m.PortfolioTotalValue.Set(value)
}

// ScheduledRun counts a scheduler run with status ok or partial.
func (m *Metrics) ScheduledRun(status string) {
	m.ScheduledRuns.WithLabelValues(status).Inc()
}
