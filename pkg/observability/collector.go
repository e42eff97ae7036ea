package observability

import (
	"context"
	"log/slog"
	"time"

	"github.com/aretw0/sprout/pkg/domain"
	"github.com/aretw0/sprout/pkg/ports"
	"github.com/prometheus/client_golang/prometheus"
)

// ReportCollector exports gauges computed from the persisted reports at scrape time.
type ReportCollector struct {
	store   ports.ReportStore
	logger  *slog.Logger
	timeout time.Duration

	reports  *prometheus.Desc
	lastRun  *prometheus.Desc
	failures *prometheus.Desc
}

// NewReportCollector creates a collector over store.
func NewReportCollector(store ports.ReportStore, logger *slog.Logger) *ReportCollector {
	return &ReportCollector{
		store:   store,
		logger:  logger,
		timeout: 5 * time.Second,
		reports: prometheus.NewDesc("sprout_stored_reports",
			"Stored run reports by status", []string{"status"}, nil),
		lastRun: prometheus.NewDesc("sprout_last_run_timestamp_seconds",
			"Start time of the most recent stored run", nil, nil),
		failures: prometheus.NewDesc("sprout_stored_failed_commands",
			"Failed commands across stored reports by phase", []string{"phase"}, nil),
	}
}

// Describe implements prometheus.Collector.
func (c *ReportCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.reports
	ch <- c.lastRun
	ch <- c.failures
}

// Collect implements prometheus.Collector.
func (c *ReportCollector) Collect(ch chan<- prometheus.Metric) {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	ids, err := c.store.List(ctx)
	if err != nil {
		c.logger.Warn("failed to list reports", "error", err)
		return
	}

	byStatus := map[domain.Status]float64{}
	failed := map[domain.PhaseName]float64{}
	var last time.Time
	for _, id := range ids {
		r, err := c.store.Load(ctx, id)
		if err != nil {
			c.logger.Debug("skipping unreadable report", "id", id, "error", err)
			continue
		}
		byStatus[r.Status]++
		if r.StartedAt.After(last) {
			last = r.StartedAt
		}
		for _, p := range r.Phases {
			failed[p.Phase] += float64(len(p.FailedCommands()))
		}
	}

	for _, s := range []domain.Status{domain.StatusSuccess, domain.StatusFailed, domain.StatusAborted} {
		ch <- prometheus.MustNewConstMetric(c.reports, prometheus.GaugeValue, byStatus[s], string(s))
	}
	for _, p := range domain.Phases() {
		ch <- prometheus.MustNewConstMetric(c.failures, prometheus.GaugeValue, failed[p], string(p))
	}
	if !last.IsZero() {
		ch <- prometheus.MustNewConstMetric(c.lastRun, prometheus.GaugeValue, float64(last.Unix()))
	}
}
