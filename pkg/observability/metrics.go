package observability

import (
	"context"
	"strconv"

	"github.com/aretw0/sprout/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the bootstrap collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	PhaseResults    *prometheus.CounterVec
	PhaseDuration   *prometheus.HistogramVec
	Commands        *prometheus.CounterVec
	CommandDuration *prometheus.HistogramVec
	Runs            *prometheus.CounterVec
}

// NewMetrics creates and registers the collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		PhaseResults: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sprout_phase_results_total",
				Help: "Bootstrap phases by outcome",
			},
			[]string{"phase", "status"},
		),
		PhaseDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "sprout_phase_duration_seconds",
				Help:    "Duration of bootstrap phases",
				Buckets: []float64{0.1, 1, 5, 15, 30, 60, 120, 300, 600},
			},
			[]string{"phase"},
		),
		Commands: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sprout_commands_total",
				Help: "External commands by program and exit code",
			},
			[]string{"phase", "program", "exit_code"},
		),
		CommandDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "sprout_command_duration_seconds",
				Help:    "Duration of external commands",
				Buckets: prometheus.ExponentialBuckets(0.05, 4, 8),
			},
			[]string{"program"},
		),
		Runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sprout_runs_total",
				Help: "Bootstrap runs by final status",
			},
			[]string{"status"},
		),
	}
	m.registry.MustRegister(m.PhaseResults, m.PhaseDuration, m.Commands, m.CommandDuration, m.Runs)
	return m
}

// Registry exposes the registry for promhttp and textfile export.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// MustRegister adds extra collectors to the registry.
func (m *Metrics) MustRegister(cs ...prometheus.Collector) {
	m.registry.MustRegister(cs...)
}

// Hooks returns lifecycle hooks recording phase and command metrics.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnPhaseEnd: func(_ context.Context, e *domain.PhaseEvent) {
			m.PhaseResults.WithLabelValues(string(e.Phase), string(e.Status)).Inc()
			m.PhaseDuration.WithLabelValues(string(e.Phase)).Observe(e.Duration.Seconds())
		},
		OnCommandEnd: func(_ context.Context, e *domain.CommandEvent) {
			m.Commands.WithLabelValues(string(e.Phase), e.Command.Name, strconv.Itoa(e.ExitCode)).Inc()
			m.CommandDuration.WithLabelValues(e.Command.Name).Observe(e.Duration.Seconds())
		},
	}
}

// ObserveReport records the final status of a run.
func (m *Metrics) ObserveReport(r *domain.Report) {
	m.Runs.WithLabelValues(string(r.Status)).Inc()
}

// WriteTextfile writes the registry in the node-exporter textfile format.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
