package workers

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/shirou/gopsutil/process"

	"babelroom/contract"
	"babelroom/observability"
)

var _ contract.Worker = (*TelemetryWorker)(nil)

// TelemetryWorker periodically logs the pipeline counters together with the
// CPU and memory footprint of the process itself.
type TelemetryWorker struct {
	log            *slog.Logger
	metricInterval time.Duration
	stats          *observability.PipelineStats
}

func NewTelemetryWorker(log *slog.Logger, metricInterval time.Duration, stats *observability.PipelineStats) *TelemetryWorker {
	return &TelemetryWorker{log: log, metricInterval: metricInterval, stats: stats}
}

func (w *TelemetryWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.metricInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Context done, stopping telemetry")
			return nil
		case <-ticker.C:
			w.report()
		}
	}
}

func (w *TelemetryWorker) report() {
	snapshot := w.stats.Snapshot()
	attrs := []any{
		"utterances", snapshot.UtterancesTranscribed,
		"translations", snapshot.TranslationsProduced,
		"syntheses", snapshot.SynthesesProduced,
		"provider_failures", snapshot.ProviderFailures,
		"deliveries_dropped", snapshot.DeliveriesDropped,
		"segments_persisted", snapshot.SegmentsPersisted,
		"persistence_failures", snapshot.PersistenceFailures,
	}

	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		w.log.Debug("Error while retrieving own process", "err", err)
		w.log.Info("Pipeline telemetry", attrs...)
		return
	}
	if cpu, err := p.CPUPercent(); err == nil {
		attrs = append(attrs, "cpu_percent", cpu)
	}
	if ram, err := p.MemoryPercent(); err == nil {
		attrs = append(attrs, "ram_percent", ram)
	}
	w.log.Info("Pipeline telemetry", attrs...)
}
