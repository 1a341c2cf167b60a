package telemetry

import (
	"context"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"go.opentelemetry.io/otel"
	otelmetric "go.opentelemetry.io/otel/metric"
)

const (
	report_perf_stats = "perf_stats"
)

const DefaultPerfStatsInterval = 30 * time.Second

type perfGauges struct {
	tel         API
	cpu         otelmetric.Float64Gauge
	memory      otelmetric.Int64Gauge
	liveObjects otelmetric.Int64Gauge
	goroutines  otelmetric.Int64Gauge
}

func newPerfGauges(meterName string, tel API) (perfGauges, error) {
	meter := otel.Meter(meterName)
	g := perfGauges{tel: tel}

	var err error
	g.cpu, err = meter.Float64Gauge("cpu_usage", otelmetric.WithUnit("%"))
	if err != nil {
		return perfGauges{}, err
	}
	g.memory, err = meter.Int64Gauge("allocated_mb", otelmetric.WithUnit("MB"))
	if err != nil {
		return perfGauges{}, err
	}
	g.liveObjects, err = meter.Int64Gauge("live_objects")
	if err != nil {
		return perfGauges{}, err
	}
	g.goroutines, err = meter.Int64Gauge("goroutine_count")
	if err != nil {
		return perfGauges{}, err
	}
	return g, nil
}

// record takes a single sample, cpu usage is measured since the previous sample.
func (g perfGauges) record(ctx context.Context) {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	cpuUsage, err := cpu.PercentWithContext(ctx, 0, false)
	if err == nil && len(cpuUsage) > 0 {
		g.cpu.Record(ctx, cpuUsage[0])
	} else if err != nil {
		g.tel.ReportWarning(report_perf_stats, "failed to read cpu usage", err)
	}

	g.memory.Record(ctx, int64(memStats.Alloc/1_000_000))
	g.liveObjects.Record(ctx, int64(memStats.Mallocs)-int64(memStats.Frees))
	g.goroutines.Record(ctx, int64(runtime.NumGoroutine()))
}

// InstrumentPerfStats samples cpu, memory and goroutine usage on the global meter
// every interval until ctx is done.
func InstrumentPerfStats(ctx context.Context, meterName string, tel API, interval time.Duration) error {
	if interval <= 0 {
		interval = DefaultPerfStatsInterval
	}
	gauges, err := newPerfGauges(meterName, tel)
	if err != nil {
		return err
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				gauges.record(ctx)
			case <-ctx.Done():
				return
			}
		}
	}()
	return nil
}
