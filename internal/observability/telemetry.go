package observability

import (
	"context"
	"errors"
	"net/http"

	"github.com/grafana/pyroscope-go"
	"github.com/riskibarqy/courtside-sync/internal/config"
	"github.com/riskibarqy/courtside-sync/internal/platform/logging"
)

// Telemetry owns the process-wide exporters: Uptrace traces and logs, the
// Pyroscope profiler and the local pprof listener. Each part is optional.
type Telemetry struct {
	logger *logging.Logger

	shutdownTracing func(context.Context) error
	profiler        *pyroscope.Profiler
	pprofServer     *http.Server
}

// Start brings up every enabled exporter. On error the parts already started
// are stopped before returning.
func Start(cfg config.Config, logger *logging.Logger) (*Telemetry, error) {
	if logger == nil {
		logger = logging.Default()
	}
	t := &Telemetry{logger: logger}

	t.shutdownTracing = startTracing(cfg, logger)

	profiler, err := startProfiler(cfg, logger)
	if err != nil {
		_ = t.Shutdown(context.Background())
		return nil, err
	}
	t.profiler = profiler

	t.pprofServer = startPprof(cfg, logger)

	return t, nil
}

// Shutdown stops the exporters in reverse start order and joins their errors.
func (t *Telemetry) Shutdown(ctx context.Context) error {
	if t == nil {
		return nil
	}

	var errs []error
	if t.pprofServer != nil {
		if err := t.pprofServer.Shutdown(ctx); err != nil {
			errs = append(errs, err)
		} else {
			t.logger.Info("pprof server stopped")
		}
		t.pprofServer = nil
	}
	if t.profiler != nil {
		if err := t.profiler.Stop(); err != nil {
			errs = append(errs, err)
		}
		t.profiler = nil
	}
	if t.shutdownTracing != nil {
		if err := t.shutdownTracing(ctx); err != nil {
			errs = append(errs, err)
		}
		t.shutdownTracing = nil
	}
	return errors.Join(errs...)
}
