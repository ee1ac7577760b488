package observability

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/riskibarqy/tournament-desk/internal/config"
	"github.com/riskibarqy/tournament-desk/internal/platform/logging"
)

// Runtime holds the process-wide telemetry started for one binary.
type Runtime struct {
	logger          *logging.Logger
	pprof           *http.Server
	stopPyroscope   func() error
	shutdownUptrace func(context.Context) error
}

// Start brings up tracing and profiling. Anything started before a failure is
// stopped again before returning.
func Start(cfg config.Config, logger *logging.Logger) (*Runtime, error) {
	if logger == nil {
		logger = logging.Default()
	}
	rt := &Runtime{logger: logger}

	shutdownUptrace, err := InitUptrace(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("init uptrace: %w", err)
	}
	rt.shutdownUptrace = shutdownUptrace

	stopPyroscope, err := InitPyroscope(cfg, logger)
	if err != nil {
		_ = rt.Shutdown(context.Background())
		return nil, fmt.Errorf("init pyroscope: %w", err)
	}
	rt.stopPyroscope = stopPyroscope

	pprofServer, err := StartPprofServer(cfg, logger)
	if err != nil {
		_ = rt.Shutdown(context.Background())
		return nil, fmt.Errorf("start pprof server: %w", err)
	}
	rt.pprof = pprofServer

	return rt, nil
}

// Shutdown stops everything Start brought up, in reverse order.
func (r *Runtime) Shutdown(ctx context.Context) error {
	if r == nil {
		return nil
	}

	var errs []error
	timeout := 5 * time.Second
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
	}
	if err := StopPprofServer(r.pprof, r.logger, timeout); err != nil {
		errs = append(errs, fmt.Errorf("stop pprof server: %w", err))
	}
	if r.stopPyroscope != nil {
		if err := r.stopPyroscope(); err != nil {
			errs = append(errs, fmt.Errorf("stop pyroscope: %w", err))
		}
	}
	if r.shutdownUptrace != nil {
		if err := r.shutdownUptrace(ctx); err != nil {
			errs = append(errs, fmt.Errorf("shutdown uptrace: %w", err))
		}
	}

	return errors.Join(errs...)
}
