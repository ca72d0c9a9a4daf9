package planner

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	syserrors "github.com/maxkimambo/sysgraph/internal/errors"
	"github.com/maxkimambo/sysgraph/internal/logger"
	"github.com/maxkimambo/sysgraph/internal/scheduler"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

const instrumentationName = "github.com/maxkimambo/sysgraph/internal/planner"

// dispatchMetrics holds the instruments recorded for every system run
type dispatchMetrics struct {
	runs     metric.Int64Counter
	duration metric.Float64Histogram
}

func newDispatchMetrics(meter metric.Meter) (*dispatchMetrics, error) {
	runs, err := meter.Int64Counter(
		"sysgraph.system.runs",
		metric.WithDescription("Number of system runs by outcome"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("create run counter: %w", err)
	}

	duration, err := meter.Float64Histogram(
		"sysgraph.system.duration",
		metric.WithDescription("System run duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, fmt.Errorf("create duration histogram: %w", err)
	}

	return &dispatchMetrics{runs: runs, duration: duration}, nil
}

func (m *dispatchMetrics) record(ctx context.Context, e Entry, status Status, d time.Duration) {
	if m == nil {
		return
	}
	opts := metric.WithAttributes(
		attribute.String("system", e.Name),
		attribute.String("status", string(status)),
	)
	m.runs.Add(ctx, 1, opts)
	m.duration.Record(ctx, float64(d.Microseconds())/1000, opts)
}

func (p *Plan) tracer() trace.Tracer {
	if p.config.Tracer != nil {
		return p.config.Tracer
	}
	return otel.Tracer(instrumentationName)
}

func (p *Plan) meter() metric.Meter {
	if p.config.Meter != nil {
		return p.config.Meter
	}
	return otel.Meter(instrumentationName)
}

// Dispatch runs every system of the plan. Priority levels run one after
// another, highest first; systems sharing a level run concurrently up to
// MaxParallel. The first failure stops the dispatch once its level has
// drained, and systems that never started are reported as skipped.
func (p *Plan) Dispatch(ctx context.Context) (*DispatchResult, error) {
	start := time.Now()
	levels := p.Levels()

	var entries []Entry
	for _, level := range levels {
		entries = append(entries, level...)
	}

	result := &DispatchResult{
		RunID:   uuid.New().String(),
		Systems: make([]*SystemResult, len(entries)),
	}
	for i, e := range entries {
		result.Systems[i] = &SystemResult{Name: e.Name, Priority: e.Priority, Status: StatusSkipped}
	}

	tracer := p.tracer()
	ctx, span := tracer.Start(ctx, "plan.dispatch", trace.WithAttributes(
		attribute.String("sysgraph.run_id", result.RunID),
		attribute.Int("sysgraph.systems", len(entries)),
		attribute.Int("sysgraph.levels", len(levels)),
		attribute.Int("sysgraph.max_parallel", p.config.MaxParallel),
	))
	defer span.End()

	metrics, err := newDispatchMetrics(p.meter())
	if err != nil {
		logger.Op.WithFields(map[string]interface{}{
			"run_id": result.RunID,
			"error":  err,
		}).Warn("dispatch metrics disabled")
	}

	logger.User.Starting(fmt.Sprintf("Running %d systems (max %d parallel)", len(entries), p.config.MaxParallel))
	logger.Op.WithField("run_id", result.RunID).Debug("dispatch started")

	offset := 0
	for _, level := range levels {
		if ctx.Err() != nil {
			break
		}

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(p.config.MaxParallel)
		for i, e := range level {
			e := e
			res := result.Systems[offset+i]
			g.Go(func() error {
				return p.runSystem(gctx, tracer, metrics, e, res)
			})
		}
		if err := g.Wait(); err != nil {
			result.Error = err
			break
		}

		offset += len(level)
	}

	if skipped := len(result.Skipped()); result.Error == nil && skipped > 0 {
		result.Error = syserrors.NewDispatchCancelledError(skipped, context.Cause(ctx))
	}

	result.Duration = time.Since(start)
	result.Success = result.Error == nil

	if result.Success {
		span.SetStatus(codes.Ok, "")
		logger.User.Successf("Run completed: %d/%d systems successful in %v",
			result.Succeeded(), len(entries), result.Duration.Round(time.Millisecond))
	} else {
		span.RecordError(result.Error)
		span.SetStatus(codes.Error, "dispatch failed")
		logger.User.Errorf("Run stopped: %d successful, %d failed, %d skipped",
			result.Succeeded(), len(result.Failed()), len(result.Skipped()))
	}

	return result, result.Error
}

// runSystem runs a single entry and fills res. Systems whose context is
// already done are left skipped.
func (p *Plan) runSystem(ctx context.Context, tracer trace.Tracer, metrics *dispatchMetrics, e Entry, res *SystemResult) error {
	if ctx.Err() != nil {
		return nil
	}

	ctx, span := tracer.Start(ctx, "system.run", trace.WithAttributes(
		attribute.String("sysgraph.system", e.Name),
		attribute.Int64("sysgraph.priority", int64(e.Priority)),
	))
	defer span.End()

	if p.config.SystemTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.config.SystemTimeout)
		defer cancel()
	}

	logger.Op.WithSystem(e.Name).Debug("system started")

	res.StartTime = time.Now()
	err := safeRun(ctx, e.Run)
	res.EndTime = time.Now()
	res.Duration = res.EndTime.Sub(res.StartTime)

	if err != nil {
		res.Status = StatusFailed
		res.Error = err
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		metrics.record(ctx, e, res.Status, res.Duration)
		logger.User.Errorf("System failed: %s - %s", e.Name, syserrors.DisplayErrorSummary(err))
		return syserrors.NewDispatchError(e.Name, int32(e.Priority), err)
	}

	res.Status = StatusSucceeded
	span.SetStatus(codes.Ok, "")
	metrics.record(ctx, e, res.Status, res.Duration)
	logger.Op.WithSystem(e.Name).WithField("duration", res.Duration).Debug("system completed")
	return nil
}

func safeRun(ctx context.Context, run scheduler.RunFunc) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return run(ctx)
}
