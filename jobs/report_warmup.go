package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/tradewind-bv/tradewind/internal/analytics"
	jobmetrics "github.com/tradewind-bv/tradewind/internal/jobs"
)

// ReportWarmupJob populates the report caches off the request path so
// the first reader of the day hits warm data.
type ReportWarmupJob struct {
	Service *analytics.Service
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
	clock   func() time.Time
}

// NewReportWarmupJob initialises the warmup handler.
func NewReportWarmupJob(service *analytics.Service, logger *slog.Logger, metrics *jobmetrics.Metrics) *ReportWarmupJob {
	return &ReportWarmupJob{
		Service: service,
		Logger:  logger,
		Metrics: metrics,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Handle runs one warmup: monthly revenue, the current-year margin
// report and the requested forecasts. Failures on individual forecasts
// are logged but do not abort the rest of the warmup.
func (j *ReportWarmupJob) Handle(ctx context.Context, t *asynq.Task) (err error) {
	if j == nil || j.Service == nil {
		return errors.New("report warmup: handler not configured")
	}
	var payload ReportWarmupPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	if payload.Year == 0 {
		payload.Year = j.clock().Year()
	}
	if len(payload.Methods) == 0 {
		payload.Methods = []string{"seasonal", "smoothing", "quick"}
	}

	tracker := j.Metrics.Track(TaskReportWarmup)
	defer func() {
		err = tracker.End(err)
	}()

	if _, err = j.Service.MonthlyRevenue(ctx, analytics.RevenueOptions{}); err != nil {
		return err
	}

	if _, err = j.Service.Margin(ctx, analytics.MarginFilter{Year: payload.Year}); err != nil {
		return err
	}

	for _, method := range payload.Methods {
		if _, _, err := j.Service.ForecastReport(ctx, method, analytics.RevenueOptions{}); err != nil {
			j.Logger.Warn("forecast warmup skipped", "method", method, "error", err)
		}
	}

	j.Logger.Info("report caches warmed", "year", payload.Year, "methods", payload.Methods)
	return nil
}
