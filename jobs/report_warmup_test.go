package jobs

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tradewind-bv/tradewind/internal/analytics"
	jobmetrics "github.com/tradewind-bv/tradewind/internal/jobs"
)

type stubRepository struct {
	revenueCalls int
	marginCalls  int
	marginYears  []int
}

func (s *stubRepository) MonthlyRevenue(context.Context) ([]analytics.MonthRow, error) {
	s.revenueCalls++
	months := make([]analytics.MonthRow, 0, 24)
	cursor := time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 24; i++ {
		months = append(months, analytics.MonthRow{Month: cursor.Format("2006-01"), Revenue: 50000})
		cursor = cursor.AddDate(0, 1, 0)
	}
	return months, nil
}

func (s *stubRepository) MarginRows(_ context.Context, filter analytics.MarginFilter) ([]analytics.OrderCostRow, error) {
	s.marginCalls++
	s.marginYears = append(s.marginYears, filter.Year)
	return nil, nil
}

func newWarmupJob(repo analytics.Repository) *ReportWarmupJob {
	svc := analytics.NewService(repo, nil, analytics.Options{})
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	metrics := jobmetrics.NewMetrics(prometheus.NewRegistry())
	job := NewReportWarmupJob(svc, logger, metrics)
	job.clock = func() time.Time {
		return time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)
	}
	return job
}

func TestHandleWarmsAllReports(t *testing.T) {
	repo := &stubRepository{}
	job := newWarmupJob(repo)

	task, err := NewReportWarmupTask(ReportWarmupPayload{})
	require.NoError(t, err)
	require.NoError(t, job.Handle(context.Background(), task))

	// One direct revenue call plus one per forecast method.
	assert.Equal(t, 4, repo.revenueCalls)
	assert.Equal(t, 1, repo.marginCalls)
	assert.Equal(t, []int{2025}, repo.marginYears)
}

func TestHandleHonoursExplicitPayload(t *testing.T) {
	repo := &stubRepository{}
	job := newWarmupJob(repo)

	task, err := NewReportWarmupTask(ReportWarmupPayload{Year: 2024, Methods: []string{"quick"}})
	require.NoError(t, err)
	require.NoError(t, job.Handle(context.Background(), task))

	assert.Equal(t, 2, repo.revenueCalls)
	assert.Equal(t, []int{2024}, repo.marginYears)
}

func TestHandleRejectsMalformedPayload(t *testing.T) {
	job := newWarmupJob(&stubRepository{})

	task := asynq.NewTask(TaskReportWarmup, []byte("{not json"))
	err := job.Handle(context.Background(), task)
	assert.ErrorIs(t, err, asynq.SkipRetry)
}

func TestHandleUnknownForecastMethodIsNonFatal(t *testing.T) {
	repo := &stubRepository{}
	job := newWarmupJob(repo)

	task, err := NewReportWarmupTask(ReportWarmupPayload{Methods: []string{"tarot"}})
	require.NoError(t, err)
	require.NoError(t, job.Handle(context.Background(), task))
	assert.Equal(t, 1, repo.marginCalls)
}
