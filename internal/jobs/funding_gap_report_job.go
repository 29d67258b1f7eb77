package jobs

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"path"
	"time"

	"github.com/straye-as/staffing-api/internal/domain"
	"github.com/straye-as/staffing-api/internal/mapper"
	"github.com/straye-as/staffing-api/internal/metrics"
	"github.com/straye-as/staffing-api/internal/storage"
	"go.uber.org/zap"
)

// FundingGapReportJobName is the scheduler name of the funding gap report
const FundingGapReportJobName = "funding_gap_report"

const (
	reportContentType    = "text/csv"
	reportTimestampShape = "20060102T150405Z"
)

var fundingGapReportHeader = []string{
	"project_id", "module_id", "module_name", "position_id", "position_name", "workers_gap",
}

// FundingGapSource lists saved headcount not yet covered by staffing requests.
// Implemented by service.LaborEstimateService.
type FundingGapSource interface {
	ListFundingGaps(ctx context.Context) ([]domain.FundingGap, error)
}

// FundingGapReportJob writes a CSV of every uncovered position to storage
type FundingGapReportJob struct {
	source  FundingGapSource
	storage storage.Storage
	metrics *metrics.Manager
	logger  *zap.Logger
	timeout time.Duration
	prefix  string
	now     func() time.Time
}

// NewFundingGapReportJob creates a new funding gap report job.
// The timeout bounds a single run; reports are written below prefix.
func NewFundingGapReportJob(source FundingGapSource, store storage.Storage, m *metrics.Manager, logger *zap.Logger, timeout time.Duration, prefix string) *FundingGapReportJob {
	return &FundingGapReportJob{
		source:  source,
		storage: store,
		metrics: m,
		logger:  logger,
		timeout: timeout,
		prefix:  prefix,
		now:     time.Now,
	}
}

// Run executes the job. This is called by the scheduler according to the cron expression.
func (j *FundingGapReportJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	start := time.Now()
	key, rows, err := j.RunOnce(ctx)
	if err != nil {
		j.metrics.RecordReportRun(metrics.ReportFailure, 0)
		j.logger.Error("funding gap report failed",
			zap.Error(err),
			zap.Duration("duration", time.Since(start)))
		return
	}

	j.metrics.RecordReportRun(metrics.ReportSuccess, rows)
	j.logger.Info("funding gap report written",
		zap.String("key", key),
		zap.Int("rows", rows),
		zap.Duration("duration", time.Since(start)))
}

// RunOnce builds the report and stores it, returning its storage key and row count
func (j *FundingGapReportJob) RunOnce(ctx context.Context) (string, int, error) {
	gaps, err := j.source.ListFundingGaps(ctx)
	if err != nil {
		return "", 0, fmt.Errorf("failed to list funding gaps: %w", err)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(fundingGapReportHeader); err != nil {
		return "", 0, fmt.Errorf("failed to write report header: %w", err)
	}
	for _, gap := range gaps {
		if err := w.Write(mapper.ToFundingGapRecord(gap)); err != nil {
			return "", 0, fmt.Errorf("failed to write report row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", 0, fmt.Errorf("failed to write report: %w", err)
	}

	key := j.reportKey()
	if _, err := j.storage.Put(ctx, key, reportContentType, &buf); err != nil {
		return "", 0, fmt.Errorf("failed to store report: %w", err)
	}

	return key, len(gaps), nil
}

func (j *FundingGapReportJob) reportKey() string {
	name := fmt.Sprintf("funding-gaps-%s.csv", j.now().UTC().Format(reportTimestampShape))
	return path.Join(j.prefix, name)
}

// RegisterFundingGapReportJob schedules the report on the given cron expression
func RegisterFundingGapReportJob(scheduler *Scheduler, job *FundingGapReportJob, cronExpr string) error {
	return scheduler.AddJob(FundingGapReportJobName, cronExpr, job.Run)
}
