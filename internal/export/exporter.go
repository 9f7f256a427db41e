package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"go.opentelemetry.io/otel/attribute"

	"github.com/2beens/fittrack/internal/telemetry/metrics"
	"github.com/2beens/fittrack/internal/telemetry/tracing"
	"github.com/2beens/fittrack/internal/workouts"
)

//go:generate mockgen -source=$GOFILE -destination=exporter_mocks_test.go -package=export_test

const DefaultPageSize = 100

var csvHeader = []string{"ID", "Date", "Pull-Ups", "Push-Ups"}

type submissionsPager interface {
	Count(ctx context.Context, userID int) (int, error)
	ListPage(ctx context.Context, userID, limit, offset int) ([]workouts.Submission, error)
}

// Exporter reads all submissions of a user page by page, so big histories are never held in memory.
type Exporter struct {
	pager          submissionsPager
	pageSize       int
	metricsManager *metrics.Manager
}

func NewExporter(pager submissionsPager, pageSize int, metricsManager *metrics.Manager) *Exporter {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	return &Exporter{
		pager:          pager,
		pageSize:       pageSize,
		metricsManager: metricsManager,
	}
}

func (e *Exporter) forEachPage(ctx context.Context, userID int, fn func([]workouts.Submission) error) (int, error) {
	total, err := e.pager.Count(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("count submissions: %w", err)
	}

	written := 0
	for offset := 0; offset < total; offset += e.pageSize {
		page, err := e.pager.ListPage(ctx, userID, e.pageSize, offset)
		if err != nil {
			return written, fmt.Errorf("list page at offset %d: %w", offset, err)
		}
		if len(page) == 0 {
			// rows removed since counting
			break
		}
		if err := fn(page); err != nil {
			return written, err
		}
		written += len(page)
	}

	return written, nil
}

// WriteCSV writes the header and one row per submission, ordered by ID.
// Nothing is written to w if counting the submissions fails.
func (e *Exporter) WriteCSV(ctx context.Context, w io.Writer, userID int) (_ int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "export.csv")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", userID))

	var csvWriter *csv.Writer
	written, err := e.forEachPage(ctx, userID, func(page []workouts.Submission) error {
		if csvWriter == nil {
			csvWriter = csv.NewWriter(w)
			if err := csvWriter.Write(csvHeader); err != nil {
				return fmt.Errorf("write csv header: %w", err)
			}
		}
		for _, s := range page {
			if err := csvWriter.Write(csvRecord(s)); err != nil {
				return fmt.Errorf("write csv record %d: %w", s.ID, err)
			}
		}
		csvWriter.Flush()
		return csvWriter.Error()
	})
	if err != nil {
		return written, err
	}

	// no submissions, only the header
	if csvWriter == nil {
		csvWriter = csv.NewWriter(w)
		if err := csvWriter.Write(csvHeader); err != nil {
			return 0, fmt.Errorf("write csv header: %w", err)
		}
		csvWriter.Flush()
		if err := csvWriter.Error(); err != nil {
			return 0, err
		}
	}

	span.SetAttributes(attribute.Int("export.rows", written))
	e.countExport("csv")
	return written, nil
}

func csvRecord(s workouts.Submission) []string {
	return []string{
		strconv.Itoa(s.ID),
		s.Date.String(),
		strconv.Itoa(s.PullUps),
		strconv.Itoa(s.PushUps),
	}
}

func (e *Exporter) countExport(format string) {
	if e.metricsManager != nil {
		e.metricsManager.CounterExports.WithLabelValues(format).Inc()
	}
}
