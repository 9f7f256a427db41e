package export

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	_ "modernc.org/sqlite"

	"github.com/2beens/fittrack/internal/telemetry/tracing"
	"github.com/2beens/fittrack/internal/workouts"
	"github.com/2beens/fittrack/pkg"
)

const sqliteSchema = `CREATE TABLE exercise (
	id INTEGER PRIMARY KEY,
	date TEXT NOT NULL,
	pull_ups INTEGER NOT NULL,
	push_ups INTEGER NOT NULL
);
CREATE INDEX ix_exercise_date ON exercise (date);`

var ErrOutputExists = errors.New("output file already exists")

// WriteSQLite writes a snapshot of the user's submissions into a new SQLite file at path.
// An existing file is never overwritten.
func (e *Exporter) WriteSQLite(ctx context.Context, path string, userID int) (_ int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "export.sqlite")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", userID), attribute.String("export.path", path))

	exists, err := pkg.PathExists(path, false)
	if err != nil {
		return 0, fmt.Errorf("check output path: %w", err)
	}
	if exists {
		return 0, fmt.Errorf("%w: %s", ErrOutputExists, path)
	}

	// a failed export leaves no file behind
	defer func() {
		if err == nil {
			return
		}
		if removeErr := os.Remove(path); removeErr != nil && !os.IsNotExist(removeErr) {
			log.Errorf("remove partial sqlite snapshot %s: %s", path, removeErr)
		}
	}()

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return 0, fmt.Errorf("open sqlite: %w", err)
	}

	written, err := e.fillSnapshot(ctx, db, userID)
	if closeErr := db.Close(); closeErr != nil {
		log.Errorf("close sqlite snapshot %s: %s", path, closeErr)
		if err == nil {
			err = fmt.Errorf("close sqlite snapshot: %w", closeErr)
		}
	}
	if err != nil {
		return 0, err
	}

	span.SetAttributes(attribute.Int("export.rows", written))
	e.countExport("sqlite")
	return written, nil
}

func (e *Exporter) fillSnapshot(ctx context.Context, db *sql.DB, userID int) (_ int, err error) {
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		return 0, fmt.Errorf("create snapshot schema: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO exercise (id, date, pull_ups, push_ups) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	written, err := e.forEachPage(ctx, userID, func(page []workouts.Submission) error {
		for _, s := range page {
			if _, err := stmt.ExecContext(ctx, s.ID, s.Date.String(), s.PullUps, s.PushUps); err != nil {
				return fmt.Errorf("insert submission %d: %w", s.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return written, nil
}
