package export

import (
	"context"
	"io"
	"net/http"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/2beens/fittrack/internal/auth"
	"github.com/2beens/fittrack/internal/telemetry/tracing"
	"github.com/2beens/fittrack/pkg"
)

const csvFileName = "exercise_data.csv"

type csvExporter interface {
	WriteCSV(ctx context.Context, w io.Writer, userID int) (int, error)
}

type Handler struct {
	exporter csvExporter
}

func NewHandler(exporter csvExporter) *Handler {
	return &Handler{
		exporter: exporter,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/export", handler.HandleExportCSV).Methods("GET", "OPTIONS").Name("export")
}

func (handler *Handler) HandleExportCSV(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.export.csv")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	aw := &attachmentWriter{w: w}
	rows, err := handler.exporter.WriteCSV(ctx, aw, userID)
	if err != nil {
		log.Errorf("export csv, user %d, after %d rows: %s", userID, rows, err)
		if !aw.started {
			pkg.WriteJSONError(w, "failed to export data", http.StatusInternalServerError)
		}
		// headers are gone already, the client gets a truncated file
		return
	}

	log.Debugf("exported %d rows for user %d", rows, userID)
}

// attachmentWriter sets the CSV attachment headers right before the first write
type attachmentWriter struct {
	w       http.ResponseWriter
	started bool
}

func (a *attachmentWriter) Write(p []byte) (int, error) {
	if !a.started {
		a.started = true
		a.w.Header().Set("Content-Type", pkg.ContentType.CSV)
		a.w.Header().Set("Content-Disposition", "attachment; filename="+csvFileName)
		a.w.WriteHeader(http.StatusOK)
	}
	n, err := a.w.Write(p)
	if f, ok := a.w.(http.Flusher); ok {
		f.Flush()
	}
	return n, err
}
