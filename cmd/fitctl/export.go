package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/2beens/fittrack/internal/export"
	"github.com/2beens/fittrack/internal/workouts"
	"github.com/2beens/fittrack/pkg"
)

const (
	formatCSV    = "csv"
	formatSQLite = "sqlite"
)

func newExportCmd(flags *rootFlags) *cobra.Command {
	var (
		username string
		format   string
		outPath  string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export all submissions of a user into a CSV or SQLite file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if username == "" {
				return errors.New("--user is required")
			}
			if outPath == "" {
				return errors.New("--out is required")
			}
			if format != formatCSV && format != formatSQLite {
				return fmt.Errorf("unsupported format [%s], use csv or sqlite", format)
			}

			exists, err := pkg.PathExists(outPath, false)
			if err != nil {
				return fmt.Errorf("check output path: %w", err)
			}
			if exists {
				return export.ErrOutputExists
			}

			b, err := openBackend(cmd.Context(), flags, username)
			if err != nil {
				return err
			}
			defer b.Close()

			exporter := export.NewExporter(workouts.NewRepo(b.dbPool), b.cfg.ExportPageSize, nil)

			var rows int
			switch format {
			case formatCSV:
				rows, err = writeCSVFile(cmd.Context(), exporter, outPath, b.user.ID)
			case formatSQLite:
				rows, err = exporter.WriteSQLite(cmd.Context(), outPath, b.user.ID)
			}
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "exported %d rows to %s\n", rows, outPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "user", "", "username")
	cmd.Flags().StringVar(&format, "format", formatCSV, "output format [csv | sqlite]")
	cmd.Flags().StringVar(&outPath, "out", "", "output file path")
	return cmd
}

type csvWriter interface {
	WriteCSV(ctx context.Context, w io.Writer, userID int) (int, error)
}

// writeCSVFile creates path and streams the export into it. A failed export leaves no file behind.
func writeCSVFile(ctx context.Context, exporter csvWriter, path string, userID int) (_ int, err error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return 0, fmt.Errorf("create output file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close output file: %w", closeErr)
		}
		if err != nil {
			if removeErr := os.Remove(path); removeErr != nil {
				log.Errorf("remove partial export %s: %s", path, removeErr)
			}
		}
	}()

	return exporter.WriteCSV(ctx, f, userID)
}
