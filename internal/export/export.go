// Package export downloads lead report blobs and writes them to disk. The
// backend composes the workbook; this side only names and saves the file.
package export

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"
)

// Format is a supported export format.
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
)

// ParseFormat validates a user-supplied format string.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatXLSX, FormatCSV:
		return Format(s), nil
	}
	return "", fmt.Errorf("unsupported export format %q (want xlsx or csv)", s)
}

// Downloader is the slice of the API client this package needs.
type Downloader interface {
	ExportLeads(ctx context.Context, format string, query url.Values) ([]byte, error)
}

// Filename returns the client-side name for an export taken at the given
// moment: leads_export_<ISO-date>.<ext>.
func Filename(format Format, now time.Time) string {
	return fmt.Sprintf("leads_export_%s.%s", now.Format("2006-01-02"), format)
}

// Exporter fetches and stores exports.
type Exporter struct {
	dl  Downloader
	now func() time.Time
}

// New creates an exporter.
func New(dl Downloader) *Exporter {
	return &Exporter{dl: dl, now: time.Now}
}

// SetClock overrides the clock (tests).
func (e *Exporter) SetClock(now func() time.Time) { e.now = now }

// Save downloads an export scoped by query and writes it into dir, returning
// the written path.
func (e *Exporter) Save(ctx context.Context, format Format, query url.Values, dir string) (string, error) {
	blob, err := e.dl.ExportLeads(ctx, string(format), query)
	if err != nil {
		return "", fmt.Errorf("download export: %w", err)
	}
	path := filepath.Join(dir, Filename(format, e.now()))
	if err := os.WriteFile(path, blob, 0644); err != nil {
		return "", fmt.Errorf("write export: %w", err)
	}
	return path, nil
}
