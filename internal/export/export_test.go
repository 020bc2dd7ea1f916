package export

import (
	"context"
	"errors"
	"net/url"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDownloader struct {
	blob  []byte
	err   error
	query url.Values
}

func (f *fakeDownloader) ExportLeads(_ context.Context, format string, query url.Values) ([]byte, error) {
	f.query = query
	return f.blob, f.err
}

func TestFilename(t *testing.T) {
	t.Parallel()

	at := time.Date(2026, 8, 28, 16, 30, 0, 0, time.UTC)
	assert.Equal(t, "leads_export_2026-08-28.xlsx", Filename(FormatXLSX, at))
	assert.Equal(t, "leads_export_2026-08-28.csv", Filename(FormatCSV, at))
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	f, err := ParseFormat("csv")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, f)

	_, err = ParseFormat("pdf")
	assert.Error(t, err)
}

func TestSave(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	dl := &fakeDownloader{blob: []byte("a,b,c\n1,2,3\n")}
	e := New(dl)
	e.SetClock(func() time.Time { return time.Date(2026, 8, 28, 9, 0, 0, 0, time.UTC) })

	q := url.Values{}
	q.Set("search", "acme")
	path, err := e.Save(context.Background(), FormatCSV, q, dir)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "leads_export_2026-08-28.csv"), path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, dl.blob, data)
	assert.Equal(t, "acme", dl.query.Get("search"))
}

func TestSaveDownloadError(t *testing.T) {
	t.Parallel()

	dl := &fakeDownloader{err: errors.New("backend unavailable")}
	_, err := New(dl).Save(context.Background(), FormatXLSX, nil, t.TempDir())
	assert.ErrorContains(t, err, "backend unavailable")
}
