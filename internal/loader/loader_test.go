package loader

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	apierrors "idwrcli/internal/errors"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func writeWorkbook(t *testing.T, dir, name string, rows [][]interface{}) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	p := filepath.Join(dir, name)
	require.NoError(t, f.SaveAs(p))
	return p
}

func TestFormatOf(t *testing.T) {
	tests := []struct {
		name    string
		want    Format
		wantErr bool
	}{
		{name: "data.csv", want: FormatText},
		{name: "DATA.TXT", want: FormatText},
		{name: "book.xlsx", want: FormatWorkbook},
		{name: "book.xls", wantErr: true},
		{name: "noext", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FormatOf(tt.name)
			if tt.wantErr {
				assert.True(t, errors.Is(err, ErrUnsupportedFormat))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReadFile_Text(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "weekly.csv", "year,week,disease,cases\n2023,1,Flu,10\n")

	l := New(Config{}, slog.Default())
	text, err := l.ReadFile(p)
	require.NoError(t, err)
	assert.Equal(t, "year,week,disease,cases\n2023,1,Flu,10\n", text)
}

func TestReadFile_Missing(t *testing.T) {
	l := New(Config{}, nil)
	_, err := l.ReadFile(filepath.Join(t.TempDir(), "missing.csv"))

	var appErr *apierrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apierrors.ErrTypeStorage, appErr.Type)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestReadFile_Workbook(t *testing.T) {
	dir := t.TempDir()
	p := writeWorkbook(t, dir, "weekly.xlsx", [][]interface{}{
		{"year", "week", "disease", "cases"},
		{2023, 1, "Flu, type A", 10},
		{2023, 2, `say "hi"`, 12},
	})

	l := New(Config{}, slog.Default())
	text, err := l.ReadFile(p)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(text), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "year,week,disease,cases", lines[0])
	assert.Equal(t, `2023,1,"Flu, type A",10`, lines[1])
	assert.Equal(t, "2023,2,say hi,12", lines[2])
}

func TestWorkbookText_NotAWorkbook(t *testing.T) {
	_, err := WorkbookText(strings.NewReader("year,week\n"))

	var appErr *apierrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apierrors.ErrTypeParsing, appErr.Type)
}

func TestDecode_SizeLimit(t *testing.T) {
	l := New(Config{MaxBytes: 8}, slog.Default())

	_, err := l.Decode("big.csv", strings.NewReader("0123456789"))
	assert.True(t, errors.Is(err, ErrTooLarge))

	text, err := l.Decode("ok.csv", strings.NewReader("01234567"))
	require.NoError(t, err)
	assert.Equal(t, "01234567", text)
	assert.Equal(t, int64(8), l.MaxBytes())
}

func TestSample_LocalCopyWins(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "yearly_disease.csv", "year,disease,cases\n2021,Flu,1\n")

	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
	}))
	defer srv.Close()

	l := New(Config{
		SamplesDir: dir,
		BaseURL:    srv.URL,
		Samples:    []string{"yearly_disease.csv"},
	}, slog.Default())

	text, err := l.Sample(context.Background(), "yearly_disease.csv")
	require.NoError(t, err)
	assert.Contains(t, text, "2021,Flu,1")
	assert.Equal(t, int32(0), atomic.LoadInt32(&hits))
}

func TestSample_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/samples/yearly_pathogen.csv" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte("year,pathogen,cases\n2021,RSV,3\n"))
	}))
	defer srv.Close()

	l := New(Config{
		SamplesDir: t.TempDir(),
		BaseURL:    srv.URL + "/samples/",
		Samples:    []string{"yearly_pathogen.csv", "missing.csv"},
	}, slog.Default())

	text, err := l.Sample(context.Background(), "yearly_pathogen.csv")
	require.NoError(t, err)
	assert.Equal(t, "year,pathogen,cases\n2021,RSV,3\n", text)

	_, err = l.Sample(context.Background(), "missing.csv")
	var appErr *apierrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apierrors.ErrTypeNetwork, appErr.Type)
}

func TestSample_Unknown(t *testing.T) {
	l := New(Config{Samples: []string{"yearly_disease.csv"}}, slog.Default())

	_, err := l.Sample(context.Background(), "../etc/passwd")
	assert.True(t, errors.Is(err, ErrUnknownSample))
}

func TestSample_NoSource(t *testing.T) {
	l := New(Config{Samples: []string{"yearly_disease.csv"}}, slog.Default())

	_, err := l.Sample(context.Background(), "yearly_disease.csv")
	var appErr *apierrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apierrors.ErrTypeNotFound, appErr.Type)
}

func TestSample_ConcurrentFetchesShared(t *testing.T) {
	var hits int32
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		<-release
		_, _ = w.Write([]byte("year,disease,cases\n2021,Flu,1\n"))
	}))
	defer srv.Close()

	l := New(Config{
		BaseURL: srv.URL,
		Samples: []string{"yearly_disease.csv"},
	}, slog.Default())

	const callers = 5
	var wg sync.WaitGroup
	results := make([]string, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			text, err := l.Sample(context.Background(), "yearly_disease.csv")
			assert.NoError(t, err)
			results[i] = text
		}(i)
	}

	// Give every caller time to join the in-flight fetch.
	require.Eventually(t, func() bool { return atomic.LoadInt32(&hits) == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
	for _, text := range results {
		assert.Contains(t, text, "2021,Flu,1")
	}
}

func TestSample_CancelledCallerLeavesSharedFetch(t *testing.T) {
	var hits int32
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		<-release
		_, _ = w.Write([]byte("year,disease,cases\n2021,Flu,1\n"))
	}))
	defer srv.Close()

	l := New(Config{
		BaseURL: srv.URL,
		Samples: []string{"yearly_disease.csv"},
	}, slog.Default())

	ctx, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := l.Sample(ctx, "yearly_disease.csv")
		firstErr <- err
	}()
	require.Eventually(t, func() bool { return atomic.LoadInt32(&hits) == 1 }, time.Second, 5*time.Millisecond)

	type result struct {
		text string
		err  error
	}
	second := make(chan result, 1)
	go func() {
		text, err := l.Sample(context.Background(), "yearly_disease.csv")
		second <- result{text, err}
	}()
	time.Sleep(50 * time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-firstErr, context.Canceled)

	close(release)
	got := <-second
	require.NoError(t, got.err)
	assert.Contains(t, got.text, "2021,Flu,1")
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

func TestSamples(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "yearly_pathogen.csv", "year,pathogen,cases\n")

	l := New(Config{
		SamplesDir: dir,
		Samples:    []string{"yearly_pathogen.csv", "yearly_disease.csv"},
	}, slog.Default())

	samples := l.Samples()
	require.Len(t, samples, 2)
	assert.Equal(t, "yearly_disease.csv", samples[0].Name)
	assert.False(t, samples[0].Local)
	assert.Equal(t, "yearly_pathogen.csv", samples[1].Name)
	assert.True(t, samples[1].Local)
	assert.Positive(t, samples[1].Size)
}

func TestSamples_DiscoversLocalFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "yearly_disease.csv", "year,disease,cases\n2021,Flu,1\n")
	writeFile(t, dir, "extra.csv", "year,disease,cases\n2022,RSV,4\n")
	writeFile(t, dir, "notes.pdf", "%PDF")
	writeFile(t, dir, ".hidden.csv", "year\n")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.csv"), 0o755))

	l := New(Config{
		SamplesDir: dir,
		Samples:    []string{"yearly_disease.csv", "yearly_pathogen.csv"},
	}, slog.Default())

	var names []string
	for _, s := range l.Samples() {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{"extra.csv", "yearly_disease.csv", "yearly_pathogen.csv"}, names)

	text, err := l.Sample(context.Background(), "extra.csv")
	require.NoError(t, err)
	assert.Contains(t, text, "2022,RSV,4")

	_, err = l.Sample(context.Background(), "notes.pdf")
	assert.ErrorIs(t, err, ErrUnknownSample)
	_, err = l.Sample(context.Background(), "nested.csv")
	assert.ErrorIs(t, err, ErrUnknownSample)
}
