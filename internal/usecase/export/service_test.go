package export

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kailas-cloud/termdeck/internal/domain"
	"github.com/kailas-cloud/termdeck/internal/domain/deck"
	"github.com/kailas-cloud/termdeck/internal/domain/entry"
	"github.com/kailas-cloud/termdeck/internal/domain/search/filter"
	"github.com/kailas-cloud/termdeck/internal/usecase/search"
	"github.com/kailas-cloud/termdeck/internal/usecase/session"
)

// --- Mocks ---

type mockSource struct {
	filters   filter.Filters
	entries   []entry.Entry
	err       error
	lastLimit int
}

func (m *mockSource) FetchAll(_ context.Context, limit int) (filter.Filters, []entry.Entry, error) {
	m.lastLimit = limit
	if m.err != nil {
		return m.filters, nil, m.err
	}
	return m.filters, m.entries[:min(limit, len(m.entries))], nil
}

type mockAggregator struct {
	result search.Result
	err    error
}

func (m *mockAggregator) Aggregate(_ context.Context, _ filter.Filters, _ ...search.Option) (search.Result, error) {
	return m.result, m.err
}

type mockExporter struct {
	calls    int
	fileName string
	rows     []deck.Row
	err      error
}

func (m *mockExporter) Export(fileName string, rows []deck.Row) (string, error) {
	m.calls++
	m.fileName = fileName
	m.rows = rows
	if m.err != nil {
		return "", m.err
	}
	return "/tmp/" + fileName, nil
}

func italianEntry(id int, it, de string) entry.Entry {
	return entry.Entry{ID: id, URL: "https://x/" + it, LanguageDetails: []entry.LanguageDetail{
		{LanguageCode: domain.LanguageIT, Terminus: it},
		{LanguageCode: domain.LanguageDE, Terminus: de},
	}}
}

func itToDe() filter.Filters {
	return filter.New(domain.LanguageIT, []domain.LanguageCode{domain.LanguageDE}, []int{1})
}

// --- Tests ---

func TestBuild(t *testing.T) {
	src := &mockSource{filters: itToDe(), entries: []entry.Entry{italianEntry(1, "mandato", "Auftrag")}}
	svc := New(nil, 0)

	d, err := svc.Build(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultExportLimit, src.lastLimit)
	assert.Equal(t, "termdat-it-to-de.tsv", d.FileName)
	require.Len(t, d.Rows, 1)
	assert.Equal(t, deck.Row{Front: "mandato", Back: "DE: Auftrag", URL: "https://x/mandato"}, d.Rows[0])
}

func TestBuild_RespectsLimit(t *testing.T) {
	src := &mockSource{filters: itToDe(), entries: []entry.Entry{
		italianEntry(1, "a", "A"), italianEntry(2, "b", "B"), italianEntry(3, "c", "C"),
	}}

	d, err := New(nil, 2).Build(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, 2, d.Entries)
	assert.Len(t, d.Rows, 2)
}

func TestExport_WritesRows(t *testing.T) {
	src := &mockSource{filters: itToDe(), entries: []entry.Entry{italianEntry(1, "mandato", "Auftrag")}}
	exp := &mockExporter{}

	path, d, err := New(nil, 10).Export(context.Background(), src, exp)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/termdat-it-to-de.tsv", path)
	assert.Equal(t, 1, exp.calls)
	assert.Equal(t, d.Rows, exp.rows)
}

func TestExport_EmptyDeckIsNoop(t *testing.T) {
	src := &mockSource{filters: itToDe()}
	exp := &mockExporter{}

	path, d, err := New(nil, 10).Export(context.Background(), src, exp)
	require.NoError(t, err)
	assert.Empty(t, path)
	assert.True(t, d.Empty())
	assert.Zero(t, exp.calls)
}

func TestExport_Errors(t *testing.T) {
	src := &mockSource{filters: itToDe(), err: domain.ErrUpstream}
	_, _, err := New(nil, 10).Export(context.Background(), src, &mockExporter{})
	assert.ErrorIs(t, err, domain.ErrUpstream)

	src = &mockSource{filters: itToDe(), entries: []entry.Entry{italianEntry(1, "a", "b")}}
	diskErr := errors.New("disk full")
	_, _, err = New(nil, 10).Export(context.Background(), src, &mockExporter{err: diskErr})
	assert.ErrorIs(t, err, diskErr)
}

func TestExportSelection(t *testing.T) {
	agg := &mockAggregator{result: search.Result{Entries: []entry.Entry{
		italianEntry(1, "a", "A"), italianEntry(2, "b", "B"),
	}}}
	exp := &mockExporter{}

	_, d, err := New(agg, 1).ExportSelection(context.Background(), itToDe(), exp)
	require.NoError(t, err)
	assert.Equal(t, 1, d.Entries)
	assert.Len(t, exp.rows, 1)
}

func TestBuildSelection_Error(t *testing.T) {
	agg := &mockAggregator{err: domain.ErrUpstream}
	_, err := New(agg, 1).BuildSelection(context.Background(), itToDe())
	assert.ErrorIs(t, err, domain.ErrUpstream)
}

type blockingPages struct {
	started chan struct{}
	release chan struct{}
}

func (p *blockingPages) PageSize() int { return 10 }

func (p *blockingPages) FetchSearchPage(
	_ context.Context, f filter.Filters, pageIndex, _ int,
) ([]entry.Entry, error) {
	if pageIndex > 1 {
		return nil, nil
	}
	if f.Source == domain.LanguageIT {
		close(p.started)
		<-p.release
		return []entry.Entry{italianEntry(1, "mandato", "Auftrag")}, nil
	}
	return []entry.Entry{{ID: 2, URL: "https://x/contrat", LanguageDetails: []entry.LanguageDetail{
		{LanguageCode: domain.LanguageFR, Terminus: "contrat"},
		{LanguageCode: domain.LanguageDE, Terminus: "Vertrag"},
	}}}, nil
}

func TestBuild_SourceChangedWhileWaiting(t *testing.T) {
	pages := &blockingPages{started: make(chan struct{}), release: make(chan struct{})}
	sess := session.New("export", search.New(pages), itToDe(), nil)
	defer sess.Close()
	<-pages.started

	type built struct {
		d   Deck
		err error
	}
	out := make(chan built, 1)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		d, err := New(nil, 0).Build(ctx, sess)
		out <- built{d, err}
	}()

	time.Sleep(20 * time.Millisecond)
	sess.SetSource(domain.LanguageFR)
	close(pages.release)

	got := <-out
	require.NoError(t, got.err)
	assert.Equal(t, "termdat-fr-to-de.tsv", got.d.FileName)
	require.Len(t, got.d.Rows, 1)
	assert.Equal(t, "contrat", got.d.Rows[0].Front)
	assert.Equal(t, "DE: Vertrag", got.d.Rows[0].Back)
}
