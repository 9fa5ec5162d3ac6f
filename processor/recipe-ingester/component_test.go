package recipeingester

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/c360studio/semstreams/component"
	"github.com/c360studio/semstreams/metric"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/semrecipe/source"
	"github.com/c360studio/semrecipe/source/dereference"
)

type fakeImporter struct {
	result  *source.ImportResult
	err     error
	gotReq  source.ImportRequest
	gotDocs []*dereference.Document
}

func (f *fakeImporter) Import(_ context.Context, req source.ImportRequest) (*source.ImportResult, error) {
	f.gotReq = req
	return f.result, f.err
}

func (f *fakeImporter) ImportDocument(_ context.Context, doc *dereference.Document, req source.ImportRequest) (*source.ImportResult, error) {
	f.gotReq = req
	f.gotDocs = append(f.gotDocs, doc)
	if f.err != nil {
		return nil, f.err
	}
	return &source.ImportResult{
		URL:      req.URL,
		Status:   source.StatusImported,
		Recipes:  doc.Recipes(),
		DraftIDs: []string{"draft:1"},
	}, nil
}

type published struct {
	subject string
	data    []byte
}

type fakeResults struct {
	msgs []published
}

func (f *fakeResults) Publish(_ context.Context, subject string, data []byte) error {
	f.msgs = append(f.msgs, published{subject: subject, data: data})
	return nil
}

func newTestComponent(t *testing.T, imp recipeImporter) (*Component, *fakeResults) {
	t.Helper()
	results := &fakeResults{}
	return &Component{
		name:     "recipe-ingester",
		config:   DefaultConfig(),
		logger:   quietLogger(),
		deref:    dereference.New(nil),
		importer: imp,
		results:  results,
	}, results
}

func decodeResult(t *testing.T, data []byte) source.ImportResult {
	t.Helper()
	var msg struct {
		Type    struct{ Domain, Category string } `json:"type"`
		Payload source.ImportResult               `json:"payload"`
	}
	require.NoError(t, json.Unmarshal(data, &msg))
	assert.Equal(t, "recipe", msg.Type.Domain)
	assert.Equal(t, "import_result", msg.Type.Category)
	return msg.Payload
}

func TestNewComponent(t *testing.T) {
	raw := json.RawMessage(`{"stream_name": "KITCHEN", "watch": {"debounce_delay": "1s"}}`)
	d, err := NewComponent(raw, component.Dependencies{Logger: quietLogger()})
	require.NoError(t, err)

	c := d.(*Component)
	assert.Equal(t, "KITCHEN", c.config.StreamName)
	assert.Equal(t, "recipe-ingester", c.config.ConsumerName)
	assert.Equal(t, "recipe-ingester", c.Meta().Name)
	assert.Len(t, c.InputPorts(), 1)
	assert.Len(t, c.OutputPorts(), 2)
	assert.False(t, c.Health().Healthy)
}

func TestNewComponentInvalidConfig(t *testing.T) {
	_, err := NewComponent(json.RawMessage(`{"max_redirects": -2}`), component.Dependencies{})
	assert.Error(t, err)

	_, err = NewComponent(json.RawMessage(`{`), component.Dependencies{})
	assert.Error(t, err)
}

func TestStartRequiresNATS(t *testing.T) {
	d, err := NewComponent(json.RawMessage(`{}`), component.Dependencies{Logger: quietLogger()})
	require.NoError(t, err)
	assert.Error(t, d.(*Component).Start(context.Background()))
	assert.NoError(t, d.(*Component).Stop(time.Second))
}

func TestProcessImported(t *testing.T) {
	imp := &fakeImporter{result: &source.ImportResult{
		RequestID: "req-1",
		URL:       "https://example.com/soup",
		Status:    source.StatusImported,
		DraftIDs:  []string{"draft:a"},
	}}
	c, results := newTestComponent(t, imp)

	got := c.process(context.Background(), []byte(`{"url": "https://example.com/soup", "owner": "ada", "request_id": "req-1"}`))
	assert.Equal(t, dispositionAck, got)
	assert.Equal(t, "ada", imp.gotReq.Owner)

	require.Len(t, results.msgs, 1)
	assert.Equal(t, "recipe.result.req-1", results.msgs[0].subject)
	result := decodeResult(t, results.msgs[0].data)
	assert.Equal(t, []string{"draft:a"}, result.DraftIDs)
	assert.Equal(t, int64(1), c.pagesImported.Load())
}

func TestProcessEmptyPage(t *testing.T) {
	imp := &fakeImporter{result: &source.ImportResult{
		URL:     "https://example.com/blog",
		Status:  source.StatusEmpty,
		Message: source.NoRecipesMessage("https://example.com/blog"),
	}}
	c, results := newTestComponent(t, imp)

	assert.Equal(t, dispositionAck, c.process(context.Background(), []byte(`{"url": "https://example.com/blog"}`)))
	require.Len(t, results.msgs, 1)
	assert.Equal(t, "recipe.result.anonymous", results.msgs[0].subject)
	assert.Equal(t, "Found no recipes in https://example.com/blog.", decodeResult(t, results.msgs[0].data).Message)
	assert.Equal(t, int64(1), c.emptyPages.Load())
}

func TestProcessFailures(t *testing.T) {
	tests := []struct {
		name        string
		data        string
		importErr   error
		want        disposition
		wantResults int
	}{
		{name: "malformed json", data: `{`, want: dispositionTerm},
		{name: "unsafe url", data: `{"url": "http://example.com/soup"}`, want: dispositionTerm, wantResults: 1},
		{name: "fetch failure", data: `{"url": "https://example.com/soup"}`, importErr: errors.New("timeout"), want: dispositionNak},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, results := newTestComponent(t, &fakeImporter{err: tt.importErr})
			assert.Equal(t, tt.want, c.process(context.Background(), []byte(tt.data)))
			assert.Len(t, results.msgs, tt.wantResults)
			assert.Equal(t, int64(1), c.errors.Load())
		})
	}
}

func TestHandleInboxFile(t *testing.T) {
	imp := &fakeImporter{}
	c, results := newTestComponent(t, imp)
	c.config.Watch.Owner = "inbox-owner"

	path := filepath.Join(t.TempDir(), "saved soup.html")
	c.handleInboxFile(context.Background(), InboxFile{Path: path, ContentType: "text/html", Data: []byte(savedPage)})

	require.Len(t, imp.gotDocs, 1)
	assert.True(t, strings.HasPrefix(imp.gotReq.URL, "file:///"), imp.gotReq.URL)
	assert.Equal(t, "inbox-owner", imp.gotReq.Owner)
	assert.Equal(t, "inbox-saved-soup-html", imp.gotReq.RequestID)

	recipes := imp.gotDocs[0].Recipes()
	require.Len(t, recipes, 1)
	assert.Equal(t, "Saved Soup", recipes[0].Name)

	require.Len(t, results.msgs, 1)
	assert.Equal(t, "recipe.result.inbox-saved-soup-html", results.msgs[0].subject)
}

func TestHandleInboxFileParseError(t *testing.T) {
	imp := &fakeImporter{}
	c, results := newTestComponent(t, imp)

	c.handleInboxFile(context.Background(), InboxFile{Path: "/inbox/x.nq", ContentType: "application/n-quads", Data: []byte("not a quad\n")})
	assert.Empty(t, imp.gotDocs)
	assert.Empty(t, results.msgs)
	assert.Equal(t, int64(1), c.errors.Load())
}

func TestIngesterMetrics(t *testing.T) {
	m, err := newIngesterMetrics(metric.NewMetricsRegistry())
	require.NoError(t, err)

	m.observe(source.StatusImported, 2, 150*time.Millisecond)
	m.observe(source.StatusEmpty, 0, 50*time.Millisecond)
	m.observe(source.StatusImported, 1, time.Second)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.imports.WithLabelValues("imported")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.imports.WithLabelValues("empty")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.recipes))

	var none *ingesterMetrics
	none.observe(source.StatusFailed, 0, time.Second)

	nilRegistry, err := newIngesterMetrics(nil)
	require.NoError(t, err)
	assert.Nil(t, nilRegistry)
}

func TestSubjectToken(t *testing.T) {
	tests := map[string]string{
		"req-1":       "req-1",
		"":            "anonymous",
		"a.b c>*":     "a-b-c--",
		"import_2026": "import_2026",
	}
	for in, want := range tests {
		assert.Equal(t, want, subjectToken(in), in)
	}
}

func TestDataFlow(t *testing.T) {
	c, _ := newTestComponent(t, &fakeImporter{})
	c.startTime = time.Now().Add(-10 * time.Second)
	c.pagesImported.Store(3)
	c.errors.Store(1)
	c.updateLastActivity()

	flow := c.DataFlow()
	assert.InDelta(t, 0.3, flow.MessagesPerSecond, 0.05)
	assert.InDelta(t, 0.25, flow.ErrorRate, 0.001)
	assert.False(t, flow.LastActivity.IsZero())
}
