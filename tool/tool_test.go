package tool

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hupe1980/careermesh/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubTool struct {
	name   string
	result string
	err    error
}

func (s *stubTool) Name() string                { return s.name }
func (s *stubTool) Description() string         { return "stub" }
func (s *stubTool) Parameters() map[string]any  { return map[string]any{"type": "object"} }
func (s *stubTool) Call(context.Context, map[string]string) (string, error) {
	return s.result, s.err
}

func TestRouter_Invoke(t *testing.T) {
	r := NewRouter()
	r.Register(&stubTool{name: "echo", result: "hello"})

	got := r.Invoke(context.Background(), core.ToolCall{Name: "echo"})
	assert.Equal(t, "hello", got)
}

func TestRouter_InvokeUnknownToolFallsBack(t *testing.T) {
	r := NewRouter()

	got := r.Invoke(context.Background(), core.ToolCall{Name: "missing"})
	assert.Contains(t, got, "not available")
	assert.Contains(t, got, "internal knowledge")
}

func TestRouter_InvokeErrorNeverEscapes(t *testing.T) {
	r := NewRouter()
	r.Register(&stubTool{name: "flaky", err: errors.New("connection refused")})

	got := r.Invoke(context.Background(), core.ToolCall{Name: "flaky"})
	assert.Contains(t, got, "connection refused")
	assert.Contains(t, got, "internal knowledge")
}

func TestRouter_Definitions(t *testing.T) {
	r := NewRouter()
	r.Register(NewMarketSearch())

	defs := r.Definitions()
	require.Len(t, defs, 1)
	assert.Equal(t, "function", defs[0].Type)
	assert.Equal(t, MarketSearchName, defs[0].Function.Name)
	assert.NotEmpty(t, defs[0].Function.Description)
}

func TestMarketSearch_Call(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`
			<a class="result__a" href="#">Data Scientist Salaries 2026</a>
			<a class="result__snippet">Median salary is <b>$140k</b> &amp; rising.</a>
			<a class="result__a" href="#">Top Hiring Companies</a>
			<a class="result__snippet">Acme, Globex and Initech are hiring.</a>
		`))
	}))
	defer srv.Close()

	ms := NewMarketSearch(func(o *MarketSearchOptions) {
		o.Endpoint = srv.URL
		o.HTTPClient = srv.Client()
	})

	out, err := ms.Call(context.Background(), map[string]string{
		"role": "Data Scientist", "location": "Remote",
	})
	require.NoError(t, err)
	assert.Contains(t, out, "Title: Data Scientist Salaries 2026")
	assert.Contains(t, out, "Median salary is $140k & rising.")
	assert.Contains(t, out, "Top Hiring Companies")
}

func TestMarketSearch_NoResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html><body>no results markup</body></html>"))
	}))
	defer srv.Close()

	ms := NewMarketSearch(func(o *MarketSearchOptions) {
		o.Endpoint = srv.URL
		o.HTTPClient = srv.Client()
	})

	out, err := ms.Call(context.Background(), map[string]string{"role": "SRE", "location": "EU"})
	require.NoError(t, err)
	assert.Contains(t, out, "No recent search results")
}

func TestMarketSearch_ServerErrorSurfacesToRouterFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	ms := NewMarketSearch(func(o *MarketSearchOptions) {
		o.Endpoint = srv.URL
		o.HTTPClient = srv.Client()
	})

	r := NewRouter()
	r.Register(ms)

	got := r.Invoke(context.Background(), core.ToolCall{
		Name:      MarketSearchName,
		Arguments: map[string]string{"role": "SRE", "location": "EU"},
	})
	assert.Contains(t, got, "internal knowledge")
}
