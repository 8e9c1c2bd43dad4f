package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bananas-dict/bananas/internal/dataset"
	"github.com/bananas-dict/bananas/internal/lexicon"
	"github.com/bananas-dict/bananas/internal/wordstore"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var editions = []lexicon.Edition{
	{ID: "nwl2020", Column: "in_nwl_20", Name: "NASPA Word List (2020)"},
	{ID: "nwl2023", Column: "in_nwl_23", Name: "NASPA Word List (2023)"},
}

func newTestStore(t *testing.T) *wordstore.Store {
	t.Helper()

	path := filepath.Join(t.TempDir(), "words.sqlite")
	senses := []dataset.Sense{
		{Word: "ka", Definition: "informal exclamation", Pos: "interj", Edition: "nwl2020"},
		{Word: "za", Definition: "pizza", Pos: "n", Edition: "nwl2020"},
		{Word: "za", Definition: "pizza", Pos: "n", Edition: "nwl2023"},
		{Word: "cat", Definition: "a small carnivorous mammal", Pos: "n", Edition: "nwl2023"},
	}
	_, err := dataset.Build(path, editions, senses, dataset.BuildOptions{})
	require.NoError(t, err)

	store, err := wordstore.Open(path, editions)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func newTestServer(t *testing.T, dict Dictionary) (*httptest.Server, *prometheus.Registry) {
	t.Helper()

	reg := prometheus.NewRegistry()
	srv := httptest.NewServer(NewServer(dict, WithRegistry(reg)).Handler())
	t.Cleanup(srv.Close)
	return srv, reg
}

func get(t *testing.T, url string, out any) *http.Response {
	t.Helper()

	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

type wordBody struct {
	Name        string               `json:"name"`
	Editions    []lexicon.Membership `json:"editions"`
	Definitions []lexicon.Definition `json:"definitions"`
	Found       bool                 `json:"found"`
}

func TestGetWord_Found(t *testing.T) {
	srv, _ := newTestServer(t, newTestStore(t))

	var body wordBody
	resp := get(t, srv.URL+"/words/ka", &body)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	assert.True(t, body.Found)
	assert.Equal(t, "ka", body.Name)
	assert.Equal(t, []lexicon.Membership{
		{Edition: "nwl2020", Present: true},
		{Edition: "nwl2023", Present: false},
	}, body.Editions)
	require.Len(t, body.Definitions, 1)
	assert.Equal(t, "informal exclamation", body.Definitions[0].Text)
	assert.Equal(t, "interjection", body.Definitions[0].PartOfSpeech)
}

func TestGetWord_MissingReturnsStub(t *testing.T) {
	srv, _ := newTestServer(t, newTestStore(t))

	var body wordBody
	resp := get(t, srv.URL+"/words/zzzz", &body)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.False(t, body.Found)
	assert.Equal(t, "zzzz", body.Name)
	assert.Empty(t, body.Definitions)
	for _, m := range body.Editions {
		assert.False(t, m.Present)
	}
}

func TestWordExists(t *testing.T) {
	srv, _ := newTestServer(t, newTestStore(t))

	tests := map[string]bool{
		"za":   true,
		"cat":  true,
		"ZA":   false,
		"zzzz": false,
	}
	for name, want := range tests {
		var body existsResponse
		resp := get(t, srv.URL+"/words/"+name+"/exists", &body)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, name, body.Name)
		assert.Equal(t, want, body.Exists, "exists(%q)", name)
	}
}

func TestRandomWord(t *testing.T) {
	srv, _ := newTestServer(t, newTestStore(t))

	t.Run("default length", func(t *testing.T) {
		var body wordBody
		resp := get(t, srv.URL+"/random", &body)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, []string{"ka", "za"}, body.Name)
		assert.True(t, body.Found)
	})

	t.Run("explicit length", func(t *testing.T) {
		var body wordBody
		resp := get(t, srv.URL+"/random?length=3", &body)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "cat", body.Name)
	})

	t.Run("no words of length", func(t *testing.T) {
		var body errorResponse
		resp := get(t, srv.URL+"/random?length=9", &body)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Contains(t, body.Error, "no words")
	})

	t.Run("bad length", func(t *testing.T) {
		var body errorResponse
		resp := get(t, srv.URL+"/random?length=two", &body)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.NotEmpty(t, body.Error)
	})
}

func TestListEditions(t *testing.T) {
	srv, _ := newTestServer(t, newTestStore(t))

	var body []map[string]any
	resp := get(t, srv.URL+"/editions", &body)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, body, 2)
	assert.Equal(t, "nwl2020", body[0]["id"])
	assert.NotContains(t, body[0], "column")
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t, newTestStore(t))

	var body map[string]string
	resp := get(t, srv.URL+"/healthz", &body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body["status"])
}

func TestMetrics(t *testing.T) {
	srv, reg := newTestServer(t, newTestStore(t))

	get(t, srv.URL+"/words/ka", nil)
	get(t, srv.URL+"/words/zzzz", nil)
	get(t, srv.URL+"/words/zzzz/exists", nil)

	families, err := reg.Gather()
	require.NoError(t, err)

	lookups := map[string]float64{}
	var routes []string
	for _, f := range families {
		switch f.GetName() {
		case "bananas_lookups_total":
			for _, m := range f.GetMetric() {
				lookups[m.GetLabel()[0].GetValue()] = m.GetCounter().GetValue()
			}
		case "bananas_http_request_duration_seconds":
			for _, m := range f.GetMetric() {
				routes = append(routes, m.GetLabel()[0].GetValue())
			}
		}
	}
	assert.Equal(t, map[string]float64{"found": 1, "missing": 2}, lookups)
	assert.Contains(t, routes, "/words/{name}")
	assert.Contains(t, routes, "/words/{name}/exists")

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestCORS(t *testing.T) {
	srv := httptest.NewServer(NewServer(newTestStore(t), WithAllowedOrigins([]string{"https://example.org"})).Handler())
	defer srv.Close()

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/healthz", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "https://example.org")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "https://example.org", resp.Header.Get("Access-Control-Allow-Origin"))

	req.Header.Set("Origin", "https://evil.example")
	resp2, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp2.Body.Close()
	assert.Empty(t, resp2.Header.Get("Access-Control-Allow-Origin"))
}

type failingDict struct{}

func (failingDict) Exists(string) (bool, error) { return false, errors.New("disk gone") }
func (failingDict) Lookup(string) (lexicon.Word, error) { return lexicon.Word{}, errors.New("disk gone") }
func (failingDict) Sample(int) (lexicon.Word, error) { return lexicon.Word{}, errors.New("disk gone") }
func (failingDict) Editions() []lexicon.Edition { return nil }

func TestStoreErrorsAre500(t *testing.T) {
	srv, _ := newTestServer(t, failingDict{})

	for _, path := range []string{"/words/ka", "/words/ka/exists", "/random"} {
		var body errorResponse
		resp := get(t, srv.URL+path, &body)
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode, path)
		assert.Equal(t, "internal error", body.Error)
		assert.False(t, strings.Contains(body.Error, "disk"))
	}
}

type bareDict struct{}

func (bareDict) Exists(name string) (bool, error) { return name == "zo", nil }
func (bareDict) Lookup(name string) (lexicon.Word, error) {
	if name == "zo" {
		return lexicon.NewWord("zo", "", editions, []bool{false, false}, nil), nil
	}
	return lexicon.Stub(name, editions), nil
}
func (bareDict) Sample(int) (lexicon.Word, error) { return lexicon.Word{}, wordstore.ErrNoWordsOfLength }
func (bareDict) Editions() []lexicon.Edition { return editions }

func TestGetWord_StoredRowWithoutContent(t *testing.T) {
	srv, reg := newTestServer(t, bareDict{})

	var body wordBody
	resp := get(t, srv.URL+"/words/zo", &body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, body.Found)
	assert.Empty(t, body.Definitions)

	families, err := reg.Gather()
	require.NoError(t, err)
	for _, f := range families {
		if f.GetName() != "bananas_lookups_total" {
			continue
		}
		require.Len(t, f.GetMetric(), 1)
		assert.Equal(t, "found", f.GetMetric()[0].GetLabel()[0].GetValue())
	}
}

func TestWriteJSON_LogsEncodeError(t *testing.T) {
	var buf bytes.Buffer
	s := NewServer(bareDict{}, WithLogger(slog.New(slog.NewTextHandler(&buf, nil))))

	rec := httptest.NewRecorder()
	s.writeJSON(rec, http.StatusOK, map[string]any{"c": make(chan int)})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, buf.String(), "writing response")
	assert.Contains(t, buf.String(), "unsupported type")
}
