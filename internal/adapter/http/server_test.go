package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"

	httpadapter "github.com/couchcryptid/festival-guide/internal/adapter/http"
	"github.com/couchcryptid/festival-guide/internal/catalog"
	"github.com/couchcryptid/festival-guide/internal/domain"
	"github.com/couchcryptid/festival-guide/internal/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSource struct {
	fail  atomic.Bool
	calls atomic.Int64
}

func (s *stubSource) Load(context.Context) (domain.Table, error) {
	s.calls.Add(1)
	if s.fail.Load() {
		return domain.Table{}, errors.New("file locked")
	}
	return domain.Table{
		Headers: []string{
			domain.ColumnName, domain.ColumnRegion, domain.ColumnVenue,
			domain.ColumnCategory, domain.ColumnMonth, domain.ColumnVisitors,
		},
		Rows: [][]string{
			{"Fest A", "서울", "광화문광장", "문화예술", "10", "1,200"},
			{"Fest B", "부산", "해운대", "주민화합", "10", "미집계"},
			{"Fest C", "서울", "여의도", "자연생태", "4", "500"},
		},
	}, nil
}

var defaults = httpadapter.Defaults{Month: 10, RankingLimit: 10, SeasonalLimit: 3}

func newTestServer(t *testing.T, src *stubSource) (*httpadapter.Server, *catalog.Catalog) {
	t.Helper()
	cat := catalog.New(src, catalog.Options{SourceName: "test.csv"}, slog.Default(), observability.NewMetricsForTesting())
	return httpadapter.NewServer(":0", cat, defaults, slog.Default()), cat
}

// newLoadedServer is newTestServer with the first snapshot already loaded,
// as Run does before the service turns ready.
func newLoadedServer(t *testing.T, src *stubSource) *httpadapter.Server {
	t.Helper()
	srv, cat := newTestServer(t, src)
	_, err := cat.Reload(context.Background())
	require.NoError(t, err)
	return srv
}

func do(srv http.Handler, method, target, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	srv.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

type festivalsBody struct {
	Criteria  domain.Criteria   `json:"criteria"`
	Count     int               `json:"count"`
	Festivals []domain.Festival `json:"festivals"`
}

func festivalNames(fs []domain.Festival) []string {
	out := make([]string, 0, len(fs))
	for _, f := range fs {
		out = append(out, f.Name)
	}
	return out
}

func TestHealthzReturns200(t *testing.T) {
	srv, _ := newTestServer(t, &stubSource{})
	rec := do(srv, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReadyzFollowsCatalog(t *testing.T) {
	srv, cat := newTestServer(t, &stubSource{})

	assert.Equal(t, http.StatusServiceUnavailable, do(srv, http.MethodGet, "/readyz", "").Code)

	_, err := cat.Reload(context.Background())
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, do(srv, http.MethodGet, "/readyz", "").Code)
}

func TestMetricsEndpoint(t *testing.T) {
	srv, _ := newTestServer(t, &stubSource{})
	rec := do(srv, http.MethodGet, "/metrics", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestFestivals_DefaultMonth(t *testing.T) {
	srv := newLoadedServer(t, &stubSource{})
	rec := do(srv, http.MethodGet, "/api/festivals", "")

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[festivalsBody](t, rec)
	assert.Equal(t, 10, body.Criteria.Month)
	assert.Equal(t, domain.AllOption, body.Criteria.Region)
	assert.Equal(t, 2, body.Count)
	assert.Equal(t, []string{"Fest A", "Fest B"}, festivalNames(body.Festivals))
}

func TestFestivals_Filters(t *testing.T) {
	srv := newLoadedServer(t, &stubSource{})

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"region", "?month=10&region=" + url.QueryEscape("서울"), []string{"Fest A"}},
		{"spring", "?month=4", []string{"Fest C"}},
		{"category", "?month=10&category=" + url.QueryEscape("주민화합"), []string{"Fest B"}},
		{"category all", "?month=10&category=" + url.QueryEscape("문화예술") + "&category=All", []string{"Fest A", "Fest B"}},
		{"no match", "?month=7", []string{}},
		{"prefix is not equality", "?month=10&region=" + url.QueryEscape("서"), []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(srv, http.MethodGet, "/api/festivals"+tt.query, "")
			require.Equal(t, http.StatusOK, rec.Code)
			body := decode[festivalsBody](t, rec)
			assert.Equal(t, tt.want, festivalNames(body.Festivals))
		})
	}
}

func TestFestivals_BadMonth(t *testing.T) {
	srv := newLoadedServer(t, &stubSource{})

	for _, q := range []string{"?month=13", "?month=0", "?month=october"} {
		rec := do(srv, http.MethodGet, "/api/festivals"+q, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, q)
		assert.Contains(t, decode[map[string]string](t, rec), "error")
	}
}

func TestAPI_NotLoadedIs503WithoutReadingSource(t *testing.T) {
	src := &stubSource{}
	srv, _ := newTestServer(t, src)

	for _, target := range []string{
		"/api/festivals", "/api/ranking", "/api/seasonal",
		"/api/regions", "/api/categories", "/api/snapshot",
	} {
		rec := do(srv, http.MethodGet, target, "")
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code, target)
	}
	assert.Equal(t, int64(0), src.calls.Load(), "reads must not load the source")
}

func TestFestivals_FailedReloadIs503UntilLoaded(t *testing.T) {
	src := &stubSource{}
	src.fail.Store(true)
	srv, cat := newTestServer(t, src)

	_, err := cat.Reload(context.Background())
	require.Error(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, do(srv, http.MethodGet, "/api/festivals", "").Code)

	src.fail.Store(false)
	_, err = cat.Reload(context.Background())
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, do(srv, http.MethodGet, "/api/festivals", "").Code)
}

func TestRanking(t *testing.T) {
	srv := newLoadedServer(t, &stubSource{})

	rec := do(srv, http.MethodGet, "/api/ranking", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[struct {
		Festivals []domain.Festival `json:"festivals"`
	}](t, rec)
	assert.Equal(t, []string{"Fest A", "Fest C"}, festivalNames(body.Festivals))

	rec = do(srv, http.MethodGet, "/api/ranking?limit=1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[struct {
		Festivals []domain.Festival `json:"festivals"`
	}](t, rec).Festivals, 1)

	assert.Equal(t, http.StatusBadRequest, do(srv, http.MethodGet, "/api/ranking?limit=-2", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(srv, http.MethodGet, "/api/ranking?limit=many", "").Code)
}

func TestSeasonal(t *testing.T) {
	srv := newLoadedServer(t, &stubSource{})

	rec := do(srv, http.MethodGet, "/api/seasonal?limit=1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body []struct {
		Season    string            `json:"season"`
		Months    [3]int            `json:"months"`
		Festivals []domain.Festival `json:"festivals"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body, 4)
	assert.Equal(t, [3]int{3, 4, 5}, body[0].Months)
	assert.Equal(t, []string{"Fest C"}, festivalNames(body[0].Festivals))
	assert.Empty(t, body[1].Festivals)
	assert.Equal(t, []string{"Fest A"}, festivalNames(body[2].Festivals))
}

func TestOptions(t *testing.T) {
	srv := newLoadedServer(t, &stubSource{})

	regions := decode[map[string][]string](t, do(srv, http.MethodGet, "/api/regions", ""))
	assert.Equal(t, []string{domain.AllOption, "부산", "서울"}, regions["options"])

	cats := decode[map[string][]string](t, do(srv, http.MethodGet, "/api/categories", ""))
	assert.Equal(t, []string{domain.AllOption, "문화예술", "주민화합", "자연생태"}, cats["options"])
}

func TestChat(t *testing.T) {
	srv := newLoadedServer(t, &stubSource{})

	rec := do(srv, http.MethodPost, "/api/chat", `{"prompt":"Any good FOOD festivals?"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[map[string]string](t, rec)
	assert.Equal(t, string(domain.TopicFood), body["topic"])
	assert.NotEmpty(t, body["reply"])

	assert.Equal(t, http.StatusBadRequest, do(srv, http.MethodPost, "/api/chat", `{"prompt":"  "}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(srv, http.MethodPost, "/api/chat", `not json`).Code)
}

func TestSnapshotAndReload(t *testing.T) {
	src := &stubSource{}
	srv, _ := newTestServer(t, src)

	assert.Equal(t, http.StatusServiceUnavailable, do(srv, http.MethodGet, "/api/snapshot", "").Code)

	rec := do(srv, http.MethodPost, "/api/reload", "")
	require.Equal(t, http.StatusOK, rec.Code)
	first := decode[catalog.Meta](t, rec)
	assert.Equal(t, uint64(1), first.Generation)
	assert.Equal(t, 3, first.Rows)

	rec = do(srv, http.MethodGet, "/api/snapshot", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, first.ID, decode[catalog.Meta](t, rec).ID)

	src.fail.Store(true)
	assert.Equal(t, http.StatusInternalServerError, do(srv, http.MethodPost, "/api/reload", "").Code)

	rec = do(srv, http.MethodGet, "/api/snapshot", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, first.ID, decode[catalog.Meta](t, rec).ID)
}
