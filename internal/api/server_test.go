package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramonehamilton/draftpool/internal/api/handlers"
	"github.com/ramonehamilton/draftpool/internal/api/response"
	"github.com/ramonehamilton/draftpool/internal/catalog"
	"github.com/ramonehamilton/draftpool/internal/catalog/catalogtest"
	"github.com/ramonehamilton/draftpool/internal/metrics"
	"github.com/ramonehamilton/draftpool/internal/pool"
)

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()

	abc := catalogtest.Plain("ABC", 30, 10, 5, 2)
	abc.Spells[catalog.Basic] = 5
	old := catalogtest.Plain("OLD", 20, 5, 3, 0)
	old.ReleaseDate = "1998-01-01"
	old.Type = "core"
	promo := catalogtest.Plain("PRM", 0, 0, 3, 0)
	promo.Type = "promo"

	return catalogtest.New(t, abc, old, promo, catalogtest.SlotSet("SLT", 3))
}

func newTestServer(t *testing.T, cat *catalog.Catalog, modify ...func(*Config)) *Server {
	t.Helper()
	cfg := DefaultConfig()
	cfg.RateLimit = 0
	for _, m := range modify {
		m(cfg)
	}
	return NewServer(cfg, catalog.NewStore(cat))
}

func do(t *testing.T, s *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	envelope := struct {
		Data json.RawMessage `json:"data"`
	}{}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&envelope))
	require.NoError(t, json.Unmarshal(envelope.Data, v))
}

func TestNewServer_NilConfig(t *testing.T) {
	server := NewServer(nil, catalog.NewStore(nil))
	if server.Port() != 8080 {
		t.Errorf("Expected default port 8080, got %d", server.Port())
	}
}

func TestHealthCheck(t *testing.T) {
	t.Run("loaded", func(t *testing.T) {
		rec := do(t, newTestServer(t, testCatalog(t)), http.MethodGet, "/health", "")
		require.Equal(t, http.StatusOK, rec.Code)

		var body healthStatus
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		assert.Equal(t, "healthy", body.Status)
		require.NotNil(t, body.Catalog)
		assert.Equal(t, 4, body.Catalog.Sets)
	})

	t.Run("no catalog", func(t *testing.T) {
		rec := do(t, newTestServer(t, nil), http.MethodGet, "/health", "")
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}

func TestListSets(t *testing.T) {
	s := newTestServer(t, testCatalog(t))

	tests := []struct {
		query string
		want  []string
	}{
		{"", []string{"OLD", "ABC", "SLT"}},
		{"?modern=true", []string{"ABC", "SLT"}},
		{"?all=true", []string{"OLD", "ABC", "PRM", "SLT"}},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			rec := do(t, s, http.MethodGet, "/api/v1/sets"+tt.query, "")
			require.Equal(t, http.StatusOK, rec.Code)

			var sets []handlers.SetSummary
			decodeData(t, rec, &sets)
			codes := make([]string, 0, len(sets))
			for _, set := range sets {
				codes = append(codes, set.Code)
			}
			assert.Equal(t, tt.want, codes)
		})
	}

	rec := do(t, s, http.MethodGet, "/api/v1/sets?modern=maybe", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetSet(t *testing.T) {
	s := newTestServer(t, testCatalog(t))

	rec := do(t, s, http.MethodGet, "/api/v1/sets/abc", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var set handlers.SetSummary
	decodeData(t, rec, &set)
	assert.Equal(t, "ABC", set.Code)
	assert.Equal(t, 52, set.Cards)
	assert.Equal(t, 30, set.Rarities[catalog.Common])
	assert.Equal(t, "2020-01-01", set.ReleaseDate)

	rec = do(t, s, http.MethodGet, "/api/v1/sets/ZZZ", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetCard(t *testing.T) {
	cat := testCatalog(t)
	s := newTestServer(t, cat)

	want, err := cat.CardByName("ABC Instant Rare 1")
	require.NoError(t, err)

	rec := do(t, s, http.MethodGet, "/api/v1/cards/"+want.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var card catalog.Card
	decodeData(t, rec, &card)
	assert.Equal(t, want.Name, card.Name)
	assert.Equal(t, catalog.Rare, card.Rarity)

	rec = do(t, s, http.MethodGet, "/api/v1/cards/name/"+url.PathEscape("abc instant rare 1"), "")
	require.Equal(t, http.StatusOK, rec.Code)
	decodeData(t, rec, &card)
	assert.Equal(t, want.ID, card.ID)

	rec = do(t, s, http.MethodGet, "/api/v1/cards/not-a-card", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = do(t, s, http.MethodGet, "/api/v1/cards/name/Black%20Lotus", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGeneratePool(t *testing.T) {
	s := newTestServer(t, testCatalog(t))

	rec := do(t, s, http.MethodPost, "/api/v1/pools",
		`{"type":"draft","mode":"normal","players":2,"sets":["ABC","ABC"]}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var generated pool.Pool
	decodeData(t, rec, &generated)
	require.Len(t, generated, 2)
	for _, packs := range generated {
		require.Len(t, packs, 2)
		for _, pack := range packs {
			assert.Len(t, pack, 15)
			for _, card := range pack {
				assert.NotEmpty(t, card.InstanceID)
				assert.Equal(t, "ABC", card.SetCode)
			}
		}
	}
}

func TestGeneratePool_CubeText(t *testing.T) {
	s := newTestServer(t, testCatalog(t))

	body, err := json.Marshal(map[string]interface{}{
		"type":     "sealed",
		"mode":     "cube",
		"players":  2,
		"packSize": 5,
		"cubeText": "# tiny cube\n5 ABC Instant Common 1\n5x ABC Instant Common 2\n",
	})
	require.NoError(t, err)

	rec := do(t, s, http.MethodPost, "/api/v1/pools", string(body))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var generated pool.Pool
	decodeData(t, rec, &generated)
	require.Len(t, generated, 2)
	assert.Len(t, generated[0][0], 5)
	assert.Len(t, generated[1][0], 5)
}

func TestGeneratePool_Errors(t *testing.T) {
	s := newTestServer(t, testCatalog(t))

	tests := []struct {
		name string
		body string
		want int
	}{
		{"malformed json", `{"type":`, http.StatusBadRequest},
		{"no players", `{"type":"draft","mode":"normal","sets":["ABC"]}`, http.StatusBadRequest},
		{"unknown set", `{"type":"draft","mode":"normal","players":2,"sets":["ZZZ"]}`, http.StatusBadRequest},
		{"unknown cube card", `{"type":"sealed","mode":"cube","players":1,"packSize":1,"cubeList":["Black Lotus"]}`, http.StatusBadRequest},
		{"cube too small", `{"type":"draft","mode":"cube","players":8,"cubeList":["ABC Instant Common 1"]}`, http.StatusBadRequest},
		{"empty cube text", `{"type":"draft","mode":"cube","players":2,"cubeText":"# nothing"}`, http.StatusBadRequest},
		{"cube text copies over cap", `{"type":"sealed","mode":"cube","players":1,"packSize":1,"cubeText":"101 Forest"}`, http.StatusBadRequest},
		{"cube text quantity overflow", `{"type":"sealed","mode":"cube","players":1,"packSize":1,"cubeText":"99999999999999999999 Forest"}`, http.StatusBadRequest},
		{"too many packs", `{"type":"draft","mode":"chaos","players":2,"packsNumber":4611686018427387904}`, http.StatusBadRequest},
		{"missing slot category", `{"type":"draft","mode":"slot","players":2,"sets":["ABC"]}`, http.StatusUnprocessableEntity},
		{"booster without commons", `{"type":"draft","mode":"normal","players":2,"sets":["PRM"]}`, http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, http.MethodPost, "/api/v1/pools", tt.body)
			require.Equal(t, tt.want, rec.Code, rec.Body.String())

			var body response.ErrorResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.Equal(t, tt.want, body.Code)
			assert.NotEmpty(t, body.Message)
			assert.NotEmpty(t, body.RequestID)
		})
	}
}

func TestGeneratePool_NoCatalog(t *testing.T) {
	s := newTestServer(t, nil)

	rec := do(t, s, http.MethodPost, "/api/v1/pools", `{"type":"draft","mode":"chaos","players":2}`)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestGeneratePool_RequiresJSON(t *testing.T) {
	s := newTestServer(t, testCatalog(t))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/pools", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "text/plain")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}

func TestServer_StartShutdown(t *testing.T) {
	s := newTestServer(t, testCatalog(t), func(c *Config) { c.Port = 0 })
	require.NoError(t, s.Start())
	require.NotZero(t, s.Port())

	resp, err := http.Get(fmt.Sprintf("http://127.0.0.1:%d/health", s.Port()))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	assert.NoError(t, s.Shutdown(ctx))
}

func TestGeneratePool_MaxPlayers(t *testing.T) {
	s := newTestServer(t, testCatalog(t), func(c *Config) {
		c.PoolDefaults.MaxPlayers = 4
	})

	rec := do(t, s, http.MethodPost, "/api/v1/pools", `{"type":"draft","mode":"chaos","players":5}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPoolMetrics(t *testing.T) {
	m := metrics.NewPoolMetrics()
	s := newTestServer(t, testCatalog(t), func(c *Config) {
		c.Metrics = m
	})

	rec := do(t, s, http.MethodPost, "/api/v1/pools",
		`{"type":"draft","mode":"normal","players":2,"sets":["ABC","ABC"]}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	rec = do(t, s, http.MethodPost, "/api/v1/pools",
		`{"type":"draft","mode":"normal","players":2,"sets":["ZZZ"]}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s, http.MethodGet, "/api/v1/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var stats metrics.PoolStats
	decodeData(t, rec, &stats)
	assert.Equal(t, uint64(1), stats.Generated)
	assert.Equal(t, uint64(1), stats.Failed)
	assert.Equal(t, uint64(60), stats.CardsDealt)
	assert.Equal(t, map[string]uint64{"draft/normal": 1}, stats.ByKind)
	assert.Equal(t, 1, stats.Latency.Count)
}

func TestRateLimit(t *testing.T) {
	s := newTestServer(t, testCatalog(t), func(c *Config) {
		c.RateLimit = 1
		c.RateBurst = 2
	})

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		codes = append(codes, do(t, s, http.MethodGet, "/api/v1/sets", "").Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestRateLimit_ProxyHeaders(t *testing.T) {
	spoofed := func(s *Server, n int) []int {
		codes := make([]int, 0, n)
		for i := 0; i < n; i++ {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/sets", nil)
			req.Header.Set("X-Forwarded-For", fmt.Sprintf("203.0.113.%d", i+1))
			rec := httptest.NewRecorder()
			s.Handler().ServeHTTP(rec, req)
			codes = append(codes, rec.Code)
		}
		return codes
	}
	limited := func(trust bool) func(*Config) {
		return func(c *Config) {
			c.RateLimit = 1
			c.RateBurst = 1
			c.TrustProxyHeaders = trust
		}
	}

	t.Run("ignored by default", func(t *testing.T) {
		s := newTestServer(t, testCatalog(t), limited(false))
		assert.Equal(t, []int{http.StatusOK, http.StatusTooManyRequests, http.StatusTooManyRequests}, spoofed(s, 3))
	})

	t.Run("trusted behind a proxy", func(t *testing.T) {
		s := newTestServer(t, testCatalog(t), limited(true))
		assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusOK}, spoofed(s, 3))
	})
}
