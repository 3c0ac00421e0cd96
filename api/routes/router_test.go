package routes

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/angelmondragon/casecraft-backend/internal/catalog"
	"github.com/angelmondragon/casecraft-backend/internal/designs"
	"github.com/angelmondragon/casecraft-backend/internal/orders"
	"github.com/angelmondragon/casecraft-backend/internal/pricing"
	"github.com/angelmondragon/casecraft-backend/internal/session"
	"github.com/angelmondragon/casecraft-backend/internal/uploads"
	"github.com/angelmondragon/casecraft-backend/pkg/config"
	"github.com/angelmondragon/casecraft-backend/pkg/db/models"
	"github.com/angelmondragon/casecraft-backend/pkg/logger"
	"github.com/angelmondragon/casecraft-backend/pkg/metrics"
)

type stubPinger struct{ err error }

func (s stubPinger) Ping(context.Context) error { return s.err }

type memoryStore struct {
	mu      sync.Mutex
	values  map[string]string
	counts  map[string]int64
	pingErr error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{values: map[string]string{}, counts: map[string]int64{}}
}

func (m *memoryStore) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.values[key], nil
}

func (m *memoryStore) SetNX(_ context.Context, key string, value any, _ time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.values[key]; ok {
		return false, nil
	}
	m.values[key] = value.(string)
	return true, nil
}

func (m *memoryStore) IdempotencyKey(scope, id string) string {
	return "idempotency:" + scope + ":" + id
}

func (m *memoryStore) Del(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, key := range keys {
		delete(m.values, key)
	}
	return nil
}

func (m *memoryStore) FixedWindowAllow(_ context.Context, scope string, limit int64, _ time.Duration) (bool, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counts[scope]++
	return m.counts[scope] <= limit, m.counts[scope], nil
}

func (m *memoryStore) Ping(context.Context) error { return m.pingErr }

type testServer struct {
	handler http.Handler
	store   *memoryStore
	upload  string
}

func newTestServer(t *testing.T, dbErr error) *testServer {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})

	gdb, err := gorm.Open(sqlite.Open("file:routes_"+uuid.NewString()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, gdb.AutoMigrate(&models.CustomDesign{}, &models.Order{}))

	uploadDir := t.TempDir()
	cfg := &config.Config{
		App:   config.AppConfig{Env: "test", AllowedOrigins: []string{"http://localhost:5173"}},
		Media: config.MediaConfig{UploadDir: uploadDir, PublicPrefix: "/uploads", MaxUploadMB: 1},
		RateLimit: config.RateLimitConfig{
			OrderWindow:   time.Minute,
			OrderLimit:    2,
			SessionWindow: time.Minute,
			SessionLimit:  50,
		},
	}

	cat := catalog.DefaultService()
	table := pricing.DefaultTable()
	designSvc, err := designs.NewService(designs.ServiceParams{Repo: designs.NewRepository(gdb), Catalog: cat, Logger: logg})
	require.NoError(t, err)
	orderSvc, err := orders.NewService(orders.ServiceParams{Repo: orders.NewRepository(gdb), Designs: designSvc, Logger: logg})
	require.NoError(t, err)
	disk, err := uploads.NewDiskStore(uploadDir)
	require.NoError(t, err)
	uploadSvc, err := uploads.NewService(uploads.ServiceParams{Store: disk, PublicPrefix: "/uploads", MaxBytes: cfg.Media.MaxUploadBytes(), Logger: logg})
	require.NoError(t, err)

	promReg := prometheus.NewRegistry()
	m := metrics.NewSessionMetrics(promReg)
	registry, err := session.NewRegistry(func(id string) (*session.Engine, error) {
		return session.NewEngine(session.Params{
			ID:      id,
			Pricing: table,
			Designs: designs.Committer(designSvc),
			Orders:  orders.Submitter(orderSvc),
			Logger:  logg,
			Metrics: m,
		})
	}, session.RegistryConfig{IdleTTL: time.Hour}, logg, m)
	require.NoError(t, err)

	store := newMemoryStore()
	handler := NewRouter(Deps{
		Config:   cfg,
		Logger:   logg,
		DB:       stubPinger{err: dbErr},
		Store:    store,
		Catalog:  cat,
		Pricing:  table,
		Designs:  designSvc,
		Orders:   orderSvc,
		Uploads:  uploadSvc,
		Sessions: registry,
		Gatherer: promReg,
	})
	return &testServer{handler: handler, store: store, upload: uploadDir}
}

func (s *testServer) do(t *testing.T, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.RemoteAddr = "203.0.113.7:5555"
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	envelope := struct {
		Data json.RawMessage `json:"data"`
	}{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope), rec.Body.String())
	require.NoError(t, json.Unmarshal(envelope.Data, out))
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	envelope := struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope), rec.Body.String())
	return envelope.Error.Code
}

func TestHealthRoutes(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := srv.do(t, http.MethodGet, "/health/live", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "test", rec.Header().Get("X-CaseCraft-Env"))
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))

	rec = srv.do(t, http.MethodGet, "/health/ready", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	srv.store.pingErr = errors.New("redis down")
	rec = srv.do(t, http.MethodGet, "/health/ready", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "DEPENDENCY_ERROR", errorCode(t, rec))
}

func TestReadyReportsDatabaseFailure(t *testing.T) {
	srv := newTestServer(t, errors.New("db down"))
	rec := srv.do(t, http.MethodGet, "/health/ready", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), `"database":"down"`)
}

func TestSessionFlowThroughRouter(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := srv.do(t, http.MethodPost, "/api/sessions/", "", nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created struct {
		Session struct {
			SessionID string `json:"session_id"`
		} `json:"session"`
	}
	decodeData(t, rec, &created)
	base := "/api/sessions/" + created.Session.SessionID

	rec = srv.do(t, http.MethodPost, base+"/model", `{"model_id":"iphone15"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rec = srv.do(t, http.MethodPost, base+"/design", `{"design_id":"hearts-floating"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = srv.do(t, http.MethodPost, base+"/commit", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", errorCode(t, rec))

	key := map[string]string{"Idempotency-Key": "commit-1"}
	first := srv.do(t, http.MethodPost, base+"/commit", "", key)
	require.Equal(t, http.StatusOK, first.Code, first.Body.String())
	replay := srv.do(t, http.MethodPost, base+"/commit", "", key)
	assert.Equal(t, first.Code, replay.Code)
	assert.JSONEq(t, first.Body.String(), replay.Body.String())

	rec = srv.do(t, http.MethodGet, "/api/stats", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var stats struct {
		TotalDesigns   int64 `json:"total_designs"`
		ActiveSessions int   `json:"active_sessions"`
	}
	decodeData(t, rec, &stats)
	assert.Equal(t, int64(1), stats.TotalDesigns)
	assert.Equal(t, 1, stats.ActiveSessions)

	complete := `{"customer_info":{"name":"Ana","email":"ana@example.com","phone":"11999999999","address":{"street":"Rua A, 1","city":"São Paulo","zip_code":"01000-000"}}}`
	rec = srv.do(t, http.MethodPost, base+"/complete", complete, map[string]string{"Idempotency-Key": "complete-1"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var done struct {
		Order struct {
			OrderID string `json:"order_id"`
		} `json:"order"`
	}
	decodeData(t, rec, &done)
	orderID, err := uuid.Parse(done.Order.OrderID)
	require.NoError(t, err)

	rec = srv.do(t, http.MethodGet, "/api/order/"+orderID.String(), "", nil)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestCreateOrderIsRateLimited(t *testing.T) {
	srv := newTestServer(t, nil)

	codes := make([]int, 0, 3)
	for i := range 3 {
		rec := srv.do(t, http.MethodPost, "/api/create-order", `{}`, map[string]string{
			"Idempotency-Key": uuid.NewString() + string(rune('a'+i)),
		})
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, http.StatusBadRequest, codes[0])
	assert.Equal(t, http.StatusBadRequest, codes[1])
	assert.Equal(t, http.StatusTooManyRequests, codes[2])
}

func TestCatalogAndPricingRoutes(t *testing.T) {
	srv := newTestServer(t, nil)

	for _, path := range []string{
		"/api/phone-models",
		"/api/phone-models/popular",
		"/api/gallery",
		"/api/gallery/trending",
		"/api/gallery/category/nature",
		"/api/pricing",
		"/api/pricing/quote?material=premium&quantity=2",
	} {
		rec := srv.do(t, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}
}

func TestMetricsAndUploadsAreServed(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := srv.do(t, http.MethodPost, "/api/sessions/", "", nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = srv.do(t, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "session_active 1")

	require.NoError(t, os.WriteFile(filepath.Join(srv.upload, "case.png"), []byte("png-bytes"), 0o600))
	rec = srv.do(t, http.MethodGet, "/uploads/case.png", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "png-bytes", rec.Body.String())
}
