// Package testutil provides shared helpers for the integration test suite:
// in-memory databases, an in-process stats cache, and HTTP request plumbing.
package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	financeapp "github.com/worklane/backend/internal/application/finance"
	"github.com/worklane/backend/internal/infrastructure/persistence/models"
	"github.com/worklane/backend/internal/interfaces/http/dto"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// NewTestDB opens an in-memory SQLite database with the full schema.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to open test database")

	require.NoError(t, db.AutoMigrate(
		&models.EmployeeModel{},
		&models.ProjectModel{},
		&models.UserModel{},
		&models.LedgerEntryModel{},
		&models.SalaryRecordModel{},
		&models.OrphanedLedgerEntryModel{},
	), "failed to migrate test schema")

	return db
}

// MemoryStatsCache is an in-process StatsCache for tests; it never expires.
type MemoryStatsCache struct {
	mu    sync.Mutex
	stats map[string]*financeapp.LedgerStatsResponse
}

// NewMemoryStatsCache creates an empty MemoryStatsCache.
func NewMemoryStatsCache() *MemoryStatsCache {
	return &MemoryStatsCache{stats: make(map[string]*financeapp.LedgerStatsResponse)}
}

// GetStats returns the cached stats for key, if present.
func (c *MemoryStatsCache) GetStats(_ context.Context, key string) (*financeapp.LedgerStatsResponse, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.stats[key]
	return s, ok
}

// SetStats stores stats under key; the TTL is ignored.
func (c *MemoryStatsCache) SetStats(_ context.Context, key string, stats *financeapp.LedgerStatsResponse, _ time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stats[key] = stats
}

// Invalidate drops all cached stats.
func (c *MemoryStatsCache) Invalidate(_ context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stats = make(map[string]*financeapp.LedgerStatsResponse)
}

// Request describes one HTTP call through a test engine.
type Request struct {
	Method string
	Path   string
	Body   any
	Token  string
}

// Do executes the request against the engine and returns the recorder.
func Do(t *testing.T, engine *gin.Engine, r Request) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if r.Body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(r.Body))
	}

	req := httptest.NewRequest(r.Method, r.Path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if r.Token != "" {
		req.Header.Set("Authorization", "Bearer "+r.Token)
	}

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

// DecodeResponse unmarshals the standard envelope from a recorder.
func DecodeResponse(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), "body: %s", w.Body.String())
	return resp
}

// DataObject asserts the envelope's data is a JSON object and returns it.
func DataObject(t *testing.T, resp dto.Response) map[string]interface{} {
	t.Helper()
	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok, "response data is not an object: %#v", resp.Data)
	return data
}

// RequireStatus fails the test with the response body when the status differs.
func RequireStatus(t *testing.T, want int, w *httptest.ResponseRecorder) {
	t.Helper()
	require.Equal(t, want, w.Code, "unexpected status, body: %s", w.Body.String())
}
