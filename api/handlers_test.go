/*
handlers_test.go - HTTP tests for API handlers

Tests for:
- Employee upsert/list/detail (PINs never returned)
- Clock in/out status codes
- Summary and daily ranges
- Active pointer lifecycle
- CSV / XLSX export
- Static file serving with offline fallback
*/
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/punchclock/hours"
	"github.com/warp/punchclock/kv"
	"github.com/warp/punchclock/log"
	"github.com/warp/punchclock/punch"
	"github.com/warp/punchclock/records"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

// Wednesday, 5 March 2025, 12:00 local.
var testNow = time.Date(2025, time.March, 5, 12, 0, 0, 0, time.Local)

type testServer struct {
	router  http.Handler
	store   *records.Store
	storage *kv.Memory
}

func newTestServer(t *testing.T, opts RouterOptions) *testServer {
	t.Helper()
	storage := kv.NewMemory()
	store := records.New(storage, records.WithLogger(log.Discard()))
	h := NewHandler(records.NewService(store), log.Discard())
	h.Calc = hours.Calculator{Now: func() time.Time { return testNow }}
	return &testServer{router: NewRouter(h, opts), store: store, storage: storage}
}

func (ts *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func (ts *testServer) seed(t *testing.T, db punch.Database) {
	t.Helper()
	require.NoError(t, ts.store.WriteDatabase(context.Background(), db))
}

func seedDB() punch.Database {
	return punch.Database{
		"emp-1": {Name: "Sara", PIN: "1234", Punches: punch.DailyPunches{
			"2025-03-02": {{In: "08:00", Out: "16:00"}},
			"2025-03-08": {{In: "10:00", Out: "13:00"}},
		}},
	}
}

// =============================================================================
// EMPLOYEES
// =============================================================================

func TestUpsertAndListEmployees(t *testing.T) {
	ts := newTestServer(t, RouterOptions{})

	rec := ts.do(t, http.MethodPost, "/api/employees", UpsertEmployeeRequest{ID: "emp-1", Name: "Sara", PIN: "1234"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(t, http.MethodGet, "/api/employees", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "1234", "PIN must not leak")

	got := decode[[]EmployeeDTO](t, rec)
	assert.Equal(t, []EmployeeDTO{{ID: "emp-1", Name: "Sara", HasPIN: true}}, got)
}

func TestUpsertEmployee_GeneratedID(t *testing.T) {
	ts := newTestServer(t, RouterOptions{})

	rec := ts.do(t, http.MethodPost, "/api/employees", UpsertEmployeeRequest{Name: "New"})
	require.Equal(t, http.StatusOK, rec.Code)

	got := decode[EmployeeDTO](t, rec)
	assert.NotEmpty(t, got.ID)
}

func TestUpsertEmployee_BadBody(t *testing.T) {
	ts := newTestServer(t, RouterOptions{})
	req := httptest.NewRequest(http.MethodPost, "/api/employees", strings.NewReader("{"))
	rec := httptest.NewRecorder()

	ts.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetEmployee(t *testing.T) {
	ts := newTestServer(t, RouterOptions{})
	ts.seed(t, seedDB())

	rec := ts.do(t, http.MethodGet, "/api/employees/emp-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[EmployeeDetailDTO](t, rec)
	assert.Equal(t, "Sara", got.Name)
	assert.Len(t, got.Punches, 2)
	assert.NotContains(t, rec.Body.String(), "1234")

	rec = ts.do(t, http.MethodGet, "/api/employees/ghost", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// =============================================================================
// CLOCK IN / OUT
// =============================================================================

func TestClockInOut(t *testing.T) {
	ts := newTestServer(t, RouterOptions{})

	// GIVEN: clock in at an explicit time
	rec := ts.do(t, http.MethodPost, "/api/employees/emp-1/clock-in", ClockRequest{At: testNow.Add(-4 * time.Hour).Format(time.RFC3339)})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	in := decode[ClockResponseDTO](t, rec)
	assert.Equal(t, "08:00", in.Pair.In)
	assert.Empty(t, in.Pair.Out)

	// WHEN: clocking in again
	rec = ts.do(t, http.MethodPost, "/api/employees/emp-1/clock-in", nil)

	// THEN: conflict
	assert.Equal(t, http.StatusConflict, rec.Code)

	// Clock out with no body uses the handler clock (12:00).
	rec = ts.do(t, http.MethodPost, "/api/employees/emp-1/clock-out", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	out := decode[ClockResponseDTO](t, rec)
	assert.Equal(t, "12:00", out.Pair.Out)
	assert.Equal(t, "2025-03-05", out.Date)

	rec = ts.do(t, http.MethodPost, "/api/employees/emp-1/clock-out", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

// downStorage fails every call.
type downStorage struct{}

func (downStorage) Get(context.Context, string) (string, bool, error) {
	return "", false, assert.AnError
}
func (downStorage) Set(context.Context, string, string) error { return assert.AnError }
func (downStorage) Delete(context.Context, string) error      { return assert.AnError }

func TestClockIn_StorageDownIsServerError(t *testing.T) {
	store := records.New(downStorage{}, records.WithLogger(log.Discard()))
	router := NewRouter(NewHandler(records.NewService(store), log.Discard()), RouterOptions{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/employees/emp-1/clock-in", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestClockIn_BadTimestamp(t *testing.T) {
	ts := newTestServer(t, RouterOptions{})

	rec := ts.do(t, http.MethodPost, "/api/employees/emp-1/clock-in", ClockRequest{At: "yesterday"})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestClockOut_UnknownEmployee(t *testing.T) {
	ts := newTestServer(t, RouterOptions{})

	rec := ts.do(t, http.MethodPost, "/api/employees/ghost/clock-out", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// =============================================================================
// SUMMARY / DAYS
// =============================================================================

func TestGetSummary(t *testing.T) {
	ts := newTestServer(t, RouterOptions{})
	ts.seed(t, seedDB())

	rec := ts.do(t, http.MethodGet, "/api/employees/emp-1/summary?from=2025-03-02&to=2025-03-08", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	got := decode[SummaryDTO](t, rec)
	assert.Equal(t, int64(39600), got.WorkedSeconds)
	assert.Equal(t, int64(136800), got.ExpectedSeconds)
	assert.Equal(t, "11:00", got.Worked)
	assert.Equal(t, "-27:00", got.Balance)
	assert.Equal(t, "11.00", got.WorkedHours)
}

func TestGetSummary_DefaultsToCurrentWeek(t *testing.T) {
	ts := newTestServer(t, RouterOptions{})
	ts.seed(t, seedDB())

	rec := ts.do(t, http.MethodGet, "/api/employees/emp-1/summary", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	got := decode[SummaryDTO](t, rec)
	assert.Equal(t, "2025-03-02", got.From)
	assert.Equal(t, "2025-03-05", got.To)
	assert.Equal(t, int64(4*25200), got.ExpectedSeconds)
}

func TestGetSummary_BadRange(t *testing.T) {
	ts := newTestServer(t, RouterOptions{})
	ts.seed(t, seedDB())

	rec := ts.do(t, http.MethodGet, "/api/employees/emp-1/summary?from=2025-03-08&to=2025-03-02", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(t, http.MethodGet, "/api/employees/emp-1/summary?from=March", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRange_TooLong(t *testing.T) {
	ts := newTestServer(t, RouterOptions{})
	ts.seed(t, seedDB())

	for _, path := range []string{
		"/api/employees/emp-1/days?from=0001-01-01&to=9999-12-31",
		"/api/employees/emp-1/summary?from=2024-01-01&to=2025-01-01",
		"/api/export/daily.csv?from=2000-01-01&to=2025-03-08",
	} {
		rec := ts.do(t, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, path)
	}

	rec := ts.do(t, http.MethodGet, "/api/employees/emp-1/summary?from=2024-01-01&to=2024-12-31", nil)
	assert.Equal(t, http.StatusOK, rec.Code, "366 days is allowed")
}

func TestRange_CustomLimit(t *testing.T) {
	storage := kv.NewMemory()
	store := records.New(storage, records.WithLogger(log.Discard()))
	require.NoError(t, store.WriteDatabase(context.Background(), seedDB()))
	h := NewHandler(records.NewService(store), log.Discard())
	h.MaxRangeDays = 7
	router := NewRouter(h, RouterOptions{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/employees/emp-1/days?from=2025-03-02&to=2025-03-08", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/employees/emp-1/days?from=2025-03-02&to=2025-03-09", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetDays(t *testing.T) {
	ts := newTestServer(t, RouterOptions{})
	ts.seed(t, seedDB())

	rec := ts.do(t, http.MethodGet, "/api/employees/emp-1/days?from=2025-03-07&to=2025-03-08", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	got := decode[[]DayDTO](t, rec)
	require.Len(t, got, 2)
	assert.Equal(t, "Friday", got[0].Weekday)
	assert.Empty(t, got[0].Pairs)
	assert.Equal(t, int64(10800), got[1].ExpectedSeconds)
}

// =============================================================================
// ACTIVE POINTER
// =============================================================================

func TestActivePointer(t *testing.T) {
	ts := newTestServer(t, RouterOptions{})

	rec := ts.do(t, http.MethodGet, "/api/active", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = ts.do(t, http.MethodPut, "/api/active", ActiveDTO{EmpID: "emp-1"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(t, http.MethodGet, "/api/active", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, ActiveDTO{EmpID: "emp-1"}, decode[ActiveDTO](t, rec))

	rec = ts.do(t, http.MethodDelete, "/api/active", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Nil(t, ts.store.GetActive(context.Background()))

	rec = ts.do(t, http.MethodPut, "/api/active", ActiveDTO{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestActivePointer_CorruptIsNoContent(t *testing.T) {
	ts := newTestServer(t, RouterOptions{})
	require.NoError(t, ts.storage.Set(context.Background(), records.DefaultActiveKey, "{{"))

	rec := ts.do(t, http.MethodGet, "/api/active", nil)

	assert.Equal(t, http.StatusNoContent, rec.Code)
}

// =============================================================================
// EXPORT
// =============================================================================

func TestExport_SummaryCSV(t *testing.T) {
	ts := newTestServer(t, RouterOptions{})
	ts.seed(t, seedDB())

	rec := ts.do(t, http.MethodGet, "/api/export/summary.csv?from=2025-03-02&to=2025-03-08", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "summary_2025-03-02_2025-03-08.csv")
	assert.Equal(t,
		"Employee ID,Name,From,To,Worked,Expected,Balance\nemp-1,Sara,2025-03-02,2025-03-08,11:00,38:00,-27:00\n",
		rec.Body.String())
}

func TestExport_DailyXLSX(t *testing.T) {
	ts := newTestServer(t, RouterOptions{})
	ts.seed(t, seedDB())

	rec := ts.do(t, http.MethodGet, "/api/export/daily.xlsx?from=2025-03-02&to=2025-03-08", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Contains(t, rec.Header().Get("Content-Type"), "spreadsheetml")
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("PK")), "xlsx is a zip archive")
}

func TestExport_Unknown(t *testing.T) {
	ts := newTestServer(t, RouterOptions{})

	assert.Equal(t, http.StatusBadRequest, ts.do(t, http.MethodGet, "/api/export/summary.pdf", nil).Code)
	assert.Equal(t, http.StatusNotFound, ts.do(t, http.MethodGet, "/api/export/payroll.csv", nil).Code)
}

// =============================================================================
// RESET
// =============================================================================

func TestReset_DisabledByDefault(t *testing.T) {
	ts := newTestServer(t, RouterOptions{})

	rec := ts.do(t, http.MethodPost, "/api/reset", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// =============================================================================
// STATIC FILES
// =============================================================================

func TestStatic_OfflineFallback(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "employee.html"), []byte("employee page"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "offline.html"), []byte("offline page"), 0o644))
	ts := newTestServer(t, RouterOptions{StaticDir: dir, OfflinePage: "offline.html"})

	rec := ts.do(t, http.MethodGet, "/employee.html", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "employee page", rec.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/missing.html", nil)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	rec = httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "offline page", rec.Body.String())
}

func TestStatic_MissingAssetIsNotFound(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "offline.html"), []byte("offline page"), 0o644))
	ts := newTestServer(t, RouterOptions{StaticDir: dir, OfflinePage: "offline.html"})

	req := httptest.NewRequest(http.MethodGet, "/favicon.ico", nil)
	req.Header.Set("Accept", "image/avif,image/webp,*/*")
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStatic_NoOfflinePage(t *testing.T) {
	ts := newTestServer(t, RouterOptions{StaticDir: t.TempDir()})

	rec := ts.do(t, http.MethodGet, "/missing.html", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestReset_Enabled(t *testing.T) {
	storage := kv.NewMemory()
	store := records.New(storage, records.WithLogger(log.Discard()))
	require.NoError(t, store.WriteDatabase(context.Background(), seedDB()))
	h := NewHandler(records.NewService(store), log.Discard())
	h.Reset = store.Reset
	router := NewRouter(h, RouterOptions{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/reset", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, storage.Len())
}
