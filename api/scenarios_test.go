package api

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/punchclock/hours"
	"github.com/warp/punchclock/kv"
	"github.com/warp/punchclock/log"
	"github.com/warp/punchclock/records"
)

// newDevServer is newTestServer with the reset gate open.
func newDevServer(t *testing.T) *testServer {
	t.Helper()
	storage := kv.NewMemory()
	store := records.New(storage, records.WithLogger(log.Discard()))
	h := NewHandler(records.NewService(store), log.Discard())
	h.Calc = hours.Calculator{Now: func() time.Time { return testNow }}
	h.Reset = store.Reset
	return &testServer{router: NewRouter(h, RouterOptions{}), store: store, storage: storage}
}

func (ts *testServer) loadScenario(t *testing.T, id string) {
	t.Helper()
	rec := ts.do(t, http.MethodPost, "/api/scenarios/load", map[string]string{"scenario_id": id})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestListScenarios(t *testing.T) {
	ts := newTestServer(t, RouterOptions{})

	rec := ts.do(t, http.MethodGet, "/api/scenarios", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	got := decode[[]ScenarioDTO](t, rec)
	assert.Len(t, got, len(scenarios))
}

func TestLoadScenario_FullWeekBalances(t *testing.T) {
	// GIVEN: last week is Sunday Feb 23 .. Saturday Mar 1
	ts := newDevServer(t)

	// WHEN: loading the full week
	ts.loadScenario(t, "full-week")

	// THEN: 5 x 7h + 3h worked, same expected
	rec := ts.do(t, http.MethodGet, "/api/employees/emp-001/summary?from=2025-02-23&to=2025-03-01", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	got := decode[SummaryDTO](t, rec)
	assert.Equal(t, int64(5*25200+10800), got.WorkedSeconds)
	assert.Equal(t, int64(5*25200+10800), got.ExpectedSeconds)
	assert.Equal(t, "00:00", got.Balance)
}

func TestLoadScenario_OpenPunchRunsToNow(t *testing.T) {
	ts := newDevServer(t)

	ts.loadScenario(t, "open-punch")

	rec := ts.do(t, http.MethodGet, "/api/employees/emp-002/summary", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(2*3600), decode[SummaryDTO](t, rec).WorkedSeconds)

	rec = ts.do(t, http.MethodGet, "/api/active", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, ActiveDTO{EmpID: "emp-002"}, decode[ActiveDTO](t, rec))
}

func TestLoadScenario_SaturdayAttendance(t *testing.T) {
	ts := newDevServer(t)

	ts.loadScenario(t, "saturday-attendance")

	rec := ts.do(t, http.MethodGet, "/api/employees/emp-003/summary?from=2025-02-28&to=2025-03-01", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[SummaryDTO](t, rec)
	assert.Equal(t, int64(3600), got.WorkedSeconds)
	assert.Equal(t, int64(10800), got.ExpectedSeconds)
}

func TestLoadScenario_CorruptedBlobDegrades(t *testing.T) {
	ts := newDevServer(t)

	ts.loadScenario(t, "corrupted-blob")

	raw, ok, err := ts.storage.Get(context.Background(), records.DefaultDatabaseKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Contains(t, raw, "emp-004")

	rec := ts.do(t, http.MethodGet, "/api/employees", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[[]EmployeeDTO](t, rec))

	rec = ts.do(t, http.MethodGet, "/api/scenarios/current", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "corrupted-blob", decode[ScenarioDTO](t, rec).ID)
}

func TestLoadScenario_ReplacesPreviousData(t *testing.T) {
	ts := newDevServer(t)
	ts.loadScenario(t, "open-punch")

	ts.loadScenario(t, "full-week")

	assert.Nil(t, ts.store.GetActive(context.Background()))
	db := ts.store.ReadDatabase(context.Background())
	assert.NotContains(t, db, "emp-002")
	assert.Contains(t, db, "emp-001")
}

func TestLoadScenario_Errors(t *testing.T) {
	rec := newTestServer(t, RouterOptions{}).do(t, http.MethodPost, "/api/scenarios/load", map[string]string{"scenario_id": "full-week"})
	assert.Equal(t, http.StatusNotFound, rec.Code, "disabled outside dev mode")

	ts := newDevServer(t)
	rec = ts.do(t, http.MethodPost, "/api/scenarios/load", map[string]string{"scenario_id": "payroll"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(t, http.MethodGet, "/api/scenarios/current", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "null\n", rec.Body.String())
}
