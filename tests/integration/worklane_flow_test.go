package integration

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/worklane/backend/tests/testutil"
)

// TestPayrollReconciliationFlow drives the payroll lifecycle end to end
// through the HTTP API: hire an employee, pay a salary, and verify the
// finance ledger tracks every transition.
func TestPayrollReconciliationFlow(t *testing.T) {
	env := NewEnv(t)

	// Hire an employee
	w := env.Do(t, http.MethodPost, "/api/v1/employees", map[string]any{
		"full_name": "Nina Petrova",
		"position":  "Platform Engineer",
		"email":     "nina@worklane.test",
		"skills":    []string{"go", "postgres"},
	})
	testutil.RequireStatus(t, http.StatusCreated, w)
	employeeID := testutil.DataObject(t, testutil.DecodeResponse(t, w))["id"].(string)

	// Record a pending salary for February
	w = env.Do(t, http.MethodPost, "/api/v1/salaries", map[string]any{
		"employee_id":  employeeID,
		"amount":       "72000",
		"pay_date":     time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC),
		"period_start": time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		"period_end":   time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC),
		"status":       "pending",
	})
	testutil.RequireStatus(t, http.StatusCreated, w)
	salary := testutil.DataObject(t, testutil.DecodeResponse(t, w))
	salaryID := salary["id"].(string)
	assert.Nil(t, salary["ledger_entry_id"], "pending salary must not reference the ledger")

	// No ledger entries yet
	w = env.Do(t, http.MethodGet, "/api/v1/finance/entries", nil)
	testutil.RequireStatus(t, http.StatusOK, w)
	resp := testutil.DecodeResponse(t, w)
	require.NotNil(t, resp.Meta)
	assert.Zero(t, resp.Meta.Total)

	// Mark it paid: an expense entry must appear
	w = env.Do(t, http.MethodPatch, "/api/v1/salaries/"+salaryID+"/status", map[string]string{"status": "paid"})
	testutil.RequireStatus(t, http.StatusOK, w)
	paid := testutil.DataObject(t, testutil.DecodeResponse(t, w))
	require.NotNil(t, paid["ledger_entry_id"])
	entryID := paid["ledger_entry_id"].(string)

	w = env.Do(t, http.MethodGet, "/api/v1/finance/entries/"+entryID, nil)
	testutil.RequireStatus(t, http.StatusOK, w)
	entry := testutil.DataObject(t, testutil.DecodeResponse(t, w))
	assert.Equal(t, "expense", entry["type"])
	assert.Contains(t, entry["title"], "Nina Petrova")

	// Stats reflect the payroll expense
	w = env.Do(t, http.MethodGet, "/api/v1/finance/stats", nil)
	testutil.RequireStatus(t, http.StatusOK, w)
	stats := testutil.DataObject(t, testutil.DecodeResponse(t, w))
	totals, ok := stats["totals"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "72000", totals["total_expense"])
	assert.Equal(t, float64(1), totals["entry_count"])

	// Revert to pending: the entry is removed again
	w = env.Do(t, http.MethodPatch, "/api/v1/salaries/"+salaryID+"/status", map[string]string{"status": "pending"})
	testutil.RequireStatus(t, http.StatusOK, w)

	w = env.Do(t, http.MethodGet, "/api/v1/finance/entries/"+entryID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Pay again, then delete the salary: ledger is cleaned up with it
	w = env.Do(t, http.MethodPatch, "/api/v1/salaries/"+salaryID+"/status", map[string]string{"status": "paid"})
	testutil.RequireStatus(t, http.StatusOK, w)

	w = env.Do(t, http.MethodDelete, "/api/v1/salaries/"+salaryID, nil)
	testutil.RequireStatus(t, http.StatusNoContent, w)

	w = env.Do(t, http.MethodGet, "/api/v1/finance/entries", nil)
	testutil.RequireStatus(t, http.StatusOK, w)
	resp = testutil.DecodeResponse(t, w)
	require.NotNil(t, resp.Meta)
	assert.Zero(t, resp.Meta.Total)

	// Nothing orphaned along the way
	w = env.Do(t, http.MethodGet, "/api/v1/salaries/orphans", nil)
	testutil.RequireStatus(t, http.StatusOK, w)
	orphans, ok := testutil.DecodeResponse(t, w).Data.([]interface{})
	require.True(t, ok)
	assert.Empty(t, orphans)
}

// TestFinanceLedgerFlow covers stand-alone ledger bookkeeping: entries not
// owned by payroll, category listing, and stats over mixed entry types.
func TestFinanceLedgerFlow(t *testing.T) {
	env := NewEnv(t)

	w := env.Do(t, http.MethodPost, "/api/v1/finance/entries", map[string]any{
		"title":            "Client invoice #42",
		"amount":           "150000",
		"transaction_date": time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC),
		"type":             "income",
		"category":         "consulting",
	})
	testutil.RequireStatus(t, http.StatusCreated, w)

	w = env.Do(t, http.MethodPost, "/api/v1/finance/entries", map[string]any{
		"title":            "Office rent",
		"amount":           "30000",
		"transaction_date": time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		"type":             "expense",
		"category":         "facilities",
	})
	testutil.RequireStatus(t, http.StatusCreated, w)

	t.Run("type filter", func(t *testing.T) {
		w := env.Do(t, http.MethodGet, "/api/v1/finance/entries?type=income", nil)
		testutil.RequireStatus(t, http.StatusOK, w)
		resp := testutil.DecodeResponse(t, w)
		items, ok := resp.Data.([]interface{})
		require.True(t, ok)
		require.Len(t, items, 1)
		assert.Equal(t, "Client invoice #42", items[0].(map[string]interface{})["title"])
	})

	t.Run("stats", func(t *testing.T) {
		w := env.Do(t, http.MethodGet, "/api/v1/finance/stats", nil)
		testutil.RequireStatus(t, http.StatusOK, w)
		totals := testutil.DataObject(t, testutil.DecodeResponse(t, w))["totals"].(map[string]interface{})
		assert.Equal(t, "150000", totals["total_income"])
		assert.Equal(t, "30000", totals["total_expense"])
		assert.Equal(t, "120000", totals["net_amount"])
	})

	t.Run("categories", func(t *testing.T) {
		w := env.Do(t, http.MethodGet, "/api/v1/finance/categories", nil)
		testutil.RequireStatus(t, http.StatusOK, w)
		categories, ok := testutil.DecodeResponse(t, w).Data.([]interface{})
		require.True(t, ok)
		assert.ElementsMatch(t, []interface{}{"consulting", "facilities"}, categories)
	})
}

// TestProjectFlow covers the project board: CRUD plus dashboard counts.
func TestProjectFlow(t *testing.T) {
	env := NewEnv(t)

	w := env.Do(t, http.MethodPost, "/api/v1/projects", map[string]any{
		"name":        "Billing revamp",
		"description": "Replace the legacy invoicing pipeline",
	})
	testutil.RequireStatus(t, http.StatusCreated, w)
	created := testutil.DataObject(t, testutil.DecodeResponse(t, w))
	projectID := created["id"].(string)
	assert.Equal(t, "todo", created["status"])

	w = env.Do(t, http.MethodPut, "/api/v1/projects/"+projectID, map[string]any{
		"name":        "Billing revamp",
		"description": "Replace the legacy invoicing pipeline",
		"status":      "in_progress",
	})
	testutil.RequireStatus(t, http.StatusOK, w)

	w = env.Do(t, http.MethodGet, "/api/v1/projects/stats", nil)
	testutil.RequireStatus(t, http.StatusOK, w)
	counts := testutil.DataObject(t, testutil.DecodeResponse(t, w))
	assert.Equal(t, float64(1), counts["total"])
	assert.Equal(t, float64(1), counts["in_progress"])
	assert.Equal(t, float64(0), counts["todo"])

	w = env.Do(t, http.MethodDelete, "/api/v1/projects/"+projectID, nil)
	testutil.RequireStatus(t, http.StatusNoContent, w)

	w = env.Do(t, http.MethodGet, "/api/v1/projects/"+projectID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

// TestEmployeeDirectoryFlow covers directory search and the position list.
func TestEmployeeDirectoryFlow(t *testing.T) {
	env := NewEnv(t)

	for _, e := range []map[string]any{
		{"full_name": "Ada Osei", "position": "Designer"},
		{"full_name": "Bram de Vries", "position": "Backend Engineer"},
		{"full_name": "Carla Mendes", "position": "Backend Engineer"},
	} {
		w := env.Do(t, http.MethodPost, "/api/v1/employees", e)
		testutil.RequireStatus(t, http.StatusCreated, w)
	}

	t.Run("search by name", func(t *testing.T) {
		w := env.Do(t, http.MethodGet, "/api/v1/employees?search=Bram", nil)
		testutil.RequireStatus(t, http.StatusOK, w)
		items, ok := testutil.DecodeResponse(t, w).Data.([]interface{})
		require.True(t, ok)
		require.Len(t, items, 1)
		assert.Equal(t, "Bram de Vries", items[0].(map[string]interface{})["full_name"])
	})

	t.Run("filter by position", func(t *testing.T) {
		w := env.Do(t, http.MethodGet, "/api/v1/employees?position=Backend+Engineer", nil)
		testutil.RequireStatus(t, http.StatusOK, w)
		resp := testutil.DecodeResponse(t, w)
		require.NotNil(t, resp.Meta)
		assert.Equal(t, int64(2), resp.Meta.Total)
	})

	t.Run("distinct positions", func(t *testing.T) {
		w := env.Do(t, http.MethodGet, "/api/v1/employees/positions", nil)
		testutil.RequireStatus(t, http.StatusOK, w)
		positions, ok := testutil.DecodeResponse(t, w).Data.([]interface{})
		require.True(t, ok)
		assert.ElementsMatch(t, []interface{}{"Designer", "Backend Engineer"}, positions)
	})
}
