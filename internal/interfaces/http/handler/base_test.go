package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	payrollapp "github.com/worklane/backend/internal/application/payroll"
	"github.com/worklane/backend/internal/domain/shared"
	"github.com/worklane/backend/internal/interfaces/http/dto"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func performHandleError(t *testing.T, err error) (*httptest.ResponseRecorder, dto.Response) {
	t.Helper()

	h := &BaseHandler{}
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/test", nil)
	c.Set(RequestIDKey, "req-test")

	h.HandleError(c, err)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w, resp
}

func TestBaseHandler_HandleError_DomainErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"not found", shared.ErrNotFound, http.StatusNotFound, dto.ErrCodeNotFound},
		{"already exists", shared.ErrAlreadyExists, http.StatusConflict, dto.ErrCodeAlreadyExists},
		{"concurrency conflict", shared.ErrConcurrencyConflict, http.StatusConflict, dto.ErrCodeConcurrencyConflict},
		{"invalid status", shared.NewDomainError("INVALID_STATUS", "Status must be pending or paid"), http.StatusBadRequest, dto.ErrCodeInvalidInput},
		{"invalid credentials", shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password"), http.StatusUnauthorized, dto.ErrCodeInvalidCredentials},
		{"storage unavailable", shared.NewDomainError("STORAGE_UNAVAILABLE", "Object storage is not configured"), http.StatusServiceUnavailable, dto.ErrCodeStorageUnavailable},
		{"unknown error", errors.New("database exploded"), http.StatusInternalServerError, dto.ErrCodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, resp := performHandleError(t, tt.err)
			assert.Equal(t, tt.wantStatus, w.Code)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
			assert.Equal(t, "req-test", resp.Error.RequestID)
		})
	}
}

func TestBaseHandler_HandleError_LedgerWriteError(t *testing.T) {
	err := &payrollapp.LedgerWriteError{Err: errors.New("insert failed")}

	w, resp := performHandleError(t, err)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeLedgerWriteFailed, resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "retry")
}

func TestBaseHandler_HandleError_BulkReconciliationError(t *testing.T) {
	orphaned := []uuid.UUID{uuid.New(), uuid.New()}
	err := &payrollapp.BulkReconciliationError{
		OrphanedEntryIDs: orphaned,
		Err:              errors.New("batch insert failed"),
	}

	w, resp := performHandleError(t, err)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeBulkReconciliation, resp.Error.Code)

	details, ok := resp.Error.Details.(map[string]interface{})
	require.True(t, ok)
	ids, ok := details["orphaned_entry_ids"].([]interface{})
	require.True(t, ok)
	assert.Len(t, ids, 2)
	assert.Equal(t, orphaned[0].String(), ids[0])
}

func TestBaseHandler_SuccessWithWarning(t *testing.T) {
	h := &BaseHandler{}
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	h.SuccessWithWarning(c, gin.H{"id": "x"}, payrollapp.WarningLedgerCleanupFailed)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, resp.Success)
	assert.Equal(t, payrollapp.WarningLedgerCleanupFailed, resp.Warning)
}
