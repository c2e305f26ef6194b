// Package integration runs full-stack tests: real HTTP router, real
// application services, and GORM repositories on an in-memory database.
package integration

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	directoryapp "github.com/worklane/backend/internal/application/directory"
	financeapp "github.com/worklane/backend/internal/application/finance"
	identityapp "github.com/worklane/backend/internal/application/identity"
	payrollapp "github.com/worklane/backend/internal/application/payroll"
	projectapp "github.com/worklane/backend/internal/application/project"
	"github.com/worklane/backend/internal/infrastructure/auth"
	"github.com/worklane/backend/internal/infrastructure/config"
	"github.com/worklane/backend/internal/infrastructure/persistence"
	"github.com/worklane/backend/internal/infrastructure/storage"
	"github.com/worklane/backend/internal/interfaces/http/handler"
	"github.com/worklane/backend/internal/interfaces/http/router"
	"github.com/worklane/backend/tests/testutil"
	"gorm.io/gorm"
)

const (
	adminEmail    = "admin@worklane.test"
	adminPassword = "admin-password-1"
	userEmail     = "member@worklane.test"
	userPassword  = "member-password-1"
)

// Env is a fully wired backend instance for one test.
type Env struct {
	Engine *gin.Engine
	DB     *gorm.DB

	AdminToken string
	UserToken  string
}

// NewEnv builds the whole stack on an in-memory database and provisions
// one admin and one regular account.
func NewEnv(t *testing.T) *Env {
	t.Helper()

	db := testutil.NewTestDB(t)

	employeeRepo := persistence.NewGormEmployeeRepository(db)
	projectRepo := persistence.NewGormProjectRepository(db)
	salaryRepo := persistence.NewGormSalaryRecordRepository(db)
	ledgerRepo := persistence.NewGormLedgerEntryRepository(db)
	orphanRepo := persistence.NewGormOrphanedLedgerEntryRepository(db)
	userRepo := persistence.NewGormUserRepository(db)

	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                 "integration-access-secret-0123456789",
		RefreshSecret:          "integration-refresh-secret-0123456789",
		AccessTokenExpiration:  time.Minute,
		RefreshTokenExpiration: time.Hour,
		Issuer:                 "worklane-test",
	})

	authService := identityapp.NewAuthService(userRepo, jwtService, nil)
	employeeService := directoryapp.NewEmployeeService(employeeRepo, storage.NewStubObjectStorage(), nil)
	projectService := projectapp.NewProjectService(projectRepo, nil)
	salaryService := payrollapp.NewSalaryService(salaryRepo, ledgerRepo, employeeRepo, orphanRepo, nil)
	ledgerService := financeapp.NewLedgerService(ledgerRepo, testutil.NewMemoryStatsCache(), nil)

	engine := router.New(router.Config{
		HTTP:       config.HTTPConfig{},
		JWTService: jwtService,
		Handlers: router.Handlers{
			Auth:     handler.NewAuthHandler(authService),
			Employee: handler.NewEmployeeHandler(employeeService),
			Project:  handler.NewProjectHandler(projectService),
			Salary:   handler.NewSalaryHandler(salaryService),
			Ledger:   handler.NewLedgerHandler(ledgerService),
			System:   handler.NewSystemHandler(nil),
		},
	})

	env := &Env{Engine: engine, DB: db}

	ctx := context.Background()
	_, err := authService.Register(ctx, identityapp.RegisterRequest{
		Email:    adminEmail,
		Password: adminPassword,
		Role:     "admin",
	})
	require.NoError(t, err)
	_, err = authService.Register(ctx, identityapp.RegisterRequest{
		Email:    userEmail,
		Password: userPassword,
		Role:     "user",
	})
	require.NoError(t, err)

	env.AdminToken = env.login(t, adminEmail, adminPassword)
	env.UserToken = env.login(t, userEmail, userPassword)
	return env
}

func (e *Env) login(t *testing.T, email, password string) string {
	t.Helper()

	w := testutil.Do(t, e.Engine, testutil.Request{
		Method: http.MethodPost,
		Path:   "/api/v1/auth/login",
		Body:   map[string]string{"email": email, "password": password},
	})
	testutil.RequireStatus(t, http.StatusOK, w)

	data := testutil.DataObject(t, testutil.DecodeResponse(t, w))
	tokens, ok := data["tokens"].(map[string]interface{})
	require.True(t, ok, "login response has no tokens")
	access, ok := tokens["access_token"].(string)
	require.True(t, ok, "login response has no access token")
	return access
}

// Do performs a request with the admin token unless another is set.
func (e *Env) Do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	return testutil.Do(t, e.Engine, testutil.Request{
		Method: method,
		Path:   path,
		Body:   body,
		Token:  e.AdminToken,
	})
}

// DoAs performs a request with an explicit token ("" = anonymous).
func (e *Env) DoAs(t *testing.T, token, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	return testutil.Do(t, e.Engine, testutil.Request{
		Method: method,
		Path:   path,
		Body:   body,
		Token:  token,
	})
}
