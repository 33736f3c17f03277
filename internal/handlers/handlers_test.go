package handlers

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/hjarnor/hjarnor/internal/hash"
	authmw "github.com/hjarnor/hjarnor/internal/middleware/auth"
	"github.com/hjarnor/hjarnor/internal/models"
	"github.com/hjarnor/hjarnor/internal/tokens"
)

type testEnv struct {
	T      *testing.T
	E      *echo.Echo
	DB     *gorm.DB
	Tokens *tokens.Service
	A      *AuthHandler
	BF     *BrainfartHandler
}

func initTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("failed to connect to in-memory db: %v", err)
	}
	if err := db.AutoMigrate(&models.Brain{}, &models.Brainfart{}, &models.MindReaction{}); err != nil {
		t.Fatalf("failed to migrate tables: %v", err)
	}
	return db
}

func newTestEnv(t *testing.T) *testEnv {
	db := initTestDB(t)
	ts := &tokens.Service{Secret: []byte("test-secret"), TTL: time.Hour}

	env := &testEnv{
		T:      t,
		E:      echo.New(),
		DB:     db,
		Tokens: ts,
	}
	env.A = &AuthHandler{DB: db, Tokens: ts}
	env.BF = &BrainfartHandler{DB: db, Index: "brainfart"}
	return env
}

func (env *testEnv) doJSONRequest(method, path string, body interface{}, headers map[string]string) (*httptest.ResponseRecorder, echo.Context) {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(env.T, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	c := env.E.NewContext(req, rec)
	return rec, c
}

func (env *testEnv) seedBrain(name, password string) *models.Brain {
	pwHash, err := hash.HashPassword(password)
	require.NoError(env.T, err)
	brain := &models.Brain{Brainname: name, PasswordHash: pwHash}
	require.NoError(env.T, env.DB.Create(brain).Error)
	return brain
}

func (env *testEnv) bearerFor(brain *models.Brain) map[string]string {
	token, err := env.Tokens.Issue(brain.ID, brain.Brainname)
	require.NoError(env.T, err)
	return map[string]string{echo.HeaderAuthorization: "Bearer " + token}
}

// protected runs a handler behind the auth guard, the way the router does.
func (env *testEnv) protected(h echo.HandlerFunc) echo.HandlerFunc {
	return authmw.RequireAuth(env.Tokens)(h)
}

func requireHTTPError(t *testing.T, err error, code int) {
	t.Helper()
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError, got %v", err)
	require.Equal(t, code, he.Code)
}
