package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/whatwillyoucook/backend/config"
	"github.com/whatwillyoucook/backend/internal/api"
	"github.com/whatwillyoucook/backend/internal/models"
	"github.com/whatwillyoucook/backend/internal/router"
	"github.com/whatwillyoucook/backend/internal/service"
	"github.com/whatwillyoucook/backend/internal/testdb"
)

const testSecret = "test-secret-0123456789"

type testEnv struct {
	router *gin.Engine
	db     *gorm.DB
	auth   *service.AuthService
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testdb.New(t)
	cfg := &config.Config{
		JWTSecret:      testSecret,
		AllowedOrigins: []string{"http://localhost:3000"},
	}

	authService := service.NewAuthService(db, cfg.JWTSecret)
	recipeService := service.NewRecipeService(db)
	savedService := service.NewSavedRecipeService(db)

	engine := router.Setup(
		cfg,
		api.NewAuthHandler(authService, cfg),
		api.NewRecipeHandler(recipeService, nil),
		api.NewSavedRecipeHandler(savedService),
		authService,
		nil, // no Redis in tests; rate limiting is covered in middleware tests
	)

	return &testEnv{router: engine, db: db, auth: authService}
}

// createUserAndToken registers a user directly and returns a valid token.
func (e *testEnv) createUserAndToken(t *testing.T, name, email string) (*models.User, string) {
	t.Helper()

	user, err := e.auth.Register(context.Background(), name, email, "hunter22")
	require.NoError(t, err)

	token, err := e.auth.IssueToken(user)
	require.NoError(t, err)
	return user, token
}

// do performs a JSON request. An empty token leaves the request anonymous;
// otherwise it rides in the Authorization header.
func (e *testEnv) do(t *testing.T, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func sessionCookie(w *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == "token" {
			return c
		}
	}
	return nil
}
