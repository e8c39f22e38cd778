package testutils

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"

	"salesboard/internal/ai"
	"salesboard/internal/api"
	"salesboard/internal/config"
	"salesboard/internal/models"
	"salesboard/internal/repository"
	"salesboard/internal/service"
)

// TestContext holds all dependencies for tests
type TestContext struct {
	Router      *gin.Engine
	Store       repository.Store
	Service     service.Service
	JWTSecret   []byte
	DB          *sqlx.DB
	AdminJWT    string
	CustomerJWT string
}

// SetupTestContext creates a new test context with initialized dependencies.
// Each context gets its own in-memory database seeded with the demo data
// (admin/password plus the Stark and Wayne customer accounts).
func SetupTestContext(t *testing.T) *TestContext {
	cfg := config.LoadConfig()

	// Isolate every test in its own in-memory database
	cfg.Database.Name = "test_" + uuid.New().String()
	cfg.Auth.JWTSecret = "test-secret-key"

	db, err := config.SetupDatabase(cfg)
	assert.NoError(t, err, "Failed to set up test database")

	store := repository.NewSQLiteStore(db)
	assert.NoError(t, store.SeedDemoData(context.Background()), "Failed to seed demo data")

	// No API key: the summarizer stays in its disabled mode, which keeps
	// analysis tests deterministic
	analyzer := ai.NewAnalyzer(ai.NewGeminiClient("", cfg.Gemini.Model))
	svc := service.NewDefaultService(store, analyzer, cfg.Auth.JWTSecret)
	handler := api.NewHandler(svc, t.TempDir())

	gin.SetMode(gin.TestMode)
	router := gin.Default()

	// Add middleware for JWT secret
	router.Use(func(c *gin.Context) {
		c.Set("jwtSecret", []byte(cfg.Auth.JWTSecret))
		c.Next()
	})

	handler.SetupRoutes(router)

	return &TestContext{
		Router:      router,
		Store:       store,
		Service:     svc,
		JWTSecret:   []byte(cfg.Auth.JWTSecret),
		DB:          db,
		AdminJWT:    SignJWT(t, cfg.Auth.JWTSecret, 1, "admin", models.RoleAdmin),
		CustomerJWT: SignJWT(t, cfg.Auth.JWTSecret, 2, "STARKINDUSTRIES", models.RoleCustomer),
	}
}

// CleanupTestContext cleans up test resources
func CleanupTestContext(t *TestContext) {
	if t.DB != nil {
		t.DB.Close()
	}
}

// SignJWT issues a token for the given user, the same way the service does
func SignJWT(t *testing.T, secret string, userID int64, username string, role models.Role) string {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":      strconv.FormatInt(userID, 10),
		"username": username,
		"role":     string(role),
		"exp":      time.Now().Add(24 * time.Hour).Unix(),
		"iat":      time.Now().Unix(),
	})

	tokenString, err := token.SignedString([]byte(secret))
	assert.NoError(t, err, "Failed to generate JWT token")

	return tokenString
}

// PerformRequest executes an HTTP request against the router
func PerformRequest(r http.Handler, method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer

	if body != nil {
		jsonBody, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(jsonBody)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req, _ := http.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// AuthHeaders returns headers with Authorization token
func AuthHeaders(token string) map[string]string {
	return map[string]string{
		"Authorization": fmt.Sprintf("Bearer %s", token),
	}
}
