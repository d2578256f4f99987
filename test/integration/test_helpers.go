//go:build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"go-checklist-api/internal/app"
	"go-checklist-api/internal/config"
	"go-checklist-api/internal/database"
	"go-checklist-api/internal/repository"
)

// The suite runs against a disposable PostgreSQL database named by
// INTEGRATION_DATABASE_URL. Every test starts from empty tables.
func testConfig(t *testing.T) *config.Config {
	t.Helper()

	url := os.Getenv("INTEGRATION_DATABASE_URL")
	if url == "" {
		t.Skip("INTEGRATION_DATABASE_URL not set")
	}

	return &config.Config{
		ServerPort:            "8080",
		RequestTimeout:        10 * time.Second,
		MaxBodyBytes:          1 << 20,
		StorageDriver:         config.StorageDriverPostgres,
		DatabaseURL:           url,
		DBMaxConns:            5,
		DBMinConns:            1,
		DBConnectTimeout:      5 * time.Second,
		JWTSecret:             "integration-secret",
		JWTTTL:                time.Hour,
		BcryptCost:            bcrypt.MinCost,
		SessionCookieName:     "jwt",
		SessionCookieSameSite: "lax",
		CORSOrigins:           []string{"*"},
		RateLimitRPM:          1000,
		AuthRateLimitRPM:      1000,
		OpenAPISpec:           "../../docs/openapi.yaml",
	}
}

func openDatabase(t *testing.T, cfg *config.Config) *database.DB {
	t.Helper()

	ctx := context.Background()
	db, err := database.New(ctx, database.Options{
		URL:            cfg.DatabaseURL,
		MaxConns:       cfg.DBMaxConns,
		MinConns:       cfg.DBMinConns,
		ConnectTimeout: cfg.DBConnectTimeout,
	})
	require.NoError(t, err)
	t.Cleanup(db.Close)

	require.NoError(t, db.EnsureSchema(ctx))
	_, err = db.Pool.Exec(ctx, `TRUNCATE checklist_items, checklists, users RESTART IDENTITY CASCADE`)
	require.NoError(t, err)

	return db
}

func newServerWithConfig(t *testing.T, cfg *config.Config) (*httptest.Server, *database.DB) {
	t.Helper()

	db := openDatabase(t, cfg)
	h, err := app.NewHandler(cfg, app.Stores{
		Users:      repository.NewUserRepository(db.Pool),
		Checklists: repository.NewChecklistRepository(db.Pool),
		Items:      repository.NewChecklistItemRepository(db.Pool),
		DB:         db,
	})
	require.NoError(t, err)

	server := httptest.NewServer(h)
	t.Cleanup(server.Close)
	return server, db
}

func newServer(t *testing.T) (*httptest.Server, *database.DB) {
	t.Helper()
	return newServerWithConfig(t, testConfig(t))
}

func registerUser(t *testing.T, serverURL string, username string, isAdmin bool) int64 {
	t.Helper()

	resp := doJSONRequest(t, http.MethodPost, serverURL+"/api/auth/register", map[string]any{
		"name":     username,
		"username": username,
		"email":    username + "@example.com",
		"password": "Password123!",
		"isAdmin":  isAdmin,
	}, "")
	t.Cleanup(func() { _ = resp.Body.Close() })
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var parsed struct {
		Data struct {
			ID int64 `json:"id"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&parsed))
	return parsed.Data.ID
}

func loginUser(t *testing.T, serverURL string, username string) string {
	t.Helper()

	resp := doJSONRequest(t, http.MethodPost, serverURL+"/api/auth/login", map[string]string{
		"username": username,
		"password": "Password123!",
	}, "")
	t.Cleanup(func() { _ = resp.Body.Close() })
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var parsed struct {
		Success bool `json:"success"`
		Data    struct {
			JWT string `json:"jwt"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&parsed))
	require.True(t, parsed.Success)
	require.NotEmpty(t, parsed.Data.JWT)

	return parsed.Data.JWT
}

func doJSONRequest(t *testing.T, method string, url string, body any, token string) *http.Response {
	t.Helper()

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		require.NoError(t, err)
	}

	req, err := http.NewRequest(method, url, bytes.NewReader(payload))
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decodeErrorCode(t *testing.T, resp *http.Response) string {
	t.Helper()

	var parsed struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&parsed))
	return parsed.Error.Code
}
