package rest_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osanchezal/sgc-backend/internal/auth"
	"github.com/osanchezal/sgc-backend/internal/config"
	"github.com/osanchezal/sgc-backend/internal/domain"
	"github.com/osanchezal/sgc-backend/internal/notify"
	"github.com/osanchezal/sgc-backend/internal/service/records"
	"github.com/osanchezal/sgc-backend/internal/service/user"
	"github.com/osanchezal/sgc-backend/internal/store/local"
	"github.com/osanchezal/sgc-backend/internal/transport/middleware"
	"github.com/osanchezal/sgc-backend/internal/transport/rest"
)

const (
	testJWTSecret = "0123456789abcdef0123456789abcdef"
	adminEmail    = "admin@sgc.local"
	adminPassword = "clave-de-prueba"
)

// newTestServer wires the full HTTP stack over a local file store in a
// temp directory, with auth required.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	dir := t.TempDir()

	st, err := local.New(dir)
	require.NoError(t, err)
	users, err := local.NewUserStore(dir)
	require.NoError(t, err)

	jwt := auth.NewJWTManager(testJWTSecret, "sgc", time.Hour)
	userSvc := user.NewService(log, users, jwt)

	_, err = userSvc.EnsureAdmin(t.Context(), adminEmail, adminPassword)
	require.NoError(t, err)

	notifier := notify.New()
	t.Cleanup(notifier.Close)

	recordSvc := records.NewService(log, domain.DefaultRegistry(), st, notifier)

	cfg := config.Config{
		Server: config.ServerConfig{RateLimitPerMin: 10_000},
		Auth:   config.AuthConfig{Required: true},
		CORS: config.CORSConfig{
			AllowedOrigins: "*",
			AllowedMethods: "GET,POST,PUT,DELETE,OPTIONS",
			AllowedHeaders: "Authorization,Content-Type",
		},
	}

	limiter := middleware.NewRateLimiter(time.Minute)
	t.Cleanup(limiter.Stop)

	handler := rest.NewRouter(
		log,
		cfg,
		rest.NewRecordsHandler(recordSvc, log),
		rest.NewAuthHandler(userSvc, log),
		rest.NewHealthHandler(st, "test"),
		userSvc,
		limiter,
	)

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func login(t *testing.T, srv *httptest.Server) string {
	t.Helper()

	body, _ := json.Marshal(map[string]string{"email": adminEmail, "password": adminPassword})
	resp, err := http.Post(srv.URL+"/api/auth/login", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.NotEmpty(t, out.AccessToken)
	return out.AccessToken
}

func doJSON(t *testing.T, srv *httptest.Server, token, method, path string, body any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, srv.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

type recordDTO struct {
	ID        int64          `json:"id"`
	Fields    map[string]any `json:"fields"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt *time.Time     `json:"updated_at"`
}

type listDTO struct {
	Items      []recordDTO `json:"items"`
	Page       int         `json:"page"`
	PageSize   int         `json:"page_size"`
	TotalItems int         `json:"total_items"`
	TotalPages int         `json:"total_pages"`
}

func TestRouter_RequiresAuth(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/mejoras")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Health probes stay open.
	resp, err = http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRouter_CRUDLifecycle(t *testing.T) {
	srv := newTestServer(t)
	token := login(t, srv)

	// Create.
	resp := doJSON(t, srv, token, http.MethodPost, "/api/mejoras", map[string]any{
		"fields": map[string]any{"titulo": "Reducir mermas", "estado": "abierta"},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decodeBody[recordDTO](t, resp)
	assert.Equal(t, int64(1), created.ID)
	assert.Equal(t, "Reducir mermas", created.Fields["titulo"])
	assert.False(t, created.CreatedAt.IsZero())
	assert.Nil(t, created.UpdatedAt)

	// Get.
	resp = doJSON(t, srv, token, http.MethodGet, "/api/mejoras/1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Update.
	resp = doJSON(t, srv, token, http.MethodPut, "/api/mejoras/1", map[string]any{
		"fields": map[string]any{"titulo": "Reducir mermas", "estado": "cerrada"},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	updated := decodeBody[recordDTO](t, resp)
	assert.Equal(t, "cerrada", updated.Fields["estado"])
	assert.NotNil(t, updated.UpdatedAt)

	// Delete.
	resp = doJSON(t, srv, token, http.MethodDelete, "/api/mejoras/1", nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = doJSON(t, srv, token, http.MethodGet, "/api/mejoras/1", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// Deleting again is still a success: removal is permissive.
	resp = doJSON(t, srv, token, http.MethodDelete, "/api/mejoras/1", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestRouter_ListFilterAndPagination(t *testing.T) {
	srv := newTestServer(t)
	token := login(t, srv)

	for i := 0; i < 7; i++ {
		estado := "abierta"
		if i >= 4 {
			estado = "cerrada"
		}
		resp := doJSON(t, srv, token, http.MethodPost, "/api/mejoras", map[string]any{
			"fields": map[string]any{"titulo": fmt.Sprintf("Mejora %d", i), "estado": estado},
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	resp := doJSON(t, srv, token, http.MethodGet, "/api/mejoras?category=abierta&page=1&page_size=3", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	page := decodeBody[listDTO](t, resp)
	assert.Equal(t, 4, page.TotalItems)
	assert.Equal(t, 2, page.TotalPages)
	assert.Len(t, page.Items, 3)

	// Search over configured fields.
	resp = doJSON(t, srv, token, http.MethodGet, "/api/mejoras?q=mejora+5", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	page = decodeBody[listDTO](t, resp)
	assert.Equal(t, 1, page.TotalItems)

	// Page beyond the end clamps to the last one.
	resp = doJSON(t, srv, token, http.MethodGet, "/api/mejoras?page=99&page_size=3", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	page = decodeBody[listDTO](t, resp)
	assert.Equal(t, 3, page.Page)
}

func TestRouter_ValidationDetails(t *testing.T) {
	srv := newTestServer(t)
	token := login(t, srv)

	resp := doJSON(t, srv, token, http.MethodPost, "/api/mejoras", map[string]any{
		"fields": map[string]any{},
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body struct {
		Error   string `json:"error"`
		Details []struct {
			Field   string `json:"field"`
			Message string `json:"message"`
		} `json:"details"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.NotEmpty(t, body.Details)
	assert.Equal(t, "fields", body.Details[0].Field)
}

func TestRouter_UnknownEntity(t *testing.T) {
	srv := newTestServer(t)
	token := login(t, srv)

	resp := doJSON(t, srv, token, http.MethodGet, "/api/inexistente", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRouter_LoginRejectsBadPassword(t *testing.T) {
	srv := newTestServer(t)

	body, _ := json.Marshal(map[string]string{"email": adminEmail, "password": "incorrecta"})
	resp, err := http.Post(srv.URL+"/api/auth/login", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRouter_EntitiesAndStats(t *testing.T) {
	srv := newTestServer(t)
	token := login(t, srv)

	resp := doJSON(t, srv, token, http.MethodGet, "/api/entities", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	entities := decodeBody[[]map[string]any](t, resp)
	require.NotEmpty(t, entities)
	assert.Equal(t, "mejoras", entities[0]["name"])

	resp = doJSON(t, srv, token, http.MethodPost, "/api/personal", map[string]any{
		"fields": map[string]any{"nombre": "Ana"},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = doJSON(t, srv, token, http.MethodGet, "/api/stats", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	stats := decodeBody[map[string]int](t, resp)
	assert.Equal(t, 1, stats["personal"])
}
