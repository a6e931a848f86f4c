package server

import (
	"context"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	clientapi "github.com/iudanet/jobcache/internal/client/api"
	"github.com/iudanet/jobcache/internal/models"
	"github.com/iudanet/jobcache/internal/server/handlers"
	"github.com/iudanet/jobcache/internal/server/storage/sqlstore"
	"github.com/iudanet/jobcache/pkg/api"
)

const testPassword = "correct horse battery"

type staticToken string

func (t staticToken) AccessToken(ctx context.Context) (string, error) {
	return string(t), nil
}

func testConfig() Config {
	return Config{
		Addr:    "127.0.0.1:0",
		Version: "test",
		JWT: handlers.JWTConfig{
			Secret:         []byte("test-secret-key-with-enough-bytes"),
			AccessTokenTTL: time.Hour,
		},
		RateLimit:  1000,
		RateWindow: time.Minute,
	}
}

func setupTestServer(t *testing.T, cfg Config) *httptest.Server {
	t.Helper()

	store, err := sqlstore.Open(context.Background(), sqlstore.DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := New(cfg, store, prometheus.NewRegistry(), logger)
	t.Cleanup(srv.Close)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	return ts
}

func signUp(t *testing.T, baseURL, username string) *api.TokenResponse {
	t.Helper()
	ctx := context.Background()

	client := clientapi.NewClient(baseURL)
	_, err := client.Register(ctx, api.RegisterRequest{Username: username, Password: testPassword})
	require.NoError(t, err)

	token, err := client.Login(ctx, api.LoginRequest{Username: username, Password: testPassword})
	require.NoError(t, err)
	return token
}

func TestServer_RecordsRoundTrip(t *testing.T) {
	ctx := context.Background()
	ts := setupTestServer(t, testConfig())

	token := signUp(t, ts.URL, "alice")
	client := clientapi.NewClient(ts.URL, clientapi.WithTokenSource(staticToken(token.AccessToken)))
	orders := clientapi.NewResource[models.Order](client, models.CollectionOrders)

	created, err := orders.Create(ctx, models.Order{ID: "tmp-1", Title: "Fix roof", Status: models.OrderStatusNew, Total: 250})
	require.NoError(t, err)
	assert.NotEqual(t, "tmp-1", created.ID)
	assert.Equal(t, token.UserID, created.OwnerID)
	assert.False(t, created.CreatedAt.IsZero())

	updated, err := orders.Update(ctx, created.ID, models.Patch{"status": models.OrderStatusCompleted})
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCompleted, updated.Status)
	assert.Equal(t, "Fix roof", updated.Title)
	assert.InDelta(t, 250.0, updated.Total, 0.001)

	list, err := orders.List(ctx, token.UserID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, updated.ID, list[0].ID)
	assert.Equal(t, models.OrderStatusCompleted, list[0].Status)

	require.NoError(t, orders.Delete(ctx, created.ID))

	err = orders.Delete(ctx, created.ID)
	assert.ErrorIs(t, err, clientapi.ErrNotFound)

	list, err = orders.List(ctx, token.UserID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestServer_OwnerIsolation(t *testing.T) {
	ctx := context.Background()
	ts := setupTestServer(t, testConfig())

	alice := signUp(t, ts.URL, "alice")
	bob := signUp(t, ts.URL, "bob")

	aliceClients := clientapi.NewResource[models.Client](
		clientapi.NewClient(ts.URL, clientapi.WithTokenSource(staticToken(alice.AccessToken))), models.CollectionClients)
	bobClients := clientapi.NewResource[models.Client](
		clientapi.NewClient(ts.URL, clientapi.WithTokenSource(staticToken(bob.AccessToken))), models.CollectionClients)

	created, err := aliceClients.Create(ctx, models.Client{Name: "Acme"})
	require.NoError(t, err)

	list, err := bobClients.List(ctx, bob.UserID)
	require.NoError(t, err)
	assert.Empty(t, list)

	// Чужой owner в запросе запрещен
	_, err = bobClients.List(ctx, alice.UserID)
	assert.ErrorContains(t, err, "403")

	_, err = bobClients.Update(ctx, created.ID, models.Patch{"name": "Stolen"})
	assert.ErrorIs(t, err, clientapi.ErrNotFound)
}

func TestServer_RequiresToken(t *testing.T) {
	ts := setupTestServer(t, testConfig())

	orders := clientapi.NewResource[models.Order](clientapi.NewClient(ts.URL), models.CollectionOrders)
	_, err := orders.List(context.Background(), "someone")
	assert.ErrorIs(t, err, clientapi.ErrUnauthorized)
}

func TestServer_HealthAndMetrics(t *testing.T) {
	ts := setupTestServer(t, testConfig())

	health, err := clientapi.NewClient(ts.URL).Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, "test", health.Version)

	resp, err := http.Get(ts.URL + "/api/v1/invoices")
	require.NoError(t, err)
	_ = resp.Body.Close()

	resp, err = http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "jobcache_http_requests_total")
	assert.Contains(t, string(body), `route="/api/v1/health"`)
}

func TestServer_AuthRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimit = 50 // вход и регистрация получают 5 запросов в окно
	ts := setupTestServer(t, cfg)

	var lastCode int
	for i := 0; i < 6; i++ {
		resp, err := http.Post(ts.URL+"/api/v1/auth/login", "application/json",
			strings.NewReader(`{"username":"nobody","password":"wrong password"}`))
		require.NoError(t, err)
		lastCode = resp.StatusCode
		_ = resp.Body.Close()
	}

	assert.Equal(t, http.StatusTooManyRequests, lastCode)
}

func TestServer_RunAndShutdown(t *testing.T) {
	store, err := sqlstore.Open(context.Background(), sqlstore.DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	// Занимаем свободный порт и сразу освобождаем его для сервера
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := lis.Addr().String()
	require.NoError(t, lis.Close())

	cfg := testConfig()
	cfg.Addr = addr
	srv := New(cfg, store, prometheus.NewRegistry(), slog.New(slog.NewTextHandler(io.Discard, nil)))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	client := clientapi.NewClient("http://" + addr)
	require.Eventually(t, func() bool {
		_, err := client.Health(context.Background())
		return err == nil
	}, 2*time.Second, 20*time.Millisecond)

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
