package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/jobcache/internal/client/api"
	"github.com/iudanet/jobcache/internal/client/auth"
	"github.com/iudanet/jobcache/internal/client/collection"
	"github.com/iudanet/jobcache/internal/client/iocli"
	"github.com/iudanet/jobcache/internal/client/storage"
	"github.com/iudanet/jobcache/internal/client/storage/boltdb"
	"github.com/iudanet/jobcache/internal/models"
	pkgapi "github.com/iudanet/jobcache/pkg/api"
)

const (
	testUserID   = "user-1"
	testPassword = "correct horse battery"
)

// fakeServer минимальный сервер записей в памяти
type fakeServer struct {
	records map[string]map[string]map[string]any
	down    atomic.Bool
	mu      sync.Mutex
}

func newFakeServer(t *testing.T) (*fakeServer, *httptest.Server) {
	s := &fakeServer{records: make(map[string]map[string]map[string]any)}
	for _, name := range models.Collections() {
		s.records[name] = make(map[string]map[string]any)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, pkgapi.HealthResponse{Status: "ok", Version: "test"})
	})
	mux.HandleFunc("POST /api/v1/auth/register", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusCreated, pkgapi.RegisterResponse{UserID: testUserID, Message: "registered"})
	})
	mux.HandleFunc("POST /api/v1/auth/login", s.login(t))
	mux.HandleFunc("GET /api/v1/{collection}", s.guard(s.list))
	mux.HandleFunc("POST /api/v1/{collection}", s.guard(s.create))
	mux.HandleFunc("PATCH /api/v1/{collection}/{id}", s.guard(s.update))
	mux.HandleFunc("DELETE /api/v1/{collection}/{id}", s.guard(s.remove))

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return s, server
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *fakeServer) login(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req pkgapi.LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Password != testPassword {
			writeJSON(w, http.StatusUnauthorized, pkgapi.ErrorResponse{Error: "unauthorized", Message: "invalid credentials"})
			return
		}
		writeJSON(w, http.StatusOK, pkgapi.TokenResponse{
			AccessToken: signToken(t, time.Now().Add(time.Hour)),
			UserID:      testUserID,
			ExpiresIn:   3600,
		})
	}
}

// guard отклоняет запросы без токена и имитирует недоступный сервер
func (s *fakeServer) guard(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.down.Load() {
			writeJSON(w, http.StatusServiceUnavailable, pkgapi.ErrorResponse{Error: "unavailable"})
			return
		}
		if !strings.HasPrefix(r.Header.Get("Authorization"), "Bearer ") {
			writeJSON(w, http.StatusUnauthorized, pkgapi.ErrorResponse{Error: "unauthorized"})
			return
		}
		next(w, r)
	}
}

func (s *fakeServer) list(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := slices.Collect(maps.Values(s.records[r.PathValue("collection")]))
	writeJSON(w, http.StatusOK, pkgapi.ListResponse[map[string]any]{Items: items})
}

func (s *fakeServer) create(w http.ResponseWriter, r *http.Request) {
	var fields map[string]any
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		writeJSON(w, http.StatusBadRequest, pkgapi.ErrorResponse{Error: err.Error()})
		return
	}
	fields["id"] = uuid.NewString()
	fields["owner_id"] = testUserID

	s.mu.Lock()
	s.records[r.PathValue("collection")][fields["id"].(string)] = fields
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, fields)
}

func (s *fakeServer) update(w http.ResponseWriter, r *http.Request) {
	var patch map[string]any
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeJSON(w, http.StatusBadRequest, pkgapi.ErrorResponse{Error: err.Error()})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.records[r.PathValue("collection")][r.PathValue("id")]
	if !ok {
		writeJSON(w, http.StatusNotFound, pkgapi.ErrorResponse{Error: "not found"})
		return
	}
	maps.Copy(record, patch)
	writeJSON(w, http.StatusOK, record)
}

func (s *fakeServer) remove(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := s.records[r.PathValue("collection")]
	if _, ok := records[r.PathValue("id")]; !ok {
		writeJSON(w, http.StatusNotFound, pkgapi.ErrorResponse{Error: "not found"})
		return
	}
	delete(records, r.PathValue("id"))
	w.WriteHeader(http.StatusNoContent)
}

func (s *fakeServer) record(collection, id string) (map[string]any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.records[collection][id]
	return record, ok
}

func (s *fakeServer) count(collection string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.records[collection])
}

func signToken(t *testing.T, expiresAt time.Time) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   testUserID,
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	})
	signed, err := token.SignedString([]byte("test-secret-test-secret-test-secret"))
	require.NoError(t, err)
	return signed
}

// output собирает всё, что CLI печатает
type output struct {
	b  strings.Builder
	mu sync.Mutex
}

func (o *output) write(s string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.b.WriteString(s)
}

func (o *output) String() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.b.String()
}

func (o *output) Reset() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.b.Reset()
}

// newIO возвращает IOMock, который отвечает на запросы ввода строками inputs по порядку
func newIO(out *output, inputs ...string) *iocli.IOMock {
	var mu sync.Mutex
	next := func(prompt string) (string, error) {
		mu.Lock()
		defer mu.Unlock()
		out.write(prompt)
		if len(inputs) == 0 {
			return "", io.EOF
		}
		line := inputs[0]
		inputs = inputs[1:]
		return line, nil
	}

	return &iocli.IOMock{
		PrintlnFunc: func(a ...any) {
			out.write(fmt.Sprintln(a...))
		},
		PrintfFunc: func(format string, a ...any) {
			out.write(fmt.Sprintf(format, a...))
		},
		WriteFunc: func(p []byte) (int, error) {
			out.write(string(p))
			return len(p), nil
		},
		ReadInputFunc:    next,
		ReadPasswordFunc: next,
	}
}

type fixture struct {
	cli    *Cli
	io     *iocli.IOMock
	server *fakeServer
	store  *boltdb.Storage
	out    *output
}

func newFixture(t *testing.T, inputs ...string) *fixture {
	t.Helper()
	ctx := context.Background()

	server, httpServer := newFakeServer(t)

	store, err := boltdb.Open(ctx, filepath.Join(t.TempDir(), "cache.db"), models.Collections())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	session := auth.NewSession(store)
	apiClient := api.NewClient(httpServer.URL, api.WithTokenSource(session))

	deps := collection.Deps{
		Principal:     session,
		Store:         store,
		Logger:        logger,
		CoalesceDelay: time.Millisecond,
	}

	out := &output{}
	mockIO := newIO(out, inputs...)

	cli := New(Deps{
		IO:          mockIO,
		APIClient:   apiClient,
		AuthService: auth.NewService(apiClient, store),
		Session:     session,
		Logger:      logger,
		Collections: Collections{
			Orders:   collection.NewOrders(api.NewResource[models.Order](apiClient, models.CollectionOrders), deps),
			Clients:  collection.NewClients(api.NewResource[models.Client](apiClient, models.CollectionClients), deps),
			Services: collection.NewServices(api.NewResource[models.Service](apiClient, models.CollectionServices), deps),
			Workers:  collection.NewWorkers(api.NewResource[models.Worker](apiClient, models.CollectionWorkers), deps),
		},
	})

	return &fixture{cli: cli, io: mockIO, server: server, store: store, out: out}
}

// signIn сохраняет сессию, как после успешного login
func (f *fixture) signIn(t *testing.T) {
	t.Helper()

	require.NoError(t, f.store.SaveAuth(context.Background(), &storage.AuthData{
		Username:    "alice",
		UserID:      testUserID,
		AccessToken: signToken(t, time.Now().Add(time.Hour)),
		ExpiresAt:   time.Now().Add(time.Hour).Unix(),
	}))
}

// createdID извлекает ID из сообщения об успешном создании
func (f *fixture) createdID(t *testing.T) string {
	t.Helper()

	out := f.out.String()
	idx := strings.LastIndex(out, " record ")
	require.NotEqual(t, -1, idx, "no created record in output: %s", out)
	return strings.TrimSpace(out[idx+len(" record "):])
}
