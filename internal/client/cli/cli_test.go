package cli

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/jobcache/internal/client/api"
	"github.com/iudanet/jobcache/internal/client/collection"
	"github.com/iudanet/jobcache/internal/client/storage"
	"github.com/iudanet/jobcache/internal/models"
)

func TestCli_Run_UnknownCommand(t *testing.T) {
	f := newFixture(t)

	err := f.cli.Run(context.Background(), []string{"frobnicate"})
	require.ErrorIs(t, err, ErrUnknownCommand)
	assert.Contains(t, err.Error(), "frobnicate")
}

func TestCli_Run_NoArgsPrintsUsage(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.cli.Run(context.Background(), nil))
	assert.Contains(t, f.out.String(), "Usage:")
	assert.Contains(t, f.out.String(), "orders, clients, services, workers")
}

func TestCli_Register(t *testing.T) {
	f := newFixture(t, "alice", testPassword, testPassword)

	require.NoError(t, f.cli.Run(context.Background(), []string{"register"}))
	assert.Contains(t, f.out.String(), "Registration successful")
	assert.Contains(t, f.out.String(), "User ID: "+testUserID)
}

func TestCli_Register_PasswordMismatch(t *testing.T) {
	f := newFixture(t, "alice", testPassword, "something else entirely")

	err := f.cli.Run(context.Background(), []string{"register"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "passwords do not match")
}

func TestCli_Login_WarmsCache(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "alice", testPassword)

	require.NoError(t, f.cli.Run(ctx, []string{"login"}))

	out := f.out.String()
	assert.Contains(t, out, "Login successful")
	assert.Contains(t, out, "Username: alice")
	for _, name := range models.Collections() {
		assert.Contains(t, out, "Cached 0 "+name)

		_, ok, err := f.store.GetLastSync(ctx, name)
		require.NoError(t, err)
		assert.True(t, ok, "%s should be synced after login", name)
	}

	saved, err := f.store.GetAuth(ctx)
	require.NoError(t, err)
	assert.Equal(t, testUserID, saved.UserID)
}

func TestCli_Login_WrongPassword(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "alice", "not the password")

	err := f.cli.Run(ctx, []string{"login"})
	require.ErrorIs(t, err, api.ErrUnauthorized)

	_, err = f.store.GetAuth(ctx)
	assert.ErrorIs(t, err, storage.ErrAuthNotFound)
}

func TestCli_RequiresSession(t *testing.T) {
	f := newFixture(t)

	for _, args := range [][]string{
		{"list", "orders"},
		{"get", "orders", "x"},
		{"add", "orders", "title=x"},
		{"update", "orders", "x", "title=y"},
		{"delete", "orders", "x"},
		{"sync"},
		{"export", "orders", filepath.Join(t.TempDir(), "out.json")},
	} {
		err := f.cli.Run(context.Background(), args)
		require.Error(t, err, args)
		assert.Contains(t, err.Error(), "not authenticated", args)
	}
}

func TestCli_UnknownCollection(t *testing.T) {
	f := newFixture(t)
	f.signIn(t)

	err := f.cli.Run(context.Background(), []string{"list", "invoices"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown collection "invoices"`)
}

func TestCli_AddListGet(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.signIn(t)

	require.NoError(t, f.cli.Run(ctx, []string{"add", "orders", "title=Fix roof", "status=new", "total=120.5"}))
	id := f.createdID(t)

	record, ok := f.server.record(models.CollectionOrders, id)
	require.True(t, ok)
	assert.Equal(t, "Fix roof", record["title"])
	assert.InDelta(t, 120.5, record["total"], 0.001)

	f.out.Reset()
	require.NoError(t, f.cli.Run(ctx, []string{"list", "orders"}))
	out := f.out.String()
	assert.Contains(t, out, "=== orders ===")
	assert.Contains(t, out, "Fix roof")
	assert.Contains(t, out, "120.50")
	assert.Contains(t, out, "1 record(s)")
	assert.NotContains(t, out, "not yet confirmed")

	f.out.Reset()
	require.NoError(t, f.cli.Run(ctx, []string{"get", "orders", id}))

	var got models.Order
	require.NoError(t, json.Unmarshal([]byte(f.out.String()), &got))
	assert.Equal(t, id, got.ID)
	assert.Equal(t, "Fix roof", got.Title)
	assert.Equal(t, models.OrderStatusNew, got.Status)
}

func TestCli_Add_InvalidFields(t *testing.T) {
	f := newFixture(t)
	f.signIn(t)

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{name: "unknown field", args: []string{"add", "orders", "colour=red"}, wantErr: `unknown field "colour"`},
		{name: "not a number", args: []string{"add", "orders", "total=lots"}, wantErr: "expected number"},
		{name: "server field", args: []string{"add", "orders", "owner_id=u2"}, wantErr: "managed by the server"},
		{name: "missing value", args: []string{"add", "orders", "title"}, wantErr: "expected key=value"},
		{name: "no fields", args: []string{"add", "orders"}, wantErr: "usage"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := f.cli.Run(context.Background(), tt.args)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	assert.Zero(t, f.server.count(models.CollectionOrders))
}

func TestCli_Add_ServerDownRollsBack(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.signIn(t)
	f.server.down.Store(true)

	err := f.cli.Run(ctx, []string{"add", "clients", "name=Acme Ltd"})
	require.ErrorIs(t, err, collection.ErrMutationFailed)

	f.out.Reset()
	require.NoError(t, f.cli.Run(ctx, []string{"list", "clients"}))
	assert.Contains(t, f.out.String(), "server unavailable")
	assert.Contains(t, f.out.String(), "No clients found.")
}

func TestCli_List_OfflineServesCache(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.signIn(t)

	require.NoError(t, f.cli.Run(ctx, []string{"add", "workers", "name=Bob", "role=plumber", "active=true"}))

	f.server.down.Store(true)
	f.out.Reset()
	require.NoError(t, f.cli.Run(ctx, []string{"list", "workers", "--refresh"}))

	out := f.out.String()
	assert.Contains(t, out, "Warning: server unavailable, showing cached data")
	assert.Contains(t, out, "Bob")
	assert.Contains(t, out, "plumber")
	assert.Contains(t, out, "yes")
}

func TestCli_Update(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.signIn(t)

	require.NoError(t, f.cli.Run(ctx, []string{"add", "orders", "title=Paint fence", "status=new"}))
	id := f.createdID(t)

	require.NoError(t, f.cli.Run(ctx, []string{"update", "orders", id, "status=completed"}))
	assert.Contains(t, f.out.String(), "Updated orders record "+id)

	record, ok := f.server.record(models.CollectionOrders, id)
	require.True(t, ok)
	assert.Equal(t, models.OrderStatusCompleted, record["status"])
	assert.Equal(t, "Paint fence", record["title"])
}

func TestCli_Delete(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.signIn(t)

	require.NoError(t, f.cli.Run(ctx, []string{"add", "services", "name=Drain cleaning", "price=80"}))
	id := f.createdID(t)

	require.NoError(t, f.cli.Run(ctx, []string{"delete", "services", id}))
	assert.Zero(t, f.server.count(models.CollectionServices))

	f.out.Reset()
	require.NoError(t, f.cli.Run(ctx, []string{"list", "services"}))
	assert.Contains(t, f.out.String(), "No services found.")
}

func TestCli_Delete_NotFound(t *testing.T) {
	f := newFixture(t)
	f.signIn(t)

	err := f.cli.Run(context.Background(), []string{"delete", "orders", "b692f5c0-2d88-4aa1-a9e1-13aa6e4976d5"})
	require.ErrorIs(t, err, collection.ErrMutationFailed)
	assert.ErrorIs(t, err, api.ErrNotFound)
}

func TestCli_Sync(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.signIn(t)

	require.NoError(t, f.cli.Run(ctx, []string{"sync"}))
	out := f.out.String()
	assert.Contains(t, out, "All collections synchronized")
	for _, name := range models.Collections() {
		assert.Contains(t, out, name)
	}

	f.server.down.Store(true)
	f.out.Reset()
	err := f.cli.Run(ctx, []string{"sync", "orders"})
	require.ErrorIs(t, err, collection.ErrFetchFailed)
	assert.Contains(t, err.Error(), "synchronization failed")
	assert.Contains(t, f.out.String(), "failed")
	assert.NotContains(t, f.out.String(), "clients")
}

func TestCli_Export(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.signIn(t)

	require.NoError(t, f.cli.Run(ctx, []string{"add", "clients", "name=Acme Ltd", "email=office@acme.test"}))

	path := filepath.Join(t.TempDir(), "clients.json")
	require.NoError(t, f.cli.Run(ctx, []string{"export", "clients", path}))
	assert.Contains(t, f.out.String(), "Exported 1 clients record(s)")

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var exported struct {
		Collection string          `json:"collection"`
		Items      []models.Client `json:"items"`
	}
	require.NoError(t, json.Unmarshal(data, &exported))
	assert.Equal(t, models.CollectionClients, exported.Collection)
	require.Len(t, exported.Items, 1)
	assert.Equal(t, "Acme Ltd", exported.Items[0].Name)
	assert.Equal(t, "office@acme.test", exported.Items[0].Email)
}

func TestCli_Logout_ClearsSessionAndCache(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.signIn(t)

	require.NoError(t, f.cli.Run(ctx, []string{"add", "orders", "title=Fix roof"}))

	records, err := f.store.GetAll(ctx, models.CollectionOrders)
	require.NoError(t, err)
	require.Len(t, records, 1)

	require.NoError(t, f.cli.Run(ctx, []string{"logout"}))
	assert.Contains(t, f.out.String(), "Logged out")

	_, err = f.store.GetAuth(ctx)
	require.ErrorIs(t, err, storage.ErrAuthNotFound)

	records, err = f.store.GetAll(ctx, models.CollectionOrders)
	require.NoError(t, err)
	assert.Empty(t, records)

	_, synced, err := f.store.GetLastSync(ctx, models.CollectionOrders)
	require.NoError(t, err)
	assert.False(t, synced)
}

func TestCli_Status(t *testing.T) {
	ctx := context.Background()

	t.Run("signed out", func(t *testing.T) {
		f := newFixture(t)

		require.NoError(t, f.cli.Run(ctx, []string{"status"}))
		out := f.out.String()
		assert.Contains(t, out, "Session: not authenticated")
		assert.Contains(t, out, "Server:  ok (version test)")
		assert.Contains(t, out, "never")
	})

	t.Run("signed in and synced", func(t *testing.T) {
		f := newFixture(t)
		f.signIn(t)
		require.NoError(t, f.cli.Run(ctx, []string{"sync"}))

		f.out.Reset()
		require.NoError(t, f.cli.Run(ctx, []string{"status"}))
		out := f.out.String()
		assert.Contains(t, out, "Session: alice (expires")
		assert.NotContains(t, out, "never")
		assert.NotContains(t, out, "waiting for server confirmation")
	})

	t.Run("server unreachable", func(t *testing.T) {
		f := newFixture(t)
		f.cli.apiClient = api.NewClient("http://127.0.0.1:0")

		require.NoError(t, f.cli.Run(ctx, []string{"status"}))
		assert.Contains(t, f.out.String(), "unreachable")
	})
}
