package collection

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/jobcache/internal/client/storage"
	"github.com/iudanet/jobcache/internal/client/storage/boltdb"
	"github.com/iudanet/jobcache/internal/models"
)

const testOwner = "user-1"

var errNetwork = errors.New("network is unreachable")

// fakeClock управляемые часы, общие для хранилища и тестов
type fakeClock struct {
	now time.Time
	mu  sync.Mutex
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// memoryServer хранит записи "сервера" и отдает их через RemoteMock
type memoryServer struct {
	items  map[string]models.Order
	nextID int
	mu     sync.Mutex
}

func newMemoryServer(items ...models.Order) *memoryServer {
	s := &memoryServer{items: make(map[string]models.Order), nextID: 100}
	for _, item := range items {
		s.items[item.ID] = item
	}
	return s
}

func (s *memoryServer) list() []models.Order {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Order, 0, len(s.items))
	for _, item := range s.items {
		out = append(out, item)
	}
	return out
}

func (s *memoryServer) remote() *RemoteMock[models.Order] {
	return &RemoteMock[models.Order]{
		ListFunc: func(ctx context.Context, ownerID string) ([]models.Order, error) {
			return s.list(), nil
		},
		CreateFunc: func(ctx context.Context, item models.Order) (models.Order, error) {
			s.mu.Lock()
			defer s.mu.Unlock()
			s.nextID++
			item.ID = strconv.Itoa(s.nextID)
			s.items[item.ID] = item
			return item, nil
		},
		UpdateFunc: func(ctx context.Context, id string, patch models.Patch) (models.Order, error) {
			s.mu.Lock()
			defer s.mu.Unlock()
			updated, err := models.ApplyPatch(s.items[id], patch)
			if err != nil {
				return models.Order{}, err
			}
			s.items[id] = updated
			return updated, nil
		},
		DeleteFunc: func(ctx context.Context, id string) error {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.items, id)
			return nil
		},
	}
}

type fixture struct {
	store  *boltdb.Storage
	clock  *fakeClock
	remote *RemoteMock[models.Order]
	coll   *Collection[models.Order]
}

func signedIn() *PrincipalResolverMock {
	return &PrincipalResolverMock{
		PrincipalFunc: func(ctx context.Context) (string, bool, error) {
			return testOwner, true, nil
		},
	}
}

func newFixture(t *testing.T, remote *RemoteMock[models.Order], principal PrincipalResolver, configure ...func(*Deps)) *fixture {
	t.Helper()

	clock := &fakeClock{now: time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)}
	store, err := boltdb.Open(context.Background(), filepath.Join(t.TempDir(), "cache.db"),
		models.Collections(), boltdb.WithClock(clock.Now))
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, store.Close())
	})

	deps := Deps{
		Principal:     principal,
		Store:         store,
		Logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
		CoalesceDelay: time.Millisecond,
	}
	for _, fn := range configure {
		fn(&deps)
	}

	return &fixture{
		store:  store,
		clock:  clock,
		remote: remote,
		coll:   NewOrders(remote, deps),
	}
}

var sortByID = cmpopts.SortSlices(func(a, b models.Order) bool { return a.ID < b.ID })

func assertItems(t *testing.T, want, got []models.Order) {
	t.Helper()
	if diff := cmp.Diff(want, got, sortByID, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("items mismatch (-want +got):\n%s", diff)
	}
}

func TestCollection_Fetch_ColdStart(t *testing.T) {
	ctx := context.Background()
	server := newMemoryServer(
		models.Order{ID: "1", Title: "Fix sink"},
		models.Order{ID: "2", Title: "Paint wall"},
	)
	f := newFixture(t, server.remote(), signedIn())

	state, err := f.coll.Fetch(ctx, false)
	require.NoError(t, err)

	assertItems(t, server.list(), state.Items)
	assert.Empty(t, state.Err)
	assert.False(t, state.Loading)
	assert.False(t, state.Refreshing)

	// Записи сохранены в локальном хранилище, коллекция свежая
	all, err := f.store.GetAll(ctx, models.CollectionOrders)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	stale, err := f.store.IsStale(ctx, models.CollectionOrders, storage.DefaultMaxAge)
	require.NoError(t, err)
	assert.False(t, stale)

	require.Len(t, f.remote.ListCalls(), 1)
	assert.Equal(t, testOwner, f.remote.ListCalls()[0].OwnerID)
}

func TestCollection_Fetch_OfflineFallback(t *testing.T) {
	ctx := context.Background()
	remote := &RemoteMock[models.Order]{
		ListFunc: func(ctx context.Context, ownerID string) ([]models.Order, error) {
			return nil, errNetwork
		},
	}
	f := newFixture(t, remote, signedIn())

	require.NoError(t, f.store.Set(ctx, models.CollectionOrders, "1", []byte(`{"id":"1","title":"X"}`), ""))
	require.NoError(t, f.store.SetLastSync(ctx, models.CollectionOrders))
	f.clock.Advance(6 * time.Minute)

	state, err := f.coll.Fetch(ctx, false)
	require.NoError(t, err)

	assertItems(t, []models.Order{{ID: "1", Title: "X"}}, state.Items)
	assert.NotEmpty(t, state.Err)
	assert.Contains(t, state.Err, "network is unreachable")
	assert.False(t, state.Loading)

	_, err = f.coll.FetchStrict(ctx, true)
	assert.ErrorIs(t, err, ErrFetchFailed)
	assert.ErrorIs(t, err, errNetwork)
}

func TestCollection_Fetch_FailureWithEmptyCache(t *testing.T) {
	remote := &RemoteMock[models.Order]{
		ListFunc: func(ctx context.Context, ownerID string) ([]models.Order, error) {
			return nil, errNetwork
		},
	}
	f := newFixture(t, remote, signedIn())

	state, err := f.coll.Fetch(context.Background(), false)
	require.NoError(t, err)
	assert.Empty(t, state.Items)
	assert.NotEmpty(t, state.Err)
}

func TestCollection_Fetch_UsesCacheWhileFresh(t *testing.T) {
	ctx := context.Background()
	server := newMemoryServer(models.Order{ID: "1", Title: "Fix sink"})
	f := newFixture(t, server.remote(), signedIn())

	_, err := f.coll.Fetch(ctx, false)
	require.NoError(t, err)

	// Ровно maxAge: еще свежая
	f.clock.Advance(storage.DefaultMaxAge)
	state, err := f.coll.Fetch(ctx, false)
	require.NoError(t, err)
	assert.Len(t, f.remote.ListCalls(), 1)
	assertItems(t, []models.Order{{ID: "1", Title: "Fix sink"}}, state.Items)

	f.clock.Advance(time.Millisecond)
	_, err = f.coll.Fetch(ctx, false)
	require.NoError(t, err)
	assert.Len(t, f.remote.ListCalls(), 2)

	// force игнорирует свежесть
	_, err = f.coll.Fetch(ctx, true)
	require.NoError(t, err)
	assert.Len(t, f.remote.ListCalls(), 3)
}

func TestCollection_Fetch_CustomMaxAge(t *testing.T) {
	ctx := context.Background()
	server := newMemoryServer(models.Order{ID: "1"})
	f := newFixture(t, server.remote(), signedIn(), func(d *Deps) {
		d.MaxAge = time.Minute
	})

	_, err := f.coll.Fetch(ctx, false)
	require.NoError(t, err)
	assert.False(t, f.coll.IsStale(ctx))

	f.clock.Advance(2 * time.Minute)
	assert.True(t, f.coll.IsStale(ctx))

	last, ok := f.coll.LastSync(ctx)
	assert.True(t, ok)
	assert.True(t, f.clock.Now().Add(-2*time.Minute).Equal(last))
}

func TestCollection_Fetch_NoPrincipal(t *testing.T) {
	server := newMemoryServer(models.Order{ID: "1"})
	principal := &PrincipalResolverMock{
		PrincipalFunc: func(ctx context.Context) (string, bool, error) {
			return "", false, nil
		},
	}
	f := newFixture(t, server.remote(), principal)

	state, err := f.coll.Fetch(context.Background(), true)
	require.NoError(t, err)

	assert.Empty(t, state.Items)
	assert.Empty(t, state.Err)
	assert.Empty(t, f.remote.ListCalls())
}

func TestCollection_Fetch_PrincipalError(t *testing.T) {
	server := newMemoryServer(models.Order{ID: "1"})
	principal := &PrincipalResolverMock{
		PrincipalFunc: func(ctx context.Context) (string, bool, error) {
			return "", false, errors.New("auth storage corrupted")
		},
	}
	f := newFixture(t, server.remote(), principal)

	state, err := f.coll.FetchStrict(context.Background(), true)
	assert.ErrorIs(t, err, ErrFetchFailed)
	assert.Contains(t, state.Err, "auth storage corrupted")
	assert.False(t, state.Loading)
	assert.Empty(t, f.remote.ListCalls())
}

func TestCollection_Fetch_ConcurrentCallsCoalesced(t *testing.T) {
	server := newMemoryServer(models.Order{ID: "1"})
	f := newFixture(t, server.remote(), signedIn(), func(d *Deps) {
		d.CoalesceDelay = 50 * time.Millisecond
	})

	var wg sync.WaitGroup
	for range 3 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.coll.Fetch(context.Background(), true)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Len(t, f.remote.ListCalls(), 1)
	assertItems(t, []models.Order{{ID: "1"}}, f.coll.Items())
}

// blockingList отдает снимок сервера, сделанный до блокировки, пока не закрыт release
func blockingList(server *memoryServer, started, release chan struct{}) func(context.Context, string) ([]models.Order, error) {
	var once sync.Once
	return func(ctx context.Context, ownerID string) ([]models.Order, error) {
		blocked := false
		once.Do(func() { blocked = true })
		if !blocked {
			return server.list(), nil
		}

		snapshot := server.list()
		close(started)
		<-release
		return snapshot, nil
	}
}

func TestCollection_Delete_DuringInFlightFetch(t *testing.T) {
	ctx := context.Background()
	server := newMemoryServer(
		models.Order{ID: "1", Title: "Fix sink"},
		models.Order{ID: "2", Title: "Paint wall"},
	)
	f := newFixture(t, server.remote(), signedIn())

	_, err := f.coll.Fetch(ctx, true)
	require.NoError(t, err)

	started := make(chan struct{})
	release := make(chan struct{})
	f.remote.ListFunc = blockingList(server, started, release)

	fetchDone := make(chan error, 1)
	go func() {
		_, err := f.coll.Fetch(ctx, true)
		fetchDone <- err
	}()
	<-started

	// Запрос списка в полете видел запись "1" до удаления
	deleteDone := make(chan error, 1)
	go func() {
		deleteDone <- f.coll.Delete(ctx, "1")
	}()

	select {
	case err := <-deleteDone:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Delete did not return while another fetch was in flight")
	}
	assertItems(t, []models.Order{{ID: "2", Title: "Paint wall"}}, f.coll.Items())

	close(release)
	select {
	case err := <-fetchDone:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Fetch did not return")
	}

	// Устаревший список не возвращает удаленную запись ни в Items, ни в кэш
	assertItems(t, []models.Order{{ID: "2", Title: "Paint wall"}}, f.coll.Items())
	_, err = f.store.Get(ctx, models.CollectionOrders, "1")
	assert.ErrorIs(t, err, storage.ErrRecordNotFound)

	state, err := f.coll.Fetch(ctx, false)
	require.NoError(t, err)
	assertItems(t, []models.Order{{ID: "2", Title: "Paint wall"}}, state.Items)
	assert.False(t, state.Loading)
}

func TestCollection_Create_DuringInFlightFetch(t *testing.T) {
	ctx := context.Background()
	server := newMemoryServer(models.Order{ID: "1", Title: "Fix sink"})
	f := newFixture(t, server.remote(), signedIn())

	_, err := f.coll.Fetch(ctx, true)
	require.NoError(t, err)

	started := make(chan struct{})
	release := make(chan struct{})
	f.remote.ListFunc = blockingList(server, started, release)

	fetchDone := make(chan error, 1)
	go func() {
		_, err := f.coll.Fetch(ctx, true)
		fetchDone <- err
	}()
	<-started

	created, err := f.coll.Create(ctx, models.Order{Title: "New order"})
	require.NoError(t, err)

	close(release)
	require.NoError(t, <-fetchDone)

	assertItems(t, []models.Order{
		{ID: "1", Title: "Fix sink"},
		created,
	}, f.coll.Items())
	_, err = f.store.Get(ctx, models.CollectionOrders, created.ID)
	assert.NoError(t, err)
}

func TestCollection_Fetch_CachedReadKeepsSyncInFlight(t *testing.T) {
	ctx := context.Background()
	server := newMemoryServer(models.Order{ID: "1", Title: "Fix sink"})
	f := newFixture(t, server.remote(), signedIn())

	_, err := f.coll.Fetch(ctx, true)
	require.NoError(t, err)
	firstSync, ok := f.coll.LastSync(ctx)
	require.True(t, ok)

	server.mu.Lock()
	server.items["2"] = models.Order{ID: "2", Title: "Paint wall"}
	server.mu.Unlock()
	f.clock.Advance(time.Minute)

	started := make(chan struct{})
	release := make(chan struct{})
	f.remote.ListFunc = blockingList(server, started, release)

	fetchDone := make(chan error, 1)
	go func() {
		_, err := f.coll.Fetch(ctx, true)
		fetchDone <- err
	}()
	<-started

	// Кэш еще свежий: чтение без синхронизации не отменяет запрос в полете
	state, err := f.coll.Fetch(ctx, false)
	require.NoError(t, err)
	assertItems(t, []models.Order{{ID: "1", Title: "Fix sink"}}, state.Items)

	close(release)
	require.NoError(t, <-fetchDone)

	assertItems(t, server.list(), f.coll.Items())
	all, err := f.store.GetAll(ctx, models.CollectionOrders)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	lastSync, ok := f.coll.LastSync(ctx)
	require.True(t, ok)
	assert.True(t, lastSync.After(firstSync))
	assert.False(t, f.coll.State().Loading)
}

func TestCollection_Fetch_CanceledCommitsNothing(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	remote := &RemoteMock[models.Order]{
		ListFunc: func(ctx context.Context, ownerID string) ([]models.Order, error) {
			close(started)
			<-release
			return []models.Order{{ID: "1"}}, nil
		},
	}
	f := newFixture(t, remote, signedIn())
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		_, err := f.coll.Fetch(ctx, true)
		errCh <- err
	}()

	<-started
	assert.True(t, f.coll.State().Refreshing)
	cancel()

	assert.ErrorIs(t, <-errCh, context.Canceled)

	state := f.coll.State()
	assert.Empty(t, state.Items)
	assert.Empty(t, state.Err)
	assert.False(t, state.Loading)
	assert.False(t, state.Refreshing)
}

func TestCollection_Fetch_SupersededResultDiscarded(t *testing.T) {
	ctx := context.Background()

	var (
		mu    sync.Mutex
		calls int
	)
	firstStarted := make(chan struct{})
	releaseFirst := make(chan struct{})
	remote := &RemoteMock[models.Order]{
		ListFunc: func(ctx context.Context, ownerID string) ([]models.Order, error) {
			mu.Lock()
			calls++
			n := calls
			mu.Unlock()

			if n == 1 {
				close(firstStarted)
				<-releaseFirst
				return []models.Order{{ID: "old"}}, nil
			}
			return []models.Order{{ID: "new"}}, nil
		},
	}
	f := newFixture(t, remote, signedIn())

	firstDone := make(chan struct{})
	go func() {
		defer close(firstDone)
		_, err := f.coll.Fetch(ctx, true)
		assert.NoError(t, err)
	}()
	<-firstStarted

	// Reset забывает запрос в полете, следующий fetch идет отдельным вызовом
	f.coll.Reset(ctx)
	_, err := f.coll.Fetch(ctx, true)
	require.NoError(t, err)
	assertItems(t, []models.Order{{ID: "new"}}, f.coll.Items())

	close(releaseFirst)
	<-firstDone

	assertItems(t, []models.Order{{ID: "new"}}, f.coll.Items())
	assert.False(t, f.coll.State().Loading)
}

func TestCollection_Create_OptimisticThenConfirmed(t *testing.T) {
	ctx := context.Background()

	created := make(chan struct{})
	release := make(chan struct{})
	server := newMemoryServer()
	remote := server.remote()
	remote.CreateFunc = func(ctx context.Context, item models.Order) (models.Order, error) {
		close(created)
		<-release
		item.ID = "42"
		server.mu.Lock()
		server.items[item.ID] = item
		server.mu.Unlock()
		return item, nil
	}
	f := newFixture(t, remote, signedIn())

	done := make(chan error, 1)
	go func() {
		_, err := f.coll.Create(ctx, models.Order{Title: "Y"})
		done <- err
	}()
	<-created

	// До ответа сервера запись видна под временным ID
	pending := f.coll.Pending()
	require.Len(t, pending, 1)
	var tempID string
	for id := range pending {
		tempID = id
	}
	assert.True(t, strings.HasPrefix(tempID, TempIDPrefix))
	assertItems(t, []models.Order{{ID: tempID, Title: "Y"}}, f.coll.Items())

	close(release)
	require.NoError(t, <-done)

	assert.Empty(t, f.coll.Pending())
	assertItems(t, []models.Order{{ID: "42", Title: "Y"}}, f.coll.Items())
	require.Len(t, remote.CreateCalls(), 1)
	assert.Empty(t, remote.CreateCalls()[0].Item.ID)
}

func TestCollection_Create_ConfirmedEntryKeptWhenRefetchFails(t *testing.T) {
	ctx := context.Background()
	server := newMemoryServer()
	remote := server.remote()
	remote.ListFunc = func(ctx context.Context, ownerID string) ([]models.Order, error) {
		return nil, errNetwork
	}
	f := newFixture(t, remote, signedIn())

	order, err := f.coll.Create(ctx, models.Order{Title: "Offline refetch"})
	require.NoError(t, err)

	// Подтвержденная запись остается в overlay и в кэше
	pending := f.coll.Pending()
	require.Contains(t, pending, order.ID)
	assert.False(t, pending[order.ID].InFlight)
	assertItems(t, []models.Order{order}, f.coll.Items())

	_, err = f.store.Get(ctx, models.CollectionOrders, order.ID)
	assert.NoError(t, err)
}

func TestCollection_Create_RollbackOnFailure(t *testing.T) {
	ctx := context.Background()
	server := newMemoryServer(models.Order{ID: "1", Title: "Fix sink"})
	remote := server.remote()
	remote.CreateFunc = func(ctx context.Context, item models.Order) (models.Order, error) {
		return models.Order{}, errNetwork
	}
	f := newFixture(t, remote, signedIn())

	_, err := f.coll.Fetch(ctx, true)
	require.NoError(t, err)

	_, err = f.coll.Create(ctx, models.Order{Title: "Will fail"})
	assert.ErrorIs(t, err, ErrMutationFailed)
	assert.ErrorIs(t, err, errNetwork)

	assert.Empty(t, f.coll.Pending())
	assertItems(t, []models.Order{{ID: "1", Title: "Fix sink"}}, f.coll.Items())
}

func TestCollection_Update_OptimisticAndRollback(t *testing.T) {
	ctx := context.Background()
	server := newMemoryServer(models.Order{ID: "1", Title: "Fix sink", Status: models.OrderStatusNew})

	started := make(chan struct{})
	release := make(chan struct{})
	remote := server.remote()
	remote.UpdateFunc = func(ctx context.Context, id string, patch models.Patch) (models.Order, error) {
		close(started)
		<-release
		return models.Order{}, errNetwork
	}
	f := newFixture(t, remote, signedIn())

	_, err := f.coll.Fetch(ctx, true)
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		_, err := f.coll.Update(ctx, "1", models.Patch{"status": models.OrderStatusScheduled})
		done <- err
	}()
	<-started

	// Патч виден сразу, остальные поля сохранены
	assertItems(t, []models.Order{{ID: "1", Title: "Fix sink", Status: models.OrderStatusScheduled}}, f.coll.Items())

	close(release)
	err = <-done
	assert.ErrorIs(t, err, ErrMutationFailed)

	assert.Empty(t, f.coll.Pending())
	assertItems(t, []models.Order{{ID: "1", Title: "Fix sink", Status: models.OrderStatusNew}}, f.coll.Items())
}

func TestCollection_Update_Confirmed(t *testing.T) {
	ctx := context.Background()
	server := newMemoryServer(models.Order{ID: "1", Title: "Fix sink", Total: 100})
	f := newFixture(t, server.remote(), signedIn())

	_, err := f.coll.Fetch(ctx, true)
	require.NoError(t, err)

	updated, err := f.coll.Update(ctx, "1", models.Patch{"total": 150.5})
	require.NoError(t, err)
	assert.Equal(t, 150.5, updated.Total)

	assert.Empty(t, f.coll.Pending())
	assertItems(t, []models.Order{{ID: "1", Title: "Fix sink", Total: 150.5}}, f.coll.Items())
	// Обновление после мутации принудительно синхронизирует коллекцию
	assert.Len(t, f.remote.ListCalls(), 2)
}

func TestCollection_Delete(t *testing.T) {
	ctx := context.Background()
	server := newMemoryServer(
		models.Order{ID: "1", Title: "Fix sink"},
		models.Order{ID: "2", Title: "Paint wall"},
	)
	f := newFixture(t, server.remote(), signedIn())

	_, err := f.coll.Fetch(ctx, true)
	require.NoError(t, err)

	require.NoError(t, f.coll.Delete(ctx, "1"))

	assertItems(t, []models.Order{{ID: "2", Title: "Paint wall"}}, f.coll.Items())
	_, err = f.store.Get(ctx, models.CollectionOrders, "1")
	assert.ErrorIs(t, err, storage.ErrRecordNotFound)

	// Чтение из кэша без синхронизации не возвращает удаленную запись
	state, err := f.coll.Fetch(ctx, false)
	require.NoError(t, err)
	assertItems(t, []models.Order{{ID: "2", Title: "Paint wall"}}, state.Items)
}

func TestCollection_Delete_Rollback(t *testing.T) {
	ctx := context.Background()
	server := newMemoryServer(models.Order{ID: "1", Title: "Fix sink"})
	remote := server.remote()
	remote.DeleteFunc = func(ctx context.Context, id string) error {
		return errNetwork
	}
	f := newFixture(t, remote, signedIn())

	_, err := f.coll.Fetch(ctx, true)
	require.NoError(t, err)

	err = f.coll.Delete(ctx, "1")
	assert.ErrorIs(t, err, ErrMutationFailed)

	assertItems(t, []models.Order{{ID: "1", Title: "Fix sink"}}, f.coll.Items())
	assert.Empty(t, f.coll.Pending())
}

func TestCollection_ReconcileKeepsInFlightCreate(t *testing.T) {
	ctx := context.Background()
	server := newMemoryServer(models.Order{ID: "1"})

	created := make(chan struct{})
	release := make(chan struct{})
	remote := server.remote()
	remote.CreateFunc = func(ctx context.Context, item models.Order) (models.Order, error) {
		close(created)
		<-release
		item.ID = "2"
		return item, nil
	}
	f := newFixture(t, remote, signedIn())

	done := make(chan error, 1)
	go func() {
		_, err := f.coll.Create(ctx, models.Order{Title: "slow"})
		done <- err
	}()
	<-created

	// Независимый fetch завершается, пока create еще в полете
	_, err := f.coll.Fetch(ctx, true)
	require.NoError(t, err)

	assert.Len(t, f.coll.Pending(), 1)
	assert.Len(t, f.coll.Items(), 2)

	close(release)
	require.NoError(t, <-done)
}

func TestCollection_OptimisticDisabled(t *testing.T) {
	ctx := context.Background()

	created := make(chan struct{})
	release := make(chan struct{})
	server := newMemoryServer()
	remote := server.remote()
	createOnServer := remote.CreateFunc
	remote.CreateFunc = func(ctx context.Context, item models.Order) (models.Order, error) {
		close(created)
		<-release
		return createOnServer(ctx, item)
	}
	f := newFixture(t, remote, signedIn(), func(d *Deps) {
		d.DisableOptimistic = true
	})

	done := make(chan error, 1)
	go func() {
		_, err := f.coll.Create(ctx, models.Order{Title: "no overlay"})
		done <- err
	}()
	<-created

	assert.Empty(t, f.coll.Pending())
	assert.Empty(t, f.coll.Items())

	close(release)
	require.NoError(t, <-done)

	assert.Empty(t, f.coll.Pending())
	assert.Len(t, f.coll.Items(), 1)
	assert.Len(t, remote.ListCalls(), 1)
}

func TestCollection_Reset(t *testing.T) {
	ctx := context.Background()
	server := newMemoryServer(models.Order{ID: "1"})
	f := newFixture(t, server.remote(), signedIn())

	_, err := f.coll.Fetch(ctx, true)
	require.NoError(t, err)

	f.coll.Reset(ctx)

	assert.Empty(t, f.coll.Items())
	assert.True(t, f.coll.IsStale(ctx))
	all, err := f.store.GetAll(ctx, models.CollectionOrders)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestCollection_DegradedStore(t *testing.T) {
	ctx := context.Background()
	server := newMemoryServer(models.Order{ID: "1", Title: "remote only"})

	coll := NewOrders(server.remote(), Deps{
		Principal:     signedIn(),
		Store:         storage.NewUnavailable(errors.New("disk full"), slog.New(slog.NewTextHandler(io.Discard, nil))),
		Logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
		CoalesceDelay: time.Millisecond,
	})

	state, err := coll.Fetch(ctx, false)
	require.NoError(t, err)
	assertItems(t, []models.Order{{ID: "1", Title: "remote only"}}, state.Items)

	// Без кэша каждый fetch идет на сервер
	_, err = coll.Fetch(ctx, false)
	require.NoError(t, err)
}
