package session

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dmitrijs2005/orderdesk/internal/client/client"
	"github.com/dmitrijs2005/orderdesk/internal/client/credstore"
	"github.com/dmitrijs2005/orderdesk/internal/client/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---- fakes ----

type fakeStore struct {
	*credstore.MemoryStore
	getErr    error
	setErr    error
	deleteErr error
	deletes   atomic.Int32
}

func newFakeStore() *fakeStore {
	return &fakeStore{MemoryStore: credstore.NewMemoryStore()}
}

func (f *fakeStore) Get(ctx context.Context, key string) (string, bool, error) {
	if f.getErr != nil {
		return "", false, f.getErr
	}
	return f.MemoryStore.Get(ctx, key)
}

func (f *fakeStore) Set(ctx context.Context, key, value string) error {
	if f.setErr != nil {
		return f.setErr
	}
	return f.MemoryStore.Set(ctx, key, value)
}

func (f *fakeStore) Delete(ctx context.Context, key string) error {
	f.deletes.Add(1)
	if f.deleteErr != nil {
		return f.deleteErr
	}
	return f.MemoryStore.Delete(ctx, key)
}

func (f *fakeStore) stored(t *testing.T) (models.User, bool) {
	t.Helper()
	raw, ok, err := f.MemoryStore.Get(context.Background(), "user")
	require.NoError(t, err)
	if !ok {
		return nil, false
	}
	var u models.User
	require.NoError(t, json.Unmarshal([]byte(raw), &u))
	return u, true
}

func (f *fakeStore) put(t *testing.T, raw string) {
	t.Helper()
	require.NoError(t, f.MemoryStore.Set(context.Background(), "user", raw))
}

type fakeValidator struct {
	user   models.User
	err    error
	calls  atomic.Int32
	tokens []string
	mu     sync.Mutex
	gate   chan struct{}
}

func (f *fakeValidator) Me(ctx context.Context, token string) (models.User, error) {
	f.calls.Add(1)
	f.mu.Lock()
	f.tokens = append(f.tokens, token)
	f.mu.Unlock()
	if f.gate != nil {
		<-f.gate
	}
	return f.user, f.err
}

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "42",
		ExpiresAt: jwt.NewNumericDate(exp),
	})
	s, err := tok.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return s
}

// ---- tests ----

func TestNewManager_StartsLoading(t *testing.T) {
	m := NewManager(newFakeStore())
	assert.True(t, m.Loading())
	assert.False(t, m.IsAuthenticated())
	assert.Nil(t, m.User())
}

func TestInitialize_NothingStored(t *testing.T) {
	v := &fakeValidator{}
	m := NewManager(newFakeStore(), WithValidator(v))

	m.Initialize(context.Background())

	assert.False(t, m.Loading())
	assert.False(t, m.IsAuthenticated())
	assert.Zero(t, v.calls.Load())
	select {
	case <-m.Ready():
	default:
		t.Fatal("Ready not closed after Initialize")
	}
}

func TestLogin_PersistsUserWithToken(t *testing.T) {
	store := newFakeStore()
	m := NewManager(store)
	m.Initialize(context.Background())

	resp := models.AuthResponse{Token: "T", User: models.User{"email": "a@b.com"}}
	require.NoError(t, m.Login(context.Background(), resp.SessionUser()))

	assert.True(t, m.IsAuthenticated())
	assert.Equal(t, "T", m.Token())

	stored, ok := store.stored(t)
	require.True(t, ok)
	assert.Equal(t, models.User{"email": "a@b.com", "token": "T"}, stored)
}

func TestLogin_RequiresToken(t *testing.T) {
	store := newFakeStore()
	m := NewManager(store)

	err := m.Login(context.Background(), models.User{"email": "a@b.com"})
	require.ErrorIs(t, err, ErrNoToken)
	assert.False(t, m.IsAuthenticated())

	_, ok := store.stored(t)
	assert.False(t, ok)
}

func TestLogin_LastWriteWins(t *testing.T) {
	store := newFakeStore()
	m := NewManager(store)
	ctx := context.Background()

	require.NoError(t, m.Login(ctx, models.User{"token": "A"}))
	require.NoError(t, m.Login(ctx, models.User{"token": "B", "email": "b@b.com"}))

	assert.Equal(t, "B", m.Token())
	stored, _ := store.stored(t)
	assert.Equal(t, "B", stored.Token())
}

func TestLogin_PersistFailureKeepsInMemoryUser(t *testing.T) {
	store := newFakeStore()
	store.setErr = errors.New("disk full")
	m := NewManager(store)

	err := m.Login(context.Background(), models.User{"token": "T"})
	require.Error(t, err)
	assert.ErrorIs(t, err, store.setErr)

	assert.True(t, m.IsAuthenticated())
	assert.Equal(t, "T", m.Token())
}

func TestLogin_CallerMapIsCopied(t *testing.T) {
	m := NewManager(newFakeStore())
	u := models.User{"token": "T"}
	require.NoError(t, m.Login(context.Background(), u))

	u["token"] = "mutated"
	assert.Equal(t, "T", m.Token())

	got := m.User()
	got["token"] = "mutated"
	assert.Equal(t, "T", m.Token())
}

func TestLogout_ClearsMemoryAndStore(t *testing.T) {
	store := newFakeStore()
	m := NewManager(store)
	ctx := context.Background()

	require.NoError(t, m.Login(ctx, models.User{"token": "T"}))
	require.NoError(t, m.Logout(ctx))

	assert.False(t, m.IsAuthenticated())
	assert.Empty(t, m.Token())
	_, ok := store.stored(t)
	assert.False(t, ok)
}

func TestLogout_StoreErrorStillClearsMemory(t *testing.T) {
	store := newFakeStore()
	m := NewManager(store)
	ctx := context.Background()
	require.NoError(t, m.Login(ctx, models.User{"token": "T"}))

	store.deleteErr = errors.New("locked")
	require.Error(t, m.Logout(ctx))
	assert.False(t, m.IsAuthenticated())
}

func TestSetUser_DoesNotPersist(t *testing.T) {
	store := newFakeStore()
	m := NewManager(store)

	m.SetUser(models.User{"token": "T", "email": "a@b.com"})
	assert.True(t, m.IsAuthenticated())

	_, ok := store.stored(t)
	assert.False(t, ok)

	m.SetUser(nil)
	assert.False(t, m.IsAuthenticated())
	m.SetUser(models.User{})
	assert.False(t, m.IsAuthenticated())
}

func TestInitialize_RehydratesAndRevalidates(t *testing.T) {
	store := newFakeStore()
	store.put(t, `{"email":"old@b.com","token":"T"}`)
	v := &fakeValidator{user: models.User{"email": "a@b.com", "name": "Ann"}}

	m := NewManager(store, WithValidator(v))
	m.Initialize(context.Background())

	assert.True(t, m.IsAuthenticated())
	assert.False(t, m.Loading())
	assert.Equal(t, models.User{"email": "a@b.com", "name": "Ann", "token": "T"}, m.User())
	assert.Equal(t, []string{"T"}, v.tokens)
}

func TestInitialize_WithoutRevalidation(t *testing.T) {
	store := newFakeStore()
	store.put(t, `{"email":"a@b.com","token":"T"}`)
	v := &fakeValidator{err: client.ErrUnavailable}

	m := NewManager(store, WithValidator(v), WithRevalidation(false))
	m.Initialize(context.Background())

	assert.True(t, m.IsAuthenticated())
	assert.Zero(t, v.calls.Load())
}

func TestInitialize_RejectedTokenIsForgotten(t *testing.T) {
	store := newFakeStore()
	store.put(t, `{"token":"T"}`)
	v := &fakeValidator{err: &client.APIError{StatusCode: 401, Message: "expired"}}

	m := NewManager(store, WithValidator(v))
	m.Initialize(context.Background())

	assert.False(t, m.IsAuthenticated())
	_, ok := store.stored(t)
	assert.False(t, ok)
}

func TestInitialize_UnreachableServerLogsOutButKeepsStore(t *testing.T) {
	store := newFakeStore()
	store.put(t, `{"token":"T"}`)
	v := &fakeValidator{err: client.ErrUnavailable}

	m := NewManager(store, WithValidator(v))
	m.Initialize(context.Background())

	assert.False(t, m.IsAuthenticated())
	assert.False(t, m.Loading())
	_, ok := store.stored(t)
	assert.True(t, ok)
}

func TestInitialize_DiscardsBadEntries(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "corrupt json", raw: `{not json`},
		{name: "no token", raw: `{"email":"a@b.com"}`},
		{name: "null", raw: `null`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeStore()
			store.put(t, tt.raw)
			v := &fakeValidator{}

			m := NewManager(store, WithValidator(v))
			m.Initialize(context.Background())

			assert.False(t, m.IsAuthenticated())
			assert.Zero(t, v.calls.Load())
			_, ok, _ := store.MemoryStore.Get(context.Background(), "user")
			assert.False(t, ok)
		})
	}
}

func TestInitialize_ExpiredJWTSkipsServer(t *testing.T) {
	now := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)
	store := newFakeStore()
	blob, _ := json.Marshal(models.User{"token": signedToken(t, now.Add(-time.Minute))})
	store.put(t, string(blob))
	v := &fakeValidator{}

	m := NewManager(store, WithValidator(v), WithClock(func() time.Time { return now }))
	m.Initialize(context.Background())

	assert.False(t, m.IsAuthenticated())
	assert.Zero(t, v.calls.Load())
	_, ok := store.stored(t)
	assert.False(t, ok)
}

func TestInitialize_ValidJWTIsRevalidated(t *testing.T) {
	now := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)
	store := newFakeStore()
	blob, _ := json.Marshal(models.User{"token": signedToken(t, now.Add(time.Hour))})
	store.put(t, string(blob))
	v := &fakeValidator{user: models.User{"email": "a@b.com"}}

	m := NewManager(store, WithValidator(v), WithClock(func() time.Time { return now }))
	m.Initialize(context.Background())

	assert.True(t, m.IsAuthenticated())
	assert.Equal(t, int32(1), v.calls.Load())
}

func TestInitialize_StoreUnreadable(t *testing.T) {
	store := newFakeStore()
	store.getErr = errors.New("io error")

	m := NewManager(store)
	m.Initialize(context.Background())

	assert.False(t, m.IsAuthenticated())
	assert.False(t, m.Loading())
}

func TestInitialize_RunsOnce(t *testing.T) {
	store := newFakeStore()
	store.put(t, `{"token":"T"}`)
	v := &fakeValidator{user: models.User{}}

	m := NewManager(store, WithValidator(v))

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.Initialize(context.Background())
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), v.calls.Load())
	assert.True(t, m.IsAuthenticated())
}

func TestInitialize_LoginDuringRehydrationWins(t *testing.T) {
	store := newFakeStore()
	store.put(t, `{"email":"old@b.com","token":"OLD"}`)
	v := &fakeValidator{user: models.User{"email": "old@b.com"}, gate: make(chan struct{})}

	m := NewManager(store, WithValidator(v))

	done := make(chan struct{})
	go func() {
		m.Initialize(context.Background())
		close(done)
	}()

	require.Eventually(t, func() bool { return v.calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	assert.True(t, m.Loading())

	require.NoError(t, m.Login(context.Background(), models.User{"email": "new@b.com", "token": "NEW"}))
	close(v.gate)
	<-done

	assert.Equal(t, "NEW", m.Token())
	assert.False(t, m.Loading())
	stored, _ := store.stored(t)
	assert.Equal(t, "NEW", stored.Token())
}

func TestInitialize_RejectedTokenKeepsConcurrentLogin(t *testing.T) {
	store := newFakeStore()
	store.put(t, `{"token":"OLD"}`)
	v := &fakeValidator{err: &client.APIError{StatusCode: 401}, gate: make(chan struct{})}

	m := NewManager(store, WithValidator(v))

	done := make(chan struct{})
	go func() {
		m.Initialize(context.Background())
		close(done)
	}()

	require.Eventually(t, func() bool { return v.calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	require.NoError(t, m.Login(context.Background(), models.User{"token": "NEW"}))
	close(v.gate)
	<-done

	assert.Equal(t, "NEW", m.Token())
	stored, ok := store.stored(t)
	require.True(t, ok)
	assert.Equal(t, "NEW", stored.Token())
	assert.Zero(t, store.deletes.Load())
}

func TestInitialize_LogoutDuringRehydrationWins(t *testing.T) {
	store := newFakeStore()
	store.put(t, `{"token":"OLD"}`)
	v := &fakeValidator{user: models.User{}, gate: make(chan struct{})}

	m := NewManager(store, WithValidator(v))

	done := make(chan struct{})
	go func() {
		m.Initialize(context.Background())
		close(done)
	}()

	require.Eventually(t, func() bool { return v.calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	require.NoError(t, m.Logout(context.Background()))
	close(v.gate)
	<-done

	assert.False(t, m.IsAuthenticated())
}

func TestTokenExpired(t *testing.T) {
	now := time.Now()
	assert.False(t, tokenExpired("opaque-token", now))
	assert.False(t, tokenExpired(signedToken(t, now.Add(time.Hour)), now))
	assert.True(t, tokenExpired(signedToken(t, now.Add(-time.Hour)), now))

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "1"}).SignedString([]byte("k"))
	require.NoError(t, err)
	assert.False(t, tokenExpired(noExp, now))
}
