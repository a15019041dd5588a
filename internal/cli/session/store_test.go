package session

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nutribattle/nutribattle/internal/api"
)

// fakeAuthenticator accepts a single username/password pair
type fakeAuthenticator struct {
	username string
	password string
	token    string
	role     api.Role
	calls    int
}

func (f *fakeAuthenticator) Login(ctx context.Context, creds api.Credentials) (*api.AuthResponse, error) {
	f.calls++
	if creds.Username != f.username || creds.Password != f.password {
		return nil, errors.New("Invalid credentials")
	}
	return &api.AuthResponse{
		AccessToken: f.token,
		TokenType:   "Bearer",
		ID:          7,
		Username:    creds.Username,
		FullName:    "Alice Example",
		Role:        f.role,
	}, nil
}

func (f *fakeAuthenticator) Signup(ctx context.Context, req api.SignupRequest) (*api.AuthResponse, error) {
	f.calls++
	return &api.AuthResponse{
		AccessToken: f.token,
		ID:          8,
		Username:    req.Username,
		Email:       req.Email,
		FullName:    req.FullName,
		Role:        api.RoleUser,
	}, nil
}

// failingStorage fails every operation
type failingStorage struct{}

func (failingStorage) Read(string) (string, error)      { return "", errors.New("disk on fire") }
func (failingStorage) WriteAll(map[string]string) error { return errors.New("disk on fire") }
func (failingStorage) DeleteAll(...string) error        { return errors.New("disk on fire") }

func newAlice() *fakeAuthenticator {
	return &fakeAuthenticator{username: "alice", password: "secret", token: "tok-alice", role: api.RoleUser}
}

func TestStore_LoginLogoutTransitions(t *testing.T) {
	storage := NewMemoryStorage()
	store := Open(storage, WithAuthenticator(newAlice()))

	require.False(t, store.IsAuthenticated())
	_, ok := store.CurrentUser()
	require.False(t, ok)

	sess, err := store.Login(context.Background(), api.Credentials{Username: "alice", Password: "secret"})
	require.NoError(t, err)
	assert.Equal(t, "tok-alice", sess.Token)

	assert.True(t, store.IsAuthenticated())
	user, ok := store.CurrentUser()
	require.True(t, ok)
	assert.Equal(t, "alice", user.Username)
	assert.False(t, store.IsAdmin())

	// Persisted together
	token, err := storage.Read(KeyToken)
	require.NoError(t, err)
	assert.Equal(t, "tok-alice", token)
	_, err = storage.Read(KeyUser)
	require.NoError(t, err)

	require.NoError(t, store.Logout())
	assert.False(t, store.IsAuthenticated())
	_, ok = store.CurrentUser()
	assert.False(t, ok)

	_, err = storage.Read(KeyToken)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = storage.Read(KeyUser)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_FailedLoginLeavesSessionUntouched(t *testing.T) {
	store := Open(NewMemoryStorage(), WithAuthenticator(newAlice()))

	_, err := store.Login(context.Background(), api.Credentials{Username: "alice", Password: "wrong"})
	require.Error(t, err)
	assert.Equal(t, "Invalid credentials", err.Error())
	assert.False(t, store.IsAuthenticated())

	// An existing session survives a failed re-login
	_, err = store.Login(context.Background(), api.Credentials{Username: "alice", Password: "secret"})
	require.NoError(t, err)
	_, err = store.Login(context.Background(), api.Credentials{Username: "alice", Password: "nope"})
	require.Error(t, err)
	assert.Equal(t, "tok-alice", store.Token())
}

func TestStore_AdminRole(t *testing.T) {
	auth := newAlice()
	auth.role = api.RoleAdmin
	store := Open(NewMemoryStorage(), WithAuthenticator(auth))

	assert.False(t, store.IsAdmin(), "no session is not an error, just not admin")

	_, err := store.Login(context.Background(), api.Credentials{Username: "alice", Password: "secret"})
	require.NoError(t, err)
	assert.True(t, store.IsAdmin())
}

func TestStore_Signup(t *testing.T) {
	store := Open(NewMemoryStorage())
	_, err := store.Signup(context.Background(), api.SignupRequest{Username: "bob"})
	assert.ErrorIs(t, err, ErrNoAuthenticator)

	store.Bind(newAlice())
	sess, err := store.Signup(context.Background(), api.SignupRequest{
		Username: "bob", Email: "bob@example.com", Password: "hunter22", FullName: "Bob",
	})
	require.NoError(t, err)
	assert.Equal(t, "bob", sess.User.Username)
	assert.True(t, sess.User.Enabled)
	assert.True(t, store.IsAuthenticated())
}

func TestStore_RestoresPersistedSession(t *testing.T) {
	storage := NewMemoryStorage()
	first := Open(storage, WithAuthenticator(newAlice()))
	_, err := first.Login(context.Background(), api.Credentials{Username: "alice", Password: "secret"})
	require.NoError(t, err)

	second := Open(storage)
	assert.True(t, second.IsAuthenticated())
	user, ok := second.CurrentUser()
	require.True(t, ok)
	assert.Equal(t, int64(7), user.ID)
}

func TestStore_ReloadSeesOtherStores(t *testing.T) {
	storage := NewMemoryStorage()
	reader := Open(storage)
	assert.False(t, reader.IsAuthenticated())

	writer := Open(storage, WithAuthenticator(newAlice()))
	_, err := writer.Login(context.Background(), api.Credentials{Username: "alice", Password: "secret"})
	require.NoError(t, err)
	assert.False(t, reader.IsAuthenticated(), "storage is read once on open")

	reader.Reload()
	assert.True(t, reader.IsAuthenticated())

	require.NoError(t, writer.Logout())
	reader.Reload()
	assert.False(t, reader.IsAuthenticated())
	_, ok := reader.CurrentUser()
	assert.False(t, ok)
}

func TestStore_PartialOrCorruptSessionIsLoggedOut(t *testing.T) {
	tests := []struct {
		name    string
		entries map[string]string
	}{
		{name: "token without user", entries: map[string]string{KeyToken: "tok"}},
		{name: "user without token", entries: map[string]string{KeyUser: `{"id":1,"username":"a","role":"USER"}`}},
		{name: "corrupted user", entries: map[string]string{KeyToken: "tok", KeyUser: "{not json"}},
		{name: "user missing required fields", entries: map[string]string{KeyToken: "tok", KeyUser: `{"fullName":"x"}`}},
		{name: "unknown role", entries: map[string]string{KeyToken: "tok", KeyUser: `{"id":1,"username":"a","role":"ROOT"}`}},
		{name: "empty token", entries: map[string]string{KeyToken: "", KeyUser: `{"id":1,"username":"a","role":"USER"}`}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storage := NewMemoryStorage()
			require.NoError(t, storage.WriteAll(tt.entries))

			var store *Store
			require.NotPanics(t, func() { store = Open(storage) })

			_, ok := store.CurrentUser()
			assert.False(t, ok)
			assert.False(t, store.IsAuthenticated())
			assert.False(t, store.IsAdmin())
		})
	}
}

func TestStore_UnreadableStorageIsLoggedOut(t *testing.T) {
	store := Open(failingStorage{}, WithAuthenticator(newAlice()))
	assert.False(t, store.IsAuthenticated())

	_, err := store.Login(context.Background(), api.Credentials{Username: "alice", Password: "secret"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to save session")
	assert.False(t, store.IsAuthenticated(), "a session that was not persisted must not be used")

	err = store.Logout()
	assert.Error(t, err)
	assert.False(t, store.IsAuthenticated())
}

func TestStore_Invalidate(t *testing.T) {
	store := Open(NewMemoryStorage(), WithAuthenticator(newAlice()))
	_, err := store.Login(context.Background(), api.Credentials{Username: "alice", Password: "secret"})
	require.NoError(t, err)

	assert.False(t, store.Invalidate(""))
	assert.False(t, store.Invalidate("tok-stale"), "a stale token must not clear a newer session")
	assert.True(t, store.IsAuthenticated())

	assert.True(t, store.Invalidate("tok-alice"))
	assert.False(t, store.IsAuthenticated())
	assert.False(t, store.Invalidate("tok-alice"), "clearing an empty session is a no-op")
}

func TestStore_ConcurrentInvalidateClearsOnce(t *testing.T) {
	store := Open(NewMemoryStorage(), WithAuthenticator(newAlice()))
	_, err := store.Login(context.Background(), api.Credentials{Username: "alice", Password: "secret"})
	require.NoError(t, err)

	var wg sync.WaitGroup
	var mu sync.Mutex
	cleared := 0
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if store.Invalidate("tok-alice") {
				mu.Lock()
				cleared++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, cleared)
}

func TestStore_TokenExpiry(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "alice",
		ExpiresAt: jwt.NewNumericDate(exp),
	}).SignedString([]byte("any-secret"))
	require.NoError(t, err)

	auth := newAlice()
	auth.token = signed
	store := Open(NewMemoryStorage(), WithAuthenticator(auth))

	_, ok := store.TokenExpiry()
	assert.False(t, ok)

	_, err = store.Login(context.Background(), api.Credentials{Username: "alice", Password: "secret"})
	require.NoError(t, err)

	got, ok := store.TokenExpiry()
	require.True(t, ok)
	assert.True(t, got.Equal(exp), "expiry = %v, want %v", got, exp)
}

func TestFileStorage_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sessions", "localhost_8080.json")
	storage := NewFileStorage(path)

	_, err := storage.Read(KeyToken)
	assert.ErrorIs(t, err, ErrNotFound)

	user, _ := json.Marshal(api.UserSummary{ID: 1, Username: "alice", Role: api.RoleUser})
	require.NoError(t, storage.WriteAll(map[string]string{KeyToken: "tok", KeyUser: string(user)}))

	store := Open(NewFileStorage(path))
	assert.True(t, store.IsAuthenticated())

	require.NoError(t, storage.DeleteAll(KeyToken, KeyUser))
	assert.NoFileExists(t, path)
	require.NoError(t, storage.DeleteAll(KeyToken, KeyUser), "deleting twice is a no-op")
}

func TestFileStorage_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("][ garbage"), 0600))

	storage := NewFileStorage(path)
	_, err := storage.Read(KeyToken)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)

	store := Open(storage)
	assert.False(t, store.IsAuthenticated())

	// A new login replaces the corrupt file
	require.NoError(t, storage.WriteAll(map[string]string{KeyToken: "tok"}))
	token, err := storage.Read(KeyToken)
	require.NoError(t, err)
	assert.Equal(t, "tok", token)
}

func TestSQLiteStorage_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")
	storage, err := OpenSQLiteStorage(path, "localhost_8080")
	require.NoError(t, err)
	defer storage.Close()

	other, err := OpenSQLiteStorage(path, "other_server")
	require.NoError(t, err)
	defer other.Close()

	store := Open(storage, WithAuthenticator(newAlice()))
	_, err = store.Login(context.Background(), api.Credentials{Username: "alice", Password: "secret"})
	require.NoError(t, err)

	// Overwrite keeps a single row per key
	_, err = store.Login(context.Background(), api.Credentials{Username: "alice", Password: "secret"})
	require.NoError(t, err)

	assert.True(t, Open(storage).IsAuthenticated())
	assert.False(t, Open(other).IsAuthenticated(), "sessions are scoped per server")

	require.NoError(t, store.Logout())
	assert.False(t, Open(storage).IsAuthenticated())
}
