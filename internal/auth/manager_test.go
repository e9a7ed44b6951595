package auth

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"farmwork-hub-go/internal/models"
)

// fakeService scripts TokenService behaviour per test.
type fakeService struct {
	loginFn   func(Credentials) (*Session, error)
	currentFn func(string) (*models.User, error)
	logouts   int
	mu        sync.Mutex
}

func (f *fakeService) Login(ctx context.Context, creds Credentials) (*Session, error) {
	return f.loginFn(creds)
}

func (f *fakeService) Register(ctx context.Context, data RegistrationData) (*Session, error) {
	return f.loginFn(Credentials{Email: data.Email, Password: data.Password})
}

func (f *fakeService) CurrentUser(ctx context.Context, token string) (*models.User, error) {
	if f.currentFn == nil {
		return nil, errors.New("not scripted")
	}
	return f.currentFn(token)
}

func (f *fakeService) Logout(ctx context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logouts++
	return nil
}

func (f *fakeService) ForgotPassword(ctx context.Context, email string) error { return nil }

func (f *fakeService) ResetPassword(ctx context.Context, resetToken, password string) error {
	return nil
}

func sessionFor(user *models.User, token string) func(Credentials) (*Session, error) {
	return func(Credentials) (*Session, error) {
		return &Session{User: user, Token: token}, nil
	}
}

func newTestManager(service TokenService) (*Manager, *MemoryKV) {
	store := NewMemoryKV()
	return NewManager(service, store, zap.NewNop().Sugar()), store
}

func TestLoginSuccessPersistsSession(t *testing.T) {
	user := testUser()
	manager, store := newTestManager(&fakeService{loginFn: sessionFor(user, "tok-1")})

	err := manager.Login(context.Background(), Credentials{Email: user.Email, Password: "pw"})
	require.NoError(t, err)

	state := manager.State()
	assert.True(t, state.IsAuthenticated)
	assert.Equal(t, "tok-1", state.Token)

	token, ok := store.Get(TokenKey)
	require.True(t, ok)
	assert.Equal(t, "tok-1", token)

	raw, ok := store.Get(UserKey)
	require.True(t, ok)
	var snapshot models.User
	require.NoError(t, json.Unmarshal([]byte(raw), &snapshot))
	assert.Equal(t, user.ID, snapshot.ID)
}

func TestLoginFailureProducesErrorState(t *testing.T) {
	service := &fakeService{loginFn: func(Credentials) (*Session, error) {
		return nil, errors.New("Invalid credentials")
	}}
	manager, store := newTestManager(service)

	err := manager.Login(context.Background(), Credentials{Email: "x@y.com", Password: "pw"})
	require.Error(t, err)

	state := manager.State()
	assert.False(t, state.IsAuthenticated)
	assert.Nil(t, state.User)
	assert.Empty(t, state.Token)
	assert.Equal(t, "Invalid credentials", state.Error)
	assert.False(t, state.IsLoading)

	_, ok := store.Get(TokenKey)
	assert.False(t, ok, "failed login must not persist a token")
}

func TestLogoutClearsStoreAndRevokesRemotely(t *testing.T) {
	user := testUser()
	service := &fakeService{loginFn: sessionFor(user, "tok-1")}
	manager, store := newTestManager(service)

	require.NoError(t, manager.Login(context.Background(), Credentials{}))
	manager.Logout(context.Background())

	assert.Equal(t, Anonymous(), manager.State())
	_, ok := store.Get(TokenKey)
	assert.False(t, ok)
	_, ok = store.Get(UserKey)
	assert.False(t, ok)
	assert.Equal(t, 1, service.logouts)
}

func TestUpdateUserRefreshesSnapshot(t *testing.T) {
	user := testUser()
	manager, store := newTestManager(&fakeService{loginFn: sessionFor(user, "tok-1")})
	require.NoError(t, manager.Login(context.Background(), Credentials{}))

	manager.UpdateUser(models.User{Bio: "Updated bio"})

	assert.Equal(t, "Updated bio", manager.State().User.Bio)
	raw, ok := store.Get(UserKey)
	require.True(t, ok)
	var snapshot models.User
	require.NoError(t, json.Unmarshal([]byte(raw), &snapshot))
	assert.Equal(t, "Updated bio", snapshot.Bio)
}

func TestRehydrateRestoresAndRevalidates(t *testing.T) {
	user := testUser()
	service := &fakeService{currentFn: func(token string) (*models.User, error) {
		if token != "tok-1" {
			return nil, errors.New("unknown token")
		}
		fresh := *user
		fresh.Bio = "fresh from the service"
		return &fresh, nil
	}}
	manager, store := newTestManager(service)

	raw, _ := json.Marshal(user)
	require.NoError(t, store.Set(TokenKey, "tok-1"))
	require.NoError(t, store.Set(UserKey, string(raw)))

	manager.Rehydrate(context.Background())

	state := manager.State()
	assert.True(t, state.IsAuthenticated)
	assert.Equal(t, "fresh from the service", state.User.Bio)
}

func TestRehydrateInvalidTokenFailsSilently(t *testing.T) {
	service := &fakeService{currentFn: func(string) (*models.User, error) {
		return nil, errors.New("session revoked")
	}}
	manager, store := newTestManager(service)

	require.NoError(t, store.Set(TokenKey, "tok-stale"))

	manager.Rehydrate(context.Background())

	state := manager.State()
	assert.Equal(t, Anonymous(), state, "rehydration failure must be silent, no error state")
	_, ok := store.Get(TokenKey)
	assert.False(t, ok, "stale token must be cleared")
}

func TestRehydrateSkipsExpiredJWTWithoutNetworkCall(t *testing.T) {
	called := false
	service := &fakeService{currentFn: func(string) (*models.User, error) {
		called = true
		return testUser(), nil
	}}
	manager, store := newTestManager(service)

	claims := jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	require.NoError(t, store.Set(TokenKey, token))

	manager.Rehydrate(context.Background())

	assert.False(t, called, "an expired token should not be sent to the service")
	assert.Equal(t, Anonymous(), manager.State())
	_, ok := store.Get(TokenKey)
	assert.False(t, ok)
}

func TestRehydrateOpaqueTokenStillValidated(t *testing.T) {
	user := testUser()
	service := &fakeService{currentFn: func(string) (*models.User, error) {
		return user, nil
	}}
	manager, store := newTestManager(service)
	require.NoError(t, store.Set(TokenKey, "opaque-not-a-jwt"))

	manager.Rehydrate(context.Background())

	assert.True(t, manager.State().IsAuthenticated)
}

func TestStaleLoginResultIsDropped(t *testing.T) {
	slowRelease := make(chan struct{})
	slowStarted := make(chan struct{})
	slowUser := &models.User{ID: "slow"}
	fastUser := &models.User{ID: "fast"}

	first := true
	var mu sync.Mutex
	service := &fakeService{loginFn: func(Credentials) (*Session, error) {
		mu.Lock()
		isFirst := first
		first = false
		mu.Unlock()
		if isFirst {
			close(slowStarted)
			<-slowRelease
			return &Session{User: slowUser, Token: "tok-slow"}, nil
		}
		return &Session{User: fastUser, Token: "tok-fast"}, nil
	}}
	manager, store := newTestManager(service)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = manager.Login(context.Background(), Credentials{Email: "slow@example.com"})
	}()

	<-slowStarted
	require.NoError(t, manager.Login(context.Background(), Credentials{Email: "fast@example.com"}))
	require.Equal(t, "fast", manager.State().User.ID)

	close(slowRelease)
	wg.Wait()

	// The superseded request's result must not overwrite the newer one,
	// in state or in the persisted session.
	state := manager.State()
	assert.Equal(t, "fast", state.User.ID)
	assert.Equal(t, "tok-fast", state.Token)
	token, ok := store.Get(TokenKey)
	require.True(t, ok)
	assert.Equal(t, "tok-fast", token)
}

func TestSubscribeSeesTransitions(t *testing.T) {
	user := testUser()
	manager, _ := newTestManager(&fakeService{loginFn: sessionFor(user, "tok-1")})

	var mu sync.Mutex
	var loadingSeen, authedSeen bool
	manager.Subscribe(func(s State) {
		mu.Lock()
		defer mu.Unlock()
		if s.IsLoading {
			loadingSeen = true
		}
		if s.IsAuthenticated {
			authedSeen = true
		}
	})

	require.NoError(t, manager.Login(context.Background(), Credentials{}))

	mu.Lock()
	defer mu.Unlock()
	assert.True(t, loadingSeen)
	assert.True(t, authedSeen)
}

func TestFileKVRoundTrip(t *testing.T) {
	path := t.TempDir() + "/session.json"
	store, err := NewFileKV(path)
	require.NoError(t, err)

	require.NoError(t, store.Set(TokenKey, "tok-1"))
	v, ok := store.Get(TokenKey)
	require.True(t, ok)
	assert.Equal(t, "tok-1", v)

	// A second store on the same path sees the persisted value.
	reopened, err := NewFileKV(path)
	require.NoError(t, err)
	v, ok = reopened.Get(TokenKey)
	require.True(t, ok)
	assert.Equal(t, "tok-1", v)

	require.NoError(t, store.Remove(TokenKey))
	_, ok = store.Get(TokenKey)
	assert.False(t, ok)
}
