package auth

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"farmwork-hub-go/internal/models"
)

// Storage keys for the persisted session.
const (
	TokenKey = "farmwork_token"
	UserKey  = "farmwork_user"
)

// Credentials are what a user presents at login.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegistrationData is what a user presents at sign-up.
type RegistrationData struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
	Role      string `json:"role"`
	Location  string `json:"location"`
}

// Session is what the token service returns on success.
type Session struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

// TokenService is the external token-issuing auth service. Failures are
// returned as errors; the Manager converts them into the error state.
type TokenService interface {
	Login(ctx context.Context, creds Credentials) (*Session, error)
	Register(ctx context.Context, data RegistrationData) (*Session, error)
	CurrentUser(ctx context.Context, token string) (*models.User, error)
	Logout(ctx context.Context, token string) error
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, resetToken, password string) error
}

// KVStore is the durable key-value store holding the token and last-known
// user snapshot between runs (the browser-storage analogue).
type KVStore interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	Remove(key string) error
}

// Manager owns one session. It dispatches actions through Reduce, persists
// the session on success, and notifies subscribers after every transition.
//
// Each service call takes a sequence number; a result whose sequence is no
// longer current is dropped, so a slow superseded request can never
// overwrite the state a newer one produced.
type Manager struct {
	service TokenService
	store   KVStore
	logger  *zap.SugaredLogger

	mu        sync.Mutex
	state     State
	seq       uint64
	observers []func(State)
}

// NewManager returns a Manager in the anonymous state.
func NewManager(service TokenService, store KVStore, logger *zap.SugaredLogger) *Manager {
	return &Manager{
		service: service,
		store:   store,
		logger:  logger,
		state:   Anonymous(),
	}
}

// State returns a snapshot of the current session state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Subscribe registers a callback invoked after every state transition with
// the new state. Callbacks run synchronously under the dispatch lock and
// must not call back into the Manager.
func (m *Manager) Subscribe(fn func(State)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.observers = append(m.observers, fn)
}

func (m *Manager) dispatch(action Action) State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.dispatchLocked(action)
}

func (m *Manager) dispatchLocked(action Action) State {
	m.state = Reduce(m.state, action)
	for _, fn := range m.observers {
		fn(m.state)
	}
	return m.state
}

// begin starts a new in-flight request and returns its sequence number.
func (m *Manager) begin() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	m.dispatchLocked(Action{Type: AuthStart})
	return m.seq
}

// settle applies the outcome of request seq unless a newer request has
// started since, and reports whether it was applied.
func (m *Manager) settle(seq uint64, action Action) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if seq != m.seq {
		m.logger.Debugw("dropping stale auth result", "seq", seq, "current", m.seq)
		return false
	}
	m.dispatchLocked(action)
	return true
}

// Login authenticates against the token service. On success the session is
// persisted; on failure the state carries the service's message.
func (m *Manager) Login(ctx context.Context, creds Credentials) error {
	seq := m.begin()
	session, err := m.service.Login(ctx, creds)
	if err != nil {
		m.settle(seq, Action{Type: AuthFailure, Message: err.Error()})
		return errors.Wrap(err, "login failed")
	}
	if m.settle(seq, Action{Type: AuthSuccess, User: session.User, Token: session.Token}) {
		m.persist(session)
	}
	return nil
}

// Register creates an account and logs the new user in.
func (m *Manager) Register(ctx context.Context, data RegistrationData) error {
	seq := m.begin()
	session, err := m.service.Register(ctx, data)
	if err != nil {
		m.settle(seq, Action{Type: AuthFailure, Message: err.Error()})
		return errors.Wrap(err, "registration failed")
	}
	if m.settle(seq, Action{Type: AuthSuccess, User: session.User, Token: session.Token}) {
		m.persist(session)
	}
	return nil
}

// Logout clears the session locally and best-effort revokes it remotely. A
// failed remote revoke still leaves the local session cleared.
func (m *Manager) Logout(ctx context.Context) {
	m.mu.Lock()
	token := m.state.Token
	m.seq++ // invalidate any in-flight request
	m.mu.Unlock()

	if token != "" {
		if err := m.service.Logout(ctx, token); err != nil {
			m.logger.Warnw("remote logout failed", "error", err)
		}
	}
	m.clearStore()
	m.dispatch(Action{Type: Logout})
}

// UpdateUser merges a partial profile patch into the authenticated user and
// refreshes the persisted snapshot. It is a no-op when not authenticated.
func (m *Manager) UpdateUser(patch models.User) {
	state := m.dispatch(Action{Type: UpdateUser, User: &patch})
	if state.IsAuthenticated {
		m.persist(&Session{User: state.User, Token: state.Token})
	}
}

// ClearError returns an errored session to anonymous.
func (m *Manager) ClearError() {
	m.dispatch(Action{Type: ClearError})
}

// Rehydrate restores a persisted session. The stored token is first checked
// for expiry locally (claims only, no signature verification; issuance is
// the token service's business), then re-validated against the service's
// current-user call. Any failure invalidates the session silently back to
// anonymous: rehydration never produces a user-facing error.
func (m *Manager) Rehydrate(ctx context.Context) {
	token, ok := m.store.Get(TokenKey)
	if !ok || token == "" {
		return
	}

	if tokenExpired(token, time.Now()) {
		m.logger.Debugw("stored token expired, discarding session")
		m.clearStore()
		return
	}

	var snapshot models.User
	if raw, ok := m.store.Get(UserKey); ok {
		if err := json.Unmarshal([]byte(raw), &snapshot); err != nil {
			m.logger.Debugw("stored user snapshot unreadable", "error", err)
		}
	}

	// Restore optimistically from the snapshot, then confirm with the
	// service so a revoked token does not linger.
	seq := m.begin()
	m.settle(seq, Action{Type: AuthSuccess, User: &snapshot, Token: token})

	user, err := m.service.CurrentUser(ctx, token)
	if err != nil {
		m.logger.Debugw("session re-validation failed, dropping session", "error", err)
		if m.settle(seq, Action{Type: Logout}) {
			m.clearStore()
		}
		return
	}
	if m.settle(seq, Action{Type: AuthSuccess, User: user, Token: token}) {
		m.persist(&Session{User: user, Token: token})
	}
}

// tokenExpired reports whether the token carries an exp claim in the past.
// Unparseable tokens or tokens without exp are treated as not expired and
// left for the service to judge.
func tokenExpired(token string, now time.Time) bool {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return false
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return claims.ExpiresAt.Before(now)
}

func (m *Manager) persist(session *Session) {
	if err := m.store.Set(TokenKey, session.Token); err != nil {
		m.logger.Warnw("failed to persist token", "error", err)
	}
	raw, err := json.Marshal(session.User)
	if err == nil {
		if err := m.store.Set(UserKey, string(raw)); err != nil {
			m.logger.Warnw("failed to persist user snapshot", "error", err)
		}
	}
}

func (m *Manager) clearStore() {
	if err := m.store.Remove(TokenKey); err != nil {
		m.logger.Warnw("failed to clear stored token", "error", err)
	}
	if err := m.store.Remove(UserKey); err != nil {
		m.logger.Warnw("failed to clear stored user", "error", err)
	}
}
