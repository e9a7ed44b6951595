package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"farmwork-hub-go/internal/models"
)

func testUser() *models.User {
	return &models.User{
		ID:        "u1",
		Email:     "okello@example.com",
		FirstName: "James",
		LastName:  "Okello",
		Role:      models.RoleWorker,
	}
}

func TestReduceStartThenFailure(t *testing.T) {
	state := Reduce(Anonymous(), Action{Type: AuthStart})
	assert.True(t, state.IsLoading)

	state = Reduce(state, Action{Type: AuthFailure, Message: "Invalid credentials"})
	assert.False(t, state.IsAuthenticated)
	assert.Nil(t, state.User)
	assert.Empty(t, state.Token)
	assert.Equal(t, "Invalid credentials", state.Error)
	assert.False(t, state.IsLoading)
}

func TestReduceStartThenSuccess(t *testing.T) {
	state := Reduce(Anonymous(), Action{Type: AuthStart})
	state = Reduce(state, Action{Type: AuthSuccess, User: testUser(), Token: "tok-1"})

	assert.True(t, state.IsAuthenticated)
	assert.False(t, state.IsLoading)
	assert.Empty(t, state.Error)
	assert.Equal(t, "tok-1", state.Token)
	require.NotNil(t, state.User)
	assert.Equal(t, "u1", state.User.ID)
}

func TestReduceStartKeepsExistingSessionVisible(t *testing.T) {
	authed := Reduce(Anonymous(), Action{Type: AuthSuccess, User: testUser(), Token: "tok-1"})
	loading := Reduce(authed, Action{Type: AuthStart})

	// A refresh in flight shows loading but does not flash the user away.
	assert.True(t, loading.IsLoading)
	assert.False(t, loading.IsAuthenticated)
	assert.NotNil(t, loading.User)
	assert.Equal(t, "tok-1", loading.Token)
}

func TestReduceLogoutFromAnyState(t *testing.T) {
	states := []State{
		Anonymous(),
		Reduce(Anonymous(), Action{Type: AuthStart}),
		Reduce(Anonymous(), Action{Type: AuthSuccess, User: testUser(), Token: "tok-1"}),
		Reduce(Anonymous(), Action{Type: AuthFailure, Message: "boom"}),
	}
	for _, s := range states {
		out := Reduce(s, Action{Type: Logout})
		assert.Equal(t, Anonymous(), out)
	}
}

func TestReduceUpdateUserMergesPartialFields(t *testing.T) {
	state := Reduce(Anonymous(), Action{Type: AuthSuccess, User: testUser(), Token: "tok-1"})

	patch := &models.User{Bio: "Dairy and poultry experience", Location: "Kampala"}
	updated := Reduce(state, Action{Type: UpdateUser, User: patch})

	require.NotNil(t, updated.User)
	assert.Equal(t, "Dairy and poultry experience", updated.User.Bio)
	assert.Equal(t, "Kampala", updated.User.Location)
	// Untouched fields survive the merge.
	assert.Equal(t, "James", updated.User.FirstName)
	assert.Equal(t, "tok-1", updated.Token)
	assert.True(t, updated.IsAuthenticated)

	// The original state's user is not mutated.
	assert.Empty(t, state.User.Bio)
}

func TestReduceUpdateUserIgnoredWhenNotAuthenticated(t *testing.T) {
	state := Anonymous()
	out := Reduce(state, Action{Type: UpdateUser, User: &models.User{Bio: "x"}})
	assert.Equal(t, state, out)
}

func TestReduceClearErrorReturnsToAnonymous(t *testing.T) {
	state := Reduce(Anonymous(), Action{Type: AuthFailure, Message: "bad"})
	out := Reduce(state, Action{Type: ClearError})
	assert.Equal(t, Anonymous(), out)
}

func TestReduceClearErrorWithoutErrorIsANoOp(t *testing.T) {
	state := Reduce(Anonymous(), Action{Type: AuthSuccess, User: testUser(), Token: "tok"})

	out := Reduce(state, Action{Type: ClearError})
	assert.Equal(t, state, out, "an authenticated session must survive a stray clear")

	loading := Reduce(state, Action{Type: AuthStart})
	assert.Equal(t, loading, Reduce(loading, Action{Type: ClearError}))
}
