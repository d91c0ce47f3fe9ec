package account

import (
	"context"
	"fmt"
	"testing"
	"time"

	"shopmobile/internal/testutil"
	"shopmobile/pkg/errs"
	"shopmobile/pkg/jwt"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	jwt.SetSecret("test-secret")
}

// memTokenStore is the in-memory TokenStore used by tests.
type memTokenStore struct {
	tokens map[string]uint
}

func newMemTokenStore() *memTokenStore {
	return &memTokenStore{tokens: make(map[string]uint)}
}

func (m *memTokenStore) Save(_ context.Context, token string, userID uint, _ time.Duration) error {
	m.tokens[token] = userID
	return nil
}

func (m *memTokenStore) Consume(_ context.Context, token string) (uint, error) {
	id, ok := m.tokens[token]
	if !ok {
		return 0, fmt.Errorf("%w: invalid or expired reset token", errs.ErrValidation)
	}
	delete(m.tokens, token)
	return id, nil
}

func newService(t *testing.T) *Service {
	t.Helper()
	return NewService(testutil.OpenDB(t), newMemTokenStore())
}

func TestRegisterAndLogin(t *testing.T) {
	s := newService(t)

	u, token, err := s.Register("alice", "alice@example.com", "s3cret99", "Alice")
	require.NoError(t, err)
	assert.NotZero(t, u.ID)
	assert.NotEqual(t, "s3cret99", u.Password)
	assert.NotEmpty(t, token)

	claims, err := jwt.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserId)
	assert.False(t, claims.IsStaff)

	got, token2, err := s.Login("alice", "s3cret99")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.NotEmpty(t, token2)
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	s := newService(t)

	_, _, err := s.Register("alice", "alice@example.com", "s3cret99", "")
	require.NoError(t, err)

	_, _, err = s.Register("alice", "other@example.com", "s3cret99", "")
	assert.ErrorIs(t, err, errs.ErrConflict)

	_, _, err = s.Register("bob", "alice@example.com", "s3cret99", "")
	assert.ErrorIs(t, err, errs.ErrConflict)

	_, _, err = s.Register("", "x@example.com", "s3cret99", "")
	assert.ErrorIs(t, err, errs.ErrValidation)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	s := newService(t)

	_, _, err := s.Register("alice", "alice@example.com", "s3cret99", "")
	require.NoError(t, err)

	_, _, wrongPass := s.Login("alice", "bad")
	_, _, noUser := s.Login("nobody", "bad")
	require.Error(t, wrongPass)
	require.Error(t, noUser)
	assert.Equal(t, wrongPass.Error(), noUser.Error())
}

func TestUpdateProfile(t *testing.T) {
	s := newService(t)

	u, _, err := s.Register("alice", "alice@example.com", "s3cret99", "Alice")
	require.NoError(t, err)
	_, _, err = s.Register("bob", "bob@example.com", "s3cret99", "Bob")
	require.NoError(t, err)

	got, err := s.UpdateProfile(u.ID, "Alice B", "alice-new@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Alice B", got.FullName)
	assert.Equal(t, "alice-new@example.com", got.Email)

	_, err = s.UpdateProfile(u.ID, "Alice", "bob@example.com")
	assert.ErrorIs(t, err, errs.ErrConflict)
}

func TestChangePassword(t *testing.T) {
	s := newService(t)

	u, _, err := s.Register("alice", "alice@example.com", "oldpass1", "")
	require.NoError(t, err)

	assert.ErrorIs(t, s.ChangePassword(u.ID, "wrong", "newpass1"), errs.ErrValidation)
	require.NoError(t, s.ChangePassword(u.ID, "oldpass1", "newpass1"))

	_, _, err = s.Login("alice", "oldpass1")
	assert.Error(t, err)
	_, _, err = s.Login("alice", "newpass1")
	assert.NoError(t, err)
}

func TestPasswordResetFlow(t *testing.T) {
	s := newService(t)
	ctx := context.Background()

	_, _, err := s.Register("alice", "alice@example.com", "oldpass1", "")
	require.NoError(t, err)

	token, err := s.RequestPasswordReset(ctx, "alice@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	require.NoError(t, s.ResetPassword(ctx, token, "newpass1"))
	_, _, err = s.Login("alice", "newpass1")
	assert.NoError(t, err)

	// Tokens are single use.
	err = s.ResetPassword(ctx, token, "another1")
	assert.ErrorIs(t, err, errs.ErrValidation)

	_, err = s.RequestPasswordReset(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, errs.ErrNotFound)
}
