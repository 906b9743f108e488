package gateway

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRevokeAllUserTokens_DeletesMatchingKeys(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	defer rdb.Close()

	f := &fixture{mailer: &captureMailer{}}
	backend := newBackendWith(t, rdb, f)
	userID := uuid.New()

	accessPattern := fmt.Sprintf("access_token:%s:*", userID)
	refreshPattern := fmt.Sprintf("refresh_token:%s:*", userID)
	accessKeys := []string{fmt.Sprintf("access_token:%s:t1", userID)}

	mock.ExpectKeys(accessPattern).SetVal(accessKeys)
	mock.ExpectDel(accessKeys...).SetVal(1)
	mock.ExpectKeys(refreshPattern).SetVal([]string{})

	require.NoError(t, backend.RevokeAllUserTokens(context.Background(), userID))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRevokeAllUserTokens_KeysError(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	defer rdb.Close()

	f := &fixture{mailer: &captureMailer{}}
	backend := newBackendWith(t, rdb, f)
	userID := uuid.New()

	expectedErr := errors.New("redis connection error")
	mock.ExpectKeys(fmt.Sprintf("access_token:%s:*", userID)).SetErr(expectedErr)

	err := backend.RevokeAllUserTokens(context.Background(), userID)
	assert.ErrorIs(t, err, expectedErr)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdatePasswordWithRecovery_RedisError(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	defer rdb.Close()

	f := &fixture{mailer: &captureMailer{}}
	backend := newBackendWith(t, rdb, f)

	expectedErr := errors.New("redis connection error")
	mock.ExpectGetDel("recovery_token:abc").SetErr(expectedErr)

	_, err := backend.UpdatePasswordWithRecovery(context.Background(), "abc", "newpass")
	assert.ErrorIs(t, err, expectedErr)
	_, isAuthErr := AsAuthError(err)
	assert.False(t, isAuthErr)
}

func TestSignIn_TokenStoreFailureIsNotAnAuthError(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.backend.SignUp(ctx, "a@example.com", "pw1234")
	require.NoError(t, err)

	f.server.SetError("server unavailable")
	defer f.server.SetError("")

	_, err = f.backend.SignInWithPassword(ctx, "a@example.com", "pw1234")
	require.Error(t, err)
	_, isAuthErr := AsAuthError(err)
	assert.False(t, isAuthErr)
}
