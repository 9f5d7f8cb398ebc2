package service_test

import (
	"context"
	"testing"

	"notekeeper-be/internal/dto"
	"notekeeper-be/pkg/apperr"
	"notekeeper-be/pkg/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestAuthService_RegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	user, err := f.auth.Register(ctx, &dto.RegisterRequest{Username: "alice", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.Nil(t, user.ExternalId)

	tok, err := f.auth.Login(ctx, &dto.LoginRequest{Username: "alice", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "bearer", tok.TokenType)

	userId, err := f.gate.ResolveBearer(tok.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.Id, userId)
}

func TestAuthService_DuplicateRegistration(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	first, err := f.auth.Register(ctx, &dto.RegisterRequest{Username: "alice", Password: "secret1", ExternalId: strPtr("chat-1")})
	require.NoError(t, err)

	_, err = f.auth.Register(ctx, &dto.RegisterRequest{Username: "alice", Password: "other-pass"})
	require.ErrorIs(t, err, apperr.ErrUsernameTaken)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	_, err = f.auth.Register(ctx, &dto.RegisterRequest{Username: "bob", Password: "secret2", ExternalId: strPtr("chat-1")})
	require.ErrorIs(t, err, apperr.ErrExternalIdTaken)

	// The first user is unaffected and still the only one able to log in as alice.
	tok, err := f.auth.Login(ctx, &dto.LoginRequest{Username: "alice", Password: "secret1"})
	require.NoError(t, err)
	userId, err := f.gate.ResolveBearer(tok.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, first.Id, userId)

	_, err = f.auth.Login(ctx, &dto.LoginRequest{Username: "bob", Password: "secret2"})
	assert.ErrorIs(t, err, apperr.ErrInvalidCredentials)
}

func TestAuthService_EmptyExternalIdIsAbsent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.auth.Register(ctx, &dto.RegisterRequest{Username: "alice", Password: "secret1", ExternalId: strPtr("")})
	require.NoError(t, err)
	user, err := f.auth.Register(ctx, &dto.RegisterRequest{Username: "bob", Password: "secret2", ExternalId: strPtr("")})
	require.NoError(t, err)
	assert.Nil(t, user.ExternalId)
}

func TestAuthService_LoginFailuresLookAlike(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.auth.Register(ctx, &dto.RegisterRequest{Username: "alice", Password: "secret1"})
	require.NoError(t, err)

	_, wrongPassword := f.auth.Login(ctx, &dto.LoginRequest{Username: "alice", Password: "nope"})
	_, unknownUser := f.auth.Login(ctx, &dto.LoginRequest{Username: "mallory", Password: "secret1"})

	require.Error(t, wrongPassword)
	require.Error(t, unknownUser)
	assert.Equal(t, apperr.PublicMessage(wrongPassword), apperr.PublicMessage(unknownUser))
	assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(unknownUser))
}

func TestAuthService_LoginByExternalId(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	user, err := f.auth.Register(ctx, &dto.RegisterRequest{Username: "alice", Password: "secret1", ExternalId: strPtr("chat-7")})
	require.NoError(t, err)

	tok, err := f.auth.LoginByExternalId(ctx, &dto.LoginByExternalIdRequest{ExternalId: "chat-7"})
	require.NoError(t, err)
	userId, err := f.gate.ResolveBearer(tok.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.Id, userId)

	_, err = f.auth.LoginByExternalId(ctx, &dto.LoginByExternalIdRequest{ExternalId: "chat-unknown"})
	require.ErrorIs(t, err, apperr.ErrUnauthorized)
}

func TestAuthService_AttachExternalId(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	alice, err := f.auth.Register(ctx, &dto.RegisterRequest{Username: "alice", Password: "secret1"})
	require.NoError(t, err)
	_, err = f.auth.Register(ctx, &dto.RegisterRequest{Username: "bob", Password: "secret2", ExternalId: strPtr("chat-bob")})
	require.NoError(t, err)

	t.Run("wrong password", func(t *testing.T) {
		_, err := f.auth.AttachExternalId(ctx, &dto.AttachExternalIdRequest{Username: "alice", Password: "bad", ExternalId: "chat-alice"})
		assert.ErrorIs(t, err, apperr.ErrInvalidCredentials)
	})

	t.Run("linked to another user", func(t *testing.T) {
		_, err := f.auth.AttachExternalId(ctx, &dto.AttachExternalIdRequest{Username: "alice", Password: "secret1", ExternalId: "chat-bob"})
		assert.ErrorIs(t, err, apperr.ErrExternalIdTaken)
	})

	t.Run("attach then reattach", func(t *testing.T) {
		user, err := f.auth.AttachExternalId(ctx, &dto.AttachExternalIdRequest{Username: "alice", Password: "secret1", ExternalId: "chat-alice"})
		require.NoError(t, err)
		require.NotNil(t, user.ExternalId)
		assert.Equal(t, "chat-alice", *user.ExternalId)

		again, err := f.auth.AttachExternalId(ctx, &dto.AttachExternalIdRequest{Username: "alice", Password: "secret1", ExternalId: "chat-alice"})
		require.NoError(t, err)
		assert.Equal(t, alice.Id, again.Id)

		userId, linked, err := f.gate.ResolveExternal(ctx, "chat-alice")
		require.NoError(t, err)
		assert.True(t, linked)
		assert.Equal(t, alice.Id, userId)
	})
}

func TestAuthService_EventsCarryNoSecrets(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.auth.Register(ctx, &dto.RegisterRequest{Username: "alice", Password: "secret1", ExternalId: strPtr("chat-1")})
	require.NoError(t, err)

	all := f.publisher.All()
	require.Len(t, all, 1)
	assert.Equal(t, events.UserRegistered, all[0].EventType())
	for _, v := range all[0].Payload() {
		assert.NotEqual(t, "secret1", v)
	}
	assert.NotContains(t, all[0].Payload(), "password")
	assert.NotContains(t, all[0].Payload(), "password_hash")
}

func TestGateService_ResolveBearerRejectsGarbage(t *testing.T) {
	f := newFixture(t)

	_, err := f.gate.ResolveBearer("not-a-token")
	require.ErrorIs(t, err, apperr.ErrUnauthorized)

	_, linked, err := f.gate.ResolveExternal(context.Background(), "nobody")
	require.NoError(t, err)
	assert.False(t, linked)
}
