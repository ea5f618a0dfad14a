package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/inventory/internal/models"
	"github.com/Skotchmaster/inventory/internal/repo"
	"github.com/Skotchmaster/inventory/internal/transport"
	"github.com/Skotchmaster/inventory/pkg/events"
	"github.com/Skotchmaster/inventory/pkg/tokens"
)

func alice() transport.CreateUserRequest {
	return transport.CreateUserRequest{
		Username: "alice",
		Email:    "a@x.com",
		Password: "Abcd123!",
		Roles:    []string{models.RoleMember},
	}
}

func strPtr(s string) *string { return &s }

func TestCreateUser(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	u, err := f.users.CreateUser(ctx, alice())
	require.NoError(t, err)
	assert.NotEmpty(t, u.ID)
	assert.Equal(t, "a@x.com", u.Email)
	assert.Equal(t, []string{models.RoleMember}, u.Roles)
	assert.NotEqual(t, "Abcd123!", u.PasswordHash)
	assert.True(t, f.users.Hasher.Verify("Abcd123!", u.PasswordHash))

	require.Len(t, f.events.events, 1)
	assert.Equal(t, events.TopicUserEvents, f.events.events[0].topic)
	assert.Equal(t, "user_created", f.events.events[0].event["type"])
}

func TestCreateUser_DuplicateEmailIsCaseInsensitive(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.users.CreateUser(ctx, alice())
	require.NoError(t, err)

	second := alice()
	second.Email = "A@X.com"
	second.Username = "alice2"
	_, err = f.users.CreateUser(ctx, second)
	require.ErrorIs(t, err, ErrConflict)
	assert.Contains(t, err.Error(), transport.MsgUserAlreadyExists)
}

func TestCreateUser_DuplicateUsername(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.users.CreateUser(ctx, alice())
	require.NoError(t, err)

	second := alice()
	second.Email = "other@x.com"
	_, err = f.users.CreateUser(ctx, second)
	require.ErrorIs(t, err, ErrConflict)
}

func TestCreateUser_Validation(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	req := alice()
	req.Password = "short"
	req.Roles = nil
	_, err := f.users.CreateUser(context.Background(), req)
	require.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, Problems(err), transport.MsgPasswordComplexity)
	assert.Contains(t, Problems(err), transport.MsgRolesNotEmpty)
	assert.Empty(t, f.events.events)
}

func TestEditUser(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	u, err := f.users.CreateUser(ctx, alice())
	require.NoError(t, err)
	oldHash := u.PasswordHash

	edited, err := f.users.EditUser(ctx, u.ID, transport.PatchUserRequest{Email: strPtr("New@X.com")})
	require.NoError(t, err)
	assert.Equal(t, "new@x.com", edited.Email)
	assert.Equal(t, "alice", edited.Username)
	assert.Equal(t, oldHash, edited.PasswordHash)

	edited, err = f.users.EditUser(ctx, u.ID, transport.PatchUserRequest{Password: strPtr("Zyxw987$")})
	require.NoError(t, err)
	assert.NotEqual(t, oldHash, edited.PasswordHash)
	assert.True(t, f.users.Hasher.Verify("Zyxw987$", edited.PasswordHash))

	assert.Equal(t, []string{"user_created", "user_updated", "user_updated"}, f.events.types())
}

func TestEditUser_NotFound(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	_, err := f.users.EditUser(context.Background(), "nonexistent-id", transport.PatchUserRequest{Username: strPtr("bobby")})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestEditUser_ConflictWithAnotherUser(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.users.CreateUser(ctx, alice())
	require.NoError(t, err)
	bob := alice()
	bob.Username, bob.Email = "bobby", "b@x.com"
	b, err := f.users.CreateUser(ctx, bob)
	require.NoError(t, err)

	_, err = f.users.EditUser(ctx, b.ID, transport.PatchUserRequest{Email: strPtr("A@x.com")})
	require.ErrorIs(t, err, ErrConflict)

	// keeping your own email is not a collision
	_, err = f.users.EditUser(ctx, b.ID, transport.PatchUserRequest{Email: strPtr("b@x.com"), Username: strPtr("bobby")})
	require.NoError(t, err)
}

func TestDeleteUser(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	u, err := f.users.CreateUser(ctx, alice())
	require.NoError(t, err)

	require.NoError(t, f.users.DeleteUser(ctx, u.ID))
	_, err = f.users.FindByID(ctx, u.ID)
	require.ErrorIs(t, err, ErrNotFound)

	require.ErrorIs(t, f.users.DeleteUser(ctx, u.ID), ErrNotFound)
}

func TestDeleteUser_OwnsProducts(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	u, err := f.users.CreateUser(ctx, alice())
	require.NoError(t, err)
	token, _, err := f.tokens.Issue(u.ID, u.Username, u.Roles)
	require.NoError(t, err)
	_, err = f.products.CreateProduct(ctx, token, widget())
	require.NoError(t, err)

	err = f.users.DeleteUser(ctx, u.ID)
	require.ErrorIs(t, err, ErrConflict)
	assert.Contains(t, err.Error(), transport.MsgUserOwnsProducts)
}

func TestFindUser(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	u, err := f.users.CreateUser(ctx, alice())
	require.NoError(t, err)

	byName, err := f.users.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byName.ID)

	byEmail, err := f.users.FindByEmail(ctx, " A@X.COM ")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)

	_, err = f.users.FindByUsername(ctx, "nobody")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestSignIn(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	u, err := f.users.CreateUser(ctx, alice())
	require.NoError(t, err)

	res, err := f.users.SignIn(ctx, transport.SignInRequest{Email: "A@x.com", Password: "Abcd123!"})
	require.NoError(t, err)
	assert.Equal(t, u.ID, res.User.ID)

	id, err := f.tokens.Verify(res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, u.ID, id.SubjectID)
	assert.Equal(t, "alice", id.Username)
	assert.Equal(t, []string{models.RoleMember}, id.Roles)
	assert.WithinDuration(t, res.ExpiresAt, id.ExpiresAt, time.Second)
}

func TestSignIn_Rejected(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.users.CreateUser(ctx, alice())
	require.NoError(t, err)

	tests := []struct {
		name string
		req  transport.SignInRequest
	}{
		{"wrong password", transport.SignInRequest{Email: "a@x.com", Password: "Wrong123!"}},
		{"unknown email", transport.SignInRequest{Email: "nobody@x.com", Password: "Abcd123!"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.users.SignIn(ctx, tt.req)
			require.ErrorIs(t, err, ErrUnauthorized)
			assert.Contains(t, err.Error(), transport.MsgInvalidEmailPassword)
		})
	}
}

func TestEnsureAdmin(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	req := transport.CreateUserRequest{Username: "admin", Email: "admin@x.com", Password: "Admin123!"}

	u, created, err := f.users.EnsureAdmin(ctx, req)
	require.NoError(t, err)
	assert.True(t, created)
	assert.ElementsMatch(t, []string{models.RoleAdmin, models.RoleMember}, u.Roles)

	again, created, err := f.users.EnsureAdmin(ctx, req)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, u.ID, again.ID)
}

func TestPublishFailureDoesNotFailMutation(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.events.err = errors.New("broker down")

	_, err := f.users.CreateUser(context.Background(), alice())
	require.NoError(t, err)
}

// racyUserRepo passes the uniqueness pre-check and then fails the write.
type racyUserRepo struct {
	UserRepo
	createErr error
	deleteErr error
}

func (r *racyUserRepo) UserTaken(context.Context, string, string, string) (bool, error) {
	return false, nil
}

func (r *racyUserRepo) CreateUser(ctx context.Context, u *models.User) error {
	if r.createErr != nil {
		return r.createErr
	}
	return r.UserRepo.CreateUser(ctx, u)
}

func (r *racyUserRepo) DeleteUser(ctx context.Context, id string) error {
	if r.deleteErr != nil {
		return r.deleteErr
	}
	return r.UserRepo.DeleteUser(ctx, id)
}

func TestCreateUser_WriteTimeCollision(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.users.Repo = &racyUserRepo{UserRepo: f.repo, createErr: fmt.Errorf("%w: unique", repo.ErrAlreadyExists)}

	_, err := f.users.CreateUser(context.Background(), alice())
	require.ErrorIs(t, err, ErrConflict)
	assert.Equal(t, transport.MsgUserAlreadyExists, Message(err))
	assert.Empty(t, f.events.events)
}

func TestDeleteUser_ProductCreatedConcurrently(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	u, err := f.users.CreateUser(ctx, alice())
	require.NoError(t, err)
	f.users.Repo = &racyUserRepo{UserRepo: f.repo, deleteErr: fmt.Errorf("%w: fk", repo.ErrReferenced)}

	err = f.users.DeleteUser(ctx, u.ID)
	require.ErrorIs(t, err, ErrConflict)
	assert.Equal(t, transport.MsgUserOwnsProducts, Message(err))
}

func TestCanEdit(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	admin := &tokens.Identity{SubjectID: "a-1", Roles: []string{models.RoleAdmin}}
	member := &tokens.Identity{SubjectID: "m-1", Roles: []string{models.RoleMember}}
	roles := []string{models.RoleAdmin}

	tests := []struct {
		name    string
		actor   *tokens.Identity
		target  string
		req     transport.PatchUserRequest
		wantErr error
		wantMsg string
	}{
		{"admin edits anyone", admin, "m-1", transport.PatchUserRequest{Roles: &roles}, nil, ""},
		{"member edits self", member, "m-1", transport.PatchUserRequest{Username: strPtr("member2")}, nil, ""},
		{"member edits other", member, "x-9", transport.PatchUserRequest{}, ErrForbidden, transport.MsgUsersOwnProfile},
		{"member changes roles", member, "m-1", transport.PatchUserRequest{Roles: &roles}, ErrForbidden, transport.MsgRolesAdminOnly},
		{"no identity", nil, "m-1", transport.PatchUserRequest{}, ErrUnauthorized, transport.MsgUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := f.users.CanEdit(tt.actor, tt.target, tt.req)
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, tt.wantMsg, Message(err))
		})
	}
}
