package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/Skotchmaster/inventory/internal/models"
	"github.com/Skotchmaster/inventory/internal/repo"
	"github.com/Skotchmaster/inventory/internal/transport"
	"github.com/Skotchmaster/inventory/pkg/events"
	"github.com/Skotchmaster/inventory/pkg/logging"
	"github.com/Skotchmaster/inventory/pkg/tokens"
)

// UserService owns the user lifecycle and the username/email uniqueness
// invariants. It is the only consumer of the password hasher.
type UserService struct {
	Repo   UserRepo
	Hasher PasswordHasher
	Tokens TokenIssuer
	Events EventPublisher
}

func (s *UserService) CreateUser(ctx context.Context, req transport.CreateUserRequest) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "user.create")

	if err := validation(req.Validate()); err != nil {
		return nil, err
	}

	username := strings.TrimSpace(req.Username)
	email := transport.NormalizeEmail(req.Email)

	taken, err := s.Repo.UserTaken(ctx, username, email, "")
	if err != nil {
		l.Error("user_create_error", "status", 500, "reason", "cannot check uniqueness", "error", err)
		return nil, fmt.Errorf("check user uniqueness: %w", err)
	}
	if taken {
		l.Warn("user_create_error", "status", 409, "reason", "user already exists")
		return nil, fail(ErrConflict, transport.MsgUserAlreadyExists)
	}

	pwHash, err := s.Hasher.Hash(req.Password)
	if err != nil {
		l.Error("user_create_error", "status", 500, "reason", "cannot hash the password", "error", err)
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: pwHash,
		Roles:        dedupe(req.Roles),
	}
	if err := s.Repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repo.ErrAlreadyExists) {
			l.Warn("user_create_error", "status", 409, "reason", "lost uniqueness race")
			return nil, fail(ErrConflict, transport.MsgUserAlreadyExists)
		}
		l.Error("user_create_error", "status", 500, "reason", "cannot add user to db", "error", err)
		return nil, fmt.Errorf("create user: %w", err)
	}

	publish(ctx, s.Events, events.TopicUserEvents, user.ID, userEvent("user_created", user.ID))
	l.Info("user_created", "user_id", user.ID)
	return user, nil
}

// CanEdit decides whether actor may apply req to the user targetID. Admins
// may edit anyone; other users only themselves and never their roles.
func (s *UserService) CanEdit(actor *tokens.Identity, targetID string, req transport.PatchUserRequest) error {
	if actor == nil {
		return fail(ErrUnauthorized, transport.MsgUnauthorized)
	}
	if actor.HasRole(models.RoleAdmin) {
		return nil
	}
	if actor.SubjectID != targetID {
		return fail(ErrForbidden, transport.MsgUsersOwnProfile)
	}
	if req.Roles != nil {
		return fail(ErrForbidden, transport.MsgRolesAdminOnly)
	}
	return nil
}

// EditUser merges the supplied fields into the user. The password is
// re-hashed only when a new one is supplied.
func (s *UserService) EditUser(ctx context.Context, id string, req transport.PatchUserRequest) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "user.edit", "user_id", id)

	user, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := validation(req.Validate()); err != nil {
		return nil, err
	}

	username, email := user.Username, user.Email
	if req.Username != nil {
		username = strings.TrimSpace(*req.Username)
	}
	if req.Email != nil {
		email = transport.NormalizeEmail(*req.Email)
	}

	if username != user.Username || email != user.Email {
		taken, err := s.Repo.UserTaken(ctx, username, email, user.ID)
		if err != nil {
			l.Error("user_edit_error", "status", 500, "reason", "cannot check uniqueness", "error", err)
			return nil, fmt.Errorf("check user uniqueness: %w", err)
		}
		if taken {
			l.Warn("user_edit_error", "status", 409, "reason", "username or email already used")
			return nil, fail(ErrConflict, transport.MsgUserAlreadyExists)
		}
	}

	user.Username = username
	user.Email = email
	if req.Roles != nil {
		user.Roles = dedupe(*req.Roles)
	}
	if req.Password != nil {
		pwHash, err := s.Hasher.Hash(*req.Password)
		if err != nil {
			l.Error("user_edit_error", "status", 500, "reason", "cannot hash the password", "error", err)
			return nil, fmt.Errorf("hash password: %w", err)
		}
		user.PasswordHash = pwHash
	}

	if err := s.Repo.SaveUser(ctx, user); err != nil {
		if errors.Is(err, repo.ErrAlreadyExists) {
			return nil, fail(ErrConflict, transport.MsgUserAlreadyExists)
		}
		l.Error("user_edit_error", "status", 500, "reason", "cannot save user", "error", err)
		return nil, fmt.Errorf("save user: %w", err)
	}

	publish(ctx, s.Events, events.TopicUserEvents, user.ID, userEvent("user_updated", user.ID))
	l.Info("user_updated")
	return user, nil
}

// DeleteUser removes the user. Users still referenced as the creator of a
// product cannot be deleted.
func (s *UserService) DeleteUser(ctx context.Context, id string) error {
	l := logging.FromContext(ctx).With("svc", "user.delete", "user_id", id)

	if _, err := s.FindByID(ctx, id); err != nil {
		return err
	}

	owned, err := s.Repo.CountProductsByCreator(ctx, id)
	if err != nil {
		l.Error("user_delete_error", "status", 500, "reason", "cannot count products", "error", err)
		return fmt.Errorf("count products: %w", err)
	}
	if owned > 0 {
		l.Warn("user_delete_error", "status", 409, "reason", "user still has products", "products", owned)
		return fail(ErrConflict, transport.MsgUserOwnsProducts)
	}

	if err := s.Repo.DeleteUser(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return fail(ErrNotFound, transport.MsgUserNotFound)
		}
		if errors.Is(err, repo.ErrReferenced) {
			l.Warn("user_delete_error", "status", 409, "reason", "product created concurrently")
			return fail(ErrConflict, transport.MsgUserOwnsProducts)
		}
		l.Error("user_delete_error", "status", 500, "reason", "cannot delete user", "error", err)
		return fmt.Errorf("delete user: %w", err)
	}

	publish(ctx, s.Events, events.TopicUserEvents, id, userEvent("user_deleted", id))
	l.Info("user_deleted")
	return nil
}

func (s *UserService) FindByID(ctx context.Context, id string) (*models.User, error) {
	return lookupUser(s.Repo.GetUserByID(ctx, id))
}

func (s *UserService) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return lookupUser(s.Repo.GetUserByUsername(ctx, strings.TrimSpace(username)))
}

func (s *UserService) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return lookupUser(s.Repo.GetUserByEmail(ctx, transport.NormalizeEmail(email)))
}

func lookupUser(u *models.User, err error) (*models.User, error) {
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, fail(ErrNotFound, transport.MsgUserNotFound)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// SignIn checks the credentials and issues an access token. Unknown email
// and wrong password are indistinguishable to the caller.
func (s *UserService) SignIn(ctx context.Context, req transport.SignInRequest) (*transport.SignInResult, error) {
	l := logging.FromContext(ctx).With("svc", "user.sign_in")

	if err := validation(req.Validate()); err != nil {
		return nil, err
	}

	user, err := s.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			l.Warn("sign_in_failed", "status", 401, "reason", "unknown email")
			return nil, fail(ErrUnauthorized, transport.MsgInvalidEmailPassword)
		}
		return nil, err
	}
	if !s.Hasher.Verify(req.Password, user.PasswordHash) {
		l.Warn("sign_in_failed", "status", 401, "reason", "wrong password", "user_id", user.ID)
		return nil, fail(ErrUnauthorized, transport.MsgInvalidEmailPassword)
	}

	token, exp, err := s.Tokens.Issue(user.ID, user.Username, user.Roles)
	if err != nil {
		l.Error("sign_in_failed", "status", 500, "reason", "cannot issue token", "error", err)
		return nil, fmt.Errorf("issue token: %w", err)
	}

	l.Info("signed_in", "user_id", user.ID)
	return &transport.SignInResult{AccessToken: token, ExpiresAt: exp, User: user}, nil
}

// EnsureAdmin creates the bootstrap admin unless a user with that email
// already exists.
func (s *UserService) EnsureAdmin(ctx context.Context, req transport.CreateUserRequest) (*models.User, bool, error) {
	existing, err := s.FindByEmail(ctx, req.Email)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, false, err
	}

	req.Roles = []string{models.RoleAdmin, models.RoleMember}
	user, err := s.CreateUser(ctx, req)
	if err != nil {
		return nil, false, err
	}
	return user, true, nil
}

func dedupe(roles []string) []string {
	out := slices.Clone(roles)
	slices.Sort(out)
	return slices.Compact(out)
}
