package pool

import (
	"context"
	"fmt"

	"github.com/carlinhosvolpony-tech/RodadaDgrau/internal/models"
	"github.com/carlinhosvolpony-tech/RodadaDgrau/internal/store"
)

// Users handles account registration and management.
type Users struct {
	store store.PoolStore
}

func NewUsers(s store.PoolStore) *Users {
	return &Users{store: s}
}

// RegisterParams describes a user to create. PasswordHash must already be
// hashed by the caller.
type RegisterParams struct {
	Name         string
	Username     string
	PasswordHash string
	Role         models.Role
	ParentId     string
	PixKey       string
}

// Register creates a user on behalf of an admin or bookie. Bookies may only
// create clients under themselves; a client's parent, when set, must be an
// existing bookie.
func (u *Users) Register(ctx context.Context, actor *models.User, params RegisterParams) (*models.User, error) {
	if err := CanRegisterUser(actor, params.Role, params.ParentId); err != nil {
		return nil, err
	}
	return u.create(ctx, params)
}

// SelfRegister creates a direct client account, the signup path of the
// public login screen. No parent, zero balance.
func (u *Users) SelfRegister(ctx context.Context, name, username, passwordHash string) (*models.User, error) {
	return u.create(ctx, RegisterParams{
		Name:         name,
		Username:     username,
		PasswordHash: passwordHash,
		Role:         models.RoleClient,
	})
}

func (u *Users) create(ctx context.Context, params RegisterParams) (*models.User, error) {
	if params.Name == "" || params.Username == "" || params.PasswordHash == "" {
		return nil, fmt.Errorf("name, username and password are required")
	}
	if !params.Role.Valid() {
		return nil, fmt.Errorf("invalid role %q", params.Role)
	}

	if params.ParentId != "" {
		parent, err := u.store.GetUserById(ctx, params.ParentId)
		if err != nil {
			return nil, fmt.Errorf("parent lookup failed: %w", err)
		}
		if parent.Role != models.RoleBookie {
			return nil, fmt.Errorf("parent %s is not a bookie", params.ParentId)
		}
	}

	return u.store.CreateUser(ctx, store.CreateUserParams{
		Name:         params.Name,
		Username:     params.Username,
		PasswordHash: params.PasswordHash,
		Role:         params.Role,
		ParentId:     params.ParentId,
		PixKey:       params.PixKey,
	})
}

// Delete removes a user account. Historical tickets and balance requests are
// kept; listings render the dangling user id as unknown.
func (u *Users) Delete(ctx context.Context, actor *models.User, targetId string) error {
	if err := CanDeleteUser(actor, targetId); err != nil {
		return err
	}
	return u.store.DeleteUser(ctx, targetId)
}

// UsersFor lists accounts visible to the actor: admins see everyone,
// bookies their own clients.
func (u *Users) UsersFor(ctx context.Context, actor *models.User) ([]models.User, error) {
	switch actor.Role {
	case models.RoleAdmin:
		return u.store.GetUsers(ctx)
	case models.RoleBookie:
		return u.store.GetUsersByParent(ctx, actor.Id)
	case models.RoleClient:
		return nil, fmt.Errorf("%w: clients cannot list users", store.ErrUnauthorized)
	default:
		return nil, fmt.Errorf("%w: unknown role %q", store.ErrUnauthorized, actor.Role)
	}
}

// EffectivePixKey resolves the payment address a user should pay into: their
// bookie's key when they have a parent with one, otherwise the admin key
// from settings.
func (u *Users) EffectivePixKey(ctx context.Context, user *models.User) (string, error) {
	if user.ParentId != "" {
		parent, err := u.store.GetUserById(ctx, user.ParentId)
		if err == nil && parent.PixKey != "" {
			return parent.PixKey, nil
		}
		// Deleted or keyless bookie falls through to the admin key.
	}
	settings, err := u.store.GetSettings(ctx)
	if err != nil {
		return "", err
	}
	return settings.PixKey, nil
}
