package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"docvault/internal/auth"
	"docvault/internal/config"
	"docvault/internal/model"
	"docvault/internal/repository"
)

var (
	// ErrUserNotFound indicates the user does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrEmailTaken indicates the email is already registered.
	ErrEmailTaken = errors.New("email already registered")
	// ErrEmailRequired indicates a missing email.
	ErrEmailRequired = errors.New("email is required")
	// ErrPasswordRequired indicates a missing password.
	ErrPasswordRequired = errors.New("password is required")
	// ErrInvalidCredentials indicates a failed login. It covers both an
	// unknown email and a wrong password so login cannot be used to probe
	// which emails are registered.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrInvalidRole indicates a role value outside admin/editor/viewer.
	ErrInvalidRole = errors.New("invalid role")
)

// RegisterInput carries the fields for a new account.
type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// UpdateUserInput carries a partial profile update. Nil fields are untouched.
type UpdateUserInput struct {
	Email     *string
	Password  *string
	FirstName *string
	LastName  *string
	IsActive  *bool
}

// UserService implements account use cases: self-service registration and
// login, plus the admin-facing user management operations. Role checks for
// the latter live in the HTTP layer, which only routes admins here.
type UserService interface {
	Register(ctx context.Context, in RegisterInput) (*model.User, error)
	Login(ctx context.Context, email, password string) (*model.User, string, error)
	List(ctx context.Context) ([]model.User, error)
	Get(ctx context.Context, id string) (*model.User, error)
	Update(ctx context.Context, id string, in UpdateUserInput) (*model.User, error)
	UpdateRole(ctx context.Context, id string, role model.Role) (*model.User, error)
	Delete(ctx context.Context, id string) error
}

type userService struct {
	repo repository.UserRepository
	jwt  config.JWTConfig
}

// NewUserService wires the account use cases.
func NewUserService(repo repository.UserRepository, jwt config.JWTConfig) UserService {
	return &userService{repo: repo, jwt: jwt}
}

// Register creates a new account with the viewer role. Role elevation is a
// separate admin operation, never part of sign-up.
func (s *userService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	email := strings.TrimSpace(strings.ToLower(in.Email))
	if email == "" {
		return nil, ErrEmailRequired
	}
	if in.Password == "" {
		return nil, ErrPasswordRequired
	}

	_, err := s.repo.FindByEmail(ctx, email)
	if err == nil {
		return nil, ErrEmailTaken
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("check email: %w", err)
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &model.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: hash,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Role:         model.RoleViewer,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	stored, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return stored, nil
}

// Login verifies the credentials and returns the user with a signed access
// token. Deactivated accounts cannot log in.
func (s *userService) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return nil, "", ErrInvalidCredentials
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("find user: %w", err)
	}
	if !user.IsActive {
		return nil, "", ErrInvalidCredentials
	}
	if !auth.CheckPassword(user.PasswordHash, password) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := auth.GenerateToken(user, []byte(s.jwt.Secret), s.jwt.TokenTTL)
	if err != nil {
		return nil, "", fmt.Errorf("sign token: %w", err)
	}
	return user, token, nil
}

// List returns all users ordered by creation time.
func (s *userService) List(ctx context.Context) ([]model.User, error) {
	users, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// Get returns one user by id.
func (s *userService) Get(ctx context.Context, id string) (*model.User, error) {
	if id == "" {
		return nil, ErrIDRequired
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

// Update applies a partial profile update. Changing the email re-checks
// uniqueness; changing the password re-hashes it.
func (s *userService) Update(ctx context.Context, id string, in UpdateUserInput) (*model.User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Email != nil {
		email := strings.TrimSpace(strings.ToLower(*in.Email))
		if email == "" {
			return nil, ErrEmailRequired
		}
		if email != user.Email {
			_, err := s.repo.FindByEmail(ctx, email)
			if err == nil {
				return nil, ErrEmailTaken
			}
			if !errors.Is(err, sql.ErrNoRows) {
				return nil, fmt.Errorf("check email: %w", err)
			}
			user.Email = email
		}
	}
	if in.Password != nil {
		if *in.Password == "" {
			return nil, ErrPasswordRequired
		}
		hash, err := auth.HashPassword(*in.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		user.PasswordHash = hash
	}
	if in.FirstName != nil {
		user.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		user.LastName = *in.LastName
	}
	if in.IsActive != nil {
		user.IsActive = *in.IsActive
	}

	updated, err := s.repo.Update(ctx, user)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	return updated, nil
}

// UpdateRole changes a user's role. Admin-only at the HTTP layer.
func (s *userService) UpdateRole(ctx context.Context, id string, role model.Role) (*model.User, error) {
	if !role.Valid() {
		return nil, ErrInvalidRole
	}

	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	user.Role = role

	updated, err := s.repo.Update(ctx, user)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("update role: %w", err)
	}
	return updated, nil
}

// Delete removes a user. Their documents go with them via the FK cascade;
// their blobs are left for an offline sweep.
func (s *userService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrIDRequired
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrUserNotFound
		}
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}
