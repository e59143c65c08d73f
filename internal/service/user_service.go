package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"user_manager/internal/model"
	"user_manager/internal/repository"
	"user_manager/internal/utils"

	"github.com/google/uuid"
)

var (
	ErrMissingFields         = errors.New("fill in all details")
	ErrEmailExists           = errors.New("email already exists")
	ErrPasswordTooShort      = errors.New("password should be at least 6 characters")
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrUserNotFound          = errors.New("user not found")
	ErrCurrentPasswordWrong  = errors.New("current password is incorrect")
	ErrPasswordMismatch      = errors.New("new password and confirm password do not match")
	ErrCurrentPasswordNeeded = errors.New("current password is required to set a new password")
	ErrInvalidUserID         = errors.New("invalid user id")
	ErrNoUsers               = errors.New("no users found")
)

const minPasswordLength = 6

// UserService manages account credentials and profile data
type UserService interface {
	Register(ctx context.Context, name, email, password, phone, profession string) (*model.User, error)
	Login(ctx context.Context, email, password string) (*model.Profile, error)
	EditProfile(ctx context.Context, id string, patch model.ProfilePatch) (*model.Profile, error)
	DeleteUser(ctx context.Context, id string) (int64, error)
	ListUsers(ctx context.Context) ([]model.Profile, error)
}

type userService struct {
	userRepo repository.UserRepository
}

// NewUserService creates a new UserService
func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

// Register creates a new user account.
// Email is lower-cased before the uniqueness check and before storage, so
// lookups are case-insensitive from then on. The check-then-create sequence
// is not transactional; the UNIQUE constraint on the email column is the
// final guard against a concurrent duplicate registration.
func (s *userService) Register(ctx context.Context, name, email, password, phone, profession string) (*model.User, error) {
	if name == "" || email == "" || password == "" || phone == "" || profession == "" {
		return nil, ErrMissingFields
	}
	email = strings.ToLower(email)

	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil {
		return nil, ErrEmailExists
	}

	if len(strings.TrimSpace(password)) < minPasswordLength {
		return nil, ErrPasswordTooShort
	}

	hashedPassword, err := utils.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: hashedPassword,
		Phone:        phone,
		Profession:   profession,
		CreatedAt:    time.Now(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user in repository: %w", err)
	}
	return user, nil
}

// Login verifies credentials and returns the account profile.
// A missing account and a wrong password both produce ErrInvalidCredentials
// so a caller cannot probe which emails are registered.
func (s *userService) Login(ctx context.Context, email, password string) (*model.Profile, error) {
	if email == "" || password == "" {
		return nil, ErrMissingFields
	}
	email = strings.ToLower(email)

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("error finding user by email: %w", err)
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	return user.Profile(), nil
}

// EditProfile applies a partial update to an account. Empty patch fields are
// left untouched. Changing the password requires proving the current one:
// verification happens before any new-password validation, and a new or
// confirm password without the current one is rejected outright.
func (s *userService) EditProfile(ctx context.Context, id string, patch model.ProfilePatch) (*model.Profile, error) {
	if uuid.Validate(id) != nil {
		return nil, ErrUserNotFound
	}

	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error finding user by ID: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	if patch.CurrentPassword != "" {
		if !utils.CheckPasswordHash(patch.CurrentPassword, user.PasswordHash) {
			return nil, ErrCurrentPasswordWrong
		}
		if patch.NewPassword != "" {
			if len(strings.TrimSpace(patch.NewPassword)) < minPasswordLength {
				return nil, ErrPasswordTooShort
			}
			if patch.NewPassword != patch.ConfirmPassword {
				return nil, ErrPasswordMismatch
			}
			hashedPassword, err := utils.HashPassword(patch.NewPassword)
			if err != nil {
				return nil, fmt.Errorf("failed to hash new password: %w", err)
			}
			user.PasswordHash = hashedPassword
		}
	} else if patch.NewPassword != "" || patch.ConfirmPassword != "" {
		return nil, ErrCurrentPasswordNeeded
	}

	if patch.Name != "" {
		user.Name = patch.Name
	}
	if patch.Email != "" {
		user.Email = strings.ToLower(patch.Email)
	}
	if patch.Phone != "" {
		user.Phone = patch.Phone
	}
	if patch.Profession != "" {
		user.Profession = patch.Profession
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user in repository: %w", err)
	}
	return user.Profile(), nil
}

// DeleteUser removes an account and returns how many users remain, so the
// caller can tell when the store has been emptied.
func (s *userService) DeleteUser(ctx context.Context, id string) (int64, error) {
	if uuid.Validate(id) != nil {
		return 0, ErrInvalidUserID
	}

	deleted, err := s.userRepo.DeleteByID(ctx, id)
	if err != nil {
		return 0, fmt.Errorf("failed to delete user: %w", err)
	}
	if !deleted {
		return 0, ErrUserNotFound
	}

	remaining, err := s.userRepo.CountAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count remaining users: %w", err)
	}
	return remaining, nil
}

// ListUsers returns every stored profile. An empty store is reported as
// ErrNoUsers rather than an empty list.
func (s *userService) ListUsers(ctx context.Context) ([]model.Profile, error) {
	profiles, err := s.userRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch users: %w", err)
	}
	if len(profiles) == 0 {
		return nil, ErrNoUsers
	}
	return profiles, nil
}
