package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"unicode"

	"github.com/tillroom/shopd/internal/shop/domain"
	"github.com/tillroom/shopd/internal/shop/store"
	"github.com/tillroom/shopd/pkg/cryptox"
	"github.com/tillroom/shopd/pkg/idx"
	"github.com/tillroom/shopd/pkg/slogx"
)

// MinPasswordLength is the floor for new account passwords.
const MinPasswordLength = 12

// UserService handles account provisioning and status changes.
type UserService struct {
	Store store.Store
}

// NewUserParams are the inputs for provisioning an account.
type NewUserParams struct {
	Email     string
	Password  string
	Forename  string
	Surname   string
	Role      domain.Role
	CompanyID string
}

// CreateUser provisions a new active account. The password must satisfy the
// policy checked by ValidatePassword and the email must be unique.
func (s *UserService) CreateUser(ctx context.Context, p NewUserParams) (domain.User, error) {
	email := strings.ToLower(strings.TrimSpace(p.Email))
	if _, err := mail.ParseAddress(email); err != nil {
		return domain.User{}, domain.Validationf("invalid email address")
	}
	if err := ValidatePassword(p.Password); err != nil {
		return domain.User{}, err
	}

	if _, err := s.Store.Companies().GetCompanyByID(ctx, p.CompanyID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, domain.NotFoundf("company not found: %s", p.CompanyID)
		}
		return domain.User{}, fmt.Errorf("looking up company: %w", err)
	}

	hash, err := cryptox.HashPassword(p.Password)
	if err != nil {
		return domain.User{}, fmt.Errorf("hashing password: %w", err)
	}

	user := domain.User{
		ID:           idx.New().String(),
		Email:        email,
		PasswordHash: hash,
		Forename:     strings.TrimSpace(p.Forename),
		Surname:      strings.TrimSpace(p.Surname),
		Role:         p.Role,
		Status:       domain.AccountActive,
		CompanyID:    p.CompanyID,
	}

	if err := s.Store.Users().CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.User{}, domain.Validationf("email already registered")
		}
		return domain.User{}, fmt.Errorf("creating user: %w", err)
	}

	slogx.FromContext(ctx).Info("user created",
		"user_id", user.ID, "email", user.Email, "role", user.Role)

	created, err := s.Store.Users().GetUserByID(ctx, user.ID)
	if err != nil {
		return domain.User{}, fmt.Errorf("fetching created user: %w", err)
	}
	return created, nil
}

// SetAccountStatus suspends, reactivates or retires an account. A suspended
// or inactive account fails authentication at step one.
func (s *UserService) SetAccountStatus(ctx context.Context, userID string, status domain.AccountStatus) error {
	if err := s.Store.Users().UpdateUserStatus(ctx, userID, status); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.NotFoundf("user not found: %s", userID)
		}
		return fmt.Errorf("updating account status: %w", err)
	}

	slogx.FromContext(ctx).Info("account status updated", "user_id", userID, "status", status)
	return nil
}

// GetUser fetches an account by id.
func (s *UserService) GetUser(ctx context.Context, userID string) (domain.User, error) {
	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, domain.NotFoundf("user not found: %s", userID)
		}
		return domain.User{}, fmt.Errorf("fetching user: %w", err)
	}
	return user, nil
}

// ValidatePassword enforces the account password policy: at least
// MinPasswordLength characters with an upper-case letter, a lower-case
// letter, a digit and a symbol.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return domain.Validationf("password must be at least %d characters", MinPasswordLength)
	}

	var upper, lower, digit, symbol bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			symbol = true
		}
	}

	switch {
	case !upper:
		return domain.Validationf("password must contain an upper-case letter")
	case !lower:
		return domain.Validationf("password must contain a lower-case letter")
	case !digit:
		return domain.Validationf("password must contain a digit")
	case !symbol:
		return domain.Validationf("password must contain a symbol")
	}
	return nil
}
