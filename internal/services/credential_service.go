package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/BradenHooton/quill/internal/models"
	"github.com/BradenHooton/quill/pkg/auth"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// MinUsernameLen is the shortest accepted username
const MinUsernameLen = 5

// UserRepository defines the interface for user data access
type UserRepository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	List(ctx context.Context) ([]*models.User, error)
	ListByRole(ctx context.Context, role models.Role) ([]*models.User, error)
	Delete(ctx context.Context, id string) error
}

// RegisterInput carries a registration request
type RegisterInput struct {
	Email    string
	Username string
	Password string
	Role     string
}

// CredentialService owns account creation and password checks. Plaintext
// passwords only ever reach bcrypt.
type CredentialService struct {
	repo     UserRepository
	validate *validator.Validate
	logger   *slog.Logger
}

// NewCredentialService creates a new CredentialService
func NewCredentialService(repo UserRepository, logger *slog.Logger) *CredentialService {
	return &CredentialService{
		repo:     repo,
		validate: validator.New(),
		logger:   logger,
	}
}

// NormalizeEmail is the canonical stored form of an email address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register validates input, rejects duplicates, and stores a new account.
func (s *CredentialService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	in.Email = NormalizeEmail(in.Email)
	in.Username = strings.TrimSpace(in.Username)

	vErr := &models.ValidationError{}
	if err := s.validate.Var(in.Email, "required,email"); err != nil {
		vErr.Add("email", "must be a valid email address")
	}
	if utf8.RuneCountInString(in.Username) < MinUsernameLen {
		vErr.Add("username", fmt.Sprintf("must be at least %d characters", MinUsernameLen))
	}
	var pErr *models.ValidationError
	if errors.As(ValidateNewPassword(in.Password), &pErr) {
		vErr.Fields = append(vErr.Fields, pErr.Fields...)
	}
	role, err := models.ParseRole(in.Role)
	if err != nil {
		vErr.Add("role", "must be one of blogger, moderator, admin")
	}
	if err := vErr.OrNil(); err != nil {
		return nil, err
	}

	exists, err := s.repo.ExistsByUsernameOrEmail(ctx, in.Username, in.Email)
	if err != nil {
		s.logger.Error("failed to check for existing account", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	if exists {
		return nil, fmt.Errorf("username or email already registered: %w", models.ErrConflict)
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		s.logger.Error("failed to hash password", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	user := &models.User{
		ID:           uuid.New().String(),
		Email:        in.Email,
		Username:     in.Username,
		PasswordHash: hash,
		Role:         role,
	}

	// The hash is already paid for; a client disconnect must not abort the insert.
	created, err := s.repo.Create(context.WithoutCancel(ctx), user)
	if err != nil {
		if errors.Is(err, models.ErrConflict) {
			return nil, fmt.Errorf("username or email already registered: %w", models.ErrConflict)
		}
		s.logger.Error("failed to create user", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.logger.Info("user registered", slog.String("user_id", created.ID), slog.String("role", created.Role.String()))
	return created, nil
}

// Verify checks a username/password pair. It returns ErrNotFound for an
// unknown username and ErrUnauthorized for a wrong password.
func (s *CredentialService) Verify(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.repo.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		s.logger.Error("failed to get user by username", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, models.ErrUnauthorized
	}

	return user, nil
}

// UpdatePassword validates and rehashes newPassword and replaces the stored hash.
func (s *CredentialService) UpdatePassword(ctx context.Context, user *models.User, newPassword string) error {
	if err := ValidateNewPassword(newPassword); err != nil {
		return err
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		s.logger.Error("failed to hash password", slog.Any("error", err))
		return models.ErrInternalServer
	}

	if err := s.repo.UpdatePassword(context.WithoutCancel(ctx), user.ID, hash); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.ErrNotFound
		}
		s.logger.Error("failed to update password", slog.String("user_id", user.ID), slog.Any("error", err))
		return models.ErrInternalServer
	}

	user.PasswordHash = hash
	s.logger.Info("password updated", slog.String("user_id", user.ID))
	return nil
}

// ValidateNewPassword applies the password policy and reports failures as a
// *models.ValidationError.
func ValidateNewPassword(password string) error {
	if err := auth.ValidatePassword(password); err != nil {
		vErr := &models.ValidationError{}
		var pErr *auth.PasswordValidationError
		if errors.As(err, &pErr) {
			for _, msg := range pErr.Errors {
				vErr.Add("password", msg)
			}
		} else {
			vErr.Add("password", err.Error())
		}
		return vErr
	}
	return nil
}
