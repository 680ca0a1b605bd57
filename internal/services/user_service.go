package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/BradenHooton/quill/internal/models"
	pkglogger "github.com/BradenHooton/quill/pkg/logger"
)

// UserService handles account listing and removal for the admin and moderator areas
type UserService struct {
	repo        UserRepository
	credentials *CredentialService
	logger      *slog.Logger
	auditLogger *pkglogger.AuditLogger
}

// NewUserService creates a new UserService
func NewUserService(repo UserRepository, credentials *CredentialService, logger *slog.Logger, auditLogger *pkglogger.AuditLogger) *UserService {
	return &UserService{
		repo:        repo,
		credentials: credentials,
		logger:      logger,
		auditLogger: auditLogger,
	}
}

// ListUsers retrieves every account
func (s *UserService) ListUsers(ctx context.Context) ([]*models.User, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error("failed to list users", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	return users, nil
}

// ListBloggers retrieves every account with the blogger role
func (s *UserService) ListBloggers(ctx context.Context) ([]*models.User, error) {
	users, err := s.repo.ListByRole(ctx, models.RoleBlogger)
	if err != nil {
		s.logger.Error("failed to list bloggers", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	return users, nil
}

// DeleteUser deletes a user and, through the foreign key, their posts
func (s *UserService) DeleteUser(ctx context.Context, actorID, id string) error {
	if !validID(id) {
		return models.ErrNotFound
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			s.logger.Info("user not found", slog.String("user_id", id))
			return models.ErrNotFound
		}
		s.logger.Error("failed to delete user", slog.String("user_id", id), slog.Any("error", err))
		return models.ErrInternalServer
	}

	s.logger.Info("user deleted", slog.String("user_id", id))
	s.auditLogger.LogAccountAction("user_deleted", actorID, map[string]string{"target_user_id": id})
	return nil
}

// EnsureAdmin creates the bootstrap administrator unless an account with the
// same username or email already exists.
func (s *UserService) EnsureAdmin(ctx context.Context, email, username, password string) error {
	_, err := s.credentials.Register(ctx, RegisterInput{
		Email:    email,
		Username: username,
		Password: password,
		Role:     models.RoleAdmin.String(),
	})
	if err != nil {
		if errors.Is(err, models.ErrConflict) {
			s.logger.Info("bootstrap admin already present")
			return nil
		}
		return err
	}

	s.logger.Info("bootstrap admin created")
	return nil
}
