package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/BradenHooton/quill/internal/auth"
	"github.com/BradenHooton/quill/internal/metrics"
	"github.com/BradenHooton/quill/internal/models"
	pkglogger "github.com/BradenHooton/quill/pkg/logger"
)

// AuthService orchestrates login, token refresh, logout and password reset
type AuthService struct {
	credentials *CredentialService
	tokens      *auth.TokenIssuer
	resetTokens *ResetTokenCache
	limiter     *LoginRateLimiter
	notifier    ResetNotifier
	timing      *auth.TimingDelay
	users       UserRepository
	logger      *slog.Logger
	auditLogger *pkglogger.AuditLogger
}

// AuthServiceDeps groups the collaborators of AuthService
type AuthServiceDeps struct {
	Credentials *CredentialService
	Tokens      *auth.TokenIssuer
	ResetTokens *ResetTokenCache
	Limiter     *LoginRateLimiter
	Notifier    ResetNotifier
	Timing      *auth.TimingDelay
	Users       UserRepository
	Logger      *slog.Logger
	AuditLogger *pkglogger.AuditLogger
}

// NewAuthService creates a new AuthService
func NewAuthService(deps AuthServiceDeps) *AuthService {
	notifier := deps.Notifier
	if notifier == nil {
		notifier = NewLogResetNotifier(deps.Logger)
	}
	return &AuthService{
		credentials: deps.Credentials,
		tokens:      deps.Tokens,
		resetTokens: deps.ResetTokens,
		limiter:     deps.Limiter,
		notifier:    notifier,
		timing:      deps.Timing,
		users:       deps.Users,
		logger:      deps.Logger,
		auditLogger: deps.AuditLogger,
	}
}

// LoginResult carries the tokens minted by a successful login
type LoginResult struct {
	AccessToken        string
	RefreshToken       string
	AccessTokenExpiry  time.Duration
	RefreshTokenExpiry time.Duration
	User               *models.User
}

// Register creates an account
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	user, err := s.credentials.Register(ctx, in)
	if err != nil {
		return nil, err
	}

	s.auditLogger.LogAccountAction("user_registered", user.ID, map[string]string{"role": user.Role.String()})
	return user, nil
}

// Login rate-limits by clientKey, verifies the credentials and issues a
// token pair. Unknown usernames and wrong passwords both yield
// ErrUnauthorized after the same padded delay.
func (s *AuthService) Login(ctx context.Context, clientKey, username, password string) (*LoginResult, error) {
	if err := s.limiter.RecordAttempt(ctx, clientKey); err != nil {
		if errors.Is(err, models.ErrRateLimitExceeded) {
			metrics.RecordLoginAttempt(metrics.LoginRateLimited)
			s.auditLogger.LogAuthAttempt(pkglogger.AuditEvent{
				EventType:     "login_rate_limited",
				ClientIP:      clientKey,
				FailureReason: "rate_limited",
			})
			return nil, err
		}
		metrics.RecordLoginAttempt(metrics.LoginError)
		s.logger.Error("login rate limiter unavailable", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	start := time.Now()
	user, err := s.credentials.Verify(ctx, username, password)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) || errors.Is(err, models.ErrUnauthorized) {
			s.timing.WaitFrom(start, false)
			metrics.RecordLoginAttempt(metrics.LoginInvalidCredentials)
			s.auditLogger.LogAuthAttempt(pkglogger.AuditEvent{
				EventType:     "login_failed",
				ClientIP:      clientKey,
				FailureReason: "invalid_credentials",
			})
			return nil, models.ErrUnauthorized
		}
		metrics.RecordLoginAttempt(metrics.LoginError)
		return nil, err
	}

	accessToken, err := s.tokens.IssueAccessToken(user.ID, user.Role)
	if err != nil {
		s.logger.Error("failed to issue access token", slog.String("user_id", user.ID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	refreshToken, err := s.tokens.IssueRefreshToken(user.ID, user.Role)
	if err != nil {
		s.logger.Error("failed to issue refresh token", slog.String("user_id", user.ID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.timing.WaitFrom(start, true)
	metrics.RecordLoginAttempt(metrics.LoginSuccess)
	s.logger.Info("user logged in", slog.String("user_id", user.ID))
	s.auditLogger.LogAuthAttempt(pkglogger.AuditEvent{
		EventType: "login_success",
		UserID:    user.ID,
		ClientIP:  clientKey,
		Success:   true,
	})

	return &LoginResult{
		AccessToken:        accessToken,
		RefreshToken:       refreshToken,
		AccessTokenExpiry:  s.tokens.AccessTokenExpiry(),
		RefreshTokenExpiry: s.tokens.RefreshTokenExpiry(),
		User:               user,
	}, nil
}

// Refresh exchanges a refresh token for a new access token. The refresh
// token is neither rotated nor revoked. Failures are ErrForbidden.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, *models.Principal, error) {
	accessToken, principal, err := s.tokens.Rotate(refreshToken)
	if err != nil {
		if errors.Is(err, models.ErrForbidden) {
			s.auditLogger.LogAuthAttempt(pkglogger.AuditEvent{
				EventType:     "token_refresh_failed",
				FailureReason: "invalid_refresh_token",
			})
			return "", nil, err
		}
		s.logger.Error("failed to rotate refresh token", slog.Any("error", err))
		return "", nil, models.ErrInternalServer
	}

	return accessToken, principal, nil
}

// Logout verifies the refresh token before the caller clears the cookie.
// No server-side state changes; the token stays valid until it expires.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	principal, err := s.tokens.VerifyRefreshToken(refreshToken)
	if err != nil {
		s.auditLogger.LogAuthAttempt(pkglogger.AuditEvent{
			EventType:     "logout_failed",
			FailureReason: "invalid_refresh_token",
		})
		return err
	}

	s.auditLogger.LogAuthAttempt(pkglogger.AuditEvent{
		EventType: "logout",
		UserID:    principal.UserID,
		Success:   true,
	})
	return nil
}

// RequestPasswordReset issues a reset token for email without checking that
// an account exists, and hands it to the notifier. Delivery failures are
// logged only.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	email = NormalizeEmail(email)

	token, err := s.resetTokens.Issue(ctx, email)
	if err != nil {
		s.logger.Error("failed to issue reset token", slog.Any("error", err))
		return "", models.ErrInternalServer
	}

	if err := s.notifier.SendResetToken(ctx, email, token, s.resetTokens.ttl); err != nil {
		s.logger.Warn("reset token delivery failed", slog.Any("error", err))
	}

	s.auditLogger.LogPasswordReset("password_reset_requested", email, true, "")
	return token, nil
}

// ResetPassword consumes token and replaces the password of the account it
// was issued for. The new password is validated before the token is spent.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if err := ValidateNewPassword(newPassword); err != nil {
		return err
	}

	email, err := s.resetTokens.Consume(ctx, token)
	if err != nil {
		if errors.Is(err, models.ErrInvalidToken) {
			s.auditLogger.LogPasswordReset("password_reset", "", false, "invalid_token")
			return err
		}
		s.logger.Error("failed to consume reset token", slog.Any("error", err))
		return models.ErrInternalServer
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			s.auditLogger.LogPasswordReset("password_reset", email, false, "account_not_found")
			return models.ErrNotFound
		}
		s.logger.Error("failed to get user by email", slog.Any("error", err))
		return models.ErrInternalServer
	}

	if err := s.credentials.UpdatePassword(ctx, user, newPassword); err != nil {
		s.auditLogger.LogPasswordReset("password_reset", email, false, "update_failed")
		return err
	}

	s.auditLogger.LogPasswordReset("password_reset", email, true, "")
	return nil
}
