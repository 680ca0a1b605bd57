package services

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/BradenHooton/quill/pkg/logger"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

// ResetNotifier delivers a password reset token to the address it was issued for
type ResetNotifier interface {
	SendResetToken(ctx context.Context, email, token string, ttl time.Duration) error
}

// SESAPI is the subset of the SES client used for delivery
type SESAPI interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// SESResetNotifier sends reset emails using AWS SES
type SESResetNotifier struct {
	client      SESAPI
	fromAddress string
	resetURL    string
	logger      *slog.Logger
}

// NewSESResetNotifier loads the default AWS credential chain for region
func NewSESResetNotifier(ctx context.Context, region, fromAddress, resetURL string, logger *slog.Logger) (*SESResetNotifier, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return NewSESResetNotifierWithClient(ses.NewFromConfig(cfg), fromAddress, resetURL, logger), nil
}

func NewSESResetNotifierWithClient(client SESAPI, fromAddress, resetURL string, logger *slog.Logger) *SESResetNotifier {
	return &SESResetNotifier{
		client:      client,
		fromAddress: fromAddress,
		resetURL:    strings.TrimRight(resetURL, "/"),
		logger:      logger,
	}
}

func (n *SESResetNotifier) SendResetToken(ctx context.Context, email, token string, ttl time.Duration) error {
	link := n.resetURL + "/" + url.PathEscape(token)

	textBody := fmt.Sprintf(`Reset your password

Someone asked to reset the password for this address. To choose a new password, open the link below:

%s

The link expires in %s and can be used once. If you did not ask for a reset, you can ignore this email.
`, link, ttl.Round(time.Minute))

	input := &ses.SendEmailInput{
		Source: aws.String(n.fromAddress),
		Destination: &types.Destination{
			ToAddresses: []string{email},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Data: aws.String("Reset your password"),
			},
			Body: &types.Body{
				Text: &types.Content{
					Data: aws.String(textBody),
				},
			},
		},
	}

	result, err := n.client.SendEmail(ctx, input)
	if err != nil {
		n.logger.Error("failed to send reset email via SES",
			slog.String("email", logger.SanitizedEmail(email)),
			slog.Any("error", err))
		return fmt.Errorf("failed to send email: %w", err)
	}

	n.logger.Info("reset email sent",
		slog.String("email", logger.SanitizedEmail(email)),
		slog.String("message_id", aws.ToString(result.MessageId)))

	return nil
}

// LogResetNotifier records that a reset was requested without sending anything.
// Used when no sender address is configured.
type LogResetNotifier struct {
	logger *slog.Logger
}

func NewLogResetNotifier(logger *slog.Logger) *LogResetNotifier {
	return &LogResetNotifier{logger: logger}
}

func (n *LogResetNotifier) SendResetToken(_ context.Context, email, _ string, ttl time.Duration) error {
	n.logger.Info("reset email delivery disabled",
		slog.String("email", logger.SanitizedEmail(email)),
		slog.Duration("ttl", ttl))
	return nil
}
