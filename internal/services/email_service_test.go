package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSES struct {
	input *ses.SendEmailInput
	err   error
}

func (f *fakeSES) SendEmail(_ context.Context, params *ses.SendEmailInput, _ ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &ses.SendEmailOutput{MessageId: aws.String("msg-1")}, nil
}

func TestSESResetNotifier_SendResetToken(t *testing.T) {
	client := &fakeSES{}
	notifier := NewSESResetNotifierWithClient(client, "no-reply@quill.dev", "https://quill.dev/reset/", testLogger())

	err := notifier.SendResetToken(context.Background(), "a@x.com", "abc123", time.Hour)
	require.NoError(t, err)

	require.NotNil(t, client.input)
	assert.Equal(t, "no-reply@quill.dev", aws.ToString(client.input.Source))
	assert.Equal(t, []string{"a@x.com"}, client.input.Destination.ToAddresses)
	body := aws.ToString(client.input.Message.Body.Text.Data)
	assert.True(t, strings.Contains(body, "https://quill.dev/reset/abc123"), body)
	assert.True(t, strings.Contains(body, "1h0m0s"), body)
}

func TestSESResetNotifier_SendFailure(t *testing.T) {
	client := &fakeSES{err: errors.New("throttled")}
	notifier := NewSESResetNotifierWithClient(client, "no-reply@quill.dev", "https://quill.dev/reset", testLogger())

	assert.Error(t, notifier.SendResetToken(context.Background(), "a@x.com", "abc123", time.Hour))
}

func TestLogResetNotifier(t *testing.T) {
	assert.NoError(t, NewLogResetNotifier(testLogger()).SendResetToken(context.Background(), "a@x.com", "abc123", time.Hour))
}
