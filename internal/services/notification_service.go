package services

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"strings"
	"time"

	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/googleapi"
)

// NotificationService sends confirmation e-mails through the Gmail API.
// Without a Gmail client it only logs what it would have sent.
type NotificationService struct {
	GmailClient *gmail.Service
	From        string
	Logger      *slog.Logger
}

func NewNotificationService(gmailClient *gmail.Service, from string, logger *slog.Logger) *NotificationService {
	return &NotificationService{GmailClient: gmailClient, From: from, Logger: logger}
}

func (s *NotificationService) Notify(ctx context.Context, n Notification) error {
	if s.GmailClient == nil {
		s.Logger.Info("notification (gmail disabled)", "to", n.To, "subject", n.Subject)
		return nil
	}
	msg := &gmail.Message{Raw: encodeMessage(buildMessage(s.From, n))}
	err := retry(ctx, s.Logger, 3, time.Second, func() error {
		_, err := s.GmailClient.Users.Messages.Send("me", msg).Context(ctx).Do()
		return err
	})
	if err != nil {
		return fmt.Errorf("send notification to %s: %w", n.To, err)
	}
	s.Logger.Info("notification sent", "to", n.To, "subject", n.Subject)
	return nil
}

// buildMessage renders n as an RFC 5322 message.
func buildMessage(from string, n Notification) string {
	var b strings.Builder
	if from != "" {
		fmt.Fprintf(&b, "From: %s\r\n", from)
	}
	fmt.Fprintf(&b, "To: %s\r\n", n.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", n.Subject))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(strings.ReplaceAll(n.Body, "\n", "\r\n"))
	return b.String()
}

func encodeMessage(raw string) string {
	return base64.URLEncoding.EncodeToString([]byte(raw))
}

// retry runs f up to attempts times with exponential backoff. Client
// errors (4xx) are not retried.
func retry(ctx context.Context, logger *slog.Logger, attempts int, sleep time.Duration, f func() error) error {
	var err error
	for i := 0; i < attempts; i++ {
		if err = f(); err == nil {
			return nil
		}
		if isPermanent(err) || i == attempts-1 {
			break
		}
		logger.Warn("gmail api error, retrying", "error", err, "backoff", sleep)
		if werr := sleepCtx(ctx, sleep); werr != nil {
			return werr
		}
		sleep *= 2
	}
	return err
}

func isPermanent(err error) bool {
	var gErr *googleapi.Error
	if errors.As(err, &gErr) {
		return gErr.Code >= 400 && gErr.Code < 500 && gErr.Code != 429
	}
	return false
}
