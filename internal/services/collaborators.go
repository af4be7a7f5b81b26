package services

import (
	"context"
	"time"

	"github.com/justsurfingit/jobs-in-germany/internal/formflow"
	"github.com/justsurfingit/jobs-in-germany/internal/models"
)

//go:generate mockgen -destination=mocks/mock_collaborators.go -package=mocks . Authenticator,DocumentStore,PaymentProcessor,Notifier

// Session is what a successful sign-in hands back to the client.
type Session struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expiresAt"`
	User      UserProfile `json:"user"`
}

// UserProfile is the public view of an account.
type UserProfile struct {
	ID    uint   `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

func profileOf(u *models.User) UserProfile {
	return UserProfile{ID: u.ID, Email: u.Email, Name: u.Name, Role: u.Role}
}

// CardFields are the values of the payment form.
type CardFields struct {
	Name   string
	Number string
	Expiry string
	CVC    string
	Course string
}

// Last4 returns the last four digits of the card number.
func (c CardFields) Last4() string {
	digits := make([]byte, 0, len(c.Number))
	for i := 0; i < len(c.Number); i++ {
		if ch := c.Number[i]; ch >= '0' && ch <= '9' {
			digits = append(digits, ch)
		}
	}
	if len(digits) <= 4 {
		return string(digits)
	}
	return string(digits[len(digits)-4:])
}

// Notification is a confirmation message to one recipient.
type Notification struct {
	To      string
	Subject string
	Body    string
}

// Authenticator verifies credentials and opens a session.
type Authenticator interface {
	SignIn(ctx context.Context, email, password string) (*Session, error)
}

// DocumentStore keeps uploaded resumes.
type DocumentStore interface {
	Upload(ctx context.Context, userID uint, file *formflow.File) (*models.Resume, error)
}

// PaymentProcessor charges a card for a course.
type PaymentProcessor interface {
	Charge(ctx context.Context, userID uint, card CardFields) (*models.Payment, error)
}

// Notifier delivers confirmation messages.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}
