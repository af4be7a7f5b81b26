package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/justsurfingit/jobs-in-germany/internal/auth"
	"github.com/justsurfingit/jobs-in-germany/internal/models"
	"gorm.io/gorm"
)

var (
	ErrInvalidCredentials = errors.New("invalid login credentials")
	ErrEmailTaken         = errors.New("email already registered")
	ErrUserNotFound       = errors.New("user not found")
)

// AuthService is the Authenticator backed by the users table.
type AuthService struct {
	DB     *gorm.DB
	Tokens *auth.TokenIssuer
	Logger *slog.Logger
}

func NewAuthService(db *gorm.DB, tokens *auth.TokenIssuer, logger *slog.Logger) *AuthService {
	return &AuthService{DB: db, Tokens: tokens, Logger: logger}
}

func (s *AuthService) SignIn(ctx context.Context, email, password string) (*Session, error) {
	var user models.User
	err := s.DB.WithContext(ctx).Where("email = ?", normalizeEmail(email)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !auth.CheckPassword(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	return s.session(&user)
}

// Register creates a candidate account and signs it in.
func (s *AuthService) Register(ctx context.Context, email, password, name string) (*Session, error) {
	user, err := s.CreateUser(ctx, email, password, name, "candidate")
	if err != nil {
		return nil, err
	}
	return s.session(user)
}

// CreateUser inserts an account with the given role.
func (s *AuthService) CreateUser(ctx context.Context, email, password, name, role string) (*models.User, error) {
	email = normalizeEmail(email)
	var count int64
	if err := s.DB.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrEmailTaken
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user := &models.User{Email: email, Name: name, PasswordHash: hash, Role: role}
	if err := s.DB.WithContext(ctx).Create(user).Error; err != nil {
		return nil, err
	}
	s.Logger.Info("account created", "user_id", user.ID, "role", role)
	return user, nil
}

// Me returns the profile of userID.
func (s *AuthService) Me(ctx context.Context, userID uint) (*UserProfile, error) {
	var user models.User
	err := s.DB.WithContext(ctx).First(&user, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	p := profileOf(&user)
	return &p, nil
}

func (s *AuthService) session(user *models.User) (*Session, error) {
	token, expires, err := s.Tokens.Generate(user.ID, user.Email, user.Name, user.Role)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &Session{Token: token, ExpiresAt: expires, User: profileOf(user)}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
