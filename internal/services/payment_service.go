package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/justsurfingit/jobs-in-germany/internal/models"
	"gorm.io/gorm"
)

// DeclinedTestCard is always refused by the simulated gateway.
const DeclinedTestCard = "4000000000000002"

var (
	ErrCardDeclined  = errors.New("card declined")
	ErrUnknownCourse = errors.New("unknown course")
)

// Gateway authorizes a charge and returns the provider's reference.
type Gateway interface {
	Authorize(ctx context.Context, card CardFields, amountCents int64, currency string) (string, error)
}

// SimulatedGateway approves every card except DeclinedTestCard after a
// fixed delay.
type SimulatedGateway struct {
	Delay time.Duration
}

func (g SimulatedGateway) Authorize(ctx context.Context, card CardFields, amountCents int64, currency string) (string, error) {
	if err := sleepCtx(ctx, g.Delay); err != nil {
		return "", err
	}
	if strings.ReplaceAll(card.Number, " ", "") == DeclinedTestCard {
		return "", ErrCardDeclined
	}
	if amountCents <= 0 {
		return "", fmt.Errorf("invalid amount %d %s", amountCents, currency)
	}
	return "sim_" + uuid.NewString(), nil
}

// PaymentService is the PaymentProcessor: it prices the selected course,
// authorizes the card and records the payment.
type PaymentService struct {
	DB      *gorm.DB
	Gateway Gateway
	Logger  *slog.Logger
}

func NewPaymentService(db *gorm.DB, gateway Gateway, logger *slog.Logger) *PaymentService {
	return &PaymentService{DB: db, Gateway: gateway, Logger: logger}
}

func (s *PaymentService) Charge(ctx context.Context, userID uint, card CardFields) (*models.Payment, error) {
	var course models.Course
	err := s.DB.WithContext(ctx).Where("code = ?", strings.ToUpper(strings.TrimSpace(card.Course))).First(&course).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUnknownCourse
	}
	if err != nil {
		return nil, err
	}

	ref, err := s.Gateway.Authorize(ctx, card, course.PriceCents, course.Currency)
	if err != nil {
		return nil, err
	}

	payment := &models.Payment{
		UserID:      userID,
		CourseID:    course.ID,
		Course:      course,
		AmountCents: course.PriceCents,
		Currency:    course.Currency,
		CardLast4:   card.Last4(),
		Reference:   ref,
		Status:      "PAID",
	}
	if err := s.DB.WithContext(ctx).Omit("Course").Create(payment).Error; err != nil {
		return nil, fmt.Errorf("record payment %s: %w", ref, err)
	}
	s.Logger.Info("payment recorded", "user_id", userID, "course", course.Code, "reference", ref)
	return payment, nil
}

// Courses lists the catalog ordered by price.
func (s *PaymentService) Courses(ctx context.Context) ([]models.Course, error) {
	var courses []models.Course
	err := s.DB.WithContext(ctx).Order("price_cents asc").Find(&courses).Error
	return courses, err
}
