package services

import (
	"context"

	"github.com/dustin/go-humanize"
	"github.com/justsurfingit/jobs-in-germany/internal/models"
	"gorm.io/gorm"
)

// Banner holds the figures shown on the landing page.
type Banner struct {
	OpenPositions    int64 `json:"openPositions"`
	PartnerCompanies int64 `json:"partnerCompanies"`
	Candidates       int64 `json:"candidates"`
	Enrolments       int64 `json:"enrolments"`

	Display map[string]string `json:"display"`
}

type StatsService struct {
	DB *gorm.DB
}

func NewStatsService(db *gorm.DB) *StatsService {
	return &StatsService{DB: db}
}

func (s *StatsService) Banner(ctx context.Context) (*Banner, error) {
	db := s.DB.WithContext(ctx)
	var b Banner
	if err := db.Model(&models.Job{}).Where("status = ?", models.JobStatusOpen).Count(&b.OpenPositions).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Company{}).Count(&b.PartnerCompanies).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.User{}).Where("role = ?", "candidate").Count(&b.Candidates).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Payment{}).Count(&b.Enrolments).Error; err != nil {
		return nil, err
	}
	b.Display = map[string]string{
		"openPositions":    humanize.Comma(b.OpenPositions),
		"partnerCompanies": humanize.Comma(b.PartnerCompanies),
		"candidates":       humanize.Comma(b.Candidates),
		"enrolments":       humanize.Comma(b.Enrolments),
	}
	return &b, nil
}
