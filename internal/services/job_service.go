package services

import (
	"context"

	"github.com/justsurfingit/jobs-in-germany/internal/dtos"
	"github.com/justsurfingit/jobs-in-germany/internal/models"
	"gorm.io/gorm"
)

type JobService struct {
	DB *gorm.DB
}

func NewJobService(db *gorm.DB) *JobService {
	return &JobService{
		DB: db,
	}
}

func (s *JobService) CreateJob(ctx context.Context, req *dtos.JobCreationRequest) (*models.Job, error) {
	db := s.DB.WithContext(ctx)
	var company models.Company
	// creates the company the first time it posts
	err := db.Where(models.Company{Name: req.CompanyName}).
		Attrs(models.Company{City: req.City}).
		FirstOrCreate(&company).Error
	if err != nil {
		return nil, err
	}

	status := req.Status
	if status == "" {
		status = models.JobStatusOpen
	}
	location := req.Location
	if location == "" {
		location = req.City
	}
	job := &models.Job{
		CompanyID:     company.ID,
		Company:       company,
		Title:         req.Title,
		Description:   req.Description,
		Location:      location,
		GermanLevel:   req.GermanLevel,
		VisaSponsored: req.VisaSponsored,
		SalaryRange:   req.SalaryRange,
		JobLink:       req.JobLink,
		Status:        status,
	}
	if err := db.Omit("Company").Create(job).Error; err != nil {
		return nil, err
	}
	return job, nil
}

// ListOpen returns open positions, newest first, with their company.
func (s *JobService) ListOpen(ctx context.Context, limit int) ([]models.Job, error) {
	var jobs []models.Job
	q := s.DB.WithContext(ctx).Preload("Company").
		Where("status = ?", models.JobStatusOpen).
		Order("created_at desc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&jobs).Error
	return jobs, err
}
