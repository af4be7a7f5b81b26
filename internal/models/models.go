package models

import (
	"time"

	"gorm.io/gorm"
)

// User is a candidate account that signs in to the dashboard.
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	Name         string `json:"name"`
	PasswordHash string `gorm:"not null" json:"-"`
	Role         string `gorm:"default:'candidate'" json:"role"`

	Resumes  []Resume  `json:"resumes,omitempty"`
	Payments []Payment `json:"payments,omitempty"`
}

// Resume is one uploaded CV. The bytes live in the document store under BlobKey.
type Resume struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	UserID      uint   `gorm:"index" json:"user_id"`
	FileName    string `gorm:"not null" json:"file_name"`
	ContentType string `json:"content_type"`
	SizeBytes   int64  `json:"size_bytes"`
	BlobKey     string `gorm:"uniqueIndex;not null" json:"blob_key"`
}

// Course is an entry of the catalog offered on the payment page.
type Course struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	Code        string `gorm:"uniqueIndex;not null" json:"code"`
	Title       string `gorm:"not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	PriceCents  int64  `json:"price_cents"`
	Currency    string `gorm:"default:'EUR'" json:"currency"`
}

// Payment records a completed charge. Only the last four card digits are kept.
type Payment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	UserID      uint   `gorm:"index" json:"user_id"`
	CourseID    uint   `json:"course_id"`
	Course      Course `json:"course"`
	AmountCents int64  `json:"amount_cents"`
	Currency    string `json:"currency"`
	CardLast4   string `json:"card_last4"`
	Reference   string `gorm:"uniqueIndex" json:"reference"`
	Status      string `gorm:"default:'PAID'" json:"status"`
}

type Company struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Name string `gorm:"uniqueIndex;not null" json:"company_name"`
	City string `json:"city"`

	// 'omitempty' keeps Job -> Company -> Jobs from recursing in responses
	Jobs []Job `json:"jobs,omitempty"`
}

// Job is an open position advertised on the site.
type Job struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	CompanyID uint    `json:"company_id"`
	Company   Company `json:"company"`

	Title         string `gorm:"not null" json:"title"`
	Description   string `gorm:"type:text" json:"description"`
	Location      string `json:"location"`
	GermanLevel   string `json:"german_level"`
	VisaSponsored bool   `json:"visa_sponsored"`
	SalaryRange   string `json:"salary_range"`
	JobLink       string `json:"job_link"`
	Status        string `gorm:"default:'OPEN'" json:"status"`
}

const (
	JobStatusOpen   = "OPEN"
	JobStatusFilled = "FILLED"
	JobStatusClosed = "CLOSED"
)
