package dtos

type JobExtractionRequest struct {
	RawHTML string `json:"raw_html" binding:"required"`
	URL     string `json:"url"`
}

// JobExtraction is the structured posting returned by the extraction model.
// Missing values come back as null and decode to zero values.
type JobExtraction struct {
	CompanyName   string   `json:"company_name"`
	Title         string   `json:"role_title"`
	Location      string   `json:"location"`
	Description   string   `json:"description"`
	TechStack     []string `json:"tech_stack"`
	SalaryRange   string   `json:"salary_range"`
	GermanLevel   string   `json:"german_level"`
	VisaSponsored bool     `json:"visa_sponsored"`
}

type JobCreationRequest struct {
	CompanyName string `json:"company_name" binding:"required"`
	Title       string `json:"role_title" binding:"required"`
	JobLink     string `json:"job_link" binding:"required,url"`
	Description string `json:"description" binding:"required"`

	// Optional Fields
	City          string `json:"city"`
	Location      string `json:"location"`
	SalaryRange   string `json:"salary_range"`
	GermanLevel   string `json:"german_level" binding:"omitempty,oneof=A1 A2 B1 B2 C1 C2"`
	VisaSponsored bool   `json:"visa_sponsored"`
	Status        string `json:"status" binding:"omitempty,oneof=OPEN FILLED CLOSED"` // Defaults to "OPEN" if empty
}
