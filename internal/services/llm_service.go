package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/justsurfingit/jobs-in-germany/internal/dtos"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
)

// maxPostingBytes caps how much of a raw posting is sent to the model.
const maxPostingBytes = 20000

var ErrLLMDisabled = errors.New("job extraction is not configured")

type LLMService struct {
	Client llms.Model
}

// NewLLMService connects to Gemini. An empty key yields a service whose
// calls return ErrLLMDisabled.
func NewLLMService(ctx context.Context, apiKey string) (*LLMService, error) {
	if apiKey == "" {
		return &LLMService{}, nil
	}
	llm, err := googleai.New(ctx,
		googleai.WithAPIKey(apiKey),
		googleai.WithDefaultModel("gemini-2.5-flash"),
	)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &LLMService{Client: llm}, nil
}

// Enabled reports whether a model is configured.
func (s *LLMService) Enabled() bool {
	return s != nil && s.Client != nil
}

const jobExtractionPrompt = `
You are a data extraction agent for a job board that places international candidates with employers in Germany.
Analyze the raw HTML/text of one job posting and extract structured data.

### INSTRUCTIONS:
1. Ignore navigation menus, footers, "similar jobs" lists and advertisements.
2. Extract the fields below strictly. The posting may be written in German or English; answer in English.
3. Output valid JSON only. Do not wrap the output in markdown code blocks.

### OUTPUT SCHEMA:
{
    "company_name": "Name of the employer",
    "role_title": "Job title",
    "location": "City in Germany, or 'Remote'",
    "description": "Clean summary of responsibilities and requirements without HTML",
    "tech_stack": ["skills", "or", "tools", "mentioned"],
    "salary_range": "Salary string if explicitly mentioned (e.g. '55.000 - 65.000 EUR'), otherwise null",
    "german_level": "Required CEFR German level (A1, A2, B1, B2, C1, C2) if stated, otherwise null",
    "visa_sponsored": true if visa or relocation support is offered, otherwise false
}

### CONSTRAINT:
If a piece of information is missing, set the value to null. Do not guess.

### RAW CONTENT:
%s
`

// ExtractJobDetails turns a raw posting into a JobExtraction.
func (s *LLMService) ExtractJobDetails(ctx context.Context, rawHTML string) (*dtos.JobExtraction, error) {
	if !s.Enabled() {
		return nil, ErrLLMDisabled
	}
	rawHTML = truncateUTF8(rawHTML, maxPostingBytes)
	resp, err := llms.GenerateFromSinglePrompt(ctx, s.Client, fmt.Sprintf(jobExtractionPrompt, rawHTML))
	if err != nil {
		return nil, err
	}
	var out dtos.JobExtraction
	if err := json.Unmarshal([]byte(stripCodeFence(resp)), &out); err != nil {
		return nil, fmt.Errorf("decode model output: %w", err)
	}
	return &out, nil
}

// stripCodeFence removes a ```json ... ``` wrapper that models add despite
// being told not to.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// truncateUTF8 cuts s to at most n bytes without splitting a rune.
func truncateUTF8(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
