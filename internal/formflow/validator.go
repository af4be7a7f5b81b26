package formflow

import (
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-playground/validator/v10"
)

// Reasons reported by the built-in rules.
const (
	ReasonInvalidEmail  = "valid email required"
	ReasonWrongFileType = "wrong file type"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Rule checks one aspect of the fields and returns nil when it passes.
// Rules must be pure: no I/O, no mutation of fields.
type Rule func(fields Fields) *ValidationError

// Validator turns fields into nil (Valid) or a *ValidationError (Invalid).
type Validator func(fields Fields) error

// Rules runs each rule in order and stops at the first failure.
func Rules(rules ...Rule) Validator {
	return func(fields Fields) error {
		for _, rule := range rules {
			if verr := rule(fields); verr != nil {
				return verr
			}
		}
		return nil
	}
}

// Required fails when the field is missing, blank, or an empty file.
// An empty reason defaults to "<field> is required".
func Required(field, reason string) Rule {
	if reason == "" {
		reason = field + " is required"
	}
	return func(fields Fields) *ValidationError {
		v, ok := fields[field]
		if !ok {
			return &ValidationError{Field: field, Reason: reason}
		}
		if v.File != nil {
			if len(v.File.Data) == 0 {
				return &ValidationError{Field: field, Reason: reason}
			}
			return nil
		}
		if err := validate.Var(strings.TrimSpace(v.Text), "required"); err != nil {
			return &ValidationError{Field: field, Reason: reason}
		}
		return nil
	}
}

// Email fails when a non-empty field does not contain "@". Presence is the
// job of Required.
func Email(field string) Rule {
	return func(fields Fields) *ValidationError {
		text := strings.TrimSpace(fields.Text(field))
		if text == "" {
			return nil
		}
		if err := validate.Var(text, "contains=@"); err != nil {
			return &ValidationError{Field: field, Reason: ReasonInvalidEmail}
		}
		return nil
	}
}

// FileField fails when the field holds text instead of a file. Empty
// values are left to Required. An empty reason defaults to
// "<field> must be a file".
func FileField(field, reason string) Rule {
	if reason == "" {
		reason = field + " must be a file"
	}
	return func(fields Fields) *ValidationError {
		v, ok := fields[field]
		if !ok || v.File != nil || v.IsEmpty() {
			return nil
		}
		return &ValidationError{Field: field, Reason: reason}
	}
}

// TextField fails when the field holds a file instead of text.
// An empty reason defaults to "<field> must be text".
func TextField(field, reason string) Rule {
	if reason == "" {
		reason = field + " must be text"
	}
	return func(fields Fields) *ValidationError {
		if fields.File(field) == nil {
			return nil
		}
		return &ValidationError{Field: field, Reason: reason}
	}
}

// FileType fails when the file's media type is not one of accepted.
// The declared type is authoritative, application/octet-stream included;
// the bytes are sniffed only when the client declared nothing.
func FileType(field string, accepted ...string) Rule {
	return func(fields Fields) *ValidationError {
		f := fields.File(field)
		if f == nil {
			return nil
		}
		declared := MediaType(f)
		for _, a := range accepted {
			if strings.EqualFold(declared, a) {
				return nil
			}
		}
		return &ValidationError{Field: field, Reason: ReasonWrongFileType}
	}
}

// MediaType returns the declared media type of f without parameters,
// falling back to content sniffing only when none was declared.
func MediaType(f *File) string {
	ct := strings.TrimSpace(f.ContentType)
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	if ct == "" {
		if len(f.Data) == 0 {
			return ct
		}
		detected := mimetype.Detect(f.Data).String()
		if i := strings.IndexByte(detected, ';'); i >= 0 {
			detected = detected[:i]
		}
		return detected
	}
	return strings.ToLower(ct)
}
