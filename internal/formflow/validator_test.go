package formflow

import (
	"testing"

	"github.com/stretchr/testify/require"
)

var pdfHeader = []byte("%PDF-1.7\n1 0 obj\n<< /Type /Catalog >>\nendobj\n")

func signInRules() Validator {
	return Rules(
		Required("email", "email is required"),
		Email("email"),
		Required("password", ""),
	)
}

func TestRules_SignIn(t *testing.T) {
	tests := []struct {
		name   string
		fields Fields
		field  string
		reason string
	}{
		{"valid", Fields{"email": Text("user@example.com"), "password": Text("secret")}, "", ""},
		{"missing email", Fields{"password": Text("secret")}, "email", "email is required"},
		{"blank email", Fields{"email": Text("   "), "password": Text("secret")}, "email", "email is required"},
		{"not an email", Fields{"email": Text("not-an-email"), "password": Text("secret")}, "email", "valid email required"},
		{"missing password", Fields{"email": Text("user@example.com")}, "password", "password is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := signInRules()(tt.fields)
			if tt.reason == "" {
				require.NoError(t, err)
				return
			}
			verr, ok := AsValidation(err)
			require.True(t, ok, "expected ValidationError, got %v", err)
			require.Equal(t, tt.field, verr.Field)
			require.Equal(t, tt.reason, verr.Reason)
		})
	}
}

func TestFileType(t *testing.T) {
	rule := Rules(Required("resume", "please choose a file"), FileType("resume", "application/pdf"))

	tests := []struct {
		name   string
		file   *File
		reason string
	}{
		{"pdf", &File{Name: "cv.pdf", ContentType: "application/pdf", Data: pdfHeader}, ""},
		{"pdf with params", &File{Name: "cv.pdf", ContentType: "application/PDF; charset=binary", Data: pdfHeader}, ""},
		{"png", &File{Name: "cv.png", ContentType: "image/png", Data: []byte("\x89PNG\r\n\x1a\n")}, ReasonWrongFileType},
		{"declared type wins over content", &File{Name: "cv.pdf", ContentType: "image/png", Data: pdfHeader}, ReasonWrongFileType},
		{"undeclared pdf is sniffed", &File{Name: "cv", Data: pdfHeader}, ""},
		{"undeclared text is sniffed", &File{Name: "cv.txt", Data: []byte("hello there")}, ReasonWrongFileType},
		{"octet-stream is not sniffed", &File{Name: "cv.pdf", ContentType: "application/octet-stream", Data: pdfHeader}, ReasonWrongFileType},
		{"empty file", &File{Name: "cv.pdf", ContentType: "application/pdf"}, "please choose a file"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := rule(Fields{"resume": Upload(tt.file)})
			if tt.reason == "" {
				require.NoError(t, err)
				return
			}
			require.EqualError(t, err, tt.reason)
		})
	}
}

func TestFileType_NoFileIsLeftToRequired(t *testing.T) {
	require.Nil(t, FileType("resume", "application/pdf")(Fields{}))
}

func TestEmail_EmptyIsLeftToRequired(t *testing.T) {
	require.Nil(t, Email("email")(Fields{"email": Text("")}))
}

func TestFieldKinds(t *testing.T) {
	file := FileField("resume", "please choose a file")
	require.Nil(t, file(Fields{}))
	require.Nil(t, file(Fields{"resume": Text("  ")}))
	require.Nil(t, file(Fields{"resume": Upload(&File{Data: pdfHeader})}))
	verr := file(Fields{"resume": Text("not a file")})
	require.NotNil(t, verr)
	require.Equal(t, "resume", verr.Field)
	require.Equal(t, "please choose a file", verr.Reason)

	text := TextField("email", "")
	require.Nil(t, text(Fields{"email": Text("user@example.com")}))
	require.Nil(t, text(Fields{}))
	verr = text(Fields{"email": Upload(&File{Name: "a.txt", Data: []byte("user@example.com")})})
	require.NotNil(t, verr)
	require.Equal(t, "email must be text", verr.Reason)
}
