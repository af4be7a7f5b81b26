package formflow

import (
	"sort"
	"strings"
)

// File is an uploaded file field. ContentType is the media type declared by
// the client, not one derived from the bytes.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// Size returns the file length in bytes.
func (f *File) Size() int64 {
	if f == nil {
		return 0
	}
	return int64(len(f.Data))
}

// Value is the current value of a single field: either text or a file.
type Value struct {
	Text string
	File *File
}

// Text wraps a string as a field value.
func Text(s string) Value {
	return Value{Text: s}
}

// Upload wraps a file as a field value.
func Upload(f *File) Value {
	return Value{File: f}
}

// IsEmpty reports whether the value carries neither text nor file content.
func (v Value) IsEmpty() bool {
	if v.File != nil {
		return len(v.File.Data) == 0
	}
	return strings.TrimSpace(v.Text) == ""
}

// Fields maps field names to their current values.
type Fields map[string]Value

// Text returns the text value of the named field, or "".
func (f Fields) Text(name string) string {
	return f[name].Text
}

// File returns the file value of the named field, or nil.
func (f Fields) File(name string) *File {
	return f[name].File
}

// Clone returns a shallow copy. File contents are shared; they are never
// mutated after being set.
func (f Fields) Clone() Fields {
	out := make(Fields, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

// Names returns the sorted names of fields that hold a non-empty value.
func (f Fields) Names() []string {
	names := make([]string, 0, len(f))
	for k, v := range f {
		if !v.IsEmpty() {
			names = append(names, k)
		}
	}
	sort.Strings(names)
	return names
}
