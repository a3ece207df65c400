// Package validation holds the upload policy and the typed, tag-validated
// inputs accepted by the access services.
package validation

import (
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/filevault/internal/common"
)

// Policy is the upload allow-list and size ceiling.
type Policy struct {
	AllowedExtensions []string
	MaxSizeBytes      int64
}

// NewPolicy normalizes extensions to lower case without a leading dot.
func NewPolicy(extensions []string, maxSize int64) *Policy {
	exts := make([]string, 0, len(extensions))
	for _, e := range extensions {
		e = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(e), "."))
		if e != "" {
			exts = append(exts, e)
		}
	}
	return &Policy{AllowedExtensions: exts, MaxSizeBytes: maxSize}
}

// Extension returns the lower-cased text after the last dot of the base
// name, or "" when there is none.
func Extension(filename string) string {
	base := filepath.Base(strings.ReplaceAll(filename, `\`, "/"))
	i := strings.LastIndexByte(base, '.')
	if i < 0 || i == len(base)-1 {
		return ""
	}
	return strings.ToLower(base[i+1:])
}

// ValidateUpload checks the extension first and the size second, and returns
// the normalized extension. The detected MIME type is recorded by the caller
// and does not affect the decision.
func (p *Policy) ValidateUpload(filename, detectedMime string, size int64) (string, error) {
	ext := Extension(filename)
	if !p.allowed(ext) {
		return "", &common.ValidationError{Field: "filename", Err: common.ErrUnsupportedType}
	}
	if size > p.MaxSizeBytes {
		return "", &common.ValidationError{Field: "content", Err: common.ErrTooLarge}
	}
	return ext, nil
}

func (p *Policy) allowed(ext string) bool {
	if ext == "" {
		return false
	}
	for _, a := range p.AllowedExtensions {
		if strings.EqualFold(a, ext) {
			return true
		}
	}
	return false
}
