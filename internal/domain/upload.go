package domain

import "strings"

var DefaultAllowedFileTypes = []string{
	"image/jpeg",
	"image/jpg",
	"image/png",
	"application/pdf",
	"text/plain",
	"text/csv",
}

type UploadFile struct {
	Name string
	Type string
	Path string
	Size int64
}

type UploadReceipt struct {
	Message  string `json:"message"`
	FileName string `json:"file_name,omitempty"`
}

type FileTypePolicy struct {
	allowed map[string]struct{}
}

func NewFileTypePolicy(types []string) FileTypePolicy {
	allowed := make(map[string]struct{}, len(types))
	for _, t := range types {
		normalized := NormalizeMIMEType(t)
		if normalized == "" {
			continue
		}
		allowed[normalized] = struct{}{}
	}
	return FileTypePolicy{allowed: allowed}
}

func (p FileTypePolicy) Allows(mimeType string) bool {
	_, ok := p.allowed[NormalizeMIMEType(mimeType)]
	return ok
}

// NormalizeMIMEType lowercases the type and drops parameters such as
// "; charset=utf-8".
func NormalizeMIMEType(raw string) string {
	if i := strings.IndexByte(raw, ';'); i >= 0 {
		raw = raw[:i]
	}
	return strings.ToLower(strings.TrimSpace(raw))
}
