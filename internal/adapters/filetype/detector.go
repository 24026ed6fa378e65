package filetype

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/bnema/spaceo-chat/internal/ports"
	"github.com/h2non/filetype"
)

// headerSize covers every matcher in h2non/filetype.
const headerSize = 8192

var extensionTypes = map[string]string{
	".txt":  "text/plain",
	".csv":  "text/csv",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".pdf":  "application/pdf",
	".exe":  "application/x-msdownload",
}

// Detector sniffs file content and falls back to the extension for formats
// without a magic number, such as plain text and CSV.
type Detector struct{}

var _ ports.FileTypeDetector = Detector{}

func NewDetector() Detector {
	return Detector{}
}

func (Detector) Detect(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	header := make([]byte, headerSize)
	n, err := io.ReadFull(file, header)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	header = header[:n]

	kind, err := filetype.Match(header)
	if err == nil && kind != filetype.Unknown {
		return kind.MIME.Value, nil
	}

	return ByExtension(path), nil
}

// ByExtension maps a file name to a MIME type without touching the file.
// Unknown extensions yield "application/octet-stream".
func ByExtension(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if known, ok := extensionTypes[ext]; ok {
		return known
	}
	if guessed := mime.TypeByExtension(ext); guessed != "" {
		return guessed
	}
	return "application/octet-stream"
}
