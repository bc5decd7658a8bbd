// internal/views/batch/detect.go
package batch

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/anujsoni3/NovaScore/internal/api"
)

// DetectMediaType names the content type of an upload. The extension wins,
// as it does when a browser picks a file. Content sniffing is the fallback.
func DetectMediaType(name string, content []byte) string {
	if strings.EqualFold(filepath.Ext(name), ".csv") {
		return api.CSVMediaType
	}
	return mimetype.Detect(content).String()
}

// NewFile wraps in-memory content as an upload.
func NewFile(name string, content []byte) api.File {
	return api.File{
		Name:      name,
		MediaType: DetectMediaType(name, content),
		Content:   bytes.NewReader(content),
	}
}

// OpenFile reads path and detects its media type.
func OpenFile(path string) (api.File, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return api.File{}, fmt.Errorf("read batch file: %w", err)
	}
	return NewFile(path, content), nil
}
