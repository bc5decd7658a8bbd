package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"path/filepath"
	"strings"

	apperrors "github.com/anujsoni3/NovaScore/internal/common/errors"
	"github.com/anujsoni3/NovaScore/internal/models"
)

const (
	CSVMediaType   = "text/csv"
	batchFormField = "file"
)

// File is an upload handle: a name, its declared media type and its content.
type File struct {
	Name      string
	MediaType string
	Content   io.Reader
}

// IsCSV reports whether the declared media type is text/csv, ignoring parameters.
func (f File) IsCSV() bool {
	mediaType, _, err := mime.ParseMediaType(f.MediaType)
	if err != nil {
		return false
	}
	return strings.EqualFold(mediaType, CSVMediaType)
}

// SubmitBatch uploads a CSV of partner rows. A file that is not declared as
// text/csv is rejected before any connection is opened.
func (c *Client) SubmitBatch(ctx context.Context, file File) (*models.BatchResult, error) {
	if !file.IsCSV() {
		c.logger.Warn("rejected non-CSV batch upload", map[string]interface{}{
			"operation": OpBatchAssess,
			"filename":  file.Name,
			"mediaType": file.MediaType,
		})
		return nil, apperrors.NewInvalidMimeTypeError(file.Name, file.MediaType)
	}
	if file.Content == nil {
		return nil, fmt.Errorf("batch file %s has no content", file.Name)
	}

	body, contentType, err := multipartBody(file)
	if err != nil {
		return nil, fmt.Errorf("encode batch upload: %w", err)
	}

	var out models.BatchResult
	if err := c.do(ctx, OpBatchAssess, http.MethodPost, "/api/batch-assess", nil, body, contentType, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func multipartBody(file File) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	name := filepath.Base(file.Name)
	if name == "" || name == "." || name == string(filepath.Separator) {
		name = "upload.csv"
	}

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, batchFormField, name))
	header.Set("Content-Type", CSVMediaType)

	part, err := w.CreatePart(header)
	if err != nil {
		return nil, "", err
	}
	if _, err := io.Copy(part, file.Content); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}
