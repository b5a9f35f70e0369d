// Package httputil contains multipart helpers shared by the REST handlers and their tests.
package httputil

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
)

// FormFileField is the multipart field carrying an uploaded snapshot
const FormFileField = "file"

// maxFormMemory bounds the in-memory part of a parsed form
const maxFormMemory = 32 << 20

// CreateForm builds a parsed multipart form holding content as a single file upload
func CreateForm(content []byte, fileName string) (*multipart.Form, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile(FormFileField, fileName)
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := part.Write(content); err != nil {
		return nil, fmt.Errorf("failed to write form file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to close multipart writer: %w", err)
	}

	reader := multipart.NewReader(&buf, writer.Boundary())
	form, err := reader.ReadForm(maxFormMemory)
	if err != nil {
		return nil, fmt.Errorf("failed to read form: %w", err)
	}

	// ReadForm leaves Size unset for in-memory parts
	for _, header := range form.File[FormFileField] {
		header.Size = int64(len(content))
	}

	return form, nil
}

// CreateFormBody encodes content as a multipart request body and returns it with its content type
func CreateFormBody(content []byte, fileName string) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile(FormFileField, fileName)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := part.Write(content); err != nil {
		return nil, "", fmt.Errorf("failed to write form file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to close multipart writer: %w", err)
	}
	return &buf, writer.FormDataContentType(), nil
}

// ReadFormFile returns the content and file name of the first upload in field
func ReadFormFile(form *multipart.Form, field string) ([]byte, string, error) {
	if form == nil {
		return nil, "", fmt.Errorf("no multipart form")
	}
	headers := form.File[field]
	if len(headers) == 0 {
		return nil, "", fmt.Errorf("no file in form field %q", field)
	}

	file, err := headers[0].Open()
	if err != nil {
		return nil, "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer func() { _ = file.Close() }()

	content, err := io.ReadAll(file)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read uploaded file: %w", err)
	}
	return content, headers[0].Filename, nil
}
