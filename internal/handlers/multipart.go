package handlers

import (
	"net/http"
	"strings"

	"eventflow/internal/models"
	"eventflow/internal/services"
)

// maxUploadMemory bounds how much of a multipart body is held in memory
const maxUploadMemory = 10 << 20 // 10MB

// isMultipart reports whether the request carries a multipart form
func isMultipart(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data")
}

// formImage extracts an optional uploaded file from a multipart form. A
// missing file is not an error; the caller gets nil and keeps going.
func formImage(r *http.Request, field string) (*services.ImageUpload, error) {
	file, header, err := r.FormFile(field)
	if err == http.ErrMissingFile {
		return nil, nil
	}
	if err != nil {
		return nil, models.NewValidationError("invalid file upload")
	}

	return &services.ImageUpload{
		Reader:      file,
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
	}, nil
}
