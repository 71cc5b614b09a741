package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/rpupo63/portfolio-api/errs"
	"github.com/rpupo63/portfolio-api/models"
)

const (
	defaultPageLimit = 100
	multipartMemory  = 8 << 20
	maxJSONBodyBytes = 1 << 20
	contentIDParam   = "id"
	imageFormField   = "image"
)

// parseContentID reads the {id} path parameter
func parseContentID(r *http.Request) (uint, error) {
	raw := chi.URLParam(r, contentIDParam)
	if raw == "" {
		return 0, errs.NewMissingRequiredFieldError(contentIDParam)
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, errs.NewInvalidFieldError(contentIDParam, "must be a positive integer")
	}
	return uint(id), nil
}

// parsePage reads skip and limit from the query string. Out of range values are
// clamped further down.
func parsePage(r *http.Request) (skip, limit int, err error) {
	q := r.URL.Query()
	skip, err = queryInt(q.Get("skip"), "skip", 0)
	if err != nil {
		return 0, 0, err
	}
	limit, err = queryInt(q.Get("limit"), "limit", defaultPageLimit)
	if err != nil {
		return 0, 0, err
	}
	return skip, limit, nil
}

func queryInt(raw, field string, defaultValue int) (int, error) {
	if raw == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errs.NewInvalidFieldError(field, "must be an integer")
	}
	return n, nil
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if isBodyTooLarge(err) {
			return errs.NewMaxBodySizeExceededError(maxJSONBodyBytes)
		}
		if errors.Is(err, io.EOF) {
			return errs.NewMalformedPayloadError("json", err)
		}
		return errs.NewInvalidJSONError(err)
	}
	return nil
}

// parseForm accepts multipart and urlencoded bodies up to maxBytes. Callers must
// call cleanupForm once the uploaded files are no longer needed.
func parseForm(w http.ResponseWriter, r *http.Request, maxBytes int64) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	err := r.ParseMultipartForm(multipartMemory)
	if errors.Is(err, http.ErrNotMultipart) {
		err = r.ParseForm()
	}
	if err != nil {
		if isBodyTooLarge(err) {
			return errs.NewMaxBodySizeExceededError(maxBytes)
		}
		return errs.NewMalformedPayloadError("form", err)
	}
	return nil
}

func cleanupForm(r *http.Request) {
	if r.MultipartForm != nil {
		r.MultipartForm.RemoveAll()
	}
}

func isBodyTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr) || strings.Contains(err.Error(), "request body too large")
}

// optionalFormValue returns nil for absent or blank fields
func optionalFormValue(r *http.Request, key string) *string {
	v := strings.TrimSpace(r.PostFormValue(key))
	if v == "" {
		return nil
	}
	return &v
}

// formImage returns the uploaded image, or nil when none was sent. The returned
// close func is never nil.
func formImage(r *http.Request) (*models.ImageUpload, func(), error) {
	noop := func() {}
	if r.MultipartForm == nil {
		return nil, noop, nil
	}

	file, header, err := r.FormFile(imageFormField)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, noop, nil
	}
	if err != nil {
		return nil, noop, errs.NewMalformedPayloadError("form", err)
	}
	if header.Filename == "" {
		file.Close()
		return nil, noop, nil
	}

	return &models.ImageUpload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        file,
	}, func() { file.Close() }, nil
}
