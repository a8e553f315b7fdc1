package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"storefront/internal/media"
	"storefront/internal/model"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// maxUploadSize bounds multipart image uploads.
const maxUploadSize = 10 << 20

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error  string              `json:"error"`
	Code   string              `json:"code,omitempty"`
	Fields map[string][]string `json:"fields,omitempty"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" || tag == "-" {
			return f.Name
		}
		return tag
	})
	return v
}

// writeJSON writes a JSON response with the given status code. A value that
// cannot be encoded is logged and answered with a 500.
func writeJSON(w http.ResponseWriter, status int, data interface{}, logger zerolog.Logger) {
	body, err := json.Marshal(data)
	if err != nil {
		logger.Error().Err(err).Int("status", status).Msg("failed to encode response")
		status = http.StatusInternalServerError
		body, _ = json.Marshal(ErrorResponse{Error: "failed to encode response", Code: model.ErrCodeInternalError})
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(append(body, '\n')); err != nil {
		logger.Debug().Err(err).Msg("failed to write response")
	}
}

// writeError writes an error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string, logger zerolog.Logger) {
	logger.Error().Str("error", message).Int("status", status).Msg("handler error")
	writeJSON(w, status, ErrorResponse{Error: message}, logger)
}

// writeServiceError maps a service error onto a response. Domain and
// validation errors keep their message; anything else becomes fallback.
func writeServiceError(w http.ResponseWriter, err error, fallback string, logger zerolog.Logger) {
	var validationErr *model.ValidationError
	if errors.As(err, &validationErr) {
		logger.Warn().Interface("fields", validationErr.Fields).Msg("validation failed")
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:  validationErr.Error(),
			Code:   model.ErrCodeValidation,
			Fields: validationErr.Fields,
		}, logger)
		return
	}

	var domainErr *model.DomainError
	if errors.As(err, &domainErr) {
		status := model.HTTPStatus(domainErr.Code)
		event := logger.Warn()
		if status >= http.StatusInternalServerError {
			event = logger.Error()
		}
		event.Err(err).Str("code", domainErr.Code).Int("status", status).Msg("request rejected")
		writeJSON(w, status, ErrorResponse{Error: domainErr.Message, Code: domainErr.Code}, logger)
		return
	}

	logger.Error().Err(err).Msg(fallback)
	writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: fallback, Code: model.ErrCodeInternalError}, logger)
}

// decodeJSONBody decodes the request body into dest and validates it.
func decodeJSONBody(r *http.Request, dest any) error {
	defer func() {
		io.Copy(io.Discard, r.Body)
	}()

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dest); err != nil {
		return model.NewDomainError(model.ErrCodeInvalidJSON, "invalid request body")
	}
	if err := validate.Struct(dest); err != nil {
		return formatValidationErrors(err)
	}
	return nil
}

func formatValidationErrors(err error) error {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return model.NewDomainError(model.ErrCodeValidation, "validation failed")
	}

	result := &model.ValidationError{}
	for _, fieldErr := range errs {
		result.Add(fieldPath(fieldErr), validationMessage(fieldErr))
	}
	return result
}

// fieldPath strips the root struct name from the namespace, leaving
// e.g. "items[0].productId".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "email":
		return "must be a valid email"
	case "url":
		return "must be a valid URL"
	case "oneof":
		return fmt.Sprintf("must be one of %s", fe.Param())
	case "bcp47_language_tag":
		return "must be a language tag"
	}
	return "is invalid"
}

// queryInt parses an optional integer query parameter.
func queryInt(r *http.Request, name string, fallback int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, model.NewDomainError(model.ErrCodeValidation, fmt.Sprintf("invalid %s parameter", name))
	}
	return value, nil
}

// queryBool parses an optional boolean query parameter.
func queryBool(r *http.Request, name string) (bool, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return false, nil
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return false, model.NewDomainError(model.ErrCodeValidation, fmt.Sprintf("invalid %s parameter", name))
	}
	return value, nil
}

// readUpload extracts a multipart file field. The caller closes the returned body.
func readUpload(r *http.Request, field string) (*media.Upload, io.Closer, error) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		return nil, nil, model.NewDomainError(model.ErrCodeValidation, "invalid multipart form")
	}

	file, header, err := r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil, nil
		}
		return nil, nil, model.NewDomainError(model.ErrCodeValidation, fmt.Sprintf("invalid %s file", field))
	}

	return &media.Upload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Body:        file,
	}, file, nil
}
