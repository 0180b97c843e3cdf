package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"candle-backend/internal/middleware"
	"candle-backend/internal/models"
	"candle-backend/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/hlog"
)

// maxBodySize bounds JSON request bodies; canvas images arrive base64 encoded
const maxBodySize = 8 << 20

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// StatusResponse acknowledges an update with no other payload
type StatusResponse struct {
	Status string `json:"status"`
}

var statusOK = StatusResponse{Status: "ok"}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

// respondError sends an error response
func respondError(w http.ResponseWriter, message string, statusCode int) {
	respondJSON(w, statusCode, ErrorResponse{Error: message})
}

// handleError maps a service error to its HTTP status. Unexpected errors are
// logged and reported as 500.
func handleError(w http.ResponseWriter, r *http.Request, err error, action string) {
	var svcErr *services.Error
	if errors.As(err, &svcErr) {
		respondError(w, svcErr.Message, statusFor(svcErr.Kind))
		return
	}

	logger := hlog.FromRequest(r).Error().Err(err)
	if user := middleware.GetUser(r.Context()); user != nil {
		logger = logger.Str("user_id", user.ID)
	}
	logger.Msg(action)
	respondError(w, "Internal server error", http.StatusInternalServerError)
}

func statusFor(kind services.Kind) int {
	switch kind {
	case services.KindUnauthorized:
		return http.StatusUnauthorized
	case services.KindForbidden:
		return http.StatusForbidden
	case services.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusBadRequest
	}
}

// decodeAndValidate reads a JSON body into dst and runs its validate tags. An
// empty body decodes as an empty object. It reports false after writing a 400.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	body := http.MaxBytesReader(w, r.Body, maxBodySize)
	if err := json.NewDecoder(body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(w, "Request body too large", http.StatusRequestEntityTooLarge)
			return false
		}
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return false
	}
	if err := validate.Struct(dst); err != nil {
		respondError(w, validationMessage(err), http.StatusBadRequest)
		return false
	}
	return true
}

// validationMessage describes the first failed field
func validationMessage(err error) string {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) || len(errs) == 0 {
		return "Invalid request body"
	}
	fe := errs[0]
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email address"
	case "url":
		return field + " must be a valid URL"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	default:
		return field + " is invalid"
	}
}

func currentUser(r *http.Request) *models.User {
	return middleware.GetUser(r.Context())
}
