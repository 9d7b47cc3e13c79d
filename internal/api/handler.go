package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"

	"github.com/alexivanou/geosuggest-api/internal/model"
	"github.com/alexivanou/geosuggest-api/internal/service"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

const missingQueryMessage = "The query params `q` must be defined"

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report query parameter names instead of Go field names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		return fld.Tag.Get("query")
	})
	return v
}

// suggestParams are the raw query parameters of a suggestion lookup
type suggestParams struct {
	Query     string   `query:"q" validate:"required"`
	Latitude  *float64 `query:"latitude" validate:"omitempty,min=-90,max=90"`
	Longitude *float64 `query:"longitude" validate:"omitempty,min=-180,max=180"`
}

type errorResponse struct {
	Message string `json:"message"`
}

// Handler handles HTTP requests
type Handler struct {
	service service.ServiceInterface
	logger  *zap.Logger
}

// NewHandler creates a new handler instance
func NewHandler(service service.ServiceInterface, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{service: service, logger: logger}
}

// Suggestions handles GET /suggestions. A place whose country code has no
// entry in the country list is labelled with the ISO code itself, so the
// name never carries an empty or placeholder country.
func (h *Handler) Suggestions(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		writeError(w, http.StatusBadRequest, missingQueryMessage)
		return
	}

	params := suggestParams{Query: query}

	var err error
	if params.Latitude, err = parseCoordinate(r, "latitude"); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if params.Longitude, err = parseCoordinate(r, "longitude"); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := validate.Struct(params); err != nil {
		writeError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	req := model.SuggestRequest{
		Query:     params.Query,
		Latitude:  params.Latitude,
		Longitude: params.Longitude,
	}

	response, err := h.service.SuggestPlaces(r.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrEmptyQuery) {
			writeError(w, http.StatusBadRequest, missingQueryMessage)
			return
		}
		if errors.Is(err, service.ErrInvalidCoordinate) {
			writeError(w, http.StatusBadRequest, "The query params `latitude` and `longitude` must be a valid position")
			return
		}
		h.logger.Error("Error suggesting places",
			zap.String("query", query),
			zap.String("request_id", RequestIDFromContext(r.Context())),
			zap.Error(err),
		)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	suggestionsReturned.Observe(float64(len(response.Suggestions)))

	writeJSON(w, http.StatusOK, response, h.logger)
}

// HealthCheck handles GET /health
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

// parseCoordinate returns nil when the parameter is absent
func parseCoordinate(r *http.Request, name string) (*float64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("The query params `%s` must be a number", name)
	}
	return &value, nil
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "invalid query params"
	}

	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return missingQueryMessage
	case "min":
		return fmt.Sprintf("The query params `%s` must be at least %s", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("The query params `%s` must be at most %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("The query params `%s` is invalid", fe.Field())
	}
}

func writeJSON(w http.ResponseWriter, status int, body any, logger *zap.Logger) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil && logger != nil {
		logger.Error("Error encoding response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Message: message}, nil)
}
