package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alexivanou/geosuggest-api/internal/model"
	"github.com/alexivanou/geosuggest-api/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockService is a mock implementation of ServiceInterface
type MockService struct {
	mock.Mock
}

func (m *MockService) SuggestPlaces(ctx context.Context, req model.SuggestRequest) (*model.SuggestResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SuggestResponse), args.Error(1)
}

func score(f float64) *float64 { return &f }

func TestHandler_Suggestions(t *testing.T) {
	tests := []struct {
		name            string
		rawQuery        string
		mockSetup       func(*MockService)
		expectedStatus  int
		expectedMessage string
	}{
		{
			name:     "scored request",
			rawQuery: "q=Londo&latitude=43.70011&longitude=-79.4931",
			mockSetup: func(ms *MockService) {
				ms.On("SuggestPlaces", mock.Anything, mock.MatchedBy(func(req model.SuggestRequest) bool {
					return req.Query == "Londo" &&
						req.Latitude != nil && *req.Latitude == 43.70011 &&
						req.Longitude != nil && *req.Longitude == -79.4931
				})).Return(&model.SuggestResponse{
					Suggestions: []model.SuggestionResult{
						{Name: "London, 08, Canada", Latitude: 42.98339, Longitude: -81.23304, Score: score(0.9)},
					},
				}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:     "unscored request",
			rawQuery: "q=Londo",
			mockSetup: func(ms *MockService) {
				ms.On("SuggestPlaces", mock.Anything, mock.MatchedBy(func(req model.SuggestRequest) bool {
					return req.Query == "Londo" && req.Latitude == nil && req.Longitude == nil
				})).Return(&model.SuggestResponse{Suggestions: []model.SuggestionResult{}}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:     "only latitude is passed through",
			rawQuery: "q=Londo&latitude=43.7",
			mockSetup: func(ms *MockService) {
				ms.On("SuggestPlaces", mock.Anything, mock.MatchedBy(func(req model.SuggestRequest) bool {
					return req.Latitude != nil && req.Longitude == nil
				})).Return(&model.SuggestResponse{Suggestions: []model.SuggestionResult{}}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:            "missing query parameter",
			rawQuery:        "latitude=43.7&longitude=-79.4",
			expectedStatus:  http.StatusBadRequest,
			expectedMessage: "The query params `q` must be defined",
		},
		{
			name:            "empty query parameter",
			rawQuery:        "q=",
			expectedStatus:  http.StatusBadRequest,
			expectedMessage: "The query params `q` must be defined",
		},
		{
			name:            "latitude not a number",
			rawQuery:        "q=Londo&latitude=north&longitude=-79.4",
			expectedStatus:  http.StatusBadRequest,
			expectedMessage: "The query params `latitude` must be a number",
		},
		{
			name:            "latitude out of range",
			rawQuery:        "q=Londo&latitude=91&longitude=-79.4",
			expectedStatus:  http.StatusBadRequest,
			expectedMessage: "The query params `latitude` must be at most 90",
		},
		{
			name:            "longitude out of range",
			rawQuery:        "q=Londo&latitude=43.7&longitude=-180.5",
			expectedStatus:  http.StatusBadRequest,
			expectedMessage: "The query params `longitude` must be at least -180",
		},
		{
			name:     "service failure",
			rawQuery: "q=Londo",
			mockSetup: func(ms *MockService) {
				ms.On("SuggestPlaces", mock.Anything, mock.Anything).Return(nil, errors.New("gazetteer unavailable"))
			},
			expectedStatus:  http.StatusInternalServerError,
			expectedMessage: "internal server error",
		},
		{
			name:     "invalid coordinate from service",
			rawQuery: "q=Londo",
			mockSetup: func(ms *MockService) {
				ms.On("SuggestPlaces", mock.Anything, mock.Anything).Return(nil, service.ErrInvalidCoordinate)
			},
			expectedStatus:  http.StatusBadRequest,
			expectedMessage: "The query params `latitude` and `longitude` must be a valid position",
		},
		{
			name:     "empty query from service",
			rawQuery: "q=Londo",
			mockSetup: func(ms *MockService) {
				ms.On("SuggestPlaces", mock.Anything, mock.Anything).Return(nil, service.ErrEmptyQuery)
			},
			expectedStatus:  http.StatusBadRequest,
			expectedMessage: "The query params `q` must be defined",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			if tt.mockSetup != nil {
				tt.mockSetup(mockService)
			}

			handler := NewHandler(mockService, zap.NewNop())

			req, _ := http.NewRequest("GET", "/suggestions?"+tt.rawQuery, nil)
			rr := httptest.NewRecorder()
			handler.Suggestions(rr, req)

			assert.Equal(t, tt.expectedStatus, rr.Code)
			assert.Equal(t, "application/json; charset=utf-8", rr.Header().Get("Content-Type"))

			if tt.expectedMessage != "" {
				var body errorResponse
				require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
				assert.Equal(t, tt.expectedMessage, body.Message)
			}
			mockService.AssertExpectations(t)
		})
	}
}

func TestHandler_Suggestions_Body(t *testing.T) {
	mockService := new(MockService)
	mockService.On("SuggestPlaces", mock.Anything, mock.Anything).Return(&model.SuggestResponse{
		Suggestions: []model.SuggestionResult{
			{Name: "Londonderry, VT, United States", Latitude: 43.22646, Longitude: -72.80649, Score: score(0.8)},
			{Name: "London, CA, United States", Latitude: 36.47606, Longitude: -119.44318},
		},
	}, nil)

	handler := NewHandler(mockService, nil)
	req := httptest.NewRequest("GET", "/suggestions?q=Londo", nil)
	rr := httptest.NewRecorder()
	handler.Suggestions(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"suggestions":[
		{"name":"Londonderry, VT, United States","latitude":43.22646,"longitude":-72.80649,"score":0.8},
		{"name":"London, CA, United States","latitude":36.47606,"longitude":-119.44318,"score":null}
	]}`, rr.Body.String())
}

func TestHandler_Suggestions_EmptyList(t *testing.T) {
	mockService := new(MockService)
	mockService.On("SuggestPlaces", mock.Anything, mock.Anything).
		Return(model.NewSuggestResponse(nil), nil)

	handler := NewHandler(mockService, nil)
	req := httptest.NewRequest("GET", "/suggestions?q=12swy781jhd", nil)
	rr := httptest.NewRecorder()
	handler.Suggestions(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"suggestions":[]}`, rr.Body.String())
}

func TestHandler_HealthCheck(t *testing.T) {
	handler := NewHandler(new(MockService), nil)
	rr := httptest.NewRecorder()
	handler.HealthCheck(rr, httptest.NewRequest("GET", "/health", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "OK", rr.Body.String())
}
