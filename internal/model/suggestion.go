package model

import "github.com/alexivanou/geosuggest-api/internal/geo"

// Suggestion is a candidate place match for a query
type Suggestion struct {
	Name      string
	Latitude  float64
	Longitude float64
	// Distance in km from the caller, nil when no caller coordinate was given
	Distance *float64
	// Score in [0,1], nil until scored
	Score *float64
}

// SuggestRequest represents the request parameters for a suggestion lookup
type SuggestRequest struct {
	Query     string
	Latitude  *float64
	Longitude *float64
}

// Caller returns the caller coordinate, or nil unless both latitude and longitude are set.
func (r SuggestRequest) Caller() *geo.Coordinate {
	if r.Latitude == nil || r.Longitude == nil {
		return nil
	}
	return &geo.Coordinate{Longitude: *r.Longitude, Latitude: *r.Latitude}
}

// SuggestResponse represents the response for a suggestion lookup
type SuggestResponse struct {
	Suggestions []SuggestionResult `json:"suggestions"`
}

// SuggestionResult is a suggestion as returned to API callers
type SuggestionResult struct {
	Name      string   `json:"name"`
	Latitude  float64  `json:"latitude"`
	Longitude float64  `json:"longitude"`
	Score     *float64 `json:"score"`
}

// NewSuggestResponse converts suggestions to their API form, preserving order.
func NewSuggestResponse(suggestions []Suggestion) *SuggestResponse {
	results := make([]SuggestionResult, 0, len(suggestions))
	for _, s := range suggestions {
		results = append(results, SuggestionResult{
			Name:      s.Name,
			Latitude:  s.Latitude,
			Longitude: s.Longitude,
			Score:     s.Score,
		})
	}
	return &SuggestResponse{Suggestions: results}
}
