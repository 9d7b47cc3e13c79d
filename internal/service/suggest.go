package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/alexivanou/geosuggest-api/internal/geo"
	"github.com/alexivanou/geosuggest-api/internal/model"
	"go.uber.org/zap"
)

var (
	// ErrEmptyQuery is returned when no search term is given
	ErrEmptyQuery = errors.New("query must not be empty")
	// ErrInvalidCoordinate is returned for a caller position off the sphere
	ErrInvalidCoordinate = errors.New("caller coordinate is out of range")
)

// GetSuggestions returns places matching query. With a caller coordinate the
// result is scored and sorted by score descending, ties kept in source
// order; without one it is unscored and in source order.
func (s *Service) GetSuggestions(ctx context.Context, query string, caller *geo.Coordinate) ([]model.Suggestion, error) {
	if query == "" {
		return nil, ErrEmptyQuery
	}
	if caller != nil && !caller.Valid() {
		return nil, ErrInvalidCoordinate
	}

	suggestions, maxDistance, err := s.Scan(ctx, query, caller)
	if err != nil {
		return nil, err
	}

	if caller == nil {
		return suggestions, nil
	}

	suggestions, err = Score(maxDistance, suggestions)
	if err != nil {
		return nil, fmt.Errorf("failed to score suggestions: %w", err)
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		return *suggestions[i].Score > *suggestions[j].Score
	})

	return suggestions, nil
}

// SuggestPlaces looks up suggestions for an API request
func (s *Service) SuggestPlaces(ctx context.Context, req model.SuggestRequest) (*model.SuggestResponse, error) {
	caller := req.Caller()

	suggestions, err := s.GetSuggestions(ctx, req.Query, caller)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("Suggestions resolved",
		zap.String("query", req.Query),
		zap.Bool("scored", caller != nil),
		zap.Int("count", len(suggestions)),
	)

	return model.NewSuggestResponse(suggestions), nil
}
