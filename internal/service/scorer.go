package service

import (
	"errors"
	"math"

	"github.com/alexivanou/geosuggest-api/internal/model"
)

var (
	// ErrInvalidMaxDistance is returned for a negative or NaN max distance
	ErrInvalidMaxDistance = errors.New("max distance must be a non-negative number")
	// ErrMissingDistance is returned when scoring a suggestion without a distance
	ErrMissingDistance = errors.New("suggestion has no distance to score")
)

// Score assigns each suggestion 1 - distance/maxDistance, floored to one
// decimal. Closer places score higher. When maxDistance is 0 every match sits
// at the caller's position and scores 1.
func Score(maxDistance float64, suggestions []model.Suggestion) ([]model.Suggestion, error) {
	if math.IsNaN(maxDistance) || maxDistance < 0 {
		return nil, ErrInvalidMaxDistance
	}

	for i := range suggestions {
		if suggestions[i].Distance == nil {
			return nil, ErrMissingDistance
		}
	}

	for i := range suggestions {
		score := 1.0
		if maxDistance > 0 {
			score = 1 - (*suggestions[i].Distance / maxDistance)
			score = math.Floor(score*10) / 10
		}
		suggestions[i].Score = &score
	}

	return suggestions, nil
}
