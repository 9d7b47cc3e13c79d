package service

import (
	"context"
	"fmt"

	"github.com/alexivanou/geosuggest-api/internal/geo"
	"github.com/alexivanou/geosuggest-api/internal/model"
	"go.uber.org/zap"
)

// Scan collects suggestions for places whose name starts with query, in
// source order. With a caller coordinate each suggestion carries its distance
// and the largest distance is returned; otherwise the max distance is 0.
func (s *Service) Scan(ctx context.Context, query string, caller *geo.Coordinate) ([]model.Suggestion, float64, error) {
	suggestions := []model.Suggestion{}
	maxDistance := 0.0

	err := s.places.EachPrefix(ctx, query, func(place model.Place) error {
		name, err := s.displayName(ctx, place)
		if err != nil {
			return err
		}

		suggestion := model.Suggestion{
			Name:      name,
			Latitude:  place.Latitude,
			Longitude: place.Longitude,
		}

		if caller != nil {
			d := geo.Distance(*caller, geo.Coordinate{Longitude: place.Longitude, Latitude: place.Latitude})
			suggestion.Distance = &d
			if d > maxDistance {
				maxDistance = d
			}
		}

		suggestions = append(suggestions, suggestion)
		return nil
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to scan places: %w", err)
	}

	return suggestions, maxDistance, nil
}

// displayName composes "<place>, <admin1>, <country>". An unknown country
// code is shown as-is.
func (s *Service) displayName(ctx context.Context, place model.Place) (string, error) {
	country, ok, err := s.countries.CountryName(ctx, place.CountryCode)
	if err != nil {
		return "", fmt.Errorf("failed to resolve country %q: %w", place.CountryCode, err)
	}
	if !ok {
		s.logger.Debug("Country code not found",
			zap.String("country_code", place.CountryCode),
			zap.Int("geoname_id", place.GeonameID),
		)
		country = place.CountryCode
	}
	return fmt.Sprintf("%s, %s, %s", place.Name, place.Admin1Code, country), nil
}
