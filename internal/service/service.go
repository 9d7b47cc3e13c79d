package service

import (
	"context"

	"github.com/alexivanou/geosuggest-api/internal/model"
	"go.uber.org/zap"
)

// PlaceSource yields gazetteer places whose name starts with a prefix, in source order.
type PlaceSource interface {
	EachPrefix(ctx context.Context, prefix string, fn func(model.Place) error) error
}

// CountryResolver maps an ISO country code to its display name.
type CountryResolver interface {
	CountryName(ctx context.Context, isoCode string) (string, bool, error)
}

// Service provides business logic for the API
type Service struct {
	places    PlaceSource
	countries CountryResolver
	logger    *zap.Logger
}

// NewService creates a new service instance
func NewService(places PlaceSource, countries CountryResolver, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		places:    places,
		countries: countries,
		logger:    logger,
	}
}
