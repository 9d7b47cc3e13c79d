package service

import (
	"context"

	"github.com/alexivanou/geosuggest-api/internal/model"
)

// ServiceInterface defines the service interface for testing
type ServiceInterface interface {
	SuggestPlaces(ctx context.Context, req model.SuggestRequest) (*model.SuggestResponse, error)
}
