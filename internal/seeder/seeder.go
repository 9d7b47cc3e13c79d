package seeder

import (
	"context"
	"fmt"

	"github.com/alexivanou/geosuggest-api/internal/config"
	"github.com/alexivanou/geosuggest-api/internal/gazetteer"
	"github.com/alexivanou/geosuggest-api/internal/model"
	"github.com/alexivanou/geosuggest-api/internal/repository"
	"go.uber.org/zap"
)

const defaultBatchSize = 10000

// Result summarises an import run
type Result struct {
	Countries int
	// Places counts rows written; Ignored counts rows whose geoname ID was
	// already stored, either from an earlier run or earlier in the file.
	Places  int
	Ignored int
}

// Seeder loads the gazetteer and country files into the database
type Seeder struct {
	repos     *repository.Container
	data      config.DataConfig
	batchSize int
	logger    *zap.Logger
}

// New creates a seeder. A non-positive batch size falls back to 10000.
func New(repos *repository.Container, data config.DataConfig, cfg config.SeederConfig, logger *zap.Logger) *Seeder {
	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Seeder{
		repos:     repos,
		data:      data,
		batchSize: batchSize,
		logger:    logger,
	}
}

// Run imports countries first, then streams places in batches. Rows already
// present are left untouched, so Run can be repeated.
func (s *Seeder) Run(ctx context.Context) (*Result, error) {
	result := &Result{}

	s.logger.Info("Loading countries...", zap.String("path", s.data.CountriesPath))
	countries, err := gazetteer.LoadCountryFile(s.data.CountriesPath)
	if err != nil {
		return nil, err
	}

	if err := s.repos.Country.BulkInsertCountries(ctx, countries.Countries()); err != nil {
		return nil, fmt.Errorf("failed to insert countries: %w", err)
	}
	result.Countries = countries.Len()

	source, err := gazetteer.NewFileSource(s.data.GazetteerPath, s.logger)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Importing places...", zap.String("path", source.Path()), zap.Int("batch_size", s.batchSize))

	batch := make([]model.Place, 0, s.batchSize)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		inserted, err := s.repos.Place.BulkInsertPlaces(ctx, batch)
		if err != nil {
			return fmt.Errorf("failed to insert places batch: %w", err)
		}
		result.Places += int(inserted)
		result.Ignored += len(batch) - int(inserted)
		s.logger.Debug("Inserted places batch", zap.Int("total", result.Places))
		batch = batch[:0]
		return nil
	}

	err = source.Each(ctx, func(place model.Place) error {
		batch = append(batch, place)
		if len(batch) < s.batchSize {
			return nil
		}
		return flush()
	})
	if err != nil {
		return nil, err
	}
	if err := flush(); err != nil {
		return nil, err
	}

	if result.Ignored > 0 {
		s.logger.Warn("Places with an already stored geoname ID were not imported",
			zap.Int("ignored", result.Ignored),
		)
	}
	s.logger.Info("Import completed",
		zap.Int("countries", result.Countries),
		zap.Int("places", result.Places),
	)

	return result, nil
}
