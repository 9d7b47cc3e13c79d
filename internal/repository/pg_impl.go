package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/alexivanou/geosuggest-api/internal/model"
	"github.com/jmoiron/sqlx"
)

// --- PostgreSQL Implementation ---

type pgPlaceRepository struct {
	db *sqlx.DB
}

func (r *pgPlaceRepository) EachPrefix(ctx context.Context, prefix string, fn func(model.Place) error) error {
	q := `
		SELECT ` + placeColumns + `
		FROM places
		WHERE name_folded LIKE $1 ESCAPE '\'
		ORDER BY seq
	`
	var places []model.Place
	if err := r.db.SelectContext(ctx, &places, q, likePrefix(prefix)); err != nil {
		return err
	}
	return each(places, fn)
}

func (r *pgPlaceRepository) BulkInsertPlaces(ctx context.Context, places []model.Place) (int64, error) {
	// Chunking to avoid parameter limit issues even in PG (max 65535 parameters)
	return insertChunks(places, 2000, func(batch []model.PlaceRow) (sql.Result, error) {
		return r.db.NamedExecContext(ctx, `
		INSERT INTO places (geoname_id, seq, name, name_folded, lat, lon, country_code, admin1_code, population, timezone)
		VALUES (:geoname_id, :seq, :name, :name_folded, :lat, :lon, :country_code, :admin1_code, :population, :timezone)
		ON CONFLICT (geoname_id) DO NOTHING`,
			batch)
	})
}

type pgCountryRepository struct {
	db *sqlx.DB
}

func (r *pgCountryRepository) CountryName(ctx context.Context, isoCode string) (string, bool, error) {
	var name string
	if err := r.db.GetContext(ctx, &name, "SELECT name FROM countries WHERE code = $1", isoCode); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, err
	}
	return name, true, nil
}

func (r *pgCountryRepository) BulkInsertCountries(ctx context.Context, countries []model.Country) error {
	if len(countries) == 0 {
		return nil
	}
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO countries (code, name)
		VALUES (:code, :name)
		ON CONFLICT (code) DO NOTHING`,
		countries)
	return err
}
