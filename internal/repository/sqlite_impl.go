package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/alexivanou/geosuggest-api/internal/model"
	"github.com/jmoiron/sqlx"
)

type sqlitePlaceRepository struct {
	db *sqlx.DB
}

func (r *sqlitePlaceRepository) EachPrefix(ctx context.Context, prefix string, fn func(model.Place) error) error {
	q := `
		SELECT ` + placeColumns + `
		FROM places
		WHERE name_folded LIKE ? ESCAPE '\'
		ORDER BY seq
	`
	var places []model.Place
	if err := r.db.SelectContext(ctx, &places, q, likePrefix(prefix)); err != nil {
		return err
	}
	return each(places, fn)
}

func (r *sqlitePlaceRepository) BulkInsertPlaces(ctx context.Context, places []model.Place) (int64, error) {
	// SQLite variable limit workaround (batch size of 90 * 10 params = 900 variables)
	return insertChunks(places, 90, func(batch []model.PlaceRow) (sql.Result, error) {
		return r.db.NamedExecContext(ctx, `
		INSERT OR IGNORE INTO places (geoname_id, seq, name, name_folded, lat, lon, country_code, admin1_code, population, timezone)
		VALUES (:geoname_id, :seq, :name, :name_folded, :lat, :lon, :country_code, :admin1_code, :population, :timezone)`,
			batch)
	})
}

type sqliteCountryRepository struct {
	db *sqlx.DB
}

func (r *sqliteCountryRepository) CountryName(ctx context.Context, isoCode string) (string, bool, error) {
	var name string
	if err := r.db.GetContext(ctx, &name, "SELECT name FROM countries WHERE code = ?", isoCode); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, err
	}
	return name, true, nil
}

func (r *sqliteCountryRepository) BulkInsertCountries(ctx context.Context, countries []model.Country) error {
	return chunks(countries, 400, func(batch []model.Country) error {
		_, err := r.db.NamedExecContext(ctx, `
		INSERT OR IGNORE INTO countries (code, name)
		VALUES (:code, :name)`,
			batch)
		return err
	})
}
