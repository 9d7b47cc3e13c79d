package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/alexivanou/geosuggest-api/internal/config"
	"github.com/alexivanou/geosuggest-api/internal/model"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
)

// PlaceRepository defines operations for gazetteer places
type PlaceRepository interface {
	// EachPrefix calls fn for places whose name starts with prefix
	// (case-insensitive), in original file order.
	EachPrefix(ctx context.Context, prefix string, fn func(model.Place) error) error
	// BulkInsertPlaces returns how many rows were written. A geoname ID that
	// is already stored keeps its first row and is not counted.
	BulkInsertPlaces(ctx context.Context, places []model.Place) (int64, error)
}

// CountryRepository defines operations for countries
type CountryRepository interface {
	CountryName(ctx context.Context, isoCode string) (string, bool, error)
	BulkInsertCountries(ctx context.Context, countries []model.Country) error
}

// Container holds all repositories
type Container struct {
	Place   PlaceRepository
	Country CountryRepository
}

// NewRepositories creates repository implementations based on DB type
func NewRepositories(db *sqlx.DB, dbType config.DBType) *Container {
	if dbType == config.DBTypePostgreSQL {
		return &Container{
			Place:   &pgPlaceRepository{db: db},
			Country: &pgCountryRepository{db: db},
		}
	}

	// Default to SQLite
	return &Container{
		Place:   &sqlitePlaceRepository{db: db},
		Country: &sqliteCountryRepository{db: db},
	}
}

// IsDatabaseEmpty reports whether the places table has no rows. A missing
// table counts as empty; any other failure is returned.
func IsDatabaseEmpty(ctx context.Context, db *sqlx.DB) (bool, error) {
	var count int
	// Using a safe query that works on both
	query := "SELECT COUNT(*) FROM places"
	err := db.GetContext(ctx, &count, query)
	if err != nil {
		if isUndefinedTable(err) {
			return true, nil
		}
		return false, fmt.Errorf("failed to count places: %w", err)
	}
	return count == 0, nil
}

// pgUndefinedTable is the SQLSTATE for a missing relation.
const pgUndefinedTable = "42P01"

func isUndefinedTable(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUndefinedTable
	}
	return strings.Contains(err.Error(), "no such table")
}

const placeColumns = "geoname_id, seq, name, lat, lon, country_code, admin1_code, population, timezone"

// likePrefix builds a LIKE pattern matching names that start with prefix.
func likePrefix(prefix string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(strings.ToLower(prefix))
	return escaped + "%"
}

func toRows(places []model.Place) []model.PlaceRow {
	rows := make([]model.PlaceRow, 0, len(places))
	for _, p := range places {
		rows = append(rows, model.PlaceRow{Place: p, NameFolded: strings.ToLower(p.Name)})
	}
	return rows
}

// insertChunks runs insert over places in chunks of size and sums the rows affected.
func insertChunks(places []model.Place, size int, insert func([]model.PlaceRow) (sql.Result, error)) (int64, error) {
	var inserted int64
	err := chunks(toRows(places), size, func(batch []model.PlaceRow) error {
		res, err := insert(batch)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		inserted += n
		return nil
	})
	return inserted, err
}

func chunks[T any](items []T, size int, fn func([]T) error) error {
	for i := 0; i < len(items); i += size {
		end := i + size
		if end > len(items) {
			end = len(items)
		}
		if err := fn(items[i:end]); err != nil {
			return err
		}
	}
	return nil
}

func each(places []model.Place, fn func(model.Place) error) error {
	for _, p := range places {
		if err := fn(p); err != nil {
			return err
		}
	}
	return nil
}
