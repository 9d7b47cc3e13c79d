package gazetteer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/alexivanou/geosuggest-api/internal/model"
)

const (
	isoColumn     = "ISO"
	countryColumn = "Country"
)

// ErrMissingColumn is returned when the country header lacks a required column.
var ErrMissingColumn = errors.New("required column missing from header")

// CountryFile resolves ISO codes from a country reference file.
// The file is read once at construction and held in memory.
type CountryFile struct {
	names map[string]string
}

// LoadCountryFile reads the country reference file at path.
func LoadCountryFile(path string) (*CountryFile, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open country file: %w", err)
	}
	defer file.Close()

	countries, err := ParseCountries(file)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return NewCountryFile(countries), nil
}

// NewCountryFile builds a resolver from parsed countries. The first entry for a code wins.
func NewCountryFile(countries []model.Country) *CountryFile {
	names := make(map[string]string, len(countries))
	for _, c := range countries {
		if _, exists := names[c.Code]; !exists {
			names[c.Code] = c.Name
		}
	}
	return &CountryFile{names: names}
}

// CountryName returns the display name for an ISO code. A miss is not an error.
func (c *CountryFile) CountryName(_ context.Context, isoCode string) (string, bool, error) {
	name, ok := c.names[isoCode]
	return name, ok, nil
}

// Len returns the number of known countries.
func (c *CountryFile) Len() int {
	return len(c.names)
}

// Countries returns all countries ordered by code.
func (c *CountryFile) Countries() []model.Country {
	countries := make([]model.Country, 0, len(c.names))
	for code, name := range c.names {
		countries = append(countries, model.Country{Code: code, Name: name})
	}
	sort.Slice(countries, func(i, j int) bool { return countries[i].Code < countries[j].Code })
	return countries
}

// ParseCountries parses a tab-separated country file with a header row naming
// the ISO and Country columns. Comment lines start with '#'; a '#'-prefixed
// header (as in GeoNames countryInfo.txt) is recognised.
func ParseCountries(r io.Reader) ([]model.Country, error) {
	scanner := newLineScanner(r)

	isoIdx, nameIdx := -1, -1
	var countries []model.Country

	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}

		if isoIdx < 0 {
			headerLine := line
			commented := strings.HasPrefix(line, "#")
			if commented {
				headerLine = strings.TrimPrefix(line, "#")
			}
			iso, name := headerIndex(strings.Split(headerLine, "\t"))
			if iso >= 0 && name >= 0 {
				isoIdx, nameIdx = iso, name
				continue
			}
			if commented {
				continue
			}
			return nil, fmt.Errorf("%w: need %q and %q", ErrMissingColumn, isoColumn, countryColumn)
		}

		// Skip comments
		if strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.Split(line, "\t")
		if len(parts) <= isoIdx || len(parts) <= nameIdx {
			continue
		}

		code := parts[isoIdx]
		name := parts[nameIdx]
		if code != "" && name != "" {
			countries = append(countries, model.Country{Code: code, Name: name})
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan country file: %w", err)
	}

	if isoIdx < 0 {
		return nil, fmt.Errorf("%w: no header row", ErrMissingColumn)
	}

	return countries, nil
}

func headerIndex(headers []string) (int, int) {
	iso, name := -1, -1
	for i, h := range headers {
		switch strings.TrimSpace(h) {
		case isoColumn:
			iso = i
		case countryColumn:
			name = i
		}
	}
	return iso, name
}
