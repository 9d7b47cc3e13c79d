package gazetteer

import (
	"archive/zip"
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/alexivanou/geosuggest-api/internal/model"
)

// Column layout of a GeoNames cities file.
const (
	colGeonameID = iota
	colName
	colASCIIName
	colAlternateNames
	colLatitude
	colLongitude
	colFeatureClass
	colFeatureCode
	colCountryCode
	colCC2
	colAdmin1
	colAdmin2
	colAdmin3
	colAdmin4
	colPopulation
	colElevation
	colDEM
	colTimezone
	colModificationDate

	placeColumns
)

// ErrMalformedRow is returned for rows that do not follow the gazetteer schema.
var ErrMalformedRow = errors.New("malformed gazetteer row")

// ParsePlace parses one tab-separated gazetteer line.
func ParsePlace(line string) (model.Place, error) {
	parts := strings.Split(line, "\t")
	if len(parts) != placeColumns {
		return model.Place{}, fmt.Errorf("%w: expected %d columns, got %d", ErrMalformedRow, placeColumns, len(parts))
	}
	return parseFields(parts)
}

func parseFields(parts []string) (model.Place, error) {
	id, err := strconv.Atoi(parts[colGeonameID])
	if err != nil {
		return model.Place{}, fmt.Errorf("%w: geonameid %q", ErrMalformedRow, parts[colGeonameID])
	}

	lat, err := strconv.ParseFloat(parts[colLatitude], 64)
	if err != nil {
		return model.Place{}, fmt.Errorf("%w: latitude %q", ErrMalformedRow, parts[colLatitude])
	}

	lon, err := strconv.ParseFloat(parts[colLongitude], 64)
	if err != nil {
		return model.Place{}, fmt.Errorf("%w: longitude %q", ErrMalformedRow, parts[colLongitude])
	}

	var population int64
	if parts[colPopulation] != "" {
		population, err = strconv.ParseInt(parts[colPopulation], 10, 64)
		if err != nil {
			return model.Place{}, fmt.Errorf("%w: population %q", ErrMalformedRow, parts[colPopulation])
		}
	}

	var elevation *int
	if parts[colElevation] != "" {
		if elev, err := strconv.Atoi(parts[colElevation]); err == nil {
			elevation = &elev
		}
	}

	dem, _ := strconv.Atoi(parts[colDEM])

	return model.Place{
		GeonameID:        id,
		Name:             parts[colName],
		ASCIIName:        parts[colASCIIName],
		AlternateNames:   parts[colAlternateNames],
		Latitude:         lat,
		Longitude:        lon,
		FeatureClass:     parts[colFeatureClass],
		FeatureCode:      parts[colFeatureCode],
		CountryCode:      parts[colCountryCode],
		CC2:              parts[colCC2],
		Admin1Code:       parts[colAdmin1],
		Admin2Code:       parts[colAdmin2],
		Admin3Code:       parts[colAdmin3],
		Admin4Code:       parts[colAdmin4],
		Population:       population,
		Elevation:        elevation,
		DEM:              dem,
		Timezone:         parts[colTimezone],
		ModificationDate: parts[colModificationDate],
	}, nil
}

// Open opens a gazetteer file. A .zip archive is read from its first .txt entry.
func Open(path string) (io.ReadCloser, error) {
	if strings.EqualFold(filepath.Ext(path), ".zip") {
		return openFromZip(path)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	return file, nil
}

type zipEntryReader struct {
	io.ReadCloser
	archive *zip.ReadCloser
}

func (z *zipEntryReader) Close() error {
	err := z.ReadCloser.Close()
	if cerr := z.archive.Close(); err == nil {
		err = cerr
	}
	return err
}

func openFromZip(zipPath string) (io.ReadCloser, error) {
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open zip: %w", err)
	}

	for _, f := range r.File {
		if strings.HasSuffix(f.Name, ".txt") && !strings.HasSuffix(f.Name, "readme.txt") {
			rc, err := f.Open()
			if err != nil {
				r.Close()
				return nil, fmt.Errorf("failed to open file in zip: %w", err)
			}
			return &zipEntryReader{ReadCloser: rc, archive: r}, nil
		}
	}

	r.Close()
	return nil, fmt.Errorf("no txt file found in %s", zipPath)
}

// maxLineBytes caps a single gazetteer line. Alternate-name columns can be long.
const maxLineBytes = 1024 * 1024

// newLineScanner returns a scanner sized for long alternate-name columns.
func newLineScanner(r io.Reader) *bufio.Scanner {
	buf := make([]byte, 0, 64*1024)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(buf, maxLineBytes)
	return scanner
}

// lineReader yields lines without their terminator. A line over maxLineBytes
// is consumed to its end and reported as too long instead of stopping the read.
type lineReader struct {
	br  *bufio.Reader
	buf []byte
}

func newLineReader(r io.Reader) *lineReader {
	return &lineReader{br: bufio.NewReaderSize(r, 64*1024)}
}

// next returns io.EOF once the input is exhausted.
func (l *lineReader) next() (line string, tooLong bool, err error) {
	l.buf = l.buf[:0]
	read := false

	for {
		chunk, err := l.br.ReadSlice('\n')
		if len(chunk) > 0 {
			read = true
		}
		if !tooLong {
			if len(l.buf)+len(chunk) > maxLineBytes+2 {
				tooLong = true
				l.buf = l.buf[:0]
			} else {
				l.buf = append(l.buf, chunk...)
			}
		}

		switch {
		case err == bufio.ErrBufferFull:
			continue
		case err == io.EOF:
			if !read {
				return "", false, io.EOF
			}
		case err != nil:
			return "", false, err
		}

		if tooLong {
			return "", true, nil
		}
		b := l.buf
		if n := len(b); n > 0 && b[n-1] == '\n' {
			b = b[:n-1]
		}
		if n := len(b); n > 0 && b[n-1] == '\r' {
			b = b[:n-1]
		}
		if len(b) > maxLineBytes {
			return "", true, nil
		}
		return string(b), false, nil
	}
}
