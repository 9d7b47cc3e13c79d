package gazetteer

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alexivanou/geosuggest-api/internal/model"
	"go.uber.org/zap"
)

// ctxCheckInterval is how many lines are read between context checks.
const ctxCheckInterval = 4096

// FileSource streams places from a gazetteer file. Every call opens its own handle.
type FileSource struct {
	path   string
	logger *zap.Logger
}

// NewFileSource checks that the gazetteer file exists and returns a source over it.
func NewFileSource(path string, logger *zap.Logger) (*FileSource, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("gazetteer file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("gazetteer file: %s is a directory", path)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileSource{path: path, logger: logger}, nil
}

// Path returns the gazetteer file path.
func (s *FileSource) Path() string {
	return s.path
}

// EachPrefix calls fn, in file order, for every place whose name starts with
// prefix under case folding. Malformed rows are logged and skipped.
func (s *FileSource) EachPrefix(ctx context.Context, prefix string, fn func(model.Place) error) error {
	folded := strings.ToLower(prefix)
	return s.scan(ctx, func(name string) bool {
		return strings.HasPrefix(strings.ToLower(name), folded)
	}, fn)
}

// Each calls fn for every well-formed place in the file.
func (s *FileSource) Each(ctx context.Context, fn func(model.Place) error) error {
	return s.scan(ctx, func(string) bool { return true }, fn)
}

func (s *FileSource) scan(ctx context.Context, match func(name string) bool, fn func(model.Place) error) error {
	rc, err := Open(s.path)
	if err != nil {
		return err
	}
	defer rc.Close()

	skipped, err := scanPlaces(ctx, rc, match, fn, func(line int, err error) {
		s.logger.Warn("Skipping malformed gazetteer row",
			zap.String("file", s.path),
			zap.Int("line", line),
			zap.Error(err),
		)
	})
	if skipped > 0 {
		s.logger.Warn("Gazetteer scan skipped malformed rows",
			zap.String("file", s.path),
			zap.Int("skipped", skipped),
		)
	}
	return err
}

// scanPlaces reads gazetteer lines from r. Column count is checked on every
// line; the remaining fields are parsed only for rows accepted by match.
func scanPlaces(
	ctx context.Context,
	r io.Reader,
	match func(name string) bool,
	fn func(model.Place) error,
	onMalformed func(line int, err error),
) (int, error) {
	lines := newLineReader(r)
	skipped := 0
	lineNo := 0

	for {
		line, tooLong, err := lines.next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return skipped, fmt.Errorf("failed to scan gazetteer: %w", err)
		}

		lineNo++
		if lineNo%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return skipped, err
			}
		}

		if tooLong {
			skipped++
			onMalformed(lineNo, fmt.Errorf("%w: line exceeds %d bytes", ErrMalformedRow, maxLineBytes))
			continue
		}
		if line == "" {
			continue
		}

		parts := strings.Split(line, "\t")
		if len(parts) != placeColumns {
			skipped++
			onMalformed(lineNo, fmt.Errorf("%w: expected %d columns, got %d", ErrMalformedRow, placeColumns, len(parts)))
			continue
		}

		if !match(parts[colName]) {
			continue
		}

		place, err := parseFields(parts)
		if err != nil {
			skipped++
			onMalformed(lineNo, err)
			continue
		}
		place.Seq = lineNo

		if err := fn(place); err != nil {
			return skipped, err
		}
	}

	return skipped, nil
}
