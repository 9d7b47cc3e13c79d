package gazetteer

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alexivanou/geosuggest-api/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func collect(t *testing.T, src *FileSource, prefix string) []model.Place {
	t.Helper()
	var places []model.Place
	err := src.EachPrefix(context.Background(), prefix, func(p model.Place) error {
		places = append(places, p)
		return nil
	})
	require.NoError(t, err)
	return places
}

func names(places []model.Place) []string {
	out := make([]string, 0, len(places))
	for _, p := range places {
		out = append(out, p.Name)
	}
	return out
}

func TestFileSource_EachPrefix(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	src, err := NewFileSource("testdata/cities.txt", zap.New(core))
	require.NoError(t, err)

	tests := []struct {
		name     string
		prefix   string
		expected []string
	}{
		{
			name:     "file order",
			prefix:   "Londo",
			expected: []string{"Londonderry County Borough", "London", "Londonderry"},
		},
		{
			name:     "case insensitive",
			prefix:   "lONDONDERRY",
			expected: []string{"Londonderry County Borough", "Londonderry"},
		},
		{
			name:     "no match",
			prefix:   "12swy781jhd",
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, names(collect(t, src, tt.prefix)))
		})
	}

	// The broken row is reported once per scan.
	assert.Equal(t, len(tests), logs.FilterMessage("Skipping malformed gazetteer row").Len())
}

func TestFileSource_SeqIsLineNumber(t *testing.T) {
	src, err := NewFileSource("testdata/cities.txt", zap.NewNop())
	require.NoError(t, err)

	places := collect(t, src, "Londo")
	require.Len(t, places, 3)
	assert.Equal(t, []int{3, 4, 5}, []int{places[0].Seq, places[1].Seq, places[2].Seq})
}

func TestFileSource_Each(t *testing.T) {
	src, err := NewFileSource("testdata/cities.txt", nil)
	require.NoError(t, err)

	count := 0
	err = src.Each(context.Background(), func(model.Place) error {
		count++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 7, count)
}

func TestFileSource_CallbackError(t *testing.T) {
	src, err := NewFileSource("testdata/cities.txt", nil)
	require.NoError(t, err)

	stop := errors.New("stop")
	calls := 0
	err = src.EachPrefix(context.Background(), "", func(model.Place) error {
		calls++
		return stop
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 1, calls)
}

func TestFileSource_Missing(t *testing.T) {
	_, err := NewFileSource(filepath.Join(t.TempDir(), "cities500.txt"), nil)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestFileSource_RemovedAfterStart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cities500.txt")
	require.NoError(t, os.WriteFile(path, nil, 0644))

	src, err := NewFileSource(path, nil)
	require.NoError(t, err)
	require.NoError(t, os.Remove(path))

	err = src.EachPrefix(context.Background(), "Londo", func(model.Place) error { return nil })
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestFileSource_Cancelled(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cities500.txt")
	line := []byte("1\tA\tA\t\t1.0\t2.0\tP\tPPL\tUS\t\tVT\t\t\t\t10\t\t1\tUTC\t2020-01-01\n")
	var data []byte
	for i := 0; i < ctxCheckInterval*2; i++ {
		data = append(data, line...)
	}
	require.NoError(t, os.WriteFile(path, data, 0644))

	src, err := NewFileSource(path, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = src.Each(ctx, func(model.Place) error { return nil })
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFileSource_OversizedRowIsSkipped(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cities500.txt")
	huge := "1\tLondon Huge\tLondon Huge\t" + strings.Repeat("x", 2*maxLineBytes) +
		"\t51.5\t-0.1\tP\tPPL\tGB\t\tENG\t\t\t\t10\t\t1\tEurope/London\t2020-01-01\n"
	good := "5233875\tLondonderry\tLondonderry\t\t43.22646\t-72.80649\tP\tPPL\tUS\t\tVT\t025\t\t\t1769\t\t321\tAmerica/New_York\t2006-01-17\r\n"
	require.NoError(t, os.WriteFile(path, []byte(huge+good), 0644))

	core, logs := observer.New(zap.WarnLevel)
	src, err := NewFileSource(path, zap.New(core))
	require.NoError(t, err)

	places := collect(t, src, "Londo")
	require.Len(t, places, 1)
	assert.Equal(t, "Londonderry", places[0].Name)
	assert.Equal(t, 2, places[0].Seq)
	assert.Equal(t, "America/New_York", places[0].Timezone)

	skippedRows := logs.FilterMessage("Skipping malformed gazetteer row").All()
	require.Len(t, skippedRows, 1)
	assert.Equal(t, int64(1), skippedRows[0].ContextMap()["line"])
}

func TestLineReader(t *testing.T) {
	input := "a\r\n\n" + strings.Repeat("y", maxLineBytes+1) + "\nlast"
	lines := newLineReader(strings.NewReader(input))

	type result struct {
		line    string
		tooLong bool
	}
	var got []result
	for {
		line, tooLong, err := lines.next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		got = append(got, result{line, tooLong})
	}

	assert.Equal(t, []result{
		{line: "a"},
		{line: ""},
		{tooLong: true},
		{line: "last"},
	}, got)
}
