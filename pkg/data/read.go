package data

import (
	"bytes"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/xuri/excelize/v2"

	apperrors "github.com/matzehuels/squaremap/pkg/errors"
)

// Kind identifies a source table encoding.
type Kind string

const (
	KindCSV  Kind = "csv"
	KindXLSX Kind = "xlsx"
)

// KindFromPath infers the table kind from a file extension.
func KindFromPath(path string) (Kind, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".tsv", ".txt":
		return KindCSV, nil
	case ".xlsx", ".xlsm":
		return KindXLSX, nil
	default:
		return "", apperrors.New(apperrors.ErrCodeUnsupported, "unsupported data file %q (expected .csv or .xlsx)", filepath.Base(path))
	}
}

// ParseKind validates a kind name such as "csv" or "xlsx".
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(s)); k {
	case KindCSV, KindXLSX:
		return k, nil
	}
	return "", apperrors.New(apperrors.ErrCodeInvalidInput, "invalid data kind: %q (must be csv or xlsx)", s)
}

// Load reads and tallies the table at path.
func Load(path string, opts Options) (Table, error) {
	kind, err := KindFromPath(path)
	if err != nil {
		return Table{}, err
	}
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Table{}, apperrors.Wrap(apperrors.ErrCodeFileNotFound, err, "data file %s", path)
	}
	if err != nil {
		return Table{}, apperrors.Wrap(apperrors.ErrCodeMalformedData, err, "read %s", path)
	}
	return Read(bytes.NewReader(raw), kind, opts)
}

// Read tallies a table of the given kind from r.
func Read(r io.Reader, kind Kind, opts Options) (Table, error) {
	switch kind {
	case KindCSV:
		return ReadCSV(r, opts)
	case KindXLSX:
		return ReadXLSX(r, opts)
	default:
		return Table{}, apperrors.New(apperrors.ErrCodeUnsupported, "unsupported data kind %q", kind)
	}
}

// ReadCSV tallies a delimited text table. The delimiter (comma, semicolon,
// tab or pipe) is detected from the content.
func ReadCSV(r io.Reader, opts Options) (Table, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return Table{}, apperrors.Wrap(apperrors.ErrCodeMalformedData, err, "read csv")
	}
	raw = bytes.TrimPrefix(raw, []byte("\xef\xbb\xbf"))

	reader := csv.NewReader(bytes.NewReader(raw))
	reader.Comma = DetectDelimiter(raw)
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return Table{}, apperrors.Wrap(apperrors.ErrCodeMalformedData, err, "parse csv")
	}
	return Tally(rows, opts)
}

// ReadXLSX tallies the selected sheet of an Excel workbook (the first sheet
// when opts.Sheet is empty).
func ReadXLSX(r io.Reader, opts Options) (Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return Table{}, apperrors.Wrap(apperrors.ErrCodeMalformedData, err, "open workbook")
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return Table{}, apperrors.New(apperrors.ErrCodeMalformedData, "workbook has no sheets")
	}
	sheet := sheets[0]
	if opts.Sheet != "" {
		if !slices.Contains(sheets, opts.Sheet) {
			return Table{}, apperrors.New(apperrors.ErrCodeMalformedData, "workbook has no sheet %q", opts.Sheet)
		}
		sheet = opts.Sheet
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return Table{}, apperrors.Wrap(apperrors.ErrCodeMalformedData, err, "read sheet %q", sheet)
	}
	return Tally(rows, opts)
}

// DetectDelimiter returns the most likely field delimiter of a CSV document.
// It tries comma, semicolon, tab, and pipe; the delimiter that yields the
// most rows with the header's (multi-column) field count wins.
func DetectDelimiter(raw []byte) rune {
	best, bestScore := ',', 0
	for _, delim := range []rune{',', ';', '\t', '|'} {
		reader := csv.NewReader(bytes.NewReader(raw))
		reader.Comma = delim
		reader.LazyQuotes = true
		reader.FieldsPerRecord = -1

		records, err := reader.ReadAll()
		if err != nil || len(records) == 0 || len(records[0]) < 2 {
			continue
		}

		cols := len(records[0])
		score := 0
		for _, row := range records {
			if len(row) == cols {
				score++
			}
		}
		if weighted := score*10 + cols; weighted > bestScore {
			best, bestScore = delim, weighted
		}
	}
	return best
}
