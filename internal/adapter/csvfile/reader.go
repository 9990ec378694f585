// Package csvfile reads the festival dataset from a delimited text file,
// trying a list of text encodings in order.
package csvfile

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/couchcryptid/festival-guide/internal/domain"
	"golang.org/x/text/encoding/korean"
)

// ErrDecode reports bytes that are not valid in the attempted encoding.
var ErrDecode = errors.New("invalid byte sequence")

// Encoding names accepted by ParseEncodings.
const (
	EncodingCP949 = "cp949"
	EncodingUTF8  = "utf-8"
)

// DefaultEncodings is the order used by the public dataset: CP949 first,
// UTF-8 as the fallback.
var DefaultEncodings = []string{EncodingCP949, EncodingUTF8}

// ParseEncodings validates a comma-separated encoding list.
func ParseEncodings(s string) ([]string, error) {
	var out []string
	for _, name := range strings.Split(s, ",") {
		name = strings.ToLower(strings.TrimSpace(name))
		switch name {
		case "":
			continue
		case EncodingCP949, "euc-kr", "euckr":
			out = append(out, EncodingCP949)
		case EncodingUTF8, "utf8":
			out = append(out, EncodingUTF8)
		default:
			return nil, fmt.Errorf("unsupported encoding %q", name)
		}
	}
	if len(out) == 0 {
		return nil, errors.New("no encodings configured")
	}
	return out, nil
}

// Reader loads a CSV file into a domain.Table.
type Reader struct {
	path      string
	encodings []string
}

// NewReader creates a Reader for path. Encodings are tried in order; a nil
// or empty list means DefaultEncodings.
func NewReader(path string, encodings []string) *Reader {
	if len(encodings) == 0 {
		encodings = DefaultEncodings
	}
	return &Reader{path: path, encodings: encodings}
}

// Load reads and parses the file. Each encoding is attempted once; the
// first that both decodes and parses wins. When every attempt fails the
// returned error wraps all of them.
func (r *Reader) Load(ctx context.Context) (domain.Table, error) {
	if err := ctx.Err(); err != nil {
		return domain.Table{}, err
	}
	raw, err := os.ReadFile(r.path)
	if err != nil {
		return domain.Table{}, fmt.Errorf("read %s: %w", r.path, err)
	}
	return Parse(raw, r.encodings)
}

// Parse decodes raw with each encoding in turn and parses it as CSV.
func Parse(raw []byte, encodings []string) (domain.Table, error) {
	var errs []error
	for _, enc := range encodings {
		text, err := decode(raw, enc)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", enc, err))
			continue
		}
		tbl, err := parseCSV(text)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", enc, err))
			continue
		}
		tbl.Encoding = enc
		return tbl, nil
	}
	return domain.Table{}, fmt.Errorf("parse csv: %w", errors.Join(errs...))
}

// decode converts raw to UTF-8. The x/text decoders substitute U+FFFD for
// invalid input instead of failing, so any replacement character in the
// output counts as a decode failure.
func decode(raw []byte, enc string) (string, error) {
	switch enc {
	case EncodingUTF8:
		if !utf8.Valid(raw) {
			return "", ErrDecode
		}
		return string(raw), nil
	case EncodingCP949:
		out, err := korean.EUCKR.NewDecoder().Bytes(raw)
		if err != nil {
			return "", fmt.Errorf("%w: %w", ErrDecode, err)
		}
		if bytes.ContainsRune(out, utf8.RuneError) {
			return "", ErrDecode
		}
		return string(out), nil
	default:
		return "", fmt.Errorf("unsupported encoding %q", enc)
	}
}

func parseCSV(text string) (domain.Table, error) {
	text = strings.TrimPrefix(text, "\ufeff")
	r := csv.NewReader(strings.NewReader(text))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	headers, err := r.Read()
	if errors.Is(err, io.EOF) {
		return domain.Table{}, errors.New("empty file")
	}
	if err != nil {
		return domain.Table{}, fmt.Errorf("read header: %w", err)
	}
	for i, h := range headers {
		headers[i] = strings.TrimSpace(h)
	}

	var rows [][]string
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return domain.Table{}, fmt.Errorf("read row: %w", err)
		}
		rows = append(rows, normalizeRow(rec, len(headers)))
	}
	return domain.Table{Headers: headers, Rows: rows}, nil
}

// normalizeRow pads short rows and truncates long ones to the header width.
func normalizeRow(rec []string, width int) []string {
	if len(rec) == width {
		return rec
	}
	row := make([]string, width)
	copy(row, rec)
	return row
}
