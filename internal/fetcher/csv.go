package fetcher

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"io"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/text/encoding/htmlindex"

	"github.com/MaineStateEconomist207/pepv2024/internal/frame"
)

// CSVOptions configures the CSV parser.
type CSVOptions struct {
	Delimiter   rune     // default ','
	Comment     rune     // comment character (0 = none)
	LazyQuotes  bool
	Encoding    string   // WHATWG label, e.g. "latin1"; empty = UTF-8
	TextColumns []string // columns kept as text even when numeric-looking
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ReadCSV parses a CSV stream whose first row is the header into a frame.
// Short rows are padded with NA and long rows truncated; both are logged.
// Malformed cells become NA or text, never errors.
func ReadCSV(ctx context.Context, r io.Reader, opts CSVOptions) (*frame.Frame, error) {
	if opts.Encoding != "" && !strings.EqualFold(opts.Encoding, "utf-8") {
		enc, err := htmlindex.Get(opts.Encoding)
		if err != nil {
			return nil, eris.Wrapf(err, "csv: unsupported encoding %q", opts.Encoding)
		}
		r = enc.NewDecoder().Reader(r)
	}

	br := bufio.NewReader(r)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}

	reader := csv.NewReader(br)
	if opts.Delimiter != 0 {
		reader.Comma = opts.Delimiter
	}
	if opts.Comment != 0 {
		reader.Comment = opts.Comment
	}
	reader.LazyQuotes = opts.LazyQuotes
	reader.FieldsPerRecord = -1 // allow variable fields

	header, err := reader.Read()
	if err == io.EOF {
		return nil, eris.New("csv: empty input")
	}
	if err != nil {
		return nil, eris.Wrap(err, "csv: read header")
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	parsers := columnParsers(header, opts.TextColumns)
	f := frame.New(header...)
	var ragged int

	for {
		if ctx.Err() != nil {
			return nil, eris.Wrap(ctx.Err(), "csv: context cancelled")
		}

		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrap(err, "csv: read row")
		}
		if len(record) != len(header) {
			ragged++
		}

		if err := f.AppendRow(parseRow(record, parsers)...); err != nil {
			return nil, err
		}
	}

	if ragged > 0 {
		zap.L().Warn("csv: rows with unexpected field count",
			zap.Int("rows", ragged),
			zap.Int("columns", len(header)),
		)
	}

	return f, nil
}

// columnParsers picks a cell parser per header position.
func columnParsers(header, textColumns []string) []func(string) frame.Value {
	text := make(map[string]bool, len(textColumns))
	for _, c := range textColumns {
		text[strings.ToLower(c)] = true
	}
	parsers := make([]func(string) frame.Value, len(header))
	for i, h := range header {
		if text[strings.ToLower(h)] {
			parsers[i] = frame.ParseText
		} else {
			parsers[i] = frame.Parse
		}
	}
	return parsers
}

// parseRow converts a raw record to one value per column.
func parseRow(record []string, parsers []func(string) frame.Value) []frame.Value {
	vals := make([]frame.Value, len(parsers))
	for i, parse := range parsers {
		if i < len(record) {
			vals[i] = parse(record[i])
		} else {
			vals[i] = frame.NA()
		}
	}
	return vals
}
