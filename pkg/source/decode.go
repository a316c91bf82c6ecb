package source

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"mime"
	"path"
	"strings"

	"github.com/ethpandaops/codebook/pkg/records"
	"github.com/tidwall/gjson"
)

// ErrInvalidPayload is returned when a payload does not hold a record collection
var ErrInvalidPayload = errors.New("invalid dataset payload")

// maxPayloadBytes bounds the size of a fetched dataset
const maxPayloadBytes = 64 << 20

// readPayload reads r fully, failing once more than limit bytes arrive
func readPayload(r io.Reader, limit int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}

	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%w: payload exceeds %d bytes", ErrInvalidPayload, limit)
	}

	return data, nil
}

// Format is the encoding of a dataset payload
type Format string

const (
	// FormatAuto picks the format from the file extension or content type
	FormatAuto Format = "auto"
	// FormatJSON is an array of record objects
	FormatJSON Format = "json"
	// FormatCSV is a table with a header row
	FormatCSV Format = "csv"
)

// Record field names shared by the JSON and CSV encodings
const (
	FieldLongName  = "long_name"
	FieldShortName = "short_name"
	FieldDataType  = "data_type"
	FieldCohort    = "cohort"
)

//nolint:gochecknoglobals // Static column list
var requiredColumns = []string{FieldLongName, FieldShortName, FieldDataType, FieldCohort}

// DetectFormat resolves FormatAuto from a file name and an optional content type. Defaults to JSON.
func DetectFormat(format Format, name, contentType string) Format {
	if format != "" && format != FormatAuto {
		return format
	}

	switch strings.ToLower(path.Ext(name)) {
	case ".csv":
		return FormatCSV
	case ".json":
		return FormatJSON
	}

	if contentType != "" {
		if mediaType, _, err := mime.ParseMediaType(contentType); err == nil && mediaType == "text/csv" {
			return FormatCSV
		}
	}

	return FormatJSON
}

// Decode parses a payload in the given format
func Decode(format Format, data []byte) ([]records.Record, error) {
	switch format {
	case FormatJSON, FormatAuto, "":
		return DecodeJSON(data)
	case FormatCSV:
		return DecodeCSV(data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// DecodeJSON parses a JSON array of record objects. Missing or null fields
// decode as empty strings and numbers are kept in their textual form.
func DecodeJSON(data []byte) ([]records.Record, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: malformed JSON", ErrInvalidPayload)
	}

	root := gjson.ParseBytes(data)
	if !root.IsArray() {
		return nil, fmt.Errorf("%w: expected a JSON array of records", ErrInvalidPayload)
	}

	items := root.Array()
	out := make([]records.Record, 0, len(items))

	for i, item := range items {
		if !item.IsObject() {
			return nil, fmt.Errorf("%w: element %d is not an object", ErrInvalidPayload, i)
		}

		out = append(out, records.Record{
			LongName:  stringField(item, FieldLongName),
			ShortName: stringField(item, FieldShortName),
			DataType:  stringField(item, FieldDataType),
			Cohort:    stringField(item, FieldCohort),
		})
	}

	return out, nil
}

func stringField(item gjson.Result, name string) string {
	value := item.Get(name)
	if !value.Exists() || value.Type == gjson.Null {
		return ""
	}

	return value.String()
}

// DecodeCSV parses a table whose header row names the record fields. Columns
// may appear in any order; extra columns, such as a leading index, are ignored.
func DecodeCSV(data []byte) ([]records.Record, error) {
	reader := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty CSV", ErrInvalidPayload)
		}

		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}

	for _, name := range requiredColumns {
		if _, ok := columns[name]; !ok {
			return nil, fmt.Errorf("%w: missing column %q", ErrInvalidPayload, name)
		}
	}

	var out []records.Record

	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
		}

		cell := func(name string) string {
			idx := columns[name]
			if idx >= len(row) {
				return ""
			}

			return row[idx]
		}

		out = append(out, records.Record{
			LongName:  cell(FieldLongName),
			ShortName: cell(FieldShortName),
			DataType:  cell(FieldDataType),
			Cohort:    cell(FieldCohort),
		})
	}

	if out == nil {
		out = []records.Record{}
	}

	return out, nil
}
