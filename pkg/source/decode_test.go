package source

import (
	"strings"
	"testing"

	"github.com/ethpandaops/codebook/internal/testutil"
	"github.com/ethpandaops/codebook/pkg/records"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name     string
		payload  string
		expected []records.Record
		wantErr  bool
	}{
		{
			name:     "record array",
			payload:  testutil.CohortRecordsJSON,
			expected: testutil.CohortRecords(),
		},
		{
			name:     "empty array",
			payload:  `[]`,
			expected: []records.Record{},
		},
		{
			name:    "missing and null fields decode as empty",
			payload: `[{"long_name": "Cortisol", "cohort": null}]`,
			expected: []records.Record{
				{LongName: "Cortisol"},
			},
		},
		{
			name:    "numbers keep their textual form",
			payload: `[{"long_name": "Visit", "short_name": 12, "data_type": "lab", "cohort": "A"}]`,
			expected: []records.Record{
				{LongName: "Visit", ShortName: "12", DataType: "lab", Cohort: "A"},
			},
		},
		{
			name:    "extra fields ignored",
			payload: `[{"long_name": "Height", "unit": "cm", "cohort": "B"}]`,
			expected: []records.Record{
				{LongName: "Height", Cohort: "B"},
			},
		},
		{
			name:    "object payload rejected",
			payload: `{"long_name": "Height"}`,
			wantErr: true,
		},
		{
			name:    "non-object element rejected",
			payload: `[{"long_name": "Height"}, 3]`,
			wantErr: true,
		},
		{
			name:    "malformed JSON rejected",
			payload: `[{"long_name": `,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeJSON([]byte(tt.payload))
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidPayload)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestDecodeCSV(t *testing.T) {
	tests := []struct {
		name     string
		payload  string
		expected []records.Record
		wantErr  bool
	}{
		{
			name:     "export with index column",
			payload:  testutil.CohortRecordsCSV,
			expected: testutil.CohortRecords(),
		},
		{
			name:    "columns in any order with BOM",
			payload: "\xef\xbb\xbfCohort,Data_Type,Short_Name,Long_Name\nD,questionnaire,sd,Sleep Diary\n",
			expected: []records.Record{
				{LongName: "Sleep Diary", ShortName: "sd", DataType: "questionnaire", Cohort: "D"},
			},
		},
		{
			name:    "short rows leave missing cells empty",
			payload: "long_name,short_name,data_type,cohort\nCortisol,cort\n",
			expected: []records.Record{
				{LongName: "Cortisol", ShortName: "cort"},
			},
		},
		{
			name:     "header only",
			payload:  "long_name,short_name,data_type,cohort\n",
			expected: []records.Record{},
		},
		{
			name:    "missing column",
			payload: "long_name,short_name,data_type\nHeight,ht,anthro\n",
			wantErr: true,
		},
		{
			name:    "empty payload",
			payload: "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeCSV([]byte(tt.payload))
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidPayload)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name        string
		format      Format
		file        string
		contentType string
		expected    Format
	}{
		{name: "explicit format wins", format: FormatCSV, file: "data.json", expected: FormatCSV},
		{name: "csv extension", format: FormatAuto, file: "data/overview.CSV", expected: FormatCSV},
		{name: "json extension", format: FormatAuto, file: "overview.json", contentType: "text/csv", expected: FormatJSON},
		{name: "content type fallback", format: FormatAuto, file: "/download", contentType: "text/csv; charset=utf-8", expected: FormatCSV},
		{name: "defaults to json", format: "", file: "overview", expected: FormatJSON},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DetectFormat(tt.format, tt.file, tt.contentType))
		})
	}
}

func TestDecode_UnknownFormat(t *testing.T) {
	_, err := Decode("xlsx", []byte("x"))
	require.ErrorIs(t, err, ErrUnknownFormat)
}

func TestReadPayload(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		limit   int64
		wantErr bool
	}{
		{name: "below limit", payload: "[]", limit: 8},
		{name: "exactly at limit", payload: "12345678", limit: 8},
		{name: "one byte over limit", payload: "123456789", limit: 8, wantErr: true},
		{name: "empty", payload: "", limit: 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := readPayload(strings.NewReader(tt.payload), tt.limit)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidPayload)
				assert.Nil(t, data)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.payload, string(data))
		})
	}
}
