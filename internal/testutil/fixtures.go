package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ethpandaops/codebook/pkg/records"
)

// CohortRecords is the three-record dataset used in end-to-end filter scenarios
func CohortRecords() []records.Record {
	return []records.Record{
		{LongName: "Height", ShortName: "ht", DataType: "anthro", Cohort: "A"},
		{LongName: "Weight", ShortName: "wt", DataType: "anthro", Cohort: "A,B"},
		{LongName: "Glucose", ShortName: "glu", DataType: "lab", Cohort: "C"},
	}
}

// CohortRecordsJSON is CohortRecords encoded as a dataset payload
const CohortRecordsJSON = `[
  {"long_name": "Height", "short_name": "ht", "data_type": "anthro", "cohort": "A"},
  {"long_name": "Weight", "short_name": "wt", "data_type": "anthro", "cohort": "A,B"},
  {"long_name": "Glucose", "short_name": "glu", "data_type": "lab", "cohort": "C"}
]`

// CohortRecordsCSV is CohortRecords as a spreadsheet export with a leading index column
const CohortRecordsCSV = `,long_name,short_name,data_type,cohort
0,Height,ht,anthro,A
1,Weight,wt,anthro,"A,B"
2,Glucose,glu,lab,C
`

// WriteFile writes content to name inside a per-test temporary directory and returns the path
func WriteFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write fixture %s: %v", name, err)
	}

	return path
}
