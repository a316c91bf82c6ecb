// Package records defines the measure metadata record and the option sets derived from a loaded collection
package records

import (
	"errors"
	"strings"
)

// CohortSeparator separates cohort codes within Record.Cohort
const CohortSeparator = ","

// Record describes the metadata of one measure
type Record struct {
	LongName  string `json:"long_name"`
	ShortName string `json:"short_name"`
	DataType  string `json:"data_type"`
	Cohort    string `json:"cohort"` // Comma-separated cohort codes, e.g. "A,B"
}

// Cohorts splits the cohort field into its codes.
// Codes are trimmed of surrounding whitespace. An empty cohort field, or one
// that contains an empty code, returns a *MalformedRecordError.
func (r *Record) Cohorts() ([]string, error) {
	if strings.TrimSpace(r.Cohort) == "" {
		return nil, &MalformedRecordError{Index: -1, LongName: r.LongName, Reason: ReasonCohortMissing}
	}

	parts := strings.Split(r.Cohort, CohortSeparator)
	codes := make([]string, 0, len(parts))

	for _, part := range parts {
		code := strings.TrimSpace(part)
		if code == "" {
			return nil, &MalformedRecordError{Index: -1, LongName: r.LongName, Reason: ReasonCohortEmptyCode}
		}

		codes = append(codes, code)
	}

	return codes, nil
}

// IsOverlapping reports whether the record belongs to more than one cohort.
// Malformed records are never overlapping.
func (r *Record) IsOverlapping() bool {
	codes, err := r.Cohorts()
	if err != nil {
		return false
	}

	return len(codes) > 1
}

// Validate checks every record in the collection and returns one error per
// malformed record, in collection order. Index is set to the record position.
func Validate(records []Record) []*MalformedRecordError {
	var problems []*MalformedRecordError

	for i := range records {
		if _, err := records[i].Cohorts(); err != nil {
			var malformed *MalformedRecordError
			if errors.As(err, &malformed) {
				malformed.Index = i
				problems = append(problems, malformed)
			}
		}
	}

	return problems
}
