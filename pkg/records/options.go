package records

import "strings"

// Sentinel filter values shared by the data type and cohort controls
const (
	// All disables a criterion
	All = "all"
	// Overlapping selects records belonging to more than one cohort
	Overlapping = "overlapping"
)

// Option is one selectable value of a filter control
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Options holds the option sets derived from a loaded collection
type Options struct {
	DataTypes []Option `json:"data_types"`
	Cohorts   []Option `json:"cohorts"`
}

// cohortCodes is the fixed cohort vocabulary. Adding a cohort means extending this list.
//
//nolint:gochecknoglobals // Static configuration
var cohortCodes = []string{"A", "B", "C", "D"}

// CohortCodes returns the named cohort codes, without the sentinels
func CohortCodes() []string {
	out := make([]string, len(cohortCodes))
	copy(out, cohortCodes)

	return out
}

// CohortValues returns the fixed cohort vocabulary: all, A, B, C, D, overlapping
func CohortValues() []string {
	values := make([]string, 0, len(cohortCodes)+2)
	values = append(values, All)
	values = append(values, cohortCodes...)
	values = append(values, Overlapping)

	return values
}

// CohortOptions returns the cohort vocabulary with display labels
func CohortOptions() []Option {
	values := CohortValues()
	options := make([]Option, 0, len(values))

	for _, value := range values {
		var label string

		switch value {
		case All:
			label = "all cohorts"
		case Overlapping:
			label = "overlapping cohorts"
		default:
			label = "cohort " + strings.ToLower(value)
		}

		options = append(options, Option{Value: value, Label: label})
	}

	return options
}

// DeriveDataTypes returns the distinct data types in order of first appearance,
// preceded by the All sentinel. Records without a data type are reachable only
// through All, so the empty value is never listed.
func DeriveDataTypes(records []Record) []string {
	// A data type literally named "all" collapses into the sentinel.
	seen := map[string]bool{All: true, "": true}
	dataTypes := []string{All}

	for i := range records {
		dataType := records[i].DataType
		if seen[dataType] {
			continue
		}

		seen[dataType] = true
		dataTypes = append(dataTypes, dataType)
	}

	return dataTypes
}

// DeriveOptions builds the data type and cohort option sets for a collection
func DeriveOptions(records []Record) Options {
	dataTypes := DeriveDataTypes(records)
	options := Options{
		DataTypes: make([]Option, 0, len(dataTypes)),
		Cohorts:   CohortOptions(),
	}

	for _, dataType := range dataTypes {
		label := dataType
		if dataType == All {
			label = "all data types"
		}

		options.DataTypes = append(options.DataTypes, Option{Value: dataType, Label: label})
	}

	return options
}
