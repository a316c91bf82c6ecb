package filter

import (
	"strings"

	"github.com/ethpandaops/codebook/pkg/records"
)

// Predicate reports whether a record survives the filter
type Predicate func(r *records.Record) bool

// Compose builds the combined predicate for state: the AND of the data type,
// cohort and search predicates. Inactive criteria are left out entirely.
func Compose(state State) Predicate {
	var predicates []Predicate

	if p := dataTypePredicate(state.DataType); p != nil {
		predicates = append(predicates, p)
	}

	if p := cohortPredicate(state.Cohorts); p != nil {
		predicates = append(predicates, p)
	}

	if p := searchPredicate(state.Search); p != nil {
		predicates = append(predicates, p)
	}

	return func(r *records.Record) bool {
		for _, p := range predicates {
			if !p(r) {
				return false
			}
		}

		return true
	}
}

// dataTypePredicate matches the data type exactly. An empty value behaves like All.
func dataTypePredicate(dataType string) Predicate {
	if dataType == "" || dataType == records.All {
		return nil
	}

	return func(r *records.Record) bool {
		return r.DataType == dataType
	}
}

// cohortPredicate is inactive when nothing or All is selected. Overlapping takes
// priority over any specific codes selected with it. Otherwise a record matches
// when it shares at least one code with the selection. Malformed records never
// match an active cohort predicate.
func cohortPredicate(selected CohortSet) Predicate {
	if len(selected) == 0 || selected.Has(records.All) {
		return nil
	}

	if selected.Has(records.Overlapping) {
		return func(r *records.Record) bool {
			return r.IsOverlapping()
		}
	}

	wanted := selected.Clone()

	return func(r *records.Record) bool {
		codes, err := r.Cohorts()
		if err != nil {
			return false
		}

		for _, code := range codes {
			if wanted.Has(code) {
				return true
			}
		}

		return false
	}
}

// searchPredicate matches a case-insensitive substring of the long or short name
func searchPredicate(search string) Predicate {
	if search == "" {
		return nil
	}

	needle := strings.ToLower(search)

	return func(r *records.Record) bool {
		return strings.Contains(strings.ToLower(r.LongName), needle) ||
			strings.Contains(strings.ToLower(r.ShortName), needle)
	}
}
