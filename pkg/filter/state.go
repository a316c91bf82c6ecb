// Package filter holds the user-selected filter criteria and composes them into a single record predicate
package filter

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/ethpandaops/codebook/pkg/records"
)

// ErrUnknownCohort is returned for a cohort value outside the fixed vocabulary
var ErrUnknownCohort = errors.New("unknown cohort")

// CohortSet is a set of selected cohort values, including the All and Overlapping sentinels
type CohortSet map[string]struct{}

// NewCohortSet returns a set holding the given values
func NewCohortSet(values ...string) CohortSet {
	set := make(CohortSet, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}

	return set
}

// ParseCohorts builds a CohortSet from user input. Each value may hold several
// comma separated cohorts. Blank entries are skipped and values are case sensitive.
func ParseCohorts(raw ...string) (CohortSet, error) {
	known := make(map[string]bool, len(records.CohortValues()))
	for _, value := range records.CohortValues() {
		known[value] = true
	}

	set := NewCohortSet()

	for _, entry := range raw {
		for _, value := range strings.Split(entry, records.CohortSeparator) {
			value = strings.TrimSpace(value)
			if value == "" {
				continue
			}

			if !known[value] {
				return nil, fmt.Errorf("%w %q, expected one of %s", ErrUnknownCohort, value,
					strings.Join(records.CohortValues(), ", "))
			}

			set[value] = struct{}{}
		}
	}

	return set, nil
}

// Has reports whether value is selected
func (s CohortSet) Has(value string) bool {
	_, ok := s[value]

	return ok
}

// Values returns the selected values in sorted order
func (s CohortSet) Values() []string {
	values := make([]string, 0, len(s))
	for v := range s {
		values = append(values, v)
	}

	sort.Strings(values)

	return values
}

// Clone returns an independent copy of the set
func (s CohortSet) Clone() CohortSet {
	out := make(CohortSet, len(s))
	for v := range s {
		out[v] = struct{}{}
	}

	return out
}

// MarshalJSON encodes the set as a sorted array
func (s CohortSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Values())
}

// UnmarshalJSON decodes an array of values into the set
func (s *CohortSet) UnmarshalJSON(data []byte) error {
	var values []string
	if err := json.Unmarshal(data, &values); err != nil {
		return err
	}

	*s = NewCohortSet(values...)

	return nil
}

// State is the current combination of filter criteria.
// Assignments are not validated: a data type absent from the collection simply matches nothing.
type State struct {
	DataType string    `json:"data_type"`
	Cohorts  CohortSet `json:"cohorts"`
	Search   string    `json:"search"`
}

// DefaultState returns the initial state: all data types, no cohorts checked, no search text
func DefaultState() State {
	return State{
		DataType: records.All,
		Cohorts:  NewCohortSet(),
		Search:   "",
	}
}

// Clone returns a copy of the state that shares no memory with s
func (s State) Clone() State {
	s.Cohorts = s.Cohorts.Clone()

	return s
}
