package records

import (
	"errors"
	"fmt"
)

// ErrMalformedRecord is matched by every *MalformedRecordError
var ErrMalformedRecord = errors.New("malformed record")

// Reasons a record can be malformed
const (
	ReasonCohortMissing   = "cohort is empty or missing"
	ReasonCohortEmptyCode = "cohort contains an empty code"
)

// MalformedRecordError reports a record without a usable cohort value
type MalformedRecordError struct {
	Index    int    `json:"index"` // Position in the collection, -1 when unknown
	LongName string `json:"long_name"`
	Reason   string `json:"reason"`
}

func (e *MalformedRecordError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("%s %q: %s", ErrMalformedRecord, e.LongName, e.Reason)
	}

	return fmt.Sprintf("%s %d (%q): %s", ErrMalformedRecord, e.Index, e.LongName, e.Reason)
}

// Is allows errors.Is(err, ErrMalformedRecord)
func (e *MalformedRecordError) Is(target error) bool {
	return target == ErrMalformedRecord
}
