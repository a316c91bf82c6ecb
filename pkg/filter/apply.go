package filter

import "github.com/ethpandaops/codebook/pkg/records"

// Apply runs predicate over the collection in a single pass and returns the
// surviving records in their original order. The input is never modified.
func Apply(collection []records.Record, predicate Predicate) []records.Record {
	result := make([]records.Record, 0, len(collection))

	for i := range collection {
		if predicate(&collection[i]) {
			result = append(result, collection[i])
		}
	}

	return result
}
