// Package testutil provides test helpers shared across codebook packages:
//   - Miniredis helpers for the dataset cache (miniredis.go)
//   - Record fixtures and dataset files (fixtures.go)
//
// None of the helpers require Docker or network access beyond loopback.
package testutil
