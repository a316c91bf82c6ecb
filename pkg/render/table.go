// Package render provides the presentation sinks used by the CLI
package render

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/ethpandaops/codebook/pkg/records"
)

// TableSink writes options and results as tab-aligned columns
type TableSink struct {
	out io.Writer
	// Quiet suppresses the options listing
	Quiet bool
}

// NewTableSink creates a table sink writing to out
func NewTableSink(out io.Writer) *TableSink {
	return &TableSink{out: out}
}

// RenderOptions lists both option sets
func (s *TableSink) RenderOptions(options records.Options) error {
	if s.Quiet {
		return nil
	}

	w := tabwriter.NewWriter(s.out, 0, 0, 2, ' ', 0)

	fmt.Fprintln(w, "SET\tVALUE\tLABEL")

	for _, opt := range options.DataTypes {
		fmt.Fprintf(w, "data_type\t%s\t%s\n", opt.Value, opt.Label)
	}

	for _, opt := range options.Cohorts {
		fmt.Fprintf(w, "cohort\t%s\t%s\n", opt.Value, opt.Label)
	}

	return w.Flush()
}

// RenderRecords lists the filtered records followed by a total line
func (s *TableSink) RenderRecords(result []records.Record) error {
	w := tabwriter.NewWriter(s.out, 0, 0, 2, ' ', 0)

	fmt.Fprintln(w, "LONG NAME\tSHORT NAME\tDATA TYPE\tCOHORT")

	for i := range result {
		r := &result[i]
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", cell(r.LongName), cell(r.ShortName), cell(r.DataType), cell(r.Cohort))
	}

	if err := w.Flush(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(s.out, "%d %s\n", len(result), plural(len(result), "record", "records"))

	return err
}

func cell(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return "-"
	}

	return value
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}

	return many
}
