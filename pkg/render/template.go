package render

import (
	"bytes"
	"fmt"
	"io"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/ethpandaops/codebook/pkg/records"
)

// DefaultTemplate prints one record per line
const DefaultTemplate = `{{ range .Records }}{{ .LongName }} ({{ .ShortName | default "-" }}) [{{ .DataType }}] {{ .Cohort }}
{{ end }}`

// TemplateSink renders results through a text/template with Sprig functions.
// The template receives .Records, .Total and .Options.
type TemplateSink struct {
	out     io.Writer
	tmpl    *template.Template
	options records.Options
}

// NewTemplateSink parses content and creates a sink writing to out
func NewTemplateSink(out io.Writer, content string) (*TemplateSink, error) {
	if content == "" {
		content = DefaultTemplate
	}

	tmpl, err := template.New("records").Funcs(sprig.TxtFuncMap()).Parse(content)
	if err != nil {
		return nil, fmt.Errorf("failed to parse template: %w", err)
	}

	return &TemplateSink{out: out, tmpl: tmpl}, nil
}

// RenderOptions keeps the options for subsequent record renders
func (s *TemplateSink) RenderOptions(options records.Options) error {
	s.options = options

	return nil
}

// RenderRecords executes the template against the result
func (s *TemplateSink) RenderRecords(result []records.Record) error {
	variables := map[string]interface{}{
		"Records": result,
		"Total":   len(result),
		"Options": s.options,
	}

	var buf bytes.Buffer
	if err := s.tmpl.Execute(&buf, variables); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}

	_, err := s.out.Write(buf.Bytes())

	return err
}
