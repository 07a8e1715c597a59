package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/table"
	"github.com/naveego/anb/pkg/annotate"
	"github.com/naveego/anb/pkg/core"
	"github.com/naveego/anb/pkg/issues"
	"gopkg.in/yaml.v3"
)

// IDWidth is the column the identifier is padded to in line output.
const IDWidth = 20

const (
	FormatLine  = "line"
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

type Renderer interface {
	Render(w io.Writer, records []issues.Record) error
}

var formatAliases = map[string]string{
	"":          FormatLine,
	FormatLine:  FormatLine,
	FormatTable: FormatTable,
	FormatJSON:  FormatJSON,
	FormatYAML:  FormatYAML,
	"yml":       FormatYAML,
}

// ParseFormat resolves format, ignoring case, to one of the Format constants.
// An empty format is FormatLine.
func ParseFormat(format string) (string, error) {
	if f, ok := formatAliases[strings.ToLower(strings.TrimSpace(format))]; ok {
		return f, nil
	}
	return "", core.ConfigErrorf("unknown output format %q (want %s, %s, %s or %s)", format, FormatLine, FormatTable, FormatJSON, FormatYAML)
}

// NewRenderer returns the renderer for format.
func NewRenderer(format string, noColor bool) (Renderer, error) {
	f, err := ParseFormat(format)
	if err != nil {
		return nil, err
	}

	switch f {
	case FormatTable:
		return TableRenderer{}, nil
	case FormatJSON:
		return JSONRenderer{}, nil
	case FormatYAML:
		return YAMLRenderer{}, nil
	default:
		return NewLineRenderer(noColor), nil
	}
}

// LineRenderer prints one line per record: the padded identifier, the
// summary and the status in parentheses.
type LineRenderer struct {
	id     *color.Color
	status *color.Color
}

func NewLineRenderer(noColor bool) LineRenderer {
	r := LineRenderer{
		id:     color.New(color.FgGreen),
		status: color.New(color.FgCyan),
	}
	if noColor {
		r.id.DisableColor()
		r.status.DisableColor()
	}
	return r
}

func (r LineRenderer) Line(record issues.Record) string {
	id := fmt.Sprintf("%-*s", IDWidth, record.ID)
	return fmt.Sprintf("%s %s (%s)", r.id.Sprint(id), record.Summary, r.status.Sprint(record.Status))
}

func (r LineRenderer) Render(w io.Writer, records []issues.Record) error {
	for _, record := range records {
		if _, err := fmt.Fprintln(w, r.Line(record)); err != nil {
			return err
		}
	}
	return nil
}

type TableRenderer struct{}

func (TableRenderer) Render(w io.Writer, records []issues.Record) error {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"ID", "Branch", "Summary", "Status"})
	for _, r := range records {
		t.AppendRow(table.Row{r.ID, r.Branch, r.Summary, r.Status})
	}
	_, err := fmt.Fprintln(w, t.Render())
	return err
}

type JSONRenderer struct{}

func (JSONRenderer) Render(w io.Writer, records []issues.Record) error {
	if records == nil {
		records = []issues.Record{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}

type YAMLRenderer struct{}

func (YAMLRenderer) Render(w io.Writer, records []issues.Record) error {
	if records == nil {
		records = []issues.Record{}
	}
	enc := yaml.NewEncoder(w)
	if err := enc.Encode(records); err != nil {
		return err
	}
	return enc.Close()
}

// RenderFailures prints one line per failed lookup.
func RenderFailures(w io.Writer, failures []annotate.Failure, noColor bool) error {
	c := color.New(color.FgRed)
	if noColor {
		c.DisableColor()
	}
	for _, f := range failures {
		if _, err := c.Fprintf(w, "%-*s %s\n", IDWidth, f.Ref, f.Err); err != nil {
			return err
		}
	}
	return nil
}
