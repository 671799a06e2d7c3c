package printer

import (
	"fmt"
	"io"
	"text/template"

	"github.com/bascanada/auth0logs/pkg/management"
)

// DefaultTemplate prints one line per log event.
const DefaultTemplate = `{{Format "2006-01-02 15:04:05" .Date}} {{Type .Type}} {{Field . "client_name"}} {{Field . "user_name"}} {{Field . "description"}}`

// Options drive the output of a Printer.
type Options struct {
	// Template is a text/template executed for each entry. Empty uses DefaultTemplate.
	Template string
	// JSON prints the raw API answer instead of the template lines.
	JSON bool
	// Color forces colors on or off, nil auto detects.
	Color *bool
}

// Printer writes log events to a writer.
type Printer struct {
	writer io.Writer
	json   bool
	tmpl   *template.Template
}

func New(writer io.Writer, options Options) (*Printer, error) {
	InitColorState(options.Color, writer)

	text := options.Template
	if text == "" {
		text = DefaultTemplate
	}

	tmpl, err := template.New("entry").Funcs(GetTemplateFunctionsMap()).Parse(text + "\n")
	if err != nil {
		return nil, fmt.Errorf("invalid template: %w", err)
	}

	return &Printer{writer: writer, json: options.JSON, tmpl: tmpl}, nil
}

// PrintResult writes a search page, followed by a totals summary when present.
func (p *Printer) PrintResult(result *management.SearchResult) error {
	if p.json {
		return p.printJSON(*result)
	}

	for _, entry := range result.Logs {
		if err := p.tmpl.Execute(p.writer, entry); err != nil {
			return err
		}
	}

	if result.HasTotals {
		_, err := fmt.Fprintf(p.writer, "-- %d-%d of %d\n", result.Start, result.Start+result.Length, result.Total)
		return err
	}
	return nil
}

// PrintEntry writes a single event as JSON.
func (p *Printer) PrintEntry(entry management.LogEntry) error {
	_, err := fmt.Fprintln(p.writer, JSON(entry))
	return err
}

func (p *Printer) printJSON(result management.SearchResult) error {
	if result.HasTotals {
		_, err := fmt.Fprintln(p.writer, JSON(map[string]interface{}{
			"start":  float64(result.Start),
			"limit":  float64(result.Limit),
			"length": float64(result.Length),
			"total":  float64(result.Total),
			"logs":   normalize(result.Logs),
		}))
		return err
	}
	_, err := fmt.Fprintln(p.writer, JSON(result.Logs))
	return err
}
