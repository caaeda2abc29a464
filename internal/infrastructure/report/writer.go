package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/lcasucciIT/azure-openai-retirement/internal/domain"
	"github.com/lcasucciIT/azure-openai-retirement/internal/ports"
)

// Format selects the report serialization.
type Format string

const (
	// FormatText renders an aligned table to the writer.
	FormatText Format = "text"
	// FormatCSV writes a CSV file.
	FormatCSV Format = "csv"
	// FormatJSON writes an indented JSON file.
	FormatJSON Format = "json"
)

// ParseFormat validates a format string.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatText, FormatCSV, FormatJSON:
		return Format(s), nil
	case "":
		return FormatText, nil
	default:
		return "", fmt.Errorf("invalid output format %q: must be one of: text, csv, json", s)
	}
}

var headers = []string{"subscription", "resource_group", "deployment", "model", "version", "retirement", "kind"}

// Writer serializes scan results to stdout (text) or a file (csv/json).
type Writer struct {
	format    Format
	path      string
	directory string
	out       io.Writer
	now       func() time.Time
}

var _ ports.ReportWriter = (*Writer)(nil)

// NewWriter builds a report writer. path overrides the timestamped
// default location under directory; out receives text output and
// defaults to stdout.
func NewWriter(format Format, path, directory string, out io.Writer) *Writer {
	if out == nil {
		out = os.Stdout
	}
	return &Writer{
		format:    format,
		path:      path,
		directory: directory,
		out:       out,
		now:       time.Now,
	}
}

// Write serializes the results in the configured format.
func (w *Writer) Write(results []domain.DeploymentStatus) error {
	switch w.format {
	case FormatCSV:
		return w.writeFile(func(f io.Writer) error { return writeCSV(f, results) })
	case FormatJSON:
		return w.writeFile(func(f io.Writer) error { return writeJSON(f, results) })
	default:
		return writeText(w.out, results)
	}
}

func (w *Writer) writeFile(write func(io.Writer) error) error {
	path := w.path
	if path == "" {
		if err := os.MkdirAll(w.directory, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
		stamp := w.now().Format("20060102_150405")
		path = filepath.Join(w.directory, fmt.Sprintf("deployment_retirement_%s.%s", stamp, w.format))
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}

	if err := write(f); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close output file: %w", err)
	}

	fmt.Fprintf(w.out, "Output written to %s\n", path)
	return nil
}

func writeText(out io.Writer, results []domain.DeploymentStatus) error {
	table := tablewriter.NewTable(out)

	cols := make([]any, len(headers))
	for i, h := range headers {
		cols[i] = h
	}
	table.Header(cols...)

	for _, res := range results {
		if err := table.Append(res.Subscription, res.ResourceGroup, res.Name,
			res.Model, res.Version, res.Retirement, res.Kind); err != nil {
			return fmt.Errorf("append table row: %w", err)
		}
	}

	return table.Render()
}

func writeCSV(out io.Writer, results []domain.DeploymentStatus) error {
	cw := csv.NewWriter(out)
	if err := cw.Write(headers); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, res := range results {
		row := []string{res.Subscription, res.ResourceGroup, res.Name,
			res.Model, res.Version, res.Retirement, res.Kind}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

func writeJSON(out io.Writer, results []domain.DeploymentStatus) error {
	type item struct {
		Subscription  string `json:"subscription"`
		ResourceGroup string `json:"resource_group"`
		Deployment    string `json:"deployment"`
		Model         string `json:"model"`
		Version       string `json:"version"`
		Retirement    string `json:"retirement"`
		Kind          string `json:"kind"`
	}

	payload := make([]item, 0, len(results))
	for _, res := range results {
		payload = append(payload, item{
			Subscription:  res.Subscription,
			ResourceGroup: res.ResourceGroup,
			Deployment:    res.Name,
			Model:         res.Model,
			Version:       res.Version,
			Retirement:    res.Retirement,
			Kind:          res.Kind,
		})
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}
