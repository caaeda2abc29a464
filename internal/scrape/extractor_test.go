package scrape

import (
	"testing"

	"github.com/lcasucciIT/azure-openai-retirement/internal/domain"
)

func TestExtractModelVersionTable(t *testing.T) {
	t.Parallel()

	html := `
	<html><body>
	  <h2>GPT-4 models</h2>
	  <table>
	    <tr><th>Model</th><th>Version</th><th>Retirement Date</th></tr>
	    <tr><td>GPT-4</td><td>0613</td><td>2025-06-01</td></tr>
	    <tr><td>GPT-4</td><td>turbo-2024-04-09</td><td>To be announced</td></tr>
	  </table>
	</body></html>`

	lookup := NewExtractor(nil).Extract(html, "OpenAI")

	if len(lookup) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(lookup))
	}

	record, ok := lookup["gpt-4-0613"]
	if !ok {
		t.Fatalf("missing key gpt-4-0613, have %v", keysOf(lookup))
	}
	if record.Retirement != "2025-06-01" {
		t.Fatalf("unexpected retirement: %s", record.Retirement)
	}
	if record.Type != "GPT-4 models" {
		t.Fatalf("unexpected type: %s", record.Type)
	}
	if record.Source != "OpenAI" {
		t.Fatalf("unexpected source: %s", record.Source)
	}

	if _, ok := lookup["gpt-4-turbo-2024-04-09"]; !ok {
		t.Fatalf("missing composite key for turbo version, have %v", keysOf(lookup))
	}
}

func TestExtractModelOnlyTableNormalizesDashes(t *testing.T) {
	t.Parallel()

	// En-dash in the model name and no version column.
	html := `
	<table>
	  <tr><th>Model</th><th>Retirement Date</th></tr>
	  <tr><td>Babbage–002</td><td>2024-10-01</td></tr>
	</table>`

	lookup := NewExtractor(nil).Extract(html, "Foundry")

	record, ok := lookup["babbage-002"]
	if !ok {
		t.Fatalf("missing key babbage-002, have %v", keysOf(lookup))
	}
	if record.Retirement != "2024-10-01" {
		t.Fatalf("unexpected retirement: %s", record.Retirement)
	}
	if record.Type != domain.TypeUnknown {
		t.Fatalf("expected Unknown type, got %s", record.Type)
	}
}

func TestExtractSectionLabels(t *testing.T) {
	t.Parallel()

	html := `
	<h2>Deprecated Models</h2>
	<h3>Closer subsection</h3>
	<table>
	  <tr><th>Model</th><th>Retirement Date</th></tr>
	  <tr><td>ada</td><td>2024-01-01</td></tr>
	</table>
	<h3>Embeddings</h3>
	<h2></h2>
	<table>
	  <tr><th>Model</th><th>Retirement Date</th></tr>
	  <tr><td>davinci</td><td>2024-02-02</td></tr>
	</table>`

	lookup := NewExtractor(nil).Extract(html, "OpenAI")

	// An h2 wins over a closer h3.
	if got := lookup["ada"].Type; got != "Deprecated Models" {
		t.Fatalf("expected h2 label, got %q", got)
	}
	// An empty h2 falls through to the last h3.
	if got := lookup["davinci"].Type; got != "Embeddings" {
		t.Fatalf("expected h3 fallback, got %q", got)
	}
}

func TestExtractSkipsUnrelatedTables(t *testing.T) {
	t.Parallel()

	html := `
	<table>
	  <tr><th>Region</th><th>Availability</th></tr>
	  <tr><td>eastus</td><td>yes</td></tr>
	</table>
	<table>
	  <tr><th>Model</th><th>Deprecation Date</th></tr>
	  <tr><td>gpt-35-turbo</td><td>2024-08-01</td></tr>
	</table>`

	lookup := NewExtractor(nil).Extract(html, "OpenAI")

	if len(lookup) != 0 {
		t.Fatalf("expected empty lookup, got %v", keysOf(lookup))
	}
}

func TestExtractSkipsShortRows(t *testing.T) {
	t.Parallel()

	html := `
	<table>
	  <tr><th>Model</th><th>Version</th><th>Retirement Date</th></tr>
	  <tr><td>gpt-4</td><td>0613</td></tr>
	  <tr><td>gpt-4o</td><td>2024-05-13</td><td>2026-01-01</td></tr>
	</table>`

	lookup := NewExtractor(nil).Extract(html, "OpenAI")

	if len(lookup) != 1 {
		t.Fatalf("expected 1 entry, got %v", keysOf(lookup))
	}
	if _, ok := lookup["gpt-4o-2024-05-13"]; !ok {
		t.Fatalf("missing surviving row, have %v", keysOf(lookup))
	}
}

func TestExtractLastRowWins(t *testing.T) {
	t.Parallel()

	html := `
	<table>
	  <tr><th>Model</th><th>Retirement Date</th></tr>
	  <tr><td>GPT 4</td><td>2025-01-01</td></tr>
	  <tr><td>gpt4</td><td>2025-12-31</td></tr>
	</table>`

	lookup := NewExtractor(nil).Extract(html, "OpenAI")

	// Both rows normalize to the same key; the later row overwrites.
	if len(lookup) != 1 {
		t.Fatalf("expected 1 entry, got %v", keysOf(lookup))
	}
	if got := lookup["gpt4"].Retirement; got != "2025-12-31" {
		t.Fatalf("expected last row to win, got %s", got)
	}
}

func TestExtractNoTables(t *testing.T) {
	t.Parallel()

	lookup := NewExtractor(nil).Extract("<html><body><p>nothing here</p></body></html>", "OpenAI")
	if len(lookup) != 0 {
		t.Fatalf("expected empty lookup, got %v", keysOf(lookup))
	}
}

func TestExtractMalformedHTML(t *testing.T) {
	t.Parallel()

	// Unclosed row and cell tags; the extractor must still find the table.
	html := `
	<h2>Legacy</h2>
	<table>
	  <tr><th>Model<th>Retirement Date
	  <tr><td>text-davinci-003<td>2024-01-04`

	lookup := NewExtractor(nil).Extract(html, "OpenAI")

	record, ok := lookup["text-davinci-003"]
	if !ok {
		t.Fatalf("missing key from malformed table, have %v", keysOf(lookup))
	}
	if record.Type != "Legacy" {
		t.Fatalf("unexpected type: %s", record.Type)
	}
}

func keysOf(lookup domain.RetirementLookup) []string {
	keys := make([]string, 0, len(lookup))
	for key := range lookup {
		keys = append(keys, key)
	}
	return keys
}
