package scrape

import (
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/lcasucciIT/azure-openai-retirement/internal/domain"
)

// tableShape describes one supported header layout. Shapes are tried in
// order and the first match wins, so overlapping layouts stay unambiguous.
type tableShape struct {
	name    string
	columns []string
}

var tableShapes = []tableShape{
	{name: "model+version", columns: []string{"model", "version", "retirement date"}},
	{name: "model-only", columns: []string{"model", "retirement date"}},
}

// Extractor pulls retirement records out of documentation HTML.
type Extractor struct {
	logger *slog.Logger
}

// NewExtractor wires an optional logger for skip diagnostics.
func NewExtractor(log *slog.Logger) *Extractor {
	return &Extractor{logger: log}
}

// Extract parses htmlText and returns a lookup of every retirement row
// found in tables matching a supported shape. sourceLabel is copied
// verbatim into each record. Malformed HTML never fails the pass: input
// that cannot be parsed at all yields an empty lookup.
func (e *Extractor) Extract(htmlText, sourceLabel string) domain.RetirementLookup {
	lookup := domain.RetirementLookup{}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlText))
	if err != nil {
		e.warn("document not parseable, skipping source", "source", sourceLabel, "error", err)
		return lookup
	}

	// Single pass in document order: remember the last heading of each
	// level seen before every table.
	var lastH2, lastH3 string
	doc.Find("h2, h3, table").Each(func(_ int, sel *goquery.Selection) {
		switch goquery.NodeName(sel) {
		case "h2":
			lastH2 = strings.TrimSpace(sel.Text())
		case "h3":
			lastH3 = strings.TrimSpace(sel.Text())
		case "table":
			section := lastH2
			if section == "" {
				section = lastH3
			}
			if section == "" {
				section = domain.TypeUnknown
			}
			e.extractTable(sel, section, sourceLabel, lookup)
		}
	})

	return lookup
}

// extractTable matches the table's header against the supported shapes
// and inserts one record per usable data row. Later rows overwrite
// earlier ones under the same key.
func (e *Extractor) extractTable(table *goquery.Selection, section, sourceLabel string, lookup domain.RetirementLookup) {
	rows := table.Find("tr")
	if rows.Length() < 2 {
		return
	}

	headers := cellTexts(rows.First())
	for i, h := range headers {
		headers[i] = strings.ToLower(h)
	}

	shape, indices := matchShape(headers)
	if shape == nil {
		e.debug("table does not match any shape, skipping", "section", section, "headers", strings.Join(headers, ","))
		return
	}

	modelIdx := indices["model"]
	retireIdx := indices["retirement date"]
	versionIdx, hasVersion := indices["version"]

	rows.Slice(1, rows.Length()).Each(func(_ int, row *goquery.Selection) {
		cells := cellTexts(row)
		if len(cells) <= maxIndex(indices) {
			e.debug("row has too few cells, skipping", "section", section, "cells", len(cells))
			return
		}

		version := ""
		if hasVersion {
			version = cells[versionIdx]
		}
		key := domain.BuildKey(cells[modelIdx], version)
		if key == "" {
			e.debug("row yields empty key, skipping", "section", section)
			return
		}

		lookup[key] = domain.RetirementRecord{
			Retirement: cells[retireIdx],
			Type:       section,
			Source:     sourceLabel,
		}
	})
}

// matchShape returns the first shape whose columns all appear in headers,
// along with each column's position.
func matchShape(headers []string) (*tableShape, map[string]int) {
	for i := range tableShapes {
		shape := &tableShapes[i]
		indices := make(map[string]int, len(shape.columns))
		matched := true
		for _, col := range shape.columns {
			idx := indexOf(headers, col)
			if idx < 0 {
				matched = false
				break
			}
			indices[col] = idx
		}
		if matched {
			return shape, indices
		}
	}
	return nil, nil
}

func cellTexts(row *goquery.Selection) []string {
	var texts []string
	row.Find("th, td").Each(func(_ int, cell *goquery.Selection) {
		texts = append(texts, strings.TrimSpace(cell.Text()))
	})
	return texts
}

func indexOf(values []string, target string) int {
	for i, v := range values {
		if v == target {
			return i
		}
	}
	return -1
}

func maxIndex(indices map[string]int) int {
	max := 0
	for _, idx := range indices {
		if idx > max {
			max = idx
		}
	}
	return max
}

func (e *Extractor) debug(msg string, args ...any) {
	if e.logger != nil {
		e.logger.Debug(msg, args...)
	}
}

func (e *Extractor) warn(msg string, args ...any) {
	if e.logger != nil {
		e.logger.Warn(msg, args...)
	}
}
