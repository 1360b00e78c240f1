// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package export explodes enriched work records into one row per author and
// serializes the result to CSV and XLSX.
package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/outreach-engine/pkg/types"
)

const (
	csvFile      = "outreach.csv"
	xlsxFile     = "outreach.xlsx"
	manifestFile = "manifest.yaml"
	sheetName    = "Sheet1"
)

// Explode expands each record into one AuthorRow per listed author. The row
// count per record equals its author count, and every row derived from the
// same record carries identical email-variant text.
func Explode(records []types.WorkRecord) []types.AuthorRow {
	var rows []types.AuthorRow
	for _, rec := range records {
		for _, author := range rec.Authors {
			rows = append(rows, types.AuthorRow{
				WorkID:          rec.ID,
				Title:           rec.Title,
				Journal:         rec.Journal,
				PublicationYear: rec.PublicationYear,
				PublicationDate: rec.PublicationDate,
				Abstract:        rec.Abstract,
				Author:          author.Name,
				AuthorID:        author.ID,
				Affiliation:     author.Affiliation,
				Emails:          rec.Emails,
			})
		}
	}
	return rows
}

// Header returns the column labels shared by both output formats.
func Header() []string {
	cols := []string{
		"Work_ID", "Title", "Journal", "Year", "Publication_Date",
		"Abstract", "Author", "Author_ID", "Affiliation",
	}
	for _, kind := range types.GenerationOrder() {
		cols = append(cols, kind.ExportHeader())
	}
	return cols
}

// rowValues renders one AuthorRow in header order. A zero year renders empty.
func rowValues(row types.AuthorRow) []string {
	year := ""
	if row.PublicationYear > 0 {
		year = strconv.Itoa(row.PublicationYear)
	}
	values := []string{
		row.WorkID, row.Title, row.Journal, year, row.PublicationDate,
		row.Abstract, row.Author, row.AuthorID, row.Affiliation,
	}
	for _, kind := range types.GenerationOrder() {
		values = append(values, row.Emails[kind])
	}
	return values
}

// WriteCSV writes the rows as UTF-8 CSV with a header row.
func WriteCSV(rows []types.AuthorRow, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(Header()); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, row := range rows {
		if err := w.Write(rowValues(row)); err != nil {
			return fmt.Errorf("writing row for %s: %w", row.WorkID, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flushing CSV: %w", err)
	}
	return f.Close()
}

// WriteXLSX writes the rows as a spreadsheet with the same header and row
// order as the CSV.
func WriteXLSX(rows []types.AuthorRow, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	header := Header()
	cells := make([]any, len(header))
	for i, h := range header {
		cells[i] = h
	}
	if err := f.SetSheetRow(sheetName, "A1", &cells); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, row := range rows {
		values := rowValues(row)
		cells := make([]any, len(values))
		for j, v := range values {
			cells[j] = v
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("computing cell: %w", err)
		}
		if err := f.SetSheetRow(sheetName, cell, &cells); err != nil {
			return fmt.Errorf("writing row for %s: %w", row.WorkID, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}
	return nil
}

// Manifest records what an export run produced.
type Manifest struct {
	RunID      string   `yaml:"run_id"`
	Filter     string   `yaml:"filter"`
	Works      int      `yaml:"works"`
	Rows       int      `yaml:"rows"`
	Files      []string `yaml:"files"`
	ExportedAt string   `yaml:"exported_at"`
}

// WriteAll explodes the records once and writes the CSV, the XLSX, and a
// manifest into dir. Both tabular files contain identical rows and columns.
func WriteAll(records []types.WorkRecord, dir, runID, filter string) (Manifest, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Manifest{}, fmt.Errorf("creating export directory: %w", err)
	}

	rows := Explode(records)

	csvPath := filepath.Join(dir, csvFile)
	if err := WriteCSV(rows, csvPath); err != nil {
		return Manifest{}, err
	}
	xlsxPath := filepath.Join(dir, xlsxFile)
	if err := WriteXLSX(rows, xlsxPath); err != nil {
		return Manifest{}, err
	}

	m := Manifest{
		RunID:      runID,
		Filter:     filter,
		Works:      len(records),
		Rows:       len(rows),
		Files:      []string{csvFile, xlsxFile},
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
	}
	data, err := yaml.Marshal(m)
	if err != nil {
		return Manifest{}, fmt.Errorf("marshaling manifest: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, manifestFile), data, 0o644); err != nil {
		return Manifest{}, fmt.Errorf("writing manifest: %w", err)
	}
	return m, nil
}
