// Package export renders stored analyses as a spreadsheet.
package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/BerylCAtieno/legal-document-summarizer/internal/glossary"
	"github.com/BerylCAtieno/legal-document-summarizer/internal/models"
)

const (
	analysesSheet = "Analyses"
	glossarySheet = "Glossary"
)

var (
	analysisHeaders = []string{"ID", "File", "Analyzed At", "Summary", "Verdict", "Report"}
	glossaryHeaders = []string{"Analysis ID", "File", "Term", "Explanation"}
)

// AnalysesXLSX returns a workbook with one row per analysis on the Analyses
// sheet and one row per parsed glossary term on the Glossary sheet.
func AnalysesXLSX(analyses []models.Analysis) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	// NewFile starts with Sheet1; reuse it for the first sheet.
	if err := f.SetSheetName("Sheet1", analysesSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(glossarySheet); err != nil {
		return nil, fmt.Errorf("create glossary sheet: %w", err)
	}

	if err := writeRow(f, analysesSheet, 1, toCells(analysisHeaders)); err != nil {
		return nil, err
	}
	if err := writeRow(f, glossarySheet, 1, toCells(glossaryHeaders)); err != nil {
		return nil, err
	}

	termRow := 2
	for i, a := range analyses {
		report := ""
		if a.ReportPath != nil {
			report = *a.ReportPath
		}

		row := []any{a.ID, a.Filename, a.CreatedAt.UTC().Format("2006-01-02 15:04:05"), a.Summary, a.Verdict, report}
		if err := writeRow(f, analysesSheet, i+2, row); err != nil {
			return nil, err
		}

		for _, term := range glossary.Parse(a.GlossaryRaw) {
			if err := writeRow(f, glossarySheet, termRow, []any{a.ID, a.Filename, term.Term, term.Explanation}); err != nil {
				return nil, err
			}
			termRow++
		}
	}

	idx, err := f.GetSheetIndex(analysesSheet)
	if err != nil {
		return nil, fmt.Errorf("find sheet: %w", err)
	}
	f.SetActiveSheet(idx)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRow(f *excelize.File, sheet string, row int, values []any) error {
	for col, v := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return fmt.Errorf("set %s!%s: %w", sheet, cell, err)
		}
	}
	return nil
}

func toCells(headers []string) []any {
	cells := make([]any, len(headers))
	for i, h := range headers {
		cells[i] = h
	}
	return cells
}
