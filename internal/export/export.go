// Package export writes the content list as a spreadsheet.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/conorfennell/spacedrep/internal/domain"
	"github.com/xuri/excelize/v2"
)

// SheetName is the name of the single worksheet in XLSX exports.
const SheetName = "Contents"

// Header is the first row of every export. Each review kind contributes a
// scheduled-date column and a completed-at column.
func Header() []string {
	h := []string{"ID", "Title", "Label", "Created"}
	for _, kind := range domain.ReviewKinds {
		h = append(h, kind.String(), kind.String()+"_completed")
	}
	return h
}

// Rows turns views into export records, header excluded.
func Rows(views []domain.ContentView) [][]string {
	rows := make([][]string, 0, len(views))
	for _, v := range views {
		row := []string{
			fmt.Sprint(v.ID),
			v.Title,
			v.LabelName,
			v.CreatedAt.Format(time.RFC3339),
		}
		for _, kind := range domain.ReviewKinds {
			st, ok := v.Reviews[kind]
			if !ok {
				row = append(row, "", "")
				continue
			}
			completed := ""
			if st.CompletedAt != nil {
				completed = st.CompletedAt.Format(time.RFC3339)
			}
			row = append(row, st.ScheduledDate.String(), completed)
		}
		rows = append(rows, row)
	}
	return rows
}

// WriteCSV writes views as CSV.
func WriteCSV(w io.Writer, views []domain.ContentView) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header()); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	if err := cw.WriteAll(Rows(views)); err != nil {
		return fmt.Errorf("failed to write CSV rows: %w", err)
	}
	return nil
}

// WriteXLSX writes views as an Excel workbook with a single sheet.
func WriteXLSX(w io.Writer, views []domain.ContentView) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	rows := append([][]string{Header()}, Rows(views)...)
	for r, row := range rows {
		for c, value := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(SheetName, cell, value); err != nil {
				return fmt.Errorf("failed to set cell %s: %w", cell, err)
			}
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// Write picks the format from the extension of name: .csv for CSV, anything
// else for XLSX.
func Write(w io.Writer, name string, views []domain.ContentView) error {
	if strings.EqualFold(filepath.Ext(name), ".csv") {
		return WriteCSV(w, views)
	}
	return WriteXLSX(w, views)
}
