// Package store persists inventory snapshots as single-sheet workbooks
// with crash-safe writes, backup rotation, and recovery.
package store

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/starford/othala/internal/models"
)

// SheetName is the single sheet every inventory workbook carries.
const SheetName = "File Inventory"

// Canonical column set, in persisted order. These are the data columns
// only; presentation-only columns never reach the workbook.
const (
	colFolderPath   = "FolderPath"
	colFileName     = "FileName"
	colExtension    = "Extension"
	colSizeBytes    = "SizeBytes"
	colLastModified = "LastModified"
	colFullPath     = "FullPath"
	colContentHint  = "ContentHint"
	colTopics       = "IdentifiedTopics"
	colStatus       = "Status"
	colManualNotes  = "ManualNotes"
)

var columns = []string{
	colFolderPath, colFileName, colExtension, colSizeBytes,
	colLastModified, colFullPath, colContentHint, colTopics,
	colStatus, colManualNotes,
}

const maxColumnWidth = 70

// writeWorkbook writes records to path as a new single-sheet workbook.
func writeWorkbook(path string, records []models.FileRecord) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("store: name sheet: %w", err)
	}

	widths := make([]int, len(columns))
	for i, name := range columns {
		widths[i] = len(name)
	}
	setCell := func(col, row int, v any) error {
		cell, err := excelize.CoordinatesToCellName(col, row)
		if err != nil {
			return err
		}
		return f.SetCellValue(SheetName, cell, v)
	}

	for i, name := range columns {
		if err := setCell(i+1, 1, name); err != nil {
			return fmt.Errorf("store: write header: %w", err)
		}
	}
	for rowIdx, rec := range records {
		values := columnValues(rec)
		for colIdx, v := range values {
			if err := setCell(colIdx+1, rowIdx+2, v); err != nil {
				return fmt.Errorf("store: write row %d: %w", rowIdx+1, err)
			}
			if l := len(fmt.Sprint(v)); l > widths[colIdx] {
				widths[colIdx] = l
			}
		}
	}

	for i := range columns {
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			continue
		}
		w := widths[i] + 2
		if w > maxColumnWidth {
			w = maxColumnWidth
		}
		_ = f.SetColWidth(SheetName, name, name, float64(w))
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("store: save %s: %w", path, err)
	}
	return nil
}

func columnValues(r models.FileRecord) []any {
	return []any{
		r.FolderPath, r.FileName, r.Extension, r.SizeBytes,
		r.LastModified, r.FullPath, r.ContentHint, r.Topics,
		string(r.Status), r.ManualNotes,
	}
}

// readRecords parses the workbook at path into records, in row order.
// The stored schema is tolerated loosely: any expected column absent
// from the header is backfilled with a type-appropriate default, but a
// missing primary-key column makes the table unusable.
func readRecords(path string) ([]models.FileRecord, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("store: %s has no sheets", path)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("store: read rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("store: %s has no header row", path)
	}

	header := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		header[strings.TrimSpace(name)] = i
	}
	if _, ok := header[colFullPath]; !ok {
		return nil, fmt.Errorf("store: %s is missing the %s column", path, colFullPath)
	}

	cell := func(row []string, col string) string {
		i, ok := header[col]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	var records []models.FileRecord
	for _, row := range rows[1:] {
		fullPath := strings.TrimSpace(cell(row, colFullPath))
		if fullPath == "" {
			continue
		}
		status, _ := models.ParseStatus(cell(row, colStatus))
		records = append(records, models.FileRecord{
			FolderPath:   cell(row, colFolderPath),
			FileName:     cell(row, colFileName),
			Extension:    cell(row, colExtension),
			SizeBytes:    parseSize(cell(row, colSizeBytes)),
			LastModified: cell(row, colLastModified),
			FullPath:     fullPath,
			ContentHint:  cell(row, colContentHint),
			Topics:       cell(row, colTopics),
			Status:       status,
			ManualNotes:  cell(row, colManualNotes),
		})
	}
	return records, nil
}

// parseSize tolerates float renderings of integer sizes left behind by
// other writers of the same schema.
func parseSize(s string) int64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	if fl, err := strconv.ParseFloat(s, 64); err == nil {
		return int64(fl)
	}
	return 0
}
