package filestore

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"issuelens/internal/errs"
	"issuelens/internal/logging"
)

// ColumnMap maps a spreadsheet's source column header to a canonical field
// name, e.g. the test-case sheet's {"用例ID": "id", "用例标题": "title", ...}.
type ColumnMap map[string]string

// ReadSpreadsheet reads the first sheet of an .xlsx file, remaps its header
// row through colMap, and returns one field-keyed record per data row.
// Columns not present in colMap are ignored. Missing cells become empty
// strings. Rows whose every mapped field is empty are dropped.
func ReadSpreadsheet(path string, colMap ColumnMap) ([]map[string]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errs.InputMissing(path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errs.InputMalformed(path, "sheets", fmt.Errorf("workbook has no sheets"))
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, errs.InputMalformed(path, "sheet:"+sheets[0], err)
	}
	if len(rows) == 0 {
		logging.Filestore("ReadSpreadsheet: %s sheet %q is empty", path, sheets[0])
		return nil, nil
	}

	header := rows[0]
	// colIndexToField[i] is the canonical field name for header column i, or
	// "" if that column is unmapped and should be ignored.
	colIndexToField := make([]string, len(header))
	for i, h := range header {
		colIndexToField[i] = colMap[h]
	}

	var records []map[string]string
	for _, row := range rows[1:] {
		rec := make(map[string]string, len(colMap))
		anyNonEmpty := false
		for i, field := range colIndexToField {
			if field == "" {
				continue
			}
			var val string
			if i < len(row) {
				val = row[i]
			}
			rec[field] = val
			if val != "" {
				anyNonEmpty = true
			}
		}
		if !anyNonEmpty {
			continue
		}
		records = append(records, rec)
	}
	logging.Filestore("ReadSpreadsheet: %s sheet %q -> %d records", path, sheets[0], len(records))
	return records, nil
}
