package filestore

import (
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestReadSpreadsheetRemapsAndDropsEmptyRows(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cases.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	header := []string{"用例ID", "用例标题", "前置条件", "步骤描述", "预期结果", "等级", "备注"}
	for i, h := range header {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}
	rows := [][]string{
		{"TC1", "登录成功", "账号存在", "输入账号密码", "跳转首页", "P0", "ignored"},
		{"", "", "", "", "", "", ""},
	}
	for r, row := range rows {
		for c, v := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			f.SetCellValue(sheet, cell, v)
		}
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("SaveAs: %v", err)
	}

	colMap := ColumnMap{
		"用例ID":  "id",
		"用例标题":  "title",
		"前置条件":  "precondition",
		"步骤描述":  "steps",
		"预期结果":  "expected",
		"等级":    "priority",
	}

	records, err := ReadSpreadsheet(path, colMap)
	if err != nil {
		t.Fatalf("ReadSpreadsheet: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record (empty row dropped), got %d", len(records))
	}
	rec := records[0]
	if rec["id"] != "TC1" || rec["title"] != "登录成功" || rec["priority"] != "P0" {
		t.Fatalf("unexpected record: %+v", rec)
	}
	if _, ok := rec["备注"]; ok {
		t.Fatalf("unmapped column should be ignored")
	}
}
