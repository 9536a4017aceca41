package evaluator

import "issuelens/internal/filestore"

// columnMap is the test-case spreadsheet mapping: source column header to
// canonical field name.
var columnMap = filestore.ColumnMap{
	"用例ID":   "id",
	"用例标题":  "title",
	"前置条件":  "precondition",
	"步骤描述":  "steps",
	"预期结果":  "expected",
	"等级":    "priority",
}

// LoadTestCases reads the test-case spreadsheet at path via filestore's column
// remap and normalizes each row into a TestCase.
func LoadTestCases(path string) ([]TestCase, error) {
	rows, err := filestore.ReadSpreadsheet(path, columnMap)
	if err != nil {
		return nil, err
	}
	cases := make([]TestCase, len(rows))
	for i, row := range rows {
		cases[i] = TestCase{
			ID:           row["id"],
			Title:        row["title"],
			Precondition: row["precondition"],
			Steps:        row["steps"],
			Expected:     row["expected"],
			Priority:     row["priority"],
		}
	}
	return cases, nil
}
