package parser

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"saedam/internal/model"
)

// writeFixture 헤더가 3행째에 있는 테스트 워크북 생성
func writeFixture(t *testing.T) string {
	t.Helper()

	f := excelize.NewFile()
	sheet := "3월분"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		t.Fatalf("rename sheet: %v", err)
	}
	cells := [][]any{
		{"새담 강사 급여대장", "", ""},
		{"", "", ""},
		{"강사명", "이메일", "지급총액"},
		{"김강사", "kim@example.com", "1,000,000"},
		{"이강사", "lee@example.com", "900,000"},
	}
	for r, row := range cells {
		for c, val := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+1)
			if err := f.SetCellValue(sheet, cell, val); err != nil {
				t.Fatalf("set cell: %v", err)
			}
		}
	}
	path := filepath.Join(t.TempDir(), "payroll.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save fixture: %v", err)
	}
	return path
}

func TestParseWorkbook(t *testing.T) {
	t.Parallel()

	sheets, err := ParseWorkbook(writeFixture(t))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(sheets) != 1 {
		t.Fatalf("sheets = %d", len(sheets))
	}

	s := sheets[0]
	if s.Name != "3월분" {
		t.Fatalf("name = %q", s.Name)
	}
	if s.Category != "새담 강사 급여대장" {
		t.Fatalf("category = %q", s.Category)
	}
	if s.RowCount() != 2 {
		t.Fatalf("rows = %d", s.RowCount())
	}
	name, ok := s.Rows[0].Get(model.ColTeacherName)
	if !ok || name != "김강사" {
		t.Fatalf("first row name = %q ok=%v", name, ok)
	}
}

func TestParseWorkbook_Unreadable(t *testing.T) {
	t.Parallel()

	_, err := ParseWorkbook(filepath.Join(t.TempDir(), "missing.xlsx"))
	if !errors.Is(err, ErrParse) {
		t.Fatalf("expected ErrParse, got %v", err)
	}
}
