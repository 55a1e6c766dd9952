package parser

import (
	"errors"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"saedam/internal/model"
	"saedam/internal/payroll"
)

// ErrParse 워크북 전체를 읽을 수 없을 때（행 단위 문제는 여기 해당 없음）
var ErrParse = errors.New("workbook parse failed")

// headerRowIndex 급여 대장은 3행째가 헤더（위 두 줄은 제목/유형 문구）
const headerRowIndex = 2

// ParseWorkbook 워크북을 시트 순서 그대로 읽는다.
// 각 시트: 첫 원시 행에서 급여 유형 문구를 찾고, 3행째를 헤더로 쓴다.
func ParseWorkbook(path string) ([]*model.Sheet, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	defer f.Close()

	var sheets []*model.Sheet
	for _, name := range f.GetSheetList() {
		sheet, err := parseSheet(f, name)
		if err != nil {
			return nil, fmt.Errorf("%w: sheet %s: %v", ErrParse, name, err)
		}
		sheets = append(sheets, sheet)
	}
	return sheets, nil
}

// parseSheet 단일 시트 해석
func parseSheet(f *excelize.File, name string) (*model.Sheet, error) {
	rows, err := f.GetRows(name)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet rows: %w", err)
	}

	sheet := &model.Sheet{Name: name}
	if len(rows) == 0 {
		return sheet, nil
	}

	// 첫 원시 행에서 급여 유형 문구 탐색（헤더 위쪽 제목 줄）
	sheet.Category = payroll.FindCategory(rows[0])

	if len(rows) <= headerRowIndex {
		return sheet, nil
	}

	// 헤더: 열 이름 공백 제거
	headers := make([]string, len(rows[headerRowIndex]))
	for i, col := range rows[headerRowIndex] {
		headers[i] = strings.TrimSpace(col)
	}
	sheet.Columns = headers

	// 데이터 행
	for rowIdx := headerRowIndex + 1; rowIdx < len(rows); rowIdx++ {
		raw := rows[rowIdx]
		row := model.NewRow()
		for colIdx, header := range headers {
			if header == "" || colIdx >= len(raw) {
				continue
			}
			row.Set(header, raw[colIdx])
		}
		sheet.Rows = append(sheet.Rows, row)
	}
	return sheet, nil
}
