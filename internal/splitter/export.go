package splitter

import (
	"archive/zip"
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"saedam/internal/model"
	"saedam/internal/payroll"
)

// ExportResult 분할 내보내기 산출물.
// 그룹이 하나면 xlsx 한 개, 여럿이면 그룹별 파일을 담은 zip.
type ExportResult struct {
	Filename    string
	ContentType string
	Data        []byte
	Groups      int
}

// Export 워크북 시트들을 그룹으로 나눠 내보낸다.
// 각 그룹 파일은 시트 행을 순서대로 이어 붙이고, 시트 경계마다 소계,
// 끝에 그룹 합계를 기록한다（amountColumn 기준）.
func Export(sheets []*model.Sheet, amountColumn string, maxGroupSize int) (*ExportResult, error) {
	stats := make([]SheetStat, len(sheets))
	bySheet := make(map[string]*model.Sheet, len(sheets))
	for i, s := range sheets {
		stats[i] = SheetStat{Name: s.Name, RowCount: s.RowCount()}
		bySheet[s.Name] = s
	}

	groups, err := Split(stats, maxGroupSize)
	if err != nil {
		return nil, err
	}
	if len(groups) == 0 {
		return nil, fmt.Errorf("nothing to export")
	}

	files := make([][]byte, 0, len(groups))
	for i, g := range groups {
		data, err := writeGroupFile(g, bySheet, amountColumn)
		if err != nil {
			return nil, fmt.Errorf("failed to write group %d: %w", i+1, err)
		}
		files = append(files, data)
	}

	if len(files) == 1 {
		return &ExportResult{
			Filename:    "분할내보내기_1.xlsx",
			ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			Data:        files[0],
			Groups:      1,
		}, nil
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for i, data := range files {
		w, err := zw.Create(fmt.Sprintf("분할내보내기_%d.xlsx", i+1))
		if err != nil {
			return nil, fmt.Errorf("failed to create zip entry: %w", err)
		}
		if _, err := w.Write(data); err != nil {
			return nil, fmt.Errorf("failed to write zip entry: %w", err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize zip: %w", err)
	}

	return &ExportResult{
		Filename:    "분할내보내기.zip",
		ContentType: "application/zip",
		Data:        buf.Bytes(),
		Groups:      len(files),
	}, nil
}

// writeGroupFile 그룹 하나를 xlsx 파일로 쓴다.
func writeGroupFile(g Group, bySheet map[string]*model.Sheet, amountColumn string) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const out = "내역"
	if err := f.SetSheetName("Sheet1", out); err != nil {
		return nil, err
	}

	// 헤더는 그룹 첫 시트의 열을 따른다
	var columns []string
	for _, stat := range g.Sheets {
		if src := bySheet[stat.Name]; src != nil && len(src.Columns) > 0 {
			columns = stripEmpty(src.Columns)
			break
		}
	}
	header := append([]string{"시트명"}, columns...)
	if err := writeRow(f, out, 1, header); err != nil {
		return nil, err
	}

	rowNo := 2
	var groupTotal int64
	for _, stat := range g.Sheets {
		src := bySheet[stat.Name]
		if src == nil {
			continue
		}

		// 시트 경계 하위 구간별 소계
		var subtotal int64
		for _, row := range src.Rows {
			cells := make([]string, 0, len(header))
			cells = append(cells, src.Name)
			for _, col := range columns {
				cells = append(cells, row.Raw(col))
			}
			if err := writeRow(f, out, rowNo, cells); err != nil {
				return nil, err
			}
			subtotal += payroll.AmountOf(row, amountColumn)
			rowNo++
		}

		sub := []string{fmt.Sprintf("%s 소계", src.Name)}
		for _, col := range columns {
			if col == amountColumn {
				sub = append(sub, payroll.FormatComma(subtotal))
			} else {
				sub = append(sub, "")
			}
		}
		if err := writeRow(f, out, rowNo, sub); err != nil {
			return nil, err
		}
		rowNo++
		groupTotal += subtotal
	}

	total := []string{"합계"}
	for _, col := range columns {
		if col == amountColumn {
			total = append(total, payroll.FormatComma(groupTotal))
		} else {
			total = append(total, "")
		}
	}
	if err := writeRow(f, out, rowNo, total); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeRow(f *excelize.File, sheet string, rowNo int, cells []string) error {
	for i, val := range cells {
		cell, err := excelize.CoordinatesToCellName(i+1, rowNo)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, val); err != nil {
			return err
		}
	}
	return nil
}

func stripEmpty(cols []string) []string {
	var out []string
	for _, c := range cols {
		if c != "" {
			out = append(out, c)
		}
	}
	return out
}
