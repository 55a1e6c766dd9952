package splitter

import "fmt"

// SheetStat 분할 입력: 시트 이름과 행 수
type SheetStat struct {
	Name     string
	RowCount int
}

// Group 출력 파일 하나에 담길 시트 묶음. 시트는 분할의 원자 단위라
// 그룹 경계가 시트 안에 떨어지는 일은 없다.
type Group struct {
	Sheets   []SheetStat
	RowCount int
}

// Split 시트를 순서 그대로 그룹으로 나눈다.
//
// 누적 그룹이 비어 있지 않은 상태에서 다음 시트를 더하면 maxGroupSize 를
// 넘을 때만 그룹을 닫는다. 단일 시트가 혼자서 한도를 넘으면 그 시트만으로
// 그룹 하나를 만들고（쪼개지 않음）바로 닫는다.
//
// 행 수가 음수인 시트는 전제조건 위반으로 호출 전체가 실패한다.
func Split(sheets []SheetStat, maxGroupSize int) ([]Group, error) {
	if maxGroupSize <= 0 {
		return nil, fmt.Errorf("max group size must be positive, got %d", maxGroupSize)
	}
	for _, s := range sheets {
		if s.RowCount < 0 {
			return nil, fmt.Errorf("sheet %q has negative row count %d", s.Name, s.RowCount)
		}
	}

	var groups []Group
	var acc Group

	for _, sheet := range sheets {
		if len(acc.Sheets) > 0 && acc.RowCount+sheet.RowCount > maxGroupSize {
			groups = append(groups, acc)
			acc = Group{}
		}
		acc.Sheets = append(acc.Sheets, sheet)
		acc.RowCount += sheet.RowCount

		// 단독으로 한도를 넘는 시트는 즉시 자기 그룹으로 닫는다
		if sheet.RowCount > maxGroupSize {
			groups = append(groups, acc)
			acc = Group{}
		}
	}

	if len(acc.Sheets) > 0 {
		groups = append(groups, acc)
	}
	return groups, nil
}
