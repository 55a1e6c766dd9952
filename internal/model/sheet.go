package model

// Sheet 워크북의 한 시트. 이름 있는 행의 순서열이며 분할의 원자 단위.
type Sheet struct {
	Name     string
	Columns  []string // 3행째 헤더에서 읽은 열 이름（공백 제거）
	Rows     []*Row
	Category string // 첫 원시 행에서 찾은 급여 유형 문구（없으면 빈 문자열）
}

// RowCount 데이터 행 수
func (s *Sheet) RowCount() int {
	return len(s.Rows)
}
