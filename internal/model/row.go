package model

import "strings"

// 급여 대장에서 참조하는 열 이름（스키마 고정）
const (
	ColTeacherName    = "강사명"
	ColEmployeeName   = "직원명"
	ColEmail          = "이메일"
	ColSchool         = "학교명"
	ColSubject        = "과목"
	ColBank           = "은행"
	ColAccount        = "계좌번호"
	ColGrossPay       = "지급총액"
	ColDeductions     = "공제총액"
	ColIncomeTax      = "근로소득세"
	ColLocalTax       = "지방소득세"
	ColRemarkTeacher  = "강사전달비고"
	ColRemarkEmployee = "직원전달비고"
	ColRemark         = "전달비고"
)

// AmountColumns 명세서 표에 노출되는 금액 열（표시 순서 고정）
var AmountColumns = []string{
	ColGrossPay, ColDeductions, ColIncomeTax, ColLocalTax,
}

// IsAbsentText 값이 '없음'으로 취급되는지 판단.
// 공백 제거 후 빈 문자열이거나 nan/none/non 토큰이면 없음.
func IsAbsentText(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return true
	}
	switch strings.ToLower(s) {
	case "nan", "none", "non":
		return true
	}
	return false
}

// Row 한 행의 셀 값（열 이름 → 원본 문자열）
// 느슨한 dict 접근 대신 명시적 부재 표시를 돌려주는 접근자를 쓴다.
type Row struct {
	cells map[string]string
}

// NewRow 빈 행 생성
func NewRow() *Row {
	return &Row{cells: make(map[string]string)}
}

// RowFromCells 열 이름 → 값 맵으로 행 생성（열 이름은 공백 제거）
func RowFromCells(cells map[string]string) *Row {
	r := NewRow()
	for col, val := range cells {
		r.Set(strings.TrimSpace(col), val)
	}
	return r
}

// Set 셀 값 기록
func (r *Row) Set(col, val string) {
	r.cells[col] = val
}

// Get 열 값을 조회한다. 부재이면 ("", false).
func (r *Row) Get(col string) (string, bool) {
	val, ok := r.cells[col]
	if !ok || IsAbsentText(val) {
		return "", false
	}
	return strings.TrimSpace(val), true
}

// Raw 부재 판정 없이 원본 값 조회（없으면 빈 문자열）
func (r *Row) Raw(col string) string {
	return r.cells[col]
}

// First 우선순위 목록에서 첫 번째로 존재하는 값
func (r *Row) First(cols ...string) (string, bool) {
	for _, col := range cols {
		if val, ok := r.Get(col); ok {
			return val, true
		}
	}
	return "", false
}
