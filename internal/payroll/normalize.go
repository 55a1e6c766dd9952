package payroll

import (
	"strconv"
	"strings"

	"saedam/internal/model"
)

// remarkPlaceholder 비고가 모두 비어도 레이아웃이 무너지지 않도록 넣는 자리표시자
const remarkPlaceholder = "&nbsp;"

// remarkColumns 비고 열 우선순위
var remarkColumns = []string{
	model.ColRemarkTeacher,
	model.ColRemarkEmployee,
	model.ColRemark,
}

// FormatAccountNumber 계좌번호에서 숫자만 남기고 4자리씩 하이픈으로 묶는다.
// 숫자가 하나도 없으면 빈 문자열.
func FormatAccountNumber(s string) string {
	var digits []byte
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			digits = append(digits, s[i])
		}
	}
	if len(digits) == 0 {
		return ""
	}
	var b strings.Builder
	for i := 0; i < len(digits); i += 4 {
		if i > 0 {
			b.WriteByte('-')
		}
		end := i + 4
		if end > len(digits) {
			end = len(digits)
		}
		b.Write(digits[i:end])
	}
	return b.String()
}

// ParseAmount 천단위 구분자를 제거하고 정수로 내림 변환한다.
// 실패해도 오류를 올리지 않고 (0, true)를 돌려준다. 두 번째 값은
// 기본값으로 대체됐는지 여부（실제 0과 파싱 실패를 구분하기 위함）.
func ParseAmount(s string) (int64, bool) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" || model.IsAbsentText(s) {
		return 0, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, true
	}
	return int64(f), false
}

// FormatComma 정수를 천단위 구분자 표기로 변환
func FormatComma(n int64) string {
	s := strconv.FormatInt(n, 10)
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}
	var b strings.Builder
	for i, ch := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(ch)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}

// Normalized 발송 한 건에 필요한 정리된 값
type Normalized struct {
	Name    string
	Email   string
	School  string
	Subject string
	Bank    string
	Account string // 4자리 그룹 하이픈 표기
	Remark  string // 비어 있으면 자리표시자
	Net     int64  // 실지급액 = 지급총액 - 공제총액
	TaxSum  int64  // 근로소득세 + 지방소득세
}

// AmountOf 행의 금액 열 값을 정수로 읽는다（파싱 실패는 0）.
func AmountOf(row *model.Row, col string) int64 {
	v, _ := ParseAmount(row.Raw(col))
	return v
}

// NormalizeRow 원시 행에서 발송용 값을 추출/정리한다.
// 이름·이메일 존재 검사는 호출자（발송기）책임.
func NormalizeRow(row *model.Row) Normalized {
	n := Normalized{}
	n.Name, _ = row.First(model.ColTeacherName, model.ColEmployeeName)
	n.Email, _ = row.Get(model.ColEmail)
	n.School, _ = row.Get(model.ColSchool)
	n.Subject, _ = row.Get(model.ColSubject)
	n.Bank, _ = row.Get(model.ColBank)

	account, _ := row.Get(model.ColAccount)
	n.Account = FormatAccountNumber(account)

	n.Net = AmountOf(row, model.ColGrossPay) - AmountOf(row, model.ColDeductions)
	n.TaxSum = AmountOf(row, model.ColIncomeTax) + AmountOf(row, model.ColLocalTax)

	if remark, ok := row.First(remarkColumns...); ok {
		n.Remark = remark
	} else {
		n.Remark = remarkPlaceholder
	}
	return n
}
