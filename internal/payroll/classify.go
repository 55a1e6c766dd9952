package payroll

import (
	"strings"

	"saedam/internal/model"
)

// rule 분류 규칙. 목록 순서가 곧 우선순위라 순서를 바꾸면 안 된다
// （예: 강사 규칙이 직원 규칙보다 먼저 평가되어야 한다）.
type rule struct {
	keywords []string
	variant  model.Variant
}

var classifyRules = []rule{
	{[]string{"강사", "선택형", "맞춤형"}, model.VariantTeacher},
	{[]string{"직원근로자"}, model.VariantWorker},
	{[]string{"직원사업자"}, model.VariantBusiness},
	{[]string{"퇴직자"}, model.VariantRetired},
}

// Classify 급여 유형 문구를 서식으로 분류한다.
// 키워드가 대소문자 무시 부분 일치하는 첫 규칙이 이기고, 없으면 기본 서식.
func Classify(category string) model.Variant {
	s := strings.ToLower(strings.TrimSpace(category))
	for _, r := range classifyRules {
		for _, kw := range r.keywords {
			if strings.Contains(s, strings.ToLower(kw)) {
				return r.variant
			}
		}
	}
	return model.DefaultVariant
}

// Keywords 전체 분류 키워드 목록（시트 첫 행 탐색용）
func Keywords() []string {
	var out []string
	for _, r := range classifyRules {
		out = append(out, r.keywords...)
	}
	return out
}

// FindCategory 시트의 첫 원시 행에서 급여 유형 문구를 찾는다.
// 알려진 키워드를 포함하는 첫 셀을 돌려주고, 없으면 빈 문자열（기본 서식행）.
func FindCategory(firstRow []string) string {
	keywords := Keywords()
	for _, cell := range firstRow {
		cell = strings.TrimSpace(cell)
		if cell == "" {
			continue
		}
		lower := strings.ToLower(cell)
		for _, kw := range keywords {
			if strings.Contains(lower, strings.ToLower(kw)) {
				return cell
			}
		}
	}
	return ""
}
