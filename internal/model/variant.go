package model

// Variant 명세서 서식 종류（닫힌 집합）
// 시트 단위로 한 번 결정되며 시트의 모든 행이 같은 서식을 쓴다.
type Variant string

const (
	VariantTeacher  Variant = "teacher"           // 강사
	VariantWorker   Variant = "employee_worker"   // 직원(근로자)
	VariantBusiness Variant = "employee_business" // 직원(사업자)
	VariantRetired  Variant = "retired"           // 퇴직자
)

// DefaultVariant 분류 실패 시 기본 서식
const DefaultVariant = VariantTeacher

// TemplateFile 서식에 대응하는 템플릿 파일명
func (v Variant) TemplateFile() string {
	return string(v) + ".html"
}

// SecondAdAsset 두 번째 본문 광고 이미지 규칙
// 강사 서식만 ad2, 나머지는 ad3 (서식별 고정 규칙)
func (v Variant) SecondAdAsset() string {
	if v == VariantTeacher {
		return "ad2.jpg"
	}
	return "ad3.jpg"
}
