package payroll

import (
	"testing"

	"saedam/internal/model"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want model.Variant
	}{
		{"강사 급여", model.VariantTeacher},
		{"선택형", model.VariantTeacher},
		{"직원근로자", model.VariantWorker},
		{"직원사업자", model.VariantBusiness},
		{"퇴직자 정산", model.VariantRetired},
		{"", model.DefaultVariant},
		{"알 수 없는 유형", model.DefaultVariant},
	}
	for _, c := range cases {
		if got := Classify(c.in); got != c.want {
			t.Errorf("Classify(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestClassify_RuleOrderWins(t *testing.T) {
	t.Parallel()

	// 강사 규칙 키워드(맞춤형)와 직원 규칙 키워드(직원근로자)가 둘 다
	// 걸리는 문구 — 먼저 나열된 규칙이 이겨야 한다.
	if got := Classify("맞춤형 직원근로자"); got != model.VariantTeacher {
		t.Fatalf("expected teacher variant, got %q", got)
	}
}

func TestFindCategory(t *testing.T) {
	t.Parallel()

	row := []string{"", "2025년 3월", "직원사업자 급여대장", "작성: 총무"}
	if got := FindCategory(row); got != "직원사업자 급여대장" {
		t.Fatalf("FindCategory = %q", got)
	}

	if got := FindCategory([]string{"합계", "비고"}); got != "" {
		t.Fatalf("expected empty category, got %q", got)
	}
}
