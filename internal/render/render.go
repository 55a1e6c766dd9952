package render

import (
	"embed"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"

	"saedam/internal/model"
)

//go:embed templates
var templateFS embed.FS

// RenderError 서식 렌더링 실패（템플릿 누락/실행 오류）
type RenderError struct {
	Variant model.Variant
	Err     error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render %s: %v", e.Variant, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

// Context 명세서 템플릿에 전달되는 값
type Context struct {
	Name    string
	School  string
	Subject string
	Bank    string
	Account string
	Remark  template.HTML // 자리표시자(&nbsp;)가 이스케이프되지 않도록
	Today   string        // YYYY년 MM월 DD일
	Net     string        // 실지급액（천단위 구분）
	TaxSum  string        // 소득세 합계（천단위 구분）
	Amounts map[string]string // 금액 열 → 천단위 표기（누락 열은 "0"）
}

// Renderer 담당자/서식별 명세서 템플릿 렌더러.
// 데이터 디렉터리의 담당자별 템플릿이 우선하고, 없으면 내장 기본 서식.
type Renderer struct {
	templateDir string // <dataDir>/templates
}

// NewRenderer 렌더러 생성
func NewRenderer(templateDir string) *Renderer {
	return &Renderer{templateDir: templateDir}
}

// Render 서식을 렌더링해 메일 본문 HTML을 돌려준다.
func (r *Renderer) Render(op model.OperatorKey, variant model.Variant, ctx Context) (string, error) {
	src, err := r.load(op, variant)
	if err != nil {
		return "", &RenderError{Variant: variant, Err: err}
	}

	tmpl, err := template.New(variant.TemplateFile()).Parse(src)
	if err != nil {
		return "", &RenderError{Variant: variant, Err: err}
	}

	var b strings.Builder
	if err := tmpl.Execute(&b, ctx); err != nil {
		return "", &RenderError{Variant: variant, Err: err}
	}
	return b.String(), nil
}

// load 담당자 덮어쓰기 → 내장 기본 순으로 템플릿 본문을 읽는다.
func (r *Renderer) load(op model.OperatorKey, variant model.Variant) (string, error) {
	file := variant.TemplateFile()

	if r.templateDir != "" {
		override := filepath.Join(r.templateDir, string(op), file)
		if data, err := os.ReadFile(override); err == nil {
			return string(data), nil
		}
	}

	data, err := templateFS.ReadFile("templates/" + file)
	if err != nil {
		return "", fmt.Errorf("template not found: %s: %w", file, err)
	}
	return string(data), nil
}
