package dispatch

import (
	"context"
	"fmt"
	"html/template"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"saedam/internal/mailer"
	"saedam/internal/model"
	"saedam/internal/payroll"
	"saedam/internal/render"
)

// Outcome 실행 종료 상태
type Outcome string

const (
	OutcomeCompleted Outcome = "completed" // 모든 행 처리
	OutcomeStopped   Outcome = "stopped"   // 중단 요청 관측 후 조기 종료
)

// EntryKind 시트 요약 항목 종류
type EntryKind string

const (
	KindSent       EntryKind = "sent"       // 발송 성공
	KindValidation EntryKind = "validation" // 이름/이메일 누락（발송 안 함）
)

// Entry 시트 요약 한 줄
type Entry struct {
	Kind EntryKind `json:"kind"`
	Text string    `json:"text"`
}

// Invalid 검증 실패 항목 여부（결과 페이지 강조용）
func (e Entry) Invalid() bool {
	return e.Kind == KindValidation
}

// SheetSummary 시트별 발송 결과
type SheetSummary struct {
	Name       string        `json:"name"`
	Variant    model.Variant `json:"variant"`
	Entries    []Entry       `json:"entries"`
	Sent       int           `json:"sent"`
	Validation int           `json:"validation"`
	Errors     int           `json:"errors"` // 렌더링/전송 실패（요약 수치로만 노출）
}

// Report 실행 전체 결과
type Report struct {
	Outcome Outcome        `json:"outcome"`
	Sheets  []SheetSummary `json:"sheets"`
}

// Renderer 외부 렌더링 협력자
type Renderer interface {
	Render(op model.OperatorKey, variant model.Variant, ctx render.Context) (string, error)
}

// AuditLog 행 단위 결과를 남기는 감사 로그（없으면 nil 허용）
type AuditLog interface {
	RecordDispatch(operator, sheet, name, email, status, detail string) error
}

// Dispatcher 담당자 한 명의 업로드 실행을 처리한다.
// 행은 외부 전송 속도 제한을 지키기 위해 의도적으로 순차 처리하며,
// 담당자끼리는 상태가 분리되어 있어 서로 병행 실행돼도 된다.
type Dispatcher struct {
	op        model.Operator
	state     *RuntimeState
	renderer  Renderer
	transport mailer.Transport
	assets    AssetResolver
	audit     AuditLog
	delay     time.Duration
	now       func() time.Time
	log       zerolog.Logger
}

// AssetResolver 첨부 이미지 협력자
type AssetResolver interface {
	Resolve(bucket, name string) ([]byte, bool)
}

// New 발송기 생성
func New(op model.Operator, state *RuntimeState, renderer Renderer, transport mailer.Transport,
	assets AssetResolver, audit AuditLog, delay time.Duration, log zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		op:        op,
		state:     state,
		renderer:  renderer,
		transport: transport,
		assets:    assets,
		audit:     audit,
		delay:     delay,
		now:       time.Now,
		log:       log.With().Str("operator", string(op.Key)).Logger(),
	}
}

// Run 시트 순서 그대로 발송을 실행한다. 실행 시작 시 상태를 리셋하고,
// 시트당 서식을 한 번 결정한 뒤 행을 파일 순서로 처리한다.
// selected 는 명세서에 찍히는 기준일로, 0값이면 실행 시작 시각을 쓴다.
//
// 중단은 협조적이다: 행마다 플래그를 검사해 남은 행（현재와 이후 시트
// 전부）을 포기하지만, 이미 진행 중인 전송 호출은 중단하지 않는다 —
// 그 건은 끝까지 수행되고 성공이면 집계된다.
func (d *Dispatcher) Run(sheets []*model.Sheet, selected time.Time) *Report {
	d.state.reset(selected)

	docDate := d.state.selected()
	if docDate.IsZero() {
		docDate = d.now()
	}
	today := docDate.Format("2006년 01월 02일")

	var lim *rate.Limiter
	if d.delay > 0 {
		lim = rate.NewLimiter(rate.Every(d.delay), 1)
		// 초기 토큰을 소모해 첫 행 직후부터 간격이 걸리게 한다
		lim.Allow()
	}

	report := &Report{Outcome: OutcomeCompleted}
	d.log.Info().Int("sheets", len(sheets)).Msg("dispatch run started")

	for _, sheet := range sheets {
		variant := payroll.Classify(sheet.Category)
		sum := SheetSummary{Name: sheet.Name, Variant: variant}

		for _, row := range sheet.Rows {
			if d.state.stopped() {
				// 중단은 실행 전역: 현재 시트의 남은 행과 이후 시트 모두 포기
				report.Outcome = OutcomeStopped
				report.Sheets = append(report.Sheets, sum)
				d.log.Warn().Str("sheet", sheet.Name).Msg("dispatch run stopped by request")
				return report
			}

			if !d.processRow(sheet, variant, row, today, &sum) {
				continue // 이름도 이메일도 없는 행: 기록 없이 건너뜀
			}

			// 전송 처리량 제한을 위한 행 간 지연（0이면 생략）
			if lim != nil {
				_ = lim.Wait(context.Background())
			}
		}
		report.Sheets = append(report.Sheets, sum)
	}

	d.log.Info().Msg("dispatch run completed")
	return report
}

// processRow 행 하나를 처리한다. 조용히 건너뛴 행만 false.
// 렌더링/전송 실패는 행 안에서 흡수되고 실행은 계속된다.
func (d *Dispatcher) processRow(sheet *model.Sheet, variant model.Variant, row *model.Row, today string, sum *SheetSummary) bool {
	name, hasName := row.First(model.ColTeacherName, model.ColEmployeeName)
	email, hasEmail := row.Get(model.ColEmail)

	if !hasName && !hasEmail {
		return false
	}

	if !hasName || !hasEmail {
		displayName := name
		if !hasName {
			displayName = "이름 없음"
		}
		displayEmail := email
		if !hasEmail {
			displayEmail = "이메일 없음"
		}
		text := fmt.Sprintf("%s - 이메일: %s", displayName, displayEmail)
		d.state.append(text, false)
		sum.Entries = append(sum.Entries, Entry{Kind: KindValidation, Text: text})
		sum.Validation++
		d.recordAudit(sheet.Name, displayName, displayEmail, "validation_failure", "")
		return true
	}

	n := payroll.NormalizeRow(row)

	amounts := make(map[string]string, len(model.AmountColumns))
	for _, col := range model.AmountColumns {
		amounts[col] = payroll.FormatComma(payroll.AmountOf(row, col))
	}

	html, err := d.renderer.Render(d.op.Key, variant, render.Context{
		Name:    n.Name,
		School:  n.School,
		Subject: n.Subject,
		Bank:    n.Bank,
		Account: n.Account,
		Remark:  template.HTML(n.Remark),
		Today:   today,
		Net:     payroll.FormatComma(n.Net),
		TaxSum:  payroll.FormatComma(n.TaxSum),
		Amounts: amounts,
	})
	if err != nil {
		sum.Errors++
		d.recordAudit(sheet.Name, n.Name, n.Email, "render_error", err.Error())
		d.log.Error().Err(err).Str("sheet", sheet.Name).Str("name", n.Name).Msg("render failed")
		return true
	}

	msg := &mailer.Message{
		To:       n.Email,
		Subject:  fmt.Sprintf("[새담 지급명세서] %s님 - %s", n.Name, today),
		BodyHTML: html,
		Inline:   d.inlineImages(variant),
	}
	from := mailer.Identity{Address: d.op.Email, Password: d.op.AppPassword}

	if err := d.transport.Send(from, msg); err != nil {
		sum.Errors++
		d.recordAudit(sheet.Name, n.Name, n.Email, "send_error", err.Error())
		d.log.Error().Err(err).Str("sheet", sheet.Name).Str("name", n.Name).Msg("send failed")
		return true
	}

	text := fmt.Sprintf("%s - %s", n.School, n.Name)
	d.state.append(text, true)
	sum.Entries = append(sum.Entries, Entry{Kind: KindSent, Text: text})
	sum.Sent++
	d.recordAudit(sheet.Name, n.Name, n.Email, "sent", "")
	return true
}

// inlineImages 서식별 첨부 규칙: 로고, ad1 은 공통이고
// 두 번째 본문 이미지는 서식이 결정한다（강사=ad2, 그 외=ad3）.
func (d *Dispatcher) inlineImages(variant model.Variant) []mailer.InlineImage {
	wanted := []struct {
		cid  string
		name string
	}{
		{"logo_image", "logo01.jpg"},
		{"ad1_image", "ad1.jpg"},
		{"ad2_image", variant.SecondAdAsset()},
	}

	var images []mailer.InlineImage
	for _, w := range wanted {
		data, ok := d.assets.Resolve(string(d.op.Key), w.name)
		if !ok {
			continue
		}
		images = append(images, mailer.InlineImage{CID: w.cid, Name: w.name, Data: data})
	}
	return images
}

func (d *Dispatcher) recordAudit(sheet, name, email, status, detail string) {
	if d.audit == nil {
		return
	}
	if err := d.audit.RecordDispatch(string(d.op.Key), sheet, name, email, status, detail); err != nil {
		d.log.Warn().Err(err).Msg("audit record failed")
	}
}
