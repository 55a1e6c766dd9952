package dispatch

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"saedam/internal/mailer"
	"saedam/internal/model"
	"saedam/internal/render"
)

type fakeRenderer struct {
	fail bool
	ctxs []render.Context
}

func (f *fakeRenderer) Render(op model.OperatorKey, v model.Variant, ctx render.Context) (string, error) {
	f.ctxs = append(f.ctxs, ctx)
	if f.fail {
		return "", &render.RenderError{Variant: v, Err: errors.New("template missing")}
	}
	return "<html>" + ctx.Name + "</html>", nil
}

type fakeTransport struct {
	mu     sync.Mutex
	sent   []*mailer.Message
	failTo map[string]bool
	onSend func(n int) // 발송 시도 수 기준 훅（중단 시나리오용）
}

func (f *fakeTransport) Send(from mailer.Identity, msg *mailer.Message) error {
	f.mu.Lock()
	f.sent = append(f.sent, msg)
	n := len(f.sent)
	f.mu.Unlock()
	if f.onSend != nil {
		f.onSend(n)
	}
	if f.failTo[msg.To] {
		return &mailer.TransportError{Recipient: msg.To, Err: errors.New("auth failed")}
	}
	return nil
}

func (f *fakeTransport) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

type fakeAssets struct{}

func (fakeAssets) Resolve(bucket, name string) ([]byte, bool) {
	return []byte(bucket + "/" + name), true
}

func row(name, email string) *model.Row {
	cells := map[string]string{}
	if name != "" {
		cells[model.ColTeacherName] = name
	}
	if email != "" {
		cells[model.ColEmail] = email
	}
	cells[model.ColSchool] = "새담중"
	cells[model.ColGrossPay] = "1,000,000"
	return model.RowFromCells(cells)
}

func testOperator() model.Operator {
	return model.Operator{
		Key:   model.OperatorSend01,
		Email: "send01@example.com",
	}
}

func newTestDispatcher(state *RuntimeState, tr mailer.Transport) *Dispatcher {
	return New(testOperator(), state, &fakeRenderer{}, tr, fakeAssets{}, nil, 0, zerolog.Nop())
}

func TestRun_CountsOnlySuccessfulSends(t *testing.T) {
	t.Parallel()

	tr := &fakeTransport{failTo: map[string]bool{"bad@example.com": true}}
	state := NewRuntimeState()
	d := newTestDispatcher(state, tr)

	sheets := []*model.Sheet{{
		Name:     "3월",
		Category: "강사",
		Rows: []*model.Row{
			row("김강사", "kim@example.com"),
			row("박강사", "bad@example.com"), // 전송 실패
			row("", ""),                     // 조용히 건너뜀
			row("이강사", "lee@example.com"),
		},
	}}

	report := d.Run(sheets, time.Time{})
	if report.Outcome != OutcomeCompleted {
		t.Fatalf("outcome = %q", report.Outcome)
	}

	count, names := state.Snapshot()
	if count != 2 {
		t.Fatalf("sentCount = %d, want 2", count)
	}
	if len(names) != 2 {
		t.Fatalf("log entries = %d, want 2", len(names))
	}
	// 최신순 노출
	if names[0] != "새담중 - 이강사" {
		t.Fatalf("latest entry = %q", names[0])
	}

	sum := report.Sheets[0]
	if sum.Sent != 2 || sum.Errors != 1 || sum.Validation != 0 {
		t.Fatalf("summary = %+v", sum)
	}
}

func TestRun_ValidationFailureNeverDispatches(t *testing.T) {
	t.Parallel()

	tr := &fakeTransport{}
	state := NewRuntimeState()
	d := newTestDispatcher(state, tr)

	report := d.Run([]*model.Sheet{{
		Name: "시트1",
		Rows: []*model.Row{row("김강사", "")}, // 이름만 있고 이메일 없음
	}}, time.Time{})

	if tr.count() != 0 {
		t.Fatalf("dispatch attempted for invalid row")
	}
	count, names := state.Snapshot()
	if count != 0 {
		t.Fatalf("sentCount = %d, want 0", count)
	}
	if len(names) != 1 {
		t.Fatalf("expected exactly one validation entry, got %d", len(names))
	}
	sum := report.Sheets[0]
	if sum.Validation != 1 || len(sum.Entries) != 1 || sum.Entries[0].Kind != KindValidation {
		t.Fatalf("summary = %+v", sum)
	}
}

func TestRun_StopAbandonsRemainingSheets(t *testing.T) {
	t.Parallel()

	state := NewRuntimeState()
	tr := &fakeTransport{}
	// 두 번째 발송 직후 중단 요청 — 이후 행은 시작되면 안 된다.
	tr.onSend = func(n int) {
		if n == 2 {
			state.RequestStop()
		}
	}
	d := newTestDispatcher(state, tr)

	sheets := []*model.Sheet{
		{
			Name: "시트1",
			Rows: []*model.Row{
				row("a", "a@example.com"),
				row("b", "b@example.com"),
				row("c", "c@example.com"),
			},
		},
		{
			Name: "시트2",
			Rows: []*model.Row{row("d", "d@example.com")},
		},
	}

	report := d.Run(sheets, time.Time{})
	if report.Outcome != OutcomeStopped {
		t.Fatalf("outcome = %q", report.Outcome)
	}
	// 진행 중이던 발송(2건)까지만 수행, 이후는 포기
	if tr.count() != 2 {
		t.Fatalf("sends after stop: %d", tr.count())
	}
	if count, _ := state.Snapshot(); count != 2 {
		t.Fatalf("sentCount = %d", count)
	}
	// 중단 시점의 부분 요약은 포함된다
	if len(report.Sheets) != 1 {
		t.Fatalf("partial summaries = %d", len(report.Sheets))
	}
}

func TestRun_ResetsStateAtStart(t *testing.T) {
	t.Parallel()

	state := NewRuntimeState()
	state.append("이전 실행 찌꺼기", true)
	state.RequestStop()

	tr := &fakeTransport{}
	d := newTestDispatcher(state, tr)

	d.Run([]*model.Sheet{{
		Name: "시트1",
		Rows: []*model.Row{row("a", "a@example.com")},
	}}, time.Time{})

	count, names := state.Snapshot()
	if count != 1 || len(names) != 1 {
		t.Fatalf("state not reset: count=%d names=%d", count, len(names))
	}
}

func TestRun_RenderFailureContained(t *testing.T) {
	t.Parallel()

	tr := &fakeTransport{}
	state := NewRuntimeState()
	d := New(testOperator(), state, &fakeRenderer{fail: true}, tr, fakeAssets{}, nil, 0, zerolog.Nop())

	report := d.Run([]*model.Sheet{{
		Name: "시트1",
		Rows: []*model.Row{
			row("a", "a@example.com"),
			row("b", "b@example.com"),
		},
	}}, time.Time{})

	if report.Outcome != OutcomeCompleted {
		t.Fatalf("render failure aborted the run: %q", report.Outcome)
	}
	if report.Sheets[0].Errors != 2 {
		t.Fatalf("errors = %d", report.Sheets[0].Errors)
	}
	if tr.count() != 0 {
		t.Fatalf("dispatched despite render failure")
	}
}

func TestRun_VariantAdRule(t *testing.T) {
	t.Parallel()

	tr := &fakeTransport{}
	state := NewRuntimeState()
	d := newTestDispatcher(state, tr)

	d.Run([]*model.Sheet{
		{Name: "강사분", Category: "강사", Rows: []*model.Row{row("a", "a@example.com")}},
		{Name: "직원분", Category: "직원근로자", Rows: []*model.Row{row("b", "b@example.com")}},
	}, time.Time{})

	if tr.count() != 2 {
		t.Fatalf("sends = %d", tr.count())
	}
	second := func(m *mailer.Message) string {
		for _, img := range m.Inline {
			if img.CID == "ad2_image" {
				return img.Name
			}
		}
		return ""
	}
	if got := second(tr.sent[0]); got != "ad2.jpg" {
		t.Fatalf("teacher second ad = %q", got)
	}
	if got := second(tr.sent[1]); got != "ad3.jpg" {
		t.Fatalf("worker second ad = %q", got)
	}
}

func TestRun_SelectedDateUsedAsDocumentDate(t *testing.T) {
	t.Parallel()

	fr := &fakeRenderer{}
	state := NewRuntimeState()
	d := New(testOperator(), state, fr, &fakeTransport{}, fakeAssets{}, nil, 0, zerolog.Nop())

	selected := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	d.Run([]*model.Sheet{{
		Name: "시트1",
		Rows: []*model.Row{row("a", "a@example.com")},
	}}, selected)

	if len(fr.ctxs) != 1 {
		t.Fatalf("renders = %d", len(fr.ctxs))
	}
	if fr.ctxs[0].Today != "2026년 03월 01일" {
		t.Fatalf("document date = %q", fr.ctxs[0].Today)
	}
}

func TestRun_ZeroSelectedDateFallsBackToNow(t *testing.T) {
	t.Parallel()

	fr := &fakeRenderer{}
	state := NewRuntimeState()
	d := New(testOperator(), state, fr, &fakeTransport{}, fakeAssets{}, nil, 0, zerolog.Nop())
	d.now = func() time.Time { return time.Date(2026, 4, 2, 9, 30, 0, 0, time.UTC) }

	d.Run([]*model.Sheet{{
		Name: "시트1",
		Rows: []*model.Row{row("a", "a@example.com")},
	}}, time.Time{})

	if fr.ctxs[0].Today != "2026년 04월 02일" {
		t.Fatalf("document date = %q", fr.ctxs[0].Today)
	}
}

// blockingTransport 첫 전송에서 release 가 닫힐 때까지 블록한다
type blockingTransport struct {
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func (b *blockingTransport) Send(from mailer.Identity, msg *mailer.Message) error {
	b.once.Do(func() { close(b.entered) })
	<-b.release
	return nil
}

func TestRun_StatusAndStopNeverWaitOnSend(t *testing.T) {
	t.Parallel()

	tr := &blockingTransport{
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	state := NewRuntimeState()
	d := New(testOperator(), state, &fakeRenderer{}, tr, fakeAssets{}, nil, 0, zerolog.Nop())

	doneRun := make(chan *Report, 1)
	go func() {
		doneRun <- d.Run([]*model.Sheet{{
			Name: "시트1",
			Rows: []*model.Row{
				row("a", "a@example.com"),
				row("b", "b@example.com"),
			},
		}}, time.Time{})
	}()

	<-tr.entered // 첫 전송이 블록된 상태

	// 전송이 진행 중이어도 상태 조회와 중단 요청은 즉시 끝나야 한다
	done := make(chan struct{})
	go func() {
		state.Snapshot()
		state.RequestStop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("status/stop blocked behind an in-flight send")
	}

	close(tr.release)
	report := <-doneRun
	if report.Outcome != OutcomeStopped {
		t.Fatalf("outcome = %q", report.Outcome)
	}
	// 진행 중이던 전송은 끝까지 수행되어 집계된다
	if count, _ := state.Snapshot(); count != 1 {
		t.Fatalf("sentCount = %d, want 1", count)
	}
}

func TestRun_DelayAppliesFromFirstGap(t *testing.T) {
	t.Parallel()

	tr := &fakeTransport{}
	state := NewRuntimeState()
	d := New(testOperator(), state, &fakeRenderer{}, tr, fakeAssets{}, nil,
		50*time.Millisecond, zerolog.Nop())

	start := time.Now()
	d.Run([]*model.Sheet{{
		Name: "시트1",
		Rows: []*model.Row{
			row("a", "a@example.com"),
			row("b", "b@example.com"),
		},
	}}, time.Time{})

	// 초기 토큰이 소모되어 행 2건이면 지연이 두 번 걸린다
	if elapsed := time.Since(start); elapsed < 90*time.Millisecond {
		t.Fatalf("elapsed = %v, want >= 90ms", elapsed)
	}
}
