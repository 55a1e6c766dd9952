package store

import (
	"path/filepath"
	"testing"
	"time"

	"saedam/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "saedam.db"))
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestNextIssueNumber(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

	first, err := s.NextIssueNumber(now)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if first != "제26-0001호" {
		t.Fatalf("first = %q", first)
	}

	second, err := s.NextIssueNumber(now)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if second != "제26-0002호" {
		t.Fatalf("second = %q", second)
	}

	// 해가 바뀌면 시퀀스도 새로 시작
	nextYear, err := s.NextIssueNumber(now.AddDate(1, 0, 0))
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if nextYear != "제27-0001호" {
		t.Fatalf("next year = %q", nextYear)
	}
}

func TestSubmissionLifecycle(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)

	id, err := s.CreateSubmission("system01", &model.Submission{
		AppliedAt: "2026-03-02",
		CertType:  "강사 경력증명서",
		Name:      "김강사",
		Email:     "kim@example.com",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	page, err := s.ListSubmissions("system01", 1)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if page.TotalCount != 1 || page.PendingCount != 1 || page.IssuedCount != 0 {
		t.Fatalf("counts = %+v", page)
	}

	if err := s.MarkIssued("system01", id, "제26-0001호", "2026-03-03"); err != nil {
		t.Fatalf("mark issued: %v", err)
	}
	sub, err := s.GetSubmission("system01", id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if sub.Status != model.SubmissionIssued || sub.IssueNo != "제26-0001호" {
		t.Fatalf("issued submission = %+v", sub)
	}

	// 다른 시스템에서는 보이지 않는다
	if _, err := s.GetSubmission("system02", id); err == nil {
		t.Fatalf("cross-system read must fail")
	}

	if err := s.DeleteSubmissions("system01", []int64{id}); err != nil {
		t.Fatalf("bulk delete: %v", err)
	}
	page, err = s.ListSubmissions("system01", 1)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if page.TotalCount != 0 {
		t.Fatalf("delete failed: %+v", page)
	}
}

func TestListSubmissions_NewestFirst(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	for _, name := range []string{"가", "나", "다"} {
		if _, err := s.CreateSubmission("system01", &model.Submission{
			AppliedAt: "2026-03-02", CertType: "강사 경력증명서", Name: name,
		}); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	page, err := s.ListSubmissions("system01", 1)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if page.Items[0].Name != "다" || page.Items[2].Name != "가" {
		t.Fatalf("order wrong: %+v", page.Items)
	}
}

func TestRecordDispatch(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	if err := s.RecordDispatch("send01", "3월", "김강사", "kim@example.com", "sent", ""); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := s.RecordDispatch("send01", "3월", "박강사", "", "validation_failure", ""); err != nil {
		t.Fatalf("record: %v", err)
	}

	records, err := s.ListRecentDispatches("send01", 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 2 || records[0].Name != "박강사" {
		t.Fatalf("records = %+v", records)
	}
	if other, _ := s.ListRecentDispatches("send02", 10); len(other) != 0 {
		t.Fatalf("operator isolation broken")
	}
}
