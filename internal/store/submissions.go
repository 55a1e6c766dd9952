package store

import (
	"fmt"
	"strings"

	"saedam/internal/model"
)

// SubmissionPage 신청 목록 페이지（최신순）
type SubmissionPage struct {
	Items        []model.Submission `json:"items"`
	TotalCount   int                `json:"totalCount"`
	IssuedCount  int                `json:"issuedCount"`
	PendingCount int                `json:"pendingCount"`
	Page         int                `json:"page"`
	TotalPages   int                `json:"totalPages"`
}

const submissionPageSize = 10

// CreateSubmission 신청 한 건 추가
func (s *Store) CreateSubmission(system string, sub *model.Submission) (int64, error) {
	res, err := s.db.Exec(`
		INSERT INTO submissions (system, applied_at, cert_type, name, resident, address,
			work_start, work_end, work_place, subject, purpose, role, email, status, end_reason)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, system, sub.AppliedAt, sub.CertType, sub.Name, sub.Resident, sub.Address,
		sub.WorkStart, sub.WorkEnd, sub.WorkPlace, sub.Subject, sub.Purpose, sub.Role,
		sub.Email, model.SubmissionPending, sub.EndReason)
	if err != nil {
		return 0, fmt.Errorf("failed to create submission: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get submission id: %w", err)
	}
	return id, nil
}

// GetSubmission 신청 한 건 조회
func (s *Store) GetSubmission(system string, id int64) (*model.Submission, error) {
	row := s.db.QueryRow(`
		SELECT id, applied_at, cert_type, name, resident, address, work_start, work_end,
			work_place, subject, purpose, role, email, status, issued_at, issue_no, end_reason
		FROM submissions WHERE system = ? AND id = ?
	`, system, id)

	var sub model.Submission
	err := row.Scan(&sub.ID, &sub.AppliedAt, &sub.CertType, &sub.Name, &sub.Resident,
		&sub.Address, &sub.WorkStart, &sub.WorkEnd, &sub.WorkPlace, &sub.Subject,
		&sub.Purpose, &sub.Role, &sub.Email, &sub.Status, &sub.IssuedAt, &sub.IssueNo, &sub.EndReason)
	if err != nil {
		return nil, fmt.Errorf("failed to get submission: %w", err)
	}
	return &sub, nil
}

// ListSubmissions 신청 목록 조회（최신순, 10건 페이지）
func (s *Store) ListSubmissions(system string, page int) (*SubmissionPage, error) {
	if page < 1 {
		page = 1
	}

	result := &SubmissionPage{Page: page}
	err := s.db.QueryRow(`
		SELECT COUNT(*),
			COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0)
		FROM submissions WHERE system = ?
	`, model.SubmissionIssued, model.SubmissionPending, system).
		Scan(&result.TotalCount, &result.IssuedCount, &result.PendingCount)
	if err != nil {
		return nil, fmt.Errorf("failed to count submissions: %w", err)
	}
	if result.TotalCount > 0 {
		result.TotalPages = (result.TotalCount-1)/submissionPageSize + 1
	} else {
		result.TotalPages = 1
	}

	rows, err := s.db.Query(`
		SELECT id, applied_at, cert_type, name, resident, address, work_start, work_end,
			work_place, subject, purpose, role, email, status, issued_at, issue_no, end_reason
		FROM submissions WHERE system = ?
		ORDER BY id DESC
		LIMIT ? OFFSET ?
	`, system, submissionPageSize, (page-1)*submissionPageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var sub model.Submission
		if err := rows.Scan(&sub.ID, &sub.AppliedAt, &sub.CertType, &sub.Name, &sub.Resident,
			&sub.Address, &sub.WorkStart, &sub.WorkEnd, &sub.WorkPlace, &sub.Subject,
			&sub.Purpose, &sub.Role, &sub.Email, &sub.Status, &sub.IssuedAt, &sub.IssueNo, &sub.EndReason); err != nil {
			return nil, fmt.Errorf("failed to scan submission: %w", err)
		}
		result.Items = append(result.Items, sub)
	}
	return result, rows.Err()
}

// UpdateSubmission 신청 내용 수정（수정 가능한 필드 전체 갱신）
func (s *Store) UpdateSubmission(system string, sub *model.Submission) error {
	res, err := s.db.Exec(`
		UPDATE submissions SET
			cert_type = ?, name = ?, resident = ?, address = ?,
			work_start = ?, work_end = ?, work_place = ?, subject = ?,
			purpose = ?, role = ?, email = ?, status = ?, end_reason = ?
		WHERE system = ? AND id = ?
	`, sub.CertType, sub.Name, sub.Resident, sub.Address,
		sub.WorkStart, sub.WorkEnd, sub.WorkPlace, sub.Subject,
		sub.Purpose, sub.Role, sub.Email, sub.Status, sub.EndReason,
		system, sub.ID)
	if err != nil {
		return fmt.Errorf("failed to update submission: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("submission %d not found", sub.ID)
	}
	return nil
}

// MarkIssued 발급 처리: 상태/발급일/발급번호 기록
func (s *Store) MarkIssued(system string, id int64, issueNo, issuedAt string) error {
	res, err := s.db.Exec(`
		UPDATE submissions SET status = ?, issue_no = ?, issued_at = ?
		WHERE system = ? AND id = ?
	`, model.SubmissionIssued, issueNo, issuedAt, system, id)
	if err != nil {
		return fmt.Errorf("failed to mark issued: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("submission %d not found", id)
	}
	return nil
}

// DeleteSubmission 신청 삭제
func (s *Store) DeleteSubmission(system string, id int64) error {
	_, err := s.db.Exec(`DELETE FROM submissions WHERE system = ? AND id = ?`, system, id)
	if err != nil {
		return fmt.Errorf("failed to delete submission: %w", err)
	}
	return nil
}

// DeleteSubmissions 일괄 삭제
func (s *Store) DeleteSubmissions(system string, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	placeholders := strings.Repeat("?,", len(ids))
	placeholders = placeholders[:len(placeholders)-1]

	args := make([]any, 0, len(ids)+1)
	args = append(args, system)
	for _, id := range ids {
		args = append(args, id)
	}

	_, err := s.db.Exec(`DELETE FROM submissions WHERE system = ? AND id IN (`+placeholders+`)`, args...)
	if err != nil {
		return fmt.Errorf("failed to bulk delete submissions: %w", err)
	}
	return nil
}
