package store

import (
	"fmt"
	"time"
)

// NextIssueNumber 연도별 일련번호를 원자적으로 하나 증가시켜
// "제YY-NNNN호" 형식의 발급번호를 돌려준다. 담당자/시스템 구분 없이
// 전역으로 직렬화된다（클라이언트 쪽 이중 호출 금지）.
func (s *Store) NextIssueNumber(now time.Time) (string, error) {
	prefix := now.Format("06")

	tx, err := s.db.Begin()
	if err != nil {
		return "", fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO issue_numbers (year_prefix, last_number) VALUES (?, 1)
		ON CONFLICT(year_prefix) DO UPDATE SET last_number = last_number + 1
	`, prefix)
	if err != nil {
		return "", fmt.Errorf("failed to advance issue number: %w", err)
	}

	var n int
	if err := tx.QueryRow(`SELECT last_number FROM issue_numbers WHERE year_prefix = ?`, prefix).Scan(&n); err != nil {
		return "", fmt.Errorf("failed to read issue number: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit issue number: %w", err)
	}

	return fmt.Sprintf("제%s-%04d호", prefix, n), nil
}
