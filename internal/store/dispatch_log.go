package store

import "fmt"

// DispatchRecord 발송 감사 로그 한 건
type DispatchRecord struct {
	ID        int64  `json:"id"`
	Operator  string `json:"operator"`
	SheetName string `json:"sheetName"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Status    string `json:"status"`
	Detail    string `json:"detail"`
	CreatedAt string `json:"createdAt"`
}

// RecordDispatch 행 단위 발송 결과 기록
func (s *Store) RecordDispatch(operator, sheet, name, email, status, detail string) error {
	_, err := s.db.Exec(`
		INSERT INTO dispatch_logs (operator, sheet_name, recipient_name, recipient_email, status, detail)
		VALUES (?, ?, ?, ?, ?, ?)
	`, operator, sheet, name, email, status, detail)
	if err != nil {
		return fmt.Errorf("failed to record dispatch: %w", err)
	}
	return nil
}

// ListRecentDispatches 담당자별 최근 발송 기록（최신순）
func (s *Store) ListRecentDispatches(operator string, limit int) ([]DispatchRecord, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.Query(`
		SELECT id, operator, sheet_name, recipient_name, recipient_email, status, detail, created_at
		FROM dispatch_logs
		WHERE operator = ?
		ORDER BY id DESC
		LIMIT ?
	`, operator, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query dispatch logs: %w", err)
	}
	defer rows.Close()

	var records []DispatchRecord
	for rows.Next() {
		var r DispatchRecord
		if err := rows.Scan(&r.ID, &r.Operator, &r.SheetName, &r.Name, &r.Email, &r.Status, &r.Detail, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan dispatch log: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}
