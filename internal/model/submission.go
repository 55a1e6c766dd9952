package model

// 증명서 신청 상태
const (
	SubmissionPending = "대기"
	SubmissionIssued  = "발급완료"
)

// Submission 강사 경력증명서 신청 한 건
type Submission struct {
	ID        int64  `json:"id"`
	AppliedAt string `json:"appliedAt"` // 신청일 (YYYY-MM-DD)
	CertType  string `json:"certType"`  // 증명서종류
	Name      string `json:"name"`      // 성명
	Resident  string `json:"resident"`  // 주민번호
	Address   string `json:"address"`   // 자택주소
	WorkStart string `json:"workStart"` // 근무시작일
	WorkEnd   string `json:"workEnd"`   // 근무종료일 ("현재까지" 허용)
	WorkPlace string `json:"workPlace"` // 근무장소
	Subject   string `json:"subject"`   // 강의과목
	Purpose   string `json:"purpose"`   // 용도
	Role      string `json:"role"`      // 직책
	Email     string `json:"email"`     // 이메일주소
	Status    string `json:"status"`    // 대기/발급완료
	IssuedAt  string `json:"issuedAt"`  // 발급일
	IssueNo   string `json:"issueNo"`   // 발급번호
	EndReason string `json:"endReason"` // 종료사유 (해촉증명서만)
}

// MaskedResident 주민번호 뒷자리 마스킹（앞 1자리만 남김）
func (s *Submission) MaskedResident() string {
	for i := 0; i < len(s.Resident); i++ {
		if s.Resident[i] == '-' {
			if i+2 <= len(s.Resident) {
				return s.Resident[:i+2] + "******"
			}
			break
		}
	}
	return s.Resident
}
