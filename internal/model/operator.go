package model

// OperatorKey 발송 담당자 식별자（고정 집합）
type OperatorKey string

const (
	OperatorSend01 OperatorKey = "send01"
	OperatorSend02 OperatorKey = "send02"
)

// OperatorKeys 전체 담당자 목록（라우팅/초기화 순서 고정）
var OperatorKeys = []OperatorKey{OperatorSend01, OperatorSend02}

// Valid 알려진 담당자인지 확인
func (k OperatorKey) Valid() bool {
	switch k {
	case OperatorSend01, OperatorSend02:
		return true
	}
	return false
}

// Operator 담당자별 발송 설정
// 담당자끼리는 발송 상태를 절대 공유하지 않는다. 첨부 이미지의 공용 폴백만 공유.
type Operator struct {
	Key         OperatorKey
	UploadDir   string // 업로드 파일 임시 저장 경로
	Email       string // 발신 주소
	AppPassword string // SMTP 앱 비밀번호
}
