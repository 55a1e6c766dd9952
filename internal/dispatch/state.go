package dispatch

import (
	"sync"
	"time"
)

// RuntimeState 담당자별 발송 상태. 실행 시작 시 리셋되고 실행 중에만
// 발송기가 갱신하며, 상태 조회는 언제든 동시 호출될 수 있다.
//
// 잠금을 둘로 분리한 이유: 카운터/로그 잠금이 행 처리 동안 길게 잡혀도
// 중단 요청이 그 뒤에서 기다리지 않아야 하고, 반대로 상태 조회가
// 중단 플래그 잠금에 걸리지 않아야 한다.
type RuntimeState struct {
	mu           sync.Mutex // sentCount / sentLog / selectedDate 보호
	sentCount    int
	sentLog      []logEntry
	selectedDate time.Time // 실행별 기준일（0값이면 실행 시작 시각 사용）

	stopMu        sync.Mutex // stopRequested 만 보호
	stopRequested bool
}

type logEntry struct {
	text    string
	success bool
}

// NewRuntimeState 초기 상태 생성（프로세스 시작 시 담당자마다 하나）
func NewRuntimeState() *RuntimeState {
	return &RuntimeState{}
}

// reset 실행 시작 시 카운터/로그 초기화, 기준일 기록, 중단 플래그 해제
func (s *RuntimeState) reset(selected time.Time) {
	s.mu.Lock()
	s.sentCount = 0
	s.sentLog = nil
	s.selectedDate = selected
	s.mu.Unlock()

	s.stopMu.Lock()
	s.stopRequested = false
	s.stopMu.Unlock()
}

// append 로그 한 건 추가. 성공 건만 카운터를 올린다
// （불변식: sentCount == 성공 로그 수）.
func (s *RuntimeState) append(text string, success bool) {
	s.mu.Lock()
	s.sentLog = append(s.sentLog, logEntry{text: text, success: success})
	if success {
		s.sentCount++
	}
	s.mu.Unlock()
}

// selected 이번 실행의 기준일（지정이 없으면 0값）
func (s *RuntimeState) selected() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectedDate
}

// RequestStop 중단 요청. 멱등이며 다음 행 검사 시점에 반영된다.
func (s *RuntimeState) RequestStop() {
	s.stopMu.Lock()
	s.stopRequested = true
	s.stopMu.Unlock()
}

// stopped 중단 요청 여부（행마다 검사）
func (s *RuntimeState) stopped() bool {
	s.stopMu.Lock()
	defer s.stopMu.Unlock()
	return s.stopRequested
}

// Snapshot 상태 조회용 스냅샷. 로그는 최신순으로 돌려준다.
func (s *RuntimeState) Snapshot() (count int, names []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	names = make([]string, 0, len(s.sentLog))
	for i := len(s.sentLog) - 1; i >= 0; i-- {
		names = append(names, s.sentLog[i].text)
	}
	return s.sentCount, names
}
