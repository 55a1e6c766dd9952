package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"saedam/internal/config"
	"saedam/internal/mailer"
	"saedam/internal/model"
)

const (
	roleUser  = "user"
	roleAdmin = "admin"
)

// FormLogin 신청 화면 비밀번호 확인
// POST /system01/form, /system02/form
func (h *Handler) FormLogin(c *gin.Context, system string) {
	pw := config.UserPassword(system)
	if pw == "" || c.PostForm("password") != pw {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "비밀번호가 틀렸습니다."})
		return
	}
	h.sessions.grant(c, roleUser, system)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// ShowForm 신청 화면 접근 확인（인증 게이트）
// GET /system01/form_page
func (h *Handler) ShowForm(c *gin.Context, system string) {
	if !h.sessions.authorized(c, roleUser, system) {
		c.JSON(http.StatusForbidden, gin.H{"error": "접근 권한이 없습니다."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"system": system})
}

// Submit 증명서 신청 접수. 대장에 기록하고 관리자에게 알림 메일을 보낸다.
// POST /system01/submit
func (h *Handler) Submit(c *gin.Context, system string) {
	if !h.sessions.authorized(c, roleUser, system) {
		c.JSON(http.StatusForbidden, gin.H{"error": "접근 권한이 없습니다."})
		return
	}

	sub := &model.Submission{
		AppliedAt: nowKST().Format("2006-01-02"),
		CertType:  c.PostForm("증명서종류"),
		Name:      c.PostForm("성명"),
		Resident:  c.PostForm("주민번호"),
		Address:   c.PostForm("자택주소"),
		WorkStart: c.PostForm("근무시작일"),
		WorkEnd:   c.PostForm("근무종료일"),
		WorkPlace: c.PostForm("근무장소"),
		Subject:   c.PostForm("강의과목"),
		Purpose:   c.PostForm("용도"),
		Role:      c.PostForm("직책"),
		Email:     c.PostForm("이메일주소"),
	}
	if c.PostForm("종료일선택") == "현재까지" {
		sub.WorkEnd = "현재까지"
	}
	// 종료사유는 해촉증명서에만 기록
	if sub.CertType == "강사 해촉증명서" {
		sub.EndReason = c.PostForm("종료사유")
	}
	if sub.Name == "" || sub.CertType == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "성명과 증명서 종류는 필수입니다."})
		return
	}

	id, err := h.store.CreateSubmission(system, sub)
	if err != nil {
		h.log.Error().Err(err).Str("system", system).Msg("submission create failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "접수 실패"})
		return
	}

	h.notifyAdmin(system, sub)

	c.JSON(http.StatusOK, gin.H{"id": id, "status": model.SubmissionPending})
}

// notifyAdmin 신규 신청 알림 메일（실패해도 접수는 유지）
func (h *Handler) notifyAdmin(system string, sub *model.Submission) {
	to := config.AdminEmail(system)
	if to == "" {
		h.log.Warn().Str("system", system).Msg("admin email not configured")
		return
	}
	email, password := config.SystemIdentity(system)
	msg := &mailer.Message{
		To:      to,
		Subject: fmt.Sprintf("[%s] 새담 강사경력증명서 신청 알림 (신청자: %s)", strings.ToUpper(system), sub.Name),
		BodyText: fmt.Sprintf(
			"새담 홈페이지를 통해 새로운 강사 경력증명발급 신청이 접수되었습니다.\n\n시스템: %s\n\n신청자: %s\n\n증명서 종류: %s",
			system, sub.Name, sub.CertType),
	}
	if err := h.transport.Send(mailer.Identity{Address: email, Password: password}, msg); err != nil {
		h.log.Error().Err(err).Str("system", system).Msg("admin notification failed")
		return
	}
	h.log.Info().Str("system", system).Str("to", to).Msg("admin notified")
}

// AdminLogin 관리자 로그인
// POST /system01/admin
func (h *Handler) AdminLogin(c *gin.Context, system string) {
	pw := config.AdminPassword(system)
	if pw == "" || c.PostForm("password") != pw {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "비밀번호가 틀렸습니다."})
		return
	}
	h.sessions.grant(c, roleAdmin, system)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// AdminList 신청 목록（최신순, 10건 페이지）
// GET /system01/admin, /system01/admin/:page
func (h *Handler) AdminList(c *gin.Context, system string) {
	if !h.sessions.authorized(c, roleAdmin, system) {
		c.JSON(http.StatusForbidden, gin.H{"error": "접근 권한이 없습니다."})
		return
	}

	page := 1
	if v := c.Param("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			page = n
		}
	}

	result, err := h.store.ListSubmissions(system, page)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "조회 실패"})
		return
	}
	// 목록에서는 주민번호를 마스킹해 노출
	for i := range result.Items {
		result.Items[i].Resident = result.Items[i].MaskedResident()
	}
	c.JSON(http.StatusOK, result)
}

// UpdateSubmission 신청 수정
// POST /system01/update/:id
func (h *Handler) UpdateSubmission(c *gin.Context, system string) {
	if !h.sessions.authorized(c, roleAdmin, system) {
		c.JSON(http.StatusForbidden, gin.H{"error": "접근 권한이 없습니다."})
		return
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "잘못된 id"})
		return
	}

	sub, err := h.store.GetSubmission(system, id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "신청을 찾을 수 없습니다."})
		return
	}

	// 전달된 필드만 덮어쓴다
	set := func(dst *string, field string) {
		if v, ok := c.GetPostForm(field); ok {
			*dst = v
		}
	}
	set(&sub.CertType, "증명서종류")
	set(&sub.Name, "성명")
	set(&sub.Resident, "주민번호")
	set(&sub.Address, "자택주소")
	set(&sub.WorkStart, "근무시작일")
	set(&sub.WorkEnd, "근무종료일")
	set(&sub.WorkPlace, "근무장소")
	set(&sub.Subject, "강의과목")
	set(&sub.Purpose, "용도")
	set(&sub.Role, "직책")
	set(&sub.Email, "이메일주소")
	set(&sub.Status, "상태")
	set(&sub.EndReason, "종료사유")

	if err := h.store.UpdateSubmission(system, sub); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "수정 실패"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "message": "수정이 완료되었습니다"})
}

// DeleteSubmission 신청 삭제
// POST /system01/delete/:id
func (h *Handler) DeleteSubmission(c *gin.Context, system string) {
	if !h.sessions.authorized(c, roleAdmin, system) {
		c.JSON(http.StatusForbidden, gin.H{"error": "접근 권한이 없습니다."})
		return
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "잘못된 id"})
		return
	}
	if err := h.store.DeleteSubmission(system, id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "삭제 실패"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// BulkDelete 선택 항목 일괄 삭제
// POST /system01/bulk_delete  (form: selected_ids=1,2,3)
func (h *Handler) BulkDelete(c *gin.Context, system string) {
	if !h.sessions.authorized(c, roleAdmin, system) {
		c.JSON(http.StatusForbidden, gin.H{"error": "접근 권한이 없습니다."})
		return
	}

	idsStr := c.PostForm("selected_ids")
	if idsStr == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "삭제할 항목이 선택되지 않았습니다."})
		return
	}

	var ids []int64
	for _, part := range strings.Split(idsStr, ",") {
		if n, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64); err == nil {
			ids = append(ids, n)
		}
	}
	if err := h.store.DeleteSubmissions(system, ids); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "삭제 실패"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "deleted": len(ids)})
}

// Generate 발급 처리: 발급번호를 원자적으로 따고 대장에 기록한다.
// PDF 생성/발송은 외부 협력자 몫이라 여기서는 번호와 상태만 확정한다.
// POST /system01/generate/:id
func (h *Handler) Generate(c *gin.Context, system string) {
	if !h.sessions.authorized(c, roleAdmin, system) {
		c.JSON(http.StatusForbidden, gin.H{"error": "접근 권한이 없습니다."})
		return
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "잘못된 id"})
		return
	}

	if _, err := h.store.GetSubmission(system, id); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "신청을 찾을 수 없습니다."})
		return
	}

	now := nowKST()
	issueNo, err := h.store.NextIssueNumber(now)
	if err != nil {
		h.log.Error().Err(err).Msg("issue number allocation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "발급번호 생성 실패"})
		return
	}

	if err := h.store.MarkIssued(system, id, issueNo, now.Format("2006-01-02")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "발급 처리 실패"})
		return
	}

	h.log.Info().Str("system", system).Int64("id", id).Str("issueNo", issueNo).Msg("certificate issued")
	c.JSON(http.StatusOK, gin.H{"issueNo": issueNo, "issuedAt": now.Format("2006-01-02")})
}

// Logout 관리자 로그아웃
// GET /system01/logout
func (h *Handler) Logout(c *gin.Context, system string) {
	h.sessions.revoke(c, roleAdmin, system)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// nowKST 한국 표준시 현재 시각（발급번호/신청일 기준 시간대）.
// tzdata 가 없는 환경에서도 서버 로컬 시간대로 빠지지 않도록
// UTC+9 고정 오프셋으로 폴백한다（KST 는 서머타임이 없다）.
func nowKST() time.Time {
	loc, err := time.LoadLocation("Asia/Seoul")
	if err != nil {
		loc = time.FixedZone("KST", 9*3600)
	}
	return time.Now().In(loc)
}
