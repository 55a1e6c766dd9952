package api

import (
	"fmt"
	"html/template"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"saedam/internal/dispatch"
	"saedam/internal/model"
	"saedam/internal/parser"
)

// operatorFromPath /send01, /send01/stop 류 경로에서 담당자 키 추출
func operatorFromPath(c *gin.Context) (model.OperatorKey, bool) {
	parts := strings.Split(strings.Trim(c.Request.URL.Path, "/"), "/")
	if len(parts) == 0 {
		return "", false
	}
	key := model.OperatorKey(parts[0])
	return key, key.Valid()
}

// UploadForm 업로드 폼
// GET /send01, /send02
func (h *Handler) UploadForm(c *gin.Context) {
	key, ok := operatorFromPath(c)
	if !ok {
		c.String(http.StatusNotFound, "알 수 없는 담당자입니다.")
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(uploadFormHTML(key)))
}

// RunUpload 업로드 → 발송 실행（실행이 끝날 때까지 블록）
// POST /send01, /send02
func (h *Handler) RunUpload(c *gin.Context) {
	key, ok := operatorFromPath(c)
	if !ok {
		c.String(http.StatusNotFound, "알 수 없는 담당자입니다.")
		return
	}
	op := h.operators[key]

	file, err := c.FormFile("excel")
	if err != nil || !strings.HasSuffix(strings.ToLower(file.Filename), ".xlsx") {
		c.String(http.StatusBadRequest, "엑셀 파일(.xlsx)만 업로드 가능합니다.")
		return
	}

	// 기준일（선택）: 비워 두면 실행 시작 시각이 명세서에 찍힌다
	var selected time.Time
	if v := c.PostForm("target_date"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			c.String(http.StatusBadRequest, "기준일 형식이 올바르지 않습니다. (YYYY-MM-DD)")
			return
		}
		selected = parsed
	}

	// 충돌 없는 이름으로 임시 저장 후 실행이 끝나면 제거
	if err := os.MkdirAll(op.UploadDir, 0755); err != nil {
		c.String(http.StatusInternalServerError, "업로드 폴더 생성 실패")
		return
	}
	path := filepath.Join(op.UploadDir, uuid.NewString()+".xlsx")
	if err := c.SaveUploadedFile(file, path); err != nil {
		c.String(http.StatusInternalServerError, "파일 저장 실패")
		return
	}
	defer os.Remove(path)

	sheets, err := parser.ParseWorkbook(path)
	if err != nil {
		// 워크북 전체를 읽지 못하면 발송 전에 실행 실패로 알린다
		h.log.Error().Err(err).Str("operator", string(key)).Msg("workbook parse failed")
		c.String(http.StatusBadRequest, "처리 중 오류 발생: %v", err)
		return
	}

	d := dispatch.New(op, h.states[key], h.renderer, h.transport, h.assets,
		h.store, h.cfg.SendDelay(), h.log)
	report := d.Run(sheets, selected)

	html, err := resultHTML(key, report, h.sentCount(key))
	if err != nil {
		c.String(http.StatusInternalServerError, "결과 페이지 생성 실패: %v", err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
}

// StopRun 발송 중단 요청（멱등, 다음 행부터 반영）
// POST /send01/stop, /send02/stop
func (h *Handler) StopRun(c *gin.Context) {
	key, ok := operatorFromPath(c)
	if !ok {
		c.String(http.StatusNotFound, "알 수 없는 담당자입니다.")
		return
	}
	h.states[key].RequestStop()
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(fmt.Sprintf(`
	<script>
	  alert("(%s) 발송이 중단되었습니다.");
	  location.href = "/%s";
	</script>`, key, key)))
}

// Status 발송 상태 조회（발송 중에도 안전）
// GET /send01/status, /send02/status
func (h *Handler) Status(c *gin.Context) {
	key, ok := operatorFromPath(c)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown operator"})
		return
	}
	count, names := h.states[key].Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"sent_count": count,
		"sent_names": names, // 최신순
	})
}

// DispatchHistory 감사 로그 조회
// GET /send01/history, /send02/history
func (h *Handler) DispatchHistory(c *gin.Context) {
	key, ok := operatorFromPath(c)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown operator"})
		return
	}
	records, err := h.store.ListRecentDispatches(string(key), 200)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "조회 실패"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"records": records})
}

func (h *Handler) sentCount(key model.OperatorKey) int {
	count, _ := h.states[key].Snapshot()
	return count
}

// uploadFormHTML 담당자별 업로드 폼
func uploadFormHTML(key model.OperatorKey) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"><title>[%s] 급여명세서 발송</title></head>
<body style="font-family:'Nanum Gothic',sans-serif; padding:48px;">
  <h2 style="color:#1f3c88;">[%s] 급여명세서 발송</h2>
  <form method="post" enctype="multipart/form-data">
    <input type="file" name="excel" accept=".xlsx" required>
    <label style="margin-left:8px;">기준일(선택): <input type="date" name="target_date"></label>
    <button type="submit">발송 시작</button>
  </form>
  <form method="post" action="/%s/stop" style="margin-top:12px;">
    <button type="submit">발송 중단</button>
  </form>
  <p><a href="/%s/status">발송 현황(JSON)</a></p>
</body>
</html>`, key, key, key, key)
}

var resultTemplate = template.Must(template.New("result").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <style>
    body { margin:0; padding:48px 24px; background:#f7f8fb; font-family:'Nanum Gothic',sans-serif; color:#111827; }
    .page { max-width:1080px; margin:0 auto; }
    .title { font-size:22px; font-weight:800; color:#1f3c88; }
    .badge { display:inline-block; background:#eef2ff; color:#1f3c88; border:1px solid #dbe4ff;
             border-radius:999px; padding:6px 10px; font-weight:700; font-size:13px; }
    .sheet { border:1px solid #e5e7eb; border-radius:10px; padding:14px; margin:12px 0; background:#fff; }
    .sheet-title { font-size:16px; font-weight:700; margin-bottom:10px; }
    .name-item { font-size:14px; line-height:1.5; }
    .invalid { color:red; }
  </style>
</head>
<body>
  <div class="page">
    <div class="title">[{{.Operator}}] 메일 발송 결과
      <span class="badge">총 {{.SentCount}}명</span>
      {{if .Stopped}}<span class="badge">중단됨</span>{{end}}
    </div>
    {{range .Sheets}}
    <section class="sheet">
      <div class="sheet-title">시트명: {{.Name}} (발송 {{.Sent}}명{{if .Validation}} / 검증실패 {{.Validation}}건{{end}}{{if .Errors}} / 오류 {{.Errors}}건{{end}})</div>
      {{range .Entries}}
      <div class="name-item{{if .Invalid}} invalid{{end}}">• {{.Text}}</div>
      {{end}}
    </section>
    {{end}}
    <a href="/{{.Operator}}" style="padding:8px 16px; background:#1f3c88; color:#fff; text-decoration:none; border-radius:5px;">다시 업로드</a>
  </div>
</body>
</html>`))

// resultHTML 실행 결과 페이지（시트별 성공/실패 내역）
func resultHTML(key model.OperatorKey, report *dispatch.Report, sentCount int) (string, error) {
	var b strings.Builder
	err := resultTemplate.Execute(&b, gin.H{
		"Operator":  key,
		"SentCount": sentCount,
		"Stopped":   report.Outcome == dispatch.OutcomeStopped,
		"Sheets":    report.Sheets,
	})
	if err != nil {
		return "", err
	}
	return b.String(), nil
}
