package api

import (
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"saedam/internal/model"
	"saedam/internal/parser"
	"saedam/internal/splitter"
)

// SplitExport 워크북을 시트 경계를 지키며 분할해 내보낸다.
// POST /split  (form: excel, max_rows, amount_column)
// 그룹이 하나면 xlsx, 여럿이면 zip 으로 응답한다.
func (h *Handler) SplitExport(c *gin.Context) {
	file, err := c.FormFile("excel")
	if err != nil || !strings.HasSuffix(strings.ToLower(file.Filename), ".xlsx") {
		c.String(http.StatusBadRequest, "엑셀 파일(.xlsx)만 업로드 가능합니다.")
		return
	}

	maxRows := h.cfg.Dispatch.MaxGroupRows
	if v := c.PostForm("max_rows"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			c.String(http.StatusBadRequest, "행 한도가 올바르지 않습니다.")
			return
		}
		maxRows = n
	}

	amountColumn := c.DefaultPostForm("amount_column", model.ColGrossPay)

	tempPath := filepath.Join(os.TempDir(), "saedam_split_"+uuid.NewString()+".xlsx")
	if err := c.SaveUploadedFile(file, tempPath); err != nil {
		c.String(http.StatusInternalServerError, "파일 저장 실패")
		return
	}
	defer os.Remove(tempPath)

	sheets, err := parser.ParseWorkbook(tempPath)
	if err != nil {
		c.String(http.StatusBadRequest, "처리 중 오류 발생: %v", err)
		return
	}

	result, err := splitter.Export(sheets, amountColumn, maxRows)
	if err != nil {
		h.log.Error().Err(err).Msg("split export failed")
		c.String(http.StatusInternalServerError, "분할 내보내기 실패: %v", err)
		return
	}

	h.log.Info().Int("groups", result.Groups).Int("maxRows", maxRows).Msg("split export done")

	c.Header("Content-Disposition",
		"attachment; filename*=UTF-8''"+url.PathEscape(result.Filename))
	c.Data(http.StatusOK, result.ContentType, result.Data)
}
