package api

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"saedam/internal/assets"
)

// UploadAdImage 첨부 이미지 교체. 교체 후 캐시 전체를 다시 적재한다.
// POST /send/upload_ad_image  (form: ad_file, target, bucket)
func (h *Handler) UploadAdImage(c *gin.Context) {
	target := c.PostForm("target")
	bucket := c.PostForm("bucket")

	file, err := c.FormFile("ad_file")
	if err != nil || !assets.ValidAsset(target) || !assets.ValidBucket(bucket) {
		c.String(http.StatusBadRequest, "잘못된 요청입니다.")
		return
	}

	f, err := file.Open()
	if err != nil {
		c.String(http.StatusInternalServerError, "파일 열기 실패")
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		c.String(http.StatusInternalServerError, "파일 읽기 실패")
		return
	}

	if err := h.assets.Replace(bucket, target, data); err != nil {
		h.log.Error().Err(err).Str("target", target).Str("bucket", bucket).Msg("asset replace failed")
		c.String(http.StatusInternalServerError, "이미지 교체 실패")
		return
	}

	h.log.Info().Str("target", target).Str("bucket", bucket).Msg("asset replaced")
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(`
	<script>
	  alert("이미지 교체 완료");
	  history.back();
	</script>`))
}
