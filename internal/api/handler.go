package api

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"saedam/internal/assets"
	"saedam/internal/config"
	"saedam/internal/dispatch"
	"saedam/internal/mailer"
	"saedam/internal/model"
	"saedam/internal/render"
	"saedam/internal/store"
)

// Handler 웹 핸들러. 담당자별 발송 상태는 프로세스 수명 동안 유지되고
// 실행 시작 시에만 리셋된다.
type Handler struct {
	cfg       *config.AppConfig
	store     *store.Store
	assets    *assets.Cache
	renderer  *render.Renderer
	transport mailer.Transport
	operators map[model.OperatorKey]model.Operator
	states    map[model.OperatorKey]*dispatch.RuntimeState
	sessions  *sessionCodec
	log       zerolog.Logger
}

// NewHandler 핸들러 생성
func NewHandler(cfg *config.AppConfig, dataDir string, st *store.Store, cache *assets.Cache,
	renderer *render.Renderer, transport mailer.Transport, log zerolog.Logger) *Handler {
	states := make(map[model.OperatorKey]*dispatch.RuntimeState, len(model.OperatorKeys))
	for _, key := range model.OperatorKeys {
		states[key] = dispatch.NewRuntimeState()
	}
	return &Handler{
		cfg:       cfg,
		store:     st,
		assets:    cache,
		renderer:  renderer,
		transport: transport,
		operators: cfg.Operators(dataDir),
		states:    states,
		sessions:  newSessionCodec(cfg.Auth.CookieSecret),
		log:       log.With().Str("comp", "api").Logger(),
	}
}

// RegisterRoutes 라우트 등록
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	// 급여명세서 발송（담당자별）
	for _, key := range model.OperatorKeys {
		op := string(key)
		r.GET("/"+op, h.UploadForm)
		r.POST("/"+op, h.RunUpload)
		r.POST("/"+op+"/stop", h.StopRun)
		r.GET("/"+op+"/status", h.Status)
		r.GET("/"+op+"/history", h.DispatchHistory)
	}

	// 첨부 이미지 교체（공용 + 담당자 버킷）
	r.POST("/send/upload_ad_image", h.UploadAdImage)

	// 분할 내보내기
	r.POST("/split", h.SplitExport)

	// 증명서 신청/관리（시스템 집합 고정）
	for _, system := range knownSystems {
		system := system
		sys := r.Group("/" + system)
		withSystem := func(fn func(*gin.Context, string)) gin.HandlerFunc {
			return func(c *gin.Context) { fn(c, system) }
		}
		sys.POST("/form", withSystem(h.FormLogin))
		sys.GET("/form_page", withSystem(h.ShowForm))
		sys.POST("/submit", withSystem(h.Submit))
		sys.POST("/admin", withSystem(h.AdminLogin))
		sys.GET("/admin", withSystem(h.AdminList))
		sys.GET("/admin/:page", withSystem(h.AdminList))
		sys.POST("/update/:id", withSystem(h.UpdateSubmission))
		sys.POST("/delete/:id", withSystem(h.DeleteSubmission))
		sys.POST("/bulk_delete", withSystem(h.BulkDelete))
		sys.POST("/generate/:id", withSystem(h.Generate))
		sys.GET("/logout", withSystem(h.Logout))
	}
}

// knownSystems 증명서 시스템 식별자（고정 집합）
var knownSystems = []string{"system01", "system02"}
