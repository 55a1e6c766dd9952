package server

import (
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"saedam/internal/api"
	"saedam/internal/assets"
	"saedam/internal/config"
	"saedam/internal/mailer"
	"saedam/internal/render"
	"saedam/internal/store"
)

// Server HTTP 서버
type Server struct {
	router *gin.Engine
	store  *store.Store
	log    zerolog.Logger
}

// NewServer 서버 생성: 저장소/캐시/렌더러/전송기를 묶어 라우팅까지 구성한다.
func NewServer(cfg *config.AppConfig, log zerolog.Logger) (*Server, error) {
	if !cfg.Server.DevMode {
		gin.SetMode(gin.ReleaseMode)
	}

	dataDir, err := config.EnsureDataDir(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure data dir: %w", err)
	}

	st, err := store.New(filepath.Join(dataDir, "saedam.db"))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	cache, err := assets.New(filepath.Join(dataDir, "static"))
	if err != nil {
		return nil, fmt.Errorf("failed to load asset cache: %w", err)
	}

	renderer := render.NewRenderer(filepath.Join(dataDir, "templates"))
	transport := mailer.NewSMTPTransport(cfg.Mail.Host, cfg.Mail.Port)

	handler := api.NewHandler(cfg, dataDir, st, cache, renderer, transport, log)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(log))

	handler.RegisterRoutes(router)

	// 루트는 첫 담당자 업로드 화면으로
	router.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusTemporaryRedirect, "/send01")
	})

	return &Server{
		router: router,
		store:  st,
		log:    log,
	}, nil
}

// requestLogger 요청 한 줄 로그
func requestLogger(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		log.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Msg("request")
	}
}

// Run 서버 시작
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}

// Close 종료 시 저장소 정리
func (s *Server) Close() error {
	return s.store.Close()
}
