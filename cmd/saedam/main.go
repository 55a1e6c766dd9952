package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"saedam/internal/config"
	"saedam/internal/logging"
	"saedam/internal/server"
)

var (
	port    = flag.Int("port", 0, "서비스 포트 (config.toml 보다 우선)")
	devMode = flag.Bool("dev", false, "개발 모드")
	dataDir = flag.String("dataDir", "", "데이터 디렉터리 (설정 파일보다 우선)")
)

func main() {
	flag.Parse()

	fmt.Println("==========================================")
	fmt.Println("  새담 급여명세서 발송 / 증명서 발급 서비스")
	fmt.Println("==========================================")

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("설정 로드 실패, 기본 설정 사용: %v\n", err)
		cfg = config.DefaultConfig()
	}

	// 명령행 인자가 설정 파일을 덮어쓴다
	if *port > 0 {
		cfg.Server.Port = *port
	}
	if *devMode {
		cfg.Server.DevMode = true
	}
	if *dataDir != "" {
		cfg.Data.DataDir = *dataDir
	}

	log := logging.Setup(cfg.Server.DevMode)

	srv, err := server.NewServer(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("server init failed")
	}

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("server starting")
		if err := srv.Run(addr); err != nil {
			log.Fatal().Err(err).Msg("server run failed")
		}
	}()

	fmt.Println("\nCtrl+C 로 서비스를 중지합니다...")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	fmt.Println("\n서비스를 종료합니다...")
	if err := srv.Close(); err != nil {
		log.Error().Err(err).Msg("shutdown cleanup failed")
	}
}
