package logging

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Setup 프로세스 전역 로거 초기화.
// 개발 모드면 콘솔 출력, 아니면 JSON 한 줄 형식.
func Setup(dev bool) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339

	var logger zerolog.Logger
	if dev {
		logger = zerolog.New(zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: "15:04:05",
		})
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		logger = zerolog.New(os.Stderr)
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	return logger.With().Timestamp().Logger()
}
