package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"

	"saedam/internal/model"
)

// AppConfig 애플리케이션 설정
type AppConfig struct {
	Server   ServerConfig   `toml:"server"`
	Data     DataConfig     `toml:"data"`
	Mail     MailConfig     `toml:"mail"`
	Dispatch DispatchConfig `toml:"dispatch"`
	Auth     AuthConfig     `toml:"auth"`
}

// ServerConfig 서버 설정
type ServerConfig struct {
	Port    int  `toml:"port"`
	DevMode bool `toml:"dev_mode"`
}

// DataConfig 데이터 디렉터리 설정
// 업로드 임시 파일, 교체 가능한 첨부 이미지, SQLite 파일이 들어간다.
type DataConfig struct {
	DataDir string `toml:"data_dir"`
}

// MailConfig SMTP 설정. 계정 정보는 환경 변수가 우선한다.
type MailConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// DispatchConfig 발송 설정
type DispatchConfig struct {
	SendDelayMs  int `toml:"send_delay_ms"`  // 행 간 지연（0이면 생략）
	MaxGroupRows int `toml:"max_group_rows"` // 분할 내보내기 기본 한도
}

// AuthConfig 증명서 시스템 비밀번호（환경 변수 우선）
type AuthConfig struct {
	CookieSecret string `toml:"cookie_secret"`
}

// DefaultConfig 기본 설정
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port:    20280,
			DevMode: false,
		},
		Data: DataConfig{
			DataDir: "data",
		},
		Mail: MailConfig{
			Host: "smtp.gmail.com",
			Port: 465,
		},
		Dispatch: DispatchConfig{
			SendDelayMs:  500,
			MaxGroupRows: 500,
		},
		Auth: AuthConfig{},
	}
}

// SendDelay 행 간 지연 시간
func (c *AppConfig) SendDelay() time.Duration {
	return time.Duration(c.Dispatch.SendDelayMs) * time.Millisecond
}

// getEnv 첫 번째로 값이 있는 환경 변수（원본 시스템의 키 이름 유지）
func getEnv(keys ...string) string {
	for _, key := range keys {
		if v := os.Getenv(key); v != "" {
			return v
		}
	}
	return ""
}

// Operators 담당자 설정 구성. 계정은 담당자별 환경 변수를 먼저 보고
// 공용 변수로 폴백한다.
func (c *AppConfig) Operators(dataDir string) map[model.OperatorKey]model.Operator {
	return map[model.OperatorKey]model.Operator{
		model.OperatorSend01: {
			Key:         model.OperatorSend01,
			UploadDir:   filepath.Join(dataDir, "uploads", "send01"),
			Email:       getEnv("EMAIL_ADDRESS_01", "EMAIL_ADDRESS"),
			AppPassword: getEnv("APP_PASSWORD_01", "APP_PASSWORD"),
		},
		model.OperatorSend02: {
			Key:         model.OperatorSend02,
			UploadDir:   filepath.Join(dataDir, "uploads", "send02"),
			Email:       getEnv("EMAIL_ADDRESS_02", "EMAIL_ADDRESS"),
			AppPassword: getEnv("APP_PASSWORD_02", "APP_PASSWORD"),
		},
	}
}

// UserPassword 신청 화면 접근 비밀번호
func UserPassword(system string) string {
	switch system {
	case "system01":
		return getEnv("USER_PW_SYS01")
	case "system02":
		return getEnv("USER_PW_SYS02")
	}
	return ""
}

// AdminPassword 관리자 화면 비밀번호
func AdminPassword(system string) string {
	switch system {
	case "system01":
		return getEnv("ADMIN_PW_SYS01")
	case "system02":
		return getEnv("ADMIN_PW_SYS02")
	}
	return ""
}

// AdminEmail 신청 알림을 받을 관리자 주소
func AdminEmail(system string) string {
	switch system {
	case "system01":
		return getEnv("ADMIN_EMAIL_SYS01")
	case "system02":
		return getEnv("ADMIN_EMAIL_SYS02")
	}
	return ""
}

// SystemIdentity 증명서 시스템의 발신 계정（system01 → 01번 계정）
func SystemIdentity(system string) (email, password string) {
	if len(system) >= 2 && system[len(system)-2:] == "01" {
		return getEnv("EMAIL_ADDRESS_01", "EMAIL_ADDRESS"), getEnv("APP_PASSWORD_01", "APP_PASSWORD")
	}
	return getEnv("EMAIL_ADDRESS_02", "EMAIL_ADDRESS"), getEnv("APP_PASSWORD_02", "APP_PASSWORD")
}

// GetExeDir 실행 파일 디렉터리
func GetExeDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(exe), nil
}

// LoadConfig 실행 파일 옆의 config.toml 을 읽는다. 없으면 기본 설정.
func LoadConfig() (*AppConfig, error) {
	config := DefaultConfig()

	exeDir, err := GetExeDir()
	if err != nil {
		exeDir = "."
	}

	data, err := os.ReadFile(filepath.Join(exeDir, "config.toml"))
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return nil, err
	}

	if err := toml.Unmarshal(data, config); err != nil {
		return nil, err
	}
	return config, nil
}

// EnsureDataDir 데이터 디렉터리 생성 보장. 상대 경로면 실행 파일 기준.
func EnsureDataDir(config *AppConfig) (string, error) {
	dataDir := config.Data.DataDir
	if !filepath.IsAbs(dataDir) {
		exeDir, err := GetExeDir()
		if err != nil {
			exeDir = "."
		}
		dataDir = filepath.Join(exeDir, dataDir)
	}
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return "", err
	}
	return dataDir, nil
}
