package api

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"

	"github.com/gin-gonic/gin"
)

// sessionCodec HMAC 서명 쿠키. 외부 세션 저장소 없이 역할 인증만 담는다.
type sessionCodec struct {
	secret []byte
}

// newSessionCodec 시크릿이 비어 있으면 프로세스 수명짜리 난수를 쓴다
// （재시작하면 로그인만 다시 하면 됨）.
func newSessionCodec(secret string) *sessionCodec {
	if secret != "" {
		return &sessionCodec{secret: []byte(secret)}
	}
	b := make([]byte, 32)
	_, _ = rand.Read(b)
	return &sessionCodec{secret: b}
}

func (s *sessionCodec) sign(role, system string) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(role + ":" + system))
	return hex.EncodeToString(mac.Sum(nil))
}

func (s *sessionCodec) verify(token, role, system string) bool {
	return hmac.Equal([]byte(token), []byte(s.sign(role, system)))
}

func cookieName(role, system string) string {
	return "saedam_" + role + "_" + system
}

// grant 역할 인증 쿠키 발급
func (s *sessionCodec) grant(c *gin.Context, role, system string) {
	c.SetCookie(cookieName(role, system), s.sign(role, system), 8*3600, "/", "", false, true)
}

// authorized 역할 인증 확인
func (s *sessionCodec) authorized(c *gin.Context, role, system string) bool {
	token, err := c.Cookie(cookieName(role, system))
	if err != nil {
		return false
	}
	return s.verify(token, role, system)
}

// revoke 인증 쿠키 제거
func (s *sessionCodec) revoke(c *gin.Context, role, system string) {
	c.SetCookie(cookieName(role, system), "", -1, "/", "", false, true)
}
