package mailer

import (
	"fmt"
	"io"

	"gopkg.in/gomail.v2"
)

// Identity 발신 계정
type Identity struct {
	Address  string
	Password string
}

// InlineImage 본문에 cid 로 참조되는 이미지
type InlineImage struct {
	CID  string // 템플릿의 cid:<CID> 와 일치해야 함
	Name string // 파일명 (logo01.jpg 등)
	Data []byte
}

// Message 발송할 메일 한 건
type Message struct {
	To       string
	Subject  string
	BodyHTML string
	BodyText string // BodyHTML 이 비어 있을 때만 사용（알림 메일）
	Inline   []InlineImage
}

// TransportError 전송 실패（인증/연결 오류 포함）
type TransportError struct {
	Recipient string
	Err       error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("send to %s: %v", e.Recipient, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Transport 메일 전송 협력자. 행 단위 발송기가 이 인터페이스만 본다.
type Transport interface {
	Send(from Identity, msg *Message) error
}

// SMTPTransport gomail 기반 SSL SMTP 전송
type SMTPTransport struct {
	Host string
	Port int
}

// NewSMTPTransport 기본 Gmail SSL 설정
func NewSMTPTransport(host string, port int) *SMTPTransport {
	if host == "" {
		host = "smtp.gmail.com"
	}
	if port == 0 {
		port = 465
	}
	return &SMTPTransport{Host: host, Port: port}
}

// Send 메일 한 건 전송. 네트워크 바운드라 오래 걸릴 수 있다.
func (t *SMTPTransport) Send(from Identity, msg *Message) error {
	m := gomail.NewMessage()
	m.SetHeader("From", from.Address)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)

	if msg.BodyHTML != "" {
		m.SetBody("text/html", msg.BodyHTML)
	} else {
		m.SetBody("text/plain", msg.BodyText)
	}

	for _, img := range msg.Inline {
		data := img.Data
		cid := img.CID
		m.Embed(img.Name,
			gomail.SetCopyFunc(func(w io.Writer) error {
				_, err := w.Write(data)
				return err
			}),
			gomail.SetHeader(map[string][]string{
				"Content-ID": {"<" + cid + ">"},
			}),
		)
	}

	d := gomail.NewDialer(t.Host, t.Port, from.Address, from.Password)
	d.SSL = true

	if err := d.DialAndSend(m); err != nil {
		return &TransportError{Recipient: msg.To, Err: err}
	}
	return nil
}
