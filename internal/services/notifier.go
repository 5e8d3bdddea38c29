package services

import (
	"fmt"
	"strconv"
	"time"

	"gopkg.in/gomail.v2"
)

// Notifier отправляет письмо координатору. Доставка best-effort:
// вызывающая сторона логирует ошибку и не откатывает свою операцию.
type Notifier interface {
	Send(to, subject, body, replyTo string) error
}

type SMTPMailer struct {
	host string
	port int
	user string
	pass string
}

func NewSMTPMailer(host, port, user, pass string) *SMTPMailer {
	portNum, err := strconv.Atoi(port)
	if err != nil {
		portNum = 587
	}
	return &SMTPMailer{host: host, port: portNum, user: user, pass: pass}
}

// Send отправляет письмо с ограничением по времени, чтобы workflow-операция
// не зависала на SMTP.
func (m *SMTPMailer) Send(to, subject, body, replyTo string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.user)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	if replyTo != "" {
		msg.SetHeader("Reply-To", replyTo)
	}
	msg.SetBody("text/plain", body)

	dialer := gomail.NewDialer(m.host, m.port, m.user, m.pass)

	done := make(chan error, 1)
	go func() {
		done <- dialer.DialAndSend(msg)
	}()

	select {
	case err := <-done:
		return err
	case <-time.After(10 * time.Second):
		return fmt.Errorf("smtp send to %s timed out", to)
	}
}
