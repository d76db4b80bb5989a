// Package mailer sends rendered messages over SMTP. Sends are
// fire-and-forget: a delivery failure is logged and never aborts the
// calling workflow.
package mailer

import (
	"fmt"
	"log"
	"net/smtp"
)

type Sender interface {
	Send(to, subject, body string)
}

type SMTPSender struct {
	Host string
	Port string
	From string
	User string
	Pass string
}

func NewSMTPSender(host, port, from, user, pass string) *SMTPSender {
	return &SMTPSender{Host: host, Port: port, From: from, User: user, Pass: pass}
}

func (m *SMTPSender) Send(to, subject, body string) {
	if m.Host == "" {
		log.Printf("INFO: SMTP not configured, dropping mail to %s (%s)", to, subject)
		return
	}

	msg := []byte(fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n",
		m.From, to, subject, body))

	var auth smtp.Auth
	if m.User != "" {
		auth = smtp.PlainAuth("", m.User, m.Pass, m.Host)
	}
	if err := smtp.SendMail(m.Host+":"+m.Port, auth, m.From, []string{to}, msg); err != nil {
		log.Printf("ERROR: Failed to send mail to %s: %v", to, err)
	}
}

// UrgentMailer adapts a Sender into an urgent-alert sink delivering to
// a fixed on-call address. It satisfies notify.UrgentSink.
type UrgentMailer struct {
	Sender Sender
	To     string
}

func NewUrgentMailer(sender Sender, to string) *UrgentMailer {
	return &UrgentMailer{Sender: sender, To: to}
}

func (m *UrgentMailer) SendUrgent(title, message string) {
	m.Sender.Send(m.To, title, message)
}
