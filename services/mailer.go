package services

import (
	"fmt"
	"os"
	"strconv"

	gomail "gopkg.in/gomail.v2"
)

// Mailer sends transactional mail over SMTP.
type Mailer struct {
	host string
	port int
	user string
	pass string
	from string
}

func NewMailerFromEnv() *Mailer {
	port, err := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if err != nil || port == 0 {
		port = 587
	}
	from := os.Getenv("MAIL_FROM")
	if from == "" {
		from = "no-reply@neatify.app"
	}
	return &Mailer{
		host: os.Getenv("SMTP_HOST"),
		port: port,
		user: os.Getenv("SMTP_USER"),
		pass: os.Getenv("SMTP_PASS"),
		from: from,
	}
}

// Configured reports whether SMTP credentials are present.
func (m *Mailer) Configured() bool {
	return m.host != ""
}

func (m *Mailer) send(to, subject, htmlBody string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	dialer := gomail.NewDialer(m.host, m.port, m.user, m.pass)
	return dialer.DialAndSend(msg)
}

// SendPasswordReset mails the one-time reset token to the user.
func (m *Mailer) SendPasswordReset(to, token string) error {
	body := fmt.Sprintf(`<p>We received a request to reset your Neatify password.</p>
<p>Your reset code is: <b>%s</b></p>
<p>The code expires in 15 minutes. If you did not request a reset, ignore this email.</p>`, token)
	return m.send(to, "Reset your Neatify password", body)
}
