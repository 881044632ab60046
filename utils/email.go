package utils

import (
	"fmt"
	"net/smtp"
	"strings"

	"psetu-backend/models"
)

// Mailer sends contact-form notifications over SMTP.
type Mailer struct {
	host string
	port uint
	from string
	pass string
	to   string
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewMailer(host string, port uint, from, pass, to string) *Mailer {
	return &Mailer{
		host: host,
		port: port,
		from: from,
		pass: pass,
		to:   to,
		send: smtp.SendMail,
	}
}

func (m *Mailer) NotifyContact(contact models.Contact) error {
	addr := fmt.Sprintf("%s:%d", m.host, m.port)
	auth := smtp.PlainAuth("", m.from, m.pass, m.host)

	if err := m.send(addr, auth, m.from, []string{m.to}, ContactMessage(m.from, m.to, contact)); err != nil {
		return fmt.Errorf("send contact notification: %w", err)
	}
	return nil
}

func ContactMessage(from, to string, contact models.Contact) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Reply-To: %s\r\n", headerSafe(contact.Email))
	fmt.Fprintf(&b, "Subject: P-SETU contact [%s] %s\r\n", headerSafe(contact.Category), headerSafe(contact.Subject))
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n\r\n")
	fmt.Fprintf(&b, "Name: %s\r\nEmail: %s\r\nCategory: %s\r\n\r\n%s\r\n",
		contact.FullName, contact.Email, contact.Category, contact.Message)
	return []byte(b.String())
}

// headerSafe strips line breaks so user input cannot add headers.
func headerSafe(s string) string {
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(s)
}
