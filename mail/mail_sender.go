package mail

import (
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/gomail.v2"
)

// Draft is an email to be rendered into the raw payload accepted by /email/send.
type Draft struct {
	From    string
	To      []string
	Cc      []string
	Bcc     []string
	Subject string
	Body    string
}

// Compose renders d as RFC 822 text. Every recipient gets its own To/Cc/Bcc line
// so each address is validated on its own; the remaining headers and the body
// are written by gomail.
func Compose(d Draft) (string, error) {
	var buf bytes.Buffer

	for _, h := range []struct {
		name  string
		addrs []string
	}{{"To", d.To}, {"Cc", d.Cc}, {"Bcc", d.Bcc}} {
		for _, addr := range h.addrs {
			if strings.ContainsAny(addr, "\r\n") {
				return "", fmt.Errorf("invalid %s address %q: contains line break", h.name, addr)
			}
			fmt.Fprintf(&buf, "%s: %s\r\n", h.name, addr)
		}
	}

	m := gomail.NewMessage()
	m.SetHeader("From", d.From)
	if d.Subject != "" {
		m.SetHeader("Subject", d.Subject)
	}
	m.SetBody("text/plain", d.Body)

	if _, err := m.WriteTo(&buf); err != nil {
		return "", fmt.Errorf("failed to render email: %w", err)
	}
	return buf.String(), nil
}
