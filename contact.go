package main

import (
	"fmt"
	"log"
	"net/smtp"
	"strings"

	"github.com/phaisonvs/portfolio-phaison-sub001/internal/config"
)

func sendContactEmail(cfg config.Mail, name, email, message string) error {
	// Validate required fields
	if cfg.User == "" || cfg.Pass == "" {
		return fmt.Errorf("SMTP credentials not configured")
	}
	if strings.TrimSpace(name) == "" || strings.TrimSpace(email) == "" {
		return fmt.Errorf("name and email are required")
	}
	if strings.ContainsAny(name+email, "\r\n") {
		return fmt.Errorf("invalid header value")
	}
	to := cfg.To
	if to == "" {
		to = cfg.User
	}

	subject := fmt.Sprintf("Portfolio Contact: %s", name)
	body := fmt.Sprintf(`
New contact form submission from your portfolio:

Name: %s
Email: %s
Message:
%s

---
Sent from your portfolio contact form
`, name, email, message)

	msg := []byte("To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"From: " + cfg.User + "\r\n" +
		"Reply-To: " + email + "\r\n" +
		"\r\n" +
		body + "\r\n")

	auth := smtp.PlainAuth("", cfg.User, cfg.Pass, cfg.Host)
	if err := smtp.SendMail(cfg.Host+":"+cfg.Port, auth, cfg.User, []string{to}, msg); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}

	log.Printf("Contact email sent from %s", name)
	return nil
}
