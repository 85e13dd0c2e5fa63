package mailer

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

type IEmailService interface {
	SendIngestFailureAlert(toEmail, sessionId, tenantId, errorMessage string) error
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
}

func NewEmailService(host string, port int, username, password, senderEmail string) IEmailService {
	d := gomail.NewDialer(host, port, username, password)
	return &emailService{
		dialer:      d,
		senderEmail: senderEmail,
	}
}

func (s *emailService) SendIngestFailureAlert(toEmail, sessionId, tenantId, errorMessage string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.senderEmail)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", fmt.Sprintf("Document ingestion failed: session %s", sessionId))

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Ingestion failure</h2>
			<p>Session <b>%s</b> (tenant <b>%s</b>) transitioned to <b>failed</b>.</p>
			<p style="color: #B00020;">%s</p>
			<p>Re-running the inject task for this session will retry ingestion.</p>
		</div>
	`, sessionId, tenantId, errorMessage)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		fmt.Printf("[MAILER ERROR] Failed to send failure alert to %s: %v\n", toEmail, err)
		return err
	}

	fmt.Printf("[MAILER] Failure alert sent to %s\n", toEmail)
	return nil
}
