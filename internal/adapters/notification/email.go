package notification

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"loanflow-backend/internal/adapters/persistence/models"
	"loanflow-backend/internal/config"
)

// SMTPMailer sends the disbursement confirmation email. With no SMTP host
// configured the mailer is disabled and sends are no-ops.
type SMTPMailer struct {
	cfg     config.MailConfig
	enabled bool

	// send is swappable for tests
	send func(addr string, auth smtp.Auth, from string, to []string, msg []byte) error
}

// NewSMTPMailer creates a new SMTP mailer
func NewSMTPMailer(cfg config.MailConfig) *SMTPMailer {
	return &SMTPMailer{
		cfg:     cfg,
		enabled: cfg.Host != "",
		send:    smtp.SendMail,
	}
}

// IsEnabled checks if email delivery is enabled
func (m *SMTPMailer) IsEnabled() bool {
	return m.enabled
}

// SendDisbursementNotice emails the applicant that their loan was disbursed
func (m *SMTPMailer) SendDisbursementNotice(ctx context.Context, to string, loan *models.LoanApplication) error {
	if !m.enabled {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	subject := fmt.Sprintf("Pencairan Pinjaman #%d", loan.ID)
	body := fmt.Sprintf(
		"Dana pinjaman #%d sebesar Rp %.2f telah dicairkan ke rekening Anda.\r\n"+
			"Total yang harus dibayar: Rp %.2f dalam %d bulan.\r\n\r\n"+
			"Terima kasih telah menggunakan layanan kami.",
		loan.ID, loan.Amount, loan.TotalPayable, loan.TenureMonths)

	msg := strings.Join([]string{
		"From: " + m.cfg.From,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		body,
	}, "\r\n")

	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}

	addr := m.cfg.Host + ":" + m.cfg.Port
	return m.send(addr, auth, m.cfg.From, []string{to}, []byte(msg))
}
