package notification

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
	"time"

	internal "github.com/frahmantamala/course-platform/internal"
)

// SMTPMailer sends transactional mail over plain SMTP. It implements
// the notifier interfaces consumed by the auth and entitlement
// services.
type SMTPMailer struct {
	host     string
	port     int
	from     string
	password string
	logger   *slog.Logger
}

func NewSMTPMailer(cfg internal.MailConfig, logger *slog.Logger) *SMTPMailer {
	return &SMTPMailer{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		from:     cfg.From,
		password: cfg.Password,
		logger:   logger,
	}
}

func (m *SMTPMailer) send(to, subject, body string) error {
	addr := fmt.Sprintf("%s:%d", m.host, m.port)
	msg := []byte(fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=\"utf-8\"\r\n\r\n%s\r\n",
		m.from, to, subject, body))

	auth := smtp.PlainAuth("", m.from, m.password, m.host)
	if err := smtp.SendMail(addr, auth, m.from, []string{to}, msg); err != nil {
		m.logger.Error("smtp send failed", "error", err, "to", to, "subject", subject)
		return fmt.Errorf("smtp send: %w", err)
	}

	m.logger.Info("mail sent", "to", to, "subject", subject)
	return nil
}

func (m *SMTPMailer) SendOTP(email, code string) error {
	body := fmt.Sprintf(
		"Your verification code is %s.\n\nIt expires in 5 minutes. If you did not request this code, ignore this email.",
		code)
	return m.send(email, "Your verification code", body)
}

func (m *SMTPMailer) SendPurchaseReceipt(ctx context.Context, email, itemName string, amount int64, currency, orderID, paymentID string) error {
	body := fmt.Sprintf(
		"Thank you for your purchase.\n\nItem: %s\nAmount: %d %s\nOrder: %s\nPayment: %s\n\nYou now have full access from your account.",
		itemName, amount, currency, orderID, paymentID)
	return m.send(email, fmt.Sprintf("Receipt for %s", itemName), body)
}

func (m *SMTPMailer) SendJoinLink(ctx context.Context, email, eventName, joinLink string, startsAt time.Time) error {
	body := fmt.Sprintf(
		"Your registration for %s is confirmed.\n\nStarts: %s\nJoin link: %s\n\nSee you there.",
		eventName, startsAt.Format(time.RFC1123), joinLink)
	return m.send(email, fmt.Sprintf("Join link for %s", eventName), body)
}
