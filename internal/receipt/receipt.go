// Package receipt renders and emails HTML payment receipts.
package receipt

import (
	"bytes"
	"fmt"
	"html/template"
	"log/slog"
	"net/smtp"
	"strings"
	"time"
	"unicode"

	"github.com/dwgops/pospay/internal/domain"
)

var receiptTmpl = template.Must(template.New("receipt").Parse(`<!DOCTYPE html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>EFTPOS Receipt</title>
  </head>
  <body style="font-family: Helvetica, Arial, sans-serif; color: #333;">
    <table width="100%" cellpadding="0" cellspacing="0">
      <tr><td>
        <h1 style="font-size: 22px;">Payment receipt{{if .Name}} for{{.Name}}{{end}}</h1>
        <p>Thank you for your payment. This receipt confirms the charge below.</p>
        <table cellpadding="6" cellspacing="0" style="border: 1px solid #ddd;">
          <tr><td><strong>Amount</strong></td><td>{{.Amount}}</td></tr>
          <tr><td><strong>Date</strong></td><td>{{.Date}}</td></tr>
          <tr><td><strong>Reference</strong></td><td>{{.AuthCode}}</td></tr>
        </table>
        <p style="font-size: 12px; color: #888;">
          Keep this reference in case you need to query the payment.
        </p>
      </td></tr>
    </table>
  </body>
</html>
`))

// Details fills the receipt template.
type Details struct {
	Name     string
	Amount   string
	Date     string
	AuthCode string
}

// Render produces the receipt HTML. The customer label arrives as
// "12345 Smith"; account digits are stripped so the greeting only carries
// the name, and an all-numeric label renders with no name at all.
func Render(name, amount string, when time.Time, authCode string) (string, error) {
	d := Details{
		Name:     displayName(name),
		Amount:   amount,
		Date:     when.Format("02-01-2006 15:04:05"),
		AuthCode: authCode,
	}
	var buf bytes.Buffer
	if err := receiptTmpl.Execute(&buf, d); err != nil {
		return "", fmt.Errorf("render receipt: %w", err)
	}
	return buf.String(), nil
}

func displayName(label string) string {
	if label == "" || isNumeric(label) {
		return ""
	}
	var b strings.Builder
	for _, r := range label {
		if !unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	name := strings.Trim(b.String(), "- ")
	if name == "" {
		return ""
	}
	return " " + name
}

func isNumeric(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return len(s) > 0
}

// Sender dispatches a rendered receipt to an address.
type Sender interface {
	Send(to, htmlBody string) error
}

// SMTPSender sends receipts through a plain SMTP relay.
type SMTPSender struct {
	addr    string // host:port
	from    string
	subject string
	auth    smtp.Auth
	logger  *slog.Logger
}

func NewSMTPSender(addr, from, username, password string, logger *slog.Logger) *SMTPSender {
	s := &SMTPSender{
		addr:    addr,
		from:    from,
		subject: "EFTPOS receipt",
		logger:  logger,
	}
	if username != "" {
		host := addr
		if i := strings.IndexByte(addr, ':'); i >= 0 {
			host = addr[:i]
		}
		s.auth = smtp.PlainAuth("", username, password, host)
	}
	return s
}

// Send delivers the receipt. The caller decides whether a failure is
// surfaced to the operator or only logged.
func (s *SMTPSender) Send(to, htmlBody string) error {
	msg := strings.Join([]string{
		"From: " + s.from,
		"To: " + to,
		"Subject: " + s.subject,
		"MIME-Version: 1.0",
		"Content-Type: text/html; charset=\"UTF-8\"",
		"",
		htmlBody,
	}, "\r\n")

	if err := smtp.SendMail(s.addr, s.auth, s.from, []string{to}, []byte(msg)); err != nil {
		s.logger.Error("receipt email failed", "to", to, "error", err)
		return domain.E(domain.KindNotification, "send receipt", err)
	}
	s.logger.Info("receipt sent", "to", to)
	return nil
}
