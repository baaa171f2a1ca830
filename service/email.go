package service

import (
	"fmt"
	"strings"

	"cartera/config"

	"gopkg.in/gomail.v2"
)

// EmailService mails rendered period-report summaries.
type EmailService struct {
	cfg *config.EmailConfig
}

// NewEmailService creates an email service.
func NewEmailService(cfg *config.EmailConfig) *EmailService {
	return &EmailService{cfg: cfg}
}

// SendReportEmail mails the period report summary to the given address.
func (s *EmailService) SendReportEmail(toEmail, username, currency string, initDate, endDate string, rep *Report) error {
	if !s.cfg.Enabled {
		return fmt.Errorf("email service is disabled, set email.enabled=true")
	}

	subject := fmt.Sprintf("Financial report %s to %s (%s)", initDate, endDate, currency)
	body := s.generateReportEmailBody(username, currency, initDate, endDate, rep)

	return s.sendEmail(toEmail, subject, body)
}

// generateReportEmailBody renders the report summary as a small HTML document.
func (s *EmailService) generateReportEmailBody(username, currency, initDate, endDate string, rep *Report) string {
	var expenses strings.Builder
	for i, e := range rep.ListExpensives {
		if i >= 5 {
			break
		}
		expenses.WriteString(fmt.Sprintf("<tr><td>%s</td><td style=\"text-align:right;\">%s</td></tr>", e.Category, e.Amount.StringFixed(2)))
	}

	return fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <style>
        body { font-family: Arial, sans-serif; background: #f5f5f5; margin: 0; padding: 20px; }
        .container { max-width: 600px; margin: 0 auto; background: #fff; border-radius: 12px; overflow: hidden; }
        .header { background: #1d4ed8; color: white; padding: 24px; text-align: center; }
        .content { padding: 30px; }
        table { width: 100%%; border-collapse: collapse; margin: 16px 0; }
        td, th { padding: 8px; border-bottom: 1px solid #e5e7eb; text-align: left; }
        .footer { background: #f8f9fa; padding: 16px; text-align: center; color: #6c757d; font-size: 12px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>Cartera</h1>
        </div>
        <div class="content">
            <p>Hi <strong>%s</strong>, here is your report for %s to %s (%s):</p>
            <table>
                <tr><td>Income</td><td style="text-align:right;">%s</td></tr>
                <tr><td>Expenses</td><td style="text-align:right;">%s</td></tr>
                <tr><td>Opening balance</td><td style="text-align:right;">%s</td></tr>
                <tr><td><strong>Net change</strong></td><td style="text-align:right;"><strong>%s</strong></td></tr>
            </table>
            <p>Top expenses by category:</p>
            <table>%s</table>
        </div>
        <div class="footer">
            <p>Automated message, do not reply.</p>
        </div>
    </div>
</body>
</html>
`, username, initDate, endDate, currency,
		rep.OpenClose.Income.StringFixed(2),
		rep.OpenClose.Expensive.StringFixed(2),
		rep.OpenClose.OpenBalance.StringFixed(2),
		rep.OpenClose.Utility.StringFixed(2),
		expenses.String())
}

// sendEmail delivers one message over SMTP.
func (s *EmailService) sendEmail(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(s.cfg.Username, s.cfg.From))
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	d := gomail.NewDialer(s.cfg.Host, s.cfg.Port, s.cfg.Username, s.cfg.Password)

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("send email: %w", err)
	}

	return nil
}
