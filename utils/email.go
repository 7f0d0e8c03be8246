package utils

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/gomail.v2"
)

// EmailConfig holds email configuration
type EmailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

func emailConfigFromEnv() EmailConfig {
	port, err := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if err != nil || port == 0 {
		port = 587
	}
	return EmailConfig{
		Host:     os.Getenv("SMTP_HOST"),
		Port:     port,
		Username: os.Getenv("SMTP_USERNAME"),
		Password: os.Getenv("SMTP_PASSWORD"),
		From:     os.Getenv("SMTP_FROM"),
	}
}

// SendPayoutApprovedEmail notifies a manager that their withdrawal was
// approved. Delivery failures are the caller's to log; they must never
// fail the payout resolution itself.
func SendPayoutApprovedEmail(to string, amountKobo int64) error {
	config := emailConfigFromEnv()

	m := gomail.NewMessage()
	m.SetHeader("From", config.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", "Your Book Bite payout has been approved")

	body := fmt.Sprintf(`
		<h2>Payout Approved</h2>
		<p>Your withdrawal request of <strong>%s</strong> has been approved.</p>
		<p>The funds are on their way to your registered bank account.</p>
	`, FormatNaira(amountKobo))
	m.SetBody("text/html", body)

	d := gomail.NewDialer(config.Host, config.Port, config.Username, config.Password)

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %v", err)
	}
	return nil
}

// SendPayoutRejectedEmail notifies a manager that their withdrawal was
// rejected and that the funds are back in their wallet.
func SendPayoutRejectedEmail(to string, amountKobo int64, reason string) error {
	config := emailConfigFromEnv()

	m := gomail.NewMessage()
	m.SetHeader("From", config.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", "Your Book Bite payout was rejected")

	body := fmt.Sprintf(`
		<h2>Payout Rejected</h2>
		<p>Your withdrawal request of <strong>%s</strong> was rejected.</p>
		<p>Reason: %s</p>
		<p>The full amount has been returned to your wallet balance.</p>
	`, FormatNaira(amountKobo), reason)
	m.SetBody("text/html", body)

	d := gomail.NewDialer(config.Host, config.Port, config.Username, config.Password)

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %v", err)
	}
	return nil
}
