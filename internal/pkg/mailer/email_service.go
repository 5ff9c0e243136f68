package mailer

import (
	"fmt"
	"os"

	"gopkg.in/gomail.v2"
)

type IEmailService interface {
	SendVerification(toEmail, token string) error
	SendDiscountApplied(toEmail string, newMonthlyCents int64, percentOff int) error
	SendCancellationConfirmed(toEmail, effectiveDate string) error
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
	frontendURL string
}

func NewEmailService(host string, port int, username, password, senderEmail string) IEmailService {
	d := gomail.NewDialer(host, port, username, password)

	frontendURL := os.Getenv("FRONTEND_URL")

	return &emailService{
		dialer:      d,
		senderEmail: senderEmail,
		frontendURL: frontendURL,
	}
}

func (s *emailService) send(toEmail, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.senderEmail)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		fmt.Printf("[MAILER ERROR] Failed to send %q to %s: %v\n", subject, toEmail, err)
		return err
	}

	fmt.Printf("[MAILER] %q sent to %s\n", subject, toEmail)
	return nil
}

func (s *emailService) SendVerification(toEmail, token string) error {
	verifyLink := fmt.Sprintf("%s/verify-email?token=%s", s.frontendURL, token)

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Welcome to Trade Alerts!</h2>
			<p>Click the button below to verify your email address:</p>
			<a href="%s" style="background-color: #007BFF; color: white; padding: 10px 20px; text-decoration: none; border-radius: 5px; display: inline-block;">Verify Email</a>
			<p>Or copy this link:</p>
			<p>%s</p>
			<p>This link will expire in 24 hours.</p>
			<p>If you didn't create an account, please ignore this email.</p>
		</div>
	`, verifyLink, verifyLink)

	return s.send(toEmail, "Verify Your Email", body)
}

func (s *emailService) SendDiscountApplied(toEmail string, newMonthlyCents int64, percentOff int) error {
	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Your New Price Is Locked In</h2>
			<p>Your membership now renews at <strong>$%.2f/month</strong> (%d%% off).</p>
			<p>The discount applies from your next billing cycle onward.</p>
		</div>
	`, float64(newMonthlyCents)/100, percentOff)

	return s.send(toEmail, "Discount Applied to Your Membership", body)
}

func (s *emailService) SendCancellationConfirmed(toEmail, effectiveDate string) error {
	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Your Membership Has Been Cancelled</h2>
			<p>You will keep full access until <strong>%s</strong>.</p>
			<p>Changed your mind? You can resubscribe any time from your account page.</p>
		</div>
	`, effectiveDate)

	return s.send(toEmail, "Cancellation Confirmed", body)
}
