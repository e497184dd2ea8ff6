package email

import (
	"context"
	"fmt"
	"net/smtp"

	"greencart-backend/internal/shared"
	"greencart-backend/pkg/logger"
)

// EmailService sends the transactional mails the worker processes.
type EmailService interface {
	SendWelcomeEmail(ctx context.Context, data shared.WelcomeEmailPayload) error
	SendVerificationEmail(ctx context.Context, data shared.VerificationEmailPayload) error
	SendOrderConfirmation(ctx context.Context, data shared.OrderEmailPayload) error
	SendOrderCancellation(ctx context.Context, data shared.OrderEmailPayload) error
	SendPendingReminder(ctx context.Context, data shared.OrderEmailPayload) error
	SendPromotionAnnouncement(ctx context.Context, data shared.PromotionAnnouncePayload) error
	SendPriceDropAlert(ctx context.Context, to, firstName string, data shared.PriceDropPayload) error
}

type smtpEmailService struct {
	smtpAddr string
	smtpFrom string
	baseURL  string
	// announceList receives promotion announcements when the payload
	// carries no recipient.
	announceList string
}

func NewSMTPEmailService(smtpHost, smtpPort, from, baseURL string) EmailService {
	return &smtpEmailService{
		smtpAddr:     smtpHost + ":" + smtpPort,
		smtpFrom:     from,
		baseURL:      baseURL,
		announceList: "deals@greencart.com",
	}
}

func (s *smtpEmailService) SendWelcomeEmail(ctx context.Context, data shared.WelcomeEmailPayload) error {
	subject := "Welcome to GreenCart"
	body := fmt.Sprintf(`Hi %s,

Welcome to GreenCart! Your account is ready.

Browse our catalog and start filling your cart with sustainable goods.

The GreenCart team`, data.FirstName)

	return s.send(data.Email, subject, body)
}

func (s *smtpEmailService) SendVerificationEmail(ctx context.Context, data shared.VerificationEmailPayload) error {
	verifyLink := fmt.Sprintf("%s/api/v1/auth/verify-email?token=%s", s.baseURL, data.Token)

	subject := "Verify your GreenCart email address"
	body := fmt.Sprintf(`Hi,

Please click the link below to verify your email address:
%s

The link is valid for 48 hours.

If you did not create a GreenCart account, you can ignore this email.`, verifyLink)

	return s.send(data.Email, subject, body)
}

func (s *smtpEmailService) SendOrderConfirmation(ctx context.Context, data shared.OrderEmailPayload) error {
	subject := fmt.Sprintf("Order %s confirmed", data.OrderNumber)
	body := fmt.Sprintf(`Hi %s,

Thanks for your order! We have received order %s for a total of %s.

We will let you know as soon as it ships.

The GreenCart team`, data.FirstName, data.OrderNumber, data.Total.StringFixed(2))

	return s.send(data.Email, subject, body)
}

func (s *smtpEmailService) SendOrderCancellation(ctx context.Context, data shared.OrderEmailPayload) error {
	subject := fmt.Sprintf("Order %s cancelled", data.OrderNumber)
	body := fmt.Sprintf(`Hi %s,

Your order %s has been cancelled. Any reserved stock has been released.

If you did not request this cancellation, please contact support.

The GreenCart team`, data.FirstName, data.OrderNumber)

	return s.send(data.Email, subject, body)
}

func (s *smtpEmailService) SendPendingReminder(ctx context.Context, data shared.OrderEmailPayload) error {
	subject := fmt.Sprintf("Your order %s is waiting", data.OrderNumber)
	body := fmt.Sprintf(`Hi %s,

Your order %s (total %s) is still pending. Complete the payment to get it on its way.

The GreenCart team`, data.FirstName, data.OrderNumber, data.Total.StringFixed(2))

	return s.send(data.Email, subject, body)
}

func (s *smtpEmailService) SendPromotionAnnouncement(ctx context.Context, data shared.PromotionAnnouncePayload) error {
	to := data.Email
	if to == "" {
		to = s.announceList
	}

	subject := fmt.Sprintf("New at GreenCart: %s", data.Name)
	body := fmt.Sprintf(`The %s promotion is now live.`, data.Name)
	if data.CouponCode != nil {
		body += fmt.Sprintf("\n\nUse coupon code %s at checkout.", *data.CouponCode)
	}
	body += "\n\nThe GreenCart team"

	return s.send(to, subject, body)
}

func (s *smtpEmailService) SendPriceDropAlert(ctx context.Context, to, firstName string, data shared.PriceDropPayload) error {
	if firstName == "" {
		firstName = "there"
	}

	subject := fmt.Sprintf("Price alert: %s is on sale", data.ProductName)
	body := fmt.Sprintf(`Hi %s,

Good news! %s from your wishlist has updated pricing:`, firstName, data.ProductName)
	if data.NewPrice.LessThan(data.OldPrice) {
		body += fmt.Sprintf("\n- Price dropped from %s to %s",
			data.OldPrice.StringFixed(2), data.NewPrice.StringFixed(2))
	}
	if data.NewDiscountPct.GreaterThan(data.OldDiscountPct) {
		body += fmt.Sprintf("\n- Now %s%% off (previously %s%%)",
			data.NewDiscountPct.StringFixed(2), data.OldDiscountPct.StringFixed(2))
	}
	body += "\n\nThe GreenCart team"

	return s.send(to, subject, body)
}

func (s *smtpEmailService) send(to, subject, body string) error {
	msg := []byte(fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s",
		s.smtpFrom, to, subject, body))

	if err := smtp.SendMail(s.smtpAddr, nil, s.smtpFrom, []string{to}, msg); err != nil {
		logger.Info("Failed to send email", map[string]interface{}{
			"error":     err.Error(),
			"to":        to,
			"smtp_addr": s.smtpAddr,
		})
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
