package mail

import (
	"fmt"
	"log"
	"net/smtp"
	"time"

	"github.com/civiceye/CivicEye/internal/pkg/env"
	"github.com/civiceye/CivicEye/internal/pkg/otp"
)

// SendMail sends a plain-text email via SMTP.
func SendMail(to string, subject string, body string) error {
	host := env.GetEnv("SMTP_HOST", "")
	port := env.GetEnv("SMTP_PORT", "")
	username := env.GetEnv("SMTP_USERNAME", "")
	password := env.GetEnv("SMTP_PASSWORD", "")
	sender := env.GetEnv("SMTP_SENDER", "")

	if sender == "" {
		sender = fmt.Sprintf("no-reply@%s", "localhost")
		log.Printf("SMTP_SENDER not set, using default sender: %s", sender)
	}

	var auth smtp.Auth
	if username != "" && password != "" {
		auth = smtp.PlainAuth("", username, password, host)
	}

	addr := fmt.Sprintf("%s:%s", host, port)

	msg := []byte(
		fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n", sender, to, subject) +
			"MIME-Version: 1.0\r\n" +
			"Content-Type: text/plain; charset=UTF-8\r\n\r\n" +
			body,
	)

	err := smtp.SendMail(addr, auth, sender, []string{to}, msg)
	if err != nil {
		log.Printf("SMTP send error: %v", err)
	}
	return err
}

// SendOtpEmail sends a one-time code for registration or password reset.
func SendOtpEmail(to, firstName, lastName, code, purpose string) error {
	greeting := "Hello,"
	if firstName != "" {
		greeting = fmt.Sprintf("Hello %s %s,", firstName, lastName)
	}

	var subject, intro string
	switch purpose {
	case otp.PurposeRegistration:
		subject = "Verify Your Registration - OTP Code"
		intro = "Thank you for registering with the CivicEye incident reporting platform."
	default:
		subject = "Password Reset - OTP Code"
		intro = "We received a request to reset your password."
	}

	body := fmt.Sprintf(
		"%s\n\n%s\n\nYour verification code is: %s\n\nThis code will expire in 10 minutes.\n\n"+
			"If you did not request this, please ignore this email.\n\nBest regards,\nThe CivicEye Team\n\n© %d All rights reserved.",
		greeting, intro, code, time.Now().Year(),
	)

	return SendMail(to, subject, body)
}
