// Package notify sends applicant-facing mail when the pipeline asks for
// it. Delivery failures are logged, never surfaced to the transition
// flow: a down SMTP relay must not block a stage change.
package notify

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"

	// Load env
	_ "github.com/joho/godotenv/autoload"
	"gopkg.in/gomail.v2"

	"github.com/MSMelok/FlixHiringManagement/internal/pipeline"
)

// Sender delivers a single message
type Sender interface {
	Send(to, subject, body string) error
}

// SMTPSender sends through a configured SMTP relay using gomail
type SMTPSender struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTPSenderFromEnv builds a sender from SMTP_* environment variables.
// Returns a nil Sender when SMTP_HOST is unset so callers can skip
// notifications; the interface return keeps a typed nil pointer from ever
// reaching the notifier's nil check.
func NewSMTPSenderFromEnv() Sender {
	host := os.Getenv("SMTP_HOST")
	if host == "" {
		log.Println("SMTP_HOST not set, stage notifications disabled")
		return nil
	}

	port, err := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if err != nil {
		port = 587
	}

	return &SMTPSender{
		dialer: gomail.NewDialer(host, port, os.Getenv("SMTP_USERNAME"), os.Getenv("SMTP_PASSWORD")),
		from:   os.Getenv("SMTP_FROM"),
	}
}

// Send delivers one message through the relay. Safe on a nil receiver so
// a typed nil wrapped in the Sender interface degrades to a logged error
// instead of a panic.
func (s *SMTPSender) Send(to, subject, body string) error {
	if s == nil || s.dialer == nil {
		return errors.New("smtp sender not configured")
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)
	return s.dialer.DialAndSend(m)
}

// StageNotifier mails applicants when they enter a stage that reaches out
// to them. Only the two email stages trigger mail.
type StageNotifier struct {
	Sender Sender
}

// NewStageNotifier wraps a sender; a nil sender disables notifications
func NewStageNotifier(sender Sender) *StageNotifier {
	return &StageNotifier{Sender: sender}
}

var stageSubjects = map[pipeline.Stage]string{
	pipeline.StageChallengeEmail: "Your coding challenge is ready",
	pipeline.StageEquipmentEmail: "Equipment setup for your next step",
}

// NotifyStageChange sends the stage's templated mail, if the stage has
// one. Runs in the caller's goroutine; callers wanting fire-and-forget
// wrap it themselves.
func (n *StageNotifier) NotifyStageChange(email, fullName string, stage pipeline.Stage) {
	if n == nil || n.Sender == nil {
		return
	}

	subject, ok := stageSubjects[stage]
	if !ok {
		return
	}

	body := fmt.Sprintf("Hi %s,\n\nYou have been moved to the %s step of our hiring process. Please check your inbox for the details.\n\nFlix Hiring Team", fullName, pipeline.Label(stage))
	if err := n.Sender.Send(email, subject, body); err != nil {
		log.Printf("failed to send %s notification to %s: %v", stage, email, err)
	}
}
