// Package notify publishes account notifications (password and email
// changes, verification requests). Delivery is best effort.
package notify

import (
	"context"
	"encoding/json"
	"log"
	"time"
)

type Kind string

const (
	KindPasswordChange Kind = "password_change"
	KindEmailChange    Kind = "email_change"
	KindVerifyEmail    Kind = "verify_email"
)

// Message is one outgoing notification. A mail worker consumes these from
// the queue and renders them.
type Message struct {
	Type    Kind      `json:"type"`
	UserID  string    `json:"userId,omitempty"`
	To      string    `json:"to"`
	Subject string    `json:"subject"`
	At      time.Time `json:"at"`
}

type Notifier interface {
	Notify(ctx context.Context, msg Message) error
}

func (m Message) encode() ([]byte, error) {
	return json.Marshal(m)
}

// PasswordChanged builds the notice sent after a password change.
func PasswordChanged(userID, email string) Message {
	return Message{
		Type:    KindPasswordChange,
		UserID:  userID,
		To:      email,
		Subject: "Your Password Has Been Changed - Afroditi's Delicacies",
	}
}

// EmailChanged builds the two notices sent after an email change: one to the
// old address, one to the new.
func EmailChanged(userID, oldEmail, newEmail string) []Message {
	return []Message{
		{Type: KindEmailChange, UserID: userID, To: oldEmail, Subject: "Email Address Changed - Afroditi's Delicacies"},
		{Type: KindEmailChange, UserID: userID, To: newEmail, Subject: "Welcome to Your New Email - Afroditi's Delicacies"},
	}
}

func VerifyEmail(userID, email string) Message {
	return Message{
		Type:    KindVerifyEmail,
		UserID:  userID,
		To:      email,
		Subject: "Verify your email - Afroditi's Delicacies",
	}
}

// BestEffort sends every message and logs failures. It never returns an error.
func BestEffort(ctx context.Context, n Notifier, msgs ...Message) {
	if n == nil {
		return
	}
	for _, m := range msgs {
		if m.To == "" {
			continue
		}
		if m.At.IsZero() {
			m.At = time.Now()
		}
		if err := n.Notify(ctx, m); err != nil {
			log.Printf("⚠️ %s notification to %s not sent: %v", m.Type, m.To, err)
		}
	}
}

// LogNotifier writes notifications to the log. Used when no broker is configured.
type LogNotifier struct{}

func (LogNotifier) Notify(_ context.Context, msg Message) error {
	log.Printf("📧 %s -> %s: %s", msg.Type, msg.To, msg.Subject)
	return nil
}
