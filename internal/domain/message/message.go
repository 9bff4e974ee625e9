// Package message holds messages sent through the contact form.
package message

import (
	"fmt"
	"strings"
	"time"

	"github.com/kailas-cloud/lostfound/internal/domain"
	"github.com/kailas-cloud/lostfound/internal/domain/item"
)

// Status tracks whether an operator has read a message.
type Status string

const (
	StatusUnread Status = "unread"
	StatusRead   Status = "read"
)

// Valid reports whether s is a known message status.
func (s Status) Valid() bool {
	return s == StatusUnread || s == StatusRead
}

// Length limits.
const (
	MaxNameLen    = 200
	MaxSubjectLen = 200
	MaxBodyLen    = 5000
)

// Message is a contact form submission.
type Message struct {
	ID        string
	Name      string
	Email     string
	Subject   string
	Body      string
	Status    Status
	CreatedAt time.Time
}

// Validate trims the message and checks every field is present and bounded.
func (m *Message) Validate() error {
	m.Name = strings.TrimSpace(m.Name)
	m.Email = strings.TrimSpace(m.Email)
	m.Subject = strings.TrimSpace(m.Subject)
	m.Body = strings.TrimSpace(m.Body)

	required := []struct{ name, value string }{
		{"name", m.Name},
		{"email", m.Email},
		{"subject", m.Subject},
		{"message", m.Body},
	}
	for _, r := range required {
		if r.value == "" {
			return fmt.Errorf("%s is required: %w", r.name, domain.ErrValidation)
		}
	}
	if len(m.Name) > MaxNameLen || len(m.Subject) > MaxSubjectLen {
		return fmt.Errorf("name or subject too long (max %d): %w", MaxSubjectLen, domain.ErrValidation)
	}
	if len(m.Body) > MaxBodyLen {
		return fmt.Errorf("message too long (max %d): %w", MaxBodyLen, domain.ErrValidation)
	}
	if err := item.ValidateEmail(m.Email); err != nil {
		return fmt.Errorf("%w: %w", err, domain.ErrValidation)
	}
	return nil
}
